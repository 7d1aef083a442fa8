package bot

import "twentyfive/internal/domain"

// Decision is the instantaneous, read-only context a brain decides from.
// Brains hold no other state, so the same Decision always yields the same
// choice.
type Decision struct {
	Seat      int
	Hand      []domain.Card
	Trick     domain.Trick
	Trump     domain.Suit
	TrumpCard domain.Card
	Legal     []domain.Card
}

// RobDecision is a brain's answer to its robbing turn.
type RobDecision struct {
	Accept  bool
	Discard domain.Card
}

// Brain is the strategy interface every difficulty implements.
type Brain interface {
	ChooseCard(d Decision) domain.Card
	ChooseRob(d Decision) RobDecision
}

// DecisionFor builds the decision context for a seat from the live game.
func DecisionFor(g *domain.Game, seat int) Decision {
	return Decision{
		Seat:      seat,
		Hand:      append([]domain.Card(nil), g.Hands[seat]...),
		Trick:     g.CurrentTrick,
		Trump:     g.TrumpSuit,
		TrumpCard: g.TrumpCard,
		Legal:     domain.LegalPlays(g.Hands[seat], g.CurrentTrick, g.TrumpSuit),
	}
}
