package domain

import "fmt"

// Phase is the lifecycle stage of a Twenty-Five match.
type Phase string

const (
	// PhaseWaiting is the pre-deal state while seats fill.
	PhaseWaiting Phase = "waiting"
	// PhaseDealing covers shuffle, deal and trump turn-up.
	PhaseDealing Phase = "dealing"
	// PhaseRobbing is the window where eligible seats may take the turn-up.
	PhaseRobbing Phase = "robbing"
	// PhasePlaying is active trick play.
	PhasePlaying Phase = "playing"
	// PhaseTrickComplete is the deliberate pause between a trick filling
	// and the trick being cleared.
	PhaseTrickComplete Phase = "trickComplete"
	// PhaseHandComplete pauses between a decided hand and the next deal.
	PhaseHandComplete Phase = "handComplete"
	// PhaseGameOver is terminal for the match.
	PhaseGameOver Phase = "gameOver"
)

// RuleConfig is the table configuration fixed at match start.
type RuleConfig struct {
	// TargetScore decides a hand; 25 in the standard game.
	TargetScore int `json:"target_score"`
	// HandsToWin decides the match.
	HandsToWin int `json:"hands_to_win"`
	// PointsPerTrick is almost always 5.
	PointsPerTrick int `json:"points_per_trick"`
	// TeamCount groups seats into teams when > 0 (seat mod TeamCount);
	// zero means every seat scores for itself.
	TeamCount int `json:"team_count"`
}

// DefaultRules returns the standard table configuration.
func DefaultRules() RuleConfig {
	return RuleConfig{
		TargetScore:    25,
		HandsToWin:     1,
		PointsPerTrick: PointsPerTrick,
	}
}

// Game is the full authoritative state of one match. Exactly one logical
// owner mutates it; everyone else sees serialized snapshots.
type Game struct {
	Phase      Phase
	NumPlayers int
	Rules      RuleConfig

	Dealer        int
	CurrentPlayer int

	TrumpSuit         Suit
	TrumpCard         Card
	TrumpCardConsumed bool
	TrumpCardIsAce    bool

	Hands [][]Card
	Pack  []Card

	CurrentTrick         Trick
	FirstPlayerThisTrick int
	TrickWinner          int

	// Robbers is the ordered eligibility list for the current hand;
	// RobberIndex points at the seat currently deciding (-1 outside the
	// robbing phase).
	Robbers     []int
	RobberIndex int

	// Scores is seat-indexed, or team-indexed when Rules.TeamCount > 0.
	Scores     []int
	HandWins   []int
	HandWinner int

	HandNumber      int
	TricksCompleted int
}

// NewGame builds a waiting-phase game for the given table size.
func NewGame(numPlayers int, rules RuleConfig) (*Game, error) {
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("player count %d outside %d..%d", numPlayers, MinPlayers, MaxPlayers)
	}
	if rules.TargetScore <= 0 || rules.PointsPerTrick <= 0 || rules.HandsToWin <= 0 {
		return nil, fmt.Errorf("invalid rule config %+v", rules)
	}
	return &Game{
		Phase:       PhaseWaiting,
		NumPlayers:  numPlayers,
		Rules:       rules,
		Dealer:      0,
		RobberIndex: -1,
		TrickWinner: -1,
		HandWinner:  -1,
		Hands:       make([][]Card, numPlayers),
		Scores:      make([]int, scoreSlots(numPlayers, rules)),
		HandWins:    make([]int, scoreSlots(numPlayers, rules)),
	}, nil
}

func scoreSlots(numPlayers int, rules RuleConfig) int {
	if rules.TeamCount > 0 {
		return rules.TeamCount
	}
	return numPlayers
}

// ScoreIndex maps a seat onto its entry in Scores/HandWins.
func (g *Game) ScoreIndex(seat int) int {
	if g.Rules.TeamCount > 0 {
		return seat % g.Rules.TeamCount
	}
	return seat
}

// NextSeat returns the seat after the given one in play order.
func (g *Game) NextSeat(seat int) int {
	return (seat + 1) % g.NumPlayers
}

// RobberSeat returns the seat currently deciding whether to rob, or -1.
func (g *Game) RobberSeat() int {
	if g.Phase != PhaseRobbing || g.RobberIndex < 0 || g.RobberIndex >= len(g.Robbers) {
		return -1
	}
	return g.Robbers[g.RobberIndex]
}

// HandsEmpty reports whether every seat has played out its hand.
func (g *Game) HandsEmpty() bool {
	for _, h := range g.Hands {
		if len(h) > 0 {
			return false
		}
	}
	return true
}

// CardsInPlay counts hand cards, pack cards, cards sitting in the current
// trick and the unconsumed turn-up. Within a hand this plus the cards of
// completed tricks is the deck size; the rob discard is returned to the
// bottom of the pack to preserve the count.
func (g *Game) CardsInPlay() int {
	n := len(g.Pack) + len(g.CurrentTrick.Cards)
	for _, h := range g.Hands {
		n += len(h)
	}
	if !g.TrumpCardConsumed {
		n++
	}
	return n
}
