package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"twentyfive/internal/domain"
)

// Service contains the Twenty-Five state machine transitions. All methods
// follow the same contract: guard first, mutate only when every guard and
// rule check passes, then return the events the transition produced. A
// returned error means the game was left untouched.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrWrongPhase  = errors.New("phase does not accept this action")
	ErrNotYourTurn = errors.New("acting seat is not the current player")
	ErrNotRobber   = errors.New("acting seat is not the deciding robber")
	ErrRobForced   = errors.New("turned-up ace must be taken by the dealer")
	ErrCardNotHeld = errors.New("card not in hand")
	ErrInvalidSeat = errors.New("seat out of range")
)

// IllegalPlayError carries the rules-engine reason a play was rejected.
type IllegalPlayError struct {
	Reason domain.PlayReason
}

func (e *IllegalPlayError) Error() string {
	return fmt.Sprintf("illegal play: %s", e.Reason)
}

// StartHand shuffles, deals, turns up trump and enters the robbing phase,
// or straight into play when no seat may rob.
func (s *Service) StartHand(g *domain.Game) ([]Event, error) {
	if g.Phase != domain.PhaseWaiting && g.Phase != domain.PhaseDealing {
		return nil, ErrWrongPhase
	}

	deck := domain.Shuffle(domain.NewDeck(), s.rng)
	hands, trumpCard, pack := domain.Deal(deck, g.NumPlayers)

	g.Hands = hands
	g.Pack = pack
	g.TrumpCard = trumpCard
	g.TrumpSuit = trumpCard.Suit
	g.TrumpCardConsumed = false
	g.TrumpCardIsAce = trumpCard.Rank == domain.RankAce

	g.HandNumber++
	g.TricksCompleted = 0
	g.Scores = make([]int, len(g.Scores))
	g.HandWinner = -1
	g.TrickWinner = -1

	leader := g.NextSeat(g.Dealer)
	g.FirstPlayerThisTrick = leader
	g.CurrentTrick = domain.NewTrick(leader)
	g.CurrentPlayer = leader

	events := []Event{{
		Kind: EventHandStarted,
		Payload: HandStartedPayload{
			HandNumber:     g.HandNumber,
			Dealer:         g.Dealer,
			TrumpCard:      g.TrumpCard,
			TrumpSuit:      g.TrumpSuit,
			TrumpCardIsAce: g.TrumpCardIsAce,
		},
	}}
	for seat := 0; seat < g.NumPlayers; seat++ {
		events = append(events, Event{
			Kind:    EventHandDealt,
			Payload: HandDealtPayload{Seat: seat, Hand: g.Hands[seat]},
			Seats:   []int{seat},
		})
	}

	g.Robbers = domain.EligibleRobbers(g.Hands, g.TrumpCard, g.Dealer)
	if len(g.Robbers) > 0 {
		g.Phase = domain.PhaseRobbing
		g.RobberIndex = 0
		events = append(events, Event{
			Kind:    EventRobTurn,
			Payload: RobTurnPayload{Seat: g.Robbers[0], Forced: g.TrumpCardIsAce},
		})
	} else {
		g.Phase = domain.PhasePlaying
		g.RobberIndex = -1
	}
	return events, nil
}

// Rob swaps discard out of the acting seat's hand for the face-up trump
// card and ends the robbing phase. The discard goes to the bottom of the
// pack so the hand's card count is preserved.
func (s *Service) Rob(g *domain.Game, seat int, discard domain.Card) ([]Event, error) {
	if g.Phase != domain.PhaseRobbing {
		return nil, ErrWrongPhase
	}
	if seat != g.RobberSeat() {
		return nil, ErrNotRobber
	}
	hand, ok := domain.RemoveCard(g.Hands[seat], discard)
	if !ok {
		return nil, ErrCardNotHeld
	}

	g.Hands[seat] = append(hand, g.TrumpCard)
	g.Pack = append(g.Pack, discard)
	g.TrumpCardConsumed = true
	g.Phase = domain.PhasePlaying
	g.RobberIndex = -1
	g.Robbers = nil

	return []Event{
		{Kind: EventTrumpRobbed, Payload: TrumpRobbedPayload{Seat: seat}},
		{Kind: EventHandDealt, Payload: HandDealtPayload{Seat: seat, Hand: g.Hands[seat]}, Seats: []int{seat}},
	}, nil
}

// DeclineRob passes the robbing decision to the next eligible seat, or ends
// the robbing phase when none remain. A turned-up ace cannot be declined.
func (s *Service) DeclineRob(g *domain.Game, seat int) ([]Event, error) {
	if g.Phase != domain.PhaseRobbing {
		return nil, ErrWrongPhase
	}
	if seat != g.RobberSeat() {
		return nil, ErrNotRobber
	}
	if g.TrumpCardIsAce {
		return nil, ErrRobForced
	}

	events := []Event{{Kind: EventRobDeclined, Payload: RobDeclinedPayload{Seat: seat}}}
	g.RobberIndex++
	if g.RobberIndex >= len(g.Robbers) {
		g.Phase = domain.PhasePlaying
		g.RobberIndex = -1
		g.Robbers = nil
		return events, nil
	}
	events = append(events, Event{
		Kind:    EventRobTurn,
		Payload: RobTurnPayload{Seat: g.Robbers[g.RobberIndex]},
	})
	return events, nil
}

// PlayCard validates and applies one play. A completed trick is scored
// immediately and the game pauses in trickComplete until AdvanceTrick.
func (s *Service) PlayCard(g *domain.Game, seat int, card domain.Card) ([]Event, error) {
	if g.Phase != domain.PhasePlaying {
		return nil, ErrWrongPhase
	}
	if seat < 0 || seat >= g.NumPlayers {
		return nil, ErrInvalidSeat
	}
	if seat != g.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	verdict := domain.CheckPlay(card, g.Hands[seat], g.CurrentTrick, g.TrumpSuit)
	if !verdict.Valid {
		if verdict.Reason == domain.ReasonCardNotHeld {
			return nil, ErrCardNotHeld
		}
		return nil, &IllegalPlayError{Reason: verdict.Reason}
	}

	g.Hands[seat], _ = domain.RemoveCard(g.Hands[seat], card)
	g.CurrentTrick.Add(seat, card)

	if !g.CurrentTrick.Full(g.NumPlayers) {
		g.CurrentPlayer = g.NextSeat(seat)
		return []Event{{
			Kind:    EventCardPlayed,
			Payload: CardPlayedPayload{Seat: seat, Card: card, NextSeat: g.CurrentPlayer},
		}}, nil
	}

	winner := domain.ResolveTrick(g.CurrentTrick, g.TrumpSuit)
	g.TrickWinner = winner
	g.TricksCompleted++
	g.Scores = domain.ScoreTrick(g.Scores, g.ScoreIndex(winner), g.Rules.PointsPerTrick)
	g.Phase = domain.PhaseTrickComplete

	return []Event{
		{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: seat, Card: card, NextSeat: winner}},
		{Kind: EventTrickEnded, Payload: TrickEndedPayload{
			Winner: winner,
			Points: g.Rules.PointsPerTrick,
			Scores: append([]int(nil), g.Scores...),
		}},
	}, nil
}

// AdvanceTrick is the explicit entry point the surrounding layer calls once
// the trick-complete pause has elapsed. It either finishes the hand, redeals
// from the pack, falls back to highest-score when the pack is spent, or
// clears the trick with the winner leading.
func (s *Service) AdvanceTrick(g *domain.Game) ([]Event, error) {
	if g.Phase != domain.PhaseTrickComplete {
		return nil, ErrWrongPhase
	}
	winner := g.TrickWinner

	if idx := domain.CheckHandWinner(g.Scores, g.Rules.TargetScore); idx >= 0 {
		return s.completeHand(g, idx, false), nil
	}

	if g.HandsEmpty() {
		hands, rest, ok := domain.RedealFromPack(g.Pack, g.NumPlayers)
		if !ok {
			return s.completeHand(g, domain.HighestScore(g.Scores), true), nil
		}
		g.Hands = hands
		g.Pack = rest
		g.CurrentTrick = domain.NewTrick(winner)
		g.FirstPlayerThisTrick = winner
		g.CurrentPlayer = winner
		g.TrickWinner = -1
		g.Phase = domain.PhasePlaying
		events := []Event{{Kind: EventPackRedealt, Payload: PackRedealtPayload{PackRemaining: len(g.Pack)}}}
		for seat := 0; seat < g.NumPlayers; seat++ {
			events = append(events, Event{
				Kind:    EventHandDealt,
				Payload: HandDealtPayload{Seat: seat, Hand: g.Hands[seat]},
				Seats:   []int{seat},
			})
		}
		return events, nil
	}

	g.CurrentTrick = domain.NewTrick(winner)
	g.FirstPlayerThisTrick = winner
	g.CurrentPlayer = winner
	g.TrickWinner = -1
	g.Phase = domain.PhasePlaying
	return nil, nil
}

func (s *Service) completeHand(g *domain.Game, winner int, fallback bool) []Event {
	g.HandWinner = winner
	g.Phase = domain.PhaseHandComplete
	return []Event{{
		Kind: EventHandComplete,
		Payload: HandCompletePayload{
			Winner:   winner,
			Scores:   append([]int(nil), g.Scores...),
			Fallback: fallback,
		},
	}}
}

// AdvanceHand credits the hand win and either rotates the dealer into a new
// deal or ends the match once the configured number of hand wins is reached.
func (s *Service) AdvanceHand(g *domain.Game) ([]Event, error) {
	if g.Phase != domain.PhaseHandComplete {
		return nil, ErrWrongPhase
	}
	g.HandWins[g.HandWinner]++
	if g.HandWins[g.HandWinner] >= g.Rules.HandsToWin {
		winner := g.HandWinner
		g.Phase = domain.PhaseGameOver
		return []Event{{
			Kind: EventGameOver,
			Payload: GameOverPayload{
				Winner:   winner,
				HandWins: append([]int(nil), g.HandWins...),
			},
		}}, nil
	}

	g.Dealer = g.NextSeat(g.Dealer)
	g.Phase = domain.PhaseDealing
	return s.StartHand(g)
}
