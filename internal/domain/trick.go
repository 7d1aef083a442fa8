package domain

// TrickCard is one card played into the current trick.
type TrickCard struct {
	Seat int  `json:"seat"`
	Card Card `json:"card"`
}

// Trick is the ordered sequence of plays for the round in progress. Every
// seat appears at most once; the trick resets each time it fills.
type Trick struct {
	Cards  []TrickCard
	Leader int
}

// NewTrick starts an empty trick led by the given seat.
func NewTrick(leader int) Trick {
	return Trick{Leader: leader}
}

// Add appends a play to the trick.
func (t *Trick) Add(seat int, card Card) {
	t.Cards = append(t.Cards, TrickCard{Seat: seat, Card: card})
}

// HasPlayed reports whether the seat already contributed to this trick.
func (t Trick) HasPlayed(seat int) bool {
	for _, tc := range t.Cards {
		if tc.Seat == seat {
			return true
		}
	}
	return false
}

// Full reports whether every seat has played.
func (t Trick) Full(numPlayers int) bool {
	return len(t.Cards) >= numPlayers
}

// LedSuit returns the effective suit of the trick's first card, mapping a
// trump-strength lead (including the Ace of Hearts) onto the trump suit.
// ok is false while the trick is empty.
func (t Trick) LedSuit(trump Suit) (Suit, bool) {
	if len(t.Cards) == 0 {
		return 0, false
	}
	led := t.Cards[0].Card
	if IsTrump(led, trump) {
		return trump, true
	}
	return led.Suit, true
}

// ResolveTrick returns the seat that won a completed trick. Trump always
// outranks plain cards; among plain cards only the led suit can win. The
// comparator is strict, so the winner is unique and the function is a pure
// map of its inputs.
func ResolveTrick(t Trick, trump Suit) int {
	ledSuit, _ := t.LedSuit(trump)
	best := t.Cards[0]
	for _, tc := range t.Cards[1:] {
		if !IsTrump(tc.Card, trump) && tc.Card.Suit != ledSuit {
			continue
		}
		if Power(tc.Card, trump) > Power(best.Card, trump) {
			best = tc
		}
	}
	return best.Seat
}

// PointsPerTrick is the fixed score awarded to a trick's winner.
const PointsPerTrick = 5

// ScoreTrick adds the trick value to the winning entry of a scores slice
// (seat-indexed or team-indexed, per the table's scoring mode) and returns
// the updated slice.
func ScoreTrick(scores []int, winner int, points int) []int {
	out := append([]int(nil), scores...)
	out[winner] += points
	return out
}

// CheckHandWinner returns the first index whose score reached the target, or
// -1 when the hand is still open.
func CheckHandWinner(scores []int, target int) int {
	for i, s := range scores {
		if s >= target {
			return i
		}
	}
	return -1
}

// HighestScore returns the index with the best score to date. Used by the
// pack-exhaustion fallback, which awards the hand without further play. Ties
// go to the lowest index.
func HighestScore(scores []int) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}
