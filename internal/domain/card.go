package domain

import (
	"fmt"
	"math/rand"
)

// Suit of a standard French-suited playing card.
type Suit int

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitClubs
	SuitSpades
)

func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "hearts"
	case SuitDiamonds:
		return "diamonds"
	case SuitClubs:
		return "clubs"
	case SuitSpades:
		return "spades"
	default:
		return "?"
	}
}

// IsRed reports whether the suit is a red suit. Twenty-Five ranks plain-suit
// numerals "highest in red, lowest in black", so suit colour matters to the
// comparator.
func (s Suit) IsRed() bool {
	return s == SuitHearts || s == SuitDiamonds
}

// AllSuits returns the four suits in a fixed order.
func AllSuits() []Suit {
	return []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}
}

// Rank of a card. Numerals carry their face value.
type Rank int

const (
	Rank2     Rank = 2
	Rank3     Rank = 3
	Rank4     Rank = 4
	Rank5     Rank = 5
	Rank6     Rank = 6
	Rank7     Rank = 7
	Rank8     Rank = 8
	Rank9     Rank = 9
	Rank10    Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		return fmt.Sprintf("%d", int(r))
	}
}

// AllRanks returns the thirteen ranks in ascending face order.
func AllRanks() []Rank {
	ranks := make([]Rank, 0, 13)
	for r := Rank2; r <= RankAce; r++ {
		ranks = append(ranks, r)
	}
	return ranks
}

// Card is an immutable card value. Two cards are equal iff suit and rank match.
type Card struct {
	Suit Suit `json:"suit"`
	Rank Rank `json:"rank"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, shortSuit(c.Suit))
}

func shortSuit(s Suit) string {
	switch s {
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	case SuitSpades:
		return "S"
	default:
		return "?"
	}
}

const (
	// DeckSize is the full 52-card deck used at every table size.
	DeckSize = 52
	// HandSize is the number of cards dealt to each seat.
	HandSize = 5
	// MinPlayers and MaxPlayers bound the table size the deck can serve
	// (MaxPlayers*HandSize + the turn-up still fits the deck).
	MinPlayers = 2
	MaxPlayers = 9
)

// NewDeck returns the ordered 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range AllSuits() {
		for _, r := range AllRanks() {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a shuffled copy of the deck using the supplied source.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Deal splits a shuffled deck into per-seat hands, the face-up trump card and
// the remaining pack. Cards are dealt one at a time in seat rotation. Hands,
// trump card and pack partition the deck exactly.
func Deal(deck []Card, numPlayers int) (hands [][]Card, trumpCard Card, pack []Card) {
	hands = make([][]Card, numPlayers)
	for seat := range hands {
		hands[seat] = make([]Card, 0, HandSize)
	}
	idx := 0
	for round := 0; round < HandSize; round++ {
		for seat := 0; seat < numPlayers; seat++ {
			hands[seat] = append(hands[seat], deck[idx])
			idx++
		}
	}
	trumpCard = deck[idx]
	idx++
	pack = append([]Card(nil), deck[idx:]...)
	return hands, trumpCard, pack
}

// RedealFromPack deals a fresh round of hands out of the pack when every hand
// has been played out mid-hand. There is no new turn-up; the trump suit never
// changes within a hand. ok is false when the pack cannot cover a full round,
// which triggers the fallback scoring rule.
func RedealFromPack(pack []Card, numPlayers int) (hands [][]Card, rest []Card, ok bool) {
	if len(pack) < numPlayers*HandSize {
		return nil, pack, false
	}
	hands = make([][]Card, numPlayers)
	for seat := range hands {
		hands[seat] = make([]Card, 0, HandSize)
	}
	idx := 0
	for round := 0; round < HandSize; round++ {
		for seat := 0; seat < numPlayers; seat++ {
			hands[seat] = append(hands[seat], pack[idx])
			idx++
		}
	}
	rest = append([]Card(nil), pack[idx:]...)
	return hands, rest, true
}

// RemoveCard removes one occurrence of card from hand and reports whether it
// was present.
func RemoveCard(hand []Card, card Card) ([]Card, bool) {
	for i, c := range hand {
		if c == card {
			out := append([]Card(nil), hand[:i]...)
			return append(out, hand[i+1:]...), true
		}
	}
	return hand, false
}

// ContainsCard reports whether hand holds the exact card.
func ContainsCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}
