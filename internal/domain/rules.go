package domain

// Twenty-Five ranking, conditioned on the trump suit established at deal time.
//
// Trump, highest to lowest: the trump 5, the trump Jack, the Ace of Hearts
// (trump-strength in every hand, third even when hearts are not trump), the
// trump Ace, King, Queen, then numerals. Plain suits rank K > Q > J over the
// numerals, with numerals "highest in red, lowest in black": red counts up
// (10 high, ace below the 2), black counts down (2 high, ace between Jack
// and 2).

// IsTrump reports whether the card is trump-strength for the given trump
// suit. The Ace of Hearts is always trump.
func IsTrump(c Card, trump Suit) bool {
	if c.Suit == SuitHearts && c.Rank == RankAce {
		return true
	}
	return c.Suit == trump
}

// IsProtected reports whether the card is one of the three top trumps that
// the renege exception can shield from mandatory trump-following.
func IsProtected(c Card, trump Suit) bool {
	if c.Suit == SuitHearts && c.Rank == RankAce {
		return true
	}
	return c.Suit == trump && (c.Rank == Rank5 || c.Rank == RankJack)
}

// Power assigns a strength to every card under a fixed trump suit. The order
// is strict: no two distinct cards share a value, so trick resolution can
// never tie. Trump cards occupy a band above every plain card; plain cards
// of different suits are separated by a suit offset that never decides a
// trick (only trump or led-suit cards can win one).
func Power(c Card, trump Suit) int {
	if IsTrump(c, trump) {
		return 1000 + trumpStrength(c, trump)
	}
	return plainStrength(c)*8 + int(c.Suit)
}

func trumpStrength(c Card, trump Suit) int {
	switch {
	case c.Suit == trump && c.Rank == Rank5:
		return 640
	case c.Suit == trump && c.Rank == RankJack:
		return 620
	case c.Suit == SuitHearts && c.Rank == RankAce:
		return 600
	case c.Rank == RankAce:
		return 580
	case c.Rank == RankKing:
		return 560
	case c.Rank == RankQueen:
		return 540
	}
	// Trump numerals follow the same red/black ordering as plain suits.
	if trump.IsRed() {
		return int(c.Rank) * 2
	}
	return (12 - int(c.Rank)) * 2
}

func plainStrength(c Card) int {
	switch c.Rank {
	case RankKing:
		return 30
	case RankQueen:
		return 28
	case RankJack:
		return 26
	}
	if c.Suit.IsRed() {
		if c.Rank == RankAce {
			return 2 // red ace is the weakest card of its suit
		}
		return int(c.Rank) * 2
	}
	if c.Rank == RankAce {
		return 24 // black ace sits between the Jack and the 2
	}
	return (12 - int(c.Rank)) * 2
}

// PlayReason classifies why a play was rejected.
type PlayReason string

const (
	ReasonCardNotHeld      PlayReason = "CARD_NOT_HELD"
	ReasonSuitNotFollowed  PlayReason = "SUIT_NOT_FOLLOWED"
	ReasonTrumpNotFollowed PlayReason = "TRUMP_NOT_FOLLOWED"
)

// PlayVerdict is the outcome of validating a single play.
type PlayVerdict struct {
	Valid  bool
	Reason PlayReason
}

func validPlay() PlayVerdict {
	return PlayVerdict{Valid: true}
}

func invalidPlay(reason PlayReason) PlayVerdict {
	return PlayVerdict{Reason: reason}
}

// CheckPlay validates card against the follow-suit rules given the player's
// hand and the trick so far. The first card of a trick is always legal.
//
// Trump led: the player must follow with trump while holding any, except
// that the trump 5, trump Jack and Ace of Hearts may each be withheld when
// the card that led ranks below them. The 5 leading therefore forces every
// trump, the Jack leading forces everything but the 5, the Ace of Hearts
// leading forces everything but the 5 and Jack, and any lower trump lead
// forces none of the three.
//
// Plain suit led: the player must follow the led suit or play trump; an
// off-suit card is legal only when the hand holds neither.
func CheckPlay(card Card, hand []Card, trick Trick, trump Suit) PlayVerdict {
	if !ContainsCard(hand, card) {
		return invalidPlay(ReasonCardNotHeld)
	}
	if len(trick.Cards) == 0 {
		return validPlay()
	}

	led := trick.Cards[0].Card
	if IsTrump(led, trump) {
		if IsTrump(card, trump) {
			return validPlay()
		}
		for _, held := range hand {
			if forcedToFollow(held, led, trump) {
				return invalidPlay(ReasonTrumpNotFollowed)
			}
		}
		return validPlay()
	}

	ledSuit := led.Suit
	if IsTrump(card, trump) {
		// Trumping is always permitted, even while holding the led suit.
		return validPlay()
	}
	if card.Suit == ledSuit {
		return validPlay()
	}
	for _, held := range hand {
		if held.Suit == ledSuit && !IsTrump(held, trump) {
			return invalidPlay(ReasonSuitNotFollowed)
		}
	}
	return validPlay()
}

// forcedToFollow reports whether the held card must be surrendered to a
// trump lead. A protected card reneges exactly when it outranks the lead.
func forcedToFollow(held, led Card, trump Suit) bool {
	if !IsTrump(held, trump) {
		return false
	}
	if IsProtected(held, trump) && Power(held, trump) > Power(led, trump) {
		return false
	}
	return true
}

// LegalPlays returns every card in hand that CheckPlay accepts. For a
// non-empty hand the result is never empty: a trick lead is always legal and
// the renege exceptions only ever widen the legal set.
func LegalPlays(hand []Card, trick Trick, trump Suit) []Card {
	legal := make([]Card, 0, len(hand))
	for _, c := range hand {
		if CheckPlay(c, hand, trick, trump).Valid {
			legal = append(legal, c)
		}
	}
	return legal
}

// TrumpAce returns the ace whose possession confers the right to rob. When
// hearts are trump this is the Ace of Hearts itself.
func TrumpAce(trump Suit) Card {
	return Card{Suit: trump, Rank: RankAce}
}

// EligibleRobbers lists the seats entitled to swap a held card for the
// face-up trump card, in play order from the seat after the dealer and
// wrapping so the dealer is considered last. A seat qualifies iff it holds
// the trump ace. When the turn-up is itself an ace the dealer alone is
// listed and must take it.
func EligibleRobbers(hands [][]Card, trumpCard Card, dealer int) []int {
	numPlayers := len(hands)
	if trumpCard.Rank == RankAce {
		return []int{dealer}
	}
	ace := TrumpAce(trumpCard.Suit)
	var robbers []int
	for i := 1; i <= numPlayers; i++ {
		seat := (dealer + i) % numPlayers
		if ContainsCard(hands[seat], ace) {
			robbers = append(robbers, seat)
		}
	}
	return robbers
}
