package bot

import (
	"testing"

	"twentyfive/internal/domain"
)

func card(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card{Suit: s, Rank: r}
}

func decisionWith(trump domain.Suit, hand []domain.Card, trickCards ...domain.Card) Decision {
	trick := domain.NewTrick(0)
	for seat, c := range trickCards {
		trick.Add(seat, c)
	}
	return Decision{
		Seat:  len(trickCards),
		Hand:  hand,
		Trick: trick,
		Trump: trump,
		Legal: domain.LegalPlays(hand, trick, trump),
	}
}

// TestBrainsOnlyPlayLegalCards drives every difficulty across a spread of
// situations and checks the chosen card is always in the legal set.
func TestBrainsOnlyPlayLegalCards(t *testing.T) {
	brains := map[string]Brain{
		"easy":   EasyBrain{},
		"normal": NormalBrain{},
		"hard":   HardBrain{},
	}

	hand := []domain.Card{
		card(domain.SuitClubs, domain.Rank5),
		card(domain.SuitHearts, domain.RankAce),
		card(domain.SuitSpades, domain.Rank7),
		card(domain.SuitDiamonds, domain.Rank10),
		card(domain.SuitClubs, domain.Rank2),
	}

	leads := []domain.Card{
		{},
		card(domain.SuitClubs, domain.RankJack),
		card(domain.SuitSpades, domain.RankKing),
		card(domain.SuitDiamonds, domain.Rank3),
		card(domain.SuitHearts, domain.Rank9),
	}

	for name, brain := range brains {
		for _, lead := range leads {
			var d Decision
			if lead == (domain.Card{}) {
				d = decisionWith(domain.SuitClubs, hand)
			} else {
				d = decisionWith(domain.SuitClubs, hand, lead)
			}
			choice := brain.ChooseCard(d)
			if !domain.ContainsCard(d.Legal, choice) {
				t.Errorf("%s chose illegal %v after %v lead (legal %v)", name, choice, lead, d.Legal)
			}
		}
	}
}

func TestEasyBrainPlaysWeakest(t *testing.T) {
	hand := []domain.Card{
		card(domain.SuitSpades, domain.RankKing),
		card(domain.SuitSpades, domain.Rank2),
		card(domain.SuitSpades, domain.Rank9),
	}
	d := decisionWith(domain.SuitClubs, hand)
	// Black counts down, so the 9 is the weakest spade.
	if got := (EasyBrain{}).ChooseCard(d); got != card(domain.SuitSpades, domain.Rank9) {
		t.Errorf("EasyBrain chose %v, want 9S", got)
	}
}

func TestNormalBrainTakesCheapWin(t *testing.T) {
	trump := domain.SuitClubs
	hand := []domain.Card{
		card(domain.SuitClubs, domain.Rank5),
		card(domain.SuitClubs, domain.Rank7),
		card(domain.SuitDiamonds, domain.Rank4),
	}
	d := decisionWith(trump, hand, card(domain.SuitDiamonds, domain.RankKing))

	// Both clubs win the trick over the plain king; the 7 is the cheaper.
	if got := (NormalBrain{}).ChooseCard(d); got != card(domain.SuitClubs, domain.Rank7) {
		t.Errorf("NormalBrain chose %v, want 7C", got)
	}
}

func TestNormalBrainDumpsWhenItCannotWin(t *testing.T) {
	trump := domain.SuitClubs
	hand := []domain.Card{
		card(domain.SuitDiamonds, domain.Rank4),
		card(domain.SuitDiamonds, domain.Rank9),
	}
	d := decisionWith(trump, hand, card(domain.SuitDiamonds, domain.RankKing))

	if got := (NormalBrain{}).ChooseCard(d); got != card(domain.SuitDiamonds, domain.Rank4) {
		t.Errorf("NormalBrain chose %v, want 4D", got)
	}
}

func TestHardBrainLeadsStrongPlain(t *testing.T) {
	trump := domain.SuitClubs
	hand := []domain.Card{
		card(domain.SuitClubs, domain.Rank5),
		card(domain.SuitDiamonds, domain.RankKing),
		card(domain.SuitSpades, domain.Rank8),
	}
	d := decisionWith(trump, hand)

	if got := (HardBrain{}).ChooseCard(d); got != card(domain.SuitDiamonds, domain.RankKing) {
		t.Errorf("HardBrain led %v, want KD", got)
	}
}

func TestHardBrainHoldsProtectedWinners(t *testing.T) {
	trump := domain.SuitClubs
	hand := []domain.Card{
		card(domain.SuitClubs, domain.Rank5),
		card(domain.SuitDiamonds, domain.Rank4),
		card(domain.SuitSpades, domain.Rank6),
	}
	// Only the trump 5 can win, but the hand is not yet short enough to
	// spend it; a plain lead and no plain follow lets it dump cheaply.
	d := decisionWith(trump, hand, card(domain.SuitHearts, domain.RankKing))
	if got := (HardBrain{}).ChooseCard(d); got == card(domain.SuitClubs, domain.Rank5) {
		t.Error("HardBrain spent the trump 5 on an early trick")
	}

	// Down to two cards it takes the trick.
	short := []domain.Card{
		card(domain.SuitClubs, domain.Rank5),
		card(domain.SuitDiamonds, domain.Rank4),
	}
	d = decisionWith(trump, short, card(domain.SuitHearts, domain.RankKing))
	if got := (HardBrain{}).ChooseCard(d); got != card(domain.SuitClubs, domain.Rank5) {
		t.Errorf("HardBrain chose %v in the endgame, want 5C", got)
	}
}

func TestSafeDiscardPreservesProtectedTrumps(t *testing.T) {
	trump := domain.SuitClubs

	tests := []struct {
		name string
		hand []domain.Card
		want domain.Card
	}{
		{
			name: "WeakestPlainFirst",
			hand: []domain.Card{
				card(domain.SuitClubs, domain.Rank5),
				card(domain.SuitDiamonds, domain.Rank3),
				card(domain.SuitSpades, domain.RankKing),
			},
			want: card(domain.SuitDiamonds, domain.Rank3),
		},
		{
			name: "UnprotectedTrumpWhenAllTrump",
			hand: []domain.Card{
				card(domain.SuitClubs, domain.Rank5),
				card(domain.SuitClubs, domain.RankJack),
				card(domain.SuitClubs, domain.Rank8),
			},
			want: card(domain.SuitClubs, domain.Rank8),
		},
		{
			name: "ProtectedOnlyAsLastResort",
			hand: []domain.Card{
				card(domain.SuitClubs, domain.Rank5),
				card(domain.SuitHearts, domain.RankAce),
			},
			want: card(domain.SuitHearts, domain.RankAce),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeDiscard(tt.hand, trump); got != tt.want {
				t.Errorf("safeDiscard = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllBrainsAcceptTheRob(t *testing.T) {
	hand := []domain.Card{
		card(domain.SuitClubs, domain.RankAce),
		card(domain.SuitDiamonds, domain.Rank2),
		card(domain.SuitSpades, domain.Rank4),
		card(domain.SuitHearts, domain.Rank8),
		card(domain.SuitClubs, domain.Rank3),
	}
	d := Decision{Hand: hand, Trump: domain.SuitClubs}

	for _, brain := range []Brain{EasyBrain{}, NormalBrain{}, HardBrain{}} {
		got := brain.ChooseRob(d)
		if !got.Accept {
			t.Errorf("%T declined the rob", brain)
		}
		if !domain.ContainsCard(hand, got.Discard) {
			t.Errorf("%T discards %v which it does not hold", brain, got.Discard)
		}
		if domain.IsProtected(got.Discard, domain.SuitClubs) {
			t.Errorf("%T discarded protected %v", brain, got.Discard)
		}
	}
}
