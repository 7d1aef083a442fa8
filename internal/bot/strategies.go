package bot

import "twentyfive/internal/domain"

// Shared picking helpers. All strategies rob when offered: taking the
// turn-up is virtually always right and declining is left as an upgrade.

func lowestCard(cards []domain.Card, trump domain.Suit) domain.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if domain.Power(c, trump) < domain.Power(best, trump) {
			best = c
		}
	}
	return best
}

func highestCard(cards []domain.Card, trump domain.Suit) domain.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if domain.Power(c, trump) > domain.Power(best, trump) {
			best = c
		}
	}
	return best
}

// safeDiscard picks the card surrendered on a rob: the weakest plain card
// if one exists, otherwise the weakest unprotected trump, never one of the
// three protected cards unless nothing else is held.
func safeDiscard(hand []domain.Card, trump domain.Suit) domain.Card {
	var plain, unprotected []domain.Card
	for _, c := range hand {
		switch {
		case !domain.IsTrump(c, trump):
			plain = append(plain, c)
		case !domain.IsProtected(c, trump):
			unprotected = append(unprotected, c)
		}
	}
	if len(plain) > 0 {
		return lowestCard(plain, trump)
	}
	if len(unprotected) > 0 {
		return lowestCard(unprotected, trump)
	}
	return lowestCard(hand, trump)
}

// winningPlays filters the legal cards down to those that would take the
// trick as it currently stands.
func winningPlays(d Decision) []domain.Card {
	var winners []domain.Card
	for _, c := range d.Legal {
		trial := d.Trick
		trial.Cards = append(append([]domain.TrickCard(nil), d.Trick.Cards...), domain.TrickCard{Seat: d.Seat, Card: c})
		if domain.ResolveTrick(trial, d.Trump) == d.Seat {
			winners = append(winners, c)
		}
	}
	return winners
}

// EasyBrain throws the weakest legal card every time.
type EasyBrain struct{}

func (EasyBrain) ChooseCard(d Decision) domain.Card {
	return lowestCard(d.Legal, d.Trump)
}

func (EasyBrain) ChooseRob(d Decision) RobDecision {
	return RobDecision{Accept: true, Discard: safeDiscard(d.Hand, d.Trump)}
}

// NormalBrain takes tricks it can take cheaply and dumps its weakest card
// otherwise.
type NormalBrain struct{}

func (NormalBrain) ChooseCard(d Decision) domain.Card {
	if len(d.Trick.Cards) == 0 {
		return lowestCard(d.Legal, d.Trump)
	}
	if winners := winningPlays(d); len(winners) > 0 {
		return lowestCard(winners, d.Trump)
	}
	return lowestCard(d.Legal, d.Trump)
}

func (NormalBrain) ChooseRob(d Decision) RobDecision {
	return RobDecision{Accept: true, Discard: safeDiscard(d.Hand, d.Trump)}
}

// HardBrain plays like NormalBrain but preserves the three protected trumps
// for the late tricks and opens with its strongest plain card to pull
// opponents' trumps early.
type HardBrain struct{}

func (HardBrain) ChooseCard(d Decision) domain.Card {
	if len(d.Trick.Cards) == 0 {
		var plain []domain.Card
		for _, c := range d.Legal {
			if !domain.IsTrump(c, d.Trump) {
				plain = append(plain, c)
			}
		}
		if len(plain) > 0 {
			return highestCard(plain, d.Trump)
		}
		return lowestCard(d.Legal, d.Trump)
	}

	winners := winningPlays(d)
	if len(winners) == 0 {
		return lowestCard(d.Legal, d.Trump)
	}
	var cheap []domain.Card
	for _, c := range winners {
		if !domain.IsProtected(c, d.Trump) {
			cheap = append(cheap, c)
		}
	}
	if len(cheap) > 0 {
		return lowestCard(cheap, d.Trump)
	}
	if len(d.Hand) <= 2 {
		// Endgame: spend the protected winners too.
		return lowestCard(winners, d.Trump)
	}
	return lowestCard(d.Legal, d.Trump)
}

func (HardBrain) ChooseRob(d Decision) RobDecision {
	return RobDecision{Accept: true, Discard: safeDiscard(d.Hand, d.Trump)}
}
