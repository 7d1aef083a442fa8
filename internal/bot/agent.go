package bot

import (
	"errors"

	"twentyfive/internal/domain"
)

// Agent is one autonomous seat: an identity plus a strategy. It performs no
// I/O; the hosting layer turns its choices into intents and feeds them
// through the same validation path as remote players.
type Agent struct {
	ID    string
	Name  string
	Brain Brain
}

// NewAgent builds an agent for the identity's configured difficulty.
func NewAgent(identity Identity) (*Agent, error) {
	brain, err := NewBrain(LevelFromString(identity.Difficulty))
	if err != nil {
		return nil, err
	}
	return &Agent{ID: identity.UserID, Name: identity.DisplayName, Brain: brain}, nil
}

var ErrNoLegalPlay = errors.New("no legal play available")

// PlayTurn picks the card the agent plays from the given seat.
func (a *Agent) PlayTurn(g *domain.Game, seat int) (domain.Card, error) {
	d := DecisionFor(g, seat)
	if len(d.Legal) == 0 {
		return domain.Card{}, ErrNoLegalPlay
	}
	return a.Brain.ChooseCard(d), nil
}

// RobTurn decides the agent's robbing move for the given seat.
func (a *Agent) RobTurn(g *domain.Game, seat int) RobDecision {
	return a.Brain.ChooseRob(DecisionFor(g, seat))
}
