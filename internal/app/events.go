package app

import "twentyfive/internal/domain"

// EventKind identifies emitted game events for transport dispatch.
type EventKind string

const (
	EventHandStarted  EventKind = "hand_started"
	EventHandDealt    EventKind = "hand_dealt"
	EventRobTurn      EventKind = "rob_turn"
	EventTrumpRobbed  EventKind = "trump_robbed"
	EventRobDeclined  EventKind = "rob_declined"
	EventCardPlayed   EventKind = "card_played"
	EventTrickEnded   EventKind = "trick_ended"
	EventPackRedealt  EventKind = "pack_redealt"
	EventHandComplete EventKind = "hand_complete"
	EventGameOver     EventKind = "game_over"
)

// Event is a game event with optional targeted recipient seats. An empty
// Seats slice means broadcast.
type Event struct {
	Kind    EventKind
	Payload any
	Seats   []int
}

type HandStartedPayload struct {
	HandNumber     int         `json:"hand_number"`
	Dealer         int         `json:"dealer"`
	TrumpCard      domain.Card `json:"trump_card"`
	TrumpSuit      domain.Suit `json:"trump_suit"`
	TrumpCardIsAce bool        `json:"trump_card_is_ace"`
}

type HandDealtPayload struct {
	Seat int           `json:"seat"`
	Hand []domain.Card `json:"hand"`
}

type RobTurnPayload struct {
	Seat   int  `json:"seat"`
	Forced bool `json:"forced"`
}

type TrumpRobbedPayload struct {
	Seat int `json:"seat"`
}

type RobDeclinedPayload struct {
	Seat int `json:"seat"`
}

type CardPlayedPayload struct {
	Seat     int         `json:"seat"`
	Card     domain.Card `json:"card"`
	NextSeat int         `json:"next_seat"`
}

type TrickEndedPayload struct {
	Winner int   `json:"winner"`
	Points int   `json:"points"`
	Scores []int `json:"scores"`
}

type PackRedealtPayload struct {
	PackRemaining int `json:"pack_remaining"`
}

type HandCompletePayload struct {
	Winner   int   `json:"winner"`
	Scores   []int `json:"scores"`
	Fallback bool  `json:"fallback"`
}

type GameOverPayload struct {
	Winner   int   `json:"winner"`
	HandWins []int `json:"hand_wins"`
}
