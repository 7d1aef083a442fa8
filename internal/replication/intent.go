package replication

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"twentyfive/internal/domain"
)

// IntentKind identifies a requested state mutation.
type IntentKind string

const (
	IntentPlayCard   IntentKind = "play_card"
	IntentRob        IntentKind = "rob"
	IntentDeclineRob IntentKind = "decline_rob"
)

// Intent is one device's request to change game state. It is not part of
// the game state itself: the authority consumes each intent at most once
// and drops it afterwards. Card carries the played card for play_card and
// the discard for rob.
type Intent struct {
	ID          string       `json:"id"`
	Kind        IntentKind   `json:"kind"`
	Seat        int          `json:"seat"`
	Card        *domain.Card `json:"card,omitempty"`
	SubmittedAt int64        `json:"submitted_at,omitempty"`
}

// NewPlayIntent builds a play_card intent with a fresh ID.
func NewPlayIntent(seat int, card domain.Card) Intent {
	c := card
	return Intent{
		ID:          newIntentID(),
		Kind:        IntentPlayCard,
		Seat:        seat,
		Card:        &c,
		SubmittedAt: time.Now().UnixMilli(),
	}
}

// NewRobIntent builds a rob intent carrying the discard.
func NewRobIntent(seat int, discard domain.Card) Intent {
	c := discard
	return Intent{
		ID:          newIntentID(),
		Kind:        IntentRob,
		Seat:        seat,
		Card:        &c,
		SubmittedAt: time.Now().UnixMilli(),
	}
}

// NewDeclineRobIntent builds a decline_rob intent.
func NewDeclineRobIntent(seat int) Intent {
	return Intent{
		ID:          newIntentID(),
		Kind:        IntentDeclineRob,
		Seat:        seat,
		SubmittedAt: time.Now().UnixMilli(),
	}
}

func newIntentID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Degrade to a timestamp-derived ID rather than fail the submit.
		return hex.EncodeToString([]byte(time.Now().String()))[:16]
	}
	return hex.EncodeToString(buf[:])
}

// EncodeIntent serializes an intent for the wire.
func EncodeIntent(in Intent) ([]byte, error) {
	return json.Marshal(in)
}

// DecodeIntent parses an intent payload.
func DecodeIntent(data []byte) (Intent, error) {
	var in Intent
	err := json.Unmarshal(data, &in)
	return in, err
}
