package replication

import (
	"sync"

	"twentyfive/internal/domain"
)

// Observer is the non-authoritative side of a match: a read-only mirror of
// the latest published snapshot plus intent construction. It holds no game
// engine. Legal moves are recomputed locally from the mirror purely for
// responsive UI feedback; the authority re-validates every intent against
// its own state.
//
// Apply may be called from a transport goroutine while the UI reads, so the
// mirror swap is guarded. The snapshot itself is always replaced as one
// unit — a reader never sees a partially updated state.
type Observer struct {
	mu     sync.RWMutex
	latest Snapshot
	ready  bool
}

// NewObserver returns an empty mirror.
func NewObserver() *Observer {
	return &Observer{}
}

// Apply overwrites the mirror with the snapshot and reports whether it was
// accepted. Snapshots carry the authority's sequence number, so a stale
// publication arriving out of order is discarded instead of rolling the
// mirror backwards.
func (o *Observer) Apply(s Snapshot) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ready && s.Seq <= o.latest.Seq {
		return false
	}
	o.latest = s
	o.ready = true
	return true
}

// ApplyEncoded decodes and applies a wire snapshot.
func (o *Observer) ApplyEncoded(data []byte) (bool, error) {
	s, err := DecodeSnapshot(data)
	if err != nil {
		return false, err
	}
	return o.Apply(s), nil
}

// Latest returns the mirrored snapshot; ok is false before the first
// publication arrives.
func (o *Observer) Latest() (Snapshot, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest, o.ready
}

// LegalPlays computes the seat's legal cards from the mirror.
func (o *Observer) LegalPlays(seat int) []domain.Card {
	snap, ok := o.Latest()
	if !ok {
		return nil
	}
	return snap.LegalPlays(seat)
}

// CanRob reports whether the seat is the one currently deciding a rob.
func (o *Observer) CanRob(seat int) bool {
	snap, ok := o.Latest()
	if !ok {
		return false
	}
	return snap.Phase == domain.PhaseRobbing && snap.RobberSeat == seat
}

// PlayIntent builds a play intent for the seat. The local legality check is
// advisory; an illegal intent would simply be dropped by the authority.
func (o *Observer) PlayIntent(seat int, card domain.Card) Intent {
	return NewPlayIntent(seat, card)
}

// RobIntent builds a rob intent carrying the discard.
func (o *Observer) RobIntent(seat int, discard domain.Card) Intent {
	return NewRobIntent(seat, discard)
}

// DeclineRobIntent builds a decline intent.
func (o *Observer) DeclineRobIntent(seat int) Intent {
	return NewDeclineRobIntent(seat)
}
