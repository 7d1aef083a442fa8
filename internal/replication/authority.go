package replication

import (
	"twentyfive/internal/app"
	"twentyfive/internal/domain"
)

// Logger is the slice of a structured logger the authority needs. The
// Nakama runtime logger satisfies it directly.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopLogger discards everything; the default for tests and the simulator.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

type queuedIntent struct {
	seq    uint64
	intent Intent
}

// Authority owns the only live game instance of a match. All mutation flows
// through it: intents enter an ordered inbox, get a sequence number on
// receipt, and are drained one at a time against the current state — never
// the state they were submitted against. Every applied mutation publishes a
// full snapshot to the subscribers.
//
// The authority is single-writer by construction and holds no locks: the
// hosting layer (the Nakama match loop, the simulator) already serializes
// all calls onto one goroutine.
type Authority struct {
	game *domain.Game
	svc  *app.Service
	log  Logger

	inbox     []queuedIntent
	nextSeq   uint64
	consumed  map[string]struct{}
	published uint64
	dropped   uint64

	subs []func(Snapshot)
}

// NewAuthority wraps a game and its service. A nil logger falls back to
// NopLogger.
func NewAuthority(game *domain.Game, svc *app.Service, log Logger) *Authority {
	if log == nil {
		log = NopLogger{}
	}
	return &Authority{
		game:     game,
		svc:      svc,
		log:      log,
		consumed: make(map[string]struct{}),
	}
}

// Game exposes the authoritative state for read-only use by the host.
func (a *Authority) Game() *domain.Game {
	return a.game
}

// Subscribe registers a snapshot consumer and immediately replays the
// current state to it, so a late subscriber needs no event history.
func (a *Authority) Subscribe(fn func(Snapshot)) {
	a.subs = append(a.subs, fn)
	fn(a.Snapshot())
}

// Snapshot captures the current state under the last published sequence
// number.
func (a *Authority) Snapshot() Snapshot {
	return SnapshotOf(a.game, a.published)
}

// Start performs the initial deal and publishes the first snapshot.
func (a *Authority) Start() ([]app.Event, error) {
	events, err := a.svc.StartHand(a.game)
	if err != nil {
		return nil, err
	}
	a.publish()
	return events, nil
}

// Submit appends an intent to the inbox and returns the sequence number
// assigned on receipt. Ordering is decided here, not by transport
// timestamps.
func (a *Authority) Submit(in Intent) uint64 {
	a.nextSeq++
	a.inbox = append(a.inbox, queuedIntent{seq: a.nextSeq, intent: in})
	return a.nextSeq
}

// Drain processes every queued intent in sequence order, one at a time,
// and returns the events of the intents that applied. Invalid intents are
// dropped without touching state; a snapshot is published after each
// applied intent.
func (a *Authority) Drain() []app.Event {
	var out []app.Event
	for len(a.inbox) > 0 {
		next := a.inbox[0]
		a.inbox = a.inbox[1:]
		events, ok := a.consume(next)
		if ok {
			out = append(out, events...)
		}
	}
	return out
}

func (a *Authority) consume(q queuedIntent) ([]app.Event, bool) {
	in := q.intent
	if in.ID != "" {
		if _, seen := a.consumed[in.ID]; seen {
			a.log.Debug("intent %s already consumed, ignoring replay", in.ID)
			return nil, false
		}
	}

	events, err := a.apply(in)
	if err != nil {
		a.dropped++
		a.log.Warn("dropped intent seq=%d kind=%s seat=%d phase=%s: %v",
			q.seq, in.Kind, in.Seat, a.game.Phase, err)
		return nil, false
	}

	if in.ID != "" {
		a.consumed[in.ID] = struct{}{}
	}
	a.publish()
	return events, true
}

func (a *Authority) apply(in Intent) ([]app.Event, error) {
	switch in.Kind {
	case IntentPlayCard:
		if in.Card == nil {
			return nil, app.ErrCardNotHeld
		}
		return a.svc.PlayCard(a.game, in.Seat, *in.Card)
	case IntentRob:
		if in.Card == nil {
			return nil, app.ErrCardNotHeld
		}
		return a.svc.Rob(a.game, in.Seat, *in.Card)
	case IntentDeclineRob:
		return a.svc.DeclineRob(a.game, in.Seat)
	default:
		return nil, app.ErrWrongPhase
	}
}

// AdvanceTrick forwards the post-pause trick transition and publishes.
func (a *Authority) AdvanceTrick() ([]app.Event, error) {
	events, err := a.svc.AdvanceTrick(a.game)
	if err != nil {
		return nil, err
	}
	a.publish()
	return events, nil
}

// AdvanceHand forwards the post-pause hand transition and publishes.
func (a *Authority) AdvanceHand() ([]app.Event, error) {
	events, err := a.svc.AdvanceHand(a.game)
	if err != nil {
		return nil, err
	}
	a.publish()
	return events, nil
}

// DroppedIntents reports how many intents were discarded by validation.
// The count exists for debugging; observable game behaviour never depends
// on it.
func (a *Authority) DroppedIntents() uint64 {
	return a.dropped
}

// PendingIntents reports the inbox depth.
func (a *Authority) PendingIntents() int {
	return len(a.inbox)
}

func (a *Authority) publish() {
	a.published++
	snap := SnapshotOf(a.game, a.published)
	for _, fn := range a.subs {
		fn(snap)
	}
}
