package nakama

import (
	"context"
	"strings"
	"testing"

	"twentyfive/internal/app"
	"twentyfive/internal/bot"
	"twentyfive/internal/domain"
	"twentyfive/internal/replication"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy
// the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	opCodes        []int64
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	md.opCodes = append(md.opCodes, opCode)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

func newTestState(t *testing.T, players int) *matchState {
	t.Helper()
	mh := &matchHandler{}
	state, tickRate, label := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{
		"players": float64(players),
	})
	if state == nil {
		t.Fatal("MatchInit returned no state")
	}
	if tickRate != 1 {
		t.Fatalf("tick rate = %d, want 1", tickRate)
	}
	if !strings.Contains(label, `"game":"twentyfive"`) {
		t.Fatalf("label = %q", label)
	}
	return state.(*matchState)
}

func TestMatchInit(t *testing.T) {
	ms := newTestState(t, 4)

	if len(ms.Seats) != 4 {
		t.Fatalf("seats = %d, want 4", len(ms.Seats))
	}
	if ms.Authority.Game().Phase != domain.PhaseWaiting {
		t.Fatalf("phase = %q, want waiting", ms.Authority.Game().Phase)
	}
	if ms.openSeats() != 4 {
		t.Fatalf("openSeats = %d, want 4", ms.openSeats())
	}
	if len(ms.outbox) != 0 {
		t.Fatalf("outbox should start empty, has %d", len(ms.outbox))
	}
}

func TestMatchInitRejectsBadPlayerCount(t *testing.T) {
	mh := &matchHandler{}
	state, _, _ := mh.MatchInit(context.Background(), noopLogger{}, nil, nil, map[string]interface{}{
		"players": float64(1),
	})
	if state != nil {
		t.Fatal("expected nil state for 1 player")
	}
}

func TestParamInt(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]interface{}
		want   int
	}{
		{"Float", map[string]interface{}{"players": float64(5)}, 5},
		{"Int", map[string]interface{}{"players": 6}, 6},
		{"NumericString", map[string]interface{}{"players": "3"}, 3},
		{"Garbage", map[string]interface{}{"players": "lots"}, 4},
		{"Missing", map[string]interface{}{}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paramInt(tt.params, "players", 4); got != tt.want {
				t.Errorf("paramInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSeatHelpers(t *testing.T) {
	botID := bot.GetIdentity(0).UserID
	ms := &matchState{Seats: []string{botID, "user-1", "", "user-2"}}

	if got := ms.seatOf("user-1"); got != 1 {
		t.Errorf("seatOf user-1 = %d, want 1", got)
	}
	if got := ms.seatOf("stranger"); got != -1 {
		t.Errorf("seatOf stranger = %d, want -1", got)
	}
	if got := ms.openSeats(); got != 1 {
		t.Errorf("openSeats = %d, want 1", got)
	}
	if got := ms.firstHumanSeat(); got != 1 {
		t.Errorf("firstHumanSeat = %d, want 1", got)
	}

	allBots := &matchState{Seats: []string{botID, ""}}
	if got := allBots.firstHumanSeat(); got != -1 {
		t.Errorf("firstHumanSeat with no humans = %d, want -1", got)
	}
}

func TestStartGameFillsBotsAndDeals(t *testing.T) {
	ms := newTestState(t, 4)
	ms.Seats[0] = "user-1"
	ms.OwnerSeat = 0

	events := (&matchHandler{}).handleStartGame(ms, noopLogger{}, 0)
	if len(events) == 0 {
		t.Fatal("no events from start")
	}

	g := ms.Authority.Game()
	if g.Phase != domain.PhaseRobbing && g.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %q after start", g.Phase)
	}
	if len(ms.Bots) != 3 {
		t.Fatalf("bots = %d, want 3", len(ms.Bots))
	}
	for i, s := range ms.Seats {
		if s == "" {
			t.Fatalf("seat %d still open after start", i)
		}
	}
	if events[0].Kind != app.EventHandStarted {
		t.Fatalf("first event = %q", events[0].Kind)
	}
	if len(ms.outbox) == 0 {
		t.Fatal("start published no snapshot")
	}
}

func TestStartGameOwnerOnly(t *testing.T) {
	ms := newTestState(t, 4)
	ms.Seats[0] = "user-1"
	ms.Seats[1] = "user-2"
	ms.OwnerSeat = 0

	if events := (&matchHandler{}).handleStartGame(ms, noopLogger{}, 1); events != nil {
		t.Fatal("non-owner started the match")
	}
	if ms.Authority.Game().Phase != domain.PhaseWaiting {
		t.Fatal("state advanced on a rejected start")
	}

	// Starting twice is also rejected.
	(&matchHandler{}).handleStartGame(ms, noopLogger{}, 0)
	if events := (&matchHandler{}).handleStartGame(ms, noopLogger{}, 0); events != nil {
		t.Fatal("second start accepted")
	}
}

func TestIntentKindFor(t *testing.T) {
	tests := []struct {
		opCode int64
		want   replication.IntentKind
	}{
		{OpCodePlayCard, replication.IntentPlayCard},
		{OpCodeRob, replication.IntentRob},
		{OpCodeDeclineRob, replication.IntentDeclineRob},
	}
	for _, tt := range tests {
		if got := intentKindFor(tt.opCode); got != tt.want {
			t.Errorf("intentKindFor(%d) = %q, want %q", tt.opCode, got, tt.want)
		}
	}
}

func TestFlushSendsSnapshotsInOrder(t *testing.T) {
	ms := newTestState(t, 4)
	ms.Seats[0] = "user-1"
	ms.OwnerSeat = 0
	dispatcher := &mockDispatcher{}
	mh := &matchHandler{}

	mh.handleStartGame(ms, noopLogger{}, 0)
	queued := len(ms.outbox)
	if queued == 0 {
		t.Fatal("nothing queued")
	}

	mh.flush(ms, dispatcher, noopLogger{})
	if dispatcher.broadcastCount != queued {
		t.Fatalf("broadcasts = %d, want %d", dispatcher.broadcastCount, queued)
	}
	if dispatcher.lastOpCode != OpCodeSnapshot {
		t.Fatalf("opcode = %d, want %d", dispatcher.lastOpCode, OpCodeSnapshot)
	}
	if len(ms.outbox) != 0 {
		t.Fatal("outbox not cleared by flush")
	}

	snap, err := replication.DecodeSnapshot(dispatcher.lastData)
	if err != nil {
		t.Fatalf("snapshot payload did not decode: %v", err)
	}
	if snap.NumPlayers != 4 {
		t.Fatalf("snapshot players = %d", snap.NumPlayers)
	}
}

func TestBotTurnsRunThroughInbox(t *testing.T) {
	ms := newTestState(t, 4)
	ms.Seats[0] = "user-1"
	ms.OwnerSeat = 0
	ms.Cfg.BotMinDelaySec = 0
	ms.Cfg.BotMaxDelaySec = 0
	mh := &matchHandler{}

	mh.handleStartGame(ms, noopLogger{}, 0)
	g := ms.Authority.Game()

	// Make seat 0's turns impossible to reach bot scheduling by treating
	// every seat as a bot for the drive below.
	agent, err := bot.NewAgent(bot.GetIdentity(0))
	if err != nil {
		t.Fatal(err)
	}
	ms.Bots[0] = agent

	for tick := int64(1); g.Phase != domain.PhaseGameOver; tick++ {
		if tick > 50000 {
			t.Fatal("match did not terminate")
		}
		ms.Tick = tick
		mh.processBots(ms, noopLogger{})
		mh.processPauses(ms, noopLogger{})
	}
	if ms.Authority.DroppedIntents() != 0 {
		t.Fatalf("bots produced %d invalid intents", ms.Authority.DroppedIntents())
	}
}

func TestPausesHoldThenAdvance(t *testing.T) {
	ms := newTestState(t, 4)
	ms.Cfg.TrickPauseSec = 3
	mh := &matchHandler{}

	// Force a trick-complete state directly.
	g := ms.Authority.Game()
	svc := app.NewService(nil)
	if _, err := svc.StartHand(g); err != nil {
		t.Fatal(err)
	}
	for g.Phase == domain.PhaseRobbing {
		if g.TrumpCardIsAce {
			if _, err := svc.Rob(g, g.RobberSeat(), g.Hands[g.RobberSeat()][0]); err != nil {
				t.Fatal(err)
			}
		} else if _, err := svc.DeclineRob(g, g.RobberSeat()); err != nil {
			t.Fatal(err)
		}
	}
	for g.Phase == domain.PhasePlaying {
		seat := g.CurrentPlayer
		legal := domain.LegalPlays(g.Hands[seat], g.CurrentTrick, g.TrumpSuit)
		if _, err := svc.PlayCard(g, seat, legal[0]); err != nil {
			t.Fatal(err)
		}
	}
	if g.Phase != domain.PhaseTrickComplete {
		t.Fatalf("phase = %q, want trickComplete", g.Phase)
	}

	ms.Tick = 10
	mh.processPauses(ms, noopLogger{}) // arms the pause
	if g.Phase != domain.PhaseTrickComplete {
		t.Fatal("advanced before the pause elapsed")
	}
	ms.Tick = 12
	mh.processPauses(ms, noopLogger{})
	if g.Phase != domain.PhaseTrickComplete {
		t.Fatal("advanced mid-pause")
	}
	ms.Tick = 13
	mh.processPauses(ms, noopLogger{})
	if g.Phase != domain.PhasePlaying {
		t.Fatalf("phase = %q after the pause, want playing", g.Phase)
	}
}

func TestLabelReflectsPhase(t *testing.T) {
	ms := newTestState(t, 4)
	ms.Seats[0] = "user-1"
	ms.OwnerSeat = 0

	if label := buildLabel(ms); !strings.Contains(label, `"open":true`) {
		t.Fatalf("waiting label = %q", label)
	}

	(&matchHandler{}).handleStartGame(ms, noopLogger{}, 0)
	if label := buildLabel(ms); strings.Contains(label, `"open":true`) {
		t.Fatalf("started match still open: %q", label)
	}
}
