package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"twentyfive/internal/app"
	"twentyfive/internal/bot"
	"twentyfive/internal/config"
	"twentyfive/internal/domain"
	"twentyfive/internal/replication"

	"github.com/heroiclabs/nakama-common/runtime"
)

// matchState holds the per-match runtime state around the authority: seat
// occupancy, connected presences, bot agents and the tick bookkeeping that
// drives pauses and bot thinking delays.
type matchState struct {
	Seats     []string
	Presences map[string]runtime.Presence
	OwnerSeat int

	Authority *replication.Authority
	Bots      map[int]*bot.Agent
	Cfg       config.GameConfig
	Rng       *rand.Rand

	Tick         int64
	BotWaitUntil int64
	PauseUntil   int64

	// outbox collects snapshots published during this loop iteration;
	// they are flushed through the dispatcher at the end of it.
	outbox    []replication.Snapshot
	lastLabel string
}

func (ms *matchState) openSeats() int {
	n := 0
	for _, s := range ms.Seats {
		if s == "" {
			n++
		}
	}
	return n
}

func (ms *matchState) seatOf(userID string) int {
	for i, s := range ms.Seats {
		if s == userID {
			return i
		}
	}
	return -1
}

func (ms *matchState) firstHumanSeat() int {
	for i, s := range ms.Seats {
		if s != "" && !bot.IsBot(s) {
			return i
		}
	}
	return -1
}

// label is the match label advertised for listing queries.
type label struct {
	Open  bool   `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

func buildLabel(ms *matchState) string {
	phase := ms.Authority.Game().Phase
	open := phase == domain.PhaseWaiting && ms.openSeats() > 0
	b, _ := json.Marshal(label{Open: open, Game: "twentyfive", Phase: string(phase)})
	return string(b)
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit builds the authority from match params and configuration.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	if err := config.Load("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}

	cfg := config.Get()
	numPlayers := paramInt(params, "players", 4)
	rules := cfg.Rules()
	if v := paramInt(params, "target_score", 0); v > 0 {
		rules.TargetScore = v
	}
	if v := paramInt(params, "hands_to_win", 0); v > 0 {
		rules.HandsToWin = v
	}
	if v := paramInt(params, "team_count", -1); v >= 0 {
		rules.TeamCount = v
	}

	game, err := domain.NewGame(numPlayers, rules)
	if err != nil {
		logger.Error("MatchInit: %v", err)
		return nil, 0, ""
	}

	state := &matchState{
		Seats:     make([]string, numPlayers),
		Presences: make(map[string]runtime.Presence),
		OwnerSeat: -1,
		Authority: replication.NewAuthority(game, app.NewService(nil), logger),
		Bots:      make(map[int]*bot.Agent),
		Cfg:       cfg,
		Rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	state.Authority.Subscribe(func(s replication.Snapshot) {
		state.outbox = append(state.outbox, s)
	})
	state.outbox = nil // discard the subscription replay; nobody joined yet

	state.lastLabel = buildLabel(state)
	return state, 1, state.lastLabel
}

func paramInt(params map[string]interface{}, key string, fallback int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

// MatchJoinAttempt admits players while seats remain; rejoin is always
// allowed so a dropped observer can resync from the latest snapshot.
func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	ms, ok := state.(*matchState)
	if !ok {
		return state, false, "state not found"
	}
	if ms.seatOf(presence.GetUserId()) >= 0 {
		return state, true, ""
	}
	if ms.Authority.Game().Phase != domain.PhaseWaiting {
		return state, false, "match_in_progress"
	}
	if ms.openSeats() == 0 {
		return state, false, "match_full"
	}
	return state, true, ""
}

// MatchJoin seats joining presences and mirrors the latest snapshot to them.
func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*matchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		ms.Presences[uid] = p

		if ms.seatOf(uid) >= 0 {
			continue // rejoin, seat kept
		}
		for i, s := range ms.Seats {
			if s == "" {
				ms.Seats[i] = uid
				break
			}
		}
	}

	if ms.OwnerSeat < 0 || bot.IsBot(ms.Seats[ms.OwnerSeat]) || ms.Seats[ms.OwnerSeat] == "" {
		ms.OwnerSeat = ms.firstHumanSeat()
	}

	// A full-state overwrite is all a joiner (or rejoiner) needs.
	ms.outbox = append(ms.outbox, ms.Authority.Snapshot())
	mh.flush(ms, dispatcher, logger)
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

// MatchLeave frees nothing mid-game: the seat stays bound so the player can
// rejoin, and forfeiture is a lobby-side policy. The match terminates when
// no humans remain.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	ms, ok := state.(*matchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(ms.Presences, uid)
		if ms.Authority.Game().Phase == domain.PhaseWaiting {
			if seat := ms.seatOf(uid); seat >= 0 {
				ms.Seats[seat] = ""
			}
		}
	}

	humans := 0
	for uid := range ms.Presences {
		if !bot.IsBot(uid) {
			humans++
		}
	}
	if humans == 0 {
		logger.Info("MatchLeave: no humans connected, terminating match")
		return nil
	}

	if ms.OwnerSeat < 0 || ms.Seats[ms.OwnerSeat] == "" || bot.IsBot(ms.Seats[ms.OwnerSeat]) {
		ms.OwnerSeat = ms.firstHumanSeat()
	}
	mh.updateLabel(ms, dispatcher, logger)
	return ms
}

// MatchLoop is the authority's single-writer pump: decode messages into
// intents, drain the inbox one intent at a time, let due bots act, advance
// the deliberate pauses, then flush the published snapshots.
func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	ms, ok := state.(*matchState)
	if !ok {
		return state
	}
	ms.Tick = tick

	var events []app.Event
	for _, msg := range messages {
		events = append(events, mh.handleMessage(ms, dispatcher, logger, msg)...)
	}
	events = append(events, ms.Authority.Drain()...)
	events = append(events, mh.processBots(ms, logger)...)
	events = append(events, mh.processPauses(ms, logger)...)

	mh.broadcastEvents(ms, dispatcher, logger, events)
	mh.flush(ms, dispatcher, logger)
	mh.updateLabel(ms, dispatcher, logger)

	if ms.Authority.Game().Phase == domain.PhaseGameOver {
		logger.Info("MatchLoop: game over after %d ticks", tick)
	}
	return ms
}

func (mh *matchHandler) handleMessage(ms *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) []app.Event {
	senderSeat := ms.seatOf(msg.GetUserId())
	if senderSeat < 0 {
		logger.Warn("handleMessage: message from unseated user %s", msg.GetUserId())
		return nil
	}

	switch msg.GetOpCode() {
	case OpCodeStartGame:
		return mh.handleStartGame(ms, logger, senderSeat)
	case OpCodePlayCard, OpCodeRob, OpCodeDeclineRob:
		in, err := replication.DecodeIntent(msg.GetData())
		if err != nil {
			logger.Warn("handleMessage: bad intent payload from %s: %v", msg.GetUserId(), err)
			mh.sendError(ms, dispatcher, logger, msg.GetUserId(), "malformed intent")
			return nil
		}
		// The acting seat is derived from the sender, never trusted
		// from the payload.
		in.Seat = senderSeat
		in.Kind = intentKindFor(msg.GetOpCode())
		ms.Authority.Submit(in)
		return nil
	default:
		logger.Warn("handleMessage: unknown opcode %d", msg.GetOpCode())
		return nil
	}
}

func intentKindFor(opCode int64) replication.IntentKind {
	switch opCode {
	case OpCodeRob:
		return replication.IntentRob
	case OpCodeDeclineRob:
		return replication.IntentDeclineRob
	default:
		return replication.IntentPlayCard
	}
}

func (mh *matchHandler) handleStartGame(ms *matchState, logger runtime.Logger, senderSeat int) []app.Event {
	if senderSeat != ms.OwnerSeat {
		logger.Warn("handleStartGame: seat %d is not the owner", senderSeat)
		return nil
	}
	if ms.Authority.Game().Phase != domain.PhaseWaiting {
		logger.Warn("handleStartGame: match already started")
		return nil
	}

	// Fill the remaining seats with bot agents.
	for i, s := range ms.Seats {
		if s != "" {
			continue
		}
		identity := bot.GetIdentity(i)
		if identity.Difficulty == "" {
			identity.Difficulty = ms.Cfg.BotDifficulty
		}
		agent, err := bot.NewAgent(identity)
		if err != nil {
			logger.Error("handleStartGame: failed to create bot agent: %v", err)
			continue
		}
		ms.Seats[i] = identity.UserID
		ms.Bots[i] = agent
	}

	events, err := ms.Authority.Start()
	if err != nil {
		logger.Error("handleStartGame: %v", err)
		return nil
	}
	logger.Info("handleStartGame: hand started, dealer seat %d", ms.Authority.Game().Dealer)
	return events
}

// processBots lets a bot seat act once its thinking delay has elapsed. Bot
// moves travel through the same intent inbox as remote players.
func (mh *matchHandler) processBots(ms *matchState, logger runtime.Logger) []app.Event {
	g := ms.Authority.Game()

	var seat int
	switch g.Phase {
	case domain.PhasePlaying:
		seat = g.CurrentPlayer
	case domain.PhaseRobbing:
		seat = g.RobberSeat()
	default:
		ms.BotWaitUntil = 0
		return nil
	}

	agent, isBot := ms.Bots[seat]
	if !isBot {
		ms.BotWaitUntil = 0
		return nil
	}

	if ms.BotWaitUntil == 0 {
		delay := ms.Cfg.BotMinDelaySec
		if ms.Cfg.BotMaxDelaySec > ms.Cfg.BotMinDelaySec {
			delay += ms.Rng.Intn(ms.Cfg.BotMaxDelaySec - ms.Cfg.BotMinDelaySec + 1)
		}
		ms.BotWaitUntil = ms.Tick + int64(delay)
		return nil
	}
	if ms.Tick < ms.BotWaitUntil {
		return nil
	}
	ms.BotWaitUntil = 0

	switch g.Phase {
	case domain.PhaseRobbing:
		decision := agent.RobTurn(g, seat)
		if decision.Accept || g.TrumpCardIsAce {
			ms.Authority.Submit(replication.NewRobIntent(seat, decision.Discard))
		} else {
			ms.Authority.Submit(replication.NewDeclineRobIntent(seat))
		}
	case domain.PhasePlaying:
		card, err := agent.PlayTurn(g, seat)
		if err != nil {
			logger.Error("processBots: seat %d: %v", seat, err)
			return nil
		}
		ms.Authority.Submit(replication.NewPlayIntent(seat, card))
	}
	return ms.Authority.Drain()
}

// processPauses drives the trick-complete and hand-complete pauses. The
// state machine only exposes explicit advance entry points; the pacing
// lives here.
func (mh *matchHandler) processPauses(ms *matchState, logger runtime.Logger) []app.Event {
	g := ms.Authority.Game()

	switch g.Phase {
	case domain.PhaseTrickComplete:
		if ms.PauseUntil == 0 {
			ms.PauseUntil = ms.Tick + int64(ms.Cfg.TrickPauseSec)
			return nil
		}
		if ms.Tick < ms.PauseUntil {
			return nil
		}
		ms.PauseUntil = 0
		events, err := ms.Authority.AdvanceTrick()
		if err != nil {
			logger.Error("processPauses: advance trick: %v", err)
		}
		return events
	case domain.PhaseHandComplete:
		if ms.PauseUntil == 0 {
			ms.PauseUntil = ms.Tick + int64(ms.Cfg.HandPauseSec)
			return nil
		}
		if ms.Tick < ms.PauseUntil {
			return nil
		}
		ms.PauseUntil = 0
		events, err := ms.Authority.AdvanceHand()
		if err != nil {
			logger.Error("processPauses: advance hand: %v", err)
		}
		return events
	default:
		ms.PauseUntil = 0
		return nil
	}
}

// eventEnvelope is the wire form of one app event.
type eventEnvelope struct {
	Kind    app.EventKind `json:"kind"`
	Payload any           `json:"payload"`
}

func (mh *matchHandler) broadcastEvents(ms *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, events []app.Event) {
	for _, ev := range events {
		data, err := json.Marshal(eventEnvelope{Kind: ev.Kind, Payload: ev.Payload})
		if err != nil {
			logger.Error("broadcastEvents: marshal %s: %v", ev.Kind, err)
			continue
		}

		var recipients []runtime.Presence
		if len(ev.Seats) > 0 {
			for _, seat := range ev.Seats {
				if seat < 0 || seat >= len(ms.Seats) {
					continue
				}
				if p, ok := ms.Presences[ms.Seats[seat]]; ok {
					recipients = append(recipients, p)
				}
			}
			// Targeted events for bot-only recipients must not leak
			// to everyone else.
			if len(recipients) == 0 {
				continue
			}
		}
		if err := dispatcher.BroadcastMessage(OpCodeEvent, data, recipients, nil, true); err != nil {
			logger.Error("broadcastEvents: %v", err)
		}
	}
}

// flush sends every snapshot published during this iteration, in order.
// Each is a complete overwrite, so observers can also discard all but the
// last.
func (mh *matchHandler) flush(ms *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, snap := range ms.outbox {
		data, err := replication.EncodeSnapshot(snap)
		if err != nil {
			logger.Error("flush: encode snapshot seq=%d: %v", snap.Seq, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(OpCodeSnapshot, data, nil, nil, true); err != nil {
			logger.Error("flush: %v", err)
		}
	}
	ms.outbox = ms.outbox[:0]
}

func (mh *matchHandler) sendError(ms *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID, message string) {
	p, ok := ms.Presences[userID]
	if !ok {
		return
	}
	data, _ := json.Marshal(map[string]string{"message": message})
	if err := dispatcher.BroadcastMessage(OpCodeError, data, []runtime.Presence{p}, nil, true); err != nil {
		logger.Error("sendError: %v", err)
	}
}

func (mh *matchHandler) updateLabel(ms *matchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	l := buildLabel(ms)
	if l == ms.lastLabel {
		return
	}
	ms.lastLabel = l
	if err := dispatcher.MatchLabelUpdate(l); err != nil {
		logger.Error("updateLabel: %v", err)
	}
}

// MatchTerminate runs on match shutdown; nothing to persist.
func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	return state
}

// MatchSignal handles out-of-band signals; unused.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
