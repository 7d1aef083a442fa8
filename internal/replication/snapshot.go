package replication

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"twentyfive/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot is the full-state wire form of a game. Publication is always a
// complete overwrite, never a diff: an observer that reconnects mid-match
// only needs the latest snapshot. Hands are keyed by seat so a transport
// that writes fields sparsely cannot corrupt neighbouring seats, and the
// pack and trick are elided when empty.
type Snapshot struct {
	Seq uint64 `json:"seq"`

	Phase      domain.Phase      `json:"phase"`
	NumPlayers int               `json:"num_players"`
	Rules      domain.RuleConfig `json:"rules"`

	Dealer        int `json:"dealer"`
	CurrentPlayer int `json:"current_player"`

	TrumpSuit         domain.Suit `json:"trump_suit"`
	TrumpCard         domain.Card `json:"trump_card"`
	TrumpCardConsumed bool        `json:"trump_card_consumed"`
	TrumpCardIsAce    bool        `json:"trump_card_is_ace"`

	Hands map[string][]domain.Card `json:"hands"`
	Pack  []domain.Card            `json:"pack,omitempty"`

	Trick                []domain.TrickCard `json:"trick,omitempty"`
	TrickLeader          int                `json:"trick_leader"`
	FirstPlayerThisTrick int                `json:"first_player_this_trick"`
	TrickWinner          int                `json:"trick_winner"`

	RobberList []int `json:"robbers,omitempty"`
	RobberSeat int   `json:"robber_seat"`

	Scores     []int `json:"scores"`
	HandWins   []int `json:"hand_wins"`
	HandWinner int   `json:"hand_winner"`

	HandNumber      int `json:"hand_number"`
	TricksCompleted int `json:"tricks_completed"`
}

// SnapshotOf captures the game into wire form under the given sequence
// number.
func SnapshotOf(g *domain.Game, seq uint64) Snapshot {
	hands := make(map[string][]domain.Card, g.NumPlayers)
	for seat, h := range g.Hands {
		hands[strconv.Itoa(seat)] = append([]domain.Card(nil), h...)
	}
	return Snapshot{
		Seq:                  seq,
		Phase:                g.Phase,
		NumPlayers:           g.NumPlayers,
		Rules:                g.Rules,
		Dealer:               g.Dealer,
		CurrentPlayer:        g.CurrentPlayer,
		TrumpSuit:            g.TrumpSuit,
		TrumpCard:            g.TrumpCard,
		TrumpCardConsumed:    g.TrumpCardConsumed,
		TrumpCardIsAce:       g.TrumpCardIsAce,
		Hands:                hands,
		Pack:                 append([]domain.Card(nil), g.Pack...),
		Trick:                append([]domain.TrickCard(nil), g.CurrentTrick.Cards...),
		TrickLeader:          g.CurrentTrick.Leader,
		FirstPlayerThisTrick: g.FirstPlayerThisTrick,
		TrickWinner:          g.TrickWinner,
		RobberList:           append([]int(nil), g.Robbers...),
		RobberSeat:           g.RobberSeat(),
		Scores:               append([]int(nil), g.Scores...),
		HandWins:             append([]int(nil), g.HandWins...),
		HandWinner:           g.HandWinner,
		HandNumber:           g.HandNumber,
		TricksCompleted:      g.TricksCompleted,
	}
}

// HandOf returns the mirrored hand for a seat.
func (s Snapshot) HandOf(seat int) []domain.Card {
	return s.Hands[strconv.Itoa(seat)]
}

// CurrentTrick rebuilds the trick structure from the wire form.
func (s Snapshot) CurrentTrick() domain.Trick {
	return domain.Trick{
		Cards:  append([]domain.TrickCard(nil), s.Trick...),
		Leader: s.TrickLeader,
	}
}

// LegalPlays recomputes the legal card set for a seat from the snapshot
// alone. Observers use this for responsive UI feedback; the authority
// re-validates independently.
func (s Snapshot) LegalPlays(seat int) []domain.Card {
	if s.Phase != domain.PhasePlaying || seat != s.CurrentPlayer {
		return nil
	}
	return domain.LegalPlays(s.HandOf(seat), s.CurrentTrick(), s.TrumpSuit)
}

// EncodeSnapshot serializes a snapshot for the wire.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a snapshot payload.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(data, &s)
	return s, err
}
