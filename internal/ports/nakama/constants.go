package nakama

// MatchName is the authoritative match handler name registered with Nakama.
const MatchName = "twentyfive_match"

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpCodeStartGame  int64 = 1
	OpCodePlayCard   int64 = 2
	OpCodeRob        int64 = 3
	OpCodeDeclineRob int64 = 4

	// Server -> Client
	OpCodeSnapshot int64 = 101
	OpCodeEvent    int64 = 102
	OpCodeError    int64 = 103
)
