package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// RpcQuickMatch is the RPC endpoint name for find-or-create matchmaking.
const RpcQuickMatch = "find_twentyfive_match"

// QuickMatchRequest carries optional match parameters for a newly created
// match. Zero values fall back to server configuration.
type QuickMatchRequest struct {
	Players     int `json:"players,omitempty"`
	TargetScore int `json:"target_score,omitempty"`
	HandsToWin  int `json:"hands_to_win,omitempty"`
	TeamCount   int `json:"team_count,omitempty"`
}

// QuickMatchResponse is the payload returned to clients when requesting a
// joinable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			logger.Warn("rpcQuickMatch [User:%s]: bad payload, using defaults: %v", userID, err)
			req = QuickMatchRequest{}
		}
	}

	// Find any open match that is our game and still waiting for players.
	query := "+label.open:T +label.game:twentyfive"
	limit := 10
	authoritative := true
	minSize := 1
	maxSize := 8

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: match list: %v", userID, err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	params := map[string]interface{}{}
	if req.Players > 0 {
		params["players"] = req.Players
	}
	if req.TargetScore > 0 {
		params["target_score"] = req.TargetScore
	}
	if req.HandsToWin > 0 {
		params["hands_to_win"] = req.HandsToWin
	}
	if req.TeamCount > 0 {
		params["team_count"] = req.TeamCount
	}

	matchID, err := nk.MatchCreate(ctx, MatchName, params)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: match create: %v", userID, err)
		return "", err
	}

	logger.Info("rpcQuickMatch [User:%s]: created match %s", userID, matchID)
	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}
