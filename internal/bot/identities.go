package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Identity is one entry of the bot profile pool.
type Identity struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "normal", "hard"
}

const botIDPrefix = "bot:"

var (
	identities   []Identity
	identityByID map[string]Identity
	loadOnce     sync.Once
	loadErr      error
)

// LoadIdentities loads the bot profile pool from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		identityByID = make(map[string]Identity, len(identities))
		for _, id := range identities {
			identityByID[id.UserID] = id
		}
	})
	return loadErr
}

// GetIdentity returns an identity by index, falling back to a generated one
// when the pool is missing or exhausted.
func GetIdentity(index int) Identity {
	if len(identities) == 0 {
		return Identity{
			UserID:      fmt.Sprintf("%s%d", botIDPrefix, index),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
			Difficulty:  "normal",
		}
	}
	return identities[index%len(identities)]
}

// DisplayName returns the display name for a bot user ID, or "".
func DisplayName(userID string) string {
	if id, ok := identityByID[userID]; ok {
		return id.DisplayName
	}
	return ""
}

// IsBot reports whether the user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, botIDPrefix) {
		return true
	}
	_, ok := identityByID[userID]
	return ok
}
