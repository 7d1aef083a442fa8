package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"twentyfive/internal/domain"
)

// GameConfig is the table and pacing configuration loaded at module start.
// Match params may still override the rule fields per match.
type GameConfig struct {
	TargetScore    int    `json:"target_score"`
	HandsToWin     int    `json:"hands_to_win"`
	PointsPerTrick int    `json:"points_per_trick"`
	TeamCount      int    `json:"team_count"`
	BotDifficulty  string `json:"bot_difficulty"`
	// BotMinDelaySec/BotMaxDelaySec bound the "thinking" pause before a
	// bot seat acts.
	BotMinDelaySec int `json:"bot_min_delay_sec"`
	BotMaxDelaySec int `json:"bot_max_delay_sec"`
	// TrickPauseSec is the UI-visible pause between a trick completing
	// and the table clearing; HandPauseSec the pause between hands.
	TrickPauseSec int `json:"trick_pause_sec"`
	HandPauseSec  int `json:"hand_pause_sec"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Defaults returns the standard configuration used when no file is loaded.
func Defaults() GameConfig {
	return GameConfig{
		TargetScore:    25,
		HandsToWin:     1,
		PointsPerTrick: 5,
		BotDifficulty:  "normal",
		BotMinDelaySec: 1,
		BotMaxDelaySec: 3,
		TrickPauseSec:  2,
		HandPauseSec:   4,
	}
}

// Load reads the game configuration from the given path. Missing fields
// keep their defaults.
func Load(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c := Defaults()
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// Get returns the loaded configuration, or the defaults when loading never
// happened or failed.
func Get() GameConfig {
	if cfg == nil {
		return Defaults()
	}
	return *cfg
}

// Rules converts the configuration into the domain rule set.
func (c GameConfig) Rules() domain.RuleConfig {
	return domain.RuleConfig{
		TargetScore:    c.TargetScore,
		HandsToWin:     c.HandsToWin,
		PointsPerTrick: c.PointsPerTrick,
		TeamCount:      c.TeamCount,
	}
}
