package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	if c.TargetScore != 25 || c.PointsPerTrick != 5 || c.HandsToWin != 1 {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.BotMaxDelaySec < c.BotMinDelaySec {
		t.Fatalf("bot delay bounds inverted: %+v", c)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{"target_score": 45, "bot_difficulty": "hard"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Load(path); err != nil {
		t.Fatal(err)
	}
	c := Get()
	if c.TargetScore != 45 {
		t.Errorf("target_score = %d, want 45", c.TargetScore)
	}
	if c.BotDifficulty != "hard" {
		t.Errorf("bot_difficulty = %q, want hard", c.BotDifficulty)
	}
	// Fields absent from the file keep their defaults.
	if c.PointsPerTrick != 5 || c.TrickPauseSec != 2 {
		t.Errorf("defaults lost: %+v", c)
	}
}

func TestRulesConversion(t *testing.T) {
	c := Defaults()
	c.TeamCount = 2
	rules := c.Rules()
	if rules.TargetScore != c.TargetScore || rules.TeamCount != 2 || rules.PointsPerTrick != c.PointsPerTrick {
		t.Fatalf("rules = %+v from %+v", rules, c)
	}
}
