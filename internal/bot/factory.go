package bot

import "fmt"

// Level selects a bot strategy.
type Level int

const (
	LevelEasy Level = iota
	LevelNormal
	LevelHard
)

// LevelFromString maps a config difficulty onto a Level, defaulting to
// normal for unknown values.
func LevelFromString(s string) Level {
	switch s {
	case "easy":
		return LevelEasy
	case "hard":
		return LevelHard
	default:
		return LevelNormal
	}
}

// NewBrain creates the strategy for the given level.
func NewBrain(level Level) (Brain, error) {
	switch level {
	case LevelEasy:
		return EasyBrain{}, nil
	case LevelNormal:
		return NormalBrain{}, nil
	case LevelHard:
		return HardBrain{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
