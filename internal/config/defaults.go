package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/settings.yaml
var defaultSettingsYAML []byte

// DefaultFile returns the hardcoded default settings.
// Checkpoints is empty, which enables every checkpoint.
func DefaultFile() File {
	return File{
		Game:     "chained",
		TickRate: 60,
		Timer: TimerConfig{
			Kind:    TimerLiveSplit,
			Address: "localhost:16834",
			Timeout: 500 * time.Millisecond,
		},
		Checkpoints: map[string]bool{},
	}
}

// DefaultYAML returns the embedded default settings document.
func DefaultYAML() []byte {
	return defaultSettingsYAML
}
