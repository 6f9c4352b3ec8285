package core

import "time"

// RuntimeConfig contains configuration passed to the tick loop at startup.
type RuntimeConfig struct {
	TickRate       int           // Evaluation ticks per second (default 60)
	AttachInterval time.Duration // Delay between attach attempts while the game is closed
	Debug          bool          // Log every snapshot
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate:       60,
		AttachInterval: time.Second,
	}
}

// TickInterval returns the duration of a single tick.
// Non-positive tick rates fall back to the default of 60.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}
