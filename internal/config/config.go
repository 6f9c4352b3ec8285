// Package config provides YAML-based settings loading, environment overrides
// and live-reloadable checkpoint toggles for the autosplitter.
package config

import (
	"sort"
	"sync"
	"time"
)

// Timer sink kinds.
const (
	TimerLocal       = "local"
	TimerLiveSplit   = "livesplit"
	TimerLiveSplitWS = "livesplit-ws"
)

// File is the on-disk settings document.
type File struct {
	Game        string          `yaml:"game" env:"AUTOSPLIT_GAME"`
	TickRate    int             `yaml:"tick_rate" env:"AUTOSPLIT_TICK_RATE"`
	Debug       bool            `yaml:"debug" env:"AUTOSPLIT_DEBUG"`
	Timer       TimerConfig     `yaml:"timer"`
	Checkpoints map[string]bool `yaml:"checkpoints"`
}

// TimerConfig selects and addresses the timer being driven.
type TimerConfig struct {
	Kind    string        `yaml:"kind" env:"AUTOSPLIT_TIMER"`
	Address string        `yaml:"address" env:"AUTOSPLIT_TIMER_ADDR"`
	Timeout time.Duration `yaml:"timeout" env:"AUTOSPLIT_TIMER_TIMEOUT"`
}

// Toggles holds the per-checkpoint enable flags shared between the tick
// loop and whatever updates settings (file watcher, TUI). Safe for
// concurrent use; checkpoints without an entry are enabled. The zero value
// has every checkpoint enabled.
type Toggles struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewToggles creates toggles from a flag map. The map is copied.
func NewToggles(flags map[string]bool) *Toggles {
	t := &Toggles{}
	t.Replace(flags)
	return t
}

// CheckpointEnabled returns the current flag for key, defaulting to true.
func (t *Toggles) CheckpointEnabled(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	enabled, ok := t.flags[key]
	return !ok || enabled
}

// Set changes one flag.
func (t *Toggles) Set(key string, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ensure()
	t.flags[key] = enabled
}

// Toggle flips one flag and returns the new value.
func (t *Toggles) Toggle(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ensure()
	enabled, ok := t.flags[key]
	next := ok && !enabled
	t.flags[key] = next
	return next
}

// ensure allocates flags for a zero-value Toggles. Callers hold mu.
func (t *Toggles) ensure() {
	if t.flags == nil {
		t.flags = make(map[string]bool)
	}
}

// Replace swaps in a whole new flag set.
func (t *Toggles) Replace(flags map[string]bool) {
	cp := make(map[string]bool, len(flags))
	for k, v := range flags {
		cp[k] = v
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.flags = cp
}

// Snapshot returns a copy of the explicit flags.
func (t *Toggles) Snapshot() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cp := make(map[string]bool, len(t.flags))
	for k, v := range t.flags {
		cp[k] = v
	}
	return cp
}

// Disabled returns the sorted keys of disabled checkpoints.
func (t *Toggles) Disabled() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var keys []string
	for k, v := range t.flags {
		if !v {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
