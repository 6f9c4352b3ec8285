// Package timer provides the sinks the autosplitter drives: an in-process
// timer and clients for the LiveSplit Server TCP and WebSocket interfaces.
package timer

import (
	"sync"
	"time"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

// Split is one recorded split on the local timer.
type Split struct {
	Index    int
	GameTime time.Duration
	RealTime time.Duration
}

// Local is an in-process timer. It follows LiveSplit's phase rules closely
// enough to stand in for it during replays and in the TUI.
type Local struct {
	mu       sync.Mutex
	phase    engine.TimerPhase
	segments int
	started  time.Time
	gameTime time.Duration
	splits   []Split
	runs     int
	now      func() time.Time
}

// NewLocal creates a stopped timer. When segments is positive the timer
// ends after that many splits.
func NewLocal(segments int) *Local {
	return &Local{
		phase:    engine.PhaseNotRunning,
		segments: segments,
		now:      time.Now,
	}
}

// Phase returns the current phase.
func (l *Local) Phase() engine.TimerPhase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// Start begins a new run unless one is in progress.
func (l *Local) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase == engine.PhaseRunning || l.phase == engine.PhasePaused {
		return
	}
	l.phase = engine.PhaseRunning
	l.started = l.now()
	l.splits = nil
	l.runs++
}

// Split records a split while running.
func (l *Local) Split() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != engine.PhaseRunning {
		return
	}
	l.splits = append(l.splits, Split{
		Index:    len(l.splits),
		GameTime: l.gameTime,
		RealTime: l.now().Sub(l.started),
	})
	if l.segments > 0 && len(l.splits) >= l.segments {
		l.phase = engine.PhaseEnded
	}
}

// Reset stops the timer and discards the current run's splits.
func (l *Local) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.phase = engine.PhaseNotRunning
	l.splits = nil
	l.gameTime = 0
}

// SetGameTime syncs the game time clock.
func (l *Local) SetGameTime(seconds float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gameTime = time.Duration(seconds * float64(time.Second))
}

// GameTime returns the last synced game time.
func (l *Local) GameTime() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gameTime
}

// Splits returns a copy of the current run's splits.
func (l *Local) Splits() []Split {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Split, len(l.splits))
	copy(out, l.splits)
	return out
}

// Runs returns how many runs have been started.
func (l *Local) Runs() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runs
}
