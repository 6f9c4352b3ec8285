// Package engine evaluates live game snapshots against a checkpoint route and
// drives an external timer's start/split/reset state machine.
package engine

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/chained-autosplit/internal/core"
)

// TicksPerSecond is the in-game timer resolution.
const TicksPerSecond = 60

// ErrDetached is returned by a Source once the observed process is gone.
// Any other Source error is treated as a transient read failure.
var ErrDetached = errors.New("engine: process detached")

// Snapshot is one tick's read of player position and elapsed in-game time.
// A Snapshot is always a complete read; failed reads produce an error instead.
type Snapshot struct {
	Pos   core.Vec3
	Timer uint32 // In-game time in 1/60 s units
}

// Seconds returns the whole seconds of in-game time.
func (s Snapshot) Seconds() uint32 {
	return s.Timer / TicksPerSecond
}

// Frames returns the sub-second remainder in timer ticks.
func (s Snapshot) Frames() uint32 {
	return s.Timer % TicksPerSecond
}

// String formats the snapshot for debug logs: "(x, y, z) (s:ff)".
func (s Snapshot) String() string {
	return fmt.Sprintf("%v (%d:%02d)", s.Pos, s.Seconds(), s.Frames())
}

// TimerPhase is the externally owned state of the timer being driven.
type TimerPhase int

const (
	PhaseUnknown TimerPhase = iota
	PhaseNotRunning
	PhaseRunning
	PhasePaused
	PhaseEnded
)

// String returns the phase name as the LiveSplit server spells it.
func (p TimerPhase) String() string {
	switch p {
	case PhaseNotRunning:
		return "NotRunning"
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	case PhaseEnded:
		return "Ended"
	default:
		return "Unknown"
	}
}

// Startable reports whether a run may be started from this phase.
func (p TimerPhase) Startable() bool {
	return p == PhaseNotRunning || p == PhaseEnded || p == PhaseUnknown
}

// Source supplies one snapshot per tick.
type Source interface {
	Read() (Snapshot, error)
}

// Sink is the timer being driven. Actions are fire-and-forget.
type Sink interface {
	Phase() TimerPhase
	Start()
	Split()
	Reset()
	SetGameTime(seconds float64)
}
