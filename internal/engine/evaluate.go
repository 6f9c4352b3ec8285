package engine

import (
	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/splits"
)

// MenuCheck reports whether a position is a menu/lobby landmark.
type MenuCheck func(p core.Vec3) bool

// Input is everything a single evaluation looks at.
type Input struct {
	Current  Snapshot
	Previous Snapshot
	Phase    TimerPhase // As of tick start; never updated mid-evaluation
	Armed    int
	Route    *splits.Route
	Settings splits.Settings
	InMenu   MenuCheck
}

// Decision is the outcome of one evaluation.
type Decision struct {
	Start   bool
	Split   bool
	Reset   bool
	SplitOn int // Checkpoint that was split on, valid when Split is set
	Armed   int // Armed checkpoint after this tick
}

// Any reports whether at least one timer action was requested.
func (d Decision) Any() bool {
	return d.Start || d.Split || d.Reset
}

// ShouldStart reports whether the in-game timer just left zero.
func ShouldStart(cur, prev Snapshot) bool {
	return prev.Timer == 0 && cur.Timer != 0
}

// ShouldReset reports whether the player is idle in a menu with no run going.
func ShouldReset(cur Snapshot, inMenu MenuCheck) bool {
	return cur.Timer == 0 && inMenu != nil && inMenu(cur.Pos)
}

// Evaluate applies start, split, reset and idle re-arm in that order.
// All four rules see the same snapshot and the same phase.
func Evaluate(in Input) Decision {
	d := Decision{Armed: in.Armed}

	if in.Phase.Startable() && ShouldStart(in.Current, in.Previous) {
		d.Start = true
	}

	if in.Phase == PhaseRunning && in.Route.At(d.Armed).Reached(in.Current.Pos) {
		d.Split = true
		d.SplitOn = d.Armed
		d.Armed = in.Route.NextEnabled(d.Armed, in.Settings)
	}

	if in.Phase != PhaseNotRunning && ShouldReset(in.Current, in.InMenu) {
		d.Reset = true
		d.Armed = in.Route.FirstEnabled(in.Settings)
	}

	// Runs every idle tick even when already armed correctly, so a stale
	// checkpoint from an aborted run or a settings change never carries over.
	if in.Phase == PhaseNotRunning {
		d.Armed = in.Route.FirstEnabled(in.Settings)
	}

	return d
}

// State is the per-attachment evaluation state: the previous snapshot and
// the armed checkpoint. It is owned by one tick loop and discarded on detach.
type State struct {
	Previous Snapshot
	Armed    int

	route    *splits.Route
	settings splits.Settings
	inMenu   MenuCheck
}

// NewState creates fresh state with the first enabled checkpoint armed.
func NewState(route *splits.Route, settings splits.Settings, inMenu MenuCheck) *State {
	return &State{
		Armed:    route.FirstEnabled(settings),
		route:    route,
		settings: settings,
		inMenu:   inMenu,
	}
}

// Advance evaluates one successful snapshot and commits the result.
func (s *State) Advance(cur Snapshot, phase TimerPhase) Decision {
	d := Evaluate(Input{
		Current:  cur,
		Previous: s.Previous,
		Phase:    phase,
		Armed:    s.Armed,
		Route:    s.route,
		Settings: s.settings,
		InMenu:   s.inMenu,
	})
	s.Armed = d.Armed
	s.Previous = cur
	return d
}

// ArmedCheckpoint returns the checkpoint the next split will be awarded for.
func (s *State) ArmedCheckpoint() splits.Checkpoint {
	return s.route.At(s.Armed)
}
