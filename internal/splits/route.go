// Package splits models an ordered route of checkpoints and the rules for
// choosing which checkpoint is armed next.
//
// Disabled checkpoints are skipped transparently, which lets partial-run
// categories reuse the full route without restructuring it.
package splits

import (
	"fmt"

	"github.com/vovakirdan/chained-autosplit/internal/core"
)

// Checkpoint is a named split trigger bound to one geometric predicate.
type Checkpoint struct {
	Key       string // Stable settings key, e.g. "first_ladder"
	Name      string // Display name, e.g. "First Ladder"
	Predicate core.Predicate
}

// Reached reports whether the position satisfies the checkpoint's predicate.
func (c Checkpoint) Reached(p core.Vec3) bool {
	return c.Predicate.Contains(p)
}

// Settings exposes the per-checkpoint enable flags.
// Implementations may change between calls; the route never caches answers.
type Settings interface {
	CheckpointEnabled(key string) bool
}

// AllEnabled is a Settings that enables every checkpoint.
type AllEnabled struct{}

// CheckpointEnabled always returns true.
func (AllEnabled) CheckpointEnabled(string) bool { return true }

// Route is an immutable ordered list of checkpoints.
// The last checkpoint is its own successor.
type Route struct {
	checkpoints []Checkpoint
	index       map[string]int
}

// NewRoute builds a route from an ordered checkpoint list.
// Panics if the list is empty or a key is repeated; routes are static data.
func NewRoute(checkpoints []Checkpoint) *Route {
	if len(checkpoints) == 0 {
		panic("splits: route has no checkpoints")
	}

	r := &Route{
		checkpoints: make([]Checkpoint, len(checkpoints)),
		index:       make(map[string]int, len(checkpoints)),
	}
	copy(r.checkpoints, checkpoints)

	for i, c := range r.checkpoints {
		if _, dup := r.index[c.Key]; dup {
			panic(fmt.Sprintf("splits: duplicate checkpoint key %q", c.Key))
		}
		r.index[c.Key] = i
	}
	return r
}

// Len returns the number of checkpoints in the route.
func (r *Route) Len() int {
	return len(r.checkpoints)
}

// At returns the checkpoint at index i.
func (r *Route) At(i int) Checkpoint {
	return r.checkpoints[i]
}

// Last returns the index of the terminal checkpoint.
func (r *Route) Last() int {
	return len(r.checkpoints) - 1
}

// Lookup returns the index of the checkpoint with the given key.
func (r *Route) Lookup(key string) (int, bool) {
	i, ok := r.index[key]
	return i, ok
}

// Keys returns all checkpoint keys in route order.
func (r *Route) Keys() []string {
	keys := make([]string, len(r.checkpoints))
	for i, c := range r.checkpoints {
		keys[i] = c.Key
	}
	return keys
}

// NextRaw returns the strict successor of i. The last index maps to itself.
func (r *Route) NextRaw(i int) int {
	if i >= r.Last() {
		return r.Last()
	}
	return i + 1
}

// IsEnabled reads the enable flag for checkpoint i from s.
func (r *Route) IsEnabled(i int, s Settings) bool {
	return s.CheckpointEnabled(r.checkpoints[i].Key)
}

// NextEnabled returns the first enabled checkpoint after i.
// The walk stops at the terminal checkpoint even when it is disabled.
func (r *Route) NextEnabled(i int, s Settings) int {
	return r.seek(r.NextRaw(i), s)
}

// FirstEnabled returns the first enabled checkpoint of the route,
// or the terminal checkpoint when nothing before it is enabled.
func (r *Route) FirstEnabled(s Settings) int {
	return r.seek(0, s)
}

func (r *Route) seek(i int, s Settings) int {
	for !r.IsEnabled(i, s) {
		next := r.NextRaw(i)
		if next == i {
			break
		}
		i = next
	}
	return i
}
