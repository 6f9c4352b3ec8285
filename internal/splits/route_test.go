package splits

import (
	"testing"

	"github.com/vovakirdan/chained-autosplit/internal/core"
)

// flags is a Settings backed by a map; missing keys are enabled.
type flags map[string]bool

func (f flags) CheckpointEnabled(key string) bool {
	v, ok := f[key]
	return !ok || v
}

// countingFlags records every lookup so tests can check reads are not cached.
type countingFlags struct {
	flags
	reads int
}

func (c *countingFlags) CheckpointEnabled(key string) bool {
	c.reads++
	return c.flags.CheckpointEnabled(key)
}

func testRoute() *Route {
	return NewRoute([]Checkpoint{
		{Key: "a", Name: "A", Predicate: core.NewHeight(10)},
		{Key: "b", Name: "B", Predicate: core.NewHeight(20)},
		{Key: "c", Name: "C", Predicate: core.NewHeight(30)},
		{Key: "d", Name: "D", Predicate: core.NewHeight(40)},
	})
}

func TestNextRaw(t *testing.T) {
	r := testRoute()

	tests := []struct {
		from, expected int
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 3}, // tail is a fixed point
	}

	for _, tc := range tests {
		if got := r.NextRaw(tc.from); got != tc.expected {
			t.Errorf("NextRaw(%d) = %d, expected %d", tc.from, got, tc.expected)
		}
	}
}

func TestNextEnabled(t *testing.T) {
	r := testRoute()

	tests := []struct {
		name     string
		from     int
		settings flags
		expected int
	}{
		{"all enabled", 0, flags{}, 1},
		{"skips one disabled", 0, flags{"b": false}, 2},
		{"skips two disabled", 0, flags{"b": false, "c": false}, 3},
		{"disabled tail still returned", 1, flags{"c": false, "d": false}, 3},
		{"from tail stays at tail", 3, flags{}, 3},
		{"from tail when tail disabled", 3, flags{"d": false}, 3},
		{"own flag is not consulted", 1, flags{"b": false}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.NextEnabled(tc.from, tc.settings); got != tc.expected {
				t.Errorf("NextEnabled(%d) = %d, expected %d", tc.from, got, tc.expected)
			}
		})
	}
}

func TestFirstEnabled(t *testing.T) {
	r := testRoute()

	tests := []struct {
		name     string
		settings flags
		expected int
	}{
		{"all enabled", flags{}, 0},
		{"first disabled", flags{"a": false}, 1},
		{"only tail enabled", flags{"a": false, "b": false, "c": false}, 3},
		{"everything disabled", flags{"a": false, "b": false, "c": false, "d": false}, 3},
		{"middle only", flags{"a": false, "b": false, "d": false}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.FirstEnabled(tc.settings); got != tc.expected {
				t.Errorf("FirstEnabled() = %d, expected %d", got, tc.expected)
			}
		})
	}
}

func TestFirstEnabledIsStable(t *testing.T) {
	r := testRoute()
	s := flags{"a": false}

	first := r.FirstEnabled(s)
	for i := 0; i < 10; i++ {
		if got := r.FirstEnabled(s); got != first {
			t.Fatalf("FirstEnabled() changed from %d to %d with fixed settings", first, got)
		}
	}
}

func TestSettingsReadFreshEachCall(t *testing.T) {
	r := testRoute()
	s := &countingFlags{flags: flags{}}

	if !r.IsEnabled(0, s) {
		t.Fatal("checkpoint a should start enabled")
	}
	s.flags["a"] = false
	if r.IsEnabled(0, s) {
		t.Error("IsEnabled() should see the updated flag")
	}
	if got := r.FirstEnabled(s); got != 1 {
		t.Errorf("FirstEnabled() = %d after disabling a, expected 1", got)
	}
	if s.reads < 3 {
		t.Errorf("expected settings to be read on every call, got %d reads", s.reads)
	}
}

func TestLookupAndKeys(t *testing.T) {
	r := testRoute()

	if i, ok := r.Lookup("c"); !ok || i != 2 {
		t.Errorf("Lookup(c) = %d, %v, expected 2, true", i, ok)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}

	keys := r.Keys()
	expected := []string{"a", "b", "c", "d"}
	if len(keys) != len(expected) {
		t.Fatalf("Keys() returned %d keys, expected %d", len(keys), len(expected))
	}
	for i := range expected {
		if keys[i] != expected[i] {
			t.Errorf("Keys()[%d] = %q, expected %q", i, keys[i], expected[i])
		}
	}
	if r.Len() != 4 || r.Last() != 3 {
		t.Errorf("Len() = %d, Last() = %d, expected 4 and 3", r.Len(), r.Last())
	}
}

func TestCheckpointReached(t *testing.T) {
	cp := Checkpoint{Key: "h", Predicate: core.NewHeight(100)}
	if cp.Reached(core.V(0, 0, 99)) {
		t.Error("below the plane should not be reached")
	}
	if !cp.Reached(core.V(0, 0, 100)) {
		t.Error("at the plane should be reached")
	}
}

func TestNewRoutePanics(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("NewRoute(nil) should panic")
			}
		}()
		NewRoute(nil)
	})

	t.Run("duplicate key", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("NewRoute with duplicate keys should panic")
			}
		}()
		NewRoute([]Checkpoint{
			{Key: "a", Predicate: core.NewHeight(1)},
			{Key: "a", Predicate: core.NewHeight(2)},
		})
	})
}

func TestAllEnabled(t *testing.T) {
	r := testRoute()
	for i := range r.Len() {
		if !r.IsEnabled(i, AllEnabled{}) {
			t.Errorf("IsEnabled(%d) = false with AllEnabled", i)
		}
	}
}
