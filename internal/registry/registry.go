// Package registry provides a global registry of supported games.
// Games register themselves in init() functions, allowing the CLI to
// discover routes and memory layouts without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/memory"
	"github.com/vovakirdan/chained-autosplit/internal/splits"
)

// Game describes everything the autosplitter needs to know about one game.
type Game interface {
	// ID returns a unique identifier (e.g., "chained").
	// Used for CLI arguments and settings files.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Layout returns the process name and pointer paths used to build snapshots.
	Layout() memory.Layout

	// Route returns the ordered checkpoint table.
	Route() *splits.Route

	// InMenu reports whether a position is one of the game's menu/lobby
	// landmarks, where a zero in-game timer means no run is in progress.
	InMenu(p core.Vec3) bool
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Process     string // Process name the splitter attaches to
	Checkpoints int    // Number of checkpoints in the route
}

// Factory is a function that creates a new game definition.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	g := f()
	infos[id] = GameInfo{
		ID:          id,
		Title:       g.Title(),
		Process:     g.Layout().Process,
		Checkpoints: g.Route().Len(),
	}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, infos[id])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a game definition by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
