// Package chained defines the route and memory layout for Chained Together.
package chained

import (
	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/memory"
	"github.com/vovakirdan/chained-autosplit/internal/registry"
	"github.com/vovakirdan/chained-autosplit/internal/splits"
)

// ID is the registry identifier for this game.
const ID = "chained"

// Pointer paths from the executable's base address.
var (
	positionX = []uint64{0x06F67C48, 0x1B8, 0x38, 0x0, 0x30, 0x2D8, 0x1A0, 0x128}
	positionY = []uint64{0x06F67C48, 0x1B8, 0x38, 0x0, 0x30, 0x2D8, 0x1A0, 0x130}
	positionZ = []uint64{0x06F67C48, 0x1B8, 0x38, 0x0, 0x30, 0x2D8, 0x1A0, 0x138}
	gameTimer = []uint64{0x06F67C48, 0x180, 0x8, 0x320}
)

var route = splits.NewRoute(Checkpoints)

func init() {
	registry.Register(ID, func() registry.Game {
		return &Game{}
	})
}

// Game is the Chained Together definition.
type Game struct{}

// ID returns the game identifier.
func (g *Game) ID() string {
	return ID
}

// Title returns the display title.
func (g *Game) Title() string {
	return "Chained Together"
}

// Layout returns where the snapshot values live in process memory.
func (g *Game) Layout() memory.Layout {
	return memory.Layout{
		Process: "ChainedTogether-Win64-Shipping",
		Module:  "ChainedTogether-Win64-Shipping.exe",
		X:       positionX,
		Y:       positionY,
		Z:       positionZ,
		Timer:   gameTimer,
	}
}

// Route returns the checkpoint route.
func (g *Game) Route() *splits.Route {
	return route
}

// InMenu reports whether p is a menu landmark.
func (g *Game) InMenu(p core.Vec3) bool {
	return InMenu(p)
}
