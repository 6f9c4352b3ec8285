// Package memory builds snapshots from a running game's process memory,
// or from a recorded trace for offline replays.
package memory

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

var (
	// ErrDetached is reported once the process has exited.
	ErrDetached = engine.ErrDetached

	// ErrProcessNotFound means no process with the layout's name is running.
	ErrProcessNotFound = errors.New("memory: process not found")

	// ErrModuleNotFound means the process has no mapping for the module yet.
	ErrModuleNotFound = errors.New("memory: module not found")

	// ErrUnsupported is returned on platforms without a memory reader.
	ErrUnsupported = errors.New("memory: process reading is not supported on this platform")

	// ErrBadPath is returned for an empty pointer path.
	ErrBadPath = errors.New("memory: empty pointer path")
)

// Layout names the process and the pointer paths of each snapshot value.
// Every path starts at the module's base address.
type Layout struct {
	Process string // Process name without extension
	Module  string // Module whose base address starts each path
	X, Y, Z []uint64
	Timer   []uint64
}

// Reader reads raw bytes from another address space.
type Reader interface {
	ReadMemory(addr uint64, buf []byte) error
}

// ReadPointerPath follows a chain of 64-bit pointers. Every offset except
// the last is added to the current address and dereferenced; the last offset
// gives the address of the value, which is read into buf.
func ReadPointerPath(r Reader, base uint64, path []uint64, buf []byte) error {
	if len(path) == 0 {
		return ErrBadPath
	}

	addr := base
	var ptr [8]byte
	for _, off := range path[:len(path)-1] {
		if err := r.ReadMemory(addr+off, ptr[:]); err != nil {
			return fmt.Errorf("memory: read pointer at %#x: %w", addr+off, err)
		}
		addr = binary.LittleEndian.Uint64(ptr[:])
	}

	last := addr + path[len(path)-1]
	if err := r.ReadMemory(last, buf); err != nil {
		return fmt.Errorf("memory: read value at %#x: %w", last, err)
	}
	return nil
}

// ReadF64 reads a little-endian float64 at the end of a pointer path.
func ReadF64(r Reader, base uint64, path []uint64) (float64, error) {
	var buf [8]byte
	if err := ReadPointerPath(r, base, path, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// ReadU32 reads a little-endian uint32 at the end of a pointer path.
func ReadU32(r Reader, base uint64, path []uint64) (uint32, error) {
	var buf [4]byte
	if err := ReadPointerPath(r, base, path, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadSnapshot reads all layout values. Any failure yields no snapshot.
func ReadSnapshot(r Reader, base uint64, l Layout) (engine.Snapshot, error) {
	x, err := ReadF64(r, base, l.X)
	if err != nil {
		return engine.Snapshot{}, err
	}
	y, err := ReadF64(r, base, l.Y)
	if err != nil {
		return engine.Snapshot{}, err
	}
	z, err := ReadF64(r, base, l.Z)
	if err != nil {
		return engine.Snapshot{}, err
	}
	timer, err := ReadU32(r, base, l.Timer)
	if err != nil {
		return engine.Snapshot{}, err
	}
	return engine.Snapshot{Pos: core.V(x, y, z), Timer: timer}, nil
}
