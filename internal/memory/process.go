package memory

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

// Process is an attached game process.
type Process interface {
	Reader
	Alive() bool
	ModuleBase(name string) (uint64, error)
	Close() error
}

// ProcessSource reads snapshots from a live process.
type ProcessSource struct {
	proc   Process
	layout Layout
}

// NewProcessSource wraps an attached process.
func NewProcessSource(proc Process, layout Layout) *ProcessSource {
	return &ProcessSource{proc: proc, layout: layout}
}

// Read builds one snapshot. The module base is resolved on every read
// because the game may still be mapping it right after launch.
func (s *ProcessSource) Read() (engine.Snapshot, error) {
	if !s.proc.Alive() {
		return engine.Snapshot{}, ErrDetached
	}
	base, err := s.proc.ModuleBase(s.layout.Module)
	if err != nil {
		if !s.proc.Alive() {
			return engine.Snapshot{}, ErrDetached
		}
		return engine.Snapshot{}, err
	}
	return ReadSnapshot(s.proc, base, s.layout)
}

// Close releases the process handle.
func (s *ProcessSource) Close() error {
	return s.proc.Close()
}

// ProcessAttacher finds the game process by name.
type ProcessAttacher struct {
	layout Layout
	logger *log.Logger
	open   func(name string) (Process, error)
}

// NewProcessAttacher creates an attacher for the layout's process.
func NewProcessAttacher(layout Layout, logger *log.Logger) *ProcessAttacher {
	return &ProcessAttacher{layout: layout, logger: logger, open: openProcess}
}

// Attach returns a source once the process is running.
func (a *ProcessAttacher) Attach(ctx context.Context) (engine.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proc, err := a.open(a.layout.Process)
	if err != nil {
		return nil, fmt.Errorf("attach %s: %w", a.layout.Process, err)
	}
	if a.logger != nil {
		a.logger.Debug("process found", "name", a.layout.Process)
	}
	return NewProcessSource(proc, a.layout), nil
}
