package memory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

// errReplayFail is returned for trace entries recorded as failed reads.
var errReplayFail = errors.New("memory: recorded read failure")

// TraceTick is one recorded tick.
type TraceTick struct {
	Pos    [3]float64 `yaml:"pos,flow"`
	Timer  uint32     `yaml:"timer"`
	Fail   bool       `yaml:"fail,omitempty"`   // Simulates a failed read
	Repeat int        `yaml:"repeat,omitempty"` // Replays the entry this many times (default 1)
}

// Trace is a recorded sequence of snapshots.
type Trace struct {
	Game  string      `yaml:"game"`
	Ticks []TraceTick `yaml:"ticks"`
}

// LoadTrace reads a YAML trace file.
func LoadTrace(path string) (Trace, error) {
	var tr Trace

	data, err := os.ReadFile(path)
	if err != nil {
		return tr, fmt.Errorf("failed to read trace %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &tr); err != nil {
		return tr, fmt.Errorf("failed to parse trace %s: %w", path, err)
	}
	return tr, nil
}

// WriteTrace encodes a trace as YAML.
func WriteTrace(w io.Writer, tr Trace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tr); err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}
	return enc.Close()
}

// Append records a snapshot, folding it into the previous entry when equal.
func (tr *Trace) Append(s engine.Snapshot) {
	tick := TraceTick{Pos: [3]float64{s.Pos.X, s.Pos.Y, s.Pos.Z}, Timer: s.Timer}
	if n := len(tr.Ticks); n > 0 {
		last := &tr.Ticks[n-1]
		if !last.Fail && last.Pos == tick.Pos && last.Timer == tick.Timer {
			if last.Repeat == 0 {
				last.Repeat = 1
			}
			last.Repeat++
			return
		}
	}
	tr.Ticks = append(tr.Ticks, tick)
}

// Len returns the number of ticks the trace replays.
func (tr Trace) Len() int {
	n := 0
	for _, t := range tr.Ticks {
		n += max(t.Repeat, 1)
	}
	return n
}

// ReplaySource replays a trace one entry per tick, then reports detach.
type ReplaySource struct {
	ticks []TraceTick
	idx   int
	rep   int
}

// NewReplaySource creates a source positioned at the start of tr.
func NewReplaySource(tr Trace) *ReplaySource {
	return &ReplaySource{ticks: tr.Ticks}
}

// Read returns the next recorded snapshot.
func (s *ReplaySource) Read() (engine.Snapshot, error) {
	if s.idx >= len(s.ticks) {
		return engine.Snapshot{}, ErrDetached
	}

	t := s.ticks[s.idx]
	s.rep++
	if s.rep >= max(t.Repeat, 1) {
		s.idx++
		s.rep = 0
	}

	if t.Fail {
		return engine.Snapshot{}, errReplayFail
	}
	return engine.Snapshot{Pos: core.V(t.Pos[0], t.Pos[1], t.Pos[2]), Timer: t.Timer}, nil
}

// ReplayAttacher hands out a single replay source.
type ReplayAttacher struct {
	trace Trace
	used  bool
}

// NewReplayAttacher creates an attacher for one pass over tr.
func NewReplayAttacher(tr Trace) *ReplayAttacher {
	return &ReplayAttacher{trace: tr}
}

// Attach returns the replay source the first time and ErrExhausted after.
func (a *ReplayAttacher) Attach(ctx context.Context) (engine.Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if a.used {
		return nil, engine.ErrExhausted
	}
	a.used = true
	return NewReplaySource(a.trace), nil
}
