package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chained-autosplit/internal/splits"
)

// ErrExhausted is returned by an Attacher that will never produce another
// source (e.g. a finished replay). The runner stops instead of retrying.
var ErrExhausted = errors.New("engine: no more sources")

// Attacher produces a Source once the observed process is available.
// Sources that hold resources may also implement io.Closer.
type Attacher interface {
	Attach(ctx context.Context) (Source, error)
}

// AttacherFunc adapts a function to the Attacher interface.
type AttacherFunc func(ctx context.Context) (Source, error)

// Attach calls f(ctx).
func (f AttacherFunc) Attach(ctx context.Context) (Source, error) {
	return f(ctx)
}

// EventKind distinguishes runner notifications.
type EventKind int

const (
	EventTick EventKind = iota
	EventAttached
	EventDetached
	EventReadFailed
)

// Event is published to observers after every tick and lifecycle change.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	Phase    TimerPhase
	Decision Decision
	Armed    int
}

// Options controls runner pacing.
type Options struct {
	// Interval between ticks. Zero runs ticks back to back.
	Interval time.Duration

	// AttachInterval is the delay between failed attach attempts.
	AttachInterval time.Duration

	// Once stops the runner after the first attachment ends.
	Once bool
}

// Runner is the polling loop: attach, tick until detach, repeat.
type Runner struct {
	attacher Attacher
	sink     Sink
	route    *splits.Route
	settings splits.Settings
	inMenu   MenuCheck
	opts     Options
	logger   *log.Logger
	events   chan<- Event
	observer func(Event)
}

// NewRunner creates a runner. logger may be nil.
func NewRunner(attacher Attacher, sink Sink, route *splits.Route, settings splits.Settings, inMenu MenuCheck, opts Options, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		attacher: attacher,
		sink:     sink,
		route:    route,
		settings: settings,
		inMenu:   inMenu,
		opts:     opts,
		logger:   logger,
	}
}

// Notify registers a channel that receives runner events.
// Sends never block; events are dropped when the channel is full.
func (r *Runner) Notify(ch chan<- Event) {
	r.events = ch
}

// Run loops until ctx is canceled, the attacher is exhausted, or the first
// session ends when Options.Once is set.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		src, err := r.attacher.Attach(ctx)
		if err != nil {
			if errors.Is(err, ErrExhausted) {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			r.logger.Debug("waiting for game", "error", err)
			if !sleep(ctx, r.opts.AttachInterval) {
				return nil
			}
			continue
		}

		r.logger.Info("attached to game")
		r.publish(Event{Kind: EventAttached, Armed: r.route.FirstEnabled(r.settings)})

		r.session(ctx, src)

		if c, ok := src.(io.Closer); ok {
			if err := c.Close(); err != nil {
				r.logger.Warn("could not close source", "error", err)
			}
		}
		r.publish(Event{Kind: EventDetached})

		if r.opts.Once {
			return nil
		}
	}
}

// session ticks one attachment. All state is local and dropped on return.
func (r *Runner) session(ctx context.Context, src Source) {
	state := NewState(r.route, r.settings, r.inMenu)

	var ticks <-chan time.Time
	if r.opts.Interval > 0 {
		ticker := time.NewTicker(r.opts.Interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		if !r.Tick(state, src) {
			r.logger.Info("game closed")
			return
		}

		if ticks == nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-ticks:
		}
	}
}

// Tick runs one iteration against state. It returns false once the source
// reports the process is gone.
func (r *Runner) Tick(state *State, src Source) bool {
	phase := r.sink.Phase()

	snap, err := src.Read()
	if err != nil {
		if errors.Is(err, ErrDetached) {
			return false
		}
		// Transient: keep the previous snapshot as baseline and retry.
		r.logger.Debug("snapshot read failed", "error", err)
		r.publish(Event{Kind: EventReadFailed, Phase: phase, Armed: state.Armed})
		return true
	}

	r.sink.SetGameTime(float64(snap.Seconds()))
	r.logger.Debug("tick", "snapshot", snap, "phase", phase)

	d := state.Advance(snap, phase)

	if d.Start {
		r.logger.Info("starting run")
		r.sink.Start()
	}
	if d.Split {
		r.logger.Info("splitting", "checkpoint", r.route.At(d.SplitOn).Name, "next", r.route.At(d.Armed).Name)
		r.sink.Split()
	}
	if d.Reset {
		r.logger.Info("resetting run")
		r.sink.Reset()
	}

	r.publish(Event{Kind: EventTick, Snapshot: snap, Phase: phase, Decision: d, Armed: state.Armed})
	return true
}

// Observe registers a callback invoked synchronously on the tick goroutine
// for every event.
func (r *Runner) Observe(fn func(Event)) {
	r.observer = fn
}

func (r *Runner) publish(ev Event) {
	if r.observer != nil {
		r.observer(ev)
	}
	if r.events == nil {
		return
	}
	select {
	case r.events <- ev:
	default:
	}
}

// sleep waits for d or ctx. It returns false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
