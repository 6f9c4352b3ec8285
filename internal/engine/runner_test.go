package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky read")

// step is one scripted Read result.
type step struct {
	snap Snapshot
	err  error
}

// scriptSource replays steps and then reports the process as gone.
type scriptSource struct {
	steps  []step
	i      int
	closed bool
}

func (s *scriptSource) Read() (Snapshot, error) {
	if s.i >= len(s.steps) {
		return Snapshot{}, ErrDetached
	}
	st := s.steps[s.i]
	s.i++
	return st.snap, st.err
}

func (s *scriptSource) Close() error {
	s.closed = true
	return nil
}

// recordingSink captures every call. Its phase follows start/split/reset
// like a real timer with segments checkpoints.
type recordingSink struct {
	phase    TimerPhase
	segments int
	splits   int
	starts   int
	resets   int
	times    []float64
	calls    []string
}

func (s *recordingSink) Phase() TimerPhase { return s.phase }

func (s *recordingSink) Start() {
	s.starts++
	s.splits = 0
	s.phase = PhaseRunning
	s.calls = append(s.calls, "start")
}

func (s *recordingSink) Split() {
	s.splits++
	if s.segments > 0 && s.splits >= s.segments {
		s.phase = PhaseEnded
	}
	s.calls = append(s.calls, "split")
}

func (s *recordingSink) Reset() {
	s.resets++
	s.phase = PhaseNotRunning
	s.calls = append(s.calls, "reset")
}

func (s *recordingSink) SetGameTime(seconds float64) {
	s.times = append(s.times, seconds)
}

// attachSequence hands out sources in order, then reports exhaustion.
func attachSequence(srcs ...Source) Attacher {
	i := 0
	return AttacherFunc(func(ctx context.Context) (Source, error) {
		if i >= len(srcs) {
			return nil, ErrExhausted
		}
		src := srcs[i]
		i++
		return src, nil
	})
}

func newTestRunner(a Attacher, sink Sink, opts Options) *Runner {
	return NewRunner(a, sink, newTestRoute(), toggles{}, testMenu, opts, nil)
}

func TestRunnerFullRun(t *testing.T) {
	src := &scriptSource{steps: []step{
		{snap: snap(lobby, 0)},
		{snap: snap(lobby, 0)},
		{snap: snap(nowhere, 30)},
		{snap: snap(underworld, 90)},
		{snap: snap(underworld, 91)},
		{snap: snap(ladder, 200)},
		{snap: snap(sun, 6000)},
		{snap: snap(lobby, 0)},
	}}
	sink := &recordingSink{phase: PhaseNotRunning, segments: 3}

	r := newTestRunner(attachSequence(src), sink, Options{})
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []string{"start", "split", "split", "split", "reset"}, sink.calls)
	assert.True(t, src.closed, "source should be closed after detach")
}

func TestRunnerSetsGameTimeEveryTick(t *testing.T) {
	src := &scriptSource{steps: []step{
		{snap: snap(nowhere, 0)},
		{snap: snap(nowhere, 59)},
		{snap: snap(nowhere, 60)},
		{snap: snap(nowhere, 125)},
	}}
	sink := &recordingSink{phase: PhaseNotRunning}

	r := newTestRunner(attachSequence(src), sink, Options{})
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []float64{0, 0, 1, 2}, sink.times)
}

func TestRunnerReadFailureKeepsPrevious(t *testing.T) {
	src := &scriptSource{steps: []step{
		{snap: snap(nowhere, 0)},
		{err: errFlaky},
		{err: errFlaky},
		{snap: snap(nowhere, 30)},
	}}
	sink := &recordingSink{phase: PhaseNotRunning}

	var kinds []EventKind
	r := newTestRunner(attachSequence(src), sink, Options{})
	r.Observe(func(ev Event) { kinds = append(kinds, ev.Kind) })
	require.NoError(t, r.Run(context.Background()))

	// The failed ticks are skipped entirely, so 0 -> 30 is still a start.
	assert.Equal(t, 1, sink.starts)
	assert.Len(t, sink.times, 2, "no game time is sent on a failed read")
	assert.Equal(t, []EventKind{
		EventAttached,
		EventTick,
		EventReadFailed,
		EventReadFailed,
		EventTick,
		EventDetached,
	}, kinds)
}

func TestRunnerStartsOncePerTransition(t *testing.T) {
	src := &scriptSource{steps: []step{
		{snap: snap(nowhere, 0)},
		{snap: snap(nowhere, 1)},
		{snap: snap(nowhere, 2)},
		{snap: snap(nowhere, 3)},
	}}
	// A timer that never leaves NotRunning must still see only one start.
	sink := &fixedPhaseSink{recordingSink{phase: PhaseNotRunning}}

	r := newTestRunner(attachSequence(src), sink, Options{})
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 1, sink.starts)
}

// fixedPhaseSink ignores state changes so the phase stays put.
type fixedPhaseSink struct {
	recordingSink
}

func (s *fixedPhaseSink) Start() { s.starts++ }

func TestRunnerDetachDropsState(t *testing.T) {
	first := &scriptSource{steps: []step{
		{snap: snap(nowhere, 30)},
	}}
	second := &scriptSource{steps: []step{
		{snap: snap(nowhere, 30)},
	}}
	sink := &fixedPhaseSink{recordingSink{phase: PhaseNotRunning}}

	r := newTestRunner(attachSequence(first, second), sink, Options{})
	require.NoError(t, r.Run(context.Background()))

	// Each attachment starts with a zero previous snapshot.
	assert.Equal(t, 2, sink.starts)
	assert.True(t, first.closed)
	assert.True(t, second.closed)
}

func TestRunnerOnce(t *testing.T) {
	first := &scriptSource{steps: []step{{snap: snap(nowhere, 0)}}}
	second := &scriptSource{steps: []step{{snap: snap(nowhere, 0)}}}
	sink := &recordingSink{phase: PhaseNotRunning}

	r := newTestRunner(attachSequence(first, second), sink, Options{Once: true})
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, 1, first.i)
	assert.Equal(t, 0, second.i, "second source should never be read")
}

func TestRunnerRetriesAttachUntilCanceled(t *testing.T) {
	attempts := 0
	a := AttacherFunc(func(ctx context.Context) (Source, error) {
		attempts++
		return nil, errors.New("process not found")
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	r := newTestRunner(a, &recordingSink{}, Options{AttachInterval: 10 * time.Millisecond})
	require.NoError(t, r.Run(ctx))
	assert.Greater(t, attempts, 1)
}

func TestRunnerNotifyDoesNotBlock(t *testing.T) {
	src := &scriptSource{steps: []step{
		{snap: snap(nowhere, 0)},
		{snap: snap(nowhere, 0)},
		{snap: snap(nowhere, 0)},
	}}
	events := make(chan Event, 1)

	r := newTestRunner(attachSequence(src), &recordingSink{phase: PhaseNotRunning}, Options{})
	r.Notify(events)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("runner blocked on a full event channel")
	}

	ev := <-events
	assert.Equal(t, EventAttached, ev.Kind)
}

func TestRunnerPacedTicks(t *testing.T) {
	src := &scriptSource{steps: []step{
		{snap: snap(nowhere, 0)},
		{snap: snap(nowhere, 30)},
	}}
	sink := &recordingSink{phase: PhaseNotRunning}

	r := newTestRunner(attachSequence(src), sink, Options{Interval: time.Millisecond})
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 1, sink.starts)
}

func TestTickReportsArmedCheckpoint(t *testing.T) {
	sink := &recordingSink{phase: PhaseRunning}
	r := newTestRunner(attachSequence(), sink, Options{})
	st := NewState(newTestRoute(), toggles{}, testMenu)

	var last Event
	r.Observe(func(ev Event) { last = ev })

	src := &scriptSource{steps: []step{{snap: snap(underworld, 100)}}}
	require.True(t, r.Tick(st, src))
	assert.True(t, last.Decision.Split)
	assert.Equal(t, 1, last.Armed)

	assert.False(t, r.Tick(st, src), "exhausted script reports detach")
}
