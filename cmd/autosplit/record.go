package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
	"github.com/vovakirdan/chained-autosplit/internal/memory"
)

var flagDuration time.Duration

var recordCmd = &cobra.Command{
	Use:   "record <trace.yaml>",
	Short: "Record snapshots from the running game",
	Long: `Attach to the game and record its position and timer every tick until
interrupted (Ctrl+C), the game closes, or --duration elapses. The result can
be fed to 'autosplit replay'.

Examples:
  autosplit record ./run.yaml
  autosplit record ./ladder.yaml --duration 2m`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop recording after this long (0 = until interrupted)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(s.runtime.Debug)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	attacher := memory.NewProcessAttacher(s.game.Layout(), logger)
	logger.Info("waiting for game", "process", s.game.Layout().Process)

	src, err := waitForGame(ctx, attacher, s.runtime.AttachInterval)
	if err != nil || src == nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}

	trace := memory.Trace{Game: s.game.ID()}
	ticker := time.NewTicker(s.runtime.TickInterval())
	defer ticker.Stop()

	logger.Info("recording")
loop:
	for {
		snap, err := src.Read()
		switch {
		case errors.Is(err, engine.ErrDetached):
			logger.Info("game closed")
			break loop
		case err != nil:
			trace.Ticks = append(trace.Ticks, memory.TraceTick{Fail: true})
		default:
			trace.Append(snap)
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	f, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("cannot create trace: %w", err)
	}
	defer f.Close()
	if err := memory.WriteTrace(f, trace); err != nil {
		return err
	}
	logger.Info("trace saved", "path", args[0], "ticks", trace.Len())
	return nil
}

// waitForGame retries attach every interval until it succeeds or ctx ends.
// A nil source with a nil error means ctx ended first.
func waitForGame(ctx context.Context, attacher engine.Attacher, interval time.Duration) (engine.Source, error) {
	for {
		src, err := attacher.Attach(ctx)
		if err == nil {
			return src, nil
		}
		if ctx.Err() != nil {
			return nil, nil
		}
		if errors.Is(err, memory.ErrUnsupported) {
			return nil, err
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, nil
		case <-t.C:
		}
	}
}
