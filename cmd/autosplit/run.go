package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chained-autosplit/internal/config"
	"github.com/vovakirdan/chained-autosplit/internal/engine"
	"github.com/vovakirdan/chained-autosplit/internal/memory"
)

var flagTimer string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Attach to the game and drive the timer",
	Long: `Wait for the game to start, then evaluate its state every tick and
send start, split and reset commands to the timer. When the game closes the
splitter goes back to waiting for it.

Settings file changes (e.g. enabling or disabling checkpoints) are picked up
while running.

Timer options:
  livesplit     - LiveSplit Server over TCP (default localhost:16834)
  livesplit-ws  - LiveSplit WebSocket server
  local         - In-process timer, useful with --debug

Examples:
  autosplit run
  autosplit run --timer livesplit-ws
  autosplit run --debug --timer local`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagTimer, "timer", "", "Timer kind: livesplit, livesplit-ws, local")
	watchCmd.Flags().StringVar(&flagTimer, "timer", "", "Timer kind: livesplit, livesplit-ws, local")
}

func runRun(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(s.runtime.Debug)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, closeSink, err := newRunner(ctx, s, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	logger.Info("waiting for game", "game", s.game.Title(), "process", s.game.Layout().Process)
	return runner.Run(ctx)
}

// newRunner wires the process attacher, timer sink and settings watcher.
// The returned func closes the sink.
func newRunner(ctx context.Context, s *settings, logger *log.Logger) (*engine.Runner, func(), error) {
	if flagTimer != "" {
		s.file.Timer.Kind = flagTimer
	}
	sink, err := newSink(s.file.Timer, s.enabledCount(), logger)
	if err != nil {
		return nil, nil, err
	}

	startWatcher(ctx, s, logger)

	game := s.game
	runner := engine.NewRunner(
		memory.NewProcessAttacher(game.Layout(), logger),
		sink,
		game.Route(),
		s.toggles,
		game.InMenu,
		s.runnerOptions(),
		logger,
	)

	closeSink := func() {
		if err := sink.Close(); err != nil {
			logger.Warn("could not close timer connection", "error", err)
		}
	}
	return runner, closeSink, nil
}

// startWatcher reloads checkpoint toggles when the settings file changes.
// Running on embedded defaults means there is nothing to watch.
func startWatcher(ctx context.Context, s *settings, logger *log.Logger) {
	if s.path == "" {
		return
	}
	w, err := config.NewWatcher(s.path, s.toggles, logger)
	if err != nil {
		logger.Warn("settings will not reload", "error", err)
		return
	}
	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Warn("settings watcher stopped", "error", err)
		}
	}()
}
