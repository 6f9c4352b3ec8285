package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
	"github.com/vovakirdan/chained-autosplit/internal/platform/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Drive the timer with a live terminal view",
	Long: `Like 'run', but shows the timer phase, game time, player position and
the checkpoint route in the terminal.

Press 's' to edit checkpoints: move with up/down and press space to enable
or disable the one under the cursor. Changes are saved to the settings file
and take effect on the next tick.

Logs are written to ~/.autosplit/watch.log while the view is open.

Examples:
  autosplit watch
  autosplit watch --timer local`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	logger, closeLog := fileLogger(s.runtime.Debug)
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runner, closeSink, err := newRunner(ctx, s, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	events := make(chan engine.Event, 256)
	runner.Notify(events)

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx)
	}()

	uiErr := tui.Run(tui.Options{
		Title:   s.game.Title(),
		Route:   s.game.Route(),
		Toggles: s.toggles,
		Events:  events,
		Save:    s.save,
	})

	cancel()
	if err := <-done; err != nil {
		return err
	}
	return uiErr
}

// fileLogger logs to ~/.autosplit/watch.log so output does not tear the TUI.
func fileLogger(debug bool) (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".autosplit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "watch.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "autosplit",
		Formatter:       log.LogfmtFormatter,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { f.Close() }
}
