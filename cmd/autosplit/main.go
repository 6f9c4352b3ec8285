// autosplit drives a speedrun timer from a running game's memory.
//
// Usage:
//
//	autosplit list                   - List supported games
//	autosplit checkpoints [game]     - Show a game's checkpoint route
//	autosplit run                    - Attach to the game and drive the timer
//	autosplit watch                  - Same as run, with a live terminal view
//	autosplit replay <trace.yaml>    - Evaluate a recorded trace offline
//	autosplit record <trace.yaml>    - Record snapshots from the running game
//	autosplit config init|path|toggle
//
// Global flags:
//
//	--config <path>  - Settings file (default: search ~/.autosplit, ./configs)
//	--game <id>      - Game to track (default from settings)
//	--tick-rate <n>  - Evaluations per second (default from settings)
//	--debug          - Log every snapshot
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/chained-autosplit/internal/config"
	"github.com/vovakirdan/chained-autosplit/internal/core"
	"github.com/vovakirdan/chained-autosplit/internal/engine"
	"github.com/vovakirdan/chained-autosplit/internal/registry"
	"github.com/vovakirdan/chained-autosplit/internal/timer"

	// Import games to register them
	_ "github.com/vovakirdan/chained-autosplit/internal/games/chained"
)

var (
	// Global flags
	flagConfig   string
	flagGame     string
	flagTickRate int
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "autosplit",
	Short: "Automatic splits for Chained Together speedruns",
	Long: `autosplit watches the game's memory and starts, splits and resets
your timer when you reach each checkpoint of the climb.

Available commands:
  list         - Show supported games
  checkpoints  - Show the checkpoint route and which splits are enabled
  run          - Drive LiveSplit (or the local timer) headless
  watch        - Drive the timer with a live terminal view
  replay       - Run a recorded trace through the splitter
  record       - Record a trace from the running game
  config       - Create or edit the settings file

Examples:
  autosplit run
  autosplit watch --timer local
  autosplit checkpoints
  autosplit config toggle first_ladder off
  autosplit replay ./any-percent.yaml`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to settings YAML")
	rootCmd.PersistentFlags().StringVar(&flagGame, "game", "", "Game to track (overrides settings)")
	rootCmd.PersistentFlags().IntVar(&flagTickRate, "tick-rate", 0, "Evaluations per second (overrides settings)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every snapshot")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(checkpointsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(configCmd)
}

// settings is everything a command needs after loading configuration.
type settings struct {
	file    config.File
	path    string // Settings file in use, "" for embedded defaults
	game    registry.Game
	toggles *config.Toggles
	runtime core.RuntimeConfig
}

// loadSettings loads the settings file and applies flag overrides.
func loadSettings() (*settings, error) {
	file, path, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagGame != "" {
		file.Game = flagGame
	}
	if flagTickRate > 0 {
		file.TickRate = flagTickRate
	}
	if flagDebug {
		file.Debug = true
	}

	game, err := registry.Create(file.Game)
	if err != nil {
		return nil, fmt.Errorf("%w (run 'autosplit list' to see supported games)", err)
	}

	rt := core.DefaultConfig()
	if file.TickRate > 0 {
		rt.TickRate = file.TickRate
	}
	rt.Debug = file.Debug

	return &settings{
		file:    file,
		path:    path,
		game:    game,
		toggles: config.NewToggles(file.Checkpoints),
		runtime: rt,
	}, nil
}

// save persists new checkpoint flags to the settings file in use, or to the
// user settings file when running on embedded defaults.
func (s *settings) save(flags map[string]bool) error {
	path := s.path
	if path == "" {
		path = config.UserConfigPath()
		if path == "" {
			return fmt.Errorf("no settings file to save to")
		}
		s.path = path
	}

	// Start from what is on disk so flag and env overrides are not persisted.
	onDisk, err := config.ReadFile(path)
	if err != nil {
		onDisk = config.DefaultFile()
		onDisk.Game = s.game.ID()
	}
	onDisk.Checkpoints = flags
	return config.Save(path, onDisk)
}

// newLogger creates the process logger. Plain logfmt is used when stderr is
// not a terminal so logs stay machine readable.
func newLogger(debug bool) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "autosplit",
	}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		opts.Formatter = log.LogfmtFormatter
	}
	logger := log.NewWithOptions(os.Stderr, opts)
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// timerSink is a Sink that may hold a connection.
type timerSink interface {
	engine.Sink
	Close() error
}

// localSink adapts the local timer to timerSink.
type localSink struct {
	*timer.Local
}

func (localSink) Close() error { return nil }

// newSink builds the timer sink selected in settings.
func newSink(cfg config.TimerConfig, segments int, logger *log.Logger) (timerSink, error) {
	switch cfg.Kind {
	case config.TimerLocal:
		return localSink{timer.NewLocal(segments)}, nil
	case config.TimerLiveSplit, "":
		return timer.NewLiveSplitTCP(cfg.Address, cfg.Timeout, logger), nil
	case config.TimerLiveSplitWS:
		return timer.NewLiveSplitWS(cfg.Address, cfg.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown timer kind %q (want %s, %s or %s)",
			cfg.Kind, config.TimerLocal, config.TimerLiveSplit, config.TimerLiveSplitWS)
	}
}

// enabledCount returns how many checkpoints of the game are enabled.
func (s *settings) enabledCount() int {
	route := s.game.Route()
	n := 0
	for i := range route.Len() {
		if route.IsEnabled(i, s.toggles) {
			n++
		}
	}
	return n
}

// runnerOptions converts runtime config into runner pacing.
func (s *settings) runnerOptions() engine.Options {
	return engine.Options{
		Interval:       s.runtime.TickInterval(),
		AttachInterval: s.runtime.AttachInterval,
	}
}
