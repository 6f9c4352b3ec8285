package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
	"github.com/vovakirdan/chained-autosplit/internal/memory"
	"github.com/vovakirdan/chained-autosplit/internal/timer"
)

var flagRealtime bool

var replayCmd = &cobra.Command{
	Use:   "replay <trace.yaml>",
	Short: "Run a recorded trace through the splitter",
	Long: `Feed a recorded trace to the splitter against an in-process timer and
print every start, split and reset it would have sent. Useful for checking
checkpoint settings without launching the game.

Trace format:
  game: chained
  ticks:
    - {pos: [66649.54, -7418.37, 3118.52], timer: 0, repeat: 30}
    - {pos: [48169.7, -6670.38, 10415.32], timer: 90}
    - {fail: true}

Examples:
  autosplit replay ./run.yaml
  autosplit replay ./run.yaml --realtime`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Replay at the configured tick rate instead of as fast as possible")
}

func runReplay(cmd *cobra.Command, args []string) error {
	trace, err := memory.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if trace.Game != "" && flagGame == "" {
		flagGame = trace.Game
	}

	s, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(s.runtime.Debug)

	local := timer.NewLocal(s.enabledCount())
	opts := s.runnerOptions()
	opts.Once = true
	if !flagRealtime {
		opts.Interval = 0
	}

	route := s.game.Route()
	runner := engine.NewRunner(
		memory.NewReplayAttacher(trace),
		local,
		route,
		s.toggles,
		s.game.InMenu,
		opts,
		logger,
	)

	var (
		tick    int
		failed  int
		actions int
	)
	runner.Observe(func(ev engine.Event) {
		switch ev.Kind {
		case engine.EventReadFailed:
			tick++
			failed++
		case engine.EventTick:
			tick++
			d := ev.Decision
			at := formatGameTime(ev.Snapshot)
			if d.Start {
				actions++
				fmt.Printf("  %6d  %8s  start\n", tick, at)
			}
			if d.Split {
				actions++
				fmt.Printf("  %6d  %8s  split   %s\n", tick, at, route.At(d.SplitOn).Name)
			}
			if d.Reset {
				actions++
				fmt.Printf("  %6d  %8s  reset\n", tick, at)
			}
		}
	})

	fmt.Printf("Replaying %d ticks - %s\n", trace.Len(), s.game.Title())
	fmt.Println()
	fmt.Printf("  %6s  %8s  %s\n", "Tick", "Game", "Action")
	fmt.Printf("  %6s  %8s  %s\n", "----", "----", "------")

	if err := runner.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Println()
	if actions == 0 {
		fmt.Println("No timer actions.")
	}
	fmt.Printf("Timer: %s, %d splits, %d runs started", local.Phase(), len(local.Splits()), local.Runs())
	if failed > 0 {
		fmt.Printf(", %d failed reads skipped", failed)
	}
	fmt.Println()
	return nil
}

// formatGameTime renders a snapshot's in-game time as m:ss.
func formatGameTime(s engine.Snapshot) string {
	d := time.Duration(s.Seconds()) * time.Second
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
