package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagShowTriggers bool

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints [game]",
	Short: "Show the checkpoint route",
	Long: `Display every checkpoint in route order with its settings key and
whether it is enabled. Disabled checkpoints are skipped when splitting.

Examples:
  autosplit checkpoints
  autosplit checkpoints chained --triggers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckpoints,
}

func init() {
	checkpointsCmd.Flags().BoolVar(&flagShowTriggers, "triggers", false, "Show trigger geometry")
}

func runCheckpoints(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		flagGame = args[0]
	}
	s, err := loadSettings()
	if err != nil {
		return err
	}

	route := s.game.Route()
	first := route.FirstEnabled(s.toggles)

	fmt.Printf("Checkpoints - %s\n", s.game.Title())
	fmt.Println()

	// Calculate column widths
	maxKeyLen := 3 // "Key" header
	for _, k := range route.Keys() {
		if len(k) > maxKeyLen {
			maxKeyLen = len(k)
		}
	}

	fmt.Printf("  %-3s  %-3s  %-*s  %s\n", "#", "On", maxKeyLen, "Key", "Name")
	fmt.Printf("  %-3s  %-3s  %-*s  %s\n", "-", "--", maxKeyLen, "---", "----")

	for i := range route.Len() {
		cp := route.At(i)
		on := "no"
		if route.IsEnabled(i, s.toggles) {
			on = "yes"
		}
		fmt.Printf("  %-3d  %-3s  %-*s  %s", i+1, on, maxKeyLen, cp.Key, cp.Name)
		if flagShowTriggers {
			fmt.Printf("  [%v]", cp.Predicate)
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Printf("%d of %d enabled. First split: %s\n", s.enabledCount(), route.Len(), route.At(first).Name)
	return nil
}
