package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chained-autosplit/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all supported games",
	Long: `Shows every game the autosplitter knows how to track, with the size of
its checkpoint route and the process it attaches to.`,
	Run: runList,
}

func runList(cmd *cobra.Command, args []string) {
	writeGameList(os.Stdout, registry.List())
}

// writeGameList prints the supported games table.
func writeGameList(w io.Writer, games []registry.GameInfo) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games available.")
		return
	}

	fmt.Fprintln(w, "Supported games:")
	fmt.Fprintln(w)

	idWidth, titleWidth := len("ID"), len("Title")
	for _, g := range games {
		idWidth = max(idWidth, len(g.ID))
		titleWidth = max(titleWidth, len(g.Title))
	}

	fmt.Fprintf(w, "  %-*s  %-*s  %11s  %s\n", idWidth, "ID", titleWidth, "Title", "Checkpoints", "Process")
	fmt.Fprintf(w, "  %-*s  %-*s  %11s  %s\n", idWidth, "--", titleWidth, "-----", "-----------", "-------")
	for _, g := range games {
		fmt.Fprintf(w, "  %-*s  %-*s  %11d  %s\n", idWidth, g.ID, titleWidth, g.Title, g.Checkpoints, g.Process)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'autosplit checkpoints <id>' to see a game's route.")
}
