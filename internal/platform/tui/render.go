package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// phaseStyles colors the timer phase badge.
var phaseStyles = map[engine.TimerPhase]lipgloss.Style{
	engine.PhaseNotRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	engine.PhaseRunning:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	engine.PhasePaused:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	engine.PhaseEnded:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	engine.PhaseUnknown:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

// renderPhase returns the styled phase name.
func renderPhase(p engine.TimerPhase) string {
	style, ok := phaseStyles[p]
	if !ok {
		style = phaseStyles[engine.PhaseUnknown]
	}
	return style.Render(p.String())
}

// formatClock renders a duration as h:mm:ss or m:ss.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// newRouteTable creates the checkpoint table with the tracker's styling.
func newRouteTable(height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: " ", Width: 2},
		{Title: "Checkpoint", Width: 26},
		{Title: "Split", Width: 9},
	}

	if height < 5 {
		height = 5
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}
