package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chained-autosplit/internal/config"
	"github.com/vovakirdan/chained-autosplit/internal/engine"
	"github.com/vovakirdan/chained-autosplit/internal/splits"
)

// Options configures the tracker.
type Options struct {
	Title   string
	Route   *splits.Route
	Toggles *config.Toggles
	Events  <-chan engine.Event

	// Save persists toggles after an edit. May be nil.
	Save func(flags map[string]bool) error

	// RefreshRate is the view refresh rate per second (default 20).
	RefreshRate int
}

// mode selects what the checkpoint table cursor does.
type mode int

const (
	modeTrack mode = iota // Cursor follows the armed checkpoint
	modeEdit              // Cursor is free; space toggles
)

// Model is the Bubble Tea model for the live tracker.
type Model struct {
	opts   Options
	keys   TrackerKeyMap
	help   help.Model
	table  table.Model
	mode   mode
	width  int
	height int

	attached bool
	last     engine.Event
	seen     bool
	failures int
	splitAt  map[int]uint32 // Checkpoint index -> game seconds at split
	status   string

	quitting bool
}

// NewModel creates a tracker model.
func NewModel(opts Options) Model {
	m := Model{
		opts:    opts,
		keys:    DefaultTrackerKeyMap(),
		help:    help.New(),
		table:   newRouteTable(opts.Route.Len()),
		width:   80,
		height:  24,
		splitAt: make(map[int]uint32),
	}
	m.updateRows()
	return m
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.RefreshRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case TickMsg:
		m.drainEvents()
		m.updateRows()
		return m, tickCmd(m.opts.RefreshRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		if m.mode == modeTrack {
			m.mode = modeEdit
			m.status = "editing checkpoints"
		} else {
			m.mode = modeTrack
			m.status = ""
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.mode = modeTrack
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.mode == modeEdit {
			m.toggleSelected()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if m.mode == modeEdit {
			m.table, cmd = m.table.Update(msg)
		}
		return m, cmd
	}

	return m, nil
}

// toggleSelected flips the checkpoint under the cursor and persists it.
func (m *Model) toggleSelected() {
	i := m.table.Cursor()
	if i < 0 || i >= m.opts.Route.Len() {
		return
	}
	cp := m.opts.Route.At(i)
	enabled := m.opts.Toggles.Toggle(cp.Key)

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	m.status = fmt.Sprintf("%s %s", cp.Name, state)

	if m.opts.Save != nil {
		if err := m.opts.Save(m.opts.Toggles.Snapshot()); err != nil {
			m.status = fmt.Sprintf("could not save settings: %v", err)
		}
	}
	m.updateRows()
}

// drainEvents consumes all pending runner events without blocking.
func (m *Model) drainEvents() {
	if m.opts.Events == nil {
		return
	}
	for {
		select {
		case ev, ok := <-m.opts.Events:
			if !ok {
				m.opts.Events = nil
				return
			}
			m.apply(ev)
		default:
			return
		}
	}
}

// apply folds one runner event into the view state.
func (m *Model) apply(ev engine.Event) {
	switch ev.Kind {
	case engine.EventAttached:
		m.attached = true
		m.failures = 0
		m.last = ev
	case engine.EventDetached:
		m.attached = false
		m.seen = false
		m.splitAt = make(map[int]uint32)
	case engine.EventReadFailed:
		m.failures++
	case engine.EventTick:
		m.attached = true
		m.seen = true
		m.failures = 0
		m.last = ev
		d := ev.Decision
		if d.Start || d.Reset || ev.Phase == engine.PhaseNotRunning {
			m.splitAt = make(map[int]uint32)
		}
		if d.Split {
			m.splitAt[d.SplitOn] = ev.Snapshot.Seconds()
		}
	}
}

// updateRows rebuilds table rows from route, toggles and split history.
func (m *Model) updateRows() {
	route := m.opts.Route
	rows := make([]table.Row, route.Len())
	for i := range route.Len() {
		cp := route.At(i)

		mark := "·"
		switch {
		case !route.IsEnabled(i, m.opts.Toggles):
			mark = "✗"
		case m.hasSplit(i):
			mark = "✓"
		case m.attached && i == m.last.Armed:
			mark = "▶"
		}

		split := ""
		if s, ok := m.splitAt[i]; ok {
			split = formatClock(time.Duration(s) * time.Second)
		}
		rows[i] = table.Row{fmt.Sprintf("%d", i+1), mark, cp.Name, split}
	}
	m.table.SetRows(rows)

	if m.mode == modeTrack && m.attached {
		m.table.SetCursor(m.last.Armed)
	}
}

func (m *Model) hasSplit(i int) bool {
	_, ok := m.splitAt[i]
	return ok
}

// View renders the tracker.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(strings.ToUpper(m.opts.Title) + " AUTOSPLITTER"))
	b.WriteString("\n\n")
	b.WriteString(panelStyle.Render(m.renderStatus()))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(labelStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderStatus renders the live status panel.
func (m Model) renderStatus() string {
	if !m.attached {
		return labelStyle.Render("Waiting for game process...")
	}
	if !m.seen {
		return labelStyle.Render("Attached, waiting for first snapshot...")
	}

	snap := m.last.Snapshot
	armed := m.opts.Route.At(m.last.Armed)

	lines := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Timer:   "), renderPhase(m.last.Phase)),
		fmt.Sprintf("%s %s", labelStyle.Render("Game:    "), formatClock(time.Duration(snap.Seconds())*time.Second)),
		fmt.Sprintf("%s %v", labelStyle.Render("Position:"), snap.Pos),
		fmt.Sprintf("%s %s", labelStyle.Render("Next:    "), armed.Name),
	}
	if m.failures > 0 {
		lines = append(lines, labelStyle.Render(fmt.Sprintf("(%d failed reads)", m.failures)))
	}
	return strings.Join(lines, "\n")
}

// Run starts the Bubble Tea program with a tracker model.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
