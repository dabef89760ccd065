// Package tui implements the status dashboard: a bubbletea program that
// subscribes to the engine's dispatcher and renders the live pane table
// and a scrolling event log, with view tabs and window-resize handling.
// Events reach Update through a channel read wrapped in a tea.Cmd.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/paneguard/tmux-monitor/internal/dispatcher"
	"github.com/paneguard/tmux-monitor/internal/events"
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

const (
	minWidth  = 40
	minHeight = 10

	maxLogLines = 200
	tickEvery   = time.Second
)

// ViewType is the dashboard's current tab.
type ViewType int

const (
	ViewPanes ViewType = iota
	ViewLog
)

// PaneRow is one pane's display row, sourced from the monitoring service.
type PaneRow struct {
	ID     string
	Role   string
	Status string
	Title  string
	Active bool
}

// Stats is the dashboard's header summary.
type Stats struct {
	Total     int
	ByStatus  map[string]int
	ActiveID  string
	HasActive bool
}

// Snapshotter supplies the dashboard's periodic refresh, implemented by
// engine.Engine.
type Snapshotter interface {
	Snapshot() []PaneRow
	DashboardStats() Stats
}

// tickMsg drives periodic re-snapshotting.
type tickMsg time.Time

// logMsg is one line appended to the event log, pushed from the dispatcher
// feed.
type logMsg string

// Model holds the dashboard's render state.
type Model struct {
	currentView ViewType
	width       int
	height      int

	source Snapshotter
	feed   <-chan string

	panes        []PaneRow
	selectedPane int
	stats        Stats
	log          []string
	logView      viewport.Model
	quitting     bool
}

// NewModel constructs a dashboard Model over source, receiving log lines
// from feed (see NewFeed).
func NewModel(source Snapshotter, feed <-chan string) Model {
	return Model{
		currentView: ViewPanes,
		width:       80,
		height:      24,
		source:      source,
		feed:        feed,
		stats:       Stats{ByStatus: map[string]int{}},
		logView:     viewport.New(76, 14),
	}
}

// Init subscribes to the log feed and starts the refresh ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForLog(m.feed), tickCmd())
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return logMsg("")
		}
		return logMsg(line)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles terminal resize, key input, the refresh tick, and
// incoming log lines.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logView.Width = max(msg.Width-6, 10)
		m.logView.Height = max(msg.Height-10, 3)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			m.currentView = (m.currentView + 1) % 2
			return m, nil
		case "1":
			m.currentView = ViewPanes
			return m, nil
		case "2":
			m.currentView = ViewLog
			return m, nil
		case "j", "down":
			if m.currentView == ViewLog {
				m.logView.ScrollDown(1)
			} else if m.selectedPane < len(m.panes)-1 {
				m.selectedPane++
			}
		case "k", "up":
			if m.currentView == ViewLog {
				m.logView.ScrollUp(1)
			} else if m.selectedPane > 0 {
				m.selectedPane--
			}
		}
		return m, nil

	case tickMsg:
		m.panes = m.source.Snapshot()
		m.stats = m.source.DashboardStats()
		if m.selectedPane >= len(m.panes) {
			m.selectedPane = len(m.panes) - 1
		}
		if m.selectedPane < 0 {
			m.selectedPane = 0
		}
		return m, tickCmd()

	case logMsg:
		if msg != "" {
			m.log = append(m.log, string(msg))
			if len(m.log) > maxLogLines {
				m.log = m.log[len(m.log)-maxLogLines:]
			}
			atBottom := m.logView.AtBottom()
			m.logView.SetContent(renderLogLines(m.log))
			if atBottom {
				m.logView.GotoBottom()
			}
		}
		return m, waitForLog(m.feed)
	}

	return m, nil
}

// View renders the current tab.
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}
	if m.width < minWidth || m.height < minHeight {
		warning := warningStyle.Render(fmt.Sprintf("⚠️ terminal too small (min %dx%d, have %dx%d)", minWidth, minHeight, m.width, m.height))
		return borderStyle.Width(max(m.width-2, 0)).Render(warning)
	}

	contentWidth := m.width - 4
	contentHeight := m.height - 4

	var b strings.Builder
	b.WriteString("=== panemonitor ===\n")
	b.WriteString(fmt.Sprintf("panes: %d | active: %s\n", m.stats.Total, activeLabel(m.stats)))
	b.WriteString("\n")

	b.WriteString("[")
	if m.currentView == ViewPanes {
		b.WriteString("1:Panes*")
	} else {
		b.WriteString("1:Panes")
	}
	b.WriteString(" | ")
	if m.currentView == ViewLog {
		b.WriteString("2:Log*")
	} else {
		b.WriteString("2:Log")
	}
	b.WriteString("]\n\n")

	switch m.currentView {
	case ViewPanes:
		b.WriteString(m.renderPanesView(contentWidth, contentHeight))
	case ViewLog:
		b.WriteString(m.renderLogView(contentWidth, contentHeight))
	}

	b.WriteString("\nKeys: tab/1-2 (switch view) | j/k (nav) | q (quit)\n")

	return borderStyle.Width(m.width - 2).Height(m.height - 2).Render(b.String())
}

func activeLabel(s Stats) string {
	if !s.HasActive {
		return "(none)"
	}
	return s.ActiveID
}

func (m Model) renderPanesView(contentWidth, contentHeight int) string {
	var b strings.Builder
	if len(m.panes) == 0 {
		b.WriteString("  (no panes discovered)\n")
		return b.String()
	}

	maxRows := contentHeight - 6
	if maxRows < 1 {
		maxRows = 1
	}
	for i, p := range m.panes {
		if i >= maxRows {
			b.WriteString(fmt.Sprintf("  ... %d more\n", len(m.panes)-maxRows))
			break
		}
		cursor := " "
		if i == m.selectedPane {
			cursor = ">"
		}
		title := p.Title
		if len(title) > contentWidth-40 && contentWidth > 40 {
			title = title[:contentWidth-43] + "..."
		}
		line := fmt.Sprintf("%s %-6s %-10s %-12s %s", cursor, p.ID, p.Role, p.Status, title)
		b.WriteString(styleForStatus(p.Status).Render(line) + "\n")
	}
	return b.String()
}

func styleForStatus(status string) lipgloss.Style {
	switch status {
	case "WORKING":
		return workingStyle
	case "IDLE":
		return idleStyle
	case "DONE", "TERMINATED":
		return doneStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) renderLogView(contentWidth, contentHeight int) string {
	if len(m.log) == 0 {
		return "Recent events:\n  (no events yet)\n"
	}
	return "Recent events:\n" + m.logView.View() + "\n"
}

func renderLogLines(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(fmt.Sprintf("  - %s\n", line))
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// NewFeed subscribes a logging bridge to disp and returns a channel of
// rendered summary lines, one per dispatched event. The channel is
// buffered and never blocks the dispatcher: when the channel is full, the
// new line is dropped from the UI feed; the event itself still reaches
// every other handler.
func NewFeed(disp *dispatcher.Dispatcher) <-chan string {
	ch := make(chan string, 32)
	disp.Subscribe(&feedBridge{ch: ch})
	return ch
}

type feedBridge struct {
	ch chan<- string
}

func (f *feedBridge) CanHandle(events.Type) bool { return true }

func (f *feedBridge) Handle(e events.Event) {
	line := describe(e)
	select {
	case f.ch <- line:
	default:
	}
}

func describe(e events.Event) string {
	switch ev := e.(type) {
	case events.StatusChanged:
		return fmt.Sprintf("%s: %s -> %s", ev.PaneID, ev.OldStatus.Kind(), ev.NewStatus.Kind())
	case events.CycleCompleted:
		return fmt.Sprintf("cycle %d done: %d processed, %d changed", ev.CycleNumber, ev.Processed, ev.Changes)
	case events.EnterSendRequested:
		return fmt.Sprintf("%s: enter requested (%s)", ev.PaneID, ev.Reason)
	case events.ClearRequested:
		return fmt.Sprintf("%s: clear requested (%s)", ev.PaneID, ev.Reason)
	case events.TitleChanged:
		return fmt.Sprintf("%s: title -> %q", ev.PaneID, ev.NewTitle)
	default:
		return e.Type().String()
	}
}
