package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeSource struct {
	rows  []PaneRow
	stats Stats
}

func (f *fakeSource) Snapshot() []PaneRow   { return f.rows }
func (f *fakeSource) DashboardStats() Stats { return f.stats }

func newTestModel() Model {
	src := &fakeSource{
		rows: []PaneRow{
			{ID: "%1", Role: "main", Status: "WORKING", Title: "shell", Active: true},
			{ID: "%2", Role: "worker1", Status: "IDLE", Title: "server"},
		},
		stats: Stats{Total: 2, ByStatus: map[string]int{"WORKING": 1, "IDLE": 1}, ActiveID: "%1", HasActive: true},
	}
	return NewModel(src, make(chan string))
}

func TestTUI_InitialModel(t *testing.T) {
	m := newTestModel()

	if m.currentView != ViewPanes {
		t.Errorf("initial view: got %v, want ViewPanes", m.currentView)
	}
	if m.quitting {
		t.Error("initial quitting: got true, want false")
	}
	if len(m.log) != 0 {
		t.Errorf("initial log length: got %d, want 0", len(m.log))
	}
}

func TestTUI_Update_Quit(t *testing.T) {
	m := newTestModel()

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = newModel.(Model)

	if !m.quitting {
		t.Error("quitting flag not set after 'q' key")
	}
	if cmd == nil {
		t.Error("quit command not returned")
	}
}

func TestTUI_Update_TabSwitchesView(t *testing.T) {
	m := newTestModel()

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = newModel.(Model)
	if m.currentView != ViewLog {
		t.Errorf("after tab: got %v, want ViewLog", m.currentView)
	}

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = newModel.(Model)
	if m.currentView != ViewPanes {
		t.Errorf("after second tab: got %v, want ViewPanes", m.currentView)
	}
}

func TestTUI_Update_LogMessageAppendsAndTrims(t *testing.T) {
	m := newTestModel()

	for i := 0; i < maxLogLines+5; i++ {
		newModel, _ := m.Update(logMsg("line"))
		m = newModel.(Model)
	}

	if len(m.log) != maxLogLines {
		t.Errorf("log length: got %d, want %d", len(m.log), maxLogLines)
	}
}

func TestTUI_Update_TickRefreshesSnapshot(t *testing.T) {
	m := newTestModel()

	newModel, cmd := m.Update(tickMsg{})
	m = newModel.(Model)

	if len(m.panes) != 2 {
		t.Errorf("panes after tick: got %d, want 2", len(m.panes))
	}
	if m.stats.Total != 2 {
		t.Errorf("stats total after tick: got %d, want 2", m.stats.Total)
	}
	if cmd == nil {
		t.Error("expected a re-armed tick command")
	}
}

func TestTUI_View_RendersPaneTable(t *testing.T) {
	m := newTestModel()
	m.width = 100
	m.height = 30
	newModel, _ := m.Update(tickMsg{})
	m = newModel.(Model)

	view := m.View()

	if !strings.Contains(view, "=== panemonitor ===") {
		t.Error("view missing header")
	}
	if !strings.Contains(view, "panes: 2") {
		t.Error("view missing pane count")
	}
	if !strings.Contains(view, "%1") || !strings.Contains(view, "worker1") {
		t.Error("view missing pane rows")
	}
}

func TestTUI_View_WarnsWhenTerminalTooSmall(t *testing.T) {
	m := newTestModel()
	m.width = 20
	m.height = 5

	if !strings.Contains(m.View(), "terminal too small") {
		t.Error("expected too-small warning")
	}
}
