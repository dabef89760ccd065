package events

import (
	"testing"

	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
)

func TestEventTypes_MatchTheirConstructors(t *testing.T) {
	id := paneid.MustNew("%1")

	cases := []struct {
		event Event
		want  Type
	}{
		{NewCycleStarted(1, []string{"CAPTURE_PANE_STATES"}), MonitoringCycleStarted},
		{NewCycleCompleted(1, 2, 1, 0, 0, 0), MonitoringCycleCompleted},
		{NewStatusChanged(id, status.NewUnknown(""), status.NewWorking("")), PaneStatusChanged},
		{NewCaptureStateUpdated(id, "WORKING", "EMPTY", false), PaneCaptureStateUpdated},
		{NewEnterSendRequested(id, RegularCycle), PaneEnterSendRequested},
		{NewClearRequested(id, IdleState, ClearCommand), PaneClearRequested},
		{NewTitleChanged(id, "old", "new"), PaneTitleChanged},
	}
	for _, c := range cases {
		if c.event.Type() != c.want {
			t.Errorf("%T: got type %v, want %v", c.event, c.event.Type(), c.want)
		}
		if c.event.OccurredAt().IsZero() {
			t.Errorf("%T: expected OccurredAt to be stamped", c.event)
		}
	}
}

func TestEnterReason_Strings(t *testing.T) {
	if RegularCycle.String() != "REGULAR_CYCLE" {
		t.Errorf("got %q", RegularCycle.String())
	}
	if InputCompletion.String() != "INPUT_COMPLETION" {
		t.Errorf("got %q", InputCompletion.String())
	}
}

func TestClearReason_Strings(t *testing.T) {
	if IdleState.String() != "IDLE_STATE" {
		t.Errorf("got %q", IdleState.String())
	}
	if DoneState.String() != "DONE_STATE" {
		t.Errorf("got %q", DoneState.String())
	}
}
