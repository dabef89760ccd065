package pane

import (
	"testing"
	"time"

	"github.com/paneguard/tmux-monitor/internal/panename"
	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
)

func newTestPane(t *testing.T, active bool) *Pane {
	t.Helper()
	id := paneid.MustNew("%1")
	p, err := New(id, active, "bash", "untitled", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestNew_RejectsEmptyFields(t *testing.T) {
	id := paneid.MustNew("%1")
	if _, err := New(id, false, "", "t", time.Unix(0, 0)); err == nil {
		t.Fatal("expected error for empty command")
	}
	if _, err := New(id, false, "bash", "", time.Unix(0, 0)); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestUpdateStatus_AllowedTransitionMutatesAndRecordsHistory(t *testing.T) {
	p := newTestPane(t, false)
	if err := p.UpdateStatus(status.NewWorking("building")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status().Kind() != status.Working {
		t.Fatalf("expected Working, got %v", p.Status().Kind())
	}
	hist := p.History()
	if len(hist) != 1 || hist[0].Status.Kind() != status.Unknown {
		t.Fatalf("expected one history entry carrying prior UNKNOWN status, got %+v", hist)
	}
}

func TestUpdateStatus_RejectedTransitionLeavesPaneUnchanged(t *testing.T) {
	p := newTestPane(t, false)
	if err := p.UpdateStatus(status.NewIdle()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.UpdateStatus(status.NewDone("")); err == nil {
		t.Fatal("expected IDLE -> DONE to be rejected")
	}
	if p.Status().Kind() != status.Idle {
		t.Fatalf("pane must remain IDLE after rejected transition, got %v", p.Status().Kind())
	}
}

func TestHistory_BoundedAtTwo(t *testing.T) {
	p := newTestPane(t, false)
	transitions := []status.WorkerStatus{
		status.NewWorking(""), status.NewIdle(), status.NewWorking(""),
		status.NewBlocked(""), status.NewWorking(""),
	}
	for _, next := range transitions {
		if err := p.UpdateStatus(next); err != nil {
			t.Fatalf("unexpected error transitioning to %v: %v", next.Kind(), err)
		}
	}
	if len(p.History()) > maxHistory {
		t.Fatalf("history exceeded bound: %d entries", len(p.History()))
	}
	if !p.HistoryWithinLimit() {
		t.Fatal("expected HistoryWithinLimit to hold")
	}
}

func TestAssignName_ActivePaneRestrictedToMainOrManager(t *testing.T) {
	p := newTestPane(t, true)
	if err := p.AssignName(panename.MustNew("worker1")); err == nil {
		t.Fatal("expected active pane to reject worker role")
	}
	if err := p.AssignName(panename.MustNew("main")); err != nil {
		t.Fatalf("unexpected error assigning main to active pane: %v", err)
	}
}

func TestAssignName_InactivePaneAcceptsAnyRole(t *testing.T) {
	p := newTestPane(t, false)
	if err := p.AssignName(panename.MustNew("worker1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsWorkerRole() {
		t.Fatal("expected worker role to be recorded")
	}
}

func TestCanAssignTask_RequiresIdleAndInactive(t *testing.T) {
	p := newTestPane(t, false)
	if p.CanAssignTask() {
		t.Fatal("UNKNOWN pane should not be assignable")
	}
	if err := p.UpdateStatus(status.NewIdle()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.CanAssignTask() {
		t.Fatal("idle, inactive pane should be assignable")
	}
}

func TestShouldBeMonitored_ExcludesActiveAndTerminated(t *testing.T) {
	active := newTestPane(t, true)
	if active.ShouldBeMonitored() {
		t.Fatal("active pane should not be monitored")
	}

	p := newTestPane(t, false)
	if err := p.UpdateStatus(status.NewTerminated("exited")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ShouldBeMonitored() {
		t.Fatal("terminated pane should not be monitored")
	}
}

func TestShouldBeClearedWhenIdle_OnlyWorkerIdleOrDone(t *testing.T) {
	p := newTestPane(t, false)
	if err := p.AssignName(panename.MustNew("worker1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ShouldBeClearedWhenIdle() {
		t.Fatal("UNKNOWN worker should not be cleared")
	}
	if err := p.UpdateStatus(status.NewIdle()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.ShouldBeClearedWhenIdle() {
		t.Fatal("idle worker should be cleared")
	}
}

func TestShouldBeClearedWhenIdle_NonWorkerNeverCleared(t *testing.T) {
	p := newTestPane(t, false)
	if err := p.AssignName(panename.MustNew("secretary")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.UpdateStatus(status.NewIdle()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ShouldBeClearedWhenIdle() {
		t.Fatal("non-worker role must never be cleared on idle")
	}
}
