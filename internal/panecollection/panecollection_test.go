package panecollection

import (
	"testing"
	"time"

	"github.com/paneguard/tmux-monitor/internal/pane"
	"github.com/paneguard/tmux-monitor/internal/panename"
	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
)

func mustPane(t *testing.T, id string, active bool) *pane.Pane {
	t.Helper()
	p, err := pane.New(paneid.MustNew(id), active, "bash", "untitled", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestAdd_RejectsSecondActivePane(t *testing.T) {
	c := New()
	if err := c.Add(mustPane(t, "%1", true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Add(mustPane(t, "%2", true)); err == nil {
		t.Fatal("expected SingleActivePane violation")
	}
	if c.Count() != 1 {
		t.Fatalf("expected rejected pane not to be added, count=%d", c.Count())
	}
}

func TestGetActive_ReturnsTheActivePane(t *testing.T) {
	c := New()
	c.Add(mustPane(t, "%1", false))
	active := mustPane(t, "%2", true)
	if err := c.Add(active); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.GetActive()
	if got == nil || got.ID().String() != "%2" {
		t.Fatalf("expected %%2 active, got %v", got)
	}
}

func TestGetTargets_ExcludesActiveAndTerminated(t *testing.T) {
	c := New()
	c.Add(mustPane(t, "%1", true))
	terminated := mustPane(t, "%2", false)
	terminated.UpdateStatus(status.NewTerminated(""))
	c.Add(terminated)
	monitorable := mustPane(t, "%3", false)
	c.Add(monitorable)

	targets := c.GetTargets()
	if len(targets) != 1 || targets[0].ID().String() != "%3" {
		t.Fatalf("expected only %%3 as target, got %v", targets)
	}
}

func TestGetByRole_FiltersAssignedRole(t *testing.T) {
	c := New()
	w := mustPane(t, "%1", false)
	w.AssignName(panename.MustNew("worker1"))
	c.Add(w)
	m := mustPane(t, "%2", false)
	m.AssignName(panename.MustNew("manager"))
	c.Add(m)

	workers := c.GetByRole(panename.RoleWorker)
	if len(workers) != 1 || workers[0].ID().String() != "%1" {
		t.Fatalf("expected one worker, got %v", workers)
	}
}

func TestGetAvailableForTaskAssignment_RequiresIdleAndInactive(t *testing.T) {
	c := New()
	idle := mustPane(t, "%1", false)
	idle.UpdateStatus(status.NewIdle())
	c.Add(idle)
	active := mustPane(t, "%2", true)
	active.UpdateStatus(status.NewIdle())
	c.Add(active)

	avail := c.GetAvailableForTaskAssignment()
	if len(avail) != 1 || avail[0].ID().String() != "%1" {
		t.Fatalf("expected only %%1 available, got %v", avail)
	}
}

func TestReconcileActive_ClearsOthers(t *testing.T) {
	c := New()
	p1 := mustPane(t, "%1", true)
	c.Add(p1)
	p2 := mustPane(t, "%2", false)
	c.Add(p2)
	p2.SetActive(true)

	c.ReconcileActive(paneid.MustNew("%2"))

	if p1.IsActive() {
		t.Fatal("expected %1 to be deactivated")
	}
	if !p2.IsActive() {
		t.Fatal("expected %2 to remain active")
	}
}
