// Package panecollection implements the in-memory pane registry: an
// id-keyed map enforcing the single-active-pane invariant and exposing the
// query surface the monitoring cycle drives off of.
package panecollection

import (
	"github.com/paneguard/tmux-monitor/internal/errs"
	"github.com/paneguard/tmux-monitor/internal/pane"
	"github.com/paneguard/tmux-monitor/internal/panename"
	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
)

// Collection holds the set of known panes. Not safe for concurrent use by
// multiple goroutines without external synchronization; callers serialize
// access through the cycle coordinator's single-threaded loop.
type Collection struct {
	panes map[string]*pane.Pane
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{panes: make(map[string]*pane.Pane)}
}

// Add registers p. If p.IsActive() and another pane is already active,
// Add returns errs.BusinessRuleViolation{rule=SingleActivePane} and p is
// not added.
func (c *Collection) Add(p *pane.Pane) error {
	if p.IsActive() {
		if active := c.GetActive(); active != nil && active.ID().String() != p.ID().String() {
			return &errs.BusinessRuleViolation{
				Rule:    "SingleActivePane",
				Context: "pane " + active.ID().String() + " is already active",
			}
		}
	}
	c.panes[p.ID().String()] = p
	return nil
}

// Remove deletes the pane with the given id, if present.
func (c *Collection) Remove(id paneid.PaneId) {
	delete(c.panes, id.String())
}

// Get returns the pane with the given id, or nil.
func (c *Collection) Get(id paneid.PaneId) *pane.Pane {
	return c.panes[id.String()]
}

// GetAll returns every known pane in unspecified order.
func (c *Collection) GetAll() []*pane.Pane {
	out := make([]*pane.Pane, 0, len(c.panes))
	for _, p := range c.panes {
		out = append(out, p)
	}
	return out
}

// GetActive returns the single active pane, or nil if none is active.
func (c *Collection) GetActive() *pane.Pane {
	for _, p := range c.panes {
		if p.IsActive() {
			return p
		}
	}
	return nil
}

// GetTargets returns every pane that ShouldBeMonitored.
func (c *Collection) GetTargets() []*pane.Pane {
	var out []*pane.Pane
	for _, p := range c.panes {
		if p.ShouldBeMonitored() {
			out = append(out, p)
		}
	}
	return out
}

// GetByRole returns every pane whose assigned name has the given role.
func (c *Collection) GetByRole(role panename.Role) []*pane.Pane {
	var out []*pane.Pane
	for _, p := range c.panes {
		if p.Name() != nil && p.Name().Role() == role {
			out = append(out, p)
		}
	}
	return out
}

// GetByStatus returns every pane whose status has the given kind.
func (c *Collection) GetByStatus(kind status.Kind) []*pane.Pane {
	var out []*pane.Pane
	for _, p := range c.panes {
		if p.Status().Kind() == kind {
			out = append(out, p)
		}
	}
	return out
}

// GetAvailableForTaskAssignment returns every pane that CanAssignTask.
func (c *Collection) GetAvailableForTaskAssignment() []*pane.Pane {
	var out []*pane.Pane
	for _, p := range c.panes {
		if p.CanAssignTask() {
			out = append(out, p)
		}
	}
	return out
}

// GetMonitoringTargets is an alias for GetTargets kept distinct so the
// cycle coordinator can name the concept it consumes without coupling to
// GetTargets' wording.
func (c *Collection) GetMonitoringTargets() []*pane.Pane {
	return c.GetTargets()
}

// Count returns the number of known panes.
func (c *Collection) Count() int {
	return len(c.panes)
}

// ReconcileActive clears the active flag on every pane except id,
// restoring the single-active invariant after discovery observes a new
// active pane.
func (c *Collection) ReconcileActive(id paneid.PaneId) {
	for key, p := range c.panes {
		if key == id.String() {
			continue
		}
		if p.IsActive() {
			p.SetActive(false)
		}
	}
}
