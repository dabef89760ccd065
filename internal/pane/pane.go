// Package pane implements the Pane aggregate root: one pane's identity,
// role, status, bounded history, and active flag, with enforced
// invariants.
package pane

import (
	"time"

	"github.com/paneguard/tmux-monitor/internal/errs"
	"github.com/paneguard/tmux-monitor/internal/panename"
	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
)

// maxHistory bounds Pane.history at all times.
const maxHistory = 2

// HistoryEntry is one retained prior snapshot of a pane.
type HistoryEntry struct {
	Timestamp time.Time
	Status    status.WorkerStatus
	Title     string
	Command   string
}

// Pane is the aggregate root. All mutation goes through its methods so the
// id format, history bound, and transition rules always hold.
type Pane struct {
	id             paneid.PaneId
	isActive       bool
	currentCommand string
	title          string
	workerStatus   status.WorkerStatus
	name           *panename.PaneName
	history        []HistoryEntry
	createdAt      time.Time
}

// New constructs a Pane with status UNKNOWN. command and title must be
// non-empty; callers coerce blanks to "unknown"/"untitled" at the
// discovery boundary, New itself enforces the invariant strictly.
func New(id paneid.PaneId, isActive bool, command, title string, createdAt time.Time) (*Pane, error) {
	if command == "" {
		return nil, &errs.EmptyInput{Field: "currentCommand"}
	}
	if title == "" {
		return nil, &errs.EmptyInput{Field: "title"}
	}
	return &Pane{
		id:             id,
		isActive:       isActive,
		currentCommand: command,
		title:          title,
		workerStatus:   status.NewUnknown("initial or indeterminate"),
		createdAt:      createdAt,
	}, nil
}

// ID returns the pane's identity.
func (p *Pane) ID() paneid.PaneId { return p.id }

// IsActive reports whether this pane currently holds session focus.
func (p *Pane) IsActive() bool { return p.isActive }

// CurrentCommand returns the last-known foreground command.
func (p *Pane) CurrentCommand() string { return p.currentCommand }

// Title returns the pane's current title.
func (p *Pane) Title() string { return p.title }

// Status returns the pane's current worker status.
func (p *Pane) Status() status.WorkerStatus { return p.workerStatus }

// Name returns the assigned PaneName, or nil if unassigned.
func (p *Pane) Name() *panename.PaneName { return p.name }

// CreatedAt returns the discovery timestamp.
func (p *Pane) CreatedAt() time.Time { return p.createdAt }

// History returns a defensive copy of the retained history, oldest first,
// length at most 2.
func (p *Pane) History() []HistoryEntry {
	out := make([]HistoryEntry, len(p.history))
	copy(out, p.history)
	return out
}

// pushHistory appends the pre-mutation snapshot and tail-drops to maxHistory.
func (p *Pane) pushHistory() {
	p.history = append(p.history, HistoryEntry{
		Timestamp: time.Now(),
		Status:    p.workerStatus,
		Title:     p.title,
		Command:   p.currentCommand,
	})
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

// UpdateStatus attempts the transition from the current status kind to
// next's kind. Rejected transitions leave the pane unchanged and return
// errs.BusinessRuleViolation{rule=ValidStatusTransition}. Accepted
// transitions first append the previous status/title/command to history,
// then mutate.
func (p *Pane) UpdateStatus(next status.WorkerStatus) error {
	if err := status.ValidateTransition(p.workerStatus.Kind(), next.Kind()); err != nil {
		return err
	}
	p.pushHistory()
	p.workerStatus = next
	return nil
}

// UpdateTitle replaces the pane's title unconditionally (title changes are
// not subject to the status transition graph).
func (p *Pane) UpdateTitle(newTitle string) {
	if newTitle == p.title {
		return
	}
	p.pushHistory()
	p.title = newTitle
}

// UpdateCommand replaces the pane's recorded foreground command.
func (p *Pane) UpdateCommand(newCommand string) {
	if newCommand == p.currentCommand {
		return
	}
	p.pushHistory()
	p.currentCommand = newCommand
}

// SetActive flips the active flag. The collection, not the pane, enforces
// the single-active invariant across panes. SetActive does not check the
// assigned name's role; the active-pane role constraint is checked only in
// AssignName.
func (p *Pane) SetActive(active bool) {
	p.isActive = active
}

// AssignName assigns a business name/role to the pane. If the pane is
// currently active, only RoleMain or RoleManager may be assigned; any other
// role is rejected with errs.BusinessRuleViolation.
func (p *Pane) AssignName(name panename.PaneName) error {
	if p.isActive && name.Role() != panename.RoleMain && name.Role() != panename.RoleManager {
		return &errs.BusinessRuleViolation{
			Rule:    "ActivePaneRoleRestriction",
			Context: "active pane may only be assigned role main or manager, got " + name.Role().String(),
		}
	}
	p.name = &name
	return nil
}

// IsIdle reports status.Idle.
func (p *Pane) IsIdle() bool { return p.workerStatus.Kind() == status.Idle }

// IsWorking reports status.Working.
func (p *Pane) IsWorking() bool { return p.workerStatus.Kind() == status.Working }

// IsDone reports status.Done.
func (p *Pane) IsDone() bool { return p.workerStatus.Kind() == status.Done }

// IsTerminated reports status.Terminated.
func (p *Pane) IsTerminated() bool { return p.workerStatus.Kind() == status.Terminated }

// CanAssignTask reports idle AND not active.
func (p *Pane) CanAssignTask() bool {
	return p.IsIdle() && !p.isActive
}

// ShouldBeMonitored reports not terminated AND not active.
func (p *Pane) ShouldBeMonitored() bool {
	return !p.IsTerminated() && !p.isActive
}

// IsWorkerRole reports whether the assigned name (if any) has RoleWorker.
func (p *Pane) IsWorkerRole() bool {
	return p.name != nil && p.name.Role() == panename.RoleWorker
}

// ShouldBeClearedWhenIdle reports worker role AND status in {IDLE, DONE}.
// Non-worker idle panes are never cleared.
func (p *Pane) ShouldBeClearedWhenIdle() bool {
	if !p.IsWorkerRole() {
		return false
	}
	k := p.workerStatus.Kind()
	return k == status.Idle || k == status.Done
}

// HistoryWithinLimit reports the invariant history length <= 2, used by
// the VALIDATE_INVARIANTS cycle action.
func (p *Pane) HistoryWithinLimit() bool {
	return len(p.history) <= maxHistory
}
