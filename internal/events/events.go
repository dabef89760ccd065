// Package events defines the tagged-union domain events that flow through
// the dispatcher: a closed Type enum plus one payload struct per variant,
// rather than an open inheritance hierarchy.
package events

import (
	"time"

	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
)

// Type identifies an event's topic for dispatcher subscription.
type Type int

const (
	MonitoringCycleStarted Type = iota
	MonitoringCycleCompleted
	PaneStatusChanged
	PaneCaptureStateUpdated
	PaneEnterSendRequested
	PaneClearRequested
	PaneTitleChanged
)

func (t Type) String() string {
	switch t {
	case MonitoringCycleStarted:
		return "MonitoringCycleStarted"
	case MonitoringCycleCompleted:
		return "MonitoringCycleCompleted"
	case PaneStatusChanged:
		return "PaneStatusChanged"
	case PaneCaptureStateUpdated:
		return "PaneCaptureStateUpdated"
	case PaneEnterSendRequested:
		return "PaneEnterSendRequested"
	case PaneClearRequested:
		return "PaneClearRequested"
	case PaneTitleChanged:
		return "PaneTitleChanged"
	default:
		return "Unknown"
	}
}

// EnterReason distinguishes why an Enter send was requested.
type EnterReason int

const (
	RegularCycle EnterReason = iota
	InputCompletion
)

func (r EnterReason) String() string {
	if r == InputCompletion {
		return "INPUT_COMPLETION"
	}
	return "REGULAR_CYCLE"
}

// ClearReason distinguishes why a clear was requested.
type ClearReason int

const (
	IdleState ClearReason = iota
	DoneState
)

func (r ClearReason) String() string {
	if r == DoneState {
		return "DONE_STATE"
	}
	return "IDLE_STATE"
}

// ClearStrategy selects the key sequence a clear handler sends.
type ClearStrategy int

const (
	ClearCommand ClearStrategy = iota
	EscapeSequence
)

// Event is the common interface every domain event satisfies.
type Event interface {
	Type() Type
	OccurredAt() time.Time
}

type base struct {
	occurredAt time.Time
}

func (b base) OccurredAt() time.Time { return b.occurredAt }

// CycleStarted is MonitoringCycleStarted.
type CycleStarted struct {
	base
	CycleNumber      int
	ScheduledActions []string
}

func (CycleStarted) Type() Type { return MonitoringCycleStarted }

// NewCycleStarted constructs a CycleStarted stamped with now.
func NewCycleStarted(cycleNumber int, scheduledActions []string) CycleStarted {
	return CycleStarted{base: base{occurredAt: time.Now()}, CycleNumber: cycleNumber, ScheduledActions: scheduledActions}
}

// CycleCompleted is MonitoringCycleCompleted.
type CycleCompleted struct {
	base
	CycleNumber int
	Processed   int
	Changes     int
	Enters      int
	Clears      int
	Duration    time.Duration
}

func (CycleCompleted) Type() Type { return MonitoringCycleCompleted }

// NewCycleCompleted constructs a CycleCompleted stamped with now.
func NewCycleCompleted(cycleNumber, processed, changes, enters, clears int, duration time.Duration) CycleCompleted {
	return CycleCompleted{
		base: base{occurredAt: time.Now()}, CycleNumber: cycleNumber, Processed: processed,
		Changes: changes, Enters: enters, Clears: clears, Duration: duration,
	}
}

// StatusChanged is PaneStatusChanged.
type StatusChanged struct {
	base
	PaneID    paneid.PaneId
	OldStatus status.WorkerStatus
	NewStatus status.WorkerStatus
}

func (StatusChanged) Type() Type { return PaneStatusChanged }

// NewStatusChanged constructs a StatusChanged stamped with now.
func NewStatusChanged(id paneid.PaneId, oldStatus, newStatus status.WorkerStatus) StatusChanged {
	return StatusChanged{base: base{occurredAt: time.Now()}, PaneID: id, OldStatus: oldStatus, NewStatus: newStatus}
}

// CaptureStateUpdated is PaneCaptureStateUpdated.
type CaptureStateUpdated struct {
	base
	PaneID                paneid.PaneId
	ActivityStatus        string
	InputStatus           string
	IsAvailableForNewTask bool
}

func (CaptureStateUpdated) Type() Type { return PaneCaptureStateUpdated }

// NewCaptureStateUpdated constructs a CaptureStateUpdated stamped with now.
func NewCaptureStateUpdated(id paneid.PaneId, activityStatus, inputStatus string, available bool) CaptureStateUpdated {
	return CaptureStateUpdated{
		base: base{occurredAt: time.Now()}, PaneID: id, ActivityStatus: activityStatus,
		InputStatus: inputStatus, IsAvailableForNewTask: available,
	}
}

// EnterSendRequested is PaneEnterSendRequested.
type EnterSendRequested struct {
	base
	PaneID paneid.PaneId
	Reason EnterReason
}

func (EnterSendRequested) Type() Type { return PaneEnterSendRequested }

// NewEnterSendRequested constructs an EnterSendRequested stamped with now.
func NewEnterSendRequested(id paneid.PaneId, reason EnterReason) EnterSendRequested {
	return EnterSendRequested{base: base{occurredAt: time.Now()}, PaneID: id, Reason: reason}
}

// ClearRequested is PaneClearRequested.
type ClearRequested struct {
	base
	PaneID   paneid.PaneId
	Reason   ClearReason
	Strategy ClearStrategy
}

func (ClearRequested) Type() Type { return PaneClearRequested }

// NewClearRequested constructs a ClearRequested stamped with now.
func NewClearRequested(id paneid.PaneId, reason ClearReason, strategy ClearStrategy) ClearRequested {
	return ClearRequested{base: base{occurredAt: time.Now()}, PaneID: id, Reason: reason, Strategy: strategy}
}

// TitleChanged is PaneTitleChanged.
type TitleChanged struct {
	base
	PaneID   paneid.PaneId
	OldTitle string
	NewTitle string
}

func (TitleChanged) Type() Type { return PaneTitleChanged }

// NewTitleChanged constructs a TitleChanged stamped with now.
func NewTitleChanged(id paneid.PaneId, oldTitle, newTitle string) TitleChanged {
	return TitleChanged{base: base{occurredAt: time.Now()}, PaneID: id, OldTitle: oldTitle, NewTitle: newTitle}
}
