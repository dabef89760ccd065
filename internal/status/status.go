// Package status implements the WorkerStatus tagged union and its allowed
// transition graph.
package status

import "github.com/paneguard/tmux-monitor/internal/errs"

// Kind identifies a WorkerStatus variant.
type Kind int

const (
	Unknown Kind = iota
	Idle
	Working
	Blocked
	Done
	Terminated
)

// String renders a human-readable status kind, used in titles and logs.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "UNKNOWN"
	case Idle:
		return "IDLE"
	case Working:
		return "WORKING"
	case Blocked:
		return "BLOCKED"
	case Done:
		return "DONE"
	case Terminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// ParseKind recognizes one of the six status kind keywords
// (case-sensitive), used by the title-keyword short-circuit strategy.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "UNKNOWN":
		return Unknown, true
	case "IDLE":
		return Idle, true
	case "WORKING":
		return Working, true
	case "BLOCKED":
		return Blocked, true
	case "DONE":
		return Done, true
	case "TERMINATED":
		return Terminated, true
	default:
		return Unknown, false
	}
}

// WorkerStatus is an immutable value carrying a Kind plus an optional
// free-text detail payload (lastKnownState / details / reason / result,
// depending on Kind).
type WorkerStatus struct {
	kind   Kind
	detail string
}

// NewUnknown constructs UNKNOWN{lastKnownState?}.
func NewUnknown(lastKnownState string) WorkerStatus {
	return WorkerStatus{kind: Unknown, detail: lastKnownState}
}

// NewIdle constructs IDLE.
func NewIdle() WorkerStatus {
	return WorkerStatus{kind: Idle}
}

// NewWorking constructs WORKING{details?}.
func NewWorking(details string) WorkerStatus {
	return WorkerStatus{kind: Working, detail: details}
}

// NewBlocked constructs BLOCKED{reason?}.
func NewBlocked(reason string) WorkerStatus {
	return WorkerStatus{kind: Blocked, detail: reason}
}

// NewDone constructs DONE{result?}.
func NewDone(result string) WorkerStatus {
	return WorkerStatus{kind: Done, detail: result}
}

// NewTerminated constructs TERMINATED{reason?}.
func NewTerminated(reason string) WorkerStatus {
	return WorkerStatus{kind: Terminated, detail: reason}
}

// Kind returns the status variant.
func (s WorkerStatus) Kind() Kind {
	return s.kind
}

// Detail returns the variant's free-text payload, if any.
func (s WorkerStatus) Detail() string {
	return s.detail
}

func (s WorkerStatus) String() string {
	return s.kind.String()
}

// allowedTransitions is the closed transition graph. A kind is never
// allowed to transition to itself.
var allowedTransitions = map[Kind]map[Kind]bool{
	Unknown:    {Idle: true, Working: true, Blocked: true, Done: true, Terminated: true},
	Idle:       {Working: true, Blocked: true, Terminated: true},
	Working:    {Idle: true, Done: true, Blocked: true, Terminated: true},
	Blocked:    {Idle: true, Working: true, Terminated: true},
	Done:       {Idle: true, Working: true},
	Terminated: {Idle: true, Working: true},
}

// CanTransition reports whether from -> to is allowed by the table.
func CanTransition(from, to Kind) bool {
	row, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return row[to]
}

// ValidateTransition returns errs.BusinessRuleViolation{rule="ValidStatusTransition"}
// when from -> to is not in the allowed table.
func ValidateTransition(from, to Kind) error {
	if !CanTransition(from, to) {
		return &errs.BusinessRuleViolation{
			Rule:    "ValidStatusTransition",
			Context: from.String() + " -> " + to.String(),
		}
	}
	return nil
}
