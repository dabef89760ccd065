// Package panename implements PaneName and its derived Role: the reserved
// literal "main", and substring-matched manager/worker/secretary labels.
package panename

import (
	"strings"

	"github.com/paneguard/tmux-monitor/internal/errs"
)

// Role is the business label attached to a pane.
type Role int

const (
	// RoleUnknown is never produced by New; it exists only as a zero value.
	RoleUnknown Role = iota
	RoleMain
	RoleManager
	RoleWorker
	RoleSecretary
)

// String renders a human-readable role name.
func (r Role) String() string {
	switch r {
	case RoleMain:
		return "main"
	case RoleManager:
		return "manager"
	case RoleWorker:
		return "worker"
	case RoleSecretary:
		return "secretary"
	default:
		return "unknown"
	}
}

// PaneName pairs a display string with the role derived from it.
type PaneName struct {
	value string
	role  Role
}

// New derives a role from name and constructs a PaneName. The literal
// "main" (case-sensitive, exact match) always maps to RoleMain. Otherwise
// the name is scanned for the substrings "manager"/"mgr" (RoleManager),
// "worker"/"work" (RoleWorker), and "secretary"/"sec" (RoleSecretary), in
// that priority order. Anything else fails with errs.ValidationFailed.
func New(name string) (PaneName, error) {
	if name == "" {
		return PaneName{}, &errs.EmptyInput{Field: "name"}
	}

	if name == "main" {
		return PaneName{value: name, role: RoleMain}, nil
	}

	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "manager"), strings.Contains(lower, "mgr"):
		return PaneName{value: name, role: RoleManager}, nil
	case strings.Contains(lower, "worker"), strings.Contains(lower, "work"):
		return PaneName{value: name, role: RoleWorker}, nil
	case strings.Contains(lower, "secretary"), strings.Contains(lower, "sec"):
		return PaneName{value: name, role: RoleSecretary}, nil
	default:
		return PaneName{}, &errs.ValidationFailed{Input: name, Constraint: "recognized role vocabulary"}
	}
}

// MustNew panics on invalid input; intended for tests and constant tables.
func MustNew(name string) PaneName {
	n, err := New(name)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the display name.
func (n PaneName) String() string {
	return n.value
}

// Role returns the derived role.
func (n PaneName) Role() Role {
	return n.role
}

// IsZero reports whether n is the unconstructed zero value.
func (n PaneName) IsZero() bool {
	return n.value == "" && n.role == RoleUnknown
}
