// Package paneid implements the PaneId smart constructor for tmux's own
// pane-id syntax, "%<digits>".
package paneid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paneguard/tmux-monitor/internal/errs"
)

var pattern = regexp.MustCompile(`^%\d+$`)

// PaneId is an immutable, value-comparable tmux pane identifier.
type PaneId struct {
	value string
}

// New validates and constructs a PaneId from raw input, trimming surrounding
// whitespace first. Returns errs.EmptyInput for blank input and
// errs.ValidationFailed for anything not matching ^%\d+$.
func New(raw string) (PaneId, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PaneId{}, &errs.EmptyInput{Field: "paneId"}
	}
	if !pattern.MatchString(trimmed) {
		return PaneId{}, &errs.ValidationFailed{Input: raw, Constraint: "pane id format %<digits>"}
	}
	return PaneId{value: trimmed}, nil
}

// MustNew is a test/tool helper that panics on invalid input.
func MustNew(raw string) PaneId {
	id, err := New(raw)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the raw "%<digits>" representation.
func (p PaneId) String() string {
	return p.value
}

// Equal reports value equality.
func (p PaneId) Equal(other PaneId) bool {
	return p.value == other.value
}

// IsZero reports whether p is the zero value (never produced by New).
func (p PaneId) IsZero() bool {
	return p.value == ""
}

// Numeric returns the numeric suffix, used for deterministic sort ordering
// during sequential naming.
func (p PaneId) Numeric() int {
	n, err := strconv.Atoi(strings.TrimPrefix(p.value, "%"))
	if err != nil {
		return 0
	}
	return n
}
