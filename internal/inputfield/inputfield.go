// Package inputfield implements the boxed input-field scanner: a pure
// function over capture lines, written as explicit loops rather than
// regexp.
package inputfield

import (
	"strings"

	"github.com/paneguard/tmux-monitor/internal/errs"
)

// Kind identifies the shape the scan found.
type Kind int

const (
	NoInputField Kind = iota
	Empty
	HasInput
	ParseError
)

// String renders the input-field kind, used in PaneCaptureStateUpdated
// events.
func (k Kind) String() string {
	switch k {
	case NoInputField:
		return "NO_INPUT_FIELD"
	case Empty:
		return "EMPTY"
	case HasInput:
		return "HAS_INPUT"
	case ParseError:
		return "PARSE_ERROR"
	default:
		return "NO_INPUT_FIELD"
	}
}

// Status is the scan result: a Kind plus, for ParseError, a reason string.
type Status struct {
	Kind   Kind
	Reason string
}

// Scan looks for three consecutive trimmed, non-empty lines shaped like:
//
//	╭───╮
//	│ x │
//	╰───╯
//
// An interior exactly ">" yields Empty; an interior starting with ">" or
// anything else inside a matched box yields HasInput. No match anywhere
// yields NoInputField. Fewer than 3 lines is rejected with ValidationFailed
// before scanning begins.
func Scan(lines []string) (Status, error) {
	if len(lines) < 3 {
		return Status{}, &errs.ValidationFailed{Input: "lines", Constraint: "at least 3 lines"}
	}

	for i := 0; i+2 < len(lines); i++ {
		top := strings.TrimSpace(lines[i])
		mid := strings.TrimSpace(lines[i+1])
		bottom := strings.TrimSpace(lines[i+2])

		if top == "" || mid == "" || bottom == "" {
			continue
		}
		if !strings.HasPrefix(top, "╭") || !strings.Contains(top, "─") {
			continue
		}
		if !strings.HasPrefix(mid, "│") || !strings.HasSuffix(mid, "│") {
			continue
		}
		if !strings.HasPrefix(bottom, "╰") || !strings.Contains(bottom, "─") {
			continue
		}

		interior := mid
		interior = strings.TrimPrefix(interior, "│")
		interior = strings.TrimSuffix(interior, "│")
		interior = strings.TrimSpace(interior)

		if interior == ">" {
			return Status{Kind: Empty}, nil
		}
		return Status{Kind: HasInput}, nil
	}

	return Status{Kind: NoInputField}, nil
}
