package paneid

import (
	"errors"
	"testing"

	"github.com/paneguard/tmux-monitor/internal/errs"
)

func TestNew_ValidFormats(t *testing.T) {
	cases := []string{"%0", "%1", "%42", "  %7  "}
	for _, c := range cases {
		id, err := New(c)
		if err != nil {
			t.Fatalf("New(%q): unexpected error: %v", c, err)
		}
		if id.IsZero() {
			t.Fatalf("New(%q): expected non-zero id", c)
		}
	}
}

func TestNew_TrimsWhitespace(t *testing.T) {
	id, err := New("  %12  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "%12" {
		t.Errorf("expected %%12, got %q", id.String())
	}
}

func TestNew_EmptyInput(t *testing.T) {
	_, err := New("   ")
	var want *errs.EmptyInput
	if !errors.As(err, &want) {
		t.Fatalf("expected EmptyInput, got %v (%T)", err, err)
	}
}

func TestNew_RejectsBadFormat(t *testing.T) {
	cases := []string{"1", "pane1", "%", "%-1", "% 1", "%1a"}
	for _, c := range cases {
		_, err := New(c)
		var want *errs.ValidationFailed
		if !errors.As(err, &want) {
			t.Errorf("New(%q): expected ValidationFailed, got %v", c, err)
		}
	}
}

func TestEqual(t *testing.T) {
	a := MustNew("%5")
	b := MustNew("%5")
	c := MustNew("%6")
	if !a.Equal(b) {
		t.Error("expected %5 == %5")
	}
	if a.Equal(c) {
		t.Error("expected %5 != %6")
	}
}

func TestNumeric(t *testing.T) {
	if MustNew("%42").Numeric() != 42 {
		t.Errorf("expected 42")
	}
}

// New(s).String() = trim(s) iff trim(s) matches ^%\d+$; everything else is
// rejected.
func TestRoundTripProperty(t *testing.T) {
	valid := []string{"%0", "%1", "%999", " %3 "}
	for _, s := range valid {
		id, err := New(s)
		if err != nil {
			t.Fatalf("New(%q): unexpected error: %v", s, err)
		}
		want := trim(s)
		if id.String() != want {
			t.Errorf("New(%q).String() = %q, want %q", s, id.String(), want)
		}
	}

	invalid := []string{"", "x", "%", "%a", "1%1"}
	for _, s := range invalid {
		if _, err := New(s); err == nil {
			t.Errorf("New(%q): expected error, got none", s)
		}
	}
}

func trim(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}
