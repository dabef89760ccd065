// Package handlers implements the event handlers that translate domain
// events into tmux commands, shelling out through the same
// tmuxexec.Executor that capture and the cycle coordinator use.
package handlers

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/paneguard/tmux-monitor/internal/events"
	"github.com/paneguard/tmux-monitor/internal/tmuxexec"
)

// EnterHandler sends Enter to stalled input prompts.
type EnterHandler struct {
	Exec  tmuxexec.Executor
	Delay time.Duration
	Sleep func(time.Duration)
}

// NewEnterHandler returns an EnterHandler backed by exec, pausing delay
// after each send via time.Sleep.
func NewEnterHandler(exec tmuxexec.Executor, delay time.Duration) *EnterHandler {
	return &EnterHandler{Exec: exec, Delay: delay, Sleep: time.Sleep}
}

// CanHandle reports whether t is PaneEnterSendRequested.
func (h *EnterHandler) CanHandle(t events.Type) bool { return t == events.PaneEnterSendRequested }

// Handle executes `send-keys -t <paneId> Enter` then waits the
// communication delay. Failures are logged and absorbed; Handle never
// panics out.
func (h *EnterHandler) Handle(e events.Event) {
	ev, ok := e.(events.EnterSendRequested)
	if !ok {
		return
	}
	if _, err := h.Exec.Execute(context.Background(), []string{"send-keys", "-t", ev.PaneID.String(), "Enter"}); err != nil {
		log.Printf("⚠️ enter send failed for %s: %v", ev.PaneID, err)
		return
	}
	h.sleep(h.Delay)
}

func (h *EnterHandler) sleep(d time.Duration) {
	if h.Sleep != nil {
		h.Sleep(d)
		return
	}
	time.Sleep(d)
}

// ClearHandler resets idle/done worker panes' prompts.
type ClearHandler struct {
	Exec  tmuxexec.Executor
	Delay time.Duration
	Sleep func(time.Duration)
}

// NewClearHandler returns a ClearHandler backed by exec, pausing delay
// after each send.
func NewClearHandler(exec tmuxexec.Executor, delay time.Duration) *ClearHandler {
	return &ClearHandler{Exec: exec, Delay: delay, Sleep: time.Sleep}
}

// CanHandle reports whether t is PaneClearRequested.
func (h *ClearHandler) CanHandle(t events.Type) bool { return t == events.PaneClearRequested }

// Handle executes the clear strategy's key sequence: CLEAR_COMMAND sends
// "/clear" Enter once; ESCAPE_SEQUENCE sends Escape, Enter, Escape, each
// followed by the communication delay.
func (h *ClearHandler) Handle(e events.Event) {
	ev, ok := e.(events.ClearRequested)
	if !ok {
		return
	}

	switch ev.Strategy {
	case events.ClearCommand:
		if _, err := h.Exec.Execute(context.Background(), []string{"send-keys", "-t", ev.PaneID.String(), "/clear", "Enter"}); err != nil {
			log.Printf("⚠️ clear command failed for %s: %v", ev.PaneID, err)
			return
		}
		h.sleep(h.Delay)
	case events.EscapeSequence:
		for _, key := range []string{"Escape", "Enter", "Escape"} {
			if _, err := h.Exec.Execute(context.Background(), []string{"send-keys", "-t", ev.PaneID.String(), key}); err != nil {
				log.Printf("⚠️ escape sequence step %q failed for %s: %v", key, ev.PaneID, err)
				return
			}
			h.sleep(h.Delay)
		}
	}
}

func (h *ClearHandler) sleep(d time.Duration) {
	if h.Sleep != nil {
		h.Sleep(d)
		return
	}
	time.Sleep(d)
}

// TitleHandler updates a pane's tmux title.
type TitleHandler struct {
	Exec tmuxexec.Executor
}

// NewTitleHandler returns a TitleHandler backed by exec.
func NewTitleHandler(exec tmuxexec.Executor) *TitleHandler {
	return &TitleHandler{Exec: exec}
}

// CanHandle reports whether t is PaneTitleChanged.
func (h *TitleHandler) CanHandle(t events.Type) bool { return t == events.PaneTitleChanged }

// Handle executes `select-pane -t <paneId> -T <newTitle>`.
func (h *TitleHandler) Handle(e events.Event) {
	ev, ok := e.(events.TitleChanged)
	if !ok {
		return
	}
	if _, err := h.Exec.Execute(context.Background(), []string{"select-pane", "-t", ev.PaneID.String(), "-T", ev.NewTitle}); err != nil {
		log.Printf("⚠️ title update failed for %s: %v", ev.PaneID, err)
	}
}

// statusPrefix matches a leading "[STATUS]" or "[STATUS MM/DD HH:MM]"
// title prefix, used by CleanTitle.
var statusPrefix = regexp.MustCompile(`^\[(WORKING|IDLE|TERMINATED|DONE|UNKNOWN)(?: \d{2}/\d{2} \d{2}:\d{2})?\]\s*`)

// duplicateWordPrefix matches one whole "word: " prefix candidate, used by
// collapseDuplicateWordPrefix.
var duplicateWordPrefix = regexp.MustCompile(`^\S+:\s*$`)

// collapseDuplicateWordPrefix collapses a repeated leading "word: " prefix,
// e.g. "worker1: worker1: task" becomes "worker1: task". Go's regexp has no
// backreferences, so candidate prefixes are compared directly, longest first.
func collapseDuplicateWordPrefix(s string) string {
	for k := len(s) / 2; k > 0; k-- {
		p := s[:k]
		if duplicateWordPrefix.MatchString(p) && strings.HasPrefix(s[k:], p) {
			return s[k:]
		}
	}
	return s
}

// CleanTitle strips leading status-bracket prefixes and collapses
// duplicated "word:" prefixes until reaching a fixed point, so it is
// idempotent: CleanTitle(CleanTitle(x)) == CleanTitle(x).
func CleanTitle(title string) string {
	title = strings.TrimSpace(title)
	for {
		next := statusPrefix.ReplaceAllString(title, "")
		next = collapseDuplicateWordPrefix(next)
		if next == title {
			return strings.TrimSpace(next)
		}
		title = next
	}
}
