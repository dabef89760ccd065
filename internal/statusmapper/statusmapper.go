// Package statusmapper implements the two-layer activity-to-status mapping:
// an objective capture diff first, then contextual marker scanning over the
// captured text to refine it into a business status.
package statusmapper

import (
	"regexp"
	"strings"
	"sync"

	"github.com/paneguard/tmux-monitor/internal/status"
)

// Activity is the objective diff outcome between successive captures.
type Activity int

const (
	NotEvaluated Activity = iota
	Idle
	Working
)

// String renders the activity kind, used in PaneCaptureStateUpdated events.
func (a Activity) String() string {
	switch a {
	case NotEvaluated:
		return "NOT_EVALUATED"
	case Idle:
		return "IDLE"
	case Working:
		return "WORKING"
	default:
		return "NOT_EVALUATED"
	}
}

// Context carries the marker flags and matched marker strings derived from
// a capture's content. BuildContext does not read the pane's title or
// command and leaves Details empty.
type Context struct {
	HasCompletionMarker bool
	CompletionMarker    string
	HasErrorMarker      bool
	ErrorMarker         string
	IsBlocked           bool
	BlockingMarker      string
	Details             string
}

// completionMarkers, errorMarkers, and blockingMarkers are bilingual
// (English + Japanese) keyword classes; they are plain data so operators
// can extend them without touching scanning logic. The defaults seed the
// tables before the config's marker lists are loaded; SetMarkers overrides
// them, and the config watcher calls it again on every hot reload.
var (
	markersMu sync.RWMutex

	completionMarkers = []string{
		"completed", "finished", "done", "success", "✓", "✔", "完了", "成功",
	}
	errorMarkers = []string{
		"error", "failed", "exception", "✗", "✖", "エラー", "失敗",
	}
	blockingMarkers = []string{
		"waiting", "pending", "blocked", "paused", "待機", "保留",
	}
)

// SetMarkers replaces the three marker tables wholesale. A nil or empty
// slice leaves that class untouched, so config files only need to
// override the classes they customize.
func SetMarkers(completion, errs, blocking []string) {
	markersMu.Lock()
	defer markersMu.Unlock()
	if len(completion) > 0 {
		completionMarkers = completion
	}
	if len(errs) > 0 {
		errorMarkers = errs
	}
	if len(blocking) > 0 {
		blockingMarkers = blocking
	}
}

// BuildContext scans content for the three marker classes and records the
// first match of each class found.
func BuildContext(content string) Context {
	lower := strings.ToLower(content)
	ctx := Context{}

	markersMu.RLock()
	defer markersMu.RUnlock()

	if m, ok := firstMatch(lower, completionMarkers); ok {
		ctx.HasCompletionMarker = true
		ctx.CompletionMarker = m
	}
	if m, ok := firstMatch(lower, errorMarkers); ok {
		ctx.HasErrorMarker = true
		ctx.ErrorMarker = m
	}
	if m, ok := firstMatch(lower, blockingMarkers); ok {
		ctx.IsBlocked = true
		ctx.BlockingMarker = m
	}
	return ctx
}

func firstMatch(lowerContent string, markers []string) (string, bool) {
	for _, m := range markers {
		if strings.Contains(lowerContent, strings.ToLower(m)) {
			return m, true
		}
	}
	return "", false
}

// Map combines the activity diff with the marker context, in priority
// order, to produce a WorkerStatus.
func Map(activity Activity, ctx Context) status.WorkerStatus {
	switch activity {
	case NotEvaluated:
		return status.NewUnknown("initial or indeterminate")
	case Idle:
		if ctx.HasCompletionMarker {
			return status.NewDone(ctx.CompletionMarker)
		}
		if ctx.HasErrorMarker {
			return status.NewTerminated(ctx.ErrorMarker)
		}
		return status.NewIdle()
	case Working:
		if ctx.IsBlocked {
			return status.NewBlocked(ctx.BlockingMarker)
		}
		return status.NewWorking(ctx.Details)
	default:
		return status.NewUnknown("initial or indeterminate")
	}
}

// selfAuthoredTitle matches the bracketed status prefix UPDATE_PANE_TITLES
// writes onto a pane's own title ("[%s] %s" in cycle.go's UpdatePaneTitles
// action). FromTitle must not treat that self-authored word as an external
// status hint: once a pane reached IDLE and UPDATE_PANE_TITLES stamped
// "[IDLE] worker1" onto it, every later capture's FromTitle("[IDLE]
// worker1") would otherwise match "IDLE" again and permanently short-circuit
// the real activity-based Map call, freezing the pane's status forever.
var selfAuthoredTitle = regexp.MustCompile(`^\[(UNKNOWN|IDLE|WORKING|BLOCKED|DONE|TERMINATED)\]\s`)

// FromTitle short-circuits the mapping by detecting an explicit status
// keyword inside the pane title. Returns false if no recognized
// keyword is present, or if the title is one this engine already wrote via
// UPDATE_PANE_TITLES (see selfAuthoredTitle).
func FromTitle(title string) (status.WorkerStatus, bool) {
	if selfAuthoredTitle.MatchString(title) {
		return status.WorkerStatus{}, false
	}
	upper := strings.ToUpper(title)
	for _, word := range strings.FieldsFunc(upper, func(r rune) bool {
		return !('A' <= r && r <= 'Z')
	}) {
		if kind, ok := status.ParseKind(word); ok {
			return fromKind(kind), true
		}
	}
	return status.WorkerStatus{}, false
}

func fromKind(kind status.Kind) status.WorkerStatus {
	switch kind {
	case status.Idle:
		return status.NewIdle()
	case status.Working:
		return status.NewWorking("")
	case status.Blocked:
		return status.NewBlocked("")
	case status.Done:
		return status.NewDone("")
	case status.Terminated:
		return status.NewTerminated("")
	default:
		return status.NewUnknown("initial or indeterminate")
	}
}

// DiffActivity computes the objective diff between successive captures:
// NotEvaluated iff previous is absent; otherwise Working iff the content
// differs.
func DiffActivity(previous *string, current string) Activity {
	if previous == nil {
		return NotEvaluated
	}
	if *previous != current {
		return Working
	}
	return Idle
}
