// Package monitoring implements the monitoring service: pane discovery,
// role naming, and the per-cycle capture-and-classify pass. It is the sole
// owner of the pane collection; the cycle coordinator borrows it.
package monitoring

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/paneguard/tmux-monitor/internal/capture"
	"github.com/paneguard/tmux-monitor/internal/capturehistory"
	"github.com/paneguard/tmux-monitor/internal/discovery"
	"github.com/paneguard/tmux-monitor/internal/dispatcher"
	"github.com/paneguard/tmux-monitor/internal/events"
	"github.com/paneguard/tmux-monitor/internal/inputfield"
	"github.com/paneguard/tmux-monitor/internal/pane"
	"github.com/paneguard/tmux-monitor/internal/panecollection"
	"github.com/paneguard/tmux-monitor/internal/panename"
	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/status"
	"github.com/paneguard/tmux-monitor/internal/statusmapper"
	"github.com/paneguard/tmux-monitor/internal/tmuxexec"
)

// Stats summarizes the collection for reporting.
type Stats struct {
	Total     int
	ByStatus  map[string]int
	ActiveID  string
	HasActive bool
}

// ProcessResult is processAllPanesCapture's return value.
type ProcessResult struct {
	ProcessedPanes int
	ChangedPanes   []paneid.PaneId
}

// ClearOutcome is one pane's outcome from ClearNodePanes.
type ClearOutcome struct {
	PaneID   paneid.PaneId
	Success  bool
	Failed   bool
	Skipped  bool
	Reason   string
	Duration time.Duration
}

// nodeToolingCommands classifies a pane's current command as Node-tooling
// for the out-of-cycle ClearNodePanes maintenance sweep.
var nodeToolingCommands = []string{"node", "npm", "npx", "yarn", "pnpm"}

// Service orchestrates discovery, naming, and per-cycle classification.
type Service struct {
	exec       tmuxexec.Executor
	discoverer *discovery.Discoverer
	captures   *capture.Adapter
	history    *capturehistory.History
	collection *panecollection.Collection
	dispatch   dispatcher.Bus
	nameList   []string
}

// New wires a Service from its collaborators. dispatch may be nil (or a
// dispatcher.Null) if the caller doesn't need capture-driven events
// published (tests).
func New(exec tmuxexec.Executor, historyDepth int, nameList []string, dispatch dispatcher.Bus) *Service {
	return &Service{
		exec:       exec,
		discoverer: discovery.New(exec),
		captures:   capture.New(exec),
		history:    capturehistory.New(historyDepth),
		collection: panecollection.New(),
		dispatch:   dispatch,
		nameList:   nameList,
	}
}

// GetPaneCollection returns the owned collection.
func (s *Service) GetPaneCollection() *panecollection.Collection {
	return s.collection
}

// GetActivePane returns the session's active pane, or nil.
func (s *Service) GetActivePane() *pane.Pane {
	return s.collection.GetActive()
}

// GetMonitoringStats summarizes the collection by status kind and
// activeness.
func (s *Service) GetMonitoringStats() Stats {
	byStatus := make(map[string]int)
	for _, p := range s.collection.GetAll() {
		byStatus[p.Status().Kind().String()]++
	}
	stats := Stats{Total: s.collection.Count(), ByStatus: byStatus}
	if active := s.collection.GetActive(); active != nil {
		stats.ActiveID = active.ID().String()
		stats.HasActive = true
	}
	return stats
}

// fromTmuxData validates a discovery Row into a fresh Pane, coercing blank
// command/title to "unknown"/"untitled".
func fromTmuxData(row discovery.Row, now time.Time) (*pane.Pane, error) {
	id, err := paneid.New(row.PaneID)
	if err != nil {
		return nil, err
	}
	command := row.Command
	if command == "" {
		command = "unknown"
	}
	title := row.Title
	if title == "" {
		title = "untitled"
	}
	return pane.New(id, row.Active, command, title, now)
}

// StartMonitoring runs discovery, wipes and rebuilds the collection, then
// assigns roles. sessionName, if non-empty, scopes discovery to one tmux
// session.
func (s *Service) StartMonitoring(ctx context.Context, sessionName string) error {
	s.discoverer.TargetSession = sessionName

	rows, err := s.discoverer.Discover(ctx)
	if err != nil {
		return err
	}

	fresh := panecollection.New()
	now := time.Now()
	var built []*pane.Pane
	for _, row := range rows {
		p, err := fromTmuxData(row, now)
		if err != nil {
			continue
		}
		if err := fresh.Add(p); err != nil {
			continue
		}
		built = append(built, p)
	}
	s.collection = fresh

	s.assignRoles(built)
	return nil
}

// assignRoles assigns `main` to the active pane and sequentially assigns
// the rest from the configured name list, falling back to worker<N> once
// the list is exhausted. Panes are sorted by numeric id
// ascending first so results are deterministic.
func (s *Service) assignRoles(panes []*pane.Pane) {
	sort.Slice(panes, func(i, j int) bool {
		return panes[i].ID().Numeric() < panes[j].ID().Numeric()
	})

	var rest []*pane.Pane
	for _, p := range panes {
		if p.IsActive() {
			if n, err := panename.New("main"); err == nil {
				_ = p.AssignName(n)
			}
			continue
		}
		rest = append(rest, p)
	}

	remaining := s.nameList
	if len(remaining) > 0 && remaining[0] == "main" {
		remaining = remaining[1:]
	}

	workerCounter := highestWorkerOrdinal(remaining)
	for _, p := range rest {
		var candidate string
		if len(remaining) > 0 {
			candidate, remaining = remaining[0], remaining[1:]
		} else {
			workerCounter++
			candidate = fmt.Sprintf("worker%d", workerCounter)
		}

		n, err := panename.New(candidate)
		if err != nil {
			continue
		}
		_ = p.AssignName(n)
	}
}

// highestWorkerOrdinal scans a name list for "workerN" entries and returns
// the largest N found, so fallback worker<N> assignment continues the
// counter rather than restarting it.
func highestWorkerOrdinal(names []string) int {
	max := 0
	for _, n := range names {
		if !strings.HasPrefix(n, "worker") {
			continue
		}
		if v, err := strconv.Atoi(strings.TrimPrefix(n, "worker")); err == nil && v > max {
			max = v
		}
	}
	return max
}

// ProcessAllPanesCapture captures every monitoring target, diffs against
// its previous capture, maps to a status, and applies changed statuses. It
// emits PaneStatusChanged for every status mutation.
func (s *Service) ProcessAllPanesCapture(ctx context.Context) (ProcessResult, error) {
	result := ProcessResult{}

	targets := s.collection.GetTargets()
	ids := make([]paneid.PaneId, 0, len(targets))
	for _, p := range targets {
		ids = append(ids, p.ID())
	}
	captured, err := s.captures.CaptureMany(ctx, ids, capture.Options{})
	if err != nil {
		log.Printf("⚠️ capture pass completed with failures: %v", err)
	}

	for _, p := range targets {
		result.ProcessedPanes++

		current, ok := captured[p.ID().String()]
		if !ok {
			continue
		}

		prev, hasPrev := s.history.Previous(p.ID().String())
		var prevContent *string
		if hasPrev {
			c := prev.Content
			prevContent = &c
		}
		s.history.Append(p.ID().String(), current)

		activity := statusmapper.DiffActivity(prevContent, current.Content)

		if title, ok := statusmapper.FromTitle(p.Title()); ok {
			s.applyStatus(p, title, &result)
		} else {
			ctxFlags := statusmapper.BuildContext(current.Content)
			next := statusmapper.Map(activity, ctxFlags)
			s.applyStatus(p, next, &result)
		}

		inputStatus, err := inputfield.Scan(current.Lines)
		if err != nil {
			inputStatus = inputfield.Status{Kind: inputfield.ParseError, Reason: err.Error()}
		}
		if s.dispatch != nil {
			s.dispatch.Dispatch(events.NewCaptureStateUpdated(p.ID(), activity.String(), inputStatus.Kind.String(), p.CanAssignTask()))
		}
	}

	return result, nil
}

// applyStatus attempts the transition and, if it both succeeds and changes
// the status kind, records the change and publishes PaneStatusChanged.
func (s *Service) applyStatus(p *pane.Pane, next status.WorkerStatus, result *ProcessResult) {
	old := p.Status()
	if old.Kind() == next.Kind() {
		return
	}
	if err := p.UpdateStatus(next); err != nil {
		return
	}
	result.ChangedPanes = append(result.ChangedPanes, p.ID())
	if s.dispatch != nil {
		s.dispatch.Dispatch(events.NewStatusChanged(p.ID(), old, next))
	}
}

// ClearNodePanes is out-of-cycle maintenance: it clears every pane whose
// current command is classified as Node tooling, independent of the
// regular cycle's worker-role-gated CLEAR_IDLE_PANES action. The pane's
// foreground command may have changed since discovery, so each pane is
// re-queried through the per-pane detail surface first; a failed query
// falls back to the command recorded at discovery.
func (s *Service) ClearNodePanes(ctx context.Context) []ClearOutcome {
	var outcomes []ClearOutcome
	for _, p := range s.collection.GetAll() {
		start := time.Now()
		if details, err := s.discoverer.DescribePane(ctx, p.ID().String()); err == nil {
			if cmd := details["current_command"]; cmd != "" {
				p.UpdateCommand(cmd)
			}
		}
		if !isNodeTooling(p.CurrentCommand()) {
			outcomes = append(outcomes, ClearOutcome{PaneID: p.ID(), Skipped: true, Reason: "not node tooling", Duration: time.Since(start)})
			continue
		}
		if p.IsActive() {
			outcomes = append(outcomes, ClearOutcome{PaneID: p.ID(), Skipped: true, Reason: "pane is active", Duration: time.Since(start)})
			continue
		}

		_, err := s.exec.Execute(ctx, []string{"send-keys", "-t", p.ID().String(), "/clear", "Enter"})
		if err != nil {
			outcomes = append(outcomes, ClearOutcome{PaneID: p.ID(), Failed: true, Reason: err.Error(), Duration: time.Since(start)})
			continue
		}
		outcomes = append(outcomes, ClearOutcome{PaneID: p.ID(), Success: true, Duration: time.Since(start)})
	}
	return outcomes
}

func isNodeTooling(command string) bool {
	lower := strings.ToLower(command)
	for _, c := range nodeToolingCommands {
		if lower == c {
			return true
		}
	}
	return false
}
