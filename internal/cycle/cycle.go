// Package cycle implements the cycle coordinator: per-cycle action plans
// selected by cycle number, sequential action execution with accumulated
// counters, and the automatic WORKING to IDLE reactive Enter. The
// suspension between ticks goes through a cancel.Token's cancellable Delay
// rather than a bare time.Ticker, so a cancelled run wakes the sleeping
// tick immediately instead of waiting out the full interval.
package cycle

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/paneguard/tmux-monitor/internal/cancel"
	"github.com/paneguard/tmux-monitor/internal/clock"
	"github.com/paneguard/tmux-monitor/internal/dispatcher"
	"github.com/paneguard/tmux-monitor/internal/errs"
	"github.com/paneguard/tmux-monitor/internal/events"
	"github.com/paneguard/tmux-monitor/internal/handlers"
	"github.com/paneguard/tmux-monitor/internal/monitoring"
	"github.com/paneguard/tmux-monitor/internal/status"
)

// Action identifies one step of a cycle plan.
type Action int

const (
	CapturePaneStates Action = iota
	SendRegularEnters
	ClearIdlePanes
	UpdatePaneTitles
	ReportStatusChanges
	ValidateInvariants
)

func (a Action) String() string {
	switch a {
	case CapturePaneStates:
		return "CAPTURE_PANE_STATES"
	case SendRegularEnters:
		return "SEND_REGULAR_ENTERS"
	case ClearIdlePanes:
		return "CLEAR_IDLE_PANES"
	case UpdatePaneTitles:
		return "UPDATE_PANE_TITLES"
	case ReportStatusChanges:
		return "REPORT_STATUS_CHANGES"
	case ValidateInvariants:
		return "VALIDATE_INVARIANTS"
	default:
		return "UNKNOWN_ACTION"
	}
}

// Plan is one cycle's immutable action list.
type Plan struct {
	CycleNumber       int
	ScheduledActions  []Action
	EstimatedDuration time.Duration
}

// Result is a cycle's accumulated counters.
type Result struct {
	ExecutedActions []Action
	TotalProcessed  int
	StatusChanges   int
	EntersSent      int
	ClearsExecuted  int
	Errors          int
	Duration        time.Duration
	NextCycleDelay  time.Duration
}

// earlyCycleThreshold is how many initial cycles run on the short delay;
// afterward the configured long-cycle delay applies.
const earlyCycleThreshold = 5

// debugTrace gates verbose per-cycle tracing on LOG_LEVEL=DEBUG.
var debugTrace = os.Getenv("LOG_LEVEL") == "DEBUG"

// Coordinator drives the scheduled monitoring cycle.
type Coordinator struct {
	mu          sync.Mutex
	cycleNumber int
	isRunning   bool
	stop        context.CancelFunc
	svc         *monitoring.Service
	dispatch    dispatcher.Bus
	clk         clock.Clock
	earlyDelay  time.Duration
	longDelay   time.Duration
	maxCycles   int
}

// New wires a Coordinator over svc and dispatch. earlyDelay is used for
// the first five cycles, longDelay afterward; maxCycles caps the total
// cycle count.
func New(svc *monitoring.Service, dispatch dispatcher.Bus, earlyDelay, longDelay time.Duration, maxCycles int) *Coordinator {
	return &Coordinator{
		svc:        svc,
		dispatch:   dispatch,
		clk:        clock.RealClock{},
		earlyDelay: earlyDelay,
		longDelay:  longDelay,
		maxCycles:  maxCycles,
	}
}

// CanHandle reports interest in PaneStatusChanged, so the coordinator can
// be subscribed directly to the dispatcher for its WORKING to IDLE
// reactive Enter.
func (c *Coordinator) CanHandle(t events.Type) bool {
	return t == events.PaneStatusChanged
}

// Handle reacts to PaneStatusChanged by dispatching an
// INPUT_COMPLETION-reason Enter request whenever a pane transitions
// WORKING → IDLE.
func (c *Coordinator) Handle(e events.Event) {
	sc, ok := e.(events.StatusChanged)
	if !ok {
		return
	}
	if sc.OldStatus.Kind() == status.Working && sc.NewStatus.Kind() == status.Idle {
		c.dispatch.Dispatch(events.NewEnterSendRequested(sc.PaneID, events.InputCompletion))
	}
}

// StartCycle begins the scheduled loop: it fails if already running,
// dispatches the initial MonitoringCycleStarted, and schedules the first
// tick. token drives both the cancellable sleep between ticks and the
// per-tick cancellation check; StopCycle also cancels the derived context
// so a sleeping tick wakes immediately even if token itself is never
// cancelled.
func (c *Coordinator) StartCycle(token *cancel.Token) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return &errs.BusinessRuleViolation{Rule: "SingleCycleExecution", Context: "cycle already running"}
	}
	childCtx, stop := context.WithCancel(token.Context())
	c.isRunning = true
	c.stop = stop
	c.mu.Unlock()

	localToken := cancel.New(childCtx)
	c.dispatch.Dispatch(events.NewCycleStarted(0, []string{CapturePaneStates.String(), ValidateInvariants.String()}))
	c.scheduleNext(localToken, 0)
	return nil
}

// StopCycle cancels the coordinator's derived context and marks it idle,
// waking any goroutine currently suspended in a tick's cancellable delay.
func (c *Coordinator) StopCycle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isRunning = false
	if c.stop != nil {
		c.stop()
	}
}

func (c *Coordinator) scheduleNext(token *cancel.Token, delay time.Duration) {
	c.mu.Lock()
	running := c.isRunning
	c.mu.Unlock()
	if !running {
		return
	}
	go func() {
		if cancelled := token.Delay(delay); cancelled {
			c.StopCycle()
			return
		}
		c.tick(token)
	}()
}

// tick runs one cycle then, if still running and under the cycle cap,
// schedules the next one using the cycle's own NextCycleDelay. This closes
// over the coordinator and token directly rather than re-dispatching
// through a detached channel, so the timer callback always reaches the
// coordinator with the current collection.
func (c *Coordinator) tick(token *cancel.Token) {
	if token.IsCancelled() {
		log.Printf("🔭 panemonitor: %v", &errs.CancellationRequested{Operation: "scheduled cycle tick"})
		c.StopCycle()
		return
	}

	result, err := c.ExecuteSingleCycle(token.Context())
	if err != nil {
		log.Printf("🚨 cycle execution failed: %v", err)
		c.StopCycle()
		return
	}

	c.mu.Lock()
	running := c.isRunning
	atCap := c.maxCycles > 0 && c.cycleNumber >= c.maxCycles
	c.mu.Unlock()
	if !running || atCap {
		c.StopCycle()
		return
	}

	c.scheduleNext(token, result.NextCycleDelay)
}

// ExecuteSingleCycle runs exactly one cycle's plan against the monitoring
// service's current collection.
func (c *Coordinator) ExecuteSingleCycle(ctx context.Context) (Result, error) {
	c.mu.Lock()
	c.cycleNumber++
	cycleNumber := c.cycleNumber
	c.mu.Unlock()

	start := c.clk.Now()
	plan := buildPlan(cycleNumber)

	actionNames := make([]string, len(plan.ScheduledActions))
	for i, a := range plan.ScheduledActions {
		actionNames[i] = a.String()
	}
	if debugTrace {
		log.Printf("🔭 cycle %d plan: %v", cycleNumber, actionNames)
	}
	c.dispatch.Dispatch(events.NewCycleStarted(cycleNumber, actionNames))

	result := Result{}
	for _, action := range plan.ScheduledActions {
		c.executeAction(ctx, action, &result)
		result.ExecutedActions = append(result.ExecutedActions, action)
	}

	result.Duration = c.clk.Now().Sub(start)
	result.NextCycleDelay = c.nextDelay(cycleNumber)

	if debugTrace {
		log.Printf("🔭 cycle %d result: processed=%d changed=%d enters=%d clears=%d errors=%d in %v",
			cycleNumber, result.TotalProcessed, result.StatusChanges, result.EntersSent, result.ClearsExecuted, result.Errors, result.Duration)
	}

	c.dispatch.Dispatch(events.NewCycleCompleted(cycleNumber, result.TotalProcessed, result.StatusChanges, result.EntersSent, result.ClearsExecuted, result.Duration))

	return result, nil
}

func (c *Coordinator) nextDelay(cycleNumber int) time.Duration {
	if cycleNumber <= earlyCycleThreshold {
		return c.earlyDelay
	}
	return c.longDelay
}

// buildPlan selects actions by cycle-number modulo rules.
func buildPlan(cycleNumber int) Plan {
	actions := []Action{CapturePaneStates}
	if cycleNumber%2 == 0 {
		actions = append(actions, SendRegularEnters)
	}
	if cycleNumber%3 == 0 {
		actions = append(actions, ClearIdlePanes)
	}
	if cycleNumber%5 == 0 {
		actions = append(actions, UpdatePaneTitles)
	}
	actions = append(actions, ReportStatusChanges, ValidateInvariants)
	return Plan{CycleNumber: cycleNumber, ScheduledActions: actions}
}

func (c *Coordinator) executeAction(ctx context.Context, action Action, result *Result) {
	switch action {
	case CapturePaneStates:
		pr, err := c.svc.ProcessAllPanesCapture(ctx)
		if err != nil {
			result.Errors++
			return
		}
		result.TotalProcessed += pr.ProcessedPanes
		result.StatusChanges += len(pr.ChangedPanes)

	case SendRegularEnters:
		for _, p := range c.svc.GetPaneCollection().GetAll() {
			if p.IsActive() {
				continue
			}
			c.dispatch.Dispatch(events.NewEnterSendRequested(p.ID(), events.RegularCycle))
			result.EntersSent++
		}

	case ClearIdlePanes:
		for _, p := range c.svc.GetPaneCollection().GetAll() {
			if !p.ShouldBeClearedWhenIdle() {
				continue
			}
			reason := events.IdleState
			if p.IsDone() {
				reason = events.DoneState
			}
			c.dispatch.Dispatch(events.NewClearRequested(p.ID(), reason, events.ClearCommand))
			result.ClearsExecuted++
		}

	case UpdatePaneTitles:
		for _, p := range c.svc.GetPaneCollection().GetAll() {
			baseName := handlers.CleanTitle(p.Title())
			if p.Name() != nil {
				baseName = p.Name().String()
			}
			candidate := fmt.Sprintf("[%s] %s", p.Status().Kind().String(), baseName)
			if candidate == p.Title() {
				continue
			}
			old := p.Title()
			p.UpdateTitle(candidate)
			c.dispatch.Dispatch(events.NewTitleChanged(p.ID(), old, candidate))
		}

	case ReportStatusChanges:
		// No-op accounting: CAPTURE_PANE_STATES already emitted
		// PaneStatusChanged for every change this cycle.

	case ValidateInvariants:
		c.validateInvariants(result)
	}
}

func (c *Coordinator) validateInvariants(result *Result) {
	coll := c.svc.GetPaneCollection()
	activeCount := 0
	for _, p := range coll.GetAll() {
		if p.IsActive() {
			activeCount++
		}
		if !p.HistoryWithinLimit() {
			log.Printf("⚠️ pane %s exceeded history bound", p.ID())
			result.Errors++
		}
	}
	if activeCount > 1 {
		log.Printf("⚠️ invariant violated: %d active panes observed", activeCount)
		result.Errors++
	}
}
