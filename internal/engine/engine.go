// Package engine is the composition root: it owns the dispatcher and
// wires the monitoring service, cycle coordinator, and action handlers
// together before entering the scheduled loop.
package engine

import (
	"context"
	"fmt"
	"log"
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/paneguard/tmux-monitor/internal/cancel"
	"github.com/paneguard/tmux-monitor/internal/config"
	"github.com/paneguard/tmux-monitor/internal/configwatch"
	"github.com/paneguard/tmux-monitor/internal/cycle"
	"github.com/paneguard/tmux-monitor/internal/dispatcher"
	"github.com/paneguard/tmux-monitor/internal/errs"
	"github.com/paneguard/tmux-monitor/internal/handlers"
	"github.com/paneguard/tmux-monitor/internal/monitoring"
	"github.com/paneguard/tmux-monitor/internal/statusmapper"
	"github.com/paneguard/tmux-monitor/internal/tmuxexec"
	"github.com/paneguard/tmux-monitor/internal/tui"
)

// Engine is the running supervisor: discovery, the scheduled cycle, and
// the handlers that turn dispatched events into tmux commands.
type Engine struct {
	cfg        *config.Config
	configPath string
	dispatch   *dispatcher.Dispatcher
	svc        *monitoring.Service
	coord      *cycle.Coordinator
	watcher    *configwatch.Watcher
}

// New wires an Engine from cfg. It always constructs a real
// tmuxexec.TmuxExecutor; tests that need a fake exec use NewWithExecutor.
func New(cfg *config.Config) *Engine {
	return NewWithExecutor(cfg, tmuxexec.New())
}

// NewWithExecutor wires an Engine over an arbitrary tmuxexec.Executor, so
// tests can supply a fake without engine.go importing os/exec anywhere
// itself.
func NewWithExecutor(cfg *config.Config, exec tmuxexec.Executor) *Engine {
	dispatch := dispatcher.New()
	svc := monitoring.New(exec, cfg.CaptureHistoryDepth, cfg.NameList, dispatch)
	coord := cycle.New(svc, dispatch, cfg.ScanInterval(), cfg.LongCycleInterval(), cfg.MaxCycles)

	dispatch.Subscribe(coord)
	dispatch.Subscribe(handlers.NewEnterHandler(exec, cfg.CommunicationDelay()))
	dispatch.Subscribe(handlers.NewClearHandler(exec, cfg.CommunicationDelay()))
	dispatch.Subscribe(handlers.NewTitleHandler(exec))

	statusmapper.SetMarkers(cfg.CompletionMarkers, cfg.ErrorMarkers, cfg.BlockingMarkers)

	return &Engine{cfg: cfg, dispatch: dispatch, svc: svc, coord: coord}
}

// WatchConfig starts a best-effort fsnotify watch on path: on every write or
// rename event it reloads the TOML file and re-applies the marker tables.
// Name lists and cadence require a restart to take effect; only fields
// that are safe to swap mid-run are hot-applied. A watch failure
// (path does not exist, inotify unavailable) is logged and non-fatal —
// the engine keeps running on the config it already loaded.
func (e *Engine) WatchConfig(ctx context.Context, path string) {
	if path == "" {
		return
	}
	w, err := configwatch.New(path, func(cfg *config.Config) {
		statusmapper.SetMarkers(cfg.CompletionMarkers, cfg.ErrorMarkers, cfg.BlockingMarkers)
		log.Printf("🔭 panemonitor: reloaded config from %s", path)
	})
	if err != nil {
		log.Printf("⚠️  panemonitor: config watch disabled: %v", err)
		return
	}
	e.configPath = path
	e.watcher = w
	go w.Run(ctx)
}

// Dispatcher exposes the wired dispatcher so a front-end can subscribe its
// own read-only observer.
func (e *Engine) Dispatcher() *dispatcher.Dispatcher {
	return e.dispatch
}

// Stats returns the current monitoring snapshot, for status reporting.
func (e *Engine) Stats() monitoring.Stats {
	return e.svc.GetMonitoringStats()
}

// DashboardStats adapts Stats to tui.Stats, so Engine satisfies
// tui.Snapshotter.
func (e *Engine) DashboardStats() tui.Stats {
	s := e.svc.GetMonitoringStats()
	return tui.Stats{Total: s.Total, ByStatus: s.ByStatus, ActiveID: s.ActiveID, HasActive: s.HasActive}
}

// Snapshot adapts the pane collection to tui.PaneRow for dashboard
// rendering.
func (e *Engine) Snapshot() []tui.PaneRow {
	panes := e.svc.GetPaneCollection().GetAll()
	sort.Slice(panes, func(i, j int) bool { return panes[i].ID().Numeric() < panes[j].ID().Numeric() })
	rows := make([]tui.PaneRow, 0, len(panes))
	for _, p := range panes {
		role := "-"
		if p.Name() != nil {
			role = p.Name().String()
		}
		rows = append(rows, tui.PaneRow{
			ID:     p.ID().String(),
			Role:   role,
			Status: p.Status().Kind().String(),
			Title:  p.Title(),
			Active: p.IsActive(),
		})
	}
	return rows
}

// start runs initial discovery and begins the scheduled cycle, wrapping
// ctx in a cancel.Token so the coordinator's tick loop drives its delay
// and cancellation checks through one cooperative cancellation source.
func (e *Engine) start(ctx context.Context, sessionName string) error {
	if err := e.svc.StartMonitoring(ctx, sessionName); err != nil {
		return fmt.Errorf("initial pane discovery: %w", err)
	}
	log.Printf("🔭 panemonitor: discovered %d panes in session %q", e.svc.GetPaneCollection().Count(), sessionName)

	if err := e.coord.StartCycle(cancel.New(ctx)); err != nil {
		return fmt.Errorf("starting cycle: %w", err)
	}
	return nil
}

// Run discovers panes in sessionName, starts the scheduled cycle, and
// blocks until ctx is cancelled. sessionName "" scopes discovery to every
// tmux session on the server.
func (e *Engine) Run(ctx context.Context, sessionName string) error {
	if err := e.start(ctx, sessionName); err != nil {
		return err
	}
	<-ctx.Done()
	e.coord.StopCycle()
	log.Printf("🛑 panemonitor: shutting down: %v", &errs.CancellationRequested{Operation: "main run loop"})
	stats := e.svc.GetMonitoringStats()
	log.Printf("🛑 panemonitor: final state: %d panes, by status %v", stats.Total, stats.ByStatus)
	return nil
}

// RunWithDashboard runs the same scheduled cycle as Run but drives the
// bubbletea status dashboard in the foreground instead of blocking on
// ctx.Done() directly; quitting the dashboard (q) or cancelling ctx both
// stop the cycle.
func (e *Engine) RunWithDashboard(ctx context.Context, sessionName string) error {
	if err := e.start(ctx, sessionName); err != nil {
		return err
	}
	defer e.coord.StopCycle()

	feed := tui.NewFeed(e.dispatch)
	program := tea.NewProgram(tui.NewModel(e, feed))

	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	_, err := program.Run()
	return err
}

// ClearNodePanes runs the monitoring service's out-of-cycle Node-tooling
// maintenance sweep after a fresh discovery pass, used by the CLI's
// --clear-node-panes one-shot command.
func (e *Engine) ClearNodePanes(ctx context.Context, sessionName string) ([]monitoring.ClearOutcome, error) {
	if err := e.svc.StartMonitoring(ctx, sessionName); err != nil {
		return nil, fmt.Errorf("pane discovery: %w", err)
	}
	return e.svc.ClearNodePanes(ctx), nil
}

// RunDiscoveryOnce runs a single discovery+classify pass without starting
// the scheduled loop, used by the CLI's --once flag.
func (e *Engine) RunDiscoveryOnce(ctx context.Context, sessionName string) error {
	if err := e.svc.StartMonitoring(ctx, sessionName); err != nil {
		return fmt.Errorf("pane discovery: %w", err)
	}
	if _, err := e.svc.ProcessAllPanesCapture(ctx); err != nil {
		return fmt.Errorf("capture pass: %w", err)
	}
	return nil
}
