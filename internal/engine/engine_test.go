package engine

import (
	"context"
	"testing"
	"time"

	"github.com/paneguard/tmux-monitor/internal/config"
	"github.com/paneguard/tmux-monitor/internal/tmuxexec"
)

func testConfig() *config.Config {
	return &config.Config{
		ScanIntervalSeconds:      0,
		LongCycleIntervalSeconds: 0,
		MaxCycles:                1,
		CommunicationDelayMillis: 0,
		CaptureHistoryDepth:      10,
		NameList:                 []string{"main", "worker1"},
	}
}

func TestRun_DiscoversAndStopsOnCancel(t *testing.T) {
	fake := tmuxexec.NewFake()
	fake.Responses["list-panes -a -F #{pane_id}\t#{pane_active}\t#{pane_current_command}\t#{pane_title}"] = tmuxexec.FakeResponse{
		Result: tmuxexec.Result{Stdout: "%1\t1\tbash\tmain\n%2\t0\tbash\tworker\n"},
	}
	fake.Responses["capture-pane -t %2 -p"] = tmuxexec.FakeResponse{Result: tmuxexec.Result{Stdout: "x"}}

	eng := NewWithExecutor(testConfig(), fake)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := eng.Run(ctx, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stats := eng.Stats()
	if stats.Total != 2 {
		t.Fatalf("expected 2 discovered panes, got %d", stats.Total)
	}
}

func TestRunDiscoveryOnce_DoesNotStartScheduledLoop(t *testing.T) {
	fake := tmuxexec.NewFake()
	fake.Responses["list-panes -a -F #{pane_id}\t#{pane_active}\t#{pane_current_command}\t#{pane_title}"] = tmuxexec.FakeResponse{
		Result: tmuxexec.Result{Stdout: "%1\t1\tbash\tmain\n"},
	}

	eng := NewWithExecutor(testConfig(), fake)
	if err := eng.RunDiscoveryOnce(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.Stats().Total != 1 {
		t.Fatalf("expected 1 discovered pane, got %d", eng.Stats().Total)
	}
}
