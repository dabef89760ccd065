package config

import "testing"

func TestDefault_DecodesEmbeddedConfig(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ScanIntervalSeconds <= 0 {
		t.Fatalf("expected positive scan interval, got %v", cfg.ScanIntervalSeconds)
	}
	if len(cfg.NameList) == 0 {
		t.Fatal("expected a non-empty default name list")
	}
	if cfg.CaptureHistoryDepth < 2 {
		t.Fatalf("expected capture history depth >= 2, got %d", cfg.CaptureHistoryDepth)
	}
}

func TestLoad_FallsBackToDefaultWhenNoPathResolves(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxCycles <= 0 {
		t.Fatalf("expected default max cycles, got %d", cfg.MaxCycles)
	}
}

func TestLoad_ErrorsOnMissingExplicitPath(t *testing.T) {
	if _, err := Load("/nonexistent/panemonitor.toml"); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestScanInterval_ConvertsSecondsToDuration(t *testing.T) {
	cfg := &Config{ScanIntervalSeconds: 2.5}
	if got := cfg.ScanInterval(); got.Seconds() != 2.5 {
		t.Fatalf("expected 2.5s, got %v", got)
	}
}

func TestCommunicationDelay_ConvertsMillisToDuration(t *testing.T) {
	cfg := &Config{CommunicationDelayMillis: 200}
	if got := cfg.CommunicationDelay().Milliseconds(); got != 200 {
		t.Fatalf("expected 200ms, got %dms", got)
	}
}
