package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paneguard/tmux-monitor/internal/cancel"
	"github.com/paneguard/tmux-monitor/internal/config"
	"github.com/paneguard/tmux-monitor/internal/engine"
	"github.com/paneguard/tmux-monitor/internal/lock"
	"github.com/paneguard/tmux-monitor/internal/version"
)

func main() {
	fs := flag.NewFlagSet("panemonitor", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "show version")
	watch := fs.Bool("watch", false, "run the status dashboard in the foreground (log output still goes to stderr unless --log-file is set)")
	once := fs.Bool("once", false, "run a single discovery+capture pass and exit")
	clearNodePanes := fs.Bool("clear-node-panes", false, "discover panes, clear every Node-tooling pane, and exit")
	session := fs.String("session", "", "tmux session to monitor (default: every session on the server)")
	configPath := fs.String("config", "", "path to config file (auto-detect from XDG_CONFIG_HOME if not specified)")
	logFilePath := fs.String("log-file", "", "log file path (defaults to stderr)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: panemonitor [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  panemonitor --session work --watch   # dashboard scoped to one session")
		fmt.Fprintln(os.Stderr, "  panemonitor --once                   # single discovery pass, no loop")
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return
		}
		os.Exit(1)
	}

	if *showVersion {
		fmt.Printf("panemonitor %s\n", version.Version)
		return
	}

	if err := run(*session, *configPath, *logFilePath, *watch, *once, *clearNodePanes); err != nil {
		fmt.Fprintf(os.Stderr, "❌ panemonitor: %v\n", err)
		os.Exit(1)
	}
}

func run(session, configPath, logFilePath string, watch, once, clearNodePanes bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	for _, v := range config.ValidateConfig(cfg) {
		log.Printf("⚠️ panemonitor: config validation: %v", v)
	}

	if logFilePath != "" {
		if dir := filepath.Dir(logFilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating log directory: %w", err)
			}
		}
		logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer func() { _ = logFile.Close() }()
		log.SetOutput(logFile)
	}
	log.SetFlags(log.LstdFlags)

	token := cancel.NewFromSignals()
	defer token.Stop()
	ctx := token.Context()

	eng := engine.New(cfg)

	if once {
		return eng.RunDiscoveryOnce(ctx, session)
	}

	if clearNodePanes {
		outcomes, err := eng.ClearNodePanes(ctx, session)
		if err != nil {
			return err
		}
		for _, o := range outcomes {
			switch {
			case o.Success:
				log.Printf("🔭 panemonitor: cleared %s", o.PaneID)
			case o.Failed:
				log.Printf("⚠️ panemonitor: clearing %s failed: %s", o.PaneID, o.Reason)
			case o.Skipped:
				log.Printf("panemonitor: skipped %s: %s", o.PaneID, o.Reason)
			}
		}
		return nil
	}

	watchedPath := configPath
	if watchedPath == "" {
		watchedPath = config.ResolveConfigPath()
	}
	eng.WatchConfig(ctx, watchedPath)

	sessionLock, err := lock.NewSessionLock(lockPath(session))
	if err != nil {
		return fmt.Errorf("another panemonitor instance is already watching %q: %w", session, err)
	}
	defer func() { _ = sessionLock.Release() }()

	if watch {
		return eng.RunWithDashboard(ctx, session)
	}
	return eng.Run(ctx, session)
}

// lockPath names a lock file unique to the monitored session, so two
// panemonitor instances never race on the same tmux session's panes.
func lockPath(session string) string {
	name := session
	if name == "" {
		name = "all-sessions"
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("panemonitor-%s.lock", name))
}
