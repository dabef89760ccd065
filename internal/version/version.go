package version

// Version is the current version of panemonitor.
// Set via ldflags during build: -X github.com/paneguard/tmux-monitor/internal/version.Version=x.y.z
var Version = "dev"

// Commit is the git commit hash.
// Set via ldflags during build: -X github.com/paneguard/tmux-monitor/internal/version.Commit=abc123
var Commit = "unknown"
