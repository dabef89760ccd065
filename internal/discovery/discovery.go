// Package discovery asks tmux for every pane's identity/active/command/
// title row and for per-pane detail, feeding the monitoring service's
// collection rebuild.
package discovery

import (
	"context"
	"strconv"
	"strings"

	"github.com/paneguard/tmux-monitor/internal/errs"
	"github.com/paneguard/tmux-monitor/internal/tmuxexec"
)

// fieldSeparator must not collide with any field's natural content (tmux
// titles/commands can contain spaces), so rows are tab-separated.
const fieldSeparator = "\t"

// listPanesFormat requests the fields a Row carries, in order.
const listPanesFormat = "#{pane_id}" + fieldSeparator + "#{pane_active}" + fieldSeparator +
	"#{pane_current_command}" + fieldSeparator + "#{pane_title}"

// Row is one discovered pane's raw fields, before they are validated into a
// pane.Pane by the monitoring service's fromTmuxData.
type Row struct {
	PaneID  string
	Active  bool
	Command string
	Title   string
}

// Discoverer asks tmux for the current pane rows.
type Discoverer struct {
	exec tmuxexec.Executor
	// TargetSession, when non-empty, restricts discovery to one session's
	// panes; empty means every session (tmux list-panes -a).
	TargetSession string
}

// New returns a Discoverer backed by exec, scanning every session.
func New(exec tmuxexec.Executor) *Discoverer {
	return &Discoverer{exec: exec}
}

// Discover runs `tmux list-panes [-a | -t session] -F <format>` and parses
// each line into a Row. Malformed lines are skipped rather than failing
// the whole scan.
func (d *Discoverer) Discover(ctx context.Context) ([]Row, error) {
	argv := []string{"list-panes"}
	if d.TargetSession != "" {
		argv = append(argv, "-t", d.TargetSession)
	} else {
		argv = append(argv, "-a")
	}
	argv = append(argv, "-F", listPanesFormat)

	res, err := d.exec.Execute(ctx, argv)
	if err != nil {
		return nil, &errs.RepositoryError{Operation: "Discover", Details: err.Error()}
	}

	return parseRows(res.Stdout), nil
}

func parseRows(stdout string) []Row {
	var rows []Row
	for _, line := range strings.Split(strings.TrimRight(stdout, "\n"), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, fieldSeparator, 4)
		if len(parts) != 4 {
			continue
		}

		active, err := strconv.ParseBool(parts[1])
		if err != nil {
			continue
		}

		rows = append(rows, Row{
			PaneID:  parts[0],
			Active:  active,
			Command: parts[2],
			Title:   parts[3],
		})
	}
	return rows
}

// detailFormat is the multi-line key/value template for the per-pane detail
// query, parsed back by "<key>: <value>" line matching.
const detailFormat = "pane_id: #{pane_id}\n" +
	"current_command: #{pane_current_command}\n" +
	"title: #{pane_title}\n" +
	"session_name: #{session_name}\n" +
	"window_index: #{window_index}\n" +
	"window_name: #{window_name}\n" +
	"pane_index: #{pane_index}\n" +
	"tty: #{pane_tty}\n" +
	"pid: #{pane_pid}\n" +
	"current_path: #{pane_current_path}\n" +
	"zoomed: #{window_zoomed_flag}\n" +
	"width: #{pane_width}\n" +
	"height: #{pane_height}\n" +
	"start_command: #{pane_start_command}"

// DescribePane runs `tmux display -p -t <id> -F <template>` and parses the
// resulting "<key>: <value>" lines into a map. Lines that don't match the
// key/value shape are skipped.
func (d *Discoverer) DescribePane(ctx context.Context, paneID string) (map[string]string, error) {
	res, err := d.exec.Execute(ctx, []string{"display", "-p", "-t", paneID, "-F", detailFormat})
	if err != nil {
		return nil, &errs.RepositoryError{Operation: "DescribePane", Details: err.Error()}
	}

	details := make(map[string]string)
	for _, line := range strings.Split(strings.TrimRight(res.Stdout, "\n"), "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		details[key] = value
	}
	return details, nil
}
