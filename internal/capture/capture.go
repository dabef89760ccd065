// Package capture implements the capture adapter: asking the tmux executor
// for a pane's visible buffer, one pane at a time or fanned out.
package capture

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paneguard/tmux-monitor/internal/errs"
	"github.com/paneguard/tmux-monitor/internal/paneid"
	"github.com/paneguard/tmux-monitor/internal/tmuxexec"
)

// Result is an immutable snapshot of one pane's visible buffer.
type Result struct {
	PaneID    paneid.PaneId
	Content   string
	Lines     []string
	Timestamp time.Time
	LineCount int
}

// Options controls the capture-pane invocation.
type Options struct {
	StartLine *int
	EndLine   *int
	Join      bool
	Escape    bool
}

// Adapter captures one or many panes through a tmuxexec.Executor.
type Adapter struct {
	exec tmuxexec.Executor
}

// New returns an Adapter backed by exec.
func New(exec tmuxexec.Executor) *Adapter {
	return &Adapter{exec: exec}
}

// Capture builds `tmux capture-pane -t <id> -p [-S n] [-E n] [-J] [-e]` and
// parses stdout into a Result.
func (a *Adapter) Capture(ctx context.Context, id paneid.PaneId, opts Options) (Result, error) {
	if id.IsZero() {
		return Result{}, &errs.EmptyInput{Field: "paneId"}
	}

	argv := []string{"capture-pane", "-t", id.String(), "-p"}
	if opts.StartLine != nil {
		argv = append(argv, "-S", strconv.Itoa(*opts.StartLine))
	}
	if opts.EndLine != nil {
		argv = append(argv, "-E", strconv.Itoa(*opts.EndLine))
	}
	if opts.Join {
		argv = append(argv, "-J")
	}
	if opts.Escape {
		argv = append(argv, "-e")
	}

	res, err := a.exec.Execute(ctx, argv)
	if err != nil {
		switch err.(type) {
		case *errs.CommandFailed:
			return Result{}, err
		default:
			return Result{}, &errs.UnexpectedError{Operation: "Capture", Details: id.String(), Cause: err}
		}
	}

	lines := strings.Split(res.Stdout, "\n")
	return Result{
		PaneID:    id,
		Content:   res.Stdout,
		Lines:     lines,
		Timestamp: time.Now(),
		LineCount: len(lines),
	}, nil
}

// CaptureMany runs Capture concurrently for every id and aggregates the
// results. If one or more captures fail, it returns the partial result map
// alongside an errs.ValidationFailedAggregate naming every failing id.
func (a *Adapter) CaptureMany(ctx context.Context, ids []paneid.PaneId, opts Options) (map[string]Result, error) {
	results := make(map[string]Result, len(ids))
	errsByID := make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(id paneid.PaneId) {
			defer wg.Done()
			r, err := a.Capture(ctx, id, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errsByID[id.String()] = err
				return
			}
			results[id.String()] = r
		}(id)
	}
	wg.Wait()

	if len(errsByID) > 0 {
		return results, &errs.ValidationFailedAggregate{Errors: errsByID}
	}
	return results, nil
}
