package tmuxexec

import (
	"context"
	"strings"
	"sync"
)

// Fake is a scriptable Executor for tests elsewhere in the module. Responses
// are keyed by the space-joined argv; Calls records every invocation in
// order for assertions.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]FakeResponse
	Calls     [][]string
}

// FakeResponse is the canned result for one argv key.
type FakeResponse struct {
	Result Result
	Err    error
}

// NewFake returns an empty Fake; use Responses to script outcomes before
// passing it to code under test.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]FakeResponse)}
}

// Execute records argv and returns the scripted response for its key, or a
// zero Result if none was scripted.
func (f *Fake) Execute(_ context.Context, argv []string) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, append([]string(nil), argv...))
	resp := f.Responses[strings.Join(argv, " ")]
	return resp.Result, resp.Err
}
