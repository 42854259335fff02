package engine

import (
	"context"
	"errors"
	"sync"
)

type fakeResult struct {
	text string
	err  error
}

// fakeRemote answers per credential value and records the order of calls.
type fakeRemote struct {
	mu        sync.Mutex
	calls     []string
	prompts   []Prompt
	responses map[string]fakeResult
	hook      func(ctx context.Context, cred Credential) (string, error)
}

func (f *fakeRemote) Generate(ctx context.Context, cred Credential, p Prompt) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cred.Value())
	f.prompts = append(f.prompts, p)
	f.mu.Unlock()

	if f.hook != nil {
		return f.hook(ctx, cred)
	}
	if r, ok := f.responses[cred.Value()]; ok {
		return r.text, r.err
	}
	return "", errors.New("upstream unavailable")
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
