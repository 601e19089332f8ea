package content

import (
	"context"
	"sync"
)

// inflight tracks one running operation per key. Starting an operation
// cancels any still-running operation with the same key, so when two calls
// race the later one deterministically supersedes the earlier.
type inflight struct {
	mu  sync.Mutex
	ops map[string]*inflightOp
}

type inflightOp struct {
	cancel context.CancelFunc
}

func newInflight() *inflight {
	return &inflight{ops: make(map[string]*inflightOp)}
}

// begin registers an operation under key, canceling any predecessor. The
// returned done func must be called when the operation finishes.
func (f *inflight) begin(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	op := &inflightOp{cancel: cancel}

	f.mu.Lock()
	if prev, ok := f.ops[key]; ok {
		prev.cancel()
	}
	f.ops[key] = op
	f.mu.Unlock()

	return ctx, func() {
		f.mu.Lock()
		// Only the operation that still owns the slot may free it; a
		// superseded one must not evict its successor.
		if f.ops[key] == op {
			delete(f.ops, key)
		}
		f.mu.Unlock()
		cancel()
	}
}
