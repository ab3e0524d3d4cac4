package js

import (
	"sync"
)

// CallID identifies an in-flight asynchronous native request.
type CallID uint64

// Settle completes one side of a promise. It is the shape of the functions
// returned by goja.Runtime.NewPromise.
type Settle func(result any) error

// PendingCall is a registered resolve/reject continuation.
type PendingCall struct {
	ID        CallID
	ContextID ContextID
	ctx       *Context
	resolve   Settle
	reject    Settle
}

// CallbackRegistry maps call ids to pending continuations. Insert happens on
// the issuing goroutine, removal on the loop after a completion was posted.
type CallbackRegistry struct {
	mu      sync.Mutex
	next    CallID
	pending map[CallID]*PendingCall
}

func newCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{pending: make(map[CallID]*PendingCall)}
}

// Register stores a continuation pair for ctx and returns its fresh id.
func (r *CallbackRegistry) Register(ctx *Context, resolve, reject Settle) (CallID, error) {
	if resolve == nil || reject == nil {
		return 0, argumentError("registerCallback", "a resolve/reject pair of functions is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	id := r.next
	r.pending[id] = &PendingCall{ID: id, ContextID: ctx.ID(), ctx: ctx, resolve: resolve, reject: reject}
	return id, nil
}

// Take removes and returns the pending call. The second result is false when
// the id is unknown or was already taken.
func (r *CallbackRegistry) Take(id CallID) (*PendingCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pc, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	return pc, ok
}

// Len returns the number of outstanding calls.
func (r *CallbackRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// clear drops every pending call without settling it.
func (r *CallbackRegistry) clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.pending)
	r.pending = make(map[CallID]*PendingCall)
	return n
}
