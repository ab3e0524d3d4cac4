package js

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CommandType identifies a UI mutation applied by the render host.
type CommandType int

const (
	CommandCreateElement CommandType = iota
	CommandCreateTextNode
	CommandDisposeEventTarget
	CommandAddEvent
	CommandInsertAdjacentNode
	CommandRemoveNode
	CommandSetStyle
	CommandSetProperty
)

func (t CommandType) String() string {
	switch t {
	case CommandCreateElement:
		return "createElement"
	case CommandCreateTextNode:
		return "createTextNode"
	case CommandDisposeEventTarget:
		return "disposeEventTarget"
	case CommandAddEvent:
		return "addEvent"
	case CommandInsertAdjacentNode:
		return "insertAdjacentNode"
	case CommandRemoveNode:
		return "removeNode"
	case CommandSetStyle:
		return "setStyle"
	case CommandSetProperty:
		return "setProperty"
	}
	return "unknown"
}

// UICommand is one queued mutation. Args is owned by the command; the
// enqueuing side never retains it.
type UICommand struct {
	TargetID TargetID
	Type     CommandType
	Args     []string
	Handle   *NativeHandle
}

// cloneArgs copies strings into a new slice owned by a command.
func cloneArgs(args ...string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.Clone(a)
	}
	return out
}

// UICommandQueue is the FIFO of commands for one context.
type UICommandQueue struct {
	contextID ContextID
	mu        sync.Mutex
	items     []UICommand
}

// Enqueue appends a command. It never blocks on the render side.
func (q *UICommandQueue) Enqueue(cmd UICommand) {
	q.mu.Lock()
	q.items = append(q.items, cmd)
	q.mu.Unlock()
	if ce := Logger().Check(zap.DebugLevel, "enqueue command"); ce != nil {
		ce.Write(
			zap.Int32("context", int32(q.contextID)),
			zap.Int32("target", int32(cmd.TargetID)),
			zap.Stringer("type", cmd.Type),
			zap.Strings("args", cmd.Args))
	}
}

// Drain removes and returns every pending command in enqueue order.
func (q *UICommandQueue) Drain() []UICommand {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of pending commands.
func (q *UICommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

var commandQueues = struct {
	sync.Mutex
	m map[ContextID]*UICommandQueue
}{m: make(map[ContextID]*UICommandQueue)}

// CommandQueueFor returns the queue of a live context, or nil.
func CommandQueueFor(ctx ContextID) *UICommandQueue {
	commandQueues.Lock()
	defer commandQueues.Unlock()
	return commandQueues.m[ctx]
}

func registerCommandQueue(ctx ContextID) *UICommandQueue {
	commandQueues.Lock()
	defer commandQueues.Unlock()
	q := &UICommandQueue{contextID: ctx}
	commandQueues.m[ctx] = q
	return q
}

func releaseCommandQueue(ctx ContextID) {
	commandQueues.Lock()
	delete(commandQueues.m, ctx)
	commandQueues.Unlock()
}
