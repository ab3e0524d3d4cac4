package js

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/eventloop"
	"go.uber.org/zap"
)

// Context is one scripting execution context: a goja runtime driven by an
// event loop, bound to a render host. All goja values belonging to a context
// are touched only on its loop goroutine.
type Context struct {
	id        ContextID
	loop      *eventloop.EventLoop
	vm        *goja.Runtime
	host      RenderHost
	queue     *UICommandQueue
	callbacks *CallbackRegistry
	logger    *zap.Logger
	console   io.Writer

	// loop-only state
	nextTargetID TargetID
	instances    map[TargetID]hostNode
	objects      map[*goja.Object]hostNode
	nodeProto    *goja.Object
	elementProto *goja.Object
	textProto    *goja.Object
	body         *ElementInstance

	disposed atomic.Bool
	done     chan struct{}
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger of the context.
func WithLogger(l *zap.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// WithConsole redirects console.* output.
func WithConsole(w io.Writer) Option {
	return func(c *Context) { c.console = w }
}

var contexts = struct {
	sync.RWMutex
	next ContextID
	m    map[ContextID]*Context
}{m: make(map[ContextID]*Context)}

// checkContext reports whether id still names the live context c.
func checkContext(id ContextID, c *Context) bool {
	contexts.RLock()
	defer contexts.RUnlock()
	live, ok := contexts.m[id]
	return ok && live == c && !c.disposed.Load()
}

// NewContext creates a context on a started event loop and binds the DOM
// globals. The body element is initialized through host.InitBody.
func NewContext(host RenderHost, opts ...Option) (*Context, error) {
	if host == nil {
		return nil, fmt.Errorf("js: render host is required")
	}
	c := &Context{
		host:         host,
		callbacks:    newCallbackRegistry(),
		console:      os.Stdout,
		nextTargetID: 1,
		instances:    make(map[TargetID]hostNode),
		objects:      make(map[*goja.Object]hostNode),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = Logger()
	}

	contexts.Lock()
	contexts.next++
	c.id = contexts.next
	contexts.m[c.id] = c
	contexts.Unlock()

	c.queue = registerCommandQueue(c.id)
	c.logger = c.logger.With(zap.Int32("context", int32(c.id)))

	c.loop = eventloop.NewEventLoop(eventloop.EnableConsole(false))
	c.loop.Start()

	err := c.runSync(func(vm *goja.Runtime) error {
		c.vm = vm
		(&consoleAPI{out: c.console}).register(vm)
		c.setupPrototypes()
		return c.bindDocument()
	})
	if err != nil {
		c.Dispose()
		return nil, fmt.Errorf("js: init context: %w", err)
	}
	c.logger.Debug("context created")
	return c, nil
}

// ID returns the context identity.
func (c *Context) ID() ContextID { return c.id }

// Loop returns the event loop the context runs on.
func (c *Context) Loop() *eventloop.EventLoop { return c.loop }

// Queue returns the command queue of the context.
func (c *Context) Queue() *UICommandQueue { return c.queue }

// PendingCalls returns the number of outstanding asynchronous native calls.
func (c *Context) PendingCalls() int { return c.callbacks.Len() }

// runSync runs fn on the loop and waits for it. It must not be called from
// the loop goroutine.
func (c *Context) runSync(fn func(vm *goja.Runtime) error) error {
	if c.disposed.Load() {
		return ErrContextDisposed
	}
	result := make(chan error, 1)
	c.loop.RunOnLoop(func(vm *goja.Runtime) {
		var err error
		defer func() {
			// Recover from panics in the goja parser/runtime
			if p := recover(); p != nil {
				err = fmt.Errorf("script execution panic: %v", p)
			}
			result <- err
		}()
		err = fn(vm)
	})
	select {
	case err := <-result:
		return err
	case <-c.done:
		return ErrContextDisposed
	}
}

// post schedules fn on the loop from any goroutine. It reports false when the
// context is already torn down.
func (c *Context) post(fn func(vm *goja.Runtime)) bool {
	if c.disposed.Load() {
		return false
	}
	c.loop.RunOnLoop(fn)
	return true
}

// Execute runs scripts in order. The first failing script stops execution.
func (c *Context) Execute(scripts ...string) error {
	for i, script := range scripts {
		if err := c.ExecuteScript(fmt.Sprintf("script%d.js", i), script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// ExecuteScript compiles and runs one script under the given source name.
func (c *Context) ExecuteScript(name, code string) error {
	program, err := goja.Compile(name, code, false)
	if err != nil {
		return err
	}
	return c.runSync(func(vm *goja.Runtime) error {
		_, err := vm.RunProgram(program)
		return err
	})
}

// Eval runs code and returns the exported completion value.
func (c *Context) Eval(code string) (any, error) {
	var out any
	err := c.runSync(func(vm *goja.Runtime) error {
		v, err := vm.RunString(code)
		if err != nil {
			return err
		}
		if v != nil {
			out = v.Export()
		}
		return nil
	})
	return out, err
}

// Dispose tears the context down: pending completions are dropped, every
// native handle is released once, and the loop is stopped. It must not be
// called from the loop goroutine.
func (c *Context) Dispose() {
	if !c.disposed.CompareAndSwap(false, true) {
		return
	}
	contexts.Lock()
	delete(contexts.m, c.id)
	contexts.Unlock()

	c.loop.Stop()
	close(c.done)

	released := 0
	for _, n := range c.instances {
		if n.base().handle.release() {
			released++
		}
	}
	c.instances = nil
	c.objects = nil
	dropped := c.callbacks.clear()

	if d, ok := c.host.(ContextDisposer); ok {
		d.DisposeContext(c.id)
	}
	releasePropertyTables(c.id)
	releaseCommandQueue(c.id)
	c.logger.Debug("context disposed",
		zap.Int("released", released),
		zap.Int("droppedCalls", dropped))
}

// Disposed reports whether Dispose was called.
func (c *Context) Disposed() bool { return c.disposed.Load() }

// allocTargetID returns the next automatic target id.
func (c *Context) allocTargetID() TargetID {
	for {
		id := c.nextTargetID
		c.nextTargetID++
		if _, taken := c.instances[id]; !taken {
			return id
		}
	}
}

// adopt registers a new instance in the arena. A live target id is never
// handed to a second object.
func (c *Context) adopt(n hostNode, obj *goja.Object) error {
	id := n.base().handle.TargetID()
	if _, exists := c.instances[id]; exists {
		return argumentError("createElement", "target id %d is already in use", id)
	}
	c.instances[id] = n
	c.objects[obj] = n
	return nil
}

// unwrap returns the host node behind a scripting value, or nil.
func (c *Context) unwrap(v goja.Value) hostNode {
	obj, ok := v.(*goja.Object)
	if !ok || obj == nil {
		return nil
	}
	return c.objects[obj]
}

// throw raises err as a scripting exception. Argument errors become TypeErrors.
func (c *Context) throw(err error) {
	if IsKind(err, KindArgument) {
		panic(c.vm.NewTypeError(err.Error()))
	}
	panic(c.vm.NewGoError(err))
}
