package js

import (
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

// recordingHost answers metrics from a fixed table and records every call.
type recordingHost struct {
	mu       sync.Mutex
	bodies   []*NativeHandle
	flushes  int
	metrics  map[Metric]float64
	rect     GeometryResult
	clicks   []TargetID
	scrolls  []string
	exports  []exportRequest
	disposed []ContextID
}

type exportRequest struct {
	call  CallID
	ctx   ContextID
	done  CompletionFunc
	id    float64
	ratio float64
}

func newRecordingHost() *recordingHost {
	return &recordingHost{metrics: make(map[Metric]float64)}
}

func (h *recordingHost) InitBody(ctx ContextID, body *NativeHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bodies = append(h.bodies, body)
}

func (h *recordingHost) RequestUpdateFrame() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flushes++
}

func (h *recordingHost) ElementMetric(ctx ContextID, target TargetID, m Metric) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.metrics[m]
}

func (h *recordingHost) GetBoundingClientRect(ctx ContextID, target TargetID) GeometryResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rect
}

func (h *recordingHost) Click(ctx ContextID, target TargetID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clicks = append(h.clicks, target)
}

func (h *recordingHost) Scroll(ctx ContextID, target TargetID, x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrolls = append(h.scrolls, "scroll")
}

func (h *recordingHost) ScrollBy(ctx ContextID, target TargetID, dx, dy float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrolls = append(h.scrolls, "scrollBy")
}

func (h *recordingHost) DisposeContext(ctx ContextID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disposed = append(h.disposed, ctx)
}

func (h *recordingHost) flushCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flushes
}

// exportingHost additionally implements BlobExporter and parks requests until
// the test completes them.
type exportingHost struct {
	*recordingHost
}

func (h exportingHost) ExportVisualAsBytes(call CallID, ctx ContextID, done CompletionFunc, id, ratio float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exports = append(h.exports, exportRequest{call: call, ctx: ctx, done: done, id: id, ratio: ratio})
}

func (h *recordingHost) lastExport(t *testing.T) exportRequest {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.exports) == 0 {
		t.Fatal("no export was requested")
	}
	return h.exports[len(h.exports)-1]
}

func newTestContext(t *testing.T, host RenderHost) *Context {
	t.Helper()
	ctx, err := NewContext(host, WithLogger(zaptest.NewLogger(t)), WithConsole(&strings.Builder{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Dispose)
	return ctx
}

func run(t *testing.T, ctx *Context, script string) {
	t.Helper()
	if err := ctx.Execute(script); err != nil {
		t.Fatal(err)
	}
}

// waitFor polls expr on the loop until it evaluates to true.
func waitFor(t *testing.T, ctx *Context, expr string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := ctx.Eval(expr)
		if err != nil {
			t.Fatal(err)
		}
		if b, ok := v.(bool); ok && b {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", expr)
}

// drain returns the commands queued so far, excluding body initialization.
func drain(ctx *Context) []UICommand {
	return ctx.Queue().Drain()
}
