package js

import "sync/atomic"

// NativeHandle pairs a target id with the native accessors for it. It is owned
// by exactly one host object instance and released once, when that instance
// is torn down.
type NativeHandle struct {
	contextID ContextID
	targetID  TargetID
	host      RenderHost
	queue     *UICommandQueue
	released  atomic.Bool
}

func newNativeHandle(ctx ContextID, target TargetID, host RenderHost, queue *UICommandQueue) *NativeHandle {
	return &NativeHandle{contextID: ctx, targetID: target, host: host, queue: queue}
}

// TargetID returns the stable id of the native render object.
func (h *NativeHandle) TargetID() TargetID { return h.targetID }

// ContextID returns the context that owns the handle.
func (h *NativeHandle) ContextID() ContextID { return h.contextID }

// Released reports whether the handle was already released.
func (h *NativeHandle) Released() bool { return h.released.Load() }

// Metric flushes layout and reads one metric for this target.
func (h *NativeHandle) Metric(m Metric) float64 {
	h.host.RequestUpdateFrame()
	return h.host.ElementMetric(h.contextID, h.targetID, m)
}

// BoundingClientRect flushes layout and reads the border box of this target.
func (h *NativeHandle) BoundingClientRect() GeometryResult {
	h.host.RequestUpdateFrame()
	return h.host.GetBoundingClientRect(h.contextID, h.targetID)
}

func (h *NativeHandle) click() { h.host.Click(h.contextID, h.targetID) }

func (h *NativeHandle) scroll(x, y float64) { h.host.Scroll(h.contextID, h.targetID, x, y) }

func (h *NativeHandle) scrollBy(dx, dy float64) { h.host.ScrollBy(h.contextID, h.targetID, dx, dy) }

// release enqueues disposeEventTarget the first time it is called and reports
// whether this call performed the release.
func (h *NativeHandle) release() bool {
	if !h.released.CompareAndSwap(false, true) {
		return false
	}
	h.queue.Enqueue(UICommand{TargetID: h.targetID, Type: CommandDisposeEventTarget})
	return true
}
