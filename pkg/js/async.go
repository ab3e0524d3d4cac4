package js

import (
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

const blobMimeType = "image/png"

// toBlob implements element.toBlob(id, devicePixelRatio). Argument faults and
// a host without an exporter throw synchronously; everything after that
// arrives through the returned promise.
func (e *ElementInstance) toBlob(call goja.FunctionCall) goja.Value {
	c := e.ctx
	if len(call.Arguments) < 1 || !isNumber(call.Arguments[0]) {
		c.throw(argumentError("toBlob", "Failed to export blob: missing element's id."))
	}
	if len(call.Arguments) < 2 || !isNumber(call.Arguments[1]) {
		c.throw(argumentError("toBlob", "Failed to export blob: parameter 2 (devicePixelRatio) is not an number."))
	}
	id := call.Arguments[0].ToFloat()
	ratio := call.Arguments[1].ToFloat()

	exporter, ok := c.host.(BlobExporter)
	if !ok {
		c.throw(nativeUnavailable("toBlob", "Failed to export blob: native method (toBlob) is not registered."))
	}

	promise, resolve, reject := c.vm.NewPromise()
	callID, err := c.callbacks.Register(c, resolve, reject)
	if err != nil {
		c.throw(err)
	}
	exporter.ExportVisualAsBytes(callID, c.id, c.deliver, id, ratio)
	return c.vm.ToValue(promise)
}

// deliver is the completion handed to the exporter. It may run on any
// goroutine and re-enters the context only through the loop.
func (c *Context) deliver(call CallID, ctx ContextID, err error, data []byte) {
	payload := append([]byte(nil), data...)
	if !c.post(func(vm *goja.Runtime) { c.settle(call, ctx, err, payload) }) {
		c.logger.Debug("completion dropped: context disposed",
			zap.Uint64("call", uint64(call)))
	}
}

// settle runs on the loop. The pending entry is removed before anything else
// so a completion can never be applied twice.
func (c *Context) settle(call CallID, ctx ContextID, err error, data []byte) {
	pc, ok := c.callbacks.Take(call)
	if !ok {
		c.logger.Debug("completion for unknown call", zap.Uint64("call", uint64(call)))
		return
	}
	if pc.ContextID != ctx || !checkContext(pc.ContextID, pc.ctx) {
		c.logger.Debug("completion dropped: stale context",
			zap.Uint64("call", uint64(call)),
			zap.Int32("context", int32(ctx)))
		return
	}
	if err != nil {
		berr := nativeOperationError("toBlob", err)
		c.logger.Warn("export failed", zap.Uint64("call", uint64(call)), zap.Error(err))
		_ = pc.reject(c.vm.NewGoError(berr))
		return
	}
	if settleErr := pc.resolve(c.newBlob(data, blobMimeType)); settleErr != nil {
		c.logger.Warn("resolve failed", zap.Error(settleErr))
	}
}
