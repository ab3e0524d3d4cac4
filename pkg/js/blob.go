package js

import (
	"github.com/dop251/goja"
)

// Blob is the binary payload returned by toBlob. It owns its bytes.
type Blob struct {
	vm       *goja.Runtime
	table    *PropertyTable
	data     []byte
	mimeType string
	funcs    map[PropertyTag]goja.Value
}

var _ goja.DynamicObject = (*Blob)(nil)

// newBlob wraps a private copy of data.
func (c *Context) newBlob(data []byte, mimeType string) *goja.Object {
	b := &Blob{
		vm:       c.vm,
		table:    propertyTableFor(c.id, KindBlob),
		data:     append([]byte(nil), data...),
		mimeType: mimeType,
		funcs:    make(map[PropertyTag]goja.Value),
	}
	return c.vm.NewDynamicObject(b)
}

// Bytes returns the blob payload. Callers must not modify it.
func (b *Blob) Bytes() []byte { return b.data }

func (b *Blob) Get(key string) goja.Value {
	tag, ok := b.table.Resolve(key)
	if !ok {
		return nil
	}
	switch tag {
	case tagSize:
		return b.vm.ToValue(len(b.data))
	case tagType:
		return b.vm.ToValue(b.mimeType)
	case tagArrayBuffer:
		return b.method(tag, func(call goja.FunctionCall) goja.Value {
			return resolvedPromise(b.vm, b.vm.NewArrayBuffer(append([]byte(nil), b.data...)))
		})
	case tagText:
		return b.method(tag, func(call goja.FunctionCall) goja.Value {
			return resolvedPromise(b.vm, string(b.data))
		})
	case tagSlice:
		return b.method(tag, b.slice)
	}
	return nil
}

func (b *Blob) Set(key string, val goja.Value) bool { return false }

func (b *Blob) Has(key string) bool {
	_, ok := b.table.Resolve(key)
	return ok
}

func (b *Blob) Delete(key string) bool { return false }

func (b *Blob) Keys() []string { return b.table.Names() }

func (b *Blob) method(tag PropertyTag, fn func(call goja.FunctionCall) goja.Value) goja.Value {
	if f, ok := b.funcs[tag]; ok {
		return f
	}
	f := b.vm.ToValue(fn)
	b.funcs[tag] = f
	return f
}

// slice implements Blob.slice(start, end, contentType) with negative offsets
// counted from the end.
func (b *Blob) slice(call goja.FunctionCall) goja.Value {
	size := len(b.data)
	start, end := 0, size
	if len(call.Arguments) > 0 && !isNullish(call.Arguments[0]) {
		start = clampOffset(int(call.Arguments[0].ToInteger()), size)
	}
	if len(call.Arguments) > 1 && !isNullish(call.Arguments[1]) {
		end = clampOffset(int(call.Arguments[1].ToInteger()), size)
	}
	if end < start {
		end = start
	}
	mimeType := ""
	if len(call.Arguments) > 2 && !isNullish(call.Arguments[2]) {
		mimeType = call.Arguments[2].String()
	}
	out := &Blob{
		vm:       b.vm,
		table:    b.table,
		data:     append([]byte(nil), b.data[start:end]...),
		mimeType: mimeType,
		funcs:    make(map[PropertyTag]goja.Value),
	}
	return b.vm.NewDynamicObject(out)
}

func clampOffset(off, size int) int {
	if off < 0 {
		off += size
		if off < 0 {
			return 0
		}
	}
	if off > size {
		return size
	}
	return off
}

func resolvedPromise(rt *goja.Runtime, value interface{}) goja.Value {
	p, resolve, _ := rt.NewPromise()
	_ = resolve(value)
	return rt.ToValue(p)
}
