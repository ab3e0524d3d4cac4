package js

import "github.com/dop251/goja"

// BoundingClientRect is an immutable geometry snapshot taken at the time
// getBoundingClientRect was called.
type BoundingClientRect struct {
	vm    *goja.Runtime
	table *PropertyTable
	rect  GeometryResult
}

var _ goja.DynamicObject = (*BoundingClientRect)(nil)

func (c *Context) newBoundingClientRect(r GeometryResult) goja.Value {
	return c.vm.NewDynamicObject(&BoundingClientRect{
		vm:    c.vm,
		table: propertyTableFor(c.id, KindBoundingClientRect),
		rect:  r,
	})
}

// Rect returns the captured geometry.
func (b *BoundingClientRect) Rect() GeometryResult { return b.rect }

func (b *BoundingClientRect) Get(key string) goja.Value {
	tag, ok := b.table.Resolve(key)
	if !ok {
		return nil
	}
	switch tag {
	case tagX:
		return b.vm.ToValue(b.rect.X)
	case tagY:
		return b.vm.ToValue(b.rect.Y)
	case tagWidth:
		return b.vm.ToValue(b.rect.Width)
	case tagHeight:
		return b.vm.ToValue(b.rect.Height)
	case tagTop:
		return b.vm.ToValue(b.rect.Top)
	case tagRight:
		return b.vm.ToValue(b.rect.Right)
	case tagBottom:
		return b.vm.ToValue(b.rect.Bottom)
	case tagLeft:
		return b.vm.ToValue(b.rect.Left)
	}
	return nil
}

func (b *BoundingClientRect) Set(key string, val goja.Value) bool { return false }

func (b *BoundingClientRect) Has(key string) bool {
	_, ok := b.table.Resolve(key)
	return ok
}

func (b *BoundingClientRect) Delete(key string) bool { return false }

func (b *BoundingClientRect) Keys() []string { return b.table.Names() }
