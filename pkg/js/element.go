package js

import (
	"math"
	"sort"
	"strings"

	"github.com/dop251/goja"
)

// ElementInstance is the scripting-visible element. Property access is
// resolved through the element table first and falls back to the node level.
type ElementInstance struct {
	nodeInstance
	tagName    string
	elemTable  *PropertyTable
	attributes map[string]string
	style      goja.Value
	styleDecl  *styleDeclaration
}

var _ goja.DynamicObject = (*ElementInstance)(nil)

// newElement creates an element bound to target. BodyTargetID registers the
// pre-existing root with the host; every other id enqueues createElement.
func (c *Context) newElement(tagName string, target TargetID) (*ElementInstance, error) {
	e := &ElementInstance{
		tagName:    strings.ToLower(tagName),
		attributes: make(map[string]string),
	}
	c.initNode(&e.nodeInstance, e, ElementNode, target)
	e.elemTable = propertyTableFor(c.id, KindElement)

	obj := c.vm.NewDynamicObject(e)
	if c.elementProto != nil {
		obj.SetPrototype(c.elementProto)
	}
	e.object = obj
	if err := c.adopt(e, obj); err != nil {
		return nil, err
	}

	if target == BodyTargetID {
		c.host.InitBody(c.id, e.handle)
		return e, nil
	}
	c.queue.Enqueue(UICommand{
		TargetID: target,
		Type:     CommandCreateElement,
		Args:     cloneArgs(tagName),
		Handle:   e.handle,
	})
	return e, nil
}

// TagName returns the lower-case tag name.
func (e *ElementInstance) TagName() string { return e.tagName }

// Handle returns the native handle of the element.
func (e *ElementInstance) Handle() *NativeHandle { return e.handle }

// Attribute returns a stored attribute.
func (e *ElementInstance) Attribute(name string) (string, bool) {
	v, ok := e.attributes[name]
	return v, ok
}

func (e *ElementInstance) Get(key string) goja.Value {
	tag, ok := e.elemTable.Resolve(key)
	if !ok {
		return e.getProperty(key)
	}
	vm := e.ctx.vm

	if m, isMetric := metricTags[tag]; isMetric {
		return vm.ToValue(e.handle.Metric(m))
	}

	switch tag {
	case tagStyle:
		if e.style == nil {
			e.styleDecl = newStyleDeclaration(e)
			e.style = vm.NewDynamicObject(e.styleDecl)
		}
		return e.style
	case tagNodeName, tagTagName:
		return vm.ToValue(strings.ToUpper(e.tagName))
	case tagChildren:
		var elems []*nodeInstance
		for _, child := range e.childNodes {
			if child.nodeType == ElementNode {
				elems = append(elems, child)
			}
		}
		return e.nodeArray(elems)
	case tagAttributes:
		return e.attributesSnapshot()
	case tagGetBoundingClientRect:
		return e.method(tag, func(call goja.FunctionCall) goja.Value {
			return e.ctx.newBoundingClientRect(e.handle.BoundingClientRect())
		})
	case tagClick:
		return e.method(tag, func(call goja.FunctionCall) goja.Value {
			e.handle.click()
			return goja.Undefined()
		})
	case tagScroll:
		return e.method(tag, func(call goja.FunctionCall) goja.Value {
			e.handle.scroll(optionalNumber(call, 0), optionalNumber(call, 1))
			return goja.Undefined()
		})
	case tagScrollBy:
		return e.method(tag, func(call goja.FunctionCall) goja.Value {
			e.handle.scrollBy(optionalNumber(call, 0), optionalNumber(call, 1))
			return goja.Undefined()
		})
	case tagToBlob:
		return e.method(tag, e.toBlob)
	case tagGetAttribute:
		return e.method(tag, e.getAttribute)
	case tagSetAttribute:
		return e.method(tag, e.setAttribute)
	case tagHasAttribute:
		return e.method(tag, e.hasAttribute)
	case tagRemoveAttribute:
		return e.method(tag, e.removeAttribute)
	}
	return nil
}

func (e *ElementInstance) Set(key string, val goja.Value) bool {
	tag, ok := e.elemTable.Resolve(key)
	if !ok {
		return e.setProperty(key, val)
	}
	switch tag {
	case tagScrollTop:
		e.handle.scroll(e.handle.Metric(MetricScrollLeft), val.ToFloat())
		return true
	case tagScrollLeft:
		e.handle.scroll(val.ToFloat(), e.handle.Metric(MetricScrollTop))
		return true
	}
	return false
}

func (e *ElementInstance) Has(key string) bool {
	if _, ok := e.elemTable.Resolve(key); ok {
		return true
	}
	return e.hasProperty(key)
}

func (e *ElementInstance) Delete(key string) bool {
	if _, ok := e.elemTable.Resolve(key); ok {
		return false
	}
	return e.deleteProperty(key)
}

func (e *ElementInstance) Keys() []string {
	return e.propertyNames(e.elemTable)
}

// attributeName validates the single name argument shared by the read-side
// attribute methods.
func (e *ElementInstance) attributeName(op string, call goja.FunctionCall) string {
	if len(call.Arguments) != 1 {
		e.ctx.throw(argumentError(op, "Failed to execute '%s' on 'Element': 1 argument required, but only %d present.",
			op, len(call.Arguments)))
	}
	if !isString(call.Arguments[0]) {
		e.ctx.throw(argumentError(op, "Failed to execute '%s' on 'Element': name attribute is not valid.", op))
	}
	return call.Arguments[0].String()
}

func (e *ElementInstance) getAttribute(call goja.FunctionCall) goja.Value {
	name := e.attributeName("getAttribute", call)
	if v, ok := e.attributes[name]; ok {
		return e.ctx.vm.ToValue(v)
	}
	return goja.Undefined()
}

func (e *ElementInstance) setAttribute(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) != 2 {
		e.ctx.throw(argumentError("setAttribute",
			"Failed to execute 'setAttribute' on 'Element': 2 arguments required, but only %d present.", len(call.Arguments)))
	}
	if !isString(call.Arguments[0]) {
		e.ctx.throw(argumentError("setAttribute", "Failed to execute 'setAttribute' on 'Element': name attribute is not valid."))
	}
	if !isString(call.Arguments[1]) {
		e.ctx.throw(argumentError("setAttribute", "Failed to execute 'setAttribute' on 'Element': value is not valid."))
	}
	e.attributes[call.Arguments[0].String()] = call.Arguments[1].String()
	return goja.Undefined()
}

func (e *ElementInstance) hasAttribute(call goja.FunctionCall) goja.Value {
	name := e.attributeName("hasAttribute", call)
	_, ok := e.attributes[name]
	return e.ctx.vm.ToValue(ok)
}

func (e *ElementInstance) removeAttribute(call goja.FunctionCall) goja.Value {
	name := e.attributeName("removeAttribute", call)
	delete(e.attributes, name)
	return goja.Undefined()
}

// attributesSnapshot returns a plain object copy of the attribute map.
func (e *ElementInstance) attributesSnapshot() goja.Value {
	obj := e.ctx.vm.NewObject()
	names := make([]string, 0, len(e.attributes))
	for name := range e.attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		obj.Set(name, e.attributes[name])
	}
	return obj
}

// targetIDArgument returns the explicit target id of the Element constructor,
// or false when the argument is absent, not a number, NaN or out of range.
func targetIDArgument(call goja.ConstructorCall) (TargetID, bool) {
	if len(call.Arguments) < 2 || !isNumber(call.Arguments[1]) {
		return 0, false
	}
	f := call.Arguments[1].ToFloat()
	if math.IsNaN(f) || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return TargetID(f), true
}
