package js

import (
	"unicode/utf16"

	"github.com/dop251/goja"
)

// TextNodeInstance is a scripting-visible text node.
type TextNodeInstance struct {
	nodeInstance
	textTable *PropertyTable
}

var _ goja.DynamicObject = (*TextNodeInstance)(nil)

// newTextNode creates a text node with an automatic target id and enqueues
// createTextNode carrying a copy of data.
func (c *Context) newTextNode(data string) (*TextNodeInstance, error) {
	t := &TextNodeInstance{}
	target := c.allocTargetID()
	c.initNode(&t.nodeInstance, t, TextNode, target)
	t.text = data
	t.textTable = propertyTableFor(c.id, KindTextNode)

	obj := c.vm.NewDynamicObject(t)
	if c.textProto != nil {
		obj.SetPrototype(c.textProto)
	}
	t.object = obj
	if err := c.adopt(t, obj); err != nil {
		return nil, err
	}
	c.queue.Enqueue(UICommand{
		TargetID: target,
		Type:     CommandCreateTextNode,
		Args:     cloneArgs(data),
		Handle:   t.handle,
	})
	return t, nil
}

// Data returns the current text.
func (t *TextNodeInstance) Data() string { return t.text }

func (t *TextNodeInstance) Get(key string) goja.Value {
	tag, ok := t.textTable.Resolve(key)
	if !ok {
		return t.getProperty(key)
	}
	switch tag {
	case tagData, tagNodeValue:
		return t.ctx.vm.ToValue(t.text)
	case tagLength:
		return t.ctx.vm.ToValue(len(utf16.Encode([]rune(t.text))))
	}
	return nil
}

func (t *TextNodeInstance) Set(key string, val goja.Value) bool {
	tag, ok := t.textTable.Resolve(key)
	if !ok {
		return t.setProperty(key, val)
	}
	switch tag {
	case tagData, tagNodeValue:
		text := ""
		if !isNullish(val) {
			text = val.String()
		}
		t.setData(text)
		return true
	}
	return false
}

func (t *TextNodeInstance) Has(key string) bool {
	if _, ok := t.textTable.Resolve(key); ok {
		return true
	}
	return t.hasProperty(key)
}

func (t *TextNodeInstance) Delete(key string) bool {
	if _, ok := t.textTable.Resolve(key); ok {
		return false
	}
	return t.deleteProperty(key)
}

func (t *TextNodeInstance) Keys() []string {
	return t.propertyNames(t.textTable)
}
