package js

import (
	"github.com/dop251/goja"
)

// setupPrototypes installs the Node, Element and Text constructors. Host
// objects get these prototypes so instanceof and prototype extensions work.
func (c *Context) setupPrototypes() {
	vm := c.vm

	nodeCtor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		panic(vm.NewTypeError("Illegal constructor"))
	}).ToObject(vm)
	c.nodeProto = vm.NewObject()
	c.nodeProto.Set("constructor", nodeCtor)
	nodeCtor.Set("prototype", c.nodeProto)
	nodeCtor.Set("ELEMENT_NODE", int(ElementNode))
	nodeCtor.Set("TEXT_NODE", int(TextNode))

	elementCtor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) == 0 || isNullish(call.Arguments[0]) {
			c.throw(argumentError("Element", "Failed to construct 'Element': 1 argument required, but only 0 present."))
		}
		target, ok := targetIDArgument(call)
		if !ok {
			target = c.allocTargetID()
		}
		e, err := c.newElement(call.Arguments[0].String(), target)
		if err != nil {
			c.throw(err)
		}
		return e.object
	}).ToObject(vm)
	c.elementProto = vm.NewObject()
	c.elementProto.SetPrototype(c.nodeProto)
	c.elementProto.Set("constructor", elementCtor)
	elementCtor.Set("prototype", c.elementProto)

	textCtor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		data := ""
		if len(call.Arguments) > 0 && !isNullish(call.Arguments[0]) {
			data = call.Arguments[0].String()
		}
		t, err := c.newTextNode(data)
		if err != nil {
			c.throw(err)
		}
		return t.object
	}).ToObject(vm)
	c.textProto = vm.NewObject()
	c.textProto.SetPrototype(c.nodeProto)
	c.textProto.Set("constructor", textCtor)
	textCtor.Set("prototype", c.textProto)

	vm.Set("Node", nodeCtor)
	vm.Set("Element", elementCtor)
	vm.Set("Text", textCtor)
}

// bindDocument creates the body element and the global document object.
func (c *Context) bindDocument() error {
	vm := c.vm
	body, err := c.newElement("body", BodyTargetID)
	if err != nil {
		return err
	}
	c.body = body

	docObj := vm.NewObject()
	docObj.Set("body", body.object)
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 || isNullish(call.Arguments[0]) {
			c.throw(argumentError("createElement",
				"Failed to execute 'createElement' on 'Document': 1 argument required, but only 0 present."))
		}
		e, err := c.newElement(call.Arguments[0].String(), c.allocTargetID())
		if err != nil {
			c.throw(err)
		}
		return e.object
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		t, err := c.newTextNode(text)
		if err != nil {
			c.throw(err)
		}
		return t.object
	})
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		if e := getElementById(&c.body.nodeInstance, call.Arguments[0].String()); e != nil {
			return e.object
		}
		return goja.Null()
	})
	vm.Set("document", docObj)
	return nil
}

// Body returns the root element. It must be used on the loop goroutine.
func (c *Context) Body() *ElementInstance { return c.body }

// getElementById walks the connected tree and returns the first element whose
// id attribute matches.
func getElementById(node *nodeInstance, id string) *ElementInstance {
	if e, ok := node.self.(*ElementInstance); ok {
		if val, ok := e.attributes["id"]; ok && val == id {
			return e
		}
	}
	for _, child := range node.childNodes {
		if found := getElementById(child, id); found != nil {
			return found
		}
	}
	return nil
}
