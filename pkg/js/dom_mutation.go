package js

import (
	"strconv"

	"github.com/dop251/goja"
)

const (
	positionBeforeEnd   = "beforeend"
	positionBeforeBegin = "beforebegin"
)

// nodeArgument unwraps the i-th argument as a host node or throws.
func (n *nodeInstance) nodeArgument(op string, call goja.FunctionCall, i int) *nodeInstance {
	if len(call.Arguments) <= i {
		n.ctx.throw(argumentError(op, "Failed to execute '%s' on 'Node': %s required, but only %d present.",
			op, pluralArguments(i+1), len(call.Arguments)))
	}
	child := n.ctx.unwrap(call.Arguments[i])
	if child == nil {
		n.ctx.throw(argumentError(op, "Failed to execute '%s' on 'Node': parameter %d is not of type 'Node'.", op, i+1))
	}
	return child.base()
}

func (n *nodeInstance) checkInsertable(op string, child *nodeInstance) {
	if n.nodeType == TextNode {
		n.ctx.throw(argumentError(op, "Failed to execute '%s' on 'Node': This node type does not support this method.", op))
	}
	if child.contains(n) {
		n.ctx.throw(argumentError(op, "Failed to execute '%s' on 'Node': The new child element contains the parent.", op))
	}
}

// appendChildFn implements node.appendChild(child).
func (n *nodeInstance) appendChildFn(call goja.FunctionCall) goja.Value {
	child := n.nodeArgument("appendChild", call, 0)
	n.checkInsertable("appendChild", child)
	n.appendChild(child)
	return child.object
}

// removeChildFn implements node.removeChild(child).
func (n *nodeInstance) removeChildFn(call goja.FunctionCall) goja.Value {
	child := n.nodeArgument("removeChild", call, 0)
	if child.parent != n {
		n.ctx.throw(argumentError("removeChild",
			"Failed to execute 'removeChild' on 'Node': The node to be removed is not a child of this node."))
	}
	n.removeChild(child)
	return child.object
}

// insertBeforeFn implements node.insertBefore(newNode, refNode). A null or
// missing reference appends.
func (n *nodeInstance) insertBeforeFn(call goja.FunctionCall) goja.Value {
	child := n.nodeArgument("insertBefore", call, 0)
	n.checkInsertable("insertBefore", child)
	if len(call.Arguments) < 2 || isNullish(call.Arguments[1]) {
		n.appendChild(child)
		return child.object
	}
	ref := n.nodeArgument("insertBefore", call, 1)
	if ref.parent != n {
		n.ctx.throw(argumentError("insertBefore",
			"Failed to execute 'insertBefore' on 'Node': The node before which the new node is to be inserted is not a child of this node."))
	}
	n.insertBefore(child, ref)
	return child.object
}

// detach unlinks n from its parent without telling the render host; the
// following insertAdjacentNode moves the native node.
func (n *nodeInstance) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	idx := n.indexInParent()
	p.childNodes = append(p.childNodes[:idx], p.childNodes[idx+1:]...)
	n.parent = nil
}

func (n *nodeInstance) appendChild(child *nodeInstance) {
	child.detach()
	child.parent = n
	n.childNodes = append(n.childNodes, child)
	n.ctx.queue.Enqueue(UICommand{
		TargetID: n.handle.TargetID(),
		Type:     CommandInsertAdjacentNode,
		Args:     cloneArgs(strconv.Itoa(int(child.handle.TargetID())), positionBeforeEnd),
	})
}

func (n *nodeInstance) insertBefore(child, ref *nodeInstance) {
	if child == ref {
		return
	}
	child.detach()
	idx := ref.indexInParent()
	n.childNodes = append(n.childNodes, nil)
	copy(n.childNodes[idx+1:], n.childNodes[idx:])
	n.childNodes[idx] = child
	child.parent = n
	n.ctx.queue.Enqueue(UICommand{
		TargetID: ref.handle.TargetID(),
		Type:     CommandInsertAdjacentNode,
		Args:     cloneArgs(strconv.Itoa(int(child.handle.TargetID())), positionBeforeBegin),
	})
}

func (n *nodeInstance) removeChild(child *nodeInstance) {
	child.detach()
	n.ctx.queue.Enqueue(UICommand{TargetID: child.handle.TargetID(), Type: CommandRemoveNode})
}

// addEventListenerFn records a listener. The render host is told about the
// first listener of each event type so it starts reporting that event.
func (n *nodeInstance) addEventListenerFn(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) < 2 {
		n.ctx.throw(argumentError("addEventListener",
			"Failed to execute 'addEventListener' on 'EventTarget': 2 arguments required, but only %d present.", len(call.Arguments)))
	}
	if _, ok := goja.AssertFunction(call.Arguments[1]); !ok {
		n.ctx.throw(argumentError("addEventListener",
			"Failed to execute 'addEventListener' on 'EventTarget': parameter 2 is not of type 'Function'."))
	}
	eventType := call.Arguments[0].String()
	if n.listeners == nil {
		n.listeners = make(map[string][]goja.Value)
	}
	for _, l := range n.listeners[eventType] {
		if l.SameAs(call.Arguments[1]) {
			return goja.Undefined()
		}
	}
	if len(n.listeners[eventType]) == 0 {
		n.ctx.queue.Enqueue(UICommand{
			TargetID: n.handle.TargetID(),
			Type:     CommandAddEvent,
			Args:     cloneArgs(eventType),
		})
	}
	n.listeners[eventType] = append(n.listeners[eventType], call.Arguments[1])
	return goja.Undefined()
}

func (n *nodeInstance) removeEventListenerFn(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) < 2 {
		return goja.Undefined()
	}
	eventType := call.Arguments[0].String()
	list := n.listeners[eventType]
	for i, l := range list {
		if l.SameAs(call.Arguments[1]) {
			n.listeners[eventType] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return goja.Undefined()
}
