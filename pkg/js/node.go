package js

import (
	"strings"

	"github.com/dop251/goja"
)

// NodeType is the DOM nodeType value.
type NodeType int

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// hostNode is a scripting-visible node backed by a native handle.
type hostNode interface {
	goja.DynamicObject
	base() *nodeInstance
}

// nodeInstance is the EventTarget/Node level shared by elements and text
// nodes. Kind-specific instances resolve their own table first and fall back
// to the handlers here.
type nodeInstance struct {
	ctx        *Context
	self       hostNode
	object     *goja.Object
	handle     *NativeHandle
	nodeType   NodeType
	table      *PropertyTable
	parent     *nodeInstance
	childNodes []*nodeInstance
	text       string // text nodes only

	funcs     map[PropertyTag]goja.Value
	expando   map[string]goja.Value
	listeners map[string][]goja.Value
}

func (c *Context) initNode(n *nodeInstance, self hostNode, nodeType NodeType, target TargetID) {
	n.ctx = c
	n.self = self
	n.nodeType = nodeType
	n.handle = newNativeHandle(c.id, target, c.host, c.queue)
	n.table = propertyTableFor(c.id, KindNode)
	n.funcs = make(map[PropertyTag]goja.Value)
}

func (n *nodeInstance) base() *nodeInstance { return n }

// method returns the cached callable for tag, building it on first access so
// repeated reads are identity-equal.
func (n *nodeInstance) method(tag PropertyTag, fn func(call goja.FunctionCall) goja.Value) goja.Value {
	if f, ok := n.funcs[tag]; ok {
		return f
	}
	f := n.ctx.vm.ToValue(fn)
	n.funcs[tag] = f
	return f
}

// getProperty is the node-level get handler. It returns nil when neither the
// node table nor the expando properties know the name.
func (n *nodeInstance) getProperty(name string) goja.Value {
	tag, ok := n.table.Resolve(name)
	if !ok {
		if v, ok := n.expando[name]; ok {
			return v
		}
		return nil
	}
	vm := n.ctx.vm

	switch tag {
	case tagTargetID:
		return vm.ToValue(int32(n.handle.TargetID()))
	case tagNodeType:
		return vm.ToValue(int(n.nodeType))
	case tagNodeName:
		if n.nodeType == TextNode {
			return vm.ToValue("#text")
		}
		return vm.ToValue("")
	case tagChildNodes:
		return n.nodeArray(n.childNodes)
	case tagParentNode:
		return n.objectOrNull(n.parent)
	case tagFirstChild:
		if len(n.childNodes) == 0 {
			return goja.Null()
		}
		return n.childNodes[0].object
	case tagLastChild:
		if len(n.childNodes) == 0 {
			return goja.Null()
		}
		return n.childNodes[len(n.childNodes)-1].object
	case tagPreviousSibling:
		return n.sibling(-1)
	case tagNextSibling:
		return n.sibling(1)
	case tagIsConnected:
		return vm.ToValue(n.isConnected())
	case tagTextContent:
		return vm.ToValue(n.textContent())
	case tagAppendChild:
		return n.method(tag, n.appendChildFn)
	case tagRemoveChild:
		return n.method(tag, n.removeChildFn)
	case tagInsertBefore:
		return n.method(tag, n.insertBeforeFn)
	case tagRemove:
		return n.method(tag, func(call goja.FunctionCall) goja.Value {
			if n.parent != nil {
				n.parent.removeChild(n)
			}
			return goja.Undefined()
		})
	case tagAddEventListener:
		return n.method(tag, n.addEventListenerFn)
	case tagRemoveEventListener:
		return n.method(tag, n.removeEventListenerFn)
	}
	return nil
}

// setProperty is the node-level set handler. Read-only node properties refuse
// the write; unknown names are stored as expando properties.
func (n *nodeInstance) setProperty(name string, val goja.Value) bool {
	tag, ok := n.table.Resolve(name)
	if !ok {
		if n.expando == nil {
			n.expando = make(map[string]goja.Value)
		}
		n.expando[name] = val
		return true
	}
	if tag == tagTextContent {
		n.setTextContent(val)
		return true
	}
	return false
}

func (n *nodeInstance) hasProperty(name string) bool {
	if _, ok := n.table.Resolve(name); ok {
		return true
	}
	_, ok := n.expando[name]
	return ok
}

func (n *nodeInstance) deleteProperty(name string) bool {
	if _, ok := n.table.Resolve(name); ok {
		return false
	}
	delete(n.expando, name)
	return true
}

// propertyNames enumerates table names followed by expando names.
func (n *nodeInstance) propertyNames(tables ...*PropertyTable) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range append(tables, n.table) {
		for _, name := range t.Names() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	for name := range n.expando {
		if !seen[name] {
			out = append(out, name)
		}
	}
	return out
}

func (n *nodeInstance) objectOrNull(other *nodeInstance) goja.Value {
	if other == nil {
		return goja.Null()
	}
	return other.object
}

func (n *nodeInstance) nodeArray(nodes []*nodeInstance) goja.Value {
	items := make([]any, len(nodes))
	for i, child := range nodes {
		items[i] = child.object
	}
	return n.ctx.vm.NewArray(items...)
}

func (n *nodeInstance) indexInParent() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.childNodes {
		if c == n {
			return i
		}
	}
	return -1
}

func (n *nodeInstance) sibling(delta int) goja.Value {
	idx := n.indexInParent()
	if idx < 0 {
		return goja.Null()
	}
	j := idx + delta
	if j < 0 || j >= len(n.parent.childNodes) {
		return goja.Null()
	}
	return n.parent.childNodes[j].object
}

func (n *nodeInstance) isConnected() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.handle.TargetID() == BodyTargetID {
			return true
		}
	}
	return false
}

// contains reports whether other is n or one of its descendants.
func (n *nodeInstance) contains(other *nodeInstance) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// textContent returns the concatenated text of the node and its descendants.
func (n *nodeInstance) textContent() string {
	if n.nodeType == TextNode {
		return n.text
	}
	var sb strings.Builder
	for _, child := range n.childNodes {
		sb.WriteString(child.textContent())
	}
	return sb.String()
}

// setTextContent replaces all children with a single text node, or updates
// the data of a text node.
func (n *nodeInstance) setTextContent(val goja.Value) {
	text := ""
	if !isNullish(val) {
		text = val.String()
	}
	if n.nodeType == TextNode {
		n.setData(text)
		return
	}
	for len(n.childNodes) > 0 {
		n.removeChild(n.childNodes[0])
	}
	if text == "" {
		return
	}
	t, err := n.ctx.newTextNode(text)
	if err != nil {
		n.ctx.throw(err)
	}
	n.appendChild(&t.nodeInstance)
}

func (n *nodeInstance) setData(text string) {
	n.text = text
	n.ctx.queue.Enqueue(UICommand{
		TargetID: n.handle.TargetID(),
		Type:     CommandSetProperty,
		Args:     cloneArgs("data", text),
	})
}
