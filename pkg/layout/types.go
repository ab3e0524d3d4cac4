package layout

import (
	"kbridge/pkg/css"
)

// Node is one render object of the native tree. Elements carry a style and
// children; text nodes carry Text.
type Node struct {
	ID       int32
	Tag      string
	Text     string
	IsText   bool
	Style    *css.Style
	Parent   *Node
	Children []*Node

	// scroll offsets of the node's content
	ScrollX float64
	ScrollY float64
}

func NewElement(id int32, tag string) *Node {
	return &Node{ID: id, Tag: tag, Style: css.NewStyle()}
}

func NewText(id int32, text string) *Node {
	return &Node{ID: id, Text: text, IsText: true, Style: css.NewStyle()}
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) {
	child.Detach()
	child.Parent = n
	n.Children = append(n.Children, child)
}

// InsertBefore moves n in front of ref, under ref's parent.
func (n *Node) InsertBefore(ref *Node) {
	if ref.Parent == nil || ref == n {
		return
	}
	n.Detach()
	p := ref.Parent
	idx := p.IndexOf(ref)
	p.Children = append(p.Children, nil)
	copy(p.Children[idx+1:], p.Children[idx:])
	p.Children[idx] = n
	n.Parent = p
}

// Detach unlinks n from its parent.
func (n *Node) Detach() {
	if n.Parent == nil {
		return
	}
	p := n.Parent
	if idx := p.IndexOf(n); idx >= 0 {
		p.Children = append(p.Children[:idx], p.Children[idx+1:]...)
	}
	n.Parent = nil
}

// Box is the layout result for one node. X and Y are the border-box origin in
// viewport coordinates; Width and Height are the content size.
type Box struct {
	Node     *Node
	Style    *css.Style
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Margin   css.BoxEdge
	Padding  css.BoxEdge
	Border   css.BoxEdge
	Children []*Box
	Parent   *Box

	// Lines holds the wrapped text of a text box.
	Lines      []string
	LineHeight float64

	// extent of the laid-out content, used for scrollWidth/scrollHeight
	ContentWidth  float64
	ContentHeight float64
}

// BorderBoxWidth returns content + padding + border width.
func (b *Box) BorderBoxWidth() float64 {
	return b.Width + b.Padding.Horizontal() + b.Border.Horizontal()
}

// BorderBoxHeight returns content + padding + border height.
func (b *Box) BorderBoxHeight() float64 {
	return b.Height + b.Padding.Vertical() + b.Border.Vertical()
}

// ClientWidth returns the padding-box width.
func (b *Box) ClientWidth() float64 { return b.Width + b.Padding.Horizontal() }

// ClientHeight returns the padding-box height.
func (b *Box) ClientHeight() float64 { return b.Height + b.Padding.Vertical() }

// ScrollWidth returns the width of the scrollable content, at least the
// client width.
func (b *Box) ScrollWidth() float64 {
	return max(b.ClientWidth(), b.ContentWidth+b.Padding.Horizontal())
}

// ScrollHeight returns the height of the scrollable content, at least the
// client height.
func (b *Box) ScrollHeight() float64 {
	return max(b.ClientHeight(), b.ContentHeight+b.Padding.Vertical())
}

// Walk visits b and its descendants in document order.
func (b *Box) Walk(fn func(*Box)) {
	fn(b)
	for _, c := range b.Children {
		c.Walk(fn)
	}
}
