package layout

import (
	"math"

	"kbridge/pkg/css"
	"kbridge/pkg/text"
)

// LayoutEngine lays out a render tree as a stack of block boxes. Inline
// elements are treated as blocks and margins do not collapse.
type LayoutEngine struct {
	viewport struct {
		width  float64
		height float64
	}
	measurer *text.Measurer
}

func NewLayoutEngine(viewportWidth, viewportHeight float64) *LayoutEngine {
	le := &LayoutEngine{measurer: &text.Measurer{}}
	le.viewport.width = viewportWidth
	le.viewport.height = viewportHeight
	return le
}

// SetMeasurer replaces the text measurer.
func (le *LayoutEngine) SetMeasurer(m *text.Measurer) {
	le.measurer = m
}

// Viewport returns the viewport size.
func (le *LayoutEngine) Viewport() (width, height float64) {
	return le.viewport.width, le.viewport.height
}

// Layout lays out root at the viewport origin. The root box is at least as
// tall as the viewport.
func (le *LayoutEngine) Layout(root *Node) *Box {
	box := le.layoutNode(root, nil, 0, 0, le.viewport.width, root.Style)
	if box == nil {
		return nil
	}
	if _, ok := root.Style.GetLength("height"); !ok {
		inner := le.viewport.height - box.Padding.Vertical() - box.Border.Vertical() - box.Margin.Vertical()
		box.Height = math.Max(box.Height, inner)
	}
	return box
}

func (le *LayoutEngine) layoutNode(n *Node, parent *Box, x, y, containingWidth float64, inherited *css.Style) *Box {
	if n.IsText {
		return le.layoutText(n, parent, x, y, containingWidth, inherited)
	}
	return le.layoutBlock(n, parent, x, y, containingWidth)
}

func (le *LayoutEngine) layoutBlock(n *Node, parent *Box, x, y, containingWidth float64) *Box {
	style := n.Style
	if style.GetDisplay() == css.DisplayNone {
		return nil
	}
	box := &Box{
		Node:    n,
		Style:   style,
		Parent:  parent,
		Margin:  style.GetMargin(),
		Padding: style.GetPadding(),
		Border:  style.GetBorderWidth(),
	}
	box.X = x + box.Margin.Left
	box.Y = y + box.Margin.Top

	if w, ok := style.GetLength("width"); ok {
		box.Width = math.Max(0, w)
	} else {
		box.Width = math.Max(0, containingWidth-box.Margin.Horizontal()-box.Padding.Horizontal()-box.Border.Horizontal())
	}

	contentX := box.X + box.Border.Left + box.Padding.Left - n.ScrollX
	contentY := box.Y + box.Border.Top + box.Padding.Top - n.ScrollY
	cursor := 0.0
	extent := 0.0
	for _, child := range n.Children {
		cb := le.layoutNode(child, box, contentX, contentY+cursor, box.Width, style)
		if cb == nil {
			continue
		}
		box.Children = append(box.Children, cb)
		cursor += cb.BorderBoxHeight() + cb.Margin.Vertical()
		extent = math.Max(extent, cb.BorderBoxWidth()+cb.Margin.Horizontal())
	}
	box.ContentWidth = extent
	box.ContentHeight = cursor

	if h, ok := style.GetLength("height"); ok {
		box.Height = math.Max(0, h)
	} else {
		box.Height = cursor
	}
	return box
}

// layoutText wraps the text to the containing width using the font of the
// parent element.
func (le *LayoutEngine) layoutText(n *Node, parent *Box, x, y, containingWidth float64, inherited *css.Style) *Box {
	fontSize := inherited.GetFontSize()
	lineHeight := inherited.GetLineHeight()
	lines := le.measurer.BreakTextIntoLines(n.Text, fontSize, containingWidth)

	box := &Box{
		Node:       n,
		Style:      inherited,
		Parent:     parent,
		X:          x,
		Y:          y,
		Lines:      lines,
		LineHeight: lineHeight,
	}
	for _, line := range lines {
		w, _ := le.measurer.MeasureText(line, fontSize)
		box.Width = math.Max(box.Width, w)
	}
	if n.Text != "" {
		box.Height = float64(len(lines)) * lineHeight
	}
	box.ContentWidth = box.Width
	box.ContentHeight = box.Height
	return box
}
