package render

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"kbridge/pkg/css"
	"kbridge/pkg/layout"
)

// baseFontSize is the pixel size of the built-in face.
const baseFontSize = 13.0

type Renderer struct {
	context *gg.Context
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{context: gg.NewContext(width, height)}
}

// Render paints the whole tree on a white canvas.
func (r *Renderer) Render(root *layout.Box) {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
	if root != nil {
		root.Walk(r.drawBox)
	}
}

// Scale multiplies subsequent drawing by factor.
func (r *Renderer) Scale(factor float64) {
	r.context.Scale(factor, factor)
}

// Image returns the painted canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

// EncodePNG returns the canvas as PNG bytes.
func (r *Renderer) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.context.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Canvas limits in device pixels.
const (
	MaxCanvasSide   = 16384
	MaxCanvasPixels = 64 << 20
)

// CanvasSize scales a CSS pixel size by devicePixelRatio and checks the
// result against MaxCanvasSide and MaxCanvasPixels.
func CanvasSize(width, height, devicePixelRatio float64) (int, int, error) {
	if devicePixelRatio <= 0 || math.IsNaN(devicePixelRatio) || math.IsInf(devicePixelRatio, 0) {
		return 0, 0, fmt.Errorf("render: invalid device pixel ratio %v", devicePixelRatio)
	}
	fw := math.Ceil(width * devicePixelRatio)
	fh := math.Ceil(height * devicePixelRatio)
	if !(fw > 0) || !(fh > 0) {
		return 0, 0, fmt.Errorf("render: element has an empty box (%vx%v)", fw, fh)
	}
	if fw > MaxCanvasSide || fh > MaxCanvasSide || fw*fh > MaxCanvasPixels {
		return 0, 0, fmt.Errorf("render: canvas %vx%v exceeds the %dx%d limit of %d pixels",
			fw, fh, MaxCanvasSide, MaxCanvasSide, MaxCanvasPixels)
	}
	return int(fw), int(fh), nil
}

// RenderSubtree paints box and its descendants onto a transparent canvas the
// size of box's border box, scaled by devicePixelRatio.
func RenderSubtree(box *layout.Box, devicePixelRatio float64) (*Renderer, error) {
	if box == nil {
		return nil, fmt.Errorf("render: no box to paint")
	}
	w, h, err := CanvasSize(box.BorderBoxWidth(), box.BorderBoxHeight(), devicePixelRatio)
	if err != nil {
		return nil, err
	}
	r := NewRenderer(w, h)
	r.context.Scale(devicePixelRatio, devicePixelRatio)
	r.context.Translate(-box.X, -box.Y)
	box.Walk(r.drawBox)
	return r, nil
}

func (r *Renderer) drawBox(box *layout.Box) {
	if box.Node != nil && box.Node.IsText {
		r.drawText(box)
		return
	}

	// Background covers the padding box.
	if color, ok := box.Style.GetBackgroundColor(); ok {
		bgX := box.X + box.Border.Left
		bgY := box.Y + box.Border.Top
		bgWidth := box.ClientWidth()
		bgHeight := box.ClientHeight()
		if bgWidth > 0 && bgHeight > 0 {
			setColor(r.context, color)
			r.context.DrawRectangle(bgX, bgY, bgWidth, bgHeight)
			r.context.Fill()
		}
	}
	r.drawBorder(box)
}

func (r *Renderer) drawBorder(box *layout.Box) {
	b := box.Border
	if b == (css.BoxEdge{}) {
		return
	}
	if style, ok := box.Style.Get("border-style"); ok && style == "none" {
		return
	}
	setColor(r.context, box.Style.GetBorderColor())
	w, h := box.BorderBoxWidth(), box.BorderBoxHeight()
	if b.Top > 0 {
		r.context.DrawRectangle(box.X, box.Y, w, b.Top)
	}
	if b.Bottom > 0 {
		r.context.DrawRectangle(box.X, box.Y+h-b.Bottom, w, b.Bottom)
	}
	if b.Left > 0 {
		r.context.DrawRectangle(box.X, box.Y, b.Left, h)
	}
	if b.Right > 0 {
		r.context.DrawRectangle(box.X+w-b.Right, box.Y, b.Right, h)
	}
	r.context.Fill()
}

func (r *Renderer) drawText(box *layout.Box) {
	if len(box.Lines) == 0 {
		return
	}
	setColor(r.context, box.Style.GetColor())
	scale := box.Style.GetFontSize() / baseFontSize
	for i, line := range box.Lines {
		r.context.Push()
		r.context.Translate(box.X, box.Y+float64(i)*box.LineHeight)
		r.context.Scale(scale, scale)
		r.context.DrawStringAnchored(line, 0, 0, 0, 1)
		r.context.Pop()
	}
}

func setColor(dc *gg.Context, c css.Color) {
	dc.SetRGB(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0)
}
