// Package host is a reference render host for the scripting bridge. It keeps
// one render tree per context, applies queued UI commands to it, lays it out,
// answers geometry queries, and rasterizes elements for toBlob.
package host

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"kbridge/pkg/js"
	"kbridge/pkg/layout"
	"kbridge/pkg/render"
	"kbridge/pkg/text"
)

// Host implements js.RenderHost, js.BlobExporter and js.ContextDisposer.
type Host struct {
	mu        sync.Mutex
	logger    *zap.Logger
	width     float64
	height    float64
	measurer  *text.Measurer
	documents map[js.ContextID]*document
	onCommand func(js.ContextID, js.UICommand)
	exports   sync.WaitGroup
}

var (
	_ js.RenderHost      = (*Host)(nil)
	_ js.BlobExporter    = (*Host)(nil)
	_ js.ContextDisposer = (*Host)(nil)
)

// document is the render state of one context.
type document struct {
	id     js.ContextID
	nodes  map[js.TargetID]*layout.Node
	body   *layout.Node
	root   *layout.Box
	boxes  map[*layout.Node]*layout.Box
	dirty  bool
	clicks map[js.TargetID]int
	events map[js.TargetID][]string
}

// Option configures a Host.
type Option func(*Host)

func WithLogger(l *zap.Logger) Option {
	return func(h *Host) { h.logger = l }
}

// WithViewport sets the layout viewport in CSS pixels.
func WithViewport(width, height float64) Option {
	return func(h *Host) { h.width, h.height = width, height }
}

// WithFontPath measures and paints text with the given font file.
func WithFontPath(path string) Option {
	return func(h *Host) { h.measurer = &text.Measurer{FontPath: path} }
}

// WithCommandHook is called for every command the host applies.
func WithCommandHook(fn func(js.ContextID, js.UICommand)) Option {
	return func(h *Host) { h.onCommand = fn }
}

func New(opts ...Option) *Host {
	h := &Host{
		logger:    zap.NewNop(),
		width:     800,
		height:    600,
		measurer:  &text.Measurer{},
		documents: make(map[js.ContextID]*document),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitBody creates the render tree of a context rooted at the body element.
func (h *Host) InitBody(ctx js.ContextID, body *js.NativeHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	root := layout.NewElement(int32(body.TargetID()), "body")
	h.documents[ctx] = &document{
		id:     ctx,
		nodes:  map[js.TargetID]*layout.Node{body.TargetID(): root},
		body:   root,
		dirty:  true,
		clicks: make(map[js.TargetID]int),
		events: make(map[js.TargetID][]string),
	}
	h.logger.Debug("body initialized", zap.Int32("context", int32(ctx)))
}

// RequestUpdateFrame applies pending commands of every context and lays out
// the trees that changed.
func (h *Host) RequestUpdateFrame() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, doc := range h.documents {
		h.flush(doc)
	}
}

// flush drains the context's queue and relayouts when needed. h.mu is held.
func (h *Host) flush(doc *document) {
	if q := js.CommandQueueFor(doc.id); q != nil {
		for _, cmd := range q.Drain() {
			h.apply(doc, cmd)
		}
	}
	if !doc.dirty && doc.root != nil {
		return
	}
	engine := layout.NewLayoutEngine(h.width, h.height)
	engine.SetMeasurer(h.measurer)
	doc.root = engine.Layout(doc.body)
	doc.boxes = make(map[*layout.Node]*layout.Box)
	if doc.root != nil {
		doc.root.Walk(func(b *layout.Box) { doc.boxes[b.Node] = b })
	}
	doc.dirty = false
}

func (h *Host) apply(doc *document, cmd js.UICommand) {
	if h.onCommand != nil {
		h.onCommand(doc.id, cmd)
	}
	doc.dirty = true
	arg := func(i int) string {
		if i < len(cmd.Args) {
			return cmd.Args[i]
		}
		return ""
	}

	switch cmd.Type {
	case js.CommandCreateElement:
		doc.nodes[cmd.TargetID] = layout.NewElement(int32(cmd.TargetID), arg(0))
		return
	case js.CommandCreateTextNode:
		doc.nodes[cmd.TargetID] = layout.NewText(int32(cmd.TargetID), arg(0))
		return
	}

	node, ok := doc.nodes[cmd.TargetID]
	if !ok {
		h.logger.Warn("command for unknown target",
			zap.Int32("context", int32(doc.id)),
			zap.Int32("target", int32(cmd.TargetID)),
			zap.Stringer("type", cmd.Type))
		return
	}

	switch cmd.Type {
	case js.CommandDisposeEventTarget:
		if node != doc.body {
			delete(doc.nodes, cmd.TargetID)
		}
		delete(doc.events, cmd.TargetID)
	case js.CommandAddEvent:
		doc.events[cmd.TargetID] = append(doc.events[cmd.TargetID], arg(0))
	case js.CommandInsertAdjacentNode:
		h.insertAdjacent(doc, node, arg(0), arg(1))
	case js.CommandRemoveNode:
		node.Detach()
	case js.CommandSetStyle:
		node.Style.Set(arg(0), arg(1))
	case js.CommandSetProperty:
		if arg(0) == "data" && node.IsText {
			node.Text = arg(1)
		}
	}
}

func (h *Host) insertAdjacent(doc *document, target *layout.Node, childID, position string) {
	id, err := strconv.ParseInt(childID, 10, 32)
	if err != nil {
		h.logger.Warn("insertAdjacentNode: bad child id", zap.String("child", childID))
		return
	}
	child, ok := doc.nodes[js.TargetID(id)]
	if !ok {
		h.logger.Warn("insertAdjacentNode: unknown child", zap.Int64("child", id))
		return
	}
	switch position {
	case "beforeend":
		target.AppendChild(child)
	case "afterbegin":
		if len(target.Children) == 0 {
			target.AppendChild(child)
		} else {
			child.InsertBefore(target.Children[0])
		}
	case "beforebegin":
		child.InsertBefore(target)
	case "afterend":
		p := target.Parent
		if p == nil {
			return
		}
		idx := p.IndexOf(target)
		if idx == len(p.Children)-1 {
			p.AppendChild(child)
		} else {
			child.InsertBefore(p.Children[idx+1])
		}
	default:
		h.logger.Warn("insertAdjacentNode: unknown position", zap.String("position", position))
	}
}

func (h *Host) box(ctx js.ContextID, target js.TargetID) (*document, *layout.Box) {
	doc, ok := h.documents[ctx]
	if !ok {
		return nil, nil
	}
	h.flush(doc)
	node, ok := doc.nodes[target]
	if !ok {
		return doc, nil
	}
	return doc, doc.boxes[node]
}

// ElementMetric answers the offset/client/scroll getters. Detached or
// undisplayed elements report 0.
func (h *Host) ElementMetric(ctx js.ContextID, target js.TargetID, m js.Metric) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, b := h.box(ctx, target)
	if b == nil {
		return 0
	}
	switch m {
	case js.MetricOffsetLeft:
		if b == doc.root {
			return 0
		}
		return b.X - (doc.root.X + doc.root.Border.Left)
	case js.MetricOffsetTop:
		if b == doc.root {
			return 0
		}
		return b.Y - (doc.root.Y + doc.root.Border.Top)
	case js.MetricOffsetWidth:
		return b.BorderBoxWidth()
	case js.MetricOffsetHeight:
		return b.BorderBoxHeight()
	case js.MetricClientWidth:
		return b.ClientWidth()
	case js.MetricClientHeight:
		return b.ClientHeight()
	case js.MetricClientTop:
		return b.Border.Top
	case js.MetricClientLeft:
		return b.Border.Left
	case js.MetricScrollTop:
		return b.Node.ScrollY
	case js.MetricScrollLeft:
		return b.Node.ScrollX
	case js.MetricScrollWidth:
		return b.ScrollWidth()
	case js.MetricScrollHeight:
		return b.ScrollHeight()
	}
	return 0
}

// GetBoundingClientRect returns the border box in viewport coordinates.
func (h *Host) GetBoundingClientRect(ctx js.ContextID, target js.TargetID) js.GeometryResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, b := h.box(ctx, target)
	if b == nil {
		return js.GeometryResult{}
	}
	w, ht := b.BorderBoxWidth(), b.BorderBoxHeight()
	return js.GeometryResult{
		X: b.X, Y: b.Y, Width: w, Height: ht,
		Top: b.Y, Right: b.X + w, Bottom: b.Y + ht, Left: b.X,
	}
}

func (h *Host) Click(ctx js.ContextID, target js.TargetID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, ok := h.documents[ctx]
	if !ok {
		return
	}
	doc.clicks[target]++
	h.logger.Debug("click",
		zap.Int32("context", int32(ctx)),
		zap.Int32("target", int32(target)),
		zap.Strings("listeners", doc.events[target]))
}

// Scroll sets the scroll offsets, clamped to the scrollable range.
func (h *Host) Scroll(ctx js.ContextID, target js.TargetID, x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrollTo(ctx, target, func(*layout.Node) (float64, float64) { return x, y })
}

func (h *Host) ScrollBy(ctx js.ContextID, target js.TargetID, dx, dy float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scrollTo(ctx, target, func(n *layout.Node) (float64, float64) {
		return n.ScrollX + dx, n.ScrollY + dy
	})
}

func (h *Host) scrollTo(ctx js.ContextID, target js.TargetID, pos func(*layout.Node) (float64, float64)) {
	doc, b := h.box(ctx, target)
	if b == nil {
		return
	}
	x, y := pos(b.Node)
	b.Node.ScrollX = clamp(x, 0, b.ScrollWidth()-b.ClientWidth())
	b.Node.ScrollY = clamp(y, 0, b.ScrollHeight()-b.ClientHeight())
	doc.dirty = true
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	hi = math.Max(lo, hi)
	return math.Min(math.Max(v, lo), hi)
}

// ExportVisualAsBytes rasterizes the element with target id to PNG. The
// snapshot is taken immediately; done is invoked from another goroutine.
func (h *Host) ExportVisualAsBytes(call js.CallID, ctx js.ContextID, done js.CompletionFunc, id, devicePixelRatio float64) {
	data, err := h.exportPNG(ctx, id, devicePixelRatio)
	if err != nil {
		h.logger.Warn("export failed",
			zap.Uint64("call", uint64(call)),
			zap.Int32("context", int32(ctx)),
			zap.Error(err))
	}
	h.exports.Add(1)
	go func() {
		defer h.exports.Done()
		done(call, ctx, err, data)
	}()
}

func (h *Host) exportPNG(ctx js.ContextID, id, devicePixelRatio float64) ([]byte, error) {
	if id != math.Trunc(id) || id < math.MinInt32 || id > math.MaxInt32 {
		return nil, fmt.Errorf("element id %v is not an integer", id)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, b := h.box(ctx, js.TargetID(id))
	if doc == nil {
		return nil, fmt.Errorf("context %d has no document", ctx)
	}
	if b == nil {
		return nil, fmt.Errorf("element %d is not rendered", int32(id))
	}
	r, err := render.RenderSubtree(b, devicePixelRatio)
	if err != nil {
		return nil, err
	}
	return r.EncodePNG()
}

// Wait blocks until every pending export completion was delivered.
func (h *Host) Wait() {
	h.exports.Wait()
}

// DisposeContext applies the context's remaining commands and drops its
// render tree.
func (h *Host) DisposeContext(ctx js.ContextID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, ok := h.documents[ctx]
	if !ok {
		return
	}
	if q := js.CommandQueueFor(ctx); q != nil {
		for _, cmd := range q.Drain() {
			h.apply(doc, cmd)
		}
	}
	delete(h.documents, ctx)
	h.logger.Debug("context disposed", zap.Int32("context", int32(ctx)))
}

// Snapshot paints the whole viewport of a context at devicePixelRatio.
func (h *Host) Snapshot(ctx js.ContextID, devicePixelRatio float64) (image.Image, error) {
	w, ht, err := render.CanvasSize(h.width, h.height, devicePixelRatio)
	if err != nil {
		return nil, fmt.Errorf("host: snapshot: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	doc, ok := h.documents[ctx]
	if !ok {
		return nil, fmt.Errorf("host: unknown context %d", ctx)
	}
	h.flush(doc)
	r := render.NewRenderer(w, ht)
	r.Scale(devicePixelRatio)
	r.Render(doc.root)
	return r.Image(), nil
}

// Clicks returns how often target was clicked.
func (h *Host) Clicks(ctx js.ContextID, target js.TargetID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if doc, ok := h.documents[ctx]; ok {
		return doc.clicks[target]
	}
	return 0
}

// Listeners returns the event types registered for target.
func (h *Host) Listeners(ctx js.ContextID, target js.TargetID) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if doc, ok := h.documents[ctx]; ok {
		return append([]string(nil), doc.events[target]...)
	}
	return nil
}
