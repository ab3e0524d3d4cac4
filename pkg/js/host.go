package js

// ContextID identifies one scripting execution context.
type ContextID int32

// TargetID correlates a scripting object with its native render object.
type TargetID int32

// BodyTargetID is reserved for the root body element. The render host creates
// it on InitBody; it is never sent through createElement.
const BodyTargetID TargetID = -1

// Metric names a synchronous numeric element metric read from the render host.
type Metric int

const (
	MetricOffsetLeft Metric = iota
	MetricOffsetTop
	MetricOffsetWidth
	MetricOffsetHeight
	MetricClientWidth
	MetricClientHeight
	MetricClientTop
	MetricClientLeft
	MetricScrollTop
	MetricScrollLeft
	MetricScrollWidth
	MetricScrollHeight
)

var metricNames = [...]string{
	"offsetLeft", "offsetTop", "offsetWidth", "offsetHeight",
	"clientWidth", "clientHeight", "clientTop", "clientLeft",
	"scrollTop", "scrollLeft", "scrollWidth", "scrollHeight",
}

func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return "unknown"
	}
	return metricNames[m]
}

// GeometryResult is the native bounding-rect answer.
type GeometryResult struct {
	X, Y, Width, Height      float64
	Top, Right, Bottom, Left float64
}

// RenderHost is the native side the bridge drives. Methods are called from the
// context's event loop goroutine.
type RenderHost interface {
	// InitBody registers the pre-existing root element of a context.
	InitBody(ctx ContextID, body *NativeHandle)
	// RequestUpdateFrame flushes pending commands and layout before a metric read.
	RequestUpdateFrame()
	ElementMetric(ctx ContextID, target TargetID, m Metric) float64
	GetBoundingClientRect(ctx ContextID, target TargetID) GeometryResult
	Click(ctx ContextID, target TargetID)
	Scroll(ctx ContextID, target TargetID, x, y float64)
	ScrollBy(ctx ContextID, target TargetID, dx, dy float64)
}

// CompletionFunc delivers the result of ExportVisualAsBytes. It may be called
// from any goroutine, at most once per call id.
type CompletionFunc func(call CallID, ctx ContextID, err error, data []byte)

// BlobExporter is implemented by hosts able to rasterize an element.
// ExportVisualAsBytes must not block; the result arrives through done.
type BlobExporter interface {
	ExportVisualAsBytes(call CallID, ctx ContextID, done CompletionFunc, id, devicePixelRatio float64)
}

// ContextDisposer is implemented by hosts that keep per-context state.
type ContextDisposer interface {
	DisposeContext(ctx ContextID)
}
