package resource

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"kbridge/pkg/config"
	"kbridge/pkg/host"
	"kbridge/pkg/js"
)

// Script is one named source file.
type Script struct {
	Name   string
	Source string
}

// Result is what a run leaves behind.
type Result struct {
	Image image.Image
	// Pending counts native calls that were still outstanding when the
	// run gave up waiting.
	Pending int
}

// Runner executes scripts against a fresh host and context and snapshots
// the resulting document.
type Runner struct {
	cfg     config.Config
	logger  *zap.Logger
	fetcher Fetcher
	console io.Writer
	trace   io.Writer
	settle  time.Duration
}

type RunnerOption func(*Runner)

func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

func WithFetcher(f Fetcher) RunnerOption {
	return func(r *Runner) { r.fetcher = f }
}

// WithConsole directs console.log output of the scripts to w.
func WithConsole(w io.Writer) RunnerOption {
	return func(r *Runner) { r.console = w }
}

// WithTrace writes one line per UI command applied by the host.
func WithTrace(w io.Writer) RunnerOption {
	return func(r *Runner) { r.trace = w }
}

// WithSettleTimeout bounds how long Run waits for outstanding native calls.
func WithSettleTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) { r.settle = d }
}

func NewRunner(cfg config.Config, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:     cfg,
		logger:  zap.NewNop(),
		fetcher: NewFetcher(),
		console: os.Stdout,
		settle:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load fetches every uri in order.
func (r *Runner) Load(ctx context.Context, uris []string) ([]Script, error) {
	scripts := make([]Script, 0, len(uris))
	for _, uri := range uris {
		src, err := FetchScript(ctx, r.fetcher, uri)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", uri, err)
		}
		scripts = append(scripts, Script{Name: uri, Source: src})
	}
	return scripts, nil
}

// Run executes scripts in order, waits for pending native calls to settle,
// then paints the viewport. The context is disposed before Run returns.
func (r *Runner) Run(ctx context.Context, scripts []Script) (*Result, error) {
	opts := []host.Option{
		host.WithLogger(r.logger),
		host.WithViewport(r.cfg.Viewport.Width, r.cfg.Viewport.Height),
		host.WithFontPath(r.cfg.Font.Path),
	}
	if r.trace != nil {
		opts = append(opts, host.WithCommandHook(r.traceCommand))
	}
	h := host.New(opts...)

	jctx, err := js.NewContext(h, js.WithLogger(r.logger), js.WithConsole(r.console))
	if err != nil {
		return nil, err
	}
	defer jctx.Dispose()

	for _, s := range scripts {
		if err := jctx.ExecuteScript(s.Name, s.Source); err != nil {
			return nil, fmt.Errorf("executing %s: %w", s.Name, err)
		}
	}

	pending, err := r.waitForCalls(ctx, jctx)
	if err != nil {
		return nil, err
	}
	h.Wait()
	// Settlement callbacks queued on the loop run before this returns.
	if _, err := jctx.Eval("undefined"); err != nil {
		return nil, err
	}
	if pending > 0 {
		r.logger.Warn("native calls still pending", zap.Int("count", pending))
	}

	img, err := h.Snapshot(jctx.ID(), r.cfg.Viewport.DevicePixelRatio)
	if err != nil {
		return nil, err
	}
	return &Result{Image: img, Pending: pending}, nil
}

func (r *Runner) waitForCalls(ctx context.Context, jctx *js.Context) (int, error) {
	deadline := time.NewTimer(r.settle)
	defer deadline.Stop()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for {
		n := jctx.PendingCalls()
		if n == 0 {
			return 0, nil
		}
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case <-deadline.C:
			return n, nil
		case <-tick.C:
		}
	}
}

func (r *Runner) traceCommand(ctx js.ContextID, cmd js.UICommand) {
	args := make([]string, len(cmd.Args))
	for i, a := range cmd.Args {
		args[i] = strconv.Quote(a)
	}
	fmt.Fprintf(r.trace, "%d %d %s [%s]\n", ctx, cmd.TargetID, cmd.Type, strings.Join(args, ", "))
}
