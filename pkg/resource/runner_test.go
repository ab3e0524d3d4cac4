package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"kbridge/pkg/config"
)

func newRunner(t *testing.T, console, trace *strings.Builder) *Runner {
	cfg := config.Default()
	cfg.Viewport.Width, cfg.Viewport.Height = 50, 40
	return NewRunner(cfg,
		WithLogger(zaptest.NewLogger(t)),
		WithConsole(console),
		WithTrace(trace),
	)
}

func TestRunPaintsAndTraces(t *testing.T) {
	var console, trace strings.Builder
	r := newRunner(t, &console, &trace)
	res, err := r.Run(context.Background(), []Script{
		{Name: "a.js", Source: `
			var el = document.createElement("div");
			el.style.height = "40px";
			el.style.backgroundColor = "red";
			document.body.appendChild(el);
		`},
		{Name: "b.js", Source: `
			el.toBlob(el.targetId, 1).then(function(b) { console.log("blob " + b.type); });
		`},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Pending != 0 {
		t.Errorf("pending: %d", res.Pending)
	}
	if b := res.Image.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("bounds: %v", b)
	}
	red, _, _, _ := res.Image.At(5, 5).RGBA()
	if red>>8 != 255 {
		t.Errorf("expected red pixel, got %v", res.Image.At(5, 5))
	}
	if !strings.Contains(console.String(), "blob image/png") {
		t.Errorf("console: %q", console.String())
	}
	for _, want := range []string{`createElement ["div"]`, `setStyle ["height", "40px"]`, `insertAdjacentNode [`, "disposeEventTarget"} {
		if !strings.Contains(trace.String(), want) {
			t.Errorf("trace missing %q:\n%s", want, trace.String())
		}
	}
}

func TestRunReportsScriptError(t *testing.T) {
	var console, trace strings.Builder
	r := newRunner(t, &console, &trace)
	_, err := r.Run(context.Background(), []Script{{Name: "bad.js", Source: `throw new Error("boom")`}})
	if err == nil || !strings.Contains(err.Error(), "bad.js") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.js")
	if err := os.WriteFile(path, []byte("var local = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/image.png" {
			w.Header().Set("Content-Type", "image/png")
		} else {
			w.Header().Set("Content-Type", "application/javascript")
		}
		w.Write([]byte("var remote = 2;"))
	}))
	defer srv.Close()

	r := NewRunner(config.Default(), WithFetcher(&DefaultFetcher{Stdin: strings.NewReader("var piped = 3;")}))
	scripts, err := r.Load(context.Background(), []string{path, srv.URL + "/app.js", "-"})
	if err != nil {
		t.Fatal(err)
	}
	got := []string{scripts[0].Source, scripts[1].Source, scripts[2].Source}
	want := []string{"var local = 1;", "var remote = 2;", "var piped = 3;"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("script %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if _, err := r.Load(context.Background(), []string{srv.URL + "/image.png"}); err == nil {
		t.Error("expected content type error")
	}
	if _, err := r.Load(context.Background(), []string{filepath.Join(dir, "missing.js")}); err == nil {
		t.Error("expected missing file error")
	}
}
