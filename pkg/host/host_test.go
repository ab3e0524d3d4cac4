package host

import (
	"bytes"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"kbridge/pkg/js"
)

func newContext(t *testing.T, h *Host) *js.Context {
	t.Helper()
	ctx, err := js.NewContext(h, js.WithLogger(zaptest.NewLogger(t)), js.WithConsole(&strings.Builder{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Dispose)
	return ctx
}

func run(t *testing.T, ctx *js.Context, script string) {
	t.Helper()
	if err := ctx.Execute(script); err != nil {
		t.Fatal(err)
	}
}

func TestMetricsFollowStyleCommands(t *testing.T) {
	h := New(WithLogger(zaptest.NewLogger(t)), WithViewport(400, 300))
	ctx := newContext(t, h)
	run(t, ctx, `
		var a = document.createElement("div");
		a.style.height = "40px";
		a.style.margin = "10px";
		var b = document.createElement("div");
		b.style.width = "100px";
		b.style.height = "20px";
		b.style.padding = "5px";
		b.style.border = "2px solid black";
		document.body.appendChild(a);
		document.body.appendChild(b);

		function eq(name, got, want) {
			if (got !== want) throw new Error(name + ": got " + got + ", want " + want);
		}
		eq("a.offsetWidth", a.offsetWidth, 380);
		eq("a.offsetTop", a.offsetTop, 10);
		eq("b.offsetTop", b.offsetTop, 60);
		eq("b.offsetWidth", b.offsetWidth, 114);
		eq("b.offsetHeight", b.offsetHeight, 34);
		eq("b.clientWidth", b.clientWidth, 110);
		eq("b.clientTop", b.clientTop, 2);
		var r = b.getBoundingClientRect();
		eq("rect.top", r.top, 60);
		eq("rect.right", r.right, 114);
		eq("body.clientHeight", document.body.clientHeight, 300);

		b.style.height = "";
		eq("b.offsetHeight after clear", b.offsetHeight, 14);
		document.body.removeChild(a);
		eq("b.offsetTop after remove", b.offsetTop, 0);
		eq("detached", a.offsetWidth, 0);
	`)
}

func TestScrollIsClamped(t *testing.T) {
	h := New(WithViewport(200, 100))
	ctx := newContext(t, h)
	run(t, ctx, `
		var box = document.createElement("div");
		box.style.height = "50px";
		var inner = document.createElement("div");
		inner.style.height = "200px";
		box.appendChild(inner);
		document.body.appendChild(box);

		if (box.scrollHeight !== 200) throw new Error("scrollHeight: " + box.scrollHeight);
		box.scroll(0, 30);
		if (box.scrollTop !== 30) throw new Error("scrollTop: " + box.scrollTop);
		box.scrollBy(0, 1000);
		if (box.scrollTop !== 150) throw new Error("clamped scrollTop: " + box.scrollTop);
		if (inner.getBoundingClientRect().top !== -150) throw new Error("inner top: " + inner.getBoundingClientRect().top);
		box.scrollTop = -5;
		if (box.scrollTop !== 0) throw new Error("negative scroll: " + box.scrollTop);
	`)
}

func TestClickAndListeners(t *testing.T) {
	h := New()
	ctx := newContext(t, h)
	run(t, ctx, `
		var el = new Element("button", 5);
		el.addEventListener("click", function() {});
		document.body.appendChild(el);
		el.click();
		el.click();
	`)
	if got := h.Clicks(ctx.ID(), 5); got != 2 {
		t.Errorf("clicks: got %d, want 2", got)
	}
	h.RequestUpdateFrame()
	if got := h.Listeners(ctx.ID(), 5); len(got) != 1 || got[0] != "click" {
		t.Errorf("listeners: %v", got)
	}
}

func TestToBlobExportsPNG(t *testing.T) {
	h := New(WithViewport(100, 100))
	ctx := newContext(t, h)
	run(t, ctx, `
		var el = document.createElement("div");
		el.style.width = "10px";
		el.style.height = "5px";
		el.style.backgroundColor = "blue";
		document.body.appendChild(el);
		var size, failure;
		el.toBlob(el.targetId, 3).then(function(b) { size = b.size; return b.arrayBuffer(); })
			.then(function(buf) { globalThis.png = new Uint8Array(buf); })
			.catch(function(e) { failure = e.message; });
		var missing;
		el.toBlob(999, 1).catch(function(e) { missing = e.message; });
	`)
	deadline := time.Now().Add(2 * time.Second)
	var data []byte
	for time.Now().Before(deadline) {
		v, err := ctx.Eval(`globalThis.png ? Array.from(globalThis.png) : (failure || null)`)
		if err != nil {
			t.Fatal(err)
		}
		if s, ok := v.(string); ok {
			t.Fatalf("export failed: %s", s)
		}
		if items, ok := v.([]any); ok {
			for _, it := range items {
				data = append(data, byte(it.(int64)))
			}
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if data == nil {
		t.Fatal("timed out waiting for blob")
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 15 {
		t.Errorf("png size: %v", b)
	}

	h.Wait()
	v, err := ctx.Eval(`missing`)
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := v.(string); !strings.Contains(s, "999") {
		t.Errorf("missing element error: %v", v)
	}
}

func TestToBlobRejectsOversizedCanvas(t *testing.T) {
	h := New()
	ctx := newContext(t, h)
	run(t, ctx, `
		var huge, big;
		document.body.toBlob(document.body.targetId, 1e5).catch(function(e) { huge = e.message; });
		setTimeout(function() {
			document.body.toBlob(document.body.targetId, 50).catch(function(e) { big = e.message; });
		}, 0);
	`)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err := ctx.Eval(`huge && big ? [huge, big] : null`)
		if err != nil {
			t.Fatal(err)
		}
		if msgs, ok := v.([]any); ok {
			for _, m := range msgs {
				if s, _ := m.(string); !strings.Contains(s, "exceeds") {
					t.Errorf("rejection message: %q", s)
				}
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for rejections")
}

func TestDisposeDropsDocument(t *testing.T) {
	h := New()
	ctx, err := js.NewContext(h)
	if err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var applied []string
	h.onCommand = func(_ js.ContextID, cmd js.UICommand) {
		mu.Lock()
		defer mu.Unlock()
		applied = append(applied, cmd.Type.String())
	}
	run(t, ctx, `document.body.appendChild(document.createElement("p"));`)
	id := ctx.ID()
	ctx.Dispose()
	if _, err := h.Snapshot(id, 1); err == nil {
		t.Error("document survived dispose")
	}
	mu.Lock()
	defer mu.Unlock()
	disposed := 0
	for _, name := range applied {
		if name == "disposeEventTarget" {
			disposed++
		}
	}
	if disposed != 2 {
		t.Errorf("disposeEventTarget applied %d times, want 2 (%v)", disposed, applied)
	}
}

func TestSnapshot(t *testing.T) {
	h := New(WithViewport(64, 32))
	ctx := newContext(t, h)
	run(t, ctx, `
		var el = document.createElement("div");
		el.style.height = "32px";
		el.style.backgroundColor = "#00ff00";
		document.body.appendChild(el);
	`)
	img, err := h.Snapshot(ctx.ID(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds: %v", b)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r != 0 || g>>8 != 255 || b != 0 {
		t.Errorf("pixel: %d %d %d", r>>8, g>>8, b>>8)
	}

	img, err = h.Snapshot(ctx.ID(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("scaled bounds: %v", b)
	}
	if _, err := h.Snapshot(ctx.ID(), 0); err == nil {
		t.Error("expected error for zero ratio")
	}
}
