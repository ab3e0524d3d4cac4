package visualtest

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"kbridge/pkg/config"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCompareImages_Identical(t *testing.T) {
	red := solid(10, 10, color.RGBA{255, 0, 0, 255})
	result, err := CompareImages(red, solid(10, 10, color.RGBA{255, 0, 0, 255}), DefaultOptions())
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if !result.Match || result.DifferentPixels != 0 {
		t.Errorf("expected match, got %+v", result)
	}
}

func TestCompareImages_Different(t *testing.T) {
	opts := DefaultOptions()
	opts.KeepDiff = true
	result, err := CompareImages(solid(10, 10, color.RGBA{255, 0, 0, 255}), solid(10, 10, color.RGBA{0, 0, 255, 255}), opts)
	if err != nil {
		t.Fatalf("comparison failed: %v", err)
	}
	if result.Match {
		t.Errorf("expected images to not match")
	}
	if result.DifferentPixels != 100 {
		t.Errorf("expected 100 different pixels, got %d", result.DifferentPixels)
	}
	if result.Diff == nil || result.Diff.RGBAAt(3, 3) != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("diff image does not mark the difference")
	}
}

func TestCompareImages_WithTolerance(t *testing.T) {
	a := solid(10, 10, color.RGBA{100, 100, 100, 255})
	b := solid(10, 10, color.RGBA{102, 102, 102, 255})

	opts := DefaultOptions()
	opts.Tolerance = 2
	if result, _ := CompareImages(a, b, opts); !result.Match {
		t.Errorf("expected images to match with tolerance=2")
	}
	opts.Tolerance = 0
	if result, _ := CompareImages(a, b, opts); result.Match {
		t.Errorf("expected images to not match with tolerance=0")
	}
	opts.MaxDifferentPercent = 100
	if result, _ := CompareImages(a, b, opts); !result.Match {
		t.Errorf("expected percentage allowance to accept the difference")
	}
}

func TestCompareImages_Fuzzy(t *testing.T) {
	a := solid(5, 5, color.RGBA{255, 255, 255, 255})
	b := solid(5, 5, color.RGBA{255, 255, 255, 255})
	a.Set(2, 2, color.RGBA{0, 0, 0, 255})
	b.Set(3, 2, color.RGBA{0, 0, 0, 255})

	opts := DefaultOptions()
	if result, _ := CompareImages(a, b, opts); result.Match {
		t.Fatal("shifted pixel should not match exactly")
	}
	opts.FuzzyRadius = 1
	if result, _ := CompareImages(a, b, opts); !result.Match {
		t.Errorf("shifted pixel should match with radius 1")
	}
}

func TestCompareImages_DifferentDimensions(t *testing.T) {
	result, err := CompareImages(image.NewRGBA(image.Rect(0, 0, 10, 10)), image.NewRGBA(image.Rect(0, 0, 20, 20)), DefaultOptions())
	if err == nil {
		t.Errorf("expected error for different dimensions")
	}
	if result != nil && result.Match {
		t.Errorf("expected images with different dimensions to not match")
	}
}

func TestCheckScriptAgainstReference(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "box.js")
	err := os.WriteFile(script, []byte(`
		var el = document.createElement("div");
		el.style.height = "20px";
		el.style.backgroundColor = "green";
		document.body.appendChild(el);
	`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Viewport.Width, cfg.Viewport.Height = 40, 30

	ref := filepath.Join(dir, "ref", "box.png")
	if err := RenderScriptToFile(cfg, script, ref); err != nil {
		t.Fatal(err)
	}
	result, err := CheckScript(cfg, script, ref, "", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Match {
		t.Errorf("rendering is not deterministic: %+v", result)
	}

	if err := os.WriteFile(script, []byte(`document.body.style.backgroundColor = "black";`), 0o644); err != nil {
		t.Fatal(err)
	}
	diff := filepath.Join(dir, "diff.png")
	result, err = CheckScript(cfg, script, ref, diff, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if result.Match {
		t.Error("changed script still matches reference")
	}
	if _, err := LoadPNG(diff); err != nil {
		t.Errorf("diff image: %v", err)
	}
}
