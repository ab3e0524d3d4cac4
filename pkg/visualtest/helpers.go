package visualtest

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"kbridge/pkg/config"
	"kbridge/pkg/resource"
)

// RenderScripts runs the script files against a fresh document and returns
// the painted viewport.
func RenderScripts(cfg config.Config, paths ...string) (image.Image, error) {
	runner := resource.NewRunner(cfg, resource.WithConsole(io.Discard))
	scripts, err := runner.Load(context.Background(), paths)
	if err != nil {
		return nil, err
	}
	res, err := runner.Run(context.Background(), scripts)
	if err != nil {
		return nil, err
	}
	if res.Pending > 0 {
		return nil, fmt.Errorf("%d native call(s) did not settle", res.Pending)
	}
	return res.Image, nil
}

// RenderScriptToFile renders a script file to a PNG file.
func RenderScriptToFile(cfg config.Config, scriptPath, outputPath string) error {
	img, err := RenderScripts(cfg, scriptPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return SavePNG(img, outputPath)
}

// CheckScript renders scriptPath and compares it with referencePath. When the
// images differ and diffPath is set, the diff image is written there.
func CheckScript(cfg config.Config, scriptPath, referencePath, diffPath string, opts CompareOptions) (*CompareResult, error) {
	img, err := RenderScripts(cfg, scriptPath)
	if err != nil {
		return nil, err
	}
	opts.KeepDiff = diffPath != ""
	result, err := CompareWithReference(img, referencePath, opts)
	if err != nil {
		return result, err
	}
	if result.Diff != nil {
		if err := SavePNG(result.Diff, diffPath); err != nil {
			return result, fmt.Errorf("failed to save diff image: %w", err)
		}
	}
	return result, nil
}
