package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"kbridge/pkg/config"
	"kbridge/pkg/js"
	"kbridge/pkg/resource"
	"kbridge/pkg/visualtest"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	width := flag.Float64("w", 0, "viewport width in pixels (overrides config)")
	height := flag.Float64("h", 0, "viewport height in pixels (overrides config)")
	dpr := flag.Float64("dpr", 0, "device pixel ratio of the snapshot (overrides config)")
	output := flag.String("o", "output.png", "output PNG file path, empty to skip")
	trace := flag.Bool("trace", false, "print every UI command applied by the host")
	expect := flag.String("expect", "", "reference PNG the snapshot must match")
	diffPath := flag.String("diff", "", "where to write the diff image when -expect fails")
	tolerance := flag.Int("tolerance", 2, "per-channel tolerance for -expect")
	wait := flag.Duration("wait", 5*time.Second, "how long to wait for pending native calls")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kbridge [flags] <script.js|url|-> ...\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *width > 0 {
		cfg.Viewport.Width = *width
	}
	if *height > 0 {
		cfg.Viewport.Height = *height
	}
	if *dpr > 0 {
		cfg.Viewport.DevicePixelRatio = *dpr
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	js.SetLogger(logger)

	opts := []resource.RunnerOption{
		resource.WithLogger(logger),
		resource.WithSettleTimeout(*wait),
	}
	if *trace {
		opts = append(opts, resource.WithTrace(os.Stderr))
	}
	runner := resource.NewRunner(cfg, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	scripts, err := runner.Load(ctx, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Running %d script(s) at %vx%v...\n", len(scripts), cfg.Viewport.Width, cfg.Viewport.Height)
	res, err := runner.Run(ctx, scripts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if res.Pending > 0 {
		logger.Warn("gave up waiting for native calls", zap.Int("pending", res.Pending))
	}

	if *output != "" {
		if err := writePNG(*output, res.Image); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", *output)
	}

	if *expect != "" {
		opts := visualtest.DefaultOptions()
		opts.Tolerance = *tolerance
		opts.KeepDiff = *diffPath != ""
		result, err := visualtest.CompareWithReference(res.Image, *expect, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error comparing with %s: %v\n", *expect, err)
			os.Exit(1)
		}
		if !result.Match {
			if result.Diff != nil {
				if err := writePNG(*diffPath, result.Diff); err != nil {
					fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				}
			}
			fmt.Fprintf(os.Stderr, "FAIL: %d of %d pixels differ (max difference %d)\n",
				result.DifferentPixels, result.TotalPixels, result.MaxDifference)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "PASS: matches %s\n", *expect)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
