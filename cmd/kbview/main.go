package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"kbridge/pkg/config"
	"kbridge/pkg/js"
	"kbridge/pkg/resource"
)

const sampleScript = `var box = document.createElement("div");
box.style.height = "80px";
box.style.margin = "10px";
box.style.backgroundColor = "steelblue";
box.appendChild(document.createTextNode("hello from the bridge"));
document.body.appendChild(box);
console.log("offsetHeight", box.offsetHeight);`

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	logger, err := cfg.Log.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	js.SetLogger(logger)

	a := app.New()
	w := a.NewWindow("kbridge viewer")
	w.Resize(fyne.NewSize(float32(cfg.Viewport.Width)+420, float32(cfg.Viewport.Height)+80))

	blank := image.NewRGBA(image.Rect(0, 0, int(cfg.Viewport.Width), int(cfg.Viewport.Height)))
	canvasImg := canvas.NewImageFromImage(blank)
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Edit the script and press Run")

	editor := widget.NewMultiLineEntry()
	editor.SetText(sampleScript)
	if flag.NArg() > 0 {
		if src, err := os.ReadFile(flag.Arg(0)); err == nil {
			editor.SetText(string(src))
		} else {
			status.SetText("Error: " + err.Error())
		}
	}

	console := widget.NewMultiLineEntry()
	console.Disable()

	var run *widget.Button
	run = widget.NewButton("Run", func() {
		run.Disable()
		status.SetText("Running...")
		script := editor.Text
		go func() {
			var out strings.Builder
			runner := resource.NewRunner(cfg,
				resource.WithLogger(logger),
				resource.WithConsole(&out))
			res, err := runner.Run(context.Background(), []resource.Script{{Name: "editor.js", Source: script}})
			fyne.Do(func() {
				defer run.Enable()
				console.SetText(out.String())
				if err != nil {
					status.SetText("Error: " + err.Error())
					return
				}
				canvasImg.Image = res.Image
				canvasImg.Refresh()
				if res.Pending > 0 {
					status.SetText(fmt.Sprintf("Done, %d call(s) still pending", res.Pending))
				} else {
					status.SetText("Done")
				}
			})
		}()
	})

	left := container.NewBorder(nil, run, nil, nil, container.NewVSplit(editor, console))
	content := container.NewBorder(nil, status, left, nil, container.NewScroll(canvasImg))
	w.SetContent(content)
	w.Canvas().Focus(editor)

	w.ShowAndRun()
}
