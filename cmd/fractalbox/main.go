package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/gekko3d/fractalbox"
	"github.com/gekko3d/fractalbox/rt/editor"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	width := flag.Int("width", 1400, "Window or snapshot width in pixels")
	height := flag.Int("height", 800, "Window or snapshot height in pixels")
	debug := flag.Bool("debug", false, "Enable debug logging")
	ceiling := flag.Int("ceiling", 25000, "Combination count above which the fractal is drawn as points")
	pointLimit := flag.Int("point-limit", 1<<21, "Combination count above which nothing is generated")
	depth := flag.Int("depth", 0, "Initial iteration depth")
	snapshot := flag.String("snapshot", "", "Render one frame to this PNG without opening a window (\"auto\" names it after the session)")
	demo := flag.Bool("demo", false, "Start with a few demo boxes")
	flag.Parse()

	cfg := editor.DefaultConfig()
	cfg.Compose.Ceiling = *ceiling
	cfg.Compose.PointLimit = *pointLimit

	world := editor.NewWorld()
	editorModule := fractalbox.EditorModule{
		Config: cfg,
		Depth:  *depth,
		Demo:   *demo,
		World:  world,
	}

	builder := fractalbox.NewAppBuilder().
		UseModule(fractalbox.LoggingModule{Prefix: "fractalbox", Debug: *debug})

	if *snapshot != "" {
		path := *snapshot
		if path == "auto" {
			path = fmt.Sprintf("fractalbox-%s.png", world.Session())
		}
		app := builder.
			WithFrameLimit(1).
			UseModule(
				fractalbox.TimeModule{},
				fractalbox.CameraModule{},
				editorModule,
				fractalbox.SnapshotModule{Path: path, Width: *width, Height: *height},
			).
			Build()
		app.Run()

		req, _ := fractalbox.Resource[fractalbox.SnapshotRequest](app)
		if !req.Done || req.Err != nil {
			os.Exit(1)
		}
		return
	}

	app := builder.
		UseModule(
			fractalbox.NewPlatformWindow(*width, *height, "fractalbox"),
			fractalbox.TimeModule{},
			fractalbox.InputModule{},
			fractalbox.CameraModule{},
			editorModule,
			fractalbox.RendererModule{},
		).
		Build()
	defer fractalbox.ReleaseRenderer(app)
	app.Run()
}
