// Command stickerbake places stickers on a photo by replaying a gesture
// script and exports the result, without a display or camera.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"assessment-cam/internal/app"
	"assessment-cam/internal/asset"
	"assessment-cam/internal/capture"
	"assessment-cam/internal/config"
	"assessment-cam/internal/export"
	"assessment-cam/internal/gesture"
	"assessment-cam/internal/logging"

	"go.uber.org/zap"
)

const loadTimeout = 30 * time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "stickerbake: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stickerbake", flag.ContinueOnError)
	photoPath := fs.String("base", "", "Path to the base photo (PNG, JPEG, TIFF, BMP or WebP)")
	scriptPath := fs.String("script", "", "Path to a JSON gesture script")
	configPath := fs.String("config", "", "Path to a YAML config file")
	assetsDir := fs.String("assets", "", "Sticker folder (overrides config)")
	outDir := fs.String("out", "", "Export folder (overrides config)")
	quality := fs.Int("quality", 0, "JPEG quality 1-100 (overrides config)")
	id := fs.String("id", "", "6-digit assessment ID (empty exports as NOID)")
	sideFlag := fs.String("side", "", "front|back (default: guessed from the photo name, else front)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *photoPath == "" || *scriptPath == "" {
		fs.Usage()
		return errors.New("-base and -script are required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *assetsDir != "" {
		cfg.Assets.Dir = *assetsDir
	}
	if *outDir != "" {
		cfg.Export.Dir = *outDir
	}
	if *quality != 0 {
		cfg.Export.Quality = *quality
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	side := capture.GuessSide(*photoPath)
	if *sideFlag != "" {
		if side, err = asset.ParseSide(*sideFlag); err != nil {
			return err
		}
	}
	if side == asset.SideUnknown {
		side = asset.SideFront
	}

	data, err := os.ReadFile(*scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	script, err := gesture.LoadScript(data)
	if err != nil {
		return err
	}

	log := logging.Must(cfg.Log.Mode)
	defer logging.Sync(log)

	cache := asset.NewCache(asset.NewDirSource(cfg.Assets.Dir), asset.WithLogger(log.Named("assets")))
	session := app.NewSession(cache,
		app.WithLogger(log),
		app.WithCapturer(capture.File{Path: *photoPath}),
		app.WithWriter(export.NewWriter(cfg.Export.Dir, export.JPEGEncoder{Quality: cfg.Export.Quality},
			export.WithLogger(log.Named("export")))),
		app.WithModelConfig(cfg.Overlay.ModelConfig()),
		app.WithStyle(cfg.Render.Style()),
		app.WithSide(side),
	)
	defer session.Close()

	if err := session.SetAssessmentID(export.NormalizeAssessmentID(*id)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	if err := session.Capture(ctx); err != nil {
		return err
	}
	size := session.SurfaceSize()
	fmt.Fprintf(stdout, "Loaded photo: %.0fx%.0f pixels, %s\n", size.Width, size.Height, side)

	target := &waitingTarget{ctx: ctx, cache: cache, session: session, log: log}
	if err := script.Run(target); err != nil {
		return err
	}

	placed := session.Instances()
	fmt.Fprintf(stdout, "Placed %d sticker(s):\n", len(placed))
	fmt.Fprintf(stdout, "%-24s %8s %8s %8s %8s\n", "Sticker", "X", "Y", "Width", "Height")
	for _, in := range placed {
		fmt.Fprintf(stdout, "%-24s %8.1f %8.1f %8.1f %8.1f\n", in.Type, in.X, in.Y, in.Width, in.Height)
	}

	path, err := session.Export()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Exported %s\n", path)
	return nil
}

// waitingTarget blocks each toggle until the sticker has finished loading,
// so scripts do not race the decoder.
type waitingTarget struct {
	ctx     context.Context
	cache   *asset.Cache
	session *app.Session
	log     *zap.Logger
}

func (t *waitingTarget) Handle(ev gesture.Event) {
	t.session.Handle(ev)
}

func (t *waitingTarget) Toggle(id asset.ID) error {
	if _, err := t.cache.Wait(t.ctx, id); err != nil {
		return err
	}
	return t.session.Toggle(id)
}
