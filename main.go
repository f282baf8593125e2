// Package main provides the entry point for the Assessment Camera application.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"assessment-cam/internal/app"
	"assessment-cam/internal/asset"
	"assessment-cam/internal/capture"
	"assessment-cam/internal/config"
	"assessment-cam/internal/export"
	"assessment-cam/internal/logging"
	"assessment-cam/internal/version"
	"assessment-cam/ui/dialogs"
	"assessment-cam/ui/mainwindow"
	"assessment-cam/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"
)

const (
	appID              = "com.assessmentcam.app"
	stickerCheckPeriod = 2 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.Must(cfg.Log.Mode)
	defer logging.Sync(log)
	log.Info("starting",
		zap.String("version", version.String()),
		zap.String("stickers", cfg.Assets.Dir),
		zap.String("exports", cfg.Export.Dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := asset.NewDirSource(cfg.Assets.Dir)
	cache := asset.NewCache(source, asset.WithLogger(log.Named("assets")))
	catalogs := make(map[asset.Side][]asset.ID)
	for _, side := range []asset.Side{asset.SideFront, asset.SideBack} {
		ids, err := cfg.Assets.ResolveCatalog(side, source)
		if err != nil {
			log.Warn("no stickers for side", zap.Stringer("side", side), zap.Error(err))
		}
		catalogs[side] = ids
	}
	camera := capture.NewCamera(cfg.Camera.Devices,
		capture.WithResolution(cfg.Camera.Width, cfg.Camera.Height),
		capture.WithCameraLogger(log.Named("camera")))
	defer camera.Close()

	session := app.NewSession(cache,
		app.WithLogger(log),
		app.WithCapturer(camera),
		app.WithWriter(export.NewWriter(cfg.Export.Dir, export.JPEGEncoder{Quality: cfg.Export.Quality},
			export.WithLogger(log.Named("export")))),
		app.WithModelConfig(cfg.Overlay.ModelConfig()),
		app.WithStyle(cfg.Render.Style()),
		app.WithFrameInterval(cfg.Render.FrameInterval),
		app.WithCatalog(asset.SideFront, catalogs[asset.SideFront]),
		app.WithCatalog(asset.SideBack, catalogs[asset.SideBack]),
	)
	defer session.Close()

	go func() {
		if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("render loop stopped", zap.Error(err))
		}
	}()
	go func() {
		if err := session.Preload(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("some stickers failed to load", zap.Error(err))
		}
	}()

	setupStickerWatch(session, cfg.Assets.Dir, log)

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.AssessmentTheme{})

	win := mainwindow.New(ctx, fyneApp, session, prefs.Load(),
		dialogs.ExportSettings{Dir: cfg.Export.Dir, Quality: cfg.Export.Quality},
		log.Named("ui"))
	win.ShowAndRun()
}

// setupStickerWatch retries failed sticker loads when the sticker folder
// changes on disk.
func setupStickerWatch(session *app.Session, dir string, log *zap.Logger) {
	watcher := app.NewDirWatcher(dir, stickerCheckPeriod)
	if watcher == nil {
		log.Warn("sticker folder not readable, not watching", zap.String("dir", dir))
		return
	}
	watcher.OnChange(func() {
		log.Info("sticker folder changed", zap.String("dir", watcher.Root()))
		session.RetryFailedAssets()
	})
	watcher.Start()
}
