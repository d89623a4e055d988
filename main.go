package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/grabbox/config"
	"github.com/milk9111/grabbox/logging"
	"github.com/milk9111/grabbox/physics"
	"github.com/milk9111/grabbox/remote"
	"github.com/milk9111/grabbox/sandbox"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	listen := flag.String("listen", "", "remote pointer address, overrides the config (\"off\" disables it)")
	debug := flag.Bool("debug", false, "draw physics outlines and the debug HUD")
	seed := flag.Uint64("seed", 0, "palette seed, overrides the config when non-zero")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	switch *listen {
	case "":
	case "off":
		cfg.Listen = ""
	default:
		cfg.Listen = *listen
	}
	if *debug {
		cfg.Debug = config.DebugConfig{Physics: true, HUD: true}
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	sb, err := sandbox.New(
		sandbox.WithSeed(cfg.Seed),
		sandbox.WithLogger(logger),
		sandbox.WithWorld(physics.WithTimestep(1/float64(cfg.TPS))),
	)
	if err != nil {
		logger.Fatal("failed to build sandbox", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	queue := &remote.Queue{}
	var hub *remote.Hub
	if cfg.Listen != "" {
		hub = remote.NewHub(queue, logger)
		g.Go(func() error {
			err := hub.Serve(ctx, cfg.Listen)
			if err != nil {
				logger.Error("remote server stopped", zap.Error(err))
			}
			return err
		})
	}

	game := NewGame(cfg, sb, queue, hub, logger)
	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath)
		if err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close()
			game.WatchConfig(*configPath, watcher)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.TPS)

	runErr := ebiten.RunGame(game)
	cancel()
	_ = g.Wait()
	if runErr != nil {
		logger.Fatal("game exited", zap.Error(runErr))
	}
}
