// Command headless runs the sandbox without a window. Players connect over
// WebSocket only.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/grabbox/config"
	"github.com/milk9111/grabbox/logging"
	"github.com/milk9111/grabbox/physics"
	"github.com/milk9111/grabbox/remote"
	"github.com/milk9111/grabbox/render"
	"github.com/milk9111/grabbox/sandbox"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	listen := flag.String("listen", "", "remote pointer address, overrides the config")
	statsEvery := flag.Duration("stats", 5*time.Second, "how often to log a frame summary (0 disables)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Listen == "" {
		logger.Fatal("headless mode needs a listen address")
	}

	sb, err := sandbox.New(
		sandbox.WithSeed(cfg.Seed),
		sandbox.WithLogger(logger),
		sandbox.WithWorld(physics.WithTimestep(1/float64(cfg.TPS))),
	)
	if err != nil {
		logger.Fatal("failed to build sandbox", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := &remote.Queue{}
	hub := remote.NewHub(queue, logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Serve(ctx, cfg.Listen)
	})
	g.Go(func() error {
		return run(ctx, sb, queue, hub, cfg.TPS, *statsEvery, logger)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("headless host stopped", zap.Error(err))
	}
	logger.Info("headless host stopped")
}

func run(ctx context.Context, sb *sandbox.Sandbox, queue *remote.Queue, hub *remote.Hub, tps int, statsEvery time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(time.Second / time.Duration(tps))
	defer ticker.Stop()

	var rec render.Recorder
	lastStats := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			for _, evt := range queue.Drain() {
				sb.Handle(evt, nil)
			}
			sb.Handle(sandbox.FixedUpdate{}, nil)

			if statsEvery <= 0 || now.Sub(lastStats) < statsEvery {
				continue
			}
			lastStats = now
			rec.Reset()
			sb.Handle(sandbox.Draw{}, &rec)
			logger.Info("frame",
				zap.Uint64("tick", sb.Ticks()),
				zap.Int("bodies", sb.World().BodyCount()),
				zap.Int("pointers", sb.Machine().Len()),
				zap.Int("players", hub.Connected()),
				zap.Int("draw_commands", len(rec.Commands)))
		}
	}
}
