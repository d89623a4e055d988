package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/grabbox/config"
	"github.com/milk9111/grabbox/remote"
	"github.com/milk9111/grabbox/render/ebitenrender"
	"github.com/milk9111/grabbox/sandbox"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

type Game struct {
	frames int

	width, height int
	debug         config.DebugConfig

	sandbox *sandbox.Sandbox
	input   *Input
	remote  *remote.Queue
	hub     *remote.Hub
	canvas  *ebitenrender.Canvas

	configPath string
	watcher    *config.Watcher
	logger     *zap.Logger
}

func NewGame(cfg config.Config, sb *sandbox.Sandbox, queue *remote.Queue, hub *remote.Hub, logger *zap.Logger) *Game {
	sb.Handle(sandbox.PlayerJoined{Player: localPlayer}, nil)
	return &Game{
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
		debug:   cfg.Debug,
		sandbox: sb,
		input:   NewInput(),
		remote:  queue,
		hub:     hub,
		canvas:  ebitenrender.NewCanvas(nil),
		logger:  logger,
	}
}

// WatchConfig reloads the debug section of path whenever w reports a change.
func (g *Game) WatchConfig(path string, w *config.Watcher) {
	g.configPath = path
	g.watcher = w
}

func (g *Game) Update() error {
	g.frames++

	g.pollConfig()

	for _, evt := range g.remote.Drain() {
		g.sandbox.Handle(evt, nil)
	}
	for _, evt := range g.input.Update() {
		g.sandbox.Handle(evt, nil)
	}
	g.sandbox.Handle(sandbox.FixedUpdate{}, nil)

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Whitesmoke)

	g.canvas.Retarget(screen)
	g.sandbox.Handle(sandbox.Draw{}, g.canvas)

	if g.debug.Physics {
		ebitenrender.DrawPhysicsDebug(g.sandbox.World().Space(), screen)
	}
	if g.debug.HUD {
		players := 0
		if g.hub != nil {
			players = g.hub.Connected()
		}
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    TPS: %.2f\nBodies: %d    Pointers: %d    Remote players: %d",
			g.frames, ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.sandbox.World().BodyCount(), g.sandbox.Machine().Len(), players))
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.width), float64(g.height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) pollConfig() {
	if g.watcher == nil {
		return
	}
	select {
	case _, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		cfg, err := config.Load(g.configPath)
		if err != nil {
			g.logger.Warn("config reload failed", zap.String("path", g.configPath), zap.Error(err))
			return
		}
		g.debug = cfg.Debug
		g.logger.Info("debug settings reloaded",
			zap.Bool("physics", g.debug.Physics),
			zap.Bool("hud", g.debug.HUD))
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.logger.Warn("config watch error", zap.Error(err))
		}
	default:
	}
}
