package main

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/cliffrunner/script"
	"github.com/milk9111/cliffrunner/sim"
	"github.com/milk9111/cliffrunner/tuning"
)

// tickDt is the fixed sim step. Ebiten's update loop runs at 60 TPS.
const tickDt = 1.0 / 60.0

type GameOptions struct {
	Seed   int64
	Script string
	Watch  bool
	Debug  bool
}

type Game struct {
	frames int

	cfg   sim.Config
	world *sim.World
	frame sim.Frame

	input    *Input
	director *script.Runtime
	watcher  *tuning.Watcher
	bg       *Background

	pauseUI *ebitenui.UI
	paused  bool
	debug   bool
}

func NewGame(opts GameOptions) (*Game, error) {
	specs, err := tuning.LoadAll()
	if err != nil {
		return nil, err
	}
	cfg := specs.Config()

	g := &Game{
		cfg:   cfg,
		world: sim.NewWorld(cfg, rand.New(rand.NewSource(opts.Seed))),
		input: NewInput(cfg.Player),
		bg:    NewBackground(opts.Seed, cfg.World),
		debug: opts.Debug,
	}
	g.frame = g.world.Step(0, sim.Input{})
	g.pauseUI = NewPauseUI(g)

	name := opts.Script
	if name == "" {
		name = specs.World.Script
	}
	if name != "" {
		if filepath.Ext(name) == "" {
			name += ".tengo"
		}
		director, err := script.Load(name)
		if err != nil {
			log.Printf("failed to load level script %s: %v", name, err)
		} else {
			g.director = director
		}
	}

	if opts.Watch {
		watcher, err := tuning.NewWatcher("tuning", "script/scripts")
		if err != nil {
			log.Printf("hot reload disabled: %v", err)
		} else {
			g.watcher = watcher
		}
	}

	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
	}

	g.drainReloads()

	in := g.input.Update(g.frame.Camera, g.cfg.World.ScreenWidth, tickDt)
	g.frame = g.world.Step(tickDt, in)

	if g.director != nil {
		if err := g.director.Tick(g.world); err != nil {
			log.Printf("level script %s stopped: %v", g.director.Path(), err)
			g.director = nil
		}
	}

	return nil
}

// restart abandons the run in place. The level director reloads too; its
// state tracks the old run's distance and would otherwise go stale.
func (g *Game) restart() {
	g.world.Restart()
	g.input.Reset()
	g.frame = g.world.Step(0, sim.Input{})
	if g.director != nil {
		if director, err := script.Load(g.director.Path()); err == nil {
			g.director = director
		}
	}
}

// drainReloads applies any pending tuning or script edits from the watcher.
func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(name string) {
	base := filepath.Base(name)
	if strings.HasSuffix(base, ".tengo") {
		director, err := script.Load(base)
		if err != nil {
			log.Printf("failed to reload level script %s: %v", base, err)
			return
		}
		g.director = director
		log.Printf("reloaded level script %s", base)
		return
	}

	cfg, err := tuning.LoadConfig()
	if err != nil {
		log.Printf("failed to reload tuning: %v", err)
		return
	}
	g.cfg = cfg
	g.world.ApplyConfig(cfg)
	g.input.SetConfig(cfg.Player)
	log.Printf("reloaded tuning after %s changed", base)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.bg.Draw(screen, g.frame)
	drawFrame(screen, g.frame, g.cfg, g.debug)

	hud := fmt.Sprintf("Distance: %.0f    Best: %.0f    FPS: %.2f", g.frame.Distance, g.frame.BestDistance, ebiten.ActualFPS())
	if g.debug {
		hud += fmt.Sprintf("\nPhase: %s    Mult: %.2f    Surfaces: %d    Frames: %d", g.frame.Phase, g.frame.ScrollMultiplier, len(g.frame.Surfaces), g.frames)
	}
	ebitenutil.DebugPrint(screen, hud)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return g.cfg.World.ScreenWidth, g.cfg.World.ScreenHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
