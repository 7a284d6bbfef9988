package main

import (
	"image/color"

	"github.com/aquilax/go-perlin"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/cliffrunner/sim"
)

// hillStep is the sampled column width of the ridge lines, in pixels.
const hillStep = 8

// Background draws layered hill silhouettes behind the run. Each layer
// scrolls at a fraction of the travelled distance for parallax depth.
type Background struct {
	noise  *perlin.Perlin
	w, h   float64
	sky    color.NRGBA
	layers []hillLayer
}

type hillLayer struct {
	parallax float64 // fraction of travelled distance
	baseY    float64 // resting height of the ridge line
	amp      float64 // ridge height variation
	freq     float64 // noise frequency along x
	clr      color.NRGBA
}

func NewBackground(seed int64, cfg sim.WorldConfig) *Background {
	return &Background{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		w:     cfg.ScreenWidth,
		h:     cfg.ScreenHeight,
		sky:   color.NRGBA{R: 0x12, G: 0x14, B: 0x26, A: 0xff},
		layers: []hillLayer{
			{parallax: 0.12, baseY: cfg.GroundY - 210, amp: 110, freq: 1.0 / 640, clr: color.NRGBA{R: 0x1c, G: 0x20, B: 0x3c, A: 0xff}},
			{parallax: 0.3, baseY: cfg.GroundY - 100, amp: 80, freq: 1.0 / 420, clr: color.NRGBA{R: 0x2a, G: 0x2f, B: 0x52, A: 0xff}},
		},
	}
}

func (b *Background) Draw(screen *ebiten.Image, f sim.Frame) {
	screen.Fill(b.sky)
	for _, l := range b.layers {
		scroll := f.Distance * l.parallax
		for x := 0.0; x < b.w; x += hillStep {
			n := b.noise.Noise1D((x + scroll) * l.freq)
			y := l.baseY - n*l.amp
			vector.FillRect(screen, float32(x), float32(y), hillStep, float32(b.h-y), l.clr, false)
		}
	}
}
