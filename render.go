package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/cliffrunner/sim"
)

var (
	groundColor = colornames.Darkslategray
	holeColor   = color.NRGBA{R: 0x05, G: 0x06, B: 0x0c, A: 0xff}
	crestColor  = colornames.Gold

	platformColors = map[sim.PlatformVariant]color.RGBA{
		sim.PlatformSmall:       colornames.Burlywood,
		sim.PlatformWide:        colornames.Peru,
		sim.PlatformEmberSingle: colornames.Darkorange,
		sim.PlatformEmberDouble: colornames.Orangered,
		sim.PlatformEmberTriple: colornames.Tomato,
		sim.PlatformCrest:       crestColor,
	}
)

// viewGeoM maps world space to screen space for one camera state: the
// vertical follow shift first, then zoom about the screen center, then the
// pan offset.
func viewGeoM(cam sim.CameraState, screenW, screenH float64) ebiten.GeoM {
	cx, cy := screenW/2, screenH/2
	var m ebiten.GeoM
	m.Translate(0, cam.OffsetY)
	m.Translate(-cx, -cy)
	m.Scale(cam.Zoom, cam.Zoom)
	m.Translate(cx+cam.PanX, cy+cam.PanY)
	return m
}

// drawFrame renders one sim frame: ground strip, holes punched into it,
// platforms, then the player with its squash scale applied about the feet.
func drawFrame(screen *ebiten.Image, f sim.Frame, cfg sim.Config, debug bool) {
	w := cfg.World.ScreenWidth
	h := cfg.World.ScreenHeight
	m := viewGeoM(f.Camera, w, h)
	zoom := float32(f.Camera.Zoom)

	fillRect := func(x, y, wdt, hgt float64, clr color.Color) {
		sx, sy := m.Apply(x, y)
		vector.FillRect(screen, float32(sx), float32(sy), float32(wdt)*zoom, float32(hgt)*zoom, clr, false)
	}
	strokeRect := func(x, y, wdt, hgt float64, clr color.Color) {
		sx, sy := m.Apply(x, y)
		vector.StrokeRect(screen, float32(sx), float32(sy), float32(wdt)*zoom, float32(hgt)*zoom, 1.0, clr, false)
	}

	// The ground strip overshoots the logical screen so zoomed-out stages
	// never expose its ends.
	fillRect(-w, cfg.World.GroundY, 3*w, h, groundColor)

	for _, sf := range f.Surfaces {
		if sf.Kind != sim.SurfaceHole {
			continue
		}
		// overdraw well past the pit floor so holes read as bottomless
		fillRect(sf.X, sf.Y, sf.Width, h, holeColor)
	}

	for _, sf := range f.Surfaces {
		if sf.Kind != sim.SurfacePlatform {
			continue
		}
		clr := platformColors[sf.Variant]
		fillRect(sf.X, sf.Y, sf.Width, sf.Height, clr)
		if sf.Compressed {
			fillRect(sf.X, sf.Y, sf.Width, sf.Height, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x5a})
		}
	}

	p := f.Player
	pw := p.Width * p.ScaleX
	ph := p.Height * p.ScaleY
	fillRect(p.X-pw/2, p.Y-ph, pw, ph, colornames.Crimson)

	if debug {
		// semi-transparent hitbox outlines over everything
		strokeRect(p.X-p.Width/2, p.Y-p.Height, p.Width, p.Height, color.RGBA{R: 255, G: 0, B: 0, A: 200})
		for _, sf := range f.Surfaces {
			strokeRect(sf.X, sf.Y, sf.Width, sf.Height, color.RGBA{R: 255, G: 0, B: 0, A: 200})
		}
	}
}
