package sim

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/cliffrunner/common"
)

// WorldConfig tunes the scrolling frame everything else lives in.
type WorldConfig struct {
	ScreenWidth  float64
	ScreenHeight float64
	GroundY      float64

	BaseScrollSpeed  float64
	MinRunMultiplier float64
	MaxRunMultiplier float64

	// IntroStartX is where the player glides in from on a fresh world.
	IntroStartX float64
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		ScreenWidth:      1280,
		ScreenHeight:     720,
		GroundY:          620,
		BaseScrollSpeed:  240,
		MinRunMultiplier: 0.6,
		MaxRunMultiplier: 1.7,
		IntroStartX:      -60,
	}
}

// Config bundles every subsystem's tuning.
type Config struct {
	World     WorldConfig
	Player    PlayerConfig
	Surfaces  SurfaceConfig
	Sequencer SequencerConfig
	Respawn   RespawnConfig
	Camera    CameraConfig
}

func DefaultConfig() Config {
	return Config{
		World:     DefaultWorldConfig(),
		Player:    DefaultPlayerConfig(),
		Surfaces:  DefaultSurfaceConfig(),
		Sequencer: DefaultSequencerConfig(),
		Respawn:   DefaultRespawnConfig(),
		Camera:    DefaultCameraConfig(),
	}
}

// PlayerState is the render-facing copy of the player for one frame.
type PlayerState struct {
	X, Y           float64
	VelX, VelY     float64
	ScaleX, ScaleY float64
	Width, Height  float64
	Grounded       bool
	Charging       bool
	JumpsUsed      int
}

// Frame is everything a shell needs to draw one tick. The surface slice
// is reused between steps; copy it if it must outlive the frame.
type Frame struct {
	Player           PlayerState
	Surfaces         []SurfaceState
	Camera           CameraState
	ScrollMultiplier float64
	ScrollSpeed      float64
	Distance         float64
	BestDistance     float64
	Phase            string
	SequenceActive   bool
	Intro            bool
	Events           []Event
}

// World wires the subsystems together and drives them in a fixed order
// each tick: scroll control, surface scroll, player move and collision,
// hazard sequencing, then camera.
type World struct {
	cfg Config
	rng *rand.Rand

	player    *Player
	surfaces  *SurfaceSet
	sequencer *Sequencer
	respawn   *RespawnController
	camera    *Camera
	odometer  Odometer
	events    EventQueue

	intro      bool
	multiplier float64
	surfBuf    []SurfaceState
}

// NewWorld builds a world from cfg. rng drives hazard placement; pass a
// seeded source for reproducible runs, or nil for a fixed default.
func NewWorld(cfg Config, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	w := &World{cfg: cfg, rng: rng}
	w.start()
	return w
}

// start wires a fresh run: new subsystems, the player off screen left, and
// the intro glide armed. The odometer is untouched here so a restart can
// keep its best mark.
func (w *World) start() {
	w.surfaces = NewSurfaceSet(w.cfg.Surfaces)
	w.player = NewPlayer(w.cfg.Player)
	w.sequencer = NewSequencer(w.cfg.Sequencer, w.rng, w.surfaces)
	w.respawn = NewRespawnController(w.cfg.Respawn, w.player, w.surfaces, w.sequencer, &w.events)
	w.camera = NewCamera(w.cfg.Camera)
	w.multiplier = 0

	w.player.Pos.X = w.cfg.World.IntroStartX
	w.player.SetTarget(w.cfg.Player.SpawnX)
	w.player.BeginEaseIn()
	w.intro = true
}

// Restart abandons the current run and glides in a fresh one. The best
// distance survives; everything else resets, pending events included.
func (w *World) Restart() {
	w.start()
	w.odometer.Reset()
	w.events.Drain()
}

// ApplyConfig swaps tuning on a live world. Geometry changes take effect
// immediately; run state (surfaces, distance, respawn phase) is kept.
func (w *World) ApplyConfig(cfg Config) {
	w.cfg = cfg
	w.player.cfg = cfg.Player
	w.surfaces.cfg = cfg.Surfaces
	w.sequencer.cfg = cfg.Sequencer
	w.respawn.cfg = cfg.Respawn
	w.camera.cfg = cfg.Camera
}

// BeginSequence starts a hazard run of n holes. It fails while a run is
// live or the world is frozen by a death cycle.
func (w *World) BeginSequence(n int) bool {
	if w.respawn.WorldFrozen() {
		return false
	}
	if !w.sequencer.Begin(n) {
		return false
	}
	w.events.Push(Event{Type: EventSequenceBegan, Data: SequenceBeganEvent{
		Holes:      n,
		Checkpoint: w.sequencer.Checkpoint(),
	}})
	return true
}

// Script-facing queries.

func (w *World) Distance() float64         { return w.odometer.Distance() }
func (w *World) BestDistance() float64     { return w.odometer.Best() }
func (w *World) SequenceActive() bool      { return w.sequencer.Active() }
func (w *World) ScrollMultiplier() float64 { return w.multiplier }
func (w *World) Phase() string             { return w.respawn.Phase() }
func (w *World) PlayerPosition() (float64, float64) {
	return w.player.Pos.X, w.player.Pos.Y
}

// SetRunMultiplierRange retunes the player-driven multiplier band, so a
// level script can raise the pace cap as a run wears on. Nonsense ranges
// are squeezed to a sane band instead of rejected.
func (w *World) SetRunMultiplierRange(min, max float64) {
	min = math.Max(0, min)
	if max < min {
		max = min
	}
	w.cfg.World.MinRunMultiplier = min
	w.cfg.World.MaxRunMultiplier = max
}

// runMultiplier maps the player's place in the movement range onto the
// configured multiplier band: hang back to slow the world, push forward
// to speed it up.
func (w *World) runMultiplier() float64 {
	span := w.cfg.Player.MoveMaxX - w.cfg.Player.MoveMinX
	t := cp.Clamp01(common.SafeDiv(w.player.Pos.X-w.cfg.Player.MoveMinX, span, 1))
	return cp.Lerp(w.cfg.World.MinRunMultiplier, w.cfg.World.MaxRunMultiplier, t)
}

// Step advances the sim one tick and returns the frame to draw. A zero or
// negative dt returns the current state without advancing.
func (w *World) Step(dt float64, in Input) Frame {
	if dt <= 0 {
		return w.frame()
	}

	// Releases are processed even while play input is gated so the held
	// state cannot go stale across an intro or death cycle.
	if in.JumpReleased {
		w.player.EndJump()
	}
	if !w.intro && w.respawn.AcceptsInput() {
		if in.HasTarget {
			w.player.SetTarget(cp.Clamp(in.TargetX, w.cfg.Player.MoveMinX, w.cfg.Player.MoveMaxX))
		}
		if in.Jump {
			w.player.StartJump()
		}
	}

	mult := w.respawn.Tick(dt, w.runMultiplier(), w.cfg.World.BaseScrollSpeed)
	w.multiplier = mult
	scrollSpeed := w.cfg.World.BaseScrollSpeed * mult
	delta := scrollSpeed * dt

	w.surfaces.Update(dt, scrollSpeed, w.sequencer.Protect)

	if !w.respawn.PlayerFrozen() {
		w.stepPlayer(dt)
	}

	allowed := !w.respawn.WorldFrozen()
	wasActive := w.sequencer.Active()
	w.sequencer.Tick(delta, w.player.Pos.X, allowed)
	if wasActive && !w.sequencer.Active() {
		w.events.Push(Event{Type: EventSequenceEnded})
	}
	if allowed {
		w.odometer.Add(delta)
	}

	if w.intro && !w.player.EasingIn() {
		w.intro = false
	}

	w.camera.Update(dt)
	return w.frame()
}

// stepPlayer resolves the rest line, moves the body, then settles
// collision on the swept move.
func (w *World) stepPlayer(dt float64) {
	p := w.player

	if id, ok := p.SurfaceOverride(); ok {
		bb, exists := w.surfaces.Bounds(id)
		switch {
		case !exists:
			p.ClearSurfaceOverride()
		case !p.Charging():
			pb := p.Bounds()
			if pb.R < bb.L-w.cfg.Surfaces.EdgeTolerance || pb.L > bb.R+w.cfg.Surfaces.EdgeTolerance {
				wasOn := p.Grounded()
				p.ClearSurfaceOverride()
				if wasOn {
					w.events.Push(Event{Type: EventLeftSurface, Data: LeftSurfaceEvent{Surface: id}})
				}
			}
		}
	}
	if _, ok := p.SurfaceOverride(); !ok {
		// A grounded charge pins the floor open or shut until the
		// impulse fires; the anticipation crouch must not be interrupted.
		if !p.Charging() || !p.Grounded() {
			if h := w.surfaces.CollidingHole(p.Bounds()); h != nil {
				p.OpenFloor()
			} else {
				p.CloseFloor()
			}
		}
	}

	prev := p.Bounds()
	wasGrounded := p.Grounded()
	var priorSurface SurfaceID
	if id, ok := p.SurfaceOverride(); ok {
		priorSurface = id
	}

	p.Update(dt)

	if p.Ascending() {
		if ids := w.surfaces.PassedThroughAscending(p.Bounds(), prev, p.Vel.Y); len(ids) > 0 {
			p.MarkJumpedThrough(ids...)
		}
	}

	var landedOn *Surface
	if sup := w.surfaces.SupportingSurface(p.Bounds(), prev, p.Vel.Y, p.JumpedThrough()); sup != nil {
		p.LandOnSurface(sup.ID, sup.SurfaceY)
		landedOn = sup
	}

	t := p.tick
	if t.jumped {
		w.events.Push(Event{Type: EventJumped, Data: JumpedEvent{
			JumpsUsed: p.jumpsUsed,
			Velocity:  t.jumpVel,
		}})
		if wasGrounded {
			w.events.Push(Event{Type: EventLeftSurface, Data: LeftSurfaceEvent{
				Surface:  priorSurface,
				Velocity: t.jumpVel,
			}})
		}
	}
	if t.fell {
		w.events.Push(Event{Type: EventLeftSurface, Data: LeftSurfaceEvent{Surface: priorSurface}})
	}
	if t.landed {
		var id SurfaceID
		var ordinal int
		surfaceY := w.cfg.World.GroundY
		if landedOn == nil {
			if ov, ok := p.SurfaceOverride(); ok {
				if sf, live := w.surfaces.Lookup(ov); live {
					landedOn = sf
				}
			}
		}
		if landedOn != nil {
			id = landedOn.ID
			ordinal, _ = w.sequencer.Ordinal(id)
			surfaceY = landedOn.SurfaceY
			w.surfaces.Compress(id)
			w.camera.OnLanded(surfaceY, ordinal, w.sequencer.EstimatedTotal(), false)
		} else {
			w.camera.OnLanded(surfaceY, 0, 0, true)
		}
		w.events.Push(Event{Type: EventLanded, Data: LandedEvent{
			Surface: id,
			Ordinal: ordinal,
			Impact:  t.impact,
			Bounced: t.bounced,
		}})
	}
}

func (w *World) frame() Frame {
	p := w.player
	w.surfBuf = w.surfaces.Snapshot(w.surfBuf[:0])
	return Frame{
		Player: PlayerState{
			X:         p.Pos.X,
			Y:         p.Pos.Y,
			VelX:      p.Vel.X,
			VelY:      p.Vel.Y,
			ScaleX:    p.Scale.X,
			ScaleY:    p.Scale.Y,
			Width:     p.cfg.Width,
			Height:    p.cfg.Height,
			Grounded:  p.Grounded(),
			Charging:  p.Charging(),
			JumpsUsed: p.JumpsUsed(),
		},
		Surfaces:         w.surfBuf,
		Camera:           w.camera.State(),
		ScrollMultiplier: w.multiplier,
		ScrollSpeed:      w.cfg.World.BaseScrollSpeed * w.multiplier,
		Distance:         w.odometer.Distance(),
		BestDistance:     w.odometer.Best(),
		Phase:            w.respawn.Phase(),
		SequenceActive:   w.sequencer.Active(),
		Intro:            w.intro,
		Events:           w.events.Drain(),
	}
}
