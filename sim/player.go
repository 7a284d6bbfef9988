package sim

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/cliffrunner/common"
)

// PlayerConfig tunes the runner's physics and feel.
type PlayerConfig struct {
	Gravity         float64
	JumpImpulse     float64
	SecondJumpScale float64
	MaxJumps        int
	ChargeSeconds   float64
	BounceMinSpeed  float64
	BounceDamping   float64

	Width  float64
	Height float64

	// GroundY is the baseline rest line used when no surface override or
	// hole applies.
	GroundY float64

	SpawnX   float64
	MoveMinX float64
	MoveMaxX float64

	// SoftFollow switches horizontal tracking from snap to eased follow,
	// for pointer or touch style input.
	SoftFollow       bool
	FollowRate       float64
	HandoverDistance float64

	CrouchAmount  float64
	RiseStretch   float64
	FallStretch   float64
	SquashAmount  float64
	ScaleRate     float64
	ScaleSpeedRef float64
}

func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Gravity:          2200,
		JumpImpulse:      860,
		SecondJumpScale:  0.6,
		MaxJumps:         2,
		ChargeSeconds:    0.09,
		BounceMinSpeed:   420,
		BounceDamping:    0.18,
		Width:            36,
		Height:           48,
		GroundY:          620,
		SpawnX:           120,
		MoveMinX:         150,
		MoveMaxX:         520,
		FollowRate:       9,
		HandoverDistance: 3,
		CrouchAmount:     0.16,
		RiseStretch:      0.14,
		FallStretch:      0.06,
		SquashAmount:     0.22,
		ScaleRate:        14,
		ScaleSpeedRef:    900,
	}
}

// playerTick collects the edge transitions one Update (plus the collision
// resolution that follows it) produced, so the world can emit events once
// per tick from the final state.
type playerTick struct {
	landed  bool
	impact  float64
	bounced bool
	jumped  bool
	jumpVel float64
	fell    bool
}

// Player is the runner body. Position is the feet midpoint in screen
// coordinates (Y grows downward); only vertical velocity is integrated,
// horizontal motion tracks an input-driven target.
type Player struct {
	cfg PlayerConfig

	Pos   cp.Vector
	Vel   cp.Vector
	Scale cp.Vector

	grounded    bool
	jumpsUsed   int
	charging    bool
	chargeTimer float64
	jumpHeld    bool

	overrideID SurfaceID
	overrideY  float64
	floorOpen  bool

	jumpedThrough map[SurfaceID]struct{}

	targetX float64
	easeIn  bool

	tick playerTick
}

func NewPlayer(cfg PlayerConfig) *Player {
	p := &Player{
		cfg:           cfg,
		Pos:           cp.Vector{X: cfg.SpawnX, Y: cfg.GroundY},
		Scale:         cp.Vector{X: 1, Y: 1},
		grounded:      true,
		jumpedThrough: make(map[SurfaceID]struct{}),
	}
	p.targetX = cfg.SpawnX
	return p
}

// Bounds returns the player box. Per the sim's screen convention B is the
// top edge and T the bottom edge (the feet).
func (p *Player) Bounds() cp.BB {
	hw := p.cfg.Width / 2
	return cp.BB{
		L: p.Pos.X - hw,
		B: p.Pos.Y - p.cfg.Height,
		R: p.Pos.X + hw,
		T: p.Pos.Y,
	}
}

func (p *Player) Grounded() bool  { return p.grounded }
func (p *Player) Charging() bool  { return p.charging }
func (p *Player) Ascending() bool { return p.Vel.Y < 0 }
func (p *Player) JumpsUsed() int  { return p.jumpsUsed }

// SurfaceOverride reports the platform currently acting as the rest line.
func (p *Player) SurfaceOverride() (SurfaceID, bool) {
	return p.overrideID, p.overrideID != 0
}

// OnBaseline reports whether the player rests on the baseline ground
// rather than a platform.
func (p *Player) OnBaseline() bool {
	return p.grounded && p.overrideID == 0
}

// restLine is the Y the feet clamp to. A platform override wins over
// everything; an open floor (over a hole) disables clamping entirely.
func (p *Player) restLine() float64 {
	if p.overrideID != 0 {
		return p.overrideY
	}
	if p.floorOpen {
		return math.Inf(1)
	}
	return p.cfg.GroundY
}

// SetTarget sets the horizontal target the body tracks. The world clamps
// play input to the movement range before calling this; intro and respawn
// glides pass out-of-range targets on purpose.
func (p *Player) SetTarget(x float64) { p.targetX = x }

// BeginEaseIn switches horizontal tracking to eased follow until the body
// converges on its target, regardless of the configured follow mode.
func (p *Player) BeginEaseIn() { p.easeIn = true }

// EasingIn reports whether a temporary eased approach is still running.
func (p *Player) EasingIn() bool { return p.easeIn }

// StartJump begins a charge window. It refuses while a charge is pending
// or the jump budget is spent; the control still counts as held either way.
func (p *Player) StartJump() bool {
	p.jumpHeld = true
	if p.charging || p.jumpsUsed >= p.cfg.MaxJumps {
		return false
	}
	p.charging = true
	p.chargeTimer = p.cfg.ChargeSeconds
	return true
}

// EndJump records the jump control's release. A charge in flight still
// completes and fires its full impulse; every hop is fixed-height.
func (p *Player) EndJump() {
	p.jumpHeld = false
}

// JumpHeld reports whether the jump control is down.
func (p *Player) JumpHeld() bool { return p.jumpHeld }

// fireJump applies the impulse at charge expiry. The budget is spent here,
// not when the charge began, and the jumped-through set resets so landing
// checks re-evaluate against the new arc.
func (p *Player) fireJump() {
	scale := 1.0
	if p.jumpsUsed > 0 {
		scale = p.cfg.SecondJumpScale
	}
	p.Vel.Y = -p.cfg.JumpImpulse * scale
	p.jumpsUsed++
	p.charging = false
	p.grounded = false
	clear(p.jumpedThrough)
	p.tick.jumped = true
	p.tick.jumpVel = p.Vel.Y
}

// ForceVelocity overwrites the vertical velocity.
func (p *Player) ForceVelocity(vy float64) { p.Vel.Y = vy }

// MarkJumpedThrough excludes platforms from landing checks until the
// player lands or charges another jump.
func (p *Player) MarkJumpedThrough(ids ...SurfaceID) {
	for _, id := range ids {
		p.jumpedThrough[id] = struct{}{}
	}
}

// JumpedThrough exposes the exclusion set for support queries.
func (p *Player) JumpedThrough() map[SurfaceID]struct{} { return p.jumpedThrough }

// LandOnSurface makes a platform the active rest line. A fresh contact
// snaps the feet to the plane and runs the landing response; repeated
// calls for the surface already underfoot just track its plane.
func (p *Player) LandOnSurface(id SurfaceID, surfaceY float64) {
	if p.overrideID == id && p.grounded {
		p.overrideY = surfaceY
		return
	}
	p.overrideID = id
	p.overrideY = surfaceY
	p.landAt(surfaceY)
}

// ClearSurfaceOverride returns the rest line to the baseline ground. If
// the player was standing on the override, gravity resumes.
func (p *Player) ClearSurfaceOverride() {
	if p.overrideID == 0 {
		return
	}
	p.overrideID = 0
	if p.grounded {
		p.grounded = false
		p.tick.fell = true
	}
}

// OpenFloor removes the baseline rest line while the player is over a hole.
func (p *Player) OpenFloor() { p.floorOpen = true }

// CloseFloor restores the baseline rest line.
func (p *Player) CloseFloor() { p.floorOpen = false }

func (p *Player) landAt(rest float64) {
	impact := p.Vel.Y
	p.Pos.Y = rest
	p.jumpsUsed = 0
	clear(p.jumpedThrough)
	p.tick.landed = true
	if impact > p.tick.impact {
		p.tick.impact = impact
	}
	if impact >= p.cfg.BounceMinSpeed {
		p.Vel.Y = -impact * p.cfg.BounceDamping
		p.tick.bounced = true
	} else {
		p.Vel.Y = 0
		p.grounded = true
	}
	k := cp.Clamp01(impact/p.cfg.ScaleSpeedRef) * p.cfg.SquashAmount
	p.Scale = cp.Vector{X: 1 + k, Y: 1 - k}
}

// scaleTarget derives the squash/stretch pose from charge state and
// velocity.
func (p *Player) scaleTarget() cp.Vector {
	if p.charging {
		return cp.Vector{X: 1 + p.cfg.CrouchAmount, Y: 1 - p.cfg.CrouchAmount}
	}
	if p.grounded {
		return cp.Vector{X: 1, Y: 1}
	}
	k := cp.Clamp01(math.Abs(p.Vel.Y) / p.cfg.ScaleSpeedRef)
	if p.Vel.Y < 0 {
		return cp.Vector{X: 1 - p.cfg.RiseStretch*k, Y: 1 + p.cfg.RiseStretch*k}
	}
	return cp.Vector{X: 1 - p.cfg.FallStretch*k, Y: 1 + p.cfg.FallStretch*k}
}

// Update advances the body one tick: charge timers, horizontal tracking,
// gravity integration with rest-line clamping, then squash/stretch easing.
// Collision against platforms runs after this, on the swept move.
func (p *Player) Update(dt float64) {
	p.tick = playerTick{}

	if p.charging {
		p.chargeTimer -= dt
		if p.chargeTimer <= 0 {
			p.fireJump()
		}
	}

	prevX := p.Pos.X
	if p.easeIn || p.cfg.SoftFollow {
		p.Pos.X = common.ExpApproach(p.Pos.X, p.targetX, p.cfg.FollowRate, dt)
		if p.easeIn && math.Abs(p.Pos.X-p.targetX) <= p.cfg.HandoverDistance {
			p.easeIn = false
		}
	} else {
		p.Pos.X = p.targetX
	}
	if dt > 0 {
		p.Vel.X = (p.Pos.X - prevX) / dt
	}

	rest := p.restLine()
	if p.grounded {
		if math.IsInf(rest, 1) {
			p.grounded = false
			p.tick.fell = true
		} else {
			p.Pos.Y = rest
			p.Vel.Y = 0
		}
	}
	if !p.grounded {
		prevY := p.Pos.Y
		p.Vel.Y += p.cfg.Gravity * dt
		p.Pos.Y += p.Vel.Y * dt
		if !math.IsInf(rest, 1) && prevY <= rest && p.Pos.Y >= rest {
			p.landAt(rest)
		}
	}

	target := p.scaleTarget()
	p.Scale.X = common.ExpApproach(p.Scale.X, target.X, p.cfg.ScaleRate, dt)
	p.Scale.Y = common.ExpApproach(p.Scale.Y, target.Y, p.cfg.ScaleRate, dt)
}
