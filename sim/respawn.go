package sim

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/cliffrunner/common"
)

// RespawnConfig tunes the death and rewind cycle.
type RespawnConfig struct {
	ScreenHeight float64
	// KillBuffer is how far below the screen the player may fall before
	// the cycle starts.
	KillBuffer float64

	SpawnX float64
	// DropHeight is how far above the screen top the player is parked
	// before the respawn drop.
	DropHeight float64

	DyingSeconds float64
	WaitSeconds  float64

	// RewindPeak is the scroll multiplier magnitude while rewinding; the
	// sign comes from the remaining distance.
	RewindPeak float64
	// SlowdownDistance is the band around the rewind target where the
	// magnitude eases off, down to RewindFloor.
	SlowdownDistance float64
	RewindFloor      float64
	ArrivalEpsilon   float64

	ResumePauseSeconds float64
	RampSeconds        float64
}

func DefaultRespawnConfig() RespawnConfig {
	return RespawnConfig{
		ScreenHeight:       720,
		KillBuffer:         160,
		SpawnX:             120,
		DropHeight:         80,
		DyingSeconds:       0.5,
		WaitSeconds:        0.35,
		RewindPeak:         12,
		SlowdownDistance:   420,
		RewindFloor:        0.35,
		ArrivalEpsilon:     0.5,
		ResumePauseSeconds: 0.45,
		RampSeconds:        0.8,
	}
}

func (cfg RespawnConfig) killY() float64 { return cfg.ScreenHeight + cfg.KillBuffer }

// respawnState is one phase of the death cycle. Transitions are polled
// from Update once per tick.
type respawnState interface {
	Name() string
	Enter(c *RespawnController)
	Update(c *RespawnController, dt float64)
}

// Respawn state singletons (avoid allocations on transitions).
var (
	respawnNormal     respawnState = &respawnNormalState{}
	respawnDying      respawnState = &respawnDyingState{}
	respawnWaiting    respawnState = &respawnWaitingState{}
	respawnRewind     respawnState = &respawnRewindState{}
	respawnDropping   respawnState = &respawnDroppingState{}
	respawnResumeHold respawnState = &respawnResumeHoldState{}
	respawnResumeRamp respawnState = &respawnResumeRampState{}
)

// RespawnController owns the death, rewind and respawn cycle. While the
// cycle runs it takes over the scroll multiplier; outside it the player's
// run multiplier passes straight through.
type RespawnController struct {
	cfg       RespawnConfig
	player    *Player
	surfaces  *SurfaceSet
	sequencer *Sequencer
	events    *EventQueue

	state     respawnState
	stateTime float64

	// runMult is the player-driven multiplier sampled this tick.
	runMult float64
	// baseSpeed is the world's base scroll speed sampled this tick, so the
	// rewind bookkeeping uses exactly the deltas the surfaces will see.
	baseSpeed float64
	// multiplier is what the world applies this tick.
	multiplier float64
	// entryMult is the multiplier at the moment of death, eased to zero.
	entryMult float64

	deathX      float64
	checkpointX float64
	// remaining is checkpointX minus deathX, driven to zero by the actual
	// scroll deltas. It starts at or below zero, so the rewind multiplier
	// comes out negative.
	remaining float64
}

func NewRespawnController(cfg RespawnConfig, player *Player, surfaces *SurfaceSet, sequencer *Sequencer, events *EventQueue) *RespawnController {
	c := &RespawnController{
		cfg:       cfg,
		player:    player,
		surfaces:  surfaces,
		sequencer: sequencer,
		events:    events,
	}
	c.state = respawnNormal
	return c
}

// Phase names the current state, for frames and debug overlays.
func (c *RespawnController) Phase() string { return c.state.Name() }

// Remaining reports the rewind distance still to cover.
func (c *RespawnController) Remaining() float64 { return c.remaining }

// PlayerFrozen reports whether the player body must not integrate this
// tick. The drop phase and everything after it let the body move again.
func (c *RespawnController) PlayerFrozen() bool {
	switch c.state {
	case respawnDying, respawnWaiting, respawnRewind:
		return true
	}
	return false
}

// WorldFrozen reports whether world mutation (spawns, culls, odometer)
// is suspended. It spans death up to the respawn drop.
func (c *RespawnController) WorldFrozen() bool {
	switch c.state {
	case respawnDying, respawnWaiting, respawnRewind:
		return true
	}
	return false
}

// AcceptsInput reports whether player intent steers the body this tick.
// The drop back onto the ground is hands-off; control returns with the
// resume hold.
func (c *RespawnController) AcceptsInput() bool {
	switch c.state {
	case respawnNormal, respawnResumeHold, respawnResumeRamp:
		return true
	}
	return false
}

// Tick advances the cycle and returns the scroll multiplier the world
// must apply this tick. baseSpeed is the world's base scroll speed; taking
// it per tick keeps the rewind in step with the surface scroll even across
// a tuning reload.
func (c *RespawnController) Tick(dt, runMult, baseSpeed float64) float64 {
	c.runMult = runMult
	c.baseSpeed = baseSpeed
	c.stateTime += dt
	c.state.Update(c, dt)
	// The world keeps drifting while the death scroll eases out, and that
	// drift joins the rewind debt; otherwise the checkpoint would come
	// back short of the death point. The rewind state does its own
	// bookkeeping so it can clamp the final tick.
	if c.state == respawnDying {
		c.remaining -= c.baseSpeed * c.multiplier * dt
	}
	return c.multiplier
}

func (c *RespawnController) setState(s respawnState) {
	c.state = s
	c.stateTime = 0
	s.Enter(c)
}

type respawnNormalState struct{}

func (respawnNormalState) Name() string { return "normal" }
func (respawnNormalState) Enter(c *RespawnController) {
	c.remaining = 0
}
func (respawnNormalState) Update(c *RespawnController, dt float64) {
	c.multiplier = c.runMult
	if c.player.Pos.Y > c.cfg.killY() {
		c.setState(respawnDying)
	}
}

type respawnDyingState struct{}

func (respawnDyingState) Name() string { return "dying" }

// Enter freezes the body where it fell and fixes the rewind target: the
// checkpoint hole's leading edge must come back to where the player died.
// The raw edge, not the inset hitbox, so the respawned body stands on
// solid ground at the lip.
func (respawnDyingState) Enter(c *RespawnController) {
	c.entryMult = c.multiplier
	c.deathX = c.player.Pos.X

	c.checkpointX = c.deathX
	if id := c.sequencer.Checkpoint(); id != 0 {
		if sf, ok := c.surfaces.Lookup(id); ok {
			c.checkpointX = sf.Left()
		}
	}
	c.remaining = c.checkpointX - c.deathX

	c.player.ForceVelocity(0)
	c.player.charging = false
	c.events.Push(Event{Type: EventDied, Data: DiedEvent{X: c.player.Pos.X, Y: c.player.Pos.Y}})
}

func (respawnDyingState) Update(c *RespawnController, dt float64) {
	t := cp.Clamp01(c.stateTime / c.cfg.DyingSeconds)
	c.multiplier = c.entryMult * (1 - common.EaseOutCubic(t))
	if c.stateTime >= c.cfg.DyingSeconds {
		c.setState(respawnWaiting)
	}
}

type respawnWaitingState struct{}

func (respawnWaitingState) Name() string { return "waiting" }
func (respawnWaitingState) Enter(c *RespawnController) {
	c.multiplier = 0
}
func (respawnWaitingState) Update(c *RespawnController, dt float64) {
	c.multiplier = 0
	if c.stateTime >= c.cfg.WaitSeconds {
		c.setState(respawnRewind)
	}
}

type respawnRewindState struct{}

func (respawnRewindState) Name() string { return "animating_back" }

// Enter parks the body above the screen at the spawn column; the world
// rewinds underneath it.
func (respawnRewindState) Enter(c *RespawnController) {
	c.player.Pos.X = c.cfg.SpawnX
	c.player.Pos.Y = -c.cfg.DropHeight
	c.player.ForceVelocity(0)
	c.player.grounded = false
	c.player.ClearSurfaceOverride()
	c.player.CloseFloor()
	c.player.jumpsUsed = 0
	clear(c.player.jumpedThrough)
}

// Update drives the multiplier negative at the rewind peak, easing the
// magnitude down near the target, and subtracts exactly the delta the
// world will scroll this tick. The last tick is clamped so remaining
// lands on zero instead of overshooting.
func (respawnRewindState) Update(c *RespawnController, dt float64) {
	if math.Abs(c.remaining) <= c.cfg.ArrivalEpsilon {
		c.remaining = 0
		c.multiplier = 0
		c.setState(respawnDropping)
		return
	}

	ease := cp.Clamp01(math.Abs(c.remaining) / c.cfg.SlowdownDistance)
	mag := c.cfg.RewindPeak * math.Max(c.cfg.RewindFloor, common.SmoothStep(ease))
	mult := math.Copysign(mag, c.remaining)

	delta := c.baseSpeed * mult * dt
	if math.Abs(delta) >= math.Abs(c.remaining) {
		mult = common.SafeDiv(c.remaining, c.baseSpeed*dt, 1e-6)
		delta = c.baseSpeed * mult * dt
	}
	c.remaining -= delta
	c.multiplier = mult

	if math.Abs(c.remaining) <= c.cfg.ArrivalEpsilon {
		c.remaining = 0
	}
}

type respawnDroppingState struct{}

func (respawnDroppingState) Name() string { return "respawning" }

// Enter releases the body above the spawn column with a clean slate; it
// falls under gravity onto the baseline ground.
func (respawnDroppingState) Enter(c *RespawnController) {
	c.multiplier = 0
	c.player.Pos.X = c.cfg.SpawnX
	c.player.targetX = c.cfg.SpawnX
	c.player.ForceVelocity(0)
	c.player.ClearSurfaceOverride()
	c.player.CloseFloor()
	c.player.BeginEaseIn()
}

func (respawnDroppingState) Update(c *RespawnController, dt float64) {
	c.multiplier = 0
	if c.player.Grounded() {
		c.setState(respawnResumeHold)
	}
}

type respawnResumeHoldState struct{}

func (respawnResumeHoldState) Name() string { return "resume_pause" }
func (respawnResumeHoldState) Enter(c *RespawnController) {
	c.multiplier = 0
	c.events.Push(Event{Type: EventRespawned, Data: nil})
}
func (respawnResumeHoldState) Update(c *RespawnController, dt float64) {
	c.multiplier = 0
	if c.stateTime >= c.cfg.ResumePauseSeconds {
		c.setState(respawnResumeRamp)
	}
}

type respawnResumeRampState struct{}

func (respawnResumeRampState) Name() string { return "resume_ramp" }
func (respawnResumeRampState) Enter(c *RespawnController) {}
func (respawnResumeRampState) Update(c *RespawnController, dt float64) {
	t := cp.Clamp01(c.stateTime / c.cfg.RampSeconds)
	c.multiplier = c.runMult * common.SmoothStep(t)
	if c.stateTime >= c.cfg.RampSeconds {
		c.setState(respawnNormal)
	}
}
