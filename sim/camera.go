package sim

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/cliffrunner/common"
)

// CameraConfig tunes follow, zoom and pan behavior.
type CameraConfig struct {
	GroundY float64

	// FollowThreshold is the platform height above ground that engages
	// the vertical lift; FollowFactor is how much of the locked floor's
	// height the view takes on.
	FollowThreshold float64
	FollowFactor    float64
	FollowRate      float64

	// MidFraction and FarFraction are run-progress thresholds that step
	// the framing out to MidZoom and FarZoom.
	MidFraction float64
	FarFraction float64
	MidZoom     float64
	FarZoom     float64
	ZoomRate    float64

	// Set-piece framing shifts the view ahead of the player and slightly
	// up once a run's framing steps out.
	PanAheadX float64
	PanLiftY  float64
	PanRate   float64
}

func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		GroundY:         620,
		FollowThreshold: 40,
		FollowFactor:    0.55,
		FollowRate:      3.2,
		MidFraction:     0.4,
		FarFraction:     0.7,
		MidZoom:         0.88,
		FarZoom:         0.72,
		ZoomRate:        2.0,
		PanAheadX:       140,
		PanLiftY:        60,
		PanRate:         2.6,
	}
}

// CameraState is the render-facing camera transform for one frame.
// OffsetY lifts the view, Zoom scales about the screen center, Pan shifts
// the framing toward a set piece.
type CameraState struct {
	OffsetY float64
	Zoom    float64
	PanX    float64
	PanY    float64
}

// Camera follows the locked floor: the height of the platform the player
// last stood on. Every motion is eased; the camera never snaps.
type Camera struct {
	cfg CameraConfig

	Offset float64
	Zoom   float64
	Pan    cp.Vector

	lockedFloor float64
	stage       int
}

func NewCamera(cfg CameraConfig) *Camera {
	return &Camera{cfg: cfg, Zoom: 1}
}

func (c *Camera) LockedFloor() float64 { return c.lockedFloor }
func (c *Camera) Stage() int           { return c.stage }

// OnLanded updates the locked floor from a landing. Baseline landings
// release the lock and collapse the framing back to neutral targets.
// Platform landings raise the locked floor when the platform clears the
// follow threshold, and run progress may step the framing out. Both the
// lock and the framing only step further out within a run, never back:
// a lower landing mid-run keeps the higher floor until baseline contact.
func (c *Camera) OnLanded(surfaceY float64, ordinal, total int, baseline bool) {
	if baseline {
		c.lockedFloor = 0
		c.stage = 0
		return
	}
	height := c.cfg.GroundY - surfaceY
	if height >= c.cfg.FollowThreshold && height > c.lockedFloor {
		c.lockedFloor = height
	}
	if total > 0 {
		progress := float64(ordinal) / float64(total)
		stage := 0
		if progress >= c.cfg.FarFraction {
			stage = 2
		} else if progress >= c.cfg.MidFraction {
			stage = 1
		}
		if stage > c.stage {
			c.stage = stage
		}
	}
}

// targets derives the eased-toward values from the current lock and stage.
func (c *Camera) targets() (offset, zoom float64, pan cp.Vector) {
	offset = c.lockedFloor * c.cfg.FollowFactor
	zoom = 1.0
	switch c.stage {
	case 1:
		zoom = c.cfg.MidZoom
	case 2:
		zoom = c.cfg.FarZoom
	}
	if c.stage > 0 {
		pan = cp.Vector{X: c.cfg.PanAheadX, Y: -c.cfg.PanLiftY}
	}
	return offset, zoom, pan
}

// Update eases the rig toward its targets.
func (c *Camera) Update(dt float64) {
	offset, zoom, pan := c.targets()
	c.Offset = common.ExpApproach(c.Offset, offset, c.cfg.FollowRate, dt)
	c.Zoom = common.ExpApproach(c.Zoom, zoom, c.cfg.ZoomRate, dt)
	c.Pan.X = common.ExpApproach(c.Pan.X, pan.X, c.cfg.PanRate, dt)
	c.Pan.Y = common.ExpApproach(c.Pan.Y, pan.Y, c.cfg.PanRate, dt)
}

// State snapshots the rig for rendering.
func (c *Camera) State() CameraState {
	return CameraState{
		OffsetY: c.Offset,
		Zoom:    c.Zoom,
		PanX:    c.Pan.X,
		PanY:    c.Pan.Y,
	}
}
