package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/cliffrunner/sim"
)

// targetSpeed is how fast the run target drifts while a direction is held,
// in world pixels per second.
const targetSpeed = 420

// Input reduces keyboard, mouse, and gamepad state to the two commands the
// sim understands: a target X inside the movement band and a jump edge.
type Input struct {
	cfg sim.PlayerConfig

	targetX   float64
	hasTarget bool
}

func NewInput(cfg sim.PlayerConfig) *Input {
	return &Input{cfg: cfg, targetX: cfg.SpawnX}
}

// SetConfig swaps the movement band after a tuning reload.
func (i *Input) SetConfig(cfg sim.PlayerConfig) {
	i.cfg = cfg
}

// Reset drops the held target back to the spawn column for a fresh run.
func (i *Input) Reset() {
	i.targetX = i.cfg.SpawnX
	i.hasTarget = false
}

// Update polls the devices and returns this tick's command set. cam is the
// camera state used to map the cursor back into world coordinates.
func (i *Input) Update(cam sim.CameraState, screenW, dt float64) sim.Input {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		os.Exit(0)
	}

	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}

	// JumpPressed must be a true single-frame just-pressed signal to avoid
	// double-presses (which previously caused immediate double-jumps).
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyUp)
	jumpReleased := inpututil.IsKeyJustReleased(ebiten.KeySpace) ||
		inpututil.IsKeyJustReleased(ebiten.KeyW) ||
		inpututil.IsKeyJustReleased(ebiten.KeyUp)

	// Gamepad: if present, use left stick X axis as well and map jump to
	// the standard primary button.
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 {
			moveX = -1
		} else if leftX > 0.3 {
			moveX = 1
		}
		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
		jumpReleased = jumpReleased || inpututil.IsStandardGamepadButtonJustReleased(gid, ebiten.StandardGamepadButtonRightBottom)
	}

	if moveX != 0 {
		i.targetX = cp.Clamp(i.targetX+moveX*targetSpeed*dt, i.cfg.MoveMinX, i.cfg.MoveMaxX)
		i.hasTarget = true
	}

	// A click retargets the run position to the cursor column.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, _ := ebiten.CursorPosition()
		wx := screenToWorldX(float64(mx), cam, screenW)
		i.targetX = cp.Clamp(wx, i.cfg.MoveMinX, i.cfg.MoveMaxX)
		i.hasTarget = true
	}

	return sim.Input{Jump: jump, JumpReleased: jumpReleased, TargetX: i.targetX, HasTarget: i.hasTarget}
}

// screenToWorldX inverts the view transform for the horizontal axis.
func screenToWorldX(sx float64, cam sim.CameraState, screenW float64) float64 {
	if cam.Zoom == 0 {
		return sx
	}
	cx := screenW / 2
	return (sx-cx-cam.PanX)/cam.Zoom + cx
}
