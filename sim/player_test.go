package sim

import (
	"math"
	"testing"
)

const testDt = 1.0 / 60.0

func newTestPlayer() *Player {
	return NewPlayer(DefaultPlayerConfig())
}

// stepUntil runs Update until cond holds, failing after cap ticks.
func stepUntil(t *testing.T, p *Player, cap int, cond func() bool) {
	t.Helper()
	for i := 0; i < cap; i++ {
		p.Update(testDt)
		if cond() {
			return
		}
	}
	t.Fatalf("condition not reached within %d ticks", cap)
}

func TestStartJumpRefusals(t *testing.T) {
	p := newTestPlayer()

	if !p.StartJump() {
		t.Fatalf("grounded player should accept a jump")
	}
	if !p.Charging() {
		t.Fatalf("expected charge window after StartJump")
	}
	if p.StartJump() {
		t.Fatalf("a pending charge should refuse a second StartJump")
	}
}

func TestChargeFiresAfterWindow(t *testing.T) {
	p := newTestPlayer()
	p.StartJump()

	// One 0.05s tick leaves the 0.09s window open.
	p.Update(0.05)
	if !p.Charging() || !p.Grounded() {
		t.Fatalf("charge should still be pending at 0.05s")
	}
	if p.Pos.Y != 620 {
		t.Fatalf("anticipation crouch must not move the feet, got y=%v", p.Pos.Y)
	}
	if p.Scale.X <= 1 || p.Scale.Y >= 1 {
		t.Fatalf("expected crouch pose during charge, got scale %+v", p.Scale)
	}

	// The second tick closes the window and fires the impulse.
	p.Update(0.05)
	if p.Charging() {
		t.Fatalf("charge should have fired at 0.09s")
	}
	if p.Grounded() || !p.Ascending() {
		t.Fatalf("expected airborne ascent after the impulse")
	}
	if p.JumpsUsed() != 1 {
		t.Fatalf("jump budget should be spent at the impulse, got %d", p.JumpsUsed())
	}
	if p.Pos.Y >= 620 {
		t.Fatalf("expected lift-off, got y=%v", p.Pos.Y)
	}
}

func TestSecondJumpWeakerAndBudgetSpent(t *testing.T) {
	p := newTestPlayer()

	p.StartJump()
	p.Update(0.05)
	p.Update(0.05)
	first := p.tick.jumpVel
	if math.Abs(first-(-860)) > 1e-9 {
		t.Fatalf("expected first impulse -860, got %v", first)
	}

	if !p.StartJump() {
		t.Fatalf("one jump left in the budget, StartJump should accept")
	}
	p.Update(0.05)
	p.Update(0.05)
	second := p.tick.jumpVel
	if math.Abs(second-(-860*0.6)) > 1e-9 {
		t.Fatalf("expected second impulse %v, got %v", -860*0.6, second)
	}
	if p.JumpsUsed() != 2 {
		t.Fatalf("expected spent budget, got %d", p.JumpsUsed())
	}
	if p.StartJump() {
		t.Fatalf("spent budget should refuse another jump")
	}
}

func TestReleaseNeverCutsACharge(t *testing.T) {
	p := newTestPlayer()
	p.StartJump()
	if !p.JumpHeld() {
		t.Fatalf("a press should read as held")
	}

	// Release inside the anticipation window.
	p.EndJump()
	if p.JumpHeld() {
		t.Fatalf("a release should clear the held state")
	}
	if !p.Charging() {
		t.Fatalf("a release must not cancel the pending charge")
	}

	p.Update(0.05)
	p.Update(0.05)
	if p.JumpsUsed() != 1 || p.Grounded() || !p.Ascending() {
		t.Fatalf("the impulse should still fire after an early release, jumps=%d grounded=%v", p.JumpsUsed(), p.Grounded())
	}
	if math.Abs(p.tick.jumpVel-(-860)) > 1e-9 {
		t.Fatalf("expected the full -860 impulse, got %v", p.tick.jumpVel)
	}
}

func TestAscentStretchPose(t *testing.T) {
	p := newTestPlayer()
	p.StartJump()
	p.Update(0.05)
	p.Update(0.05)
	for i := 0; i < 6; i++ {
		p.Update(testDt)
	}
	if !p.Ascending() {
		t.Fatalf("player should still be rising")
	}
	if p.Scale.Y <= 1 || p.Scale.X >= 1 {
		t.Fatalf("expected rise stretch, got scale %+v", p.Scale)
	}
}

func TestLandingFromLowHeightDoesNotBounce(t *testing.T) {
	p := newTestPlayer()
	p.Pos.Y = 610
	p.grounded = false

	stepUntil(t, p, 100, func() bool { return p.tick.landed })
	if p.tick.bounced {
		t.Fatalf("a soft landing should not bounce")
	}
	if !p.Grounded() || p.Vel.Y != 0 {
		t.Fatalf("expected rest after soft landing, grounded=%v vy=%v", p.Grounded(), p.Vel.Y)
	}
	if p.Pos.Y != 620 {
		t.Fatalf("feet should snap to the ground line, got %v", p.Pos.Y)
	}
	if p.Scale.X <= 1 || p.Scale.Y >= 1 {
		t.Fatalf("expected landing squash, got scale %+v", p.Scale)
	}
}

func TestLandingFromHeightBounces(t *testing.T) {
	p := newTestPlayer()
	p.Pos.Y = 460
	p.grounded = false

	stepUntil(t, p, 100, func() bool { return p.tick.landed })
	if !p.tick.bounced {
		t.Fatalf("a hard landing should bounce")
	}
	if p.Grounded() {
		t.Fatalf("a bounce leaves the player airborne")
	}
	if p.Vel.Y >= 0 {
		t.Fatalf("expected upward rebound, got vy=%v", p.Vel.Y)
	}

	// The rebound is damped below the bounce threshold, so the next touch
	// comes to rest.
	stepUntil(t, p, 300, func() bool { return p.Grounded() })
	if p.Pos.Y != 620 {
		t.Fatalf("expected rest on the ground line, got %v", p.Pos.Y)
	}
}

func TestJumpBudgetResetsOnTouch(t *testing.T) {
	p := newTestPlayer()
	p.StartJump()
	p.Update(0.05)
	p.Update(0.05)
	if p.JumpsUsed() != 1 {
		t.Fatalf("expected one jump spent, got %d", p.JumpsUsed())
	}

	stepUntil(t, p, 300, func() bool { return p.tick.landed })
	if p.JumpsUsed() != 0 {
		t.Fatalf("budget should reset on touch even mid-bounce, got %d", p.JumpsUsed())
	}
}

func TestSurfaceOverrideWalkOff(t *testing.T) {
	p := newTestPlayer()
	p.LandOnSurface(7, 500)

	if id, ok := p.SurfaceOverride(); !ok || id != 7 {
		t.Fatalf("expected override surface 7, got %d ok=%v", id, ok)
	}
	if p.OnBaseline() {
		t.Fatalf("platform rest is not baseline rest")
	}
	if p.Pos.Y != 500 || !p.Grounded() {
		t.Fatalf("expected rest on the platform plane, y=%v grounded=%v", p.Pos.Y, p.Grounded())
	}

	p.ClearSurfaceOverride()
	if !p.tick.fell {
		t.Fatalf("walking off a platform should register as a fall")
	}
	if p.Grounded() {
		t.Fatalf("gravity should resume after the walk-off")
	}

	stepUntil(t, p, 300, func() bool { return p.Grounded() })
	if !p.OnBaseline() || p.Pos.Y != 620 {
		t.Fatalf("expected baseline rest, baseline=%v y=%v", p.OnBaseline(), p.Pos.Y)
	}
}

func TestOpenFloorReleasesGround(t *testing.T) {
	p := newTestPlayer()
	p.OpenFloor()

	p.Update(testDt)
	if p.Grounded() {
		t.Fatalf("an open floor should drop a grounded player")
	}
	for i := 0; i < 60; i++ {
		p.Update(testDt)
	}
	if p.Pos.Y <= 620 {
		t.Fatalf("expected free fall through the hole, got y=%v", p.Pos.Y)
	}

	// Closing the floor underneath a body already below the line must not
	// snap it back up.
	p.CloseFloor()
	before := p.Pos.Y
	p.Update(testDt)
	if p.Pos.Y <= before {
		t.Fatalf("player below the line should keep falling, got y=%v", p.Pos.Y)
	}
}

func TestHorizontalTracking(t *testing.T) {
	t.Run("snap_mode", func(t *testing.T) {
		p := newTestPlayer()
		p.SetTarget(300)
		p.Update(testDt)
		if p.Pos.X != 300 {
			t.Fatalf("expected snap to 300, got %v", p.Pos.X)
		}
		if p.Vel.X <= 0 {
			t.Fatalf("expected derived rightward velocity, got %v", p.Vel.X)
		}
	})

	t.Run("ease_in_hands_over_to_snap", func(t *testing.T) {
		p := newTestPlayer()
		p.SetTarget(300)
		p.BeginEaseIn()

		p.Update(testDt)
		if p.Pos.X >= 300 {
			t.Fatalf("eased approach should not arrive in one tick, got %v", p.Pos.X)
		}

		stepUntil(t, p, 600, func() bool { return !p.EasingIn() })
		if math.Abs(p.Pos.X-300) > 3 {
			t.Fatalf("handover should happen within the handover distance, got %v", p.Pos.X)
		}

		p.Update(testDt)
		if p.Pos.X != 300 {
			t.Fatalf("after handover tracking snaps, got %v", p.Pos.X)
		}
	})
}
