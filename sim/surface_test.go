package sim

import (
	"testing"

	"github.com/jakecoffman/cp"
)

// playerBox mirrors the player's bounds: 36 wide, 48 tall, feet at the
// bottom edge.
func playerBox(cx, feet float64) cp.BB {
	return cp.BB{L: cx - 18, B: feet - 48, R: cx + 18, T: feet}
}

func TestSupportingSurfaceSweep(t *testing.T) {
	cases := []struct {
		name     string
		cx       float64
		curFeet  float64
		prevFeet float64
		vy       float64
		exclude  bool
		want     bool
	}{
		{"descending_crossed", 140, 520, 490, 600, false, true},
		{"resting_in_band", 140, 503, 503, 0, false, true},
		{"resting_beyond_band", 140, 506, 506, 0, false, false},
		{"fast_ascent_passes_through", 140, 520, 490, -200, false, false},
		{"slow_ascent_still_supports", 140, 503, 503, -20, false, true},
		{"outside_horizontal_span", 300, 520, 490, 600, false, false},
		{"toe_tip_within_tolerance", 213, 520, 490, 600, false, true},
		{"toe_tip_beyond_tolerance", 215, 520, 490, 600, false, false},
		{"excluded_while_jumped_through", 140, 520, 490, 600, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSurfaceSet(DefaultSurfaceConfig())
			id := s.SpawnPlatform(100, 500, PlatformSmall)

			exclude := map[SurfaceID]struct{}{}
			if c.exclude {
				exclude[id] = struct{}{}
			}

			got := s.SupportingSurface(playerBox(c.cx, c.curFeet), playerBox(c.cx, c.prevFeet), c.vy, exclude)
			if c.want && got == nil {
				t.Fatalf("expected a supporting surface, got none")
			}
			if !c.want && got != nil {
				t.Fatalf("expected no support, got surface %d", got.ID)
			}
			if c.want && got.ID != id {
				t.Fatalf("expected surface %d, got %d", id, got.ID)
			}
		})
	}
}

func TestSupportingSurfacePicksHighestPlane(t *testing.T) {
	s := NewSurfaceSet(DefaultSurfaceConfig())
	low := s.SpawnPlatform(100, 500, PlatformSmall)
	high := s.SpawnPlatform(120, 460, PlatformSmall)

	got := s.SupportingSurface(playerBox(150, 520), playerBox(150, 450), 700, nil)
	if got == nil {
		t.Fatalf("expected a supporting surface")
	}
	if got.ID != high {
		t.Fatalf("expected the higher plane %d to win over %d, got %d", high, low, got.ID)
	}
}

func TestPassedThroughAscending(t *testing.T) {
	cases := []struct {
		name     string
		curFeet  float64
		prevFeet float64
		vy       float64
		want     bool
	}{
		{"full_pass", 480, 560, -500, true},
		{"top_edge_crossing", 530, 560, -500, true},
		{"no_crossing", 565, 570, -500, false},
		{"descending_never_marks", 480, 560, 10, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSurfaceSet(DefaultSurfaceConfig())
			id := s.SpawnPlatform(100, 500, PlatformSmall)

			ids := s.PassedThroughAscending(playerBox(140, c.curFeet), playerBox(140, c.prevFeet), c.vy)
			if c.want {
				if len(ids) != 1 || ids[0] != id {
					t.Fatalf("expected [%d], got %v", id, ids)
				}
			} else if len(ids) != 0 {
				t.Fatalf("expected no marks, got %v", ids)
			}
		})
	}
}

func TestHoleHitboxInsets(t *testing.T) {
	cases := []struct {
		name  string
		kind  HoleKind
		wantL float64
		wantR float64
	}{
		{"entry_insets_left", HoleEntry, 322, 390},
		{"full_keeps_both_edges", HoleFull, 300, 390},
		{"exit_insets_right", HoleExit, 300, 368},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSurfaceSet(DefaultSurfaceConfig())
			id := s.SpawnHole(300, 90, 620, 140, c.kind)

			bb, ok := s.Bounds(id)
			if !ok {
				t.Fatalf("expected bounds for live hole")
			}
			if bb.L != c.wantL || bb.R != c.wantR {
				t.Fatalf("expected [%v, %v], got [%v, %v]", c.wantL, c.wantR, bb.L, bb.R)
			}
			if bb.B != 556 || bb.T != 760 {
				t.Fatalf("expected vertical extent [556, 760], got [%v, %v]", bb.B, bb.T)
			}
		})
	}
}

func TestCollidingHole(t *testing.T) {
	cases := []struct {
		name string
		kind HoleKind
		cx   float64
		feet float64
		want bool
	}{
		{"inside", HoleEntry, 350, 620, true},
		{"above_sense_height", HoleEntry, 350, 540, false},
		{"outer_inset_shields_edge", HoleEntry, 290, 620, false},
		{"inner_edge_has_no_inset", HoleFull, 290, 620, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewSurfaceSet(DefaultSurfaceConfig())
			s.SpawnHole(300, 90, 620, 140, c.kind)

			got := s.CollidingHole(playerBox(c.cx, c.feet))
			if c.want && got == nil {
				t.Fatalf("expected a hole hit")
			}
			if !c.want && got != nil {
				t.Fatalf("expected no hole hit, got %d", got.ID)
			}
		})
	}
}

func TestUpdateScrollsAndCulls(t *testing.T) {
	t.Run("scrolls_left", func(t *testing.T) {
		s := NewSurfaceSet(DefaultSurfaceConfig())
		id := s.SpawnPlatform(400, 500, PlatformSmall)
		s.Update(1, 50, nil)
		sf, ok := s.Lookup(id)
		if !ok {
			t.Fatalf("surface should still be live")
		}
		if sf.X != 350 {
			t.Fatalf("expected x 350 after scroll, got %v", sf.X)
		}
	})

	t.Run("negative_speed_rewinds_right", func(t *testing.T) {
		s := NewSurfaceSet(DefaultSurfaceConfig())
		id := s.SpawnPlatform(400, 500, PlatformSmall)
		s.Update(1, -50, nil)
		sf, _ := s.Lookup(id)
		if sf.X != 450 {
			t.Fatalf("expected x 450 after rewind, got %v", sf.X)
		}
	})

	t.Run("culls_past_margin", func(t *testing.T) {
		s := NewSurfaceSet(DefaultSurfaceConfig())
		id := s.SpawnPlatform(-280, 500, PlatformSmall)
		s.Update(1, 0, nil)
		if s.Count() != 1 {
			t.Fatalf("right edge -190 is within the margin, surface should survive")
		}
		s.Update(1, 20, nil)
		if s.Count() != 0 {
			t.Fatalf("right edge -210 is past the margin, surface should be culled")
		}
		if _, ok := s.Lookup(id); ok {
			t.Fatalf("culled surface should not resolve")
		}
	})

	t.Run("protection_blocks_cull", func(t *testing.T) {
		s := NewSurfaceSet(DefaultSurfaceConfig())
		id := s.SpawnPlatform(-280, 500, PlatformSmall)
		s.Update(1, 20, func(SurfaceID) bool { return true })
		if _, ok := s.Lookup(id); !ok {
			t.Fatalf("protected surface should survive past the cull margin")
		}
	})
}

func TestCompressDecays(t *testing.T) {
	s := NewSurfaceSet(DefaultSurfaceConfig())
	id := s.SpawnPlatform(400, 500, PlatformSmall)

	s.Compress(id)
	sf, _ := s.Lookup(id)
	if !sf.Compressed() {
		t.Fatalf("expected squash right after Compress")
	}

	s.Update(0.1, 0, nil)
	if !sf.Compressed() {
		t.Fatalf("squash should outlast 0.1s")
	}
	s.Update(0.1, 0, nil)
	if sf.Compressed() {
		t.Fatalf("squash should decay after 0.2s")
	}
}

func TestSnapshot(t *testing.T) {
	s := NewSurfaceSet(DefaultSurfaceConfig())
	pid := s.SpawnPlatform(400, 500, PlatformWide)
	s.SpawnHole(600, 140, 620, 140, HoleFull)
	s.Compress(pid)

	states := s.Snapshot(nil)
	if len(states) != 2 {
		t.Fatalf("expected 2 states, got %d", len(states))
	}

	p := states[0]
	if p.Kind != SurfacePlatform || p.Variant != PlatformWide || p.Width != 150 || p.Height != 16 || !p.Compressed {
		t.Fatalf("unexpected platform state %+v", p)
	}
	h := states[1]
	if h.Kind != SurfaceHole || h.Hole != HoleFull || h.Y != 620 || h.Height != 140 {
		t.Fatalf("unexpected hole state %+v", h)
	}
}
