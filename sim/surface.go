package sim

import (
	"math"

	"github.com/jakecoffman/cp"
)

// SurfaceID identifies a live surface. Zero means "no surface", which the
// rest of the sim reads as the baseline ground.
type SurfaceID uint64

type SurfaceKind uint8

const (
	SurfacePlatform SurfaceKind = iota
	SurfaceHole
)

// Surface is one scrolling world piece: either a platform whose top plane
// can support the player, or a hole cut into the baseline ground.
type Surface struct {
	ID     SurfaceID
	Kind   SurfaceKind
	X      float64 // left edge, screen coordinates
	Width  float64
	Active bool

	// SurfaceY is the platform's top plane, or the ground line a hole is
	// cut into.
	SurfaceY float64

	Variant       PlatformVariant
	compressTimer float64

	Hole   HoleKind
	Depth  float64
	insetL float64
	insetR float64
}

func (s *Surface) Left() float64  { return s.X }
func (s *Surface) Right() float64 { return s.X + s.Width }

// Compressed reports whether the platform is still in its landing squash.
func (s *Surface) Compressed() bool { return s.compressTimer > 0 }

// SurfaceConfig tunes collision tolerances and lifecycle margins.
type SurfaceConfig struct {
	// EdgeTolerance widens horizontal overlap checks so toe-tip landings
	// hold.
	EdgeTolerance float64
	// RestTolerance is the vertical band around a plane that still counts
	// as resting on it.
	RestTolerance float64
	// VelocityTolerance is the ascent speed below which the player still
	// counts as descending-or-still for support checks.
	VelocityTolerance float64
	// CullMargin is how far past the left edge a surface may drift before
	// it is retired.
	CullMargin float64
	// HoleInset narrows a hole's hitbox at the outer edges of a run so a
	// toe overhang does not drop the player. It must exceed the player's
	// half width, or a body respawned at a run's leading edge would stand
	// inside the pit.
	HoleInset float64
	// HoleSenseHeight extends a hole's hitbox above the ground line so a
	// falling player releases the floor before the ground clamp runs. It
	// must exceed the largest per-tick fall distance.
	HoleSenseHeight float64
	// CompressSeconds is how long a platform stays squashed after a landing.
	CompressSeconds float64
	// PlatformThickness is the platform body below its top plane.
	PlatformThickness float64
}

func DefaultSurfaceConfig() SurfaceConfig {
	return SurfaceConfig{
		EdgeTolerance:     6,
		RestTolerance:     4,
		VelocityTolerance: 30,
		CullMargin:        200,
		HoleInset:         22,
		HoleSenseHeight:   64,
		CompressSeconds:   0.18,
		PlatformThickness: 16,
	}
}

// SurfaceSet owns every live surface: spawning, scrolling, culling and the
// collision queries the player step needs. Platforms are one-way by
// construction: only their top plane is ever tested.
type SurfaceSet struct {
	cfg    SurfaceConfig
	nextID SurfaceID
	list   []*Surface
	byID   map[SurfaceID]*Surface
}

func NewSurfaceSet(cfg SurfaceConfig) *SurfaceSet {
	return &SurfaceSet{
		cfg:  cfg,
		byID: make(map[SurfaceID]*Surface),
	}
}

func (s *SurfaceSet) Config() SurfaceConfig { return s.cfg }

func (s *SurfaceSet) add(sf *Surface) SurfaceID {
	s.nextID++
	sf.ID = s.nextID
	sf.Active = true
	s.list = append(s.list, sf)
	s.byID[sf.ID] = sf
	return sf.ID
}

// SpawnPlatform places a platform whose top plane sits at surfaceY.
func (s *SurfaceSet) SpawnPlatform(x, surfaceY float64, v PlatformVariant) SurfaceID {
	return s.add(&Surface{
		Kind:     SurfacePlatform,
		X:        x,
		Width:    v.Width(),
		SurfaceY: surfaceY,
		Variant:  v,
	})
}

// SpawnHole cuts a hole of the given width into the ground line. Entry and
// exit holes keep their outer edge hitbox inset so the rest of the run can
// stay contiguous without dead seams.
func (s *SurfaceSet) SpawnHole(x, width, groundY, depth float64, kind HoleKind) SurfaceID {
	sf := &Surface{
		Kind:     SurfaceHole,
		X:        x,
		Width:    width,
		SurfaceY: groundY,
		Depth:    depth,
		Hole:     kind,
	}
	switch kind {
	case HoleEntry:
		sf.insetL = s.cfg.HoleInset
	case HoleExit:
		sf.insetR = s.cfg.HoleInset
	}
	return s.add(sf)
}

// Update scrolls every surface left by scrollSpeed*dt (a negative speed
// rewinds them right), decays landing squash timers, and culls surfaces
// that left the screen unless protect claims them.
func (s *SurfaceSet) Update(dt, scrollSpeed float64, protect func(SurfaceID) bool) {
	dx := scrollSpeed * dt
	kept := s.list[:0]
	for _, sf := range s.list {
		sf.X -= dx
		if sf.compressTimer > 0 {
			sf.compressTimer -= dt
		}
		if sf.Right() < -s.cfg.CullMargin && (protect == nil || !protect(sf.ID)) {
			sf.Active = false
			delete(s.byID, sf.ID)
			continue
		}
		kept = append(kept, sf)
	}
	s.list = kept
}

// Compress starts the landing squash on a platform.
func (s *SurfaceSet) Compress(id SurfaceID) {
	if sf, ok := s.byID[id]; ok && sf.Kind == SurfacePlatform {
		sf.compressTimer = s.cfg.CompressSeconds
	}
}

// Bounds returns the current hitbox of a surface. Boxes follow the screen
// convention used throughout the sim: Y grows downward, so BB.B is the top
// edge and BB.T the bottom edge, exactly the min/max extents cp expects.
func (s *SurfaceSet) Bounds(id SurfaceID) (cp.BB, bool) {
	sf, ok := s.byID[id]
	if !ok {
		return cp.BB{}, false
	}
	return s.bounds(sf), true
}

func (s *SurfaceSet) bounds(sf *Surface) cp.BB {
	if sf.Kind == SurfaceHole {
		return cp.BB{
			L: sf.X + sf.insetL,
			B: sf.SurfaceY - s.cfg.HoleSenseHeight,
			R: sf.Right() - sf.insetR,
			T: sf.SurfaceY + sf.Depth,
		}
	}
	return cp.BB{
		L: sf.X,
		B: sf.SurfaceY,
		R: sf.Right(),
		T: sf.SurfaceY + s.cfg.PlatformThickness,
	}
}

// Lookup returns the live surface for id.
func (s *SurfaceSet) Lookup(id SurfaceID) (*Surface, bool) {
	sf, ok := s.byID[id]
	return sf, ok
}

func (s *SurfaceSet) overlapsX(b cp.BB, sf *Surface) bool {
	return b.R >= sf.Left()-s.cfg.EdgeTolerance && b.L <= sf.Right()+s.cfg.EdgeTolerance
}

// SupportingSurface finds the platform the player should stand on, given
// the swept move from prev to cur and the current vertical velocity. A
// platform qualifies when the horizontal spans overlap, the player is
// descending or resting, it is not excluded as jumped-through, and the
// player's bottom edge either crossed its plane this tick or rests on it.
// When several qualify the highest plane wins.
func (s *SurfaceSet) SupportingSurface(cur, prev cp.BB, vy float64, exclude map[SurfaceID]struct{}) *Surface {
	var best *Surface
	for _, sf := range s.list {
		if sf.Kind != SurfacePlatform || !sf.Active {
			continue
		}
		if _, skip := exclude[sf.ID]; skip {
			continue
		}
		if !s.overlapsX(cur, sf) {
			continue
		}
		if vy < -s.cfg.VelocityTolerance {
			continue
		}
		resting := math.Abs(cur.T-sf.SurfaceY) <= s.cfg.RestTolerance
		crossed := prev.T <= sf.SurfaceY && cur.T >= sf.SurfaceY
		if !crossed && !resting {
			continue
		}
		if best == nil || sf.SurfaceY < best.SurfaceY {
			best = sf
		}
	}
	return best
}

// PassedThroughAscending lists platforms whose plane moved between the
// player's previous and current top edge while the player rises. Those
// platforms must not catch the player until the jump resolves.
func (s *SurfaceSet) PassedThroughAscending(cur, prev cp.BB, vy float64) []SurfaceID {
	if vy >= 0 {
		return nil
	}
	var ids []SurfaceID
	for _, sf := range s.list {
		if sf.Kind != SurfacePlatform || !sf.Active {
			continue
		}
		if !s.overlapsX(cur, sf) {
			continue
		}
		if cur.B < sf.SurfaceY && sf.SurfaceY < prev.B {
			ids = append(ids, sf.ID)
		}
	}
	return ids
}

// CollidingHole returns the hole whose hitbox intersects the player box,
// or nil. Callers only ask when no platform is supporting the player.
func (s *SurfaceSet) CollidingHole(cur cp.BB) *Surface {
	for _, sf := range s.list {
		if sf.Kind != SurfaceHole || !sf.Active {
			continue
		}
		if cur.Intersects(s.bounds(sf)) {
			return sf
		}
	}
	return nil
}

// SurfaceState is a render-facing copy of one surface.
type SurfaceState struct {
	ID         SurfaceID
	Kind       SurfaceKind
	Variant    PlatformVariant
	Hole       HoleKind
	X          float64
	Y          float64
	Width      float64
	Height     float64
	Compressed bool
}

// Snapshot appends the state of every live surface to out and returns it.
func (s *SurfaceSet) Snapshot(out []SurfaceState) []SurfaceState {
	for _, sf := range s.list {
		st := SurfaceState{
			ID:      sf.ID,
			Kind:    sf.Kind,
			Variant: sf.Variant,
			Hole:    sf.Hole,
			X:       sf.X,
			Y:       sf.SurfaceY,
			Width:   sf.Width,
		}
		if sf.Kind == SurfaceHole {
			st.Height = sf.Depth
		} else {
			st.Height = s.cfg.PlatformThickness
			st.Compressed = sf.Compressed()
		}
		out = append(out, st)
	}
	return out
}

// Count returns how many surfaces are live.
func (s *SurfaceSet) Count() int { return len(s.list) }
