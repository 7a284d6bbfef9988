package sim

import (
	"math/rand"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/cliffrunner/common"
)

// SequencerConfig tunes hazard-run generation.
type SequencerConfig struct {
	ScreenWidth float64
	GroundY     float64

	// SpawnEdge is how far past the right view edge a run materializes.
	SpawnEdge float64
	// SpawnAheadScreens is the platform lookahead, in screen widths past
	// the player.
	SpawnAheadScreens float64

	MinSpacing float64
	MaxSpacing float64

	// BaseOffset and MaxOffset bound platform height above the ground
	// line. The climb between them follows a cubic ease so most of a run
	// stays low and the final stretch does the climbing.
	BaseOffset float64
	MaxOffset  float64
	Jitter     float64

	HoleEntryWidth float64
	HoleFullWidth  float64
	HoleExitWidth  float64
	HoleDepth      float64

	// NoPlatformMargin pads the span above the exit hole that must stay
	// clear so the run always ends with a drop back to ground.
	NoPlatformMargin float64
	// TeardownMargin is how far past the left view edge the exit hole
	// must drift before the run resets.
	TeardownMargin float64
}

func DefaultSequencerConfig() SequencerConfig {
	return SequencerConfig{
		ScreenWidth:       1280,
		GroundY:           620,
		SpawnEdge:         120,
		SpawnAheadScreens: 1.5,
		MinSpacing:        150,
		MaxSpacing:        260,
		BaseOffset:        70,
		MaxOffset:         200,
		Jitter:            10,
		HoleEntryWidth:    90,
		HoleFullWidth:     140,
		HoleExitWidth:     90,
		HoleDepth:         140,
		NoPlatformMargin:  40,
		TeardownMargin:    40,
	}
}

// Placement records one spawned platform: where it went and which part of
// the height progression produced it. Curve is the pre-jitter offset.
type Placement struct {
	ID      SurfaceID
	Ordinal int
	X       float64
	Y       float64
	Spacing float64
	Curve   float64
	Offset  float64
	Variant PlatformVariant
}

// Sequencer builds hazard runs: a contiguous strip of holes cut into the
// ground with a rising field of platforms above it. At most one run is
// live at a time.
type Sequencer struct {
	cfg      SequencerConfig
	rng      *rand.Rand
	surfaces *SurfaceSet

	active     bool
	holeIDs    []SurfaceID
	checkpoint SurfaceID
	exitID     SurfaceID

	cursorX     float64
	spawned     int
	estimated   int
	finalPlaced bool

	order      map[SurfaceID]int
	protected  map[SurfaceID]struct{}
	placements []Placement
}

func NewSequencer(cfg SequencerConfig, rng *rand.Rand, surfaces *SurfaceSet) *Sequencer {
	return &Sequencer{
		cfg:       cfg,
		rng:       rng,
		surfaces:  surfaces,
		order:     make(map[SurfaceID]int),
		protected: make(map[SurfaceID]struct{}),
	}
}

func (q *Sequencer) Active() bool          { return q.active }
func (q *Sequencer) Checkpoint() SurfaceID { return q.checkpoint }
func (q *Sequencer) PlacedCount() int      { return q.spawned }
func (q *Sequencer) EstimatedTotal() int   { return q.estimated }

// Ordinal returns a platform's 1-based position in the run.
func (q *Sequencer) Ordinal(id SurfaceID) (int, bool) {
	n, ok := q.order[id]
	return n, ok
}

// Placements exposes the run's spawn records. Callers must not mutate.
func (q *Sequencer) Placements() []Placement { return q.placements }

func (q *Sequencer) meanSpacing() float64 {
	return (q.cfg.MinSpacing + q.cfg.MaxSpacing) / 2
}

// Begin materializes a run of n holes just past the right view edge: one
// entry hole, n-2 full holes, one exit hole, laid end to end. It rejects
// a second run while one is live. The entry hole is the run's checkpoint.
func (q *Sequencer) Begin(n int) bool {
	if q.active {
		return false
	}
	if n < 2 {
		n = 2
	}

	startX := q.cfg.ScreenWidth + q.cfg.SpawnEdge
	x := startX

	id := q.surfaces.SpawnHole(x, q.cfg.HoleEntryWidth, q.cfg.GroundY, q.cfg.HoleDepth, HoleEntry)
	q.holeIDs = append(q.holeIDs, id)
	q.protected[id] = struct{}{}
	q.checkpoint = id
	x += q.cfg.HoleEntryWidth

	for i := 0; i < n-2; i++ {
		id = q.surfaces.SpawnHole(x, q.cfg.HoleFullWidth, q.cfg.GroundY, q.cfg.HoleDepth, HoleFull)
		q.holeIDs = append(q.holeIDs, id)
		q.protected[id] = struct{}{}
		x += q.cfg.HoleFullWidth
	}

	id = q.surfaces.SpawnHole(x, q.cfg.HoleExitWidth, q.cfg.GroundY, q.cfg.HoleDepth, HoleExit)
	q.holeIDs = append(q.holeIDs, id)
	q.protected[id] = struct{}{}
	q.exitID = id
	x += q.cfg.HoleExitWidth

	span := (x - q.cfg.NoPlatformMargin) - startX
	q.estimated = max(1, int(span/q.meanSpacing()+0.5))
	q.cursorX = startX
	q.active = true
	return true
}

// noPlatformSpan returns the current stretch that must stay clear of
// platforms: the exit hole plus its margin.
func (q *Sequencer) noPlatformSpan() (float64, float64, bool) {
	sf, ok := q.surfaces.Lookup(q.exitID)
	if !ok {
		return 0, 0, false
	}
	return sf.Left() - q.cfg.NoPlatformMargin, sf.Right() + q.cfg.NoPlatformMargin, true
}

// curveOffset is the nominal (pre-jitter) height above ground for the
// i-th placement of a run expected to hold total platforms.
func curveOffset(base, maxOffset float64, i, total int) float64 {
	t := cp.Clamp01(common.SafeDiv(float64(i), float64(total-1), 1))
	return base + (maxOffset-base)*common.EaseInCubic(t)
}

func (q *Sequencer) place(x, y, spacing, curve, offset float64, v PlatformVariant) {
	id := q.surfaces.SpawnPlatform(x, y, v)
	q.spawned++
	q.order[id] = q.spawned
	q.protected[id] = struct{}{}
	q.placements = append(q.placements, Placement{
		ID:      id,
		Ordinal: q.spawned,
		X:       x,
		Y:       y,
		Spacing: spacing,
		Curve:   curve,
		Offset:  offset,
		Variant: v,
	})
}

// Tick advances the run: the cursor tracks the world scroll, the lookahead
// loop fills the platform field, and a finished run tears down once its
// exit hole has fully left the view. allowed gates every mutation so a
// frozen world (death rewind) keeps the run intact.
func (q *Sequencer) Tick(scrollDelta, playerX float64, allowed bool) {
	if !q.active {
		return
	}
	q.cursorX -= scrollDelta
	if !allowed {
		return
	}

	clearStart, _, ok := q.noPlatformSpan()
	if !ok {
		q.reset()
		return
	}
	// crestX is where the run's cap will sit: flush against the
	// no-platform span. Everything from there on is off limits for the
	// regular field, so the crest always ends up rightmost.
	crestX := clearStart - PlatformCrest.Width()

	if !q.finalPlaced {
		target := playerX + q.cfg.SpawnAheadScreens*q.cfg.ScreenWidth
		for q.cursorX < target && !q.finalPlaced {
			spacing := q.cfg.MinSpacing + q.rng.Float64()*(q.cfg.MaxSpacing-q.cfg.MinSpacing)
			next := q.cursorX + spacing
			variant := VariantAt(q.spawned)
			if next+variant.Width() >= crestX {
				// No room for another field platform: cap the run with
				// the crest at max height.
				q.place(crestX, q.cfg.GroundY-q.cfg.MaxOffset, 0, q.cfg.MaxOffset, q.cfg.MaxOffset, PlatformCrest)
				q.finalPlaced = true
				break
			}
			curve := curveOffset(q.cfg.BaseOffset, q.cfg.MaxOffset, q.spawned, q.estimated)
			offset := curve
			if q.spawned > 0 {
				offset += (q.rng.Float64()*2 - 1) * q.cfg.Jitter
			}
			q.place(next, q.cfg.GroundY-offset, spacing, curve, offset, variant)
			q.cursorX = next
		}
	}

	if _, end, ok := q.noPlatformSpan(); ok && end < -q.cfg.TeardownMargin {
		q.reset()
	}
}

// reset clears every run collection and lifts cull protection; the leftover
// surfaces then retire through the normal cull path.
func (q *Sequencer) reset() {
	q.active = false
	q.holeIDs = q.holeIDs[:0]
	q.checkpoint = 0
	q.exitID = 0
	q.cursorX = 0
	q.spawned = 0
	q.estimated = 0
	q.finalPlaced = false
	clear(q.order)
	clear(q.protected)
	q.placements = nil
}

// Protect reports whether a surface belongs to the live run and must not
// be culled, so a rewind can bring it back on screen.
func (q *Sequencer) Protect(id SurfaceID) bool {
	if !q.active {
		return false
	}
	_, ok := q.protected[id]
	return ok
}
