package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/milk9111/cliffrunner/sim"
	"github.com/milk9111/cliffrunner/tuning"
)

// seqprobe runs one hazard sequence headless and prints the placement
// table, for eyeballing spacing and height progression without booting
// the game.
func main() {
	seed := flag.Int64("seed", 1, "hazard placement seed")
	holes := flag.Int("holes", 5, "holes in the probed run")
	mult := flag.Float64("mult", 1.0, "scroll multiplier held for the whole run")
	flag.Parse()

	cfg, err := tuning.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	res, err := probe(cfg, *seed, *holes, *mult)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("seed=%d holes=%d mult=%.2f estimated=%d placed=%d ticks=%d\n\n",
		*seed, *holes, *mult, res.Estimated, len(res.Placed), res.Ticks)
	fmt.Printf("%4s  %-12s %8s %8s %8s %8s %8s\n",
		"ORD", "VARIANT", "X", "Y", "SPACING", "CURVE", "OFFSET")
	for _, p := range res.Placed {
		fmt.Printf("%4d  %-12s %8.1f %8.1f %8.1f %8.1f %8.1f\n",
			p.Ordinal, p.Variant, p.X, p.Y, p.Spacing, p.Curve, p.Offset)
	}
}

// probeResult is one headless run's outcome.
type probeResult struct {
	Estimated int
	Ticks     int
	Placed    []sim.Placement
}

// probe drives one hazard sequence to teardown with the player column held
// fixed and returns its placement records.
func probe(cfg sim.Config, seed int64, holes int, mult float64) (probeResult, error) {
	surfaces := sim.NewSurfaceSet(cfg.Surfaces)
	seq := sim.NewSequencer(cfg.Sequencer, rand.New(rand.NewSource(seed)), surfaces)
	if !seq.Begin(holes) {
		return probeResult{}, errors.New("sequencer refused the run")
	}
	res := probeResult{Estimated: seq.EstimatedTotal()}

	const dt = 1.0 / 60.0
	speed := cfg.World.BaseScrollSpeed * mult
	playerX := cfg.Player.SpawnX

	// Placements clear on teardown, so snapshot them while the run lives.
	for seq.Active() {
		res.Ticks++
		if res.Ticks > 60*600 {
			return res, errors.New("run never tore down")
		}
		surfaces.Update(dt, speed, seq.Protect)
		seq.Tick(speed*dt, playerX, true)
		if ps := seq.Placements(); len(ps) > len(res.Placed) {
			res.Placed = append(res.Placed[:0], ps...)
		}
	}
	return res, nil
}
