package script

import (
	"testing"
)

// fakeEngine records begin requests and serves canned readings. A granted
// begin flips the active flag, mirroring the sim.
type fakeEngine struct {
	distance float64
	best     float64
	mult     float64
	phase    string
	active   bool
	x, y     float64

	beginOK bool
	begins  []int
	bands   [][2]float64
}

func (f *fakeEngine) BeginSequence(n int) bool {
	f.begins = append(f.begins, n)
	if f.beginOK {
		f.active = true
	}
	return f.beginOK
}
func (f *fakeEngine) SequenceActive() bool      { return f.active }
func (f *fakeEngine) Distance() float64         { return f.distance }
func (f *fakeEngine) BestDistance() float64     { return f.best }
func (f *fakeEngine) ScrollMultiplier() float64 { return f.mult }
func (f *fakeEngine) Phase() string             { return f.phase }
func (f *fakeEngine) PlayerPosition() (float64, float64) {
	return f.x, f.y
}
func (f *fakeEngine) SetRunMultiplierRange(min, max float64) {
	f.bands = append(f.bands, [2]float64{min, max})
}

func TestShippedLevelScriptDirectsRuns(t *testing.T) {
	rt, err := Load("level.tengo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	eng := &fakeEngine{phase: "normal", beginOK: true}

	tick := func() {
		t.Helper()
		if err := rt.Tick(eng); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}

	eng.distance = 699
	tick()
	if len(eng.begins) != 0 {
		t.Fatalf("begin requested at %v, before the first threshold", eng.distance)
	}

	eng.distance = 700
	tick()
	if len(eng.begins) != 1 || eng.begins[0] != 3 {
		t.Fatalf("begins = %v, want the opening three-hole run at 700", eng.begins)
	}
	if len(eng.bands) != 1 || eng.bands[0][0] != 0.6 || eng.bands[0][1] <= 1.7 {
		t.Fatalf("bands = %v, want the pace ceiling nudged up with the first run", eng.bands)
	}

	// A live run holds further requests even as distance piles up.
	eng.distance = 5000
	tick()
	if len(eng.begins) != 1 {
		t.Fatalf("begins = %v, want no request while a run is active", eng.begins)
	}

	// Once the run ends the next request waits out the breather, then
	// asks for one more hole.
	eng.active = false
	eng.distance = 1959
	tick()
	if len(eng.begins) != 1 {
		t.Fatalf("begins = %v, want no request inside the breather", eng.begins)
	}
	eng.distance = 1960
	tick()
	if len(eng.begins) != 2 || eng.begins[1] != 4 {
		t.Fatalf("begins = %v, want a four-hole run after the breather", eng.begins)
	}

	// Death cycle phases suspend direction entirely.
	eng.active = false
	eng.phase = "animating_back"
	eng.distance = 99999
	tick()
	if len(eng.begins) != 2 {
		t.Fatalf("begins = %v, want no request outside normal play", eng.begins)
	}
}

func TestShippedLevelScriptCapsRunLength(t *testing.T) {
	rt, err := Load("level.tengo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	eng := &fakeEngine{phase: "normal", beginOK: true}

	for i := 0; i < 8; i++ {
		eng.active = false
		eng.distance += 5000
		if err := rt.Tick(eng); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}

	want := []int{3, 4, 5, 6, 7, 7, 7, 7}
	if len(eng.begins) != len(want) {
		t.Fatalf("begins = %v, want %v", eng.begins, want)
	}
	for i, n := range want {
		if eng.begins[i] != n {
			t.Fatalf("begins = %v, want %v", eng.begins, want)
		}
	}
}

func TestStatePersistsBetweenTicks(t *testing.T) {
	src := []byte(`
start := func(engine, state) {
	state.count = 0
}

update := func(engine, state) {
	state.count += 1
	if state.count == 3 {
		engine.begin_sequence(state.count)
	}
}
`)
	rt, err := New(src, "counter.tengo")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng := &fakeEngine{beginOK: true}
	for i := 0; i < 5; i++ {
		if err := rt.Tick(eng); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
	if len(eng.begins) != 1 || eng.begins[0] != 3 {
		t.Fatalf("begins = %v, want exactly one request on the third update", eng.begins)
	}
}

func TestEngineReadingsReachScript(t *testing.T) {
	src := []byte(`
start := func(engine, state) {
}

update := func(engine, state) {
	if engine.phase() != "normal" {
		return
	}
	if engine.distance() < 100.0 || engine.best_distance() < engine.distance() {
		return
	}
	if engine.scroll_multiplier() < 1.0 {
		return
	}
	pos := engine.player_position()
	engine.begin_sequence(int(pos[0]))
}
`)
	rt, err := New(src, "readings.tengo")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	eng := &fakeEngine{phase: "normal", beginOK: true, distance: 50, best: 200, mult: 1.7, x: 5}
	if err := rt.Tick(eng); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(eng.begins) != 0 {
		t.Fatal("script acted on readings below its thresholds")
	}

	eng.distance = 150
	if err := rt.Tick(eng); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(eng.begins) != 1 || eng.begins[0] != 5 {
		t.Fatalf("begins = %v, want the player column passed through", eng.begins)
	}
}

func TestRuntimeErrorsDoNotPoisonLaterTicks(t *testing.T) {
	src := []byte(`
start := func(engine, state) {
	state.n = 0
}

update := func(engine, state) {
	state.n += 1
	if state.n == 2 {
		engine.no_such_call()
	}
}
`)
	rt, err := New(src, "bogus.tengo")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	eng := &fakeEngine{}
	if err := rt.Tick(eng); err != nil {
		t.Fatalf("first Tick: %v", err)
	}
	if err := rt.Tick(eng); err == nil {
		t.Fatal("want a runtime error from the unknown engine call")
	}
	if err := rt.Tick(eng); err != nil {
		t.Fatalf("an errored tick must not poison the next one: %v", err)
	}
}

func TestBrokenScriptsFailAtLoad(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax_error", `start := func(`},
		{"missing_update", `start := func(engine, state) {}`},
		{"missing_start", `update := func(engine, state) {}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New([]byte(tt.src), tt.name); err == nil {
				t.Fatal("want a compile error at load time")
			}
		})
	}
}

func TestLoadAcceptsPathVariants(t *testing.T) {
	for _, name := range []string{
		"level.tengo",
		"scripts/level.tengo",
		"script/scripts/level.tengo",
	} {
		if _, err := Load(name); err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
	}
	if _, err := Load("missing.tengo"); err == nil {
		t.Fatal("want an error for a script that does not exist")
	}
}
