// Package script runs the tengo level director: a small script that
// watches run progress and decides when to start hazard sequences.
package script

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Engine is the sim surface exposed to level scripts.
type Engine interface {
	BeginSequence(n int) bool
	SequenceActive() bool
	Distance() float64
	BestDistance() float64
	ScrollMultiplier() float64
	Phase() string
	PlayerPosition() (float64, float64)
	SetRunMultiplierRange(min, max float64)
}

const levelDispatchScript = `
if __phase == "start" {
	start(__engine, __state)
} else if __phase == "update" {
	update(__engine, __state)
}
`

// Runtime is one compiled level script. The script must define
// start(engine, state) and update(engine, state); state persists between
// calls.
type Runtime struct {
	path      string
	compiled  *tengo.Compiled
	stateData *tengo.Map
	started   bool
}

// Load compiles the named script from the scripts directory.
func Load(path string) (*Runtime, error) {
	src, err := LoadSource(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return New(src, path)
}

// New compiles script source. name is used in errors only.
func New(src []byte, name string) (*Runtime, error) {
	full := string(src) + "\n" + levelDispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__phase", "")
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})

	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	rt := &Runtime{
		path:      name,
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}

	// Dry-run with a noop phase so load-time errors surface here, not on
	// the first frame.
	noop := &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	if err := rt.runPhase("noop", noop); err != nil {
		return nil, fmt.Errorf("script: preflight %s: %w", name, err)
	}
	return rt, nil
}

func (rt *Runtime) Path() string { return rt.path }

// Tick runs the script against the engine: start once, then update every
// call. State mutations made by the script persist in the runtime.
func (rt *Runtime) Tick(eng Engine) error {
	engine := buildEngine(eng)
	if !rt.started {
		if err := rt.runPhase("start", engine); err != nil {
			return err
		}
		rt.started = true
	}
	return rt.runPhase("update", engine)
}

func (rt *Runtime) runPhase(phase string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func buildEngine(eng Engine) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["begin_sequence"] = &tengo.UserFunction{Name: "begin_sequence", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil || len(args) < 1 {
			return tengo.FalseValue, nil
		}
		n, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		if eng.BeginSequence(n) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["sequence_active"] = &tengo.UserFunction{Name: "sequence_active", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng != nil && eng.SequenceActive() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["distance"] = &tengo.UserFunction{Name: "distance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: eng.Distance()}, nil
	}}

	values["best_distance"] = &tengo.UserFunction{Name: "best_distance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: eng.BestDistance()}, nil
	}}

	values["scroll_multiplier"] = &tengo.UserFunction{Name: "scroll_multiplier", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: eng.ScrollMultiplier()}, nil
	}}

	values["phase"] = &tengo.UserFunction{Name: "phase", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil {
			return &tengo.String{Value: ""}, nil
		}
		return &tengo.String{Value: eng.Phase()}, nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil {
			return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: 0}, &tengo.Float{Value: 0}}}, nil
		}
		x, y := eng.PlayerPosition()
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: x}, &tengo.Float{Value: y}}}, nil
	}}

	values["set_run_multiplier_range"] = &tengo.UserFunction{Name: "set_run_multiplier_range", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if eng == nil || len(args) < 2 {
			return tengo.UndefinedValue, nil
		}
		min, okMin := tengo.ToFloat64(args[0])
		max, okMax := tengo.ToFloat64(args[1])
		if okMin && okMax {
			eng.SetRunMultiplierRange(min, max)
		}
		return tengo.UndefinedValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.UndefinedValue, nil
		}
		fmt.Printf("script: %s\n", objectAsString(args[0]))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
