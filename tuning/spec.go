package tuning

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/cliffrunner/sim"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("tuning: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("tuning: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type WorldSpec struct {
	ScreenWidth      float64 `yaml:"screen_width"`
	ScreenHeight     float64 `yaml:"screen_height"`
	GroundY          float64 `yaml:"ground_y"`
	BaseScrollSpeed  float64 `yaml:"base_scroll_speed"`
	MinRunMultiplier float64 `yaml:"min_run_multiplier"`
	MaxRunMultiplier float64 `yaml:"max_run_multiplier"`
	IntroStartX      float64 `yaml:"intro_start_x"`
	Script           string  `yaml:"script"`
}

type PlayerSpec struct {
	Name             string  `yaml:"name"`
	Gravity          float64 `yaml:"gravity"`
	JumpImpulse      float64 `yaml:"jump_impulse"`
	SecondJumpScale  float64 `yaml:"second_jump_scale"`
	MaxJumps         int     `yaml:"max_jumps"`
	ChargeSeconds    float64 `yaml:"charge_seconds"`
	BounceMinSpeed   float64 `yaml:"bounce_min_speed"`
	BounceDamping    float64 `yaml:"bounce_damping"`
	Width            float64 `yaml:"width"`
	Height           float64 `yaml:"height"`
	SpawnX           float64 `yaml:"spawn_x"`
	MoveMinX         float64 `yaml:"move_min_x"`
	MoveMaxX         float64 `yaml:"move_max_x"`
	SoftFollow       bool    `yaml:"soft_follow"`
	FollowRate       float64 `yaml:"follow_rate"`
	HandoverDistance float64 `yaml:"handover_distance"`
	CrouchAmount     float64 `yaml:"crouch_amount"`
	RiseStretch      float64 `yaml:"rise_stretch"`
	FallStretch      float64 `yaml:"fall_stretch"`
	SquashAmount     float64 `yaml:"squash_amount"`
	ScaleRate        float64 `yaml:"scale_rate"`
	ScaleSpeedRef    float64 `yaml:"scale_speed_ref"`
}

type SurfaceSpec struct {
	EdgeTolerance     float64 `yaml:"edge_tolerance"`
	RestTolerance     float64 `yaml:"rest_tolerance"`
	VelocityTolerance float64 `yaml:"velocity_tolerance"`
	CullMargin        float64 `yaml:"cull_margin"`
	HoleInset         float64 `yaml:"hole_inset"`
	HoleSenseHeight   float64 `yaml:"hole_sense_height"`
	CompressSeconds   float64 `yaml:"compress_seconds"`
	PlatformThickness float64 `yaml:"platform_thickness"`
}

type SequencerSpec struct {
	SpawnEdge         float64 `yaml:"spawn_edge"`
	SpawnAheadScreens float64 `yaml:"spawn_ahead_screens"`
	MinSpacing        float64 `yaml:"min_spacing"`
	MaxSpacing        float64 `yaml:"max_spacing"`
	BaseOffset        float64 `yaml:"base_offset"`
	MaxOffset         float64 `yaml:"max_offset"`
	Jitter            float64 `yaml:"jitter"`
	HoleEntryWidth    float64 `yaml:"hole_entry_width"`
	HoleFullWidth     float64 `yaml:"hole_full_width"`
	HoleExitWidth     float64 `yaml:"hole_exit_width"`
	HoleDepth         float64 `yaml:"hole_depth"`
	NoPlatformMargin  float64 `yaml:"no_platform_margin"`
	TeardownMargin    float64 `yaml:"teardown_margin"`
}

type RespawnSpec struct {
	KillBuffer         float64 `yaml:"kill_buffer"`
	DropHeight         float64 `yaml:"drop_height"`
	DyingSeconds       float64 `yaml:"dying_seconds"`
	WaitSeconds        float64 `yaml:"wait_seconds"`
	RewindPeak         float64 `yaml:"rewind_peak"`
	SlowdownDistance   float64 `yaml:"slowdown_distance"`
	RewindFloor        float64 `yaml:"rewind_floor"`
	ArrivalEpsilon     float64 `yaml:"arrival_epsilon"`
	ResumePauseSeconds float64 `yaml:"resume_pause_seconds"`
	RampSeconds        float64 `yaml:"ramp_seconds"`
}

type CameraSpec struct {
	FollowThreshold float64 `yaml:"follow_threshold"`
	FollowFactor    float64 `yaml:"follow_factor"`
	FollowRate      float64 `yaml:"follow_rate"`
	MidFraction     float64 `yaml:"mid_fraction"`
	FarFraction     float64 `yaml:"far_fraction"`
	MidZoom         float64 `yaml:"mid_zoom"`
	FarZoom         float64 `yaml:"far_zoom"`
	ZoomRate        float64 `yaml:"zoom_rate"`
	PanAheadX       float64 `yaml:"pan_ahead_x"`
	PanLiftY        float64 `yaml:"pan_lift_y"`
	PanRate         float64 `yaml:"pan_rate"`
}

// Tuning bundles every spec file.
type Tuning struct {
	World     WorldSpec
	Player    PlayerSpec
	Surfaces  SurfaceSpec
	Sequencer SequencerSpec
	Respawn   RespawnSpec
	Camera    CameraSpec
}

// LoadAll reads every tuning file.
func LoadAll() (*Tuning, error) {
	var t Tuning
	var err error
	if t.World, err = LoadSpec[WorldSpec]("world.yaml"); err != nil {
		return nil, err
	}
	if t.Player, err = LoadSpec[PlayerSpec]("player.yaml"); err != nil {
		return nil, err
	}
	if t.Surfaces, err = LoadSpec[SurfaceSpec]("surfaces.yaml"); err != nil {
		return nil, err
	}
	if t.Sequencer, err = LoadSpec[SequencerSpec]("sequencer.yaml"); err != nil {
		return nil, err
	}
	if t.Respawn, err = LoadSpec[RespawnSpec]("respawn.yaml"); err != nil {
		return nil, err
	}
	if t.Camera, err = LoadSpec[CameraSpec]("camera.yaml"); err != nil {
		return nil, err
	}
	return &t, nil
}

// Config maps the spec files onto the sim's config set. Shared values
// (ground line, screen size, spawn column, base speed) are declared once
// in their owning file and fanned out here.
func (t *Tuning) Config() sim.Config {
	return sim.Config{
		World: sim.WorldConfig{
			ScreenWidth:      t.World.ScreenWidth,
			ScreenHeight:     t.World.ScreenHeight,
			GroundY:          t.World.GroundY,
			BaseScrollSpeed:  t.World.BaseScrollSpeed,
			MinRunMultiplier: t.World.MinRunMultiplier,
			MaxRunMultiplier: t.World.MaxRunMultiplier,
			IntroStartX:      t.World.IntroStartX,
		},
		Player: sim.PlayerConfig{
			Gravity:          t.Player.Gravity,
			JumpImpulse:      t.Player.JumpImpulse,
			SecondJumpScale:  t.Player.SecondJumpScale,
			MaxJumps:         t.Player.MaxJumps,
			ChargeSeconds:    t.Player.ChargeSeconds,
			BounceMinSpeed:   t.Player.BounceMinSpeed,
			BounceDamping:    t.Player.BounceDamping,
			Width:            t.Player.Width,
			Height:           t.Player.Height,
			GroundY:          t.World.GroundY,
			SpawnX:           t.Player.SpawnX,
			MoveMinX:         t.Player.MoveMinX,
			MoveMaxX:         t.Player.MoveMaxX,
			SoftFollow:       t.Player.SoftFollow,
			FollowRate:       t.Player.FollowRate,
			HandoverDistance: t.Player.HandoverDistance,
			CrouchAmount:     t.Player.CrouchAmount,
			RiseStretch:      t.Player.RiseStretch,
			FallStretch:      t.Player.FallStretch,
			SquashAmount:     t.Player.SquashAmount,
			ScaleRate:        t.Player.ScaleRate,
			ScaleSpeedRef:    t.Player.ScaleSpeedRef,
		},
		Surfaces: sim.SurfaceConfig{
			EdgeTolerance:     t.Surfaces.EdgeTolerance,
			RestTolerance:     t.Surfaces.RestTolerance,
			VelocityTolerance: t.Surfaces.VelocityTolerance,
			CullMargin:        t.Surfaces.CullMargin,
			HoleInset:         t.Surfaces.HoleInset,
			HoleSenseHeight:   t.Surfaces.HoleSenseHeight,
			CompressSeconds:   t.Surfaces.CompressSeconds,
			PlatformThickness: t.Surfaces.PlatformThickness,
		},
		Sequencer: sim.SequencerConfig{
			ScreenWidth:       t.World.ScreenWidth,
			GroundY:           t.World.GroundY,
			SpawnEdge:         t.Sequencer.SpawnEdge,
			SpawnAheadScreens: t.Sequencer.SpawnAheadScreens,
			MinSpacing:        t.Sequencer.MinSpacing,
			MaxSpacing:        t.Sequencer.MaxSpacing,
			BaseOffset:        t.Sequencer.BaseOffset,
			MaxOffset:         t.Sequencer.MaxOffset,
			Jitter:            t.Sequencer.Jitter,
			HoleEntryWidth:    t.Sequencer.HoleEntryWidth,
			HoleFullWidth:     t.Sequencer.HoleFullWidth,
			HoleExitWidth:     t.Sequencer.HoleExitWidth,
			HoleDepth:         t.Sequencer.HoleDepth,
			NoPlatformMargin:  t.Sequencer.NoPlatformMargin,
			TeardownMargin:    t.Sequencer.TeardownMargin,
		},
		Respawn: sim.RespawnConfig{
			ScreenHeight:       t.World.ScreenHeight,
			KillBuffer:         t.Respawn.KillBuffer,
			SpawnX:             t.Player.SpawnX,
			DropHeight:         t.Respawn.DropHeight,
			DyingSeconds:       t.Respawn.DyingSeconds,
			WaitSeconds:        t.Respawn.WaitSeconds,
			RewindPeak:         t.Respawn.RewindPeak,
			SlowdownDistance:   t.Respawn.SlowdownDistance,
			RewindFloor:        t.Respawn.RewindFloor,
			ArrivalEpsilon:     t.Respawn.ArrivalEpsilon,
			ResumePauseSeconds: t.Respawn.ResumePauseSeconds,
			RampSeconds:        t.Respawn.RampSeconds,
		},
		Camera: sim.CameraConfig{
			GroundY:         t.World.GroundY,
			FollowThreshold: t.Camera.FollowThreshold,
			FollowFactor:    t.Camera.FollowFactor,
			FollowRate:      t.Camera.FollowRate,
			MidFraction:     t.Camera.MidFraction,
			FarFraction:     t.Camera.FarFraction,
			MidZoom:         t.Camera.MidZoom,
			FarZoom:         t.Camera.FarZoom,
			ZoomRate:        t.Camera.ZoomRate,
			PanAheadX:       t.Camera.PanAheadX,
			PanLiftY:        t.Camera.PanLiftY,
			PanRate:         t.Camera.PanRate,
		},
	}
}

// LoadConfig is the one-call path the shell uses.
func LoadConfig() (sim.Config, error) {
	t, err := LoadAll()
	if err != nil {
		return sim.Config{}, err
	}
	return t.Config(), nil
}
