// Package config provides configuration loading for the climbing session.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalid = errors.New("invalid config")

// Config holds all session parameters.
type Config struct {
	Solver    SolverConfig    `yaml:"solver"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Climber   ClimberConfig   `yaml:"climber"`
	Grips     GripsConfig     `yaml:"grips"`
	Scene     SceneConfig     `yaml:"scene"`
	Obstacles ObstaclesConfig `yaml:"obstacles"`
}

// SolverConfig holds the IK convergence policy.
type SolverConfig struct {
	Tolerance      float64 `yaml:"tolerance"`
	StuckTolerance float64 `yaml:"stuck_tolerance"` // Minimal improvement of a pass
	MaxPasses      int     `yaml:"max_passes"`
}

// PhysicsConfig holds obstacle integration parameters.
type PhysicsConfig struct {
	Gravity      mgl64.Vec3 `yaml:"gravity,flow"` // Force added to each obstacle every step
	GroundHeight float64    `yaml:"ground_height"`
	ObstacleMass float64    `yaml:"obstacle_mass"`
}

// ClimberConfig holds the climber start pose and controls.
type ClimberConfig struct {
	Base        mgl64.Vec3 `yaml:"base,flow"`
	Target      mgl64.Vec3 `yaml:"target,flow"`
	TargetSpeed float64    `yaml:"target_speed"`
	GrabRadius  float64    `yaml:"grab_radius"`
	LossHeight  float64    `yaml:"loss_height"`
}

// GripsConfig holds grip spawning and aging parameters.
type GripsConfig struct {
	Spacing    float64 `yaml:"spacing"`
	Margin     float64 `yaml:"margin"`
	XDeviation float64 `yaml:"x_deviation"`
	RangeWidth float64 `yaml:"range_width"`
	Omega      float64 `yaml:"omega"`
}

// SceneConfig holds the wall and game pacing.
type SceneConfig struct {
	WallHeight float64 `yaml:"wall_height"`
	WallWidth  float64 `yaml:"wall_width"`
	SpeedBase  float64 `yaml:"speed_base"`
	SpeedRate  float64 `yaml:"speed_rate"`
	SpeedStep  float64 `yaml:"speed_step"`
	ScoreStep  int     `yaml:"score_step"`
	HP         int     `yaml:"hp"`
}

// ObstaclesConfig holds the falling obstacle cycle.
type ObstaclesConfig struct {
	Period            float64 `yaml:"period"`
	Warning           float64 `yaml:"warning"`
	SpawnHeight       float64 `yaml:"spawn_height"`
	Lifetime          float64 `yaml:"lifetime"`
	CollisionCooldown float64 `yaml:"collision_cooldown"`
	TorsoRadius       float64 `yaml:"torso_radius"`
	DespawnHeight     float64 `yaml:"despawn_height"`
	ScaleMin          float64 `yaml:"scale_min"`
	ScaleMax          float64 `yaml:"scale_max"`
	VelocityJitter    float64 `yaml:"velocity_jitter"`
}

// Default returns the embedded defaults. It panics if they cannot be parsed.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the session cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Solver.Tolerance <= 0:
		return fmt.Errorf("%w: solver.tolerance must be positive", ErrInvalid)
	case c.Solver.MaxPasses <= 0:
		return fmt.Errorf("%w: solver.max_passes must be positive", ErrInvalid)
	case c.Physics.ObstacleMass <= 0:
		return fmt.Errorf("%w: physics.obstacle_mass must be positive", ErrInvalid)
	case c.Grips.Spacing <= 0:
		return fmt.Errorf("%w: grips.spacing must be positive", ErrInvalid)
	case c.Scene.ScoreStep <= 0:
		return fmt.Errorf("%w: scene.score_step must be positive", ErrInvalid)
	case c.Obstacles.Period <= c.Obstacles.Warning:
		return fmt.Errorf("%w: obstacles.period must exceed obstacles.warning", ErrInvalid)
	case c.Obstacles.ScaleMin <= 0 || c.Obstacles.ScaleMax < c.Obstacles.ScaleMin:
		return fmt.Errorf("%w: obstacles scale range is empty", ErrInvalid)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
