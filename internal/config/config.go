package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/sphsim/internal/scene"
	"github.com/san-kum/sphsim/internal/sph"
)

// Defaults tuned so that a few hundred unit-mass particles stay stable with
// the explicit integrator. The bare solver defaults are reference values and
// are too stiff for dt = 0.01.
const (
	DefaultScene       = "block"
	DefaultBackend     = "auto"
	DefaultSteps       = 2000
	DefaultSampleEvery = 10
	DefaultCount       = 400
	DefaultMass        = 1.0
	DefaultSpacing     = 0.03
	DefaultDt          = 0.0005
	DefaultStiffness   = 2e-4
	DefaultGravity     = 2e-3
	DefaultViscosity   = 1e-6
)

type Config struct {
	Scene       string        `yaml:"scene"`
	Backend     string        `yaml:"backend"`
	Workers     int           `yaml:"workers"`
	Steps       int           `yaml:"steps"`
	SampleEvery int           `yaml:"sample_every"`
	Seed        int64         `yaml:"seed"`
	Init        InitConfig    `yaml:"init"`
	Physics     PhysicsConfig `yaml:"physics"`
}

type InitConfig struct {
	Count   int     `yaml:"count"`
	Mass    float64 `yaml:"mass"`
	Spacing float64 `yaml:"spacing"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
	Jitter  float64 `yaml:"jitter"`
}

type PhysicsConfig struct {
	SmoothingRadius  float64 `yaml:"smoothing_radius"`
	Stiffness        float64 `yaml:"stiffness"`
	Gravity          float64 `yaml:"gravity"`
	Viscosity        float64 `yaml:"viscosity"`
	Dt               float64 `yaml:"dt"`
	HalfWidth        float64 `yaml:"half_width"`
	HalfHeight       float64 `yaml:"half_height"`
	Damping          float64 `yaml:"damping"`
	NeighborCapacity int     `yaml:"neighbor_capacity"`
	Reflection       string  `yaml:"reflection"`
	WallInset        float64 `yaml:"wall_inset"`
}

func DefaultConfig() *Config {
	p := sph.DefaultParams()
	return &Config{
		Scene:       DefaultScene,
		Backend:     DefaultBackend,
		Steps:       DefaultSteps,
		SampleEvery: DefaultSampleEvery,
		Init: InitConfig{
			Count:   DefaultCount,
			Mass:    DefaultMass,
			Spacing: DefaultSpacing,
			X:       -p.HalfWidth + DefaultSpacing,
			Y:       -p.HalfHeight + DefaultSpacing,
		},
		Physics: PhysicsConfig{
			SmoothingRadius:  p.SmoothingRadius,
			Stiffness:        DefaultStiffness,
			Gravity:          DefaultGravity,
			Viscosity:        DefaultViscosity,
			Dt:               DefaultDt,
			HalfWidth:        p.HalfWidth,
			HalfHeight:       p.HalfHeight,
			Damping:          p.Damping,
			NeighborCapacity: p.NeighborCapacity,
			Reflection:       p.Reflection.String(),
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base, so keys missing from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SolverParams converts the physics section and validates the result.
func (c *Config) SolverParams() (sph.Params, error) {
	refl, err := sph.ParseReflectionPolicy(c.Physics.Reflection)
	if err != nil {
		return sph.Params{}, err
	}
	p := sph.Params{
		SmoothingRadius:  c.Physics.SmoothingRadius,
		Stiffness:        c.Physics.Stiffness,
		Gravity:          c.Physics.Gravity,
		Viscosity:        c.Physics.Viscosity,
		Dt:               c.Physics.Dt,
		HalfWidth:        c.Physics.HalfWidth,
		HalfHeight:       c.Physics.HalfHeight,
		Damping:          c.Physics.Damping,
		NeighborCapacity: c.Physics.NeighborCapacity,
		Reflection:       refl,
		WallInset:        c.Physics.WallInset,
	}
	if err := p.Validate(); err != nil {
		return sph.Params{}, fmt.Errorf("config: %w", err)
	}
	return p, nil
}

// SceneSpec returns the initial-condition description for scene.Build. The
// random scene fills the whole box.
func (c *Config) SceneSpec() scene.Spec {
	return scene.Spec{
		Count:      c.Init.Count,
		Mass:       c.Init.Mass,
		Spacing:    c.Init.Spacing,
		OriginX:    c.Init.X,
		OriginY:    c.Init.Y,
		HalfWidth:  c.Physics.HalfWidth,
		HalfHeight: c.Physics.HalfHeight,
		Jitter:     c.Init.Jitter,
		Seed:       c.Seed,
		VX:         c.Init.VX,
		VY:         c.Init.VY,
	}
}

// Particles builds the configured scene.
func (c *Config) Particles() (sph.Particles, error) {
	return scene.Build(c.Scene, c.SceneSpec())
}
