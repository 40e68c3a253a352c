package config

import "sort"

// Presets are complete configurations keyed by name. Physics values not set
// here come from DefaultConfig through withDefaults.
var Presets = map[string]*Config{
	"dam": withDefaults(func(c *Config) {
		c.Scene = "block"
		c.Init.Count = 400
	}),
	"dam-large": withDefaults(func(c *Config) {
		c.Scene = "block"
		c.Init.Count = 1600
		c.Init.Spacing = 0.02
		c.Physics.NeighborCapacity = 64
		c.Steps = 4000
	}),
	"rain": withDefaults(func(c *Config) {
		c.Scene = "random"
		c.Init.Count = 600
		c.Init.VY = -0.2
		c.Seed = 7
	}),
	"splash": withDefaults(func(c *Config) {
		c.Scene = "block"
		c.Init.Count = 225
		c.Init.X = -0.2
		c.Init.Y = 0.3
		c.Init.VX = 0.6
		c.Init.Jitter = 0.004
		c.Physics.Reflection = "first-match"
		c.Physics.Damping = 0.7
	}),
	"pair": withDefaults(func(c *Config) {
		c.Scene = "pair"
		c.Init.Spacing = 0.02
		c.Init.X = 0
		c.Init.Y = 0
		c.Physics.Gravity = 0
		c.Steps = 200
		c.SampleEvery = 1
	}),
}

func withDefaults(apply func(*Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
