// Package config provides configuration loading and validation for the
// renderer.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all renderer configuration parameters.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Motion    MotionConfig    `yaml:"motion"`
	Shape     ShapeConfig     `yaml:"shape"`
	Zones     ZonesConfig     `yaml:"zones"`
	Scale     ScaleConfig     `yaml:"scale"`
	Graph     GraphConfig     `yaml:"graph"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// EngineConfig holds facade-level settings.
type EngineConfig struct {
	InitialValue      float64 `yaml:"initial_value"`       // scalar value before the first SetScalarValue
	InitialTrendAngle float64 `yaml:"initial_trend_angle"` // degrees, 0 up, 90 right
	MorphRampMs       float64 `yaml:"morph_ramp_ms"`       // morph intensity ramp after an unlock
}

// MotionConfig holds motion model parameters. Radii and amplitudes are
// container fractions; times are milliseconds.
type MotionConfig struct {
	MaxRadius       float64 `yaml:"max_radius"`       // hard clamp on every position
	ComfortRadius   float64 `yaml:"comfort_radius"`   // edge returns target this radius
	ReversalRadius  float64 `yaml:"reversal_radius"`  // beyond this, outward oscillation flips inward
	OscSpeed        float64 `yaml:"osc_speed"`        // radians per ms
	OscAmplitude    float64 `yaml:"osc_amplitude"`    // along the trend direction
	WobbleSpeed     float64 `yaml:"wobble_speed"`     // noise units per ms
	WobbleAmplitude float64 `yaml:"wobble_amplitude"` // across the trend direction
	EdgeReturnMs    float64 `yaml:"edge_return_ms"`
	UnlockEaseMs    float64 `yaml:"unlock_ease_ms"`
	ContainerPx     float64 `yaml:"container_px"` // pixels per container unit, for drag deltas
}

// ShapeConfig holds outline generation parameters.
type ShapeConfig struct {
	Anchors      int     `yaml:"anchors"`        // anchor count around the ring
	BaseRadiusPx float64 `yaml:"base_radius_px"` // outline radius in pixels
	MorphSpeed   float64 `yaml:"morph_speed"`    // noise units per ms
	RadiusAmp    float64 `yaml:"radius_amp"`     // fraction of base radius
	AngleAmp     float64 `yaml:"angle_amp"`      // radians
	HandleAmp    float64 `yaml:"handle_amp"`     // fraction of base handle length
	TiltAmp      float64 `yaml:"tilt_amp"`       // radians
}

// ZonesConfig declares the value zones and the boundary blend width.
type ZonesConfig struct {
	BlendWidth float64      `yaml:"blend_width"` // value units, centered on each boundary
	Zones      []ZoneConfig `yaml:"zones"`
}

// ZoneConfig is one named value range with its display color.
type ZoneConfig struct {
	Name  string  `yaml:"name"`
	Lower float64 `yaml:"lower"`
	Upper float64 `yaml:"upper"`
	Color string  `yaml:"color"` // #rrggbb
}

// ScaleConfig maps the scalar value onto a display scale factor.
type ScaleConfig struct {
	MinValue float64 `yaml:"min_value"`
	MaxValue float64 `yaml:"max_value"`
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`
}

// GraphConfig holds curve sampling and cursor parameters.
type GraphConfig struct {
	SampleCount     int        `yaml:"sample_count"`
	CursorStiffness float64    `yaml:"cursor_stiffness"`
	CursorDamping   float64    `yaml:"cursor_damping"`
	Axis            AxisConfig `yaml:"axis"`
}

// AxisConfig maps the value domain onto display y coordinates.
type AxisConfig struct {
	MinValue float64 `yaml:"min_value"`
	MaxValue float64 `yaml:"max_value"`
	MinY     float64 `yaml:"min_y"` // y coordinate of MinValue
	MaxY     float64 `yaml:"max_y"` // y coordinate of MaxValue; below MinY flips the axis
}

// TelemetryConfig controls the optional per-tick CSV trace.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load loads configuration from a YAML file, merging with embedded
// defaults and validating the result. If path is empty, only embedded
// defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every constraint the components enforce at
// construction time, naming the offending config path in the error.
func (c *Config) Validate() error {
	if c.Engine.MorphRampMs <= 0 {
		return fmt.Errorf("engine.morph_ramp_ms must be positive, got %v", c.Engine.MorphRampMs)
	}

	m := c.Motion
	if m.MaxRadius <= 0 || m.MaxRadius > 0.5 {
		return fmt.Errorf("motion.max_radius must be in (0, 0.5], got %v", m.MaxRadius)
	}
	if m.ComfortRadius <= 0 || m.ComfortRadius >= m.MaxRadius {
		return fmt.Errorf("motion.comfort_radius must be in (0, motion.max_radius), got %v", m.ComfortRadius)
	}
	if m.ReversalRadius <= 0 || m.ReversalRadius >= m.MaxRadius {
		return fmt.Errorf("motion.reversal_radius must be in (0, motion.max_radius), got %v", m.ReversalRadius)
	}
	if m.OscSpeed < 0 || m.OscAmplitude < 0 || m.WobbleSpeed < 0 || m.WobbleAmplitude < 0 {
		return fmt.Errorf("motion speeds and amplitudes must be non-negative")
	}
	if m.EdgeReturnMs <= 0 {
		return fmt.Errorf("motion.edge_return_ms must be positive, got %v", m.EdgeReturnMs)
	}
	if m.UnlockEaseMs <= 0 {
		return fmt.Errorf("motion.unlock_ease_ms must be positive, got %v", m.UnlockEaseMs)
	}
	if m.ContainerPx <= 0 {
		return fmt.Errorf("motion.container_px must be positive, got %v", m.ContainerPx)
	}

	s := c.Shape
	if s.Anchors < 3 {
		return fmt.Errorf("shape.anchors must be at least 3, got %d", s.Anchors)
	}
	if s.BaseRadiusPx <= 0 {
		return fmt.Errorf("shape.base_radius_px must be positive, got %v", s.BaseRadiusPx)
	}
	if s.MorphSpeed < 0 {
		return fmt.Errorf("shape.morph_speed must be non-negative, got %v", s.MorphSpeed)
	}
	if s.RadiusAmp < 0 || s.RadiusAmp >= 1 {
		return fmt.Errorf("shape.radius_amp must be in [0, 1), got %v", s.RadiusAmp)
	}
	if s.HandleAmp < 0 || s.HandleAmp >= 1 {
		return fmt.Errorf("shape.handle_amp must be in [0, 1), got %v", s.HandleAmp)
	}
	if s.AngleAmp < 0 || s.TiltAmp < 0 {
		return fmt.Errorf("shape.angle_amp and shape.tilt_amp must be non-negative")
	}

	if len(c.Zones.Zones) == 0 {
		return fmt.Errorf("zones.zones must declare at least one zone")
	}
	if c.Zones.BlendWidth < 0 {
		return fmt.Errorf("zones.blend_width must be non-negative, got %v", c.Zones.BlendWidth)
	}
	for i, z := range c.Zones.Zones {
		if z.Name == "" {
			return fmt.Errorf("zones.zones[%d].name must not be empty", i)
		}
		if z.Lower >= z.Upper {
			return fmt.Errorf("zones.zones[%d] (%s) has empty range [%v, %v]", i, z.Name, z.Lower, z.Upper)
		}
		if i > 0 && c.Zones.Zones[i-1].Upper != z.Lower {
			return fmt.Errorf("zones.zones[%d] (%s) does not start where %s ends", i, z.Name, c.Zones.Zones[i-1].Name)
		}
		if _, err := colorful.Hex(z.Color); err != nil {
			return fmt.Errorf("zones.zones[%d].color: parsing %q: %w", i, z.Color, err)
		}
		if w := z.Upper - z.Lower; c.Zones.BlendWidth > w {
			return fmt.Errorf("zones.blend_width %v exceeds the width of zone %s (%v)", c.Zones.BlendWidth, z.Name, w)
		}
	}

	if c.Scale.MinValue == c.Scale.MaxValue {
		return fmt.Errorf("scale.min_value and scale.max_value must differ")
	}
	if c.Scale.MinScale <= 0 || c.Scale.MaxScale <= 0 {
		return fmt.Errorf("scale factors must be positive, got %v and %v", c.Scale.MinScale, c.Scale.MaxScale)
	}

	g := c.Graph
	if g.SampleCount < 2 {
		return fmt.Errorf("graph.sample_count must be at least 2, got %d", g.SampleCount)
	}
	if g.CursorStiffness <= 0 {
		return fmt.Errorf("graph.cursor_stiffness must be positive, got %v", g.CursorStiffness)
	}
	if g.CursorDamping < 0 {
		return fmt.Errorf("graph.cursor_damping must be non-negative, got %v", g.CursorDamping)
	}
	if g.Axis.MinValue == g.Axis.MaxValue {
		return fmt.Errorf("graph.axis value domain is degenerate at %v", g.Axis.MinValue)
	}
	if g.Axis.MinY == g.Axis.MaxY {
		return fmt.Errorf("graph.axis y range is degenerate at %v", g.Axis.MinY)
	}

	if c.Telemetry.Enabled && c.Telemetry.Path == "" {
		return fmt.Errorf("telemetry.path must be set when telemetry is enabled")
	}

	return nil
}

// ZoneColor returns the parsed color of a zone entry. Call only after
// Validate has accepted the config.
func (z ZoneConfig) ZoneColor() colorful.Color {
	c, _ := colorful.Hex(z.Color)
	return c
}

// WriteYAML writes the full effective configuration to a file.
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
