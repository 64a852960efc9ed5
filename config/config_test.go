package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Shape.Anchors != 4 {
		t.Errorf("expected 4 anchors, got %d", cfg.Shape.Anchors)
	}
	if cfg.Motion.MaxRadius != 0.42 {
		t.Errorf("expected max radius 0.42, got %f", cfg.Motion.MaxRadius)
	}
	if len(cfg.Zones.Zones) != 4 {
		t.Fatalf("expected 4 zones, got %d", len(cfg.Zones.Zones))
	}
	if cfg.Zones.Zones[0].Name != "low" || cfg.Zones.Zones[3].Name != "high" {
		t.Errorf("unexpected zone names: %q .. %q", cfg.Zones.Zones[0].Name, cfg.Zones.Zones[3].Name)
	}
	if cfg.Graph.SampleCount != 200 {
		t.Errorf("expected 200 samples, got %d", cfg.Graph.SampleCount)
	}
}

func TestLoadOverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	override := []byte("motion:\n  max_radius: 0.35\nshape:\n  anchors: 6\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Motion.MaxRadius != 0.35 {
		t.Errorf("expected overridden max radius 0.35, got %f", cfg.Motion.MaxRadius)
	}
	if cfg.Shape.Anchors != 6 {
		t.Errorf("expected overridden anchors 6, got %d", cfg.Shape.Anchors)
	}
	// Untouched fields keep their defaults.
	if cfg.Motion.ComfortRadius != 0.24 {
		t.Errorf("expected default comfort radius 0.24, got %f", cfg.Motion.ComfortRadius)
	}
	if cfg.Scale.MaxScale != 1.25 {
		t.Errorf("expected default max scale 1.25, got %f", cfg.Scale.MaxScale)
	}
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"comfort outside max", "motion:\n  comfort_radius: 0.5\n"},
		{"bad zone color", "zones:\n  zones:\n    - {name: a, lower: 0, upper: 50, color: \"nope\"}\n    - {name: b, lower: 50, upper: 100, color: \"#fff000\"}\n"},
		{"zone gap", "zones:\n  zones:\n    - {name: a, lower: 0, upper: 40, color: \"#ff0000\"}\n    - {name: b, lower: 50, upper: 100, color: \"#00ff00\"}\n"},
		{"too few anchors", "shape:\n  anchors: 2\n"},
		{"blend too wide", "zones:\n  blend_width: 90\n"},
		{"degenerate axis", "graph:\n  axis:\n    min_y: 100\n    max_y: 100\n"},
		{"telemetry without path", "telemetry:\n  enabled: true\n"},
	}

	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte(c.yaml), 0644); err != nil {
			t.Fatalf("%s: writing override: %v", c.name, err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error, got nil", c.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestZoneColorParses(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := cfg.Zones.Zones[0].ZoneColor()
	if c.R == 0 && c.G == 0 && c.B == 0 {
		t.Errorf("expected a parsed non-black color, got %v", c)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "echo.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Motion != cfg.Motion {
		t.Errorf("motion config changed across write/load: %+v vs %+v", back.Motion, cfg.Motion)
	}
	if back.Shape != cfg.Shape {
		t.Errorf("shape config changed across write/load: %+v vs %+v", back.Shape, cfg.Shape)
	}
}
