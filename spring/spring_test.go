package spring

import (
	"math"
	"testing"
)

func TestNewRejectsBadParams(t *testing.T) {
	cases := []struct {
		name                         string
		stiffness, damping, initial float64
	}{
		{"zero stiffness", 0, 1, 0},
		{"negative stiffness", -5, 1, 0},
		{"nan stiffness", math.NaN(), 1, 0},
		{"inf stiffness", math.Inf(1), 1, 0},
		{"negative damping", 10, -1, 0},
		{"nan damping", 10, math.NaN(), 0},
		{"nan initial", 10, 1, math.NaN()},
		{"inf initial", 10, 1, math.Inf(-1)},
	}

	for _, c := range cases {
		if _, err := New(c.stiffness, c.damping, c.initial); err == nil {
			t.Errorf("%s: expected error, got nil", c.name)
		}
	}
}

func TestStartsAtRestOnInitial(t *testing.T) {
	s, err := New(100, 20, 3.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Value() != 3.5 || s.Target() != 3.5 {
		t.Errorf("expected value and target 3.5, got %f and %f", s.Value(), s.Target())
	}
	for i := 0; i < 100; i++ {
		s.Step(1.0 / 60)
	}
	if s.Value() != 3.5 {
		t.Errorf("expected spring at rest to stay at 3.5, got %f", s.Value())
	}
}

func TestCriticallyDampedNeverOvershoots(t *testing.T) {
	const k = 25.0
	s, err := New(k, CriticalDamping(k), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.SetTarget(1)

	for i := 0; i < 600; i++ {
		v := s.Step(1.0 / 60)
		if v > 1+1e-9 {
			t.Fatalf("overshot target at step %d: %f", i, v)
		}
	}
	if !s.Settled(0.001) {
		t.Errorf("expected settled spring, value %f velocity %f", s.Value(), s.Velocity())
	}
}

func TestConvergesUnderJitteryDt(t *testing.T) {
	s, err := New(170, 26, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.SetTarget(10)

	// Alternate short and long frames like a busy UI thread.
	dts := []float64{1.0 / 120, 1.0 / 30, 1.0 / 60, 1.0 / 45}
	elapsed := 0.0
	for i := 0; elapsed < 5; i++ {
		s.Step(dts[i%len(dts)])
		elapsed += dts[i%len(dts)]
	}
	if !s.Settled(0.01) {
		t.Errorf("expected convergence to 10, value %f velocity %f", s.Value(), s.Velocity())
	}
}

func TestStepClampsHostileDt(t *testing.T) {
	s, _ := New(100, 20, 0)
	s.SetTarget(1)

	before := s.Value()
	s.Step(math.NaN())
	if s.Value() != before {
		t.Errorf("expected NaN dt to integrate nothing, value moved to %f", s.Value())
	}
	s.Step(-5)
	if s.Value() != before {
		t.Errorf("expected negative dt to integrate nothing, value moved to %f", s.Value())
	}

	// A huge dt integrates one clamped step, not a blowup.
	s.Step(1e9)
	if math.IsNaN(s.Value()) || math.IsInf(s.Value(), 0) {
		t.Fatalf("expected finite value after huge dt, got %f", s.Value())
	}
	maxMove := 100 * 1 * MaxStep * MaxStep // stiffness * error * dt^2
	if math.Abs(s.Value()) > maxMove+1e-9 {
		t.Errorf("expected one clamped step of at most %f, got %f", maxMove, s.Value())
	}
}

func TestStopFreezesMotion(t *testing.T) {
	s, _ := New(100, 5, 0)
	s.SetTarget(1)
	s.Step(1.0 / 60)
	if s.Velocity() == 0 {
		t.Fatal("expected nonzero velocity after stepping toward target")
	}

	s.Stop()
	if s.Velocity() != 0 {
		t.Errorf("expected zero velocity after Stop, got %f", s.Velocity())
	}

	// With the target moved onto the value there is no force left, so
	// a stopped spring must hold position.
	s.SetTarget(s.Value())
	v := s.Value()
	for i := 0; i < 10; i++ {
		s.Step(1.0 / 60)
	}
	if s.Value() != v {
		t.Errorf("expected stopped spring to hold %f, got %f", v, s.Value())
	}
}

func TestSetValueTeleports(t *testing.T) {
	s, _ := New(100, 20, 0)
	s.SetTarget(5)
	for i := 0; i < 30; i++ {
		s.Step(1.0 / 60)
	}

	s.SetValue(5)
	if s.Value() != 5 || s.Velocity() != 0 {
		t.Errorf("expected teleport to (5, 0), got (%f, %f)", s.Value(), s.Velocity())
	}
	for i := 0; i < 10; i++ {
		s.Step(1.0 / 60)
	}
	if s.Value() != 5 {
		t.Errorf("expected teleported spring to rest on target, got %f", s.Value())
	}
}
