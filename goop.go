// Package goop is a procedural organic-motion renderer. It owns one blob
// entity (noise field, motion model, shape generator) and one optional graph
// (sampled curve, zone segments, spring-driven cursor), consumes numeric
// inputs (scalar value, trend angle, pointer deltas, elapsed time) and
// produces numeric and geometric outputs (an outline path, a normalized
// position, a color, a scale factor). Rendering, input capture, and
// scheduling are external collaborators that drive it through Tick and the
// input methods and read it back through Snapshot.
package goop

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"honnef.co/go/curve"

	"github.com/pthm-cable/goop/config"
	"github.com/pthm-cable/goop/graph"
	"github.com/pthm-cable/goop/motion"
	"github.com/pthm-cable/goop/noise"
	"github.com/pthm-cable/goop/shape"
	"github.com/pthm-cable/goop/zone"
)

// Renderer is the engine facade. All mutation happens inside Tick or the
// synchronous input methods; it is not safe for concurrent use.
type Renderer struct {
	field *noise.Field
	gen   *shape.Generator
	model *motion.Model
	table *zone.Table
	scale zone.ScaleMap
	axis  zone.Axis

	// Graph state, absent until the first SetCurve
	view   *graph.View
	cursor *graph.Cursor

	graphCfg config.GraphConfig
	rampMs   float64

	// Per-tick state
	now      float64
	haveTick bool
	value    float64
	outline  curve.BezPath

	// Morph ramp: intensity is pinned to 0 while locked and eases back to 1
	// over rampMs after an unlock
	morphLocked bool
	morphStart  float64

	lastZone     string
	onZoneChange []func(prev, next string)
}

// Snapshot is the immutable per-tick output bundle handed to rendering
// collaborators. The outline is rebuilt every tick and never mutated in
// place, so holding one across frames is safe.
type Snapshot struct {
	TimeMs  float64
	Outline curve.BezPath

	// Entity
	PosX, PosY float64
	Value      float64
	Zone       string
	Color      colorful.Color
	Scale      float64
	Morph      float64
	Lock       motion.LockState
	Edge       motion.EdgeState
	Dragging   bool

	// Cursor, zero values until a curve is set
	HasCurve    bool
	CursorX     float64
	CursorY     float64
	CursorValue float64
	CursorColor colorful.Color
	CursorZone  string
}

// New builds a renderer from a validated config. The seed fixes the noise
// field, so equal seeds and inputs replay identically.
func New(cfg *config.Config, seed int64) (*Renderer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	field := noise.NewField(seed)

	gen, err := shape.NewGenerator(shape.Params{
		Anchors:    cfg.Shape.Anchors,
		BaseRadius: cfg.Shape.BaseRadiusPx,
		MorphSpeed: cfg.Shape.MorphSpeed,
		RadiusAmp:  cfg.Shape.RadiusAmp,
		AngleAmp:   cfg.Shape.AngleAmp,
		HandleAmp:  cfg.Shape.HandleAmp,
		TiltAmp:    cfg.Shape.TiltAmp,
	}, field)
	if err != nil {
		return nil, fmt.Errorf("building shape generator: %w", err)
	}

	model, err := motion.NewModel(motion.Params{
		MaxRadius:       cfg.Motion.MaxRadius,
		ComfortRadius:   cfg.Motion.ComfortRadius,
		ReversalRadius:  cfg.Motion.ReversalRadius,
		OscSpeed:        cfg.Motion.OscSpeed,
		OscAmplitude:    cfg.Motion.OscAmplitude,
		WobbleSpeed:     cfg.Motion.WobbleSpeed,
		WobbleAmplitude: cfg.Motion.WobbleAmplitude,
		EdgeReturnMs:    cfg.Motion.EdgeReturnMs,
		UnlockEaseMs:    cfg.Motion.UnlockEaseMs,
		ContainerPx:     cfg.Motion.ContainerPx,
	}, field, cfg.Engine.InitialTrendAngle)
	if err != nil {
		return nil, fmt.Errorf("building motion model: %w", err)
	}

	zones := make([]zone.Zone, len(cfg.Zones.Zones))
	for i, zc := range cfg.Zones.Zones {
		zones[i] = zone.Zone{
			Name:  zc.Name,
			Lower: zc.Lower,
			Upper: zc.Upper,
			Color: zc.ZoneColor(),
		}
	}
	table, err := zone.NewTable(zones, cfg.Zones.BlendWidth)
	if err != nil {
		return nil, fmt.Errorf("building zone table: %w", err)
	}

	scale, err := zone.NewScaleMap(cfg.Scale.MinValue, cfg.Scale.MaxValue, cfg.Scale.MinScale, cfg.Scale.MaxScale)
	if err != nil {
		return nil, fmt.Errorf("building scale map: %w", err)
	}

	axis, err := zone.NewAxis(cfg.Graph.Axis.MinValue, cfg.Graph.Axis.MaxValue, cfg.Graph.Axis.MinY, cfg.Graph.Axis.MaxY)
	if err != nil {
		return nil, fmt.Errorf("building graph axis: %w", err)
	}

	r := &Renderer{
		field:    field,
		gen:      gen,
		model:    model,
		table:    table,
		scale:    scale,
		axis:     axis,
		graphCfg: cfg.Graph,
		rampMs:   cfg.Engine.MorphRampMs,
		value:    cfg.Engine.InitialValue,
		// Ramp already complete at startup
		morphStart: math.Inf(-1),
	}
	r.lastZone = table.ZoneAt(r.value).Name
	r.outline = gen.Generate(0, r.morphIntensity(0))

	return r, nil
}

// Tick advances the renderer to timeMs. Non-finite times are ignored.
func (r *Renderer) Tick(timeMs float64) {
	if math.IsNaN(timeMs) || math.IsInf(timeMs, 0) {
		return
	}

	dt := 0.0
	if r.haveTick {
		dt = (timeMs - r.now) / 1000.0
	}
	r.now = timeMs
	r.haveTick = true

	r.model.Tick(timeMs)
	r.outline = r.gen.Generate(timeMs, r.morphIntensity(timeMs))

	if r.cursor != nil {
		r.cursor.Step(dt)
	}

	r.notifyZoneChange()
}

// morphIntensity eases from 0 back to 1 over rampMs after an unlock.
func (r *Renderer) morphIntensity(timeMs float64) float64 {
	if r.morphLocked {
		return 0
	}
	if r.rampMs <= 0 {
		return 1
	}
	return motion.EaseOutCubic((timeMs - r.morphStart) / r.rampMs)
}

// SetScalarValue updates the scalar driving color and scale. Out-of-range
// values saturate at the terminal zones; non-finite values are ignored.
func (r *Renderer) SetScalarValue(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	r.value = v
	r.notifyZoneChange()
}

// Value returns the current scalar value.
func (r *Renderer) Value() float64 {
	return r.value
}

// SetTrendAngle steers the free-floating oscillation. Degrees are measured
// clockwise from vertical-up; takes effect next tick.
func (r *Renderer) SetTrendAngle(degrees float64) {
	r.model.SetTrendAngle(degrees)
}

// BeginDrag starts a pointer drag at the given pixel position. Returns false
// while center-locked.
func (r *Renderer) BeginDrag(px, py float64) bool {
	return r.model.BeginDrag(px, py)
}

// UpdateDrag moves an active drag to the given pixel position.
func (r *Renderer) UpdateDrag(px, py float64) {
	r.model.UpdateDrag(px, py)
}

// EndDrag releases an active drag. A release beyond the comfort radius
// starts the edge return.
func (r *Renderer) EndDrag() {
	r.model.EndDrag()
}

// LockToCenter pins the entity to the container center and suppresses
// morphing.
func (r *Renderer) LockToCenter() {
	r.model.LockToCenter()
	r.morphLocked = true
}

// UnlockFromCenter releases a center lock. The position eases out to the
// free-motion target and morph intensity ramps back to full. No-op unless
// locked.
func (r *Renderer) UnlockFromCenter() {
	if r.model.Lock() != motion.CenterLocked {
		return
	}
	r.model.UnlockFromCenter()
	r.morphLocked = false
	r.morphStart = r.now
}

// SetCurve replaces the graph curve and rebuilds the sampled view from
// scratch. The cursor keeps its spring state, clamped into the new domain.
func (r *Renderer) SetCurve(segs []curve.CubicBez) error {
	view, err := graph.NewView(segs, r.graphCfg.SampleCount, r.axis, r.table)
	if err != nil {
		return fmt.Errorf("building curve view: %w", err)
	}

	if r.cursor == nil {
		cursor, err := graph.NewCursor(view, r.graphCfg.CursorStiffness, r.graphCfg.CursorDamping)
		if err != nil {
			return fmt.Errorf("building cursor: %w", err)
		}
		r.cursor = cursor
	} else if err := r.cursor.Rebind(view); err != nil {
		return fmt.Errorf("rebinding cursor: %w", err)
	}

	r.view = view
	return nil
}

// SetCursorTarget springs the cursor toward x, clamped to the curve domain.
// No-op until a curve is set.
func (r *Renderer) SetCursorTarget(x float64) {
	if r.cursor == nil {
		return
	}
	r.cursor.SetTarget(x)
}

// OnZoneChange registers a callback fired whenever the scalar value's zone
// flips. Polling Snapshot remains the primary read path; callbacks are
// optional.
func (r *Renderer) OnZoneChange(fn func(prev, next string)) {
	if fn == nil {
		return
	}
	r.onZoneChange = append(r.onZoneChange, fn)
}

func (r *Renderer) notifyZoneChange() {
	next := r.table.ZoneAt(r.value).Name
	if next == r.lastZone {
		return
	}
	prev := r.lastZone
	r.lastZone = next
	for _, fn := range r.onZoneChange {
		fn(prev, next)
	}
}

// SegmentAt returns the zone segment covering x. ok is false until a curve
// is set.
func (r *Renderer) SegmentAt(x float64) (seg graph.Segment, ok bool) {
	if r.view == nil {
		return graph.Segment{}, false
	}
	return r.view.SegmentAt(x), true
}

// ValueAt returns the interpolated scalar value at x. ok is false until a
// curve is set.
func (r *Renderer) ValueAt(x float64) (v float64, ok bool) {
	if r.view == nil {
		return 0, false
	}
	return r.view.ValueAt(x), true
}

// ColorAt returns the blended zone color at x. ok is false until a curve is
// set.
func (r *Renderer) ColorAt(x float64) (c colorful.Color, ok bool) {
	if r.view == nil {
		return colorful.Color{}, false
	}
	return r.view.ColorAt(x), true
}

// Snapshot captures the current output state.
func (r *Renderer) Snapshot() Snapshot {
	px, py := r.model.Position()

	snap := Snapshot{
		TimeMs:   r.now,
		Outline:  r.outline,
		PosX:     px,
		PosY:     py,
		Value:    r.value,
		Zone:     r.table.ZoneAt(r.value).Name,
		Color:    r.table.ColorFor(r.value),
		Scale:    r.scale.ScaleFor(r.value),
		Morph:    r.morphIntensity(r.now),
		Lock:     r.model.Lock(),
		Edge:     r.model.Edge(),
		Dragging: r.model.Dragging(),
		HasCurve: r.view != nil,
	}

	if r.cursor != nil {
		snap.CursorX = r.cursor.X()
		snap.CursorY = r.cursor.Y()
		snap.CursorValue = r.cursor.Value()
		snap.CursorColor = r.cursor.Color()
		snap.CursorZone = r.cursor.Zone().Name
	}

	return snap
}
