// Package motion computes the per-tick position of an organic entity
// inside a square container: slow directional oscillation and noise
// wobble while free, pointer-following while dragged, eased returns
// after far drags, and a center lock with an eased release.
//
// Positions are normalized container fractions. The container center is
// (0.5, 0.5) and every output is hard-clamped to a configured radius
// around it, whatever state the model is in.
package motion

import (
	"fmt"
	"math"

	"github.com/pthm-cable/goop/noise"
)

// LockState is the center-lock half of the state machine.
type LockState int

const (
	// Free means the entity floats under oscillation and wobble.
	Free LockState = iota
	// CenterLocked pins the entity to the container center.
	CenterLocked
	// EasingFromCenter interpolates from the center back out to the
	// free-motion target after an unlock.
	EasingFromCenter
)

func (s LockState) String() string {
	switch s {
	case Free:
		return "free"
	case CenterLocked:
		return "center_locked"
	case EasingFromCenter:
		return "easing_from_center"
	}
	return "unknown"
}

// EdgeState is the drag edge-return half of the state machine.
type EdgeState int

const (
	// Idle means no edge return is in flight.
	Idle EdgeState = iota
	// EasingBack moves the base anchor from a far release point to the
	// comfort circle.
	EasingBack
)

func (s EdgeState) String() string {
	switch s {
	case Idle:
		return "idle"
	case EasingBack:
		return "easing_back"
	}
	return "unknown"
}

// noise lane for the perpendicular wobble channel
const wobbleLane = 51.3

// Params tunes the motion model. Radii and amplitudes are container
// fractions measured from the center; times are milliseconds.
type Params struct {
	MaxRadius       float64 // hard clamp on every output
	ComfortRadius   float64 // edge returns ease the base back to this radius
	ReversalRadius  float64 // beyond this, outward oscillation flips inward
	OscSpeed        float64 // oscillation angular speed, radians per ms
	OscAmplitude    float64 // oscillation half-travel along the trend direction
	WobbleSpeed     float64 // wobble noise time scale, noise units per ms
	WobbleAmplitude float64 // wobble half-travel across the trend direction
	EdgeReturnMs    float64 // duration of the post-drag edge return
	UnlockEaseMs    float64 // duration of the center-unlock ease
	ContainerPx     float64 // pixels per container unit, for drag deltas
}

// Model holds the motion state. It is single-owner: one goroutine calls
// Tick and the input methods.
type Model struct {
	params Params
	field  *noise.Field

	now        float64 // last tick time, ms
	trendAngle float64 // degrees, 0 up, 90 right, steers the oscillation
	phaseStart float64 // oscillation and wobble phase origin, ms

	pos  point // current output, offset from center
	base point // oscillation anchor, offset from center

	dragging   bool
	dragOrigin point // pointer position at BeginDrag, px
	dragBase   point // pos at BeginDrag, offset from center

	lock          LockState
	lockEaseStart float64

	edge             EdgeState
	edgeStart        float64
	edgeFrom, edgeTo point
}

// NewModel validates params and builds a model at rest on the container
// center, free and idle, with the given initial trend angle in degrees.
func NewModel(params Params, field *noise.Field, initialTrendAngle float64) (*Model, error) {
	if field == nil {
		return nil, fmt.Errorf("motion: nil noise field")
	}
	if !isFinite(params.MaxRadius) || params.MaxRadius <= 0 || params.MaxRadius > 0.5 {
		return nil, fmt.Errorf("motion: max radius must be in (0, 0.5], got %v", params.MaxRadius)
	}
	if !isFinite(params.ComfortRadius) || params.ComfortRadius <= 0 || params.ComfortRadius >= params.MaxRadius {
		return nil, fmt.Errorf("motion: comfort radius must be in (0, max radius), got %v", params.ComfortRadius)
	}
	if !isFinite(params.ReversalRadius) || params.ReversalRadius <= 0 || params.ReversalRadius >= params.MaxRadius {
		return nil, fmt.Errorf("motion: reversal radius must be in (0, max radius), got %v", params.ReversalRadius)
	}
	if !isFinite(params.OscSpeed) || params.OscSpeed < 0 {
		return nil, fmt.Errorf("motion: oscillation speed must be finite and non-negative, got %v", params.OscSpeed)
	}
	if !isFinite(params.OscAmplitude) || params.OscAmplitude < 0 {
		return nil, fmt.Errorf("motion: oscillation amplitude must be finite and non-negative, got %v", params.OscAmplitude)
	}
	if !isFinite(params.WobbleSpeed) || params.WobbleSpeed < 0 {
		return nil, fmt.Errorf("motion: wobble speed must be finite and non-negative, got %v", params.WobbleSpeed)
	}
	if !isFinite(params.WobbleAmplitude) || params.WobbleAmplitude < 0 {
		return nil, fmt.Errorf("motion: wobble amplitude must be finite and non-negative, got %v", params.WobbleAmplitude)
	}
	if !isFinite(params.EdgeReturnMs) || params.EdgeReturnMs <= 0 {
		return nil, fmt.Errorf("motion: edge return duration must be finite and positive, got %v", params.EdgeReturnMs)
	}
	if !isFinite(params.UnlockEaseMs) || params.UnlockEaseMs <= 0 {
		return nil, fmt.Errorf("motion: unlock ease duration must be finite and positive, got %v", params.UnlockEaseMs)
	}
	if !isFinite(params.ContainerPx) || params.ContainerPx <= 0 {
		return nil, fmt.Errorf("motion: container size must be finite and positive, got %v", params.ContainerPx)
	}
	if !isFinite(initialTrendAngle) {
		return nil, fmt.Errorf("motion: initial trend angle must be finite, got %v", initialTrendAngle)
	}

	return &Model{
		params:     params,
		field:      field,
		trendAngle: initialTrendAngle,
	}, nil
}

// Tick advances the model to the given time in milliseconds and
// recomputes the position for that instant.
func (m *Model) Tick(timeMs float64) {
	if !isFinite(timeMs) {
		return
	}
	m.now = timeMs

	switch {
	case m.lock == CenterLocked:
		m.pos = point{}
	case m.dragging:
		// Drag updates set the position synchronously; hold it.
	default:
		m.advanceEdgeReturn(timeMs)
		target := m.freeTarget(timeMs)
		if m.lock == EasingFromCenter {
			t := progress(timeMs, m.lockEaseStart, m.params.UnlockEaseMs)
			m.pos = target.scale(EaseOutCubic(t))
			if t >= 1 {
				m.lock = Free
			}
		} else {
			m.pos = target
		}
	}

	m.pos = m.pos.clampLen(m.params.MaxRadius)
}

// freeTarget is where unforced motion wants the entity this instant: the
// base anchor plus oscillation along the trend direction plus noise
// wobble across it.
func (m *Model) freeTarget(timeMs float64) point {
	theta := m.trendAngle * math.Pi / 180
	dir := point{math.Sin(theta), -math.Cos(theta)}
	perp := point{math.Cos(theta), math.Sin(theta)}

	osc := m.params.OscAmplitude * math.Sin((timeMs-m.phaseStart)*m.params.OscSpeed)

	// Past the reversal radius an oscillation term that would push the
	// entity farther outward flips sign and pulls inward instead.
	if r := m.base.len(); r > m.params.ReversalRadius {
		outward := m.base.scale(1 / r)
		if osc*dir.dot(outward) > 0 {
			osc = -osc
		}
	}

	wob := m.params.WobbleAmplitude * m.field.Sample(wobbleLane, (timeMs-m.phaseStart)*m.params.WobbleSpeed)

	return m.base.add(dir.scale(osc)).add(perp.scale(wob))
}

func (m *Model) advanceEdgeReturn(timeMs float64) {
	if m.edge != EasingBack {
		return
	}
	t := progress(timeMs, m.edgeStart, m.params.EdgeReturnMs)
	m.base = m.edgeFrom.lerp(m.edgeTo, EaseOutCubic(t))
	if t >= 1 {
		m.edge = Idle
	}
}

// Position returns the current position in container fractions, with
// (0.5, 0.5) at the container center.
func (m *Model) Position() (x, y float64) {
	return 0.5 + m.pos.x, 0.5 + m.pos.y
}

// TrendAngle returns the trend angle in degrees.
func (m *Model) TrendAngle() float64 {
	return m.trendAngle
}

// SetTrendAngle steers the oscillation direction. 0 points up, 90
// right, 180 down (y-down screen convention). The oscillation phase is
// left untouched, so the direction change blends into the ongoing
// cycle. Non-finite angles are ignored.
func (m *Model) SetTrendAngle(degrees float64) {
	if !isFinite(degrees) {
		return
	}
	m.trendAngle = degrees
}

// Lock returns the center-lock state.
func (m *Model) Lock() LockState {
	return m.lock
}

// Edge returns the edge-return state.
func (m *Model) Edge() EdgeState {
	return m.edge
}

// Dragging reports whether a drag is in progress.
func (m *Model) Dragging() bool {
	return m.dragging
}

// BeginDrag starts a pointer drag at the given pixel position. It
// reports false while the entity is locked to the center, where drags
// are refused. A new drag cancels any edge return in flight.
func (m *Model) BeginDrag(px, py float64) bool {
	if m.lock == CenterLocked {
		return false
	}
	if !isFinite(px) || !isFinite(py) {
		return false
	}
	m.dragging = true
	m.dragOrigin = point{px, py}
	m.dragBase = m.pos
	m.edge = Idle
	return true
}

// UpdateDrag moves the entity by the pointer delta since BeginDrag,
// converted to container fractions and clamped to the max radius. It
// applies immediately, between ticks. Ignored when no drag is active.
func (m *Model) UpdateDrag(px, py float64) {
	if !m.dragging || !isFinite(px) || !isFinite(py) {
		return
	}
	d := point{
		(px - m.dragOrigin.x) / m.params.ContainerPx,
		(py - m.dragOrigin.y) / m.params.ContainerPx,
	}
	m.pos = m.dragBase.add(d).clampLen(m.params.MaxRadius)
}

// EndDrag releases the drag. A release inside the comfort radius keeps
// the release point as the new base anchor; a release beyond it starts
// an edge return easing the base to the nearest point on the comfort
// circle. Oscillation resumes around the moving base either way.
func (m *Model) EndDrag() {
	if !m.dragging {
		return
	}
	m.dragging = false

	release := m.pos
	m.base = release
	if r := release.len(); r > m.params.ComfortRadius {
		m.edge = EasingBack
		m.edgeStart = m.now
		m.edgeFrom = release
		m.edgeTo = release.scale(m.params.ComfortRadius / r)
	}
}

// LockToCenter pins the entity to the container center, cancelling any
// drag or edge return and rebasing future motion on the center.
func (m *Model) LockToCenter() {
	m.lock = CenterLocked
	m.dragging = false
	m.edge = Idle
	m.pos = point{}
	m.base = point{}
}

// UnlockFromCenter releases a center lock. The position eases from the
// center out to the live free-motion target over the configured
// duration, and the oscillation restarts from a fresh cycle so the
// entity drifts away smoothly. A no-op unless locked.
func (m *Model) UnlockFromCenter() {
	if m.lock != CenterLocked {
		return
	}
	m.lock = EasingFromCenter
	m.lockEaseStart = m.now
	m.phaseStart = m.now
}

// EaseOutCubic maps t in [0, 1] onto a decelerating cubic curve. Inputs
// outside [0, 1] are clamped.
func EaseOutCubic(t float64) float64 {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	u := 1 - t
	return 1 - u*u*u
}

// progress maps elapsed time onto [0, 1]; a late tick past the window
// lands on 1 so eases finish instead of overshooting.
func progress(now, start, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	t := (now - start) / duration
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

type point struct {
	x, y float64
}

func (p point) add(o point) point {
	return point{p.x + o.x, p.y + o.y}
}

func (p point) scale(s float64) point {
	return point{p.x * s, p.y * s}
}

func (p point) dot(o point) float64 {
	return p.x*o.x + p.y*o.y
}

func (p point) len() float64 {
	return math.Hypot(p.x, p.y)
}

func (p point) lerp(o point, t float64) point {
	return point{p.x + (o.x-p.x)*t, p.y + (o.y-p.y)*t}
}

// clampLen limits the point's distance from the origin to r.
func (p point) clampLen(r float64) point {
	l := p.len()
	if l <= r {
		return p
	}
	return p.scale(r / l)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
