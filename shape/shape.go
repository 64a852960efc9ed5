// Package shape generates closed organic outlines: a ring of anchor
// points perturbed by coherent noise, joined into a loop of cubic
// segments whose handles are themselves noise-perturbed.
package shape

import (
	"fmt"
	"math"

	"honnef.co/go/curve"

	"github.com/pthm-cable/goop/noise"
)

// Noise lanes keep the perturbation channels decorrelated: each concern
// samples the field along its own x band while time drives y. The
// half-unit offsets keep anchor lanes off the field's zero-valued
// integer lattice columns.
const (
	laneAngle  = 0.5
	laneRadius = 64.5
	laneHandle = 128.5
	laneTilt   = 192.5

	anchorSpread = 4.7 // noise-space x distance between anchors
)

// Params tunes outline generation. Amplitudes are the maximum
// perturbation reached at full morph intensity.
type Params struct {
	Anchors    int     // anchor count around the ring, at least 3
	BaseRadius float64 // ring radius in output units
	MorphSpeed float64 // noise time scale, noise units per millisecond
	RadiusAmp  float64 // radial perturbation, fraction of BaseRadius, in [0, 1)
	AngleAmp   float64 // angular perturbation, radians
	HandleAmp  float64 // handle length perturbation, fraction of base length, in [0, 1)
	TiltAmp    float64 // handle direction tilt, radians
}

// Generator produces outlines from a noise field. Output depends only
// on params, field, time, and intensity, so equal inputs yield equal
// paths.
type Generator struct {
	params Params
	field  *noise.Field

	// handle length per unit radius that makes the unperturbed ring a
	// circle approximation: (4/3)*tan(pi/(2n))
	baseHandle float64
}

// NewGenerator validates params and builds a generator.
func NewGenerator(params Params, field *noise.Field) (*Generator, error) {
	if field == nil {
		return nil, fmt.Errorf("shape: nil noise field")
	}
	if params.Anchors < 3 {
		return nil, fmt.Errorf("shape: need at least 3 anchors, got %d", params.Anchors)
	}
	if !isFinite(params.BaseRadius) || params.BaseRadius <= 0 {
		return nil, fmt.Errorf("shape: base radius must be finite and positive, got %v", params.BaseRadius)
	}
	if !isFinite(params.MorphSpeed) || params.MorphSpeed < 0 {
		return nil, fmt.Errorf("shape: morph speed must be finite and non-negative, got %v", params.MorphSpeed)
	}
	if err := checkAmp("radius amplitude", params.RadiusAmp, 1); err != nil {
		return nil, err
	}
	if err := checkAmp("angle amplitude", params.AngleAmp, math.Pi); err != nil {
		return nil, err
	}
	if err := checkAmp("handle amplitude", params.HandleAmp, 1); err != nil {
		return nil, err
	}
	if err := checkAmp("tilt amplitude", params.TiltAmp, math.Pi); err != nil {
		return nil, err
	}

	return &Generator{
		params:     params,
		field:      field,
		baseHandle: (4.0 / 3.0) * math.Tan(math.Pi/(2*float64(params.Anchors))),
	}, nil
}

// Params returns the generator's configuration.
func (g *Generator) Params() Params {
	return g.params
}

// Generate builds the outline for the given time, centered on the
// origin. intensity scales every perturbation and is clamped to [0, 1];
// at 0 the output is the canonical circle approximation for the
// configured anchor count. The path is one MoveTo followed by one cubic
// per anchor, the last ending exactly on the first anchor, so the loop
// is closed and every segment is a cubic.
func (g *Generator) Generate(timeMs, intensity float64) curve.BezPath {
	if !isFinite(timeMs) {
		timeMs = 0
	}
	if !isFinite(intensity) {
		intensity = 0
	}
	intensity = clamp01(intensity)

	n := g.params.Anchors
	tn := timeMs * g.params.MorphSpeed

	type anchor struct {
		x, y   float64
		tx, ty float64 // unit tangent, shared by both adjacent handles
		handle float64 // handle length
	}
	anchors := make([]anchor, n)

	for i := 0; i < n; i++ {
		lane := float64(i) * anchorSpread
		na := g.field.Sample(laneAngle+lane, tn)
		nr := g.field.Sample(laneRadius+lane, tn)
		nh := g.field.Sample(laneHandle+lane, tn)
		nt := g.field.Sample(laneTilt+lane, tn)

		// First anchor sits at the top (y-down screen coordinates).
		theta := 2*math.Pi*float64(i)/float64(n) - math.Pi/2 + g.params.AngleAmp*intensity*na
		radius := g.params.BaseRadius * (1 + g.params.RadiusAmp*intensity*nr)

		// Tangent runs counter-clockwise, perpendicular to the radius
		// vector, tilted by its own noise channel.
		tang := theta + math.Pi/2 + g.params.TiltAmp*intensity*nt

		anchors[i] = anchor{
			x:      radius * math.Cos(theta),
			y:      radius * math.Sin(theta),
			tx:     math.Cos(tang),
			ty:     math.Sin(tang),
			handle: g.baseHandle * radius * (1 + g.params.HandleAmp*intensity*nh),
		}
	}

	path := curve.BezPath{}
	path.MoveTo(curve.Pt(anchors[0].x, anchors[0].y))
	for i := 0; i < n; i++ {
		a := anchors[i]
		b := anchors[(i+1)%n]
		path.CubicTo(
			curve.Pt(a.x+a.tx*a.handle, a.y+a.ty*a.handle),
			curve.Pt(b.x-b.tx*b.handle, b.y-b.ty*b.handle),
			curve.Pt(b.x, b.y),
		)
	}
	return path
}

func checkAmp(name string, v, limit float64) error {
	if !isFinite(v) || v < 0 || v >= limit {
		return fmt.Errorf("shape: %s must be in [0, %v), got %v", name, limit, v)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
