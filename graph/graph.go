// Package graph samples smooth curves into arc-length point tables and
// partitions them into contiguous color-zone segments, with a
// spring-driven cursor for scrubbing along the result.
package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"honnef.co/go/curve"

	"github.com/pthm-cable/goop/zone"
)

// DefaultSampleCount is the sample density used when a caller passes 0.
const DefaultSampleCount = 200

const (
	arclenAccuracy = 1e-4
	fineSteps      = 1024 // flattening budget across the whole chain
)

// View is the sampled, segmented form of one curve: a dense point table
// at uniform arc-length steps sorted by x for value lookup, plus the
// zone segments the curve passes through. A View is immutable; swapping
// curves means building a new one.
type View struct {
	axis  zone.Axis
	table *zone.Table

	samples   []samplePoint
	crossings []Crossing
	segments  []Segment
}

// samplePoint is one resampled curve point. val caches the axis-mapped
// domain value of y.
type samplePoint struct {
	x, y float64
	val  float64
}

// Segment is a contiguous x run lying in a single zone.
type Segment struct {
	StartX float64
	EndX   float64
	Zone   string
}

// Crossing marks an x where the curve crosses a zone boundary value.
type Crossing struct {
	X        float64
	Boundary float64
}

// NewView resamples a chain of cubic segments and segments it against
// the zone table. The chain must contain at least one segment of
// nonzero length; sampleCount 0 selects DefaultSampleCount.
func NewView(segs []curve.CubicBez, sampleCount int, axis zone.Axis, table *zone.Table) (*View, error) {
	if table == nil {
		return nil, fmt.Errorf("graph: nil zone table")
	}
	if sampleCount == 0 {
		sampleCount = DefaultSampleCount
	}
	if sampleCount < 2 {
		return nil, fmt.Errorf("graph: need at least 2 samples, got %d", sampleCount)
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("graph: empty curve")
	}

	v := &View{axis: axis, table: table}
	if err := v.resample(segs, sampleCount); err != nil {
		return nil, err
	}
	v.crossings = v.findCrossings()
	v.segments = v.buildSegments()
	return v, nil
}

// resample flattens the chain into a chord polyline, then emits
// sampleCount points at uniform arc-length steps, sorted by x.
func (v *View) resample(segs []curve.CubicBez, sampleCount int) error {
	lens := make([]float64, len(segs))
	total := 0.0
	for i, s := range segs {
		lens[i] = s.Arclen(arclenAccuracy)
		if math.IsNaN(lens[i]) || math.IsInf(lens[i], 0) {
			return fmt.Errorf("graph: segment %d has non-finite length", i)
		}
		total += lens[i]
	}
	if total <= 0 {
		return fmt.Errorf("graph: curve has zero length")
	}

	// Flatten, spending the subdivision budget proportionally to each
	// segment's share of the total length. Zero-length segments drop
	// out here.
	var pts []curve.Point
	var cum []float64
	pts = append(pts, segs[0].P0)
	cum = append(cum, 0)
	for i, s := range segs {
		if lens[i] == 0 {
			continue
		}
		n := int(math.Ceil(fineSteps * lens[i] / total))
		if n < 8 {
			n = 8
		}
		for k := 1; k <= n; k++ {
			p := s.Eval(float64(k) / float64(n))
			prev := pts[len(pts)-1]
			d := math.Hypot(p.X-prev.X, p.Y-prev.Y)
			pts = append(pts, p)
			cum = append(cum, cum[len(cum)-1]+d)
		}
	}
	chordTotal := cum[len(cum)-1]
	if chordTotal <= 0 {
		return fmt.Errorf("graph: curve has zero length")
	}

	// Walk the polyline emitting points at even arc-length spacing.
	v.samples = make([]samplePoint, sampleCount)
	j := 0
	for i := 0; i < sampleCount; i++ {
		target := chordTotal * float64(i) / float64(sampleCount-1)
		for j+1 < len(cum)-1 && cum[j+1] < target {
			j++
		}
		a, b := pts[j], pts[j+1]
		seg := cum[j+1] - cum[j]
		t := 0.0
		if seg > 0 {
			t = (target - cum[j]) / seg
		}
		x := a.X + t*(b.X-a.X)
		y := a.Y + t*(b.Y-a.Y)
		v.samples[i] = samplePoint{x: x, y: y, val: v.axis.Value(y)}
	}

	sort.Slice(v.samples, func(a, b int) bool { return v.samples[a].x < v.samples[b].x })
	return nil
}

// YAtX returns the curve's display y at x by linear interpolation
// between the bracketing samples. Beyond the sampled domain it returns
// the boundary sample's y; it never extrapolates.
func (v *View) YAtX(x float64) float64 {
	ss := v.samples
	if x <= ss[0].x {
		return ss[0].y
	}
	if x >= ss[len(ss)-1].x {
		return ss[len(ss)-1].y
	}
	i := sort.Search(len(ss), func(i int) bool { return ss[i].x >= x })
	a, b := ss[i-1], ss[i]
	if b.x == a.x {
		return a.y
	}
	t := (x - a.x) / (b.x - a.x)
	return a.y + t*(b.y-a.y)
}

// ValueAt returns the domain value of the curve at x.
func (v *View) ValueAt(x float64) float64 {
	return v.axis.Value(v.YAtX(x))
}

// ColorAt returns the zone-blended color of the curve's value at x.
func (v *View) ColorAt(x float64) colorful.Color {
	return v.table.ColorFor(v.ValueAt(x))
}

// findCrossings scans consecutive x-sorted sample pairs for zone
// boundary values lying between the pair's values. The check is
// inclusive at the pair's lower value only, so a boundary landing
// exactly on a sample counts once, and a graze that touches without
// crossing counts zero times.
func (v *View) findCrossings() []Crossing {
	var crossings []Crossing
	bounds := v.table.Boundaries()
	for i := 0; i+1 < len(v.samples); i++ {
		a, b := v.samples[i], v.samples[i+1]
		lo, hi := a.val, b.val
		if lo > hi {
			lo, hi = hi, lo
		}
		for _, bv := range bounds {
			if bv < lo || bv >= hi {
				continue
			}
			t := 0.0
			if b.val != a.val {
				t = (bv - a.val) / (b.val - a.val)
			}
			crossings = append(crossings, Crossing{X: a.x + t*(b.x-a.x), Boundary: bv})
		}
	}
	sort.Slice(crossings, func(a, b int) bool { return crossings[a].X < crossings[b].X })
	return crossings
}

// buildSegments cuts the x domain at the crossings and classifies each
// piece by the zone of its midpoint value, merging neighbors that land
// in the same zone. The result covers [MinX, MaxX] with no gaps and no
// overlaps.
func (v *View) buildSegments() []Segment {
	minX := v.samples[0].x
	maxX := v.samples[len(v.samples)-1].x

	cuts := []float64{minX}
	for _, c := range v.crossings {
		if c.X > cuts[len(cuts)-1] && c.X < maxX {
			cuts = append(cuts, c.X)
		}
	}
	cuts = append(cuts, maxX)

	var segs []Segment
	for i := 0; i+1 < len(cuts); i++ {
		mid := (cuts[i] + cuts[i+1]) / 2
		name := v.table.ZoneAt(v.ValueAt(mid)).Name
		if n := len(segs); n > 0 && segs[n-1].Zone == name {
			segs[n-1].EndX = cuts[i+1]
		} else {
			segs = append(segs, Segment{StartX: cuts[i], EndX: cuts[i+1], Zone: name})
		}
	}
	return segs
}

// SegmentAt returns the zone segment covering x, clamping x into the
// sampled domain.
func (v *View) SegmentAt(x float64) Segment {
	for _, s := range v.segments {
		if x < s.EndX {
			return s
		}
	}
	return v.segments[len(v.segments)-1]
}

// Segments returns a copy of the zone segments in x order.
func (v *View) Segments() []Segment {
	out := make([]Segment, len(v.segments))
	copy(out, v.segments)
	return out
}

// Crossings returns a copy of the boundary crossings in x order.
func (v *View) Crossings() []Crossing {
	out := make([]Crossing, len(v.crossings))
	copy(out, v.crossings)
	return out
}

// MinX returns the left edge of the sampled domain.
func (v *View) MinX() float64 {
	return v.samples[0].x
}

// MaxX returns the right edge of the sampled domain.
func (v *View) MaxX() float64 {
	return v.samples[len(v.samples)-1].x
}

// Axis returns the view's value axis.
func (v *View) Axis() zone.Axis {
	return v.axis
}

// Table returns the view's zone table.
func (v *View) Table() *zone.Table {
	return v.table
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
