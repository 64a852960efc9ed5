// Package zone maps scalar values onto named, contiguous value ranges
// with a color per range and smooth color blending across range
// boundaries.
package zone

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Zone is one contiguous sub-range of the mapped domain. Lower is
// inclusive; Upper is exclusive except on the final zone of a table.
type Zone struct {
	Name  string
	Lower float64
	Upper float64
	Color colorful.Color
}

// Table maps values to zones and colors. Zones are ordered and
// contiguous. Inside a band of BlendWidth centered on each interior
// boundary, the neighboring zone colors are blended linearly; outside
// the declared range the terminal zone colors saturate, so every finite
// input yields a well-defined color.
type Table struct {
	zones      []Zone
	blendWidth float64
}

// NewTable validates and builds a zone table. Zones must be non-empty,
// finite, each with Lower < Upper, and contiguous (each zone's Upper is
// the next zone's Lower). blendWidth must be non-negative and no wider
// than the narrowest zone, so adjacent blend bands cannot overlap.
func NewTable(zones []Zone, blendWidth float64) (*Table, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("zone: table needs at least one zone")
	}
	if !isFinite(blendWidth) || blendWidth < 0 {
		return nil, fmt.Errorf("zone: blend width must be finite and non-negative, got %v", blendWidth)
	}

	narrowest := math.Inf(1)
	for i, z := range zones {
		if !isFinite(z.Lower) || !isFinite(z.Upper) {
			return nil, fmt.Errorf("zone: %q has non-finite bounds [%v, %v]", z.Name, z.Lower, z.Upper)
		}
		if z.Lower >= z.Upper {
			return nil, fmt.Errorf("zone: %q has empty range [%v, %v]", z.Name, z.Lower, z.Upper)
		}
		if i > 0 && zones[i-1].Upper != z.Lower {
			return nil, fmt.Errorf("zone: gap between %q (upper %v) and %q (lower %v)",
				zones[i-1].Name, zones[i-1].Upper, z.Name, z.Lower)
		}
		if w := z.Upper - z.Lower; w < narrowest {
			narrowest = w
		}
	}
	if blendWidth > narrowest {
		return nil, fmt.Errorf("zone: blend width %v exceeds narrowest zone width %v", blendWidth, narrowest)
	}

	t := &Table{
		zones:      make([]Zone, len(zones)),
		blendWidth: blendWidth,
	}
	copy(t.zones, zones)
	return t, nil
}

// ColorFor returns the display color for a value. Values inside a blend
// band get a linear mix of the two neighboring zone colors; values
// outside the table's range get the nearest terminal color.
func (t *Table) ColorFor(v float64) colorful.Color {
	zs := t.zones
	if v <= zs[0].Lower {
		return zs[0].Color
	}
	if v >= zs[len(zs)-1].Upper {
		return zs[len(zs)-1].Color
	}

	if t.blendWidth > 0 {
		half := t.blendWidth / 2
		for i := 0; i+1 < len(zs); i++ {
			b := zs[i].Upper
			if v >= b-half && v <= b+half {
				frac := (v - (b - half)) / t.blendWidth
				return zs[i].Color.BlendRgb(zs[i+1].Color, frac)
			}
		}
	}

	return zs[t.indexAt(v)].Color
}

// ZoneAt returns the zone containing v. Intervals are half-open
// [Lower, Upper) except the final zone, which includes its Upper;
// values outside the range resolve to the nearest terminal zone.
func (t *Table) ZoneAt(v float64) Zone {
	return t.zones[t.indexAt(v)]
}

func (t *Table) indexAt(v float64) int {
	zs := t.zones
	for i := range zs {
		if v < zs[i].Upper {
			return i
		}
	}
	return len(zs) - 1
}

// Zones returns a copy of the table's zones in order.
func (t *Table) Zones() []Zone {
	out := make([]Zone, len(t.zones))
	copy(out, t.zones)
	return out
}

// Boundaries returns the interior boundary values in ascending order.
func (t *Table) Boundaries() []float64 {
	out := make([]float64, 0, len(t.zones)-1)
	for i := 0; i+1 < len(t.zones); i++ {
		out = append(out, t.zones[i].Upper)
	}
	return out
}

// Bounds returns the lowest and highest values the table declares.
func (t *Table) Bounds() (lo, hi float64) {
	return t.zones[0].Lower, t.zones[len(t.zones)-1].Upper
}

// BlendWidth returns the width of the boundary blend bands.
func (t *Table) BlendWidth() float64 {
	return t.blendWidth
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
