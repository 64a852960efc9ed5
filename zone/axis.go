package zone

import "fmt"

// Axis is a bidirectional affine mapping between a scalar value domain
// and a display coordinate interval. The coordinate interval may run
// opposite the value domain (larger values drawn at smaller
// coordinates), which is the usual case for screen-space y.
type Axis struct {
	minValue, maxValue float64
	minCoord, maxCoord float64
}

// NewAxis builds an axis mapping [minValue, maxValue] onto
// [minCoord, maxCoord]. Both intervals must be finite and
// non-degenerate.
func NewAxis(minValue, maxValue, minCoord, maxCoord float64) (Axis, error) {
	for _, v := range []float64{minValue, maxValue, minCoord, maxCoord} {
		if !isFinite(v) {
			return Axis{}, fmt.Errorf("zone: axis bounds must be finite, got [%v, %v] -> [%v, %v]",
				minValue, maxValue, minCoord, maxCoord)
		}
	}
	if minValue == maxValue {
		return Axis{}, fmt.Errorf("zone: axis value domain is degenerate at %v", minValue)
	}
	if minCoord == maxCoord {
		return Axis{}, fmt.Errorf("zone: axis coordinate range is degenerate at %v", minCoord)
	}
	return Axis{minValue: minValue, maxValue: maxValue, minCoord: minCoord, maxCoord: maxCoord}, nil
}

// Coord maps a domain value to its display coordinate. The mapping is
// exact and unclamped, so Coord and Value invert each other.
func (a Axis) Coord(v float64) float64 {
	t := (v - a.minValue) / (a.maxValue - a.minValue)
	return a.minCoord + t*(a.maxCoord-a.minCoord)
}

// Value maps a display coordinate back to its domain value.
func (a Axis) Value(c float64) float64 {
	t := (c - a.minCoord) / (a.maxCoord - a.minCoord)
	return a.minValue + t*(a.maxValue-a.minValue)
}

// ValueBounds returns the axis value domain.
func (a Axis) ValueBounds() (min, max float64) {
	return a.minValue, a.maxValue
}

// CoordBounds returns the display coordinates of the value domain's
// minimum and maximum, in that order.
func (a Axis) CoordBounds() (min, max float64) {
	return a.minCoord, a.maxCoord
}

// ScaleMap maps a scalar value to a display scale factor, saturating at
// the terminal scales outside the declared value range.
type ScaleMap struct {
	minValue, maxValue float64
	minScale, maxScale float64
}

// NewScaleMap builds a scale mapping. The value domain must be finite
// and non-degenerate; scales must be finite and positive.
func NewScaleMap(minValue, maxValue, minScale, maxScale float64) (ScaleMap, error) {
	for _, v := range []float64{minValue, maxValue, minScale, maxScale} {
		if !isFinite(v) {
			return ScaleMap{}, fmt.Errorf("zone: scale map bounds must be finite, got [%v, %v] -> [%v, %v]",
				minValue, maxValue, minScale, maxScale)
		}
	}
	if minValue == maxValue {
		return ScaleMap{}, fmt.Errorf("zone: scale map value domain is degenerate at %v", minValue)
	}
	if minScale <= 0 || maxScale <= 0 {
		return ScaleMap{}, fmt.Errorf("zone: scales must be positive, got %v and %v", minScale, maxScale)
	}
	return ScaleMap{minValue: minValue, maxValue: maxValue, minScale: minScale, maxScale: maxScale}, nil
}

// ScaleFor returns the scale factor for a value, clamped to the
// declared scale range.
func (m ScaleMap) ScaleFor(v float64) float64 {
	t := (v - m.minValue) / (m.maxValue - m.minValue)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return m.minScale + t*(m.maxScale-m.minScale)
}
