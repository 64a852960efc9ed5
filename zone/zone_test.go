package zone

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	blue  = colorful.Color{R: 0.2, G: 0.5, B: 1.0}
	green = colorful.Color{R: 0.1, G: 0.8, B: 0.4}
	amber = colorful.Color{R: 0.95, G: 0.7, B: 0.2}
	red   = colorful.Color{R: 0.95, G: 0.3, B: 0.3}
)

func testZones() []Zone {
	return []Zone{
		{Name: "low", Lower: 0, Upper: 35, Color: blue},
		{Name: "steady", Lower: 35, Upper: 65, Color: green},
		{Name: "elevated", Lower: 65, Upper: 85, Color: amber},
		{Name: "high", Lower: 85, Upper: 100, Color: red},
	}
}

func mustTable(t *testing.T, zones []Zone, blend float64) *Table {
	t.Helper()
	tab, err := NewTable(zones, blend)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tab
}

func TestNewTableValidation(t *testing.T) {
	gap := testZones()
	gap[1].Lower = 36

	empty := testZones()
	empty[2].Upper = empty[2].Lower

	cases := []struct {
		name  string
		zones []Zone
		blend float64
	}{
		{"no zones", nil, 0},
		{"gap between zones", gap, 0},
		{"empty zone", empty, 0},
		{"negative blend", testZones(), -1},
		{"blend wider than narrowest zone", testZones(), 16},
		{"non-finite bound", []Zone{{Name: "x", Lower: 0, Upper: math.Inf(1)}}, 0},
	}

	for _, c := range cases {
		if _, err := NewTable(c.zones, c.blend); err == nil {
			t.Errorf("%s: expected error, got nil", c.name)
		}
	}
}

func TestZoneAtHalfOpenIntervals(t *testing.T) {
	tab := mustTable(t, testZones(), 0)

	cases := []struct {
		v    float64
		want string
	}{
		{0, "low"},
		{34.999, "low"},
		{35, "steady"}, // boundary belongs to the zone above
		{64.999, "steady"},
		{65, "elevated"},
		{85, "high"},
		{100, "high"}, // final upper bound is inclusive
		{-20, "low"},  // outside the range clamps to terminals
		{250, "high"},
	}

	for _, c := range cases {
		if got := tab.ZoneAt(c.v).Name; got != c.want {
			t.Errorf("ZoneAt(%f): expected %q, got %q", c.v, c.want, got)
		}
	}
}

func TestColorForAwayFromBoundaries(t *testing.T) {
	tab := mustTable(t, testZones(), 8)

	cases := []struct {
		v    float64
		want colorful.Color
	}{
		{10, blue},
		{50, green},
		{75, amber},
		{95, red},
	}

	for _, c := range cases {
		if got := tab.ColorFor(c.v); got != c.want {
			t.Errorf("ColorFor(%f): expected %v, got %v", c.v, c.want, got)
		}
	}
}

func TestBlendBandEdgesMatchZoneColors(t *testing.T) {
	tab := mustTable(t, testZones(), 8)

	// Band around the 35 boundary spans [31, 39].
	if got := tab.ColorFor(31); got != blue {
		t.Errorf("expected pure low color at band start, got %v", got)
	}
	if got := tab.ColorFor(39); got != green {
		t.Errorf("expected pure steady color at band end, got %v", got)
	}
}

func TestBlendBandMidpointIsMean(t *testing.T) {
	tab := mustTable(t, testZones(), 8)

	got := tab.ColorFor(35)
	want := colorful.Color{
		R: (blue.R + green.R) / 2,
		G: (blue.G + green.G) / 2,
		B: (blue.B + green.B) / 2,
	}
	if math.Abs(got.R-want.R) > 1e-9 || math.Abs(got.G-want.G) > 1e-9 || math.Abs(got.B-want.B) > 1e-9 {
		t.Errorf("expected even mix %v at boundary, got %v", want, got)
	}
}

func TestBlendBandIsMonotonic(t *testing.T) {
	tab := mustTable(t, testZones(), 8)

	// Across the 65 boundary the red channel rises (green -> amber)
	// and the green channel falls. Strictly monotonic within the band.
	prev := tab.ColorFor(61)
	for v := 61.5; v <= 69; v += 0.5 {
		cur := tab.ColorFor(v)
		if cur.R <= prev.R {
			t.Fatalf("expected red channel rising at %f: %f then %f", v, prev.R, cur.R)
		}
		if cur.G >= prev.G {
			t.Fatalf("expected green channel falling at %f: %f then %f", v, prev.G, cur.G)
		}
		prev = cur
	}
}

func TestTerminalColorsSaturate(t *testing.T) {
	tab := mustTable(t, testZones(), 8)

	for _, v := range []float64{-1000, -0.001, 0} {
		if got := tab.ColorFor(v); got != blue {
			t.Errorf("ColorFor(%f): expected terminal low color, got %v", v, got)
		}
	}
	for _, v := range []float64{100, 101, 1e6} {
		if got := tab.ColorFor(v); got != red {
			t.Errorf("ColorFor(%f): expected terminal high color, got %v", v, got)
		}
	}
}

func TestBoundariesAndBounds(t *testing.T) {
	tab := mustTable(t, testZones(), 0)

	bs := tab.Boundaries()
	want := []float64{35, 65, 85}
	if len(bs) != len(want) {
		t.Fatalf("expected %d boundaries, got %d", len(want), len(bs))
	}
	for i := range want {
		if bs[i] != want[i] {
			t.Errorf("boundary %d: expected %f, got %f", i, want[i], bs[i])
		}
	}

	lo, hi := tab.Bounds()
	if lo != 0 || hi != 100 {
		t.Errorf("expected bounds [0, 100], got [%f, %f]", lo, hi)
	}
}

func TestSingleZoneTable(t *testing.T) {
	tab := mustTable(t, []Zone{{Name: "only", Lower: 0, Upper: 1, Color: red}}, 0)

	if len(tab.Boundaries()) != 0 {
		t.Errorf("expected no interior boundaries, got %v", tab.Boundaries())
	}
	for _, v := range []float64{-1, 0, 0.5, 1, 2} {
		if tab.ZoneAt(v).Name != "only" {
			t.Errorf("ZoneAt(%f): expected the only zone", v)
		}
		if tab.ColorFor(v) != red {
			t.Errorf("ColorFor(%f): expected the only color", v)
		}
	}
}
