// Package noise provides deterministic 2D gradient noise for organic
// animation. Fields are cheap to sample, smooth in both arguments, and
// fully reproducible from a seed.
package noise

import (
	"math"
	"math/rand"
)

// Field generates coherent 2D gradient noise. It is immutable after
// construction, so a single Field can back any number of samplers.
// Values repeat with period 256 on both axes.
type Field struct {
	perm [512]int
}

// NewField creates a noise field from a seed. Equal seeds produce
// fields with identical output everywhere.
func NewField(seed int64) *Field {
	f := &Field{}
	rng := rand.New(rand.NewSource(seed))

	// Initialize permutation table
	var perm [256]int
	for i := range perm {
		perm[i] = i
	}

	// Shuffle
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	// Duplicate so corner hashing never wraps mid-lookup
	for i := 0; i < 256; i++ {
		f.perm[i] = perm[i]
		f.perm[i+256] = perm[i]
	}

	return f
}

// Sample returns the noise value at (x, y), always in [-1, 1].
// Samples at integer lattice points are exactly 0.
func (f *Field) Sample(x, y float64) float64 {
	// Find unit cell
	X := int(math.Floor(x)) & 255
	Y := int(math.Floor(y)) & 255

	// Find relative position in cell
	x -= math.Floor(x)
	y -= math.Floor(y)

	// Compute fade curves
	u := fade(x)
	v := fade(y)

	// Hash coordinates of cell corners
	a := f.perm[X] + Y
	b := f.perm[X+1] + Y

	// Blend results from 4 corners
	return lerp(v,
		lerp(u, grad(f.perm[a], x, y), grad(f.perm[b], x-1, y)),
		lerp(u, grad(f.perm[a+1], x, y-1), grad(f.perm[b+1], x-1, y-1)))
}

// FBM stacks octaves of a Field into fractal Brownian motion and
// renormalizes, so output stays in [-1, 1] like the raw field.
type FBM struct {
	Field      *Field
	Octaves    int
	Lacunarity float64 // frequency multiplier per octave
	Gain       float64 // amplitude multiplier per octave
}

// Sample returns octave-stacked noise at (x, y).
func (f FBM) Sample(x, y float64) float64 {
	sum := 0.0
	norm := 0.0
	amp := 1.0
	freq := 1.0
	for o := 0; o < f.Octaves; o++ {
		sum += amp * f.Field.Sample(x*freq, y*freq)
		norm += amp
		freq *= f.Lacunarity
		amp *= f.Gain
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad projects the in-cell offset onto one of the four diagonal
// gradients. Diagonal gradients keep the blended result inside [-1, 1]
// without a scaling pass.
func grad(hash int, x, y float64) float64 {
	switch hash & 3 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	default:
		return -x - y
	}
}
