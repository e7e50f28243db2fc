package core

import (
	"fmt"
	"math"
)

// Ground is the fine-grained terrain height field. It stores one height
// sample per sampleRes world units over a square [0, size] x [0, size]
// domain and answers interpolated height queries at arbitrary world
// coordinates. Consumers treat it as read-only except for deformation
// events (craters), which go through ApplyCrater so listeners can react.
type Ground struct {
	size      float64 // world extent per axis
	sampleRes float64 // world units between samples
	samples   int     // samples per axis, size/sampleRes + 1

	heights   []float64
	minHeight float64
	maxHeight float64

	listeners []ChangeListener
}

// GenerateGround synthesizes a terrain of the given extent from seeded
// octave noise. maxElevation scales the noise into world height units;
// roughly a third of the terrain ends up below water level (height 0).
func GenerateGround(size, sampleRes float64, seed int64, maxElevation float64) (*Ground, error) {
	g, err := NewFlatGround(size, sampleRes, 0)
	if err != nil {
		return nil, err
	}

	noise := NewPerlin(seed)
	scale := 1.0 / (size * 0.25)

	for iz := 0; iz < g.samples; iz++ {
		for ix := 0; ix < g.samples; ix++ {
			x := float64(ix) * sampleRes
			z := float64(iz) * sampleRes
			n := noise.OctaveNoise2D(x*scale, z*scale, 5, 2.0, 0.5)
			// Shift upward so most terrain is walkable land
			g.heights[ix+iz*g.samples] = (n + 0.35) * maxElevation
		}
	}
	g.recomputeExtrema()
	return g, nil
}

// NewFlatGround creates a constant-height terrain, mainly for tests.
func NewFlatGround(size, sampleRes, height float64) (*Ground, error) {
	if size <= 0 || sampleRes <= 0 {
		return nil, fmt.Errorf("ground: invalid extent %.2f or sample resolution %.2f", size, sampleRes)
	}

	samples := int(size/sampleRes) + 1
	g := &Ground{
		size:      size,
		sampleRes: sampleRes,
		samples:   samples,
		heights:   make([]float64, samples*samples),
		minHeight: height,
		maxHeight: height,
	}
	if height != 0 {
		for i := range g.heights {
			g.heights[i] = height
		}
	}
	return g, nil
}

// Size returns the world extent per axis.
func (g *Ground) Size() float64 { return g.size }

// SampleResolution returns the spacing between raw height samples.
func (g *Ground) SampleResolution() float64 { return g.sampleRes }

// MinHeight returns the lowest raw sample.
func (g *Ground) MinHeight() float64 { return g.minHeight }

// MaxHeight returns the highest raw sample.
func (g *Ground) MaxHeight() float64 { return g.maxHeight }

// HeightAt returns the interpolated terrain height at world coordinates.
// Coordinates outside the domain clamp to the border.
func (g *Ground) HeightAt(x, z float64) float64 {
	fx := clampf(x/g.sampleRes, 0, float64(g.samples-1))
	fz := clampf(z/g.sampleRes, 0, float64(g.samples-1))

	sx := int(fx)
	sz := int(fz)
	dx := fx - float64(sx)
	dz := fz - float64(sz)

	sxp1 := sx + 1
	if sxp1 > g.samples-1 {
		sxp1 = g.samples - 1
	}
	szp1 := sz + 1
	if szp1 > g.samples-1 {
		szp1 = g.samples - 1
	}

	h1 := g.heights[sx+sz*g.samples]
	h2 := g.heights[sxp1+sz*g.samples]
	h3 := g.heights[sx+szp1*g.samples]
	h4 := g.heights[sxp1+szp1*g.samples]

	return lerp(dz, lerp(dx, h1, h2), lerp(dx, h3, h4))
}

// SetSampleHeight overwrites one raw sample and updates the extrema.
// Out-of-range indices are ignored.
func (g *Ground) SetSampleHeight(ix, iz int, h float64) {
	if ix < 0 || iz < 0 || ix >= g.samples || iz >= g.samples {
		return
	}
	g.heights[ix+iz*g.samples] = h
	if h > g.maxHeight {
		g.maxHeight = h
	}
	if h < g.minHeight {
		g.minHeight = h
	}
}

// craterRimFactor controls how far past the crater radius the raised rim
// extends, as a multiple of the radius.
const craterRimFactor = 1.3

// ApplyCrater deforms the terrain with a parabolic depression of the given
// depth surrounded by a raised rim, then notifies registered listeners with
// the changed world rectangle.
func (g *Ground) ApplyCrater(x, z, radius, depth float64) {
	if radius <= 0 || depth == 0 {
		return
	}

	rim := radius * craterRimFactor
	ix0 := int(math.Max(0, (x-rim)/g.sampleRes))
	iz0 := int(math.Max(0, (z-rim)/g.sampleRes))
	ix1 := int(math.Min(float64(g.samples-1), math.Ceil((x+rim)/g.sampleRes)))
	iz1 := int(math.Min(float64(g.samples-1), math.Ceil((z+rim)/g.sampleRes)))

	for iz := iz0; iz <= iz1; iz++ {
		for ix := ix0; ix <= ix1; ix++ {
			sx := float64(ix) * g.sampleRes
			sz := float64(iz) * g.sampleRes
			d := math.Hypot(sx-x, sz-z)

			idx := ix + iz*g.samples
			switch {
			case d < radius:
				t := d / radius
				g.heights[idx] -= depth * (1 - t*t)
			case d < rim:
				// Ejecta rim tapering to nothing at the outer edge
				t := (d - radius) / (rim - radius)
				g.heights[idx] += depth * 0.25 * (1 - t)
			}
		}
	}

	g.recomputeExtrema()
	g.notifyChanged(
		math.Max(0, x-rim), math.Max(0, z-rim),
		math.Min(g.size, x+rim), math.Min(g.size, z+rim),
	)
}

func (g *Ground) recomputeExtrema() {
	minH := g.heights[0]
	maxH := g.heights[0]
	for _, h := range g.heights {
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
	}
	g.minHeight = minH
	g.maxHeight = maxH
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
