// Package mesh derives a coarse, smoothed height mesh from a fine terrain
// height field. Every mesh sample is guaranteed to lie at or above the true
// terrain within the configured smoothing radius, and the surface is
// low-pass filtered for continuity, which is what movement and path cost
// code needs: raw terrain is too noisy (cliffs, craters, single-cell
// spikes) for stable locomotion.
package mesh

import (
	"fmt"
	"math"
)

// HeightSource supplies true terrain heights. It must be defined over the
// full world domain handed to Init and is never mutated by the mesh.
type HeightSource interface {
	HeightAt(x, z float64) float64
	MinHeight() float64
	MaxHeight() float64
}

// Config carries the smoothing tuning knobs. Zero values fall back to the
// defaults below, except Resolution and SmoothRadius which are mandatory.
type Config struct {
	// Resolution is the mesh cell size in world units, coarser than the
	// underlying heightmap sampling.
	Resolution float64
	// SmoothRadius is the world-unit radius within which a mesh sample is
	// guaranteed to be at or above the true terrain.
	SmoothRadius float64
	// BlurPasses is the number of horizontal+vertical blur rounds.
	BlurPasses int
	// GaussianSigma tunes the blur kernel falloff.
	GaussianSigma float64
	// Workers bounds the blur worker pool; 0 means runtime.NumCPU.
	Workers int
}

const (
	defaultBlurPasses    = 2
	defaultGaussianSigma = 5.0
)

// SmoothMesh owns the coarse grid of smoothed height samples. It is built
// once per terrain change and queried many times per frame afterward.
// Build is single-writer; concurrent readers must only observe completed
// builds (the mesh is published whole, never mid-pass). Incremental edits
// assume a single logical owner; callers needing concurrent mutation add
// their own locking.
type SmoothMesh struct {
	ground HeightSource

	fmaxx, fmaxy float64 // world extents
	maxx, maxy   int     // highest cell index per axis
	resolution   float64
	smoothRadius float64

	winSize    int // smoothing radius in cells
	blurSize   int // blur kernel radius in cells
	blurPasses int
	sigma      float64
	workers    int

	// cur holds the live smoothed heights; scratch retains the last fully
	// smoothed state so incremental edits can be diffed against it.
	cur     []float64
	scratch []float64
}

// New configures a mesh over the given ground and runs one full build.
// Invalid configuration is a programmer error and panics: this runs once at
// map load and a silently degraded config would corrupt pathing for the
// whole match.
func New(ground HeightSource, worldWidth, worldHeight float64, cfg Config) *SmoothMesh {
	m := &SmoothMesh{ground: ground}
	m.Init(worldWidth, worldHeight, cfg)
	return m
}

// Init (re)configures the mesh and performs one full build, discarding any
// prior state.
func (m *SmoothMesh) Init(worldWidth, worldHeight float64, cfg Config) {
	if worldWidth <= 0 || worldHeight <= 0 {
		panic(fmt.Sprintf("mesh: invalid world extents %.2f x %.2f", worldWidth, worldHeight))
	}
	if cfg.Resolution <= 0 {
		panic(fmt.Sprintf("mesh: invalid resolution %.2f", cfg.Resolution))
	}
	if cfg.SmoothRadius <= 0 {
		panic(fmt.Sprintf("mesh: invalid smooth radius %.2f", cfg.SmoothRadius))
	}

	m.fmaxx = worldWidth
	m.fmaxy = worldHeight
	m.resolution = cfg.Resolution
	m.smoothRadius = math.Max(1.0, cfg.SmoothRadius)

	m.maxx = int(worldWidth/cfg.Resolution) + 1
	m.maxy = int(worldHeight/cfg.Resolution) + 1

	m.winSize = int(m.smoothRadius / m.resolution)
	m.blurSize = m.winSize / 2
	if m.blurSize < 1 {
		m.blurSize = 1
	}

	m.blurPasses = cfg.BlurPasses
	if m.blurPasses <= 0 {
		m.blurPasses = defaultBlurPasses
	}
	m.sigma = cfg.GaussianSigma
	if m.sigma <= 0 {
		m.sigma = defaultGaussianSigma
	}
	m.workers = cfg.Workers

	m.Rebuild()
}

// Rebuild recomputes the whole mesh from the current ground state. The new
// grid is swapped in only once every pass has completed.
func (m *SmoothMesh) Rebuild() {
	cur, scratch := m.makeSmoothMesh()
	m.cur = cur
	m.scratch = scratch
}

// Kill releases the grid storage. The mesh must be re-initialized before
// further use.
func (m *SmoothMesh) Kill() {
	m.cur = nil
	m.scratch = nil
}

// Width returns the number of height samples per row.
func (m *SmoothMesh) Width() int { return m.maxx + 1 }

// Height returns the number of height samples per column.
func (m *SmoothMesh) Height() int { return m.maxy + 1 }

// CellSize returns the world units covered by one grid cell.
func (m *SmoothMesh) CellSize() float64 { return m.resolution }

// SmoothRadius returns the world-unit radius of the maximum guarantee.
func (m *SmoothMesh) SmoothRadius() float64 { return m.smoothRadius }

// GetHeight returns the bilinearly interpolated smoothed height at world
// coordinates. Out-of-range coordinates clamp to the grid border; callers
// near map edges legitimately overshoot by floating-point slop.
func (m *SmoothMesh) GetHeight(x, z float64) float64 {
	if m.cur == nil {
		panic("mesh: GetHeight on an unbuilt mesh")
	}
	return interpolate(x, z, m.maxx, m.maxy, m.resolution, m.cur)
}

// GetHeightAboveWater returns the smoothed height floored at water level.
func (m *SmoothMesh) GetHeightAboveWater(x, z float64) float64 {
	if m.cur == nil {
		panic("mesh: GetHeightAboveWater on an unbuilt mesh")
	}
	return math.Max(0, interpolate(x, z, m.maxx, m.maxy, m.resolution, m.cur))
}

// SetHeight overwrites a single mesh cell and returns the new value. Cell
// coordinates clamp into grid bounds. Like all incremental edits this does
// not re-establish smoothing invariants for neighboring cells; extensive
// deformation needs a Rebuild.
func (m *SmoothMesh) SetHeight(x, y int, h float64) float64 {
	return m.setIndex(m.cellIndex(x, y), h)
}

// AddHeight adjusts a single mesh cell by a delta and returns the new value.
func (m *SmoothMesh) AddHeight(x, y int, h float64) float64 {
	i := m.cellIndex(x, y)
	return m.setIndex(i, m.cur[i]+h)
}

// SetMaxHeight raises a single mesh cell to at least h and returns the new
// value.
func (m *SmoothMesh) SetMaxHeight(x, y int, h float64) float64 {
	i := m.cellIndex(x, y)
	return m.setIndex(i, math.Max(h, m.cur[i]))
}

// cellIndex converts clamped cell coordinates to a flat mesh index.
func (m *SmoothMesh) cellIndex(x, y int) int {
	if x < 0 {
		x = 0
	} else if x > m.maxx {
		x = m.maxx
	}
	if y < 0 {
		y = 0
	} else if y > m.maxy {
		y = m.maxy
	}
	return x + y*(m.maxx+1)
}

// setIndex is the flat-index mutation fast path shared by the public edit
// methods.
func (m *SmoothMesh) setIndex(i int, h float64) float64 {
	if m.cur == nil {
		panic("mesh: edit on an unbuilt mesh")
	}
	m.cur[i] = h
	return h
}

// interpolate samples the grid bilinearly at world coordinates, clamping
// into bounds first.
func interpolate(x, z float64, maxx, maxy int, res float64, grid []float64) float64 {
	fx := clampf(x/res, 0, float64(maxx))
	fz := clampf(z/res, 0, float64(maxy))

	sx := int(fx)
	sz := int(fz)
	dx := fx - float64(sx)
	dz := fz - float64(sz)

	rowWidth := maxx + 1
	sxp1 := sx + 1
	if sxp1 > maxx {
		sxp1 = maxx
	}
	szp1 := sz + 1
	if szp1 > maxy {
		szp1 = maxy
	}

	h1 := grid[sx+sz*rowWidth]
	h2 := grid[sxp1+sz*rowWidth]
	h3 := grid[sx+szp1*rowWidth]
	h4 := grid[sxp1+szp1*rowWidth]

	hi1 := mix(h1, h2, dx)
	hi2 := mix(h3, h4, dx)
	return mix(hi1, hi2, dz)
}

// makeSmoothMesh runs the full build: the sequential sliding-window maximum
// sweep followed by the parallel separable blur passes. Both result buffers
// hold the final smoothed state on return.
func (m *SmoothMesh) makeSmoothMesh() (cur, scratch []float64) {
	cells := (m.maxx + 1) * (m.maxy + 1)
	cur = make([]float64, cells)
	scratch = make([]float64, cells)

	m.windowMaxPass(cur)

	kernel := gaussianKernel(m.blurSize, m.sigma)
	for pass := 0; pass < m.blurPasses; pass++ {
		m.blurHorizontal(kernel, cur, scratch)
		cur, scratch = scratch, cur
		m.blurVertical(kernel, cur, scratch)
		cur, scratch = scratch, cur
	}

	// Keep the fully smoothed state in the scratch buffer too, so edits can
	// later be compared against the last complete build.
	copy(scratch, cur)
	return cur, scratch
}

// windowMaxPass fills out with the sliding-window maximum surface: each
// cell holds the maximum true terrain height over the square window of
// half-width winSize cells around it, computed in amortized O(1) per cell.
func (m *SmoothMesh) windowMaxPass(out []float64) {
	st := newWindowState(m.maxx)
	st.findMaximumColumnHeights(m)

	for y := 0; y <= m.maxy; y++ {
		st.advanceMaximaRows(m, y)
		st.findRadialMaximum(m, y, out)
		st.fixRemainingMaxima(m, y)
	}
}

func mix(a, b, t float64) float64 {
	return a + (b-a)*t
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
