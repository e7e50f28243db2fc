package mesh

import (
	"math"
	"testing"
)

// funcSource adapts a plain height function to the HeightSource interface.
type funcSource struct {
	f        func(x, z float64) float64
	min, max float64
}

func (s funcSource) HeightAt(x, z float64) float64 { return s.f(x, z) }
func (s funcSource) MinHeight() float64            { return s.min }
func (s funcSource) MaxHeight() float64            { return s.max }

// bumpyField is a deterministic synthetic terrain with plateaus, so the
// tie-handling paths of the sweep get exercised as well as the generic ones.
func bumpyField(x, z float64) float64 {
	h := 10*math.Sin(x*0.7) + 8*math.Cos(z*0.9) + 5*math.Sin((x+z)*0.3)
	// quantize into steps to create ties between neighboring cells
	return math.Floor(h / 4)
}

// bruteForceWindowMax is the O(R^2) reference the sweep replaces.
func bruteForceWindowMax(src HeightSource, maxx, maxy, winSize int, res float64, cx, cy int) float64 {
	best := -math.MaxFloat64
	for y := cy - winSize; y <= cy+winSize; y++ {
		if y < 0 || y > maxy {
			continue
		}
		for x := cx - winSize; x <= cx+winSize; x++ {
			if x < 0 || x > maxx {
				continue
			}
			h := src.HeightAt(float64(x)*res, float64(y)*res)
			if h > best {
				best = h
			}
		}
	}
	return best
}

func TestWindowedMaxMatchesBruteForce(t *testing.T) {
	src := funcSource{f: bumpyField, min: -10, max: 10}

	for _, radius := range []float64{1, 2, 3, 5} {
		m := New(src, 20, 20, Config{Resolution: 1, SmoothRadius: radius, Workers: 1})

		got := make([]float64, m.Width()*m.Height())
		m.windowMaxPass(got)

		for y := 0; y <= m.maxy; y++ {
			for x := 0; x <= m.maxx; x++ {
				want := bruteForceWindowMax(src, m.maxx, m.maxy, m.winSize, m.resolution, x, y)
				if got[x+y*m.Width()] != want {
					t.Fatalf("radius %.0f cell (%d,%d): got %v, want %v",
						radius, x, y, got[x+y*m.Width()], want)
				}
			}
		}
	}
}

func TestWindowedMaxAtWindowBoundary(t *testing.T) {
	// A single spike exactly winSize cells from a probe cell must still be
	// seen, and one cell further must not. This pins down the off-by-one
	// behavior at the window edges.
	const spikeX, spikeY = 10, 10
	src := funcSource{
		f: func(x, z float64) float64 {
			if x == spikeX && z == spikeY {
				return 50
			}
			return 0
		},
		min: 0, max: 50,
	}

	m := New(src, 20, 20, Config{Resolution: 1, SmoothRadius: 3, Workers: 1})
	if m.winSize != 3 {
		t.Fatalf("winSize = %d, want 3", m.winSize)
	}

	got := make([]float64, m.Width()*m.Height())
	m.windowMaxPass(got)

	for y := 0; y <= m.maxy; y++ {
		for x := 0; x <= m.maxx; x++ {
			inWindow := abs(x-spikeX) <= 3 && abs(y-spikeY) <= 3
			want := 0.0
			if inWindow {
				want = 50
			}
			if got[x+y*m.Width()] != want {
				t.Errorf("cell (%d,%d): got %v, want %v", x, y, got[x+y*m.Width()], want)
			}
		}
	}
}

func TestWindowLargerThanGrid(t *testing.T) {
	src := funcSource{f: bumpyField, min: -10, max: 10}

	// radius far beyond the world extent: every cell sees the global max
	m := New(src, 10, 10, Config{Resolution: 1, SmoothRadius: 100, Workers: 1})

	got := make([]float64, m.Width()*m.Height())
	m.windowMaxPass(got)

	globalMax := -math.MaxFloat64
	for y := 0; y <= m.maxy; y++ {
		for x := 0; x <= m.maxx; x++ {
			h := src.HeightAt(float64(x), float64(y))
			if h > globalMax {
				globalMax = h
			}
		}
	}

	for i, h := range got {
		if h != globalMax {
			t.Fatalf("cell %d: got %v, want global max %v", i, h, globalMax)
		}
	}
}

func TestWindowedMaxLowerBound(t *testing.T) {
	src := funcSource{f: bumpyField, min: -10, max: 10}
	m := New(src, 30, 30, Config{Resolution: 1.5, SmoothRadius: 4.5, Workers: 1})

	got := make([]float64, m.Width()*m.Height())
	m.windowMaxPass(got)

	for y := 0; y <= m.maxy; y++ {
		for x := 0; x <= m.maxx; x++ {
			ground := src.HeightAt(float64(x)*m.resolution, float64(y)*m.resolution)
			if got[x+y*m.Width()] < ground {
				t.Fatalf("cell (%d,%d): window max %v below ground %v",
					x, y, got[x+y*m.Width()], ground)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
