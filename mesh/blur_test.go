package mesh

import (
	"math"
	"testing"
)

func TestGaussianKernelNormalized(t *testing.T) {
	for _, blurSize := range []int{1, 2, 4, 9} {
		kernel := gaussianKernel(blurSize, 5.0)
		if len(kernel) != blurSize+1 {
			t.Fatalf("blurSize %d: kernel has %d taps, want %d", blurSize, len(kernel), blurSize+1)
		}

		sum := kernel[0]
		for i := 1; i <= blurSize; i++ {
			sum += 2 * kernel[i]
			if kernel[i] >= kernel[i-1] {
				t.Errorf("blurSize %d: kernel not decreasing at tap %d", blurSize, i)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("blurSize %d: full kernel sums to %v, want 1", blurSize, sum)
		}
	}
}

func TestFlatFieldStaysFlat(t *testing.T) {
	const height = 17.5
	src := funcSource{
		f:   func(x, z float64) float64 { return height },
		min: height, max: height,
	}

	for passes := 1; passes <= 4; passes++ {
		m := New(src, 64, 64, Config{
			Resolution:   4,
			SmoothRadius: 16,
			BlurPasses:   passes,
			Workers:      1,
		})

		for i, h := range m.cur {
			if h != height {
				t.Fatalf("%d passes: cell %d = %v, want exactly %v", passes, i, h, height)
			}
		}
	}
}

func TestBuildInvariants(t *testing.T) {
	src := funcSource{f: bumpyField, min: -10, max: 10}
	m := New(src, 40, 40, Config{Resolution: 2, SmoothRadius: 8})

	for y := 0; y <= m.maxy; y++ {
		for x := 0; x <= m.maxx; x++ {
			h := m.cur[x+y*m.Width()]
			ground := src.HeightAt(float64(x)*m.resolution, float64(y)*m.resolution)

			if h < ground-1e-9 {
				t.Errorf("cell (%d,%d): smoothed %v below ground %v", x, y, h, ground)
			}
			if h < src.MinHeight() || h > src.MaxHeight() {
				t.Errorf("cell (%d,%d): smoothed %v outside [%v, %v]",
					x, y, h, src.MinHeight(), src.MaxHeight())
			}
		}
	}
}

func TestBuildDeterministicAcrossWorkerCounts(t *testing.T) {
	src := funcSource{f: bumpyField, min: -10, max: 10}

	serial := New(src, 50, 50, Config{Resolution: 1, SmoothRadius: 5, Workers: 1})
	parallel := New(src, 50, 50, Config{Resolution: 1, SmoothRadius: 5, Workers: 8})

	for i := range serial.cur {
		if serial.cur[i] != parallel.cur[i] {
			t.Fatalf("cell %d differs between worker counts: %v vs %v",
				i, serial.cur[i], parallel.cur[i])
		}
	}
}

func TestSpikeScenario(t *testing.T) {
	// 100x100 world, resolution 8, radius 16 (winSize 2). A single spike of
	// height 50 at cell (5,5), flat 0 elsewhere.
	const res = 8.0
	src := funcSource{
		f: func(x, z float64) float64 {
			if x == 5*res && z == 5*res {
				return 50
			}
			return 0
		},
		min: 0, max: 50,
	}

	m := New(src, 100, 100, Config{Resolution: res, SmoothRadius: 16})
	if m.winSize != 2 {
		t.Fatalf("winSize = %d, want 2", m.winSize)
	}

	windowMax := make([]float64, m.Width()*m.Height())
	m.windowMaxPass(windowMax)

	for y := 0; y <= m.maxy; y++ {
		for x := 0; x <= m.maxx; x++ {
			want := 0.0
			if abs(x-5) <= 2 && abs(y-5) <= 2 {
				want = 50
			}
			if windowMax[x+y*m.Width()] != want {
				t.Errorf("window max at (%d,%d) = %v, want %v",
					x, y, windowMax[x+y*m.Width()], want)
			}
		}
	}

	// after blur: nothing below ground anywhere, and the spike cell itself
	// stays at its true height (max-with-raw caps it back to 50)
	for y := 0; y <= m.maxy; y++ {
		for x := 0; x <= m.maxx; x++ {
			h := m.cur[x+y*m.Width()]
			if h < 0 {
				t.Errorf("smoothed height at (%d,%d) = %v, below ground", x, y, h)
			}
		}
	}
	if peak := m.cur[5+5*m.Width()]; peak < 50 {
		t.Errorf("peak = %v, want >= 50", peak)
	}

	// the blur must produce a falloff: cells next to the plateau are lower
	// than the peak but still above the flat floor
	edge := m.cur[8+5*m.Width()]
	if edge <= 0 || edge >= 50 {
		t.Errorf("falloff cell = %v, want within (0, 50)", edge)
	}
}
