package mesh

import "math"

// invSqrt2Pi = 1/sqrt(2*pi)
const invSqrt2Pi = 0.3989422804014327

// gaussianKernel builds the half-kernel of blurSize+1 taps. Weights are
// normalized so the full symmetric window (taps -blurSize..+blurSize,
// exploiting the evenness of the Gaussian) sums to 1.
func gaussianKernel(blurSize int, sigma float64) []float64 {
	gauss := func(x int) float64 {
		fx := float64(x)
		return invSqrt2Pi * math.Exp(-0.5*fx*fx/(sigma*sigma)) / sigma
	}

	kernel := make([]float64, blurSize+1)
	kernel[0] = gauss(0)
	sum := kernel[0]
	for i := 1; i <= blurSize; i++ {
		kernel[i] = gauss(i)
		sum += 2.0 * kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// blurHorizontal convolves each row with the kernel, replicating edge
// samples past the border. Rows carry no data dependency on each other, so
// they fan out across the worker pool; each worker writes a disjoint row of
// dst and only reads the settled src buffer. Every output cell is re-floored
// at the true terrain height and clamped into the terrain's global range,
// keeping the mesh a conservative upper bound after smoothing.
func (m *SmoothMesh) blurHorizontal(kernel []float64, src, dst []float64) {
	rowWidth := m.maxx + 1

	parallelFor(m.maxy+1, m.workers, func(y int) {
		row := src[y*rowWidth : (y+1)*rowWidth]
		out := dst[y*rowWidth : (y+1)*rowWidth]
		cury := float64(y) * m.resolution

		for x := 0; x <= m.maxx; x++ {
			avg := 0.0
			for x1 := x - m.blurSize; x1 <= x+m.blurSize; x1++ {
				xc := x1
				if xc < 0 {
					xc = 0
				} else if xc > m.maxx {
					xc = m.maxx
				}
				d := x1 - x
				if d < 0 {
					d = -d
				}
				avg += kernel[d] * row[xc]
			}

			ghaw := m.ground.HeightAt(float64(x)*m.resolution, cury)
			out[x] = clampf(math.Max(ghaw, avg), m.ground.MinHeight(), m.ground.MaxHeight())
		}
	})
}

// blurVertical is the second half of the separable blur, convolving each
// column and fanning columns out across the pool.
func (m *SmoothMesh) blurVertical(kernel []float64, src, dst []float64) {
	rowWidth := m.maxx + 1

	parallelFor(m.maxx+1, m.workers, func(x int) {
		curx := float64(x) * m.resolution

		for y := 0; y <= m.maxy; y++ {
			avg := 0.0
			for y1 := y - m.blurSize; y1 <= y+m.blurSize; y1++ {
				yc := y1
				if yc < 0 {
					yc = 0
				} else if yc > m.maxy {
					yc = m.maxy
				}
				d := y1 - y
				if d < 0 {
					d = -d
				}
				avg += kernel[d] * src[x+yc*rowWidth]
			}

			ghaw := m.ground.HeightAt(curx, float64(y)*m.resolution)
			dst[x+y*rowWidth] = clampf(math.Max(ghaw, avg), m.ground.MinHeight(), m.ground.MaxHeight())
		}
	})
}
