package mesh

import "math"

// windowState is the per-build bookkeeping for the sliding-window maximum
// sweep. For every column it tracks the maximum true height inside the
// current vertical window and the row where that maximum was last seen, so
// the sweep can tell when a maximum falls off the trailing edge and must be
// recomputed. Discarded once the build completes.
type windowState struct {
	colsMaxima []float64
	maximaRows []int
}

func newWindowState(maxx int) *windowState {
	st := &windowState{
		colsMaxima: make([]float64, maxx+1),
		maximaRows: make([]int, maxx+1),
	}
	for x := range st.colsMaxima {
		st.colsMaxima[x] = -math.MaxFloat64
		st.maximaRows[x] = -1
	}
	return st
}

// findMaximumColumnHeights seeds the sweep: for each column, the maximum
// height over rows [0, winSize] and the row it occurred at.
func (st *windowState) findMaximumColumnHeights(m *SmoothMesh) {
	maxRow := m.maxy
	if m.winSize < maxRow {
		maxRow = m.winSize
	}

	for y := 0; y <= maxRow; y++ {
		cury := float64(y) * m.resolution
		for x := 0; x <= m.maxx; x++ {
			curh := m.ground.HeightAt(float64(x)*m.resolution, cury)
			if curh > st.colsMaxima[x] {
				st.colsMaxima[x] = curh
				st.maximaRows[x] = y
			}
		}
	}
}

// advanceMaximaRows pushes a column's recorded maximum row forward when the
// current row carries the same height. Keeping the most recent row for ties
// means the later eviction test stays correct.
func (st *windowState) advanceMaximaRows(m *SmoothMesh, y int) {
	cury := float64(y) * m.resolution

	for x := 0; x <= m.maxx; x++ {
		if st.maximaRows[x] != y-1 {
			continue
		}
		curh := m.ground.HeightAt(float64(x)*m.resolution, cury)
		if curh == st.colsMaxima[x] {
			st.maximaRows[x] = y
		}
	}
}

// findRadialMaximum writes row y of the mesh: for each cell, the maximum of
// the column maxima over the horizontal window [x-winSize, x+winSize]
// clamped to the grid. Because every column maximum already aggregates the
// vertical window, this row-max completes a true 2D square-window maximum.
func (st *windowState) findRadialMaximum(m *SmoothMesh, y int, out []float64) {
	rowWidth := m.maxx + 1

	for x := 0; x <= m.maxx; x++ {
		maxRowHeight := -math.MaxFloat64

		startx := x - m.winSize
		if startx < 0 {
			startx = 0
		}
		endx := x + m.winSize
		if endx > m.maxx {
			endx = m.maxx
		}

		for i := startx; i <= endx; i++ {
			if st.colsMaxima[i] > maxRowHeight {
				maxRowHeight = st.colsMaxima[i]
			}
		}

		out[x+y*rowWidth] = maxRowHeight
	}
}

// fixRemainingMaxima restores the per-column invariant before the sweep
// moves to the next row: if a column's maximum just left the vertical
// window, rescan the window for a fresh one (ties resolved toward the later
// row); otherwise only the row entering at the leading edge can change it.
func (st *windowState) fixRemainingMaxima(m *SmoothMesh, y int) {
	nextrow := y + m.winSize + 1
	nextrowy := float64(nextrow) * m.resolution

	for x := 0; x <= m.maxx; x++ {
		curx := float64(x) * m.resolution

		if st.maximaRows[x] <= y-m.winSize {
			// the old maximum left the window, find a new one
			st.colsMaxima[x] = -math.MaxFloat64

			starty := y - m.winSize + 1
			if starty < 0 {
				starty = 0
			}
			endy := nextrow
			if endy > m.maxy {
				endy = m.maxy
			}

			for y1 := starty; y1 <= endy; y1++ {
				h := m.ground.HeightAt(curx, float64(y1)*m.resolution)

				if h > st.colsMaxima[x] {
					st.colsMaxima[x] = h
					st.maximaRows[x] = y1
				} else if st.colsMaxima[x] == h {
					// on ties move as far down as possible
					st.maximaRows[x] = y1
				}
			}
		} else if nextrow <= m.maxy {
			// otherwise only the newly entered row can beat the maximum
			h := m.ground.HeightAt(curx, nextrowy)

			if h > st.colsMaxima[x] {
				st.colsMaxima[x] = h
				st.maximaRows[x] = nextrow
			}
		}
	}
}
