// Package pathing holds the movement-side consumers of the smoothed height
// mesh: a path heat map that discourages units from stacking onto the same
// corridors, and slope-based travel cost estimation.
package pathing

// Geometry describes the coarse grid a heat map overlays. Satisfied by
// *mesh.SmoothMesh.
type Geometry interface {
	Width() int
	Height() int
	CellSize() float64
}

type heatCell struct {
	value uint32
	owner int
}

// HeatMap tracks recently reserved path squares on a down-scaled copy of
// the mesh grid. Heat is written with the current epoch offset added, so
// advancing the offset in Update expires old heat without sweeping the
// grid.
type HeatMap struct {
	xscale, zscale int
	xsize, zsize   int
	cellSize       float64
	offset         uint32
	cells          []heatCell
}

// NewHeatMap creates a heat map over the given grid, with scale mesh cells
// per heat cell on each axis.
func NewHeatMap(g Geometry, scale int) *HeatMap {
	if scale < 1 {
		scale = 1
	}
	xs := g.Width() / scale
	if xs < 1 {
		xs = 1
	}
	zs := g.Height() / scale
	if zs < 1 {
		zs = 1
	}

	return &HeatMap{
		xscale:   scale,
		zscale:   scale,
		xsize:    xs,
		zsize:    zs,
		cellSize: g.CellSize(),
		cells:    make([]heatCell, xs*zs),
	}
}

// index maps mesh cell coordinates to a heat cell, clamping into bounds.
func (hm *HeatMap) index(cx, cz int) int {
	cx /= hm.xscale
	cz /= hm.zscale
	if cx < 0 {
		cx = 0
	} else if cx >= hm.xsize {
		cx = hm.xsize - 1
	}
	if cz < 0 {
		cz = 0
	} else if cz >= hm.zsize {
		cz = hm.zsize - 1
	}
	return cz*hm.xsize + cx
}

// AddPath deposits heat along a unit's remaining path, given as mesh cell
// coordinate pairs. The i-th waypoint receives ((N-i)/N) * heat so the
// whole remaining path stays reserved while far-future waypoints cost
// other units little.
func (hm *HeatMap) AddPath(cells [][2]int, heat float64, owner int) {
	n := len(cells)
	if n == 0 || heat <= 0 {
		return
	}

	value := heat / float64(n)
	remaining := n
	for _, c := range cells {
		hm.updateValue(c[0], c[1], uint32(float64(remaining)*value), owner)
		remaining--
	}
}

// updateValue raises a heat cell to the given value if it beats what is
// already stored for the current epoch.
func (hm *HeatMap) updateValue(cx, cz int, value uint32, owner int) {
	idx := hm.index(cx, cz)

	if hm.cells[idx].value < value+hm.offset {
		hm.cells[idx].value = value + hm.offset
		hm.cells[idx].owner = owner
	}
}

// HeatCost returns the extra path cost at a mesh cell for the given unit.
// A unit never pays for its own heat.
func (hm *HeatMap) HeatCost(cx, cz, owner int) float64 {
	idx := hm.index(cx, cz)

	var val uint32
	if hm.cells[idx].value > hm.offset {
		val = hm.cells[idx].value - hm.offset
	}
	if hm.cells[idx].owner == owner {
		return 0
	}
	return float64(val)
}

// HeatCostAt reads heat at world coordinates instead of mesh cells.
func (hm *HeatMap) HeatCostAt(x, z float64, owner int) float64 {
	return hm.HeatCost(int(x/hm.cellSize), int(z/hm.cellSize), owner)
}

// Update advances the heat epoch; call once per simulation frame. Each
// advance devalues all stored heat by one.
func (hm *HeatMap) Update() {
	hm.offset++
}
