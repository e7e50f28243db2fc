package pathing

import "math"

// HeightQuerier is the slice of the smoothed mesh that cost estimation
// needs. Satisfied by *mesh.SmoothMesh.
type HeightQuerier interface {
	GetHeight(x, z float64) float64
	CellSize() float64
}

// SlopeAt estimates the terrain gradient magnitude of the smoothed mesh at
// world coordinates, by central differences over one grid cell. Because the
// mesh is a conservative upper bound on terrain, this never under-reports
// the slope a unit will actually climb.
func SlopeAt(q HeightQuerier, x, z float64) float64 {
	step := q.CellSize()

	dx := (q.GetHeight(x+step, z) - q.GetHeight(x-step, z)) / (2 * step)
	dz := (q.GetHeight(x, z+step) - q.GetHeight(x, z-step)) / (2 * step)
	return math.Hypot(dx, dz)
}

// TravelCost estimates the movement cost between two nearby points: the
// straight-line distance scaled up by the average slope at both endpoints.
// slopeMod tunes how strongly slope penalizes movement.
func TravelCost(q HeightQuerier, x1, z1, x2, z2, slopeMod float64) float64 {
	dist := math.Hypot(x2-x1, z2-z1)
	if dist == 0 {
		return 0
	}

	slope := 0.5 * (SlopeAt(q, x1, z1) + SlopeAt(q, x2, z2))
	return dist * (1 + slopeMod*slope)
}
