package pathing

import (
	"math"
	"testing"
)

// rampMesh is a synthetic smoothed surface rising one unit of height per
// unit of x.
type rampMesh struct{ cell float64 }

func (r rampMesh) GetHeight(x, z float64) float64 { return x }
func (r rampMesh) CellSize() float64              { return r.cell }

// flatMesh is a constant surface.
type flatMesh struct{ cell float64 }

func (f flatMesh) GetHeight(x, z float64) float64 { return 3 }
func (f flatMesh) CellSize() float64              { return f.cell }

func TestSlopeAt(t *testing.T) {
	if s := SlopeAt(flatMesh{cell: 8}, 40, 40); s != 0 {
		t.Errorf("flat slope = %v, want 0", s)
	}
	if s := SlopeAt(rampMesh{cell: 8}, 40, 40); math.Abs(s-1) > 1e-9 {
		t.Errorf("ramp slope = %v, want 1", s)
	}
}

func TestTravelCost(t *testing.T) {
	flat := TravelCost(flatMesh{cell: 8}, 0, 0, 30, 40, 2.0)
	if math.Abs(flat-50) > 1e-9 {
		t.Errorf("flat travel cost = %v, want plain distance 50", flat)
	}

	uphill := TravelCost(rampMesh{cell: 8}, 0, 0, 30, 40, 2.0)
	if uphill <= flat {
		t.Errorf("sloped travel cost %v not above flat cost %v", uphill, flat)
	}

	if c := TravelCost(flatMesh{cell: 8}, 5, 5, 5, 5, 2.0); c != 0 {
		t.Errorf("zero-distance cost = %v, want 0", c)
	}
}
