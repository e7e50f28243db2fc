package main

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"smoothground/core"
	"smoothground/mesh"
	"smoothground/pathing"
)

// cellPixels is the on-screen size of one mesh cell in the viewer.
const cellPixels = 6

// runViewer opens a top-down raylib window over the smoothed mesh.
// Left click applies a crater at the cursor (the ground listener patches
// the mesh), right click lays a heat trail from the previous right click.
// Tab toggles between the smoothed mesh and the raw terrain so the
// conservative overshoot is visible.
func runViewer(ground *core.Ground, sm *mesh.SmoothMesh, heat *pathing.HeatMap) {
	w := sm.Width()
	h := sm.Height()
	res := sm.CellSize()

	rl.InitWindow(int32(w*cellPixels), int32(h*cellPixels+24), "smoothground")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	showRaw := false
	lastTrail := [2]int{w / 2, h / 2}

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyTab) {
			showRaw = !showRaw
		}

		mousePos := rl.GetMousePosition()
		cx := int(mousePos.X) / cellPixels
		cz := int(mousePos.Y) / cellPixels

		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && cz < h {
			wx := float64(cx) * res
			wz := float64(cz) * res
			ground.ApplyCrater(wx, wz, res*3, ground.MaxHeight()*0.2)
		}
		if rl.IsMouseButtonPressed(rl.MouseButtonRight) && cz < h {
			heat.AddPath(cellLine(lastTrail[0], lastTrail[1], cx, cz), 255, 1)
			lastTrail = [2]int{cx, cz}
		}
		heat.Update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)

		minH := ground.MinHeight()
		maxH := ground.MaxHeight()
		for z := 0; z < h; z++ {
			for x := 0; x < w; x++ {
				wx := float64(x) * res
				wz := float64(z) * res

				var height float64
				if showRaw {
					height = ground.HeightAt(wx, wz)
				} else {
					height = sm.GetHeight(wx, wz)
				}

				col := heightColor(height, minH, maxH)
				if hc := heat.HeatCost(x, z, -1); hc > 0 {
					col.R = uint8(math.Min(255, float64(col.R)+hc))
				}
				rl.DrawRectangle(int32(x*cellPixels), int32(z*cellPixels), cellPixels, cellPixels, col)
			}
		}

		label := "smoothed mesh"
		if showRaw {
			label = "raw terrain"
		}
		rl.DrawText(fmt.Sprintf("%s | Tab: toggle | LMB: crater | RMB: heat trail", label),
			4, int32(h*cellPixels+4), 16, rl.RayWhite)
		rl.EndDrawing()
	}
}

// heightColor maps a height into a blue/green/brown/white terrain ramp.
func heightColor(height, minH, maxH float64) rl.Color {
	if height <= 0 {
		// water: deeper is darker
		t := 0.0
		if minH < 0 {
			t = height / minH
		}
		return rl.NewColor(20, 60, uint8(200-120*t), 255)
	}

	t := 0.0
	if maxH > 0 {
		t = height / maxH
	}
	switch {
	case t < 0.4:
		return rl.NewColor(uint8(40+100*t), uint8(140+80*t), 50, 255)
	case t < 0.75:
		return rl.NewColor(uint8(120+100*t), uint8(100+40*t), 60, 255)
	default:
		g := uint8(200 + 55*t)
		return rl.NewColor(g, g, g, 255)
	}
}

// cellLine rasterizes the cells between two grid points, endpoints included.
func cellLine(x0, z0, x1, z1 int) [][2]int {
	steps := int(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(z1-z0))))
	if steps == 0 {
		return [][2]int{{x0, z0}}
	}

	cells := make([][2]int, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		cells = append(cells, [2]int{
			x0 + int(math.Round(t*float64(x1-x0))),
			z0 + int(math.Round(t*float64(z1-z0))),
		})
	}
	return cells
}
