package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	"smoothground/config"
	"smoothground/core"
	"smoothground/mesh"
	"smoothground/pathing"
)

func main() {
	var (
		settingsPath = flag.String("settings", "settings.json", "Settings file path")
		size         = flag.Float64("size", 0, "World size override in world units")
		seed         = flag.Int64("seed", 0, "Terrain seed override")
		resolution   = flag.Float64("resolution", 0, "Mesh cell size override")
		radius       = flag.Float64("radius", 0, "Smoothing radius override")
		workers      = flag.Int("workers", 0, "Blur worker count override")
		port         = flag.Int("port", 0, "Debug server port override")
		view         = flag.Bool("view", false, "Open the local viewer instead of the debug server")
	)
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *size > 0 {
		settings.World.Size = *size
	}
	if *seed != 0 {
		settings.World.Seed = *seed
	}
	if *resolution > 0 {
		settings.Mesh.Resolution = *resolution
	}
	if *radius > 0 {
		settings.Mesh.SmoothRadius = *radius
	}
	if *workers > 0 {
		settings.Mesh.Workers = *workers
	}
	if *port > 0 {
		settings.Server.Port = *port
	}

	fmt.Println("=== Smooth Ground Mesh ===")
	fmt.Printf("World: %.0f x %.0f (seed %d)\n", settings.World.Size, settings.World.Size, settings.World.Seed)
	fmt.Printf("Mesh resolution: %.0f, smooth radius: %.0f\n", settings.Mesh.Resolution, settings.Mesh.SmoothRadius)

	ground, err := core.GenerateGround(
		settings.World.Size,
		settings.World.SampleResolution,
		settings.World.Seed,
		settings.World.MaxElevation,
	)
	if err != nil {
		log.Fatalf("Failed to generate terrain: %v", err)
	}
	fmt.Printf("Terrain heights: [%.1f, %.1f]\n", ground.MinHeight(), ground.MaxHeight())

	start := time.Now()
	sm := mesh.New(ground, settings.World.Size, settings.World.Size, mesh.Config{
		Resolution:    settings.Mesh.Resolution,
		SmoothRadius:  settings.Mesh.SmoothRadius,
		BlurPasses:    settings.Mesh.BlurPasses,
		GaussianSigma: settings.Mesh.GaussianSigma,
		Workers:       settings.Mesh.Workers,
	})
	buildMillis := time.Since(start).Seconds() * 1000
	fmt.Printf("Smooth mesh build: %.1f ms (%dx%d samples)\n", buildMillis, sm.Width(), sm.Height())

	patcher := &meshPatcher{
		ground: ground,
		mesh:   sm,
		// once an eighth of the grid has been patched, rebuild instead
		rebuildThreshold: sm.Width() * sm.Height() / 8,
	}
	ground.AddListener(patcher)

	heat := pathing.NewHeatMap(sm, 2)

	if *view {
		runViewer(ground, sm, heat)
		return
	}

	srv := newDebugServer(ground, sm, patcher, settings.Server)
	log.Fatal(srv.run())
}

// meshPatcher keeps the smooth mesh approximately consistent after small
// terrain deformations without paying for a full rebuild: raised terrain is
// pushed into the mesh cell by cell, lowered terrain is left until enough
// cells have been touched to warrant rebuilding. Neighboring cells keep
// their stale smoothing either way; only a rebuild restores the full
// windowed-maximum guarantee across a changed neighborhood.
type meshPatcher struct {
	ground *core.Ground
	mesh   *mesh.SmoothMesh

	dirtyCells       int
	rebuildThreshold int

	// onRebuild, when set, observes completed rebuilds and their duration.
	onRebuild func(buildMillis float64)
}

func (p *meshPatcher) GroundChanged(x1, z1, x2, z2 float64) {
	res := p.mesh.CellSize()
	cx1 := int(x1 / res)
	cz1 := int(z1 / res)
	cx2 := int(math.Ceil(x2 / res))
	cz2 := int(math.Ceil(z2 / res))

	for cz := cz1; cz <= cz2; cz++ {
		for cx := cx1; cx <= cx2; cx++ {
			h := p.ground.HeightAt(float64(cx)*res, float64(cz)*res)
			p.mesh.SetMaxHeight(cx, cz, h)
			p.dirtyCells++
		}
	}

	if p.dirtyCells >= p.rebuildThreshold {
		p.Rebuild()
	}
}

// Rebuild runs a full mesh rebuild and resets the dirty counter.
func (p *meshPatcher) Rebuild() {
	start := time.Now()
	p.mesh.Rebuild()
	p.dirtyCells = 0

	buildMillis := time.Since(start).Seconds() * 1000
	fmt.Printf("Mesh rebuild: %.1f ms\n", buildMillis)
	if p.onRebuild != nil {
		p.onRebuild(buildMillis)
	}
}
