package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"smoothground/config"
	"smoothground/core"
	"smoothground/mesh"
	"smoothground/pathing"
)

// meshSnapshot is the state pushed to debug clients: the smoothed mesh, the
// raw terrain sampled at the same corners, and the slope field pathing sees.
type meshSnapshot struct {
	Type        string    `json:"type"`
	BuildID     string    `json:"buildId"`
	BuildMillis float64   `json:"buildMillis"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CellSize    float64   `json:"cellSize"`
	MinHeight   float64   `json:"minHeight"`
	MaxHeight   float64   `json:"maxHeight"`
	Heights     []float64 `json:"heights"`
	Ground      []float64 `json:"ground"`
	Slopes      []float64 `json:"slopes"`
}

// debugServer streams mesh snapshots to websocket clients and accepts
// deformation commands back. All terrain and mesh access from handler
// goroutines is serialized through mu; the mesh itself is single-writer.
type debugServer struct {
	mu     sync.Mutex
	ground *core.Ground
	mesh   *mesh.SmoothMesh
	patch  *meshPatcher

	buildID     string
	buildMillis float64

	port     int
	interval time.Duration

	clients   map[*websocket.Conn]*sync.Mutex
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader
}

func newDebugServer(ground *core.Ground, sm *mesh.SmoothMesh, patch *meshPatcher, cfg config.ServerSettings) *debugServer {
	s := &debugServer{
		ground:   ground,
		mesh:     sm,
		patch:    patch,
		buildID:  uuid.NewString(),
		port:     cfg.Port,
		interval: time.Duration(cfg.UpdateIntervalMs) * time.Millisecond,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local debug tool, any origin may connect
			},
		},
	}
	patch.onRebuild = func(buildMillis float64) {
		s.buildID = uuid.NewString()
		s.buildMillis = buildMillis
	}
	return s
}

func (s *debugServer) run() error {
	http.HandleFunc("/ws", s.handleWebSocket)
	go s.broadcastLoop()

	fmt.Printf("Debug server on ws://localhost:%d/ws\n", s.port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), nil)
}

func (s *debugServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.clientsMu.Unlock()
	}()

	s.sendSnapshot(conn)

	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			log.Println("WebSocket read error:", err)
			break
		}

		switch msg["cmd"] {
		case "crater":
			x, _ := msg["x"].(float64)
			z, _ := msg["z"].(float64)
			radius, _ := msg["radius"].(float64)
			depth, _ := msg["depth"].(float64)
			fmt.Printf("CRATER: (%.0f, %.0f) radius %.0f depth %.0f\n", x, z, radius, depth)

			s.mu.Lock()
			s.ground.ApplyCrater(x, z, radius, depth)
			s.mu.Unlock()
		case "rebuild":
			s.mu.Lock()
			s.patch.Rebuild()
			s.mu.Unlock()
		}
	}
}

func (s *debugServer) broadcastLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		s.broadcastSnapshot()
	}
}

func (s *debugServer) snapshot() meshSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.mesh.Width()
	h := s.mesh.Height()
	res := s.mesh.CellSize()

	snap := meshSnapshot{
		Type:        "mesh",
		BuildID:     s.buildID,
		BuildMillis: s.buildMillis,
		Width:       w,
		Height:      h,
		CellSize:    res,
		MinHeight:   s.ground.MinHeight(),
		MaxHeight:   s.ground.MaxHeight(),
		Heights:     make([]float64, w*h),
		Ground:      make([]float64, w*h),
		Slopes:      make([]float64, w*h),
	}

	for cz := 0; cz < h; cz++ {
		for cx := 0; cx < w; cx++ {
			x := float64(cx) * res
			z := float64(cz) * res
			i := cx + cz*w
			snap.Heights[i] = s.mesh.GetHeight(x, z)
			snap.Ground[i] = s.ground.HeightAt(x, z)
			snap.Slopes[i] = pathing.SlopeAt(s.mesh, x, z)
		}
	}
	return snap
}

func (s *debugServer) sendSnapshot(conn *websocket.Conn) {
	s.clientsMu.RLock()
	mutex, ok := s.clients[conn]
	s.clientsMu.RUnlock()
	if !ok {
		return
	}

	snap := s.snapshot()
	mutex.Lock()
	conn.WriteJSON(snap)
	mutex.Unlock()
}

func (s *debugServer) broadcastSnapshot() {
	snap := s.snapshot()

	s.clientsMu.RLock()
	var failed []*websocket.Conn
	for client, mutex := range s.clients {
		mutex.Lock()
		err := client.WriteJSON(snap)
		mutex.Unlock()
		if err != nil {
			log.Println("WebSocket write error:", err)
			client.Close()
			failed = append(failed, client)
		}
	}
	s.clientsMu.RUnlock()

	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, client := range failed {
			delete(s.clients, client)
		}
		s.clientsMu.Unlock()
	}
}
