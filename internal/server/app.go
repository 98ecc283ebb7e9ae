package server

import (
	"log"
	"sync"

	"Hearthvale/internal/dialogue"
	"Hearthvale/internal/game"
	"Hearthvale/internal/store"
)

// AppConfig configures the demo dialogue server.
type AppConfig struct {
	// DBPath is the SQLite file for availability persistence. Empty
	// disables persistence; every connection starts fresh.
	DBPath string
	// ContentDir optionally adds JSON graph files to the seeded set.
	ContentDir string
}

// DefaultAppConfig returns the stock configuration.
func DefaultAppConfig() AppConfig {
	return AppConfig{DBPath: "hearthvale.db"}
}

// Hub owns the shared read-only dialogue graphs and the availability store.
// Sessions hold their own engines; the hub only serializes store access.
type Hub struct {
	byID  map[dialogue.DialogueID]*dialogue.DialogueGraph
	order []*dialogue.DialogueGraph

	mu    sync.Mutex
	plays *store.Store // nil when persistence is disabled
}

// NewHub indexes the given graphs. Graph order is preserved for listings.
func NewHub(graphs []*dialogue.DialogueGraph, plays *store.Store) *Hub {
	h := &Hub{
		byID:  make(map[dialogue.DialogueID]*dialogue.DialogueGraph, len(graphs)),
		order: graphs,
		plays: plays,
	}
	for _, g := range graphs {
		h.byID[g.ID] = g
	}
	return h
}

func (h *Hub) graph(id dialogue.DialogueID) *dialogue.DialogueGraph {
	return h.byID[id]
}

func (h *Hub) graphs() []*dialogue.DialogueGraph {
	return h.order
}

// loadGate returns one player's persisted availability gate, or a fresh one
// when there is no store or the load fails.
func (h *Hub) loadGate(playerID string) *dialogue.AvailabilityGate {
	if h.plays == nil {
		return dialogue.NewAvailabilityGate()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	gate, err := h.plays.LoadGate(playerID)
	if err != nil {
		log.Printf("load availability state for %s: %v (starting fresh)", playerID, err)
		return dialogue.NewAvailabilityGate()
	}
	return gate
}

func (h *Hub) saveGate(playerID string, gate *dialogue.AvailabilityGate) {
	if h.plays == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.plays.SaveGate(playerID, gate); err != nil {
		log.Printf("save availability state for %s: %v", playerID, err)
	}
}

// StartApp seeds and validates the dialogue content, opens the availability
// store, and serves until the listener fails. Any validator finding in any
// graph is fatal: shipping a malformed graph is a build error, not a
// runtime condition.
func StartApp(addr string, cfg AppConfig) {
	graphs, err := game.SeedDialogues()
	if err != nil {
		log.Fatalf("failed to seed dialogues: %v", err)
	}
	if cfg.ContentDir != "" {
		extra, err := loadGraphsFromDir(cfg.ContentDir)
		if err != nil {
			log.Fatalf("failed to load content dir: %v", err)
		}
		graphs = append(graphs, extra...)
	}

	defects := 0
	for _, g := range graphs {
		for _, msg := range dialogue.Validate(g) {
			log.Printf("graph %s: %s", g.ID, msg)
			defects++
		}
	}
	if defects > 0 {
		log.Fatalf("dialogue content failed validation with %d defect(s)", defects)
	}

	var plays *store.Store
	if cfg.DBPath != "" {
		plays, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open availability store: %v", err)
		}
		defer plays.Close()
	}

	hub := NewHub(graphs, plays)
	log.Printf("dialogue server ready with %d graphs on %s", len(graphs), addr)
	startServer(hub, addr)
}
