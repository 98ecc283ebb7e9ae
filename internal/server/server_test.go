package server

import (
	"os"
	"path/filepath"
	"testing"

	"Hearthvale/internal/dialogue"
	"Hearthvale/internal/game"
	"Hearthvale/internal/store"
)

func TestLoadGraphsFromDir(t *testing.T) {
	dir := t.TempDir()

	g, err := dialogue.NewGraph("ferryman", "dock", []*dialogue.Node{
		{ID: "dock", Speaker: "Ferryman", Text: "Crossing's a coin.", Choices: []dialogue.Choice{
			{Text: "Pay.", TargetID: "aboard"},
		}},
		{ID: "aboard", Speaker: "Ferryman", Text: "Mind the wake."},
	})
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	data, err := dialogue.EncodeGraph(g)
	if err != nil {
		t.Fatalf("EncodeGraph failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ferryman.json"), data, 0o644); err != nil {
		t.Fatalf("write content file: %v", err)
	}
	// Non-JSON files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("todo"), 0o644); err != nil {
		t.Fatalf("write notes file: %v", err)
	}

	graphs, err := loadGraphsFromDir(dir)
	if err != nil {
		t.Fatalf("loadGraphsFromDir failed: %v", err)
	}
	if len(graphs) != 1 {
		t.Fatalf("loaded %d graphs, want 1", len(graphs))
	}
	loaded := graphs[0]
	if loaded.ID != "ferryman" {
		t.Errorf("loaded graph id = %s", loaded.ID)
	}
	if errs := dialogue.Validate(loaded); len(errs) != 0 {
		t.Errorf("round-tripped graph failed validation: %v", errs)
	}
	if loaded.GetNode("dock") == nil {
		t.Error("decoded graph should be indexed")
	}
}

func TestLoadGraphsFromDirRejectsBadJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write content file: %v", err)
	}
	if _, err := loadGraphsFromDir(dir); err == nil {
		t.Error("expected a decode error for malformed JSON")
	}
}

func TestHubLookupAndOrder(t *testing.T) {
	graphs, err := game.SeedDialogues()
	if err != nil {
		t.Fatalf("SeedDialogues failed: %v", err)
	}
	hub := NewHub(graphs, nil)

	if hub.graph("robyn-welcome") == nil {
		t.Error("seeded graph not found in hub")
	}
	if hub.graph("no-such-npc") != nil {
		t.Error("unknown id should return nil")
	}
	listed := hub.graphs()
	if len(listed) != len(graphs) {
		t.Fatalf("hub lists %d graphs, want %d", len(listed), len(graphs))
	}
	for i := range graphs {
		if listed[i].ID != graphs[i].ID {
			t.Errorf("listing order changed at %d: %s vs %s", i, listed[i].ID, graphs[i].ID)
		}
	}
}

func TestHubGatePersistence(t *testing.T) {
	plays, err := store.Open(filepath.Join(t.TempDir(), "plays.db"))
	if err != nil {
		t.Fatalf("store open failed: %v", err)
	}
	defer plays.Close()

	hub := NewHub(nil, plays)

	gate := hub.loadGate("ana")
	g := &dialogue.DialogueGraph{ID: "robyn-welcome"}
	gate.MarkPlayed(g, 3)
	hub.saveGate("ana", gate)

	reloaded := hub.loadGate("ana")
	if reloaded.PlayCount("robyn-welcome") != 1 {
		t.Errorf("persisted play count = %d, want 1", reloaded.PlayCount("robyn-welcome"))
	}
	if reloaded.CanStart(g, 100) {
		t.Error("non-repeatable dialogue should stay locked across sessions")
	}
}

func TestHubGatePerPlayer(t *testing.T) {
	plays, err := store.Open(filepath.Join(t.TempDir(), "plays.db"))
	if err != nil {
		t.Fatalf("store open failed: %v", err)
	}
	defer plays.Close()

	hub := NewHub(nil, plays)
	g := &dialogue.DialogueGraph{ID: "marta-bakery", Repeatable: true}

	// Two concurrent players each load, play and save their own gate.
	anaGate := hub.loadGate("ana")
	benGate := hub.loadGate("ben")
	anaGate.MarkPlayed(g, 10)
	anaGate.MarkPlayed(g, 20)
	benGate.MarkPlayed(g, 5)
	hub.saveGate("ana", anaGate)
	hub.saveGate("ben", benGate)

	if got := hub.loadGate("ana").PlayCount("marta-bakery"); got != 2 {
		t.Errorf("ana play count = %d, want 2", got)
	}
	if got := hub.loadGate("ben").PlayCount("marta-bakery"); got != 1 {
		t.Errorf("ben play count = %d, want 1", got)
	}
}

func TestHubWithoutStore(t *testing.T) {
	hub := NewHub(nil, nil)
	gate := hub.loadGate("ana")
	if gate == nil {
		t.Fatal("loadGate must return a fresh gate without a store")
	}
	hub.saveGate("ana", gate) // must not panic
}
