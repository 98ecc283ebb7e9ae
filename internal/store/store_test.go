package store

import (
	"path/filepath"
	"testing"

	"Hearthvale/internal/dialogue"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "gate.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	gate := dialogue.NewAvailabilityGate()
	vendor := &dialogue.DialogueGraph{ID: "marta-bakery", Repeatable: true, CooldownS: 60}
	intro := &dialogue.DialogueGraph{ID: "robyn-welcome"}
	gate.MarkPlayed(vendor, 100)
	gate.MarkPlayed(vendor, 200)
	gate.MarkPlayed(intro, 5)

	if err := s.SaveGate("p1", gate); err != nil {
		t.Fatalf("SaveGate failed: %v", err)
	}

	loaded, err := s.LoadGate("p1")
	if err != nil {
		t.Fatalf("LoadGate failed: %v", err)
	}
	if loaded.PlayCount("marta-bakery") != 2 {
		t.Errorf("marta-bakery play count = %d, want 2", loaded.PlayCount("marta-bakery"))
	}
	if loaded.CanStart(vendor, 230) {
		t.Error("loaded gate should still enforce the vendor cooldown")
	}
	if !loaded.CanStart(vendor, 261) {
		t.Error("loaded gate should allow the vendor after cooldown")
	}
	if loaded.CanStart(intro, 1e9) {
		t.Error("loaded gate should keep the non-repeatable intro locked")
	}
}

func TestSaveOverwritesExisting(t *testing.T) {
	s := openTestStore(t)

	gate := dialogue.NewAvailabilityGate()
	g := &dialogue.DialogueGraph{ID: "g", Repeatable: true}
	gate.MarkPlayed(g, 10)
	if err := s.SaveGate("p1", gate); err != nil {
		t.Fatalf("first SaveGate failed: %v", err)
	}
	gate.MarkPlayed(g, 50)
	if err := s.SaveGate("p1", gate); err != nil {
		t.Fatalf("second SaveGate failed: %v", err)
	}

	loaded, err := s.LoadGate("p1")
	if err != nil {
		t.Fatalf("LoadGate failed: %v", err)
	}
	rec, ok := loaded.Records()["g"]
	if !ok {
		t.Fatal("record missing after save")
	}
	if rec.LastPlayed != 50 || rec.PlayCount != 2 {
		t.Errorf("record = %+v, want last_played 50, play_count 2", rec)
	}
}

func TestRecordsKeyedPerPlayer(t *testing.T) {
	s := openTestStore(t)
	g := &dialogue.DialogueGraph{ID: "g", Repeatable: true}

	first := dialogue.NewAvailabilityGate()
	first.MarkPlayed(g, 10)
	first.MarkPlayed(g, 20)
	if err := s.SaveGate("p1", first); err != nil {
		t.Fatalf("SaveGate p1 failed: %v", err)
	}

	second := dialogue.NewAvailabilityGate()
	second.MarkPlayed(g, 99)
	if err := s.SaveGate("p2", second); err != nil {
		t.Fatalf("SaveGate p2 failed: %v", err)
	}

	loaded, err := s.LoadGate("p1")
	if err != nil {
		t.Fatalf("LoadGate p1 failed: %v", err)
	}
	rec, ok := loaded.Records()["g"]
	if !ok {
		t.Fatal("p1 record missing after another player's save")
	}
	if rec.PlayCount != 2 || rec.LastPlayed != 20 {
		t.Errorf("p1 record = %+v, want play_count 2, last_played 20", rec)
	}

	other, err := s.LoadGate("p2")
	if err != nil {
		t.Fatalf("LoadGate p2 failed: %v", err)
	}
	if other.Records()["g"].PlayCount != 1 {
		t.Errorf("p2 play count = %d, want 1", other.Records()["g"].PlayCount)
	}
}

func TestLoadEmpty(t *testing.T) {
	s := openTestStore(t)
	gate, err := s.LoadGate("p1")
	if err != nil {
		t.Fatalf("LoadGate on empty db failed: %v", err)
	}
	if len(gate.Records()) != 0 {
		t.Errorf("expected empty gate, got %v", gate.Records())
	}
}

func TestDeleteRecord(t *testing.T) {
	s := openTestStore(t)

	gate := dialogue.NewAvailabilityGate()
	g := &dialogue.DialogueGraph{ID: "g"}
	gate.MarkPlayed(g, 1)
	if err := s.SaveGate("p1", gate); err != nil {
		t.Fatalf("SaveGate failed: %v", err)
	}
	if err := s.DeleteRecord("p1", "g"); err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	loaded, err := s.LoadGate("p1")
	if err != nil {
		t.Fatalf("LoadGate failed: %v", err)
	}
	if len(loaded.Records()) != 0 {
		t.Error("record should be gone after delete")
	}
}
