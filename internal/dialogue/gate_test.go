package dialogue

import (
	"testing"
)

func testGraph(id DialogueID) *DialogueGraph {
	return &DialogueGraph{ID: id, Repeatable: true}
}

func TestGateCooldown(t *testing.T) {
	gate := NewAvailabilityGate()
	g := testGraph("vendor")
	g.CooldownS = 60

	if !gate.CanStart(g, 0) {
		t.Fatal("fresh dialogue should be startable")
	}
	gate.MarkPlayed(g, 0)

	if gate.CanStart(g, 30) {
		t.Error("CanStart at t=30 should be false inside a 60s cooldown")
	}
	if got := gate.RemainingCooldown(g, 30); got != 30 {
		t.Errorf("RemainingCooldown at t=30 = %.1f, want 30", got)
	}
	if !gate.CanStart(g, 61) {
		t.Error("CanStart at t=61 should be true after the cooldown")
	}
	if got := gate.RemainingCooldown(g, 61); got != 0 {
		t.Errorf("RemainingCooldown after expiry = %.1f, want 0", got)
	}
}

func TestGateOncePerSession(t *testing.T) {
	gate := NewAvailabilityGate()
	g := testGraph("intro")
	g.OncePerSession = true

	gate.MarkPlayed(g, 5)
	if gate.CanStart(g, 100) {
		t.Error("once-per-session dialogue should be blocked after MarkPlayed")
	}

	gate.ResetSession()
	if !gate.CanStart(g, 100) {
		t.Error("once-per-session dialogue should be available in a new session")
	}
}

func TestGateNonRepeatable(t *testing.T) {
	gate := NewAvailabilityGate()
	g := &DialogueGraph{ID: "one-shot"}

	gate.MarkPlayed(g, 1)
	if gate.CanStart(g, 1e9) {
		t.Error("non-repeatable dialogue should never restart")
	}

	gate.Reset(g)
	if !gate.CanStart(g, 1e9) {
		t.Error("Reset should clear the played record")
	}
}

func TestGateRuleOrder(t *testing.T) {
	// Once-per-session is checked before the cooldown: a dialogue with an
	// expired cooldown stays blocked until the session flag clears.
	gate := NewAvailabilityGate()
	g := testGraph("daily")
	g.OncePerSession = true
	g.CooldownS = 10

	gate.MarkPlayed(g, 0)
	if gate.CanStart(g, 100) {
		t.Error("session flag should outrank an expired cooldown")
	}
	gate.ResetSession()
	if !gate.CanStart(g, 100) {
		t.Error("expected availability once the session flag cleared")
	}
}

func TestGatePlayCount(t *testing.T) {
	gate := NewAvailabilityGate()
	g := testGraph("chatter")

	if got := gate.PlayCount("chatter"); got != 0 {
		t.Fatalf("PlayCount before any start = %d", got)
	}
	gate.MarkPlayed(g, 0)
	gate.MarkPlayed(g, 10)
	if got := gate.PlayCount("chatter"); got != 2 {
		t.Errorf("PlayCount = %d, want 2", got)
	}
}

func TestGateSnapshotRoundTrip(t *testing.T) {
	gate := NewAvailabilityGate()
	g := testGraph("vendor")
	g.CooldownS = 60
	gate.MarkPlayed(g, 42)

	data, err := gate.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	restored, err := LoadSnapshot(data)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if restored.CanStart(g, 50) {
		t.Error("restored gate should still enforce the cooldown")
	}
	if got := restored.RemainingCooldown(g, 50); got != 52 {
		t.Errorf("restored RemainingCooldown = %.1f, want 52", got)
	}
	if got := restored.PlayCount("vendor"); got != 1 {
		t.Errorf("restored PlayCount = %d, want 1", got)
	}
}

func TestGateRecordsExport(t *testing.T) {
	gate := NewAvailabilityGate()
	g := testGraph("vendor")
	gate.MarkPlayed(g, 7)

	records := gate.Records()
	rec, ok := records["vendor"]
	if !ok {
		t.Fatal("expected a record for vendor")
	}
	if rec.LastPlayed != 7 || rec.PlayCount != 1 || !rec.PlayedThisSession {
		t.Errorf("unexpected record %+v", rec)
	}

	// Mutating the export must not touch the gate.
	rec.PlayCount = 99
	if gate.PlayCount("vendor") != 1 {
		t.Error("Records should return copies")
	}

	fresh := NewAvailabilityGate()
	fresh.SetRecord("vendor", rec)
	if fresh.PlayCount("vendor") != 99 {
		t.Error("SetRecord should install the given record")
	}
}
