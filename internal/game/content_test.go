package game

import (
	"testing"

	"Hearthvale/internal/dialogue"
)

// TestSeededDialoguesValidate is the authoring gate: every shipped graph
// must pass the structural validator with zero findings.
func TestSeededDialoguesValidate(t *testing.T) {
	graphs, err := SeedDialogues()
	if err != nil {
		t.Fatalf("SeedDialogues failed: %v", err)
	}
	if len(graphs) == 0 {
		t.Fatal("no seeded dialogues")
	}
	seen := make(map[dialogue.DialogueID]bool)
	for _, g := range graphs {
		if seen[g.ID] {
			t.Errorf("dialogue id %s seeded twice", g.ID)
		}
		seen[g.ID] = true
		for _, errStr := range dialogue.Validate(g) {
			t.Errorf("graph %s: %s", g.ID, errStr)
		}
	}
}

// TestWelcomeFlow plays the Robyn intro against real hooks and checks the
// quest and item side effects land in player state.
func TestWelcomeFlow(t *testing.T) {
	graphs, err := SeedDialogues()
	if err != nil {
		t.Fatalf("SeedDialogues failed: %v", err)
	}
	var robyn *dialogue.DialogueGraph
	for _, g := range graphs {
		if g.ID == "robyn-welcome" {
			robyn = g
		}
	}
	if robyn == nil {
		t.Fatal("robyn-welcome not seeded")
	}

	clock := dialogue.NewTickClock()
	state := NewPlayerState()
	hooks := NewDialogueHooks(state, clock.Now)
	engine := dialogue.NewEngine(clock, dialogue.NewAvailabilityGate(), hooks, hooks, dialogue.NoOpPresenter{})

	if err := engine.StartDialogue(robyn); err != nil {
		t.Fatalf("StartDialogue failed: %v", err)
	}
	if err := engine.SelectChoice(0); err != nil { // "Nice to meet you."
		t.Fatalf("SelectChoice failed: %v", err)
	}
	if err := engine.Advance(); err != nil { // friendly -> errand
		t.Fatalf("Advance failed: %v", err)
	}
	if err := engine.Advance(); err != nil { // errand -> farewell
		t.Fatalf("Advance failed: %v", err)
	}
	clock.Advance(1) // farewell's pre-show delay
	if err := engine.EndDialogue(); err != nil {
		t.Fatalf("EndDialogue failed: %v", err)
	}

	if state.ItemCount("berry_scone") != 3 {
		t.Errorf("berry_scone count = %d, want 3", state.ItemCount("berry_scone"))
	}
	if state.QuestStatusOf("meet_the_village") != QuestActive {
		t.Errorf("meet_the_village = %s, want active", state.QuestStatusOf("meet_the_village"))
	}
	if len(hooks.DrainEvents()) != 1 {
		t.Error("expected the met_robyn custom event")
	}

	// The intro is not repeatable.
	if err := engine.StartDialogue(robyn); err == nil {
		t.Error("robyn-welcome should not restart")
	}
}
