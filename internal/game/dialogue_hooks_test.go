package game

import (
	"testing"

	"Hearthvale/internal/dialogue"
)

func TestHooksEvaluate(t *testing.T) {
	state := NewPlayerState()
	state.StartQuest("ferry")
	state.CompleteQuest("roof")
	state.AddItem("coin", 3)
	state.SetFlag("storm_seen")

	hooks := NewDialogueHooks(state, nil)

	cases := []struct {
		name string
		cond dialogue.Precondition
		want bool
	}{
		{"active quest", dialogue.Precondition{Kind: dialogue.CondQuestActive, Target: "ferry"}, true},
		{"completed quest not active", dialogue.Precondition{Kind: dialogue.CondQuestActive, Target: "roof"}, false},
		{"completed quest", dialogue.Precondition{Kind: dialogue.CondQuestCompleted, Target: "roof"}, true},
		{"unknown quest", dialogue.Precondition{Kind: dialogue.CondQuestCompleted, Target: "nope"}, false},
		{"has item default qty", dialogue.Precondition{Kind: dialogue.CondHasItem, Target: "coin"}, true},
		{"has item enough", dialogue.Precondition{Kind: dialogue.CondHasItem, Target: "coin", Quantity: 3}, true},
		{"has item short", dialogue.Precondition{Kind: dialogue.CondHasItem, Target: "coin", Quantity: 4}, false},
		{"custom flag", dialogue.Precondition{Kind: dialogue.CondCustom, Target: "storm_seen"}, true},
		{"unknown kind fails closed", dialogue.Precondition{Kind: "psychic", Target: "x"}, false},
	}
	for _, tc := range cases {
		if got := hooks.Evaluate(tc.cond); got != tc.want {
			t.Errorf("%s: Evaluate(%v) = %v, want %v", tc.name, tc.cond, got, tc.want)
		}
	}
}

func TestHooksDispatch(t *testing.T) {
	state := NewPlayerState()
	now := 12.5
	hooks := NewDialogueHooks(state, func() float64 { return now })

	steps := []dialogue.Action{
		{Kind: dialogue.ActionStartQuest, Target: "ferry"},
		{Kind: dialogue.ActionGrantItem, Target: "coin", Quantity: 5},
		{Kind: dialogue.ActionGrantItem, Target: "rope"}, // zero quantity means one
		{Kind: dialogue.ActionCompleteQuest, Target: "ferry"},
		{Kind: dialogue.ActionPresentRiddle, Target: "mill_door"},
		{Kind: dialogue.ActionCustomEvent, Target: "reputation", Payload: "+2"},
	}
	for _, action := range steps {
		if err := hooks.Dispatch(action); err != nil {
			t.Fatalf("Dispatch(%v) failed: %v", action, err)
		}
	}

	if state.QuestStatusOf("ferry") != QuestCompleted {
		t.Errorf("ferry quest = %s, want completed", state.QuestStatusOf("ferry"))
	}
	if state.ItemCount("coin") != 5 || state.ItemCount("rope") != 1 {
		t.Errorf("items = %v", state.Items)
	}

	riddles := hooks.DrainRiddles()
	if len(riddles) != 1 || riddles[0].RiddleID != "mill_door" || riddles[0].At != 12.5 {
		t.Errorf("riddle queue = %v", riddles)
	}
	events := hooks.DrainEvents()
	if len(events) != 1 || events[0].Name != "reputation" || events[0].Payload != "+2" {
		t.Errorf("event queue = %v", events)
	}
	if len(hooks.DrainEvents()) != 0 {
		t.Error("DrainEvents should clear the queue")
	}

	if err := hooks.Dispatch(dialogue.Action{Kind: "teleport"}); err == nil {
		t.Error("unknown action kind should error")
	}
}

func TestCompletedQuestStaysCompleted(t *testing.T) {
	state := NewPlayerState()
	state.CompleteQuest("roof")
	state.StartQuest("roof")
	if state.QuestStatusOf("roof") != QuestCompleted {
		t.Error("StartQuest must not reopen a completed quest")
	}
}

func TestPlayerStateSnapshotRoundTrip(t *testing.T) {
	state := NewPlayerState()
	state.StartQuest("ferry")
	state.AddItem("coin", 2)
	state.SetFlag("storm_seen")

	data, err := state.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	restored, err := LoadPlayerState(data)
	if err != nil {
		t.Fatalf("LoadPlayerState failed: %v", err)
	}
	if restored.QuestStatusOf("ferry") != QuestActive || restored.ItemCount("coin") != 2 || !restored.Flag("storm_seen") {
		t.Errorf("restored state mismatch: %+v", restored)
	}
}
