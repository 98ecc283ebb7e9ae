package game

import (
	"fmt"

	"Hearthvale/internal/dialogue"
)

// SeedDialogues returns the authored conversations for the Hearthvale demo
// NPCs. Graphs are built with NewGraph so a duplicate ID fails at boot; the
// server additionally runs the validator over every graph before serving.
func SeedDialogues() ([]*dialogue.DialogueGraph, error) {
	var graphs []*dialogue.DialogueGraph

	// Robyn, the neighbor who greets new arrivals. Plays once per save.
	robyn, err := dialogue.NewGraph("robyn-welcome", "hello", []*dialogue.Node{
		{
			ID:      "hello",
			Speaker: "Robyn",
			Text:    "Oh! You must be the one who bought the old Fenwick place. I'm Robyn, from the farm across the creek.",
			Actions: []dialogue.Action{
				{Kind: dialogue.ActionCustomEvent, Target: "met_robyn"},
			},
			Choices: []dialogue.Choice{
				{Text: "Nice to meet you.", TargetID: "friendly"},
				{Text: "The Fenwick place? It's half fallen down.", TargetID: "house"},
			},
		},
		{
			ID:      "friendly",
			Speaker: "Robyn",
			Text:    "Likewise! Here, I baked too many of these this morning. Consider it a housewarming.",
			Actions: []dialogue.Action{
				{Kind: dialogue.ActionGrantItem, Target: "berry_scone", Quantity: 3},
			},
			NextID: "errand",
		},
		{
			ID:      "house",
			Speaker: "Robyn",
			Text:    "Ha! It has character. Old Fenwick swore the cellar was older than the village itself. Nobody ever found the key to prove it.",
			NextID:  "errand",
		},
		{
			ID:      "errand",
			Speaker: "Robyn",
			Text:    "If you want to get settled in, Marta at the bakery knows everyone. Tell her I sent you.",
			Actions: []dialogue.Action{
				{Kind: dialogue.ActionStartQuest, Target: "meet_the_village"},
			},
			NextID: "farewell",
		},
		{
			ID:               "farewell",
			Speaker:          "Robyn",
			Text:             "Anyway. Creek's rising, beans won't pick themselves. Come by whenever!",
			DelayBeforeShowS: 0.4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed robyn-welcome: %w", err)
	}
	graphs = append(graphs, robyn)

	// Marta the baker. Repeatable small talk on a cooldown; the quest beat
	// and the cellar-key branch are condition-gated.
	marta, err := dialogue.NewGraph("marta-bakery", "counter", []*dialogue.Node{
		{
			ID:      "counter",
			Speaker: "Marta",
			Text:    "Welcome to the Hearthvale bakery. Mind the flour on the counter.",
			Choices: []dialogue.Choice{
				{
					Text:     "Robyn sent me to say hello.",
					TargetID: "robyn-sent",
					Conditions: []dialogue.Precondition{
						{Kind: dialogue.CondQuestActive, Target: "meet_the_village"},
					},
				},
				{
					Text:     "I found this key in my cellar...",
					TargetID: "cellar-key",
					Conditions: []dialogue.Precondition{
						{Kind: dialogue.CondHasItem, Target: "cellar_key"},
					},
				},
				{Text: "Just looking, thanks.", TargetID: "browse"},
			},
		},
		{
			ID:      "robyn-sent",
			Speaker: "Marta",
			Text:    "Did she now. Then you'll be wanting the welcome loaf, it's tradition. There. Official Hearthvaler.",
			Actions: []dialogue.Action{
				{Kind: dialogue.ActionGrantItem, Target: "welcome_loaf"},
				{Kind: dialogue.ActionCompleteQuest, Target: "meet_the_village"},
				{Kind: dialogue.ActionCustomEvent, Target: "village_reputation", Payload: "+5"},
			},
			NextID: "browse",
		},
		{
			ID:      "cellar-key",
			Speaker: "Marta",
			Text:    "Where did you... put that away. If Old Fen sees it he'll talk your ear off about the founding cellar. Actually, you know what? Go see him. He owes me the end of that story.",
			Actions: []dialogue.Action{
				{Kind: dialogue.ActionStartQuest, Target: "founding_cellar"},
			},
			NextID: "browse",
		},
		{
			ID:               "browse",
			Speaker:          "Marta",
			Text:             "The rye comes out at noon, if you're the patient kind.",
			DelayBeforeShowS: 0.3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed marta-bakery: %w", err)
	}
	marta.Repeatable = true
	marta.CooldownS = 60
	graphs = append(graphs, marta)

	// Old Fen at the mill. Once per session; the riddle gate only opens
	// while the founding_cellar quest is active. The opening beats
	// auto-advance like a cutscene.
	fen, err := dialogue.NewGraph("old-fen-mill", "dozing", []*dialogue.Node{
		{
			ID:           "dozing",
			Speaker:      "Old Fen",
			Text:         "...mm. Wheel's turning, so I'm working. That's the rule.",
			AutoAdvanceS: 2.5,
			NextID:       "squint",
		},
		{
			ID:               "squint",
			Speaker:          "Old Fen",
			Text:             "Hold on. You're Fenwick's heir, near enough. Come about the cellar, have you?",
			DelayBeforeShowS: 0.6,
			NextID:           "riddle-gate",
		},
		{
			ID:      "riddle-gate",
			Speaker: "Old Fen",
			Text:    "The key's only half of it. The founders sealed the door with a riddle, and I only remember that I never solved it. Your turn.",
			Conditions: []dialogue.Precondition{
				{Kind: dialogue.CondQuestActive, Target: "founding_cellar"},
			},
			Actions: []dialogue.Action{
				{Kind: dialogue.ActionPresentRiddle, Target: "founding_cellar_door"},
			},
			NextID: "no-news",
		},
		{
			ID:      "no-news",
			Speaker: "Old Fen",
			Text:    "That's all the talking I do before lunch.",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("seed old-fen-mill: %w", err)
	}
	fen.OncePerSession = true
	fen.Repeatable = true
	graphs = append(graphs, fen)

	return graphs, nil
}
