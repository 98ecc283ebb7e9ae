package game

import (
	"fmt"

	"Hearthvale/internal/dialogue"
)

// GameEvent is a custom event raised by a dialogue action, queued for
// whatever game system consumes it.
type GameEvent struct {
	Name    string  `json:"name"`
	Payload string  `json:"payload,omitempty"`
	At      float64 `json:"at"` // engine clock seconds
}

// RiddleRequest records a riddle-present action for the riddle subsystem.
type RiddleRequest struct {
	RiddleID string  `json:"riddle_id"`
	At       float64 `json:"at"`
}

// DialogueHooks implements the engine's capability ports against a player's
// progression state. One instance per player.
type DialogueHooks struct {
	state *PlayerState
	now   func() float64

	// Queues drained by the game loop each tick.
	Events  []GameEvent
	Riddles []RiddleRequest
}

// NewDialogueHooks wires capability hooks to a player. now supplies the
// engine clock for event timestamps.
func NewDialogueHooks(state *PlayerState, now func() float64) *DialogueHooks {
	if now == nil {
		now = func() float64 { return 0 }
	}
	return &DialogueHooks{state: state, now: now}
}

// Evaluate answers a dialogue precondition from player state. Custom
// conditions map to story flags.
func (h *DialogueHooks) Evaluate(cond dialogue.Precondition) bool {
	switch cond.Kind {
	case dialogue.CondQuestActive:
		return h.state.QuestStatusOf(cond.Target) == QuestActive
	case dialogue.CondQuestCompleted:
		return h.state.QuestStatusOf(cond.Target) == QuestCompleted
	case dialogue.CondHasItem:
		want := cond.Quantity
		if want <= 0 {
			want = 1
		}
		return h.state.ItemCount(cond.Target) >= want
	case dialogue.CondCustom:
		return h.state.Flag(cond.Target)
	default:
		// Unknown predicate kinds fail closed so gated content stays
		// hidden rather than leaking.
		return false
	}
}

// Dispatch applies a dialogue action to player state or queues it for the
// owning subsystem.
func (h *DialogueHooks) Dispatch(action dialogue.Action) error {
	switch action.Kind {
	case dialogue.ActionStartQuest:
		h.state.StartQuest(action.Target)
	case dialogue.ActionCompleteQuest:
		h.state.CompleteQuest(action.Target)
	case dialogue.ActionGrantItem:
		h.state.AddItem(action.Target, action.EffectiveQuantity())
	case dialogue.ActionPresentRiddle:
		h.Riddles = append(h.Riddles, RiddleRequest{RiddleID: action.Target, At: h.now()})
	case dialogue.ActionCustomEvent:
		h.Events = append(h.Events, GameEvent{Name: action.Target, Payload: action.Payload, At: h.now()})
	default:
		return fmt.Errorf("unknown action kind %q", action.Kind)
	}
	return nil
}

// DrainEvents returns and clears the queued custom events.
func (h *DialogueHooks) DrainEvents() []GameEvent {
	events := h.Events
	h.Events = nil
	return events
}

// DrainRiddles returns and clears the queued riddle requests.
func (h *DialogueHooks) DrainRiddles() []RiddleRequest {
	riddles := h.Riddles
	h.Riddles = nil
	return riddles
}
