// Package game is the host side of the dialogue engine: player progression
// state (quests, inventory, story flags), the capability implementations the
// engine's preconditions and actions are resolved against, and the seeded
// demo conversations.
package game

import (
	"encoding/json"
)

// QuestStatus tracks a quest's progression for one player.
type QuestStatus string

const (
	// QuestUnknown means the quest has never been started.
	QuestUnknown QuestStatus = "unknown"
	// QuestActive means the quest is in progress.
	QuestActive QuestStatus = "active"
	// QuestCompleted means the quest has been finished.
	QuestCompleted QuestStatus = "completed"
)

// PlayerState holds the per-player progression the dialogue engine's
// preconditions read and its actions mutate.
type PlayerState struct {
	Quests     map[string]QuestStatus `json:"quests"`
	Items      map[string]int         `json:"items"`
	StoryFlags map[string]bool        `json:"story_flags"`
}

// NewPlayerState creates an empty player state.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		Quests:     make(map[string]QuestStatus),
		Items:      make(map[string]int),
		StoryFlags: make(map[string]bool),
	}
}

// QuestStatusOf returns a quest's status, defaulting to unknown.
func (s *PlayerState) QuestStatusOf(id string) QuestStatus {
	if status, exists := s.Quests[id]; exists {
		return status
	}
	return QuestUnknown
}

// StartQuest marks a quest active. Completed quests stay completed.
func (s *PlayerState) StartQuest(id string) {
	if s.QuestStatusOf(id) == QuestCompleted {
		return
	}
	s.Quests[id] = QuestActive
}

// CompleteQuest marks a quest completed regardless of prior status.
func (s *PlayerState) CompleteQuest(id string) {
	s.Quests[id] = QuestCompleted
}

// AddItem adds quantity of an item, stacking with any existing count.
func (s *PlayerState) AddItem(id string, quantity int) {
	if quantity <= 0 {
		return
	}
	s.Items[id] += quantity
}

// ItemCount returns how many of an item the player carries.
func (s *PlayerState) ItemCount(id string) int {
	return s.Items[id]
}

// RemoveItem removes quantity of an item. Returns false without mutating if
// the player carries fewer than quantity.
func (s *PlayerState) RemoveItem(id string, quantity int) bool {
	if s.Items[id] < quantity {
		return false
	}
	s.Items[id] -= quantity
	if s.Items[id] == 0 {
		delete(s.Items, id)
	}
	return true
}

// SetFlag raises a named story flag.
func (s *PlayerState) SetFlag(name string) {
	s.StoryFlags[name] = true
}

// Flag reports whether a story flag is raised.
func (s *PlayerState) Flag(name string) bool {
	return s.StoryFlags[name]
}

// Snapshot serializes the player state to JSON for the save system.
func (s *PlayerState) Snapshot() ([]byte, error) {
	return json.Marshal(s)
}

// LoadPlayerState restores player state from a JSON snapshot.
func LoadPlayerState(data []byte) (*PlayerState, error) {
	state := NewPlayerState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}
