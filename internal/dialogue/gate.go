package dialogue

import (
	"encoding/json"
)

// PlayRecord is the persisted replay state for one dialogue.
type PlayRecord struct {
	LastPlayed        float64 `json:"last_played"`         // engine clock seconds at last start
	PlayedThisSession bool    `json:"played_this_session"` // cleared by ResetSession
	PlayCount         int     `json:"play_count"`          // successful starts, ever
}

// AvailabilityGate tracks per-dialogue replay eligibility: once-per-session
// flags, non-repeatable locks and cooldowns. State persists across game
// sessions via Snapshot/LoadSnapshot or an external store; ResetSession is
// called when a new game session begins.
type AvailabilityGate struct {
	records map[DialogueID]*PlayRecord
}

// NewAvailabilityGate creates a gate with no play history.
func NewAvailabilityGate() *AvailabilityGate {
	return &AvailabilityGate{records: make(map[DialogueID]*PlayRecord)}
}

// CanStart reports whether the graph may start at time nowS. Rules are
// checked in order: once-per-session, repeatability, cooldown; the first
// failing rule wins.
func (g *AvailabilityGate) CanStart(graph *DialogueGraph, nowS float64) bool {
	rec := g.records[graph.ID]
	if rec == nil || rec.PlayCount == 0 {
		return true
	}
	if graph.OncePerSession && rec.PlayedThisSession {
		return false
	}
	if !graph.Repeatable {
		return false
	}
	if graph.CooldownS > 0 && nowS-rec.LastPlayed < graph.CooldownS {
		return false
	}
	return true
}

// RemainingCooldown returns the seconds until the graph's cooldown expires,
// or 0 if no cooldown is pending. It reports only the cooldown rule; a
// dialogue blocked by repeatability or the session flag still returns 0.
func (g *AvailabilityGate) RemainingCooldown(graph *DialogueGraph, nowS float64) float64 {
	rec := g.records[graph.ID]
	if rec == nil || rec.PlayCount == 0 || graph.CooldownS <= 0 {
		return 0
	}
	remaining := graph.CooldownS - (nowS - rec.LastPlayed)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MarkPlayed records a successful start at time nowS. The engine calls this
// exactly once per conversation, at start, never on node transitions.
func (g *AvailabilityGate) MarkPlayed(graph *DialogueGraph, nowS float64) {
	rec := g.records[graph.ID]
	if rec == nil {
		rec = &PlayRecord{}
		g.records[graph.ID] = rec
	}
	rec.LastPlayed = nowS
	rec.PlayedThisSession = true
	rec.PlayCount++
}

// PlayCount returns how many times the dialogue has successfully started.
// Hosts use it for content that changes after a first meeting.
func (g *AvailabilityGate) PlayCount(id DialogueID) int {
	if rec := g.records[id]; rec != nil {
		return rec.PlayCount
	}
	return 0
}

// Reset erases all play history for one dialogue.
func (g *AvailabilityGate) Reset(graph *DialogueGraph) {
	delete(g.records, graph.ID)
}

// ResetSession clears the played-this-session flag on every record, making
// once-per-session dialogues eligible again.
func (g *AvailabilityGate) ResetSession() {
	for _, rec := range g.records {
		rec.PlayedThisSession = false
	}
}

// Records returns a copy of the gate's state keyed by dialogue ID, for
// external persistence.
func (g *AvailabilityGate) Records() map[DialogueID]PlayRecord {
	out := make(map[DialogueID]PlayRecord, len(g.records))
	for id, rec := range g.records {
		out[id] = *rec
	}
	return out
}

// SetRecord installs a persisted record, replacing any existing one.
func (g *AvailabilityGate) SetRecord(id DialogueID, rec PlayRecord) {
	r := rec
	g.records[id] = &r
}

// Snapshot serializes the gate state to JSON.
func (g *AvailabilityGate) Snapshot() ([]byte, error) {
	return json.Marshal(g.records)
}

// LoadSnapshot restores gate state from a JSON snapshot.
func LoadSnapshot(data []byte) (*AvailabilityGate, error) {
	gate := NewAvailabilityGate()
	if err := json.Unmarshal(data, &gate.records); err != nil {
		return nil, err
	}
	return gate, nil
}
