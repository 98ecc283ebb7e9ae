// Package dialogue implements the branching-conversation engine for NPC
// dialogue defined as directed graphs of text nodes.
//
// A DialogueGraph is authored content, loaded once and shared read-only. All
// runtime traversal state lives in the ConversationEngine's single active
// session. Graphs are expected to be validated at build/test time with
// Validate; the engine does not re-check structure at runtime.
package dialogue

import (
	"errors"
	"fmt"
)

// DialogueID uniquely identifies a dialogue graph.
type DialogueID string

// NodeID uniquely identifies a node within a graph.
type NodeID string

// Speaker names the character delivering a node's text.
type Speaker string

// Node is a single dialogue line with its branching and side-effect metadata.
type Node struct {
	ID      NodeID  `json:"id"`
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"` // may be empty; still a valid node

	// VoiceLine and BlipSound are opaque audio asset IDs owned by the
	// presentation layer.
	VoiceLine string `json:"voice_line,omitempty"`
	BlipSound string `json:"blip_sound,omitempty"`

	// Choices branch the conversation. When empty, NextID (if set) is the
	// linear successor. A node with no choices and no NextID is terminal.
	Choices []Choice `json:"choices,omitempty"`
	NextID  NodeID   `json:"next_id,omitempty"`

	Conditions []Precondition `json:"conditions,omitempty"`
	Actions    []Action       `json:"actions,omitempty"`

	// DelayBeforeShowS pauses before the node text is presented.
	// AutoAdvanceS auto-advances that long after presentation; 0 means
	// manual only. Negative values are clamped to 0.
	DelayBeforeShowS float64 `json:"delay_before_show_s,omitempty"`
	AutoAdvanceS     float64 `json:"auto_advance_s,omitempty"`
}

// IsTerminal reports whether the node ends the conversation: no choices and
// no linear successor.
func (n *Node) IsTerminal() bool {
	return len(n.Choices) == 0 && n.NextID == ""
}

// Choice is a player-selectable branch out of a node.
type Choice struct {
	Text       string         `json:"text"`
	TargetID   NodeID         `json:"target_id"`
	Conditions []Precondition `json:"conditions,omitempty"`

	// Style is presentation metadata (color/intent tags), opaque here.
	Style string `json:"style,omitempty"`
}

// DialogueGraph is an immutable authored conversation: an ordered set of
// nodes, a start node, and the replay policy consulted by the
// AvailabilityGate.
type DialogueGraph struct {
	ID          DialogueID `json:"id"`
	StartNodeID NodeID     `json:"start_node_id"`

	// Nodes preserves authoring order; Index is derived at construction.
	Nodes []*Node          `json:"nodes"`
	Index map[NodeID]*Node `json:"-"`

	// Replay policy.
	Repeatable     bool    `json:"repeatable"`
	CooldownS      float64 `json:"cooldown_s"`
	OncePerSession bool    `json:"once_per_session"`
}

var (
	// ErrNodeNotFound is returned when a referenced node doesn't exist.
	ErrNodeNotFound = errors.New("dialogue: node not found")
	// ErrDuplicateNode is returned when two nodes share an ID.
	ErrDuplicateNode = errors.New("dialogue: duplicate node id")
)

// NewGraph builds a graph from authored nodes and indexes them by ID.
// Duplicate IDs are an error here so that hand-seeded content fails fast;
// Validate reports the same defect (and more) for content files.
func NewGraph(id DialogueID, startID NodeID, nodes []*Node) (*DialogueGraph, error) {
	g := &DialogueGraph{
		ID:          id,
		StartNodeID: startID,
		Nodes:       nodes,
		Index:       make(map[NodeID]*Node, len(nodes)),
	}
	for _, node := range nodes {
		if _, exists := g.Index[node.ID]; exists {
			return nil, fmt.Errorf("%w: %s in graph %s", ErrDuplicateNode, node.ID, id)
		}
		g.Index[node.ID] = node
	}
	return g, nil
}

// Reindex rebuilds the ID index, for graphs decoded from JSON where only
// Nodes is populated. It keeps the first node for a duplicated ID so that
// Validate can still walk the graph and report the duplicate.
func (g *DialogueGraph) Reindex() {
	g.Index = make(map[NodeID]*Node, len(g.Nodes))
	for _, node := range g.Nodes {
		if _, exists := g.Index[node.ID]; exists {
			continue
		}
		g.Index[node.ID] = node
	}
}

// GetNode returns a node by ID, or nil if not found.
func (g *DialogueGraph) GetNode(id NodeID) *Node {
	return g.Index[id]
}
