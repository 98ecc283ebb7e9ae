package dialogue

import "fmt"

// ActionKind categorizes a node side effect.
type ActionKind string

const (
	// ActionStartQuest asks the host to begin the quest named by Target.
	ActionStartQuest ActionKind = "start_quest"
	// ActionCompleteQuest asks the host to complete the quest named by Target.
	ActionCompleteQuest ActionKind = "complete_quest"
	// ActionGrantItem grants Quantity of the item named by Target.
	ActionGrantItem ActionKind = "grant_item"
	// ActionPresentRiddle asks the host to open the riddle named by Target.
	ActionPresentRiddle ActionKind = "present_riddle"
	// ActionCustomEvent raises a named event with an opaque payload.
	ActionCustomEvent ActionKind = "custom_event"
)

// Action is a side effect triggered when a node is displayed. The engine
// dispatches it through an ActionSink and never interprets it itself.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Target   string     `json:"target"`
	Quantity int        `json:"quantity,omitempty"` // grant_item only; 0 means 1
	Payload  string     `json:"payload,omitempty"`  // custom_event only
}

func (a Action) String() string {
	if a.Kind == ActionGrantItem {
		return fmt.Sprintf("%s(%s x%d)", a.Kind, a.Target, a.EffectiveQuantity())
	}
	return fmt.Sprintf("%s(%s)", a.Kind, a.Target)
}

// EffectiveQuantity returns the grant count, defaulting zero to one so that
// authored content can omit the field for single items.
func (a Action) EffectiveQuantity() int {
	if a.Quantity <= 0 {
		return 1
	}
	return a.Quantity
}

// PreconditionKind categorizes a gating predicate.
type PreconditionKind string

const (
	// CondQuestActive holds when the quest named by Target is in progress.
	CondQuestActive PreconditionKind = "quest_active"
	// CondQuestCompleted holds when the quest named by Target is done.
	CondQuestCompleted PreconditionKind = "quest_completed"
	// CondHasItem holds when the player carries at least Quantity of Target.
	CondHasItem PreconditionKind = "has_item"
	// CondCustom delegates entirely to the host evaluator.
	CondCustom PreconditionKind = "custom"
)

// Precondition is a predicate attached to a node or choice. The engine never
// evaluates it; it is passed to the host's ConditionEvaluator.
type Precondition struct {
	Kind     PreconditionKind `json:"kind"`
	Target   string           `json:"target"`
	Quantity int              `json:"quantity,omitempty"` // has_item only; 0 means 1
	Negate   bool             `json:"negate,omitempty"`
}

func (p Precondition) String() string {
	if p.Negate {
		return fmt.Sprintf("not %s(%s)", p.Kind, p.Target)
	}
	return fmt.Sprintf("%s(%s)", p.Kind, p.Target)
}

// ConditionEvaluator is the host capability that answers precondition
// queries against quest/inventory/world state. Implementations must be
// synchronous and non-blocking; the engine calls them inline during
// traversal.
type ConditionEvaluator interface {
	Evaluate(cond Precondition) bool
}

// ActionSink is the host capability that receives node side effects.
// Dispatch errors are logged by the engine and do not stop the remaining
// actions or the node display.
type ActionSink interface {
	Dispatch(action Action) error
}

// NoOpSink ignores all actions and satisfies every precondition. It is the
// default wiring for tests and for hosts that only want raw traversal.
type NoOpSink struct{}

func (NoOpSink) Evaluate(Precondition) bool { return true }
func (NoOpSink) Dispatch(Action) error      { return nil }

// conditionsMet evaluates a precondition list against the host, honoring
// per-condition negation. An empty list is met.
func conditionsMet(eval ConditionEvaluator, conds []Precondition) bool {
	for _, cond := range conds {
		ok := eval.Evaluate(cond)
		if cond.Negate {
			ok = !ok
		}
		if !ok {
			return false
		}
	}
	return true
}
