package dialogue

import (
	"errors"
	"fmt"
	"log"
)

// Phase is the engine's traversal state.
type Phase string

const (
	// PhaseIdle means no conversation is active.
	PhaseIdle Phase = "idle"
	// PhaseDisplaying means the current node's pre-show delay is running.
	PhaseDisplaying Phase = "displaying"
	// PhaseAwaitingInput means choices or a continue/end button are up.
	PhaseAwaitingInput Phase = "awaiting_input"
)

// awaitMode records what kind of input the engine is waiting for.
type awaitMode int

const (
	awaitNone awaitMode = iota
	awaitChoices
	awaitContinue
	awaitEnd
)

var (
	// ErrUnavailable is returned when the availability gate blocks a start.
	ErrUnavailable = errors.New("dialogue: not available")
	// ErrNoConversation is returned for calls that need an active session.
	ErrNoConversation = errors.New("dialogue: no active conversation")
	// ErrBadPhase is returned when a call is illegal in the current phase.
	ErrBadPhase = errors.New("dialogue: call not legal in current phase")
	// ErrInvalidChoice is returned when a selection is not in the last
	// emitted valid choice set.
	ErrInvalidChoice = errors.New("dialogue: choice not in valid set")
)

// Engine is the conversation traversal state machine. It owns the single
// active session, resolves node conditions and actions through the host
// capabilities, and drives progression via cancellable timers.
//
// The engine is single-threaded: every method and every Clock callback must
// run on the same goroutine. Missteps in call ordering are rejected with
// typed errors and never corrupt the session.
type Engine struct {
	clock     Clock
	gate      *AvailabilityGate
	eval      ConditionEvaluator
	sink      ActionSink
	presenter Presenter

	phase Phase
	graph *DialogueGraph
	node  *Node
	mode  awaitMode

	// lastChoices is the valid subset most recently emitted via
	// ShowChoices; SelectChoice indexes into it.
	lastChoices []Choice

	// generation tags the current session; timerEpoch tags the current
	// node's timer window within it. Timer callbacks capture both and
	// bail if either has moved on, so an orphaned or already-superseded
	// callback can never mutate newer state. The epoch matters for hosts
	// that deliver fired callbacks through a queue: cancelling a timer
	// there cannot recall a callback already in flight.
	generation uint64
	timerEpoch uint64
	delayTimer TimerHandle
	autoTimer  TimerHandle
}

// NewEngine wires an engine to its host capabilities. Pass NoOpSink{} for
// eval/sink and NoOpPresenter{} for presenter to run bare traversal.
func NewEngine(clock Clock, gate *AvailabilityGate, eval ConditionEvaluator, sink ActionSink, presenter Presenter) *Engine {
	return &Engine{
		clock:     clock,
		gate:      gate,
		eval:      eval,
		sink:      sink,
		presenter: presenter,
		phase:     PhaseIdle,
	}
}

// Phase returns the engine's current traversal phase.
func (e *Engine) Phase() Phase { return e.phase }

// ActiveGraph returns the graph of the active conversation, or nil.
func (e *Engine) ActiveGraph() *DialogueGraph { return e.graph }

// CurrentNode returns the node the session is on, or nil when idle.
func (e *Engine) CurrentNode() *Node { return e.node }

// Gate exposes the engine's availability gate for persistence wiring.
func (e *Engine) Gate() *AvailabilityGate { return e.gate }

// StartDialogue begins a conversation on graph. If another conversation is
// active it is force-ended first and reported as abrupt. The availability
// gate is consulted and, on success, marked exactly once.
func (e *Engine) StartDialogue(graph *DialogueGraph) error {
	if graph == nil {
		return fmt.Errorf("%w: nil graph", ErrNodeNotFound)
	}
	now := e.clock.Now()
	if !e.gate.CanStart(graph, now) {
		return fmt.Errorf("%w: %s (cooldown %.1fs remaining)", ErrUnavailable, graph.ID, e.gate.RemainingCooldown(graph, now))
	}

	start := graph.GetNode(graph.StartNodeID)
	if start == nil {
		// Content defect: refuse to start rather than traverse garbage.
		log.Printf("dialogue %s: start node %q does not exist", graph.ID, graph.StartNodeID)
		return fmt.Errorf("%w: start node %q in graph %s", ErrNodeNotFound, graph.StartNodeID, graph.ID)
	}

	if e.phase != PhaseIdle {
		e.finish(false)
	}

	e.gate.MarkPlayed(graph, now)
	e.graph = graph
	e.presenter.DialogueStarted(graph)
	e.enterNode(start)
	return nil
}

// SelectChoice answers a ShowChoices request with an index into the emitted
// valid set. Stale or out-of-range selections are rejected without touching
// session state.
func (e *Engine) SelectChoice(index int) error {
	if e.phase == PhaseIdle {
		return ErrNoConversation
	}
	if e.phase != PhaseAwaitingInput || e.mode != awaitChoices {
		return fmt.Errorf("%w: no choices presented", ErrBadPhase)
	}
	if index < 0 || index >= len(e.lastChoices) {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidChoice, index, len(e.lastChoices))
	}
	choice := e.lastChoices[index]
	// Resolve the target before announcing the selection so a dangling
	// reference never reports a transition that won't happen.
	target := e.graph.GetNode(choice.TargetID)
	if target == nil {
		return e.contentFatal("choice %q targets missing node %q", choice.Text, choice.TargetID)
	}
	e.cancelTimers()
	e.presenter.ChoiceSelected(choice)
	e.enterNode(target)
	return nil
}

// Advance moves past a continue button to the node's linear successor, or
// ends the conversation when there is none. It is also invoked internally
// when an auto-advance timer fires.
func (e *Engine) Advance() error {
	if e.phase == PhaseIdle {
		return ErrNoConversation
	}
	if e.phase != PhaseAwaitingInput || e.mode != awaitContinue {
		return fmt.Errorf("%w: no continue prompt presented", ErrBadPhase)
	}
	e.cancelTimers()
	return e.advanceFromCurrent()
}

func (e *Engine) advanceFromCurrent() error {
	if e.node.NextID == "" {
		e.finish(true)
		return nil
	}
	next := e.graph.GetNode(e.node.NextID)
	if next == nil {
		return e.contentFatal("node %q: next node %q does not exist", e.node.ID, e.node.NextID)
	}
	e.enterNode(next)
	return nil
}

// SkipTyping cancels the current node's pre-show delay and presents it
// immediately, without re-running its actions. Legal only while the delay
// window is in progress.
func (e *Engine) SkipTyping() error {
	if e.phase == PhaseIdle {
		return ErrNoConversation
	}
	if e.phase != PhaseDisplaying {
		return fmt.Errorf("%w: nothing to skip", ErrBadPhase)
	}
	e.cancelTimers()
	e.display(e.node)
	return nil
}

// EndDialogue terminates the active conversation from any non-idle phase,
// cancelling outstanding timers. The end is natural when the session had
// reached an end prompt; otherwise it is reported as abrupt.
func (e *Engine) EndDialogue() error {
	if e.phase == PhaseIdle {
		return ErrNoConversation
	}
	natural := e.phase == PhaseAwaitingInput && e.mode == awaitEnd
	e.finish(natural)
	return nil
}

// enterNode makes node current and runs its entry sequence: condition check
// (with unmet-node skipping), actions, then the delayed display.
func (e *Engine) enterNode(node *Node) {
	e.phase = PhaseDisplaying
	e.mode = awaitNone
	e.lastChoices = nil

	// Skip unmet nodes along the linear chain. The skip budget guards
	// against a skip cycle among unmet nodes, which Validate flags but a
	// live condition flip could still produce.
	budget := len(e.graph.Nodes) + 1
	for !conditionsMet(e.eval, node.Conditions) {
		if node.NextID == "" {
			e.finish(true)
			return
		}
		next := e.graph.GetNode(node.NextID)
		if next == nil {
			e.contentFatal("node %q: next node %q does not exist", node.ID, node.NextID)
			return
		}
		node = next
		budget--
		if budget < 0 {
			e.contentFatal("unmet-condition skip chain exceeded %d nodes, assuming a cycle", len(e.graph.Nodes))
			return
		}
	}
	e.node = node

	// Actions run on node entry, before the display delay. A failing
	// dispatch is logged and skipped; the rest still run.
	for _, action := range node.Actions {
		if err := e.sink.Dispatch(action); err != nil {
			log.Printf("dialogue %s node %s: action %s failed: %v", e.graph.ID, node.ID, action, err)
		}
	}

	if node.DelayBeforeShowS <= 0 {
		e.display(node)
		return
	}
	gen, epoch := e.generation, e.timerEpoch
	e.delayTimer = e.clock.Schedule(node.DelayBeforeShowS, func() {
		if e.generation != gen || e.timerEpoch != epoch {
			return
		}
		e.delayTimer = nil
		e.display(node)
	})
}

// display emits the node and its follow-up prompt, then arms auto-advance.
func (e *Engine) display(node *Node) {
	e.presenter.ShowNode(node.Speaker, node.Text, node)
	e.presenter.NodeDisplayed(node)

	valid := e.validChoices(node)
	e.phase = PhaseAwaitingInput
	switch {
	case len(valid) > 0:
		e.mode = awaitChoices
		e.lastChoices = valid
		e.presenter.ShowChoices(valid)
	case node.IsTerminal():
		e.mode = awaitEnd
		e.presenter.ShowEnd()
	default:
		e.mode = awaitContinue
		e.presenter.ShowContinue()
	}

	// Auto-advance counts from the moment of display, not node entry.
	if node.AutoAdvanceS > 0 {
		gen, epoch := e.generation, e.timerEpoch
		e.autoTimer = e.clock.Schedule(node.AutoAdvanceS, func() {
			if e.generation != gen || e.timerEpoch != epoch {
				return
			}
			e.autoTimer = nil
			e.autoAdvance()
		})
	}
}

// autoAdvance is the timer-driven counterpart of Advance: it moves to the
// linear successor regardless of which prompt is up, ending the
// conversation when there is none.
func (e *Engine) autoAdvance() {
	if e.phase != PhaseAwaitingInput {
		return
	}
	e.cancelTimers()
	if err := e.advanceFromCurrent(); err != nil {
		log.Printf("dialogue auto-advance: %v", err)
	}
}

// validChoices filters a node's choices through the host evaluator,
// preserving declaration order.
func (e *Engine) validChoices(node *Node) []Choice {
	var valid []Choice
	for _, choice := range node.Choices {
		if conditionsMet(e.eval, choice.Conditions) {
			valid = append(valid, choice)
		}
	}
	return valid
}

// contentFatal handles a runtime dereference of a missing node: log the
// defect, end the conversation abruptly, and surface a typed error.
func (e *Engine) contentFatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	log.Printf("dialogue %s: fatal content error: %s", e.graph.ID, msg)
	e.finish(false)
	return fmt.Errorf("%w: %s", ErrNodeNotFound, msg)
}

// finish tears the session down. Bumping the generation invalidates every
// outstanding timer callback owned by this session.
func (e *Engine) finish(natural bool) {
	e.cancelTimers()
	e.generation++
	graph := e.graph
	e.graph = nil
	e.node = nil
	e.phase = PhaseIdle
	e.mode = awaitNone
	e.lastChoices = nil
	e.presenter.HideAll()
	e.presenter.DialogueEnded(graph, natural)
}

func (e *Engine) cancelTimers() {
	e.timerEpoch++
	if e.delayTimer != nil {
		e.clock.Cancel(e.delayTimer)
		e.delayTimer = nil
	}
	if e.autoTimer != nil {
		e.clock.Cancel(e.autoTimer)
		e.autoTimer = nil
	}
}
