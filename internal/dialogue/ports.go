package dialogue

// Presenter receives display requests and lifecycle notifications from the
// engine. A websocket session, a terminal UI, or a test recorder can all sit
// behind this interface. Calls arrive on the engine's goroutine and must not
// block.
type Presenter interface {
	// ShowNode presents a node's speaker and text. The full Node is
	// included for voice/blip asset lookup.
	ShowNode(speaker Speaker, text string, node *Node)
	// ShowChoices presents the valid choice subset in declaration order.
	// The caller answers with Engine.SelectChoice using an index into this
	// slice.
	ShowChoices(choices []Choice)
	// ShowContinue presents a continue button; answered with Engine.Advance.
	ShowContinue()
	// ShowEnd presents an end button; answered with Engine.EndDialogue.
	ShowEnd()
	// HideAll clears any dialogue UI.
	HideAll()

	DialogueStarted(graph *DialogueGraph)
	DialogueEnded(graph *DialogueGraph, natural bool)
	NodeDisplayed(node *Node)
	ChoiceSelected(choice Choice)
}

// NoOpPresenter discards all presentation events.
type NoOpPresenter struct{}

func (NoOpPresenter) ShowNode(Speaker, string, *Node)    {}
func (NoOpPresenter) ShowChoices([]Choice)               {}
func (NoOpPresenter) ShowContinue()                      {}
func (NoOpPresenter) ShowEnd()                           {}
func (NoOpPresenter) HideAll()                           {}
func (NoOpPresenter) DialogueStarted(*DialogueGraph)     {}
func (NoOpPresenter) DialogueEnded(*DialogueGraph, bool) {}
func (NoOpPresenter) NodeDisplayed(*Node)                {}
func (NoOpPresenter) ChoiceSelected(Choice)              {}

// TimerHandle identifies a scheduled callback for cancellation. Its concrete
// type belongs to the Clock implementation.
type TimerHandle interface{}

// Clock supplies monotonic time and cancellable one-shot timers. The engine
// requires callbacks to be delivered on its own goroutine; hosts with
// background timer threads must funnel the callback through their loop
// before it runs.
type Clock interface {
	// Now returns monotonic seconds.
	Now() float64
	// Schedule runs fn once after delayS seconds. A non-positive delay
	// still defers fn to the next Fire/loop iteration rather than running
	// it inline.
	Schedule(delayS float64, fn func()) TimerHandle
	// Cancel stops a scheduled callback. Cancelling a fired or already
	// cancelled handle is a no-op.
	Cancel(handle TimerHandle)
}
