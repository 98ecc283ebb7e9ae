package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"Hearthvale/internal/dialogue"
	"Hearthvale/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// session is one connected player: a websocket, a conversation engine, and
// the player's progression state. All engine calls and all writes happen on
// the session loop goroutine; the read goroutine only posts closures into
// the inbox.
type session struct {
	id       string
	playerID string
	hub      *Hub
	conn     *websocket.Conn
	inbox    chan func()
	done     chan struct{}

	clock  *loopClock
	gate   *dialogue.AvailabilityGate
	state  *game.PlayerState
	hooks  *game.DialogueHooks
	engine *dialogue.Engine
}

func serveWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade: %v", err)
		return
	}

	s := &session{
		id:    uuid.NewString(),
		hub:   hub,
		conn:  conn,
		inbox: make(chan func(), 64),
		done:  make(chan struct{}),
		state: game.NewPlayerState(),
	}
	// Replay history persists per player: ?player identifies the save slot,
	// and an anonymous connection gets a throwaway one.
	s.playerID = r.URL.Query().Get("player")
	if s.playerID == "" {
		s.playerID = s.id
	}
	s.clock = newLoopClock(s.post)
	s.gate = hub.loadGate(s.playerID)
	s.gate.ResetSession()
	s.hooks = game.NewDialogueHooks(s.state, s.clock.Now)
	s.engine = dialogue.NewEngine(s.clock, s.gate, s.hooks, s.hooks, &wsPresenter{s: s})

	activeSessions.Inc()
	log.Printf("session %s (player %s) connected from %s", s.id, s.playerID, r.RemoteAddr)

	s.startDrainLoop()
	go s.run()
	s.readLoop()
}

// post hands a closure to the session loop. Posts after shutdown are
// dropped.
func (s *session) post(fn func()) {
	select {
	case s.inbox <- fn:
	case <-s.done:
	}
}

// run executes engine commands and timer callbacks one at a time.
func (s *session) run() {
	defer func() {
		activeSessions.Dec()
		s.hub.saveGate(s.playerID, s.gate)
		log.Printf("session %s closed", s.id)
	}()
	for {
		select {
		case fn := <-s.inbox:
			fn()
		case <-s.done:
			return
		}
	}
}

// readLoop decodes inbound frames and posts the matching engine call.
func (s *session) readLoop() {
	defer close(s.done)
	defer s.conn.Close()

	for {
		var msg inboundMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("session %s read: %v", s.id, err)
			}
			return
		}
		s.dispatch(msg)
	}
}

func (s *session) dispatch(msg inboundMessage) {
	switch msg.Type {
	case "start":
		var cmd startCmd
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			s.post(func() { s.sendError("bad start payload") })
			return
		}
		s.post(func() { s.handleStart(cmd.DialogueID) })
	case "choose":
		var cmd chooseCmd
		if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
			s.post(func() { s.sendError("bad choose payload") })
			return
		}
		s.post(func() { s.reportErr(s.engine.SelectChoice(cmd.Index)) })
	case "advance":
		s.post(func() { s.reportErr(s.engine.Advance()) })
	case "skip":
		s.post(func() { s.reportErr(s.engine.SkipTyping()) })
	case "end":
		s.post(func() { s.reportErr(s.engine.EndDialogue()) })
	case "list":
		s.post(s.sendDialogueList)
	default:
		s.post(func() { s.sendError("unknown message type " + msg.Type) })
	}
}

func (s *session) handleStart(id string) {
	graph := s.hub.graph(dialogue.DialogueID(id))
	if graph == nil {
		s.sendError("unknown dialogue " + id)
		return
	}
	s.reportErr(s.engine.StartDialogue(graph))
}

// reportErr surfaces engine rejections to the client without tearing the
// connection down; misuse of the state machine is a client bug, not ours.
func (s *session) reportErr(err error) {
	if err != nil {
		s.sendError(err.Error())
	}
}

func (s *session) sendDialogueList() {
	now := s.clock.Now()
	list := dialogueListDTO{}
	for _, g := range s.hub.graphs() {
		list.Dialogues = append(list.Dialogues, availabilityDTO{
			DialogueID: string(g.ID),
			CanStart:   s.gate.CanStart(g, now),
			CooldownS:  s.gate.RemainingCooldown(g, now),
			PlayCount:  s.gate.PlayCount(g.ID),
		})
	}
	s.send("dialogues", list)
}

func (s *session) send(msgType string, payload interface{}) {
	if err := s.conn.WriteJSON(outboundMessage{Type: msgType, Payload: payload}); err != nil {
		log.Printf("session %s write: %v", s.id, err)
	}
}

func (s *session) sendError(message string) {
	s.send("error", errorDTO{Message: message})
}

// wsPresenter forwards engine presentation events to the client as JSON
// frames. It runs on the session loop goroutine.
type wsPresenter struct {
	s *session
}

func (p *wsPresenter) ShowNode(speaker dialogue.Speaker, text string, node *dialogue.Node) {
	p.s.send("show_node", nodeDTO{
		Speaker:   string(speaker),
		Text:      text,
		VoiceLine: node.VoiceLine,
		BlipSound: node.BlipSound,
	})
}

func (p *wsPresenter) ShowChoices(choices []dialogue.Choice) {
	dto := choicesDTO{Choices: make([]choiceDTO, len(choices))}
	for i, c := range choices {
		dto.Choices[i] = choiceDTO{Index: i, Text: c.Text, Style: c.Style}
	}
	p.s.send("show_choices", dto)
}

func (p *wsPresenter) ShowContinue() { p.s.send("show_continue", nil) }
func (p *wsPresenter) ShowEnd()      { p.s.send("show_end", nil) }
func (p *wsPresenter) HideAll()      { p.s.send("hide", nil) }

func (p *wsPresenter) DialogueStarted(g *dialogue.DialogueGraph) {
	dialogueStarted.WithLabelValues(string(g.ID)).Inc()
	p.s.send("started", startedDTO{SessionID: p.s.id, DialogueID: string(g.ID)})
}

func (p *wsPresenter) DialogueEnded(g *dialogue.DialogueGraph, natural bool) {
	label := "false"
	if natural {
		label = "true"
	}
	dialogueEnded.WithLabelValues(string(g.ID), label).Inc()
	p.s.send("ended", endedDTO{DialogueID: string(g.ID), Natural: natural})

	// Persist replay state as soon as a conversation closes so a crash
	// doesn't hand out repeat rewards.
	p.s.hub.saveGate(p.s.playerID, p.s.gate)
}

func (p *wsPresenter) NodeDisplayed(node *dialogue.Node) {}

func (p *wsPresenter) ChoiceSelected(choice dialogue.Choice) {
	g := p.s.engine.ActiveGraph()
	if g != nil {
		choicesSelected.WithLabelValues(string(g.ID)).Inc()
	}
}

// drainTick flushes queued game events periodically in lieu of a real game
// loop; the demo just logs them.
func (s *session) drainTick() {
	for _, ev := range s.hooks.DrainEvents() {
		log.Printf("session %s: game event %s %s at %.1fs", s.id, ev.Name, ev.Payload, ev.At)
	}
	for _, rq := range s.hooks.DrainRiddles() {
		log.Printf("session %s: riddle requested %s at %.1fs", s.id, rq.RiddleID, rq.At)
	}
}

func (s *session) startDrainLoop() {
	ticker := time.NewTicker(2 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.post(s.drainTick)
			case <-s.done:
				return
			}
		}
	}()
}
