// Command talk plays the seeded Hearthvale dialogues in the terminal. It
// drives the conversation engine directly, with a tick message advancing the
// engine clock so delays and auto-advance behave as they would in game.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"Hearthvale/internal/dialogue"
	"Hearthvale/internal/game"
)

const tickRate = 100 * time.Millisecond

// Styles
var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	speakerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178")).Bold(true)
	textStyle    = lipgloss.NewStyle().Width(70)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// uiState is written by the presenter and read by View. Everything happens
// inside Update, so no locking is needed.
type uiState struct {
	speaker string
	text    string
	choices []dialogue.Choice
	mode    string // "", "choices", "continue", "end", "waiting"
	status  string
}

type tuiPresenter struct {
	st *uiState
}

func (p *tuiPresenter) ShowNode(speaker dialogue.Speaker, text string, _ *dialogue.Node) {
	p.st.speaker = string(speaker)
	p.st.text = text
	p.st.mode = ""
}
func (p *tuiPresenter) ShowChoices(choices []dialogue.Choice) {
	p.st.choices = choices
	p.st.mode = "choices"
}
func (p *tuiPresenter) ShowContinue() { p.st.mode = "continue" }
func (p *tuiPresenter) ShowEnd()      { p.st.mode = "end" }
func (p *tuiPresenter) HideAll() {
	p.st.speaker, p.st.text, p.st.choices, p.st.mode = "", "", nil, ""
}
func (p *tuiPresenter) DialogueStarted(g *dialogue.DialogueGraph) {
	p.st.status = "talking: " + string(g.ID)
	p.st.mode = "waiting"
}
func (p *tuiPresenter) DialogueEnded(g *dialogue.DialogueGraph, natural bool) {
	p.st.status = fmt.Sprintf("ended %s (natural=%v)", g.ID, natural)
}
func (p *tuiPresenter) NodeDisplayed(*dialogue.Node)   {}
func (p *tuiPresenter) ChoiceSelected(dialogue.Choice) {}

type model struct {
	st     *uiState
	clock  *dialogue.TickClock
	gate   *dialogue.AvailabilityGate
	state  *game.PlayerState
	hooks  *game.DialogueHooks
	engine *dialogue.Engine
	graphs []*dialogue.DialogueGraph

	cursor  int
	lastErr string
	last    time.Time
	wait    spinner.Model
}

func initialModel() (*model, error) {
	graphs, err := game.SeedDialogues()
	if err != nil {
		return nil, err
	}
	for _, g := range graphs {
		if errs := dialogue.Validate(g); len(errs) > 0 {
			return nil, fmt.Errorf("graph %s failed validation: %v", g.ID, errs)
		}
	}

	wait := spinner.New()
	wait.Spinner = spinner.Dot
	wait.Style = dimStyle

	m := &model{
		st:     &uiState{},
		clock:  dialogue.NewTickClock(),
		gate:   dialogue.NewAvailabilityGate(),
		state:  game.NewPlayerState(),
		graphs: graphs,
		last:   time.Now(),
		wait:   wait,
	}
	m.hooks = game.NewDialogueHooks(m.state, m.clock.Now)
	m.engine = dialogue.NewEngine(m.clock, m.gate, m.hooks, m.hooks, &tuiPresenter{st: m.st})
	return m, nil
}

func (m *model) Init() tea.Cmd { return tea.Batch(tick(), m.wait.Tick) }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		m.clock.Advance(now.Sub(m.last).Seconds())
		m.last = now
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.wait, cmd = m.wait.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		m.lastErr = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < m.listLen()-1 {
				m.cursor++
			}
		case "s":
			m.call(m.engine.SkipTyping())
		case "e":
			m.call(m.engine.EndDialogue())
		case "enter", " ":
			m.confirm()
		}
	}
	return m, nil
}

func (m *model) listLen() int {
	if m.engine.Phase() == dialogue.PhaseIdle {
		return len(m.graphs)
	}
	if m.st.mode == "choices" {
		return len(m.st.choices)
	}
	return 1
}

func (m *model) confirm() {
	switch {
	case m.engine.Phase() == dialogue.PhaseIdle:
		if m.cursor < len(m.graphs) {
			m.call(m.engine.StartDialogue(m.graphs[m.cursor]))
			m.cursor = 0
		}
	case m.st.mode == "choices":
		m.call(m.engine.SelectChoice(m.cursor))
		m.cursor = 0
	case m.st.mode == "continue":
		m.call(m.engine.Advance())
	case m.st.mode == "end":
		m.call(m.engine.EndDialogue())
	}
}

func (m *model) call(err error) {
	if err != nil {
		m.lastErr = err.Error()
	}
}

func (m *model) View() string {
	s := headerStyle.Render("Hearthvale talk") + "\n\n"

	if m.engine.Phase() == dialogue.PhaseIdle {
		s += "Who do you want to talk to?\n\n"
		now := m.clock.Now()
		for i, g := range m.graphs {
			line := string(g.ID)
			if !m.gate.CanStart(g, now) {
				if cd := m.gate.RemainingCooldown(g, now); cd > 0 {
					line += fmt.Sprintf("  (ready in %.0fs)", cd)
				} else {
					line += "  (unavailable)"
				}
			}
			s += renderRow(line, i == m.cursor) + "\n"
		}
	} else {
		if m.st.speaker != "" || m.st.text != "" {
			s += speakerStyle.Render(m.st.speaker) + "\n"
			s += textStyle.Render(m.st.text) + "\n\n"
		} else {
			s += m.wait.View() + "\n\n"
		}
		switch m.st.mode {
		case "choices":
			for i, c := range m.st.choices {
				s += renderRow(c.Text, i == m.cursor) + "\n"
			}
		case "continue":
			s += promptStyle.Render("[enter] continue") + "\n"
		case "end":
			s += promptStyle.Render("[enter] end conversation") + "\n"
		default:
			s += dimStyle.Render("( s to skip )") + "\n"
		}
	}

	s += "\n" + dimStyle.Render(m.st.status) + "\n"
	if m.lastErr != "" {
		s += errStyle.Render("error: "+m.lastErr) + "\n"
	}
	s += dimStyle.Render("\nup/down move · enter select · s skip · e end · q quit") + "\n"
	return s
}

func renderRow(text string, selected bool) string {
	if selected {
		return cursorStyle.Render("> " + text)
	}
	return "  " + text
}

func main() {
	m, err := initialModel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "talk: %v\n", err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "talk: %v\n", err)
		os.Exit(1)
	}
}
