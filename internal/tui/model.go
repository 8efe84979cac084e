// Package tui is the terminal front end of quizctl: a URL field, a generate action
// that shows a spinner while busy, an error line and the generated quiz.
package tui

import (
	"context"
	"strings"

	"wiki-quiz/internal/controller"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// stateMsg carries a controller snapshot into the program.
type stateMsg struct {
	snap controller.Snapshot
}

// Forward returns a controller listener that hands every snapshot to send, usually
// (*tea.Program).Send. Delivery happens on its own goroutine because the controller
// notifies from inside Update, where a blocking Send would stall the program.
func Forward(send func(tea.Msg)) controller.Listener {
	return func(s controller.Snapshot) {
		go send(stateMsg{snap: s})
	}
}

// Model is the bubbletea model wrapping a QuizRequestController.
type Model struct {
	ctx     context.Context
	ctrl    *controller.QuizRequestController
	input   textinput.Model
	spinner spinner.Model
	snap    controller.Snapshot
}

// New builds the model around ctrl. ctx bounds the generation calls it starts.
func New(ctx context.Context, ctrl *controller.QuizRequestController) Model {
	ti := textinput.New()
	ti.Placeholder = "https://en.wikipedia.org/wiki/Article_Name"
	ti.Prompt = "URL › "
	ti.CharLimit = 2048
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		input:   ti,
		spinner: sp,
		snap:    ctrl.State(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.ctrl.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		if m.snap.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.ctrl.OnInputChange(after)
			m.snap = m.ctrl.State()
		}
		return m, cmd

	case stateMsg:
		if !msg.snap.NewerThan(m.snap) {
			return m, nil
		}
		m.snap = msg.snap
		if m.snap.Busy() {
			return m, nil
		}
		return m, m.input.Focus()

	case spinner.TickMsg:
		if !m.snap.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.snap.Busy() {
		return m, nil
	}
	m.ctrl.Submit(m.ctx)
	m.snap = m.ctrl.State()
	if !m.snap.Busy() {
		return m, nil
	}
	m.input.Blur()
	return m, m.spinner.Tick
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Wikipedia Quiz Generator"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.snap.Busy() {
		b.WriteString(m.spinner.View() + " Generating Quiz...")
	} else {
		b.WriteString(buttonStyle.Render("Generate Quiz"))
	}
	b.WriteString("\n")

	if msg, ok := m.snap.ErrorMessage(); ok {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}
	if quiz := m.snap.Result(); quiz != nil {
		b.WriteString("\n")
		b.WriteString(RenderQuiz(quiz))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: generate • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// Snapshot exposes the last observed controller state.
func (m Model) Snapshot() controller.Snapshot {
	return m.snap
}
