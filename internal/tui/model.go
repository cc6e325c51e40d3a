// Package tui renders assignment progress for interactive (non-CI) runs.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/similigh/auto-assign/internal/core/pipeline"
)

var (
	primaryColor = lipgloss.Color("#2f81f7")
	subtleColor  = lipgloss.Color("#626262")
	successColor = lipgloss.Color("#04B575")
	errorColor   = lipgloss.Color("#FF0000")

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	activeStepStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	doneStepStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStepStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	noteStyle = lipgloss.NewStyle().Foreground(subtleColor)
)

// activityTimeout bounds how long the view waits for the next step update.
const activityTimeout = 30 * time.Second

// StepStatusMsg is a status update for one pipeline step.
type StepStatusMsg struct {
	Step    string
	Status  string // one of the pipeline.Status* values
	Message string
}

// ResultMsg carries the final outcome line.
type ResultMsg struct {
	Success bool
	Output  string
}

// Model for the TUI.
type Model struct {
	spinner    spinner.Model
	steps      []string
	current    int
	status     map[string]string
	notes      map[string]string
	result     *ResultMsg
	quitting   bool
	statusChan <-chan StepStatusMsg
}

// NewModel creates a new TUI model for the given steps.
func NewModel(steps []string, statusChan <-chan StepStatusMsg) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		spinner:    s,
		steps:      steps,
		status:     make(map[string]string),
		notes:      make(map[string]string),
		statusChan: statusChan,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForActivity(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StepStatusMsg:
		m.status[msg.Step] = msg.Status
		if msg.Message != "" {
			m.notes[msg.Step] = msg.Message
		}
		for i, s := range m.steps {
			if s == msg.Step {
				m.current = i
				break
			}
		}
		return m, m.waitForActivity()

	case ResultMsg:
		m.result = &msg
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) waitForActivity() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg, ok := <-m.statusChan:
			if !ok {
				return ResultMsg{Success: true}
			}
			return msg
		case <-time.After(activityTimeout):
			return ResultMsg{
				Success: false,
				Output:  "timed out waiting for assignment steps",
			}
		}
	}
}

// View renders the TUI. After quitting it leaves the final step list on screen.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("auto-assign"))
	s.WriteString("\n")

	for i, step := range m.steps {
		prefix := "  "
		style := stepStyle

		if i == m.current && !m.quitting {
			prefix = m.spinner.View() + " "
			style = activeStepStyle
		}

		switch m.status[step] {
		case pipeline.StatusSuccess:
			prefix = "✓ "
			style = doneStepStyle
		case pipeline.StatusError:
			prefix = "✗ "
			style = errorStepStyle
		case pipeline.StatusSkipped:
			prefix = "○ "
			style = stepStyle.Faint(true)
		}

		line := prefix + step
		if note := m.notes[step]; note != "" {
			line += noteStyle.Render(": " + note)
		}
		s.WriteString(style.Render(line) + "\n")
	}

	if m.result != nil && m.result.Output != "" {
		style := doneStepStyle
		if !m.result.Success {
			style = errorStepStyle
		}
		s.WriteString("\n" + style.Render(m.result.Output) + "\n")
	}

	if !m.quitting {
		s.WriteString(noteStyle.Render(fmt.Sprintf("\n%d steps · press q to quit\n", len(m.steps))))
	}

	return s.String()
}
