// Package wizard is the interactive first-run setup that writes <runtime>/.env.
package wizard

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the wizard. Update returns nil when the step is done.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd)
	View(state *State) string
}

// State collects the env values chosen so far.
type State struct {
	EnvVars map[string]string
}

func NewState() *State {
	return &State{EnvVars: make(map[string]string)}
}

func (s *State) enabled(key string) bool { return s.EnvVars[key] == "true" }

type nextMsg struct{}

func steps(runtimePath string) []Step {
	return []Step{
		NewAPIKeyStep(),
		NewModelStep(),
		NewChoiceStep("Where should conversations keep their state?", "SESSION_BACKEND", []Choice{
			{Title: "memory", Value: "memory", Desc: "lost on restart"},
			{Title: "redis", Value: "redis", Desc: "shared between processes"},
		}),
		NewInputStep("Redis address", "REDIS_ADDR", "localhost:6379", false, func(s *State) bool {
			return s.EnvVars["SESSION_BACKEND"] == "redis"
		}),
		NewChoiceStep("Enable the Telegram bot?", "ENABLE_TELEGRAM", []Choice{
			{Title: "No", Value: "false", Desc: "HTTP API and terminal chat only"},
			{Title: "Yes", Value: "true", Desc: "long-polling Telegram bot"},
		}),
		NewInputStep("Telegram bot token", "TELEGRAM_TOKEN", "123456789:ABCDEF...", true, func(s *State) bool {
			return s.enabled("ENABLE_TELEGRAM")
		}),
		NewInputStep("Telegram owner id (empty serves everybody)", "TELEGRAM_OWNER_ID", "123456789", false, func(s *State) bool {
			return s.enabled("ENABLE_TELEGRAM")
		}),
		NewSaveStep(runtimePath),
	}
}

type model struct {
	steps       []Step
	currentStep int
	state       *State
	quitting    bool
	err         error
	width       int
	height      int
}

func newModel(steps []Step) model {
	return model{steps: steps, state: NewState()}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if next == nil {
		m.currentStep++
		if m.currentStep >= len(m.steps) {
			return m, tea.Quit
		}
		return m, tea.Batch(m.steps[m.currentStep].Init(), func() tea.Msg { return nextMsg{} })
	}
	m.steps[m.currentStep] = next
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Setup cancelled.\n"
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}
	return titleStyle.Render("BriefBot setup") + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// Run starts the TUI and returns the collected state once the .env file is written.
func Run(runtimePath string) (*State, error) {
	p := tea.NewProgram(newModel(steps(runtimePath)), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	if final.quitting {
		return nil, fmt.Errorf("setup interrupted")
	}
	return final.state, nil
}
