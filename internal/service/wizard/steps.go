package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultModel = "gpt-4o-mini"

// APIKeyStep collects the OpenAI-compatible key. An empty key is accepted: turns fail until it is set.
type APIKeyStep struct {
	input textinput.Model
}

func NewAPIKeyStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "sk-..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	return &APIKeyStep{input: ti}
}

func (s *APIKeyStep) Init() tea.Cmd { return textinput.Blink }

func (s *APIKeyStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		state.EnvVars["OPENAI_API_KEY"] = strings.TrimSpace(s.input.Value())
		return nil, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *APIKeyStep) View(state *State) string {
	return "Enter your OpenAI API key:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}

type modelItem struct {
	id   string
	desc string
}

func (i modelItem) Title() string       { return i.id }
func (i modelItem) Description() string { return i.desc }
func (i modelItem) FilterValue() string { return i.id }

// ModelStep picks the completion model from a filterable list.
type ModelStep struct {
	list list.Model
}

func NewModelStep() Step {
	items := []list.Item{
		modelItem{id: defaultModel, desc: "fast and cheap, the default"},
		modelItem{id: "gpt-4o", desc: "stronger reasoning"},
		modelItem{id: "gpt-4.1-mini", desc: "long context"},
		modelItem{id: "gpt-4.1", desc: "long context, strongest"},
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select the completion model"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	return &ModelStep{list: l}
}

func (s *ModelStep) Init() tea.Cmd { return nil }

func (s *ModelStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if width > 0 && height > 4 {
		s.list.SetSize(width, height-4)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && s.list.FilterState() != list.Filtering {
		id := defaultModel
		if i, ok := s.list.SelectedItem().(modelItem); ok {
			id = i.id
		}
		state.EnvVars["OPENAI_MODEL"] = id
		return nil, nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *State) string {
	return s.list.View()
}

type Choice struct {
	Title string
	Value string
	Desc  string
}

// ChoiceStep is a cursor menu that stores the selected value under key.
type ChoiceStep struct {
	prompt  string
	key     string
	choices []Choice
	cursor  int
}

func NewChoiceStep(prompt, key string, choices []Choice) Step {
	return &ChoiceStep{prompt: prompt, key: key, choices: choices}
}

func (s *ChoiceStep) Init() tea.Cmd { return nil }

func (s *ChoiceStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.choices)-1 {
			s.cursor++
		}
	case "enter":
		state.EnvVars[s.key] = s.choices[s.cursor].Value
		return nil, nil
	}
	return s, nil
}

func (s *ChoiceStep) View(state *State) string {
	var b strings.Builder
	b.WriteString(s.prompt + "\n\n")
	for i, c := range s.choices {
		line := fmt.Sprintf("  %s  %s", c.Title, c.Desc)
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯"+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render(" "+line) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}

// InputStep asks for one free-text value. It is skipped when when returns false.
type InputStep struct {
	prompt string
	key    string
	when   func(*State) bool
	input  textinput.Model
}

func NewInputStep(prompt, key, placeholder string, secret bool, when func(*State) bool) Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return &InputStep{prompt: prompt, key: key, when: when, input: ti}
}

func (s *InputStep) Init() tea.Cmd { return textinput.Blink }

func (s *InputStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if s.when != nil && !s.when(state) {
		return nil, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if v := strings.TrimSpace(s.input.Value()); v != "" {
			state.EnvVars[s.key] = v
		}
		return nil, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *InputStep) View(state *State) string {
	return fmt.Sprintf("%s:\n\n%s\n\n(press enter to confirm)\n", s.prompt, s.input.View())
}
