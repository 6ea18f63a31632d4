package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// WriteEnv writes vars as sorted KEY=value lines to <dir>/.env. An existing file is never overwritten.
func WriteEnv(dir string, vars map[string]string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf(".env file already exists at %s", path)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, vars[k])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// SaveStep writes the collected values and stays on screen if that fails.
type SaveStep struct {
	dir string
	err error
}

func NewSaveStep(dir string) Step {
	return &SaveStep{dir: dir}
}

func (s *SaveStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveStep) Update(msg tea.Msg, state *State, width, height int) (Step, tea.Cmd) {
	if s.err != nil {
		return s, nil
	}
	if _, err := WriteEnv(s.dir, state.EnvVars); err != nil {
		s.err = err
		return s, nil
	}
	return nil, nil
}

func (s *SaveStep) View(state *State) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	return "Saving configuration...\n"
}
