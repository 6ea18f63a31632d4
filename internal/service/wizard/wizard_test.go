package wizard

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typeText(t *testing.T, step Step, state *State, text string) Step {
	t.Helper()
	for _, r := range text {
		next, _ := step.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, state, 80, 24)
		require.NotNil(t, next)
		step = next
	}
	return step
}

func TestChoiceStep(t *testing.T) {
	state := NewState()
	step := NewChoiceStep("backend?", "SESSION_BACKEND", []Choice{
		{Title: "memory", Value: "memory"},
		{Title: "redis", Value: "redis"},
	})

	next, _ := step.Update(down, state, 80, 24)
	require.NotNil(t, next)
	next, _ = next.Update(down, state, 80, 24)
	require.NotNil(t, next, "cursor stops at the last choice")

	next, _ = next.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "redis", state.EnvVars["SESSION_BACKEND"])
}

func TestInputStep(t *testing.T) {
	t.Run("stores trimmed value", func(t *testing.T) {
		state := NewState()
		step := typeText(t, NewInputStep("addr", "REDIS_ADDR", "", false, nil), state, " redis:6379 ")
		next, _ := step.Update(enter, state, 80, 24)
		assert.Nil(t, next)
		assert.Equal(t, "redis:6379", state.EnvVars["REDIS_ADDR"])
	})

	t.Run("empty value not stored", func(t *testing.T) {
		state := NewState()
		next, _ := NewInputStep("owner", "TELEGRAM_OWNER_ID", "", false, nil).Update(enter, state, 80, 24)
		assert.Nil(t, next)
		assert.NotContains(t, state.EnvVars, "TELEGRAM_OWNER_ID")
	})

	t.Run("skipped when condition fails", func(t *testing.T) {
		state := NewState()
		state.EnvVars["ENABLE_TELEGRAM"] = "false"
		step := NewInputStep("token", "TELEGRAM_TOKEN", "", true, func(s *State) bool { return s.enabled("ENABLE_TELEGRAM") })
		next, _ := step.Update(nextMsg{}, state, 80, 24)
		assert.Nil(t, next)
	})
}

func TestAPIKeyStep(t *testing.T) {
	state := NewState()
	step := typeText(t, NewAPIKeyStep(), state, "sk-test")
	next, _ := step.Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, "sk-test", state.EnvVars["OPENAI_API_KEY"])
}

func TestModelStep_DefaultSelection(t *testing.T) {
	state := NewState()
	next, _ := NewModelStep().Update(enter, state, 80, 24)
	assert.Nil(t, next)
	assert.Equal(t, defaultModel, state.EnvVars["OPENAI_MODEL"])
}

func TestWriteEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runtime")

	path, err := WriteEnv(dir, map[string]string{"SESSION_BACKEND": "memory", "OPENAI_MODEL": "gpt-4o"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "OPENAI_MODEL=gpt-4o\nSESSION_BACKEND=memory\n", string(data))

	_, err = WriteEnv(dir, map[string]string{"X": "y"})
	assert.ErrorContains(t, err, "already exists")
}

func TestModel_WalksStepsToCompletion(t *testing.T) {
	dir := t.TempDir()
	m := newModel([]Step{
		NewChoiceStep("telegram?", "ENABLE_TELEGRAM", []Choice{{Title: "No", Value: "false"}}),
		NewInputStep("token", "TELEGRAM_TOKEN", "", true, func(s *State) bool { return s.enabled("ENABLE_TELEGRAM") }),
		NewSaveStep(dir),
	})

	var tm tea.Model = m
	tm, _ = tm.Update(enter)
	tm, _ = tm.Update(nextMsg{})
	tm, _ = tm.Update(nextMsg{})

	final := tm.(model)
	assert.Equal(t, 3, final.currentStep)
	assert.FileExists(t, filepath.Join(dir, ".env"))
}
