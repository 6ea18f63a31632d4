package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
)

// Completion implements core.TextCompletionService on top of an OpenAI-compatible endpoint.
type Completion struct {
	client *OpenAICompatible
	hasKey bool
}

// NewCompletion never fails on a missing key: every call then returns core.ErrConfiguration.
func NewCompletion(cfg core.CompletionConfig) *Completion {
	return &Completion{
		client: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    cfg.GetBaseURL(),
			APIKey:     cfg.GetAPIKey(),
			Model:      cfg.GetModel(),
			Timeout:    cfg.GetTimeout(),
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
		hasKey: strings.TrimSpace(cfg.GetAPIKey()) != "",
	}
}

type completionRequest struct {
	UserMessage string   `json:"user_message"`
	KnownSlots  []string `json:"known_slots"`
}

type radarRequest struct {
	LaunchBrief string `json:"launch_brief"`
	ExtraNotes  string `json:"extra_notes"`
}

func (c *Completion) Complete(ctx context.Context, userMessage string, knownSlots []string) (core.Completion, error) {
	if knownSlots == nil {
		knownSlots = []string{}
	}
	raw, err := c.ask(ctx, completionSystemPrompt, completionRequest{UserMessage: userMessage, KnownSlots: knownSlots})
	if err != nil {
		return core.Completion{}, err
	}
	return ParseCompletion(raw)
}

// Radar returns the reply field of the model answer, or the raw text when the model ignored the schema.
func (c *Completion) Radar(ctx context.Context, brief, notes string) (string, error) {
	raw, err := c.ask(ctx, radarSystemPrompt, radarRequest{LaunchBrief: brief, ExtraNotes: notes})
	if err != nil {
		return "", err
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := decodeObject(raw, &out); err != nil || strings.TrimSpace(out.Reply) == "" {
		return strings.TrimSpace(raw), nil
	}
	return out.Reply, nil
}

func (c *Completion) ask(ctx context.Context, system string, payload any) (string, error) {
	if !c.hasKey {
		return "", fmt.Errorf("%w: OPENAI_API_KEY is not set", core.ErrConfiguration)
	}

	user, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	return c.client.Chat(ctx, []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: string(user)},
	})
}

// ParseCompletion decodes the model answer. Text around the outermost braces is
// tolerated; anything else wraps core.ErrCollaboratorParse.
func ParseCompletion(raw string) (core.Completion, error) {
	var out core.Completion
	if err := decodeObject(raw, &out); err != nil {
		return core.Completion{}, err
	}
	return out, nil
}

func decodeObject(raw string, v any) error {
	text := strings.TrimSpace(raw)
	// Only an object counts; a bare null would decode into an empty value.
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), v); err == nil {
			return nil
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("%w: no JSON object in %q", core.ErrCollaboratorParse, abbreviate(text))
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %w", core.ErrCollaboratorParse, err)
	}
	return nil
}

func abbreviate(s string) string {
	const n = 120
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
