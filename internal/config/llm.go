package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/briefbot/pkg/log"
)

// LLMConfig configures the OpenAI-compatible completion endpoint.
// An empty API key is allowed at startup: every turn then fails with a configuration error.
type LLMConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY" secret:"true"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"120s"`
}

func ParseLLMConfig() (*LLMConfig, error) {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	return c, nil
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c, err := ParseLLMConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c LLMConfig) GetAPIKey() string         { return c.APIKey }
func (c LLMConfig) GetModel() string          { return c.Model }
func (c LLMConfig) GetBaseURL() string        { return c.BaseURL }
func (c LLMConfig) GetTimeout() time.Duration { return c.Timeout }
