package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/briefbot/pkg/log"
)

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type AppConfig struct {
	RuntimePath string `env:"BRIEF_RUNTIME_PATH" envDefault:".briefbot"`
	// DatabasePath overrides the default <runtime>/briefbot.db location.
	DatabasePath string `env:"DB_PATH"`

	SessionBackend string `env:"SESSION_BACKEND" envDefault:"memory"`

	// Transport Flags
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// BriefLookupLimit bounds the history scan that recovers the latest brief.
	BriefLookupLimit int `env:"BRIEF_LOOKUP_LIMIT" envDefault:"20"`
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)

	switch c.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return nil, fmt.Errorf("unknown session backend: %q", c.SessionBackend)
	}
	if c.BriefLookupLimit <= 0 {
		return nil, fmt.Errorf("BRIEF_LOOKUP_LIMIT must be > 0")
	}
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.RuntimePath, "briefbot.db")
}

func (c AppConfig) GetInputHistoryPath() string {
	return filepath.Join(c.RuntimePath, "input_history")
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}
