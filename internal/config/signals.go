package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/briefbot/pkg/log"
)

type SignalsConfig struct {
	EnableReddit     bool          `env:"SIGNALS_REDDIT" envDefault:"true"`
	EnableGoogleNews bool          `env:"SIGNALS_GOOGLE_NEWS" envDefault:"true"`
	Timeout          time.Duration `env:"SIGNALS_TIMEOUT" envDefault:"15s"`
	DefaultLimit     int           `env:"SIGNALS_LIMIT" envDefault:"25"`
	AlertThreshold   int           `env:"SIGNALS_ALERT_THRESHOLD" envDefault:"4"`
}

func NewSignalsConfig(ctx context.Context) *SignalsConfig {
	c := &SignalsConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Signals config")
	}
	return c
}
