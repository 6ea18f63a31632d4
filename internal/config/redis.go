package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/briefbot/pkg/log"
)

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" secret:"true"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX" envDefault:"briefbot:"`
	// LockTTL bounds how long a crashed process can hold a user's turn lock.
	LockTTL time.Duration `env:"REDIS_LOCK_TTL" envDefault:"3m"`
	// LockWait is how long a turn waits for a busy user before giving up.
	LockWait time.Duration `env:"REDIS_LOCK_WAIT" envDefault:"2m30s"`
	// SessionTTL expires idle sessions; 0 keeps them forever.
	SessionTTL time.Duration `env:"REDIS_SESSION_TTL" envDefault:"0s"`
}

func NewRedisConfig(ctx context.Context) *RedisConfig {
	c := &RedisConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Redis config")
	}
	return c
}
