package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/providers/llm"
	"github.com/sandevgo/briefbot/internal/service/command"
	"github.com/sandevgo/briefbot/internal/service/dialogue"
	"github.com/sandevgo/briefbot/internal/service/radar"
	"github.com/sandevgo/briefbot/internal/service/signals"
	"github.com/sandevgo/briefbot/internal/storage/memory"
	"github.com/sandevgo/briefbot/internal/storage/redis"
	"github.com/sandevgo/briefbot/internal/storage/sqlite"
	"github.com/sandevgo/briefbot/internal/transport/rest"
	"github.com/sandevgo/briefbot/internal/transport/telegram"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/retry"
	"github.com/sandevgo/briefbot/pkg/srv"
)

// app holds the wired domain services shared by every transport.
type app struct {
	cfg        *config.AppConfig
	signalsCfg *config.SignalsConfig
	logs       core.ConversationLog
	dialogue   *dialogue.Controller
	radar      *radar.Service
	router     *command.Router
	collector  *signals.Collector
}

func newApp(ctx context.Context) (*app, []srv.Service) {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	signalsCfg := config.NewSignalsConfig(ctx)
	if llmCfg.APIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set, conversation turns will fail")
	}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	logs := sqlite.NewLogRepo(db)

	sessions, cleanup, err := initSessions(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize session store")
	}
	if cleanup != nil {
		services = append(services, cleanup)
	}

	// 3. Collaborator
	completion := llm.NewCompletion(llmCfg)

	// 4. Domain services
	ctrl := dialogue.NewController(sessions, completion, logs)
	radarSvc := radar.NewService(completion, logs, appCfg.BriefLookupLimit)
	router := command.NewRouter(ctrl, radarSvc, logs)

	return &app{
		cfg:        appCfg,
		signalsCfg: signalsCfg,
		logs:       logs,
		dialogue:   ctrl,
		radar:      radarSvc,
		router:     router,
		collector:  initSignals(signalsCfg),
	}, services
}

func initSessions(ctx context.Context, cfg *config.AppConfig) (core.SessionStore, srv.Service, error) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		return memory.NewSessionStore(), nil, nil
	}

	redisCfg := config.NewRedisConfig(ctx)
	client, err := redis.NewClient(ctx, redisCfg.Addr, redisCfg.Password, redisCfg.DB)
	if err != nil {
		return nil, nil, err
	}
	store := redis.NewSessionStore(client, redis.Options{
		Prefix:     redisCfg.Prefix,
		LockTTL:    redisCfg.LockTTL,
		LockWait:   redisCfg.LockWait,
		SessionTTL: redisCfg.SessionTTL,
	})
	log.FromCtx(ctx).Info().Str("addr", redisCfg.Addr).Msg("sessions stored in redis")
	return store, srv.NewCleanup(client.Close), nil
}

func initSignals(cfg *config.SignalsConfig) *signals.Collector {
	retryCfg := retry.NewDefaultConfig()
	var sources []signals.Source
	if cfg.EnableReddit {
		sources = append(sources, signals.NewReddit(cfg.Timeout, retryCfg))
	}
	if cfg.EnableGoogleNews {
		sources = append(sources, signals.NewGoogleNews(cfg.Timeout, retryCfg))
	}
	return signals.NewCollector(sources...)
}

func initTransports(ctx context.Context, a *app) ([]srv.Service, error) {
	var services []srv.Service

	// HTTP API
	if a.cfg.EnableHTTP {
		h := rest.NewHandler(a.dialogue, a.radar, a.logs, a.collector, rest.HandlerConfig{
			SignalsLimit:   a.signalsCfg.DefaultLimit,
			AlertThreshold: a.signalsCfg.AlertThreshold,
		})
		services = append(services, rest.NewServer(ctx, config.NewHTTPConfig(ctx), h))
	}

	// Telegram Bot
	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.dialogue, a.router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
