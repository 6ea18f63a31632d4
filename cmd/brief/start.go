package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP API and the Telegram bot",
	Long:  `Initializes storage and the collaborator client, then runs every enabled transport until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting briefbot")

		a, services := newApp(ctx)
		transports, err := initTransports(ctx, a)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize transports")
		}
		if len(transports) == 0 {
			logger.Warn().Msg("no transport enabled, set ENABLE_HTTP or ENABLE_TELEGRAM")
		}
		services = append(services, transports...)

		srv.StartServices(ctx, stop, services)

		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("briefbot has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
