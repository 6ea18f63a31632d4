package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/internal/service/wizard"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create the runtime directory and its .env interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)
		runtimePath := config.GetRuntimePath()

		if _, err := wizard.Run(runtimePath); err != nil {
			return err
		}

		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}
		if _, err := config.ParseAppConfig(); err != nil {
			logger.Warn().Err(err).Msg("written configuration does not parse")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Setup complete! Run 'brief start' or 'brief chat'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
