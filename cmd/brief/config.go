package main

import (
	"fmt"

	"github.com/sandevgo/briefbot/internal/config"
	"github.com/sandevgo/briefbot/pkg/env"
	"github.com/spf13/cobra"
)

var reveal bool

var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Print the effective configuration as .env lines",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}
		llmCfg, err := config.ParseLLMConfig()
		if err != nil {
			return err
		}

		out, err := env.MarshalEnv(reveal,
			appCfg,
			llmCfg,
			config.NewHTTPConfig(ctx),
			config.NewSignalsConfig(ctx),
			config.NewRedisConfig(ctx),
		)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&reveal, "reveal", false, "print secrets instead of masking them")
	rootCmd.AddCommand(configCmd)
}
