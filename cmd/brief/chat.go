package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/briefbot/internal/transport/cli"
	"github.com/sandevgo/briefbot/pkg/log"
	"github.com/sandevgo/briefbot/pkg/srv"
	"github.com/spf13/cobra"
)

var chatUser string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the brief assistant in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a, services := newApp(ctx)

		repl, err := cli.NewReadLine(a.cfg, a.dialogue, a.router, chatUser)
		if err != nil {
			return err
		}
		services = append(services, repl)
		srv.StartServices(ctx, stop, services[:len(services)-1])

		// The REPL owns the terminal, so it runs in the foreground and ends the command.
		err = repl.Start(ctx)
		stop()
		srv.ShutdownServices(ctx, services)
		log.FromCtx(ctx).Debug().Msg("chat session closed")
		return err
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", cli.DefaultUserID, "user id the session is stored under")
	rootCmd.AddCommand(chatCmd)
}
