package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/transport"
	"github.com/sandevgo/briefbot/pkg/log"
)

const DefaultUserID = "cli-local"

type ReadLine struct {
	dialogue core.Dialogue
	router   core.CmdRouter
	userID   string
	rl       *readline.Instance
}

func NewReadLine(cfg core.PathConfig, dialogue core.Dialogue, router core.CmdRouter, userID string) (*ReadLine, error) {
	historyPath := cfg.GetInputHistoryPath()
	// Ensure runtime directory exists
	if err := os.MkdirAll(filepath.Dir(historyPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "brief> ",
		HistoryFile:     historyPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	if userID == "" {
		userID = DefaultUserID
	}

	return &ReadLine{
		dialogue: dialogue,
		router:   router,
		userID:   userID,
		rl:       rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	ctx = log.WithUser(ctx, r.userID)
	logger := log.FromCtx(ctx)
	logger.Info().Msg("chat started. Type 'exit' to quit, /help for commands.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		reply, err := transport.Handle(ctx, r.router, r.dialogue, r.userID, line)
		if err != nil {
			logger.Error().Err(err).Str("kind", core.ErrorKind(err)).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "%s\n", transport.ErrorReply(err))
			continue
		}
		fmt.Fprintf(r.rl.Stdout(), "%s\n", transport.OrEmptyReply(reply))
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
