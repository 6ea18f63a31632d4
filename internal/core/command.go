package core

import "context"

// CmdRouter answers slash commands. handled is false when input is not a known command
// and must be processed as an ordinary chat turn.
type CmdRouter interface {
	Execute(ctx context.Context, userID, input string) (reply string, handled bool)
	ListCommands() []Command
}

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, userID string, args []string) (string, error)
}
