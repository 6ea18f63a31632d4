package command

import (
	"context"

	"github.com/sandevgo/briefbot/internal/core"
)

type SessionReader interface {
	Session(ctx context.Context, userID string) (*core.Session, error)
}

type RadarReporter interface {
	Report(ctx context.Context, userID, brief, notes string) (string, bool, error)
}

// NewRouter wires every chat command; /help lists the router it belongs to.
func NewRouter(sessions SessionReader, radar RadarReporter, logs core.ConversationLog) *Router {
	r := New([]core.Command{
		NewBriefCommand(sessions),
		NewRadarCommand(radar),
		NewHistoryCommand(logs),
		NewPulseCommand(logs),
	})
	help := NewHelpCommand(r)
	r.commands[help.Name()] = help
	return r
}
