package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/slots"
)

type BriefCommand struct {
	sessions  SessionReader
	formatter *ResponseFormatter
}

func NewBriefCommand(sessions SessionReader) *BriefCommand {
	return &BriefCommand{sessions: sessions, formatter: NewResponseFormatter()}
}

func (c *BriefCommand) Name() string        { return "brief" }
func (c *BriefCommand) Description() string { return "Show collected slots and what is still missing" }

func (c *BriefCommand) Execute(ctx context.Context, userID string, _ []string) (string, error) {
	sess, err := c.sessions.Session(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load session: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(c.formatter.Info("Launch Brief draft"))
	sb.WriteString(c.formatter.Label("Phase", string(sess.Phase)))
	if sess.PendingSlot != "" {
		sb.WriteString(c.formatter.Label("Asking", string(sess.PendingSlot)))
	}

	if known := sess.Slots.KnownSlots(); len(known) > 0 {
		sb.WriteString("\n")
		sb.WriteString(c.formatter.List(known))
	}

	missing := slots.Missing(sess.Slots)
	if len(missing) == 0 {
		sb.WriteString("\n")
		sb.WriteString(c.formatter.Tip("all required slots are filled"))
		return sb.String(), nil
	}

	names := make([]string, 0, len(missing))
	for _, s := range missing {
		names = append(names, string(s))
	}
	sb.WriteString("\n")
	sb.WriteString(c.formatter.Label("Missing", strings.Join(names, ", ")))
	return sb.String(), nil
}

var _ core.Command = (*BriefCommand)(nil)
