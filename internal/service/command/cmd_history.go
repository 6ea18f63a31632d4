package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/service/insights"
)

const (
	defaultHistoryLimit = 5
	maxHistoryLimit     = 50
	pulseWindow         = 200
)

type HistoryCommand struct {
	logs      core.ConversationLog
	formatter *ResponseFormatter
}

func NewHistoryCommand(logs core.ConversationLog) *HistoryCommand {
	return &HistoryCommand{logs: logs, formatter: NewResponseFormatter()}
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show your latest turns: /history [n]" }

func (c *HistoryCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	limit := defaultHistoryLimit
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return c.formatter.Usage("/history [1-50]"), nil
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := c.logs.Recent(ctx, userID, limit)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}
	if len(entries) == 0 {
		return c.formatter.Tip("no history yet"), nil
	}

	items := make([]string, 0, len(entries))
	for _, e := range entries {
		mark := ""
		if e.IsBrief {
			mark = " 📄"
		}
		items = append(items, fmt.Sprintf("`%s` %s%s: %s", e.CreatedAt.Format("01-02 15:04"), e.Phase, mark, firstLine(e.Message)))
	}
	return c.formatter.Combine(c.formatter.Info("History"), c.formatter.List(items)), nil
}

type PulseCommand struct {
	logs      core.ConversationLog
	formatter *ResponseFormatter
}

func NewPulseCommand(logs core.ConversationLog) *PulseCommand {
	return &PulseCommand{logs: logs, formatter: NewResponseFormatter()}
}

func (c *PulseCommand) Name() string        { return "pulse" }
func (c *PulseCommand) Description() string { return "Top countries, needs and channels across recent briefs" }

func (c *PulseCommand) Execute(ctx context.Context, _ string, _ []string) (string, error) {
	entries, err := c.logs.RecentAll(ctx, pulseWindow)
	if err != nil {
		return "", fmt.Errorf("load logs: %w", err)
	}
	p := insights.BuildPulse(entries)

	return c.formatter.Combine(
		c.formatter.Info(fmt.Sprintf("Pulse over %d turns", p.LogsCount)),
		c.formatter.Label("Country", joinCounts(p.Signals.TopCountry)),
		c.formatter.Label("Category", joinCounts(p.Signals.TopCategory)),
		c.formatter.Label("Need", joinCounts(p.Signals.TopNeed)),
		c.formatter.Label("Channel", joinCounts(p.Signals.TopChannel)),
	), nil
}

func joinCounts(cs []insights.Count) string {
	if len(cs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprintf("%s (%d)", c.Value, c.Count))
	}
	return strings.Join(parts, ", ")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	if r := []rune(line); len(r) > 60 {
		return string(r[:60]) + "…"
	}
	return line
}
