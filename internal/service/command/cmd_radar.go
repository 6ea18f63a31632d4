package command

import (
	"context"
	"strings"
)

type RadarCommand struct {
	radar RadarReporter
}

func NewRadarCommand(radar RadarReporter) *RadarCommand {
	return &RadarCommand{radar: radar}
}

func (c *RadarCommand) Name() string        { return "radar" }
func (c *RadarCommand) Description() string { return "Market radar for your latest Launch Brief: /radar [notes]" }

func (c *RadarCommand) Execute(ctx context.Context, userID string, args []string) (string, error) {
	reply, _, err := c.radar.Report(ctx, userID, "", strings.Join(args, " "))
	if err != nil {
		return "", err
	}
	return reply, nil
}
