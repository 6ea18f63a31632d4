package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/briefbot/internal/core"
)

type HelpCommand struct {
	router    core.CmdRouter
	formatter *ResponseFormatter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{router: router, formatter: NewResponseFormatter()}
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "List commands" }

func (c *HelpCommand) Execute(context.Context, string, []string) (string, error) {
	var items []string
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("/%s - %s", cmd.Name(), cmd.Description()))
	}
	items = append(items, "/reset - 리셋, 처음부터 다시")
	return c.formatter.Combine(c.formatter.Info("Commands"), c.formatter.List(items)), nil
}
