package commands

import (
	"context"
	"fmt"
	"strings"

	"kiwi-bot/internal/command"
	"kiwi-bot/pkg/cmd"
)

func HelpCommand() *command.PrefixCommand {
	return &command.PrefixCommand{
		CommandName: "help",
		Summary:     "List the commands you can use",
		Handler: func(ctx context.Context, c *command.PrefixContext) error {
			return c.Reply(ctx, buildHelpMessage(c.Client.Commands, c.Client.Prefix, c.Actor.Level))
		},
	}
}

// buildHelpMessage lists every command the given level may run, slash
// commands first.
func buildHelpMessage(reg *command.Registry, prefix string, level int) string {
	var sb strings.Builder
	sb.WriteString("**Available Commands**\n")

	write := func(kind command.Kind, lead string) {
		for _, c := range reg.All(kind) {
			def, ok := cmd.As[command.Definition](c)
			if !ok || def.PermissionLevel() > level {
				continue
			}
			fmt.Fprintf(&sb, "`%s%s` - %s\n", lead, c.Name(), c.Description())
		}
	}
	write(command.KindSlash, "/")
	write(command.KindPrefix, prefix)

	return sb.String()
}
