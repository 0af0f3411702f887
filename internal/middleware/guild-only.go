package middleware

import (
	"context"

	"kiwi-bot/internal/command"
	"kiwi-bot/pkg/cmd"
)

const guildOnlyReply = "This command can only be used in a server."

// WithGuildOnly wraps a command to enforce guild-only access
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if v, ok := inv.Data.(command.Context); ok && v.Guild() == "" {
				return v.Reply(ctx, guildOnlyReply)
			}
			return c.Run(ctx, inv)
		})
	}
}
