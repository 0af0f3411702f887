package commands

import (
	"context"
	"fmt"

	"kiwi-bot/internal/command"
)

func PermsCommand() *command.PrefixCommand {
	return &command.PrefixCommand{
		CommandName: "perms",
		Summary:     "Show the permission level of yourself or another member",
		Handler:     runPerms,
	}
}

func runPerms(ctx context.Context, c *command.PrefixContext) error {
	target, ok := permsTarget(c)
	if !ok {
		return c.Reply(ctx, "Mention a member or give their user id.")
	}

	level := c.Actor.Level
	if target != c.User() {
		var err error
		level, err = levelOf(ctx, c.Client, c.Guild(), target)
		if err != nil {
			return err
		}
	}

	name := displayName(ctx, c.Client.Directory, c.Guild(), target)
	return c.Reply(ctx, fmt.Sprintf("**%s** has permission level **%d**", name, level))
}

// permsTarget picks the member to inspect: an explicit argument, then the
// author of the replied-to message, then the caller.
func permsTarget(c *command.PrefixContext) (string, bool) {
	if len(c.Args) > 0 {
		return command.ParseUserID(c.Args[0])
	}
	if ref := c.Event.ReferencedMessage; ref != nil && ref.Author != nil {
		return ref.Author.ID, true
	}
	return c.User(), true
}
