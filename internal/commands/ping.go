package commands

import (
	"context"

	"kiwi-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

const pong = "🏓 Pong!"

func PingSlash() *command.SlashCommand {
	return &command.SlashCommand{
		Config: &discordgo.ApplicationCommand{
			Name:        "ping",
			Description: "Check that the bot is responding",
		},
		Handler: func(ctx context.Context, c *command.SlashContext) error {
			return c.Reply(ctx, pong)
		},
	}
}

func PingPrefix() *command.PrefixCommand {
	return &command.PrefixCommand{
		CommandName: "ping",
		Summary:     "Check that the bot is responding",
		Handler: func(ctx context.Context, c *command.PrefixContext) error {
			return c.Reply(ctx, pong)
		},
	}
}
