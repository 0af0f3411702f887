// Package commands holds the bot's command bodies.
package commands

import (
	"kiwi-bot/internal/command"
	"kiwi-bot/internal/middleware"
	"kiwi-bot/pkg/cmd"
)

// Catalog returns every command the bot ships with. Shared middleware is
// applied by the registry when the catalog is loaded.
func Catalog() command.Catalog {
	guildOnly := middleware.WithGuildOnly()
	return command.Catalog{
		Slash: []cmd.Command{
			cmd.Apply(ConfigCommand(), guildOnly),
			PingSlash(),
		},
		Prefix: []cmd.Command{
			HelpCommand(),
			cmd.Apply(PermsCommand(), guildOnly),
			PingPrefix(),
		},
	}
}
