package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"kiwi-bot/internal/command"
	"kiwi-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// ConfigLevel is the permission level required to change guild settings.
const ConfigLevel = 500

const (
	subTrustedRole     = "trusted-role"
	subPermissionLevel = "permission-level"
	subLevelRewards    = "level-rewards"
)

func ConfigCommand() *command.SlashCommand {
	return &command.SlashCommand{
		Level: ConfigLevel,
		Config: &discordgo.ApplicationCommand{
			Name:        "config",
			Description: "Config commands",
			Contexts:    &[]discordgo.InteractionContextType{discordgo.InteractionContextGuild},
			IntegrationTypes: &[]discordgo.ApplicationIntegrationType{
				discordgo.ApplicationIntegrationGuildInstall,
			},
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subTrustedRole,
					Description: "Set the trusted role",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role you want to set as the trusted role",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subPermissionLevel,
					Description: "Set a role or user's permission level",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "level",
							Description: "Pick a level from 1-1000",
						},
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "member",
							Description: "The user to set the permission level for",
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role to set the permission level for",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subLevelRewards,
					Description: "Add or remove a role for a level",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "level",
							Description: "Pick a level from 1-200",
						},
						{
							Type:        discordgo.ApplicationCommandOptionRole,
							Name:        "role",
							Description: "The role rewarded at that level",
						},
					},
				},
			},
		},
		Handler: runConfig,
	}
}

type optionSet = map[string]*discordgo.ApplicationCommandInteractionDataOption

func runConfig(ctx context.Context, c *command.SlashContext) error {
	sub, opts, ok := command.Subcommand(c.Data())
	if !ok {
		return c.Reply(ctx, "Pick one of the config subcommands.")
	}

	cfg, err := storage.LoadOrCreate(ctx, c.Client.Store, c.Guild())
	if err != nil {
		return fmt.Errorf("load guild config: %w", err)
	}

	switch sub {
	case subTrustedRole:
		return configTrustedRole(ctx, c, cfg, opts)
	case subPermissionLevel:
		return configPermissionLevel(ctx, c, cfg, opts)
	case subLevelRewards:
		return configLevelRewards(ctx, c, cfg, opts)
	default:
		return c.Reply(ctx, fmt.Sprintf("Unknown subcommand `%s`.", sub))
	}
}

func configTrustedRole(ctx context.Context, c *command.SlashContext, cfg *storage.GuildConfig, opts optionSet) error {
	roleID, ok := command.OptionID(opts["role"])
	if !ok {
		if current := cfg.TrustedRoleID(); current != "" {
			return c.Reply(ctx, "The trusted role is "+roleMention(current))
		}
		return c.Reply(ctx, "No trusted role has been set")
	}

	cfg.SetTrustedRole(roleID)
	if err := c.Client.Store.SaveGuildConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save guild config: %w", err)
	}
	return c.Reply(ctx, "The trusted role has been set to "+roleMention(roleID))
}

func configPermissionLevel(ctx context.Context, c *command.SlashContext, cfg *storage.GuildConfig, opts optionSet) error {
	levelOpt, hasLevel := opts["level"]
	if !hasLevel {
		return c.Reply(ctx, listPermissionLevels(ctx, c, cfg))
	}

	memberID, hasMember := command.OptionID(opts["member"])
	roleID, hasRole := command.OptionID(opts["role"])
	if !hasMember && !hasRole {
		return c.Reply(ctx, "You need to provide a member or role")
	}

	target, name := roleID, ""
	if hasMember {
		target = memberID
		name = displayName(ctx, c.Client.Directory, c.Guild(), memberID)
	} else if c.Client.Directory != nil {
		if n, err := c.Client.Directory.RoleName(ctx, c.Guild(), roleID); err == nil && n != "" {
			name = n
		}
	}
	if name == "" {
		name = target
	}

	level := int(levelOpt.IntValue())
	if err := cfg.SetPermissionLevel(target, level); err != nil {
		if errors.Is(err, storage.ErrLevelOutOfRange) {
			return c.Reply(ctx, fmt.Sprintf("The level must be between %d-%d", storage.MinPermissionLevel, storage.MaxPermissionLevel))
		}
		return err
	}
	if err := c.Client.Store.SaveGuildConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save guild config: %w", err)
	}
	return c.Reply(ctx, fmt.Sprintf("The permission level for **%s** has been set to **%d**", name, level))
}

func listPermissionLevels(ctx context.Context, c *command.SlashContext, cfg *storage.GuildConfig) string {
	if len(cfg.PermissionLevels) == 0 {
		return "No permission levels have been set"
	}
	ids := make([]string, 0, len(cfg.PermissionLevels))
	for id := range cfg.PermissionLevels {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		li, lj := cfg.PermissionLevels[ids[i]], cfg.PermissionLevels[ids[j]]
		if li != lj {
			return li > lj
		}
		return ids[i] < ids[j]
	})

	var sb strings.Builder
	sb.WriteString("# Permission Levels\n")
	for _, id := range ids {
		fmt.Fprintf(&sb, "**%s** - %d\n", displayName(ctx, c.Client.Directory, c.Guild(), id), cfg.PermissionLevels[id])
	}
	return sb.String()
}

func configLevelRewards(ctx context.Context, c *command.SlashContext, cfg *storage.GuildConfig, opts optionSet) error {
	levelOpt, hasLevel := opts["level"]
	if !hasLevel {
		return c.Reply(ctx, listLevelRewards(cfg))
	}

	roleID, hasRole := command.OptionID(opts["role"])
	if !hasRole {
		return c.Reply(ctx, "You need to provide a role")
	}

	level := int(levelOpt.IntValue())
	if err := cfg.SetLevelRole(level, roleID); err != nil {
		if errors.Is(err, storage.ErrLevelOutOfRange) {
			return c.Reply(ctx, fmt.Sprintf("The level must be between %d-%d", storage.MinRewardLevel, storage.MaxRewardLevel))
		}
		return err
	}
	if err := c.Client.Store.SaveGuildConfig(ctx, cfg); err != nil {
		return fmt.Errorf("save guild config: %w", err)
	}
	return c.Reply(ctx, fmt.Sprintf("The level reward for level **%d** has been set to %s", level, roleMention(roleID)))
}

func listLevelRewards(cfg *storage.GuildConfig) string {
	if len(cfg.LevelRole) == 0 {
		return "No level rewards have been set"
	}
	levels := make([]int, 0, len(cfg.LevelRole))
	for key := range cfg.LevelRole {
		if n, err := strconv.Atoi(key); err == nil {
			levels = append(levels, n)
		}
	}
	sort.Ints(levels)

	var sb strings.Builder
	sb.WriteString("# Level Rewards\n")
	for _, n := range levels {
		fmt.Fprintf(&sb, "**Level %d** - %s\n", n, roleMention(cfg.LevelRole[strconv.Itoa(n)]))
	}
	return sb.String()
}
