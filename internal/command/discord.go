package command

import (
	"context"

	"kiwi-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Responder sends the bot's replies. The discord package implements it over
// a live session so commands never touch the session directly.
type Responder interface {
	RespondEphemeral(ctx context.Context, i *discordgo.Interaction, content string) error
	Reply(ctx context.Context, m *discordgo.Message, content string) error
}

// Directory looks up display names and member roles.
type Directory interface {
	UserName(ctx context.Context, guildID, userID string) (string, error)
	RoleName(ctx context.Context, guildID, roleID string) (string, error)
	MemberRoles(ctx context.Context, guildID, userID string) ([]string, error)
}

// Registrar replaces the full command set of a guild. An empty guild id
// addresses the global command set.
type Registrar interface {
	OverwriteCommands(ctx context.Context, guildID string, cmds []*discordgo.ApplicationCommand) error
}

// Client is the runtime handed to every command execution.
type Client struct {
	Store     storage.GuildConfigStore
	Responder Responder
	Directory Directory
	Commands  *Registry
	Prefix    string
	Log       *zap.Logger
}

// Actor is whoever triggered the command, with the level resolved for them.
type Actor struct {
	GuildID string
	UserID  string
	RoleIDs []string
	Level   int
}

// Context is what middleware sees of either command kind.
type Context interface {
	Guild() string
	User() string
	Reply(ctx context.Context, content string) error
}

// SlashContext is passed to slash command handlers.
type SlashContext struct {
	Event  *discordgo.InteractionCreate
	Client *Client
	Actor  Actor
}

func (c *SlashContext) Guild() string { return c.Actor.GuildID }
func (c *SlashContext) User() string  { return c.Actor.UserID }

// Reply answers the interaction ephemerally.
func (c *SlashContext) Reply(ctx context.Context, content string) error {
	return c.Client.Responder.RespondEphemeral(ctx, c.Event.Interaction, content)
}

// Data returns the command data of the interaction.
func (c *SlashContext) Data() discordgo.ApplicationCommandInteractionData {
	return c.Event.ApplicationCommandData()
}

// PrefixContext is passed to prefix command handlers.
type PrefixContext struct {
	Event   *discordgo.MessageCreate
	Client  *Client
	Actor   Actor
	Args    []string
	RawArgs string
}

func (c *PrefixContext) Guild() string { return c.Actor.GuildID }
func (c *PrefixContext) User() string  { return c.Actor.UserID }

// Reply answers the triggering message.
func (c *PrefixContext) Reply(ctx context.Context, content string) error {
	return c.Client.Responder.Reply(ctx, c.Event.Message, content)
}

var (
	_ Context = (*SlashContext)(nil)
	_ Context = (*PrefixContext)(nil)
)
