package discord

import (
	"kiwi-bot/internal/event"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) eventCatalog() []*event.Definition {
	return []*event.Definition{
		{Name: event.Ready, Once: true, Handler: b.onFirstReady},
		{Name: event.Ready, Handler: b.onReady},
		{Name: event.GuildCreate, Handler: b.onGuildCreate},
		{Name: event.GuildDelete, Handler: b.onGuildDelete},
		{Name: event.InteractionCreate, Handler: b.onInteractionCreate},
		{Name: event.MessageCreate, Handler: b.onMessageCreate},
	}
}

// onFirstReady is called once, on the first ready of the process
func (b *Bot) onFirstReady(_ *discordgo.Session, r *discordgo.Ready) {
	name := ""
	if r.User != nil {
		name = r.User.Username
	}
	b.log.Info("discord bot is running",
		zap.String("user", name),
		zap.Int("guilds", len(r.Guilds)),
		zap.Int("slash_commands", len(b.commands.SlashDefinitions())))
}

// onReady is called on every ready, including after a reconnect
func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	ids := make([]string, 0, len(r.Guilds))
	for _, g := range r.Guilds {
		ids = append(ids, g.ID)
	}
	b.guilds.Reset(ids)

	if err := b.commands.SyncGuilds(b.ctx, ids); err != nil {
		b.log.Warn("guild command sync incomplete", zap.Error(err))
	}
}

// onGuildCreate is called when a guild becomes available or the bot joins one
func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || !b.guilds.Join(g.ID) {
		return
	}
	b.log.Info("bot added to guild", zap.String("guild_id", g.ID), zap.String("guild", g.Name))
	_ = b.commands.SyncGuild(b.ctx, g.ID)
}

// onGuildDelete is called when the bot leaves a guild or it becomes unavailable
func (b *Bot) onGuildDelete(_ *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	b.guilds.Leave(g.ID)
	b.log.Info("bot removed from guild", zap.String("guild_id", g.ID))
}

func (b *Bot) onInteractionCreate(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	b.dispatcher.HandleInteraction(b.ctx, i)
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	b.dispatcher.HandleMessage(b.ctx, m)
}
