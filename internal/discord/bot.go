package discord

import (
	"context"
	"fmt"

	"kiwi-bot/internal/command"
	"kiwi-bot/internal/commands"
	"kiwi-bot/internal/config"
	"kiwi-bot/internal/event"
	"kiwi-bot/internal/middleware"
	"kiwi-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot is a Discord bot
type Bot struct {
	dg         *discordgo.Session
	cfg        *config.Config
	store      storage.GuildConfigStore
	log        *zap.Logger
	commands   *command.Registry
	dispatcher *command.Dispatcher
	events     *event.Registry
	guilds     *guildSet

	// ctx is the run context handed to every handler.
	ctx context.Context
}

// NewBot creates the session and loads the command and event catalogs.
// Nothing touches the network until Run.
func NewBot(cfg *config.Config, store storage.GuildConfigStore, log *zap.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		dg:     dg,
		cfg:    cfg,
		store:  store,
		log:    log,
		guilds: newGuildSet(),
		ctx:    context.Background(),
	}

	b.commands = command.NewRegistry(newRegistrar(dg), command.RegistryConfig{
		Rate:    cfg.RegistrationRate,
		Workers: cfg.RegistrationWorkers,
	}, log.Named("commands"))
	b.commands.LoadCatalog(commands.Catalog(), middleware.WithCommandLogger(log))

	b.dispatcher = command.NewDispatcher(&command.Client{
		Store:     store,
		Responder: responder{s: dg},
		Directory: directory{s: dg},
		Commands:  b.commands,
		Prefix:    cfg.CommandPrefix,
		Log:       log,
	})

	b.events = event.NewRegistry(dg, log)
	b.events.LoadAll(b.eventCatalog()...)
	return b, nil
}

// Commands exposes the loaded command registry.
func (b *Bot) Commands() *command.Registry { return b.commands }

// Run binds events, clears stale command registrations, connects and blocks
// until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.events.Bind()
	defer b.events.Close()

	if err := b.commands.UnregisterAll(ctx); err != nil {
		b.log.Warn("failed to clear registered commands", zap.Error(err))
	}

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info("shutdown signal received, cleaning up")
	return nil
}
