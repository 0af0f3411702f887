package discord

import (
	"context"
	"fmt"
	"sync"

	"kiwi-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

// registrar implements command.Registrar with bulk overwrites, so a guild's
// command set is always replaced in one call.
type registrar struct {
	s *discordgo.Session

	mu    sync.Mutex
	appID string
}

var _ command.Registrar = (*registrar)(nil)

func newRegistrar(s *discordgo.Session) *registrar {
	return &registrar{s: s}
}

func (r *registrar) OverwriteCommands(ctx context.Context, guildID string, cmds []*discordgo.ApplicationCommand) error {
	appID, err := r.applicationID(ctx)
	if err != nil {
		return err
	}
	if cmds == nil {
		cmds = []*discordgo.ApplicationCommand{}
	}
	_, err = r.s.ApplicationCommandBulkOverwrite(appID, guildID, cmds, discordgo.WithContext(ctx))
	return err
}

// applicationID returns the bot's application ID, fetching from Discord if not cached in State.
func (r *registrar) applicationID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appID != "" {
		return r.appID, nil
	}
	if r.s.State != nil && r.s.State.User != nil && r.s.State.User.ID != "" {
		r.appID = r.s.State.User.ID
		return r.appID, nil
	}
	u, err := r.s.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	r.appID = u.ID
	return r.appID, nil
}
