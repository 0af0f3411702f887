package discord

import (
	"context"
	"fmt"

	"kiwi-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

// directory implements command.Directory from the state cache, falling back
// to the REST API.
type directory struct {
	s *discordgo.Session
}

var _ command.Directory = directory{}

func (d directory) member(ctx context.Context, guildID, userID string) (*discordgo.Member, error) {
	if m, err := d.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	m, err := d.s.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch member %s: %w", userID, err)
	}
	return m, nil
}

func (d directory) UserName(ctx context.Context, guildID, userID string) (string, error) {
	m, err := d.member(ctx, guildID, userID)
	if err != nil {
		return "", err
	}
	if m.User == nil {
		return "", fmt.Errorf("member %s has no user", userID)
	}
	return m.User.Username, nil
}

func (d directory) RoleName(ctx context.Context, guildID, roleID string) (string, error) {
	if r, err := d.s.State.Role(guildID, roleID); err == nil {
		return r.Name, nil
	}
	roles, err := d.s.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("fetch roles: %w", err)
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r.Name, nil
		}
	}
	return "", fmt.Errorf("role %s not found", roleID)
}

func (d directory) MemberRoles(ctx context.Context, guildID, userID string) ([]string, error) {
	m, err := d.member(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}
	return m.Roles, nil
}
