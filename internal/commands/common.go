package commands

import (
	"context"
	"errors"
	"fmt"

	"kiwi-bot/internal/command"
	"kiwi-bot/internal/permission"
	"kiwi-bot/internal/storage"
)

// displayName resolves id as a member first, then a role, and falls back to
// the raw id.
func displayName(ctx context.Context, dir command.Directory, guildID, id string) string {
	if dir == nil {
		return id
	}
	if name, err := dir.UserName(ctx, guildID, id); err == nil && name != "" {
		return name
	}
	if name, err := dir.RoleName(ctx, guildID, id); err == nil && name != "" {
		return name
	}
	return id
}

// levelOf resolves the permission level of any guild member.
func levelOf(ctx context.Context, client *command.Client, guildID, userID string) (int, error) {
	cfg, err := client.Store.GetGuildConfig(ctx, guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load guild config: %w", err)
	}

	var roles []string
	if client.Directory != nil {
		roles, err = client.Directory.MemberRoles(ctx, guildID, userID)
		if err != nil {
			return 0, fmt.Errorf("look up roles of %s: %w", userID, err)
		}
	}
	return permission.Resolve(cfg, userID, roles), nil
}

func roleMention(id string) string { return "<@&" + id + ">" }
