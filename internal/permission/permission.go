// Package permission computes a member's permission level from guild config.
package permission

import "kiwi-bot/internal/storage"

// TrustedLevel is granted to members holding the guild's trusted role.
const TrustedLevel = 100

// Resolve returns the highest level that applies to the actor: a direct
// member override, any role override, or TrustedLevel for the trusted role.
// A nil config resolves to 0.
func Resolve(cfg *storage.GuildConfig, actorID string, roleIDs []string) int {
	if cfg == nil {
		return 0
	}

	level := 0
	if v, ok := cfg.PermissionLevels[actorID]; ok && v > level {
		level = v
	}

	trusted := cfg.TrustedRoleID()
	for _, id := range roleIDs {
		if v, ok := cfg.PermissionLevels[id]; ok && v > level {
			level = v
		}
		if trusted != "" && id == trusted && TrustedLevel > level {
			level = TrustedLevel
		}
	}
	return level
}
