package storage

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strconv"
)

const (
	MinPermissionLevel = 1
	MaxPermissionLevel = 1000

	MinRewardLevel = 1
	MaxRewardLevel = 200
)

var (
	ErrNotFound        = errors.New("guild config not found")
	ErrAlreadyExists   = errors.New("guild config already exists")
	ErrLevelOutOfRange = errors.New("level out of range")
)

// GuildConfig is the per-guild configuration document.
type GuildConfig struct {
	GuildID          string            `json:"guild_id" yaml:"guild_id"`
	TrustedRole      *string           `json:"trusted_role" yaml:"trusted_role"`
	PermissionLevels map[string]int    `json:"permission_levels" yaml:"permission_levels"`
	LevelRole        map[string]string `json:"level_role" yaml:"level_role"`
}

// NewGuildConfig returns an empty config for guildID.
func NewGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID:          guildID,
		PermissionLevels: map[string]int{},
		LevelRole:        map[string]string{},
	}
}

// GuildConfigStore persists one GuildConfig per guild. Configs returned by
// the store are private copies; changes are visible only after SaveGuildConfig.
type GuildConfigStore interface {
	GetGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error)
	CreateGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error)
	SaveGuildConfig(ctx context.Context, cfg *GuildConfig) error
	ListGuildIDs(ctx context.Context) ([]string, error)
	Close() error
}

// LoadOrCreate returns the guild's config, creating it when none exists.
func LoadOrCreate(ctx context.Context, store GuildConfigStore, guildID string) (*GuildConfig, error) {
	cfg, err := store.GetGuildConfig(ctx, guildID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return store.CreateGuildConfig(ctx, guildID)
}

// TrustedRoleID returns the trusted role or "" when unset.
func (c *GuildConfig) TrustedRoleID() string {
	if c == nil || c.TrustedRole == nil {
		return ""
	}
	return *c.TrustedRole
}

func (c *GuildConfig) SetTrustedRole(roleID string) {
	if roleID == "" {
		c.TrustedRole = nil
		return
	}
	c.TrustedRole = &roleID
}

// SetPermissionLevel sets the override for a member or role id.
func (c *GuildConfig) SetPermissionLevel(id string, level int) error {
	if level < MinPermissionLevel || level > MaxPermissionLevel {
		return fmt.Errorf("permission level %d must be between %d-%d: %w",
			level, MinPermissionLevel, MaxPermissionLevel, ErrLevelOutOfRange)
	}
	if id == "" {
		return errors.New("permission level target is empty")
	}
	if c.PermissionLevels == nil {
		c.PermissionLevels = map[string]int{}
	}
	c.PermissionLevels[id] = level
	return nil
}

// SetLevelRole sets the role rewarded at level.
func (c *GuildConfig) SetLevelRole(level int, roleID string) error {
	if level < MinRewardLevel || level > MaxRewardLevel {
		return fmt.Errorf("reward level %d must be between %d-%d: %w",
			level, MinRewardLevel, MaxRewardLevel, ErrLevelOutOfRange)
	}
	if roleID == "" {
		return errors.New("reward role is empty")
	}
	if c.LevelRole == nil {
		c.LevelRole = map[string]string{}
	}
	c.LevelRole[strconv.Itoa(level)] = roleID
	return nil
}

// Clone returns a deep copy.
func (c *GuildConfig) Clone() *GuildConfig {
	if c == nil {
		return nil
	}
	out := &GuildConfig{
		GuildID:          c.GuildID,
		PermissionLevels: maps.Clone(c.PermissionLevels),
		LevelRole:        maps.Clone(c.LevelRole),
	}
	if c.TrustedRole != nil {
		role := *c.TrustedRole
		out.TrustedRole = &role
	}
	out.normalize()
	return out
}

func (c *GuildConfig) normalize() {
	if c.PermissionLevels == nil {
		c.PermissionLevels = map[string]int{}
	}
	if c.LevelRole == nil {
		c.LevelRole = map[string]string{}
	}
}
