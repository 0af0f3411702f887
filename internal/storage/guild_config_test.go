package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPermissionLevelBounds(t *testing.T) {
	cfg := NewGuildConfig("g1")

	for _, level := range []int{0, 1001, -5} {
		err := cfg.SetPermissionLevel("u1", level)
		require.ErrorIs(t, err, ErrLevelOutOfRange, "level %d", level)
	}
	assert.Empty(t, cfg.PermissionLevels)

	require.NoError(t, cfg.SetPermissionLevel("u1", 1))
	require.NoError(t, cfg.SetPermissionLevel("r1", 1000))
	assert.Equal(t, map[string]int{"u1": 1, "r1": 1000}, cfg.PermissionLevels)
}

func TestSetPermissionLevelRequiresTarget(t *testing.T) {
	cfg := NewGuildConfig("g1")
	require.Error(t, cfg.SetPermissionLevel("", 10))
}

func TestSetLevelRoleBounds(t *testing.T) {
	cfg := NewGuildConfig("g1")

	for _, level := range []int{0, 201} {
		err := cfg.SetLevelRole(level, "role")
		require.ErrorIs(t, err, ErrLevelOutOfRange, "level %d", level)
	}
	assert.Empty(t, cfg.LevelRole)

	require.NoError(t, cfg.SetLevelRole(1, "a"))
	require.NoError(t, cfg.SetLevelRole(200, "b"))
	assert.Equal(t, map[string]string{"1": "a", "200": "b"}, cfg.LevelRole)
}

func TestTrustedRoleClear(t *testing.T) {
	cfg := NewGuildConfig("g1")
	assert.Equal(t, "", cfg.TrustedRoleID())

	cfg.SetTrustedRole("r1")
	assert.Equal(t, "r1", cfg.TrustedRoleID())

	cfg.SetTrustedRole("")
	assert.Nil(t, cfg.TrustedRole)

	var nilCfg *GuildConfig
	assert.Equal(t, "", nilCfg.TrustedRoleID())
}

func TestCloneIsDeep(t *testing.T) {
	cfg := NewGuildConfig("g1")
	cfg.SetTrustedRole("r1")
	require.NoError(t, cfg.SetPermissionLevel("u1", 5))

	clone := cfg.Clone()
	*clone.TrustedRole = "r2"
	clone.PermissionLevels["u1"] = 6

	assert.Equal(t, "r1", cfg.TrustedRoleID())
	assert.Equal(t, 5, cfg.PermissionLevels["u1"])
}
