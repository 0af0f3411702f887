package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"kiwi-bot/internal/config"
	"kiwi-bot/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunClosesStoreWhenBotFails(t *testing.T) {
	var opened storage.GuildConfigStore
	orig := newBot
	t.Cleanup(func() { newBot = orig })
	newBot = func(_ *config.Config, store storage.GuildConfigStore, _ *zap.Logger) (runner, error) {
		opened = store
		return nil, errors.New("no session")
	}

	cfg := &config.Config{Storage: config.StorageConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "kiwi.db"),
	}}
	err := run(cfg, zap.NewNop())
	require.EqualError(t, err, "no session")

	require.NotNil(t, opened)
	_, err = opened.ListGuildIDs(context.Background())
	assert.Error(t, err)
}

func TestRunReportsStoreOpenFailure(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "postgres", Path: "x"}}
	assert.Error(t, run(cfg, zap.NewNop()))
}
