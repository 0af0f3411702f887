// /internal/storage/storage.go
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"kiwi-bot/datastore"

	"go.uber.org/zap"
)

const guildConfigPrefix = "guild_config:"

// Storage keeps guild configs as JSON documents in a file datastore.
type Storage struct {
	ds *datastore.DataStore
}

var _ GuildConfigStore = (*Storage)(nil)

func New(filePath string, log *zap.Logger) (*Storage, error) {
	cfg := datastore.DefaultConfig(filePath)
	if log != nil {
		cfg.Logger = log.Named("datastore")
	}
	ds, err := datastore.NewWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func guildKey(guildID string) string {
	return guildConfigPrefix + guildID
}

func (s *Storage) GetGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, ok := s.ds.Get(guildKey(guildID))
	if !ok {
		return nil, ErrNotFound
	}

	var cfg GuildConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling guild config %s: %w", guildID, err)
	}
	cfg.GuildID = guildID
	cfg.normalize()
	return &cfg, nil
}

func (s *Storage) CreateGuildConfig(ctx context.Context, guildID string) (*GuildConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(guildID) == "" {
		return nil, errors.New("guild id is required")
	}

	cfg := NewGuildConfig(guildID)
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("error marshalling guild config: %w", err)
	}
	key := guildKey(guildID)
	if err := s.ds.Insert(key, doc); err != nil {
		if errors.Is(err, datastore.ErrKeyExists) {
			return nil, fmt.Errorf("guild %s: %w", guildID, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create guild config: %w", err)
	}
	if err := s.ds.SaveToFile(); err != nil {
		s.ds.Delete(key)
		return nil, fmt.Errorf("create guild config: %w", err)
	}
	return cfg, nil
}

// SaveGuildConfig replaces the whole stored document and flushes it to disk.
// On a failed write the previous document is restored.
func (s *Storage) SaveGuildConfig(ctx context.Context, cfg *GuildConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg == nil || cfg.GuildID == "" {
		return errors.New("guild config without guild id")
	}

	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshalling guild config: %w", err)
	}
	key := guildKey(cfg.GuildID)
	prev, existed := s.ds.Get(key)
	if err := s.ds.Put(key, doc); err != nil {
		return fmt.Errorf("save guild config: %w", err)
	}
	if err := s.ds.SaveToFile(); err != nil {
		if existed {
			_ = s.ds.Put(key, prev)
		} else {
			s.ds.Delete(key)
		}
		return fmt.Errorf("save guild config: %w", err)
	}
	return nil
}

func (s *Storage) ListGuildIDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	keys := s.ds.Keys(guildConfigPrefix)
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, guildConfigPrefix))
	}
	return ids, nil
}
