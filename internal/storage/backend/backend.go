// Package backend opens the guild config store selected by configuration.
package backend

import (
	"fmt"

	"kiwi-bot/internal/config"
	"kiwi-bot/internal/storage"
	"kiwi-bot/internal/storage/sqlite"

	"go.uber.org/zap"
)

func Open(sc config.StorageConfig, log *zap.Logger) (storage.GuildConfigStore, error) {
	switch sc.Driver {
	case config.DriverJSON:
		s, err := storage.New(sc.Path, log)
		if err != nil {
			return nil, fmt.Errorf("open json store: %w", err)
		}
		return s, nil
	case config.DriverSQLite:
		s, err := sqlite.Open(sc.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", sc.Driver)
	}
}
