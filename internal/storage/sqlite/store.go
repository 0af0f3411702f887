// Package sqlite provides a SQLite-backed guild config store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"kiwi-bot/internal/storage"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const schema = `CREATE TABLE IF NOT EXISTS guild_configs (
	guild_id   TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store persists guild configs as JSON documents in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.GuildConfigStore = (*Store)(nil)

// Open opens a SQLite store at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) GetGuildConfig(ctx context.Context, guildID string) (*storage.GuildConfig, error) {
	var doc string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT document FROM guild_configs WHERE guild_id = ?`, guildID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get guild config: %w", err)
	}

	cfg := storage.NewGuildConfig(guildID)
	if err := json.Unmarshal([]byte(doc), cfg); err != nil {
		return nil, fmt.Errorf("decode guild config %s: %w", guildID, err)
	}
	cfg.GuildID = guildID
	return cfg.Clone(), nil
}

func (s *Store) CreateGuildConfig(ctx context.Context, guildID string) (*storage.GuildConfig, error) {
	if strings.TrimSpace(guildID) == "" {
		return nil, fmt.Errorf("guild id is required")
	}
	cfg := storage.NewGuildConfig(guildID)
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode guild config: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO guild_configs (guild_id, document, updated_at) VALUES (?, ?, ?)`,
		guildID, string(doc), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("guild %s: %w", guildID, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create guild config: %w", err)
	}
	return cfg, nil
}

// SaveGuildConfig replaces the whole stored document.
func (s *Store) SaveGuildConfig(ctx context.Context, cfg *storage.GuildConfig) error {
	if cfg == nil || cfg.GuildID == "" {
		return fmt.Errorf("guild config without guild id")
	}
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode guild config: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO guild_configs (guild_id, document, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		cfg.GuildID, string(doc), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save guild config: %w", err)
	}
	return nil
}

func (s *Store) ListGuildIDs(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT guild_id FROM guild_configs ORDER BY guild_id`)
	if err != nil {
		return nil, fmt.Errorf("list guild configs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan guild id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
