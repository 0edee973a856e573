package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/oops"
	_ "modernc.org/sqlite"
)

type SQLiteStorage struct {
	db *sql.DB
}

var _ Storage = &SQLiteStorage{}

func OpenSQLite(path string) (*SQLiteStorage, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, oops.New(err, "failed to create storage directory")
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, oops.New(err, "failed to open storage database")
	}
	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, oops.New(err, "failed to ping storage database")
	}

	s := &SQLiteStorage{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	logging.Debug().Str("path", path).Msg("opened sqlite storage")
	return s, nil
}

type migration struct {
	name string
	up   string
}

var migrations = []migration{
	{
		name: "001_create_kv",
		up: `
			CREATE TABLE kv (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
}

func (s *SQLiteStorage) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return oops.New(err, "failed to create migrations table")
	}

	for _, m := range migrations {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", m.name).Scan(&count)
		if err != nil {
			return oops.New(err, "failed to check migration %s", m.name)
		}
		if count > 0 {
			continue
		}
		if _, err := s.db.Exec(m.up); err != nil {
			return oops.New(err, "migration %s failed", m.name)
		}
		if _, err := s.db.Exec("INSERT INTO migrations (name) VALUES (?)", m.name); err != nil {
			return oops.New(err, "failed to record migration %s", m.name)
		}
	}
	return nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	} else if err != nil {
		return "", oops.New(err, "failed to read key %s", key)
	}
	return value, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`,
		key, value,
	)
	if err != nil {
		return oops.New(err, "failed to write key %s", key)
	}
	return nil
}

func (s *SQLiteStorage) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return oops.New(err, "failed to remove key %s", key)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
