package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
	"go.uber.org/zap"
)

type DB struct {
	*sql.DB
	path   string
	logger *zap.Logger
}

// Open opens (or creates) the encrypted database file at dbPath, keyed with
// password, and brings its schema up to date.
func Open(ctx context.Context, dbPath, password string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", fmt.Sprintf("%s?_key=%s", dbPath, password))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; the invoice collection is rewritten whole on every change
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: sqlDB, path: dbPath, logger: logger}
	if err := db.RunMigrations(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Debug("database opened", zap.String("path", dbPath))
	return db, nil
}

// Path returns the file the database was opened from
func (db *DB) Path() string {
	return db.path
}

func (db *DB) Close() error {
	db.logger.Debug("closing database", zap.String("path", db.path))
	return db.DB.Close()
}
