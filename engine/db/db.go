// Package db provides the GORM-based SQLite wrapper the DevDAO engine
// persists its governance, treasury and challenge state through.
package db

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/devdao-labs/devdao-node/engine/store"
)

const (
	// InMemoryDSN creates an ephemeral in-memory SQLite database, used by
	// tests and the --ephemeral daemon mode.
	InMemoryDSN = ":memory:"

	// DefaultFileName is the on-disk database file.
	DefaultFileName = "devdao.db"

	dirPermissions = 0o750
)

// gormConfig silences GORM's own logging; the engine logs through zerolog.
var gormConfig = &gorm.Config{
	Logger: gormlogger.Default.LogMode(gormlogger.Silent),
}

// DB wraps a GORM client with lifecycle management.
type DB struct {
	client *gorm.DB
}

// OpenFile opens (or creates) a file-backed SQLite database in dir and
// migrates the engine schema.
func OpenFile(dir, filename string) (*DB, error) {
	if filename == "" {
		filename = DefaultFileName
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to create database directory %s", dir)
	}
	return open(filepath.Join(dir, filename))
}

// OpenInMemory opens a non-persistent database, for tests and ephemeral runs.
func OpenInMemory() (*DB, error) {
	return open(InMemoryDSN)
}

func open(dsn string) (*DB, error) {
	// WAL and a busy timeout keep the single-writer engine responsive while
	// the query server reads.
	if dsn != InMemoryDSN && !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000&cache=shared&mode=rwc"
	}

	client, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open SQLite database")
	}

	if err := client.AutoMigrate(store.Models()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate engine schema")
	}

	sqlDB, err := client.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying sql.DB")
	}
	// SQLite performs best single-connection in WAL mode; the engine
	// serializes writes anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return &DB{client: client}, nil
}

// Client exposes the *gorm.DB for queries and transactions.
func (d *DB) Client() *gorm.DB {
	return d.client
}

// Close shuts the underlying connection down.
func (d *DB) Close() error {
	sqlDB, err := d.client.DB()
	if err != nil {
		return errors.Wrap(err, "failed to retrieve native sql.DB")
	}
	if err := sqlDB.Close(); err != nil {
		return errors.Wrap(err, "failed to close database connection")
	}
	return nil
}
