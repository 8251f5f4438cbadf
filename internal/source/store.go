// Package source extracts the synced tables from the school's
// relational store. The store is an external collaborator: this package
// runs the fixed projection queries and shapes rows into records, and
// nothing more.
package source

import (
	"database/sql"
	"time"
)

// Store wraps sql.DB with the driver name it was opened with.
type Store struct {
	*sql.DB
	driver string
}

// Config holds source database connection configuration.
type Config struct {
	Driver          string        `toml:"driver"`
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `toml:"conn_max_idle_time"`
}

// Open creates a new database connection and verifies it.
func Open(driver, dsn string) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// The extraction is read-only, but keep SQLite honest about
	// references when it is the configured driver.
	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{
		DB:     db,
		driver: driver,
	}, nil
}

// OpenWithConfig creates a connection with pool settings applied.
func OpenWithConfig(config Config) (*Store, error) {
	db, err := Open(config.Driver, config.DSN)
	if err != nil {
		return nil, err
	}

	if config.MaxOpenConns > 0 {
		db.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		db.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(config.ConnMaxLifetime)
	}
	if config.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	}

	return db, nil
}

// Driver returns the database driver name.
func (s *Store) Driver() string {
	return s.driver
}
