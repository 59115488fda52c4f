package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/hmorita143/eventchat/internal/config"
)

// defaultMigrationsDir is the repo's migrations directory, relative to
// the server's working directory.
const defaultMigrationsDir = "migrations"

type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator builds a migrator for the configured database. The source
// directory defaults to the repo's migrations/ tree when the config
// leaves it empty.
func NewMigrator(cfg config.DatabaseConfig) (*Migrator, error) {
	dir := cfg.MigrationsDir
	if dir == "" {
		dir = defaultMigrationsDir
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", dir), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	return &Migrator{m: m}, nil
}

func (m *Migrator) Up() error {
	err := m.m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Down() error {
	err := m.m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}
	return nil
}

func (m *Migrator) Version() (uint, bool, error) {
	return m.m.Version()
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
