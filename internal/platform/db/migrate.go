package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrator applies embedded goose migrations to a single database. Each
// portal database has its own migration directory, so each binary constructs
// its Migrator with the directory it owns.
type Migrator struct {
	dsn  string
	fsys fs.FS
	dir  string
}

// NewMigrator returns a Migrator for the given DSN over the embedded
// filesystem. dir is the path of the migration files within fsys.
func NewMigrator(dsn string, fsys fs.FS, dir string) *Migrator {
	return &Migrator{dsn: dsn, fsys: fsys, dir: dir}
}

func (m *Migrator) open() (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	goose.SetBaseFS(m.fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set dialect: %w", err)
	}
	return sqlDB, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	sqlDB, err := m.open()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, m.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	sqlDB, err := m.open()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := goose.DownContext(ctx, sqlDB, m.dir); err != nil {
		return fmt.Errorf("roll back migration: %w", err)
	}
	return nil
}

// Status prints the applied/pending state of every migration.
func (m *Migrator) Status(ctx context.Context) error {
	sqlDB, err := m.open()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := goose.StatusContext(ctx, sqlDB, m.dir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}
