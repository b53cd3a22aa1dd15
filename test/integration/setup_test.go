package integration

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oncolife/oncolife/internal/platform/db"
	"github.com/oncolife/oncolife/migrations"
)

// Both portal databases live on one throwaway postgres server. doctorPool and
// patientPool are initialized once in TestMain with their migrations applied.
var (
	doctorPool  *pgxpool.Pool
	patientPool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	serverConnStr, cleanup, err := startPostgresContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	doctorPool, err = createPortalDatabase(ctx, serverConnStr, "oncolife_doctor", "doctor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up doctor database: %v\n", err)
		cleanup()
		os.Exit(1)
	}
	patientPool, err = createPortalDatabase(ctx, serverConnStr, "oncolife_patient", "patient")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up patient database: %v\n", err)
		doctorPool.Close()
		cleanup()
		os.Exit(1)
	}

	code := m.Run()

	doctorPool.Close()
	patientPool.Close()
	cleanup()
	os.Exit(code)
}

// createPortalDatabase creates the named database on the test server, applies
// the goose migrations from migrationDir, and returns a pool connected to it.
func createPortalDatabase(ctx context.Context, serverConnStr, name, migrationDir string) (*pgxpool.Pool, error) {
	admin, err := pgxpool.New(ctx, serverConnStr)
	if err != nil {
		return nil, fmt.Errorf("connect to server: %w", err)
	}
	defer admin.Close()

	if _, err := admin.Exec(ctx, "CREATE DATABASE "+name); err != nil {
		return nil, fmt.Errorf("create database %s: %w", name, err)
	}

	dsn := strings.Replace(serverConnStr, "/postgres?", "/"+name+"?", 1)
	if err := db.NewMigrator(dsn, migrations.FS, migrationDir).Up(ctx); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", name, err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", name, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}
	return pool, nil
}

func ptrStr(s string) *string { return &s }
