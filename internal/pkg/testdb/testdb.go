// Package testdb starts a throwaway Postgres for integration suites and
// applies the freight schema to it.
package testdb

import (
	"context"
	"database/sql"
	"time"

	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/migrations"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Database is a migrated Postgres container.
type Database struct {
	Container *tcpostgres.PostgresContainer
	DSN       string
	Gorm      *gorm.DB
	SQL       *sql.DB
}

// Start runs postgres:15-alpine and migrates it.
func Start(ctx context.Context) (*Database, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	db := &Database{Container: container}

	db.DSN, err = container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	db.Gorm, db.SQL, err = postgres.Open(ctx, db.DSN)
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	if err = migrations.Up(ctx, db.SQL); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	return db, nil
}

// Truncate empties every freight table.
func (d *Database) Truncate() error {
	return d.Gorm.Exec("TRUNCATE TABLE delivery_ledger, cargos, drivers CASCADE").Error
}

// Close releases the connection and terminates the container.
func (d *Database) Close(ctx context.Context) error {
	if d.SQL != nil {
		_ = d.SQL.Close()
	}
	if d.Container != nil {
		return d.Container.Terminate(ctx)
	}
	return nil
}
