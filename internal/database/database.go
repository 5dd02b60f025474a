package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Open prepares a connection pool without contacting the server.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// The service only pings, a small pool is enough
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	return db, nil
}

func NewConnection(databaseURL string) (*sql.DB, error) {
	db, err := Open(databaseURL)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	return db, nil
}

// PingContexter is the subset of *sql.DB used by Pinger.
type PingContexter interface {
	PingContext(ctx context.Context) error
}

// Pinger reports database reachability to the readiness probe.
type Pinger struct {
	DB PingContexter
}

func (p Pinger) Name() string {
	return "database"
}

func (p Pinger) Check(ctx context.Context) error {
	if err := p.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}
