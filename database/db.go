package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Drivers accepted by Connect.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Connect opens the catalog database. For Postgres the pool is tuned for
// serverless hosts like Neon by not holding idle connections.
func Connect(driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		log.Warn().Err(err).Str("driver", driver).Msg("Database ping failed, proceeding carefully")
	}

	switch driver {
	case DriverSQLite:
		// A single connection keeps ":memory:" databases shared across queries.
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxIdleConns(0)
		db.SetMaxOpenConns(10)
	}

	log.Info().Str("driver", driver).Msg("Connected to catalog database")
	return db, nil
}
