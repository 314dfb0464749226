package database

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// connectTimeout bounds how long startup waits for Postgres to come up.
const connectTimeout = 30 * time.Second

// FetchLimit caps every collection query.
const FetchLimit = 1000

// Timestamp drops the sub-microsecond part of t, which a TIMESTAMPTZ column
// cannot hold. Values written with it read back unchanged.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// NewPostgres creates a new PostgreSQL connection pool.
// The initial connect is retried with exponential backoff.
func NewPostgres(databaseURL string) (*sqlx.DB, error) {
	var db *sqlx.DB

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = connectTimeout

	connect := func() error {
		conn, err := sqlx.Open("postgres", databaseURL)
		if err != nil {
			return backoff.Permanent(err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return err
		}
		db = conn
		return nil
	}

	notify := func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("PostgreSQL not ready")
	}

	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	log.Info().Msg("Connected to PostgreSQL")
	return db, nil
}

// ClosePostgres closes the database connection
func ClosePostgres(db *sqlx.DB) {
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing PostgreSQL connection")
		} else {
			log.Info().Msg("PostgreSQL connection closed")
		}
	}
}
