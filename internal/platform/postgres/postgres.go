// Package postgres opens the primary database and bootstraps the schema.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects via the pgx stdlib driver and verifies connectivity.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// schema is applied idempotently at startup; there is no migration tooling
// yet because the layout has a single consumer.
const schema = `
CREATE TABLE IF NOT EXISTS creditors (
	code          TEXT PRIMARY KEY,
	address       TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	registered_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS debtors (
	nik           TEXT PRIMARY KEY,
	address       TEXT NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS debtor_ledger (
	nik      TEXT NOT NULL,
	creditor TEXT NOT NULL,
	status   TEXT NOT NULL,
	position BIGSERIAL,
	PRIMARY KEY (nik, creditor)
);

CREATE TABLE IF NOT EXISTS delegation_requests (
	consumer    TEXT NOT NULL,
	provider    TEXT NOT NULL,
	nik         TEXT NOT NULL,
	status      TEXT NOT NULL,
	metadata    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	resolved_at TIMESTAMPTZ,
	PRIMARY KEY (consumer, provider)
);

CREATE TABLE IF NOT EXISTS relay_nonces (
	signer TEXT PRIMARY KEY,
	nonce  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_events (
	id         UUID PRIMARY KEY,
	action     TEXT NOT NULL,
	timestamp  TIMESTAMPTZ NOT NULL,
	actor      TEXT NOT NULL DEFAULT '',
	creditor   TEXT NOT NULL DEFAULT '',
	debtor     TEXT NOT NULL DEFAULT '',
	consumer   TEXT NOT NULL DEFAULT '',
	provider   TEXT NOT NULL DEFAULT '',
	decision   TEXT NOT NULL DEFAULT '',
	metadata   TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS audit_events_timestamp_idx ON audit_events (timestamp DESC);
`

// EnsureSchema creates the tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
