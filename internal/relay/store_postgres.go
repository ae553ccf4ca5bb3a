package relay

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
	txcontext "kustodia/pkg/platform/tx"
)

// PostgresNonceStore persists relay nonces. It honors a context transaction
// so the nonce increment commits or rolls back together with the dispatched
// action's own writes.
type PostgresNonceStore struct {
	db *sql.DB
}

func NewPostgresNonceStore(db *sql.DB) *PostgresNonceStore {
	return &PostgresNonceStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresNonceStore) execer(ctx context.Context) dbExecutor {
	if dbtx, ok := txcontext.From(ctx); ok {
		return dbtx
	}
	return s.db
}

func (s *PostgresNonceStore) Get(ctx context.Context, signer domain.Address) (uint64, error) {
	var n uint64
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT nonce FROM relay_nonces WHERE signer = $1`, signer.String()).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("query relay nonce: %w", err)
	}
	return n, nil
}

func (s *PostgresNonceStore) Increment(ctx context.Context, signer domain.Address, expected uint64) error {
	if expected == 0 {
		res, err := s.execer(ctx).ExecContext(ctx,
			`INSERT INTO relay_nonces (signer, nonce) VALUES ($1, 1) ON CONFLICT (signer) DO NOTHING`,
			signer.String())
		if err != nil {
			return fmt.Errorf("insert relay nonce: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			return nil
		}
		// Row already exists; fall through to the guarded update.
	}
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE relay_nonces SET nonce = nonce + 1 WHERE signer = $1 AND nonce = $2`,
		signer.String(), expected)
	if err != nil {
		return fmt.Errorf("update relay nonce: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrStaleNonce
	}
	return nil
}
