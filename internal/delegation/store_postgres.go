package delegation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
	txcontext "kustodia/pkg/platform/tx"
)

// Postgres persists the debtor ledger and request records. Enumeration order
// is materialized with a bigserial position column so listings never depend
// on index scan order.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if dbtx, ok := txcontext.From(ctx); ok {
		return dbtx
	}
	return s.db
}

func (s *Postgres) GetStatus(ctx context.Context, nik domain.Hash32, creditor domain.Address) (domain.Status, error) {
	const query = `SELECT status FROM debtor_ledger WHERE nik = $1 AND creditor = $2`
	var raw string
	err := s.execer(ctx).QueryRowContext(ctx, query, nik.String(), creditor.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StatusNone, nil
		}
		return domain.StatusNone, fmt.Errorf("query ledger status: %w", err)
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return domain.StatusNone, fmt.Errorf("corrupt ledger status: %w", err)
	}
	return status, nil
}

func (s *Postgres) UpsertStatus(ctx context.Context, nik domain.Hash32, creditor domain.Address, status domain.Status) error {
	const query = `
		INSERT INTO debtor_ledger (nik, creditor, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (nik, creditor) DO UPDATE SET status = EXCLUDED.status
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, nik.String(), creditor.String(), string(status)); err != nil {
		return fmt.Errorf("upsert ledger status: %w", err)
	}
	return nil
}

func (s *Postgres) ListStatuses(ctx context.Context, nik domain.Hash32) ([]CreditorStatus, error) {
	const query = `
		SELECT creditor, status FROM debtor_ledger
		WHERE nik = $1
		ORDER BY position ASC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, nik.String())
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	var out []CreditorStatus
	for rows.Next() {
		var rawCreditor, rawStatus string
		if err := rows.Scan(&rawCreditor, &rawStatus); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		creditor, err := domain.ParseAddress(rawCreditor)
		if err != nil {
			return nil, fmt.Errorf("corrupt ledger creditor: %w", err)
		}
		status, err := domain.ParseStatus(rawStatus)
		if err != nil {
			return nil, fmt.Errorf("corrupt ledger status: %w", err)
		}
		out = append(out, CreditorStatus{Creditor: creditor, Status: status})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

func (s *Postgres) CreateRequest(ctx context.Context, req Request) error {
	const query = `
		INSERT INTO delegation_requests (consumer, provider, nik, status, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (consumer, provider) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		req.Consumer.String(), req.Provider.String(), req.NIK.String(),
		string(req.Status), req.Metadata, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert delegation request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindRequest(ctx context.Context, consumer, provider domain.Address) (Request, error) {
	const query = `
		SELECT consumer, provider, nik, status, metadata, created_at, resolved_at
		FROM delegation_requests
		WHERE consumer = $1 AND provider = $2
	`
	row := s.execer(ctx).QueryRowContext(ctx, query, consumer.String(), provider.String())

	var (
		req                              Request
		rawConsumer, rawProvider, rawNIK string
		rawStatus                        string
		resolvedAt                       sql.NullTime
	)
	err := row.Scan(&rawConsumer, &rawProvider, &rawNIK, &rawStatus, &req.Metadata, &req.CreatedAt, &resolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Request{}, sentinel.ErrNotFound
		}
		return Request{}, fmt.Errorf("scan delegation request: %w", err)
	}
	if req.Consumer, err = domain.ParseAddress(rawConsumer); err != nil {
		return Request{}, fmt.Errorf("corrupt request consumer: %w", err)
	}
	if req.Provider, err = domain.ParseAddress(rawProvider); err != nil {
		return Request{}, fmt.Errorf("corrupt request provider: %w", err)
	}
	if req.NIK, err = domain.ParseHash32(rawNIK); err != nil {
		return Request{}, fmt.Errorf("corrupt request nik: %w", err)
	}
	if req.Status, err = domain.ParseStatus(rawStatus); err != nil {
		return Request{}, fmt.Errorf("corrupt request status: %w", err)
	}
	if resolvedAt.Valid {
		req.ResolvedAt = &resolvedAt.Time
	}
	return req, nil
}

func (s *Postgres) ResolveRequest(ctx context.Context, consumer, provider domain.Address, status domain.Status, metadata string, resolvedAt time.Time) error {
	const query = `
		UPDATE delegation_requests
		SET status = $3, resolved_at = $4,
		    metadata = CASE WHEN $5 = '' THEN metadata ELSE $5 END
		WHERE consumer = $1 AND provider = $2
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		consumer.String(), provider.String(), string(status), resolvedAt, metadata)
	if err != nil {
		return fmt.Errorf("resolve delegation request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
