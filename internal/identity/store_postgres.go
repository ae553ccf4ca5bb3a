package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kustodia/pkg/domain"
	"kustodia/pkg/platform/sentinel"
	txcontext "kustodia/pkg/platform/tx"
)

// Postgres persists the identity maps. Writes honor a transaction carried in
// context so the signed dispatcher can commit identity changes and nonce
// increments atomically.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if dbtx, ok := txcontext.From(ctx); ok {
		return dbtx
	}
	return s.db
}

func (s *Postgres) SaveCreditor(ctx context.Context, c Creditor) error {
	const query = `
		INSERT INTO creditors (code, address, name, registered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (code) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		c.Code.String(), c.Address.String(), c.Name, c.RegisteredAt)
	if err != nil {
		return fmt.Errorf("insert creditor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindCreditor(ctx context.Context, code domain.Hash32) (Creditor, error) {
	const query = `
		SELECT code, address, name, registered_at
		FROM creditors WHERE code = $1
	`
	return s.scanCreditor(s.execer(ctx).QueryRowContext(ctx, query, code.String()))
}

func (s *Postgres) DeleteCreditor(ctx context.Context, code domain.Hash32) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM creditors WHERE code = $1`, code.String())
	if err != nil {
		return fmt.Errorf("delete creditor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) SaveDebtor(ctx context.Context, d Debtor) error {
	const query = `
		INSERT INTO debtors (nik, address, registered_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (nik) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		d.NIK.String(), d.Address.String(), d.RegisteredAt)
	if err != nil {
		return fmt.Errorf("insert debtor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindDebtor(ctx context.Context, nik domain.Hash32) (Debtor, error) {
	const query = `SELECT nik, address, registered_at FROM debtors WHERE nik = $1`
	row := s.execer(ctx).QueryRowContext(ctx, query, nik.String())

	var (
		d       Debtor
		rawNIK  string
		rawAddr string
	)
	if err := row.Scan(&rawNIK, &rawAddr, &d.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Debtor{}, sentinel.ErrNotFound
		}
		return Debtor{}, fmt.Errorf("scan debtor: %w", err)
	}
	var err error
	if d.NIK, err = domain.ParseHash32(rawNIK); err != nil {
		return Debtor{}, fmt.Errorf("corrupt debtor nik: %w", err)
	}
	if d.Address, err = domain.ParseAddress(rawAddr); err != nil {
		return Debtor{}, fmt.Errorf("corrupt debtor address: %w", err)
	}
	return d, nil
}

func (s *Postgres) DeleteDebtor(ctx context.Context, nik domain.Hash32) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM debtors WHERE nik = $1`, nik.String())
	if err != nil {
		return fmt.Errorf("delete debtor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) scanCreditor(row *sql.Row) (Creditor, error) {
	var (
		c       Creditor
		rawCode string
		rawAddr string
	)
	if err := row.Scan(&rawCode, &rawAddr, &c.Name, &c.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Creditor{}, sentinel.ErrNotFound
		}
		return Creditor{}, fmt.Errorf("scan creditor: %w", err)
	}
	var err error
	if c.Code, err = domain.ParseHash32(rawCode); err != nil {
		return Creditor{}, fmt.Errorf("corrupt creditor code: %w", err)
	}
	if c.Address, err = domain.ParseAddress(rawAddr); err != nil {
		return Creditor{}, fmt.Errorf("corrupt creditor address: %w", err)
	}
	return c, nil
}
