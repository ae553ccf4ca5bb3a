package identity

import (
	"context"
	"errors"

	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/platform/sentinel"
	"kustodia/pkg/requestcontext"
)

// Service enforces the identity-map invariants: a non-zero identifier maps
// to exactly one non-zero address, duplicate registration fails, and removal
// of the unregistered fails. Role policy (who may call these) lives in the
// gateway, not here.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) AddCreditor(ctx context.Context, code domain.Hash32, addr domain.Address, name string) (Creditor, error) {
	if code.IsZero() {
		return Creditor{}, dErrors.New(dErrors.CodeInvalidIdentifier, "creditor code must not be zero")
	}
	if addr.IsZero() {
		return Creditor{}, dErrors.New(dErrors.CodeInvalidAddress, "creditor address must not be zero")
	}
	c := Creditor{Code: code, Address: addr, Name: name, RegisteredAt: requestcontext.Now(ctx)}
	if err := s.store.SaveCreditor(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Creditor{}, dErrors.New(dErrors.CodeAlreadyExists, "creditor code already registered")
		}
		return Creditor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register creditor")
	}
	return c, nil
}

func (s *Service) AddDebtor(ctx context.Context, nik domain.Hash32, addr domain.Address) (Debtor, error) {
	if nik.IsZero() {
		return Debtor{}, dErrors.New(dErrors.CodeInvalidIdentifier, "debtor nik must not be zero")
	}
	if addr.IsZero() {
		return Debtor{}, dErrors.New(dErrors.CodeInvalidAddress, "debtor address must not be zero")
	}
	d := Debtor{NIK: nik, Address: addr, RegisteredAt: requestcontext.Now(ctx)}
	if err := s.store.SaveDebtor(ctx, d); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Debtor{}, dErrors.New(dErrors.CodeAlreadyExists, "debtor nik already registered")
		}
		return Debtor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register debtor")
	}
	return d, nil
}

// RemoveCreditor tombstones a creditor code. Existing ledger entries that
// reference the removed address stay untouched: history is immutable, only
// future lookups of the code resolve to absent.
func (s *Service) RemoveCreditor(ctx context.Context, code domain.Hash32) error {
	if code.IsZero() {
		return dErrors.New(dErrors.CodeInvalidIdentifier, "creditor code must not be zero")
	}
	if err := s.store.DeleteCreditor(ctx, code); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "creditor code not registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove creditor")
	}
	return nil
}

func (s *Service) RemoveDebtor(ctx context.Context, nik domain.Hash32) error {
	if nik.IsZero() {
		return dErrors.New(dErrors.CodeInvalidIdentifier, "debtor nik must not be zero")
	}
	if err := s.store.DeleteDebtor(ctx, nik); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "debtor nik not registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove debtor")
	}
	return nil
}

// ResolveCreditor is a pure lookup: absence yields the zero address, never an
// error. Callers decide whether absence matters in their context.
func (s *Service) ResolveCreditor(ctx context.Context, code domain.Hash32) (domain.Address, error) {
	c, err := s.store.FindCreditor(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Address{}, nil
		}
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve creditor")
	}
	return c.Address, nil
}

func (s *Service) ResolveDebtor(ctx context.Context, nik domain.Hash32) (domain.Address, error) {
	d, err := s.store.FindDebtor(ctx, nik)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return domain.Address{}, nil
		}
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve debtor")
	}
	return d.Address, nil
}

// GetCreditor returns the full creditor record for read endpoints.
func (s *Service) GetCreditor(ctx context.Context, code domain.Hash32) (Creditor, error) {
	c, err := s.store.FindCreditor(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Creditor{}, dErrors.New(dErrors.CodeNotFound, "creditor code not registered")
		}
		return Creditor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load creditor")
	}
	return c, nil
}

func (s *Service) GetDebtor(ctx context.Context, nik domain.Hash32) (Debtor, error) {
	d, err := s.store.FindDebtor(ctx, nik)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Debtor{}, dErrors.New(dErrors.CodeNotFound, "debtor nik not registered")
		}
		return Debtor{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load debtor")
	}
	return d, nil
}

// RequireCreditor resolves a code and fails with NotEligible when absent.
// Used as a precondition guard by the delegation layer.
func (s *Service) RequireCreditor(ctx context.Context, code domain.Hash32) (domain.Address, error) {
	addr, err := s.ResolveCreditor(ctx, code)
	if err != nil {
		return domain.Address{}, err
	}
	if addr.IsZero() {
		return domain.Address{}, dErrors.New(dErrors.CodeNotEligible, "creditor code not registered")
	}
	return addr, nil
}

// RequireDebtor resolves a nik and fails with NikNotRegistered when absent.
func (s *Service) RequireDebtor(ctx context.Context, nik domain.Hash32) (domain.Address, error) {
	addr, err := s.ResolveDebtor(ctx, nik)
	if err != nil {
		return domain.Address{}, err
	}
	if addr.IsZero() {
		return domain.Address{}, dErrors.New(dErrors.CodeNikNotRegistered, "debtor nik not registered")
	}
	return addr, nil
}
