// Package gateway binds caller identity to action: it enforces the
// platform-only and owner-only policies, emits the audit trail, and exposes
// every registry and ledger operation as a dispatchable action.
package gateway

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"kustodia/internal/audit"
	"kustodia/internal/delegation"
	gwmetrics "kustodia/internal/gateway/metrics"
	"kustodia/internal/identity"
	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/requestcontext"
)

// Service is the top-level authorization gateway. The owner is a single
// privileged account fixed at construction; the platform address is mutable
// through SetPlatformAddress and is the only principal allowed to register
// identities and bootstrap provider approvals.
type Service struct {
	owner       domain.Address
	identities  *identity.Service
	delegations *delegation.Service
	auditor     *audit.Publisher
	metrics     *gwmetrics.Metrics
	tracer      trace.Tracer
	logger      *slog.Logger

	mu       sync.RWMutex
	platform domain.Address
}

func NewService(
	owner, platform domain.Address,
	identities *identity.Service,
	delegations *delegation.Service,
	auditor *audit.Publisher,
	metrics *gwmetrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		owner:       owner,
		platform:    platform,
		identities:  identities,
		delegations: delegations,
		auditor:     auditor,
		metrics:     metrics,
		tracer:      otel.Tracer("kustodia/gateway"),
		logger:      logger,
	}
}

// PlatformAddress returns the current platform principal.
func (s *Service) PlatformAddress() domain.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.platform
}

func (s *Service) requirePlatform(ctx context.Context) error {
	if requestcontext.Caller(ctx) != s.PlatformAddress() {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the platform")
	}
	return nil
}

// SetPlatformAddress rotates the platform principal. Owner-only; effective
// immediately for subsequent calls.
func (s *Service) SetPlatformAddress(ctx context.Context, addr domain.Address) (err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.SetPlatformAddress")
	defer span.End()
	defer func() { s.metrics.ObserveAction("set_platform_address", err) }()

	if requestcontext.Caller(ctx) != s.owner {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the owner")
	}
	if addr.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAddress, "platform address must not be zero")
	}

	s.mu.Lock()
	s.platform = addr
	s.mu.Unlock()

	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionPlatformAddressChanged,
		Actor:    requestcontext.Caller(ctx).String(),
		Metadata: addr.String(),
	})
	return nil
}

// AddCreditor registers an institution. Platform-only.
func (s *Service) AddCreditor(ctx context.Context, code domain.Hash32, addr domain.Address, name, metadata string) (c identity.Creditor, err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.AddCreditor")
	defer span.End()
	defer func() { s.metrics.ObserveAction("add_creditor", err) }()

	if err = s.requirePlatform(ctx); err != nil {
		return identity.Creditor{}, err
	}
	c, err = s.identities.AddCreditor(ctx, code, addr, name)
	if err != nil {
		return identity.Creditor{}, err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionCreditorRegistered,
		Actor:    requestcontext.Caller(ctx).String(),
		Creditor: code.String(),
		Metadata: metadata,
	})
	return c, nil
}

// AddDebtor registers a debtor subject. Platform-only.
func (s *Service) AddDebtor(ctx context.Context, nik domain.Hash32, addr domain.Address) (d identity.Debtor, err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.AddDebtor")
	defer span.End()
	defer func() { s.metrics.ObserveAction("add_debtor", err) }()

	if err = s.requirePlatform(ctx); err != nil {
		return identity.Debtor{}, err
	}
	d, err = s.identities.AddDebtor(ctx, nik, addr)
	if err != nil {
		return identity.Debtor{}, err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionDebtorRegistered,
		Actor:  requestcontext.Caller(ctx).String(),
		Debtor: nik.String(),
	})
	return d, nil
}

// RemoveCreditor tombstones a creditor code. Platform-only.
func (s *Service) RemoveCreditor(ctx context.Context, code domain.Hash32) (err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.RemoveCreditor")
	defer span.End()
	defer func() { s.metrics.ObserveAction("remove_creditor", err) }()

	if err = s.requirePlatform(ctx); err != nil {
		return err
	}
	if err = s.identities.RemoveCreditor(ctx, code); err != nil {
		return err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionCreditorRemoved,
		Actor:    requestcontext.Caller(ctx).String(),
		Creditor: code.String(),
	})
	return nil
}

// RemoveDebtor tombstones a debtor nik. Platform-only.
func (s *Service) RemoveDebtor(ctx context.Context, nik domain.Hash32) (err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.RemoveDebtor")
	defer span.End()
	defer func() { s.metrics.ObserveAction("remove_debtor", err) }()

	if err = s.requirePlatform(ctx); err != nil {
		return err
	}
	if err = s.identities.RemoveDebtor(ctx, nik); err != nil {
		return err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action: audit.ActionDebtorRemoved,
		Actor:  requestcontext.Caller(ctx).String(),
		Debtor: nik.String(),
	})
	return nil
}

// AddCreditorForDebtor bootstraps a debtor's initial provider. Platform-only.
func (s *Service) AddCreditorForDebtor(ctx context.Context, nik, code domain.Hash32, metadata string) (err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.AddCreditorForDebtor")
	defer span.End()
	defer func() { s.metrics.ObserveAction("add_creditor_for_debtor", err) }()

	if err = s.requirePlatform(ctx); err != nil {
		return err
	}
	creditor, err := s.delegations.AddCreditorForDebtor(ctx, nik, code)
	if err != nil {
		return err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionCreditorBootstrapped,
		Actor:    requestcontext.Caller(ctx).String(),
		Creditor: code.String(),
		Debtor:   nik.String(),
		Provider: creditor.String(),
		Metadata: metadata,
	})
	return nil
}

// RequestDelegation opens a request. Open to any caller; the ledger binds
// the caller to the named consumer.
func (s *Service) RequestDelegation(ctx context.Context, nik, consumerCode, providerCode domain.Hash32, metadata string) (req delegation.Request, err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.RequestDelegation")
	defer span.End()
	defer func() { s.metrics.ObserveAction("request_delegation", err) }()

	req, err = s.delegations.RequestDelegation(ctx, nik, consumerCode, providerCode, metadata)
	if err != nil {
		return delegation.Request{}, err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionDelegationRequested,
		Actor:    requestcontext.Caller(ctx).String(),
		Debtor:   nik.String(),
		Consumer: req.Consumer.String(),
		Provider: req.Provider.String(),
		Metadata: metadata,
	})
	return req, nil
}

// Delegate resolves a pending request. Open to any caller; the ledger binds
// the caller to the named provider.
func (s *Service) Delegate(ctx context.Context, nik, consumerCode, providerCode domain.Hash32, decision domain.Decision, metadata string) (req delegation.Request, err error) {
	ctx, span := s.tracer.Start(ctx, "gateway.Delegate")
	defer span.End()
	defer func() { s.metrics.ObserveAction("delegate", err) }()

	req, err = s.delegations.Delegate(ctx, nik, consumerCode, providerCode, decision, metadata)
	if err != nil {
		return delegation.Request{}, err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionDelegationDecided,
		Actor:    requestcontext.Caller(ctx).String(),
		Debtor:   nik.String(),
		Consumer: req.Consumer.String(),
		Provider: req.Provider.String(),
		Decision: string(decision),
		Metadata: metadata,
	})
	return req, nil
}

// Read paths delegate straight through; no policy, no audit.

func (s *Service) GetCreditor(ctx context.Context, code domain.Hash32) (identity.Creditor, error) {
	return s.identities.GetCreditor(ctx, code)
}

func (s *Service) GetDebtor(ctx context.Context, nik domain.Hash32) (identity.Debtor, error) {
	return s.identities.GetDebtor(ctx, nik)
}

func (s *Service) ListCreditorStatuses(ctx context.Context, nik domain.Hash32) ([]delegation.CreditorStatus, error) {
	return s.delegations.ListCreditorStatuses(ctx, nik)
}

func (s *Service) ListCreditorsByStatus(ctx context.Context, nik domain.Hash32, status domain.Status) ([]domain.Address, error) {
	return s.delegations.ListCreditorsByStatus(ctx, nik, status)
}
