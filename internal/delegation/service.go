package delegation

import (
	"context"
	"errors"

	"kustodia/internal/identity"
	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/platform/sentinel"
	txcontext "kustodia/pkg/platform/tx"
	"kustodia/pkg/requestcontext"
)

// Service implements the consumer→provider delegation state machine over a
// debtor's creditor ledger.
//
// Status lifecycle per (debtor, creditor) pair:
//
//	none → pending  (a request naming the creditor as consumer)
//	pending → approved | rejected  (the provider's decision, terminal)
//	none → approved  (platform bootstrap, establishes the initial provider)
//
// Role binding: the request-context caller must equal the resolved consumer
// for RequestDelegation and the resolved provider for Delegate. The signed
// dispatcher substitutes the verified signer as caller, so both the direct
// and the relayed paths flow through the same checks.
type Service struct {
	identities *identity.Service
	store      Store
	tx         txcontext.Runner
}

func NewService(identities *identity.Service, store Store, runner txcontext.Runner) *Service {
	if runner == nil {
		runner = txcontext.PassthroughRunner{}
	}
	return &Service{identities: identities, store: store, tx: runner}
}

// AddCreditorForDebtor grants a creditor approved status directly,
// bypassing the request workflow. This is the bootstrap path for a debtor's
// first provider; the gateway restricts it to the platform.
func (s *Service) AddCreditorForDebtor(ctx context.Context, nik, creditorCode domain.Hash32) (domain.Address, error) {
	if _, err := s.identities.RequireDebtor(ctx, nik); err != nil {
		return domain.Address{}, err
	}
	creditor, err := s.identities.RequireCreditor(ctx, creditorCode)
	if err != nil {
		return domain.Address{}, err
	}

	status, err := s.store.GetStatus(ctx, nik, creditor)
	if err != nil {
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ledger status")
	}
	if status == domain.StatusApproved {
		return domain.Address{}, dErrors.New(dErrors.CodeAlreadyExists, "creditor already approved for debtor")
	}
	if err := s.store.UpsertStatus(ctx, nik, creditor, domain.StatusApproved); err != nil {
		return domain.Address{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to approve creditor")
	}
	return creditor, nil
}

// RequestDelegation opens a pending request from the calling consumer to a
// provider that already holds approved access for the debtor.
func (s *Service) RequestDelegation(ctx context.Context, nik, consumerCode, providerCode domain.Hash32, metadata string) (Request, error) {
	if _, err := s.identities.RequireDebtor(ctx, nik); err != nil {
		return Request{}, err
	}
	consumer, err := s.identities.RequireCreditor(ctx, consumerCode)
	if err != nil {
		return Request{}, err
	}
	provider, err := s.identities.RequireCreditor(ctx, providerCode)
	if err != nil {
		return Request{}, err
	}

	// Binds "who sent this" to "who is named as consumer": a third party
	// cannot open requests on a consumer's behalf.
	if requestcontext.Caller(ctx) != consumer {
		return Request{}, dErrors.New(dErrors.CodeUnauthorized, "caller is not the named consumer")
	}

	providerStatus, err := s.store.GetStatus(ctx, nik, provider)
	if err != nil {
		return Request{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read provider status")
	}
	if providerStatus != domain.StatusApproved {
		return Request{}, dErrors.New(dErrors.CodeProviderNotEligible, "provider does not hold approved access for debtor")
	}

	req := Request{
		Consumer:  consumer,
		Provider:  provider,
		NIK:       nik,
		Status:    domain.StatusPending,
		Metadata:  metadata,
		CreatedAt: requestcontext.Now(ctx),
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Rejected is terminal: any prior record for the pair, resolved or
		// not, blocks a new request.
		if err := s.store.CreateRequest(txCtx, req); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeRequestAlreadyExists, "request already exists for consumer and provider")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
		}

		consumerStatus, err := s.store.GetStatus(txCtx, nik, consumer)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read consumer status")
		}
		if consumerStatus == domain.StatusNone {
			if err := s.store.UpsertStatus(txCtx, nik, consumer, domain.StatusPending); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record pending status")
			}
		}
		return nil
	})
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

// Delegate resolves a pending request. Only the named provider may decide,
// and the transition is terminal.
func (s *Service) Delegate(ctx context.Context, nik, consumerCode, providerCode domain.Hash32, decision domain.Decision, metadata string) (Request, error) {
	if _, err := s.identities.RequireDebtor(ctx, nik); err != nil {
		return Request{}, err
	}
	consumer, err := s.identities.RequireCreditor(ctx, consumerCode)
	if err != nil {
		return Request{}, err
	}
	provider, err := s.identities.RequireCreditor(ctx, providerCode)
	if err != nil {
		return Request{}, err
	}

	if requestcontext.Caller(ctx) != provider {
		return Request{}, dErrors.New(dErrors.CodeUnauthorized, "caller is not the named provider")
	}

	req, err := s.store.FindRequest(ctx, consumer, provider)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Request{}, dErrors.New(dErrors.CodeInvalidRequestState, "no request exists for consumer and provider")
		}
		return Request{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load request")
	}
	if req.Status.Terminal() {
		return Request{}, dErrors.New(dErrors.CodeRequestAlreadyResolved, "request already resolved")
	}
	if req.Status != domain.StatusPending {
		return Request{}, dErrors.New(dErrors.CodeInvalidRequestState, "request is not pending")
	}
	if req.NIK != nik {
		return Request{}, dErrors.New(dErrors.CodeInvalidRequestState, "request concerns a different debtor")
	}

	now := requestcontext.Now(ctx)
	newStatus := decision.Status()

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.ResolveRequest(txCtx, consumer, provider, newStatus, metadata, now); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve request")
		}
		if err := s.store.UpsertStatus(txCtx, nik, consumer, newStatus); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mirror decision into ledger")
		}
		return nil
	})
	if err != nil {
		return Request{}, err
	}

	req.Status = newStatus
	req.ResolvedAt = &now
	if metadata != "" {
		req.Metadata = metadata
	}
	return req, nil
}

// ListCreditorStatuses returns the debtor's ledger in enumeration order.
func (s *Service) ListCreditorStatuses(ctx context.Context, nik domain.Hash32) ([]CreditorStatus, error) {
	if _, err := s.identities.RequireDebtor(ctx, nik); err != nil {
		return nil, err
	}
	statuses, err := s.store.ListStatuses(ctx, nik)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ledger")
	}
	return statuses, nil
}

// ListCreditorsByStatus filters the ledger to creditors currently holding
// the given status. An empty result is valid, not an error.
func (s *Service) ListCreditorsByStatus(ctx context.Context, nik domain.Hash32, status domain.Status) ([]domain.Address, error) {
	statuses, err := s.ListCreditorStatuses(ctx, nik)
	if err != nil {
		return nil, err
	}
	var out []domain.Address
	for _, cs := range statuses {
		if cs.Status == status {
			out = append(out, cs.Creditor)
		}
	}
	return out, nil
}
