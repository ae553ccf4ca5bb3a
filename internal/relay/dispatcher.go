package relay

import (
	"context"
	"crypto/ed25519"
	"errors"
	"log/slog"
	"sync"

	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/platform/sentinel"
	txcontext "kustodia/pkg/platform/tx"
	"kustodia/pkg/requestcontext"
)

// ActionInvoker routes a decoded action to its implementation. The gateway
// satisfies this; the relay layer stays ignorant of what actions exist.
type ActionInvoker interface {
	Invoke(ctx context.Context, action Action) error
}

// Dispatcher verifies signed envelopes and re-dispatches their actions with
// the caller context substituted to the verified signer. Verification order:
// signature first, then nonce, then execution, so an unsigned envelope
// reveals nothing about a signer's nonce state.
type Dispatcher struct {
	domain Domain
	nonces NonceStore
	target ActionInvoker
	tx     txcontext.Runner
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[domain.Address]*sync.Mutex
}

func NewDispatcher(d Domain, nonces NonceStore, target ActionInvoker, runner txcontext.Runner, logger *slog.Logger) *Dispatcher {
	if runner == nil {
		runner = txcontext.PassthroughRunner{}
	}
	return &Dispatcher{
		domain:   d,
		nonces:   nonces,
		target:   target,
		tx:       runner,
		logger:   logger,
		inFlight: make(map[domain.Address]*sync.Mutex),
	}
}

// signerLock serializes dispatches per signer. Without it, stores whose
// runner cannot roll back (memory, redis without SQL) would let two
// same-nonce envelopes both pass the check before either increments.
func (d *Dispatcher) signerLock(signer domain.Address) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.inFlight[signer]
	if !ok {
		lock = &sync.Mutex{}
		d.inFlight[signer] = lock
	}
	return lock
}

// Execute authenticates the envelope and runs its action. The nonce check,
// the action, and the nonce increment share one failure domain: if any step
// fails nothing is applied. Dispatches for one signer run strictly one at a
// time, so at most one action executes per nonce even when the runner has no
// rollback.
func (d *Dispatcher) Execute(ctx context.Context, env Envelope) error {
	if err := d.verify(env); err != nil {
		return err
	}

	lock := d.signerLock(env.Signer)
	lock.Lock()
	defer lock.Unlock()

	err := d.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := d.nonces.Get(txCtx, env.Signer)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load signer nonce")
		}
		if env.Nonce != current {
			return dErrors.New(dErrors.CodeInvalidNonce, "nonce does not match signer sequence")
		}

		// The action observes the verified signer, not the relayer.
		actionCtx := requestcontext.WithCaller(txCtx, env.Signer)
		if err := d.target.Invoke(actionCtx, env.Action); err != nil {
			return err
		}

		if err := d.nonces.Increment(txCtx, env.Signer, env.Nonce); err != nil {
			if errors.Is(err, sentinel.ErrStaleNonce) {
				return dErrors.New(dErrors.CodeInvalidNonce, "nonce consumed concurrently")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to advance signer nonce")
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.InfoContext(ctx, "signed action dispatched",
		"signer", env.Signer.String(),
		"nonce", env.Nonce,
		"action", env.Action.Name,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

func (d *Dispatcher) verify(env Envelope) error {
	if len(env.PublicKey) != ed25519.PublicKeySize {
		return dErrors.New(dErrors.CodeInvalidSignature, "public key must be 32 bytes")
	}
	if env.Signer.IsZero() {
		return dErrors.New(dErrors.CodeInvalidAddress, "signer address must not be zero")
	}
	if domain.AddressFromPublicKey(env.PublicKey) != env.Signer {
		return dErrors.New(dErrors.CodeInvalidSignature, "public key does not derive claimed signer")
	}
	digest := Digest(d.domain, env.Signer, env.Nonce, env.Action)
	if !ed25519.Verify(env.PublicKey, digest[:], env.Signature) {
		return dErrors.New(dErrors.CodeInvalidSignature, "signature does not verify against digest")
	}
	return nil
}
