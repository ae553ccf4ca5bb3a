package gateway

import (
	"context"
	"encoding/json"

	"kustodia/internal/audit"
	"kustodia/internal/relay"
	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/requestcontext"
)

// Dispatchable action names accepted from the signed relay path.
const (
	ActionAddCreditor          = "add_creditor"
	ActionAddDebtor            = "add_debtor"
	ActionRemoveCreditor       = "remove_creditor"
	ActionRemoveDebtor         = "remove_debtor"
	ActionAddCreditorForDebtor = "add_creditor_for_debtor"
	ActionRequestDelegation    = "request_delegation"
	ActionDelegate             = "delegate"
	ActionSetPlatformAddress   = "set_platform_address"
)

type addCreditorArgs struct {
	Code     string `json:"code"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Metadata string `json:"metadata,omitempty"`
}

type addDebtorArgs struct {
	NIK     string `json:"nik"`
	Address string `json:"address"`
}

type removeArgs struct {
	Code string `json:"code,omitempty"`
	NIK  string `json:"nik,omitempty"`
}

type bootstrapArgs struct {
	NIK      string `json:"nik"`
	Code     string `json:"code"`
	Metadata string `json:"metadata,omitempty"`
}

type delegationArgs struct {
	NIK      string `json:"nik"`
	Consumer string `json:"consumer_code"`
	Provider string `json:"provider_code"`
	Decision string `json:"decision,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

type setPlatformArgs struct {
	Address string `json:"address"`
}

// Invoke satisfies relay.ActionInvoker. The dispatcher has already verified
// the signer and substituted it as the request-context caller, so every
// policy check below sees the signer, not the relayer. A successful dispatch
// leaves its own trail entry on top of the action's event, recording that
// the signer acted through the relay rather than directly.
func (s *Service) Invoke(ctx context.Context, action relay.Action) error {
	if err := s.invoke(ctx, action); err != nil {
		return err
	}
	s.auditor.Emit(ctx, audit.Event{
		Action:   audit.ActionSignedDispatch,
		Actor:    requestcontext.Caller(ctx).String(),
		Metadata: action.Name,
	})
	return nil
}

func (s *Service) invoke(ctx context.Context, action relay.Action) error {
	switch action.Name {
	case ActionAddCreditor:
		var args addCreditorArgs
		if err := decodeArgs(action.Args, &args); err != nil {
			return err
		}
		code, err := domain.ParseHash32(args.Code)
		if err != nil {
			return err
		}
		addr, err := domain.ParseAddress(args.Address)
		if err != nil {
			return err
		}
		_, err = s.AddCreditor(ctx, code, addr, args.Name, args.Metadata)
		return err

	case ActionAddDebtor:
		var args addDebtorArgs
		if err := decodeArgs(action.Args, &args); err != nil {
			return err
		}
		nik, err := domain.ParseHash32(args.NIK)
		if err != nil {
			return err
		}
		addr, err := domain.ParseAddress(args.Address)
		if err != nil {
			return err
		}
		_, err = s.AddDebtor(ctx, nik, addr)
		return err

	case ActionRemoveCreditor:
		var args removeArgs
		if err := decodeArgs(action.Args, &args); err != nil {
			return err
		}
		code, err := domain.ParseHash32(args.Code)
		if err != nil {
			return err
		}
		return s.RemoveCreditor(ctx, code)

	case ActionRemoveDebtor:
		var args removeArgs
		if err := decodeArgs(action.Args, &args); err != nil {
			return err
		}
		nik, err := domain.ParseHash32(args.NIK)
		if err != nil {
			return err
		}
		return s.RemoveDebtor(ctx, nik)

	case ActionAddCreditorForDebtor:
		var args bootstrapArgs
		if err := decodeArgs(action.Args, &args); err != nil {
			return err
		}
		nik, err := domain.ParseHash32(args.NIK)
		if err != nil {
			return err
		}
		code, err := domain.ParseHash32(args.Code)
		if err != nil {
			return err
		}
		return s.AddCreditorForDebtor(ctx, nik, code, args.Metadata)

	case ActionRequestDelegation:
		nik, consumer, provider, _, metadata, err := decodeDelegationArgs(action.Args, false)
		if err != nil {
			return err
		}
		_, err = s.RequestDelegation(ctx, nik, consumer, provider, metadata)
		return err

	case ActionDelegate:
		nik, consumer, provider, decision, metadata, err := decodeDelegationArgs(action.Args, true)
		if err != nil {
			return err
		}
		_, err = s.Delegate(ctx, nik, consumer, provider, decision, metadata)
		return err

	case ActionSetPlatformAddress:
		var args setPlatformArgs
		if err := decodeArgs(action.Args, &args); err != nil {
			return err
		}
		addr, err := domain.ParseAddress(args.Address)
		if err != nil {
			return err
		}
		return s.SetPlatformAddress(ctx, addr)

	default:
		return dErrors.New(dErrors.CodeBadRequest, "unknown action: "+action.Name)
	}
}

func decodeArgs(raw json.RawMessage, into any) error {
	if err := json.Unmarshal(raw, into); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed action arguments")
	}
	return nil
}

func decodeDelegationArgs(raw json.RawMessage, withDecision bool) (nik, consumer, provider domain.Hash32, decision domain.Decision, metadata string, err error) {
	var args delegationArgs
	if err = decodeArgs(raw, &args); err != nil {
		return
	}
	if nik, err = domain.ParseHash32(args.NIK); err != nil {
		return
	}
	if consumer, err = domain.ParseHash32(args.Consumer); err != nil {
		return
	}
	if provider, err = domain.ParseHash32(args.Provider); err != nil {
		return
	}
	if withDecision {
		if decision, err = domain.ParseDecision(args.Decision); err != nil {
			return
		}
	}
	metadata = args.Metadata
	return
}
