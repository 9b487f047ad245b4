package swap

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"

	"token-quest/pkg/chain"
)

// Kind classifies why a swap service operation failed.
type Kind int

const (
	KindInvalidAddress Kind = iota + 1
	KindInvalidAmount
	KindRPC
	KindContract
)

func (k Kind) String() string {
	switch k {
	case KindInvalidAddress:
		return "invalid_address"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindRPC:
		return "rpc"
	case KindContract:
		return "contract"
	default:
		return "unknown"
	}
}

// Error is returned by every Service method.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 if err did not come from the service.
func KindOf(err error) Kind {
	var swapErr *Error
	if errors.As(err, &swapErr) {
		return swapErr.Kind
	}
	return 0
}

func invalidAddress(op, field, address string) error {
	return &Error{Op: op, Kind: KindInvalidAddress, Err: fmt.Errorf("invalid %s address format: %q", field, address)}
}

// chainError classifies a chain client failure. Reverts carry data in the
// JSON-RPC error; undecodable results mean the target is not the expected contract.
func chainError(op string, err error) error {
	var swapErr *Error
	if errors.As(err, &swapErr) {
		return err
	}

	kind := KindRPC
	var dataErr rpc.DataError
	var callErr *chain.CallError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		kind = KindRPC
	case errors.As(err, &dataErr), errors.As(err, &callErr):
		kind = KindContract
	}
	return &Error{Op: op, Kind: kind, Err: err}
}
