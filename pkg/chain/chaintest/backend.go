// Package chaintest provides an in-memory chain.Backend that answers router and
// ERC20 calls by decoding calldata with the real ABIs.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"token-quest/pkg/chain"
)

// Token is the metadata an ERC20 stub reports.
type Token struct {
	Name     string
	Symbol   string
	Decimals uint8
	Balances map[common.Address]*big.Int
}

// RevertError mimics the error geth returns for a reverted eth_call.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string          { return "execution reverted: " + e.Reason }
func (e *RevertError) ErrorCode() int         { return 3 }
func (e *RevertError) ErrorData() interface{} { return "0x08c379a0" }

// Backend is a programmable fake node.
type Backend struct {
	mu sync.Mutex

	Router   common.Address
	Block    uint64
	Chain    *big.Int
	Balances map[common.Address]*big.Int
	Tokens   map[common.Address]*Token
	// AmountsOut answers getAmountsOut; nil reverts.
	AmountsOut func(amountIn *big.Int, path []common.Address) []*big.Int
	// Err, when set, fails every call as a transport error would.
	Err error

	calls []string
}

func NewBackend(router common.Address) *Backend {
	return &Backend{
		Router:   router,
		Block:    1,
		Chain:    big.NewInt(97),
		Balances: make(map[common.Address]*big.Int),
		Tokens:   make(map[common.Address]*Token),
	}
}

// Calls returns the contract methods invoked so far, in order.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *Backend) record(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, name)
	return b.Err
}

func (b *Backend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, errors.New("invalid call")
	}

	if *msg.To == b.Router {
		method, err := chain.RouterABI.MethodById(msg.Data[:4])
		if err != nil {
			return nil, err
		}
		if err := b.record(method.Name); err != nil {
			return nil, err
		}
		if method.Name != chain.MethodGetAmountsOut {
			return nil, fmt.Errorf("unexpected router call %s", method.Name)
		}
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		if b.AmountsOut == nil {
			return nil, &RevertError{Reason: "PancakeLibrary: INSUFFICIENT_LIQUIDITY"}
		}
		return method.Outputs.Pack(b.AmountsOut(args[0].(*big.Int), args[1].([]common.Address)))
	}

	method, err := chain.ERC20ABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	if err := b.record(method.Name); err != nil {
		return nil, err
	}
	token, ok := b.Tokens[*msg.To]
	if !ok {
		// eth_call against an account without code returns empty data
		return []byte{}, nil
	}

	switch method.Name {
	case chain.MethodName:
		return method.Outputs.Pack(token.Name)
	case chain.MethodSymbol:
		return method.Outputs.Pack(token.Symbol)
	case chain.MethodDecimals:
		return method.Outputs.Pack(token.Decimals)
	case chain.MethodBalanceOf:
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		balance := token.Balances[args[0].(common.Address)]
		if balance == nil {
			balance = new(big.Int)
		}
		return method.Outputs.Pack(balance)
	}
	return nil, fmt.Errorf("unexpected token call %s", method.Name)
}

func (b *Backend) CodeAt(_ context.Context, account common.Address, _ *big.Int) ([]byte, error) {
	if err := b.record("eth_getCode"); err != nil {
		return nil, err
	}
	if account == b.Router {
		return []byte{0x60, 0x80}, nil
	}
	if _, ok := b.Tokens[account]; ok {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

func (b *Backend) BalanceAt(ctx context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := b.record("eth_getBalance"); err != nil {
		return nil, err
	}
	if balance, ok := b.Balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return new(big.Int), nil
}

func (b *Backend) BlockNumber(context.Context) (uint64, error) {
	if err := b.record("eth_blockNumber"); err != nil {
		return 0, err
	}
	return b.Block, nil
}

func (b *Backend) ChainID(context.Context) (*big.Int, error) {
	if err := b.record("eth_chainId"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(b.Chain), nil
}
