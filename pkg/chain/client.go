package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"token-quest/pkg/metrics"
)

// Backend is the subset of the JSON-RPC API the gateway reads from.
// *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client reads the router and ERC20 contracts over a single shared connection.
// It is safe for concurrent use as long as the backend is.
type Client struct {
	backend Backend
	router  common.Address
}

// Dial connects to the RPC endpoint
func Dial(ctx context.Context, rpcURL string, router common.Address) (*Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	return NewClient(client, router), nil
}

func NewClient(backend Backend, router common.Address) *Client {
	return &Client{
		backend: backend,
		router:  router,
	}
}

// Router returns the configured router address
func (c *Client) Router() common.Address {
	return c.router
}

// BlockNumber returns the latest block number
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	start := time.Now()
	n, err := c.backend.BlockNumber(ctx)
	metrics.ObserveRPC("eth_blockNumber", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return n, nil
}

// ChainID returns the chain id reported by the node
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	start := time.Now()
	id, err := c.backend.ChainID(ctx)
	metrics.ObserveRPC("eth_chainId", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return id, nil
}

// HasCode reports whether a contract is deployed at account
func (c *Client) HasCode(ctx context.Context, account common.Address) (bool, error) {
	start := time.Now()
	code, err := c.backend.CodeAt(ctx, account, nil)
	metrics.ObserveRPC("eth_getCode", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to get code: %w", err)
	}
	return len(code) > 0, nil
}

// Balance returns the native balance of account in wei
func (c *Client) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	start := time.Now()
	balance, err := c.backend.BalanceAt(ctx, account, nil)
	metrics.ObserveRPC("eth_getBalance", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (c *Client) TokenName(ctx context.Context, token common.Address) (string, error) {
	var name string
	if err := c.call(ctx, ERC20ABI, token, MethodName, &name); err != nil {
		return "", err
	}
	return name, nil
}

func (c *Client) TokenSymbol(ctx context.Context, token common.Address) (string, error) {
	var symbol string
	if err := c.call(ctx, ERC20ABI, token, MethodSymbol, &symbol); err != nil {
		return "", err
	}
	return symbol, nil
}

func (c *Client) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	var decimals uint8
	if err := c.call(ctx, ERC20ABI, token, MethodDecimals, &decimals); err != nil {
		return 0, err
	}
	return decimals, nil
}

// TokenBalance returns the ERC20 balance of account
func (c *Client) TokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	balance := new(big.Int)
	if err := c.call(ctx, ERC20ABI, token, MethodBalanceOf, &balance, account); err != nil {
		return nil, err
	}
	return balance, nil
}

// GetAmountsOut asks the router for the output amount of every hop along path.
func (c *Client) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	var amounts []*big.Int
	if err := c.call(ctx, RouterABI, c.router, MethodGetAmountsOut, &amounts, amountIn, path); err != nil {
		return nil, err
	}
	if len(amounts) == 0 {
		return nil, &CallError{Method: MethodGetAmountsOut, Err: fmt.Errorf("router returned no amounts")}
	}
	return amounts, nil
}

// PackSwapExactTokensForTokens builds the calldata for the router swap.
// The transaction itself is never sent from here.
func PackSwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline time.Time) ([]byte, error) {
	data, err := RouterABI.Pack(MethodSwapExactTokensForTokens, amountIn, amountOutMin, path, to, big.NewInt(deadline.Unix()))
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s call: %w", MethodSwapExactTokensForTokens, err)
	}
	return data, nil
}

// call packs method, performs eth_call against to and decodes the single return value into out.
func (c *Client) call(ctx context.Context, contract abi.ABI, to common.Address, method string, out interface{}, args ...interface{}) error {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("failed to pack %s call: %w", method, err)
	}

	start := time.Now()
	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
	metrics.ObserveRPC("eth_call", start, err)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}

	if err := contract.UnpackIntoInterface(out, method, result); err != nil {
		return &CallError{Method: method, Err: err}
	}
	return nil
}

// Close closes the underlying connection if the backend holds one
func (c *Client) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}

// CallError reports a contract call whose result could not be decoded,
// typically because the target is not the expected contract.
type CallError struct {
	Method string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("failed to decode %s result: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
