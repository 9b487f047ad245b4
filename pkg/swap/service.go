// Package swap validates wallets, reads token metadata, quotes swaps against
// the router and simulates their execution.
//
// ExecuteSwap never submits a transaction: the hash it returns is derived
// locally and the calldata is meant to be signed by the user's own wallet.
package swap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"token-quest/pkg/chain"
	"token-quest/pkg/parser"
	"token-quest/pkg/types"
)

const (
	// PriceImpact is a fixed placeholder reported with every quote.
	PriceImpact = 0.1
	// SimulatedGasUsed is reported for every simulated swap.
	SimulatedGasUsed = "150000"
	// SwapDeadline bounds how long the packed router call stays valid.
	SwapDeadline = 20 * time.Minute

	simulatedMessage = "Swap executed successfully! 🎉"
)

// ChainReader is the read side of the chain client the service needs.
type ChainReader interface {
	Router() common.Address
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
	TokenName(ctx context.Context, token common.Address) (string, error)
	TokenSymbol(ctx context.Context, token common.Address) (string, error)
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error)
}

// Options configures a Service.
type Options struct {
	Network string
	ChainID int64
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service is stateless apart from its configuration and may be shared by all requests.
type Service struct {
	chain   ChainReader
	network string
	chainID int64
	now     func() time.Time
}

func NewService(reader ChainReader, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		chain:   reader,
		network: opts.Network,
		chainID: opts.ChainID,
		now:     now,
	}
}

// ValidateWallet checksums address and reads its native balance.
func (s *Service) ValidateWallet(ctx context.Context, address string) (*types.WalletInfo, error) {
	const op = "validate_wallet"

	account, err := parseAddress(op, "wallet", address)
	if err != nil {
		return nil, err
	}

	balance, err := s.chain.Balance(ctx, account)
	if err != nil {
		return nil, chainError(op, err)
	}

	return &types.WalletInfo{
		Address:    account.Hex(),
		BalanceBNB: WeiToEther(balance),
		Network:    s.network,
		ChainID:    s.chainID,
	}, nil
}

// GetTokenInfo reads name, symbol and decimals from the token contract.
func (s *Service) GetTokenInfo(ctx context.Context, tokenAddress string) (*types.TokenInfo, error) {
	const op = "get_token_info"

	token, err := parseAddress(op, "token", tokenAddress)
	if err != nil {
		return nil, err
	}

	name, err := s.chain.TokenName(ctx, token)
	if err != nil {
		return nil, chainError(op, err)
	}
	symbol, err := s.chain.TokenSymbol(ctx, token)
	if err != nil {
		return nil, chainError(op, err)
	}
	decimals, err := s.chain.TokenDecimals(ctx, token)
	if err != nil {
		return nil, chainError(op, err)
	}

	return &types.TokenInfo{
		Address:  token.Hex(),
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
	}, nil
}

type quote struct {
	path      []common.Address
	amountIn  *big.Int
	amountOut *big.Int
}

// GetSwapQuote estimates the output of swapping amountIn of tokenIn for tokenOut.
// Minimum received always uses parser.DefaultSlippage.
func (s *Service) GetSwapQuote(ctx context.Context, tokenIn, tokenOut, amountIn string) (*types.SwapQuote, error) {
	q, err := s.quote(ctx, "get_swap_quote", tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, err
	}

	path := make([]string, len(q.path))
	for i, addr := range q.path {
		path[i] = addr.Hex()
	}

	return &types.SwapQuote{
		AmountIn:        q.amountIn.String(),
		AmountOut:       q.amountOut.String(),
		Path:            path,
		PriceImpact:     PriceImpact,
		MinimumReceived: MinimumOut(q.amountOut, parser.DefaultSlippage).String(),
	}, nil
}

func (s *Service) quote(ctx context.Context, op, tokenIn, tokenOut, amountIn string) (*quote, error) {
	in, err := parseAddress(op, "input token", tokenIn)
	if err != nil {
		return nil, err
	}
	out, err := parseAddress(op, "output token", tokenOut)
	if err != nil {
		return nil, err
	}
	amount, err := parser.ParseAmount(amountIn)
	if err != nil {
		return nil, &Error{Op: op, Kind: KindInvalidAmount, Err: err}
	}

	path := []common.Address{in, out}
	amounts, err := s.chain.GetAmountsOut(ctx, amount, path)
	if err != nil {
		return nil, chainError(op, err)
	}

	return &quote{
		path:      path,
		amountIn:  amount,
		amountOut: amounts[len(amounts)-1],
	}, nil
}

// ExecuteSwap simulates a swap: it quotes, applies the caller's slippage and
// derives a transaction hash. Nothing is sent to the network.
func (s *Service) ExecuteSwap(ctx context.Context, req types.SwapRequest) (*types.SwapResult, error) {
	const op = "execute_swap"

	wallet, err := parseAddress(op, "wallet", req.WalletAddress)
	if err != nil {
		return nil, err
	}
	if _, err := parser.ParseSlippage(&req.Slippage); err != nil {
		return nil, &Error{Op: op, Kind: KindInvalidAmount, Err: err}
	}

	q, err := s.quote(ctx, op, req.TokenIn, req.TokenOut, req.AmountIn)
	if err != nil {
		return nil, err
	}

	amountOutMin := MinimumOut(q.amountOut, req.Slippage)
	now := s.now()

	calldata, err := chain.PackSwapExactTokensForTokens(q.amountIn, amountOutMin, q.path, wallet, now.Add(SwapDeadline))
	if err != nil {
		return nil, &Error{Op: op, Kind: KindContract, Err: err}
	}

	return &types.SwapResult{
		TransactionHash: SimulatedTxHash(wallet, q.path[0], q.path[1], q.amountIn, now).Hex(),
		AmountIn:        q.amountIn.String(),
		AmountOut:       q.amountOut.String(),
		AmountOutMin:    amountOutMin.String(),
		GasUsed:         SimulatedGasUsed,
		Network:         s.network,
		Router:          s.chain.Router().Hex(),
		Calldata:        hexutil.Encode(calldata),
		Message:         simulatedMessage,
	}, nil
}

// MinimumOut returns floor(amount * (100 - slippagePct) / 100).
func MinimumOut(amount *big.Int, slippagePct float64) *big.Int {
	keep := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(slippagePct))
	return decimal.NewFromBigInt(amount, 0).Mul(keep).Shift(-2).Floor().BigInt()
}

// WeiToEther converts a wei amount to whole coins.
func WeiToEther(wei *big.Int) float64 {
	return decimal.NewFromBigInt(wei, -18).InexactFloat64()
}

// SimulatedTxHash derives a pseudo transaction hash from the swap parameters and time.
func SimulatedTxHash(wallet, tokenIn, tokenOut common.Address, amountIn *big.Int, at time.Time) common.Hash {
	payload := fmt.Sprintf("%s%s%s%s%d", wallet.Hex(), tokenIn.Hex(), tokenOut.Hex(), amountIn.String(), at.UnixNano())
	return crypto.Keccak256Hash([]byte(payload))
}

func parseAddress(op, field, address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return common.Address{}, invalidAddress(op, field, address)
	}
	return common.HexToAddress(address), nil
}
