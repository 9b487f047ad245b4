package swap

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-quest/pkg/chain"
	"token-quest/pkg/chain/chaintest"
	"token-quest/pkg/types"
)

const (
	walletHex = "0x742D35cc6634c0532925A3B844bc9E7595f2B21D"
	wbnbHex   = "0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd"
	busdHex   = "0x78867BbEeF44f2326bF8DDd1941a4439382EF2A7"
)

var (
	routerAddr = common.HexToAddress("0x9Ac64Cc6e4415144C455BD8E4837Fea55603e5c3")
	fixedNow   = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T) (*Service, *chaintest.Backend) {
	t.Helper()
	backend := chaintest.NewBackend(routerAddr)
	backend.Tokens[common.HexToAddress(wbnbHex)] = &chaintest.Token{Name: "Wrapped BNB", Symbol: "WBNB", Decimals: 18}
	backend.Tokens[common.HexToAddress(busdHex)] = &chaintest.Token{Name: "BUSD Token", Symbol: "BUSD", Decimals: 18}
	backend.AmountsOut = func(amountIn *big.Int, path []common.Address) []*big.Int {
		// 1 WBNB -> 301.234567 BUSD
		out := new(big.Int).Mul(amountIn, big.NewInt(301234567))
		out.Div(out, big.NewInt(1000000))
		return []*big.Int{amountIn, out}
	}

	svc := NewService(chain.NewClient(backend, routerAddr), Options{
		Network: "BSC Testnet",
		ChainID: 97,
		Now:     func() time.Time { return fixedNow },
	})
	return svc, backend
}

func TestValidateWalletChecksumsAddress(t *testing.T) {
	svc, backend := newTestService(t)
	wei, _ := new(big.Int).SetString("1500000000000000000", 10)
	backend.Balances[common.HexToAddress(walletHex)] = wei

	info, err := svc.ValidateWallet(context.Background(), strings.ToLower(walletHex))
	require.NoError(t, err)

	assert.Equal(t, walletHex, info.Address)
	assert.Equal(t, 1.5, info.BalanceBNB)
	assert.Equal(t, "BSC Testnet", info.Network)
	assert.EqualValues(t, 97, info.ChainID)
}

func TestInvalidAddressesAreRejectedBeforeRPC(t *testing.T) {
	svc, backend := newTestService(t)
	ctx := context.Background()

	for _, addr := range []string{"", "hello", "0x123", "0xZZ2D35cc6634c0532925A3B844bc9E7595f2B21D"} {
		info, err := svc.ValidateWallet(ctx, addr)
		assert.Nil(t, info)
		require.Error(t, err)
		assert.Equal(t, KindInvalidAddress, KindOf(err))
		assert.NotEmpty(t, err.Error())

		token, err := svc.GetTokenInfo(ctx, addr)
		assert.Nil(t, token)
		assert.Equal(t, KindInvalidAddress, KindOf(err))
	}
	assert.Empty(t, backend.Calls())
}

func TestValidateWalletRPCFailure(t *testing.T) {
	svc, backend := newTestService(t)
	backend.Err = errors.New("dial tcp: connection refused")

	_, err := svc.ValidateWallet(context.Background(), walletHex)
	require.Error(t, err)
	assert.Equal(t, KindRPC, KindOf(err))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetTokenInfo(t *testing.T) {
	svc, backend := newTestService(t)

	info, err := svc.GetTokenInfo(context.Background(), strings.ToLower(wbnbHex))
	require.NoError(t, err)

	assert.Equal(t, &types.TokenInfo{Address: wbnbHex, Name: "Wrapped BNB", Symbol: "WBNB", Decimals: 18}, info)
	assert.Equal(t, []string{"name", "symbol", "decimals"}, backend.Calls())
}

func TestGetTokenInfoNotAContract(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetTokenInfo(context.Background(), walletHex)
	require.Error(t, err)
	assert.Equal(t, KindContract, KindOf(err))
}

func TestGetSwapQuote(t *testing.T) {
	svc, _ := newTestService(t)

	quote, err := svc.GetSwapQuote(context.Background(), wbnbHex, busdHex, "1000000000000000000")
	require.NoError(t, err)

	assert.Equal(t, "1000000000000000000", quote.AmountIn)
	assert.Equal(t, "301234567000000000000", quote.AmountOut)
	assert.Equal(t, []string{wbnbHex, busdHex}, quote.Path)
	assert.Equal(t, PriceImpact, quote.PriceImpact)
	// floor(301234567000000000000 * 0.995)
	assert.Equal(t, "299728394165000000000", quote.MinimumReceived)
}

func TestGetSwapQuoteErrors(t *testing.T) {
	svc, backend := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetSwapQuote(ctx, "nope", busdHex, "1")
	assert.Equal(t, KindInvalidAddress, KindOf(err))

	_, err = svc.GetSwapQuote(ctx, wbnbHex, busdHex, "lots")
	assert.Equal(t, KindInvalidAmount, KindOf(err))

	backend.AmountsOut = nil
	_, err = svc.GetSwapQuote(ctx, wbnbHex, busdHex, "1")
	assert.Equal(t, KindContract, KindOf(err))
	assert.Contains(t, err.Error(), "INSUFFICIENT_LIQUIDITY")
}

func TestExecuteSwap(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.ExecuteSwap(context.Background(), types.SwapRequest{
		WalletAddress: walletHex,
		TokenIn:       wbnbHex,
		TokenOut:      busdHex,
		AmountIn:      "25000000000000000000",
		Slippage:      1,
	})
	require.NoError(t, err)

	amountIn, _ := new(big.Int).SetString("25000000000000000000", 10)
	wantHash := SimulatedTxHash(common.HexToAddress(walletHex), common.HexToAddress(wbnbHex), common.HexToAddress(busdHex), amountIn, fixedNow)

	assert.Equal(t, wantHash.Hex(), result.TransactionHash)
	assert.Len(t, result.TransactionHash, 66)
	assert.Equal(t, "25000000000000000000", result.AmountIn)
	assert.Equal(t, "7530864175000000000000", result.AmountOut)
	// floor(7530864175000000000000 * 99 / 100)
	assert.Equal(t, "7455555533250000000000", result.AmountOutMin)
	assert.Equal(t, SimulatedGasUsed, result.GasUsed)
	assert.Equal(t, "BSC Testnet", result.Network)
	assert.Equal(t, routerAddr.Hex(), result.Router)
	assert.Zero(t, result.XPEarned)

	data, err := hexutil.Decode(result.Calldata)
	require.NoError(t, err)
	method, err := chain.RouterABI.MethodById(data[:4])
	require.NoError(t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, result.AmountOutMin, args[1].(*big.Int).String())
	assert.Equal(t, common.HexToAddress(walletHex), args[3].(common.Address))
	assert.Equal(t, fixedNow.Add(SwapDeadline).Unix(), args[4].(*big.Int).Int64())
}

func TestExecuteSwapPropagatesQuoteError(t *testing.T) {
	svc, backend := newTestService(t)
	backend.AmountsOut = nil

	_, err := svc.ExecuteSwap(context.Background(), types.SwapRequest{
		WalletAddress: walletHex,
		TokenIn:       wbnbHex,
		TokenOut:      busdHex,
		AmountIn:      "1",
		Slippage:      0.5,
	})
	require.Error(t, err)

	var swapErr *Error
	require.True(t, errors.As(err, &swapErr))
	assert.Equal(t, "execute_swap", swapErr.Op)
	assert.Equal(t, KindContract, swapErr.Kind)
}

func TestExecuteSwapRejectsBadSlippage(t *testing.T) {
	svc, backend := newTestService(t)

	_, err := svc.ExecuteSwap(context.Background(), types.SwapRequest{
		WalletAddress: walletHex,
		TokenIn:       wbnbHex,
		TokenOut:      busdHex,
		AmountIn:      "1",
		Slippage:      120,
	})
	assert.Equal(t, KindInvalidAmount, KindOf(err))
	assert.Empty(t, backend.Calls())
}

func TestMinimumOut(t *testing.T) {
	tests := []struct {
		amount   string
		slippage float64
		want     string
	}{
		{"1000", 0.5, "995"},
		{"999", 0.5, "994"},
		{"1", 0.5, "0"},
		{"1000", 0, "1000"},
		{"12345", 3.3, "11937"},
		{"115792089237316195423570985008687907853269984665640564039457584007913129639935", 0.5,
			"115213128791129614446453130083644468314003634742312361219260296087873563991735"},
	}
	for _, tt := range tests {
		amount, _ := new(big.Int).SetString(tt.amount, 10)
		assert.Equal(t, tt.want, MinimumOut(amount, tt.slippage).String(), "%s @ %v%%", tt.amount, tt.slippage)
	}
}

func TestWeiToEther(t *testing.T) {
	assert.Equal(t, 0.0, WeiToEther(big.NewInt(0)))
	assert.Equal(t, 0.25, WeiToEther(big.NewInt(250000000000000000)))
}

func TestCommonTokens(t *testing.T) {
	tokens := CommonTokens(BSCTestnetChainID)
	require.Len(t, tokens, 2)
	for _, token := range tokens {
		assert.True(t, common.IsHexAddress(token.Address), token.Symbol)
	}
	assert.Nil(t, CommonTokens(1))
}

func TestResolveToken(t *testing.T) {
	assert.Equal(t, wbnbHex, ResolveToken(BSCTestnetChainID, "wbnb"))
	assert.Equal(t, busdHex, ResolveToken(BSCTestnetChainID, " BUSD "))
	assert.Equal(t, walletHex, ResolveToken(BSCTestnetChainID, walletHex))
	assert.Equal(t, "WBNB", ResolveToken(56, "WBNB"))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, Kind(0), KindOf(errors.New("x")))
	assert.Equal(t, "rpc", KindRPC.String())
}
