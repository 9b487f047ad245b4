package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal PancakeSwap V2 router ABI
const routerABIJSON = `[
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"}
		],
		"name": "getAmountsOut",
		"outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "amountIn", "type": "uint256"},
			{"internalType": "uint256", "name": "amountOutMin", "type": "uint256"},
			{"internalType": "address[]", "name": "path", "type": "address[]"},
			{"internalType": "address", "name": "to", "type": "address"},
			{"internalType": "uint256", "name": "deadline", "type": "uint256"}
		],
		"name": "swapExactTokensForTokens",
		"outputs": [{"internalType": "uint256[]", "name": "amounts", "type": "uint256[]"}],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// Minimal ERC20 ABI
const erc20ABIJSON = `[
	{"constant": true, "inputs": [], "name": "name", "outputs": [{"name": "", "type": "string"}], "type": "function"},
	{"constant": true, "inputs": [], "name": "symbol", "outputs": [{"name": "", "type": "string"}], "type": "function"},
	{"constant": true, "inputs": [], "name": "decimals", "outputs": [{"name": "", "type": "uint8"}], "type": "function"},
	{"constant": true, "inputs": [{"name": "_owner", "type": "address"}], "name": "balanceOf", "outputs": [{"name": "balance", "type": "uint256"}], "type": "function"}
]`

const (
	MethodGetAmountsOut            = "getAmountsOut"
	MethodSwapExactTokensForTokens = "swapExactTokensForTokens"
	MethodName                     = "name"
	MethodSymbol                   = "symbol"
	MethodDecimals                 = "decimals"
	MethodBalanceOf                = "balanceOf"
)

var (
	RouterABI = mustParseABI(routerABIJSON)
	ERC20ABI  = mustParseABI(erc20ABIJSON)
)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic("chain: invalid embedded ABI: " + err.Error())
	}
	return parsed
}
