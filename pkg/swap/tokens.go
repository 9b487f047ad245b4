package swap

import (
	"strings"

	"token-quest/pkg/types"
)

// BSCTestnetChainID is the chain id of BSC testnet.
const BSCTestnetChainID = 97

var bscTestnetTokens = []types.Token{
	{Symbol: "WBNB", Address: "0xae13d989daC2f0dEbFf460aC112a837C89BAa7cd"},
	{Symbol: "BUSD", Address: "0x78867BbEeF44f2326bF8DDd1941a4439382EF2A7"},
}

// CommonTokens returns well-known tokens for chainID, or nil when none are known.
func CommonTokens(chainID int64) []types.Token {
	if chainID != BSCTestnetChainID {
		return nil
	}
	return append([]types.Token(nil), bscTestnetTokens...)
}

// ResolveToken maps a well-known symbol to its address on chainID.
// Anything else is returned trimmed and unchanged, to be validated as an address later.
func ResolveToken(chainID int64, symbolOrAddress string) string {
	symbolOrAddress = strings.TrimSpace(symbolOrAddress)
	for _, token := range CommonTokens(chainID) {
		if strings.EqualFold(token.Symbol, symbolOrAddress) {
			return token.Address
		}
	}
	return symbolOrAddress
}
