package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WalletInfo is the result of a wallet validation
type WalletInfo struct {
	Address    string  `json:"address"`
	BalanceBNB float64 `json:"balance_bnb"`
	Network    string  `json:"network"`
	ChainID    int64   `json:"chain_id"`
}

// TokenInfo holds ERC20 metadata read from the token contract
type TokenInfo struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// SwapQuote is the router's estimate for swapping AmountIn along Path.
// Amounts are decimal strings in the token's smallest unit.
type SwapQuote struct {
	AmountIn        string   `json:"amount_in"`
	AmountOut       string   `json:"amount_out"`
	Path            []string `json:"path"`
	PriceImpact     float64  `json:"price_impact"`
	MinimumReceived string   `json:"minimum_received"`
}

// SwapRequest is a request to simulate a swap
type SwapRequest struct {
	WalletAddress string
	TokenIn       string
	TokenOut      string
	AmountIn      string
	Slippage      float64
}

// SwapResult is the outcome of a simulated swap. No transaction is broadcast;
// TransactionHash is derived locally and Calldata is left for the user's wallet to sign.
type SwapResult struct {
	TransactionHash string `json:"transaction_hash"`
	AmountIn        string `json:"amount_in"`
	AmountOut       string `json:"amount_out"`
	AmountOutMin    string `json:"amount_out_min"`
	GasUsed         string `json:"gas_used"`
	Network         string `json:"network"`
	Router          string `json:"router"`
	Calldata        string `json:"calldata"`
	Message         string `json:"message"`
	XPEarned        int    `json:"xp_earned,omitempty"`
}

// Token is a well-known token on the configured network
type Token struct {
	Symbol  string `json:"symbol"`
	Address string `json:"address"`
}

// Amount is a token amount in smallest units as sent by clients.
// It accepts both JSON strings and JSON numbers.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string {
	return string(a)
}
