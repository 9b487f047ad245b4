package parser

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"token-quest/pkg/types"
)

// DefaultSlippage is the slippage tolerance, in percent, used when a client sends none.
const DefaultSlippage = 0.5

const (
	maxAmountLen     = 128
	maxUint256Digits = 78
)

var (
	ErrMissingParameters = errors.New("missing required parameters")
	maxUint256           = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// ParseAmount parses a whole amount in smallest units.
// Examples:
//   - "1000000000000000000"
//   - "1e18"
//   - "2.5e18"
//
// Fractional amounts such as "2500.9" are rejected.
func ParseAmount(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("amount is required")
	}
	if len(amount) > maxAmountLen {
		return nil, fmt.Errorf("invalid amount format: too long")
	}

	value, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount format: %s", amount)
		}
		// Checked before IsInteger, which walks every negative exponent digit of a zero value.
		if d.Sign() <= 0 {
			return nil, fmt.Errorf("amount must be positive: %s", amount)
		}
		if !d.IsInteger() {
			return nil, fmt.Errorf("amount must be a whole number of smallest units: %s", amount)
		}
		// Bound the magnitude before BigInt materializes 10^exp.
		if d.Exponent() > 0 && int(d.Exponent())+d.NumDigits() > maxUint256Digits {
			return nil, fmt.Errorf("amount exceeds uint256: %s", amount)
		}
		value = d.BigInt()
	}

	if value.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive: %s", amount)
	}
	if value.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("amount exceeds uint256: %s", amount)
	}
	return value, nil
}

// ParseSlippage returns the slippage percentage, defaulting when unset.
// Valid values are in [0, 100).
func ParseSlippage(slippage *float64) (float64, error) {
	if slippage == nil {
		return DefaultSlippage, nil
	}
	s := *slippage
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 || s >= 100 {
		return 0, fmt.Errorf("slippage must be between 0 and 100, got %v", s)
	}
	return s, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if strings.TrimSpace(req.WalletAddress) == "" ||
		strings.TrimSpace(req.TokenIn) == "" ||
		strings.TrimSpace(req.TokenOut) == "" ||
		strings.TrimSpace(req.AmountIn) == "" {
		return ErrMissingParameters
	}
	return nil
}
