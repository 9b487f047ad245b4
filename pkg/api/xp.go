package api

import "math/big"

const (
	BaseXP         = 10
	MaxAmountBonus = 50
)

// xpUnit assumes 18-decimal tokens regardless of the token's real decimals.
var xpUnit = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// ExperiencePoints returns the XP earned for swapping amountIn smallest units:
// BaseXP plus one point per whole token, capped at MaxAmountBonus.
func ExperiencePoints(amountIn *big.Int) int {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return BaseXP
	}
	bonus := new(big.Int).Quo(amountIn, xpUnit)
	if bonus.Cmp(big.NewInt(MaxAmountBonus)) > 0 {
		return BaseXP + MaxAmountBonus
	}
	return BaseXP + int(bonus.Int64())
}
