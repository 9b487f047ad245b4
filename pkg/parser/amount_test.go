package parser

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-quest/pkg/types"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1000000000000000000", "1000000000000000000"},
		{" 42 ", "42"},
		{"1e18", "1000000000000000000"},
		{"2.5e18", "2500000000000000000"},
		{"2500.0", "2500"},
		{"1.5e1", "15"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "0x10", "-5", "0", "0.4", "2500.9", "1.999999",
		"1e79", "1e50000000", "1e2000000000", "0e-2000000000", "-1e-2000000000",
		strings.Repeat("9", 200),
		"115792089237316195423570985008687907853269984665640564039457584007913129639936"} {
		name := in
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			_, err := ParseAmount(in)
			assert.Error(t, err)
			assert.Less(t, time.Since(start), 100*time.Millisecond)
		})
	}
}

func TestParseSlippage(t *testing.T) {
	s, err := ParseSlippage(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSlippage, s)

	v := 3.0
	s, err = ParseSlippage(&v)
	require.NoError(t, err)
	assert.Equal(t, 3.0, s)

	for _, bad := range []float64{-1, 100, 150, math.NaN(), math.Inf(1)} {
		bad := bad
		_, err := ParseSlippage(&bad)
		assert.Error(t, err, "slippage %v", bad)
	}
}

func TestValidateSwapRequest(t *testing.T) {
	full := types.SwapRequest{WalletAddress: "0x1", TokenIn: "0x2", TokenOut: "0x3", AmountIn: "1"}
	require.NoError(t, ValidateSwapRequest(&full))

	missing := []func(r *types.SwapRequest){
		func(r *types.SwapRequest) { r.WalletAddress = "" },
		func(r *types.SwapRequest) { r.TokenIn = " " },
		func(r *types.SwapRequest) { r.TokenOut = "" },
		func(r *types.SwapRequest) { r.AmountIn = "" },
	}
	for _, mutate := range missing {
		req := full
		mutate(&req)
		assert.ErrorIs(t, ValidateSwapRequest(&req), ErrMissingParameters)
	}
}
