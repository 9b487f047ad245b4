package api

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperiencePoints(t *testing.T) {
	tests := []struct {
		amount string
		want   int
	}{
		{"0", 10},
		{"999999999999999999", 10},
		{"1000000000000000000", 11},
		{"25000000000000000000", 35},
		{"50000000000000000000", 60},
		{"51000000000000000000", 60},
		{"1000000000000000000000000000", 60},
	}
	for _, tt := range tests {
		amount, _ := new(big.Int).SetString(tt.amount, 10)
		assert.Equal(t, tt.want, ExperiencePoints(amount), tt.amount)
	}
	assert.Equal(t, BaseXP, ExperiencePoints(nil))
}
