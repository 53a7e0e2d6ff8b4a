package feewindow

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/assert"

	"github.com/correonano/apollo/pkg/nts"
)

func testSizes() *nts.NextTransactionSize {
	return &nts.NextTransactionSize{
		SizeProgression: []nts.SizeForAmount{
			{AmountInSatoshis: 10_000, SizeInVBytes: 141},
			{AmountInSatoshis: 50_000, SizeInVBytes: 209},
			{AmountInSatoshis: 100_000, SizeInVBytes: 277},
		},
	}
}

func TestCalculatorFee(t *testing.T) {
	tests := []struct {
		rate     float64
		amount   btcutil.Amount
		expected btcutil.Amount
	}{
		{1, 0, 0},
		{1, 1, 141},          // smallest bracket
		{1, 10_000, 141},     // bracket boundary
		{1, 10_001, 209},     // next bracket
		{1, 100_000, 277},    // full balance
		{1, 200_000, 277},    // over balance: quoted at max size
		{0.5, 1, 71},         // ceil(70.5)
		{25.75, 60_000, 7133}, // ceil(25.75 * 277)
		{0, 1, 0},
	}

	for _, test := range tests {
		calc := NewCalculator(test.rate, testSizes())
		assert.Equal(t, test.expected, calc.Fee(test.amount),
			"rate %v amount %d", test.rate, test.amount)
	}
}

func TestCalculatorFeeFromAmountMatchesGrossBracket(t *testing.T) {
	calc := NewCalculator(2, testSizes())

	// amount is the gross total, so the bracket is chosen the same way
	assert.Equal(t, calc.Fee(50_000), calc.FeeFromAmount(50_000))
	assert.Equal(t, btcutil.Amount(418), calc.FeeFromAmount(50_000))
}

func TestCalculatorEmptyProgression(t *testing.T) {
	calc := NewCalculator(10, &nts.NextTransactionSize{})

	assert.Equal(t, btcutil.Amount(0), calc.Fee(0))
	assert.Equal(t, btcutil.Amount(0), calc.Fee(1000))
}
