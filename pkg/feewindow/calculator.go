package feewindow

import (
	"math"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/correonano/apollo/pkg/nts"
)

// Calculator computes absolute fees at a fixed rate against a balance
// projection. Fees are rounded up to the next satoshi, never down.
type Calculator struct {
	satsPerVByte float64
	sizes        *nts.NextTransactionSize
}

// NewCalculator creates a fee calculator for a rate, in satoshis per vbyte.
func NewCalculator(satsPerVByte float64, sizes *nts.NextTransactionSize) *Calculator {
	return &Calculator{satsPerVByte: satsPerVByte, sizes: sizes}
}

// Fee returns the fee to spend `amount` with the fee paid on top of it.
// Spending more than the projected balance is charged at the full-balance
// transaction size, so callers get a usable quote for the non-fundable case
// too.
func (c *Calculator) Fee(amount btcutil.Amount) btcutil.Amount {
	if amount == 0 {
		return 0
	}

	for _, s := range c.sizes.SizeProgression {
		if s.AmountInSatoshis >= amount {
			return c.applyRate(s.SizeInVBytes)
		}
	}

	return c.applyRate(c.sizes.MaxSizeInVBytes())
}

// FeeFromAmount returns the fee to spend `amount` with the fee taken out of
// it, so amount is the gross total leaving the wallet.
func (c *Calculator) FeeFromAmount(amount btcutil.Amount) btcutil.Amount {
	// The bracket search is the same: the gross amount determines which
	// outputs get spent, whether the fee comes out of it or not.
	return c.Fee(amount)
}

func (c *Calculator) applyRate(sizeInVBytes int64) btcutil.Amount {
	return btcutil.Amount(math.Ceil(c.satsPerVByte * float64(sizeInVBytes)))
}
