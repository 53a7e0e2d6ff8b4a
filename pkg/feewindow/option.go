package feewindow

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
)

// Average block interval used to turn confirmation targets into wait times.
const avgBlockIntervalMs = 10 * 60 * 1000

// Option is a derived fee choice: a network-recommended rate, the target it
// confirms within, the absolute fee it implies for the current balance
// projection, and the estimated maximum wait. Immutable.
type Option struct {
	FeeRate            float64
	ConfirmationTarget int
	EstimatedFee       btcutil.Amount
	MaxWaitTimeMs      int64
}

// NewOption derives a fee option for a rate and target.
func NewOption(feeRate float64, confirmationTarget int, estimatedFee btcutil.Amount) Option {
	return Option{
		FeeRate:            feeRate,
		ConfirmationTarget: confirmationTarget,
		EstimatedFee:       estimatedFee,
		MaxWaitTimeMs:      int64(confirmationTarget) * avgBlockIntervalMs,
	}
}

// MaxWaitTime returns the estimated maximum wait as a duration.
func (o Option) MaxWaitTime() time.Duration {
	return time.Duration(o.MaxWaitTimeMs) * time.Millisecond
}
