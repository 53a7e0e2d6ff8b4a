package payment

import (
	"github.com/correonano/apollo/pkg/money"
	"github.com/correonano/apollo/pkg/rates"
)

// Status classifies the outcome of analyzing a request. Non-fundable
// payments are normal results, never errors.
type Status int

const (
	// StatusValid means the payment is fully fundable as stated.
	StatusValid Status = iota

	// StatusAmountExceedsBalance means the amount alone, before any fee,
	// exceeds the spendable balance.
	StatusAmountExceedsBalance

	// StatusTotalExceedsBalance means the amount is fundable but amount
	// plus fee is not.
	StatusTotalExceedsBalance

	// StatusFeeExceedsAmount means the fee would consume the whole stated
	// amount when taken from it.
	StatusFeeExceedsAmount
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusAmountExceedsBalance:
		return "amount exceeds balance"
	case StatusTotalExceedsBalance:
		return "total exceeds balance"
	case StatusFeeExceedsAmount:
		return "fee exceeds amount"
	default:
		return "unknown"
	}
}

// Analysis is the fully-populated result of validating a request against the
// wallet's balance and fee model. Fee and Total are nil exactly when the
// payment is not fundable.
type Analysis struct {
	PayReq     Request
	Status     Status
	Amount     money.BitcoinAmount
	Fee        *money.BitcoinAmount
	Total      *money.BitcoinAmount
	RateWindow *rates.Window
}

// IsValid reports whether the payment is fully fundable. True implies Fee and
// Total are present and non-negative.
func (a *Analysis) IsValid() bool {
	return a.Status == StatusValid
}
