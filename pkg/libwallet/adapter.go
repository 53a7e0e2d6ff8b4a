// Package libwallet projects the payment engine's state into the flat
// representation consumed by the cross-wallet library. Projections are
// independent copies: they never retain references into the source context.
package libwallet

import (
	"math"

	"github.com/correonano/apollo/pkg/payment"
)

// FeeWindow is the projected fee recommendation table.
type FeeWindow struct {
	WindowID         int64
	TargetedFees     map[int]float64
	FastConfTarget   int
	MediumConfTarget int
	SlowConfTarget   int
}

// ExchangeRateWindow is the projected exchange rate table.
type ExchangeRateWindow struct {
	WindowID int64
	Rates    map[string]float64
}

// SizeForAmount is one projected step of the size progression. Outpoints are
// serialized as "txid:index" strings.
type SizeForAmount struct {
	AmountInSat int64
	SizeInVByte int64
	Outpoint    string
}

// NextTransactionSize is the projected balance/NTS data.
type NextTransactionSize struct {
	SizeProgression   []SizeForAmount
	ExpectedDebtInSat int64
}

// BestRouteFees is one projected swap route fee schedule.
type BestRouteFees struct {
	MaxCapacityInSat          int64
	FeeProportionalMillionths int64
	FeeBaseInSat              int64
}

// SubmarineSwap is the projected optional swap data.
type SubmarineSwap struct {
	BestRouteFees []BestRouteFees
	AmountInSat   int64
}

// PaymentContext is the flat projection of a payment.Context.
type PaymentContext struct {
	FeeWindow                FeeWindow
	ExchangeRateWindow       ExchangeRateWindow
	NextTransactionSize      NextTransactionSize
	PrimaryCurrency          string
	MinFeeRateInSatsPerVByte int64
	SubmarineSwap            *SubmarineSwap
}

// FromPaymentContext projects a payment context, plus optional swap metadata,
// into the cross-wallet-library representation. Pure and side-effect free.
func FromPaymentContext(payCtx *payment.Context, swap *payment.SwapParams) *PaymentContext {
	feeWindow := payCtx.FeeWindow()
	sizes := payCtx.Sizes()

	progression := make([]SizeForAmount, 0, len(sizes.SizeProgression))
	for _, s := range sizes.SizeProgression {
		progression = append(progression, SizeForAmount{
			AmountInSat: int64(s.AmountInSatoshis),
			SizeInVByte: s.SizeInVBytes,
			Outpoint:    s.Outpoint.String(),
		})
	}

	projected := &PaymentContext{
		FeeWindow: FeeWindow{
			WindowID:         feeWindow.WindowID(),
			TargetedFees:     feeWindow.TargetedFees(),
			FastConfTarget:   feeWindow.FastConfTarget(),
			MediumConfTarget: feeWindow.MediumConfTarget(),
			SlowConfTarget:   feeWindow.SlowConfTarget(),
		},
		ExchangeRateWindow: ExchangeRateWindow{
			WindowID: payCtx.RateWindow().WindowID(),
			Rates:    payCtx.RateWindow().Rates(),
		},
		NextTransactionSize: NextTransactionSize{
			SizeProgression:   progression,
			ExpectedDebtInSat: int64(sizes.ExpectedDebtInSat),
		},
		PrimaryCurrency:          payCtx.PrimaryCurrency(),
		MinFeeRateInSatsPerVByte: toSatsPerVByte(payCtx.MinimumFeeRate()),
	}

	if swap != nil {
		projected.SubmarineSwap = projectSwap(swap)
	}

	return projected
}

func projectSwap(swap *payment.SwapParams) *SubmarineSwap {
	routes := make([]BestRouteFees, 0, len(swap.BestRouteFees))
	for _, route := range swap.BestRouteFees {
		routes = append(routes, BestRouteFees{
			MaxCapacityInSat:          int64(route.MaxCapacity),
			FeeProportionalMillionths: route.FeeProportionalMillionths,
			FeeBaseInSat:              int64(route.FeeBase),
		})
	}

	return &SubmarineSwap{
		BestRouteFees: routes,
		AmountInSat:   int64(swap.Amount),
	}
}

// toSatsPerVByte converts a decimal sats/vbyte rate to the integer rate the
// cross-wallet library expects. Rounds up: an integer floor could under-quote
// the minimum.
func toSatsPerVByte(rate float64) int64 {
	return int64(math.Ceil(rate))
}
