package payment

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/correonano/apollo/pkg/money"
)

// BestRouteFees is one candidate swap route's fee schedule, treated opaquely
// by the analysis layer.
type BestRouteFees struct {
	MaxCapacity               btcutil.Amount `json:"maxCapacity"`
	FeeProportionalMillionths int64          `json:"feeProportionalMillionths"`
	FeeBase                   btcutil.Amount `json:"feeBase"`
}

// SwapParams is the optional swap-routing metadata attached to a request.
type SwapParams struct {
	BestRouteFees []BestRouteFees `json:"bestRouteFees,omitempty"`
	Amount        btcutil.Amount  `json:"amount"`
}

// RouteFeeFor returns the routing fee for swapping `amount`: the first route
// with enough capacity, or the largest one if none fits.
func (s *SwapParams) RouteFeeFor(amount btcutil.Amount) btcutil.Amount {
	if len(s.BestRouteFees) == 0 {
		return 0
	}

	route := s.BestRouteFees[len(s.BestRouteFees)-1]
	for _, candidate := range s.BestRouteFees {
		if candidate.MaxCapacity >= amount {
			route = candidate
			break
		}
	}

	return route.FeeBase + btcutil.Amount(int64(amount)*route.FeeProportionalMillionths/1_000_000)
}

func (s *SwapParams) clone() *SwapParams {
	if s == nil {
		return nil
	}

	copied := *s
	copied.BestRouteFees = append([]BestRouteFees(nil), s.BestRouteFees...)
	return &copied
}

// Request is a proposed outgoing payment. Requests are value objects:
// the With* methods return modified copies and never mutate in place.
type Request struct {
	// Amount may be nil only before a use-all-funds request is resolved.
	Amount *money.Amount `json:"amount,omitempty"`

	// Currency is the display currency, used when Amount is absent.
	Currency    string      `json:"currency"`
	Description string      `json:"description"`
	Swap        *SwapParams `json:"swap,omitempty"`

	// FeeRateInSatsPerVByte overrides the default fee option when set.
	FeeRateInSatsPerVByte *float64 `json:"feeRateInSatsPerVByte,omitempty"`

	// TakeFeeFromAmount deducts the fee from the stated amount instead of
	// adding it on top.
	TakeFeeFromAmount bool `json:"takeFeeFromAmount"`

	// amountInSat, when set, is the authoritative satoshi value behind
	// Amount. Display amounts round to their currency's exponent; this
	// survives that rounding. Only the context sets it.
	amountInSat *btcutil.Amount
}

func (r Request) clone() Request {
	copied := r
	if r.Amount != nil {
		amount := *r.Amount
		copied.Amount = &amount
	}
	copied.Swap = r.Swap.clone()
	if r.FeeRateInSatsPerVByte != nil {
		rate := *r.FeeRateInSatsPerVByte
		copied.FeeRateInSatsPerVByte = &rate
	}
	if r.amountInSat != nil {
		sats := *r.amountInSat
		copied.amountInSat = &sats
	}

	return copied
}

// WithAmount returns a copy of the request with a new amount.
func (r Request) WithAmount(amount money.Amount) Request {
	copied := r.clone()
	copied.Amount = &amount
	copied.Currency = amount.Currency
	copied.amountInSat = nil
	return copied
}

// WithTakeFeeFromAmount returns a copy of the request with the fee-deduction
// flag set.
func (r Request) WithTakeFeeFromAmount(takeFeeFromAmount bool) Request {
	copied := r.clone()
	copied.TakeFeeFromAmount = takeFeeFromAmount
	return copied
}

// WithFeeRate returns a copy of the request with an explicit fee rate, in
// satoshis per vbyte.
func (r Request) WithFeeRate(satsPerVByte float64) Request {
	copied := r.clone()
	copied.FeeRateInSatsPerVByte = &satsPerVByte
	return copied
}

// WithSwapAmount returns a copy of the request with the swap amount set,
// creating the swap metadata when absent.
func (r Request) WithSwapAmount(amount btcutil.Amount) Request {
	copied := r.clone()
	if copied.Swap == nil {
		copied.Swap = &SwapParams{}
	}
	copied.Swap.Amount = amount
	return copied
}
