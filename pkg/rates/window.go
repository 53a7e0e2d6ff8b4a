package rates

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/correonano/apollo/pkg/money"
)

var (
	// ErrUnknownCurrency is returned when the window has no rate for a
	// requested currency code.
	ErrUnknownCurrency = errors.New("no rate for currency")

	// ErrNoRates is returned when a window is created without any rates.
	ErrNoRates = errors.New("rate window has no rates")
)

// Window is an immutable point-in-time table of exchange rates, expressed as
// units of each currency per bitcoin. The BTC entry is always 1.
type Window struct {
	windowID  int64
	fetchDate time.Time
	rates     map[string]decimal.Decimal
}

// NewWindow creates a rate window from a rates table. The table is copied, so
// callers may keep mutating theirs.
func NewWindow(windowID int64, fetchDate time.Time, rates map[string]decimal.Decimal) (*Window, error) {
	if len(rates) == 0 {
		return nil, ErrNoRates
	}

	copied := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		copied[code] = rate
	}
	copied["BTC"] = decimal.NewFromInt(1)

	return &Window{windowID: windowID, fetchDate: fetchDate, rates: copied}, nil
}

// WindowID returns the opaque version token of this window.
func (w *Window) WindowID() int64 {
	return w.windowID
}

// FetchDate returns when this window was fetched.
func (w *Window) FetchDate() time.Time {
	return w.fetchDate
}

// Rate returns the amount of `currency` one bitcoin buys.
func (w *Window) Rate(currency string) (decimal.Decimal, error) {
	rate, ok := w.rates[currency]
	if !ok {
		return decimal.Decimal{}, errors.Wrap(ErrUnknownCurrency, currency)
	}

	return rate, nil
}

// Currencies returns the currency codes this window can convert.
func (w *Window) Currencies() []string {
	codes := make([]string, 0, len(w.rates))
	for code := range w.rates {
		codes = append(codes, code)
	}

	return codes
}

// Rates returns an independent copy of the rates table, as floats, for
// projection boundaries.
func (w *Window) Rates() map[string]float64 {
	copied := make(map[string]float64, len(w.rates))
	for code, rate := range w.rates {
		copied[code], _ = rate.Float64()
	}

	return copied
}

// Convert converts an amount to the target currency, using this window's
// rates. The result is rounded half-even to the target currency's exponent.
// This is the single place where conversion rounding happens, so amount, fee
// and total can never round inconsistently.
func (w *Window) Convert(amount money.Amount, target string) (money.Amount, error) {
	sourceRate, err := w.Rate(amount.Currency)
	if err != nil {
		return money.Amount{}, err
	}

	targetRate, err := w.Rate(target)
	if err != nil {
		return money.Amount{}, err
	}

	value := amount.Value.Div(sourceRate).Mul(targetRate).RoundBank(money.Exponent(target))
	return money.New(value, target), nil
}

// ConvertSats converts satoshis to an amount in the target currency, going
// through an intermediate BTC amount so there is exactly one conversion path.
func (w *Window) ConvertSats(sats btcutil.Amount, target string) (money.Amount, error) {
	return w.Convert(money.SatoshisToBTC(sats), target)
}
