// Package payment implements the wallet's payment-analysis engine: fee-rate
// selection, payment validation and quotation, use-all-funds simulation, and
// currency conversion against point-in-time rate snapshots.
package payment

import (
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"

	"github.com/correonano/apollo/pkg/feewindow"
	"github.com/correonano/apollo/pkg/money"
	"github.com/correonano/apollo/pkg/nts"
	"github.com/correonano/apollo/pkg/rates"
)

// DefaultMinFeeRate is the floor applied to every analyzed fee rate, in
// satoshis per vbyte.
const DefaultMinFeeRate = 1.0

var (
	// ErrMissingAmount is returned when Analyze is called on a request
	// without an amount. That is a caller bug, not a user condition.
	ErrMissingAmount = errors.New("payment request has no amount")

	// ErrInvalidAnalysis is returned when Prepare is called on a request
	// that does not analyze as valid.
	ErrInvalidAnalysis = errors.New("cannot prepare an invalid payment")
)

// Context aggregates everything needed to analyze payments: an exchange rate
// window, a fee window, the wallet's balance projection, the user's primary
// currency, and the minimum fee rate floor. Contexts are short-lived,
// per-analysis-session values; all fields are immutable after construction.
type Context struct {
	rateWindow      *rates.Window
	feeWindow       *feewindow.Window
	sizes           *nts.NextTransactionSize
	primaryCurrency string
	minFeeRate      float64

	// derived fee options, computed at most once
	optionsOnce     sync.Once
	optionsByRank   []feewindow.Option // ascending confirmation target
	optionsByTarget map[int]feewindow.Option
}

// NewContext creates a payment context. The fee window guarantees at least
// one targeted fee.
func NewContext(
	rateWindow *rates.Window,
	feeWindow *feewindow.Window,
	sizes *nts.NextTransactionSize,
	primaryCurrency string,
	minFeeRate float64,
) *Context {

	return &Context{
		rateWindow:      rateWindow,
		feeWindow:       feeWindow,
		sizes:           sizes,
		primaryCurrency: primaryCurrency,
		minFeeRate:      minFeeRate,
	}
}

// RateWindow returns the exchange rate window this context analyzes against.
func (c *Context) RateWindow() *rates.Window {
	return c.rateWindow
}

// FeeWindow returns the fee window this context analyzes against.
func (c *Context) FeeWindow() *feewindow.Window {
	return c.feeWindow
}

// Sizes returns the balance projection this context analyzes against.
func (c *Context) Sizes() *nts.NextTransactionSize {
	return c.sizes
}

// PrimaryCurrency returns the user's primary display currency.
func (c *Context) PrimaryCurrency() string {
	return c.primaryCurrency
}

// UserBalance returns the total balance shown to the user, independent of
// fees.
func (c *Context) UserBalance() btcutil.Amount {
	return c.sizes.UserBalance()
}

// UtxoBalance returns the total UTXO balance, independent of fees.
func (c *Context) UtxoBalance() btcutil.Amount {
	return c.sizes.UtxoBalance()
}

// MinimumFeeRate returns the configured fee rate floor, in satoshis per
// vbyte.
func (c *Context) MinimumFeeRate() float64 {
	return c.minFeeRate
}

// feeOptions derives one fee option per targeted fee, sorted by ascending
// confirmation target. Computed once per context; safe under concurrent
// first access.
func (c *Context) feeOptions() []feewindow.Option {
	c.optionsOnce.Do(func() {
		targets := c.feeWindow.Targets()
		c.optionsByRank = make([]feewindow.Option, 0, len(targets))
		c.optionsByTarget = make(map[int]feewindow.Option, len(targets))

		for _, target := range targets {
			rate, _ := c.feeWindow.RateFor(target)
			calculator := feewindow.NewCalculator(rate, c.sizes)
			option := feewindow.NewOption(rate, target, calculator.Fee(c.UserBalance()))

			c.optionsByRank = append(c.optionsByRank, option)
			c.optionsByTarget[target] = option
		}
	})

	return c.optionsByRank
}

// ClosestFeeOptionFasterThan returns the option with the lowest fee rate that
// still confirms at or before the given target. We make no guesses (no
// averages or interpolations), so the fee may overshoot when the window is
// sparse. If every known target is slower than requested, the fastest known
// option is returned: overshooting beats failing to quote.
func (c *Context) ClosestFeeOptionFasterThan(confirmationTarget int) (feewindow.Option, error) {
	if confirmationTarget < 1 {
		return feewindow.Option{}, errors.Wrapf(feewindow.ErrInvalidConfTarget, "got %d", confirmationTarget)
	}

	options := c.feeOptions()

	for closestTarget := confirmationTarget; closestTarget >= 1; closestTarget-- {
		if option, ok := c.optionsByTarget[closestTarget]; ok {
			return option, nil
		}
	}

	// All known targets are slower than requested. Odd, but not illogical:
	// use the fastest one.
	return options[0], nil
}

// FastFeeOption returns the option for the window's fast target.
func (c *Context) FastFeeOption() feewindow.Option {
	option, _ := c.ClosestFeeOptionFasterThan(c.feeWindow.FastConfTarget())
	return option
}

// MediumFeeOption returns the option for the window's medium target.
func (c *Context) MediumFeeOption() feewindow.Option {
	option, _ := c.ClosestFeeOptionFasterThan(c.feeWindow.MediumConfTarget())
	return option
}

// SlowFeeOption returns the option for the window's slow target.
func (c *Context) SlowFeeOption() feewindow.Option {
	option, _ := c.ClosestFeeOptionFasterThan(c.feeWindow.SlowConfTarget())
	return option
}

// FeeOptions returns all derived options, sorted by ascending confirmation
// target. The slice is shared; callers must not mutate it.
func (c *Context) FeeOptions() []feewindow.Option {
	return c.feeOptions()
}

// EstimateMaxTimeMsFor returns the estimated maximum wait for a transaction
// paying at least the given rate: the shortest wait among options the rate
// affords. Rates below the cheapest known option fall back to the cheapest
// option's wait, so the estimate degrades by overshooting, never by failing.
// No rate-vs-target monotonicity is assumed of the window.
func (c *Context) EstimateMaxTimeMsFor(satsPerVByte float64) int64 {
	var cheapest *feewindow.Option
	var best *feewindow.Option

	options := c.feeOptions()
	for i := range options {
		option := &options[i]
		if cheapest == nil || option.FeeRate < cheapest.FeeRate {
			cheapest = option
		}
		if option.FeeRate <= satsPerVByte {
			if best == nil || option.MaxWaitTimeMs < best.MaxWaitTimeMs {
				best = option
			}
		}
	}

	if best == nil {
		best = cheapest
	}

	return best.MaxWaitTimeMs
}

// Analyze validates a request against the wallet's balance and fee model.
// Non-fundable payments are normal results, never errors; a missing amount is
// a caller bug and fails.
func (c *Context) Analyze(payReq Request) (*Analysis, error) {
	if payReq.Amount == nil {
		return nil, ErrMissingAmount
	}

	return newAnalyzer(c, payReq).analyze()
}

// AnalyzeUseAllFunds simulates sending the whole spendable balance to the
// request's destination, in the request's currency. The original request is
// not mutated.
func (c *Context) AnalyzeUseAllFunds(payReq Request) (*Analysis, error) {
	balance := c.UserBalance()

	allFunds, err := c.Convert(balance, c.useAllFundsCurrency(payReq))
	if err != nil {
		return nil, err
	}

	simulated := payReq.
		WithAmount(allFunds).
		WithTakeFeeFromAmount(true)

	// Swap-aware requests that already carry route fee data account for the
	// full amount on their own; don't re-amend those.
	if payReq.Swap == nil || payReq.Swap.BestRouteFees == nil {
		simulated = simulated.WithSwapAmount(balance)
	}

	// The display amount is rounded to its currency's exponent; the balance
	// stays the authoritative satoshi amount, so the round trip can neither
	// overdraw the wallet nor strand dust.
	simulated.amountInSat = &balance

	return c.Analyze(simulated)
}

func (c *Context) useAllFundsCurrency(payReq Request) string {
	if payReq.Amount != nil {
		return payReq.Amount.Currency
	}
	if payReq.Currency != "" {
		return payReq.Currency
	}

	return c.primaryCurrency
}

// Prepare analyzes a request and, only if valid, builds a PreparedPayment
// ready for the transaction-building stage.
func (c *Context) Prepare(payReq Request) (*PreparedPayment, error) {
	analysis, err := c.Analyze(payReq)
	if err != nil {
		return nil, err
	}

	if !analysis.IsValid() {
		return nil, errors.Wrap(ErrInvalidAnalysis, analysis.Status.String())
	}
	if analysis.Fee == nil || analysis.Total == nil {
		// Implied by validity, checked for defensive clarity.
		return nil, ErrInvalidAnalysis
	}

	return &PreparedPayment{
		Amount:       analysis.Amount,
		Fee:          *analysis.Fee,
		Description:  analysis.PayReq.Description,
		RateWindowID: analysis.RateWindow.WindowID(),
		Outpoints:    c.sizes.ExtractOutpoints(),
		PayReq:       analysis.PayReq,
	}, nil
}

// ConvertToSatoshis converts a monetary amount to satoshis through this
// context's rate window.
func (c *Context) ConvertToSatoshis(amount money.Amount) (btcutil.Amount, error) {
	inBitcoin, err := c.rateWindow.Convert(amount, "BTC")
	if err != nil {
		return 0, err
	}

	return money.BTCToSatoshis(inBitcoin)
}

// Convert converts satoshis to an amount in the target currency.
func (c *Context) Convert(sats btcutil.Amount, targetCurrency string) (money.Amount, error) {
	return c.rateWindow.ConvertSats(sats, targetCurrency)
}

// ConvertToBitcoin converts satoshis to a BTC-denominated amount.
func (c *Context) ConvertToBitcoin(sats btcutil.Amount) money.Amount {
	return money.SatoshisToBTC(sats)
}

// ConvertAmount converts a monetary amount to another currency.
func (c *Context) ConvertAmount(amount money.Amount, targetCurrency string) (money.Amount, error) {
	return c.rateWindow.Convert(amount, targetCurrency)
}

// ConvertToBitcoinAmount converts satoshis to a BitcoinAmount carrying the
// value in both the input currency and the user's primary currency.
func (c *Context) ConvertToBitcoinAmount(sats btcutil.Amount, inputCurrency string) (money.BitcoinAmount, error) {
	inInput, err := c.Convert(sats, inputCurrency)
	if err != nil {
		return money.BitcoinAmount{}, err
	}

	inPrimary, err := c.Convert(sats, c.primaryCurrency)
	if err != nil {
		return money.BitcoinAmount{}, err
	}

	return money.BitcoinAmount{
		InSatoshis:        sats,
		InInputCurrency:   inInput,
		InPrimaryCurrency: inPrimary,
	}, nil
}
