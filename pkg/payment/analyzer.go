package payment

import (
	"github.com/btcsuite/btcd/btcutil"

	"github.com/correonano/apollo/pkg/feewindow"
)

// analyzer validates a single request against one payment context. It is
// stateless between runs: analyzing the same request twice yields identical
// results.
type analyzer struct {
	payCtx *Context
	payReq Request
}

func newAnalyzer(payCtx *Context, payReq Request) *analyzer {
	return &analyzer{payCtx: payCtx, payReq: payReq}
}

func (a *analyzer) analyze() (*Analysis, error) {
	amountInSat, err := a.resolveAmount()
	if err != nil {
		return nil, err
	}

	rate := a.feeRate()
	calculator := feewindow.NewCalculator(rate, a.payCtx.sizes)

	if a.payReq.TakeFeeFromAmount {
		return a.analyzeFeeFromAmount(amountInSat, calculator)
	}

	return a.analyzeFeeOnTop(amountInSat, calculator)
}

// resolveAmount returns the satoshi value of the request: the carried
// authoritative value when present, the converted display amount otherwise.
func (a *analyzer) resolveAmount() (btcutil.Amount, error) {
	if a.payReq.amountInSat != nil {
		return *a.payReq.amountInSat, nil
	}

	return a.payCtx.ConvertToSatoshis(*a.payReq.Amount)
}

// feeRate resolves the applicable rate: the request's explicit choice when
// present, the medium option otherwise, floored at the configured minimum.
func (a *analyzer) feeRate() float64 {
	rate := a.payCtx.MediumFeeOption().FeeRate
	if a.payReq.FeeRateInSatsPerVByte != nil {
		rate = *a.payReq.FeeRateInSatsPerVByte
	}

	if rate < a.payCtx.minFeeRate {
		rate = a.payCtx.minFeeRate
	}

	return rate
}

func (a *analyzer) swapFee(amount btcutil.Amount) btcutil.Amount {
	if a.payReq.Swap == nil {
		return 0
	}

	swapAmount := a.payReq.Swap.Amount
	if swapAmount == 0 {
		swapAmount = amount
	}

	return a.payReq.Swap.RouteFeeFor(swapAmount)
}

// analyzeFeeOnTop handles the regular case: the stated amount reaches the
// recipient and the fee is charged on top.
func (a *analyzer) analyzeFeeOnTop(amountInSat btcutil.Amount, calc *feewindow.Calculator) (*Analysis, error) {
	balance := a.payCtx.UserBalance()

	if amountInSat > balance {
		return a.invalid(amountInSat, StatusAmountExceedsBalance)
	}

	fee := calc.Fee(amountInSat) + a.swapFee(amountInSat)
	total := amountInSat + fee

	if total > balance {
		return a.invalid(amountInSat, StatusTotalExceedsBalance)
	}

	return a.valid(amountInSat, fee, total)
}

// analyzeFeeFromAmount handles takeFeeFromAmount: the stated amount is the
// gross total leaving the wallet, and the recipient gets what remains after
// the fee.
func (a *analyzer) analyzeFeeFromAmount(amountInSat btcutil.Amount, calc *feewindow.Calculator) (*Analysis, error) {
	balance := a.payCtx.UserBalance()

	if amountInSat > balance {
		return a.invalid(amountInSat, StatusAmountExceedsBalance)
	}

	fee := calc.FeeFromAmount(amountInSat) + a.swapFee(amountInSat)
	if fee >= amountInSat {
		return a.invalid(amountInSat, StatusFeeExceedsAmount)
	}

	// The recipient amount absorbs the fee, so total stays exactly at the
	// stated amount.
	return a.valid(amountInSat-fee, fee, amountInSat)
}

func (a *analyzer) valid(amount, fee, total btcutil.Amount) (*Analysis, error) {
	currency := a.requestCurrency()

	amountBtc, err := a.payCtx.ConvertToBitcoinAmount(amount, currency)
	if err != nil {
		return nil, err
	}

	feeBtc, err := a.payCtx.ConvertToBitcoinAmount(fee, currency)
	if err != nil {
		return nil, err
	}

	totalBtc, err := a.payCtx.ConvertToBitcoinAmount(total, currency)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		PayReq:     a.payReq,
		Status:     StatusValid,
		Amount:     amountBtc,
		Fee:        &feeBtc,
		Total:      &totalBtc,
		RateWindow: a.payCtx.rateWindow,
	}, nil
}

func (a *analyzer) invalid(amount btcutil.Amount, status Status) (*Analysis, error) {
	amountBtc, err := a.payCtx.ConvertToBitcoinAmount(amount, a.requestCurrency())
	if err != nil {
		return nil, err
	}

	return &Analysis{
		PayReq:     a.payReq,
		Status:     status,
		Amount:     amountBtc,
		RateWindow: a.payCtx.rateWindow,
	}, nil
}

func (a *analyzer) requestCurrency() string {
	if a.payReq.Amount != nil {
		return a.payReq.Amount.Currency
	}
	if a.payReq.Currency != "" {
		return a.payReq.Currency
	}

	return "BTC"
}
