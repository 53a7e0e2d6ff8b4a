package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/correonano/apollo/pkg/feewindow"
	"github.com/correonano/apollo/pkg/nts"
	"github.com/correonano/apollo/pkg/payment"
	"github.com/correonano/apollo/pkg/rates"
)

// session input file layout
type sessionInput struct {
	RateWindow struct {
		WindowID int64                      `json:"windowId"`
		Rates    map[string]decimal.Decimal `json:"rates"`
	} `json:"rateWindow"`

	FeeWindow struct {
		WindowID     int64           `json:"windowId"`
		TargetedFees map[int]float64 `json:"targetedFees"`
		Fast         int             `json:"fast"`
		Medium       int             `json:"medium"`
		Slow         int             `json:"slow"`
	} `json:"feeWindow"`

	UTXOs             []nts.UTXO      `json:"utxos"`
	ExpectedDebtInSat btcutil.Amount  `json:"expectedDebtInSat"`
	Request           payment.Request `json:"request"`
}

func loadSession(path string) (*sessionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read session file %q", path)
	}

	var input sessionInput
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.Wrap(err, "failed to parse session file")
	}

	return &input, nil
}

// resolveRateWindow prefers a live fetch from the rate service when one is
// configured, falling back to the session file's rates.
func (in *sessionInput) resolveRateWindow() (*rates.Window, error) {
	if options.ratesURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return rates.NewClient(options.ratesURL, logger).FetchWindow(ctx)
	}

	return rates.NewWindow(in.RateWindow.WindowID, time.Now(), in.RateWindow.Rates)
}

func (in *sessionInput) buildContext() (*payment.Context, error) {
	rateWindow, err := in.resolveRateWindow()
	if err != nil {
		return nil, err
	}

	feeWindow, err := feewindow.NewWindow(
		in.FeeWindow.WindowID,
		time.Now(),
		in.FeeWindow.TargetedFees,
		in.FeeWindow.Fast,
		in.FeeWindow.Medium,
		in.FeeWindow.Slow,
	)
	if err != nil {
		return nil, err
	}

	sizes, err := nts.Build(in.UTXOs, in.ExpectedDebtInSat)
	if err != nil {
		return nil, err
	}

	return payment.NewContext(rateWindow, feeWindow, sizes, options.primaryCurrency, options.minFeeRate), nil
}
