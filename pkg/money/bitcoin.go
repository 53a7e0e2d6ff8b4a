package money

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// BitcoinPrecision is the number of decimal places in one bitcoin.
	BitcoinPrecision = 8
)

// ErrNotBitcoin is returned when a conversion to satoshis is attempted on a
// non-BTC amount.
var ErrNotBitcoin = errors.New("amount is not denominated in BTC")

// SatoshisToBTC converts satoshis to a BTC-denominated Amount. Exact, no
// rounding involved.
func SatoshisToBTC(sats btcutil.Amount) Amount {
	return Amount{Value: decimal.New(int64(sats), -BitcoinPrecision), Currency: "BTC"}
}

// BTCToSatoshis converts a BTC-denominated Amount to satoshis, rounding
// half-even to the nearest satoshi.
func BTCToSatoshis(amount Amount) (btcutil.Amount, error) {
	if amount.Currency != "BTC" {
		return 0, errors.Wrapf(ErrNotBitcoin, "got %s", amount.Currency)
	}

	sats := amount.Value.Shift(BitcoinPrecision).RoundBank(0)
	return btcutil.Amount(sats.IntPart()), nil
}

// BitcoinAmount carries a bitcoin value simultaneously in satoshis, in the
// currency it was input in, and in the user's primary currency, for
// dual-display purposes.
type BitcoinAmount struct {
	InSatoshis        btcutil.Amount
	InInputCurrency   Amount
	InPrimaryCurrency Amount
}
