package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a monetary amount in a single currency.
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// New creates an Amount from a decimal value and a currency code.
func New(value decimal.Decimal, currency string) Amount {
	return Amount{Value: value, Currency: currency}
}

// NewFromFloat creates an Amount from a float value and a currency code.
func NewFromFloat(value float64, currency string) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Currency: currency}
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Value.String(), a.Currency)
}

// Exponent returns the number of decimal places of the minimal unit for a
// currency code. BTC uses 8 (satoshis), zero-decimal currencies 0, the rest 2.
func Exponent(currency string) int32 {
	switch currency {
	case "BTC":
		return BitcoinPrecision
	case "JPY", "KRW", "CLP", "VND":
		return 0
	default:
		return 2
	}
}
