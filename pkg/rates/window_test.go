package rates

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/correonano/apollo/pkg/money"
)

func newTestWindow(t *testing.T) *Window {
	window, err := NewWindow(7, time.Now(), map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(50_000),
		"EUR": decimal.NewFromInt(40_000),
	})
	require.NoError(t, err)
	return window
}

func TestNewWindowRequiresRates(t *testing.T) {
	_, err := NewWindow(1, time.Now(), nil)
	assert.True(t, errors.Is(err, ErrNoRates))
}

func TestNewWindowCopiesRates(t *testing.T) {
	rates := map[string]decimal.Decimal{"USD": decimal.NewFromInt(50_000)}
	window, err := NewWindow(1, time.Now(), rates)
	require.NoError(t, err)

	rates["USD"] = decimal.NewFromInt(1)

	rate, err := window.Rate("USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(50_000)))
}

func TestBTCRateIsAlwaysOne(t *testing.T) {
	rate, err := newTestWindow(t).Rate("BTC")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestConvert(t *testing.T) {
	window := newTestWindow(t)

	tests := []struct {
		amount   money.Amount
		target   string
		expected string
	}{
		{money.NewFromFloat(1, "BTC"), "USD", "50000"},
		{money.NewFromFloat(2, "BTC"), "EUR", "80000"},
		{money.NewFromFloat(50_000, "USD"), "BTC", "1"},
		{money.NewFromFloat(50_000, "USD"), "EUR", "40000"},
		{money.NewFromFloat(1, "USD"), "USD", "1"},
	}

	for _, test := range tests {
		converted, err := window.Convert(test.amount, test.target)
		require.NoError(t, err)
		assert.Equal(t, test.target, converted.Currency)
		assert.True(t, converted.Value.Equal(decimal.RequireFromString(test.expected)),
			"%s -> %s: got %s, want %s", test.amount, test.target, converted.Value, test.expected)
	}
}

func TestConvertUnknownCurrency(t *testing.T) {
	window := newTestWindow(t)

	_, err := window.Convert(money.NewFromFloat(1, "ARS"), "USD")
	assert.True(t, errors.Is(err, ErrUnknownCurrency))

	_, err = window.Convert(money.NewFromFloat(1, "USD"), "ARS")
	assert.True(t, errors.Is(err, ErrUnknownCurrency))
}

func TestSatsRoundTripExactInBTC(t *testing.T) {
	window := newTestWindow(t)

	for _, sats := range []btcutil.Amount{1, 546, 100_000_000, 123_456_789} {
		inBtc, err := window.ConvertSats(sats, "BTC")
		require.NoError(t, err)

		back, err := money.BTCToSatoshis(inBtc)
		require.NoError(t, err)
		assert.Equal(t, sats, back)
	}
}

func TestSatsRoundTripWithinOneMinimalUnit(t *testing.T) {
	window := newTestWindow(t)

	// one cent, expressed in satoshis at this window's rate
	oneCent, err := window.Convert(money.NewFromFloat(0.01, "USD"), "BTC")
	require.NoError(t, err)
	tolerance, err := money.BTCToSatoshis(oneCent)
	require.NoError(t, err)

	for _, sats := range []btcutil.Amount{1, 546, 99_999, 123_456_789, 100_000_000} {
		inUsd, err := window.ConvertSats(sats, "USD")
		require.NoError(t, err)

		inBtc, err := window.Convert(inUsd, "BTC")
		require.NoError(t, err)

		back, err := money.BTCToSatoshis(inBtc)
		require.NoError(t, err)

		diff := back - sats
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, tolerance, "round trip of %d drifted by %d sats", sats, diff)
	}
}

func TestRatesReturnsIndependentCopy(t *testing.T) {
	window := newTestWindow(t)

	copied := window.Rates()
	copied["USD"] = 1

	rate, err := window.Rate("USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(50_000)))
}
