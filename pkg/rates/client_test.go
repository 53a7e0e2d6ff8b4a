package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/correonano/apollo/pkg/money"
)

func TestFetchWindow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"windowId": 3, "rates": {"USD": 50000.5, "EUR": 40000}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	window, err := client.FetchWindow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), window.WindowID())

	rate, err := window.Rate("USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.RequireFromString("50000.5")))

	// fetched windows convert like any other
	converted, err := window.Convert(money.NewFromFloat(1, "BTC"), "EUR")
	require.NoError(t, err)
	assert.True(t, converted.Value.Equal(decimal.NewFromInt(40_000)))
}

func TestFetchWindowServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.FetchWindow(context.Background())
	assert.Error(t, err)
}

func TestFetchWindowBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"windowId": 3, "rates": {}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	_, err := client.FetchWindow(context.Background())
	assert.Error(t, err)
}
