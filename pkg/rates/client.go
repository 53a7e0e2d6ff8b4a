package rates

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client fetches exchange rate windows from a rate service over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewClient creates a rate-service client for the given endpoint.
func NewClient(url string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		logger:     logger,
	}
}

// rate service response
type windowResponse struct {
	WindowID int64                      `json:"windowId"`
	Rates    map[string]decimal.Decimal `json:"rates"`
}

// FetchWindow fetches the current exchange rate window.
func (c *Client) FetchWindow(ctx context.Context) (*Window, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build rates request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch rates")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var body windowResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "failed to decode rates response")
	}

	window, err := NewWindow(body.WindowID, time.Now(), body.Rates)
	if err != nil {
		return nil, err
	}

	c.logger.Info("fetched rate window",
		zap.Int64("windowId", window.WindowID()),
		zap.Int("currencies", len(body.Rates)),
	)

	return window, nil
}
