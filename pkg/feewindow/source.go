package feewindow

import (
	"encoding/base64"
	"net/http"
	"sort"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
	"go.uber.org/zap"
)

// RPCSource fetches fee windows from a bitcoin core node, using
// estimatesmartfee for each confirmation target.
type RPCSource struct {
	rpcClient  *rpcclient.Client
	jsonClient jsonrpc.RPCClient
	logger     *zap.Logger
}

// newBitcoinClient creates a new bitcoin JSON RPC client
func newBitcoinClient(httpClient *http.Client, targetURL string, username, password string) jsonrpc.RPCClient {
	targetURL = "http://" + targetURL
	headers := make(map[string]string)
	if username != "" || password != "" {
		headers["Authorization"] = "Basic " + basicAuth(username, password)
	}

	rpcOpts := jsonrpc.RPCClientOpts{
		CustomHeaders: headers,
		HTTPClient:    httpClient,
	}

	return jsonrpc.NewClientWithOpts(targetURL, &rpcOpts)
}

// basicAuth converts username and password to base64-encoded string
// that can be used in `Authorization` header with `Basic` prefix
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// NewRPCSource connects to a bitcoin core RPC server in HTTP POST mode.
func NewRPCSource(btcRPCURL, btcRPCUser, btcRPCPassword string, logger *zap.Logger) (*RPCSource, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         btcRPCURL,
		User:         btcRPCUser,
		Pass:         btcRPCPassword,
		HTTPPostMode: true, // bitcoin core only supports HTTP POST mode
		DisableTLS:   true, // bitcoin core does not provide TLS by default
	}

	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rpc client")
	}

	httpClient := &http.Client{
		Transport: &http.Transport{},
	}

	return &RPCSource{
		rpcClient:  client,
		jsonClient: newBitcoinClient(httpClient, btcRPCURL, btcRPCUser, btcRPCPassword),
		logger:     logger,
	}, nil
}

// EstimateSmartFee returns the estimatesmartfee rate for a confirmation
// target, in satoshis per vbyte.
func (s *RPCSource) EstimateSmartFee(target int) (float64, error) {
	type smartFeeResponse struct {
		FeeRate float64 `json:"feerate"` // BTC per kvB
		Blocks  int64   `json:"blocks"`
	}

	// https://bitcoincore.org/en/doc/0.17.0/rpc/util/estimatesmartfee/
	var fee smartFeeResponse
	err := s.jsonClient.CallFor(&fee, "estimatesmartfee", target)
	if err != nil {
		return 0, errors.Wrapf(err, "estimatesmartfee failed for target %d", target)
	}

	return fee.FeeRate * 1e8 / 1000, nil
}

// FetchWindow builds a fee window by querying estimatesmartfee for every
// requested confirmation target. The window is versioned with the current
// best block height.
func (s *RPCSource) FetchWindow(targets []int, fast, medium, slow int) (*Window, error) {
	hash, height, err := s.rpcClient.GetBestBlock()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get best block")
	}

	sorted := make([]int, len(targets))
	copy(sorted, targets)
	sort.Ints(sorted)

	targetedFees := make(map[int]float64, len(sorted))
	for _, target := range sorted {
		rate, err := s.EstimateSmartFee(target)
		if err != nil {
			return nil, err
		}

		targetedFees[target] = rate
		s.logger.Info("estimated fee rate",
			zap.Int("target", target),
			zap.Float64("satsPerVbyte", rate),
		)
	}

	window, err := NewWindow(int64(height), time.Now(), targetedFees, fast, medium, slow)
	if err != nil {
		return nil, err
	}

	s.logger.Info("fetched fee window",
		zap.Int32("height", height),
		zap.Stringer("hash", hash),
		zap.Int("targets", len(targetedFees)),
	)

	return window, nil
}

// Close shuts down the underlying RPC client.
func (s *RPCSource) Close() {
	s.rpcClient.Shutdown()
	s.rpcClient.WaitForShutdown()
}
