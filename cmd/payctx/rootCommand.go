package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "payctx",
	Short: "payment context",
	Long:  `Bitcoin payment analysis and fee quotation.`,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("Something went terribly wrong: %v", err)
		os.Exit(-1)
	}
}

var (
	options struct {
		btcRPCURL       string
		btcRPCUser      string
		btcRPCPassword  string
		ratesURL        string
		primaryCurrency string
		minFeeRate      float64
	}
)

func init() {
	logger, _ = zap.NewDevelopment(zap.AddStacktrace(zapcore.FatalLevel))

	RootCmd.PersistentFlags().StringVarP(&options.btcRPCURL, "url", "", "127.0.0.1:8332", "bitcoin rpc url")
	RootCmd.PersistentFlags().StringVarP(&options.btcRPCUser, "user", "u", "bitcoinrpc", "bitcoin rpc username")
	RootCmd.PersistentFlags().StringVarP(&options.btcRPCPassword, "password", "p", "", "bitcoin rpc password")
	RootCmd.PersistentFlags().StringVarP(&options.ratesURL, "rates-url", "r", "", "exchange rate service url (overrides the session file rates)")
	RootCmd.PersistentFlags().StringVarP(&options.primaryCurrency, "currency", "c", "USD", "primary display currency")
	RootCmd.PersistentFlags().Float64VarP(&options.minFeeRate, "min-fee-rate", "", 1.0, "minimum fee rate in sats/vbyte")
}
