package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	. "github.com/ahmetb/go-linq/v3"

	"github.com/correonano/apollo/pkg/feewindow"
	"github.com/correonano/apollo/pkg/nts"
	"github.com/correonano/apollo/pkg/payment"
)

var feesOptions struct {
	sessionFile string
	targets     []int
	fast        int
	medium      int
	slow        int
}

// feesCommand fetches the current fee window from bitcoin core and prints the
// derived fee options for the wallet described by the session file.
var feesCommand = &cobra.Command{
	Use:   "fees",
	Short: "Shows current fee options",
	Long:  `Fetches a fee window from bitcoin core and shows the derived fee options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := feewindow.NewRPCSource(options.btcRPCURL, options.btcRPCUser, options.btcRPCPassword, logger)
		if err != nil {
			return err
		}
		defer source.Close()

		window, err := source.FetchWindow(feesOptions.targets, feesOptions.fast, feesOptions.medium, feesOptions.slow)
		if err != nil {
			return err
		}

		session, err := loadSession(feesOptions.sessionFile)
		if err != nil {
			return err
		}

		rateWindow, err := session.resolveRateWindow()
		if err != nil {
			return err
		}

		sizes, err := nts.Build(session.UTXOs, session.ExpectedDebtInSat)
		if err != nil {
			return err
		}

		payCtx := payment.NewContext(rateWindow, window, sizes, options.primaryCurrency, options.minFeeRate)

		for _, option := range payCtx.FeeOptions() {
			logger.Info("fee option",
				zap.Int("target", option.ConfirmationTarget),
				zap.Float64("satsPerVbyte", option.FeeRate),
				zap.Int64("estimatedFeeInSat", int64(option.EstimatedFee)),
				zap.Duration("maxWait", option.MaxWaitTime()),
			)
		}

		avgRate := From(payCtx.FeeOptions()).SelectT(func(o feewindow.Option) float64 {
			return o.FeeRate
		}).Average()

		maxFee := From(payCtx.FeeOptions()).SelectT(func(o feewindow.Option) int64 {
			return int64(o.EstimatedFee)
		}).Max()

		logger.Info("stats",
			zap.Any("fast", payCtx.FastFeeOption()),
			zap.Any("medium", payCtx.MediumFeeOption()),
			zap.Any("slow", payCtx.SlowFeeOption()),
			zap.Float64("avg rate", avgRate),
			zap.Any("max estimated fee", maxFee),
			zap.Float64("min fee rate", payCtx.MinimumFeeRate()),
			zap.Int64("user balance", int64(payCtx.UserBalance())),
		)

		return nil
	},
}

func init() {
	RootCmd.AddCommand(feesCommand)

	feesCommand.Flags().StringVarP(&feesOptions.sessionFile, "session", "s", "session.json", "session file with rates and utxos")
	feesCommand.Flags().IntSliceVarP(&feesOptions.targets, "targets", "t", []int{1, 2, 3, 6, 12, 24}, "confirmation targets to query")
	feesCommand.Flags().IntVarP(&feesOptions.fast, "fast", "", 1, "fast confirmation target")
	feesCommand.Flags().IntVarP(&feesOptions.medium, "medium", "", 6, "medium confirmation target")
	feesCommand.Flags().IntVarP(&feesOptions.slow, "slow", "", 24, "slow confirmation target")
}
