package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/correonano/apollo/pkg/libwallet"
	"github.com/correonano/apollo/pkg/payment"
)

var analyzeOptions struct {
	sessionFile string
	useAllFunds bool
	prepare     bool
	project     bool
}

// analyzeCommand runs payment analysis for the request in a session file.
var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Analyzes a payment request",
	Long:  `Analyzes the payment request in a session file against the wallet's balance and fee model.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := loadSession(analyzeOptions.sessionFile)
		if err != nil {
			return err
		}

		payCtx, err := session.buildContext()
		if err != nil {
			return err
		}

		var analysis *payment.Analysis
		if analyzeOptions.useAllFunds {
			analysis, err = payCtx.AnalyzeUseAllFunds(session.Request)
		} else {
			analysis, err = payCtx.Analyze(session.Request)
		}
		if err != nil {
			return err
		}

		logAnalysis(analysis)

		if analyzeOptions.prepare {
			prepared, err := payCtx.Prepare(analysis.PayReq)
			if err != nil {
				return err
			}

			logger.Info("prepared payment",
				zap.Int64("amountInSat", int64(prepared.Amount.InSatoshis)),
				zap.Int64("feeInSat", int64(prepared.Fee.InSatoshis)),
				zap.Int64("rateWindowId", prepared.RateWindowID),
				zap.Int("outpoints", len(prepared.Outpoints)),
			)
		}

		if analyzeOptions.project {
			projected := libwallet.FromPaymentContext(payCtx, session.Request.Swap)
			logger.Info("libwallet projection",
				zap.Int64("feeWindowId", projected.FeeWindow.WindowID),
				zap.Int64("rateWindowId", projected.ExchangeRateWindow.WindowID),
				zap.Int64("minFeeRateSatsPerVbyte", projected.MinFeeRateInSatsPerVByte),
				zap.String("primaryCurrency", projected.PrimaryCurrency),
			)
		}

		return nil
	},
}

func logAnalysis(analysis *payment.Analysis) {
	fields := []zap.Field{
		zap.Stringer("status", analysis.Status),
		zap.Int64("amountInSat", int64(analysis.Amount.InSatoshis)),
		zap.String("amount", analysis.Amount.InInputCurrency.String()),
	}

	if analysis.Fee != nil {
		fields = append(fields,
			zap.Int64("feeInSat", int64(analysis.Fee.InSatoshis)),
			zap.String("fee", analysis.Fee.InPrimaryCurrency.String()),
		)
	}
	if analysis.Total != nil {
		fields = append(fields,
			zap.Int64("totalInSat", int64(analysis.Total.InSatoshis)),
			zap.String("total", analysis.Total.InPrimaryCurrency.String()),
		)
	}

	logger.Info("payment analysis", fields...)
}

func init() {
	RootCmd.AddCommand(analyzeCommand)

	analyzeCommand.Flags().StringVarP(&analyzeOptions.sessionFile, "session", "s", "session.json", "session file with rates, fees, utxos and request")
	analyzeCommand.Flags().BoolVarP(&analyzeOptions.useAllFunds, "all-funds", "a", false, "simulate sending the whole balance")
	analyzeCommand.Flags().BoolVarP(&analyzeOptions.prepare, "prepare", "", false, "prepare the payment if valid")
	analyzeCommand.Flags().BoolVarP(&analyzeOptions.project, "libwallet", "", false, "print the libwallet projection")
}
