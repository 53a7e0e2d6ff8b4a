package payment

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/correonano/apollo/pkg/money"
)

// PreparedPayment is the terminal, execution-ready value handed to the
// transaction-building stage. Only constructible from a valid analysis, via
// Context.Prepare.
type PreparedPayment struct {
	Amount       money.BitcoinAmount
	Fee          money.BitcoinAmount
	Description  string
	RateWindowID int64
	Outpoints    []wire.OutPoint
	PayReq       Request
}
