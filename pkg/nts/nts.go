// Package nts models the next-transaction-size balance projection: a
// progressive table of how large a transaction gets as it spends more of the
// wallet's outputs, used for fee-aware spendable-balance accounting.
package nts

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
)

// SizeForAmount is one step of the size progression: spending up to
// AmountInSatoshis requires a transaction of SizeInVBytes, with Outpoint as
// the last input added.
type SizeForAmount struct {
	AmountInSatoshis btcutil.Amount
	SizeInVBytes     int64
	Outpoint         wire.OutPoint
}

// NextTransactionSize is the wallet's balance projection. SizeProgression is
// sorted by ascending cumulative amount and must not be mutated after
// construction.
type NextTransactionSize struct {
	SizeProgression   []SizeForAmount
	ExpectedDebtInSat btcutil.Amount
}

// UtxoBalance returns the sum of all spendable outputs, independent of fees.
func (n *NextTransactionSize) UtxoBalance() btcutil.Amount {
	if len(n.SizeProgression) == 0 {
		return 0
	}

	return n.SizeProgression[len(n.SizeProgression)-1].AmountInSatoshis
}

// UserBalance returns the balance presented to the user: the UTXO balance
// minus any expected debt, never below zero.
func (n *NextTransactionSize) UserBalance() btcutil.Amount {
	balance := n.UtxoBalance() - n.ExpectedDebtInSat
	if balance < 0 {
		return 0
	}

	return balance
}

// MaxSizeInVBytes returns the size of a transaction spending the whole
// balance.
func (n *NextTransactionSize) MaxSizeInVBytes() int64 {
	if len(n.SizeProgression) == 0 {
		return 0
	}

	return n.SizeProgression[len(n.SizeProgression)-1].SizeInVBytes
}

// ExtractOutpoints returns an independent copy of the outpoints that would be
// consumed by the next transaction.
func (n *NextTransactionSize) ExtractOutpoints() []wire.OutPoint {
	outpoints := make([]wire.OutPoint, 0, len(n.SizeProgression))
	for _, s := range n.SizeProgression {
		outpoints = append(outpoints, s.Outpoint)
	}

	return outpoints
}
