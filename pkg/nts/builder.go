package nts

import (
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// UTXO is a spendable output as reported by the wallet's accounting backend.
type UTXO struct {
	Value  btcutil.Amount `json:"value"`
	TxHash string         `json:"txHash"`
	Index  uint32         `json:"index"`
	Height int64          `json:"height"`
}

// Assuming P2WPKH spends throughout.
const (
	vbytesTransactionOverhead = 11
	vbytesPerOutput           = 31
	vbytesPerInput            = 68
)

// Build computes the size progression for a UTXO set. Outputs are added
// largest-first, so small amounts are spendable with few inputs. Each step
// assumes one recipient output plus one change output.
func Build(utxos []UTXO, expectedDebt btcutil.Amount) (*NextTransactionSize, error) {
	sorted := make([]UTXO, len(utxos))
	copy(sorted, utxos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})

	progression := make([]SizeForAmount, 0, len(sorted))
	total := btcutil.Amount(0)

	for i, utxo := range sorted {
		hash, err := chainhash.NewHashFromStr(utxo.TxHash)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid tx hash %q", utxo.TxHash)
		}

		total += utxo.Value
		size := int64(vbytesTransactionOverhead + (i+1)*vbytesPerInput + 2*vbytesPerOutput)
		progression = append(progression, SizeForAmount{
			AmountInSatoshis: total,
			SizeInVBytes:     size,
			Outpoint:         *wire.NewOutPoint(hash, utxo.Index),
		})
	}

	return &NextTransactionSize{
		SizeProgression:   progression,
		ExpectedDebtInSat: expectedDebt,
	}, nil
}
