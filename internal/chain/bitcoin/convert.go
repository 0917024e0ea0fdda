// Package bitcoin reads blocks and transactions from bitcoin-family nodes.
package bitcoin

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"

	"github.com/goodnatureofminers/blockinsight7000-charts/pkg/safe"
)

// CoinsToSatoshis converts a coin amount to satoshis, rejecting negative values.
func CoinsToSatoshis(value float64) (int64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return int64(amt), nil
}

// OutputSatoshis sums the value of every output of tx.
func OutputSatoshis(tx btcjson.TxRawResult) (int64, error) {
	var total int64
	for _, vout := range tx.Vout {
		sats, err := CoinsToSatoshis(vout.Value)
		if err != nil {
			return 0, fmt.Errorf("tx %s output %d value: %w", tx.Txid, vout.N, err)
		}
		total, err = safe.AddInt64(total, sats)
		if err != nil {
			return 0, fmt.Errorf("tx %s output total: %w", tx.Txid, err)
		}
	}
	return total, nil
}
