package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-charts/pkg/safe"
)

// ErrTransactionNotFound is returned when no outputs are indexed for a txid.
var ErrTransactionNotFound = errors.New("transaction not indexed")

// DetailedTransaction returns the total output value of an indexed transaction.
func (r *Repository) DetailedTransaction(ctx context.Context, txid string) (tx model.DetailedTransaction, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("detailed_transaction", r.coin, r.network, err, start)
	}()

	const query = `
SELECT
	outputs,
	total
FROM utxo_transaction_output_totals
WHERE coin = ? AND network = ? AND txid = ?
SETTINGS max_threads = 1`

	var outputs, total uint64
	row := r.conn.QueryRow(ctx, query, string(r.coin), string(r.network), txid)
	if err = row.Scan(&outputs, &total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("%w: %s", ErrTransactionNotFound, txid)
			return model.DetailedTransaction{}, err
		}
		err = fmt.Errorf("query transaction %s totals: %w", txid, err)
		return model.DetailedTransaction{}, err
	}
	if outputs == 0 {
		err = fmt.Errorf("%w: %s", ErrTransactionNotFound, txid)
		return model.DetailedTransaction{}, err
	}

	sats, err := safe.Int64(total)
	if err != nil {
		err = fmt.Errorf("transaction %s total: %w", txid, err)
		return model.DetailedTransaction{}, err
	}
	return model.DetailedTransaction{TxID: txid, OutputSatoshis: sats}, nil
}
