package bitcoin

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// RPCClient wraps a node client with metrics instrumentation.
type RPCClient struct {
	client     NodeClient
	rpcMetrics RPCMetrics
}

// NewRPCClient constructs an instrumented RPC client.
func NewRPCClient(client NodeClient, rpcMetrics RPCMetrics) *RPCClient {
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
	}
}

// GetBlockCount returns the latest block count.
func (r *RPCClient) GetBlockCount() (count int64, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_count", err, started)
	}()
	return r.client.GetBlockCount()
}

// GetBlockHashes returns hashes of blocks with timestamps in [low, high] using the
// timestamp index of insight-enabled nodes.
func (r *RPCClient) GetBlockHashes(high, low int64) (hashes []string, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_hashes", err, started)
	}()

	params := make([]json.RawMessage, 0, 2)
	for _, v := range []int64{high, low} {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal getblockhashes param: %w", err)
		}
		params = append(params, raw)
	}

	res, err := r.client.RawRequest("getblockhashes", params)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(res, &hashes); err != nil {
		return nil, fmt.Errorf("decode getblockhashes result: %w", err)
	}
	return hashes, nil
}

// GetBlockVerbose returns a block with transaction ids.
func (r *RPCClient) GetBlockVerbose(hash string) (res *btcjson.GetBlockVerboseResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_block_verbose", err, started)
	}()

	h, err := chainhash.NewHashFromStr(hash)
	if err != nil {
		return nil, fmt.Errorf("parse block hash %q: %w", hash, err)
	}
	return r.client.GetBlockVerbose(h)
}

// GetRawTransactionVerbose returns a decoded transaction.
func (r *RPCClient) GetRawTransactionVerbose(txid string) (res *btcjson.TxRawResult, err error) {
	started := time.Now()
	defer func() {
		r.rpcMetrics.Observe("get_raw_transaction_verbose", err, started)
	}()

	h, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, fmt.Errorf("parse txid %q: %w", txid, err)
	}
	return r.client.GetRawTransactionVerbose(h)
}
