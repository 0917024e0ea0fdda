package bitcoin

import (
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// NodeClient is the subset of the btcd rpcclient used here.
	NodeClient interface {
		GetBlockCount() (int64, error)
		GetBlockVerbose(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
		GetRawTransactionVerbose(txHash *chainhash.Hash) (*btcjson.TxRawResult, error)
		RawRequest(method string, params []json.RawMessage) (json.RawMessage, error)
	}

	// Node is what Source needs from an instrumented node connection.
	Node interface {
		GetBlockCount() (int64, error)
		GetBlockHashes(high, low int64) ([]string, error)
		GetBlockVerbose(hash string) (*btcjson.GetBlockVerboseResult, error)
		GetRawTransactionVerbose(txid string) (*btcjson.TxRawResult, error)
	}
)
