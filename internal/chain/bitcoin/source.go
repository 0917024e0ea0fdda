package bitcoin

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

const unknownPool = "Unknown"

// Source serves block records and transaction totals from a node.
type Source struct {
	node    Node
	subsidy SubsidySchedule
	pools   *PoolMatcher
	decoder *scriptDecoder
}

// NewSource creates a Source. params are used to decode payout scripts the node
// reports without addresses.
func NewSource(node Node, subsidy SubsidySchedule, pools *PoolMatcher, params *chaincfg.Params) (*Source, error) {
	if node == nil {
		return nil, errors.New("node is required")
	}
	if pools == nil {
		return nil, errors.New("pool matcher is required")
	}
	if params == nil {
		return nil, errors.New("chain params are required")
	}
	if subsidy.HalvingInterval <= 0 {
		return nil, errors.New("subsidy halving interval must be positive")
	}
	return &Source{
		node:    node,
		subsidy: subsidy,
		pools:   pools,
		decoder: newScriptDecoder(params),
	}, nil
}

// LatestHeight returns the height of the node tip.
func (s *Source) LatestHeight(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count, err := s.node.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("get block count: %w", err)
	}
	return count, nil
}

// Ping reports whether the node answers RPC calls.
func (s *Source) Ping(ctx context.Context) error {
	_, err := s.LatestHeight(ctx)
	return err
}

// BlockHashesByTimestamp returns hashes of blocks with timestamps in [lower, upper], ordered by height.
func (s *Source) BlockHashesByTimestamp(ctx context.Context, lower, upper int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hashes, err := s.node.GetBlockHashes(upper, lower)
	if err != nil {
		return nil, fmt.Errorf("get block hashes in [%d, %d]: %w", lower, upper, err)
	}
	return hashes, nil
}

// BlockByHash fetches a block and identifies who mined it.
func (s *Source) BlockByHash(ctx context.Context, hash string) (model.Block, error) {
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	src, err := s.node.GetBlockVerbose(hash)
	if err != nil {
		return model.Block{}, fmt.Errorf("get block %s: %w", hash, err)
	}
	if len(src.Tx) == 0 {
		return model.Block{}, fmt.Errorf("block %s has no coinbase transaction", hash)
	}

	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	pool, err := s.poolInfo(src.Tx[0])
	if err != nil {
		return model.Block{}, fmt.Errorf("block %s pool: %w", hash, err)
	}

	return model.Block{
		Hash:       src.Hash,
		Height:     src.Height,
		Timestamp:  src.Time,
		Size:       int64(src.Size),
		Difficulty: src.Difficulty,
		Reward:     s.subsidy.At(src.Height).ToBTC(),
		TxIDs:      append([]string(nil), src.Tx...),
		PoolInfo:   pool,
	}, nil
}

// DetailedTransaction returns the total output value of a transaction.
func (s *Source) DetailedTransaction(ctx context.Context, txid string) (model.DetailedTransaction, error) {
	if err := ctx.Err(); err != nil {
		return model.DetailedTransaction{}, err
	}
	tx, err := s.node.GetRawTransactionVerbose(txid)
	if err != nil {
		return model.DetailedTransaction{}, fmt.Errorf("get transaction %s: %w", txid, err)
	}
	total, err := OutputSatoshis(*tx)
	if err != nil {
		return model.DetailedTransaction{}, err
	}
	return model.DetailedTransaction{TxID: txid, OutputSatoshis: total}, nil
}

func (s *Source) poolInfo(coinbaseTxID string) (model.PoolInfo, error) {
	tx, err := s.node.GetRawTransactionVerbose(coinbaseTxID)
	if err != nil {
		return model.PoolInfo{}, fmt.Errorf("get coinbase %s: %w", coinbaseTxID, err)
	}

	if len(tx.Vin) > 0 && tx.Vin[0].Coinbase != "" {
		script, err := hex.DecodeString(tx.Vin[0].Coinbase)
		if err == nil {
			if info, ok := s.pools.Match(script); ok {
				return info, nil
			}
		}
	}

	for _, vout := range tx.Vout {
		addr, err := s.decoder.firstAddress(vout)
		if err != nil {
			continue
		}
		if addr != "" {
			return model.PoolInfo{PoolName: addr}, nil
		}
	}
	return model.PoolInfo{PoolName: unknownPool}, nil
}
