package bitcoin

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// SubsidySchedule describes a halving block reward.
type SubsidySchedule struct {
	Initial         btcutil.Amount
	HalvingInterval int64
}

// DefaultSubsidySchedule derives the schedule from chain parameters.
func DefaultSubsidySchedule(params *chaincfg.Params) SubsidySchedule {
	return SubsidySchedule{
		Initial:         btcutil.Amount(blockchain.CalcBlockSubsidy(0, params)),
		HalvingInterval: int64(params.SubsidyReductionInterval),
	}
}

// NewSubsidySchedule builds a schedule from an initial reward in coins.
func NewSubsidySchedule(initialCoins float64, halvingInterval int64) (SubsidySchedule, error) {
	if halvingInterval <= 0 {
		return SubsidySchedule{}, errors.New("halving interval must be positive")
	}
	initial, err := btcutil.NewAmount(initialCoins)
	if err != nil {
		return SubsidySchedule{}, fmt.Errorf("initial subsidy: %w", err)
	}
	if initial <= 0 {
		return SubsidySchedule{}, fmt.Errorf("initial subsidy must be positive, got %v", initial)
	}
	return SubsidySchedule{Initial: initial, HalvingInterval: halvingInterval}, nil
}

// At returns the subsidy of the block at height.
func (s SubsidySchedule) At(height int64) btcutil.Amount {
	if s.HalvingInterval <= 0 || height < 0 {
		return 0
	}
	halvings := height / s.HalvingInterval
	if halvings >= 64 {
		return 0
	}
	return s.Initial >> uint(halvings)
}
