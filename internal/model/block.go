package model

// PoolInfo identifies who mined a block.
type PoolInfo struct {
	PoolName string
	URL      string
}

// Block is a block record as supplied by a block source. It is never mutated by aggregation.
type Block struct {
	Hash       string
	Height     int64
	Timestamp  int64
	Size       int64
	Difficulty float64
	// Reward is the block subsidy in coins.
	Reward   float64
	TxIDs    []string
	PoolInfo PoolInfo
}

// DetailedTransaction carries the realized output value of a transaction.
type DetailedTransaction struct {
	TxID           string
	OutputSatoshis int64
}
