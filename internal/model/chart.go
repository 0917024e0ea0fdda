package model

import "fmt"

// Category names a supported chart.
type Category string

const (
	BlockSize     Category = "block-size"
	BlockInterval Category = "block-interval"
	Difficulty    Category = "difficulty"
	MiningRevenue Category = "mining-revenue"
	PoolStat      Category = "pool-stat"
	MinedBlock    Category = "mined-block"
)

var categoryNames = map[Category]string{
	BlockSize:     "Block Size",
	BlockInterval: "Block Interval",
	Difficulty:    "Difficulty",
	MiningRevenue: "Mining revenue",
	PoolStat:      "Pool Stat",
	MinedBlock:    "Mined Block",
}

// Categories returns every supported category in display order.
func Categories() []Category {
	return []Category{BlockSize, BlockInterval, Difficulty, MiningRevenue, PoolStat, MinedBlock}
}

// ParseCategory validates a raw category key.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if _, ok := categoryNames[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// DisplayName returns the human readable chart name.
func (c Category) DisplayName() string {
	return categoryNames[c]
}

// Window is an inclusive range of unix timestamps.
type Window struct {
	Lower int64
	Upper int64
}

// Point is a single value plotted against a block height.
type Point struct {
	Height int64
	Value  float64
}

// Series is a height-indexed time series.
type Series struct {
	Key    string
	Label  string
	Points []Point
}

// BreakdownStyle selects how a categorical breakdown is rendered.
type BreakdownStyle string

const (
	Pie BreakdownStyle = "pie"
	Bar BreakdownStyle = "bar"
)

// Slice is one named share of a breakdown.
type Slice struct {
	Name  string
	Count int
}

// Breakdown is a categorical count of blocks.
type Breakdown struct {
	Style  BreakdownStyle
	Slices []Slice
}

// Payload is a computed chart. Exactly one of Series and Breakdown is set.
type Payload struct {
	Category  Category
	Name      string
	Window    Window
	Series    *Series
	Breakdown *Breakdown
}
