package charts

import (
	"fmt"
	"strings"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

// PoolNameNormalizer folds solo miner payout addresses into a single bucket.
// Solo miners are recognized by a fixed name prefix; an empty prefix disables folding.
type PoolNameNormalizer struct {
	soloPrefix string
}

// NewPoolNameNormalizer creates a normalizer for the given solo prefix.
func NewPoolNameNormalizer(soloPrefix string) PoolNameNormalizer {
	return PoolNameNormalizer{soloPrefix: soloPrefix}
}

// IsSolo reports whether raw looks like a solo miner payout address.
func (n PoolNameNormalizer) IsSolo(raw string) bool {
	return n.soloPrefix != "" && strings.HasPrefix(raw, n.soloPrefix)
}

// Normalize returns the grouping name for raw.
func (n PoolNameNormalizer) Normalize(raw string) string {
	if n.IsSolo(raw) {
		return soloBucket
	}
	return raw
}

// Label renders the display name of a group, appending the solo count to the solo bucket.
func (n PoolNameNormalizer) Label(name string, soloCount int) string {
	if name == soloBucket {
		return fmt.Sprintf("%s (%d)", soloBucket, soloCount)
	}
	return name
}

// Tally counts blocks per pool in first-seen order. With mergeSolo the solo
// payout addresses share one slice labeled with the number of solo blocks.
func (n PoolNameNormalizer) Tally(blocks []model.Block, mergeSolo bool) []model.Slice {
	index := make(map[string]int, len(blocks))
	slices := make([]model.Slice, 0, len(blocks))
	solo := 0

	for _, b := range blocks {
		name := b.PoolInfo.PoolName
		if mergeSolo {
			if n.IsSolo(name) {
				solo++
			}
			name = n.Normalize(name)
		}
		i, ok := index[name]
		if !ok {
			i = len(slices)
			index[name] = i
			slices = append(slices, model.Slice{Name: name})
		}
		slices[i].Count++
	}

	if mergeSolo && solo > 0 {
		i := index[soloBucket]
		slices[i].Name = n.Label(soloBucket, solo)
	}
	return slices
}
