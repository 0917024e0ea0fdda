package bitcoin

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

//go:embed pools.yaml
var defaultPools []byte

// Pool is a mining pool recognized by tags in the coinbase script.
type Pool struct {
	Name string   `yaml:"name"`
	URL  string   `yaml:"url"`
	Tags []string `yaml:"tags"`
}

type poolsFile struct {
	Pools []Pool `yaml:"pools"`
}

// PoolMatcher identifies pools from coinbase scripts. The first pool with a matching tag wins.
type PoolMatcher struct {
	pools []Pool
}

// LoadPools reads a pools file, or the embedded list when path is empty.
func LoadPools(path string) (*PoolMatcher, error) {
	data := defaultPools
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read pools file: %w", err)
		}
		data = raw
	}
	return ParsePools(data)
}

// ParsePools decodes a YAML pools document.
func ParsePools(data []byte) (*PoolMatcher, error) {
	var file poolsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	for i, p := range file.Pools {
		if p.Name == "" {
			return nil, fmt.Errorf("pool #%d: name is required", i)
		}
		if len(p.Tags) == 0 {
			return nil, fmt.Errorf("pool %q: at least one tag is required", p.Name)
		}
		for _, tag := range p.Tags {
			if tag == "" {
				return nil, fmt.Errorf("pool %q: empty tag", p.Name)
			}
		}
	}
	return &PoolMatcher{pools: file.Pools}, nil
}

// Match looks for a known tag in the raw coinbase script.
func (m *PoolMatcher) Match(coinbase []byte) (model.PoolInfo, bool) {
	for _, p := range m.pools {
		for _, tag := range p.Tags {
			if bytes.Contains(coinbase, []byte(tag)) {
				return model.PoolInfo{PoolName: p.Name, URL: p.URL}, true
			}
		}
	}
	return model.PoolInfo{}, false
}

// Len returns the number of known pools.
func (m *PoolMatcher) Len() int {
	return len(m.pools)
}
