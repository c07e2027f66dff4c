package cts

import (
	"fmt"
	"strings"

	"github.com/sasic-place/sasic-place/place"
)

// DefaultMaxLeafSinks is the partition size driven directly by one buffer.
const DefaultMaxLeafSinks = 4

// Config selects the sink and buffer types and shapes the tree.
type Config struct {
	SinkTypes   []place.CellType // clock sinks (flip-flops)
	BufferTypes []place.CellType // buffer/inverter slots usable as tree nodes
	// MaxLeafSinks stops the recursion: a partition with at most this many
	// sinks is driven directly by its buffer. Must be >= 1.
	MaxLeafSinks int
	// MaxBufferDistance rejects buffers farther (Manhattan) than this from a
	// partition center. 0 = unlimited.
	MaxBufferDistance float64
}

// NewConfig returns a config with types picked by DefaultTypes.
func NewConfig(reg *place.TypeRegistry) Config {
	sinks, bufs := DefaultTypes(reg)
	return Config{SinkTypes: sinks, BufferTypes: bufs, MaxLeafSinks: DefaultMaxLeafSinks}
}

// DefaultTypes picks clock sinks and buffers by cell name: the part after
// the last "__" (library prefix) starting with "df" is a flip-flop, one
// starting with "buf", "clkbuf" or "inv" is a buffer.
func DefaultTypes(reg *place.TypeRegistry) (sinks, bufs []place.CellType) {
	for t := 0; t < reg.Len(); t++ {
		name := strings.ToLower(reg.Name(place.CellType(t)))
		if i := strings.LastIndex(name, "__"); i >= 0 {
			name = name[i+2:]
		}
		switch {
		case strings.HasPrefix(name, "df"):
			sinks = append(sinks, place.CellType(t))
		case strings.HasPrefix(name, "buf"), strings.HasPrefix(name, "clkbuf"), strings.HasPrefix(name, "inv"):
			bufs = append(bufs, place.CellType(t))
		}
	}
	return sinks, bufs
}

// ResolveTypes maps type names to CellTypes. Unknown names are a *place.ConfigError.
func ResolveTypes(reg *place.TypeRegistry, field string, names []string) ([]place.CellType, error) {
	out := make([]place.CellType, 0, len(names))
	for _, n := range names {
		t, ok := reg.Lookup(n)
		if !ok {
			return nil, &place.ConfigError{Field: field, Reason: fmt.Sprintf("unknown cell type %q", n)}
		}
		out = append(out, t)
	}
	return out, nil
}

// Validate rejects unusable configurations with *place.ConfigError.
func (c Config) Validate() error {
	if c.MaxLeafSinks < 1 {
		return &place.ConfigError{Field: "max_leaf_sinks", Reason: fmt.Sprintf("must be >= 1, got %d", c.MaxLeafSinks)}
	}
	if c.MaxBufferDistance < 0 {
		return &place.ConfigError{Field: "max_buffer_distance", Reason: fmt.Sprintf("must be >= 0, got %v", c.MaxBufferDistance)}
	}
	for _, s := range c.SinkTypes {
		for _, b := range c.BufferTypes {
			if s == b {
				return &place.ConfigError{Field: "buffer_types", Reason: "a type cannot be both sink and buffer"}
			}
		}
	}
	return nil
}
