package subtitle

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// source of block ids; ids are opaque and never reused for another block
type IDGenerator interface {
	NewID() string
}

// random ids for interactive sessions
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// deterministic "prefix-N" ids
type CounterGenerator struct {
	prefix string
	next   atomic.Int64
}

func NewCounterGenerator(prefix string) *CounterGenerator {
	if prefix == "" {
		prefix = "block"
	}
	return &CounterGenerator{prefix: prefix}
}

func (g *CounterGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
