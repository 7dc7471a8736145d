package testfixtures

import (
	"fmt"
	"sync/atomic"
)

// IDGenerator yields "<prefix>-1", "<prefix>-2", ... so test assertions can
// predict the identifiers a service will assign.
type IDGenerator struct {
	prefix string
	seq    atomic.Uint64
}

// NewIDGenerator builds a generator over prefix, defaulting to "id" when the
// prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

// Next yields the next identifier in the sequence.
func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.seq.Add(1))
}

// NextFunc adapts the generator to the id-func shape the services expect. A
// nil generator yields empty identifiers.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}
