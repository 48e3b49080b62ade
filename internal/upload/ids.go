package upload

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator issues file ids. Every call must return a value never
// returned before, including calls made within the same instant.
type IDGenerator interface {
	NextID() string
}

// UUIDv7Generator issues time-ordered UUIDs. The uuid package keeps v7
// values strictly increasing within a process.
type UUIDv7Generator struct{}

// NextID returns a new UUIDv7 string.
func (UUIDv7Generator) NextID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SequenceGenerator issues ids from an atomic counter.
type SequenceGenerator struct {
	prefix string
	seq    atomic.Int64
}

// NewSequenceGenerator creates a generator producing "<prefix>-1", "<prefix>-2", ...
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NextID returns the next id in sequence.
func (g *SequenceGenerator) NextID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.seq.Add(1))
}

// NewIDGenerator returns the generator for a configured strategy name.
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", "uuid":
		return UUIDv7Generator{}, nil
	case "sequence":
		return NewSequenceGenerator("file"), nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
