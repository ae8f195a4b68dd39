package idgen

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator hands out identifiers for accounts and acts.
type Generator interface {
	NewID() string
}

// Sequence produces "<seq>.<dd>" identifiers: a monotonically increasing
// counter followed by two random digits. Ids are unique for the lifetime of
// the generator only; the counter restarts with the process.
type Sequence struct {
	next atomic.Uint64
}

// NewSequence returns a Sequence starting at zero.
func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) NewID() string {
	n := s.next.Add(1) - 1
	return fmt.Sprintf("%d.%02d", n, rand.IntN(100))
}

// UUID produces random version 4 UUIDs, for stores where ids must survive
// restarts.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.New().String()
}

// ForStrategy maps a configured strategy name to a generator.
func ForStrategy(name string) (Generator, error) {
	switch name {
	case "", "seq", "sequence":
		return NewSequence(), nil
	case "uuid":
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", name)
	}
}

var (
	_ Generator = (*Sequence)(nil)
	_ Generator = UUID{}
)
