package testutil

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// fixtureNamespace is the UUIDv5 namespace for fixture ids.
var fixtureNamespace = uuid.MustParse("6f1c7a52-3f0e-4c61-9d8a-2b7e5c4d1a90")

// DeterministicIDs hands out reproducible UUIDs for tests.
//
// The n-th call to Next returns the same id in every run, so fixtures built
// from it produce identical documents, SQL parameters and golden output.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicIDs struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicIDs creates a generator whose first id is derived from 1.
func NewDeterministicIDs() *DeterministicIDs {
	return &DeterministicIDs{}
}

// Next returns the id for the next sequence number.
func (g *DeterministicIDs) Next() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return IDFor(g.seq)
}

// Reset rewinds the generator. After Reset, Next starts over.
func (g *DeterministicIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// IDFor returns the id Next produces for sequence number seq.
func IDFor(seq int64) uuid.UUID {
	return uuid.NewSHA1(fixtureNamespace, strconv.AppendInt(nil, seq, 10))
}
