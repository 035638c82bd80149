package engine

import (
	"sync"

	"golang.org/x/exp/rand"
)

// zobristRange keeps keys inside the 53-bit range so fingerprints survive a
// round trip through JSON numbers.
const zobristRange = 1 << 53

const cellStates = 3

// Zobrist holds one key per (cell, state) pair, including the Empty state.
// Tables are immutable once built and shared by every board of the same size
// and seed.
type Zobrist struct {
	size  int
	keys  []uint64
	empty uint64
}

type zobristKey struct {
	size int
	seed uint64
}

type zobristStore struct {
	mu     sync.Mutex
	tables map[zobristKey]*Zobrist
}

// maxZobristTables caps the cache. Once full it is emptied; boards keep the
// tables they already hold.
const maxZobristTables = 16

var zobristTables = &zobristStore{tables: make(map[zobristKey]*Zobrist)}

func GetZobrist(size int, seed uint64) *Zobrist {
	zobristTables.mu.Lock()
	defer zobristTables.mu.Unlock()
	k := zobristKey{size: size, seed: seed}
	if table, ok := zobristTables.tables[k]; ok {
		return table
	}
	rng := rand.New(&splitmix64{state: seed ^ uint64(size)})
	table := &Zobrist{size: size, keys: make([]uint64, size*size*cellStates)}
	for i := range table.keys {
		table.keys[i] = rng.Uint64n(zobristRange)
	}
	for idx := 0; idx < size*size; idx++ {
		table.empty ^= table.key(idx, CellEmpty)
	}
	if len(zobristTables.tables) >= maxZobristTables {
		clear(zobristTables.tables)
	}
	zobristTables.tables[k] = table
	return table
}

func (z *Zobrist) key(idx int, c Cell) uint64 {
	return z.keys[idx*cellStates+int(c)]
}

// Empty is the fingerprint of a board with no stones.
func (z *Zobrist) Empty() uint64 {
	return z.empty
}

// Toggle moves the cell at idx from state old to state new.
func (z *Zobrist) Toggle(code uint64, idx int, old, new Cell) uint64 {
	return code ^ z.key(idx, old) ^ z.key(idx, new)
}

// Compute hashes a full cell slice from scratch.
func (z *Zobrist) Compute(cells []Cell) uint64 {
	var code uint64
	for idx, c := range cells {
		code ^= z.key(idx, c)
	}
	return code
}

// splitmix64 is a rand.Source with a tiny state, so tables are reproducible
// from a single seed.
type splitmix64 struct {
	state uint64
}

func (s *splitmix64) Seed(seed uint64) {
	s.state = seed
}

func (s *splitmix64) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
