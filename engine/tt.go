package engine

type Bound uint8

const (
	BoundInvalid Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	default:
		return "invalid"
	}
}

// Entry is one transposition slot. A slot can carry a backed-up search value
// (Bound != BoundInvalid), a cached static evaluation (EvalValid), or both.
type Entry struct {
	Key       uint64
	Stones    int
	Value     int
	Bound     Bound
	Depth     int
	EvalValid bool
	Eval      int
	Gen       uint32
	Valid     bool
}

type ProbeResult uint8

const (
	ProbeMiss ProbeResult = iota
	ProbeHit
	// ProbeCollision means the fingerprint matched but the stone count did
	// not. It is a miss for every purpose except diagnostics.
	ProbeCollision
)

// TranspositionTable is a set-associative memo keyed by board fingerprint.
// It belongs to a single search session and is not safe for concurrent use.
type TranspositionTable struct {
	mask       uint64
	buckets    int
	entries    []Entry
	gen        uint32
	collisions int
}

func NewTranspositionTable(size uint64, buckets int) *TranspositionTable {
	if buckets <= 0 {
		buckets = 2
	}
	if size < 1 {
		size = 1
	}
	if (size & (size - 1)) != 0 {
		size = nextPowerOfTwo(size)
	}
	return &TranspositionTable{
		mask:    size - 1,
		buckets: buckets,
		entries: make([]Entry, int(size)*buckets),
		gen:     1,
	}
}

// NextGeneration ages every stored entry by one decision.
func (tt *TranspositionTable) NextGeneration() {
	tt.gen++
	if tt.gen == 0 {
		tt.gen = 1
	}
}

func (tt *TranspositionTable) Generation() uint32 {
	return tt.gen
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.entries {
		tt.entries[i] = Entry{}
	}
	tt.gen = 1
	tt.collisions = 0
}

func (tt *TranspositionTable) bucketIndex(key uint64) int {
	return int(key&tt.mask) * tt.buckets
}

func (tt *TranspositionTable) Probe(key uint64, stones int) (Entry, ProbeResult) {
	start := tt.bucketIndex(key)
	for i := 0; i < tt.buckets; i++ {
		entry := tt.entries[start+i]
		if !entry.Valid || entry.Key != key {
			continue
		}
		if entry.Stones != stones {
			tt.collisions++
			return Entry{}, ProbeCollision
		}
		return entry, ProbeHit
	}
	return Entry{}, ProbeMiss
}

// StoreBound records a backed-up value. It reports whether the table changed.
func (tt *TranspositionTable) StoreBound(key uint64, stones, depth, value int, bound Bound) bool {
	idx, fresh := tt.slot(key, stones)
	entry := &tt.entries[idx]
	if !fresh && !shouldReplace(*entry, depth, value, bound) {
		return false
	}
	if fresh {
		*entry = Entry{Key: key, Stones: stones, Valid: true}
	}
	entry.Value = value
	entry.Bound = bound
	entry.Depth = depth
	entry.Gen = tt.gen
	return true
}

// StoreEval caches a static evaluation without touching the stored bound.
func (tt *TranspositionTable) StoreEval(key uint64, stones, eval int) {
	idx, fresh := tt.slot(key, stones)
	entry := &tt.entries[idx]
	if fresh {
		*entry = Entry{Key: key, Stones: stones, Valid: true}
	}
	entry.EvalValid = true
	entry.Eval = eval
	entry.Gen = tt.gen
}

// slot finds the entry for (key, stones). fresh is true when the returned slot
// holds something else and must be reinitialised.
func (tt *TranspositionTable) slot(key uint64, stones int) (idx int, fresh bool) {
	start := tt.bucketIndex(key)
	victim := -1
	for i := 0; i < tt.buckets; i++ {
		pos := start + i
		entry := tt.entries[pos]
		if entry.Valid && entry.Key == key {
			return pos, entry.Stones != stones
		}
		if !entry.Valid {
			if victim == -1 || tt.entries[victim].Valid {
				victim = pos
			}
			continue
		}
		if victim == -1 || evictsBefore(entry, tt.entries[victim]) {
			victim = pos
		}
	}
	return victim, true
}

// evictsBefore prefers the shallower entry, then the older one.
func evictsBefore(a, b Entry) bool {
	if !b.Valid {
		return false
	}
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.Gen < b.Gen
}

// shouldReplace applies the depth-priority policy to an entry for the same
// position.
func shouldReplace(old Entry, depth, value int, bound Bound) bool {
	switch {
	case old.Bound == BoundInvalid:
		return true
	case bound == BoundExact:
		return depth >= old.Depth
	case old.Bound == BoundExact:
		return depth > old.Depth
	case bound == old.Bound:
		if depth != old.Depth {
			return depth > old.Depth
		}
		if bound == BoundLower {
			return value > old.Value
		}
		return value < old.Value
	default:
		return depth >= old.Depth
	}
}

func (tt *TranspositionTable) Count() int {
	if tt == nil {
		return 0
	}
	count := 0
	for i := range tt.entries {
		if tt.entries[i].Valid {
			count++
		}
	}
	return count
}

func (tt *TranspositionTable) Capacity() int {
	if tt == nil {
		return 0
	}
	return len(tt.entries)
}

// Collisions counts probes whose fingerprint matched a different stone count.
func (tt *TranspositionTable) Collisions() int {
	if tt == nil {
		return 0
	}
	return tt.collisions
}

func nextPowerOfTwo(v uint64) uint64 {
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v |= v >> 32
	v++
	return v
}
