package engine

// BoardSnapshot is a deep copy of every incrementally maintained structure
// of a Board. Two snapshots are equal iff the boards are indistinguishable.
type BoardSnapshot struct {
	Cells       []Cell
	Stones      int
	Neighbors   []int
	Close       [2][]int
	Heuristic   [][2][directionCount]int
	Fingerprint uint64
}

func (b *Board) Snapshot() BoardSnapshot {
	snap := BoardSnapshot{
		Cells:       append([]Cell(nil), b.cells...),
		Stones:      b.stones,
		Neighbors:   append([]int(nil), b.neighbors...),
		Fingerprint: b.code,
		Heuristic:   make([][2][directionCount]int, len(b.heur)),
	}
	snap.Close[SideEngine] = append([]int(nil), b.close[SideEngine]...)
	snap.Close[SideOpponent] = append([]int(nil), b.close[SideOpponent]...)
	for i, scores := range b.heur {
		snap.Heuristic[i] = scores
	}
	return snap
}
