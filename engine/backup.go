package engine

// backupSlots covers the four 9-cell lines through a centre cell.
const backupSlots = directionCount * (2*lineHalf + 1)

// HeuristicBackup is a value snapshot of the heuristic cache along the four
// lines through one cell. It is only accepted by Remove for that same cell.
type HeuristicBackup struct {
	center Move
	valid  bool
	n      int
	index  [backupSlots]int
	scores [backupSlots]cellScores
}

func (h HeuristicBackup) Center() Move {
	return h.center
}

// Len is the number of in-bounds cells captured, the centre counted once per
// line.
func (h HeuristicBackup) Len() int {
	return h.n
}

func (b *Board) BackupHeuristic(x, y int) HeuristicBackup {
	backup := HeuristicBackup{center: Move{X: x, Y: y}, valid: true}
	for dir := Direction(0); dir < directionCount; dir++ {
		for _, m := range LineCoords(x, y, dir) {
			if !b.InBounds(m.X, m.Y) {
				continue
			}
			idx := b.index(m.X, m.Y)
			backup.index[backup.n] = idx
			backup.scores[backup.n] = b.heur[idx]
			backup.n++
		}
	}
	return backup
}

func (b *Board) restore(backup HeuristicBackup) {
	for i := 0; i < backup.n; i++ {
		b.heur[backup.index[i]] = backup.scores[i]
	}
}
