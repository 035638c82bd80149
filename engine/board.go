package engine

import (
	"strings"
)

const (
	// neighborRadius gates candidate generation.
	neighborRadius = 2
	// closeRadius feeds the same-side cluster bonus.
	closeRadius = 1
)

// cellScores is the heuristic cache of one cell: the pattern score of the
// line through it in each direction, as if the given side played there.
type cellScores [2][directionCount]int

// Board is the incrementally maintained game state. Every Place keeps the
// stone count, neighbor counters, heuristic cache and fingerprint in sync so
// that search never rescans the whole grid.
type Board struct {
	size      int
	cells     []Cell
	stones    int
	neighbors []int
	close     [2][]int
	heur      []cellScores
	bonus     int
	zobrist   *Zobrist
	code      uint64
}

func NewBoard(cfg Config) *Board {
	size := cfg.BoardSize
	b := &Board{
		size:      size,
		cells:     make([]Cell, size*size),
		neighbors: make([]int, size*size),
		heur:      make([]cellScores, size*size),
		bonus:     cfg.ClusterBonusPercent,
		zobrist:   GetZobrist(size, cfg.ZobristSeed),
	}
	b.close[SideEngine] = make([]int, size*size)
	b.close[SideOpponent] = make([]int, size*size)
	b.code = b.zobrist.Empty()
	return b
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) Stones() int {
	return b.stones
}

func (b *Board) Fingerprint() uint64 {
	return b.code
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

func (b *Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b *Board) IsFull() bool {
	return b.stones == b.size*b.size
}

// HasNeighbor reports whether any stone lies within two cells of (x, y).
func (b *Board) HasNeighbor(x, y int) bool {
	return b.neighbors[b.index(x, y)] > 0
}

// Center is the fallback move on an empty board.
func (b *Board) Center() Move {
	return Move{X: b.size / 2, Y: b.size / 2}
}

// Place puts a stone of side on (x, y).
func (b *Board) Place(x, y int, side Side) error {
	if !b.InBounds(x, y) {
		return illegal("place", x, y, ErrOutOfBounds)
	}
	idx := b.index(x, y)
	if b.cells[idx] != CellEmpty {
		return illegal("place", x, y, ErrOccupied)
	}
	cell := side.Cell()
	b.cells[idx] = cell
	b.stones++
	b.updateNeighbors(x, y, side, 1)
	b.refreshLines(x, y)
	b.code = b.zobrist.Toggle(b.code, idx, CellEmpty, cell)
	return nil
}

// Remove takes the stone off (x, y) and restores the heuristic cache from a
// backup captured right before the matching Place.
func (b *Board) Remove(x, y int, backup HeuristicBackup) error {
	if !b.InBounds(x, y) {
		return illegal("remove", x, y, ErrOutOfBounds)
	}
	idx := b.index(x, y)
	cell := b.cells[idx]
	if cell == CellEmpty {
		return illegal("remove", x, y, ErrEmptyCell)
	}
	if !backup.valid || backup.center != (Move{X: x, Y: y}) {
		return illegal("remove", x, y, ErrBackupMismatch)
	}
	side, _ := SideFromCell(cell)
	b.cells[idx] = CellEmpty
	b.stones--
	b.updateNeighbors(x, y, side, -1)
	b.restore(backup)
	b.code = b.zobrist.Toggle(b.code, idx, cell, CellEmpty)
	return nil
}

// Play places a stone and returns the closure that undoes it. The closure
// is safe to call more than once; only the first call has an effect.
func (b *Board) Play(x, y int, side Side) (undo func(), err error) {
	backup := b.BackupHeuristic(x, y)
	if err := b.Place(x, y, side); err != nil {
		return func() {}, err
	}
	done := false
	return func() {
		if done {
			return
		}
		done = true
		if err := b.Remove(x, y, backup); err != nil {
			panic(err)
		}
	}, nil
}

func (b *Board) updateNeighbors(x, y int, side Side, delta int) {
	last := b.size - 1
	for j := clamp(y-neighborRadius, 0, last); j <= clamp(y+neighborRadius, 0, last); j++ {
		for i := clamp(x-neighborRadius, 0, last); i <= clamp(x+neighborRadius, 0, last); i++ {
			if i == x && j == y {
				continue
			}
			idx := b.index(i, j)
			b.neighbors[idx] += delta
			if abs(i-x) <= closeRadius && abs(j-y) <= closeRadius {
				b.close[side][idx] += delta
			}
		}
	}
}

// refreshLines recomputes, for every empty cell on the four lines through
// (x, y), the cache entry of that line's direction.
func (b *Board) refreshLines(x, y int) {
	for dir := Direction(0); dir < directionCount; dir++ {
		for _, m := range LineCoords(x, y, dir) {
			if b.IsEmpty(m.X, m.Y) {
				b.rescore(m.X, m.Y, dir)
			}
		}
	}
}

func (b *Board) rescore(x, y int, dir Direction) {
	scores := &b.heur[b.index(x, y)]
	scores[SideEngine][dir] = ScoreLine(b.standardLine(x, y, dir, SideEngine))
	scores[SideOpponent][dir] = ScoreLine(b.standardLine(x, y, dir, SideOpponent))
}

// standardLine reads the line through the empty cell (x, y) as if side had
// just played there.
func (b *Board) standardLine(x, y int, dir Direction, side Side) Line {
	var line Line
	line[0] = SymBlocked
	line[LineLen-1] = SymBlocked
	own := side.Cell()
	for k, m := range LineCoords(x, y, dir) {
		sym := SymBlocked
		switch {
		case k == lineHalf:
			sym = SymSelf
		case !b.InBounds(m.X, m.Y):
		case b.At(m.X, m.Y) == CellEmpty:
			sym = SymEmpty
		case b.At(m.X, m.Y) == own:
			sym = SymSelf
		}
		line[k+1] = sym
	}
	return line
}

// LineAt exposes the standardized line of an empty cell, mostly for hints.
func (b *Board) LineAt(x, y int, dir Direction, side Side) Line {
	return b.standardLine(x, y, dir, side)
}

// HeuristicValue is the cached worth of (x, y) for side, raised by
// ClusterBonusPercent for every adjacent stone of that side. Only meaningful
// for empty cells.
func (b *Board) HeuristicValue(x, y int, side Side) int {
	idx := b.index(x, y)
	sum := 0
	for _, v := range b.heur[idx][side] {
		sum += v
	}
	scale := 100 + b.close[side][idx]*b.bonus
	return (sum*scale + 50) / 100
}

// IsWin reports whether the stone on (x, y) is part of five or more in a row.
func (b *Board) IsWin(x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	cell := b.At(x, y)
	if cell == CellEmpty {
		return false
	}
	for _, d := range directionDeltas {
		run := 1 + b.run(x, y, d[0], d[1], cell) + b.run(x, y, -d[0], -d[1], cell)
		if run >= 5 {
			return true
		}
	}
	return false
}

func (b *Board) run(x, y, dx, dy int, cell Cell) int {
	n := 0
	for i, j := x+dx, y+dy; b.InBounds(i, j) && b.At(i, j) == cell; i, j = i+dx, j+dy {
		n++
	}
	return n
}

// Evaluate scores the position from the engine's point of view. A playable
// five of the side that just moved is checked before one of the side to move.
func (b *Board) Evaluate(sideJustMoved Side) int {
	engine := b.sideTotal(SideEngine)
	opponent := b.sideTotal(SideOpponent)
	totals := [2]int{SideEngine: engine, SideOpponent: opponent}
	for _, side := range [2]Side{sideJustMoved, sideJustMoved.Other()} {
		if totals[side] >= ScoreFive {
			return side.sign() * ScoreInf
		}
	}
	return engine - opponent
}

func (b *Board) sideTotal(side Side) int {
	total := 0
	for idx, cell := range b.cells {
		if cell != CellEmpty {
			continue
		}
		total += b.HeuristicValue(idx%b.size, idx/b.size, side)
	}
	return total
}

func (b *Board) Clone() *Board {
	clone := *b
	clone.cells = append([]Cell(nil), b.cells...)
	clone.neighbors = append([]int(nil), b.neighbors...)
	clone.close[SideEngine] = append([]int(nil), b.close[SideEngine]...)
	clone.close[SideOpponent] = append([]int(nil), b.close[SideOpponent]...)
	clone.heur = append([]cellScores(nil), b.heur...)
	return &clone
}

// Cells returns a copy of the grid, row by row.
func (b *Board) Cells() []Cell {
	return append([]Cell(nil), b.cells...)
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			switch b.At(x, y) {
			case CellEngine:
				sb.WriteByte('X')
			case CellOpponent:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Board) index(x, y int) int {
	return y*b.size + x
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
