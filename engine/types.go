package engine

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

type Cell uint8

const (
	CellEmpty Cell = iota
	CellEngine
	CellOpponent
)

func (c Cell) String() string {
	switch c {
	case CellEngine:
		return "Engine"
	case CellOpponent:
		return "Opponent"
	default:
		return "Empty"
	}
}

// Side is one of the two players. The engine always searches as SideEngine.
type Side uint8

const (
	SideEngine Side = iota
	SideOpponent
)

func (s Side) Other() Side {
	if s == SideEngine {
		return SideOpponent
	}
	return SideEngine
}

func (s Side) Cell() Cell {
	if s == SideEngine {
		return CellEngine
	}
	return CellOpponent
}

// sign is +1 for the maximizing side and -1 for the minimizing side.
func (s Side) sign() int {
	if s == SideEngine {
		return 1
	}
	return -1
}

func (s Side) String() string {
	if s == SideEngine {
		return "engine"
	}
	return "opponent"
}

func SideFromCell(c Cell) (Side, error) {
	switch c {
	case CellEngine:
		return SideEngine, nil
	case CellOpponent:
		return SideOpponent, nil
	default:
		return SideEngine, errors.New("empty cell has no side")
	}
}

type Move struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NoMove is what BestMove returns when the board has no empty cell.
var NoMove = Move{X: -1, Y: -1}

func (m Move) InBounds(size int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < size && m.Y < size
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.X, m.Y)
}

type Direction uint8

const (
	Vertical Direction = iota
	Horizontal
	Diagonal
	AntiDiagonal
)

const directionCount = 4

// lineHalf is the number of cells on each side of the centre of a line window.
const lineHalf = 4

var directionDeltas = [directionCount][2]int{
	Vertical:     {0, 1},
	Horizontal:   {1, 0},
	Diagonal:     {1, 1},
	AntiDiagonal: {1, -1},
}

func (d Direction) String() string {
	switch d {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	case Diagonal:
		return "diagonal"
	default:
		return "anti-diagonal"
	}
}

// LineCoords returns the 9 coordinates centred on (x, y) along dir.
// Coordinates may fall outside the board.
func LineCoords(x, y int, dir Direction) [2*lineHalf + 1]Move {
	var coords [2*lineHalf + 1]Move
	dx, dy := directionDeltas[dir][0], directionDeltas[dir][1]
	for k := -lineHalf; k <= lineHalf; k++ {
		coords[k+lineHalf] = Move{X: x + k*dx, Y: y + k*dy}
	}
	return coords
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
