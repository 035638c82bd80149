package main

import "gomoku/engine"

type PlayerColor int

type GameStatus int

const (
	PlayerBlack PlayerColor = iota
	PlayerWhite
)

const (
	StatusNotStarted GameStatus = iota
	StatusRunning
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

func (p PlayerColor) Other() PlayerColor {
	if p == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

// side maps a colour onto the game board, where black plays as
// engine.SideEngine. Each AI keeps its own board from its own perspective.
func (p PlayerColor) side() engine.Side {
	if p == PlayerBlack {
		return engine.SideEngine
	}
	return engine.SideOpponent
}

func (p PlayerColor) String() string {
	if p == PlayerBlack {
		return "black"
	}
	return "white"
}

func (s GameStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "running"
	}
}

func wonBy(p PlayerColor) GameStatus {
	if p == PlayerBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

// GameState is a detached copy of a game, safe to read outside the
// controller lock.
type GameState struct {
	Board       *engine.Board
	ToMove      PlayerColor
	Status      GameStatus
	HasLastMove bool
	LastMove    engine.Move
	WinningLine []engine.Move
	LastMessage string
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.WinningLine = append([]engine.Move(nil), s.WinningLine...)
	return clone
}

// Winner returns 1 for black, 2 for white and 0 while nobody has won.
func (s GameState) Winner() int {
	switch s.Status {
	case StatusBlackWon:
		return 1
	case StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

// winningLine collects the run of five or more through last, or nil.
func winningLine(b *engine.Board, last engine.Move) []engine.Move {
	cell := b.At(last.X, last.Y)
	if cell == engine.CellEmpty {
		return nil
	}
	for _, d := range [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}} {
		x, y := last.X, last.Y
		for b.InBounds(x-d[0], y-d[1]) && b.At(x-d[0], y-d[1]) == cell {
			x, y = x-d[0], y-d[1]
		}
		var line []engine.Move
		for b.InBounds(x, y) && b.At(x, y) == cell {
			line = append(line, engine.Move{X: x, Y: y})
			x, y = x+d[0], y+d[1]
		}
		if len(line) >= 5 {
			return line
		}
	}
	return nil
}
