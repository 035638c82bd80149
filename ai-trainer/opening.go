package main

import (
	"golang.org/x/exp/rand"

	"gomoku/engine"
)

var openingOffsets = []engine.Move{
	{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 2, Y: 0}, {X: 0, Y: 2},
}

// buildOpeningSuite draws count openings of plies distinct cells around the
// centre. The suite only depends on its arguments.
func buildOpeningSuite(boardSize, count, plies int, seed uint64) [][]engine.Move {
	if plies > len(openingOffsets) {
		plies = len(openingOffsets)
	}
	rng := rand.New(rand.NewSource(seed + uint64(boardSize*97+plies*13)))
	center := boardSize / 2
	suite := make([][]engine.Move, 0, count)
	for i := 0; i < count; i++ {
		used := map[engine.Move]bool{}
		opening := make([]engine.Move, 0, plies)
		for len(opening) < plies {
			off := openingOffsets[rng.Intn(len(openingOffsets))]
			m := engine.Move{X: center + off.X, Y: center + off.Y}
			if !m.InBounds(boardSize) || used[m] {
				continue
			}
			used[m] = true
			opening = append(opening, m)
		}
		suite = append(suite, opening)
	}
	return suite
}
