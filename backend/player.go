package main

import "gomoku/engine"

type Player interface {
	IsHuman() bool
	// OnMoveApplied is called for every move that lands on the game board,
	// whichever colour played it.
	OnMoveApplied(move engine.Move, by PlayerColor) error
}

type HumanPlayer struct{}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) OnMoveApplied(engine.Move, PlayerColor) error {
	return nil
}
