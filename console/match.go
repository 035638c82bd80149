package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gomoku/engine"
)

var (
	errGameOver    = errors.New("game is over")
	errNotYourTurn = errors.New("engine is to move")
)

type outcome int

const (
	playing outcome = iota
	humanWon
	engineWon
	draw
)

func (o outcome) String() string {
	switch o {
	case humanWon:
		return "You win"
	case engineWon:
		return "Engine wins"
	case draw:
		return "Draw"
	default:
		return "Playing"
	}
}

// match is one console game. The board is kept from the engine's point of
// view, the human always plays engine.SideOpponent.
type match struct {
	cfg         engine.Config
	log         zerolog.Logger
	engineFirst bool

	board    *engine.Board
	searcher *engine.Searcher
	toMove   engine.Side
	result   outcome
	last     engine.Move
	hasLast  bool
	stats    engine.Stats
	hasStats bool

	// gen is bumped on every reset so a search started for an old game is
	// dropped when it reports back.
	gen int
}

type pendingSearch struct {
	gen      int
	board    *engine.Board
	searcher *engine.Searcher
}

type searchResult struct {
	gen   int
	move  engine.Move
	stats engine.Stats
}

func newMatch(cfg engine.Config, engineFirst bool, logger zerolog.Logger) *match {
	m := &match{cfg: cfg, log: logger, engineFirst: engineFirst}
	m.reset()
	return m
}

func (m *match) reset() {
	m.gen++
	m.board = engine.NewBoard(m.cfg)
	m.searcher = engine.NewSearcher(m.cfg, engine.WithLogger(m.log))
	m.toMove = engine.SideOpponent
	if m.engineFirst {
		m.toMove = engine.SideEngine
	}
	m.result = playing
	m.hasLast = false
	m.hasStats = false
}

func (m *match) size() int {
	return m.board.Size()
}

func (m *match) at(x, y int) engine.Cell {
	return m.board.At(x, y)
}

func (m *match) engineToMove() bool {
	return m.result == playing && m.toMove == engine.SideEngine
}

// play places the human stone at (x, y).
func (m *match) play(x, y int) error {
	if m.result != playing {
		return errGameOver
	}
	if m.toMove != engine.SideOpponent {
		return errNotYourTurn
	}
	return m.apply(engine.Move{X: x, Y: y}, engine.SideOpponent)
}

// startSearch hands out a private copy of the position. The returned search
// may run on any goroutine; its result goes back through finishSearch.
func (m *match) startSearch() (*pendingSearch, bool) {
	if !m.engineToMove() {
		return nil, false
	}
	return &pendingSearch{gen: m.gen, board: m.board.Clone(), searcher: m.searcher}, true
}

func (p *pendingSearch) run() searchResult {
	move := p.searcher.BestMove(p.board)
	return searchResult{gen: p.gen, move: move, stats: p.searcher.Stats()}
}

// finishSearch applies the engine move. Results of a previous game are
// ignored and reported as false.
func (m *match) finishSearch(res searchResult) (bool, error) {
	if res.gen != m.gen || !m.engineToMove() {
		return false, nil
	}
	m.stats = res.stats
	m.hasStats = true
	if err := m.apply(res.move, engine.SideEngine); err != nil {
		return false, errors.Wrap(err, "engine move")
	}
	return true, nil
}

func (m *match) apply(mv engine.Move, side engine.Side) error {
	if err := m.board.Place(mv.X, mv.Y, side); err != nil {
		return err
	}
	m.last = mv
	m.hasLast = true
	m.log.Debug().Str("side", side.String()).Int("x", mv.X).Int("y", mv.Y).Msg("move")

	switch {
	case m.board.IsWin(mv.X, mv.Y):
		m.result = humanWon
		if side == engine.SideEngine {
			m.result = engineWon
		}
		m.log.Info().Stringer("result", m.result).Int("stones", m.board.Stones()).Msg("game over")
	case m.board.IsFull():
		m.result = draw
		m.log.Info().Stringer("result", m.result).Msg("game over")
	default:
		m.toMove = side.Other()
	}
	return nil
}

func (m *match) statusLine() string {
	var turn string
	switch {
	case m.result != playing:
		turn = m.result.String() + "   r · new game"
	case m.toMove == engine.SideEngine:
		turn = "Thinking..."
	default:
		turn = "Your move"
	}
	if !m.hasStats {
		return turn
	}
	return fmt.Sprintf("%s\nlast search: %v, depth %d, %d nodes, %d cache hits, %s",
		turn, m.stats.Best, m.stats.MaxDepthReached, m.stats.Nodes, m.stats.CacheHits(), m.stats.Elapsed.Round(time.Millisecond))
}
