package main

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"gomoku/engine"
)

// AIPlayer owns a Searcher and a board seen from its own side, so the
// engine always plays as engine.SideEngine whichever colour it has. The
// Searcher and its table live as long as the game.
type AIPlayer struct {
	color    PlayerColor
	board    *engine.Board
	searcher *engine.Searcher
	log      zerolog.Logger
	onStats  func(PlayerColor, engine.Stats)

	workerDone chan struct{}
	thinking   atomic.Bool
	moveReady  atomic.Bool
	clearTable atomic.Bool
	abandoned  atomic.Bool

	mu        sync.Mutex
	readyMove engine.Move
	lastStats engine.Stats
	table     tableStatus
}

type tableStatus struct {
	Count      int `json:"count"`
	Capacity   int `json:"capacity"`
	Collisions int `json:"collisions"`
}

func NewAIPlayer(color PlayerColor, cfg engine.Config, logger zerolog.Logger, onStats func(PlayerColor, engine.Stats)) *AIPlayer {
	logger = logger.With().Str("player", color.String()).Logger()
	searcher := engine.NewSearcher(cfg, engine.WithLogger(logger))
	return &AIPlayer{
		color:    color,
		board:    engine.NewBoard(cfg),
		searcher: searcher,
		log:      logger,
		onStats:  onStats,
		table:    tableStatus{Capacity: searcher.Table().Capacity()},
	}
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) OnMoveApplied(move engine.Move, by PlayerColor) error {
	side := engine.SideOpponent
	if by == a.color {
		side = engine.SideEngine
	}
	return a.board.Place(move.X, move.Y, side)
}

// StartThinking searches a clone of the player's board in the background.
// It is a no-op while a search is already running.
func (a *AIPlayer) StartThinking() {
	if a.thinking.Load() {
		return
	}
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.thinking.Store(true)
	a.moveReady.Store(false)

	board := a.board.Clone()
	done := make(chan struct{})
	a.workerDone = done
	go func() {
		defer close(done)
		if a.clearTable.Swap(false) {
			a.searcher.Reset()
		}
		move := a.searcher.BestMove(board)
		stats := a.searcher.Stats()
		table := a.searcher.Table()

		a.mu.Lock()
		a.readyMove = move
		a.lastStats = stats
		a.table = tableStatus{Count: table.Count(), Capacity: table.Capacity(), Collisions: table.Collisions()}
		a.mu.Unlock()

		if a.onStats != nil && !a.abandoned.Load() {
			a.onStats(a.color, stats)
		}
		a.moveReady.Store(true)
		a.thinking.Store(false)
	}()
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

func (a *AIPlayer) HasMoveReady() bool {
	return a.moveReady.Load()
}

func (a *AIPlayer) TakeMove() (engine.Move, engine.Stats) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moveReady.Store(false)
	return a.readyMove, a.lastStats
}

// Abandon stops the player from reporting further decisions.
func (a *AIPlayer) Abandon() {
	a.abandoned.Store(true)
}

// Wait blocks until the running search, if any, has finished.
func (a *AIPlayer) Wait() {
	if a.workerDone != nil {
		<-a.workerDone
	}
}

func (a *AIPlayer) TableStatus() tableStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.table
}

// ClearTable empties the transposition table now, or before the next search
// when one is running.
func (a *AIPlayer) ClearTable() {
	if a.thinking.Load() {
		a.clearTable.Store(true)
		return
	}
	a.Wait()
	a.searcher.Reset()
	a.mu.Lock()
	a.table = tableStatus{Capacity: a.searcher.Table().Capacity()}
	a.mu.Unlock()
}
