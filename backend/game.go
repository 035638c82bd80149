package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"gomoku/engine"
)

var (
	ErrNotRunning   = errors.New("game not running")
	ErrNotHumanTurn = errors.New("not human turn")
)

type Game struct {
	cfg       engine.Config
	settings  GameSettings
	state     GameState
	history   MoveHistory
	black     Player
	white     Player
	turnStart time.Time
	log       zerolog.Logger
	onStats   func(PlayerColor, engine.Stats)
}

func NewGame(cfg engine.Config, settings GameSettings, logger zerolog.Logger) *Game {
	g := &Game{cfg: cfg, log: logger}
	g.Reset(settings)
	return g
}

// SetStatsSink registers the callback every AI decision reports to. It
// applies to players created afterwards.
func (g *Game) SetStatsSink(sink func(PlayerColor, engine.Stats)) {
	g.onStats = sink
}

func (g *Game) Reset(settings GameSettings) {
	g.abandonPlayers()
	g.settings = settings
	g.state = GameState{
		Board:  engine.NewBoard(g.cfg),
		ToMove: PlayerBlack,
		Status: StatusNotStarted,
	}
	g.history.Clear()
	g.createPlayers()
	g.turnStart = time.Now()
	g.log.Info().
		Str("black", playerLabel(settings.BlackType)).
		Str("white", playerLabel(settings.WhiteType)).
		Int("board_size", g.cfg.BoardSize).
		Msg("new game")
}

func (g *Game) Start() {
	if g.state.Status == StatusNotStarted {
		g.state.Status = StatusRunning
		g.turnStart = time.Now()
	}
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) Config() engine.Config {
	return g.cfg
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) History() MoveHistory {
	return g.history
}

func (g *Game) TurnStartedAtMs() int64 {
	if g.turnStart.IsZero() {
		return 0
	}
	return g.turnStart.UnixMilli()
}

// TryApplyMove plays move for the side to move and settles win and draw.
// The board is unchanged when an error is returned.
func (g *Game) TryApplyMove(move engine.Move, stats *engine.Stats) error {
	if g.state.Status != StatusRunning {
		return ErrNotRunning
	}
	color := g.state.ToMove
	if err := g.state.Board.Place(move.X, move.Y, color.side()); err != nil {
		g.state.LastMessage = "Illegal move: " + err.Error()
		return err
	}
	for _, p := range []Player{g.black, g.white} {
		if err := p.OnMoveApplied(move, color); err != nil {
			g.log.Error().Err(err).Stringer("move", move).Msg("player board out of sync")
		}
	}

	elapsed := time.Since(g.turnStart)
	entry := HistoryEntry{Move: move, Player: color, Elapsed: elapsed, IsAi: stats != nil, Stats: stats}
	g.history.Push(entry)
	g.state.LastMove = move
	g.state.HasLastMove = true
	g.state.LastMessage = ""
	g.log.Info().
		Int("ply", g.history.Size()).
		Stringer("color", color).
		Stringer("move", move).
		Dur("elapsed", elapsed).
		Bool("ai", entry.IsAi).
		Msg("move played")

	switch {
	case g.state.Board.IsWin(move.X, move.Y):
		g.state.Status = wonBy(color)
		g.state.WinningLine = winningLine(g.state.Board, move)
		g.log.Info().Stringer("winner", color).Int("plies", g.history.Size()).Msg("game over")
	case g.state.Board.IsFull():
		g.state.Status = StatusDraw
		g.log.Info().Int("plies", g.history.Size()).Msg("game drawn")
	default:
		g.state.ToMove = color.Other()
		g.turnStart = time.Now()
	}
	return nil
}

// ApplyHumanMove applies move when a human has the turn.
func (g *Game) ApplyHumanMove(move engine.Move) error {
	if g.state.Status != StatusRunning {
		return ErrNotRunning
	}
	if !g.CurrentPlayerIsHuman() {
		return ErrNotHumanTurn
	}
	return g.TryApplyMove(move, nil)
}

// Tick drives AI turns. It returns true when a move was applied.
func (g *Game) Tick() bool {
	if g.state.Status != StatusRunning {
		return false
	}
	ai, ok := g.currentPlayer().(*AIPlayer)
	if !ok {
		return false
	}
	if ai.HasMoveReady() {
		move, stats := ai.TakeMove()
		if err := g.TryApplyMove(move, &stats); err != nil {
			g.log.Error().Err(err).Stringer("move", move).Msg("engine move rejected")
			return false
		}
		return true
	}
	ai.StartThinking()
	return false
}

func (g *Game) CurrentPlayerIsHuman() bool {
	return g.currentPlayer().IsHuman()
}

func (g *Game) AiThinking() bool {
	ai, ok := g.currentPlayer().(*AIPlayer)
	return ok && ai.IsThinking()
}

// LastStats returns the statistics of the most recent AI decision.
func (g *Game) LastStats() (engine.Stats, bool) {
	entries := g.history.All()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Stats != nil {
			return *entries[i].Stats, true
		}
	}
	return engine.Stats{}, false
}

// UpdateSettings swaps the players without touching the board. New AI
// players replay the history onto their own boards.
func (g *Game) UpdateSettings(settings GameSettings) {
	g.abandonPlayers()
	g.settings = settings
	g.createPlayers()
}

// UpdateConfig installs a new engine config. The game restarts when the board
// size changes; otherwise the position is kept and the AI players rebuilt.
func (g *Game) UpdateConfig(cfg engine.Config) {
	resize := cfg.BoardSize != g.cfg.BoardSize
	g.cfg = cfg
	if resize {
		g.Reset(g.settings)
		return
	}
	g.UpdateSettings(g.settings)
}

// Hint returns up to limit candidates for the side to move, in search order.
func (g *Game) Hint(limit int) []engine.Candidate {
	if g.state.Status != StatusRunning {
		return nil
	}
	board := g.perspectiveBoard(g.state.ToMove)
	cands := engine.NewGenerator(g.cfg.BucketOrder).Generate(board, engine.SideEngine)
	if limit > 0 && len(cands) > limit {
		cands = cands[:limit]
	}
	return cands
}

func (g *Game) TableStatus() map[string]tableStatus {
	out := map[string]tableStatus{}
	for _, color := range []PlayerColor{PlayerBlack, PlayerWhite} {
		if ai, ok := g.playerFor(color).(*AIPlayer); ok {
			out[color.String()] = ai.TableStatus()
		}
	}
	return out
}

func (g *Game) ClearTables() {
	for _, p := range []Player{g.black, g.white} {
		if ai, ok := p.(*AIPlayer); ok {
			ai.ClearTable()
		}
	}
}

func (g *Game) currentPlayer() Player {
	return g.playerFor(g.state.ToMove)
}

func (g *Game) playerFor(color PlayerColor) Player {
	if color == PlayerBlack {
		return g.black
	}
	return g.white
}

func (g *Game) createPlayers() {
	g.black = g.newPlayer(PlayerBlack)
	g.white = g.newPlayer(PlayerWhite)
}

func (g *Game) newPlayer(color PlayerColor) Player {
	if g.settings.typeFor(color) == PlayerHuman {
		return NewHumanPlayer()
	}
	ai := NewAIPlayer(color, g.cfg, g.log, g.onStats)
	for _, entry := range g.history.All() {
		if err := ai.OnMoveApplied(entry.Move, entry.Player); err != nil {
			g.log.Error().Err(err).Stringer("move", entry.Move).Msg("history replay failed")
		}
	}
	return ai
}

// perspectiveBoard rebuilds the position with color as engine.SideEngine.
func (g *Game) perspectiveBoard(color PlayerColor) *engine.Board {
	if color == PlayerBlack {
		return g.state.Board.Clone()
	}
	b := engine.NewBoard(g.cfg)
	for _, entry := range g.history.All() {
		side := engine.SideOpponent
		if entry.Player == color {
			side = engine.SideEngine
		}
		_ = b.Place(entry.Move.X, entry.Move.Y, side)
	}
	return b
}

// abandonPlayers detaches the current AI players. A search still running
// finishes on its own board and its result is dropped.
func (g *Game) abandonPlayers() {
	for _, p := range []Player{g.black, g.white} {
		if ai, ok := p.(*AIPlayer); ok {
			ai.Abandon()
		}
	}
}

func playerLabel(t PlayerType) string {
	if t == PlayerAI {
		return "AI"
	}
	return "Human"
}
