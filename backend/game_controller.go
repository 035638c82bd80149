package main

import (
	"sync"

	"github.com/rs/zerolog"

	"gomoku/engine"
)

// GameController serialises every access to the game.
type GameController struct {
	mu   sync.Mutex
	game *Game
}

// NewGameController builds a game whose AI decisions are reported to
// onStats, which may be nil.
func NewGameController(cfg engine.Config, settings GameSettings, logger zerolog.Logger, onStats func(PlayerColor, engine.Stats)) *GameController {
	game := &Game{cfg: cfg, log: logger}
	game.SetStatsSink(onStats)
	game.Reset(settings)
	return &GameController{game: game}
}

func (gc *GameController) ApplyHumanMove(move engine.Move) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.ApplyHumanMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick()
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) CurrentTurnStartedAtMs() int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TurnStartedAtMs()
}

func (gc *GameController) LatestHistoryEntry() (HistoryEntry, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History().Last()
}

func (gc *GameController) AiThinking() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.AiThinking()
}

func (gc *GameController) LastStats() (engine.Stats, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.LastStats()
}

func (gc *GameController) Reset(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
	gc.game.Start()
}

func (gc *GameController) UpdateSettings(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.UpdateSettings(settings)
}

func (gc *GameController) UpdateConfig(cfg engine.Config) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.UpdateConfig(cfg)
}

func (gc *GameController) Hint(limit int) []engine.Candidate {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Hint(limit)
}

func (gc *GameController) TableStatus() map[string]tableStatus {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.TableStatus()
}

func (gc *GameController) ClearTables() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.ClearTables()
}
