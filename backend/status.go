package main

import (
	"encoding/json"
	"net/http"

	"gomoku/engine"
)

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          engine.Config     `json:"config"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	BoardSize       int               `json:"board_size"`
	Status          string            `json:"status"`
	Board           [][]int           `json:"board"`
	History         []historyEntryDTO `json:"history"`
	LastMove        *engine.Move      `json:"last_move,omitempty"`
	WinningLine     []engine.Move     `json:"winning_line"`
	AiThinking      bool              `json:"ai_thinking"`
	LastStats       *engine.Stats     `json:"last_stats,omitempty"`
	Message         string            `json:"message,omitempty"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type historyEntryDTO struct {
	X         int           `json:"x"`
	Y         int           `json:"y"`
	Player    int           `json:"player"`
	ElapsedMs float64       `json:"elapsed_ms"`
	IsAi      bool          `json:"is_ai"`
	Stats     *engine.Stats `json:"stats,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   engine.Config   `json:"config"`
}

type cacheStatusResponse struct {
	Size    uint64                 `json:"tt_size"`
	Buckets int                    `json:"tt_buckets"`
	Enabled bool                   `json:"enabled"`
	Players map[string]cacheStatus `json:"players"`
}

type cacheStatus struct {
	tableStatus
	Usage float64 `json:"usage"`
	Full  bool    `json:"full"`
}

type hintResponse struct {
	Player     int                `json:"player"`
	Candidates []engine.Candidate `json:"candidates"`
}

func controllerStatus(controller *GameController) StatusResponse {
	state := controller.State()
	resp := StatusResponse{
		Settings:        settingsToDTO(controller.Settings()),
		Config:          GetConfig().Engine,
		NextPlayer:      playerToInt(state.ToMove),
		Winner:          state.Winner(),
		BoardSize:       state.Board.Size(),
		Status:          state.Status.String(),
		Board:           boardToSlice(state.Board),
		History:         historyToDTO(controller.History()),
		WinningLine:     append([]engine.Move{}, state.WinningLine...),
		AiThinking:      controller.AiThinking(),
		Message:         state.LastMessage,
		TurnStartedAtMs: controller.CurrentTurnStartedAtMs(),
	}
	if state.HasLastMove {
		last := state.LastMove
		resp.LastMove = &last
	}
	if stats, ok := controller.LastStats(); ok {
		resp.LastStats = &stats
	}
	return resp
}

func cacheStatusFor(controller *GameController) cacheStatusResponse {
	cfg := GetConfig().Engine
	resp := cacheStatusResponse{
		Size:    cfg.TTSize,
		Buckets: cfg.TTBuckets,
		Enabled: cfg.UseTranspositionTable,
		Players: map[string]cacheStatus{},
	}
	for name, table := range controller.TableStatus() {
		status := cacheStatus{tableStatus: table}
		if table.Capacity > 0 {
			status.Usage = float64(table.Count) / float64(table.Capacity)
			status.Full = table.Count >= table.Capacity
		}
		resp.Players[name] = status
	}
	return resp
}

// boardToSlice renders rows of 0 (empty), 1 (black) and 2 (white).
func boardToSlice(board *engine.Board) [][]int {
	size := board.Size()
	rows := make([][]int, size)
	for y := 0; y < size; y++ {
		rows[y] = make([]int, size)
		for x := 0; x < size; x++ {
			rows[y][x] = cellToInt(board.At(x, y))
		}
	}
	return rows
}

func cellToInt(cell engine.Cell) int {
	switch cell {
	case engine.CellEngine:
		return 1
	case engine.CellOpponent:
		return 2
	default:
		return 0
	}
}

func playerToInt(player PlayerColor) int {
	if player == PlayerBlack {
		return 1
	}
	return 2
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		X:         entry.Move.X,
		Y:         entry.Move.Y,
		Player:    playerToInt(entry.Player),
		ElapsedMs: float64(entry.Elapsed.Microseconds()) / 1000,
		IsAi:      entry.IsAi,
		Stats:     entry.Stats,
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
