package main

import (
	"sync"
	"time"

	"gomoku/engine"
)

const analyticsBacklog = 32

type analyticsPayload struct {
	Player      string       `json:"player"`
	Stats       engine.Stats `json:"stats"`
	CacheHits   int          `json:"cache_hits"`
	NodesPerSec float64      `json:"nodes_per_second"`
	UpdatedAtMs int64        `json:"updated_at_ms"`
}

type analyticsResponse struct {
	Decisions []analyticsPayload `json:"decisions"`
}

func newAnalyticsPayload(color PlayerColor, stats engine.Stats, at time.Time) analyticsPayload {
	return analyticsPayload{
		Player:      color.String(),
		Stats:       stats,
		CacheHits:   stats.CacheHits(),
		NodesPerSec: stats.NodesPerSecond(),
		UpdatedAtMs: at.UnixMilli(),
	}
}

// statsLog keeps the most recent decisions so a late analytics client can
// catch up.
type statsLog struct {
	mu      sync.Mutex
	limit   int
	entries []analyticsPayload
}

func newStatsLog(limit int) *statsLog {
	return &statsLog{limit: limit}
}

func (l *statsLog) Add(p analyticsPayload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, p)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Recent returns the kept decisions, newest last.
func (l *statsLog) Recent() []analyticsPayload {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]analyticsPayload{}, l.entries...)
}

func (l *statsLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
