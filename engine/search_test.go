package engine

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Schedule = Schedule{{Depth: 3, Branch: 8}}
	cfg.TTSize = 1 << 12
	cfg.LogSearchStats = false
	return cfg
}

func newTestSearcher(cfg Config, opts ...Option) *Searcher {
	return NewSearcher(cfg, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
}

func midgameBoard(t *testing.T, cfg Config) *Board {
	b := NewBoard(cfg)
	placeAll(t, b, SideEngine, Move{X: 7, Y: 7}, Move{X: 8, Y: 8}, Move{X: 6, Y: 8})
	placeAll(t, b, SideOpponent, Move{X: 7, Y: 8}, Move{X: 8, Y: 7}, Move{X: 9, Y: 9})
	return b
}

func TestBestMoveFullBoardHasNoMove(t *testing.T) {
	cfg := fastConfig()
	cfg.BoardSize = 5
	b := NewBoard(cfg)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			side := SideEngine
			if (x+2*y)%4 >= 2 {
				side = SideOpponent
			}
			require.NoError(t, b.Place(x, y, side))
		}
	}
	require.True(t, b.IsFull())
	move := newTestSearcher(cfg).BestMove(b)
	require.Equal(t, NoMove, move)
	require.False(t, move.InBounds(5))
}

func TestBestMoveEmptyBoardPlaysCenter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogSearchStats = false
	s := newTestSearcher(cfg)
	b := NewBoard(cfg)

	move := s.BestMove(b)
	require.Equal(t, Move{X: 7, Y: 7}, move)
	require.Less(t, s.Stats().Elapsed, cfg.TimeBudget())
	require.False(t, s.Stats().TimedOut)
	require.Zero(t, b.Stones())
}

func TestBestMoveCompletesOpenFour(t *testing.T) {
	cfg := fastConfig()
	b := NewBoard(cfg)
	placeAll(t, b, SideEngine, row(7, 5, 6, 7, 8)...)
	placeAll(t, b, SideOpponent, Move{X: 6, Y: 8}, Move{X: 7, Y: 8}, Move{X: 8, Y: 6}, Move{X: 3, Y: 3})

	s := newTestSearcher(cfg)
	move := s.BestMove(b)
	require.Contains(t, []Move{{X: 4, Y: 7}, {X: 9, Y: 7}}, move)
	require.Equal(t, ScoreInf, s.Stats().Value)
}

func TestBestMovePrefersWinOverBlock(t *testing.T) {
	cfg := fastConfig()
	b := NewBoard(cfg)
	// Both sides can make five; blocking scans first but winning is better.
	placeAll(t, b, SideOpponent, row(2, 3, 4, 5, 6)...)
	placeAll(t, b, SideOpponent, Move{X: 3, Y: 10})
	placeAll(t, b, SideEngine, row(10, 4, 5, 6, 7)...)

	s := newTestSearcher(cfg)
	require.Equal(t, Move{X: 8, Y: 10}, s.BestMove(b))
}

func TestBestMoveBlocksFour(t *testing.T) {
	cfg := fastConfig()
	b := NewBoard(cfg)
	placeAll(t, b, SideOpponent, row(7, 3, 4, 5, 6)...)
	placeAll(t, b, SideEngine, Move{X: 2, Y: 7}, Move{X: 8, Y: 8}, Move{X: 9, Y: 9})

	s := newTestSearcher(cfg)
	require.Equal(t, Move{X: 7, Y: 7}, s.BestMove(b))
}

func TestBestMoveLeavesBoardUntouched(t *testing.T) {
	cfg := fastConfig()
	cfg.Schedule = Schedule{{Depth: 4, Branch: 6}}
	cfg.KillDepth = 2
	b := midgameBoard(t, cfg)
	before := b.Snapshot()

	s := newTestSearcher(cfg)
	move := s.BestMove(b)
	require.Equal(t, before, b.Snapshot())
	require.True(t, b.IsEmpty(move.X, move.Y))
	require.Equal(t, 4, s.Stats().DepthLimit)
	require.Equal(t, 6, s.Stats().BranchLimit)
	require.Positive(t, s.Stats().Nodes)
	require.Positive(t, s.Stats().Leaves)
}

func TestBestMoveTableConsistency(t *testing.T) {
	cfg := fastConfig()
	b := midgameBoard(t, cfg)

	s := newTestSearcher(cfg)
	cold := s.BestMove(b)
	coldValue := s.Stats().Value

	warm := s.BestMove(b)
	require.Equal(t, cold, warm)
	require.Equal(t, coldValue, s.Stats().Value)
	require.Positive(t, s.Stats().ExactHits)

	s.Reset()
	require.Equal(t, cold, s.BestMove(b))

	noTable := cfg
	noTable.UseTranspositionTable = false
	plain := newTestSearcher(noTable)
	require.Equal(t, cold, plain.BestMove(b))
	require.Equal(t, coldValue, plain.Stats().Value)
	require.Zero(t, plain.Stats().CacheHits())
	require.Zero(t, plain.Table().Count())
}

func TestBestMoveTimeBudget(t *testing.T) {
	cfg := fastConfig()
	cfg.TimeBudgetMs = 1
	b := midgameBoard(t, cfg)
	before := b.Snapshot()

	clock := time.Unix(0, 0)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	s := newTestSearcher(cfg, WithClock(tick))
	move := s.BestMove(b)

	require.True(t, s.Stats().TimedOut)
	require.True(t, b.IsEmpty(move.X, move.Y))
	require.True(t, move.InBounds(b.Size()))
	require.Equal(t, before, b.Snapshot())
}

func TestBestMoveBruteForce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BoardSize = 9
	cfg.UseHeuristic = false
	cfg.LogSearchStats = false
	cfg.TTSize = 1 << 14
	b := NewBoard(cfg)
	placeAll(t, b, SideOpponent, b.Center())

	s := newTestSearcher(cfg)
	move := s.BestMove(b)
	require.True(t, b.IsEmpty(move.X, move.Y))
	require.True(t, b.HasNeighbor(move.X, move.Y))
	require.Equal(t, 3, s.Stats().DepthLimit)
	require.Equal(t, 81, s.Stats().BranchLimit)
	require.Equal(t, 24, s.Stats().RootCandidates)
}

func TestSearchersAreIndependent(t *testing.T) {
	cfg := fastConfig()
	a := newTestSearcher(cfg)
	b := newTestSearcher(cfg)
	a.BestMove(midgameBoard(t, cfg))
	require.Positive(t, a.Table().Count())
	require.Zero(t, b.Table().Count())
	require.Zero(t, b.Stats().Nodes)
}

func TestSharedTableOption(t *testing.T) {
	cfg := fastConfig()
	table := NewTranspositionTable(1<<10, 2)
	s := newTestSearcher(cfg, WithTable(table))
	s.BestMove(midgameBoard(t, cfg))
	require.Same(t, table, s.Table())
	require.Positive(t, table.Count())
}
