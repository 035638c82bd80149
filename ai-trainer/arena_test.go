package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gomoku/engine"
)

func quickContender(id string) contender {
	cfg := engine.DefaultConfig()
	cfg.BoardSize = 9
	cfg.Schedule = engine.Schedule{{Depth: 2, Branch: 5}}
	cfg.TTSize = 1 << 10
	cfg.LogSearchStats = false
	cfg.TimeBudgetMs = 60_000
	return contender{ID: id, Config: cfg}
}

func TestPlayGameFinishes(t *testing.T) {
	a, b := quickContender("A"), quickContender("B")
	opening := []engine.Move{{X: 4, Y: 4}, {X: 5, Y: 4}}
	res, err := playGame(context.Background(), a, b, opening, zerolog.Nop())
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.Plies, 9, "a five needs at least nine stones")
	require.Equal(t, res.Plies-len(opening), res.Decision[0]+res.Decision[1])
	if res.Winner == noWinner {
		require.Equal(t, 81, res.Plies)
	} else {
		require.Contains(t, []string{"A", "B"}, res.winnerID())
	}

	again, err := playGame(context.Background(), a, b, opening, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, res.Winner, again.Winner, "decisions are deterministic without timeouts")
	require.Equal(t, res.Plies, again.Plies)
}

func TestPlayGameRejectsBadOpening(t *testing.T) {
	a, b := quickContender("A"), quickContender("B")
	_, err := playGame(context.Background(), a, b, []engine.Move{{X: 4, Y: 4}, {X: 4, Y: 4}}, zerolog.Nop())
	require.ErrorIs(t, err, engine.ErrOccupied)
}

func TestPlayGameStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := playGame(ctx, quickContender("A"), quickContender("B"), nil, zerolog.Nop())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunArenaAlternatesColours(t *testing.T) {
	a, b := quickContender("A"), quickContender("B")
	sum, err := runArena(context.Background(), arenaOptions{
		A:        a,
		B:        b,
		Games:    4,
		Parallel: 2,
		Openings: buildOpeningSuite(9, 2, 2, 7),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 4, sum.Games)
	require.Equal(t, 4, sum.A.Wins+sum.B.Wins+sum.Draws)
	for i, r := range sum.Result {
		require.Equal(t, i, r.Index)
		if i%2 == 0 {
			require.Equal(t, "A", r.BlackID)
		} else {
			require.Equal(t, "B", r.BlackID)
		}
	}
	require.Positive(t, sum.A.AvgNodes)
	require.Positive(t, sum.B.AvgNodes)

	_, err = runArena(context.Background(), arenaOptions{A: a, B: b}, zerolog.Nop())
	require.Error(t, err)
}

func TestSummarizeCountsPerContender(t *testing.T) {
	results := []gameResult{
		{BlackID: "A", WhiteID: "B", Winner: colorBlack, Decision: [2]int{2, 2}, Nodes: [2]int{10, 30}},
		{BlackID: "B", WhiteID: "A", Winner: colorBlack, Decision: [2]int{2, 2}, Nodes: [2]int{10, 30}},
		{BlackID: "A", WhiteID: "B", Winner: noWinner},
	}
	sum := summarize("A", "B", results)
	require.Equal(t, 1, sum.A.Wins)
	require.Equal(t, 1, sum.B.Wins)
	require.Equal(t, 1, sum.Draws)
	require.Equal(t, 10.0, sum.A.AvgNodes)
	require.Equal(t, 10.0, sum.B.AvgNodes)
}

func TestBuildOpeningSuite(t *testing.T) {
	suite := buildOpeningSuite(15, 5, 4, 3)
	require.Len(t, suite, 5)
	require.Equal(t, suite, buildOpeningSuite(15, 5, 4, 3))
	for _, opening := range suite {
		require.Len(t, opening, 4)
		seen := map[engine.Move]bool{}
		for _, m := range opening {
			require.True(t, m.InBounds(15))
			require.False(t, seen[m])
			seen[m] = true
		}
	}
}

func TestContendersFromFlags(t *testing.T) {
	f, err := parseFlags([]string{"-b-depth-offset", "-5", "-b-order", "descending", "-b-tt=false", "-board-size", "11"})
	require.NoError(t, err)
	a, b, err := f.contenders()
	require.NoError(t, err)
	require.Equal(t, 11, a.Config.BoardSize)
	require.Equal(t, engine.DefaultSchedule(), a.Config.Schedule)
	require.True(t, a.Config.UseTranspositionTable)
	require.False(t, b.Config.UseTranspositionTable)
	require.Equal(t, engine.OrderDescending, b.Config.BucketOrder)
	require.Len(t, b.Config.Schedule, len(a.Config.Schedule))
	for i, step := range b.Config.Schedule {
		base := a.Config.Schedule[i]
		require.Equal(t, max(base.Depth-5, 1), step.Depth, "step %d", i)
		require.Equal(t, base.Branch, step.Branch)
	}
	require.Equal(t, 1, b.Config.Schedule[0].Depth, "depth never drops below one")

	_, err = parseFlags([]string{"-profile", "trace"})
	require.Error(t, err)
	f, err = parseFlags([]string{"-b-order", "sideways"})
	require.NoError(t, err)
	_, _, err = f.contenders()
	require.Error(t, err)
}
