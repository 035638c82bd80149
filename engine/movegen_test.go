package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func moves(cands []Candidate) []Move {
	out := make([]Move, len(cands))
	for i, c := range cands {
		out[i] = c.Move
	}
	return out
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		self, opp int
		want      Class
	}{
		{"self five", ScoreFive, 0, ClassFive},
		{"opp five", 0, ScoreFive, ClassFive},
		{"self open four beats opp open four", ScoreAliveFour, ScoreAliveFour, ClassSelfAliveFour},
		{"opp open four", ScoreBlockedFour, ScoreAliveFour, ClassOppAliveFour},
		{"self blocked four", ScoreBlockedFour, 0, ClassSelfBlockedFour},
		{"opp blocked four", 3 * ScoreAliveThree, ScoreBlockedFour, ClassOppBlockedFour},
		{"self double three", 2 * ScoreAliveThree, 0, ClassSelfDoubleThree},
		{"opp double three", ScoreAliveThree, 2 * ScoreAliveThree, ClassOppDoubleThree},
		{"self open three", ScoreAliveThree, ScoreAliveThree, ClassSelfAliveThree},
		{"opp open three is quiet", 0, ScoreAliveThree, ClassOther},
		{"nothing", 0, 0, ClassOther},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.self, tc.opp))
		})
	}
}

func TestForcingPolicy(t *testing.T) {
	for c := Class(0); c < classCount; c++ {
		want := c != ClassSelfAliveThree && c != ClassOther
		require.Equal(t, want, c.Forcing(), "class %v", c)
	}
}

func TestCandidateJSONKeepsClass(t *testing.T) {
	b := newTestBoard()
	placeAll(t, b, SideEngine, row(7, 5, 6, 7, 8)...)
	cands := NewGenerator(OrderAscending).Generate(b, SideEngine)
	require.NotEmpty(t, cands)

	data, err := json.Marshal(cands)
	require.NoError(t, err)
	require.Contains(t, string(data), `"class":"five"`)
	var decoded []Candidate
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, cands, decoded)

	var c Class
	require.Error(t, c.UnmarshalText([]byte("seven")))
}

func TestGenerateEmptyBoard(t *testing.T) {
	b := newTestBoard()
	gen := NewGenerator(OrderAscending)
	require.Empty(t, gen.Generate(b, SideEngine))
	require.Empty(t, gen.GenerateForcing(b, SideEngine))
	require.Empty(t, gen.GenerateAll(b))
}

func TestGenerateReturnsOnlyWinningCells(t *testing.T) {
	b := newTestBoard()
	placeAll(t, b, SideEngine, row(7, 3, 4, 5, 6)...)
	placeAll(t, b, SideOpponent, Move{X: 2, Y: 7}, Move{X: 5, Y: 8}, Move{X: 6, Y: 9})
	gen := NewGenerator(OrderAscending)

	cands := gen.Generate(b, SideEngine)
	require.Equal(t, []Move{{X: 7, Y: 7}}, moves(cands))
	require.Equal(t, ClassFive, cands[0].Class)

	// The opponent sees the same cell as its only defence.
	require.Equal(t, []Move{{X: 7, Y: 7}}, moves(gen.Generate(b, SideOpponent)))
	require.Equal(t, []Move{{X: 7, Y: 7}}, moves(gen.GenerateForcing(b, SideEngine)))
}

func TestGenerateSelfOpenFourIsExclusive(t *testing.T) {
	b := newTestBoard()
	placeAll(t, b, SideEngine, row(7, 5, 6, 7)...)
	placeAll(t, b, SideOpponent, Move{X: 6, Y: 8}, Move{X: 7, Y: 8})
	cands := NewGenerator(OrderAscending).Generate(b, SideEngine)
	require.NotEmpty(t, cands)
	for _, c := range cands {
		require.Equal(t, ClassSelfAliveFour, c.Class, "candidate %v", c.Move)
	}
	require.Contains(t, moves(cands), Move{X: 4, Y: 7})
	require.Contains(t, moves(cands), Move{X: 8, Y: 7})
}

func openFourDefenseBoard(t *testing.T) *Board {
	b := newTestBoard()
	// Opponent open three on row 5, engine three on row 9 blocked on the left.
	placeAll(t, b, SideOpponent, row(5, 5, 6, 7)...)
	placeAll(t, b, SideOpponent, Move{X: 4, Y: 9})
	placeAll(t, b, SideEngine, row(9, 5, 6, 7)...)
	return b
}

func TestGenerateOpenFourDefenseOrder(t *testing.T) {
	b := openFourDefenseBoard(t)
	cands := NewGenerator(OrderAscending).Generate(b, SideEngine)

	seen := map[Move]bool{}
	for _, c := range cands {
		require.False(t, seen[c.Move], "duplicate candidate %v", c.Move)
		seen[c.Move] = true
	}

	i := 0
	for i < len(cands) && cands[i].Class == ClassSelfBlockedFour {
		i++
	}
	require.Positive(t, i, "counter-fours come first")
	require.Contains(t, moves(cands[:i]), Move{X: 8, Y: 9})

	j := i
	for j < len(cands) && cands[j].Class == ClassOppAliveFour {
		j++
	}
	require.ElementsMatch(t, []Move{{X: 4, Y: 5}, {X: 8, Y: 5}}, moves(cands[i:j]))
	for _, c := range cands[j:] {
		require.NotEqual(t, ClassSelfBlockedFour, c.Class)
		require.NotEqual(t, ClassOppAliveFour, c.Class)
	}
	require.Greater(t, len(cands), j, "quiet buckets follow the defence")
}

func TestGenerateForcingDropsQuietBuckets(t *testing.T) {
	b := openFourDefenseBoard(t)
	gen := NewGenerator(OrderAscending)
	full := gen.Generate(b, SideEngine)
	forcing := gen.GenerateForcing(b, SideEngine)
	require.Less(t, len(forcing), len(full))
	for _, c := range forcing {
		require.True(t, c.Class.Forcing(), "candidate %v class %v", c.Move, c.Class)
	}
	full = nil
	for _, c := range gen.Generate(b, SideEngine) {
		if c.Class.Forcing() {
			full = append(full, c)
		}
	}
	require.Equal(t, moves(full), moves(forcing))
}

func TestGenerateBucketOrdering(t *testing.T) {
	b := newTestBoard()
	placeAll(t, b, SideEngine, Move{X: 7, Y: 7}, Move{X: 9, Y: 8})
	placeAll(t, b, SideOpponent, Move{X: 8, Y: 8})

	check := func(order Ordering, less func(a, b int) bool) {
		cands := NewGenerator(order).Generate(b, SideEngine)
		require.NotEmpty(t, cands)
		for i := 1; i < len(cands); i++ {
			if cands[i].Class != cands[i-1].Class {
				continue
			}
			require.False(t, less(cands[i].Score, cands[i-1].Score),
				"%s order broken at %d: %d then %d", order, i, cands[i-1].Score, cands[i].Score)
		}
	}
	check(OrderAscending, func(a, b int) bool { return a < b })
	check(OrderDescending, func(a, b int) bool { return a > b })
}

func TestGenerateAllCoversNeighborhood(t *testing.T) {
	b := newTestBoard()
	placeAll(t, b, SideEngine, b.Center())
	all := NewGenerator(OrderAscending).GenerateAll(b)
	require.Len(t, all, 24)
	for _, c := range all {
		require.True(t, b.IsEmpty(c.X, c.Y))
		require.True(t, b.HasNeighbor(c.X, c.Y))
	}
}
