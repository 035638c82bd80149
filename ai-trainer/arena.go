package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"gomoku/engine"
)

type contender struct {
	ID     string
	Config engine.Config
}

const (
	colorBlack = 0
	colorWhite = 1
	noWinner   = -1
)

type gameResult struct {
	Index    int
	BlackID  string
	WhiteID  string
	Winner   int
	Plies    int
	Think    [2]time.Duration
	Nodes    [2]int
	Decision [2]int
}

// winnerID returns the winning contender, or "" for a draw.
func (r gameResult) winnerID() string {
	switch r.Winner {
	case colorBlack:
		return r.BlackID
	case colorWhite:
		return r.WhiteID
	default:
		return ""
	}
}

// playGame plays one game from opening. Every colour keeps its own board so
// both searchers play as engine.SideEngine.
func playGame(ctx context.Context, black, white contender, opening []engine.Move, logger zerolog.Logger) (gameResult, error) {
	players := [2]contender{black, white}
	var boards [2]*engine.Board
	var searchers [2]*engine.Searcher
	for c, p := range players {
		boards[c] = engine.NewBoard(p.Config)
		searchers[c] = engine.NewSearcher(p.Config, engine.WithLogger(logger.With().Str("contender", p.ID).Logger()))
	}
	result := gameResult{BlackID: black.ID, WhiteID: white.ID, Winner: noWinner}

	apply := func(mover int, m engine.Move) (bool, error) {
		for c := range boards {
			side := engine.SideOpponent
			if c == mover {
				side = engine.SideEngine
			}
			if err := boards[c].Place(m.X, m.Y, side); err != nil {
				return false, errors.Wrapf(err, "ply %d", result.Plies+1)
			}
		}
		result.Plies++
		return boards[mover].IsWin(m.X, m.Y), nil
	}

	mover := colorBlack
	for _, m := range opening {
		won, err := apply(mover, m)
		if err != nil {
			return result, errors.Wrap(err, "opening")
		}
		if won {
			result.Winner = mover
			return result, nil
		}
		mover = 1 - mover
	}

	for !boards[mover].IsFull() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		start := time.Now()
		m := searchers[mover].BestMove(boards[mover])
		result.Think[mover] += time.Since(start)
		result.Nodes[mover] += searchers[mover].Stats().Nodes
		result.Decision[mover]++

		won, err := apply(mover, m)
		if err != nil {
			return result, errors.Wrapf(err, "%s played %v", players[mover].ID, m)
		}
		if won {
			result.Winner = mover
			break
		}
		mover = 1 - mover
	}
	return result, nil
}

type arenaOptions struct {
	A, B     contender
	Games    int
	Parallel int
	Openings [][]engine.Move
}

type standing struct {
	ID        string
	Wins      int
	AvgThink  time.Duration
	AvgNodes  float64
	decisions int
	think     time.Duration
	nodes     int
}

type arenaSummary struct {
	Games  int
	Draws  int
	A, B   standing
	Plies  int
	Result []gameResult
}

// runArena plays opts.Games games, opts.Parallel at a time. A and B swap
// colours every game and each pair of games shares an opening.
func runArena(ctx context.Context, opts arenaOptions, logger zerolog.Logger) (arenaSummary, error) {
	if opts.Games < 1 {
		return arenaSummary{}, errors.Errorf("games %d must be positive", opts.Games)
	}
	if len(opts.Openings) == 0 {
		opts.Openings = [][]engine.Move{nil}
	}
	results := make([]gameResult, opts.Games)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Parallel, 1))
	for i := 0; i < opts.Games; i++ {
		i := i
		black, white := opts.A, opts.B
		if i%2 == 1 {
			black, white = white, black
		}
		opening := opts.Openings[(i/2)%len(opts.Openings)]
		g.Go(func() error {
			res, err := playGame(ctx, black, white, opening, logger)
			if err != nil {
				return errors.Wrapf(err, "game %d", i+1)
			}
			res.Index = i
			results[i] = res
			logger.Info().
				Int("game", i+1).
				Str("black", res.BlackID).
				Str("white", res.WhiteID).
				Str("winner", res.winnerID()).
				Int("plies", res.Plies).
				Msg("game finished")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return arenaSummary{}, err
	}
	return summarize(opts.A.ID, opts.B.ID, results), nil
}

func summarize(a, b string, results []gameResult) arenaSummary {
	sum := arenaSummary{Games: len(results), A: standing{ID: a}, B: standing{ID: b}, Result: results}
	for _, r := range results {
		sum.Plies += r.Plies
		switch r.winnerID() {
		case a:
			sum.A.Wins++
		case b:
			sum.B.Wins++
		default:
			sum.Draws++
		}
		for c, id := range [2]string{r.BlackID, r.WhiteID} {
			st := &sum.A
			if id == b {
				st = &sum.B
			}
			st.think += r.Think[c]
			st.nodes += r.Nodes[c]
			st.decisions += r.Decision[c]
		}
	}
	for _, st := range []*standing{&sum.A, &sum.B} {
		if st.decisions > 0 {
			st.AvgThink = st.think / time.Duration(st.decisions)
			st.AvgNodes = float64(st.nodes) / float64(st.decisions)
		}
	}
	return sum
}

func (s standing) MarshalZerologObject(e *zerolog.Event) {
	e.Str("id", s.ID).
		Int("wins", s.Wins).
		Int("decisions", s.decisions).
		Dur("avg_think", s.AvgThink).
		Float64("avg_nodes", s.AvgNodes)
}
