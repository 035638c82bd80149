package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Searcher is one search session: it owns its transposition table and
// statistics, so independent searchers can run side by side. A Searcher is
// not reentrant.
type Searcher struct {
	cfg   Config
	gen   Generator
	table *TranspositionTable
	stats Stats
	log   zerolog.Logger
	now   func() time.Time

	maxDepth int
	branch   int
	budget   time.Duration
}

type Option func(*Searcher)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Searcher) {
		s.log = logger
	}
}

// WithTable shares a transposition table the caller keeps across searchers.
func WithTable(table *TranspositionTable) Option {
	return func(s *Searcher) {
		s.table = table
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Searcher) {
		s.now = now
	}
}

func NewSearcher(cfg Config, opts ...Option) *Searcher {
	s := &Searcher{
		cfg: cfg,
		gen: NewGenerator(cfg.BucketOrder),
		log: log.With().Str("component", "search").Logger(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.table == nil {
		s.table = NewTranspositionTable(cfg.TTSize, cfg.TTBuckets)
	}
	return s
}

func (s *Searcher) Config() Config {
	return s.cfg
}

func (s *Searcher) Table() *TranspositionTable {
	return s.table
}

// Stats returns the statistics of the last decision.
func (s *Searcher) Stats() Stats {
	return s.stats
}

// Reset forgets everything learned in earlier decisions.
func (s *Searcher) Reset() {
	s.table.Clear()
	s.stats = Stats{}
}

// BestMove picks the engine's move on b. The board is used as scratch space
// and is back in its original state when BestMove returns. On an empty board
// the centre is returned; a full board has no move and yields NoMove, so
// callers settle IsFull before asking.
func (s *Searcher) BestMove(b *Board) Move {
	if b.IsFull() {
		return NoMove
	}
	s.begin(b)
	f := -ScoreInf - 1
	best := b.Center()
	cands := s.candidates(b, SideEngine, 0)
	s.stats.RootCandidates = min(len(cands), s.branch)
	for i := 0; i < len(cands) && i < s.branch; i++ {
		m := cands[i].Move
		childF, err := s.child(b, m, SideEngine, f, 1)
		if err != nil {
			s.log.Error().Err(err).Stringer("move", m).Msg("root candidate rejected")
			continue
		}
		if childF > f {
			f = childF
			best = m
		}
		if f >= ScoreInf || s.stats.TimedOut {
			break
		}
	}
	s.finish(best, f)
	return best
}

func (s *Searcher) begin(b *Board) {
	s.stats = Stats{Start: s.now()}
	s.maxDepth, s.branch = s.cfg.Limits(b.Stones())
	s.budget = s.cfg.TimeBudget()
	s.stats.DepthLimit = s.maxDepth
	s.stats.BranchLimit = s.branch
	s.table.NextGeneration()
}

func (s *Searcher) finish(best Move, f int) {
	s.stats.Elapsed = s.now().Sub(s.stats.Start)
	s.stats.Best = best
	s.stats.Value = f
	s.stats.Collisions = s.table.Collisions()
	if s.cfg.LogSearchStats {
		s.log.Info().EmbedObject(s.stats).Msg("search stats")
	}
}

// child plays m for side, searches the reply node and takes the stone back,
// whatever way the search returns.
func (s *Searcher) child(b *Board, m Move, side Side, parentF, depth int) (int, error) {
	undo, err := b.Play(m.X, m.Y, side)
	if err != nil {
		return 0, err
	}
	defer undo()
	return s.search(b, parentF, side.Other(), depth, m), nil
}

// search returns the backed-up value of the node where toMove is about to
// play, last being the move that led here. Values are always from the
// engine's point of view; sign folds the max and min cases into one routine.
func (s *Searcher) search(b *Board, parentF int, toMove Side, depth int, last Move) int {
	s.stats.Nodes++
	s.stats.MaxDepthReached = max(s.stats.MaxDepthReached, depth)
	sign := toMove.sign()

	if b.IsWin(last.X, last.Y) {
		s.stats.Wins++
		return -sign * ScoreInf
	}

	key, stones := b.Fingerprint(), b.Stones()
	remaining := s.maxDepth - depth
	entry, hit := s.probe(key, stones)

	f := -sign * ScoreInf
	if hit && entry.Bound != BoundInvalid && entry.Depth >= remaining {
		switch {
		case entry.Bound == BoundExact:
			s.stats.ExactHits++
			return entry.Value
		case sign > 0 && entry.Bound == BoundLower, sign < 0 && entry.Bound == BoundUpper:
			s.stats.PartialHits++
			f = entry.Value
		}
	}

	if b.IsFull() || depth >= s.maxDepth {
		return s.leaf(b, toMove, key, stones, entry, hit)
	}
	cands := s.candidates(b, toMove, depth)
	if len(cands) == 0 {
		// Nothing worth playing: judge the position as it stands.
		return s.leaf(b, toMove, key, stones, entry, hit)
	}

	pruned := false
	for i := 0; i < len(cands) && i < s.branch; i++ {
		m := cands[i].Move
		childF, err := s.child(b, m, toMove, f, depth+1)
		if err != nil {
			s.log.Error().Err(err).Stringer("move", m).Int("depth", depth).Msg("candidate rejected")
			continue
		}
		if sign*childF > sign*f {
			f = childF
		}
		if sign*f > sign*parentF {
			s.stats.Cutoffs++
			pruned = true
			break
		}
		if s.expired() {
			s.stats.TimedOut = true
			pruned = true
			break
		}
	}

	if s.cfg.UseTranspositionTable {
		bound := BoundExact
		if pruned {
			bound = BoundUpper
			if sign > 0 {
				bound = BoundLower
			}
		}
		s.table.StoreBound(key, stones, remaining, f, bound)
	}
	return f
}

func (s *Searcher) probe(key uint64, stones int) (Entry, bool) {
	if !s.cfg.UseTranspositionTable {
		return Entry{}, false
	}
	entry, res := s.table.Probe(key, stones)
	switch res {
	case ProbeHit:
		return entry, true
	case ProbeCollision:
		s.log.Debug().Uint64("key", key).Int("stones", stones).Msg("fingerprint collision")
	}
	return Entry{}, false
}

func (s *Searcher) leaf(b *Board, toMove Side, key uint64, stones int, entry Entry, hit bool) int {
	s.stats.Leaves++
	if hit && entry.EvalValid {
		s.stats.LeafHits++
		return entry.Eval
	}
	value := b.Evaluate(toMove.Other())
	if s.cfg.UseTranspositionTable {
		s.table.StoreEval(key, stones, value)
	}
	return value
}

func (s *Searcher) candidates(b *Board, side Side, depth int) []Candidate {
	switch {
	case !s.cfg.UseHeuristic:
		return s.gen.GenerateAll(b)
	case depth >= s.cfg.KillDepth:
		return s.gen.GenerateForcing(b, side)
	default:
		return s.gen.Generate(b, side)
	}
}

func (s *Searcher) expired() bool {
	return s.now().Sub(s.stats.Start) > s.budget
}
