package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// Stats describes one BestMove decision. It is reset at the start of every
// decision and only written by the Searcher that owns it.
type Stats struct {
	Start           time.Time     `json:"start"`
	Elapsed         time.Duration `json:"elapsed"`
	TimedOut        bool          `json:"timed_out"`
	DepthLimit      int           `json:"depth_limit"`
	BranchLimit     int           `json:"branch_limit"`
	MaxDepthReached int           `json:"max_depth_reached"`
	Nodes           int           `json:"nodes"`
	Leaves          int           `json:"leaves"`
	Wins            int           `json:"wins"`
	Cutoffs         int           `json:"cutoffs"`
	ExactHits       int           `json:"exact_hits"`
	PartialHits     int           `json:"partial_hits"`
	LeafHits        int           `json:"leaf_hits"`
	Collisions      int           `json:"collisions"`
	RootCandidates  int           `json:"root_candidates"`
	Value           int           `json:"value"`
	Best            Move          `json:"best"`
}

func (s Stats) CacheHits() int {
	return s.ExactHits + s.PartialHits + s.LeafHits
}

// NodesPerSecond is zero until the decision has taken measurable time.
func (s Stats) NodesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Nodes) / s.Elapsed.Seconds()
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Stringer("best", s.Best).
		Int("value", s.Value).
		Int("depth_limit", s.DepthLimit).
		Int("branch_limit", s.BranchLimit).
		Int("max_depth", s.MaxDepthReached).
		Int("nodes", s.Nodes).
		Int("leaves", s.Leaves).
		Int("wins", s.Wins).
		Int("cutoffs", s.Cutoffs).
		Int("cache_hits", s.CacheHits()).
		Int("exact_hits", s.ExactHits).
		Int("partial_hits", s.PartialHits).
		Int("leaf_hits", s.LeafHits).
		Int("collisions", s.Collisions).
		Dur("elapsed", s.Elapsed).
		Float64("nps", s.NodesPerSecond()).
		Bool("timed_out", s.TimedOut)
}
