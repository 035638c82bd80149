package engine

import (
	"time"

	"github.com/pkg/errors"
)

// Ordering decides how candidates inside one bucket are sorted.
type Ordering string

const (
	// OrderAscending tries the weakest candidate of a bucket first.
	OrderAscending  Ordering = "ascending"
	OrderDescending Ordering = "descending"
)

// ScheduleStep applies while the stone count is below MaxStones. A step with
// MaxStones <= 0 matches any count.
type ScheduleStep struct {
	MaxStones int `json:"max_stones"`
	Depth     int `json:"depth"`
	Branch    int `json:"branch"`
}

type Schedule []ScheduleStep

// Limits returns the depth and branching caps for a board with the given
// number of stones.
func (s Schedule) Limits(stones int) (depth, branch int) {
	for _, step := range s {
		if step.MaxStones <= 0 || stones < step.MaxStones {
			return step.Depth, step.Branch
		}
	}
	last := s[len(s)-1]
	return last.Depth, last.Branch
}

func DefaultSchedule() Schedule {
	return Schedule{
		{MaxStones: 4, Depth: 3, Branch: 20},
		{MaxStones: 6, Depth: 4, Branch: 18},
		{MaxStones: 8, Depth: 5, Branch: 16},
		{MaxStones: 10, Depth: 6, Branch: 15},
		{MaxStones: 12, Depth: 7, Branch: 15},
		{MaxStones: 0, Depth: 8, Branch: 14},
	}
}

// bruteForceDepth is the fixed depth used when heuristic generation is off.
const bruteForceDepth = 3

// Bounds on the sizes a config may ask for. Boards and tables are allocated
// up front, so these keep a bad config from exhausting memory.
const (
	MinBoardSize = 5
	MaxBoardSize = 25
	MaxTTSize    = 1 << 24
	MaxTTBuckets = 8
)

type Config struct {
	BoardSize             int      `json:"board_size"`
	Schedule              Schedule `json:"schedule"`
	KillDepth             int      `json:"kill_depth"`
	TimeBudgetMs          int      `json:"time_budget_ms"`
	ClusterBonusPercent   int      `json:"cluster_bonus_percent"`
	UseTranspositionTable bool     `json:"use_transposition_table"`
	UseHeuristic          bool     `json:"use_heuristic"`
	BucketOrder           Ordering `json:"bucket_order"`
	TTSize                uint64   `json:"tt_size"`
	TTBuckets             int      `json:"tt_buckets"`
	ZobristSeed           uint64   `json:"zobrist_seed"`
	LogSearchStats        bool     `json:"log_search_stats"`
}

func DefaultConfig() Config {
	return Config{
		BoardSize:             15,
		Schedule:              DefaultSchedule(),
		KillDepth:             5,
		TimeBudgetMs:          60_000,
		ClusterBonusPercent:   10,
		UseTranspositionTable: true,
		UseHeuristic:          true,
		BucketOrder:           OrderAscending,
		TTSize:                1 << 18,
		TTBuckets:             2,
		ZobristSeed:           0x9e3779b97f4a7c15,
		LogSearchStats:        true,
	}
}

func (c Config) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetMs) * time.Millisecond
}

// Limits returns the depth and branching caps for a decision on a board
// holding the given number of stones.
func (c Config) Limits(stones int) (depth, branch int) {
	if !c.UseHeuristic {
		return bruteForceDepth, c.BoardSize * c.BoardSize
	}
	return c.Schedule.Limits(stones)
}

func (c Config) Validate() error {
	if c.BoardSize < MinBoardSize {
		return errors.Errorf("board size %d is too small for five in a row", c.BoardSize)
	}
	if c.BoardSize > MaxBoardSize {
		return errors.Errorf("board size %d exceeds %d", c.BoardSize, MaxBoardSize)
	}
	if len(c.Schedule) == 0 {
		return errors.New("schedule must have at least one step")
	}
	prev := 0
	for i, step := range c.Schedule {
		if step.Depth < 1 || step.Branch < 1 {
			return errors.Errorf("schedule step %d: depth and branch must be positive", i)
		}
		if step.MaxStones <= 0 {
			if i != len(c.Schedule)-1 {
				return errors.Errorf("schedule step %d: open-ended step must be last", i)
			}
			continue
		}
		if step.MaxStones <= prev {
			return errors.Errorf("schedule step %d: max_stones must increase", i)
		}
		prev = step.MaxStones
	}
	if c.KillDepth < 1 {
		return errors.Errorf("kill depth %d must be positive", c.KillDepth)
	}
	if c.TimeBudgetMs <= 0 {
		return errors.Errorf("time budget %dms must be positive", c.TimeBudgetMs)
	}
	if c.ClusterBonusPercent < 0 {
		return errors.Errorf("cluster bonus %d%% must not be negative", c.ClusterBonusPercent)
	}
	switch c.BucketOrder {
	case OrderAscending, OrderDescending:
	default:
		return errors.Errorf("unknown bucket order %q", c.BucketOrder)
	}
	if c.TTBuckets < 1 || c.TTBuckets > MaxTTBuckets {
		return errors.Errorf("tt buckets %d must be between 1 and %d", c.TTBuckets, MaxTTBuckets)
	}
	if c.TTSize < 1 || c.TTSize > MaxTTSize {
		return errors.Errorf("tt size %d must be between 1 and %d", c.TTSize, MaxTTSize)
	}
	return nil
}
