package engine

import (
	"sort"

	"github.com/pkg/errors"
)

// Class is the tactical bucket of a candidate cell.
type Class uint8

const (
	ClassFive Class = iota
	ClassSelfAliveFour
	ClassOppAliveFour
	ClassSelfBlockedFour
	ClassOppBlockedFour
	ClassSelfDoubleThree
	ClassOppDoubleThree
	ClassSelfAliveThree
	ClassOther
	classCount
)

type classRule struct {
	name string
	// matches is tried in Class order; the first hit wins.
	matches func(self, opp int) bool
	// priority orders candidates inside the bucket.
	priority func(self, opp int) int
	// exclusive buckets are returned alone when non-empty.
	exclusive bool
	// forcing buckets survive GenerateForcing.
	forcing bool
}

func selfScore(self, _ int) int { return self }
func oppScore(_, opp int) int   { return opp }

var classTable = [classCount]classRule{
	ClassFive: {
		name:      "five",
		matches:   func(self, opp int) bool { return self >= ScoreFive || opp >= ScoreFive },
		priority:  func(int, int) int { return ScoreFive },
		exclusive: true,
		forcing:   true,
	},
	ClassSelfAliveFour: {
		name:      "self-alive-four",
		matches:   func(self, _ int) bool { return self >= ScoreAliveFour },
		priority:  selfScore,
		exclusive: true,
		forcing:   true,
	},
	ClassOppAliveFour: {
		name:     "opp-alive-four",
		matches:  func(_, opp int) bool { return opp >= ScoreAliveFour },
		priority: oppScore,
		forcing:  true,
	},
	ClassSelfBlockedFour: {
		name:     "self-blocked-four",
		matches:  func(self, _ int) bool { return self >= ScoreBlockedFour },
		priority: selfScore,
		forcing:  true,
	},
	ClassOppBlockedFour: {
		name:     "opp-blocked-four",
		matches:  func(_, opp int) bool { return opp >= ScoreBlockedFour },
		priority: oppScore,
		forcing:  true,
	},
	ClassSelfDoubleThree: {
		name:     "self-double-three",
		matches:  func(self, _ int) bool { return self >= 2*ScoreAliveThree },
		priority: selfScore,
		forcing:  true,
	},
	ClassOppDoubleThree: {
		name:     "opp-double-three",
		matches:  func(_, opp int) bool { return opp >= 2*ScoreAliveThree },
		priority: oppScore,
		forcing:  true,
	},
	ClassSelfAliveThree: {
		name:     "self-alive-three",
		matches:  func(self, _ int) bool { return self >= ScoreAliveThree },
		priority: selfScore,
	},
	ClassOther: {
		name:     "other",
		matches:  func(int, int) bool { return true },
		priority: func(self, opp int) int { return max(self, opp) },
	},
}

// openFourDefense is emitted, in this order, when the opponent threatens an
// open four: counter-fours first, then the blocking cells.
var openFourDefense = []Class{ClassSelfBlockedFour, ClassOppAliveFour}

// fallThroughOrder is the concatenation order of the non-exclusive buckets.
var fallThroughOrder = []Class{
	ClassSelfDoubleThree,
	ClassSelfBlockedFour,
	ClassSelfAliveThree,
	ClassOppDoubleThree,
	ClassOppBlockedFour,
	ClassOther,
}

func (c Class) String() string {
	if c < classCount {
		return classTable[c].name
	}
	return "unknown"
}

func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Class) UnmarshalText(text []byte) error {
	for k := Class(0); k < classCount; k++ {
		if classTable[k].name == string(text) {
			*c = k
			return nil
		}
	}
	return errors.Errorf("unknown class %q", text)
}

func (c Class) Forcing() bool {
	return c < classCount && classTable[c].forcing
}

// Classify buckets a cell by its heuristic worth for the side to move and for
// the opponent.
func Classify(self, opp int) Class {
	for c := Class(0); c < classCount; c++ {
		if classTable[c].matches(self, opp) {
			return c
		}
	}
	return ClassOther
}

type Candidate struct {
	Move
	Score int   `json:"score"`
	Class Class `json:"class"`
}

type Generator struct {
	Order Ordering
}

func NewGenerator(order Ordering) Generator {
	return Generator{Order: order}
}

// Generate returns the candidate cells for side, most urgent bucket first.
// An empty board yields no candidates.
func (g Generator) Generate(b *Board, side Side) []Candidate {
	return g.assemble(g.scan(b, side), false)
}

// GenerateForcing is Generate without the quiet buckets, for deep search.
func (g Generator) GenerateForcing(b *Board, side Side) []Candidate {
	return g.assemble(g.scan(b, side), true)
}

// GenerateAll returns every empty cell next to a stone in scan order,
// unclassified.
func (g Generator) GenerateAll(b *Board) []Candidate {
	var out []Candidate
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.At(x, y) == CellEmpty && b.HasNeighbor(x, y) {
				out = append(out, Candidate{Move: Move{X: x, Y: y}, Class: ClassOther})
			}
		}
	}
	return out
}

type buckets [classCount][]Candidate

func (g Generator) scan(b *Board, side Side) *buckets {
	var bk buckets
	opp := side.Other()
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if b.At(x, y) != CellEmpty || !b.HasNeighbor(x, y) {
				continue
			}
			self := b.HeuristicValue(x, y, side)
			other := b.HeuristicValue(x, y, opp)
			class := Classify(self, other)
			bk[class] = append(bk[class], Candidate{
				Move:  Move{X: x, Y: y},
				Score: classTable[class].priority(self, other),
				Class: class,
			})
		}
	}
	return &bk
}

func (g Generator) assemble(bk *buckets, forcingOnly bool) []Candidate {
	for c := Class(0); c < classCount; c++ {
		if classTable[c].exclusive && len(bk[c]) > 0 {
			return g.sorted(bk[c])
		}
	}
	var out []Candidate
	emitted := [classCount]bool{}
	emit := func(c Class) {
		if emitted[c] || (forcingOnly && !classTable[c].forcing) {
			return
		}
		emitted[c] = true
		out = append(out, g.sorted(bk[c])...)
	}
	if len(bk[ClassOppAliveFour]) > 0 {
		for _, c := range openFourDefense {
			emit(c)
		}
	}
	for _, c := range fallThroughOrder {
		emit(c)
	}
	return out
}

func (g Generator) sorted(list []Candidate) []Candidate {
	if g.Order == OrderDescending {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Score > list[j].Score })
	} else {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Score < list[j].Score })
	}
	return list
}
