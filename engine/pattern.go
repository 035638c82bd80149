package engine

// Pattern scores. Every rank dominates the sum of any realistic number of
// lower-ranked patterns.
const (
	ScoreFive         = 10_000_000
	ScoreAliveFour    = 100_000
	ScoreBlockedFour  = 10_000
	ScoreAliveThree   = 1_000
	ScoreBlockedThree = 100
	ScoreAliveTwo     = 20
	ScoreBlockedTwo   = 2

	// ScoreInf marks a decided position.
	ScoreInf = 1_000_000_000
)

type Symbol uint8

const (
	SymEmpty Symbol = iota
	SymSelf
	SymBlocked
)

// LineLen is the length of a standardized line: the 9-cell window plus one
// Blocked sentinel at each end.
const LineLen = 2*lineHalf + 3

// Line is a standardized line seen from one side.
type Line [LineLen]Symbol

// PatternCounts holds how many windows of each rank a line contains. Ranks
// suppressed by a stronger sibling (blocked four next to an open four, and so
// on) are left at zero.
type PatternCounts struct {
	Five         int `json:"five"`
	AliveFour    int `json:"alive_four"`
	BlockedFour  int `json:"blocked_four"`
	AliveThree   int `json:"alive_three"`
	BlockedThree int `json:"blocked_three"`
	AliveTwo     int `json:"alive_two"`
	BlockedTwo   int `json:"blocked_two"`
}

func (p PatternCounts) Score() int {
	return p.Five*ScoreFive +
		p.AliveFour*ScoreAliveFour +
		p.BlockedFour*ScoreBlockedFour +
		p.AliveThree*ScoreAliveThree +
		p.BlockedThree*ScoreBlockedThree +
		p.AliveTwo*ScoreAliveTwo +
		p.BlockedTwo*ScoreBlockedTwo
}

// ParseLine builds a standardized line from a compact string form: 'X' for
// self, '.' for empty, anything else for blocked. Sentinels are added when the
// input has 9 symbols.
func ParseLine(s string) Line {
	var line Line
	offset := 0
	if len(s) == LineLen-2 {
		line[0] = SymBlocked
		line[LineLen-1] = SymBlocked
		offset = 1
	}
	for i := 0; i < len(s) && i+offset < LineLen; i++ {
		switch s[i] {
		case 'X':
			line[i+offset] = SymSelf
		case '.':
			line[i+offset] = SymEmpty
		default:
			line[i+offset] = SymBlocked
		}
	}
	return line
}

func (l Line) String() string {
	out := make([]byte, LineLen)
	for i, sym := range l {
		switch sym {
		case SymSelf:
			out[i] = 'X'
		case SymEmpty:
			out[i] = '.'
		default:
			out[i] = '#'
		}
	}
	return string(out)
}

type lineCounter struct {
	self  [LineLen + 1]int
	empty [LineLen + 1]int
	line  *Line
}

func newLineCounter(line *Line) lineCounter {
	c := lineCounter{line: line}
	for i, sym := range line {
		c.self[i+1] = c.self[i]
		c.empty[i+1] = c.empty[i]
		switch sym {
		case SymSelf:
			c.self[i+1]++
		case SymEmpty:
			c.empty[i+1]++
		}
	}
	return c
}

// window counts self and empty symbols in line[left : left+width].
func (c *lineCounter) window(left, width int) (self, empty int) {
	right := left + width
	return c.self[right] - c.self[left], c.empty[right] - c.empty[left]
}

// closed counts 5-wide windows holding exactly n self and 5-n empty symbols.
func (c *lineCounter) closed(n int) int {
	count := 0
	for left := 0; left+5 <= LineLen; left++ {
		self, empty := c.window(left, 5)
		if self == n && empty == 5-n {
			count++
		}
	}
	return count
}

// open counts 6-wide windows with empty ends holding exactly n self and 6-n
// empty symbols.
func (c *lineCounter) open(n int) int {
	count := 0
	for left := 0; left+6 <= LineLen; left++ {
		if c.line[left] != SymEmpty || c.line[left+5] != SymEmpty {
			continue
		}
		self, empty := c.window(left, 6)
		if self == n && empty == 6-n {
			count++
		}
	}
	return count
}

// ClassifyLine counts the patterns of a standardized line, strongest rank
// first. A five short-circuits everything else.
func ClassifyLine(line Line) PatternCounts {
	c := newLineCounter(&line)
	var p PatternCounts
	if p.Five = c.closed(5); p.Five > 0 {
		return p
	}
	if p.AliveFour = c.open(4); p.AliveFour == 0 {
		p.BlockedFour = c.closed(4)
	}
	if p.AliveThree = c.open(3); p.AliveThree == 0 {
		p.BlockedThree = c.closed(3)
	}
	if p.AliveTwo = c.open(2); p.AliveTwo == 0 {
		p.BlockedTwo = c.closed(2)
	}
	return p
}

func ScoreLine(line Line) int {
	return ClassifyLine(line).Score()
}
