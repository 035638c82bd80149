package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"gomoku/engine"
)

var (
	boardStyle    = tcell.StyleDefault.Background(tcell.ColorDarkGoldenrod).Foreground(tcell.ColorBlack)
	cursorStyle   = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorWhite)
	lastMoveStyle = tcell.StyleDefault.Background(tcell.ColorMaroon).Foreground(tcell.ColorWhite)
)

// boardView draws the match on a tview.Box, two columns per cell.
type boardView struct {
	Box    *tview.Box
	match  *match
	cursor engine.Move
	// stones maps the engine perspective to the rune of each player.
	stones map[engine.Cell]rune
}

func newBoardView(m *match) *boardView {
	v := &boardView{Box: tview.NewBox(), match: m}
	v.setMatch(m)
	v.Box.SetDrawFunc(func(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
		size := v.match.size()
		for by := 0; by < size; by++ {
			for bx := 0; bx < size; bx++ {
				style := boardStyle
				switch {
				case bx == v.cursor.X && by == v.cursor.Y:
					style = cursorStyle
				case v.match.hasLast && bx == v.match.last.X && by == v.match.last.Y:
					style = lastMoveStyle
				}
				r := gridRune(bx, by, size)
				if cell := v.match.at(bx, by); cell != engine.CellEmpty {
					r = v.stones[cell]
				}
				screen.SetContent(x+3+bx*2, y+1+by, r, nil, style)
				screen.SetContent(x+4+bx*2, y+1+by, ' ', nil, style)
			}
			tview.Print(screen, coordLabel(by), x, y+1+by, 3, tview.AlignRight, tcell.ColorGray)
		}
		for bx := 0; bx < size; bx++ {
			tview.Print(screen, string(rune('A'+bx)), x+3+bx*2, y, 1, tview.AlignLeft, tcell.ColorGray)
		}
		return x, y, width, height
	})
	return v
}

// setMatch points the view at a new game and recentres the cursor.
func (v *boardView) setMatch(m *match) {
	v.match = m
	center := m.board.Center()
	v.cursor = center
	// Black always moves first.
	v.stones = map[engine.Cell]rune{engine.CellEngine: '○', engine.CellOpponent: '●'}
	if m.engineFirst {
		v.stones = map[engine.Cell]rune{engine.CellEngine: '●', engine.CellOpponent: '○'}
	}
}

func (v *boardView) moveCursor(dx, dy int) {
	next := engine.Move{X: v.cursor.X + dx, Y: v.cursor.Y + dy}
	if next.InBounds(v.match.size()) {
		v.cursor = next
	}
}

func gridRune(x, y, size int) rune {
	top, bottom := y == 0, y == size-1
	left, right := x == 0, x == size-1
	switch {
	case top && left:
		return '┌'
	case top && right:
		return '┐'
	case bottom && left:
		return '└'
	case bottom && right:
		return '┘'
	case top:
		return '┬'
	case bottom:
		return '┴'
	case left:
		return '├'
	case right:
		return '┤'
	default:
		return '┼'
	}
}

func coordLabel(row int) string {
	return string(rune('0'+(row+1)/10)) + string(rune('0'+(row+1)%10))
}
