// Console plays gomoku against the engine in the terminal.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"gomoku/engine"
)

var (
	flagEngineFirst = flag.Bool("engine-first", false, "let the engine open the game")
	flagBoardSize   = flag.Int("board-size", 0, "board size, overrides the config file")
	flagTimeBudget  = flag.Int("time-budget-ms", 0, "time budget per engine move, overrides the config file")
	flagLogFile     = flag.String("log", "", "write logs to this file")
)

const cfgFile = "gomoku/config.json"

// loadEngineConfig reads the engine section of the shared config file, if
// there is one, on top of the defaults.
func loadEngineConfig() (engine.Config, error) {
	file := struct {
		Engine engine.Config `json:"engine"`
	}{Engine: engine.DefaultConfig()}
	if path, err := xdg.SearchConfigFile(cfgFile); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return file.Engine, errors.Wrap(err, "read config")
		}
		if err := json.Unmarshal(data, &file); err != nil {
			return file.Engine, errors.Wrapf(err, "parse %s", path)
		}
	}
	cfg := file.Engine
	if *flagBoardSize > 0 {
		cfg.BoardSize = *flagBoardSize
	}
	if *flagTimeBudget > 0 {
		cfg.TimeBudgetMs = *flagTimeBudget
	}
	cfg.LogSearchStats = *flagLogFile != ""
	return cfg, cfg.Validate()
}

func newLogger() (zerolog.Logger, func(), error) {
	if *flagLogFile == "" {
		return zerolog.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(*flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrap(err, "open log file")
	}
	return zerolog.New(f).With().Timestamp().Logger(), func() { f.Close() }, nil
}

func main() {
	flag.Parse()

	cfg, err := loadEngineConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	app := tview.NewApplication()
	game := newMatch(cfg, *flagEngineFirst, logger)
	board := newBoardView(game)
	hint := tview.NewTextView()
	hint.SetBorder(true).SetTitle(" Status ").SetTitleAlign(tview.AlignLeft)

	refresh := func() {
		hint.SetText(game.statusLine() + "\n\n←↑↓→ move   ⏎ play   r restart   q quit")
	}

	// think runs the engine off the UI goroutine. Everything touching game
	// happens inside QueueUpdateDraw or an input handler.
	think := func() {
		search, ok := game.startSearch()
		if !ok {
			return
		}
		go func() {
			res := search.run()
			app.QueueUpdateDraw(func() {
				applied, err := game.finishSearch(res)
				if err != nil {
					logger.Error().Err(err).Msg("engine move rejected")
				}
				if applied {
					board.cursor = res.move
				}
				refresh()
			})
		}()
	}

	board.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			board.moveCursor(0, -1)
		case tcell.KeyDown:
			board.moveCursor(0, 1)
		case tcell.KeyLeft:
			board.moveCursor(-1, 0)
		case tcell.KeyRight:
			board.moveCursor(1, 0)
		case tcell.KeyEnter:
			if err := game.play(board.cursor.X, board.cursor.Y); err != nil {
				hint.SetText(game.statusLine() + "\n\n" + err.Error())
				return nil
			}
			refresh()
			think()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q':
				app.Stop()
			case 'r':
				game.reset()
				board.setMatch(game)
				refresh()
				think()
			}
		}
		return nil
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(board.Box, game.size()+2, 0, true).
		AddItem(hint, 6, 0, false)
	layout.SetBorder(true).SetTitle(" gomoku ")

	refresh()
	think()
	if err := app.SetRoot(layout, true).Run(); err != nil {
		logger.Error().Err(err).Msg("console stopped")
		os.Exit(1)
	}
}
