package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gomoku/engine"
)

type trainerFlags struct {
	games        int
	parallel     int
	openings     int
	openingPlies int
	seed         uint64
	boardSize    int
	timeBudgetMs int
	logStats     bool
	verbose      bool
	profile      string
	profileDir   string

	bDepthOffset int
	bOrder       string
	bTT          bool
	bCluster     int
	bKillDepth   int
}

func parseFlags(args []string) (trainerFlags, error) {
	var f trainerFlags
	fs := flag.NewFlagSet("ai-trainer", flag.ContinueOnError)
	fs.IntVar(&f.games, "games", getenvInt("TRAINER_GAMES", 20), "games to play")
	fs.IntVar(&f.parallel, "parallel", getenvInt("TRAINER_PARALLEL", 4), "games played at once")
	fs.IntVar(&f.openings, "openings", getenvInt("TRAINER_OPENINGS", 6), "distinct openings")
	fs.IntVar(&f.openingPlies, "opening-plies", getenvInt("TRAINER_OPENING_PLIES", 4), "stones in each opening")
	fs.Uint64Var(&f.seed, "seed", uint64(getenvInt("TRAINER_SEED", 1)), "opening seed")
	fs.IntVar(&f.boardSize, "board-size", getenvInt("TRAINER_BOARD_SIZE", 15), "board size")
	fs.IntVar(&f.timeBudgetMs, "time-budget-ms", getenvInt("TRAINER_AI_TIME_BUDGET_MS", 800), "time budget per decision")
	fs.BoolVar(&f.logStats, "log-stats", false, "log the stats of every decision")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	fs.StringVar(&f.profile, "profile", getenv("TRAINER_PROFILE", ""), "cpu or mem profile")
	fs.StringVar(&f.profileDir, "profile-dir", ".", "directory for profile output")

	fs.IntVar(&f.bDepthOffset, "b-depth-offset", 0, "added to every schedule depth of contender B")
	fs.StringVar(&f.bOrder, "b-order", string(engine.OrderAscending), "bucket order of contender B")
	fs.BoolVar(&f.bTT, "b-tt", true, "contender B uses the transposition table")
	fs.IntVar(&f.bCluster, "b-cluster", 10, "cluster bonus percent of contender B")
	fs.IntVar(&f.bKillDepth, "b-kill-depth", 5, "ply from which contender B only tries forcing moves")

	if err := fs.Parse(args); err != nil {
		return f, err
	}
	switch f.profile {
	case "", "cpu", "mem":
	default:
		return f, errors.Errorf("unknown profile %q", f.profile)
	}
	return f, nil
}

// contenders builds the baseline A and the variant B the flags describe.
func (f trainerFlags) contenders() (contender, contender, error) {
	base := engine.DefaultConfig()
	base.BoardSize = f.boardSize
	base.TimeBudgetMs = f.timeBudgetMs
	base.LogSearchStats = f.logStats

	variant := base
	variant.Schedule = make(engine.Schedule, len(base.Schedule))
	for i, step := range base.Schedule {
		step.Depth = max(step.Depth+f.bDepthOffset, 1)
		variant.Schedule[i] = step
	}
	variant.BucketOrder = engine.Ordering(f.bOrder)
	variant.UseTranspositionTable = f.bTT
	variant.ClusterBonusPercent = f.bCluster
	variant.KillDepth = f.bKillDepth

	for id, cfg := range map[string]engine.Config{"A": base, "B": variant} {
		if err := cfg.Validate(); err != nil {
			return contender{}, contender{}, errors.Wrapf(err, "contender %s", id)
		}
	}
	return contender{ID: "A", Config: base}, contender{ID: "B", Config: variant}, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("parse flags")
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if f.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	switch f.profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(f.profileDir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(f.profileDir), profile.Quiet).Stop()
	}

	a, b, err := f.contenders()
	if err != nil {
		log.Fatal().Err(err).Msg("build contenders")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("games", f.games).
		Int("parallel", f.parallel).
		Int("board_size", f.boardSize).
		Int("time_budget_ms", f.timeBudgetMs).
		Msg("arena starting")
	start := time.Now()
	summary, err := runArena(ctx, arenaOptions{
		A:        a,
		B:        b,
		Games:    f.games,
		Parallel: f.parallel,
		Openings: buildOpeningSuite(f.boardSize, f.openings, f.openingPlies, f.seed),
	}, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("arena stopped")
		return
	}

	log.Info().
		Int("games", summary.Games).
		Int("draws", summary.Draws).
		Float64("avg_plies", float64(summary.Plies)/float64(summary.Games)).
		Dur("elapsed", time.Since(start)).
		Object("a", summary.A).
		Object("b", summary.B).
		Msg("arena finished")
	fmt.Printf("A %d - %d B (%d draws)\n", summary.A.Wins, summary.B.Wins, summary.Draws)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
