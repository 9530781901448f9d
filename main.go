package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/bots"
	"chessAlphaBeta/cli"
	"chessAlphaBeta/config"
	"chessAlphaBeta/game"
	"chessAlphaBeta/gui"
)

var (
	noGUI      = flag.Bool("no-gui", false, "play in the terminal")
	replayPath = flag.String("replay", "", "view a saved game (.json or .pgn), or browse a directory of them")
	configPath = flag.String("config", "", "game configuration (.json, .yaml)")
	aiKind     = flag.String("ai", string(config.KindAlphaBeta), "AI agent: random or alphabeta")
	depth      = flag.Int("depth", 3, "alpha-beta search depth")
	eval       = flag.String("eval", string(config.ProfileMaterialMobility), "evaluation profile: material, mat_mob or aggressive")
	ordering   = flag.Bool("ordering", true, "search captures first")
	seed       = flag.Uint64("seed", 0, "random agent seed, 0 for the clock")
	human      = flag.String("human", "white", "sides played by a human: white, black, both or none")
	replayDir  = flag.String("replay-dir", "", "directory for saved replays")
	analyze    = flag.String("analyze", "", "print the search result for a FEN and exit")
	dot        = flag.Bool("dot", false, "with -analyze, print the search root as Graphviz")
	compare    = flag.Bool("compare", false, "with -analyze, also run the unpruned search")
	arena      = flag.Int("arena", 0, "play N games of the AI against -opponent and exit")
	opponent   = flag.String("opponent", string(config.KindRandom), "arena opponent: random or alphabeta")
	pgnOut     = flag.String("pgn", "", "with -replay, write the game as PGN to this file and exit")
	logLevel   = flag.String("log-level", "info", "log level: debug, info, warn or error")
)

func main() {
	flag.Parse()
	if err := setupLogging(*logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("chess")
		stop()
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return errors.Wrapf(err, "-log-level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func run(ctx context.Context) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	switch {
	case *analyze != "":
		return runAnalyze(cfg)
	case *arena > 0:
		return runArena(ctx, cfg)
	case *replayPath != "":
		return runReplay()
	}

	s, err := game.FromConfig(cfg)
	if err != nil {
		return err
	}
	log.Info().Str("white", s.White().Name).Str("black", s.Black().Name).Msg("new game")
	if *noGUI {
		return cli.New(os.Stdin, os.Stdout, cfg.ReplayDir).Play(ctx, s)
	}
	app, err := gui.NewApp(s, cfg.ReplayDir, cfg.Autosave)
	if err != nil {
		return err
	}
	return app.Run()
}

// resolveConfig layers flags given on the command line over the config
// file, which itself sits over the defaults.
func resolveConfig() (config.Game, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	agentFlags := set["ai"] || set["depth"] || set["eval"] || set["ordering"] || set["seed"]
	if agentFlags || *configPath == "" {
		agent, err := flagAgent()
		if err != nil {
			return cfg, err
		}
		cfg.White, cfg.Black = agent, agent
	}
	if set["human"] || *configPath == "" {
		switch strings.ToLower(*human) {
		case "white":
			cfg.HumanWhite, cfg.HumanBlack = true, false
		case "black":
			cfg.HumanWhite, cfg.HumanBlack = false, true
		case "both":
			cfg.HumanWhite, cfg.HumanBlack = true, true
		case "none":
			cfg.HumanWhite, cfg.HumanBlack = false, false
		default:
			return cfg, errors.Errorf("-human %q: want white, black, both or none", *human)
		}
	}
	if *replayDir != "" {
		cfg.ReplayDir = *replayDir
	}
	if *noGUI && (set["human"] || *configPath == "") {
		cfg.Event = "Text Mode Game"
	}
	return cfg, cfg.Validate()
}

func flagAgent() (config.Agent, error) {
	profile, err := config.ParseProfile(*eval)
	if err != nil {
		return config.Agent{}, err
	}
	agent := config.Agent{
		Kind:     config.Kind(strings.ToLower(*aiKind)),
		Depth:    *depth,
		Profile:  profile,
		Ordering: *ordering,
		Seed:     *seed,
	}
	return agent, agent.Validate()
}

func runAnalyze(cfg config.Game) error {
	agent := cfg.Black
	if agent.Kind != config.KindAlphaBeta {
		agent = config.DefaultAgent()
	}
	bot, err := bots.NewAlphaBetaBot(agent.Depth, agent.Profile, agent.Ordering)
	if err != nil {
		return err
	}
	return cli.Analyze(os.Stdout, bot, *analyze, cli.AnalyzeOptions{Dot: *dot, Compare: *compare})
}

func runArena(ctx context.Context, cfg config.Game) error {
	a, err := bots.New(cfg.Black)
	if err != nil {
		return err
	}
	opp := cfg.Black
	opp.Kind = config.Kind(strings.ToLower(*opponent))
	if opp.Seed != 0 {
		opp.Seed++
	}
	b, err := bots.New(opp)
	if err != nil {
		return errors.WithMessage(err, "opponent")
	}

	rep, err := game.Arena{A: a, B: b, Games: *arena, Event: "Arena"}.Play(ctx)
	cli.Report(os.Stdout, rep)
	if err != nil {
		return err
	}
	for _, r := range rep.Replays {
		if _, err := r.SaveReplay(filepath.Join(cfg.ReplayDir, "arena")); err != nil {
			return err
		}
	}
	return nil
}

func runReplay() error {
	if info, err := os.Stat(*replayPath); err == nil && info.IsDir() {
		b, err := gui.NewReplayBrowser(*replayPath)
		if err != nil {
			return err
		}
		return b.Run()
	}

	r, err := loadReplay(*replayPath)
	if err != nil {
		return err
	}
	log.Info().
		Str("white", r.White).
		Str("black", r.Black).
		Str("event", r.Event).
		Int("moves", len(r.Moves)).
		Msg("loaded replay")

	if *pgnOut != "" {
		text, err := r.PGN()
		if err != nil {
			return err
		}
		return errors.WithStack(os.WriteFile(*pgnOut, []byte(text), 0o644))
	}
	v, err := gui.NewReplayViewer(r)
	if err != nil {
		return err
	}
	return v.Run()
}

func loadReplay(path string) (game.Replay, error) {
	if strings.EqualFold(filepath.Ext(path), ".pgn") {
		f, err := os.Open(path)
		if err != nil {
			return game.Replay{}, errors.WithStack(err)
		}
		defer f.Close()
		return game.ReplayFromPGN(f)
	}
	return game.LoadReplay(path)
}
