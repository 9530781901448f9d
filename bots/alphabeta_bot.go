package bots

import (
	"fmt"

	"github.com/notnil/chess"

	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

// AlphaBetaBot picks moves with a fixed-depth alpha-beta search.
type AlphaBetaBot struct {
	Depth    int
	Searcher Searcher
}

// NewAlphaBetaBot validates the settings up front so that configuration
// mistakes never surface in the middle of a game.
func NewAlphaBetaBot(depth int, profile config.Profile, ordering bool) (*AlphaBetaBot, error) {
	cfg := config.Agent{Kind: config.KindAlphaBeta, Depth: depth, Profile: profile, Ordering: ordering}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	eval, err := NewEvaluator(profile)
	if err != nil {
		return nil, err
	}
	return &AlphaBetaBot{
		Depth:    depth,
		Searcher: Searcher{Evaluator: eval, Ordering: ordering},
	}, nil
}

func (b *AlphaBetaBot) SelectMove(board *rules.Board) (*chess.Move, error) {
	res, err := b.Analyze(board)
	if err != nil {
		return nil, err
	}
	return res.Move, nil
}

// Analyze runs the search and returns the full result.
func (b *AlphaBetaBot) Analyze(board *rules.Board) (Result, error) {
	return b.Searcher.SelectBestMove(board, b.Depth)
}

func (b *AlphaBetaBot) Name() string {
	ord := "N"
	if b.Searcher.Ordering {
		ord = "Y"
	}
	return fmt.Sprintf("AlphaBeta(d=%d,eval=%s,ord=%s)", b.Depth, b.Searcher.Evaluator.Profile(), ord)
}
