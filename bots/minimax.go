package bots

import (
	"math"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

// Minimax walks the whole tree to depth without pruning, White maximising
// and Black minimising. It reports the same perspective as SelectBestMove
// so the two can be compared; only the statistics differ.
func (s Searcher) Minimax(b *rules.Board, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, errors.Wrapf(config.ErrInvalidDepth, "got %d", depth)
	}
	moves := b.LegalMoves()
	if err := checkPlayable(b, moves); err != nil {
		return Result{}, err
	}
	if s.Ordering {
		moves = OrderMoves(b, moves)
	}

	r := &searchRun{Searcher: s}
	r.stats.Nodes++
	maximizing := b.Turn() == chess.White
	res := Result{Score: math.Inf(-1), Depth: depth, FEN: b.FEN()}
	for _, m := range moves {
		nodes := r.stats.Nodes
		var current float64
		err := b.With(m, func() error {
			v, err := r.minimax(b, depth-1, !maximizing)
			current = v
			return err
		})
		if err != nil {
			return Result{}, err
		}
		if !maximizing {
			current = -current
		}
		res.Lines = append(res.Lines, Line{Move: m, Score: current, Nodes: r.stats.Nodes - nodes})
		if res.Move == nil || current > res.Score {
			res.Move, res.Score = m, current
		}
	}
	res.Stats = r.stats
	return res, nil
}

func (r *searchRun) minimax(b *rules.Board, depth int, maximizing bool) (float64, error) {
	r.stats.Nodes++
	if method := b.Method(); method != chess.NoMethod {
		r.stats.Leaves++
		return r.Evaluator.terminal(b, method), nil
	}
	if depth <= 0 {
		r.stats.Leaves++
		return r.Evaluator.static(b)
	}

	validMoves := b.LegalMoves()
	if err := checkPlayable(b, validMoves); err != nil {
		return 0, err
	}

	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range validMoves {
		var current float64
		err := b.With(move, func() error {
			v, err := r.minimax(b, depth-1, !maximizing)
			current = v
			return err
		})
		if err != nil {
			return 0, err
		}
		if maximizing {
			best = math.Max(best, current)
		} else {
			best = math.Min(best, current)
		}
	}
	return best, nil
}
