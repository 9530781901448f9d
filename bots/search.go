package bots

import (
	"math"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

// Stats counts the work done by one search.
type Stats struct {
	Nodes   int // positions visited, the root included
	Leaves  int // positions scored by the evaluator
	Cutoffs int // move loops abandoned because alpha >= beta
}

// Line is one root move with the score it received.
type Line struct {
	Move  *chess.Move
	Score float64
	Nodes int
}

// Result is the outcome of a root search. Scores are from the point of view
// of the side to move at the root.
type Result struct {
	Move  *chess.Move
	Score float64
	Depth int
	FEN   string
	Stats Stats
	Lines []Line
}

// Searcher is a fixed-depth negamax search with alpha-beta pruning. A
// Searcher holds no per-search state and may be shared, but every search
// needs exclusive use of its board.
type Searcher struct {
	Evaluator Evaluator
	Ordering  bool
}

// searchRun carries the counters of a single search.
type searchRun struct {
	Searcher
	stats Stats
}

// Search returns the negamax value of the position for the side to move,
// searched depth plies deep inside the window (alpha, beta).
func (s Searcher) Search(b *rules.Board, depth int, alpha, beta float64) (float64, error) {
	r := &searchRun{Searcher: s}
	return r.negamax(b, depth, alpha, beta)
}

// SelectBestMove searches every root move with the full window and returns
// the first move reaching the best score.
func (s Searcher) SelectBestMove(b *rules.Board, depth int) (Result, error) {
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
	res := Result{
		Score: math.Inf(-1),
		Depth: depth,
		FEN:   b.FEN(),
		Lines: make([]Line, 0, len(moves)),
	}
	alpha, beta := math.Inf(-1), math.Inf(1)
	for _, m := range moves {
		nodes := r.stats.Nodes
		score, err := r.child(b, m, depth, alpha, beta)
		if err != nil {
			return Result{}, err
		}
		res.Lines = append(res.Lines, Line{Move: m, Score: score, Nodes: r.stats.Nodes - nodes})
		if res.Move == nil || score > res.Score {
			res.Move, res.Score = m, score
		}
		alpha = math.Max(alpha, score)
	}
	res.Stats = r.stats

	log.Debug().
		Str("fen", res.FEN).
		Str("move", res.Move.String()).
		Float64("score", res.Score).
		Int("depth", depth).
		Int("nodes", res.Stats.Nodes).
		Int("cutoffs", res.Stats.Cutoffs).
		Msg("search complete")
	return res, nil
}

// child plays m, searches the reply from the opponent's side and returns
// the score from the mover's side. The board is restored on every path.
func (r *searchRun) child(b *rules.Board, m *chess.Move, depth int, alpha, beta float64) (float64, error) {
	var score float64
	err := b.With(m, func() error {
		v, err := r.negamax(b, depth-1, -beta, -alpha)
		score = -v
		return err
	})
	return score, err
}

func (r *searchRun) negamax(b *rules.Board, depth int, alpha, beta float64) (float64, error) {
	r.stats.Nodes++
	if method := b.Method(); method != chess.NoMethod {
		r.stats.Leaves++
		return r.forMover(b, r.Evaluator.terminal(b, method)), nil
	}
	if depth <= 0 {
		r.stats.Leaves++
		v, err := r.Evaluator.static(b)
		return r.forMover(b, v), err
	}

	moves := b.LegalMoves()
	if err := checkPlayable(b, moves); err != nil {
		return 0, err
	}
	if r.Ordering {
		moves = OrderMoves(b, moves)
	}

	best := math.Inf(-1)
	for _, m := range moves {
		score, err := r.child(b, m, depth, alpha, beta)
		if err != nil {
			return 0, err
		}
		best = math.Max(best, score)
		alpha = math.Max(alpha, best)
		if alpha >= beta {
			r.stats.Cutoffs++
			break
		}
	}
	return best, nil
}

// forMover converts a White-relative score to the side to move.
func (r *searchRun) forMover(b *rules.Board, v float64) float64 {
	if b.Turn() == chess.Black {
		return -v
	}
	return v
}
