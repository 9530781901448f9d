package bots

import (
	"github.com/notnil/chess"
	"golang.org/x/exp/slices"

	"chessAlphaBeta/rules"
)

// captureBase lifts every capture above the quiet moves.
const captureBase = 100.0

type scoredMove struct {
	move  *chess.Move
	score float64
}

// captureScore returns 100 plus the victim's value, and false for moves
// that capture nothing.
func captureScore(b *rules.Board, m *chess.Move) (float64, bool) {
	if victim := b.PieceAt(m.S2()); victim != chess.NoPiece {
		return captureBase + PieceValue(victim.Type()), true
	}
	if m.HasTag(chess.EnPassant) {
		return captureBase + PieceValue(chess.Pawn), true
	}
	return 0, false
}

// OrderMoves puts captures first, most valuable victim first, followed by
// the quiet moves in their original order. Captures of equal value keep
// their relative order. The input slice is not modified.
func OrderMoves(b *rules.Board, moves []*chess.Move) []*chess.Move {
	captures := make([]scoredMove, 0, len(moves))
	quiet := make([]*chess.Move, 0, len(moves))
	for _, m := range moves {
		if score, ok := captureScore(b, m); ok {
			captures = append(captures, scoredMove{move: m, score: score})
		} else {
			quiet = append(quiet, m)
		}
	}

	slices.SortStableFunc(captures, func(x, y scoredMove) int {
		switch {
		case x.score > y.score:
			return -1
		case x.score < y.score:
			return 1
		}
		return 0
	})

	ordered := make([]*chess.Move, 0, len(moves))
	for _, c := range captures {
		ordered = append(ordered, c.move)
	}
	return append(ordered, quiet...)
}
