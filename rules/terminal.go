package rules

import (
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// fiftyMoveHalfMoves is the halfmove clock at which the fifty-move rule applies.
const fiftyMoveHalfMoves = 100

func (b *Board) IsCheckmate() bool {
	return b.Position().Status() == chess.Checkmate
}

func (b *Board) IsStalemate() bool {
	return b.Position().Status() == chess.Stalemate
}

// IsDraw reports a draw by rule: threefold repetition, the fifty-move rule
// or insufficient material. Positions without legal moves are never
// reported here; they are checkmate or stalemate.
func (b *Board) IsDraw() bool {
	return b.drawMethod() != chess.NoMethod
}

// IsTerminal reports whether play has ended in this position.
func (b *Board) IsTerminal() bool {
	return b.Method() != chess.NoMethod
}

// Method returns how the game ended, or chess.NoMethod.
func (b *Board) Method() chess.Method {
	if status := b.Position().Status(); status != chess.NoMethod {
		return status
	}
	return b.drawMethod()
}

// Outcome returns the result of the game at this position.
func (b *Board) Outcome() chess.Outcome {
	switch b.Method() {
	case chess.NoMethod:
		return chess.NoOutcome
	case chess.Checkmate:
		if b.Turn() == chess.White {
			return chess.BlackWon
		}
		return chess.WhiteWon
	default:
		return chess.Draw
	}
}

// Repetitions counts how often the current position has occurred in the
// board's history, the current occurrence included.
func (b *Board) Repetitions() int {
	current := b.keys[len(b.keys)-1]
	n := 0
	for i := len(b.keys) - 1; i >= 0; i -= 2 {
		if b.keys[i] == current {
			n++
		}
	}
	return n
}

// HalfMoveClock returns the number of half-moves since the last capture or
// pawn move.
func (b *Board) HalfMoveClock() int {
	fields := strings.Fields(b.FEN())
	if len(fields) < 5 {
		return 0
	}
	n, err := strconv.Atoi(fields[4])
	if err != nil {
		return 0
	}
	return n
}

func (b *Board) drawMethod() chess.Method {
	if b.Position().Status() != chess.NoMethod {
		return chess.NoMethod
	}
	switch {
	case insufficientMaterial(b.Position().Board()):
		return chess.InsufficientMaterial
	case b.HalfMoveClock() >= fiftyMoveHalfMoves:
		return chess.FiftyMoveRule
	case b.Repetitions() >= 3:
		return chess.ThreefoldRepetition
	}
	return chess.NoMethod
}

// insufficientMaterial is true for bare kings, a single minor piece, or
// any number of bishops all standing on one square colour.
func insufficientMaterial(board *chess.Board) bool {
	var knights, bishops int
	bishopShade := -1
	mixedShades := false
	for sq, p := range board.SquareMap() {
		switch p.Type() {
		case chess.King:
		case chess.Knight:
			knights++
		case chess.Bishop:
			bishops++
			shade := (int(sq.File()) + int(sq.Rank())) % 2
			if bishopShade >= 0 && shade != bishopShade {
				mixedShades = true
			}
			bishopShade = shade
		default:
			return false
		}
	}
	switch {
	case knights+bishops <= 1:
		return true
	case knights == 0:
		return !mixedShades
	}
	return false
}
