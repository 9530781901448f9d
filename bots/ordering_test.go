package bots

import (
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"

	"chessAlphaBeta/rules"
)

func uciStrings(moves []*chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

func TestOrderMovesVictimValue(t *testing.T) {
	// The e4 pawn can take a queen on d5 or a pawn on f5.
	b := mustBoard(t, "4k3/8/8/3q1p2/4P3/8/8/4K3 w - - 0 1")
	input := b.LegalMoves()
	ordered := OrderMoves(b, input)

	require.Equal(t, "e4d5", ordered[0].String(), "Queen capture should come first")
	require.Equal(t, "e4f5", ordered[1].String(), "Pawn capture should come second")

	var quietIn []string
	for _, m := range input {
		if _, ok := captureScore(b, m); !ok {
			quietIn = append(quietIn, m.String())
		}
	}
	require.Equal(t, quietIn, uciStrings(ordered[2:]), "Quiet moves should keep their original order")
}

func TestOrderMovesStableTies(t *testing.T) {
	// Two pawn captures of equal value.
	b := mustBoard(t, "4k3/8/8/3p1p2/4P3/8/8/4K3 w - - 0 1")
	input := b.LegalMoves()

	var capturesIn []string
	for _, m := range input {
		if _, ok := captureScore(b, m); ok {
			capturesIn = append(capturesIn, m.String())
		}
	}
	require.Len(t, capturesIn, 2)

	ordered := OrderMoves(b, input)
	require.Equal(t, capturesIn, uciStrings(ordered[:2]), "Equal captures should keep their input order")

	reversed := make([]*chess.Move, len(input))
	for i, m := range input {
		reversed[len(input)-1-i] = m
	}
	ordered = OrderMoves(b, reversed)
	require.Equal(t, []string{capturesIn[1], capturesIn[0]}, uciStrings(ordered[:2]))
}

func TestOrderMovesEnPassant(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2")
	ordered := OrderMoves(b, b.LegalMoves())
	require.Equal(t, "e5d6", ordered[0].String())
	score, ok := captureScore(b, ordered[0])
	require.True(t, ok)
	require.Equal(t, captureBase+PieceValue(chess.Pawn), score)
}

func TestOrderMovesIsPermutation(t *testing.T) {
	fens := []string{
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/3q1p2/4P3/8/8/4K3 w - - 0 1",
	}
	boards := []*rules.Board{rules.NewBoard()}
	for _, fen := range fens {
		boards = append(boards, mustBoard(t, fen))
	}

	for _, b := range boards {
		input := b.LegalMoves()
		before := uciStrings(input)
		ordered := OrderMoves(b, input)
		require.ElementsMatch(t, before, uciStrings(ordered), "Ordering must not drop or duplicate moves in %s", b.FEN())
		require.Equal(t, before, uciStrings(input), "Ordering must not modify its input")
	}
}
