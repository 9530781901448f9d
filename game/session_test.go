package game

import (
	"context"
	"testing"
	"time"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chessAlphaBeta/bots"
	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func randomPlayer(seed uint64) Player {
	return Computer(bots.NewRandomBot(seed))
}

func alphaBetaPlayer(t *testing.T, depth int) Player {
	t.Helper()
	bot, err := bots.NewAlphaBetaBot(depth, config.ProfileMaterial, true)
	require.NoError(t, err)
	return Computer(bot)
}

func TestUndoRestoresMovePair(t *testing.T) {
	s := NewSession("test", Human(), randomPlayer(5))
	_, err := s.Play("e2e4")
	require.NoError(t, err)
	_, err = s.Step()
	require.NoError(t, err)
	_, err = s.Play("g1f3")
	require.NoError(t, err)
	_, err = s.Step()
	require.NoError(t, err)

	before := s.History()
	require.Len(t, before.Moves, 4)

	n, err := s.Undo()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, before.Moves[:2], s.History().Moves)

	b := rules.NewBoard()
	for _, m := range before.Moves[:2] {
		_, err := b.PushUCI(m)
		require.NoError(t, err)
	}
	require.Equal(t, b.FEN(), s.FEN(), "Undo must restore the exact position before the pair")

	n, err = s.Undo()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, startFEN, s.FEN())
	require.Empty(t, s.History().Moves)

	_, err = s.Undo()
	require.True(t, errors.Is(err, ErrNothingToUndo))
}

func TestUndoSingleMove(t *testing.T) {
	s := NewSession("test", Human(), Human())
	_, err := s.Play("d2d4")
	require.NoError(t, err)

	n, err := s.Undo()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, startFEN, s.FEN())
}

func TestTurnEnforcement(t *testing.T) {
	s := NewSession("test", randomPlayer(1), Human())

	_, err := s.Play("e2e4")
	require.True(t, errors.Is(err, ErrNotHumanTurn))

	m, err := s.Step()
	require.NoError(t, err)
	require.NotNil(t, m)
	require.True(t, s.IsHumanTurn())

	_, err = s.Step()
	require.True(t, errors.Is(err, ErrHumanTurn))

	_, err = s.Play("a1a5")
	require.True(t, errors.Is(err, rules.ErrIllegalMove))
	require.Equal(t, 1, s.Ply(), "An illegal move must not change the game")
}

func TestPlayMoveRejectsForeignMove(t *testing.T) {
	s := NewSession("test", Human(), Human())
	other, err := rules.FromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	var rookMove *chess.Move
	for _, m := range other.LegalMoves() {
		if m.String() == "a1a8" {
			rookMove = m
		}
	}
	require.NotNil(t, rookMove)
	require.True(t, errors.Is(s.PlayMove(rookMove), rules.ErrIllegalMove))
	require.NoError(t, s.PlayMove(s.LegalMoves()[0]))
}

func TestRunPlaysToTheEnd(t *testing.T) {
	s := NewSession("test", randomPlayer(3), randomPlayer(4))
	require.NoError(t, s.Run(context.Background()))
	require.True(t, s.IsOver())

	h := s.History()
	require.Len(t, h.Moves, s.Ply())
	require.Contains(t, []string{"1-0", "0-1", "1/2-1/2"}, h.Result)
	require.NotEqual(t, chess.NoMethod, h.Method)
	assert.Contains(t, s.Status(), "Game over")

	_, err := s.Step()
	require.True(t, errors.Is(err, ErrGameOver))
	_, err = s.Play("e2e4")
	require.True(t, errors.Is(err, ErrGameOver))
}

func TestRunStopsForHuman(t *testing.T) {
	s := NewSession("test", Human(), randomPlayer(9))
	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 0, s.Ply(), "Nothing to do while the human is to move")

	_, err := s.Play("e2e4")
	require.NoError(t, err)
	require.NoError(t, s.Run(context.Background()))
	require.Equal(t, 2, s.Ply())
	require.True(t, s.IsHumanTurn())
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewSession("test", randomPlayer(1), randomPlayer(2))
	require.ErrorIs(t, s.Run(ctx), context.Canceled)
	require.Equal(t, 0, s.Ply())
}

func TestOutcomeLabels(t *testing.T) {
	tests := []struct {
		name   string
		fen    string
		result string
		method string
	}{
		{"white mated", "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3", "0-1", "checkmate"},
		{"black mated", "R6k/6pp/8/8/8/8/8/6K1 b - - 1 1", "1-0", "checkmate"},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", "1/2-1/2", "stalemate"},
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", "1/2-1/2", "insufficient material"},
		{"in play", startFEN, "*", "in progress"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession("test", Human(), Human())
			require.NoError(t, s.SetupFEN(tt.fen))
			require.Equal(t, tt.result, s.Result())
			require.Equal(t, tt.method, MethodLabel(s.Method()))
		})
	}
}

func TestMode(t *testing.T) {
	bot := randomPlayer(1)
	require.Equal(t, "HumanVsHuman", NewSession("", Human(), Human()).Mode())
	require.Equal(t, "HumanVsAI", NewSession("", Human(), bot).Mode())
	require.Equal(t, "AIVsHuman", NewSession("", bot, Human()).Mode())
	require.Equal(t, "AIVsAI", NewSession("", bot, bot).Mode())
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Black = config.Agent{Kind: config.KindAlphaBeta, Depth: 2, Profile: config.ProfileAggressive}
	s, err := FromConfig(cfg)
	require.NoError(t, err)
	require.True(t, s.White().IsHuman())
	require.Equal(t, "AlphaBeta(d=2,eval=aggressive,ord=N)", s.Black().Name)

	cfg.Black.Depth = 0
	_, err = FromConfig(cfg)
	require.True(t, errors.Is(err, config.ErrInvalidDepth))
}

func TestThinkAppliesFreshMove(t *testing.T) {
	s := NewSession("test", Human(), alphaBetaPlayer(t, 2))
	_, err := s.Play("e2e4")
	require.NoError(t, err)

	ch, err := s.Think(context.Background())
	require.NoError(t, err)
	select {
	case th := <-ch:
		require.NoError(t, th.Err)
		played, err := s.Apply(th)
		require.NoError(t, err)
		require.True(t, played)
		require.Equal(t, 2, s.Ply())
	case <-time.After(time.Minute):
		t.Fatal("bot did not answer")
	}
}

func TestThinkDiscardsStaleMove(t *testing.T) {
	s := NewSession("test", Human(), randomPlayer(8))
	_, err := s.Play("e2e4")
	require.NoError(t, err)

	ch, err := s.Think(context.Background())
	require.NoError(t, err)
	th := <-ch

	// The human takes the move back before the answer is applied.
	_, err = s.Undo()
	require.NoError(t, err)
	played, err := s.Apply(th)
	require.NoError(t, err)
	require.False(t, played)
	require.Equal(t, startFEN, s.FEN())
}

func TestThinkRefusesHumanTurn(t *testing.T) {
	s := NewSession("test", Human(), randomPlayer(8))
	_, err := s.Think(context.Background())
	require.True(t, errors.Is(err, ErrHumanTurn))
}
