package bots

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

func TestNew(t *testing.T) {
	t.Run("random", func(t *testing.T) {
		bot, err := New(config.Agent{Kind: config.KindRandom, Seed: 3})
		require.NoError(t, err)
		require.IsType(t, &RandomBot{}, bot)
	})

	t.Run("alphabeta", func(t *testing.T) {
		bot, err := New(config.DefaultAgent())
		require.NoError(t, err)
		require.IsType(t, &AlphaBetaBot{}, bot)
		require.Equal(t, "AlphaBeta(d=3,eval=mat_mob,ord=Y)", bot.Name())
	})

	t.Run("configuration errors are rejected at construction", func(t *testing.T) {
		_, err := New(config.Agent{Kind: config.KindAlphaBeta, Depth: 0, Profile: config.ProfileMaterial})
		require.Error(t, err)

		_, err = NewAlphaBetaBot(2, "positional", true)
		require.Error(t, err)

		_, err = New(config.Agent{Kind: "human"})
		require.True(t, errors.Is(err, config.ErrUnknownKind))
	})
}

func TestRandomBotPlaysLegalMoves(t *testing.T) {
	bot := NewRandomBot(11)
	b := rules.NewBoard()
	for i := 0; i < 200 && !b.IsTerminal(); i++ {
		m, err := bot.SelectMove(b)
		require.NoError(t, err)

		legal := false
		for _, candidate := range b.LegalMoves() {
			if rules.SameMove(candidate, m) {
				legal = true
				break
			}
		}
		require.True(t, legal, "%s is not legal in %s", m, b.FEN())
		b.Push(m)
	}
}

func TestRandomBotIsReproducible(t *testing.T) {
	play := func(seed uint64) []string {
		bot := NewRandomBot(seed)
		b := rules.NewBoard()
		var moves []string
		for i := 0; i < 40 && !b.IsTerminal(); i++ {
			m, err := bot.SelectMove(b)
			require.NoError(t, err)
			moves = append(moves, m.String())
			b.Push(m)
		}
		return moves
	}

	require.Equal(t, play(42), play(42), "Same seed should give the same game")
	require.NotEqual(t, play(42), play(43))
}

func TestBotsRefuseTerminalPositions(t *testing.T) {
	alphaBeta, err := NewAlphaBetaBot(2, config.ProfileAggressive, true)
	require.NoError(t, err)
	for _, bot := range []ChessBot{NewRandomBot(1), alphaBeta} {
		for _, fen := range []string{stalemateFEN, foolsMateFEN} {
			m, err := bot.SelectMove(mustBoard(t, fen))
			require.Nil(t, m)
			require.True(t, errors.Is(err, ErrNoLegalMoves), "%s should refuse %s", bot.Name(), fen)
		}
	}
}

func TestCheckPlayable(t *testing.T) {
	b := rules.NewBoard()
	require.NoError(t, checkPlayable(b, b.LegalMoves()))

	err := checkPlayable(b, nil)
	require.True(t, errors.Is(err, ErrInvariant), "An empty move list in a live position is a rules bug")
	require.False(t, errors.Is(err, ErrNoLegalMoves))

	mated := mustBoard(t, foolsMateFEN)
	err = checkPlayable(mated, mated.LegalMoves())
	require.True(t, errors.Is(err, ErrNoLegalMoves))
	require.False(t, errors.Is(err, ErrInvariant))
}

func TestAlphaBetaBotOpeningMove(t *testing.T) {
	bot, err := NewAlphaBetaBot(2, config.ProfileMaterial, true)
	require.NoError(t, err)

	b := rules.NewBoard()
	m, err := bot.SelectMove(b)
	require.NoError(t, err)
	require.Equal(t, rules.NewBoard().FEN(), b.FEN(), "Search must not move pieces on the caller's board")

	_, err = b.PushUCI(m.String())
	require.NoError(t, err, "Chosen move must be legal")
}

func TestAlphaBetaBotTakesHangingQueen(t *testing.T) {
	bot, err := NewAlphaBetaBot(2, config.ProfileMaterial, false)
	require.NoError(t, err)

	m, err := bot.SelectMove(mustBoard(t, "4k3/8/8/3q1p2/4P3/8/8/4K3 w - - 0 1"))
	require.NoError(t, err)
	require.Equal(t, "e4d5", m.String())
}
