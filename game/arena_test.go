package game

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"chessAlphaBeta/bots"
	"chessAlphaBeta/config"
)

func TestArenaCountsEveryGame(t *testing.T) {
	a := Arena{
		A:        bots.NewRandomBot(21),
		B:        bots.NewRandomBot(22),
		Games:    4,
		MaxPlies: 60,
	}
	rep, err := a.Play(context.Background())
	require.NoError(t, err)

	require.Equal(t, a.Games, rep.A.Wins+rep.A.Losses+rep.A.Draws)
	require.Equal(t, rep.A.Wins, rep.B.Losses)
	require.Equal(t, rep.A.Losses, rep.B.Wins)
	require.Equal(t, rep.A.Draws, rep.B.Draws)
	require.LessOrEqual(t, rep.Unfinished, rep.A.Draws)

	require.Len(t, rep.Plies, a.Games)
	require.Len(t, rep.Replays, a.Games)
	for _, p := range rep.Plies {
		require.LessOrEqual(t, p, 60.0)
	}
	require.False(t, math.IsNaN(rep.StdDevPlies))
	require.InDelta(t, mean(rep.Plies), rep.MeanPlies, 1e-9)

	require.Equal(t, "RandomAgent", rep.Replays[0].White)
	for _, r := range rep.Replays {
		require.Equal(t, "AIVsAI", r.Mode)
		require.NoError(t, r.Validate())
	}
}

func TestArenaSearchBeatsRandom(t *testing.T) {
	if testing.Short() {
		t.Skip("plays full games")
	}
	searcher, err := bots.New(config.Agent{Kind: config.KindAlphaBeta, Depth: 2, Profile: config.ProfileMaterial, Ordering: true})
	require.NoError(t, err)

	rep, err := Arena{A: searcher, B: bots.NewRandomBot(5), Games: 2, MaxPlies: 200}.Play(context.Background())
	require.NoError(t, err)
	require.Zero(t, rep.A.Losses, "A two-ply search should not lose to random moves")
}

func TestArenaCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Arena{A: bots.NewRandomBot(1), B: bots.NewRandomBot(2), Games: 3}.Play(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, rep.Plies)
}

func TestArenaNeedsBots(t *testing.T) {
	_, err := Arena{A: bots.NewRandomBot(1), Games: 1}.Play(context.Background())
	require.Error(t, err)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
