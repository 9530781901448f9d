package game

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"chessAlphaBeta/bots"
)

// DefaultMaxPlies ends arena games that neither side can finish.
const DefaultMaxPlies = 300

// Standing is one bot's record in an arena.
type Standing struct {
	Name   string
	Wins   int
	Losses int
	Draws  int
}

func (s Standing) String() string {
	return fmt.Sprintf("%s: +%d -%d =%d", s.Name, s.Wins, s.Losses, s.Draws)
}

// ArenaReport summarises a match.
type ArenaReport struct {
	A, B Standing
	// Plies holds the length of every game played.
	Plies       []float64
	MeanPlies   float64
	StdDevPlies float64
	// Unfinished counts games stopped at the ply limit; they score as draws.
	Unfinished int
	Replays    []Replay
}

// Arena plays two bots against each other, swapping colours every game.
// A has White in the first game.
type Arena struct {
	A, B     bots.ChessBot
	Games    int
	MaxPlies int
	Event    string
}

// Play runs the match. It stops early, with the games finished so far,
// when ctx is cancelled.
func (a Arena) Play(ctx context.Context) (ArenaReport, error) {
	if a.A == nil || a.B == nil {
		return ArenaReport{}, errors.New("arena needs two bots")
	}
	maxPlies := a.MaxPlies
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}
	event := a.Event
	if event == "" {
		event = "Arena"
	}

	rep := ArenaReport{
		A: Standing{Name: a.A.Name()},
		B: Standing{Name: a.B.Name()},
	}
	for i := 0; i < a.Games; i++ {
		white, black := a.A, a.B
		whiteRec, blackRec := &rep.A, &rep.B
		if i%2 == 1 {
			white, black = black, white
			whiteRec, blackRec = blackRec, whiteRec
		}
		log.Info().Msgf("starting game %d of %d, %s vs %s", i+1, a.Games, white.Name(), black.Name())

		s := NewSession(fmt.Sprintf("%s, game %d", event, i+1), Computer(white), Computer(black))
		for !s.IsOver() && s.Ply() < maxPlies {
			if err := ctx.Err(); err != nil {
				rep.summarise()
				return rep, err
			}
			if _, err := s.Step(); err != nil {
				rep.summarise()
				return rep, errors.WithMessagef(err, "game %d", i+1)
			}
		}

		switch s.Result() {
		case "1-0":
			whiteRec.Wins++
			blackRec.Losses++
		case "0-1":
			blackRec.Wins++
			whiteRec.Losses++
		default:
			whiteRec.Draws++
			blackRec.Draws++
		}
		if !s.IsOver() {
			rep.Unfinished++
		}
		rep.Plies = append(rep.Plies, float64(s.Ply()))
		rep.Replays = append(rep.Replays, NewReplay(s))
		log.Info().Msgf("completed game %d with result %s after %d plies", i+1, s.Result(), s.Ply())
	}
	rep.summarise()
	return rep, nil
}

func (r *ArenaReport) summarise() {
	switch len(r.Plies) {
	case 0:
		r.MeanPlies, r.StdDevPlies = 0, 0
	case 1:
		r.MeanPlies, r.StdDevPlies = r.Plies[0], 0
	default:
		r.MeanPlies, r.StdDevPlies = stat.MeanStdDev(r.Plies, nil)
	}
}
