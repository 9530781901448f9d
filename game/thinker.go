package game

import (
	"context"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"
)

// Thought is a bot's answer for the position it was asked about.
type Thought struct {
	Move    *chess.Move
	Err     error
	Player  string
	Elapsed time.Duration
	fen     string
	ply     int
}

// Think runs the bot to move on a private copy of the board and delivers
// its answer on the returned channel. The search itself cannot be
// interrupted: a cancelled ctx only drops the answer. Hand the answer to
// Apply, which ignores it if the game has moved on meanwhile.
func (s *Session) Think(ctx context.Context) (<-chan Thought, error) {
	if s.board.IsTerminal() {
		return nil, ErrGameOver
	}
	p := s.ToMove()
	if p.IsHuman() {
		return nil, ErrHumanTurn
	}

	b := s.board.Clone()
	out := make(chan Thought, 1)
	go func() {
		defer close(out)
		start := time.Now()
		m, err := p.Bot.SelectMove(b)
		t := Thought{
			Move:    m,
			Err:     err,
			Player:  p.Name,
			Elapsed: time.Since(start),
			fen:     b.FEN(),
			ply:     b.Ply(),
		}
		select {
		case out <- t:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

// Apply plays the move of t if the board still shows the position the bot
// was thinking about. It reports whether the move was played.
func (s *Session) Apply(t Thought) (bool, error) {
	if t.fen != s.board.FEN() || t.ply != s.board.Ply() {
		log.Debug().Str("player", t.Player).Msg("discarding stale move")
		return false, nil
	}
	if t.Err != nil {
		return false, t.Err
	}
	if s.board.IsTerminal() || s.ToMove().IsHuman() {
		return false, nil
	}
	if err := s.apply(t.Move); err != nil {
		return false, err
	}
	log.Debug().Str("player", t.Player).Dur("elapsed", t.Elapsed).Msg("bot moved")
	return true, nil
}
