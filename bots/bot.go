// bot.go
package bots

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

var (
	// ErrNoLegalMoves is returned when a bot is asked to move in a finished
	// game. Callers should check Board.IsTerminal first.
	ErrNoLegalMoves = errors.New("no legal moves in this position")
	// ErrInvariant means the rules engine reported no legal moves for a
	// position it does not consider finished.
	ErrInvariant = errors.New("rules engine invariant violated")
)

// ChessBot is implemented by every AI player.
type ChessBot interface {
	// SelectMove picks a move for the side to move. The board is borrowed
	// for the duration of the call and is unchanged when it returns.
	SelectMove(b *rules.Board) (*chess.Move, error)
	Name() string
}

// New builds the bot described by cfg.
func New(cfg config.Agent) (ChessBot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case config.KindRandom:
		return NewRandomBot(cfg.Seed), nil
	case config.KindAlphaBeta:
		return NewAlphaBetaBot(cfg.Depth, cfg.Profile, cfg.Ordering)
	}
	return nil, errors.Wrapf(config.ErrUnknownKind, "%q", cfg.Kind)
}

// checkPlayable classifies a position without legal moves.
func checkPlayable(b *rules.Board, moves []*chess.Move) error {
	if len(moves) > 0 {
		return nil
	}
	if b.IsTerminal() {
		return errors.Wrapf(ErrNoLegalMoves, "%s (%s)", b.FEN(), b.Method())
	}
	return errors.Wrapf(ErrInvariant, "empty move list in %s", b.FEN())
}
