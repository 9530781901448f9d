// Package game runs a chess game between humans and bots: turn order,
// history, undo, replays and bot-versus-bot matches.
package game

import (
	"context"
	"fmt"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/bots"
	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotHumanTurn  = errors.New("it is not a human's turn")
	ErrHumanTurn     = errors.New("a human is to move")
	ErrNothingToUndo = errors.New("no moves to undo")
)

// Player is one side of a session. A nil Bot means a human plays it.
type Player struct {
	Name string
	Bot  bots.ChessBot
}

// Human returns a player whose moves come from Play.
func Human() Player {
	return Player{Name: "Human"}
}

// Computer wraps a bot as a player.
func Computer(bot bots.ChessBot) Player {
	return Player{Name: bot.Name(), Bot: bot}
}

func (p Player) IsHuman() bool {
	return p.Bot == nil
}

// History is the record of a game so far.
type History struct {
	Moves  []string
	Result string
	Method chess.Method
}

// Session is a live game. It is driven from one goroutine; bots that
// should not block it go through Think.
type Session struct {
	Event string
	white Player
	black Player
	board *rules.Board
}

// NewSession starts a game from the standard position.
func NewSession(event string, white, black Player) *Session {
	return &Session{
		Event: event,
		white: white,
		black: black,
		board: rules.NewBoard(),
	}
}

// FromConfig builds the players described by cfg.
func FromConfig(cfg config.Game) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	white, err := player(cfg.HumanWhite, cfg.White)
	if err != nil {
		return nil, errors.WithMessage(err, "white")
	}
	black, err := player(cfg.HumanBlack, cfg.Black)
	if err != nil {
		return nil, errors.WithMessage(err, "black")
	}
	return NewSession(cfg.Event, white, black), nil
}

func player(human bool, agent config.Agent) (Player, error) {
	if human {
		return Human(), nil
	}
	bot, err := bots.New(agent)
	if err != nil {
		return Player{}, err
	}
	return Computer(bot), nil
}

// SetupFEN restarts the session from fen.
func (s *Session) SetupFEN(fen string) error {
	b, err := rules.FromFEN(fen)
	if err != nil {
		return err
	}
	s.board = b
	return nil
}

// Reset starts a new game with the same players.
func (s *Session) Reset() {
	s.board = rules.NewBoard()
	log.Info().Str("white", s.white.Name).Str("black", s.black.Name).Msg("new game")
}

func (s *Session) White() Player { return s.white }
func (s *Session) Black() Player { return s.black }

// Player returns the player of color.
func (s *Session) Player(color chess.Color) Player {
	if color == chess.Black {
		return s.black
	}
	return s.white
}

// ToMove returns the player whose turn it is.
func (s *Session) ToMove() Player {
	return s.Player(s.board.Turn())
}

// IsHumanTurn reports whether the game is waiting for Play.
func (s *Session) IsHumanTurn() bool {
	return !s.board.IsTerminal() && s.ToMove().IsHuman()
}

// Position returns the current position. Positions are immutable.
func (s *Session) Position() *chess.Position {
	return s.board.Position()
}

func (s *Session) FEN() string { return s.board.FEN() }
func (s *Session) Turn() chess.Color { return s.board.Turn() }
func (s *Session) Ply() int { return s.board.Ply() }
func (s *Session) LastMove() *chess.Move { return s.board.LastMove() }
func (s *Session) LegalMoves() []*chess.Move { return s.board.LegalMoves() }
func (s *Session) IsOver() bool { return s.board.IsTerminal() }
func (s *Session) Outcome() chess.Outcome { return s.board.Outcome() }
func (s *Session) Method() chess.Method { return s.board.Method() }

// Board returns a copy of the live board.
func (s *Session) Board() *rules.Board {
	return s.board.Clone()
}

// Result is the PGN result label: 1-0, 0-1, 1/2-1/2 or *.
func (s *Session) Result() string {
	return s.board.Outcome().String()
}

// Status describes the state of play for display.
func (s *Session) Status() string {
	if s.board.IsTerminal() {
		return fmt.Sprintf("Game over: %s (%s)", s.Result(), MethodLabel(s.board.Method()))
	}
	if s.board.Turn() == chess.White {
		return "White to move"
	}
	return "Black to move"
}

// Mode names who plays whom, White first.
func (s *Session) Mode() string {
	switch {
	case s.white.IsHuman() && s.black.IsHuman():
		return "HumanVsHuman"
	case s.white.IsHuman():
		return "HumanVsAI"
	case s.black.IsHuman():
		return "AIVsHuman"
	}
	return "AIVsAI"
}

// History returns the moves played so far in coordinate notation.
func (s *Session) History() History {
	moves := s.board.Moves()
	h := History{
		Moves:  make([]string, len(moves)),
		Result: s.Result(),
		Method: s.board.Method(),
	}
	for i, m := range moves {
		h.Moves[i] = m.String()
	}
	return h
}

// Play applies a human move given in coordinate notation.
func (s *Session) Play(uci string) (*chess.Move, error) {
	if err := s.humanCanMove(); err != nil {
		return nil, err
	}
	m, err := s.board.PushUCI(uci)
	if err != nil {
		return nil, err
	}
	s.moved(m, s.board.Turn().Other())
	return m, nil
}

// PlayMove applies a human move picked from LegalMoves.
func (s *Session) PlayMove(m *chess.Move) error {
	if err := s.humanCanMove(); err != nil {
		return err
	}
	return s.apply(m)
}

func (s *Session) humanCanMove() error {
	if s.board.IsTerminal() {
		return ErrGameOver
	}
	if !s.ToMove().IsHuman() {
		return errors.Wrapf(ErrNotHumanTurn, "%s to move", s.ToMove().Name)
	}
	return nil
}

// Step asks the bot to move to pick a move and plays it.
func (s *Session) Step() (*chess.Move, error) {
	if s.board.IsTerminal() {
		return nil, ErrGameOver
	}
	p := s.ToMove()
	if p.IsHuman() {
		return nil, ErrHumanTurn
	}
	m, err := p.Bot.SelectMove(s.board)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", p.Name)
	}
	if err := s.apply(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Run plays bot turns until the game ends or a human is to move.
func (s *Session) Run(ctx context.Context) error {
	for !s.board.IsTerminal() && !s.ToMove().IsHuman() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// apply plays m if it is legal here.
func (s *Session) apply(m *chess.Move) error {
	for _, legal := range s.board.LegalMoves() {
		if rules.SameMove(legal, m) {
			s.board.Push(legal)
			s.moved(legal, s.board.Turn().Other())
			return nil
		}
	}
	return errors.Wrapf(rules.ErrIllegalMove, "%s in %s", m, s.board.FEN())
}

func (s *Session) moved(m *chess.Move, by chess.Color) {
	log.Debug().
		Str("player", s.Player(by).Name).
		Str("move", m.String()).
		Int("ply", s.board.Ply()).
		Msg("move played")
	if s.board.IsTerminal() {
		log.Info().
			Str("result", s.Result()).
			Str("method", MethodLabel(s.board.Method())).
			Int("plies", s.board.Ply()).
			Msg("game over")
	}
}

// Undo takes back the last full move pair, or the only move if just one
// has been played, and returns how many plies were removed.
func (s *Session) Undo() (int, error) {
	n := 2
	if s.board.Ply() < n {
		n = s.board.Ply()
	}
	if n == 0 {
		return 0, ErrNothingToUndo
	}
	for i := 0; i < n; i++ {
		if _, err := s.board.Pop(); err != nil {
			return i, err
		}
	}
	log.Debug().Int("plies", n).Str("fen", s.board.FEN()).Msg("undo")
	return n, nil
}

// MethodLabel names how a game ended.
func MethodLabel(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "checkmate"
	case chess.Stalemate:
		return "stalemate"
	case chess.ThreefoldRepetition:
		return "repetition"
	case chess.FiftyMoveRule:
		return "fifty-move rule"
	case chess.InsufficientMaterial:
		return "insufficient material"
	case chess.NoMethod:
		return "in progress"
	}
	return m.String()
}
