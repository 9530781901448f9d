// Package rules adapts github.com/notnil/chess to the mutable, reversible
// board the search needs. notnil positions are immutable values, so a
// Board keeps the stack of positions reached so far and Push/Pop move the
// top of that stack.
package rules

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var (
	ErrInvalidFEN   = errors.New("invalid FEN")
	ErrIllegalMove  = errors.New("illegal move")
	ErrNothingToPop = errors.New("no move to take back")
)

// Board is a single mutable game position with its history. It is not safe
// for concurrent use; give every goroutine its own Clone.
type Board struct {
	positions []*chess.Position
	keys      []string
	moves     []*chess.Move
}

// NewBoard returns a board set up at the standard starting position.
func NewBoard() *Board {
	return newBoard(chess.NewGame().Position())
}

// FromFEN returns a board set up at the given position.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFEN, "%q: %v", fen, err)
	}
	return newBoard(chess.NewGame(opt).Position()), nil
}

func newBoard(pos *chess.Position) *Board {
	return &Board{
		positions: []*chess.Position{pos},
		keys:      []string{PositionKey(pos)},
	}
}

// Position returns the current rules-engine position.
func (b *Board) Position() *chess.Position {
	return b.positions[len(b.positions)-1]
}

func (b *Board) Turn() chess.Color {
	return b.Position().Turn()
}

// FEN is the serialized form of the current position.
func (b *Board) FEN() string {
	return b.Position().String()
}

func (b *Board) Hash() [16]byte {
	return b.Position().Hash()
}

func (b *Board) PieceAt(sq chess.Square) chess.Piece {
	return b.Position().Board().Piece(sq)
}

// Ply is the number of half-moves pushed since the board was created.
func (b *Board) Ply() int {
	return len(b.moves)
}

// Moves returns the applied moves, oldest first.
func (b *Board) Moves() []*chess.Move {
	out := make([]*chess.Move, len(b.moves))
	copy(out, b.moves)
	return out
}

// LastMove returns the most recent move or nil.
func (b *Board) LastMove() *chess.Move {
	if len(b.moves) == 0 {
		return nil
	}
	return b.moves[len(b.moves)-1]
}

// LegalMoves returns the legal moves of the side to move in rules-engine
// order. The slice is fresh and may be reordered by the caller.
func (b *Board) LegalMoves() []*chess.Move {
	valid := b.Position().ValidMoves()
	out := make([]*chess.Move, len(valid))
	copy(out, valid)
	return out
}

// LegalMovesFor returns the moves color could play here if it were its
// turn. The en passant right is dropped when the turn is flipped.
func (b *Board) LegalMovesFor(color chess.Color) ([]*chess.Move, error) {
	if color == b.Turn() {
		return b.LegalMoves(), nil
	}
	fields := strings.Fields(b.FEN())
	if len(fields) < 4 {
		return nil, errors.Wrapf(ErrInvalidFEN, "%q", b.FEN())
	}
	if color == chess.White {
		fields[1] = "w"
	} else {
		fields[1] = "b"
	}
	fields[3] = "-"
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFEN, "flipping turn: %v", err)
	}
	return chess.NewGame(opt).Position().ValidMoves(), nil
}

// Push applies m, which must be one of LegalMoves.
func (b *Board) Push(m *chess.Move) {
	next := b.Position().Update(m)
	b.positions = append(b.positions, next)
	b.keys = append(b.keys, PositionKey(next))
	b.moves = append(b.moves, m)
}

// PushUCI applies a move written in coordinate notation such as e2e4 or
// e7e8q.
func (b *Board) PushUCI(text string) (*chess.Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) < 4 || len(text) > 5 {
		return nil, errors.Wrapf(ErrIllegalMove, "%q is not a coordinate move", text)
	}
	for _, m := range b.Position().ValidMoves() {
		if m.String() == text {
			b.Push(m)
			return m, nil
		}
	}
	return nil, errors.Wrapf(ErrIllegalMove, "%s in %s", text, b.FEN())
}

// Pop takes back the last pushed move and returns it.
func (b *Board) Pop() (*chess.Move, error) {
	if len(b.moves) == 0 {
		return nil, ErrNothingToPop
	}
	m := b.moves[len(b.moves)-1]
	b.truncate(len(b.moves) - 1)
	return m, nil
}

// With pushes m, runs fn and restores the board before returning, whatever
// fn returns.
func (b *Board) With(m *chess.Move, fn func() error) error {
	ply := len(b.moves)
	b.Push(m)
	defer b.truncate(ply)
	return fn()
}

func (b *Board) truncate(ply int) {
	b.positions = b.positions[:ply+1]
	b.keys = b.keys[:ply+1]
	b.moves = b.moves[:ply]
}

// Clone returns an independent board with the same history.
func (b *Board) Clone() *Board {
	c := &Board{
		positions: make([]*chess.Position, len(b.positions)),
		keys:      make([]string, len(b.keys)),
		moves:     make([]*chess.Move, len(b.moves)),
	}
	copy(c.positions, b.positions)
	copy(c.keys, b.keys)
	copy(c.moves, b.moves)
	return c
}

// Draw renders the board for a terminal.
func (b *Board) Draw() string {
	return b.Position().Board().Draw()
}

// SameMove reports whether two moves make the same transition.
func SameMove(a, c *chess.Move) bool {
	if a == nil || c == nil {
		return a == c
	}
	return a.S1() == c.S1() && a.S2() == c.S2() && a.Promo() == c.Promo()
}

// PositionKey identifies a position for repetition counting: placement,
// side to move, castling rights and en passant square. The en passant
// square only counts when an en passant capture is legal.
func PositionKey(pos *chess.Position) string {
	fields := strings.Fields(pos.String())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	if len(fields) == 4 && fields[3] != "-" && !canCaptureEnPassant(pos) {
		fields[3] = "-"
	}
	return strings.Join(fields, " ")
}

func canCaptureEnPassant(pos *chess.Position) bool {
	for _, m := range pos.ValidMoves() {
		if m.HasTag(chess.EnPassant) {
			return true
		}
	}
	return false
}
