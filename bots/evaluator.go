package bots

import (
	"github.com/notnil/chess"

	"chessAlphaBeta/config"
	"chessAlphaBeta/rules"
)

// MateScore is the magnitude of a checkmate score. It does not depend on
// how far away the mate is.
const MateScore = 99999.0

const (
	MobilityDivisor = 10.0
	CentreBonus     = 0.15
)

var centre = []chess.Square{chess.D4, chess.E4, chess.D5, chess.E5}

// PieceValue returns the material value of a piece type. Kings are worth 0.
func PieceValue(p chess.PieceType) float64 {
	switch p {
	case chess.Pawn:
		return 1
	case chess.Knight:
		return 3
	case chess.Bishop:
		return 3
	case chess.Rook:
		return 5
	case chess.Queen:
		return 9
	default:
		return 0
	}
}

// Evaluator scores positions from White's point of view.
type Evaluator struct {
	profile        config.Profile
	mobilityWeight float64
	centre         bool
}

// NewEvaluator returns the evaluator for a profile name.
func NewEvaluator(profile config.Profile) (Evaluator, error) {
	p, err := config.ParseProfile(string(profile))
	if err != nil {
		return Evaluator{}, err
	}
	e := Evaluator{profile: p}
	switch p {
	case config.ProfileMaterialMobility:
		e.mobilityWeight = 0.1
	case config.ProfileAggressive:
		e.mobilityWeight = 0.25
		e.centre = true
	}
	return e, nil
}

func (e Evaluator) Profile() config.Profile {
	return e.profile
}

// Evaluate scores the position, positive when White is better. Checkmate
// scores ±MateScore and any drawn or stalemated position scores 0.
func (e Evaluator) Evaluate(b *rules.Board) (float64, error) {
	if method := b.Method(); method != chess.NoMethod {
		return e.terminal(b, method), nil
	}
	return e.static(b)
}

func (e Evaluator) terminal(b *rules.Board, method chess.Method) float64 {
	if method != chess.Checkmate {
		return 0
	}
	if b.Turn() == chess.White {
		return -MateScore
	}
	return MateScore
}

// static is the heuristic part of the evaluation, for positions known not
// to be terminal.
func (e Evaluator) static(b *rules.Board) (float64, error) {
	board := b.Position().Board()
	score := Material(board)
	if e.mobilityWeight != 0 {
		mob, err := Mobility(b)
		if err != nil {
			return 0, err
		}
		score += e.mobilityWeight * mob
	}
	if e.centre {
		score += CentreOccupation(board)
	}
	return score, nil
}

// Material is the signed sum of piece values on the board.
func Material(board *chess.Board) float64 {
	var score float64
	for _, piece := range board.SquareMap() {
		if piece.Color() == chess.White {
			score += PieceValue(piece.Type())
		} else {
			score -= PieceValue(piece.Type())
		}
	}
	return score
}

// Mobility is the difference between White's and Black's legal move counts
// divided by MobilityDivisor, whichever side is to move.
func Mobility(b *rules.Board) (float64, error) {
	white, err := b.LegalMovesFor(chess.White)
	if err != nil {
		return 0, err
	}
	black, err := b.LegalMovesFor(chess.Black)
	if err != nil {
		return 0, err
	}
	return float64(len(white)-len(black)) / MobilityDivisor, nil
}

// CentreOccupation rewards pieces standing on d4, e4, d5 and e5.
func CentreOccupation(board *chess.Board) float64 {
	var score float64
	for _, sq := range centre {
		switch board.Piece(sq).Color() {
		case chess.White:
			score += CentreBonus
		case chess.Black:
			score -= CentreBonus
		}
	}
	return score
}
