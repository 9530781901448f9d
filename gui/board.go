package gui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/notnil/chess"
)

const (
	squareSize   = 80
	boardSize    = squareSize * 8
	boardOffsetX = 20
	boardOffsetY = 40
	panelX       = boardOffsetX + boardSize + 30
	panelWidth   = 300
	screenWidth  = panelX + panelWidth
	screenHeight = boardOffsetY + boardSize + 40
)

var (
	lightSquare  = color.RGBA{240, 217, 181, 255}
	darkSquare   = color.RGBA{181, 136, 99, 255}
	lastMoveTint = color.RGBA{205, 210, 106, 160}
	selectTint   = color.RGBA{106, 168, 79, 170}
	targetDot    = color.RGBA{40, 40, 40, 90}
	whiteFill    = color.RGBA{250, 250, 245, 255}
	blackFill    = color.RGBA{40, 40, 40, 255}
	textColor    = color.RGBA{230, 230, 230, 255}
	faintColor   = color.RGBA{150, 150, 150, 255}
	background   = color.RGBA{30, 32, 36, 255}
)

// squareAt maps a screen point to a square. White is at the bottom unless
// flipped.
func squareAt(x, y int, flipped bool) (chess.Square, bool) {
	x -= boardOffsetX
	y -= boardOffsetY
	if x < 0 || x >= boardSize || y < 0 || y >= boardSize {
		return chess.NoSquare, false
	}
	file, rank := x/squareSize, 7-y/squareSize
	if flipped {
		file, rank = 7-file, 7-rank
	}
	return chess.Square(file + rank*8), true
}

// squareOrigin is the top-left screen corner of sq.
func squareOrigin(sq chess.Square, flipped bool) (int, int) {
	file, rank := int(sq.File()), int(sq.Rank())
	if flipped {
		file, rank = 7-file, 7-rank
	}
	return boardOffsetX + file*squareSize, boardOffsetY + (7-rank)*squareSize
}

// pieceLetter is the glyph drawn for p.
func pieceLetter(p chess.Piece) string {
	switch p.Type() {
	case chess.King:
		return "K"
	case chess.Queen:
		return "Q"
	case chess.Rook:
		return "R"
	case chess.Bishop:
		return "B"
	case chess.Knight:
		return "N"
	case chess.Pawn:
		return "P"
	}
	return ""
}

// boardView is what drawBoard needs to know about the position.
type boardView struct {
	pos      *chess.Position
	last     *chess.Move
	selected chess.Square
	targets  []chess.Square
	hidden   chess.Square
	flipped  bool
}

func drawBoard(screen *ebiten.Image, f *faces, v boardView) {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		x, y := squareOrigin(sq, v.flipped)
		clr := lightSquare
		if (int(sq.File())+int(sq.Rank()))%2 == 0 {
			clr = darkSquare
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), squareSize, squareSize, clr, false)
		if v.last != nil && (sq == v.last.S1() || sq == v.last.S2()) {
			vector.DrawFilledRect(screen, float32(x), float32(y), squareSize, squareSize, lastMoveTint, false)
		}
		if sq == v.selected {
			vector.DrawFilledRect(screen, float32(x), float32(y), squareSize, squareSize, selectTint, false)
		}
	}
	for _, sq := range v.targets {
		x, y := squareOrigin(sq, v.flipped)
		vector.DrawFilledCircle(screen, float32(x+squareSize/2), float32(y+squareSize/2), squareSize/7, targetDot, true)
	}

	board := v.pos.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p == chess.NoPiece || sq == v.hidden {
			continue
		}
		x, y := squareOrigin(sq, v.flipped)
		drawPiece(screen, f, p, float32(x+squareSize/2), float32(y+squareSize/2))
	}

	for i := 0; i < 8; i++ {
		file, rank := i, i
		if v.flipped {
			file, rank = 7-i, 7-i
		}
		text.Draw(screen, string(rune('a'+file)), f.small, boardOffsetX+i*squareSize+squareSize-12, boardOffsetY+boardSize+16, faintColor)
		text.Draw(screen, string(rune('8'-rank)), f.small, boardOffsetX-14, boardOffsetY+i*squareSize+18, faintColor)
	}
}

// drawPiece draws p as a lettered disc centred on (cx, cy).
func drawPiece(screen *ebiten.Image, f *faces, p chess.Piece, cx, cy float32) {
	fill, ink := whiteFill, blackFill
	if p.Color() == chess.Black {
		fill, ink = blackFill, whiteFill
	}
	vector.DrawFilledCircle(screen, cx, cy, squareSize*0.38, ink, true)
	vector.DrawFilledCircle(screen, cx, cy, squareSize*0.35, fill, true)

	letter := pieceLetter(p)
	bounds := text.BoundString(f.piece, letter)
	x := int(cx) - bounds.Dx()/2 - bounds.Min.X
	y := int(cy) - bounds.Dy()/2 - bounds.Min.Y
	text.Draw(screen, letter, f.piece, x, y, ink)
}
