// Package gui is the ebiten front end: a playable board and a replay
// viewer.
package gui

import (
	"context"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/game"
)

// historyRows is how many recent move pairs the side panel lists.
const historyRows = 14

// App plays a session in a window. Bots think on their own goroutine;
// Update collects their answer when it is ready.
type App struct {
	session   *game.Session
	faces     *faces
	replayDir string
	autosave  bool
	flipped   bool

	selected chess.Square
	dragging bool
	dragX    int
	dragY    int

	thinking <-chan game.Thought
	cancel   context.CancelFunc
	saved    bool
	message  string
}

// NewApp prepares a window for s. The board is shown from Black's side
// when only Black is played by a human.
func NewApp(s *game.Session, replayDir string, autosave bool) (*App, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return &App{
		session:   s,
		faces:     f,
		replayDir: replayDir,
		autosave:  autosave,
		flipped:   s.Black().IsHuman() && !s.White().IsHuman(),
		selected:  chess.NoSquare,
	}, nil
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("%s: %s vs %s", a.session.Event, a.session.White().Name, a.session.Black().Name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	defer a.stopThinking()
	return errors.WithStack(ebiten.RunGame(a))
}

func (a *App) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		a.newGame()
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		a.undo()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		a.save()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		a.flipped = !a.flipped
	}

	if err := a.collectThought(); err != nil {
		return err
	}
	if a.session.IsHumanTurn() {
		a.handleMouse()
	} else if !a.session.IsOver() && a.thinking == nil {
		a.startThinking()
	}

	if a.session.IsOver() && a.autosave && !a.saved {
		a.save()
	}
	return nil
}

func (a *App) startThinking() {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := a.session.Think(ctx)
	if err != nil {
		cancel()
		a.message = err.Error()
		return
	}
	a.thinking, a.cancel = ch, cancel
}

func (a *App) stopThinking() {
	if a.cancel != nil {
		a.cancel()
	}
	a.thinking, a.cancel = nil, nil
}

// collectThought applies a finished bot move without blocking the frame.
func (a *App) collectThought() error {
	if a.thinking == nil {
		return nil
	}
	select {
	case th, ok := <-a.thinking:
		a.stopThinking()
		if !ok {
			return nil
		}
		if _, err := a.session.Apply(th); err != nil {
			return errors.WithMessage(err, "applying bot move")
		}
	default:
	}
	return nil
}

func (a *App) handleMouse() {
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.press(x, y)
	}
	if a.dragging {
		a.dragX, a.dragY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.release(x, y)
	}
}

// press selects a piece of the side to move, or completes a click-click
// move when a piece is already selected.
func (a *App) press(x, y int) {
	sq, ok := squareAt(x, y, a.flipped)
	if !ok {
		a.selected = chess.NoSquare
		return
	}
	if a.selected != chess.NoSquare {
		if m := findMove(a.session.LegalMoves(), a.selected, sq); m != nil {
			a.play(m)
			return
		}
	}
	p := a.session.Position().Board().Piece(sq)
	if p == chess.NoPiece || p.Color() != a.session.Turn() {
		a.selected = chess.NoSquare
		return
	}
	a.selected = sq
	a.dragging = true
	a.dragX, a.dragY = x, y
}

func (a *App) release(x, y int) {
	if !a.dragging {
		return
	}
	a.dragging = false
	sq, ok := squareAt(x, y, a.flipped)
	if !ok || sq == a.selected {
		return
	}
	if m := findMove(a.session.LegalMoves(), a.selected, sq); m != nil {
		a.play(m)
	}
}

func (a *App) play(m *chess.Move) {
	a.selected = chess.NoSquare
	a.dragging = false
	if err := a.session.PlayMove(m); err != nil {
		a.message = err.Error()
		return
	}
	a.message = ""
}

func (a *App) newGame() {
	a.stopThinking()
	a.session.Reset()
	a.selected = chess.NoSquare
	a.dragging = false
	a.saved = false
	a.message = "New game"
}

func (a *App) undo() {
	if a.thinking != nil {
		a.message = "Wait for the AI to move"
		return
	}
	n, err := a.session.Undo()
	if err != nil {
		a.message = err.Error()
		return
	}
	a.selected = chess.NoSquare
	a.saved = false
	a.message = fmt.Sprintf("Took back %d half-move(s)", n)
}

func (a *App) save() {
	a.saved = true
	path, err := game.NewReplay(a.session).SaveReplay(a.replayDir)
	if err != nil {
		log.Error().Err(err).Msg("saving replay")
		a.message = "Could not save replay"
		return
	}
	a.message = "Saved " + path
}

// findMove returns the legal move from one square to another, preferring
// a queen when the move promotes.
func findMove(moves []*chess.Move, from, to chess.Square) *chess.Move {
	var found *chess.Move
	for _, m := range moves {
		if m.S1() != from || m.S2() != to {
			continue
		}
		if m.Promo() == chess.NoPieceType || m.Promo() == chess.Queen {
			return m
		}
		if found == nil {
			found = m
		}
	}
	return found
}

// targets lists the destinations of the selected piece.
func targets(moves []*chess.Move, from chess.Square) []chess.Square {
	var out []chess.Square
	for _, m := range moves {
		if m.S1() == from {
			out = append(out, m.S2())
		}
	}
	return out
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	v := boardView{
		pos:      a.session.Position(),
		last:     a.session.LastMove(),
		selected: a.selected,
		hidden:   chess.NoSquare,
		flipped:  a.flipped,
	}
	if a.selected != chess.NoSquare {
		v.targets = targets(a.session.LegalMoves(), a.selected)
		if a.dragging {
			v.hidden = a.selected
		}
	}
	drawBoard(screen, a.faces, v)

	if a.dragging && a.selected != chess.NoSquare {
		p := a.session.Position().Board().Piece(a.selected)
		drawPiece(screen, a.faces, p, float32(a.dragX), float32(a.dragY))
	}

	status := a.session.Status()
	if a.thinking != nil {
		status = a.session.ToMove().Name + " is thinking..."
	}
	text.Draw(screen, status, a.faces.ui, boardOffsetX, 26, textColor)
	a.drawPanel(screen)
}

func (a *App) drawPanel(screen *ebiten.Image) {
	y := boardOffsetY + 18
	line := func(s string, small bool) {
		face, step := a.faces.ui, 26
		if small {
			face, step = a.faces.small, 20
		}
		text.Draw(screen, s, face, panelX, y, textColor)
		y += step
	}
	line("White: "+a.session.White().Name, false)
	line("Black: "+a.session.Black().Name, false)
	y += 10

	for _, row := range moveRows(a.session.History().Moves, historyRows) {
		line(row, true)
	}

	y = boardOffsetY + boardSize - 90
	if a.message != "" {
		line(a.message, true)
	}
	line("U undo   N new game   S save   F flip", true)
}

// moveRows formats moves as numbered pairs, keeping the last n rows.
func moveRows(moves []string, n int) []string {
	var rows []string
	for i := 0; i < len(moves); i += 2 {
		row := fmt.Sprintf("%3d. %s", i/2+1, moves[i])
		if i+1 < len(moves) {
			row += strings.Repeat(" ", 7-len(moves[i])) + moves[i+1]
		}
		rows = append(rows, row)
	}
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
