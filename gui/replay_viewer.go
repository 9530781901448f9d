package gui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"chessAlphaBeta/game"
	"chessAlphaBeta/rules"
)

// DefaultStepInterval is the autoplay pace.
const DefaultStepInterval = 800 * time.Millisecond

// ReplayViewer steps through a saved game.
type ReplayViewer struct {
	replay   game.Replay
	board    *rules.Board
	faces    *faces
	playing  bool
	interval time.Duration
	lastStep time.Time
	flipped  bool
}

// NewReplayViewer starts at the initial position with autoplay on.
func NewReplayViewer(r game.Replay) (*ReplayViewer, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	return newReplayViewer(r, f), nil
}

func newReplayViewer(r game.Replay, f *faces) *ReplayViewer {
	return &ReplayViewer{
		replay:   r,
		board:    rules.NewBoard(),
		faces:    f,
		playing:  len(r.Moves) > 0,
		interval: DefaultStepInterval,
	}
}

// Run opens the window and blocks until it is closed.
func (v *ReplayViewer) Run() error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("Replay: %s vs %s", v.replay.White, v.replay.Black))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return errors.WithStack(ebiten.RunGame(v))
}

// Index is the number of moves currently shown.
func (v *ReplayViewer) Index() int {
	return v.board.Ply()
}

// StepForward shows the next move. It reports false at the end.
func (v *ReplayViewer) StepForward() bool {
	i := v.board.Ply()
	if i >= len(v.replay.Moves) {
		v.playing = false
		return false
	}
	if _, err := v.board.PushUCI(v.replay.Moves[i]); err != nil {
		v.playing = false
		return false
	}
	return true
}

// StepBack takes the last shown move back. It reports false at the start.
func (v *ReplayViewer) StepBack() bool {
	_, err := v.board.Pop()
	return err == nil
}

// Seek jumps to the position after n moves, clamped to the game.
func (v *ReplayViewer) Seek(n int) {
	for v.board.Ply() > n && v.StepBack() {
	}
	for v.board.Ply() < n && v.StepForward() {
	}
}

func (v *ReplayViewer) TogglePlay() {
	if v.board.Ply() >= len(v.replay.Moves) {
		v.Seek(0)
	}
	v.playing = !v.playing
	v.lastStep = time.Now()
}

func (v *ReplayViewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.playing = false
		v.StepForward()
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.playing = false
		v.StepBack()
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		v.playing = false
		v.Seek(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		v.playing = false
		v.Seek(len(v.replay.Moves))
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.TogglePlay()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		v.flipped = !v.flipped
	}

	if v.playing && time.Since(v.lastStep) >= v.interval {
		v.StepForward()
		v.lastStep = time.Now()
	}
	return nil
}

func (v *ReplayViewer) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	drawBoard(screen, v.faces, boardView{
		pos:      v.board.Position(),
		last:     v.board.LastMove(),
		selected: chess.NoSquare,
		hidden:   chess.NoSquare,
		flipped:  v.flipped,
	})

	header := fmt.Sprintf("%s vs %s  %s", v.replay.White, v.replay.Black, v.replay.Result)
	text.Draw(screen, header, v.faces.ui, boardOffsetX, 26, textColor)

	y := boardOffsetY + 18
	for _, s := range []string{
		v.replay.Event,
		v.replay.Date,
		fmt.Sprintf("Move %d of %d", v.board.Ply(), len(v.replay.Moves)),
	} {
		text.Draw(screen, s, v.faces.ui, panelX, y, textColor)
		y += 26
	}
	y += 10
	for _, row := range moveRows(v.replay.Moves[:v.board.Ply()], historyRows) {
		text.Draw(screen, row, v.faces.small, panelX, y, textColor)
		y += 20
	}

	state := "paused"
	if v.playing {
		state = "playing"
	}
	text.Draw(screen, "Left/Right step   Space "+state+"   Home/End", v.faces.small, panelX, boardOffsetY+boardSize-10, faintColor)
}

func (v *ReplayViewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
