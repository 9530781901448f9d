package gui

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/game"
)

// browserRows is how many file names fit on the list screen.
const browserRows = 24

// ReplayBrowser lists the saved games in a directory and opens the chosen
// one in a ReplayViewer. Escape goes back to the list.
type ReplayBrowser struct {
	dir     string
	files   []string
	index   int
	faces   *faces
	viewer  *ReplayViewer
	message string
}

func NewReplayBrowser(dir string) (*ReplayBrowser, error) {
	f, err := loadFaces()
	if err != nil {
		return nil, err
	}
	b := &ReplayBrowser{dir: dir, faces: f}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	return b, nil
}

// Refresh rereads the directory, newest game first.
func (b *ReplayBrowser) Refresh() error {
	files, err := filepath.Glob(filepath.Join(b.dir, "*.json"))
	if err != nil {
		return errors.WithStack(err)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	b.files = files
	if b.index >= len(files) {
		b.index = 0
	}
	if len(files) == 0 {
		b.message = "No replays in " + b.dir
	}
	return nil
}

func (b *ReplayBrowser) Run() error {
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Replays: " + b.dir)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return errors.WithStack(ebiten.RunGame(b))
}

// Selected is the highlighted file, or "" when the directory is empty.
func (b *ReplayBrowser) Selected() string {
	if len(b.files) == 0 {
		return ""
	}
	return b.files[b.index]
}

func (b *ReplayBrowser) Move(delta int) {
	if len(b.files) == 0 {
		return
	}
	b.index = (b.index + delta + len(b.files)) % len(b.files)
}

// Open loads the highlighted replay into a viewer. A file that does not
// load stays in the list with the reason shown.
func (b *ReplayBrowser) Open() bool {
	path := b.Selected()
	if path == "" {
		return false
	}
	r, err := game.LoadReplay(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("opening replay")
		b.message = "Could not open " + filepath.Base(path)
		return false
	}
	b.viewer = newReplayViewer(r, b.faces)
	b.message = ""
	return true
}

// Close returns from the viewer to the list.
func (b *ReplayBrowser) Close() {
	b.viewer = nil
}

func (b *ReplayBrowser) Update() error {
	if b.viewer != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			b.Close()
			return nil
		}
		return b.viewer.Update()
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		b.Move(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		b.Move(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		b.Open()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := b.Refresh(); err != nil {
			return err
		}
	}
	return nil
}

func (b *ReplayBrowser) Draw(screen *ebiten.Image) {
	if b.viewer != nil {
		b.viewer.Draw(screen)
		return
	}
	screen.Fill(background)
	text.Draw(screen, fmt.Sprintf("Replays in %s (%d)", b.dir, len(b.files)), b.faces.ui, boardOffsetX, 26, textColor)

	first := 0
	if b.index >= browserRows {
		first = b.index - browserRows + 1
	}
	y := boardOffsetY + 20
	for i := first; i < len(b.files) && i < first+browserRows; i++ {
		c, prefix := faintColor, "  "
		if i == b.index {
			c, prefix = textColor, "> "
		}
		text.Draw(screen, prefix+filepath.Base(b.files[i]), b.faces.small, boardOffsetX, y, c)
		y += 22
	}

	if b.message != "" {
		text.Draw(screen, b.message, b.faces.small, boardOffsetX, screenHeight-40, textColor)
	}
	text.Draw(screen, "Up/Down select   Enter open   Esc back   R refresh", b.faces.small, boardOffsetX, screenHeight-16, faintColor)
}

func (b *ReplayBrowser) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
