package game

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/rules"
)

const (
	dateLayout      = "2006.01.02"
	timestampLayout = "2006-01-02 15:04:05"
	fileStampLayout = "20060102_150405"
)

var ErrInvalidReplay = errors.New("invalid replay")

// Replay is a finished or interrupted game as stored on disk.
type Replay struct {
	Event         string   `json:"event"`
	Date          string   `json:"date"`
	White         string   `json:"white"`
	Black         string   `json:"black"`
	Result        string   `json:"result"`
	Moves         []string `json:"moves"`
	Mode          string   `json:"mode,omitempty"`
	FinalPosition string   `json:"final_position,omitempty"`
	Timestamp     string   `json:"timestamp,omitempty"`
}

// NewReplay records the session as it stands now.
func NewReplay(s *Session) Replay {
	return newReplay(s, time.Now())
}

func newReplay(s *Session, now time.Time) Replay {
	h := s.History()
	return Replay{
		Event:         s.Event,
		Date:          now.Format(dateLayout),
		White:         s.white.Name,
		Black:         s.black.Name,
		Result:        h.Result,
		Moves:         h.Moves,
		Mode:          s.Mode(),
		FinalPosition: s.FEN(),
		Timestamp:     now.Format(timestampLayout),
	}
}

// FileName is <timestamp>_<mode>_<result>.json.
func (r Replay) FileName() string {
	stamp := time.Now()
	if t, err := time.ParseInLocation(timestampLayout, r.Timestamp, time.Local); err == nil {
		stamp = t
	}
	mode := r.Mode
	if mode == "" {
		mode = "Game"
	}
	return fmt.Sprintf("%s_%s_%s.json", stamp.Format(fileStampLayout), mode, resultSlug(r.Result))
}

func resultSlug(result string) string {
	switch result {
	case "1-0":
		return "1v0"
	case "0-1":
		return "0v1"
	case "1/2-1/2":
		return "draw"
	}
	return "unfinished"
}

// SaveReplay writes r as indented JSON into dir, creating it if needed,
// and returns the path written. An existing file is never overwritten; a
// counter is added to the name instead.
func (r Replay) SaveReplay(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}
	path := filepath.Join(dir, r.FileName())
	for n := 2; fileExists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d.json", strings.TrimSuffix(r.FileName(), ".json"), n))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	log.Info().Str("path", path).Int("moves", len(r.Moves)).Msg("replay saved")
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadReplay reads and validates a replay file.
func LoadReplay(path string) (Replay, error) {
	var r Replay
	data, err := os.ReadFile(path)
	if err != nil {
		return r, errors.Wrap(err, "reading replay")
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, errors.Wrapf(ErrInvalidReplay, "%s: %v", path, err)
	}
	if err := r.Validate(); err != nil {
		return r, errors.WithMessage(err, path)
	}
	return r, nil
}

// Validate reports every malformed field, then replays the moves and
// stops at the first illegal one.
func (r Replay) Validate() error {
	var errs error
	switch r.Result {
	case "1-0", "0-1", "1/2-1/2", "*":
	default:
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidReplay, "result %q", r.Result))
	}
	malformed := false
	for i, m := range r.Moves {
		if len(m) < 4 || len(m) > 5 {
			errs = multierror.Append(errs, errors.Wrapf(ErrInvalidReplay, "move %d: %q", i+1, m))
			malformed = true
		}
	}
	if malformed {
		return errs
	}
	b, err := r.Board(len(r.Moves))
	if err != nil {
		return multierror.Append(errs, err)
	}
	if r.FinalPosition != "" {
		if err := samePosition(r.FinalPosition, b); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

// samePosition compares placement, side to move, castling rights and
// usable en passant square; move counters are ignored.
func samePosition(fen string, b *rules.Board) error {
	want, err := rules.FromFEN(fen)
	if err != nil {
		return errors.Wrapf(ErrInvalidReplay, "final position %q", fen)
	}
	if rules.PositionKey(want.Position()) != rules.PositionKey(b.Position()) {
		return errors.Wrapf(ErrInvalidReplay, "final position %q, moves reach %q", fen, b.FEN())
	}
	return nil
}

// Board returns the position after the first n moves.
func (r Replay) Board(n int) (*rules.Board, error) {
	if n < 0 || n > len(r.Moves) {
		return nil, errors.Wrapf(ErrInvalidReplay, "ply %d of %d", n, len(r.Moves))
	}
	b := rules.NewBoard()
	for i, m := range r.Moves[:n] {
		if _, err := b.PushUCI(m); err != nil {
			return nil, errors.WithMessagef(err, "move %d", i+1)
		}
	}
	return b, nil
}

// PGN renders the replay in Portable Game Notation.
func (r Replay) PGN() (string, error) {
	g := chess.NewGame()
	for i, text := range r.Moves {
		m, err := chess.UCINotation{}.Decode(g.Position(), text)
		if err == nil {
			err = g.Move(m)
		}
		if err != nil {
			return "", errors.Wrapf(rules.ErrIllegalMove, "move %d %q: %v", i+1, text, err)
		}
	}
	tags := [][2]string{
		{"Event", r.Event},
		{"Date", r.Date},
		{"White", r.White},
		{"Black", r.Black},
		{"Result", r.Result},
	}
	for _, t := range tags {
		if t[1] != "" {
			g.AddTagPair(t[0], t[1])
		}
	}
	if g.Outcome() == chess.NoOutcome {
		switch r.Result {
		case "1-0":
			g.Resign(chess.Black)
		case "0-1":
			g.Resign(chess.White)
		case "1/2-1/2":
			if err := g.Draw(chess.DrawOffer); err != nil {
				return "", errors.WithStack(err)
			}
		}
	}
	return g.String(), nil
}

// ReplayFromPGN reads the first game of a PGN document.
func ReplayFromPGN(rd io.Reader) (Replay, error) {
	opt, err := chess.PGN(rd)
	if err != nil {
		return Replay{}, errors.Wrapf(ErrInvalidReplay, "pgn: %v", err)
	}
	g := chess.NewGame(opt)

	tag := func(key, fallback string) string {
		if t := g.GetTagPair(key); t != nil && strings.TrimSpace(t.Value) != "" {
			return t.Value
		}
		return fallback
	}
	r := Replay{
		Event:         tag("Event", "?"),
		Date:          tag("Date", "????.??.??"),
		White:         tag("White", "?"),
		Black:         tag("Black", "?"),
		Result:        tag("Result", g.Outcome().String()),
		FinalPosition: g.Position().String(),
		Timestamp:     time.Now().Format(timestampLayout),
	}
	for _, m := range g.Moves() {
		r.Moves = append(r.Moves, m.String())
	}
	return r, nil
}
