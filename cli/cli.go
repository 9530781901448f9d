// Package cli is the line-oriented text front end.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"chessAlphaBeta/bots"
	"chessAlphaBeta/game"
	"chessAlphaBeta/rules"
)

const help = "Enter moves in UCI format (e.g. e2e4, e7e8q), 'moves' to list legal moves, 'undo' to take back, 'quit' to exit"

// Text plays a session on a terminal.
type Text struct {
	in        *bufio.Scanner
	out       io.Writer
	replayDir string
}

func New(in io.Reader, out io.Writer, replayDir string) *Text {
	return &Text{in: bufio.NewScanner(in), out: out, replayDir: replayDir}
}

// Play runs s until the game ends or the human quits, then offers to
// save a replay.
func (t *Text) Play(ctx context.Context, s *game.Session) error {
	t.println("Chess Game (Text Mode)")
	t.println(help)
	for _, c := range []chess.Color{chess.White, chess.Black} {
		t.printf("%s: %s\n", c.Name(), s.Player(c).Name)
	}

	quit := false
	for !s.IsOver() && !quit {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.println("")
		t.println(s.Board().Draw())
		t.printf("Turn: %s\n", s.Turn().Name())

		if s.IsHumanTurn() {
			var err error
			if quit, err = t.humanTurn(s); err != nil {
				return err
			}
		} else {
			t.println("AI is thinking...")
			m, err := s.Step()
			if err != nil {
				return err
			}
			t.printf("AI plays: %s\n", m)
		}
		if last := s.LastMove(); last != nil && last.HasTag(chess.Check) && !s.IsOver() {
			t.println("CHECK!")
		}
	}

	if s.IsOver() {
		t.println("")
		t.println(s.Board().Draw())
		t.println("Game over!")
	}
	t.printf("Result: %s (%s)\n", s.Result(), game.MethodLabel(s.Method()))
	return t.offerSave(s)
}

// humanTurn reads commands until a move is played. It reports true when
// the human quits.
func (t *Text) humanTurn(s *game.Session) (bool, error) {
	for {
		line, ok := t.prompt("Your move: ")
		if !ok {
			return true, nil
		}
		switch cmd := strings.ToLower(line); cmd {
		case "":
			continue
		case "quit", "exit":
			return true, nil
		case "help":
			t.println(help)
		case "moves":
			t.println(strings.Join(uciMoves(s.LegalMoves()), " "))
		case "undo":
			n, err := s.Undo()
			if errors.Is(err, game.ErrNothingToUndo) {
				t.println("Nothing to undo.")
				continue
			}
			if err != nil {
				return false, err
			}
			t.printf("Took back %d half-move(s).\n", n)
			return false, nil
		default:
			if _, err := s.Play(cmd); err != nil {
				if errors.Is(err, rules.ErrIllegalMove) {
					t.println("Invalid move! Try again.")
					continue
				}
				return false, err
			}
			return false, nil
		}
	}
}

func (t *Text) offerSave(s *game.Session) error {
	if s.Ply() == 0 {
		return nil
	}
	answer, ok := t.prompt("Save replay? (y/n): ")
	if !ok || !strings.HasPrefix(strings.ToLower(answer), "y") {
		return nil
	}
	path, err := game.NewReplay(s).SaveReplay(t.replayDir)
	if err != nil {
		return err
	}
	t.printf("Game saved to %s\n", path)
	return nil
}

func (t *Text) prompt(p string) (string, bool) {
	fmt.Fprint(t.out, p)
	if !t.in.Scan() {
		if err := t.in.Err(); err != nil {
			log.Error().Err(err).Msg("reading input")
		}
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

func (t *Text) println(s string) {
	fmt.Fprintln(t.out, s)
}

func (t *Text) printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

func uciMoves(moves []*chess.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// AnalyzeOptions selects what Analyze prints besides the best move.
type AnalyzeOptions struct {
	// Dot prints the search root as a Graphviz digraph instead.
	Dot bool
	// Compare also runs the unpruned search and reports the saving.
	Compare bool
}

// Analyze prints the search result for fen.
func Analyze(out io.Writer, bot *bots.AlphaBetaBot, fen string, opts AnalyzeOptions) error {
	b, err := rules.FromFEN(fen)
	if err != nil {
		return err
	}
	res, err := bot.Analyze(b)
	if err != nil {
		return err
	}
	if opts.Dot {
		text, err := res.Dot()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}
	fmt.Fprintln(out, b.Draw())
	fmt.Fprintf(out, "%s: best %s (%+.2f), %d nodes, %d leaves, %d cutoffs\n",
		bot.Name(), res.Move, res.Score, res.Stats.Nodes, res.Stats.Leaves, res.Stats.Cutoffs)
	for _, line := range res.Lines {
		fmt.Fprintf(out, "  %-6s %+10.2f %8d\n", line.Move, line.Score, line.Nodes)
	}
	if !opts.Compare {
		return nil
	}
	full, err := bot.Searcher.Minimax(b, bot.Depth)
	if err != nil {
		return err
	}
	saved := 100 * (1 - float64(res.Stats.Nodes)/float64(full.Stats.Nodes))
	fmt.Fprintf(out, "minimax: best %s (%+.2f), %d nodes; pruning saved %.1f%%\n",
		full.Move, full.Score, full.Stats.Nodes, saved)
	return nil
}

// Report prints the outcome of an arena match.
func Report(out io.Writer, rep game.ArenaReport) {
	fmt.Fprintln(out, rep.A)
	fmt.Fprintln(out, rep.B)
	fmt.Fprintf(out, "games: %d, unfinished: %d, plies: mean %.1f, stddev %.1f\n",
		len(rep.Plies), rep.Unfinished, rep.MeanPlies, rep.StdDevPlies)
}
