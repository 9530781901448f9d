package bots

import (
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"golang.org/x/exp/rand"

	"chessAlphaBeta/rules"
)

// RandomBot plays a uniformly random legal move.
type RandomBot struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed uint64
}

// NewRandomBot returns a bot whose choices are fixed by seed. A zero seed
// is replaced by the current time.
func NewRandomBot(seed uint64) *RandomBot {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandomBot{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

func (b *RandomBot) SelectMove(board *rules.Board) (*chess.Move, error) {
	moves := board.LegalMoves()
	if err := checkPlayable(board, moves); err != nil {
		return nil, err
	}
	b.mu.Lock()
	i := b.rng.Intn(len(moves))
	b.mu.Unlock()
	return moves[i], nil
}

func (b *RandomBot) Name() string {
	return "RandomAgent"
}

func (b *RandomBot) String() string {
	return fmt.Sprintf("%s(seed=%d)", b.Name(), b.seed)
}
