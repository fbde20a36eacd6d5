package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/bitchess/internal/board"
)

// Result contains the outcome of a search.
type Result struct {
	Move    board.Move // NoMove when the side to move has no legal move
	Score   int        // from White's perspective
	Nodes   uint64
	Depth   int
	Elapsed time.Duration
}

// Engine chooses moves with a fixed-depth search. An Engine holds no
// per-search state, so one Engine may search several positions at once as
// long as every search gets its own *board.Position.
type Engine struct {
	cfg  Config
	eval *Evaluator
	log  zerolog.Logger
}

// NewEngine creates an engine from cfg. It logs to stderr at cfg.LogLevel.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := cfg.level()
	logger := zerolog.New(os.Stderr).Level(level).With().
		Timestamp().
		Str("component", "search").
		Logger()
	return &Engine{
		cfg:  cfg,
		eval: NewEvaluator(cfg.UseMobility),
		log:  logger,
	}, nil
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.log = l.With().Str("component", "search").Logger()
}

// Config returns the engine settings.
func (e *Engine) Config() Config {
	return e.cfg
}

// BestMove returns the move the engine would play, or NoMove when no legal
// move exists. Callers tell mate from stalemate with pos.Status().
func (e *Engine) BestMove(pos *board.Position) board.Move {
	res, _ := e.Search(context.Background(), pos)
	return res.Move
}

// Search searches pos to the configured depth. pos is mutated during the
// search and restored before Search returns.
//
// A cancelled ctx stops the search between two sibling moves; the result
// then holds the best root move found so far and the error wraps
// ctx.Err().
func (e *Engine) Search(ctx context.Context, pos *board.Position) (Result, error) {
	start := time.Now()
	s := NewSearcher(ctx, pos, e.eval, e.cfg)

	move, score, err := s.SearchRoot(e.cfg.Depth)
	res := Result{
		Move:    move,
		Score:   score,
		Nodes:   s.Nodes(),
		Depth:   e.cfg.Depth,
		Elapsed: time.Since(start),
	}

	if err != nil {
		e.log.Warn().Err(err).
			Uint64("nodes", res.Nodes).
			Str("move", move.UCI()).
			Msg("search interrupted")
		return res, fmt.Errorf("search %s: %w", pos.FEN(), err)
	}

	e.log.Debug().
		Int("depth", res.Depth).
		Uint64("nodes", res.Nodes).
		Int("score", res.Score).
		Str("move", move.UCI()).
		Dur("elapsed", res.Elapsed).
		Msg("search done")
	return res, nil
}

// Evaluate returns the static evaluation of a position.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}

// Breakdown returns the evaluation terms of a position.
func (e *Engine) Breakdown(pos *board.Position) Breakdown {
	return e.eval.Breakdown(pos)
}

// Perft performs a perft test (for debugging move generation).
func (e *Engine) Perft(pos *board.Position, depth int) uint64 {
	start := time.Now()
	nodes := board.Perft(pos, depth)
	e.log.Debug().
		Int("depth", depth).
		Uint64("nodes", nodes).
		Dur("elapsed", time.Since(start)).
		Msg("perft")
	return nodes
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	switch {
	case score >= MateScore:
		return "White mates"
	case score <= -MateScore:
		return "Black mates"
	}
	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
