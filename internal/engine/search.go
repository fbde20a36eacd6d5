package engine

import (
	"context"

	"github.com/hailam/bitchess/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = KingValue // reported score of a mated side

	// Inside the search a mate found at ply n scores MateScore+mateBonus-n,
	// so shorter mates win ties. Reported scores are clamped to MateScore.
	mateBonus = 1000
)

// Searcher runs a fixed-depth minimax search with alpha-beta pruning.
// White maximizes and Black minimizes; every score is from White's
// perspective. A Searcher walks one position in place and must not be
// shared between goroutines.
type Searcher struct {
	pos  *board.Position
	eval *Evaluator
	cfg  Config
	ctx  context.Context

	ply   int
	nodes uint64
}

// NewSearcher creates a searcher over pos.
func NewSearcher(ctx context.Context, pos *board.Position, eval *Evaluator, cfg Config) *Searcher {
	return &Searcher{pos: pos, eval: eval, cfg: cfg, ctx: ctx}
}

// Nodes returns the number of nodes visited so far.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// SearchRoot searches every legal root move to depth plies in total and
// returns the first move reaching the best bound, with its score. Of two
// mates the shorter one wins. It returns NoMove when the side to move has no
// legal move.
//
// If the context is cancelled the best move found so far is returned with
// the context's error. The context is only checked between sibling moves,
// after the previous one has been unmade, so the position is always
// restored.
func (s *Searcher) SearchRoot(depth int) (board.Move, int, error) {
	if err := s.ctx.Err(); err != nil {
		return board.NoMove, 0, err
	}

	pos := s.pos
	white := pos.SideToMove() == board.White
	alpha, beta := -Infinity, Infinity
	best := board.NoMove

	moves := orderMoves(pos.GenerateMoves(false))
	searched := false
	for _, m := range moves {
		if searched {
			if err := s.ctx.Err(); err != nil {
				return best, clampMate(s.bound(white, alpha, beta)), err
			}
		}
		if !s.makeMove(m) {
			continue
		}
		searched = true
		value, err := s.alphaBeta(depth-1, alpha, beta)
		s.unmakeMove()
		if err != nil {
			return best, clampMate(s.bound(white, alpha, beta)), err
		}

		if white {
			if value > alpha {
				alpha = value
				best = m
			}
		} else if value < beta {
			beta = value
			best = m
		}
	}

	if best == board.NoMove {
		return board.NoMove, clampMate(s.terminal()), nil
	}
	return best, clampMate(s.bound(white, alpha, beta)), nil
}

// alphaBeta searches depth plies below the current position.
func (s *Searcher) alphaBeta(depth, alpha, beta int) (int, error) {
	if depth < 1 {
		if s.cfg.Quiescence {
			return s.quiescence(0, alpha, beta)
		}
		return s.leaf(), nil
	}

	s.nodes++
	pos := s.pos
	white := pos.SideToMove() == board.White

	moves := orderMoves(pos.GenerateMoves(false))
	legal := false
	for _, m := range moves {
		if legal {
			if err := s.ctx.Err(); err != nil {
				return 0, err
			}
		}
		if !s.makeMove(m) {
			continue
		}
		legal = true
		value, err := s.alphaBeta(depth-1, alpha, beta)
		s.unmakeMove()
		if err != nil {
			return 0, err
		}

		if white {
			alpha = max(alpha, value)
		} else {
			beta = min(beta, value)
		}
		if beta <= alpha {
			break
		}
	}

	if !legal {
		return s.terminal(), nil
	}
	if pos.IsDraw() {
		return 0, nil
	}
	return s.bound(white, alpha, beta), nil
}

// quiescence extends a leaf until no capture is left. In check every
// evasion is searched and there is no stand-pat; out of check only
// captures are searched and the static score bounds the result.
func (s *Searcher) quiescence(qPly, alpha, beta int) (int, error) {
	s.nodes++
	pos := s.pos

	if pos.IsDraw() {
		return 0, nil
	}
	if qPly > s.cfg.MaxQuiescencePly {
		return s.eval.Evaluate(pos), nil
	}

	white := pos.SideToMove() == board.White
	inCheck := pos.InCheck()

	if !inCheck {
		standPat := s.eval.Evaluate(pos)
		if white {
			if standPat >= beta {
				return beta, nil
			}
			alpha = max(alpha, standPat)
		} else {
			if standPat <= alpha {
				return alpha, nil
			}
			beta = min(beta, standPat)
		}
	}

	moves := orderMoves(pos.GenerateMoves(!inCheck))
	legal := false
	for _, m := range moves {
		if legal {
			if err := s.ctx.Err(); err != nil {
				return 0, err
			}
		}
		if !s.makeMove(m) {
			continue
		}
		legal = true
		value, err := s.quiescence(qPly+1, alpha, beta)
		s.unmakeMove()
		if err != nil {
			return 0, err
		}

		if white {
			if value >= beta {
				return beta, nil
			}
			alpha = max(alpha, value)
		} else {
			if value <= alpha {
				return alpha, nil
			}
			beta = min(beta, value)
		}
	}

	if inCheck && !legal {
		return s.mated(), nil
	}
	return s.bound(white, alpha, beta), nil
}

// leaf scores a horizon node when quiescence is disabled.
func (s *Searcher) leaf() int {
	s.nodes++
	if !s.pos.HasLegalMoves() {
		return s.terminal()
	}
	if s.pos.IsDraw() {
		return 0
	}
	return s.eval.Evaluate(s.pos)
}

// terminal scores a position without legal moves.
func (s *Searcher) terminal() int {
	if !s.pos.InCheck() {
		return 0
	}
	return s.mated()
}

// mated returns the score of the side to move being checkmated.
func (s *Searcher) mated() int {
	score := MateScore + mateBonus - s.ply
	if s.pos.SideToMove() == board.White {
		return -score
	}
	return score
}

func (s *Searcher) makeMove(m board.Move) bool {
	if !s.pos.MakeMove(m) {
		return false
	}
	s.ply++
	return true
}

func (s *Searcher) unmakeMove() {
	s.pos.UnmakeMove()
	s.ply--
}

func clampMate(score int) int {
	return max(-MateScore, min(MateScore, score))
}

func (s *Searcher) bound(white bool, alpha, beta int) int {
	if white {
		return alpha
	}
	return beta
}
