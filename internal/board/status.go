package board

import "github.com/samber/lo"

// Status is the outcome state of a position.
type Status uint8

const (
	Normal Status = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	RepetitionDraw
	InsufficientMaterialDraw
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Normal:
		return "normal"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "fifty-move draw"
	case RepetitionDraw:
		return "threefold repetition"
	case InsufficientMaterialDraw:
		return "insufficient material"
	default:
		return "unknown"
	}
}

// IsDraw returns true for every drawn status, stalemate included.
func (s Status) IsDraw() bool {
	return s >= Stalemate
}

// Status resolves the state of the position. Mate and stalemate take
// precedence over the fifty-move rule, which precedes repetition, which
// precedes insufficient material.
func (p *Position) Status() Status {
	if !p.HasLegalMoves() {
		if p.InCheck() {
			return Checkmate
		}
		return Stalemate
	}
	switch {
	case p.IsFiftyMoveDraw():
		return FiftyMoveDraw
	case p.IsRepetition():
		return RepetitionDraw
	case p.IsInsufficientMaterial():
		return InsufficientMaterialDraw
	}
	return Normal
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is drawn by the fifty-move rule,
// threefold repetition or insufficient material. Stalemate is not checked.
func (p *Position) IsDraw() bool {
	return p.IsFiftyMoveDraw() || p.IsRepetition() || p.IsInsufficientMaterial()
}

// IsFiftyMoveDraw returns true once 100 plies have passed without a pawn
// move or capture.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.halfMoveClock >= 100
}

// IsRepetition returns true if the current position occurred at least twice
// before in the move history.
func (p *Position) IsRepetition() bool {
	return lo.Count(p.hashHistory, p.hash) >= 2
}

// IsInsufficientMaterial returns true if neither side can checkmate: no
// pawns, rooks or queens remain, and either fewer than four pieces are left
// or there are no knights and every bishop stands on the same square color.
func (p *Position) IsInsufficientMaterial() bool {
	if p.pieces[Pawn]|p.pieces[Rook]|p.pieces[Queen] != 0 {
		return false
	}
	if p.Occupied().PopCount() < 4 {
		return true
	}
	if p.pieces[Knight] != 0 {
		return false
	}
	bishops := p.pieces[Bishop]
	return bishops&LightSquares == 0 || bishops&DarkSquares == 0
}
