// Package engine implements static evaluation and a fixed-depth alpha-beta
// search over board positions.
package engine

import (
	"github.com/samber/lo"

	"github.com/hailam/bitchess/internal/board"
)

// Evaluation constants
const (
	PawnValue   = 100
	KnightValue = 300
	BishopValue = 300
	RookValue   = 500
	QueenValue  = 900
	KingValue   = 20000
)

// Piece values array for quick lookup
var pieceValues = [6]int{PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Half a pawn for holding two or more bishops.
const bishopPairBonus = PawnValue / 2

var materialPieces = []board.PieceType{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen}

// Piece-Square Tables (PST) for positional evaluation.
// Laid out from a1 (first row is rank 1) for White; Black reads them
// mirrored (square XOR 56).

// Pawn PST - encourages central control and advancement
var pawnPST = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Knight PST - encourages central positioning
var knightPST = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

// Bishop PST - encourages central diagonals
var bishopPST = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

// Rook PST - encourages 7th rank
var rookPST = [64]int{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// Queen PST - slight central preference
var queenPST = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// King PST - encourages castling
var kingPST = [64]int{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
}

var psts = [6][64]int{
	pawnPST, knightPST, bishopPST, rookPST, queenPST, kingPST,
}

// Breakdown holds the evaluation terms of a position, each from White's
// perspective (White minus Black).
type Breakdown struct {
	Material int
	Location int
	Mobility int
	Score    int // aggregate returned by Evaluate
}

// Evaluator scores positions statically. It keeps no state between calls
// and may be shared by any number of searches.
type Evaluator struct {
	useMobility bool
}

// NewEvaluator creates an evaluator. With useMobility set the mobility
// difference is added to the aggregate score; otherwise it is only
// reported by Breakdown.
func NewEvaluator(useMobility bool) *Evaluator {
	return &Evaluator{useMobility: useMobility}
}

// Evaluate returns the score of the position from White's perspective:
// positive favors White.
func (e *Evaluator) Evaluate(pos *board.Position) int {
	score := e.material(pos) + e.location(pos)
	if e.useMobility {
		score += Mobility(pos, board.White) - Mobility(pos, board.Black)
	}
	return score
}

// Breakdown returns every evaluation term of the position.
func (e *Evaluator) Breakdown(pos *board.Position) Breakdown {
	b := Breakdown{
		Material: e.material(pos),
		Location: e.location(pos),
		Mobility: Mobility(pos, board.White) - Mobility(pos, board.Black),
	}
	b.Score = b.Material + b.Location
	if e.useMobility {
		b.Score += b.Mobility
	}
	return b
}

func (e *Evaluator) material(pos *board.Position) int {
	return Material(pos, board.White) - Material(pos, board.Black)
}

func (e *Evaluator) location(pos *board.Position) int {
	return Location(pos, board.White) - Location(pos, board.Black)
}

// Material returns the material of color c, kings excluded, plus the bishop
// pair bonus.
func Material(pos *board.Position, c board.Color) int {
	value := lo.SumBy(materialPieces, func(pt board.PieceType) int {
		return pos.PiecesOf(c, pt).PopCount() * pieceValues[pt]
	})
	if pos.PiecesOf(c, board.Bishop).PopCount() > 1 {
		value += bishopPairBonus
	}
	return value
}

// Location returns the piece-square table sum of color c.
func Location(pos *board.Position, c board.Color) int {
	value := 0
	for pt := board.Pawn; pt <= board.King; pt++ {
		bb := pos.PiecesOf(c, pt)
		for bb != 0 {
			sq := bb.PopLSB()
			if c == board.Black {
				sq = sq.Mirror()
			}
			value += psts[pt][sq]
		}
	}
	return value
}

// Mobility returns the number of pseudo-legal destinations of color c's
// pawns, knights, king and sliders, scaled to pawn units of 100.
func Mobility(pos *board.Position, c board.Color) int {
	t := pos.Tables()
	us := pos.Colors(c)
	them := pos.Colors(c.Other())
	occupied := pos.Occupied()
	empty := ^occupied

	pawns := pos.PiecesOf(c, board.Pawn)
	var push1, push2 board.Bitboard
	if c == board.White {
		push1 = pawns.North() & empty
		push2 = (push1 & board.Rank3).North() & empty
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & board.Rank6).South() & empty
	}
	mobility := push1.PopCount() + push2.PopCount()
	mobility += (board.PawnAttacks(c, pawns) & them).PopCount()

	knights := pos.PiecesOf(c, board.Knight)
	for knights != 0 {
		mobility += (t.KnightAttacks(knights.PopLSB()) &^ us).PopCount()
	}

	if ksq := pos.KingSquare(c); ksq != board.NoSquare {
		mobility += (t.KingAttacks(ksq) &^ us).PopCount()
	}

	queens := pos.PiecesOf(c, board.Queen)
	diagonal := pos.PiecesOf(c, board.Bishop) | queens
	for diagonal != 0 {
		mobility += (board.BishopAttacks(board.SquareBB(diagonal.PopLSB()), occupied) &^ us).PopCount()
	}
	orthogonal := pos.PiecesOf(c, board.Rook) | queens
	for orthogonal != 0 {
		mobility += (board.RookAttacks(board.SquareBB(orthogonal.PopLSB()), occupied) &^ us).PopCount()
	}

	return mobility * PawnValue / 100
}
