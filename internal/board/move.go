package board

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIllegalMove is returned when a move string does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

// MoveKind classifies a move. Bit 2 marks captures, bit 3 promotions; the
// low two bits of a promotion select the promoted piece (knight..queen).
type MoveKind uint8

const (
	Quiet            MoveKind = 0
	DoublePawnPush   MoveKind = 1
	KingCastle       MoveKind = 2
	QueenCastle      MoveKind = 3
	Capture          MoveKind = 4
	EnPassantCapture MoveKind = 5

	KnightPromotion MoveKind = 8
	BishopPromotion MoveKind = 9
	RookPromotion   MoveKind = 10
	QueenPromotion  MoveKind = 11

	KnightPromotionCapture MoveKind = 12
	BishopPromotionCapture MoveKind = 13
	RookPromotionCapture   MoveKind = 14
	QueenPromotionCapture  MoveKind = 15
)

// Move packs a move into 22 bits:
// bits 0-5:   to square
// bits 6-11:  from square
// bits 12-15: kind
// bits 16-18: moving piece type
// bits 19-21: captured piece type (NoPieceType when nothing is captured)
//
// A Move never changes once built; every predicate below is derived from
// the packed fields.
type Move uint32

// NoMove is the zero Move, returned when there is no move to report.
const NoMove Move = 0

// NewMove packs a move.
func NewMove(from, to Square, kind MoveKind, piece, captured PieceType) Move {
	return Move(to&0x3F) |
		Move(from&0x3F)<<6 |
		Move(kind&0xF)<<12 |
		Move(piece&0x7)<<16 |
		Move(captured&0x7)<<19
}

// To returns the destination square.
func (m Move) To() Square {
	return Square(m & 0x3F)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square((m >> 6) & 0x3F)
}

// Kind returns the move kind.
func (m Move) Kind() MoveKind {
	return MoveKind((m >> 12) & 0xF)
}

// Piece returns the type of the moving piece.
func (m Move) Piece() PieceType {
	return PieceType((m >> 16) & 0x7)
}

// Captured returns the type of the captured piece, or NoPieceType.
func (m Move) Captured() PieceType {
	return PieceType((m >> 19) & 0x7)
}

// IsCapture returns true for plain, en passant and promotion captures.
func (m Move) IsCapture() bool {
	k := m.Kind()
	return k == Capture || k == EnPassantCapture || k >= KnightPromotionCapture
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Kind() >= KnightPromotion
}

// IsCastle returns true if this is a castling move.
func (m Move) IsCastle() bool {
	k := m.Kind()
	return k == KingCastle || k == QueenCastle
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind() == EnPassantCapture
}

// Promotion returns the promoted piece type, or NoPieceType.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return Knight + PieceType(m.Kind()&3)
}

// CaptureSquare returns the square of the captured piece. It equals To
// except for en passant, where the captured pawn stands one rank behind the
// destination as seen from the mover.
func (m Move) CaptureSquare() Square {
	if m.Kind() != EnPassantCapture {
		return m.To()
	}
	if m.From() < m.To() {
		return m.To() - 8
	}
	return m.To() + 8
}

// String returns the long algebraic form of the move, e.g. "e2-e4",
// "Ng1xf3", "e5xd6e.p.", "e7-e8Q", "0-0".
func (m Move) String() string {
	switch m.Kind() {
	case KingCastle:
		return "0-0"
	case QueenCastle:
		return "0-0-0"
	}

	var sb strings.Builder
	sb.WriteString(m.Piece().Letter())
	sb.WriteString(m.From().String())
	if m.IsCapture() {
		sb.WriteByte('x')
	} else {
		sb.WriteByte('-')
	}
	sb.WriteString(m.To().String())
	if m.IsEnPassant() {
		sb.WriteString("e.p.")
	}
	if m.IsPromotion() {
		sb.WriteString(m.Promotion().Letter())
	}
	return sb.String()
}

// UCI returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) UCI() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += strings.ToLower(m.Promotion().Letter())
	}
	return s
}

// ParseMove resolves a coordinate-notation move (e.g., "e2e4", "a7a8q")
// against the legal moves of the position.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}
	for _, m := range p.LegalMoves() {
		if m.UCI() == s {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
}
