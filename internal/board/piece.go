package board

import "strings"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

var colorNames = [...]string{"White", "Black", "NoColor"}

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c > NoColor {
		c = NoColor
	}
	return colorNames[c]
}

// PieceType is a kind of chess man, independent of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

// Letter returns the notation letter of the piece type. Pawns and
// NoPieceType have none.
func (pt PieceType) Letter() string {
	if pt == Pawn || pt >= NoPieceType {
		return ""
	}
	return string(pieceChars[pt])
}

// Piece is a colored piece type, stored as type + 6*color so that it indexes
// pieceChars directly. NoPiece marks an empty square.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
	NoPiece
)

// FEN letters in Piece order.
const pieceChars = "PNBRQKpnbrqk"

// NewPiece combines a type and a color. Out-of-range input gives NoPiece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the piece type, or NoPieceType for NoPiece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the piece color, or NoColor for NoPiece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN letter, or a blank for an empty square.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return pieceChars[p : p+1]
}

// PieceFromChar parses a FEN letter. Anything else gives NoPiece.
func PieceFromChar(c byte) Piece {
	i := strings.IndexByte(pieceChars, c)
	if i < 0 {
		return NoPiece
	}
	return Piece(i)
}
