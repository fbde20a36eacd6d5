package board

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// castlingIndex maps a single right to its key slot.
func castlingIndex(right CastlingRights) int {
	return bits.TrailingZeros8(uint8(right))
}

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	return cr&castleRight(c, kingSide) != 0
}

func castleRight(c Color, kingSide bool) CastlingRights {
	if c == White {
		if kingSide {
			return WhiteKingSideCastle
		}
		return WhiteQueenSideCastle
	}
	if kingSide {
		return BlackKingSideCastle
	}
	return BlackQueenSideCastle
}

// rookHome lists the rook origin square guarded by each castling right.
var rookHome = [4]Square{H1, A1, H8, A8}

// undoState holds the fields a move destroys and that cannot be recovered
// from the planes.
type undoState struct {
	enPassant     Square
	castling      CastlingRights
	halfMoveClock int
}

// Position is a mutable chess position. It is mutated in place by MakeMove
// and UnmakeMove and must be owned by a single goroutine; searches on other
// goroutines need their own Position (they may share the *Tables).
type Position struct {
	tables *Tables

	pieces  [6]Bitboard // both colors, indexed by PieceType
	colors  [2]Bitboard // union of each color's pieces
	squares [64]Piece   // square lookup cache, always equal to the planes

	side           Color
	castling       CastlingRights
	enPassant      Square // square skipped by the last double push, NoSquare if none
	halfMoveClock  int
	fullMoveNumber int

	hash uint64

	moves       []Move
	undos       []undoState
	hashHistory []uint64 // hash before each move in moves
}

func newEmptyPosition(t *Tables) *Position {
	p := &Position{
		tables:         t,
		enPassant:      NoSquare,
		fullMoveNumber: 1,
		moves:          make([]Move, 0, 64),
		undos:          make([]undoState, 0, 64),
		hashHistory:    make([]uint64, 0, 64),
	}
	for sq := range p.squares {
		p.squares[sq] = NoPiece
	}
	return p
}

// NewPosition creates the starting position.
func NewPosition(t *Tables) *Position {
	pos, err := ParseFEN(t, StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// Clone returns an independent copy of the position, histories included.
func (p *Position) Clone() *Position {
	c := *p
	c.moves = slices.Clone(p.moves)
	c.undos = slices.Clone(p.undos)
	c.hashHistory = slices.Clone(p.hashHistory)
	return &c
}

// Tables returns the shared tables backing the position.
func (p *Position) Tables() *Tables {
	return p.tables
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
// It panics if sq is not a board square.
func (p *Position) PieceAt(sq Square) Piece {
	sq.mustValid()
	return p.squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.PieceAt(sq) == NoPiece
}

// Pieces returns the plane of one piece type, both colors.
func (p *Position) Pieces(pt PieceType) Bitboard {
	return p.pieces[pt]
}

// Colors returns every square occupied by color c.
func (p *Position) Colors(c Color) Bitboard {
	return p.colors[c]
}

// PiecesOf returns the pieces of type pt and color c.
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.pieces[pt] & p.colors[c]
}

// Occupied returns every occupied square.
func (p *Position) Occupied() Bitboard {
	return p.colors[White] | p.colors[Black]
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color {
	return p.side
}

// CastlingRights returns the remaining castling rights.
func (p *Position) CastlingRights() CastlingRights {
	return p.castling
}

// EnPassant returns the en passant target square, or NoSquare.
func (p *Position) EnPassant() Square {
	return p.enPassant
}

// HalfMoveClock returns the number of plies since the last pawn move or
// capture.
func (p *Position) HalfMoveClock() int {
	return p.halfMoveClock
}

// FullMoveNumber returns the full move counter, starting at 1.
func (p *Position) FullMoveNumber() int {
	return p.fullMoveNumber
}

// Hash returns the incrementally maintained position hash.
func (p *Position) Hash() uint64 {
	return p.hash
}

// KingSquare returns the square of the king of color c, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.PiecesOf(c, King).LSB()
}

// MoveCount returns the number of moves that can be undone.
func (p *Position) MoveCount() int {
	return len(p.moves)
}

// CanUndo reports whether UnmakeMove has a move to retract.
func (p *Position) CanUndo() bool {
	return len(p.moves) > 0
}

// LastMove returns the most recently made move, or NoMove.
func (p *Position) LastMove() Move {
	if len(p.moves) == 0 {
		return NoMove
	}
	return p.moves[len(p.moves)-1]
}

// putPiece places a piece on an empty square and toggles its hash key.
func (p *Position) putPiece(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.pieces[pt] |= bb
	p.colors[c] |= bb
	p.squares[sq] = NewPiece(pt, c)
	p.hash ^= p.tables.keys.piece[c][pt][sq]
}

// removePiece clears a piece from a square and toggles its hash key.
func (p *Position) removePiece(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.pieces[pt] &^= bb
	p.colors[c] &^= bb
	p.squares[sq] = NoPiece
	p.hash ^= p.tables.keys.piece[c][pt][sq]
}

// movePiece translates a piece between two squares.
func (p *Position) movePiece(c Color, pt PieceType, from, to Square) {
	moveBB := SquareBB(from) | SquareBB(to)
	p.pieces[pt] ^= moveBB
	p.colors[c] ^= moveBB
	p.squares[from] = NoPiece
	p.squares[to] = NewPiece(pt, c)
	p.hash ^= p.tables.keys.piece[c][pt][from] ^ p.tables.keys.piece[c][pt][to]
}

// CheckInvariants verifies that the planes, the square cache and the hash
// agree with one another.
func (p *Position) CheckInvariants() error {
	if p.colors[White]&p.colors[Black] != 0 {
		return fmt.Errorf("squares %v set for both colors", (p.colors[White] & p.colors[Black]).Squares())
	}

	var union Bitboard
	for pt := Pawn; pt <= King; pt++ {
		if overlap := union & p.pieces[pt]; overlap != 0 {
			return fmt.Errorf("%s plane overlaps another plane on %v", pt, overlap.Squares())
		}
		union |= p.pieces[pt]
	}
	if union != p.Occupied() {
		return fmt.Errorf("piece planes %#x do not match color aggregates %#x", uint64(union), uint64(p.Occupied()))
	}

	for sq := A1; sq <= H8; sq++ {
		want := NoPiece
		for pt := Pawn; pt <= King; pt++ {
			for c := White; c <= Black; c++ {
				if p.PiecesOf(c, pt).IsSet(sq) {
					want = NewPiece(pt, c)
				}
			}
		}
		if p.squares[sq] != want {
			return fmt.Errorf("cache holds %q on %s, planes hold %q", p.squares[sq], sq, want)
		}
	}

	for c := White; c <= Black; c++ {
		if n := p.PiecesOf(c, King).PopCount(); n != 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}

	if h := p.ComputeHash(); h != p.hash {
		return fmt.Errorf("hash %016x differs from recomputed %016x", p.hash, h)
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.side)
	fmt.Fprintf(&sb, "Castling: %s\n", p.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.halfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.fullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.hash)
	return sb.String()
}
