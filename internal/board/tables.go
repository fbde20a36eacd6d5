package board

import "lukechampine.com/frand"

const (
	notFileAB Bitboard = ^(FileA | FileB)
	notFileGH Bitboard = ^(FileG | FileH)
)

// Tables holds the precomputed masks, jump tables and hash keys that every
// position needs. It is built once and never modified afterwards, so a single
// *Tables may back any number of positions, including positions searched on
// different goroutines.
type Tables struct {
	files         [8]Bitboard
	ranks         [8]Bitboard
	diagonals     [15]Bitboard // indexed by file-rank+7 (a1-h8 direction)
	antiDiagonals [15]Bitboard // indexed by file+rank (h1-a8 direction)

	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard

	keys zobristKeys
}

// NewTables builds the shared tables with hash keys drawn from a freshly
// seeded generator.
func NewTables() *Tables {
	return newTables(frand.New())
}

// NewTablesFromSeed builds the shared tables with reproducible hash keys.
func NewTablesFromSeed(seed [32]byte) *Tables {
	return newTables(frand.NewCustom(seed[:], 1024, 12))
}

func newTables(rng *frand.RNG) *Tables {
	t := &Tables{}
	t.initLines()
	t.initKnightAttacks()
	t.initKingAttacks()
	t.keys = newZobristKeys(rng)
	return t
}

func (t *Tables) initLines() {
	for i := 0; i < 8; i++ {
		t.files[i] = FileA << uint(i)
		t.ranks[i] = Rank1 << uint(8*i)
	}
	for sq := A1; sq <= H8; sq++ {
		f, r := sq.File(), sq.Rank()
		t.diagonals[f-r+7] |= SquareBB(sq)
		t.antiDiagonals[f+r] |= SquareBB(sq)
	}
}

func (t *Tables) initKnightAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		attacks := Empty

		// Up/down 2, left/right 1
		attacks |= (bb << 17) & NotFileA
		attacks |= (bb << 15) & NotFileH
		attacks |= (bb >> 17) & NotFileH
		attacks |= (bb >> 15) & NotFileA

		// Up/down 1, left/right 2
		attacks |= (bb << 10) & notFileAB
		attacks |= (bb << 6) & notFileGH
		attacks |= (bb >> 10) & notFileGH
		attacks |= (bb >> 6) & notFileAB

		t.knightAttacks[sq] = attacks
	}
}

func (t *Tables) initKingAttacks() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)
		row := bb | bb.East() | bb.West()
		t.kingAttacks[sq] = (row | row.North() | row.South()) &^ bb
	}
}

// File returns the mask of the given file (0-7).
func (t *Tables) File(file int) Bitboard {
	return t.files[file]
}

// Rank returns the mask of the given rank (0-7).
func (t *Tables) Rank(rank int) Bitboard {
	return t.ranks[rank]
}

// Diagonal returns the a1-h8 direction diagonal through sq.
func (t *Tables) Diagonal(sq Square) Bitboard {
	sq.mustValid()
	return t.diagonals[sq.File()-sq.Rank()+7]
}

// AntiDiagonal returns the h1-a8 direction diagonal through sq.
func (t *Tables) AntiDiagonal(sq Square) Bitboard {
	sq.mustValid()
	return t.antiDiagonals[sq.File()+sq.Rank()]
}

// KnightAttacks returns the knight jump set for a square.
func (t *Tables) KnightAttacks(sq Square) Bitboard {
	return t.knightAttacks[sq]
}

// KingAttacks returns the king step set for a square.
func (t *Tables) KingAttacks(sq Square) Bitboard {
	return t.kingAttacks[sq]
}

// PawnAttacks returns every square attacked by the given pawns of color c.
// Edge files are masked off before the diagonal shift so nothing wraps.
func PawnAttacks(c Color, pawns Bitboard) Bitboard {
	if c == White {
		return (pawns &^ FileA).Shift(7) | (pawns &^ FileH).Shift(9)
	}
	return (pawns &^ FileA).Shift(-9) | (pawns &^ FileH).Shift(-7)
}

// slidingMask returns the squares a ray stepping fileDir files sideways may
// legally land on: a step east can never land on file a, a step west never
// on file h.
func slidingMask(fileDir int) Bitboard {
	switch fileDir {
	case 1:
		return NotFileA
	case -1:
		return NotFileH
	}
	return Universe
}

// slide marches every bit in from along one direction until it leaves the
// board or hits an occupied square (which is included).
func slide(from, occupied Bitboard, rankDir, fileDir int) Bitboard {
	step := rankDir*8 + fileDir
	mask := slidingMask(fileDir)

	var attacks Bitboard
	for ray := from.Shift(step) & mask; ray != 0; ray = (ray &^ occupied).Shift(step) & mask {
		attacks |= ray
	}
	return attacks
}

// BishopAttacks returns the diagonal attack set of every piece in from.
func BishopAttacks(from, occupied Bitboard) Bitboard {
	return slide(from, occupied, 1, 1) |
		slide(from, occupied, 1, -1) |
		slide(from, occupied, -1, 1) |
		slide(from, occupied, -1, -1)
}

// RookAttacks returns the orthogonal attack set of every piece in from.
func RookAttacks(from, occupied Bitboard) Bitboard {
	return slide(from, occupied, 0, 1) |
		slide(from, occupied, 0, -1) |
		slide(from, occupied, 1, 0) |
		slide(from, occupied, -1, 0)
}

// QueenAttacks returns the combined attack set of every piece in from.
func QueenAttacks(from, occupied Bitboard) Bitboard {
	return BishopAttacks(from, occupied) | RookAttacks(from, occupied)
}
