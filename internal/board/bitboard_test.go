package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/matryer/is"
)

var testTables = NewTablesFromSeed([32]byte{0xc4, 0x55})

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(testTables, fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestBitboardBasics(t *testing.T) {
	is := is.New(t)

	b := Empty.Set(E4).Set(A1).Set(H8)
	is.Equal(b.PopCount(), 3)
	is.True(b.IsSet(E4))
	is.True(!b.IsSet(E5))
	is.Equal(b.LSB(), A1)
	is.Equal(b.Clear(E4).PopCount(), 2)
	is.Equal(b.Toggle(E4), b.Clear(E4))
	is.Equal(Empty.LSB(), NoSquare)

	var seen []Square
	for bb := b; bb != 0; {
		seen = append(seen, bb.PopLSB())
	}
	is.Equal(seen, []Square{A1, E4, H8})
	is.Equal(b.PopCount(), 3) // PopLSB drained a copy
	is.Equal(b.Squares(), []Square{A1, E4, H8})
}

func TestBitboardShift(t *testing.T) {
	is := is.New(t)

	is.Equal(SquareBB(E4).Shift(8), SquareBB(E5))
	is.Equal(SquareBB(E4).Shift(-8), SquareBB(E3))
	is.Equal(SquareBB(H8).Shift(1), Empty)
	is.Equal(SquareBB(A1).Shift(-1), Empty)
	is.Equal(Universe.Shift(64), Empty)
	is.Equal(Universe.Shift(-64), Empty)

	// Unmasked east shift wraps from h1 into a2.
	is.Equal(SquareBB(H1).Shift(1), SquareBB(A2))
	is.Equal(SquareBB(H1).East(), Empty)
	is.Equal(SquareBB(A2).West(), Empty)
}

func TestTablesLines(t *testing.T) {
	is := is.New(t)

	is.Equal(testTables.File(0), FileA)
	is.Equal(testTables.File(7), FileH)
	is.Equal(testTables.Rank(0), Rank1)
	is.Equal(testTables.Rank(7), Rank8)
	is.Equal(testTables.Diagonal(C3).PopCount(), 8)
	is.True(testTables.Diagonal(C3).IsSet(H8))
	is.Equal(testTables.AntiDiagonal(A8).PopCount(), 8)
	is.True(testTables.AntiDiagonal(A8).IsSet(H1))
	is.Equal(testTables.Diagonal(H1), SquareBB(H1))
	is.Equal(DarkSquares&LightSquares, Empty)
	is.True(DarkSquares.IsSet(A1))
	is.True(LightSquares.IsSet(H1))
}

func TestJumpTables(t *testing.T) {
	is := is.New(t)

	is.Equal(testTables.KnightAttacks(A1).PopCount(), 2)
	is.Equal(testTables.KnightAttacks(E4).PopCount(), 8)
	is.Equal(testTables.KnightAttacks(H8).PopCount(), 2)
	is.Equal(testTables.KnightAttacks(G1), SquareBB(E2)|SquareBB(F3)|SquareBB(H3))

	is.Equal(testTables.KingAttacks(A1).PopCount(), 3)
	is.Equal(testTables.KingAttacks(E4).PopCount(), 8)
	is.Equal(testTables.KingAttacks(H4).PopCount(), 5)
	is.True(!testTables.KingAttacks(H4).IsSet(A5))
}

func TestPawnAttacksDoNotWrap(t *testing.T) {
	is := is.New(t)

	is.Equal(PawnAttacks(White, SquareBB(A2)), SquareBB(B3))
	is.Equal(PawnAttacks(White, SquareBB(H2)), SquareBB(G3))
	is.Equal(PawnAttacks(Black, SquareBB(A7)), SquareBB(B6))
	is.Equal(PawnAttacks(Black, SquareBB(H7)), SquareBB(G6))
	is.Equal(PawnAttacks(White, SquareBB(E4)), SquareBB(D5)|SquareBB(F5))
}

func TestSlidingAttacks(t *testing.T) {
	is := is.New(t)

	is.Equal(RookAttacks(SquareBB(A1), Empty).PopCount(), 14)
	is.Equal(BishopAttacks(SquareBB(D4), Empty).PopCount(), 13)
	is.Equal(QueenAttacks(SquareBB(D4), Empty).PopCount(), 27)

	// Blockers are included, squares behind them are not.
	occ := SquareBB(D6) | SquareBB(F4)
	attacks := RookAttacks(SquareBB(D4), occ)
	is.True(attacks.IsSet(D6))
	is.True(!attacks.IsSet(D7))
	is.True(attacks.IsSet(F4))
	is.True(!attacks.IsSet(G4))
	is.True(attacks.IsSet(A4))
}

// The ray-marched attacks must agree with the reference generator for
// every square under a spread of blocker sets.
func TestSlidingAttacksMatchReference(t *testing.T) {
	is := is.New(t)

	blockers := []Bitboard{
		Empty,
		Rank2 | Rank7,
		0x0000001818000000,
		0x8142241818244281,
		0x00FF00000000FF00 | FileD,
		0x5500AA0055AA0055,
	}
	for _, occ := range blockers {
		for sq := A1; sq <= H8; sq++ {
			o := occ &^ SquareBB(sq)
			is.Equal(uint64(RookAttacks(SquareBB(sq), o)), dragontoothmg.CalculateRookMoveBitboard(uint8(sq), uint64(o)))
			is.Equal(uint64(BishopAttacks(SquareBB(sq), o)), dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), uint64(o)))
		}
	}
}

func TestNewSquarePanicsOutOfRange(t *testing.T) {
	for _, fr := range [][2]int{{8, 0}, {0, 8}, {-1, 3}, {3, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("NewSquare(%d, %d) did not panic", fr[0], fr[1])
				}
			}()
			NewSquare(fr[0], fr[1])
		}()
	}
}

func TestSeededTablesAreReproducible(t *testing.T) {
	is := is.New(t)

	a := NewTablesFromSeed([32]byte{7})
	b := NewTablesFromSeed([32]byte{7})
	c := NewTablesFromSeed([32]byte{8})
	is.Equal(a.PieceKey(White, Queen, D1), b.PieceKey(White, Queen, D1))
	is.Equal(a.SideKey(), b.SideKey())
	is.True(a.SideKey() != c.SideKey())
	is.True(a.CastlingKey(BlackQueenSideCastle) != 0)
	is.True(a.EnPassantKey(4) != 0)
}
