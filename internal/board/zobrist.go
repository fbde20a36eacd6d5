package board

import "lukechampine.com/frand"

const bignum = 1<<63 - 2

// zobristKeys holds one random key per hashable feature. The hash of a
// position is the XOR of the keys of every feature currently true.
type zobristKeys struct {
	piece     [2][6][64]uint64 // [Color][PieceType][Square]
	castling  [4]uint64        // one per right, see castlingIndex
	enPassant [8]uint64        // one per file
	side      uint64           // XOR when black to move
}

func newZobristKeys(rng *frand.RNG) zobristKeys {
	var k zobristKeys
	next := func() uint64 { return rng.Uint64n(bignum) + 1 }

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				k.piece[c][pt][sq] = next()
			}
		}
	}
	for i := range k.castling {
		k.castling[i] = next()
	}
	for file := range k.enPassant {
		k.enPassant[file] = next()
	}
	k.side = next()
	return k
}

// PieceKey returns the key for a piece of color c and type pt on sq.
func (t *Tables) PieceKey(c Color, pt PieceType, sq Square) uint64 {
	return t.keys.piece[c][pt][sq]
}

// CastlingKey returns the key for a single castling right.
func (t *Tables) CastlingKey(right CastlingRights) uint64 {
	return t.keys.castling[castlingIndex(right)]
}

// EnPassantKey returns the key for an en passant target on the given file.
func (t *Tables) EnPassantKey(file int) uint64 {
	return t.keys.enPassant[file]
}

// SideKey returns the key toggled when black is to move.
func (t *Tables) SideKey() uint64 {
	return t.keys.side
}

// castlingHash returns the combined key of every right in cr.
func (t *Tables) castlingHash(cr CastlingRights) uint64 {
	var h uint64
	for i := 0; i < 4; i++ {
		if cr&(1<<uint(i)) != 0 {
			h ^= t.keys.castling[i]
		}
	}
	return h
}

// ComputeHash computes the position hash from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64
	keys := &p.tables.keys

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.pieces[pt] & p.colors[c]
			for bb != 0 {
				hash ^= keys.piece[c][pt][bb.PopLSB()]
			}
		}
	}

	if p.side == Black {
		hash ^= keys.side
	}

	hash ^= p.tables.castlingHash(p.castling)

	if p.enPassant != NoSquare {
		hash ^= keys.enPassant[p.enPassant.File()]
	}

	return hash
}
