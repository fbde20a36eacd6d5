package engine

import (
	"cmp"

	"golang.org/x/exp/slices"

	"github.com/hailam/bitchess/internal/board"
)

// orderKey ranks a move for search ordering. Captures come first by
// victim/aggressor ratio; ties fall through to moving piece, kind,
// destination and origin, so no two distinct moves share a key.
func orderKey(m board.Move) float64 {
	var ratio float64
	if m.IsCapture() {
		ratio = float64(1+m.Captured()) / float64(1+m.Piece())
	}
	key := 6*ratio + float64(m.Piece())
	key = 16*key + float64(m.Kind())
	key = 64*key + float64(m.To())
	key = 64*key + float64(m.From())
	return key
}

// orderMoves sorts moves in place, highest key first. The sort is stable so
// the result never depends on anything but the moves themselves.
func orderMoves(moves []board.Move) []board.Move {
	slices.SortStableFunc(moves, func(a, b board.Move) int {
		return cmp.Compare(orderKey(b), orderKey(a))
	})
	return moves
}
