package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Generated moves are validated by MakeMove, the same gate the search uses.
func Perft(pos *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	var nodes uint64
	for _, m := range pos.GenerateMoves(false) {
		if !pos.MakeMove(m) {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += Perft(pos, depth-1)
		}
		pos.UnmakeMove()
	}
	return nodes
}

// Divide returns the perft count below each legal root move, keyed by the
// move's coordinate notation.
func Divide(pos *Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range pos.GenerateMoves(false) {
		if !pos.MakeMove(m) {
			continue
		}
		result[m.UCI()] = Perft(pos, depth-1)
		pos.UnmakeMove()
	}
	return result
}
