package board

// MakeMove applies m to the position. If m would leave the mover's king
// attacked, every change is reverted and MakeMove returns false; the
// position is then exactly as it was before the call. This is the only
// legality check in the package.
//
// m must come from move generation on the current position. A move whose
// origin, capture or castling squares do not match the board is rejected
// without touching the position.
func (p *Position) MakeMove(m Move) bool {
	if !p.applicable(m) {
		return false
	}

	us, them := p.side, p.side.Other()
	from, to := m.From(), m.To()

	p.hashHistory = append(p.hashHistory, p.hash)

	if m.IsCapture() {
		p.removePiece(them, m.Captured(), m.CaptureSquare())
	}
	if m.IsCastle() {
		cp := castlePathFor(us, m.Kind())
		p.movePiece(us, Rook, cp.rookFrom, cp.rookTo)
	}
	p.movePiece(us, m.Piece(), from, to)
	if m.IsPromotion() {
		p.removePiece(us, Pawn, to)
		p.putPiece(us, m.Promotion(), to)
	}

	if p.IsAttacked(them, p.KingSquare(us)) {
		p.revertBoard(us, m)
		p.hashHistory = p.hashHistory[:len(p.hashHistory)-1]
		return false
	}

	p.moves = append(p.moves, m)
	p.undos = append(p.undos, undoState{
		enPassant:     p.enPassant,
		castling:      p.castling,
		halfMoveClock: p.halfMoveClock,
	})

	keys := &p.tables.keys
	if p.enPassant != NoSquare {
		p.hash ^= keys.enPassant[p.enPassant.File()]
		p.enPassant = NoSquare
	}
	if m.Kind() == DoublePawnPush {
		p.enPassant = (from + to) / 2
		p.hash ^= keys.enPassant[p.enPassant.File()]
	}

	switch m.Piece() {
	case King:
		p.revokeCastling(castleRight(us, true) | castleRight(us, false))
	case Rook:
		p.revokeCastling(homeRight(us, from))
	}
	if m.Captured() == Rook {
		p.revokeCastling(homeRight(them, m.CaptureSquare()))
	}

	if m.Piece() == Pawn || m.IsCapture() {
		p.halfMoveClock = 0
	} else {
		p.halfMoveClock++
	}
	if us == Black {
		p.fullMoveNumber++
	}

	p.side = them
	p.hash ^= keys.side
	return true
}

// UnmakeMove retracts the last move made and returns it. With nothing to
// undo it returns NoMove and leaves the position untouched.
func (p *Position) UnmakeMove() Move {
	n := len(p.moves)
	if n == 0 {
		return NoMove
	}
	m := p.moves[n-1]
	u := p.undos[n-1]
	p.moves = p.moves[:n-1]
	p.undos = p.undos[:n-1]

	keys := &p.tables.keys
	p.side = p.side.Other()
	p.hash ^= keys.side
	if p.side == Black {
		p.fullMoveNumber--
	}

	p.revertBoard(p.side, m)

	p.halfMoveClock = u.halfMoveClock
	p.hash ^= p.tables.castlingHash(p.castling ^ u.castling)
	p.castling = u.castling
	if p.enPassant != NoSquare {
		p.hash ^= keys.enPassant[p.enPassant.File()]
	}
	p.enPassant = u.enPassant
	if p.enPassant != NoSquare {
		p.hash ^= keys.enPassant[p.enPassant.File()]
	}

	p.hashHistory = p.hashHistory[:len(p.hashHistory)-1]
	return m
}

// revertBoard undoes the board changes of m made by color us, in reverse
// order of application.
func (p *Position) revertBoard(us Color, m Move) {
	from, to := m.From(), m.To()
	if m.IsPromotion() {
		p.removePiece(us, m.Promotion(), to)
		p.putPiece(us, Pawn, to)
	}
	p.movePiece(us, m.Piece(), to, from)
	if m.IsCastle() {
		cp := castlePathFor(us, m.Kind())
		p.movePiece(us, Rook, cp.rookTo, cp.rookFrom)
	}
	if m.IsCapture() {
		p.putPiece(us.Other(), m.Captured(), m.CaptureSquare())
	}
}

// revokeCastling clears each right in mask that is still held, toggling
// exactly one hash key per right cleared.
func (p *Position) revokeCastling(mask CastlingRights) {
	for i, right := range [4]CastlingRights{WhiteKingSideCastle, WhiteQueenSideCastle, BlackKingSideCastle, BlackQueenSideCastle} {
		if mask&right != 0 && p.castling&right != 0 {
			p.castling &^= right
			p.hash ^= p.tables.keys.castling[i]
		}
	}
}

// homeRight returns the castling right guarded by a rook of color c standing
// on sq, or NoCastling if sq is not one of c's rook homes.
func homeRight(c Color, sq Square) CastlingRights {
	own := castleRight(c, true) | castleRight(c, false)
	for i, home := range rookHome {
		right := CastlingRights(1) << uint(i)
		if home == sq && right&own != 0 {
			return right
		}
	}
	return NoCastling
}

// applicable reports whether m matches the board: the mover stands on the
// origin, the victim on the capture square, and quiet destinations are
// empty.
func (p *Position) applicable(m Move) bool {
	if m == NoMove {
		return false
	}
	us := p.side
	from, to := m.From(), m.To()
	if m.Piece() >= NoPieceType || p.squares[from] != NewPiece(m.Piece(), us) {
		return false
	}

	if m.IsCapture() {
		if m.Captured() >= King || p.squares[m.CaptureSquare()] != NewPiece(m.Captured(), us.Other()) {
			return false
		}
		if m.IsEnPassant() && (to != p.enPassant || p.squares[to] != NoPiece) {
			return false
		}
	} else if p.squares[to] != NoPiece {
		return false
	}

	if m.IsCastle() {
		cp := castlePathFor(us, m.Kind())
		if from != cp.kingFrom || to != cp.kingTo || p.castling&cp.right == 0 ||
			p.Occupied()&cp.empty != 0 || p.squares[cp.rookFrom] != NewPiece(Rook, us) {
			return false
		}
		if !p.castlePathSafe(cp) {
			return false
		}
	}
	return true
}
