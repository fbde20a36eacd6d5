package board

import "github.com/samber/lo"

// castlePath describes one castling move: the squares that must be empty and
// the squares the king stands on, crosses or lands on.
type castlePath struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	empty    Bitboard
	kingPath [3]Square
	kind     MoveKind
}

var castlePaths = [2][2]castlePath{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), [3]Square{E1, F1, G1}, KingCastle},
		{WhiteQueenSideCastle, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), [3]Square{E1, D1, C1}, QueenCastle},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), [3]Square{E8, F8, G8}, KingCastle},
		{BlackQueenSideCastle, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), [3]Square{E8, D8, C8}, QueenCastle},
	},
}

// castlePathFor returns the castling description matching a castling move.
func castlePathFor(c Color, kind MoveKind) *castlePath {
	if kind == KingCastle {
		return &castlePaths[c][0]
	}
	return &castlePaths[c][1]
}

// GenerateMoves returns the pseudo-legal moves of the side to move. Castling
// is only offered when the king's start, transit and landing squares are
// safe, so a move from this list is legal exactly when MakeMove accepts it.
func (p *Position) GenerateMoves(onlyCaptures bool) []Move {
	return p.generate(onlyCaptures)
}

// Moves returns the moves of the side to move. With pseudoLegal set the
// moves may leave the mover's king attacked; otherwise only legal moves are
// returned. Castling through an attacked square is never listed.
func (p *Position) Moves(pseudoLegal, onlyCaptures bool) []Move {
	if pseudoLegal {
		return p.generate(onlyCaptures)
	}
	return p.filterLegal(p.generate(onlyCaptures))
}

// LegalMoves returns every legal move of the side to move.
func (p *Position) LegalMoves() []Move {
	return p.Moves(false, false)
}

// HasLegalMoves returns true if the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	for _, m := range p.generate(false) {
		if p.MakeMove(m) {
			p.UnmakeMove()
			return true
		}
	}
	return false
}

// filterLegal keeps the moves that do not leave the mover's king attacked,
// by applying and reverting each one.
func (p *Position) filterLegal(moves []Move) []Move {
	return lo.Filter(moves, func(m Move, _ int) bool {
		if !p.MakeMove(m) {
			return false
		}
		p.UnmakeMove()
		return true
	})
}

func (p *Position) generate(onlyCaptures bool) []Move {
	moves := make([]Move, 0, 64)
	us := p.side
	own := p.colors[us]
	occupied := p.Occupied()

	targets := ^own
	if onlyCaptures {
		targets = p.colors[us.Other()]
	}

	moves = p.generatePawnMoves(moves, onlyCaptures)

	knights := p.PiecesOf(us, Knight)
	for knights != 0 {
		from := knights.PopLSB()
		moves = p.addMoves(moves, Knight, from, p.tables.KnightAttacks(from)&targets)
	}

	bishops := p.PiecesOf(us, Bishop)
	for bishops != 0 {
		from := bishops.PopLSB()
		moves = p.addMoves(moves, Bishop, from, BishopAttacks(SquareBB(from), occupied)&targets)
	}

	rooks := p.PiecesOf(us, Rook)
	for rooks != 0 {
		from := rooks.PopLSB()
		moves = p.addMoves(moves, Rook, from, RookAttacks(SquareBB(from), occupied)&targets)
	}

	queens := p.PiecesOf(us, Queen)
	for queens != 0 {
		from := queens.PopLSB()
		moves = p.addMoves(moves, Queen, from, QueenAttacks(SquareBB(from), occupied)&targets)
	}

	kings := p.PiecesOf(us, King)
	for kings != 0 {
		from := kings.PopLSB()
		moves = p.addMoves(moves, King, from, p.tables.KingAttacks(from)&targets)
	}

	if !onlyCaptures {
		moves = p.generateCastlingMoves(moves)
	}
	return moves
}

// addMoves appends a quiet move or a capture for every destination in dests.
func (p *Position) addMoves(moves []Move, pt PieceType, from Square, dests Bitboard) []Move {
	for dests != 0 {
		to := dests.PopLSB()
		if victim := p.squares[to]; victim != NoPiece {
			moves = append(moves, NewMove(from, to, Capture, pt, victim.Type()))
		} else {
			moves = append(moves, NewMove(from, to, Quiet, pt, NoPieceType))
		}
	}
	return moves
}

func (p *Position) generatePawnMoves(moves []Move, onlyCaptures bool) []Move {
	us := p.side
	pawns := p.PiecesOf(us, Pawn)
	enemies := p.colors[us.Other()]
	empty := ^p.Occupied()

	var push1, push2, promotionRank Bitboard
	var pushDir int
	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		promotionRank = Rank1
		pushDir = -8
	}

	if !onlyCaptures {
		quiet := push1 &^ promotionRank
		for quiet != 0 {
			to := quiet.PopLSB()
			moves = append(moves, NewMove(Square(int(to)-pushDir), to, Quiet, Pawn, NoPieceType))
		}
		for push2 != 0 {
			to := push2.PopLSB()
			moves = append(moves, NewMove(Square(int(to)-2*pushDir), to, DoublePawnPush, Pawn, NoPieceType))
		}
		promo := push1 & promotionRank
		for promo != 0 {
			to := promo.PopLSB()
			moves = addPromotions(moves, Square(int(to)-pushDir), to, NoPieceType)
		}
	}

	for from := pawns; from != 0; {
		sq := from.PopLSB()
		attacks := PawnAttacks(us, SquareBB(sq))
		captures := attacks & enemies
		for captures != 0 {
			to := captures.PopLSB()
			victim := p.squares[to].Type()
			if SquareBB(to)&promotionRank != 0 {
				moves = addPromotions(moves, sq, to, victim)
			} else {
				moves = append(moves, NewMove(sq, to, Capture, Pawn, victim))
			}
		}
		if p.enPassant != NoSquare && attacks.IsSet(p.enPassant) {
			moves = append(moves, NewMove(sq, p.enPassant, EnPassantCapture, Pawn, Pawn))
		}
	}
	return moves
}

// addPromotions adds all four promotion moves, capturing when captured is a
// piece type.
func addPromotions(moves []Move, from, to Square, captured PieceType) []Move {
	kind := KnightPromotion
	if captured != NoPieceType {
		kind = KnightPromotionCapture
	}
	for promo := Queen; promo >= Knight; promo-- {
		moves = append(moves, NewMove(from, to, kind+MoveKind(promo-Knight), Pawn, captured))
	}
	return moves
}

func (p *Position) generateCastlingMoves(moves []Move) []Move {
	us := p.side
	occupied := p.Occupied()

	for i := range castlePaths[us] {
		cp := &castlePaths[us][i]
		if p.castling&cp.right == 0 || occupied&cp.empty != 0 {
			continue
		}
		if p.squares[cp.kingFrom] != NewPiece(King, us) || p.squares[cp.rookFrom] != NewPiece(Rook, us) {
			continue
		}
		if !p.castlePathSafe(cp) {
			continue
		}
		moves = append(moves, NewMove(cp.kingFrom, cp.kingTo, cp.kind, King, NoPieceType))
	}
	return moves
}

// castlePathSafe reports whether the king's start, transit and landing
// squares are all free of enemy attacks.
func (p *Position) castlePathSafe(cp *castlePath) bool {
	them := p.side.Other()
	return !lo.SomeBy(cp.kingPath[:], func(sq Square) bool { return p.IsAttacked(them, sq) })
}

// IsAttacked returns true if any piece of color by attacks sq.
func (p *Position) IsAttacked(by Color, sq Square) bool {
	sq.mustValid()
	bb := SquareBB(sq)
	occupied := p.Occupied()

	// A pawn of color by attacks sq if a pawn of the other color on sq
	// would attack it back.
	if PawnAttacks(by.Other(), bb)&p.PiecesOf(by, Pawn) != 0 {
		return true
	}
	if p.tables.KnightAttacks(sq)&p.PiecesOf(by, Knight) != 0 {
		return true
	}
	if p.tables.KingAttacks(sq)&p.PiecesOf(by, King) != 0 {
		return true
	}
	queens := p.PiecesOf(by, Queen)
	if BishopAttacks(bb, occupied)&(p.PiecesOf(by, Bishop)|queens) != 0 {
		return true
	}
	return RookAttacks(bb, occupied)&(p.PiecesOf(by, Rook)|queens) != 0
}

// InCheck returns true if the side to move's king is attacked.
func (p *Position) InCheck() bool {
	ksq := p.KingSquare(p.side)
	return ksq != NoSquare && p.IsAttacked(p.side.Other(), ksq)
}
