package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is returned when a FEN string cannot be parsed.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a FEN string into a Position backed by t. The hash is
// computed from scratch once here; from then on it is only updated
// incrementally.
func ParseFEN(t *Tables, fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	pos := newEmptyPosition(t)

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		pos.side = White
	case "b":
		pos.side = Black
	default:
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, parts[1])
	}

	if err := parseCastlingRights(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square: %w", ErrInvalidFEN, err)
		}
		if err := pos.checkEnPassant(sq); err != nil {
			return nil, fmt.Errorf("%w: en passant square %s: %w", ErrInvalidFEN, sq, err)
		}
		pos.enPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fmt.Errorf("%w: half-move clock %q", ErrInvalidFEN, parts[4])
		}
		pos.halfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("%w: full-move number %q", ErrInvalidFEN, parts[5])
		}
		pos.fullMoveNumber = fmn
	}

	if err := pos.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFEN, err)
	}

	pos.hash = pos.ComputeHash()
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("%w: piece character %q", ErrInvalidFEN, c)
			}
			pos.putPiece(piece.Color(), piece.Type(), NewSquare(file, rank))
			file++
		}

		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(pos *Position, castling string) error {
	if castling == "-" {
		pos.castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			pos.castling |= WhiteKingSideCastle
		case 'Q':
			pos.castling |= WhiteQueenSideCastle
		case 'k':
			pos.castling |= BlackKingSideCastle
		case 'q':
			pos.castling |= BlackQueenSideCastle
		default:
			return fmt.Errorf("%w: castling character %q", ErrInvalidFEN, c)
		}
	}

	return nil
}

// checkEnPassant accepts sq only if the opponent's last move can have been a
// double push over it: sq is empty, on the rank behind the pushed pawn, and
// that pawn is in place.
func (p *Position) checkEnPassant(sq Square) error {
	rank, pawn := 5, sq-8
	if p.side == Black {
		rank, pawn = 2, sq+8
	}
	if sq.Rank() != rank {
		return fmt.Errorf("not on rank %d", rank+1)
	}
	if p.squares[sq] != NoPiece || p.squares[pawn] != NewPiece(Pawn, p.side.Other()) {
		return errors.New("no pawn has just passed it")
	}
	return nil
}

// validate rejects positions the move generator cannot work with.
func (p *Position) validate() error {
	for c := White; c <= Black; c++ {
		if n := p.PiecesOf(c, King).PopCount(); n != 1 {
			return fmt.Errorf("%s must have exactly one king, has %d", c, n)
		}
	}
	if p.pieces[Pawn]&(Rank1|Rank8) != 0 {
		return errors.New("pawns cannot be on rank 1 or 8")
	}
	if p.IsAttacked(p.side, p.KingSquare(p.side.Other())) {
		return errors.New("side not to move is in check")
	}
	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.squares[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.enPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullMoveNumber))

	return sb.String()
}
