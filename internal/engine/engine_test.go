package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailam/bitchess/internal/board"
)

var tables = board.NewTables()

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	os.Exit(m.Run())
}

func newTestEngine(t *testing.T, depth int) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Depth = depth
	eng, err := NewEngine(cfg)
	require.NoError(t, err)
	eng.SetLogger(zerolog.Nop())
	return eng
}

func parse(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(tables, fen)
	require.NoError(t, err)
	return pos
}

func TestSearchFindsMateInOne(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		move  string
		score int
	}{
		{"white back rank", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8", MateScore},
		{"black back rank", "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", "a8a1", -MateScore},
	}
	for _, tc := range tests {
		for depth := 1; depth <= 3; depth++ {
			pos := parse(t, tc.fen)
			res, err := newTestEngine(t, depth).Search(context.Background(), pos)
			require.NoError(t, err)
			assert.Equal(t, tc.move, res.Move.UCI(), "%s depth %d", tc.name, depth)
			assert.Equal(t, tc.score, res.Score, "%s depth %d", tc.name, depth)
			assert.Equal(t, tc.fen, pos.FEN(), "position not restored")
		}
	}
}

func TestSearchPrefersImmediateMate(t *testing.T) {
	// Qb7 and Rh8 both mate at once; Kc7 and others mate a move later.
	const fen = "k7/8/1K6/8/8/8/8/1Q5R w - - 0 1"
	for depth := 1; depth <= 4; depth++ {
		pos := parse(t, fen)
		res, err := newTestEngine(t, depth).Search(context.Background(), pos)
		require.NoError(t, err)
		assert.Equal(t, MateScore, res.Score, "depth %d", depth)
		assert.Contains(t, []string{"b1b7", "h1h8"}, res.Move.UCI(), "depth %d", depth)

		require.True(t, pos.MakeMove(res.Move))
		assert.Equal(t, board.Checkmate, pos.Status(), "depth %d: %s", depth, res.Move)
	}
}

func TestSearchWithoutQuiescenceFindsMate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Depth = 1
	cfg.Quiescence = false
	eng, err := NewEngine(cfg)
	require.NoError(t, err)
	eng.SetLogger(zerolog.Nop())

	res, err := eng.Search(context.Background(), parse(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1"))
	require.NoError(t, err)
	assert.Equal(t, "a1a8", res.Move.UCI())
	assert.Equal(t, MateScore, res.Score)
}

func TestSearchStartingPosition(t *testing.T) {
	pos := board.NewPosition(tables)
	hash := pos.Hash()
	eng := newTestEngine(t, 3)

	move := eng.BestMove(pos)
	require.NotEqual(t, board.NoMove, move)
	assert.Contains(t, pos.LegalMoves(), move)
	assert.Equal(t, hash, pos.Hash())
	assert.Equal(t, 0, pos.MoveCount())
	require.NoError(t, pos.CheckInvariants())

	// Same position, same answer.
	assert.Equal(t, move, eng.BestMove(pos))
}

func TestSearchTakesHangingQueen(t *testing.T) {
	pos := parse(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	move := newTestEngine(t, 2).BestMove(pos)
	assert.Equal(t, "d2d5", move.UCI())
}

func TestSearchWithoutLegalMoves(t *testing.T) {
	eng := newTestEngine(t, 3)

	mated := parse(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	res, err := eng.Search(context.Background(), mated)
	require.NoError(t, err)
	assert.Equal(t, board.NoMove, res.Move)
	assert.Equal(t, MateScore, res.Score)
	assert.Equal(t, board.Checkmate, mated.Status())

	stalemated := parse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	res, err = eng.Search(context.Background(), stalemated)
	require.NoError(t, err)
	assert.Equal(t, board.NoMove, res.Move)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, board.Stalemate, stalemated.Status())
}

// countdownCtx reports cancellation after n calls to Err.
type countdownCtx struct {
	context.Context
	n int
}

func (c *countdownCtx) Err() error {
	c.n--
	if c.n < 0 {
		return context.Canceled
	}
	return nil
}

func TestSearchCancellationRestoresPosition(t *testing.T) {
	eng := newTestEngine(t, 4)

	for _, n := range []int{0, 1, 5, 50, 500} {
		pos := parse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
		fen, hash := pos.FEN(), pos.Hash()

		ctx := &countdownCtx{Context: context.Background(), n: n}
		res, err := eng.Search(ctx, pos)
		require.ErrorIs(t, err, context.Canceled, "n=%d", n)
		assert.Equal(t, fen, pos.FEN())
		assert.Equal(t, hash, pos.Hash())
		assert.Equal(t, 0, pos.MoveCount())
		require.NoError(t, pos.CheckInvariants())
		if res.Move != board.NoMove {
			assert.Contains(t, pos.LegalMoves(), res.Move)
		}
	}
}

func TestSearchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestEngine(t, 4).Search(ctx, board.NewPosition(tables))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, board.NoMove, res.Move)
}

func TestEvaluateSymmetry(t *testing.T) {
	eval := NewEvaluator(false)

	assert.Equal(t, 0, eval.Evaluate(board.NewPosition(tables)))

	white := parse(t, "4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	black := parse(t, "4k3/8/8/4p3/8/8/8/4K3 b - - 0 1")
	assert.Equal(t, 120, eval.Evaluate(white))
	assert.Equal(t, -120, eval.Evaluate(black))
}

func TestMaterial(t *testing.T) {
	pos := parse(t, "4k3/8/8/8/8/8/8/2B1KB2 w - - 0 1")
	assert.Equal(t, 2*BishopValue+bishopPairBonus, Material(pos, board.White))
	assert.Equal(t, 0, Material(pos, board.Black))

	pos = parse(t, "3qk3/8/8/8/8/8/8/2B1K3 w - - 0 1")
	b := NewEvaluator(false).Breakdown(pos)
	assert.Equal(t, BishopValue-QueenValue, b.Material)
}

func TestMobilityIsSeparateByDefault(t *testing.T) {
	pos := parse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	plain := NewEvaluator(false).Breakdown(pos)
	assert.Equal(t, plain.Material+plain.Location, plain.Score)
	assert.NotZero(t, plain.Mobility)

	withMobility := NewEvaluator(true)
	assert.Equal(t, plain.Score+plain.Mobility, withMobility.Evaluate(pos))
	assert.Equal(t, plain.Score+plain.Mobility, withMobility.Breakdown(pos).Score)
}

func TestMobilityStartingPosition(t *testing.T) {
	pos := board.NewPosition(tables)
	// 16 pawn pushes and 4 knight jumps, everything else is blocked.
	assert.Equal(t, 20, Mobility(pos, board.White))
	assert.Equal(t, 20, Mobility(pos, board.Black))
}

func TestOrderMoves(t *testing.T) {
	pxq := board.NewMove(board.E4, board.D5, board.Capture, board.Pawn, board.Queen)
	qxp := board.NewMove(board.D1, board.D7, board.Capture, board.Queen, board.Pawn)
	quietQ := board.NewMove(board.D1, board.D3, board.Quiet, board.Queen, board.NoPieceType)
	quietN := board.NewMove(board.G1, board.F3, board.Quiet, board.Knight, board.NoPieceType)

	got := orderMoves([]board.Move{quietN, qxp, quietQ, pxq})
	assert.Equal(t, []board.Move{pxq, qxp, quietQ, quietN}, got)
}

func TestOrderMovesIsDeterministic(t *testing.T) {
	pos := parse(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	a := orderMoves(pos.GenerateMoves(false))
	b := pos.GenerateMoves(false)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	assert.Equal(t, a, orderMoves(b))
}

func TestEnginePerft(t *testing.T) {
	eng := newTestEngine(t, 1)
	assert.Equal(t, uint64(400), eng.Perft(board.NewPosition(tables), 2))
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Depth)
	assert.True(t, cfg.Quiescence)
	assert.False(t, cfg.UseMobility)

	cfg.Depth = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.LogLevel = "chatty"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: 2\nuse_mobility: true\nlog_level: debug\n"), 0o644))

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Depth)
	assert.True(t, cfg.UseMobility)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 32, cfg.MaxQuiescencePly)

	t.Setenv("BITCHESS_DEPTH", "6")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Depth)

	t.Setenv("BITCHESS_DEPTH", "0")
	_, err = LoadConfig("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestScoreToString(t *testing.T) {
	assert.Equal(t, "1.25", ScoreToString(125))
	assert.Equal(t, "-0.05", ScoreToString(-5))
	assert.Equal(t, "White mates", ScoreToString(MateScore))
	assert.Equal(t, "Black mates", ScoreToString(-MateScore))
}
