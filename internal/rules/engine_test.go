package rules

import (
	"strings"
	"testing"

	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	startFEN     = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	promotionFEN = "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"
)

func move(from, to string) model.MoveRequest {
	return model.MoveRequest{From: model.MustPosition(from), To: model.MustPosition(to)}
}

func TestNewChessEngine_Start(t *testing.T) {
	e, err := NewChessEngine("")
	require.NoError(t, err)
	assert.Equal(t, startFEN, e.FEN())
	assert.Equal(t, "*", e.Outcome())
}

func TestNewChessEngine_InvalidFEN(t *testing.T) {
	_, err := NewChessEngine("not a fen")
	require.Error(t, err)
	assert.Equal(t, ErrInvalidFEN, errors.Cause(err))
}

func TestApplyMove_Legal(t *testing.T) {
	e, err := NewChessEngine("")
	require.NoError(t, err)

	fen, ok := e.ApplyMove(move("e2", "e4"))
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fen, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b "), fen)
	assert.Equal(t, fen, e.FEN())
	assert.NotEmpty(t, e.PGN())
}

func TestApplyMove_IllegalLeavesPosition(t *testing.T) {
	e, err := NewChessEngine("")
	require.NoError(t, err)
	before := e.FEN()

	for _, m := range []model.MoveRequest{
		move("e2", "e5"),
		move("e7", "e5"),
		move("a1", "a3"),
		{From: model.Position{X: 9, Y: 1}, To: model.MustPosition("e4")},
	} {
		fen, ok := e.ApplyMove(m)
		assert.False(t, ok, m.UCI())
		assert.Equal(t, before, fen)
	}
	assert.Equal(t, before, e.FEN())
}

func TestApplyMove_PromotionNeedsPiece(t *testing.T) {
	e, err := NewChessEngine(promotionFEN)
	require.NoError(t, err)
	before := e.FEN()

	_, ok := e.ApplyMove(move("e7", "e8"))
	assert.False(t, ok)
	assert.Equal(t, before, e.FEN())

	bad := move("e7", "e8")
	bad.Promotion = model.King
	_, ok = e.ApplyMove(bad)
	assert.False(t, ok)

	promo := move("e7", "e8")
	promo.Promotion = model.Queen
	fen, ok := e.ApplyMove(promo)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fen, "k3Q3/8/8/8/8/8/8/4K3 b "), fen)
}

func TestApplyMove_UnderPromotion(t *testing.T) {
	e, err := NewChessEngine(promotionFEN)
	require.NoError(t, err)

	promo := move("e7", "e8")
	promo.Promotion = model.Knight
	fen, ok := e.ApplyMove(promo)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(fen, "k3N3/"), fen)
}

func TestIsPromotion(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		want     bool
	}{
		{"start pawn push", startFEN, "e2", "e4", false},
		{"knight", startFEN, "g1", "f3", false},
		{"empty square", startFEN, "e4", "e5", false},
		{"white straight", promotionFEN, "e7", "e8", true},
		{"white diagonal", promotionFEN, "e7", "f8", true},
		{"white too wide", promotionFEN, "e7", "g8", false},
		{"white sideways", promotionFEN, "e7", "f7", false},
		{"black straight", "4k3/8/8/8/8/8/3p4/4K3 b - - 0 1", "d2", "d1", true},
		{"black from wrong rank", "4k3/8/8/8/8/3p4/8/4K3 b - - 0 1", "d3", "d2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewChessEngine(tt.fen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.IsPromotion(model.MustPosition(tt.from), model.MustPosition(tt.to)))
		})
	}
}

func TestPieceAt(t *testing.T) {
	b, err := DecodeBoard(startFEN)
	require.NoError(t, err)

	p, ok := PieceAt(b, model.MustPosition("e1"))
	require.True(t, ok)
	assert.Equal(t, model.Piece{Type: model.King, Color: model.ColorWhite}, p)

	p, ok = PieceAt(b, model.MustPosition("d8"))
	require.True(t, ok)
	assert.Equal(t, model.Piece{Type: model.Queen, Color: model.ColorBlack}, p)

	_, ok = PieceAt(b, model.MustPosition("e4"))
	assert.False(t, ok)
}
