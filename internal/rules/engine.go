// Package rules adapts a chess rules implementation to the narrow capability
// the board controller needs.
package rules

import (
	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var ErrInvalidFEN = errors.New("invalid FEN")

// Engine validates and applies moves against a position it owns.
type Engine interface {
	// FEN returns the current position.
	FEN() string
	// ApplyMove plays the move if it is legal and returns the resulting FEN.
	// An illegal move leaves the engine untouched and returns false.
	ApplyMove(move model.MoveRequest) (string, bool)
	// IsPromotion reports whether from->to is a pawn reaching its last rank
	// in the current position.
	IsPromotion(from, to model.Position) bool
	// Outcome is "*" while the game is in progress, otherwise the result.
	Outcome() string
	// PGN returns the moves played so far.
	PGN() string
}

type ChessEngine struct {
	game *chess.Game
}

// NewChessEngine starts from fen, or from the standard position when fen is
// empty.
func NewChessEngine(fen string) (*ChessEngine, error) {
	opts := []func(*chess.Game){chess.UseNotation(chess.UCINotation{})}
	if fen != "" {
		fenOpt, err := chess.FEN(fen)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidFEN, err.Error())
		}
		opts = append(opts, fenOpt)
	}
	return &ChessEngine{game: chess.NewGame(opts...)}, nil
}

func (e *ChessEngine) FEN() string {
	return e.game.FEN()
}

func (e *ChessEngine) ApplyMove(move model.MoveRequest) (string, bool) {
	if !move.From.Valid() || !move.To.Valid() {
		return e.game.FEN(), false
	}
	if move.Promotion != "" && !move.Promotion.IsPromotionChoice() {
		return e.game.FEN(), false
	}
	if err := e.game.MoveStr(move.UCI()); err != nil {
		return e.game.FEN(), false
	}
	return e.game.FEN(), true
}

func (e *ChessEngine) IsPromotion(from, to model.Position) bool {
	return IsPromotion(e.game.Position().Board(), from, to)
}

func (e *ChessEngine) Outcome() string {
	return string(e.game.Outcome())
}

func (e *ChessEngine) PGN() string {
	return e.game.String()
}

// IsPromotion inspects the board only: a pawn of either colour stepping onto
// its last rank, straight or diagonally by one file. Legality is left to
// ApplyMove.
func IsPromotion(board *chess.Board, from, to model.Position) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	piece := board.Piece(Square(from))
	if piece.Type() != chess.Pawn {
		return false
	}
	dx := to.X - from.X
	if dx < -1 || dx > 1 {
		return false
	}
	switch piece.Color() {
	case chess.White:
		return from.Rank() == 7 && to.Rank() == 8
	case chess.Black:
		return from.Rank() == 2 && to.Rank() == 1
	}
	return false
}

// Square converts a board position to the engine's square index (a1 = 0).
func Square(p model.Position) chess.Square {
	return chess.Square((p.Rank()-1)*8 + p.X)
}

// PieceAt converts the engine's piece representation, reporting false for an
// empty square.
func PieceAt(board *chess.Board, p model.Position) (model.Piece, bool) {
	piece := board.Piece(Square(p))
	if piece == chess.NoPiece {
		return model.Piece{}, false
	}
	color := model.ColorWhite
	if piece.Color() == chess.Black {
		color = model.ColorBlack
	}
	return model.Piece{Type: pieceType(piece.Type()), Color: color}, true
}

// DecodeBoard parses a FEN into a board for read-only inspection.
func DecodeBoard(fen string) (*chess.Board, error) {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidFEN, err.Error())
	}
	return chess.NewGame(fenOpt).Position().Board(), nil
}

func pieceType(t chess.PieceType) model.PieceType {
	switch t {
	case chess.King:
		return model.King
	case chess.Queen:
		return model.Queen
	case chess.Rook:
		return model.Rook
	case chess.Bishop:
		return model.Bishop
	case chess.Knight:
		return model.Knight
	case chess.Pawn:
		return model.Pawn
	}
	return ""
}
