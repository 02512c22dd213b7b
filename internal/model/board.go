package model

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidPromotion = errors.New("invalid promotion piece")

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PromotionChoices is the order the overlay offers pieces in.
var PromotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

// Notation returns the uppercase FEN letter for the piece type.
func (p PieceType) Notation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

// PromotionCode is the lowercase letter the rules engine expects in the
// promotion field of a move.
func (p PieceType) PromotionCode() string {
	return strings.ToLower(p.Notation())
}

func (p PieceType) IsPromotionChoice() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

// ParsePieceType accepts a full name ("queen") or a FEN letter of either case.
func ParsePieceType(s string) (PieceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "king", "k":
		return King, nil
	case "queen", "q":
		return Queen, nil
	case "rook", "r":
		return Rook, nil
	case "bishop", "b":
		return Bishop, nil
	case "knight", "n":
		return Knight, nil
	case "pawn", "p":
		return Pawn, nil
	}
	return "", errors.Wrapf(ErrInvalidPromotion, "unknown piece %q", s)
}

// Piece is what the render surface places on a square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color string    `json:"color"`
}

const (
	ColorWhite = "white"
	ColorBlack = "black"
)

// FEN returns the piece letter as written in a FEN placement field.
func (p Piece) FEN() string {
	if p.Color == ColorBlack {
		return strings.ToLower(p.Type.Notation())
	}
	return p.Type.Notation()
}
