package model

// MoveRequest is a move handed to the rules engine. Promotion is empty for
// every move that is not a pawn promotion.
type MoveRequest struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// UCI encodes the request in UCI long algebraic form, e.g. "e7e8q".
func (m MoveRequest) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != "" {
		s += m.Promotion.PromotionCode()
	}
	return s
}

// Promotion is a move that has been attempted, detected as a pawn promotion,
// and is waiting for the user to pick a piece.
type Promotion struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// WithPiece completes the pending promotion into a move request.
func (p Promotion) WithPiece(piece PieceType) MoveRequest {
	return MoveRequest{From: p.From, To: p.To, Promotion: piece}
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
