package board

import (
	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/benbeisheim/chessboard-backend/internal/rules"
	"github.com/notnil/chess"
)

// SquareProps describes one square as the surface is about to draw it.
type SquareProps struct {
	Position model.Position `json:"position"`
	Piece    *model.Piece   `json:"piece"`
	Light    bool           `json:"light"`
}

type RenderedSquare struct {
	SquareProps
	Overlay *PromotionOverlay `json:"overlay,omitempty"`
}

type SquareRenderer func(props SquareProps) RenderedSquare

type BoardProps struct {
	FEN     string `json:"fen"`
	Rotated bool   `json:"rotated"`
}

// RenderedBoard is the outer frame with its squares in display order, rank 8
// first unless rotated.
type RenderedBoard struct {
	BoardProps
	Squares             []RenderedSquare `json:"squares"`
	SuppressContextMenu bool             `json:"suppressContextMenu"`
}

type BoardRenderer func(props BoardProps, squares []RenderedSquare) RenderedBoard

// PromotionOverlay is the piece picker drawn over a promotion square. The
// callbacks are bound to the controller that produced it.
type PromotionOverlay struct {
	Position    model.Position              `json:"position"`
	Color       string                      `json:"color"`
	Choices     []model.PieceType           `json:"choices"`
	OnClose     func()                      `json:"-"`
	OnPromotion func(model.PieceType) error `json:"-"`
}

func DefaultRenderSquare(props SquareProps) RenderedSquare {
	return RenderedSquare{SquareProps: props}
}

func DefaultRenderBoard(props BoardProps, squares []RenderedSquare) RenderedBoard {
	return RenderedBoard{BoardProps: props, Squares: squares}
}

// Surface draws a board from a FEN through the supplied override hooks.
type Surface struct {
	board *chess.Board
}

func NewSurface(fen string) (*Surface, error) {
	b, err := rules.DecodeBoard(fen)
	if err != nil {
		return nil, err
	}
	return &Surface{board: b}, nil
}

// IsPromotion is the move helper the surface hands to move handlers.
func (s *Surface) IsPromotion(from, to model.Position) bool {
	return rules.IsPromotion(s.board, from, to)
}

// Render calls renderSquare once per square and renderBoard once for the
// frame. Nil hooks fall back to the defaults.
func (s *Surface) Render(props BoardProps, renderSquare SquareRenderer, renderBoard BoardRenderer) RenderedBoard {
	if renderSquare == nil {
		renderSquare = DefaultRenderSquare
	}
	if renderBoard == nil {
		renderBoard = DefaultRenderBoard
	}

	squares := make([]RenderedSquare, 0, 64)
	for i := 0; i < 64; i++ {
		pos := model.Position{X: i % 8, Y: i / 8}
		if props.Rotated {
			pos = model.Position{X: 7 - pos.X, Y: 7 - pos.Y}
		}
		sq := SquareProps{Position: pos, Light: pos.IsLight()}
		if piece, ok := rules.PieceAt(s.board, pos); ok {
			sq.Piece = &piece
		}
		squares = append(squares, renderSquare(sq))
	}
	return renderBoard(props, squares)
}

// Render draws the controller's current notation with the promotion overlay
// substituted on the pending square.
func (c *Controller) Render(rotated bool, renderBoard BoardRenderer) (RenderedBoard, error) {
	surface, err := NewSurface(c.notation)
	if err != nil {
		return RenderedBoard{}, err
	}
	return surface.Render(BoardProps{FEN: c.notation, Rotated: rotated}, c.RenderSquare, renderBoard), nil
}
