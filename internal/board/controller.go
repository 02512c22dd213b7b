// Package board holds the move-and-promotion controller for one mounted
// chessboard together with the render surface it drives.
package board

import (
	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/benbeisheim/chessboard-backend/internal/rules"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrNoPendingPromotion = errors.New("no promotion pending")

type State string

const (
	StateIdle              State = "idle"
	StateAwaitingPromotion State = "awaitingPromotion"
)

// AttemptResult says what a move attempt did to the controller.
type AttemptResult int

const (
	AttemptRejected AttemptResult = iota
	AttemptCommitted
	AttemptDeferred
)

func (r AttemptResult) String() string {
	switch r {
	case AttemptCommitted:
		return "committed"
	case AttemptDeferred:
		return "deferred"
	}
	return "rejected"
}

// MoveHelpers is what the render surface hands to a move handler alongside
// the attempted move.
type MoveHelpers interface {
	IsPromotion(from, to model.Position) bool
}

// Controller owns the notation of one board and the optional pending
// promotion. It is not safe for concurrent use; callers serialize input.
type Controller struct {
	engine       rules.Engine
	notation     string
	pending      *model.Promotion
	lastMove     *model.SimpleMove
	renderSquare SquareRenderer
	log          zerolog.Logger
}

type Option func(*Controller)

// WithSquareRenderer replaces the renderer used for squares that do not
// carry the promotion overlay.
func WithSquareRenderer(r SquareRenderer) Option {
	return func(c *Controller) {
		c.renderSquare = r
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

func NewController(engine rules.Engine, opts ...Option) *Controller {
	c := &Controller{
		engine:       engine,
		notation:     engine.FEN(),
		renderSquare: DefaultRenderSquare,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Notation() string {
	return c.notation
}

func (c *Controller) State() State {
	if c.pending != nil {
		return StateAwaitingPromotion
	}
	return StateIdle
}

// Pending returns the promotion awaiting a piece choice, if any.
func (c *Controller) Pending() (model.Promotion, bool) {
	if c.pending == nil {
		return model.Promotion{}, false
	}
	return *c.pending, true
}

func (c *Controller) LastMove() *model.SimpleMove {
	return c.lastMove
}

func (c *Controller) Engine() rules.Engine {
	return c.engine
}

// HandleMoveAttempt classifies the move with the rules engine's own
// promotion check.
func (c *Controller) HandleMoveAttempt(from, to model.Position) AttemptResult {
	return c.HandleMove(from, to, c.engine)
}

// HandleMove classifies the move with helpers, then either commits it or
// holds it as a pending promotion. Illegal moves are dropped without error.
func (c *Controller) HandleMove(from, to model.Position, helpers MoveHelpers) AttemptResult {
	if helpers == nil {
		helpers = c.engine
	}
	log := c.log.With().Str("from", from.String()).Str("to", to.String()).Logger()

	if c.pending != nil {
		log.Debug().Str("pending", c.pending.To.String()).Msg("move ignored while promotion is pending")
		return AttemptRejected
	}

	if helpers.IsPromotion(from, to) {
		c.pending = &model.Promotion{From: from, To: to}
		log.Debug().Msg("promotion pending")
		return AttemptDeferred
	}

	fen, ok := c.engine.ApplyMove(model.MoveRequest{From: from, To: to})
	if !ok {
		log.Debug().Msg("illegal move dropped")
		return AttemptRejected
	}
	c.commit(fen, from, to)
	log.Debug().Str("fen", fen).Msg("move committed")
	return AttemptCommitted
}

// ResolvePromotion plays the pending move with the chosen piece. The pending
// promotion is cleared whether or not the engine accepts the move; the
// returned bool reports acceptance.
func (c *Controller) ResolvePromotion(piece model.PieceType) (bool, error) {
	if c.pending == nil {
		return false, ErrNoPendingPromotion
	}
	if !piece.IsPromotionChoice() {
		return false, errors.Wrapf(model.ErrInvalidPromotion, "%q", piece)
	}

	pending := *c.pending
	c.pending = nil

	fen, ok := c.engine.ApplyMove(pending.WithPiece(piece))
	if ok {
		c.commit(fen, pending.From, pending.To)
	} else {
		c.notation = c.engine.FEN()
	}
	c.log.Debug().
		Str("from", pending.From.String()).
		Str("to", pending.To.String()).
		Str("piece", string(piece)).
		Bool("accepted", ok).
		Msg("promotion resolved")
	return ok, nil
}

// DismissPromotion abandons the pending move without touching the position.
func (c *Controller) DismissPromotion() {
	if c.pending != nil {
		c.log.Debug().Str("to", c.pending.To.String()).Msg("promotion dismissed")
	}
	c.pending = nil
}

// Reset swaps in a new engine and returns to idle.
func (c *Controller) Reset(engine rules.Engine) {
	c.engine = engine
	c.notation = engine.FEN()
	c.pending = nil
	c.lastMove = nil
}

func (c *Controller) commit(fen string, from, to model.Position) {
	c.notation = fen
	c.lastMove = &model.SimpleMove{From: from, To: to}
}

// RenderSquare puts the promotion overlay on the pending destination and
// hands every other square to the default renderer.
func (c *Controller) RenderSquare(props SquareProps) RenderedSquare {
	if c.pending != nil && c.pending.To.Equals(props.Position) {
		return RenderedSquare{
			SquareProps: props,
			Overlay:     c.promotionOverlay(props),
		}
	}
	return c.renderSquare(props)
}

func (c *Controller) promotionOverlay(props SquareProps) *PromotionOverlay {
	color := model.ColorWhite
	if props.Position.Rank() == 1 {
		color = model.ColorBlack
	}
	return &PromotionOverlay{
		Position: props.Position,
		Color:    color,
		Choices:  model.PromotionChoices,
		OnClose:  c.DismissPromotion,
		OnPromotion: func(piece model.PieceType) error {
			_, err := c.ResolvePromotion(piece)
			return err
		},
	}
}
