package controller

import (
	"github.com/benbeisheim/chessboard-backend/internal/board"
	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/benbeisheim/chessboard-backend/internal/rules"
	"github.com/benbeisheim/chessboard-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type BoardController struct {
	boardService *service.BoardService
	log          zerolog.Logger
}

func NewBoardController(boardService *service.BoardService, log zerolog.Logger) *BoardController {
	return &BoardController{
		boardService: boardService,
		log:          log.With().Str("component", "board-controller").Logger(),
	}
}

type createBoardRequest struct {
	FEN     string `json:"fen"`
	Rotated *bool  `json:"rotated"`
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type promoteRequest struct {
	Piece string `json:"piece"`
}

type resetRequest struct {
	FEN string `json:"fen"`
}

func (bc *BoardController) CreateBoard(c *fiber.Ctx) error {
	var req createBoardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return bc.fail(c, fiber.StatusBadRequest, err)
		}
	}

	view, err := bc.boardService.CreateBoard(req.FEN, req.Rotated)
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Board created",
		"board_id": view.ID,
		"board":    view,
	})
}

func (bc *BoardController) GetBoardState(c *fiber.Ctx) error {
	view, err := bc.boardService.GetBoardState(c.Params("boardId"))
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.JSON(view)
}

func (bc *BoardController) Move(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.fail(c, fiber.StatusBadRequest, err)
	}

	result, view, err := bc.boardService.HandleMove(c.Params("boardId"), req.From, req.To)
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.JSON(fiber.Map{
		"result": result.String(),
		"board":  view,
	})
}

func (bc *BoardController) Promote(c *fiber.Ctx) error {
	var req promoteRequest
	if err := c.BodyParser(&req); err != nil {
		return bc.fail(c, fiber.StatusBadRequest, err)
	}

	accepted, view, err := bc.boardService.HandlePromotion(c.Params("boardId"), req.Piece)
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.JSON(fiber.Map{
		"accepted": accepted,
		"board":    view,
	})
}

func (bc *BoardController) Dismiss(c *fiber.Ctx) error {
	view, err := bc.boardService.HandleDismiss(c.Params("boardId"))
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.JSON(view)
}

func (bc *BoardController) Reset(c *fiber.Ctx) error {
	var req resetRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return bc.fail(c, fiber.StatusBadRequest, err)
		}
	}

	view, err := bc.boardService.HandleReset(c.Params("boardId"), req.FEN)
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.JSON(view)
}

func (bc *BoardController) GetPGN(c *fiber.Ctx) error {
	pgn, err := bc.boardService.GetPGN(c.Params("boardId"))
	if err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	c.Set(fiber.HeaderContentType, "application/x-chess-pgn")
	return c.SendString(pgn)
}

func (bc *BoardController) RemoveBoard(c *fiber.Ctx) error {
	if err := bc.boardService.RemoveBoard(c.Params("boardId")); err != nil {
		return bc.fail(c, errorStatus(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (bc *BoardController) fail(c *fiber.Ctx, status int, err error) error {
	if status >= fiber.StatusInternalServerError {
		bc.log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func errorStatus(err error) int {
	switch errors.Cause(err) {
	case service.ErrBoardNotFound:
		return fiber.StatusNotFound
	case model.ErrInvalidPosition, model.ErrInvalidPromotion, rules.ErrInvalidFEN:
		return fiber.StatusBadRequest
	case board.ErrNoPendingPromotion, service.ErrAlreadyConnected:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}
