package controller

import "github.com/gofiber/fiber/v2"

// RegisterBoardRoutes mounts the board REST API under router.
func RegisterBoardRoutes(router fiber.Router, bc *BoardController) {
	boardRoutes := router.Group("/board")
	boardRoutes.Post("/create", bc.CreateBoard)
	boardRoutes.Get("/:boardId", bc.GetBoardState)
	boardRoutes.Delete("/:boardId", bc.RemoveBoard)
	boardRoutes.Get("/:boardId/pgn", bc.GetPGN)
	boardRoutes.Post("/:boardId/move", bc.Move)
	boardRoutes.Post("/:boardId/promote", bc.Promote)
	boardRoutes.Post("/:boardId/dismiss", bc.Dismiss)
	boardRoutes.Post("/:boardId/reset", bc.Reset)
}
