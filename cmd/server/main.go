package main

import (
	"os"
	"strings"

	"github.com/benbeisheim/chessboard-backend/internal/config"
	"github.com/benbeisheim/chessboard-backend/internal/controller"
	"github.com/benbeisheim/chessboard-backend/internal/logx"
	"github.com/benbeisheim/chessboard-backend/internal/middleware"
	"github.com/benbeisheim/chessboard-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	logger := logx.NewLogger(cfg.LogLevel)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Client-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.AccessLog(logger.With().Str("component", "http").Logger()))

	// Initialize services
	boardManager := service.NewBoardManager(logger)
	boardService := service.NewBoardService(boardManager, cfg.Rotated)

	// Initialize controllers
	boardController := controller.NewBoardController(boardService, logger)
	wsController := controller.NewWebSocketController(boardService, logger)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsureClientID())
	app.Get("/ws/board/:boardId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.AllowedOrigins,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsureClientID())
	controller.RegisterBoardRoutes(api, boardController)

	logger.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal().Err(err).Msg("listen")
	}
}
