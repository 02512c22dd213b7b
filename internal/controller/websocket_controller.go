package controller

import (
	"encoding/json"
	"sync"

	"github.com/benbeisheim/chessboard-backend/internal/middleware"
	"github.com/benbeisheim/chessboard-backend/internal/service"
	"github.com/benbeisheim/chessboard-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const rightButton = 2

// lockedConn serializes writes: session broadcasts and error replies come
// from different goroutines.
type lockedConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (lc *lockedConn) WriteJSON(v interface{}) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.Conn.WriteJSON(v)
}

type WebSocketController struct {
	boardService *service.BoardService
	log          zerolog.Logger
}

func NewWebSocketController(boardService *service.BoardService, log zerolog.Logger) *WebSocketController {
	return &WebSocketController{
		boardService: boardService,
		log:          log.With().Str("component", "ws").Logger(),
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(raw *websocket.Conn) {
	c := &lockedConn{Conn: raw}
	boardID := c.Params("boardId")
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)
	log := wsc.log.With().Str("board", boardID).Str("client", clientID).Logger()

	if err := wsc.boardService.RegisterConnection(boardID, clientID, c); err != nil {
		log.Warn().Err(err).Msg("failed to register connection")
		c.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
		)
		c.Close()
		return
	}
	defer wsc.boardService.UnregisterConnection(boardID, clientID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("read error")
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debug().Err(err).Msg("parse error")
			continue
		}

		if err := wsc.handleMessage(boardID, msg, log); err != nil {
			log.Debug().Err(err).Str("type", string(msg.Type)).Msg("handle error")
			wsc.sendError(c, err)
		}
	}
}

// Handle different types of incoming messages. State changes reach the
// client through the session broadcast, so only errors are answered here.
func (wsc *WebSocketController) handleMessage(boardID string, msg ws.Message, log zerolog.Logger) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var p ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.Wrap(err, "move payload")
		}
		_, _, err := wsc.boardService.HandleMove(boardID, p.From, p.To)
		return err

	case ws.MessageTypePromote:
		var p ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.Wrap(err, "promote payload")
		}
		_, _, err := wsc.boardService.HandlePromotion(boardID, p.Piece)
		return err

	case ws.MessageTypeDismiss:
		_, err := wsc.boardService.HandleDismiss(boardID)
		return err

	case ws.MessageTypeReset:
		var p ws.ResetPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				return errors.Wrap(err, "reset payload")
			}
		}
		_, err := wsc.boardService.HandleReset(boardID, p.FEN)
		return err

	case ws.MessageTypePointer:
		var p ws.PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return errors.Wrap(err, "pointer payload")
		}
		if p.Button == rightButton {
			log.Debug().Str("action", p.Action).Msg("right click")
		}
		return nil

	default:
		return errors.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c *lockedConn, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	if werr := c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	}); werr != nil {
		wsc.log.Debug().Err(werr).Msg("failed to send error")
	}
}
