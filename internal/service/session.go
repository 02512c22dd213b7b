package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbeisheim/chessboard-backend/internal/board"
	"github.com/benbeisheim/chessboard-backend/internal/model"
	"github.com/benbeisheim/chessboard-backend/internal/rules"
	"github.com/benbeisheim/chessboard-backend/internal/ws"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrAlreadyConnected = errors.New("viewer already connected")

// The connections watching a specific board
type BoardConnections struct {
	viewers map[string]*model.Viewer // viewerID -> viewer
	mu      sync.RWMutex
}

func NewBoardConnections() *BoardConnections {
	return &BoardConnections{
		viewers: make(map[string]*model.Viewer),
	}
}

// Session is one mounted board. The mutex stands in for the UI event queue:
// every gesture reaches the controller one at a time.
type Session struct {
	ID          string
	CreatedAt   time.Time
	mu          sync.Mutex
	controller  *board.Controller
	rotated     bool
	connections *BoardConnections
	log         zerolog.Logger
}

// View is the JSON snapshot pushed to clients after every transition.
type View struct {
	ID       string               `json:"id"`
	FEN      string               `json:"fen"`
	State    board.State          `json:"state"`
	Pending  *model.Promotion     `json:"pending"`
	Rotated  bool                 `json:"rotated"`
	Outcome  string               `json:"outcome"`
	LastMove *model.SimpleMove    `json:"lastMove"`
	Board    board.RenderedBoard  `json:"board"`
	Viewers  []model.ClientViewer `json:"viewers"`
}

func NewSession(id string, engine rules.Engine, rotated bool, log zerolog.Logger) *Session {
	log = log.With().Str("board", id).Logger()
	return &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		controller:  board.NewController(engine, board.WithLogger(log)),
		rotated:     rotated,
		connections: NewBoardConnections(),
		log:         log,
	}
}

// Move forwards a drag or click from one square to another. Illegal moves
// are not errors; the result says what happened.
func (s *Session) Move(from, to string) (board.AttemptResult, error) {
	fromPos, err := model.ParsePosition(from)
	if err != nil {
		return board.AttemptRejected, err
	}
	toPos, err := model.ParsePosition(to)
	if err != nil {
		return board.AttemptRejected, err
	}

	s.mu.Lock()
	surface, err := board.NewSurface(s.controller.Notation())
	if err != nil {
		s.mu.Unlock()
		return board.AttemptRejected, err
	}
	result := s.controller.HandleMove(fromPos, toPos, surface)
	s.mu.Unlock()

	s.log.Info().Str("from", from).Str("to", to).Stringer("result", result).Msg("move attempt")
	if result != board.AttemptRejected {
		s.broadcast()
	}
	return result, nil
}

// Promote answers the pending promotion with the chosen piece.
func (s *Session) Promote(piece string) (bool, error) {
	pieceType, err := model.ParsePieceType(piece)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	accepted, err := s.controller.ResolvePromotion(pieceType)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.log.Info().Str("piece", string(pieceType)).Bool("accepted", accepted).Msg("promotion")
	s.broadcast()
	return accepted, nil
}

func (s *Session) Dismiss() {
	s.mu.Lock()
	s.controller.DismissPromotion()
	s.mu.Unlock()

	s.broadcast()
}

// Reset loads fen, or the standard position when fen is empty.
func (s *Session) Reset(fen string) error {
	engine, err := rules.NewChessEngine(fen)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.controller.Reset(engine)
	s.mu.Unlock()

	s.log.Info().Str("fen", engine.FEN()).Msg("board reset")
	s.broadcast()
	return nil
}

func (s *Session) PGN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Engine().PGN()
}

func (s *Session) View() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() (View, error) {
	rendered, err := s.controller.Render(s.rotated, renderFrame)
	if err != nil {
		return View{}, err
	}
	v := View{
		ID:       s.ID,
		FEN:      s.controller.Notation(),
		State:    s.controller.State(),
		Rotated:  s.rotated,
		Outcome:  s.controller.Engine().Outcome(),
		LastMove: s.controller.LastMove(),
		Board:    rendered,
		Viewers:  s.viewerList(),
	}
	if pending, ok := s.controller.Pending(); ok {
		v.Pending = &pending
	}
	return v, nil
}

// renderFrame is the board frame override: the client keeps right clicks for
// itself instead of opening a browser context menu.
func renderFrame(props board.BoardProps, squares []board.RenderedSquare) board.RenderedBoard {
	rendered := board.DefaultRenderBoard(props, squares)
	rendered.SuppressContextMenu = true
	return rendered
}

func (s *Session) RegisterConnection(viewerID string, conn model.Conn) error {
	connID := fmt.Sprintf("%p", conn)

	s.connections.mu.Lock()
	if _, exists := s.connections.viewers[viewerID]; exists {
		// Keep the healthy connection and reject the new one
		s.connections.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.connections.viewers[viewerID] = &model.Viewer{ID: viewerID, Conn: conn, JoinedAt: time.Now()}
	s.connections.mu.Unlock()

	s.log.Info().Str("viewer", viewerID).Str("conn", connID).Msg("registered connection")
	s.broadcast()
	return nil
}

// UnregisterConnection only removes conn if it is still the viewer's
// current connection.
func (s *Session) UnregisterConnection(viewerID string, conn model.Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if viewer, exists := s.connections.viewers[viewerID]; exists {
		if viewer.Conn == conn {
			s.log.Info().Str("viewer", viewerID).Msg("unregistered connection")
			delete(s.connections.viewers, viewerID)
		} else {
			s.log.Debug().Str("viewer", viewerID).Msg("ignoring unregister for old connection")
		}
	}
}

func (s *Session) ViewerCount() int {
	s.connections.mu.RLock()
	defer s.connections.mu.RUnlock()
	return len(s.connections.viewers)
}

func (s *Session) viewerList() []model.ClientViewer {
	s.connections.mu.RLock()
	defer s.connections.mu.RUnlock()
	out := make([]model.ClientViewer, 0, len(s.connections.viewers))
	for _, v := range s.connections.viewers {
		out = append(out, v.Client())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Session) broadcast() {
	if err := s.Broadcast(); err != nil {
		s.log.Warn().Err(err).Msg("broadcast")
	}
}

// Broadcast pushes the current view to every viewer. Viewers whose write
// fails are dropped and their errors collected.
func (s *Session) Broadcast() error {
	view, err := s.View()
	if err != nil {
		return errors.Wrap(err, "render view")
	}
	payload, err := json.Marshal(view)
	if err != nil {
		return errors.Wrap(err, "marshal view")
	}
	msg := ws.Message{Type: ws.MessageTypeBoardState, Payload: json.RawMessage(payload)}

	// Snapshot the viewers so no lock is held while writing
	s.connections.mu.RLock()
	active := make([]*model.Viewer, 0, len(s.connections.viewers))
	for _, v := range s.connections.viewers {
		active = append(active, v)
	}
	s.connections.mu.RUnlock()

	var errs error
	for _, viewer := range active {
		if err := viewer.Conn.WriteJSON(msg); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "viewer %s", viewer.ID))
			s.UnregisterConnection(viewer.ID, viewer.Conn)
			continue
		}
		s.log.Debug().Str("viewer", viewer.ID).Msg("sent board state")
	}
	return errs
}

// Close disconnects every viewer.
func (s *Session) Close() error {
	s.connections.mu.Lock()
	viewers := s.connections.viewers
	s.connections.viewers = make(map[string]*model.Viewer)
	s.connections.mu.Unlock()

	var errs error
	for _, v := range viewers {
		if err := v.Conn.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}
