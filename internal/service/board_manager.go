// service/board_manager.go
package service

import (
	"sync"

	"github.com/benbeisheim/chessboard-backend/internal/rules"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrBoardNotFound = errors.New("board not found")

type BoardManager struct {
	boards map[string]*Session
	mu     sync.RWMutex
	log    zerolog.Logger
}

func NewBoardManager(log zerolog.Logger) *BoardManager {
	return &BoardManager{
		boards: make(map[string]*Session),
		log:    log.With().Str("component", "board-manager").Logger(),
	}
}

// CreateBoard mounts a new board at fen, or at the standard position when fen
// is empty.
func (bm *BoardManager) CreateBoard(fen string, rotated bool) (*Session, error) {
	engine, err := rules.NewChessEngine(fen)
	if err != nil {
		return nil, err
	}

	boardID := uuid.New().String()
	session := NewSession(boardID, engine, rotated, bm.log)

	bm.mu.Lock()
	bm.boards[boardID] = session
	bm.mu.Unlock()

	bm.log.Info().Str("board", boardID).Str("fen", engine.FEN()).Msg("board created")
	return session, nil
}

func (bm *BoardManager) GetBoard(boardID string) (*Session, error) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()

	session, exists := bm.boards[boardID]
	if !exists {
		return nil, errors.Wrapf(ErrBoardNotFound, "%s", boardID)
	}
	return session, nil
}

// RemoveBoard unmounts the board and disconnects its viewers.
func (bm *BoardManager) RemoveBoard(boardID string) error {
	bm.mu.Lock()
	session, exists := bm.boards[boardID]
	if !exists {
		bm.mu.Unlock()
		return errors.Wrapf(ErrBoardNotFound, "%s", boardID)
	}
	delete(bm.boards, boardID)
	bm.mu.Unlock()

	bm.log.Info().Str("board", boardID).Msg("board removed")
	return session.Close()
}

func (bm *BoardManager) Count() int {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return len(bm.boards)
}
