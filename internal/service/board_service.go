package service

import (
	"github.com/benbeisheim/chessboard-backend/internal/board"
	"github.com/benbeisheim/chessboard-backend/internal/model"
)

type BoardService struct {
	boardManager *BoardManager
	rotated      bool
}

func NewBoardService(boardManager *BoardManager, rotated bool) *BoardService {
	return &BoardService{
		boardManager: boardManager,
		rotated:      rotated,
	}
}

// CreateBoard uses the service's default orientation when rotated is nil.
func (bs *BoardService) CreateBoard(fen string, rotated *bool) (View, error) {
	r := bs.rotated
	if rotated != nil {
		r = *rotated
	}
	session, err := bs.boardManager.CreateBoard(fen, r)
	if err != nil {
		return View{}, err
	}
	return session.View()
}

func (bs *BoardService) GetBoardState(boardID string) (View, error) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return View{}, err
	}
	return session.View()
}

func (bs *BoardService) HandleMove(boardID, from, to string) (board.AttemptResult, View, error) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return board.AttemptRejected, View{}, err
	}
	result, err := session.Move(from, to)
	if err != nil {
		return board.AttemptRejected, View{}, err
	}
	view, err := session.View()
	return result, view, err
}

func (bs *BoardService) HandlePromotion(boardID, piece string) (bool, View, error) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return false, View{}, err
	}
	accepted, err := session.Promote(piece)
	if err != nil {
		return false, View{}, err
	}
	view, err := session.View()
	return accepted, view, err
}

func (bs *BoardService) HandleDismiss(boardID string) (View, error) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return View{}, err
	}
	session.Dismiss()
	return session.View()
}

func (bs *BoardService) HandleReset(boardID, fen string) (View, error) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return View{}, err
	}
	if err := session.Reset(fen); err != nil {
		return View{}, err
	}
	return session.View()
}

func (bs *BoardService) GetPGN(boardID string) (string, error) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return "", err
	}
	return session.PGN(), nil
}

func (bs *BoardService) RemoveBoard(boardID string) error {
	return bs.boardManager.RemoveBoard(boardID)
}

func (bs *BoardService) RegisterConnection(boardID, viewerID string, conn model.Conn) error {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(viewerID, conn)
}

func (bs *BoardService) UnregisterConnection(boardID, viewerID string, conn model.Conn) {
	session, err := bs.boardManager.GetBoard(boardID)
	if err != nil {
		return
	}
	session.UnregisterConnection(viewerID, conn)
}
