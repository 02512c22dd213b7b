package model

import (
	"time"
)

// Conn is the part of a websocket connection a board session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Viewer is a client connection watching one board.
type Viewer struct {
	ID       string
	Conn     Conn
	JoinedAt time.Time
}

type ClientViewer struct {
	ID       string    `json:"id"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (v *Viewer) Client() ClientViewer {
	return ClientViewer{ID: v.ID, JoinedAt: v.JoinedAt}
}
