package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/chessboard-backend/internal/board"
	"github.com/benbeisheim/chessboard-backend/internal/middleware"
	"github.com/benbeisheim/chessboard-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promotionFEN = "k7/4P3/8/8/8/8/8/4K3 w - - 0 1"

func newTestApp() *fiber.App {
	bs := service.NewBoardService(service.NewBoardManager(zerolog.Nop()), false)
	app := fiber.New()
	api := app.Group("/api", middleware.EnsureClientID())
	RegisterBoardRoutes(api, NewBoardController(bs, zerolog.Nop()))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("X-Client-ID", "tab-1")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func createBoard(t *testing.T, app *fiber.App, body string) string {
	t.Helper()
	status, data := do(t, app, http.MethodPost, "/api/board/create", body)
	require.Equal(t, http.StatusCreated, status, string(data))
	var resp struct {
		BoardID string       `json:"board_id"`
		Board   service.View `json:"board"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	require.NotEmpty(t, resp.BoardID)
	return resp.BoardID
}

func TestBoardRoutes_MoveFlow(t *testing.T) {
	app := newTestApp()
	id := createBoard(t, app, "")

	status, data := do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"e2","to":"e4"}`)
	require.Equal(t, http.StatusOK, status, string(data))
	var resp struct {
		Result string       `json:"result"`
		Board  service.View `json:"board"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "committed", resp.Result)
	assert.True(t, strings.HasPrefix(resp.Board.FEN, "rnbqkbnr/pppppppp/8/8/4P3/"), resp.Board.FEN)

	status, data = do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"e2","to":"e4"}`)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "rejected", resp.Result)

	status, data = do(t, app, http.MethodGet, "/api/board/"+id, "")
	require.Equal(t, http.StatusOK, status)
	var view service.View
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, id, view.ID)

	status, data = do(t, app, http.MethodGet, "/api/board/"+id+"/pgn", "")
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, data)
}

func TestBoardRoutes_PromotionFlow(t *testing.T) {
	app := newTestApp()
	id := createBoard(t, app, `{"fen":"`+promotionFEN+`","rotated":true}`)

	status, data := do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"e7","to":"e8"}`)
	require.Equal(t, http.StatusOK, status, string(data))
	var moveResp struct {
		Result string       `json:"result"`
		Board  service.View `json:"board"`
	}
	require.NoError(t, json.Unmarshal(data, &moveResp))
	assert.Equal(t, "deferred", moveResp.Result)
	assert.Equal(t, board.StateAwaitingPromotion, moveResp.Board.State)
	assert.True(t, moveResp.Board.Rotated)

	status, data = do(t, app, http.MethodPost, "/api/board/"+id+"/promote", `{"piece":"queen"}`)
	require.Equal(t, http.StatusOK, status, string(data))
	var promoResp struct {
		Accepted bool         `json:"accepted"`
		Board    service.View `json:"board"`
	}
	require.NoError(t, json.Unmarshal(data, &promoResp))
	assert.True(t, promoResp.Accepted)
	assert.True(t, strings.HasPrefix(promoResp.Board.FEN, "k3Q3/"), promoResp.Board.FEN)

	status, _ = do(t, app, http.MethodPost, "/api/board/"+id+"/promote", `{"piece":"queen"}`)
	assert.Equal(t, http.StatusConflict, status)
}

func TestBoardRoutes_DismissAndReset(t *testing.T) {
	app := newTestApp()
	id := createBoard(t, app, `{"fen":"`+promotionFEN+`"}`)

	status, _ := do(t, app, http.MethodPost, "/api/board/"+id+"/move", `{"from":"e7","to":"e8"}`)
	require.Equal(t, http.StatusOK, status)

	status, data := do(t, app, http.MethodPost, "/api/board/"+id+"/dismiss", "")
	require.Equal(t, http.StatusOK, status)
	var view service.View
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, board.StateIdle, view.State)
	assert.True(t, strings.HasPrefix(view.FEN, "k7/4P3/"), view.FEN)

	status, data = do(t, app, http.MethodPost, "/api/board/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(data, &view))
	assert.True(t, strings.HasPrefix(view.FEN, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w "), view.FEN)

	status, _ = do(t, app, http.MethodPost, "/api/board/"+id+"/reset", `{"fen":"junk"}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestBoardRoutes_Errors(t *testing.T) {
	app := newTestApp()
	id := createBoard(t, app, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown board", http.MethodGet, "/api/board/nope", "", http.StatusNotFound},
		{"move on unknown board", http.MethodPost, "/api/board/nope/move", `{"from":"e2","to":"e4"}`, http.StatusNotFound},
		{"bad square", http.MethodPost, "/api/board/" + id + "/move", `{"from":"z9","to":"e4"}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/board/" + id + "/move", `{`, http.StatusBadRequest},
		{"bad piece", http.MethodPost, "/api/board/" + id + "/promote", `{"piece":"dragon"}`, http.StatusBadRequest},
		{"nothing pending", http.MethodPost, "/api/board/" + id + "/promote", `{"piece":"q"}`, http.StatusConflict},
		{"bad fen", http.MethodPost, "/api/board/create", `{"fen":"x"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, data := do(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status, string(data))
		})
	}
}

func TestBoardRoutes_RemoveBoard(t *testing.T) {
	app := newTestApp()
	id := createBoard(t, app, "")

	status, _ := do(t, app, http.MethodDelete, "/api/board/"+id, "")
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = do(t, app, http.MethodGet, "/api/board/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBoardRoutes_RequireClientID(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(http.MethodPost, "/api/board/create", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/board/create?clientId=tab-9", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
