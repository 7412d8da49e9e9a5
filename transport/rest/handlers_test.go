package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
	"github.com/rocketscienceinc/tictactoe-web/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *usecase.Session) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	session, err := usecase.NewSession(context.Background(), logger, entity.DefaultPlayers(), nil)
	require.NoError(t, err)

	return NewRouter(NewHandlers(logger, session)), session
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) entity.GameState {
	t.Helper()

	var state entity.GameState
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&state))
	return state
}

func TestPing(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestPage(t *testing.T) {
	t.Run("Renders an empty board", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Player One (X) to move")
		assert.Equal(t, 9, strings.Count(body, `name="cell"`))
		assert.NotContains(t, body, " disabled>")
		assert.Contains(t, body, "New round started, Player One moves first")
	})

	t.Run("Shows the winner and disables the board", func(t *testing.T) {
		router, session := newTestRouter(t)
		ctx := context.Background()
		for _, move := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
			_, err := session.PlayRound(ctx, move[0], move[1])
			require.NoError(t, err)
		}

		rec := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

		body := rec.Body.String()
		assert.Contains(t, body, "Player One (X) wins!")
		assert.Equal(t, 9, strings.Count(body, " disabled>"))
		assert.Equal(t, 3, strings.Count(body, "cell winning"))
		assert.Contains(t, body, "Play again")
	})

	t.Run("Unknown path is not found", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPlayForm(t *testing.T) {
	t.Run("Plays and redirects to the board", func(t *testing.T) {
		// Given: a fresh session
		router, session := newTestRouter(t)

		// When: the center button is clicked
		rec := serve(router, postForm("/play", url.Values{"cell": {"1,1"}}))

		// Then: the browser is sent back to the board with X in the center
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Equal(t, "X", session.State().Board[1][1])
	})

	t.Run("Malformed cell is rejected", func(t *testing.T) {
		router, session := newTestRouter(t)

		rec := serve(router, postForm("/play", url.Values{"cell": {"middle"}}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 9, session.State().EmptyCells)
	})

	t.Run("Out of range cell is rejected", func(t *testing.T) {
		router, session := newTestRouter(t)

		rec := serve(router, postForm("/play", url.Values{"cell": {"3,3"}}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, 9, session.State().EmptyCells)
	})
}

func TestResetForm(t *testing.T) {
	router, session := newTestRouter(t)
	_, err := session.PlayRound(context.Background(), 0, 0)
	require.NoError(t, err)

	rec := serve(router, postForm("/reset", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 9, session.State().EmptyCells)
	assert.Equal(t, 2, session.State().Round)
}

func TestAPI(t *testing.T) {
	t.Run("GetGame", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/game", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		state := decodeState(t, rec)
		assert.Equal(t, entity.MarkerX, state.ActivePlayer.Marker)
		assert.Equal(t, 9, state.EmptyCells)
	})

	t.Run("PlayTurn", func(t *testing.T) {
		router, _ := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/api/game/turn", strings.NewReader(`{"row":2,"column":0}`))
		rec := serve(router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		state := decodeState(t, rec)
		assert.Equal(t, "X", state.Board[2][0])
		assert.Equal(t, entity.OutcomeMoved, state.Outcome)
		assert.Equal(t, entity.MarkerO, state.ActivePlayer.Marker)
	})

	t.Run("PlayTurn_Illegal", func(t *testing.T) {
		router, _ := newTestRouter(t)
		serve(router, httptest.NewRequest(http.MethodPost, "/api/game/turn", strings.NewReader(`{"row":0,"column":0}`)))

		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/game/turn", strings.NewReader(`{"row":0,"column":0}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		state := decodeState(t, rec)
		assert.Equal(t, entity.OutcomeIllegal, state.Outcome)
		assert.Equal(t, entity.MarkerO, state.ActivePlayer.Marker)
	})

	t.Run("PlayTurn_OutOfRange", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/game/turn", strings.NewReader(`{"row":9,"column":0}`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var response ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Contains(t, response.Error, "outside the board")
	})

	t.Run("PlayTurn_BadBody", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/game/turn", strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("PlayTurn_MissingFields", func(t *testing.T) {
		for _, body := range []string{`{}`, `{"row":1}`, `{"column":2}`, `{"row":null,"column":0}`} {
			// Given: a fresh session
			router, session := newTestRouter(t)

			// When: the turn omits a coordinate
			rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/game/turn", strings.NewReader(body)))

			// Then: it is rejected and no cell is played
			require.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, ErrMissingCell.Error(), response.Error)
			assert.Equal(t, 9, session.State().EmptyCells, "body %s", body)
		}
	})

	t.Run("ResetGame", func(t *testing.T) {
		router, session := newTestRouter(t)
		_, err := session.PlayRound(context.Background(), 1, 1)
		require.NoError(t, err)

		rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/game/reset", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		state := decodeState(t, rec)
		assert.Equal(t, 9, state.EmptyCells)
		assert.Equal(t, 2, state.Round)
	})
}

func TestParseCell(t *testing.T) {
	row, column, err := parseCell(" 2 , 1 ")
	require.NoError(t, err)
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, column)

	for _, value := range []string{"", "1", "a,1", "1,b"} {
		_, _, err = parseCell(value)
		require.ErrorIs(t, err, ErrMalformedCell, "value %q", value)
	}
}
