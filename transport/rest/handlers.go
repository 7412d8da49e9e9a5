package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-web/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-web/internal/entity"
)

var (
	ErrMalformedCell = errors.New("cell must look like row,column")
	ErrMissingCell   = errors.New("row and column are required")
)

type gameSession interface {
	State() entity.GameState
	PlayRound(ctx context.Context, row, column int) (entity.GameState, error)
	Reset(ctx context.Context) entity.GameState
}

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	Page(w http.ResponseWriter, r *http.Request)
	PlayForm(w http.ResponseWriter, r *http.Request)
	ResetForm(w http.ResponseWriter, r *http.Request)

	GetGame(w http.ResponseWriter, r *http.Request)
	PlayTurn(w http.ResponseWriter, r *http.Request)
	ResetGame(w http.ResponseWriter, r *http.Request)
}

// TurnRequest - row and column are both required.
type TurnRequest struct {
	Row    *int `json:"row"`
	Column *int `json:"column"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger  *slog.Logger
	session gameSession
}

func NewHandlers(logger *slog.Logger, session gameSession) Handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		session: session,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// Page - renders the board with one button per empty cell.
func (that *handlers) Page(w http.ResponseWriter, _ *http.Request) {
	log := that.logger.With("method", "Page")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := renderPage(w, that.session.State()); err != nil {
		log.Error("failed to render page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (that *handlers) PlayForm(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PlayForm")

	row, column, err := parseCell(r.FormValue("cell"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err = that.session.PlayRound(r.Context(), row, column); err != nil {
		log.Warn("failed to play round", "error", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *handlers) ResetForm(w http.ResponseWriter, r *http.Request) {
	that.session.Reset(r.Context())

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *handlers) GetGame(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.session.State())
}

func (that *handlers) PlayTurn(w http.ResponseWriter, r *http.Request) {
	var request TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if request.Row == nil || request.Column == nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrMissingCell.Error()})
		return
	}

	state, err := that.session.PlayRound(r.Context(), *request.Row, *request.Column)
	if err != nil {
		that.writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.session.Reset(r.Context()))
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	log := that.logger.With("method", "writeJSON")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func statusFor(err error) int {
	if errors.Is(err, apperror.ErrContractViolation) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// parseCell - parses the "row,column" value posted by a board button.
func parseCell(value string) (int, int, error) {
	rawRow, rawColumn, ok := strings.Cut(value, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCell, value)
	}

	row, err := strconv.Atoi(strings.TrimSpace(rawRow))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCell, value)
	}

	column, err := strconv.Atoi(strings.TrimSpace(rawColumn))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCell, value)
	}

	return row, column, nil
}
