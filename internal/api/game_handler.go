package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/scrynotes/memorygame/internal/platform/logger"
)

// GameHost owns the live games driven by the API. It is implemented by play.Service.
type GameHost interface {
	StartGame(ctx context.Context, userID, deckID uuid.UUID, mode domain.GameMode) (*game.Session, error)
	Game(userID, sessionID uuid.UUID) (*game.Session, error)
	CloseGame(userID, sessionID uuid.UUID) error
	Subscribe(userID, sessionID uuid.UUID) (<-chan game.State, func(), error)

	StartFriendGame(ctx context.Context, userID uuid.UUID) *friend.Game
	FriendGame(userID, gameID uuid.UUID) (*friend.Game, error)
	SubscribeFriendGame(userID, gameID uuid.UUID) (<-chan friend.State, func(), error)
}

// GameHandler handles single-player game requests
type GameHandler struct {
	host   GameHost
	logger *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(host GameHost, logger *slog.Logger) *GameHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameHandler{
		host:   host,
		logger: logger.With(slog.String("component", "game_handler")),
	}
}

// StartGame handles POST /games
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req StartGameRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	mode, err := domain.ParseGameMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.host.StartGame(r.Context(), userID, req.DeckID, mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("game started via API",
		slog.String("session_id", session.ID().String()),
		slog.String("mode", string(mode)))
	shared.RespondWithJSON(w, r, http.StatusCreated, session.State())
}

// GetGame handles GET /games/{gameID}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.State())
}

// CloseGame handles DELETE /games/{gameID}
func (h *GameHandler) CloseGame(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "gameID")
	if !ok {
		return
	}
	if err := h.host.CloseGame(userID, sessionID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectAnswer handles POST /games/{gameID}/selection
func (h *GameHandler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	h.act(w, r, &req, func(s *game.Session) error {
		return s.SelectAnswer(req.Answer)
	})
}

// SubmitAnswer handles POST /games/{gameID}/answer
func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	h.act(w, r, &req, func(s *game.Session) error {
		return s.SubmitAnswer(req.Answer)
	})
}

// Skip handles POST /games/{gameID}/skip
func (h *GameHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, (*game.Session).Skip)
}

// MarkCard handles POST /games/{gameID}/mark
func (h *GameHandler) MarkCard(w http.ResponseWriter, r *http.Request) {
	var req MarkRequest
	h.act(w, r, &req, func(s *game.Session) error {
		return s.MarkCard(*req.Known)
	})
}

// Next handles POST /games/{gameID}/next
func (h *GameHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, (*game.Session).Next)
}

// act resolves the session, decodes req when non-nil, applies op and
// responds with the resulting state.
func (h *GameHandler) act(w http.ResponseWriter, r *http.Request, req any, op func(*game.Session) error) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	if req != nil && !decodeAndValidate(w, r, req) {
		return
	}
	if err := op(session); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session.State())
}

func (h *GameHandler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "gameID")
	if !ok {
		return nil, false
	}
	session, err := h.host.Game(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return session, true
}
