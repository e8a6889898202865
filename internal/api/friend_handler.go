package api

import (
	"log/slog"
	"net/http"

	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/platform/logger"
)

// FriendHandler handles friend-mode game requests
type FriendHandler struct {
	host   GameHost
	logger *slog.Logger
}

// NewFriendHandler creates a new FriendHandler
func NewFriendHandler(host GameHost, logger *slog.Logger) *FriendHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FriendHandler{
		host:   host,
		logger: logger.With(slog.String("component", "friend_handler")),
	}
}

// StartGame handles POST /friend-games
func (h *FriendHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	g := h.host.StartFriendGame(r.Context(), userID)
	logger.FromContextOrDefault(r.Context(), h.logger).Info("friend game started via API",
		slog.String("game_id", g.ID().String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, g.State())
}

// GetGame handles GET /friend-games/{gameID}
func (h *FriendHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, g.State())
}

// SubmitQuestion handles POST /friend-games/{gameID}/question
func (h *FriendHandler) SubmitQuestion(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	h.act(w, r, &req, func(g *friend.Game) error {
		return g.SubmitQuestion(req.Question)
	})
}

// ConfirmHandoffToPlayer handles POST /friend-games/{gameID}/handoff/player
func (h *FriendHandler) ConfirmHandoffToPlayer(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, (*friend.Game).ConfirmHandoffToPlayer)
}

// SubmitAnswer handles POST /friend-games/{gameID}/answer
func (h *FriendHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req FriendAnswerRequest
	h.act(w, r, &req, func(g *friend.Game) error {
		return g.SubmitAnswer(req.Answer)
	})
}

// ConfirmHandoffToQuizMaster handles POST /friend-games/{gameID}/handoff/quiz-master
func (h *FriendHandler) ConfirmHandoffToQuizMaster(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, (*friend.Game).ConfirmHandoffToQuizMaster)
}

// Judge handles POST /friend-games/{gameID}/judgement
func (h *FriendHandler) Judge(w http.ResponseWriter, r *http.Request) {
	var req JudgementRequest
	h.act(w, r, &req, func(g *friend.Game) error {
		return g.Judge(*req.Correct)
	})
}

// Next handles POST /friend-games/{gameID}/next
func (h *FriendHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, (*friend.Game).Next)
}

// End handles POST /friend-games/{gameID}/end
func (h *FriendHandler) End(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, func(g *friend.Game) error {
		_, err := g.End()
		return err
	})
}

func (h *FriendHandler) act(w http.ResponseWriter, r *http.Request, req any, op func(*friend.Game) error) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	if req != nil && !decodeAndValidate(w, r, req) {
		return
	}
	if err := op(g); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, g.State())
}

func (h *FriendHandler) game(w http.ResponseWriter, r *http.Request) (*friend.Game, bool) {
	userID, gameID, ok := handleUserIDAndPathUUID(w, r, "gameID")
	if !ok {
		return nil, false
	}
	g, err := h.host.FriendGame(userID, gameID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}
	return g, true
}
