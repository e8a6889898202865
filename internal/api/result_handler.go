package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/service"
)

// ResultHandler serves the caller's game history.
type ResultHandler struct {
	results service.ResultService
	logger  *slog.Logger
}

// NewResultHandler creates a new ResultHandler
func NewResultHandler(results service.ResultService, logger *slog.Logger) *ResultHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultHandler{
		results: results,
		logger:  logger.With(slog.String("component", "result_handler")),
	}
}

// ListResults handles GET /results?limit=n
func (h *ResultHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			HandleAPIError(w, r, fmt.Errorf("%w: invalid limit %q", domain.ErrValidation, raw),
				"Invalid limit: must be a positive integer")
			return
		}
		limit = n
	}

	results, err := h.results.ListResults(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := make([]ResultResponse, 0, len(results))
	for _, res := range results {
		resp = append(resp, resultToResponse(res))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
