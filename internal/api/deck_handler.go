package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/platform/logger"
	"github.com/scrynotes/memorygame/internal/service"
)

// DeckHandler handles deck-related HTTP requests
type DeckHandler struct {
	decks  service.DeckService
	logger *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(decks service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		decks:  decks,
		logger: logger.With(slog.String("component", "deck_handler")),
	}
}

// CreateDeck handles POST /decks. The deck is built from the given cards,
// or parsed from text when text is set.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	var (
		deck *domain.CardDeck
		err  error
	)
	switch {
	case strings.TrimSpace(req.Text) != "":
		deck, err = h.decks.CreateDeckFromText(r.Context(), userID, req.Title, req.Text)
	case len(req.Cards) > 0:
		cards, cerr := cardsFromRequest(req.Cards)
		if cerr != nil {
			HandleAPIError(w, r, fmt.Errorf("%w: %w", domain.ErrValidation, cerr), "")
			return
		}
		deck, err = h.decks.CreateDeck(r.Context(), userID, req.Title, cards)
	default:
		HandleAPIError(w, r, fmt.Errorf("%w: cards or text required", domain.ErrValidation),
			"Either cards or text is required")
		return
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("deck created via API", slog.String("deck_id", deck.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck, true))
}

// ListDecks handles GET /decks
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	decks, err := h.decks.ListDecks(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := make([]DeckResponse, 0, len(decks))
	for _, d := range decks {
		resp = append(resp, deckToResponse(d, false))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetDeck handles GET /decks/{deckID}
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	userID, deckID, ok := handleUserIDAndPathUUID(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.decks.GetDeck(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck, true))
}
