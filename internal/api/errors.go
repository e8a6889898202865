package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/scrynotes/memorygame/internal/generation"
	"github.com/scrynotes/memorygame/internal/service"
	"github.com/scrynotes/memorygame/internal/service/play"
	"github.com/scrynotes/memorygame/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, play.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, play.ErrGameNotFound):
		return http.StatusNotFound

	case errors.Is(err, game.ErrSessionComplete),
		errors.Is(err, game.ErrSessionClosed),
		errors.Is(err, game.ErrAnswerRevealed),
		errors.Is(err, game.ErrNotRevealed),
		errors.Is(err, friend.ErrInvalidTransition),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrEmptyDeck),
		errors.Is(err, generation.ErrNoCardsExtracted):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidGameMode),
		errors.Is(err, game.ErrWrongMode),
		errors.Is(err, friend.ErrBlankQuestion),
		errors.Is(err, friend.ErrBlankAnswer),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrParserUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that carries no
// internal detail.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this deck"
	case errors.Is(err, play.ErrNotOwned):
		return "You do not own this game"
	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"
	case errors.Is(err, play.ErrGameNotFound):
		return "Game not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	case errors.Is(err, game.ErrSessionComplete):
		return "Game is already complete"
	case errors.Is(err, game.ErrSessionClosed):
		return "Game has been closed"
	case errors.Is(err, game.ErrAnswerRevealed):
		return "This card has already been answered"
	case errors.Is(err, game.ErrNotRevealed):
		return "Answer the current card first"
	case errors.Is(err, game.ErrWrongMode):
		return "Not available in this game mode"
	case errors.Is(err, friend.ErrInvalidTransition):
		return "Not allowed at this point in the game"
	case errors.Is(err, friend.ErrBlankQuestion):
		return "Question cannot be blank"
	case errors.Is(err, friend.ErrBlankAnswer):
		return "Answer cannot be blank"
	case errors.Is(err, domain.ErrEmptyDeck):
		return "Deck has no cards"
	case errors.Is(err, domain.ErrInvalidGameMode):
		return "Invalid game mode"
	case errors.Is(err, generation.ErrNoCardsExtracted):
		return "No question and answer pairs were found in the text"
	case errors.Is(err, service.ErrParserUnavailable):
		return "Creating decks from text is not available"
	case errors.Is(err, generation.ErrGenerationFailed):
		return "Could not process the text, please try again"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body required"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message overrides the safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}

// HandleValidationError writes a 400 for a request that failed struct validation.
func HandleValidationError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
}

// SanitizeValidationError turns validator output into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return "Invalid " + strings.ToLower(fe.Field()) + ": " + validationTagMessage(fe.Tag())
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid item"
	default:
		return "validation failed"
	}
}
