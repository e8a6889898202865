package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
)

// CardRequest is one question/answer pair in a deck creation request.
type CardRequest struct {
	Question   string `json:"question"             validate:"required,max=1000"`
	Answer     string `json:"answer"               validate:"required,max=500"`
	Hint       string `json:"hint,omitempty"       validate:"max=500"`
	Category   string `json:"category,omitempty"   validate:"max=100"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

// CreateDeckRequest creates a deck from explicit cards, or from freeform
// text when Text is set.
type CreateDeckRequest struct {
	Title string        `json:"title"           validate:"required,max=200"`
	Cards []CardRequest `json:"cards,omitempty" validate:"omitempty,max=500,dive"`
	Text  string        `json:"text,omitempty"  validate:"max=50000"`
}

// CardResponse is a card as stored in a deck.
type CardResponse struct {
	ID            uuid.UUID         `json:"id"`
	Question      string            `json:"question"`
	Answer        string            `json:"answer"`
	Hint          string            `json:"hint,omitempty"`
	Category      string            `json:"category,omitempty"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	TimesReviewed int               `json:"times_reviewed"`
	TimesCorrect  int               `json:"times_correct"`
}

// DeckResponse describes a deck. Cards are omitted from list responses.
type DeckResponse struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	CardCount   int            `json:"card_count"`
	TimesPlayed int            `json:"times_played"`
	BestScore   int            `json:"best_score"`
	Cards       []CardResponse `json:"cards,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ResultResponse is one finished game in the caller's history.
// DeckID is omitted for friend games.
type ResultResponse struct {
	ID             uuid.UUID       `json:"id"`
	SessionID      uuid.UUID       `json:"session_id"`
	DeckID         *uuid.UUID      `json:"deck_id,omitempty"`
	Mode           domain.GameMode `json:"mode"`
	Score          int             `json:"score"`
	CorrectAnswers int             `json:"correct_answers"`
	TotalCards     int             `json:"total_cards"`
	MaxStreak      int             `json:"max_streak"`
	TimeTakenMs    int64           `json:"time_taken_ms"`
	PlayedAt       time.Time       `json:"played_at"`
}

// StartGameRequest starts a single-player session.
type StartGameRequest struct {
	DeckID uuid.UUID `json:"deck_id" validate:"required"`
	Mode   string    `json:"mode"    validate:"required,oneof=flashcard quiz speed_round"`
}

// AnswerRequest carries a selected or submitted answer.
type AnswerRequest struct {
	Answer string `json:"answer" validate:"max=500"`
}

// MarkRequest grades a flashcard.
type MarkRequest struct {
	Known *bool `json:"known" validate:"required"`
}

// QuestionRequest carries the quiz master's question in friend mode.
type QuestionRequest struct {
	Question string `json:"question" validate:"required,max=1000"`
}

// FriendAnswerRequest carries the player's answer in friend mode.
type FriendAnswerRequest struct {
	Answer string `json:"answer" validate:"required,max=500"`
}

// JudgementRequest carries the quiz master's verdict.
type JudgementRequest struct {
	Correct *bool `json:"correct" validate:"required"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

func deckToResponse(deck *domain.CardDeck, withCards bool) DeckResponse {
	resp := DeckResponse{
		ID:          deck.ID,
		Title:       deck.Title,
		CardCount:   len(deck.Cards),
		TimesPlayed: deck.TimesPlayed,
		BestScore:   deck.BestScore,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
	if withCards {
		resp.Cards = make([]CardResponse, 0, len(deck.Cards))
		for _, c := range deck.Cards {
			resp.Cards = append(resp.Cards, CardResponse{
				ID:            c.ID,
				Question:      c.Question,
				Answer:        c.Answer,
				Hint:          c.Hint,
				Category:      c.Category,
				Difficulty:    c.Difficulty,
				TimesReviewed: c.TimesReviewed,
				TimesCorrect:  c.TimesCorrect,
			})
		}
	}
	return resp
}

func resultToResponse(r *domain.GameResult) ResultResponse {
	resp := ResultResponse{
		ID:             r.ID,
		SessionID:      r.SessionID,
		Mode:           r.Mode,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		TotalCards:     r.TotalCards,
		MaxStreak:      r.MaxStreak,
		TimeTakenMs:    r.TimeTakenMs,
		PlayedAt:       r.PlayedAt,
	}
	if r.DeckID != uuid.Nil {
		deckID := r.DeckID
		resp.DeckID = &deckID
	}
	return resp
}

// cardsFromRequest converts request cards into domain cards.
func cardsFromRequest(reqs []CardRequest) ([]domain.FlashCard, error) {
	cards := make([]domain.FlashCard, 0, len(reqs))
	for _, req := range reqs {
		difficulty, err := domain.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, err
		}
		card, err := domain.NewFlashCard(req.Question, req.Answer, difficulty)
		if err != nil {
			return nil, err
		}
		card.Hint = req.Hint
		card.Category = req.Category
		cards = append(cards, card)
	}
	return cards, nil
}
