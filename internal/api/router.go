package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	apimiddleware "github.com/scrynotes/memorygame/internal/api/middleware"
	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/service"
)

// healthTimeout bounds the dependency check behind GET /health.
const healthTimeout = 2 * time.Second

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Decks          service.DeckService
	Results        service.ResultService
	Games          GameHost
	Authenticator  *apimiddleware.Authenticator
	AllowedOrigins []string
	// HealthCheck reports whether dependencies are reachable. Optional.
	HealthCheck func(ctx context.Context) error
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler for the API.
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	deckHandler := NewDeckHandler(cfg.Decks, log)
	resultHandler := NewResultHandler(cfg.Results, log)
	gameHandler := NewGameHandler(cfg.Games, log)
	friendHandler := NewFriendHandler(cfg.Games, log)
	streamHandler := NewStreamHandler(cfg.Games, cfg.AllowedOrigins, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.NewTraceMiddleware(log))
	r.Use(corsHandler(cfg.AllowedOrigins))

	r.Get("/health", healthHandler(cfg.HealthCheck, log))

	r.Group(func(r chi.Router) {
		r.Use(cfg.Authenticator.Authenticate)

		r.Route("/decks", func(r chi.Router) {
			r.Post("/", deckHandler.CreateDeck)
			r.Get("/", deckHandler.ListDecks)
			r.Get("/{deckID}", deckHandler.GetDeck)
		})

		r.Get("/results", resultHandler.ListResults)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", gameHandler.StartGame)
			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", gameHandler.GetGame)
				r.Delete("/", gameHandler.CloseGame)
				r.Post("/selection", gameHandler.SelectAnswer)
				r.Post("/answer", gameHandler.SubmitAnswer)
				r.Post("/skip", gameHandler.Skip)
				r.Post("/mark", gameHandler.MarkCard)
				r.Post("/next", gameHandler.Next)
				r.Get("/stream", streamHandler.StreamGame)
			})
		})

		r.Route("/friend-games", func(r chi.Router) {
			r.Post("/", friendHandler.StartGame)
			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", friendHandler.GetGame)
				r.Post("/question", friendHandler.SubmitQuestion)
				r.Post("/handoff/player", friendHandler.ConfirmHandoffToPlayer)
				r.Post("/answer", friendHandler.SubmitAnswer)
				r.Post("/handoff/quiz-master", friendHandler.ConfirmHandoffToQuizMaster)
				r.Post("/judgement", friendHandler.Judge)
				r.Post("/next", friendHandler.Next)
				r.Post("/end", friendHandler.End)
				r.Get("/stream", streamHandler.StreamFriendGame)
			})
		})
	})

	return r
}

func corsHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin"},
		ExposedHeaders: []string{apimiddleware.TraceHeader},
		MaxAge:         86400,
	}).Handler
}

func healthHandler(check func(ctx context.Context) error, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := check(ctx); err != nil {
				log.Warn("health check failed", slog.String("error", err.Error()))
				shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
