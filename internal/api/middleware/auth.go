package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/api/shared"
	"github.com/scrynotes/memorygame/internal/config"
	"github.com/scrynotes/memorygame/internal/platform/logger"
	"github.com/scrynotes/memorygame/internal/redact"
)

// Token errors
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// clockSkew is the leeway allowed on time-based claims.
const clockSkew = 2 * time.Minute

// tokenQueryParam carries the token on WebSocket upgrades, where browsers
// cannot set an Authorization header.
const tokenQueryParam = "access_token"

// claims are the fields read from tokens issued by the identity service.
type claims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens and puts the caller's user ID
// on the request context.
type Authenticator struct {
	signingKey []byte
	issuer     string
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// NewAuthenticator creates an Authenticator from the auth configuration.
func NewAuthenticator(cfg config.AuthConfig, logger *slog.Logger) (*Authenticator, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		signingKey: []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		timeFunc:   time.Now,
		logger:     logger.With(slog.String("component", "authenticator")),
	}, nil
}

// Authenticate rejects requests without a valid token.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), a.logger)

		token, err := bearerToken(r)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		userID, err := a.ParseToken(token)
		switch {
		case err == nil:
		case errors.Is(err, ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			return
		default:
			log.Debug("rejected bearer token", slog.String("error", redact.Error(err)))
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := shared.WithUserID(r.Context(), userID)
		ctx = logger.WithLogger(ctx, log.With(slog.String("user_id", userID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseToken validates tokenString and returns the user it was issued to.
func (a *Authenticator) ParseToken(tokenString string) (uuid.UUID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(a.timeFunc),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	parsed := &claims{}
	_, err := jwt.ParseWithClaims(tokenString, parsed, func(*jwt.Token) (any, error) {
		return a.signingKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if parsed.UserID != uuid.Nil {
		return parsed.UserID, nil
	}
	userID, err := uuid.Parse(parsed.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user ID", ErrInvalidToken)
	}
	return userID, nil
}

// bearerToken reads the token from the Authorization header, or from the
// access_token query parameter on WebSocket upgrades.
func bearerToken(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", ErrMissingToken
		}
		return strings.TrimSpace(token), nil
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		if token := r.URL.Query().Get(tokenQueryParam); token != "" {
			return token, nil
		}
	}
	return "", ErrMissingToken
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
