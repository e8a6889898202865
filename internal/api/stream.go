package api

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/scrynotes/memorygame/internal/platform/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// StreamHandler pushes live game snapshots over WebSocket.
type StreamHandler struct {
	host     GameHost
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamHandler creates a StreamHandler. Upgrades are accepted from
// allowedOrigins; an empty list or "*" accepts any origin.
func NewStreamHandler(host GameHost, allowedOrigins []string, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{
		host: host,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger.With(slog.String("component", "stream_handler")),
	}
}

// StreamGame handles GET /games/{gameID}/stream
func (h *StreamHandler) StreamGame(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "gameID")
	if !ok {
		return
	}
	session, err := h.host.Game(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	updates, unsubscribe, err := h.host.Subscribe(userID, sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	defer unsubscribe()

	serveStream(h, w, r, sessionID, session.State(), updates, func(s game.State) bool {
		return s.IsComplete || s.Closed
	})
}

// StreamFriendGame handles GET /friend-games/{gameID}/stream
func (h *StreamHandler) StreamFriendGame(w http.ResponseWriter, r *http.Request) {
	userID, gameID, ok := handleUserIDAndPathUUID(w, r, "gameID")
	if !ok {
		return
	}
	g, err := h.host.FriendGame(userID, gameID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	updates, unsubscribe, err := h.host.SubscribeFriendGame(userID, gameID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	defer unsubscribe()

	serveStream(h, w, r, gameID, g.State(), updates, func(s friend.State) bool {
		return s.Ended
	})
}

// serveStream upgrades the connection, writes current and then every update
// as JSON, and closes after a terminal snapshot or when updates closes.
func serveStream[T any](
	h *StreamHandler,
	w http.ResponseWriter,
	r *http.Request,
	id uuid.UUID,
	current T,
	updates <-chan T,
	terminal func(T) bool,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger).With(slog.String("game_id", id.String()))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	// The reader only services control frames and notices the client leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	write := func(v T) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(v); err != nil {
			log.Debug("websocket write failed", slog.String("error", err.Error()))
			return false
		}
		return true
	}

	if !write(current) || terminal(current) {
		closeStream(conn)
		return
	}

	log.Debug("game stream opened")
	for {
		select {
		case st, ok := <-updates:
			if !ok {
				closeStream(conn)
				return
			}
			if !write(st) || terminal(st) {
				closeStream(conn)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			log.Debug("game stream closed by client")
			return
		case <-r.Context().Done():
			return
		}
	}
}

func closeStream(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
