package play

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/scrynotes/memorygame/internal/platform/logger"
)

// DeckGetter loads a deck owned by a user. It is implemented by service.DeckService.
type DeckGetter interface {
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.CardDeck, error)
}

type liveSession struct {
	session *game.Session
	hub     *broadcaster[game.State]
}

type liveFriendGame struct {
	game *friend.Game
	hub  *broadcaster[friend.State]
}

// Service is the registry of live games.
type Service struct {
	decks   DeckGetter
	games   *game.Engine
	friends *friend.Engine
	logger  *slog.Logger

	mu           sync.Mutex
	sessions     map[uuid.UUID]*liveSession
	sessionOwner map[uuid.UUID]uuid.UUID
	friendGames  map[uuid.UUID]*liveFriendGame
	friendOwner  map[uuid.UUID]uuid.UUID
}

// NewService creates a play Service.
func NewService(decks DeckGetter, games *game.Engine, friends *friend.Engine, logger *slog.Logger) (*Service, error) {
	if decks == nil {
		return nil, fmt.Errorf("%w: decks cannot be nil", domain.ErrValidation)
	}
	if games == nil || friends == nil {
		return nil, fmt.Errorf("%w: engines cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		decks:        decks,
		games:        games,
		friends:      friends,
		logger:       logger.With(slog.String("component", "play_service")),
		sessions:     make(map[uuid.UUID]*liveSession),
		sessionOwner: make(map[uuid.UUID]uuid.UUID),
		friendGames:  make(map[uuid.UUID]*liveFriendGame),
		friendOwner:  make(map[uuid.UUID]uuid.UUID),
	}, nil
}

// StartGame loads the deck and starts a session over it, closing the user's
// previous session if there is one.
func (s *Service) StartGame(
	ctx context.Context,
	userID, deckID uuid.UUID,
	mode domain.GameMode,
) (*game.Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	hub := newBroadcaster[game.State]()
	session, err := s.games.Start(ctx, userID, deck, mode, game.WithObserver(hub.publish))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	previous := s.sessions[s.sessionOwner[userID]]
	if previous != nil {
		delete(s.sessions, previous.session.ID())
	}
	s.sessions[session.ID()] = &liveSession{session: session, hub: hub}
	s.sessionOwner[userID] = session.ID()
	s.mu.Unlock()

	if previous != nil {
		log.Info("replacing live game session",
			slog.String("previous_session_id", previous.session.ID().String()))
		closeSession(previous)
	}
	return session, nil
}

// Game returns a live session owned by userID.
func (s *Service) Game(userID, sessionID uuid.UUID) (*game.Session, error) {
	live, err := s.lookupSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return live.session, nil
}

// Subscribe streams snapshots of a live session. The returned function
// unsubscribes; the channel is also closed when the session is closed.
func (s *Service) Subscribe(userID, sessionID uuid.UUID) (<-chan game.State, func(), error) {
	live, err := s.lookupSession(userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := live.hub.subscribe()
	return ch, cancel, nil
}

// CloseGame closes and forgets a live session.
func (s *Service) CloseGame(userID, sessionID uuid.UUID) error {
	s.mu.Lock()
	live, err := s.lookupSessionLocked(userID, sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	delete(s.sessions, sessionID)
	if s.sessionOwner[userID] == sessionID {
		delete(s.sessionOwner, userID)
	}
	s.mu.Unlock()

	closeSession(live)
	return nil
}

// StartFriendGame starts a friend game, discarding the user's previous one.
func (s *Service) StartFriendGame(ctx context.Context, userID uuid.UUID) *friend.Game {
	hub := newBroadcaster[friend.State]()
	g := s.friends.Start(ctx, userID, friend.WithObserver(hub.publish))

	s.mu.Lock()
	previous := s.friendGames[s.friendOwner[userID]]
	if previous != nil {
		delete(s.friendGames, previous.game.ID())
	}
	s.friendGames[g.ID()] = &liveFriendGame{game: g, hub: hub}
	s.friendOwner[userID] = g.ID()
	s.mu.Unlock()

	if previous != nil {
		previous.hub.close()
	}
	return g
}

// FriendGame returns a live friend game owned by userID.
func (s *Service) FriendGame(userID, gameID uuid.UUID) (*friend.Game, error) {
	live, err := s.lookupFriendGame(userID, gameID)
	if err != nil {
		return nil, err
	}
	return live.game, nil
}

// SubscribeFriendGame streams snapshots of a live friend game.
func (s *Service) SubscribeFriendGame(userID, gameID uuid.UUID) (<-chan friend.State, func(), error) {
	live, err := s.lookupFriendGame(userID, gameID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := live.hub.subscribe()
	return ch, cancel, nil
}

// Shutdown closes every live game.
func (s *Service) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	friendGames := s.friendGames
	s.sessions = make(map[uuid.UUID]*liveSession)
	s.sessionOwner = make(map[uuid.UUID]uuid.UUID)
	s.friendGames = make(map[uuid.UUID]*liveFriendGame)
	s.friendOwner = make(map[uuid.UUID]uuid.UUID)
	s.mu.Unlock()

	for _, live := range sessions {
		closeSession(live)
	}
	for _, live := range friendGames {
		live.hub.close()
	}
	s.logger.Info("closed live games",
		slog.Int("sessions", len(sessions)),
		slog.Int("friend_games", len(friendGames)))
}

func (s *Service) lookupSession(userID, sessionID uuid.UUID) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupSessionLocked(userID, sessionID)
}

func (s *Service) lookupSessionLocked(userID, sessionID uuid.UUID) (*liveSession, error) {
	live, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrGameNotFound
	}
	if live.session.UserID() != userID {
		return nil, ErrNotOwned
	}
	return live, nil
}

func (s *Service) lookupFriendGame(userID, gameID uuid.UUID) (*liveFriendGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live, ok := s.friendGames[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	if live.game.UserID() != userID {
		return nil, ErrNotOwned
	}
	return live, nil
}

// closeSession closes the session first so subscribers see the closed snapshot.
func closeSession(live *liveSession) {
	live.session.Close()
	live.hub.close()
}
