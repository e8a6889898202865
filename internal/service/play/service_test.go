package play_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/distractor"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/domain/scoring"
	"github.com/scrynotes/memorygame/internal/friend"
	"github.com/scrynotes/memorygame/internal/game"
	"github.com/scrynotes/memorygame/internal/service/play"
	"github.com/scrynotes/memorygame/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDeckGetter struct {
	mock.Mock
}

func (m *mockDeckGetter) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*domain.CardDeck, error) {
	args := m.Called(ctx, userID, deckID)
	if deck := args.Get(0); deck != nil {
		return deck.(*domain.CardDeck), args.Error(1)
	}
	return nil, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDeck(t *testing.T, userID uuid.UUID) *domain.CardDeck {
	t.Helper()
	a, err := domain.NewFlashCard("2+2?", "4", domain.DifficultyEasy)
	require.NoError(t, err)
	b, err := domain.NewFlashCard("3+3?", "6", domain.DifficultyMedium)
	require.NoError(t, err)
	deck, err := domain.NewCardDeck(userID, "Sums", []domain.FlashCard{a, b})
	require.NoError(t, err)
	return deck
}

func newService(t *testing.T, decks play.DeckGetter) *play.Service {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.RevealDelay = time.Hour

	games, err := game.NewEngine(cfg, scoring.NewDefaultService(),
		distractor.NewGenerator(nil, discardLogger(), distractor.WithSeed(1)), nil, discardLogger())
	require.NoError(t, err)
	friends, err := friend.NewEngine(scoring.NewDefaultService(), nil, discardLogger())
	require.NoError(t, err)

	svc, err := play.NewService(decks, games, friends, discardLogger())
	require.NoError(t, err)
	t.Cleanup(svc.Shutdown)
	return svc
}

func TestNewServiceValidation(t *testing.T) {
	t.Parallel()

	_, err := play.NewService(nil, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = play.NewService(&mockDeckGetter{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestStartGameLookupAndOwnership(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := newDeck(t, userID)
	decks := &mockDeckGetter{}
	decks.On("GetDeck", mock.Anything, userID, deck.ID).Return(deck, nil)
	svc := newService(t, decks)

	session, err := svc.StartGame(context.Background(), userID, deck.ID, domain.GameModeFlashcard)
	require.NoError(t, err)

	got, err := svc.Game(userID, session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = svc.Game(uuid.New(), session.ID())
	assert.ErrorIs(t, err, play.ErrNotOwned)

	_, err = svc.Game(userID, uuid.New())
	assert.ErrorIs(t, err, play.ErrGameNotFound)

	decks.AssertExpectations(t)
}

func TestStartGamePropagatesDeckErrors(t *testing.T) {
	t.Parallel()

	userID, deckID := uuid.New(), uuid.New()
	decks := &mockDeckGetter{}
	decks.On("GetDeck", mock.Anything, userID, deckID).Return(nil, store.ErrDeckNotFound)
	svc := newService(t, decks)

	_, err := svc.StartGame(context.Background(), userID, deckID, domain.GameModeQuiz)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestStartGameRejectsFriendMode(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := newDeck(t, userID)
	decks := &mockDeckGetter{}
	decks.On("GetDeck", mock.Anything, userID, deck.ID).Return(deck, nil)
	svc := newService(t, decks)

	_, err := svc.StartGame(context.Background(), userID, deck.ID, domain.GameModeFriend)
	assert.ErrorIs(t, err, domain.ErrInvalidGameMode)
}

func TestStartingNewGameClosesPrevious(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := newDeck(t, userID)
	decks := &mockDeckGetter{}
	decks.On("GetDeck", mock.Anything, userID, deck.ID).Return(deck, nil)
	svc := newService(t, decks)

	first, err := svc.StartGame(context.Background(), userID, deck.ID, domain.GameModeFlashcard)
	require.NoError(t, err)
	updates, _, err := svc.Subscribe(userID, first.ID())
	require.NoError(t, err)

	second, err := svc.StartGame(context.Background(), userID, deck.ID, domain.GameModeFlashcard)
	require.NoError(t, err)

	assert.True(t, first.State().Closed)
	assert.False(t, second.State().Closed)
	_, err = svc.Game(userID, first.ID())
	assert.ErrorIs(t, err, play.ErrGameNotFound)

	var last game.State
	for st := range updates {
		last = st
	}
	assert.True(t, last.Closed, "subscribers see the closed snapshot before the stream ends")
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := newDeck(t, userID)
	decks := &mockDeckGetter{}
	decks.On("GetDeck", mock.Anything, userID, deck.ID).Return(deck, nil)
	svc := newService(t, decks)

	session, err := svc.StartGame(context.Background(), userID, deck.ID, domain.GameModeFlashcard)
	require.NoError(t, err)

	updates, unsubscribe, err := svc.Subscribe(userID, session.ID())
	require.NoError(t, err)

	require.NoError(t, session.MarkCard(true))
	st := <-updates
	assert.Equal(t, 1, st.CurrentIndex)
	assert.Equal(t, 1, st.CorrectAnswers)

	unsubscribe()
	unsubscribe()
	_, open := <-updates
	assert.False(t, open)

	_, _, err = svc.Subscribe(uuid.New(), session.ID())
	assert.ErrorIs(t, err, play.ErrNotOwned)
}

func TestCloseGame(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deck := newDeck(t, userID)
	decks := &mockDeckGetter{}
	decks.On("GetDeck", mock.Anything, userID, deck.ID).Return(deck, nil)
	svc := newService(t, decks)

	session, err := svc.StartGame(context.Background(), userID, deck.ID, domain.GameModeFlashcard)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CloseGame(uuid.New(), session.ID()), play.ErrNotOwned)
	require.NoError(t, svc.CloseGame(userID, session.ID()))
	assert.True(t, session.State().Closed)
	assert.ErrorIs(t, svc.CloseGame(userID, session.ID()), play.ErrGameNotFound)
}

func TestFriendGames(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockDeckGetter{})
	userID := uuid.New()

	first := svc.StartFriendGame(context.Background(), userID)
	updates, _, err := svc.SubscribeFriendGame(userID, first.ID())
	require.NoError(t, err)

	require.NoError(t, first.SubmitQuestion("Who wrote Dune?"))
	st := <-updates
	assert.Equal(t, friend.PhaseWaitingForPlayer, st.Phase)

	got, err := svc.FriendGame(userID, first.ID())
	require.NoError(t, err)
	assert.Same(t, first, got)

	_, err = svc.FriendGame(uuid.New(), first.ID())
	assert.ErrorIs(t, err, play.ErrNotOwned)

	second := svc.StartFriendGame(context.Background(), userID)
	_, err = svc.FriendGame(userID, first.ID())
	assert.ErrorIs(t, err, play.ErrGameNotFound)
	_, err = svc.FriendGame(userID, second.ID())
	require.NoError(t, err)

	_, open := <-updates
	assert.False(t, open, "replaced friend game stream is closed")
}
