package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scrynotes/memorygame/internal/domain"
	"github.com/scrynotes/memorygame/internal/store"
	"github.com/stretchr/testify/mock"
)

type mockDeckStore struct {
	mock.Mock
}

func (m *mockDeckStore) Create(ctx context.Context, deck *domain.CardDeck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *mockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CardDeck, error) {
	args := m.Called(ctx, id)
	deck, _ := args.Get(0).(*domain.CardDeck)
	return deck, args.Error(1)
}

func (m *mockDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CardDeck, error) {
	args := m.Called(ctx, userID)
	decks, _ := args.Get(0).([]*domain.CardDeck)
	return decks, args.Error(1)
}

func (m *mockDeckStore) RecordPlay(ctx context.Context, deckID uuid.UUID, score int, outcomes []domain.CardOutcome) error {
	return m.Called(ctx, deckID, score, outcomes).Error(0)
}

func (m *mockDeckStore) WithTx(*sql.Tx) store.DeckStore {
	return m
}

type mockResultStore struct {
	mock.Mock
}

func (m *mockResultStore) Save(ctx context.Context, result *domain.GameResult) error {
	return m.Called(ctx, result).Error(0)
}

func (m *mockResultStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.GameResult, error) {
	args := m.Called(ctx, userID, limit)
	results, _ := args.Get(0).([]*domain.GameResult)
	return results, args.Error(1)
}

func (m *mockResultStore) WithTx(*sql.Tx) store.ResultStore {
	return m
}

type mockParser struct {
	mock.Mock
}

func (m *mockParser) ParseContent(ctx context.Context, text string) ([]domain.FlashCard, error) {
	args := m.Called(ctx, text)
	cards, _ := args.Get(0).([]domain.FlashCard)
	return cards, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
