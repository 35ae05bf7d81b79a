package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Get(ctx context.Context, id, userID int64) (*models.Card, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) ListByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) DueForUser(ctx context.Context, userID int64, now time.Time) ([]models.Card, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) CountByDeck(ctx context.Context, deckID int64) (int, error) {
	args := m.Called(ctx, deckID)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) ApplyReview(ctx context.Context, card models.Card, event models.ReviewEvent) (*models.Card, *models.ReviewEvent, error) {
	args := m.Called(ctx, card, event)
	var c *models.Card
	var ev *models.ReviewEvent
	if v := args.Get(0); v != nil {
		c = v.(*models.Card)
	}
	if v := args.Get(1); v != nil {
		ev = v.(*models.ReviewEvent)
	}
	return c, ev, args.Error(2)
}

func (m *MockCardRepository) UpdateSchedule(ctx context.Context, card models.Card) (*models.Card, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}
