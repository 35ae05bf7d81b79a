package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockReviewEventRepository is a mock implementation of repository.ReviewEventRepository
type MockReviewEventRepository struct {
	mock.Mock
}

func (m *MockReviewEventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.ReviewEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewEvent), args.Error(1)
}

func (m *MockReviewEventRepository) ListByUser(ctx context.Context, userID int64, from, to *time.Time) ([]models.ReviewEvent, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewEvent), args.Error(1)
}

func (m *MockReviewEventRepository) ListByCard(ctx context.Context, cardID int64) ([]models.ReviewEvent, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewEvent), args.Error(1)
}

func (m *MockReviewEventRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
