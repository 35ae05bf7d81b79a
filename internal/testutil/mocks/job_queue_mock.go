package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueReplay(userID, deckID int64) error {
	args := m.Called(userID, deckID)
	return args.Error(0)
}
