package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

type StudyServiceTestSuite struct {
	suite.Suite
	decks *mocks.MockDeckRepository
	cards *mocks.MockCardRepository
	svc   StudyService
	ctx   context.Context
}

func (s *StudyServiceTestSuite) SetupTest() {
	s.decks = new(mocks.MockDeckRepository)
	s.cards = new(mocks.MockCardRepository)
	s.svc = NewStudyService(s.decks, s.cards, 20, fixedClock)
	s.ctx = context.Background()
}

func TestStudyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StudyServiceTestSuite))
}

func dueCard(id int64, dueIn time.Duration) models.Card {
	due := fixedNow.Add(dueIn)
	return models.Card{ID: id, DeckID: 1, Repetition: 2, Interval: 6, EaseFactor: 2.5, DueDate: &due, Version: 3}
}

func (s *StudyServiceTestSuite) TestQueue_GeneratesSessionAndSkipsFutureCards() {
	s.decks.On("Get", s.ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 7}, nil)
	s.cards.On("ListByDeck", s.ctx, int64(1)).Return([]models.Card{
		*newCard(10, 1),
		dueCard(11, -time.Hour),
		dueCard(12, -48*time.Hour),
		dueCard(13, 24*time.Hour),
	}, nil)

	q, err := s.svc.Queue(s.ctx, 7, 1, "", 0)
	s.Require().NoError(err)
	s.NotEmpty(q.SessionID)
	s.Equal(2, q.DueCount)
	s.Equal(1, q.NewCount)
	s.Equal(4, q.TotalCards)
	s.False(q.EmptyDeck)
	ids := make([]int64, 0, len(q.Cards))
	for _, c := range q.Cards {
		ids = append(ids, c.ID)
	}
	s.ElementsMatch([]int64{10, 11, 12}, ids)
}

func (s *StudyServiceTestSuite) TestQueue_SameSessionSameOrder() {
	var cards []models.Card
	for i := int64(1); i <= 8; i++ {
		cards = append(cards, *newCard(i, 1))
	}
	s.decks.On("Get", s.ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 7}, nil)
	s.cards.On("ListByDeck", s.ctx, int64(1)).Return(cards, nil)

	first, err := s.svc.Queue(s.ctx, 7, 1, "session-a", 5)
	s.Require().NoError(err)
	second, err := s.svc.Queue(s.ctx, 7, 1, "session-a", 5)
	s.Require().NoError(err)

	s.Equal("session-a", first.SessionID)
	s.Len(first.Cards, 5)
	s.Equal(first.Cards, second.Cards)
}

func (s *StudyServiceTestSuite) TestQueue_EmptyDeck() {
	s.decks.On("Get", s.ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 7}, nil)
	s.cards.On("ListByDeck", s.ctx, int64(1)).Return(nil, nil)

	q, err := s.svc.Queue(s.ctx, 7, 1, "x", 0)
	s.Require().NoError(err)
	s.True(q.EmptyDeck)
	s.NotNil(q.Cards)
	s.Empty(q.Cards)
}

func (s *StudyServiceTestSuite) TestQueue_OtherUsersDeck() {
	s.decks.On("Get", s.ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 8}, nil)

	_, err := s.svc.Queue(s.ctx, 7, 1, "", 0)
	s.Require().Error(err)
	s.Equal(http.StatusNotFound, appErrorStatus(s.T(), err))
	s.cards.AssertNumberOfCalls(s.T(), "ListByDeck", 0)
}

func (s *StudyServiceTestSuite) TestQueue_LimitOutOfRange() {
	_, err := s.svc.Queue(s.ctx, 7, 1, "", MaxSessionLimit+1)
	s.Require().Error(err)
	s.Equal(http.StatusBadRequest, appErrorStatus(s.T(), err))
}

func (s *StudyServiceTestSuite) TestClassify() {
	s.cards.On("Get", s.ctx, int64(11), int64(7)).Return(&models.Card{ID: 11, Repetition: 3, Interval: 30, EaseFactor: 2.5, DueDate: ptrTime(fixedNow.Add(72 * time.Hour))}, nil)

	c, err := s.svc.Classify(s.ctx, 7, 11)
	s.Require().NoError(err)
	s.Equal(flashcard.ClassMastered, c.Classification)
}

func (s *StudyServiceTestSuite) TestDueCards_NeverNil() {
	s.cards.On("DueForUser", s.ctx, int64(7), fixedNow).Return(nil, nil)

	cards, err := s.svc.DueCards(s.ctx, 7)
	s.Require().NoError(err)
	s.NotNil(cards)
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestQueue_UsesDefaultLimit(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	svc := NewStudyService(decks, cards, 2, fixedClock)
	ctx := context.Background()

	decks.On("Get", ctx, int64(1)).Return(&models.Deck{ID: 1, UserID: 7}, nil)
	cards.On("ListByDeck", ctx, int64(1)).Return([]models.Card{*newCard(1, 1), *newCard(2, 1), *newCard(3, 1)}, nil)

	q, err := svc.Queue(ctx, 7, 1, "", 0)
	require.NoError(t, err)
	assert.Len(t, q.Cards, 2)
}
