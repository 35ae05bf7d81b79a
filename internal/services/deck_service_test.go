package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func TestDeckService_CreateDeck(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := NewDeckService(decks, new(mocks.MockCardRepository))
	ctx := context.Background()

	decks.On("Insert", ctx, models.Deck{UserID: 7, Name: "Spanish"}).Return(int64(3), nil)
	decks.On("Get", ctx, int64(3)).Return(&models.Deck{ID: 3, UserID: 7, Name: "Spanish"}, nil)

	deck, err := svc.CreateDeck(ctx, 7, "  Spanish ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deck.ID)
	decks.AssertExpectations(t)
}

func TestDeckService_CreateDeckRequiresName(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := NewDeckService(decks, new(mocks.MockCardRepository))

	_, err := svc.CreateDeck(context.Background(), 7, "   ")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrorStatus(t, err))
	decks.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeckService_AddCardStartsNew(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	svc := NewDeckService(decks, cards)
	ctx := context.Background()

	decks.On("Get", ctx, int64(3)).Return(&models.Deck{ID: 3, UserID: 7}, nil)
	cards.On("Insert", ctx, mock.MatchedBy(func(c models.Card) bool {
		return c.DeckID == 3 && c.DueDate == nil && c.Repetition == 0 && c.EaseFactor == flashcard.DefaultEaseFactor
	})).Return(int64(11), nil)
	cards.On("Get", ctx, int64(11), int64(7)).Return(&models.Card{ID: 11, DeckID: 3, Version: 1}, nil)

	card, err := svc.AddCard(ctx, 7, 3, "hola", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(11), card.ID)
	cards.AssertExpectations(t)
}

func TestDeckService_AddCardToForeignDeck(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	cards := new(mocks.MockCardRepository)
	svc := NewDeckService(decks, cards)
	ctx := context.Background()

	decks.On("Get", ctx, int64(3)).Return(&models.Deck{ID: 3, UserID: 8}, nil)

	_, err := svc.AddCard(ctx, 7, 3, "hola", "hello")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrorStatus(t, err))
	cards.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeckService_ListDecksNeverNil(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	svc := NewDeckService(decks, new(mocks.MockCardRepository))
	decks.On("ListByUser", mock.Anything, int64(7)).Return(nil, nil)

	list, err := svc.ListDecks(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, list)
}
