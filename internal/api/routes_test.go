package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/testutil"
	"github.com/vytor/flashdeck/internal/testutil/mocks"

	_ "time/tzdata"
)

type readyStub struct{ err error }

func (s readyStub) Ready(context.Context) error { return s.err }

type RoutesTestSuite struct {
	suite.Suite
	handler http.Handler
	queue   *mocks.MockJobQueue
	userID  int64
}

func (s *RoutesTestSuite) SetupTest() {
	s.userID = 0
	database := testutil.NewTestDB(s.T())
	s.T().Cleanup(func() { testutil.MustClose(s.T(), database) })

	users := sqlite.NewUserRepository(database)
	decks := sqlite.NewDeckRepository(database)
	cards := sqlite.NewCardRepository(database)
	events := sqlite.NewReviewEventRepository(database)
	s.queue = new(mocks.MockJobQueue)

	srv := &Server{
		UserService:   services.NewUserService(users),
		DeckService:   services.NewDeckService(decks, cards),
		StudyService:  services.NewStudyService(decks, cards, 20, nil),
		ReviewService: services.NewReviewService(cards, nil),
		StatsService:  services.NewStatsService(users, cards, events, time.UTC, nil),
		ReplayService: services.NewReplayService(decks, s.queue),
		DB:            readyStub{},
	}
	s.handler = srv.Routes()

	var user models.User
	s.do(http.MethodPost, "/users", map[string]string{"username": "ana", "timeZone": "Europe/Lisbon"}, http.StatusCreated, &user)
	s.userID = user.ID
}

func TestRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

// do sends a request as the suite user and decodes the JSON response into
// out. A string body is sent verbatim.
func (s *RoutesTestSuite) do(method, path string, body any, wantStatus int, out any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.userID != 0 {
		req.Header.Set(userHeaderName, strconv.FormatInt(s.userID, 10))
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	s.Require().Equal(wantStatus, rec.Code, "body: %s", rec.Body.String())
	if out != nil {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *RoutesTestSuite) createDeckWithCard() (models.Deck, models.Card) {
	var deck models.Deck
	s.do(http.MethodPost, "/decks", map[string]string{"name": "Portuguese"}, http.StatusCreated, &deck)
	var card models.Card
	s.do(http.MethodPost, "/decks/"+strconv.FormatInt(deck.ID, 10)+"/cards",
		map[string]string{"front": "obrigado", "back": "thank you"}, http.StatusCreated, &card)
	return deck, card
}

func (s *RoutesTestSuite) TestHealthAndReady() {
	s.do(http.MethodGet, "/health", nil, http.StatusOK, nil)
	s.do(http.MethodGet, "/ready", nil, http.StatusOK, nil)
}

func (s *RoutesTestSuite) TestRequiresUser() {
	s.userID = 0
	var resp errorResponse
	s.do(http.MethodGet, "/decks", nil, http.StatusUnauthorized, &resp)
	s.Equal("UNAUTHORIZED", resp.Error.Code)

	s.userID = 9999
	s.do(http.MethodGet, "/decks", nil, http.StatusUnauthorized, nil)
}

func (s *RoutesTestSuite) TestCurrentUserAndTimeZone() {
	var user models.User
	s.do(http.MethodGet, "/users/me", nil, http.StatusOK, &user)
	s.Equal("ana", user.Username)
	s.Equal("Europe/Lisbon", user.TimeZone)

	s.do(http.MethodPut, "/users/me/timezone", map[string]string{"timeZone": "Asia/Tokyo"}, http.StatusOK, &user)
	s.Equal("Asia/Tokyo", user.TimeZone)

	var resp errorResponse
	s.do(http.MethodPut, "/users/me/timezone", map[string]string{"timeZone": "Atlantis/Capital"}, http.StatusBadRequest, &resp)
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
}

func (s *RoutesTestSuite) TestStudyAndReviewFlow() {
	deck, card := s.createDeckWithCard()
	s.Nil(card.DueDate)

	var queue services.StudyQueue
	s.do(http.MethodGet, "/decks/"+strconv.FormatInt(deck.ID, 10)+"/queue?limit=10", nil, http.StatusOK, &queue)
	s.NotEmpty(queue.SessionID)
	s.Equal(1, queue.NewCount)
	s.Require().Len(queue.Cards, 1)

	var res services.ReviewResult
	s.do(http.MethodPost, "/cards/"+strconv.FormatInt(card.ID, 10)+"/review", map[string]any{
		"qualityRating":   4,
		"durationSeconds": 2.5,
		"sessionId":       queue.SessionID,
		"version":         card.Version,
	}, http.StatusOK, &res)
	s.Equal(1, res.Card.Repetition)
	s.Equal(1, res.Card.Interval)
	s.Equal(card.Version+1, res.Card.Version)
	s.Equal(queue.SessionID, res.Event.SessionID)

	// The same client version again is now stale.
	var resp errorResponse
	s.do(http.MethodPost, "/cards/"+strconv.FormatInt(card.ID, 10)+"/review", map[string]any{
		"qualityRating": 4,
		"version":       card.Version,
	}, http.StatusConflict, &resp)
	s.Equal("STALE_CARD_VERSION", resp.Error.Code)

	s.do(http.MethodGet, "/decks/"+strconv.FormatInt(deck.ID, 10)+"/queue?session="+queue.SessionID, nil, http.StatusOK, &queue)
	s.Empty(queue.Cards)
	s.False(queue.EmptyDeck)

	var class map[string]any
	s.do(http.MethodGet, "/cards/"+strconv.FormatInt(card.ID, 10)+"/classification", nil, http.StatusOK, &class)
	s.Equal("Learning", class["classification"])

	var st map[string]int
	s.do(http.MethodGet, "/stats/streak", nil, http.StatusOK, &st)
	s.Equal(1, st["current"])
	s.Equal(1, st["longest"])

	var snap map[string]any
	s.do(http.MethodGet, "/stats?range=7d", nil, http.StatusOK, &snap)
	s.EqualValues(1, snap["totalReviews"])
	s.EqualValues(1, snap["retentionRate"])
}

func (s *RoutesTestSuite) TestInvalidRating() {
	_, card := s.createDeckWithCard()
	path := "/cards/" + strconv.FormatInt(card.ID, 10) + "/review"

	for _, body := range []map[string]any{
		{"qualityRating": 6},
		{"qualityRating": -1},
		{"qualityRating": 2.5},
		{},
	} {
		var resp errorResponse
		s.do(http.MethodPost, path, body, http.StatusUnprocessableEntity, &resp)
		s.Equal("INVALID_RATING", resp.Error.Code)
	}

	var cards []models.Card
	s.do(http.MethodGet, "/decks/"+strconv.FormatInt(card.DeckID, 10)+"/cards", nil, http.StatusOK, &cards)
	s.Require().Len(cards, 1)
	s.Equal(card.Version, cards[0].Version)
	s.Nil(cards[0].DueDate)
}

func (s *RoutesTestSuite) TestUndecodableRatingIsInvalidRating() {
	_, card := s.createDeckWithCard()
	path := "/cards/" + strconv.FormatInt(card.ID, 10) + "/review"

	for _, body := range []string{
		`{"qualityRating": 1e400}`,
		`{"qualityRating": "3"}`,
		`{"qualityRating": null}`,
		`{"qualityRating": true}`,
		`{"qualityRating": [4]}`,
	} {
		var resp errorResponse
		s.do(http.MethodPost, path, body, http.StatusUnprocessableEntity, &resp)
		s.Equal("INVALID_RATING", resp.Error.Code, body)
	}

	var stored []models.Card
	s.do(http.MethodGet, "/decks/"+strconv.FormatInt(card.DeckID, 10)+"/cards", nil, http.StatusOK, &stored)
	s.Require().Len(stored, 1)
	s.Equal(card.Version, stored[0].Version)
}

func (s *RoutesTestSuite) TestMalformedReviewBodyIsBadRequest() {
	_, card := s.createDeckWithCard()

	var resp errorResponse
	s.do(http.MethodPost, "/cards/"+strconv.FormatInt(card.ID, 10)+"/review", `{"qualityRating": 4`, http.StatusBadRequest, &resp)
	s.Equal("BAD_REQUEST", resp.Error.Code)
}

func (s *RoutesTestSuite) TestStatisticsRejectsUnknownRange() {
	var resp errorResponse
	s.do(http.MethodGet, "/stats?range=yesterday", nil, http.StatusBadRequest, &resp)
	s.Equal("VALIDATION_ERROR", resp.Error.Code)
}

func (s *RoutesTestSuite) TestEmptyStatistics() {
	var snap map[string]any
	s.do(http.MethodGet, "/stats", nil, http.StatusOK, &snap)
	s.Equal("30d", snap["range"])
	s.Nil(snap["retentionRate"])
	s.Nil(snap["averageInterval"])
}

func (s *RoutesTestSuite) TestForeignDeckIsNotFound() {
	deck, _ := s.createDeckWithCard()

	var other models.User
	s.userID = 0
	s.do(http.MethodPost, "/users", map[string]string{"username": "bruno"}, http.StatusCreated, &other)
	s.userID = other.ID

	s.do(http.MethodGet, "/decks/"+strconv.FormatInt(deck.ID, 10)+"/cards", nil, http.StatusNotFound, nil)
	s.do(http.MethodGet, "/decks/"+strconv.FormatInt(deck.ID, 10)+"/queue", nil, http.StatusNotFound, nil)
}

func (s *RoutesTestSuite) TestReplayEnqueues() {
	deck, _ := s.createDeckWithCard()
	s.queue.On("EnqueueReplay", s.userID, deck.ID).Return(nil)

	s.do(http.MethodPost, "/decks/"+strconv.FormatInt(deck.ID, 10)+"/replay", nil, http.StatusAccepted, nil)
	s.queue.AssertExpectations(s.T())
}

func (s *RoutesTestSuite) TestBadDeckID() {
	s.do(http.MethodGet, "/decks/abc/cards", nil, http.StatusBadRequest, nil)
}
