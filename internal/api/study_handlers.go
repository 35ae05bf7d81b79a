package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/services"
)

// reviewRequest keeps the rating as raw JSON so a missing, non-numeric or
// out-of-range rating is reported as INVALID_RATING rather than a decode
// error.
type reviewRequest struct {
	QualityRating   json.RawMessage `json:"qualityRating"`
	DurationSeconds float64         `json:"durationSeconds" validate:"gte=0,lte=86400"`
	SessionID       string          `json:"sessionId" validate:"max=128"`
	Version         *int64          `json:"version" validate:"omitempty,gte=1"`
}

// rating returns the wire rating as a number. The engine still decides
// whether the number is a valid rating.
func (req reviewRequest) rating() (float64, error) {
	raw := bytes.TrimSpace(req.QualityRating)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing", flashcard.ErrInvalidRating)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %s", flashcard.ErrInvalidRating, raw)
	}
	return v, nil
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			handleError(w, r, errors.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	q, err := s.StudyService.Queue(r.Context(), user.ID, deckID, r.URL.Query().Get("session"), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, q)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	cards, err := s.StudyService.DueCards(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())
	cardID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	quality, err := req.rating()
	if err != nil {
		handleError(w, r, errors.NewInvalidRatingError(err))
		return
	}

	res, err := s.ReviewService.Review(r.Context(), services.ReviewRequest{
		UserID:          user.ID,
		CardID:          cardID,
		Quality:         quality,
		DurationSeconds: req.DurationSeconds,
		SessionID:       req.SessionID,
		ExpectedVersion: req.Version,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("card reviewed: card_id=%d, next_interval=%d", cardID, res.Card.Interval)
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleClassifyCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	cardID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	c, err := s.StudyService.Classify(r.Context(), user.ID, cardID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, c)
}
