package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/statistics"
)

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	st, err := s.StatsService.Streak(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	dateRange, err := statistics.ParseDateRange(r.URL.Query().Get("range"))
	if err != nil {
		handleError(w, r, errors.NewValidationError("range", "must be one of 7d, 30d, 90d, all"))
		return
	}

	snap, err := s.StatsService.Statistics(r.Context(), user.ID, dateRange)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}
