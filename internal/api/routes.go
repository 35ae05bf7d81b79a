package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Post("/users", s.handleCreateUser)

	r.Group(func(r chi.Router) {
		r.Use(s.userMiddleware)

		r.Get("/users/me", s.handleCurrentUser)
		r.Put("/users/me/timezone", s.handleSetTimeZone)

		r.Get("/decks", s.handleListDecks)
		r.Post("/decks", s.handleCreateDeck)
		r.Route("/decks/{id}", func(r chi.Router) {
			r.Get("/cards", s.handleListCards)
			r.Post("/cards", s.handleAddCard)
			r.Get("/queue", s.handleQueue)
			r.Post("/replay", s.handleReplayDeck)
		})

		r.Get("/cards/due", s.handleDueCards)
		r.Post("/cards/{id}/review", s.handleReviewCard)
		r.Get("/cards/{id}/classification", s.handleClassifyCard)

		r.Get("/stats", s.handleStatistics)
		r.Get("/stats/streak", s.handleStreak)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
