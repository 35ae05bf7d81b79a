package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	TimeZone string `json:"timeZone" validate:"max=64"`
}

type setTimeZoneRequest struct {
	TimeZone string `json:"timeZone" validate:"required,max=64"`
}

// handleCreateUser registers a user (or returns the existing one) and sets
// the user cookie.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.CreateUser(r.Context(), req.Username, req.TimeZone)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("user ready: id=%d, username=%s", user.ID, user.Username)

	setUserCookie(w, user.ID)
	writeJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleSetTimeZone(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req setTimeZoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	updated, err := s.UserService.SetTimeZone(r.Context(), user.ID, req.TimeZone)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}
