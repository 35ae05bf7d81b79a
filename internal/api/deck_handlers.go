package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/logger"
)

type createDeckRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type addCardRequest struct {
	Front string `json:"front" validate:"required,max=10000"`
	Back  string `json:"back" validate:"required,max=10000"`
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	decks, err := s.DeckService.ListDecks(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, decks)
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req createDeckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), user.ID, req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, deck)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.DeckService.ListCards(r.Context(), user.ID, deckID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req addCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.DeckService.AddCard(r.Context(), user.ID, deckID, req.Front, req.Back)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

// handleReplayDeck queues a background rebuild of the deck's schedules from
// review history.
func (s *Server) handleReplayDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	user := userFromContext(r.Context())
	deckID, err := idParam(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReplayService.EnqueueDeckReplay(r.Context(), user.ID, deckID); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("replay accepted: deck_id=%d", deckID)
	writeJSON(w, r, http.StatusAccepted, map[string]any{"deckId": deckID, "status": "queued"})
}
