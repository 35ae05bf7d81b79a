package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

const deckSelect = `
SELECT d.id, d.user_id, d.name, d.created_at, COUNT(c.id) AS card_count
FROM decks d
LEFT JOIN cards c ON c.deck_id = d.id
`

func scanDeck(row rowScanner) (*models.Deck, error) {
	var d models.Deck
	if err := row.Scan(&d.ID, &d.UserID, &d.Name, &d.CreatedAt, &d.CardCount); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	d, err := scanDeck(r.db.QueryRowContext(ctx, deckSelect+`WHERE d.id = ? GROUP BY d.id`, id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return d, nil
}

func (r *deckRepository) ListByUser(ctx context.Context, userID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, deckSelect+`WHERE d.user_id = ? GROUP BY d.id ORDER BY d.created_at ASC, d.id ASC`, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, *d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: user_id=%d, name=%s", d.UserID, d.Name)

	res, err := r.db.ExecContext(ctx, `INSERT INTO decks (user_id, name) VALUES (?, ?)`, d.UserID, d.Name)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}
