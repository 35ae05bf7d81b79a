package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type cardRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db, now: time.Now}
}

var cardColumns = []string{
	"c.id", "c.deck_id", "c.front", "c.back", "c.repetition", "c.ease_factor",
	"c.interval_days", "c.due_date", "c.version", "c.created_at", "c.updated_at",
}

func scanCard(row rowScanner) (*models.Card, error) {
	var c models.Card
	var due sql.NullTime
	if err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Repetition, &c.EaseFactor,
		&c.Interval, &due, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.DueDate = timePtr(due)
	return &c, nil
}

func (r *cardRepository) selectCards() squirrel.SelectBuilder {
	return sqlBuilder.Select(cardColumns...).From("cards c").Join("decks d ON d.id = c.deck_id")
}

func (r *cardRepository) Get(ctx context.Context, id, userID int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d, user_id=%d", id, userID)

	query, args, err := r.selectCards().
		Where(squirrel.Eq{"c.id": id, "d.user_id": userID}).
		ToSql()
	if err != nil {
		log.Error("failed to build card query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return c, nil
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	created := c.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	version := c.Version
	if version < 1 {
		version = 1
	}

	query, args, err := sqlBuilder.Insert("cards").
		Columns("deck_id", "front", "back", "repetition", "ease_factor", "interval_days", "due_date", "version", "created_at", "updated_at").
		Values(c.DeckID, c.Front, c.Back, c.Repetition, c.EaseFactor, c.Interval, nullTime(c.DueDate), version, utc(created), utc(created)).
		ToSql()
	if err != nil {
		log.Error("failed to build card insert: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with filter: user_id=%d, deck_id=%d, only_new=%t, limit=%d",
		filter.UserID, filter.DeckID, filter.OnlyNew, filter.Limit)

	query := r.selectCards()

	// Dynamic WHERE clauses
	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"d.user_id": filter.UserID})
	}
	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"c.deck_id": filter.DeckID})
	}
	if filter.OnlyNew {
		query = query.Where(squirrel.Eq{"c.due_date": nil})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.And{
			squirrel.NotEq{"c.due_date": nil},
			squirrel.LtOrEq{"c.due_date": utc(*filter.DueBefore)},
		}).OrderBy("c.due_date ASC")
	}
	query = query.OrderBy("c.id ASC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build card list query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, *c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) ListByDeck(ctx context.Context, deckID int64) ([]models.Card, error) {
	return r.List(ctx, models.CardFilter{DeckID: deckID})
}

func (r *cardRepository) ListByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	return r.List(ctx, models.CardFilter{UserID: userID})
}

// DueForUser returns the user's cards with a due date at or before now, most
// overdue first.
func (r *cardRepository) DueForUser(ctx context.Context, userID int64, now time.Time) ([]models.Card, error) {
	return r.List(ctx, models.CardFilter{UserID: userID, DueBefore: &now})
}

func (r *cardRepository) CountByDeck(ctx context.Context, deckID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards WHERE deck_id = ?`, deckID).Scan(&n); err != nil {
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *cardRepository) ApplyReview(ctx context.Context, c models.Card, ev models.ReviewEvent) (*models.Card, *models.ReviewEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying review: card_id=%d, version=%d, quality=%d", c.ID, c.Version, ev.QualityRating)

	updatedAt := utc(ev.Timestamp)
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := updateSchedule(ctx, tx, c, updatedAt); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
INSERT INTO review_events (card_id, user_id, session_id, reviewed_at, quality, resulting_interval, duration_seconds)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, ev.CardID, ev.UserID, ev.SessionID, utc(ev.Timestamp), ev.QualityRating, ev.ResultingInterval, ev.DurationSeconds)
		if err != nil {
			log.Error("failed to insert review event: %v", err)
			return err
		}
		ev.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	c.Version++
	c.UpdatedAt = updatedAt
	ev.Timestamp = utc(ev.Timestamp)
	log.Debug("review applied: card_id=%d, event_id=%d, new_version=%d", c.ID, ev.ID, c.Version)
	return &c, &ev, nil
}

func (r *cardRepository) UpdateSchedule(ctx context.Context, c models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card schedule: id=%d, version=%d", c.ID, c.Version)

	updatedAt := utc(r.now())
	if err := updateSchedule(ctx, r.db, c, updatedAt); err != nil {
		return nil, err
	}
	c.Version++
	c.UpdatedAt = updatedAt
	return &c, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// updateSchedule writes the scheduling fields only if the stored version is
// still c.Version, and bumps the version.
func updateSchedule(ctx context.Context, db execer, c models.Card, updatedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	res, err := db.ExecContext(ctx, `
UPDATE cards
SET repetition = ?, ease_factor = ?, interval_days = ?, due_date = ?, version = version + 1, updated_at = ?
WHERE id = ? AND version = ?
`, c.Repetition, c.EaseFactor, c.Interval, nullTime(c.DueDate), updatedAt, c.ID, c.Version)
	if err != nil {
		log.Error("failed to update card schedule: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		log.Warn("stale card version: id=%d, version=%d", c.ID, c.Version)
		return repository.ErrStaleVersion
	}
	return nil
}
