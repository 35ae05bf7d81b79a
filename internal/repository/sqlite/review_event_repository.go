package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type reviewEventRepository struct {
	db *sql.DB
}

// NewReviewEventRepository creates a new ReviewEventRepository implementation
func NewReviewEventRepository(db *sql.DB) repository.ReviewEventRepository {
	return &reviewEventRepository{db: db}
}

// List returns matching events in chronological order.
func (r *reviewEventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.ReviewEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("review_event_repo")
	log.Debug("listing review events: user_id=%d, card_id=%d", filter.UserID, filter.CardID)

	query := sqlBuilder.Select(
		"id", "card_id", "user_id", "session_id", "reviewed_at", "quality", "resulting_interval", "duration_seconds",
	).From("review_events")

	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.CardID != 0 {
		query = query.Where(squirrel.Eq{"card_id": filter.CardID})
	}
	if filter.From != nil {
		query = query.Where(squirrel.GtOrEq{"reviewed_at": utc(*filter.From)})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"reviewed_at": utc(*filter.To)})
	}
	query = query.OrderBy("reviewed_at ASC", "id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build review event query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list review events: %v", err)
		return nil, err
	}
	defer rows.Close()

	var events []models.ReviewEvent
	for rows.Next() {
		var ev models.ReviewEvent
		if err := rows.Scan(&ev.ID, &ev.CardID, &ev.UserID, &ev.SessionID, &ev.Timestamp,
			&ev.QualityRating, &ev.ResultingInterval, &ev.DurationSeconds); err != nil {
			log.Error("failed to scan review event row: %v", err)
			return nil, err
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	log.Debug("found %d review events", len(events))
	return events, rows.Err()
}

// ListByUser returns the user's events in [from, to). Nil bounds are open.
func (r *reviewEventRepository) ListByUser(ctx context.Context, userID int64, from, to *time.Time) ([]models.ReviewEvent, error) {
	return r.List(ctx, models.EventFilter{UserID: userID, From: from, To: to})
}

func (r *reviewEventRepository) ListByCard(ctx context.Context, cardID int64) ([]models.ReviewEvent, error) {
	return r.List(ctx, models.EventFilter{CardID: cardID})
}

func (r *reviewEventRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("review_event_repo")

	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review_events WHERE user_id = ?`, userID).Scan(&n); err != nil {
		log.Error("failed to count review events: %v", err)
		return 0, err
	}
	return n, nil
}
