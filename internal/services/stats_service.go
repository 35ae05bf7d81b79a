package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/statistics"
	"github.com/vytor/flashdeck/internal/streak"
)

// StatsService handles the analytics read paths
type StatsService interface {
	Streak(ctx context.Context, userID int64) (*streak.State, error)
	Statistics(ctx context.Context, userID int64, dateRange statistics.DateRange) (*statistics.Snapshot, error)
}

type statsService struct {
	userRepo    repository.UserRepository
	cardRepo    repository.CardRepository
	eventRepo   repository.ReviewEventRepository
	defaultZone *time.Location
	clock       Clock
}

// NewStatsService creates a new StatsService. defaultZone applies to users
// without a time zone preference.
func NewStatsService(
	userRepo repository.UserRepository,
	cardRepo repository.CardRepository,
	eventRepo repository.ReviewEventRepository,
	defaultZone *time.Location,
	clock Clock,
) StatsService {
	return &statsService{
		userRepo:    userRepo,
		cardRepo:    cardRepo,
		eventRepo:   eventRepo,
		defaultZone: defaultZone,
		clock:       clock,
	}
}

func (s *statsService) location(ctx context.Context, userID int64) (*time.Location, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", userID)
	}
	return resolveLocation(ctx, user.TimeZone, s.defaultZone), nil
}

func (s *statsService) Streak(ctx context.Context, userID int64) (*streak.State, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing streak: user_id=%d", userID)

	loc, err := s.location(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByUser(ctx, userID, nil, nil)
	if err != nil {
		log.Error("failed to list review events: %v", err)
		return nil, errors.NewInternalError(err)
	}

	times := make([]time.Time, 0, len(events))
	for _, ev := range events {
		times = append(times, ev.Timestamp)
	}
	now := s.clock.now()
	state := streak.Compute(streak.DatesFromTimes(times, loc), streak.DateOf(now, loc))
	return &state, nil
}

func (s *statsService) Statistics(ctx context.Context, userID int64, dateRange statistics.DateRange) (*statistics.Snapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("aggregating statistics: user_id=%d, range=%s", userID, dateRange)

	loc, err := s.location(ctx, userID)
	if err != nil {
		return nil, err
	}

	var cards []models.Card
	var events []models.ReviewEvent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = s.cardRepo.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() error {
		// All events: retention falls back to all time when the window is empty.
		var err error
		events, err = s.eventRepo.ListByUser(gctx, userID, nil, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load statistics data: %v", err)
		return nil, errors.NewInternalError(err)
	}

	snap := statistics.Aggregate(statistics.Input{
		Cards:    cards,
		Events:   events,
		Now:      s.clock.now(),
		Location: loc,
		Range:    dateRange,
	})
	return &snap, nil
}
