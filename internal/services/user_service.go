package services

import (
	"context"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// UserService handles users and their time zone preference
type UserService interface {
	CreateUser(ctx context.Context, username, timeZone string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	SetTimeZone(ctx context.Context, id int64, timeZone string) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func validateTimeZone(tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return errors.NewValidationError("timeZone", "unknown time zone "+tz)
	}
	return nil
}

// CreateUser registers username, or returns the existing user. A non-empty
// timeZone replaces the stored one.
func (s *userService) CreateUser(ctx context.Context, username, timeZone string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating user: username=%s", username)

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if err := validateTimeZone(timeZone); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Upsert(ctx, username, timeZone)
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) SetTimeZone(ctx context.Context, id int64, timeZone string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting time zone: user_id=%d, tz=%s", id, timeZone)

	if timeZone == "" {
		return nil, errors.NewValidationError("timeZone", "cannot be empty")
	}
	if err := validateTimeZone(timeZone); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateTimeZone(ctx, id, timeZone); err != nil {
		log.Error("failed to update time zone: %v", err)
		return nil, errors.NewInternalError(err)
	}
	user.TimeZone = timeZone
	return user, nil
}
