package api

import (
	"context"

	"github.com/vytor/flashdeck/internal/services"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	UserService   services.UserService
	DeckService   services.DeckService
	StudyService  services.StudyService
	ReviewService services.ReviewService
	StatsService  services.StatsService
	ReplayService services.ReplayService
	DB            ReadinessChecker
}
