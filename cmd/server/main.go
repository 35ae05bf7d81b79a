package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/worker"

	// Embedded zone database so user time zones resolve on minimal images.
	_ "time/tzdata"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("FlashDeck server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("worker_count=%d", cfg.WorkerCount)
	log.Debug("queue_size=%d", cfg.QueueSize)
	log.Debug("default_session_limit=%d", cfg.DefaultSessionLimit)
	log.Debug("default_timezone=%s", cfg.DefaultTimeZone)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	userRepo := sqlite.NewUserRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	eventRepo := sqlite.NewReviewEventRepository(database.DB)

	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)
	queue := jobs.NewWorkerQueue(pool, cardRepo, eventRepo)

	srv := &api.Server{
		UserService:   services.NewUserService(userRepo),
		DeckService:   services.NewDeckService(deckRepo, cardRepo),
		StudyService:  services.NewStudyService(deckRepo, cardRepo, cfg.DefaultSessionLimit, nil),
		ReviewService: services.NewReviewService(cardRepo, nil),
		StatsService:  services.NewStatsService(userRepo, cardRepo, eventRepo, cfg.Location(), nil),
		ReplayService: services.NewReplayService(deckRepo, queue),
		DB:            database,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued replays get whatever is left of the shutdown timeout.
	log.Debug("draining worker pool")
	if err := pool.Shutdown(shutdownCtx); err != nil {
		log.Warn("worker pool did not drain in time: %v", err)
	}
	cancel()

	log.Info("FlashDeck server stopped")
}
