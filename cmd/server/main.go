package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"freightiq/internal/config"
	"freightiq/internal/handler"
	"freightiq/internal/inference"
	"freightiq/internal/notify/noop"
	"freightiq/internal/notify/ses"
	"freightiq/internal/port"
	"freightiq/internal/repository/postgres"
	"freightiq/internal/router"
	"freightiq/internal/service"
	s3storage "freightiq/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	forwarderRepo := postgres.NewForwarderRepo(db)
	correctionRepo := postgres.NewCorrectionRepo(db)
	patternRepo := postgres.NewPatternRepo(db)
	suggestionRepo := postgres.NewSuggestionRepo(db)
	ruleStore := postgres.NewRuleRepo(db)
	accuracyRepo := postgres.NewAccuracyRepo(db)
	historyRepo := postgres.NewHistoryRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notifier
	var notifier port.Notifier
	switch cfg.Notify.Provider {
	case "ses":
		notifier, err = ses.NewSESNotifier(cfg.Notify.Region, cfg.Notify.FromAddress, cfg.Notify.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
	default:
		notifier = noop.NewNoopNotifier()
	}

	// Initialize services
	engine := inference.NewEngine()
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	scoringSvc := service.NewScoringService(accuracyRepo, forwarderRepo)
	patternSvc := service.NewPatternService(correctionRepo, patternRepo, forwarderRepo, cfg.Learning)
	suggestionSvc := service.NewSuggestionService(
		suggestionRepo, patternRepo, correctionRepo, ruleStore,
		accuracyRepo, historyRepo, userRepo, notifier,
		engine, cfg.Learning, cfg.Notify.FrontendURL,
	)
	learningSvc := service.NewLearningService(patternRepo, suggestionSvc, cfg.Learning)
	forwarderSvc := service.NewForwarderService(forwarderRepo)
	exportSvc := service.NewExportService(suggestionRepo, s3Client, cfg.S3)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	scoringH := handler.NewScoringHandler(scoringSvc)
	correctionH := handler.NewCorrectionHandler(patternSvc)
	suggestionH := handler.NewSuggestionHandler(suggestionSvc, patternSvc)
	learningH := handler.NewLearningHandler(learningSvc, exportSvc)
	forwarderH := handler.NewForwarderHandler(forwarderSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.CORS.AllowedOrigins,
		authSvc, authH, scoringH, correctionH, suggestionH, learningH, forwarderH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background learning worker
	worker := service.NewLearningWorker(learningSvc, cfg.Learning.PollInterval)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	<-workerDone

	return nil
}
