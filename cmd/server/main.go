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

	"iga/internal/citation"
	"iga/internal/config"
	"iga/internal/email/noop"
	"iga/internal/email/ses"
	"iga/internal/essaymodel"
	"iga/internal/essaymodel/providers"
	"iga/internal/grading"
	"iga/internal/grammar/languagetool"
	"iga/internal/handler"
	"iga/internal/keyword"
	"iga/internal/logger"
	"iga/internal/port"
	"iga/internal/repository/postgres"
	"iga/internal/router"
	"iga/internal/rubric"
	"iga/internal/service"
	s3storage "iga/internal/storage/s3"
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

	appLog, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Redact)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer appLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := postgres.Migrate(db.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	subRepo := postgres.NewSubmissionRepo(db)

	// Initialize storage
	store, err := s3storage.NewEssayStore(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	sender, err := newEmailSender(ctx, &cfg.Email, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	// Grading configuration and delegates
	rubricCfg, err := rubric.LoadConfig(cfg.Grading.ProfilePath, cfg.Grading.StylePath)
	if err != nil {
		return fmt.Errorf("failed to load grading config: %w", err)
	}
	configStore, err := rubric.NewStore(rubricCfg, cfg.Grading.StylePath)
	if err != nil {
		return fmt.Errorf("failed to initialize grading config store: %w", err)
	}
	keywords, err := keyword.Open(cfg.Grading.KeywordPath)
	if err != nil {
		return fmt.Errorf("failed to load keywords: %w", err)
	}

	providers.Register()
	models, err := essaymodel.NewModels(&cfg.Model, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize essay models: %w", err)
	}

	deps := grading.Deps{
		Keywords:  keywords,
		Citations: citation.New(),
		Models:    models,
	}
	if cfg.Grammar.Endpoint != "" {
		deps.Grammar = languagetool.NewClient(&cfg.Grammar)
	}
	engine := grading.New(deps, appLog)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	gradingSvc := service.NewGradingService(engine, configStore, subRepo, store, sender, service.GradingServiceConfig{
		Bucket:        cfg.S3.Bucket,
		MaxFileSizeMB: cfg.Grading.MaxFileSizeMB,
		RetentionDays: cfg.Retention.Days,
		PresignExpiry: cfg.S3.PresignExpiry,
	}, appLog)
	configSvc := service.NewConfigService(configStore, keywords, appLog)
	reportSvc := service.NewReportService(subRepo)

	if cfg.Retention.Days > 0 && cfg.Retention.SweepIntervalMins > 0 {
		worker := service.NewRetentionWorker(subRepo, store, service.RetentionConfig{
			SweepInterval: time.Duration(cfg.Retention.SweepIntervalMins) * time.Minute,
			BatchSize:     cfg.Retention.BatchSize,
		}, appLog)
		go worker.Start(ctx)
	}

	// Initialize handlers
	gradeH := handler.NewGradeHandler(gradingSvc, reportSvc, appLog)
	configH := handler.NewConfigHandler(configSvc, appLog)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(appLog, cfg.CORS.AllowedOrigins, authSvc, gradeH, configH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("server starting", "addr", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	appLog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func newEmailSender(ctx context.Context, cfg *config.EmailConfig, log *logger.Logger) (port.EmailSender, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(ctx, cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	case "noop", "":
		return noop.NewNoopSender(cfg.FrontendURL, log), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}
}
