package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/nutrivo/practice-api/internal/config"
	"github.com/nutrivo/practice-api/internal/email"
	authHandler "github.com/nutrivo/practice-api/internal/handler/auth"
	healthHandler "github.com/nutrivo/practice-api/internal/handler/health"
	patientHandler "github.com/nutrivo/practice-api/internal/handler/patient"
	programHandler "github.com/nutrivo/practice-api/internal/handler/program"
	prometheusHandler "github.com/nutrivo/practice-api/internal/handler/prometheus"
	"github.com/nutrivo/practice-api/internal/middleware"
	"github.com/nutrivo/practice-api/internal/repository/postgres"
	"github.com/nutrivo/practice-api/internal/router"
	authService "github.com/nutrivo/practice-api/internal/service/auth"
	"github.com/nutrivo/practice-api/internal/service/clinicaldata"
	patientService "github.com/nutrivo/practice-api/internal/service/patient"
	programService "github.com/nutrivo/practice-api/internal/service/program"
	"github.com/nutrivo/practice-api/internal/service/report"
	"github.com/nutrivo/practice-api/internal/service/summary"
	"github.com/nutrivo/practice-api/pkg/auth"
	"github.com/nutrivo/practice-api/pkg/generation/openai"
	"github.com/nutrivo/practice-api/pkg/logger"
	"github.com/nutrivo/practice-api/pkg/metrics"
	"github.com/nutrivo/practice-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("nutrivo", "api")

	patientRepo := postgres.NewPatientRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	anthropometryRepo := postgres.NewAnthropometryRepository(db)
	labResultRepo := postgres.NewLabResultRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	planRepo := postgres.NewNutritionPlanRepository(db)
	guidanceRepo := postgres.NewGuidanceRepository(db)
	programRepo := postgres.NewProgramRepository(db)
	summaryRepo := postgres.NewSummaryRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	tokenManager := auth.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(0)
	generator := openai.NewClient(cfg.Generation.ToClientConfig(), appMetrics)

	authSvc := authService.NewService(professionalRepo, hasher, tokenManager, appLogger.Component("auth"))
	patientSvc := patientService.NewService(patientRepo, appLogger.Component("patient"))
	clinicalSvc := clinicaldata.NewService(patientRepo, anthropometryRepo, labResultRepo, consultationRepo, planRepo, guidanceRepo, appLogger.Component("clinicaldata"))
	reportSvc := report.NewService(patientRepo, anthropometryRepo, labResultRepo, consultationRepo, planRepo, guidanceRepo, appMetrics)
	summarySvc := summary.NewService(patientRepo, anthropometryRepo, labResultRepo, consultationRepo, planRepo, programRepo, summaryRepo, outboxRepo, generator, appLogger.Component("summary"), appMetrics)
	programSvc := programService.NewService(programRepo, patientRepo, appLogger.Component("program"))
	emailSvc := email.NewSMTPService(cfg.SMTP, appLogger.Component("email"))

	authMw := middleware.NewAuthMiddleware(tokenManager)
	promH := prometheusHandler.New()

	r := router.NewRouter(
		authMw,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc, clinicalSvc, reportSvc, summarySvc, emailSvc),
		programHandler.NewHandler(programSvc, summarySvc),
		healthHandler.NewHandler(db),
		promH,
		router.Config{
			RateLimit:        rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:        cfg.RateLimit.Burst,
			RateLimitEnabled: cfg.RateLimit.Enabled,
			CORSConfig:       middleware.DefaultCORSConfig(),
			Timeout:          middleware.DefaultTimeoutConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("server listening on :%d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
