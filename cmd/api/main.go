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

	"github.com/puredent/clinic-api/internal/config"
	"github.com/puredent/clinic-api/internal/email"
	"github.com/puredent/clinic-api/internal/handler"
	appointmentHandler "github.com/puredent/clinic-api/internal/handler/appointment"
	authHandler "github.com/puredent/clinic-api/internal/handler/auth"
	billingHandler "github.com/puredent/clinic-api/internal/handler/billing"
	catalogHandler "github.com/puredent/clinic-api/internal/handler/catalog"
	patientHandler "github.com/puredent/clinic-api/internal/handler/patient"
	reportHandler "github.com/puredent/clinic-api/internal/handler/report"
	staffHandler "github.com/puredent/clinic-api/internal/handler/staff"
	"github.com/puredent/clinic-api/internal/middleware"
	"github.com/puredent/clinic-api/internal/repository/postgres"
	"github.com/puredent/clinic-api/internal/router"
	appointmentService "github.com/puredent/clinic-api/internal/service/appointment"
	authService "github.com/puredent/clinic-api/internal/service/auth"
	billingService "github.com/puredent/clinic-api/internal/service/billing"
	catalogService "github.com/puredent/clinic-api/internal/service/catalog"
	patientService "github.com/puredent/clinic-api/internal/service/patient"
	reportService "github.com/puredent/clinic-api/internal/service/report"
	staffService "github.com/puredent/clinic-api/internal/service/staff"
	"github.com/puredent/clinic-api/pkg/auth"
	"github.com/puredent/clinic-api/pkg/logger"
	"github.com/puredent/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	// Connect, creating the database on first run.
	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	hasher := security.NewBcryptHasher(0)

	ctx := context.Background()
	if err := postgres.ProvisionSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to provision schema")
	}
	if err := postgres.Seed(ctx, db, hasher); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	// Repositories
	staffRepo := postgres.NewStaffRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	// Services
	authSvc := authService.NewService(staffRepo, patientRepo, hasher, jwtSvc)
	patientSvc := patientService.NewService(patientRepo, hasher)
	staffSvc := staffService.NewService(staffRepo, hasher)
	catalogSvc := catalogService.NewService(serviceRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, serviceRepo, emailSvc, appLogger)
	billingSvc := billingService.NewService(transactionRepo)
	reportSvc := reportService.NewService(reportRepo, staffRepo, patientRepo, serviceRepo, appointmentRepo, transactionRepo, appLogger)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handler.RegisterValidators()

	// Handlers
	h := handler.NewHandler(db)
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(patientSvc),
		staffHandler.NewHandler(staffSvc),
		catalogHandler.NewHandler(catalogSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		billingHandler.NewHandler(billingSvc),
		reportHandler.NewHandler(reportSvc),
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.Server.RateLimit),
			RateBurst:     cfg.Server.RateBurst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_api",
		},
	)
	r.Setup()

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
