package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campus-portal-api/internal/application/admin"
	"github.com/campus-portal-api/internal/config"
	"github.com/campus-portal-api/internal/infrastructure/awsclient"
	"github.com/campus-portal-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/campus-portal-api/internal/infrastructure/jwt"
	"github.com/campus-portal-api/internal/infrastructure/mail"
	s3infra "github.com/campus-portal-api/internal/infrastructure/s3"
	"github.com/campus-portal-api/internal/infrastructure/scheduler"
	"github.com/campus-portal-api/internal/infrastructure/sns"
	transporthttp "github.com/campus-portal-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}
	cfg := config.Load()

	if err := run(cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsclient.Load(ctx, cfg, "")
	if err != nil {
		return err
	}
	endpoint := awsclient.Endpoint(cfg)

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, endpoint)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	sched := scheduler.New()
	otpStore, closeStore, err := newOTPStore(ctx, cfg, dynamoClient, sched)
	if err != nil {
		return err
	}
	defer closeStore()
	sched.Start()

	// JWT provider (optional, the dashboard is closed without it).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		slog.Warn("JWT provider not available", "err", err)
	}

	s3Store := s3infra.NewStore(s3infra.NewClient(awsCfg, endpoint), cfg.S3BucketName)
	if err := s3Store.EnsureBucket(ctx); err != nil {
		slog.Warn("could not ensure S3 bucket", "bucket", cfg.S3BucketName, "err", err)
	}

	mailer, err := mail.New(cfg)
	if err != nil {
		return fmt.Errorf("mail backend: %w", err)
	}

	// SNS SMS sender (optional).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		smsSender = sender
	} else {
		slog.Warn("SNS sender not available", "err", err)
	}

	deps := &transporthttp.Deps{
		AdminRepo:       dynamo.NewAdminRepo(dynamoClient, cfg.DynamoTables.Admins),
		SessionRepo:     dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		FileRepo:        dynamo.NewFileRepo(dynamoClient, cfg.DynamoTables.Files),
		ApplicationRepo: dynamo.NewApplicationRepo(dynamoClient, cfg.DynamoTables.Applications),
		CandidateRepo:   dynamo.NewCandidateRepo(dynamoClient, cfg.DynamoTables.Candidates),
		FacilityRepo:    dynamo.NewFacilityRepo(dynamoClient, cfg.DynamoTables.Facilities),
		BookingRepo:     dynamo.NewBookingRepo(dynamoClient, cfg.DynamoTables.Bookings),
		LeaveRepo:       dynamo.NewLeaveRepo(dynamoClient, cfg.DynamoTables.Leaves),
		ComplaintRepo:   dynamo.NewComplaintRepo(dynamoClient, cfg.DynamoTables.Complaints),
		BudgetRepo:      dynamo.NewBudgetRepo(dynamoClient, cfg.DynamoTables.Budgets),
		CheaterRepo:     dynamo.NewCheaterRepo(dynamoClient, cfg.DynamoTables.Cheaters),
		OTPStore:        otpStore,
		S3Store:         s3Store,
		Mailer:          mailer,
		SMSSender:       smsSender,
		JWTProvider:     jwtProvider,
	}

	adminSvc := admin.NewService(admin.ServiceDeps{AdminRepo: deps.AdminRepo, SessionRepo: deps.SessionRepo})
	if err := adminSvc.EnsureBootstrap(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Warn("bootstrap admin not created", "err", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv, "otp_store", cfg.OTP.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
