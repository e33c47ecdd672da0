package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // reference timezone on hosts without a zone database

	"foodtracker/internal/app"
	"foodtracker/internal/catalog"
	"foodtracker/internal/config"
	"foodtracker/internal/database"
	"foodtracker/internal/logger"
	"foodtracker/internal/metrics"
	"foodtracker/internal/notifications"
	"foodtracker/internal/openfoodfacts"
	"foodtracker/internal/services"
	"foodtracker/internal/storage"
	"foodtracker/internal/validator"
)

// @title           FoodTracker API
// @version         1.0
// @description     FoodTracker keeps shared pantries of food products, tracks what is used and wasted, and reminds users about products close to their expiration date.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const shutdownTimeout = 30 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	loc := appConfig.Location()
	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(database.DefaultMigrationsSource); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	db := dbManager.DB()

	entries, err := catalog.Categories()
	if err != nil {
		return err
	}
	if err := services.NewCategoryService(db).SeedCategories(entries); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	collector := metrics.NewCollector()

	off := openfoodfacts.NewClient(appConfig.OFFBaseURL, &http.Client{Timeout: appConfig.OFFTimeout})
	resolver := openfoodfacts.NewCategoryResolver(off, entries, logger.Named("openfoodfacts"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var avatars storage.Uploader
	if appConfig.S3Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, storage.Config{
			Bucket:          appConfig.S3Bucket,
			Region:          appConfig.S3Region,
			Endpoint:        appConfig.S3Endpoint,
			AccessKeyID:     appConfig.S3AccessKeyID,
			SecretAccessKey: appConfig.S3SecretAccessKey,
			PublicBaseURL:   appConfig.S3PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to set up avatar storage: %w", err)
		}
		avatars = uploader
	} else {
		log.Warn("S3_BUCKET is not set, avatar uploads are disabled")
	}

	var mailer notifications.Mailer
	if appConfig.DemoMode {
		mailer = notifications.NewLogMailer(logger.Named("mailer"))
	} else {
		mailer = notifications.NewSMTPMailer(notifications.SMTPConfig{
			Host:     appConfig.SMTPHost,
			Port:     appConfig.SMTPPort,
			User:     appConfig.SMTPUser,
			Password: appConfig.SMTPPassword,
			From:     appConfig.MailFrom,
			FromName: appConfig.MailFromName,
		})
	}

	notifier := notifications.NewNotifier(db, mailer, appConfig.NotifyDaysAhead, loc, collector)
	scheduler := notifications.NewScheduler(notifier, appConfig.NotifyInterval, 0, appConfig.NotifyEnabled)
	scheduler.Start()
	defer scheduler.Stop()

	router := app.NewRouter(app.Dependencies{
		DB:       db,
		Config:   appConfig,
		Location: loc,
		Metrics:  collector,
		Avatars:  avatars,
		Resolver: resolver,
		OFF:      off,
		Trigger:  scheduler,
		Runner:   notifier,
	})

	server := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Starting FoodTracker backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
