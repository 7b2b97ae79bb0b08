// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"tourify/internal/activity"
	"tourify/internal/cache"
	"tourify/internal/config"
	"tourify/internal/db"
	"tourify/internal/db/migrations"
	"tourify/internal/queue"
	"tourify/internal/repository"
	"tourify/internal/routes"
	"tourify/internal/storage"
)

// @title Tourify Logistics API
// @version 1.0
// @description Site maps, equipment inventory and staff scheduling for festival venues.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:   "tourify-api",
		Short: "Logistics API for site maps, equipment and staffing",
		// serve is the default
		RunE: func(c *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations and start the HTTP server",
			RunE: func(c *cobra.Command, args []string) error {
				return serve(config.Load())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the database if needed and apply pending migrations",
			RunE: func(c *cobra.Command, args []string) error {
				database, err := openDatabase(c.Context(), config.Load())
				if err != nil {
					return err
				}
				return database.Close()
			},
		},
		&cobra.Command{
			Use:   "replay-activity",
			Short: "Write activity entries queued in RabbitMQ back to the database",
			RunE: func(c *cobra.Command, args []string) error {
				return replayActivity(config.Load())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(ctx context.Context, cfg *config.Config) (*db.Database, error) {
	// Create database if it doesn't exist
	if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("ensure database exists: %w", err)
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := migrations.RunMigrations(ctx, database.DB); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return database, nil
}

func serve(cfg *config.Config) error {
	ctx := context.Background()

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var deps routes.Dependencies

	if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
		defer rdb.Close()
		deps.Redis = rdb
		deps.Cache = cache.NewCatalogCache(rdb, cfg.CatalogCacheTTL)
	}

	s3Config, err := config.NewS3Config(ctx, cfg.S3)
	if err != nil {
		return fmt.Errorf("configure s3: %w", err)
	}
	if s3Config != nil {
		deps.Store = storage.NewS3Store(s3Config)
	}

	var retry activity.RetryPublisher
	if cfg.RabbitMQURL != "" {
		retry = queue.NewPublisher(cfg.RabbitMQURL)
	}
	outbox := activity.NewOutbox(repository.NewActivityRepository(database.DB), retry, cfg.ActivityBuffer)
	outbox.Start()
	deps.Activity = outbox

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(database.DB, cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s (%s)", cfg.Port, cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give server 5 seconds to finish current requests
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := outbox.Close(shutdownCtx); err != nil {
		log.Printf("[activity] outbox not drained: %v", err)
	}

	log.Println("Server exiting")
	return nil
}

func replayActivity(cfg *config.Config) error {
	if cfg.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Printf("[queue] replaying activity from %s", queue.ActivityRetryQueue)
	err = queue.ReplayActivity(ctx, cfg.RabbitMQURL, repository.NewActivityRepository(database.DB))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
