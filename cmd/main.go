package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"skillbox/docs/swagger"
	"skillbox/internal/api"
	"skillbox/internal/config"
	"skillbox/internal/db"
	"skillbox/internal/events"
	"skillbox/internal/handlers"
	"skillbox/internal/models"
	"skillbox/internal/obs"
	"skillbox/internal/services"
	"skillbox/internal/tasks"
	"skillbox/internal/utils/logger"
)

// @title Skilling in a Box API
// @version 1.0
// @description Partner training content portal: catalog, access requests, entitled downloads.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := logger.New("skillbox")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		logger.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	obs.Init()

	if err := db.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("Failed to close database connection: %v", err)
		}
	}()

	dbInstance := db.GetDB()

	if err := models.CreateAdminFromEnv(dbInstance, cfg); err != nil {
		logger.Warn("Warning: failed to seed admin user: %v", err)
	}

	// Object store comes up before the API so the first download never races
	// storage initialization.
	store, err := services.NewObjectStore(cfg.Storage.S3)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}
	handlers.RegisterStorageHandler(store)

	taskHandler := tasks.NewTaskHandler(dbInstance)
	taskServer := tasks.NewServer(cfg.Redis, cfg.Worker.Concurrency, taskHandler)
	go func() {
		if err := taskServer.Start(); err != nil {
			logger.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(cfg.Redis)
	go func() {
		if err := taskScheduler.Start(); err != nil {
			logger.Error("Task scheduler error", err)
		}
	}()

	// Bridge model events onto the task queue: every new access request
	// becomes a reviewer notification.
	taskClient := tasks.NewTaskClient(cfg.Redis)
	defer taskClient.Close()
	events.On("access_requests.submitted", func(data interface{}) {
		req, ok := data.(*models.AccessRequest)
		if !ok {
			return
		}
		err := taskClient.EnqueueAccessRequestNotify(tasks.AccessRequestNotifyPayload{
			RequestID: req.ID,
			UserID:    req.UserID,
			CourseID:  req.CourseID,
		})
		if err != nil {
			logger.Warn("failed to enqueue reviewer notification: %v", err)
		}
	})

	rdb := tasks.NewRedisClient(cfg.Redis)

	apiServer, err := api.NewServer(cfg, dbInstance, store, rdb)
	if err != nil {
		log.Fatalf("Failed to initialize API server: %v", err)
	}

	go func() {
		swagger.SwaggerInfo.Title = "Skilling in a Box API"
		swagger.SwaggerInfo.Description = "Partner training content portal"
		swagger.SwaggerInfo.Version = "1.0"

		logger.Success("API server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taskScheduler.Stop()
	taskServer.Shutdown()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Servers shutdown gracefully")
}
