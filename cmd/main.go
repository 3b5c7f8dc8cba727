package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"inkwell/docs/swagger"
	"inkwell/internal/api"
	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/events"
	"inkwell/internal/models"
	"inkwell/internal/services"
	"inkwell/internal/tasks"
	"inkwell/internal/utils/logger"
)

// @title inkwell API
// @version 1.0
// @description Content management API with role-based URL authorization
// @BasePath /
// @schemes http https

func main() {
	log := logger.New("inkwell")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		log.Info("No .env file found, skipping environment variable loading")
	} else {
		log.Info("Loading environment variables from .env file")
		if err := godotenv.Load(); err != nil {
			stdlog.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	registerAuditHandlers(log)

	database, err := db.Connect(cfg)
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Warn("Failed to close database connection: %v", err)
		}
	}()

	// Object storage is optional; without it media uploads 503 but the rest
	// of the API works.
	var mediaStorage *services.S3Service
	if cfg.S3.BucketName != "" {
		mediaStorage, err = services.NewS3Service(
			cfg.S3.BucketName,
			cfg.S3.Endpoint,
			cfg.S3.Region,
			cfg.S3.AccessKey,
			cfg.S3.SecretKey,
		)
		if err != nil {
			stdlog.Fatalf("Failed to initialize S3 service: %v", err)
		}
		models.RegisterMediaURLGenerator(mediaStorage)
	} else {
		log.Warn("S3_BUCKET_NAME not set, media uploads disabled")
	}

	taskHandler := tasks.NewTaskHandler(database)
	taskServer := tasks.NewServer(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		taskHandler,
		log,
	)

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	go func() {
		if err := taskServer.Start(serverCtx); err != nil {
			log.Error("Task server error", err)
		}
	}()

	taskScheduler := tasks.NewScheduler(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
		log,
	)
	go func() {
		if err := taskScheduler.Start(); err != nil {
			log.Error("Task scheduler error", err)
		}
	}()

	taskClient := tasks.NewTaskClient(
		cfg.Redis.Addr,
		cfg.Redis.Username,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	defer taskClient.Close()

	if err := taskClient.EnqueueMediaCleanup("@daily"); err != nil {
		log.Warn("Failed to schedule media cleanup: %v", err)
	}

	apiServer := api.NewServer(cfg, database, mediaStorage, taskClient)
	go func() {
		swagger.SwaggerInfo.Title = "inkwell API"
		swagger.SwaggerInfo.Description = "Content management API with role-based URL authorization"
		swagger.SwaggerInfo.Version = "1.0"
		swagger.SwaggerInfo.Schemes = []string{"http", "https"}

		log.Success("API server starting")
		if err := apiServer.Start(); err != nil {
			log.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	taskScheduler.Stop()
	serverCancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Error("Failed to shutdown API server", err)
	}

	log.Info("Servers shutdown gracefully")
}

// registerAuditHandlers logs lifecycle events emitted by handlers and the
// publish worker.
func registerAuditHandlers(log *logger.Logger) {
	events.On("users.created", func(data interface{}) {
		if user, ok := data.(*models.User); ok {
			log.Info("user registered: %s", user.Username)
		}
	})
	events.On("post.created", func(data interface{}) {
		if post, ok := data.(*models.Post); ok {
			log.Info("post created: %s", post.Title)
		}
	})
	events.On("post.published", func(data interface{}) {
		if post, ok := data.(*models.Post); ok {
			log.Info("post published: %s", post.Title)
		}
	})
}
