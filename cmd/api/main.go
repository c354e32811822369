package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-registry-api/internal/config"
	"github.com/noah-isme/student-registry-api/internal/controller"
	"github.com/noah-isme/student-registry-api/internal/database"
	"github.com/noah-isme/student-registry-api/internal/handler"
	"github.com/noah-isme/student-registry-api/internal/middleware"
	"github.com/noah-isme/student-registry-api/internal/models"
	"github.com/noah-isme/student-registry-api/internal/repository"
	"github.com/noah-isme/student-registry-api/internal/router"
	"github.com/noah-isme/student-registry-api/internal/service"
	"github.com/noah-isme/student-registry-api/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to access database pool: %v", err)
	}
	defer sqlDB.Close()

	limiterConfig := middleware.RateLimitConfig{Max: cfg.RateLimitMax, Window: cfg.RateLimitWindow}
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		limiterConfig.Storage = middleware.NewRedisStorage(redisClient, "students:ratelimit:")
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer conn.Drain()
		publisher = service.NewNATSPublisher(conn, cfg.EventsSubject)
	}

	rules := validation.New(validator.New(validator.WithRequiredStructEnabled()))

	studentRepo := repository.NewStudentRepository(db)
	studentService := service.NewStudentService(studentRepo, publisher, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: handler.ErrorHandler(cfg, logger),
	})

	middleware.Register(app, middleware.Config{
		Logger:    &logger,
		APIPrefix: cfg.APIPrefix,
		AccessLog: cfg.IsDevelopment(),
	})
	router.Register(app, cfg, router.Dependencies{
		StudentController: controller.NewStudentController(studentService, rules),
		GetByIDController: controller.NewGetByIDController(studentService),
		Database:          sqlDB,
		RateLimiter:       middleware.RateLimit(limiterConfig),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	logger.Info().Str("address", cfg.HTTPAddress()).Str("driver", cfg.DatabaseDriver).Msg("server started")

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
