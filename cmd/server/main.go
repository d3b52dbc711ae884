package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"event-registration-backend/internal/config"
	"event-registration-backend/internal/handlers"
	"event-registration-backend/internal/middleware"
	"event-registration-backend/internal/repositories"
	"event-registration-backend/internal/services"
	"event-registration-backend/pkg/database"
	"event-registration-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Initialize logger
	logger.Init()

	// Load configuration
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	// Initialize repositories
	repo := repositories.NewRepository(db)

	// Initialize services
	authSvc := services.NewAuthService(repo, cfg)
	userSvc := services.NewUserService(repo, cfg)
	eventSvc := services.NewEventService(repo, cfg)
	registrationSvc := services.NewRegistrationService(repo, cfg)

	// Initialize handlers
	handler := handlers.NewHandler(authSvc, userSvc, eventSvc, registrationSvc, cfg)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Event Registration API",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    int(cfg.MaxUploadSize) + 1024*1024,
	})

	// Global middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Telegram-Init-Data",
	}))

	// Create receipt upload directory
	if err := os.MkdirAll(cfg.ReceiptDir, 0755); err != nil {
		log.Fatalf("Failed to create receipt directory: %v", err)
	}

	// Register routes
	handler.RegisterRoutes(app)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped gracefully")
}
