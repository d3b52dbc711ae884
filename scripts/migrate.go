package main

import (
	"log"

	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"
	"event-registration-backend/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

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

	log.Println("Database migrations completed successfully")

	// Seed local users for the configured admin ids so dev-mode auth can
	// resolve them before their first real Telegram visit.
	if err := seedAdminUsers(db, cfg); err != nil {
		log.Fatalf("Failed to seed admin users: %v", err)
	}

	log.Println("Migration process completed")
}

func seedAdminUsers(db *gorm.DB, cfg *config.Config) error {
	for _, telegramID := range cfg.AdminTelegramIDs {
		var existing models.User
		if err := db.Where("telegram_id = ?", telegramID).First(&existing).Error; err == nil {
			continue
		}

		admin := &models.User{
			TelegramID:       telegramID,
			TelegramUsername: "admin",
		}
		if err := db.Create(admin).Error; err != nil {
			return err
		}
		log.Printf("Seeded admin user for telegram id %d", telegramID)
	}
	return nil
}
