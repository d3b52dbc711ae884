package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPass           string
	DBName           string
	DBSSLMode        string
	Port             string
	Env              string
	TelegramBotToken string
	AdminTelegramIDs []int64
	DevMode          bool
	ReceiptDir       string
	MaxUploadSize    int64
	AllowOrigins     string
	LogLevel         string
}

func NewConfigFromEnv() (*Config, error) {
	maxUploadSize, _ := strconv.ParseInt(getenv("MAX_UPLOAD_SIZE", "10485760"), 10, 64)

	adminIDs, err := parseAdminIDs(getenv("ADMIN_TELEGRAM_IDS", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBHost:           getenv("DB_HOST", "localhost"),
		DBPort:           getenv("DB_PORT", "5432"),
		DBUser:           getenv("DB_USER", "postgres"),
		DBPass:           getenv("DB_PASSWORD", "postgres"),
		DBName:           getenv("DB_NAME", "eventdb"),
		DBSSLMode:        getenv("DB_SSLMODE", "disable"),
		Port:             getenv("PORT", "3000"),
		Env:              getenv("ENV", "development"),
		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		AdminTelegramIDs: adminIDs,
		DevMode:          getenv("DEV_MODE", "false") == "true",
		ReceiptDir:       getenv("RECEIPT_DIR", "./uploads/receipts"),
		MaxUploadSize:    maxUploadSize,
		AllowOrigins:     getenv("ALLOW_ORIGINS", "https://web.telegram.org"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
	}

	// The signature bypass must never be reachable in production.
	if cfg.DevMode && cfg.Env == "production" {
		return nil, errors.New("DEV_MODE cannot be enabled when ENV=production")
	}

	if !cfg.DevMode && cfg.TelegramBotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	return cfg, nil
}

// IsAdmin reports whether the telegram id belongs to the configured admin list.
func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminTelegramIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_IDS entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
