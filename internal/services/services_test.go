package services_test

import (
	"testing"
	"time"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *repositories.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.AutoMigrate(db))

	return repositories.NewRepository(db)
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Env:              "development",
		TelegramBotToken: "1234567:test-bot-token",
		AdminTelegramIDs: []int64{1000},
		MaxUploadSize:    10 * 1024 * 1024,
		ReceiptDir:       t.TempDir(),
	}
}

func seedUser(t *testing.T, repo *repositories.Repository, telegramID int64, username string) *models.User {
	t.Helper()

	user := &models.User{TelegramID: telegramID, TelegramUsername: username}
	require.NoError(t, repo.UserRepo.CreateUser(user))
	return user
}

func seedEvent(t *testing.T, repo *repositories.Repository, active bool, deadline, eventDate time.Time) *models.Event {
	t.Helper()

	event := &models.Event{
		Title:     "Test Event",
		EventDate: eventDate,
		Deadline:  deadline,
		IsActive:  active,
	}
	require.NoError(t, repo.EventRepo.CreateEvent(event))
	return event
}

func assertErrorCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}
