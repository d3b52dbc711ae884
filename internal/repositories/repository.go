package repositories

import (
	"errors"
	"strings"

	"event-registration-backend/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	DB               *gorm.DB
	UserRepo         UserRepository
	EventRepo        EventRepository
	RegistrationRepo RegistrationRepository
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:               db,
		UserRepo:         NewUserRepository(db),
		EventRepo:        NewEventRepository(db),
		RegistrationRepo: NewRegistrationRepository(db),
	}
}

func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Registration{},
	); err != nil {
		return err
	}

	// At most one event may be active at any time. The invariant lives in the
	// database, not in application code: a partial unique index makes the
	// second concurrent activation fail at commit regardless of what either
	// transaction observed. Works on both postgres and sqlite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_events_single_active ON events (is_active) WHERE is_active`,
	).Error
}

// IsUniqueViolation reports whether err is a uniqueness-constraint failure.
// Checks the translated gorm error first and falls back to the driver
// messages the postgres and sqlite drivers produce without translation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// Interface definitions
type UserRepository interface {
	GetUserByTelegramID(telegramID int64) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
}

type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventByID(id uint) (*models.Event, error)
	GetActiveEvent() (*models.Event, error)
	ListEvents(offset, limit int) ([]models.Event, int64, error)
	ListAcceptedEventsForUser(userID uint, offset, limit int) ([]models.Event, error)
	SaveEvent(event *models.Event) error
	DeleteEvent(id uint) error
}

type RegistrationRepository interface {
	CreateRegistration(registration *models.Registration) error
	GetRegistrationByID(id uint) (*models.Registration, error)
	GetUserRegistration(userID, eventID uint) (*models.Registration, error)
	GetRegistrationByToken(token string) (*models.Registration, error)
	ListEventRegistrations(eventID uint, opts ListRegistrationsOptions) ([]models.Registration, error)
	BulkUpdateStatuses(ids []uint, status string) (int64, error)
	SaveRegistration(registration *models.Registration) error
}
