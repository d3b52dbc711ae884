package repositories

import (
	"event-registration-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListRegistrationsOptions narrows and orders the admin registration listing.
// SortBy and SortOrder must be validated by the caller before they reach the
// query builder.
type ListRegistrationsOptions struct {
	Status    string
	SortBy    string // registered_at | name
	SortOrder string // asc | desc
	Offset    int
	Limit     int
}

type registrationRepo struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) CreateRegistration(registration *models.Registration) error {
	return r.db.Create(registration).Error
}

func (r *registrationRepo) GetRegistrationByID(id uint) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.Where("id = ?", id).First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepo) GetUserRegistration(userID, eventID uint) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

// GetRegistrationByToken is the check-in lookup. Token only, never by id.
func (r *registrationRepo) GetRegistrationByToken(token string) (*models.Registration, error) {
	var registration models.Registration
	if err := r.db.
		Preload("User").
		Where("check_in_token = ?", token).
		First(&registration).Error; err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *registrationRepo) ListEventRegistrations(eventID uint, opts ListRegistrationsOptions) ([]models.Registration, error) {
	query := r.db.Model(&models.Registration{}).
		Preload("User").
		Where("registrations.event_id = ?", eventID)

	if opts.Status != "" {
		query = query.Where("registrations.status = ?", opts.Status)
	}

	dir := "ASC"
	if opts.SortOrder == "desc" {
		dir = "DESC"
	}

	switch opts.SortBy {
	case "name":
		query = query.
			Joins("JOIN users ON users.id = registrations.user_id").
			Order("users.first_name " + dir).
			Order("users.last_name " + dir)
	default:
		query = query.Order("registrations.registered_at " + dir)
	}

	if opts.Limit <= 0 || opts.Limit > 1000 {
		opts.Limit = 1000
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	var registrations []models.Registration
	if err := query.
		Offset(opts.Offset).
		Limit(opts.Limit).
		Find(&registrations).Error; err != nil {
		return nil, err
	}

	return registrations, nil
}

// BulkUpdateStatuses applies the status to every listed registration in a
// single UPDATE and returns how many rows actually changed.
func (r *registrationRepo) BulkUpdateStatuses(ids []uint, status string) (int64, error) {
	result := r.db.Model(&models.Registration{}).
		Where("id IN ?", ids).
		Update("status", status)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *registrationRepo) SaveRegistration(registration *models.Registration) error {
	// Associations are read-only here; saving must never touch users or events.
	return r.db.Omit(clause.Associations).Save(registration).Error
}
