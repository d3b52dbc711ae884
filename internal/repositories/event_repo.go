package repositories

import (
	"event-registration-backend/internal/models"

	"gorm.io/gorm"
)

type eventRepo struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) CreateEvent(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepo) GetEventByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetActiveEvent returns the single active event. The partial unique index
// guarantees at most one row; ordering by event_date is a tie-break that only
// matters if the invariant were ever violated out-of-band.
func (r *eventRepo) GetActiveEvent() (*models.Event, error) {
	var event models.Event
	if err := r.db.
		Where("is_active = ?", true).
		Order("event_date DESC").
		First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListEvents(offset, limit int) ([]models.Event, int64, error) {
	var events []models.Event
	var total int64

	if err := r.db.Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.
		Order("event_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListAcceptedEventsForUser returns events where the user's registration was
// accepted, most recent first.
func (r *eventRepo) ListAcceptedEventsForUser(userID uint, offset, limit int) ([]models.Event, error) {
	var events []models.Event
	if err := r.db.
		Joins("JOIN registrations ON registrations.event_id = events.id").
		Where("registrations.user_id = ? AND registrations.status = ?", userID, models.StatusAccepted).
		Order("events.event_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) SaveEvent(event *models.Event) error {
	return r.db.Save(event).Error
}

// DeleteEvent removes the event and its registrations in one transaction.
func (r *eventRepo) DeleteEvent(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Event{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
