package services

import (
	"errors"
	"time"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"

	"gorm.io/gorm"
)

type EventService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewEventService(repo *repositories.Repository, cfg *config.Config) *EventService {
	return &EventService{repo: repo, cfg: cfg}
}

type CreateEventRequest struct {
	Title           string
	Description     *string
	EventDate       time.Time
	Location        *string
	MaxParticipants *int
	Deadline        time.Time
	IsActive        bool
}

// UpdateEventRequest carries the mutable event fields; nil means "leave as is".
type UpdateEventRequest struct {
	Title           *string
	Description     *string
	EventDate       *time.Time
	Location        *string
	MaxParticipants *int
	Deadline        *time.Time
	IsActive        *bool
}

func (s *EventService) CreateEvent(req CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Title:           req.Title,
		Description:     req.Description,
		EventDate:       req.EventDate,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Deadline:        req.Deadline,
		IsActive:        req.IsActive,
	}

	if err := s.repo.EventRepo.CreateEvent(event); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "Another active event already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to create event", err)
	}

	return event, nil
}

func (s *EventService) GetEvent(id uint) (*models.Event, error) {
	event, err := s.repo.EventRepo.GetEventByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get event", err)
	}
	return event, nil
}

func (s *EventService) GetActiveEvent() (*models.Event, error) {
	event, err := s.repo.EventRepo.GetActiveEvent()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Active event not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get active event", err)
	}
	return event, nil
}

func (s *EventService) ListEvents(skip, limit int) ([]models.Event, int64, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	events, total, err := s.repo.EventRepo.ListEvents(skip, limit)
	if err != nil {
		return nil, 0, apperrors.Wrap(apperrors.CodeInternal, "Failed to list events", err)
	}
	return events, total, nil
}

// UpdateEvent applies only the supplied fields. The merge is explicit per
// field; the single Save either fully applies or fails on the active-event
// index without partial effect.
func (s *EventService) UpdateEvent(id uint, req UpdateEventRequest) (*models.Event, error) {
	event, err := s.GetEvent(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.Deadline != nil {
		event.Deadline = *req.Deadline
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := s.repo.EventRepo.SaveEvent(event); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "Another active event already exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to update event", err)
	}

	return event, nil
}

func (s *EventService) DeleteEvent(id uint) error {
	if err := s.repo.EventRepo.DeleteEvent(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return apperrors.Wrap(apperrors.CodeInternal, "Failed to delete event", err)
	}
	return nil
}

func (s *EventService) ListAcceptedEventsForUser(userID uint, skip, limit int) ([]models.Event, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	events, err := s.repo.EventRepo.ListAcceptedEventsForUser(userID, skip, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to list user events", err)
	}
	return events, nil
}
