package handlers

import (
	"fmt"
	"strconv"
	"time"

	"event-registration-backend/internal/middleware"
	"event-registration-backend/internal/repositories"
	"event-registration-backend/internal/services"
	"event-registration-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CreateEventRequest struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     *string `json:"description"`
	EventDate       string  `json:"event_date" validate:"required"`
	Location        *string `json:"location" validate:"omitempty,max=255"`
	MaxParticipants *int    `json:"max_participants" validate:"omitempty,gt=0"`
	Deadline        string  `json:"deadline" validate:"required"`
	IsActive        bool    `json:"is_active"`
}

type UpdateEventRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description     *string `json:"description"`
	EventDate       *string `json:"event_date"`
	Location        *string `json:"location" validate:"omitempty,max=255"`
	MaxParticipants *int    `json:"max_participants" validate:"omitempty,gt=0"`
	Deadline        *string `json:"deadline"`
	IsActive        *bool   `json:"is_active"`
}

type BulkUpdateStatusesRequest struct {
	RegistrationIDs []uint `json:"registration_ids" validate:"required,min=1"`
	Status          string `json:"status" validate:"required,oneof=pending payment accepted declined cancelled rejected"`
}

type CheckInRequest struct {
	Token string `json:"token" validate:"required"`
}

// AdminListEvents returns all events
// @Summary List all events
// @Tags Admin
// @Produce json
// @Security TelegramInitData
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(100)
// @Success 200 {object} utils.Response
// @Router /api/admin/events [get]
func (h *Handler) AdminListEvents(c *fiber.Ctx) error {
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	events, total, err := h.eventSvc.ListEvents(skip, limit)
	if err != nil {
		return err
	}

	meta := &utils.Meta{Skip: skip, Limit: limit, Total: total}
	return utils.SuccessWithMeta(c, events, meta, "Events retrieved successfully")
}

// AdminGetEvent returns a single event
// @Summary Get event by ID
// @Tags Admin
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/admin/events/{id} [get]
func (h *Handler) AdminGetEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	event, err := h.eventSvc.GetEvent(eventID)
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event retrieved successfully")
}

// AdminCreateEvent creates an event
// @Summary Create event
// @Tags Admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body CreateEventRequest true "Event data"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /api/admin/events [post]
func (h *Handler) AdminCreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := middleware.ValidateBody(c, &req); err != nil {
		return err
	}

	eventDate, err := parseTimestamp(req.EventDate)
	if err != nil {
		return utils.Error(c, "Invalid event_date format", fiber.StatusBadRequest)
	}
	deadline, err := parseTimestamp(req.Deadline)
	if err != nil {
		return utils.Error(c, "Invalid deadline format", fiber.StatusBadRequest)
	}

	event, err := h.eventSvc.CreateEvent(services.CreateEventRequest{
		Title:           req.Title,
		Description:     req.Description,
		EventDate:       eventDate,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Deadline:        deadline,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event created successfully", fiber.StatusCreated)
}

// AdminUpdateEvent applies a partial event update
// @Summary Update event
// @Tags Admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Event ID"
// @Param request body UpdateEventRequest true "Event fields to update"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/admin/events/{id} [put]
func (h *Handler) AdminUpdateEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateEventRequest
	if err := middleware.ValidateBody(c, &req); err != nil {
		return err
	}

	update := services.UpdateEventRequest{
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		IsActive:        req.IsActive,
	}
	if req.EventDate != nil {
		eventDate, err := parseTimestamp(*req.EventDate)
		if err != nil {
			return utils.Error(c, "Invalid event_date format", fiber.StatusBadRequest)
		}
		update.EventDate = &eventDate
	}
	if req.Deadline != nil {
		deadline, err := parseTimestamp(*req.Deadline)
		if err != nil {
			return utils.Error(c, "Invalid deadline format", fiber.StatusBadRequest)
		}
		update.Deadline = &deadline
	}

	event, err := h.eventSvc.UpdateEvent(eventID, update)
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event updated successfully")
}

// AdminDeleteEvent deletes an event and its registrations
// @Summary Delete event
// @Tags Admin
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Event ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/admin/events/{id} [delete]
func (h *Handler) AdminDeleteEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.eventSvc.DeleteEvent(eventID); err != nil {
		return err
	}

	return utils.Success(c, nil, "Event deleted successfully")
}

// AdminListRegistrations lists registrations for an event with user details
// @Summary List event registrations
// @Tags Admin
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Event ID"
// @Param status query string false "Status filter"
// @Param sort_by query string false "Sort field" Enums(registered_at, name) default(registered_at)
// @Param sort_order query string false "Sort order" Enums(asc, desc) default(asc)
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(1000)
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/admin/events/{id}/registrations [get]
func (h *Handler) AdminListRegistrations(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	sortBy := c.Query("sort_by", "registered_at")
	if sortBy != "registered_at" && sortBy != "name" {
		return utils.Error(c, "sort_by must be registered_at or name", fiber.StatusBadRequest)
	}
	sortOrder := c.Query("sort_order", "asc")
	if sortOrder != "asc" && sortOrder != "desc" {
		return utils.Error(c, "sort_order must be asc or desc", fiber.StatusBadRequest)
	}

	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "1000"))

	registrations, err := h.registrationSvc.ListEventRegistrations(eventID,
		repositories.ListRegistrationsOptions{
			Status:    c.Query("status"),
			SortBy:    sortBy,
			SortOrder: sortOrder,
			Offset:    skip,
			Limit:     limit,
		})
	if err != nil {
		return err
	}

	return utils.Success(c, registrations, "Registrations retrieved successfully")
}

// AdminBulkUpdateStatuses forces a status onto a set of registrations
// @Summary Bulk update registration statuses
// @Tags Admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body BulkUpdateStatusesRequest true "Registration ids and target status"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/admin/registrations/bulk_update_statuses [post]
func (h *Handler) AdminBulkUpdateStatuses(c *fiber.Ctx) error {
	var req BulkUpdateStatusesRequest
	if err := middleware.ValidateBody(c, &req); err != nil {
		return err
	}

	updated, err := h.registrationSvc.BulkUpdateStatuses(req.RegistrationIDs, req.Status)
	if err != nil {
		return err
	}

	return utils.Success(c, nil,
		fmt.Sprintf("Successfully updated %d registration(s)", updated))
}

// AdminCheckIn marks attendance by check-in token
// @Summary Check in by token
// @Tags Admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body CheckInRequest true "Check-in token"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/admin/check-in [post]
func (h *Handler) AdminCheckIn(c *fiber.Ctx) error {
	var req CheckInRequest
	if err := middleware.ValidateBody(c, &req); err != nil {
		return err
	}

	registration, already, err := h.registrationSvc.CheckInByToken(req.Token)
	if err != nil {
		return err
	}

	message := "Check-in successful"
	if already {
		message = "Already checked in"
	}

	return utils.Success(c, fiber.Map{
		"user":          registration.User,
		"checked_in_at": registration.CheckedInAt,
	}, message)
}

// parseTimestamp accepts RFC3339 and the bare "2006-01-02T15:04:05" form the
// mini app sends.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}
