package handlers

import (
	"strconv"

	"event-registration-backend/internal/middleware"
	"event-registration-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentEvent returns the single active event
// @Summary Get current active event
// @Tags Events
// @Produce json
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/events/current [get]
func (h *Handler) GetCurrentEvent(c *fiber.Ctx) error {
	event, err := h.eventSvc.GetActiveEvent()
	if err != nil {
		return err
	}

	return utils.Success(c, event, "Event retrieved successfully")
}

// RegisterForEvent registers the caller for an event
// @Summary Register for event
// @Tags Events
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Event ID"
// @Param request body RegisterForEventRequest true "Profile fields to apply"
// @Success 201 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/events/{id}/register [post]
func (h *Handler) RegisterForEvent(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RegisterForEventRequest
	if err := middleware.ValidateBody(c, &req); err != nil {
		return err
	}

	registration, err := h.registrationSvc.Register(
		middleware.CurrentUser(c), eventID, req.UserData.toUserUpdate())
	if err != nil {
		return err
	}

	return utils.Success(c, registration, "Registered successfully", fiber.StatusCreated)
}

type RegisterForEventRequest struct {
	UserData UpdateUserRequest `json:"user_data"`
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name+" parameter")
	}
	return uint(id), nil
}
