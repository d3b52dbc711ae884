package handlers

import (
	"strconv"

	"event-registration-backend/internal/middleware"
	"event-registration-backend/internal/services"
	"event-registration-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
	Phone     *string `json:"phone" validate:"omitempty,max=50"`
	ISU       *int    `json:"isu" validate:"omitempty,gte=100000,lte=999999"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
}

func (r UpdateUserRequest) toUserUpdate() services.UserUpdate {
	return services.UserUpdate{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		ISU:       r.ISU,
		Address:   r.Address,
	}
}

// GetProfile returns the caller's profile
// @Summary Get current user profile
// @Tags Users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /api/users/me [get]
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return utils.Success(c, user, "Profile retrieved successfully")
}

// UpdateProfile applies a partial profile update
// @Summary Update current user profile
// @Tags Users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body UpdateUserRequest true "Profile fields to update"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /api/users/me [put]
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateUserRequest
	if err := middleware.ValidateBody(c, &req); err != nil {
		return err
	}

	user, err := h.userSvc.UpdateProfile(middleware.CurrentUser(c), req.toUserUpdate())
	if err != nil {
		return err
	}

	return utils.Success(c, user, "Profile updated successfully")
}

// ListMyEvents lists events with an accepted registration for the caller
// @Summary List my accepted events
// @Tags Users
// @Produce json
// @Security TelegramInitData
// @Param skip query int false "Records to skip" default(0)
// @Param limit query int false "Maximum records" default(100)
// @Success 200 {object} utils.Response
// @Router /api/users/me/events [get]
func (h *Handler) ListMyEvents(c *fiber.Ctx) error {
	skip, _ := strconv.Atoi(c.Query("skip", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	events, err := h.eventSvc.ListAcceptedEventsForUser(middleware.CurrentUser(c).ID, skip, limit)
	if err != nil {
		return err
	}

	return utils.Success(c, events, "Events retrieved successfully")
}
