package handlers

import (
	"fmt"

	"event-registration-backend/internal/middleware"
	"event-registration-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// GetMyRegistration returns the caller's registration for the active event
// @Summary Get my registration
// @Tags Registrations
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/registrations/my [get]
func (h *Handler) GetMyRegistration(c *fiber.Ctx) error {
	registration, err := h.registrationSvc.MyRegistration(middleware.CurrentUser(c))
	if err != nil {
		return err
	}

	return utils.Success(c, registration, "Registration retrieved successfully")
}

// GetTicketQRCode returns the PNG ticket for a registration
// @Summary Get ticket QR code
// @Tags Registrations
// @Produce png
// @Security TelegramInitData
// @Param id path int true "Registration ID"
// @Success 200 {file} binary
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /api/registrations/{id}/qr-code [get]
func (h *Handler) GetTicketQRCode(c *fiber.Ctx) error {
	registrationID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	png, err := h.registrationSvc.TicketPNG(middleware.CurrentUser(c), registrationID)
	if err != nil {
		return err
	}

	return sendTicketPNG(c, registrationID, png)
}

// SubmitPaymentReceipt uploads the payment receipt and accepts the registration
// @Summary Submit payment receipt
// @Tags Registrations
// @Accept multipart/form-data
// @Produce png
// @Security TelegramInitData
// @Param id path int true "Registration ID"
// @Param file formData file true "Receipt file (pdf, jpg, jpeg, png; max 10MB)"
// @Success 200 {file} binary
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /api/registrations/{id}/payment [post]
func (h *Handler) SubmitPaymentReceipt(c *fiber.Ctx) error {
	registrationID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, "Receipt file is required", fiber.StatusBadRequest)
	}

	_, png, err := h.registrationSvc.SubmitPaymentReceipt(
		middleware.CurrentUser(c), registrationID, file)
	if err != nil {
		return err
	}

	return sendTicketPNG(c, registrationID, png)
}

// DeclineParticipation declines a registration awaiting payment
// @Summary Decline participation
// @Tags Registrations
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Registration ID"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /api/registrations/{id}/decline [post]
func (h *Handler) DeclineParticipation(c *fiber.Ctx) error {
	registrationID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	registration, err := h.registrationSvc.DeclineParticipation(
		middleware.CurrentUser(c), registrationID)
	if err != nil {
		return err
	}

	return utils.Success(c, registration, "Registration declined")
}

func sendTicketPNG(c *fiber.Ctx, registrationID uint, png []byte) error {
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("inline; filename=ticket_%d.png", registrationID))
	return c.Send(png)
}
