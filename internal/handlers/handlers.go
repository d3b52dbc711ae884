package handlers

import (
	"errors"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/middleware"
	"event-registration-backend/internal/services"
	"event-registration-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	authSvc         *services.AuthService
	userSvc         *services.UserService
	eventSvc        *services.EventService
	registrationSvc *services.RegistrationService
	cfg             *config.Config
}

func NewHandler(
	authSvc *services.AuthService,
	userSvc *services.UserService,
	eventSvc *services.EventService,
	registrationSvc *services.RegistrationService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authSvc:         authSvc,
		userSvc:         userSvc,
		eventSvc:        eventSvc,
		registrationSvc: registrationSvc,
		cfg:             cfg,
	}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Root)
	app.Get("/health", h.Health)

	api := app.Group("/api")

	// Public routes
	api.Get("/events/current", h.GetCurrentEvent)

	// Authenticated routes
	authed := api.Group("", middleware.TelegramAuth(h.authSvc))

	users := authed.Group("/users")
	{
		users.Get("/me", h.GetProfile)
		users.Put("/me", h.UpdateProfile)
		users.Get("/me/events", h.ListMyEvents)
	}

	authed.Post("/events/:id/register", h.RegisterForEvent)

	registrations := authed.Group("/registrations")
	{
		registrations.Get("/my", h.GetMyRegistration)
		registrations.Get("/:id/qr-code", h.GetTicketQRCode)
		registrations.Post("/:id/payment", h.SubmitPaymentReceipt)
		registrations.Post("/:id/decline", h.DeclineParticipation)
	}

	// Admin routes
	admin := authed.Group("/admin", middleware.AdminOnly(h.cfg))
	{
		admin.Get("/events", h.AdminListEvents)
		admin.Post("/events", h.AdminCreateEvent)
		admin.Get("/events/:id", h.AdminGetEvent)
		admin.Put("/events/:id", h.AdminUpdateEvent)
		admin.Delete("/events/:id", h.AdminDeleteEvent)
		admin.Get("/events/:id/registrations", h.AdminListRegistrations)
		admin.Post("/registrations/bulk_update_statuses", h.AdminBulkUpdateStatuses)
		admin.Post("/check-in", h.AdminCheckIn)
	}
}

// Root returns the service banner
// @Summary Service banner
// @Tags System
// @Produce json
// @Success 200 {object} utils.Response
// @Router / [get]
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Event Registration API", "status": "running"})
}

// Health is the liveness endpoint
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} utils.Response
// @Router /health [get]
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ErrorHandler translates errors into the JSON envelope. Service errors carry
// their machine-readable code; anything else is an internal fault.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= 500 {
			logrus.WithError(err).Error("internal error")
		}
		return utils.ErrorWithCode(c, string(appErr.Code), appErr.Message, status)
	}

	if e, ok := err.(*fiber.Error); ok {
		return utils.Error(c, e.Message, e.Code)
	}

	logrus.WithError(err).Error("unhandled error")
	return utils.ErrorWithCode(c, string(apperrors.CodeInternal),
		"Internal Server Error", fiber.StatusInternalServerError)
}
