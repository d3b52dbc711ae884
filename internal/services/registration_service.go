package services

import (
	"errors"
	"mime/multipart"
	"time"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"
	"event-registration-backend/internal/utils"

	"gorm.io/gorm"
)

// RegistrationService owns the registration status state machine:
// pending -> payment -> accepted, with declined/cancelled/rejected as side
// states, plus check-in marking on accepted registrations.
type RegistrationService struct {
	repo *repositories.Repository
	cfg  *config.Config
}

func NewRegistrationService(repo *repositories.Repository, cfg *config.Config) *RegistrationService {
	return &RegistrationService{repo: repo, cfg: cfg}
}

// Register creates a pending registration for the user on the event, applying
// the supplied profile fields first. The check-in token is issued here,
// exactly once for the lifetime of the registration.
func (s *RegistrationService) Register(user *models.User, eventID uint, upd UserUpdate) (*models.Registration, error) {
	event, err := s.repo.EventRepo.GetEventByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get event", err)
	}

	now := time.Now()
	if !event.IsActive || now.After(event.Deadline) || now.After(event.EventDate) {
		return nil, apperrors.New(apperrors.CodeConflict,
			"Registration deadline has passed or event is not active")
	}

	if !upd.IsZero() {
		applyUserUpdate(user, upd)
		if err := s.repo.UserRepo.UpdateUser(user); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to update user", err)
		}
	}

	if _, err := s.repo.RegistrationRepo.GetUserRegistration(user.ID, event.ID); err == nil {
		return nil, apperrors.New(apperrors.CodeConflict, "Already registered for this event")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to check registration", err)
	}

	token, err := utils.GenerateCheckInToken()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to issue check-in token", err)
	}

	registration := &models.Registration{
		UserID:       user.ID,
		EventID:      event.ID,
		Status:       models.StatusPending,
		CheckInToken: token,
	}

	if err := s.repo.RegistrationRepo.CreateRegistration(registration); err != nil {
		// The (user_id, event_id) unique index closes the race between the
		// duplicate check above and this insert.
		if repositories.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.CodeConflict, "Already registered for this event")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to create registration", err)
	}

	return registration, nil
}

// MyRegistration returns the caller's registration for the active event.
func (s *RegistrationService) MyRegistration(user *models.User) (*models.Registration, error) {
	event, err := s.repo.EventRepo.GetActiveEvent()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Active event not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get active event", err)
	}

	registration, err := s.repo.RegistrationRepo.GetUserRegistration(user.ID, event.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound,
				"User registration for active event not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get registration", err)
	}

	return registration, nil
}

// getOwnedRegistration loads the registration and enforces ownership.
func (s *RegistrationService) getOwnedRegistration(user *models.User, registrationID uint) (*models.Registration, error) {
	registration, err := s.repo.RegistrationRepo.GetRegistrationByID(registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Registration not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get registration", err)
	}

	if registration.UserID != user.ID {
		return nil, apperrors.New(apperrors.CodeForbidden,
			"Access denied. This registration belongs to another user.")
	}

	return registration, nil
}

// TicketPNG renders the caller's ticket as a PNG image.
func (s *RegistrationService) TicketPNG(user *models.User, registrationID uint) ([]byte, error) {
	registration, err := s.getOwnedRegistration(user, registrationID)
	if err != nil {
		return nil, err
	}

	png, err := utils.RenderTicketPNG(registration.CheckInToken)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to render ticket", err)
	}
	return png, nil
}

// SubmitPaymentReceipt validates and stores the uploaded receipt, then moves
// the registration from payment to accepted. The status changes only after
// the file write has succeeded, so a failed write leaves the registration
// awaiting payment.
func (s *RegistrationService) SubmitPaymentReceipt(user *models.User, registrationID uint, file *multipart.FileHeader) (*models.Registration, []byte, error) {
	registration, err := s.getOwnedRegistration(user, registrationID)
	if err != nil {
		return nil, nil, err
	}

	if registration.Status != models.StatusPayment {
		return nil, nil, apperrors.New(apperrors.CodeConflict,
			"Registration is not awaiting payment")
	}

	if err := utils.ValidateReceiptFile(file, s.cfg.MaxUploadSize); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeValidation, "Invalid receipt file", err)
	}

	filename := utils.ReceiptFilename(
		derefOr(user.FirstName, ""),
		user.TelegramUsername,
		registration.ID,
		file.Filename,
	)
	path, err := utils.SaveUploadedFile(file, s.cfg.ReceiptDir, filename)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to save receipt", err)
	}

	registration.ReceiptPath = path
	registration.Status = models.StatusAccepted
	if err := s.repo.RegistrationRepo.SaveRegistration(registration); err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to update registration", err)
	}

	png, err := utils.RenderTicketPNG(registration.CheckInToken)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to render ticket", err)
	}

	return registration, png, nil
}

// DeclineParticipation moves the caller's registration from payment to
// declined.
func (s *RegistrationService) DeclineParticipation(user *models.User, registrationID uint) (*models.Registration, error) {
	registration, err := s.getOwnedRegistration(user, registrationID)
	if err != nil {
		return nil, err
	}

	if registration.Status != models.StatusPayment {
		return nil, apperrors.New(apperrors.CodeConflict,
			"Registration is not awaiting payment")
	}

	registration.Status = models.StatusDeclined
	if err := s.repo.RegistrationRepo.SaveRegistration(registration); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to update registration", err)
	}

	return registration, nil
}

// ListEventRegistrations is the admin listing with status filter and sorting.
func (s *RegistrationService) ListEventRegistrations(eventID uint, opts repositories.ListRegistrationsOptions) ([]models.Registration, error) {
	if _, err := s.repo.EventRepo.GetEventByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Event not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to get event", err)
	}

	if opts.Status != "" && !models.IsValidStatus(opts.Status) {
		return nil, apperrors.New(apperrors.CodeValidation, "Unknown registration status")
	}

	registrations, err := s.repo.RegistrationRepo.ListEventRegistrations(eventID, opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to list registrations", err)
	}
	return registrations, nil
}

// BulkUpdateStatuses forces the status onto every listed registration. This
// is an explicit admin override: it deliberately bypasses the transition
// table, any known status can be applied to any registration.
func (s *RegistrationService) BulkUpdateStatuses(ids []uint, status string) (int64, error) {
	if !models.IsValidStatus(status) {
		return 0, apperrors.New(apperrors.CodeValidation, "Unknown registration status")
	}

	updated, err := s.repo.RegistrationRepo.BulkUpdateStatuses(ids, status)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInternal, "Failed to update registrations", err)
	}
	if updated == 0 {
		return 0, apperrors.New(apperrors.CodeNotFound, "No registrations found with provided IDs")
	}

	return updated, nil
}

// CheckInByToken marks attendance for the registration holding the token.
// Lookup is by token only. Only accepted registrations can check in, and the
// operation is idempotent: a repeated check-in succeeds and keeps the
// original timestamp.
func (s *RegistrationService) CheckInByToken(token string) (*models.Registration, bool, error) {
	registration, err := s.repo.RegistrationRepo.GetRegistrationByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, apperrors.New(apperrors.CodeNotFound, "Registration not found for this token")
		}
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, "Failed to get registration", err)
	}

	if registration.Status != models.StatusAccepted {
		return nil, false, apperrors.New(apperrors.CodeConflict, "Registration is not accepted")
	}

	if registration.CheckedInAt != nil {
		return registration, true, nil
	}

	now := time.Now()
	registration.CheckedInAt = &now
	if err := s.repo.RegistrationRepo.SaveRegistration(registration); err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, "Failed to mark check-in", err)
	}

	return registration, false, nil
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}
