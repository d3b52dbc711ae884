package services_test

import (
	"bytes"
	"mime/multipart"
	"os"
	"testing"
	"time"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"
	"event-registration-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeFileHeader builds a *multipart.FileHeader whose Open() serves content,
// the same shape Fiber hands the service from c.FormFile.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 10240)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	headers := form.File["file"]
	require.Len(t, headers, 1)
	return headers[0]
}

func newRegistrationService(t *testing.T) (*services.RegistrationService, *repositories.Repository) {
	t.Helper()
	repo := newTestRepo(t)
	svc := services.NewRegistrationService(repo, newTestConfig(t))
	return svc, repo
}

func TestRegister(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")

	firstName := "Alice"
	isu := 123456
	registration, err := svc.Register(user, event.ID, services.UserUpdate{
		FirstName: &firstName,
		ISU:       &isu,
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, registration.Status)
	assert.NotEmpty(t, registration.CheckInToken)
	assert.Nil(t, registration.CheckedInAt)

	// The profile variant sent alongside registration was persisted.
	stored, err := repo.UserRepo.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.FirstName)
	assert.Equal(t, "Alice", *stored.FirstName)
	require.NotNil(t, stored.ISU)
	assert.Equal(t, 123456, *stored.ISU)
}

func TestRegisterEventNotFound(t *testing.T) {
	svc, repo := newRegistrationService(t)
	user := seedUser(t, repo, 111, "alice")

	_, err := svc.Register(user, 4242, services.UserUpdate{})
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestRegisterClosedEvent(t *testing.T) {
	tests := []struct {
		name      string
		active    bool
		deadline  time.Time
		eventDate time.Time
	}{
		{"inactive", false, time.Now().Add(24 * time.Hour), time.Now().Add(48 * time.Hour)},
		{"deadline_passed", true, time.Now().Add(-time.Hour), time.Now().Add(48 * time.Hour)},
		{"event_date_passed", true, time.Now().Add(24 * time.Hour), time.Now().Add(-time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newRegistrationService(t)
			user := seedUser(t, repo, 111, "alice")
			event := seedEvent(t, repo, tt.active, tt.deadline, tt.eventDate)

			_, err := svc.Register(user, event.ID, services.UserUpdate{})
			assertErrorCode(t, err, apperrors.CodeConflict)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")

	_, err := svc.Register(user, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	_, err = svc.Register(user, event.ID, services.UserUpdate{})
	assertErrorCode(t, err, apperrors.CodeConflict)
}

func TestMyRegistration(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")
	other := seedUser(t, repo, 222, "bob")

	created, err := svc.Register(user, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	got, err := svc.MyRegistration(user)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.MyRegistration(other)
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestTicketPNGOwnership(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	owner := seedUser(t, repo, 111, "alice")
	stranger := seedUser(t, repo, 222, "bob")

	registration, err := svc.Register(owner, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	png, err := svc.TicketPNG(owner, registration.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	_, err = svc.TicketPNG(stranger, registration.ID)
	assertErrorCode(t, err, apperrors.CodeForbidden)

	_, err = svc.TicketPNG(owner, registration.ID+100)
	assertErrorCode(t, err, apperrors.CodeNotFound)
}

func TestSubmitPaymentReceipt(t *testing.T) {
	repo := newTestRepo(t)
	cfg := newTestConfig(t)
	svc := services.NewRegistrationService(repo, cfg)

	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")

	registration, err := svc.Register(user, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	file := makeFileHeader(t, "receipt.pdf", []byte("%PDF-1.4 test"))

	// Receipts are only accepted while the registration awaits payment.
	_, _, err = svc.SubmitPaymentReceipt(user, registration.ID, file)
	assertErrorCode(t, err, apperrors.CodeConflict)

	registration.Status = models.StatusPayment
	require.NoError(t, repo.RegistrationRepo.SaveRegistration(registration))

	updated, png, err := svc.SubmitPaymentReceipt(user, registration.ID, file)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	saved, err := os.ReadFile(updated.ReceiptPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 test"), saved)
}

func TestSubmitPaymentReceiptRejectsBadFile(t *testing.T) {
	repo := newTestRepo(t)
	cfg := newTestConfig(t)
	cfg.MaxUploadSize = 64
	svc := services.NewRegistrationService(repo, cfg)

	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")

	registration, err := svc.Register(user, event.ID, services.UserUpdate{})
	require.NoError(t, err)
	registration.Status = models.StatusPayment
	require.NoError(t, repo.RegistrationRepo.SaveRegistration(registration))

	tests := []struct {
		name string
		file *multipart.FileHeader
	}{
		{"bad_extension", makeFileHeader(t, "receipt.exe", []byte("MZ"))},
		{"oversize", makeFileHeader(t, "receipt.pdf", bytes.Repeat([]byte("a"), 128))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SubmitPaymentReceipt(user, registration.ID, tt.file)
			assertErrorCode(t, err, apperrors.CodeValidation)

			// A rejected upload leaves the status untouched.
			stored, err := repo.RegistrationRepo.GetRegistrationByID(registration.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusPayment, stored.Status)
		})
	}
}

func TestDeclineParticipation(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")

	registration, err := svc.Register(user, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	// pending registrations cannot decline
	_, err = svc.DeclineParticipation(user, registration.ID)
	assertErrorCode(t, err, apperrors.CodeConflict)

	registration.Status = models.StatusPayment
	require.NoError(t, repo.RegistrationRepo.SaveRegistration(registration))

	declined, err := svc.DeclineParticipation(user, registration.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, declined.Status)
}

func TestBulkUpdateStatuses(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	alice := seedUser(t, repo, 111, "alice")
	bob := seedUser(t, repo, 222, "bob")

	r1, err := svc.Register(alice, event.ID, services.UserUpdate{})
	require.NoError(t, err)
	r2, err := svc.Register(bob, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	_, err = svc.BulkUpdateStatuses([]uint{r1.ID}, "vip")
	assertErrorCode(t, err, apperrors.CodeValidation)

	_, err = svc.BulkUpdateStatuses([]uint{9000, 9001}, models.StatusPayment)
	assertErrorCode(t, err, apperrors.CodeNotFound)

	updated, err := svc.BulkUpdateStatuses([]uint{r1.ID, r2.ID}, models.StatusPayment)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	stored, err := repo.RegistrationRepo.GetRegistrationByID(r1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPayment, stored.Status)
}

func TestCheckInByToken(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	user := seedUser(t, repo, 111, "alice")

	registration, err := svc.Register(user, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	_, _, err = svc.CheckInByToken("no-such-token")
	assertErrorCode(t, err, apperrors.CodeNotFound)

	// Only accepted registrations may check in.
	_, _, err = svc.CheckInByToken(registration.CheckInToken)
	assertErrorCode(t, err, apperrors.CodeConflict)

	registration.Status = models.StatusAccepted
	require.NoError(t, repo.RegistrationRepo.SaveRegistration(registration))

	first, already, err := svc.CheckInByToken(registration.CheckInToken)
	require.NoError(t, err)
	assert.False(t, already)
	require.NotNil(t, first.CheckedInAt)

	second, already, err := svc.CheckInByToken(registration.CheckInToken)
	require.NoError(t, err)
	assert.True(t, already)
	require.NotNil(t, second.CheckedInAt)
	assert.Equal(t, first.CheckedInAt.Unix(), second.CheckedInAt.Unix())
}

func TestListEventRegistrations(t *testing.T) {
	svc, repo := newRegistrationService(t)
	event := seedEvent(t, repo, true,
		time.Now().Add(24*time.Hour), time.Now().Add(48*time.Hour))
	alice := seedUser(t, repo, 111, "alice")
	bob := seedUser(t, repo, 222, "bob")

	r1, err := svc.Register(alice, event.ID, services.UserUpdate{})
	require.NoError(t, err)
	_, err = svc.Register(bob, event.ID, services.UserUpdate{})
	require.NoError(t, err)

	_, err = svc.ListEventRegistrations(4242, repositories.ListRegistrationsOptions{})
	assertErrorCode(t, err, apperrors.CodeNotFound)

	_, err = svc.ListEventRegistrations(event.ID,
		repositories.ListRegistrationsOptions{Status: "vip"})
	assertErrorCode(t, err, apperrors.CodeValidation)

	_, err = svc.BulkUpdateStatuses([]uint{r1.ID}, models.StatusAccepted)
	require.NoError(t, err)

	accepted, err := svc.ListEventRegistrations(event.ID,
		repositories.ListRegistrationsOptions{Status: models.StatusAccepted})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.Equal(t, r1.ID, accepted[0].ID)

	all, err := svc.ListEventRegistrations(event.ID, repositories.ListRegistrationsOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
