package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/config"
	"event-registration-backend/internal/models"
	"event-registration-backend/internal/repositories"

	"gorm.io/gorm"
)

// initDataMaxAge is the freshness window for the auth_date field.
const initDataMaxAge = 24 * time.Hour

type AuthService struct {
	repo *repositories.Repository
	cfg  *config.Config
	now  func() time.Time
}

func NewAuthService(repo *repositories.Repository, cfg *config.Config) *AuthService {
	return &AuthService{repo: repo, cfg: cfg, now: time.Now}
}

type telegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Authenticate resolves the opaque credential from the request header to a
// local user. In dev mode the credential is a raw telegram id and the user
// must already exist; otherwise the Telegram Web App initData signature is
// verified and the user is created on first sight.
func (s *AuthService) Authenticate(initData string) (*models.User, error) {
	if s.cfg.DevMode {
		return s.authenticateDevMode(initData)
	}

	values, err := ValidateInitData(initData, s.cfg.TelegramBotToken, s.now())
	if err != nil {
		return nil, err
	}

	var tgUser telegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &tgUser); err != nil || tgUser.ID == 0 {
		return nil, apperrors.New(apperrors.CodeUnauthenticated, "Invalid Telegram init data")
	}

	user, err := s.repo.UserRepo.GetUserByTelegramID(tgUser.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to look up user", err)
	}

	// First verified visit: create the local record from the signed profile.
	// Later profile changes go through the explicit update endpoints.
	user = &models.User{
		TelegramID:       tgUser.ID,
		TelegramUsername: tgUser.Username,
	}
	if tgUser.FirstName != "" {
		user.FirstName = &tgUser.FirstName
	}
	if tgUser.LastName != "" {
		user.LastName = &tgUser.LastName
	}

	if err := s.repo.UserRepo.CreateUser(user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to create user", err)
	}

	return user, nil
}

func (s *AuthService) authenticateDevMode(initData string) (*models.User, error) {
	telegramID, err := strconv.ParseInt(strings.TrimSpace(initData), 10, 64)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeUnauthenticated,
			"In dev mode, X-Telegram-Init-Data must be a valid telegram id")
	}

	user, err := s.repo.UserRepo.GetUserByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "User not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeInternal, "Failed to look up user", err)
	}

	return user, nil
}

// ValidateInitData verifies the Telegram Web App initData signature and
// freshness, returning the parsed fields on success.
//
// The signature scheme: the secret key is HMAC-SHA256 of the bot token keyed
// by the literal "WebAppData"; the received hash must equal HMAC-SHA256 of
// the remaining fields, key-sorted and joined as "k=v" lines, keyed by that
// secret. Every failure collapses to the same authentication error.
func ValidateInitData(initData, botToken string, now time.Time) (url.Values, error) {
	invalid := apperrors.New(apperrors.CodeUnauthenticated, "Invalid Telegram init data")

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, invalid
	}

	receivedHash := values.Get("hash")
	if receivedHash == "" {
		return nil, invalid
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	computedHash := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(computedHash), []byte(receivedHash)) != 1 {
		return nil, invalid
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, invalid
	}
	if now.Sub(time.Unix(authDate, 0)) > initDataMaxAge {
		return nil, invalid
	}

	return values, nil
}
