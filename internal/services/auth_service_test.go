package services_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"event-registration-backend/internal/apperrors"
	"event-registration-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signInitData builds a credential string signed the way Telegram signs
// Web App init data.
func signInitData(botToken string, fields map[string]string) string {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}

	// Same construction the verifier recomputes: key-sorted "k=v" lines.
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

	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func freshAuthDate() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}

func TestValidateInitData(t *testing.T) {
	botToken := "1234567:test-bot-token"
	userJSON := `{"id":123456789,"username":"john_doe","first_name":"John"}`

	tests := []struct {
		name     string
		initData string
		wantErr  bool
	}{
		{
			name: "valid",
			initData: signInitData(botToken, map[string]string{
				"user":      userJSON,
				"auth_date": freshAuthDate(),
			}),
			wantErr: false,
		},
		{
			name: "tampered_payload",
			initData: signInitData(botToken, map[string]string{
				"user":      userJSON,
				"auth_date": freshAuthDate(),
			}) + "&query_id=injected",
			wantErr: true,
		},
		{
			name:     "missing_hash",
			initData: "user=" + url.QueryEscape(userJSON) + "&auth_date=" + freshAuthDate(),
			wantErr:  true,
		},
		{
			name: "wrong_bot_token",
			initData: signInitData("other:token", map[string]string{
				"user":      userJSON,
				"auth_date": freshAuthDate(),
			}),
			wantErr: true,
		},
		{
			name: "stale_auth_date",
			initData: signInitData(botToken, map[string]string{
				"user":      userJSON,
				"auth_date": strconv.FormatInt(time.Now().Add(-25*time.Hour).Unix(), 10),
			}),
			wantErr: true,
		},
		{
			name: "missing_auth_date",
			initData: signInitData(botToken, map[string]string{
				"user": userJSON,
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := services.ValidateInitData(tt.initData, botToken, time.Now())
			if tt.wantErr {
				assertErrorCode(t, err, apperrors.CodeUnauthenticated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userJSON, values.Get("user"))
		})
	}
}

func TestAuthenticateCreatesUserOnFirstVisit(t *testing.T) {
	repo := newTestRepo(t)
	cfg := newTestConfig(t)
	svc := services.NewAuthService(repo, cfg)

	initData := signInitData(cfg.TelegramBotToken, map[string]string{
		"user":      `{"id":123456789,"username":"john_doe","first_name":"John","last_name":"Doe"}`,
		"auth_date": freshAuthDate(),
	})

	user, err := svc.Authenticate(initData)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), user.TelegramID)
	assert.Equal(t, "john_doe", user.TelegramUsername)
	require.NotNil(t, user.FirstName)
	assert.Equal(t, "John", *user.FirstName)

	// Second visit resolves to the same record.
	again, err := svc.Authenticate(initData)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestAuthenticateRejectsMissingUserID(t *testing.T) {
	repo := newTestRepo(t)
	cfg := newTestConfig(t)
	svc := services.NewAuthService(repo, cfg)

	initData := signInitData(cfg.TelegramBotToken, map[string]string{
		"user":      `{"username":"ghost"}`,
		"auth_date": freshAuthDate(),
	})

	_, err := svc.Authenticate(initData)
	assertErrorCode(t, err, apperrors.CodeUnauthenticated)
}

func TestAuthenticateDevMode(t *testing.T) {
	repo := newTestRepo(t)
	cfg := newTestConfig(t)
	cfg.DevMode = true
	svc := services.NewAuthService(repo, cfg)

	seeded := seedUser(t, repo, 555, "dev_user")

	user, err := svc.Authenticate("555")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)

	// Dev mode only trusts existing users; unknown ids are not created.
	_, err = svc.Authenticate("999")
	assertErrorCode(t, err, apperrors.CodeNotFound)

	_, err = svc.Authenticate(fmt.Sprintf("user=%s", "not-a-number"))
	assertErrorCode(t, err, apperrors.CodeUnauthenticated)
}
