package utils_test

import (
	"bytes"
	"mime/multipart"
	"testing"

	"event-registration-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCheckInToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := utils.GenerateCheckInToken()
		require.NoError(t, err)
		assert.Len(t, token, 43) // 32 bytes, unpadded base64url
		assert.False(t, seen[token], "token collision")
		seen[token] = true

		// URL-safe: no characters needing escaping in a query string.
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.NotContains(t, token, "=")
	}
}

func TestRenderTicketPNG(t *testing.T) {
	png, err := utils.RenderTicketPNG("some-check-in-token")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	// The memoized render is stable.
	again, err := utils.RenderTicketPNG("some-check-in-token")
	require.NoError(t, err)
	assert.Equal(t, png, again)
}

func fileHeaderFor(filename string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: filename, Size: size}
}

func TestValidateReceiptFile(t *testing.T) {
	const maxSize = 1024

	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantErr bool
	}{
		{"pdf", fileHeaderFor("receipt.pdf", 100), false},
		{"jpg", fileHeaderFor("receipt.jpg", 100), false},
		{"jpeg_upper", fileHeaderFor("RECEIPT.JPEG", 100), false},
		{"png", fileHeaderFor("receipt.png", 100), false},
		{"executable", fileHeaderFor("receipt.exe", 100), true},
		{"no_extension", fileHeaderFor("receipt", 100), true},
		{"double_extension_ok", fileHeaderFor("receipt.exe.pdf", 100), false},
		{"too_large", fileHeaderFor("receipt.pdf", maxSize + 1), true},
		{"exactly_max", fileHeaderFor("receipt.pdf", maxSize), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ValidateReceiptFile(tt.file, maxSize)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReceiptFilename(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		username  string
		id        uint
		original  string
		want      string
	}{
		{"plain", "Ivan", "ivanov", 42, "scan.pdf", "Ivan_ivanov_42.pdf"},
		{"empty_parts", "", "", 7, "scan.png", "unknown_unknown_7.png"},
		{"hostile_chars", "../Ivan", "iv/an", 1, "scan.jpg", "___Ivan_iv_an_1.jpg"},
		{"extension_lowercased", "Ivan", "ivanov", 3, "SCAN.PDF", "Ivan_ivanov_3.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utils.ReceiptFilename(tt.firstName, tt.username, tt.id, tt.original)
			assert.Equal(t, tt.want, got)
		})
	}
}
