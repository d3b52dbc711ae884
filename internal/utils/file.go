package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

var allowedReceiptExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateReceiptFile checks the upload against the receipt constraints:
// pdf/jpg/jpeg/png only, size capped by maxSize.
func ValidateReceiptFile(file *multipart.FileHeader, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedReceiptExtensions[ext] {
		return fmt.Errorf("file type not allowed: %s", ext)
	}
	if file.Size > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", file.Size, maxSize)
	}
	return nil
}

// ReceiptFilename derives the stored name from the owner and registration id,
// e.g. "ivan_ivanov_42.pdf".
func ReceiptFilename(firstName, username string, registrationID uint, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s_%s_%d%s",
		sanitizeFilenamePart(firstName),
		sanitizeFilenamePart(username),
		registrationID,
		ext,
	)
}

func sanitizeFilenamePart(s string) string {
	if s == "" {
		return "unknown"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func SaveUploadedFile(file *multipart.FileHeader, destDir, filename string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	destPath := filepath.Join(destDir, filename)
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return destPath, nil
}
