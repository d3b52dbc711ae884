package utils

import (
	"fmt"
	"sync"

	"github.com/skip2/go-qrcode"
)

const qrCacheLimit = 500

var qrCache = struct {
	sync.Mutex
	images map[string][]byte
}{images: make(map[string][]byte)}

// RenderTicketPNG encodes the check-in token into a PNG ticket image.
// Renders are memoized: the same token always produces the same image, so the
// cache is simply dropped when it reaches its bound.
func RenderTicketPNG(token string) ([]byte, error) {
	qrCache.Lock()
	if png, ok := qrCache.images[token]; ok {
		qrCache.Unlock()
		return png, nil
	}
	qrCache.Unlock()

	png, err := qrcode.Encode(token, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	qrCache.Lock()
	if len(qrCache.images) >= qrCacheLimit {
		qrCache.images = make(map[string][]byte)
	}
	qrCache.images[token] = png
	qrCache.Unlock()

	return png, nil
}
