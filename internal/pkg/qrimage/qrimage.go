package qrimage

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered PNG edge length in pixels
const DefaultSize = 256

// Renderer turns a signed payload into a scannable PNG data URL
type Renderer struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewRenderer creates a renderer; size <= 0 uses DefaultSize
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size, level: qrcode.Medium}
}

// Render encodes payload as a PNG and returns it as a data URL
func (r *Renderer) Render(payload string) (string, error) {
	png, err := qrcode.Encode(payload, r.level, r.size)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
