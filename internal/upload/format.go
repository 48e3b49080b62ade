package upload

import (
	"fmt"
	"math"
	"strings"

	"github.com/datadash/backend/internal/models"
)

const (
	kib = 1024
	mib = 1024 * 1024
)

// FormatSize renders a byte count for display. Thresholds are 1024-based
// while the units read "KB" and "MB"; clients depend on this exact output,
// including ties rounding up (1280 bytes is "1.3 KB").
func FormatSize(bytes int64) string {
	switch {
	case bytes < kib:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mib:
		return fmt.Sprintf("%.1f KB", roundTenthHalfUp(float64(bytes)/kib))
	default:
		return fmt.Sprintf("%.1f MB", roundTenthHalfUp(float64(bytes)/mib))
	}
}

// roundTenthHalfUp rounds to one decimal place with ties going up. Byte
// counts divided by a power of two are exact in binary, so v*10 is too.
func roundTenthHalfUp(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// Classify derives a file kind from its declared media type.
func Classify(mimeType string) models.FileKind {
	if strings.HasPrefix(mimeType, "image/") {
		return models.FileKindImage
	}
	return models.FileKindDocument
}
