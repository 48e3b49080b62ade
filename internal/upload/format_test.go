package upload

import (
	"testing"

	"github.com/datadash/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1280, "1.3 KB"},
		{1536, "1.5 KB"},
		{2304, "2.3 KB"},
		{3328, "3.3 KB"},
		{1331, "1.3 KB"},
		{2048, "2.0 KB"},
		{1048575, "1024.0 KB"},
		{1048576, "1.0 MB"},
		{1310720, "1.3 MB"},
		{2359296, "2.3 MB"},
		{5 * 1048576, "5.0 MB"},
		{1073741824, "1024.0 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		mime string
		want models.FileKind
	}{
		{"image/png", models.FileKindImage},
		{"image/svg+xml", models.FileKindImage},
		{"application/pdf", models.FileKindDocument},
		{"", models.FileKindDocument},
		{"text/plain", models.FileKindDocument},
		{"IMAGE/PNG", models.FileKindDocument},
		{"image", models.FileKindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.mime))
		})
	}
}
