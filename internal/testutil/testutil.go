// Package testutil provides shared test helpers used across packages.
package testutil

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/vmark-dev/devkit/internal/config"
)

// DiscardLogger returns a slog.Logger that discards all output.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestConfig returns the default config rooted at a throwaway home directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.Default(t.TempDir())
}

// WriteFile creates path (and its parent directories) with content.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// Gradient returns a size×size opaque image whose pixels all differ from
// their neighbours, so resampling and overlays are easy to detect.
func Gradient(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(size-1, 1)),
				G: uint8(y * 255 / max(size-1, 1)),
				B: 40,
				A: 255,
			})
		}
	}
	return img
}
