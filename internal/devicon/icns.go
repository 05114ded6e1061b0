package devicon

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPackagerUnavailable means iconutil is not installed.
var ErrPackagerUnavailable = errors.New("iconutil not found")

const iconutilBinary = "iconutil"

// Packager converts an .iconset directory into an .icns file with iconutil.
// The function fields can be replaced in tests.
type Packager struct {
	LookPath func(file string) (string, error)
	Run      func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewPackager returns a Packager backed by the real iconutil.
func NewPackager() *Packager {
	return &Packager{LookPath: exec.LookPath, Run: runCombined}
}

func runCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Package runs `iconutil -c icns <iconset> -o <out>`.
func (p *Packager) Package(ctx context.Context, iconset, out string) error {
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	run := p.Run
	if run == nil {
		run = runCombined
	}

	bin, err := lookPath(iconutilBinary)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPackagerUnavailable, err)
	}
	output, err := run(ctx, bin, "-c", "icns", iconset, "-o", out)
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return fmt.Errorf("iconutil failed: %w: %s", err, msg)
		}
		return fmt.Errorf("iconutil failed: %w", err)
	}
	return nil
}
