package devicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/vmark-dev/devkit/internal/cli"
	devlog "github.com/vmark-dev/devkit/internal/logger"
)

// Generator runs the dev icon pipeline from Source into OutputDir.
type Generator struct {
	Source    string
	OutputDir string

	Badger   *Badger
	Packager *Packager

	// Out receives progress lines, Warnings receives warn: lines.
	Out      io.Writer
	Warnings io.Writer
	Logger   *slog.Logger
}

// NewGenerator returns a Generator with the default badge and packager.
func NewGenerator(source, outDir, label string, out, warnings io.Writer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = devlog.Discard()
	}
	return &Generator{
		Source:    source,
		OutputDir: outDir,
		Badger:    NewBadger(label, logger),
		Packager:  NewPackager(),
		Out:       out,
		Warnings:  warnings,
		Logger:    logger,
	}
}

// Generate loads the source icon and writes the PNG catalog, icon.ico and
// icon.icns. A missing source is returned as an error wrapping
// ErrSourceNotFound. A failed .icns build is reported as a warning only.
func (g *Generator) Generate(ctx context.Context) error {
	src, err := Load(g.Source)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	g.printf("Generating dev icons in %s\n", g.OutputDir)

	if err := g.RenderAll(src, g.OutputDir, PNGCatalog); err != nil {
		return err
	}
	if err := g.BuildICO(src, filepath.Join(g.OutputDir, ICOFileName), ICOSizes); err != nil {
		return err
	}
	g.printf("  Created %s\n", ICOFileName)

	staging := StagingDir(g.OutputDir)
	err = g.BuildICNS(ctx, src, staging, filepath.Join(g.OutputDir, ICNSFileName), ICNSCatalog)
	switch {
	case err == nil:
		g.printf("  Created %s\n", ICNSFileName)
	case errors.Is(err, ErrPackagerUnavailable):
		cli.Warn(g.Warnings, "iconutil not found, skipping %s (iconset left in %s)", ICNSFileName, staging)
	default:
		cli.Warn(g.Warnings, "could not create %s: %v (iconset left in %s)", ICNSFileName, err, staging)
	}
	return nil
}

// RenderAll writes one badged variant per catalog entry into outDir.
func (g *Generator) RenderAll(src image.Image, outDir string, catalog []SizeSpec) error {
	for _, spec := range catalog {
		path := filepath.Join(outDir, spec.Filename)
		if err := writePNG(path, g.variant(src, spec.Size)); err != nil {
			return err
		}
		g.printf("  Created %s (%dx%d)\n", spec.Filename, spec.Size, spec.Size)
	}
	return nil
}

// BuildICO writes a multi-resolution .ico with one badged variant per size,
// smallest first.
func (g *Generator) BuildICO(src image.Image, outPath string, sizes []int) error {
	sorted := slices.Clone(sizes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	images := make([]image.Image, len(sorted))
	for i, size := range sorted {
		images[i] = g.variant(src, size)
	}

	var buf bytes.Buffer
	if err := WriteICO(&buf, images); err != nil {
		return fmt.Errorf("building %s: %w", filepath.Base(outPath), err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// BuildICNS stages the iconset in stagingDir and packages it into outPath.
// The staging directory is removed only when packaging succeeds.
func (g *Generator) BuildICNS(ctx context.Context, src image.Image, stagingDir, outPath string, catalog []SizeSpec) error {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("creating iconset: %w", err)
	}

	// Several entries share a pixel size.
	rendered := make(map[int]*image.NRGBA)
	for _, spec := range catalog {
		img, ok := rendered[spec.Size]
		if !ok {
			img = g.variant(src, spec.Size)
			rendered[spec.Size] = img
		}
		if err := writePNG(filepath.Join(stagingDir, spec.Filename), img); err != nil {
			return err
		}
	}

	packager := g.Packager
	if packager == nil {
		packager = NewPackager()
	}
	if err := packager.Package(ctx, stagingDir, outPath); err != nil {
		return err
	}

	if err := os.RemoveAll(stagingDir); err != nil {
		g.logger().Warn("failed to remove iconset", "path", stagingDir, "error", err)
	}
	return nil
}

func (g *Generator) variant(src image.Image, size int) *image.NRGBA {
	img := Resize(src, size)
	if g.Badger == nil {
		return img
	}
	return g.Badger.Apply(img)
}

func (g *Generator) printf(format string, args ...any) {
	if g.Out != nil {
		fmt.Fprintf(g.Out, format, args...)
	}
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger == nil {
		return devlog.Discard()
	}
	return g.Logger
}
