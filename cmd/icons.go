package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vmark-dev/devkit/internal/devicon"
)

var (
	iconsSource string
	iconsOutDir string
	iconsLabel  string
)

var iconsCmd = &cobra.Command{
	Use:   "dev-icons",
	Short: "Generate badged dev-build variants of the app icon",
	Long: `Resizes the source icon into every size a Tauri bundle ships, stamps a
small label (default "DEV") in the bottom-right corner of each variant that
is at least 48 pixels wide, and writes:

  - the PNG set (32x32.png ... StoreLogo.png)
  - icon.ico with 16 to 256 pixel images
  - icon.icns, built with iconutil (macOS only)

When iconutil is missing or fails, a warning is printed and the
icon.iconset staging directory is left in the output directory.
Use "devkit dev-icons clean" to remove it.`,
	Example: `  devkit dev-icons
  devkit dev-icons --source assets/icon.png --out build/icons --label BETA`,
	GroupID: "tools",
	Args:    cobra.NoArgs,
	RunE:    runIcons,
}

func init() {
	f := iconsCmd.Flags()
	f.StringVar(&iconsSource, "source", "", "Source PNG (default src-tauri/icons/icon.png)")
	f.StringVar(&iconsOutDir, "out", "", "Output directory (default src-tauri/icons-dev)")
	f.StringVar(&iconsLabel, "label", "", "Badge text, 1-3 characters (default DEV)")
	rootCmd.AddCommand(iconsCmd)
}

func runIcons(cmd *cobra.Command, args []string) error {
	loaded, err := strictConfig()
	if err != nil {
		return err
	}
	cfg := *loaded
	if cmd.Flags().Changed("source") {
		cfg.Icons.Source = iconsSource
	}
	if cmd.Flags().Changed("out") {
		cfg.Icons.OutputDir = iconsOutDir
	}
	if cmd.Flags().Changed("label") {
		cfg.Icons.Label = iconsLabel
	}
	if err := cfg.ValidateIcons(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	gen := devicon.NewGenerator(cfg.Icons.Source, cfg.Icons.OutputDir, cfg.Icons.Label,
		cmd.OutOrStdout(), cmd.ErrOrStderr(), appLogger)
	return runIconsWithIO(cmd.Context(), gen, cmd.OutOrStdout())
}

func runIconsWithIO(ctx context.Context, gen *devicon.Generator, output io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := gen.Generate(ctx); err != nil {
		return err
	}
	fmt.Fprintln(output)
	fmt.Fprintln(output, "Dev icons generated successfully!")
	return nil
}
