package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmark-dev/devkit/internal/cli"
	"github.com/vmark-dev/devkit/internal/devicon"
)

var (
	iconsCleanSkipConfirm bool
	iconsCleanOutDir      string
)

var iconsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the icon.iconset directory left by a failed icns build",
	Long: `Removes the icon.iconset staging directory from the dev icon output
directory. It is left behind when iconutil is missing or fails so the
images can be inspected or packaged by hand.

It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	Args: cobra.NoArgs,
	RunE: runIconsClean,
}

func init() {
	iconsCleanCmd.Flags().BoolVarP(&iconsCleanSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	iconsCleanCmd.Flags().StringVar(&iconsCleanOutDir, "out", "", "Output directory (default src-tauri/icons-dev)")
	iconsCmd.AddCommand(iconsCleanCmd)
}

func runIconsClean(cmd *cobra.Command, args []string) error {
	cfg, err := strictConfig()
	if err != nil {
		return err
	}
	outDir := cfg.Icons.OutputDir
	if cmd.Flags().Changed("out") {
		outDir = iconsCleanOutDir
	}
	return runIconsCleanWithIO(os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr(), outDir)
}

func runIconsCleanWithIO(input io.Reader, output, errOut io.Writer, outDir string) error {
	staging := devicon.StagingDir(outDir)

	info, err := os.Stat(staging)
	if err != nil || !info.IsDir() {
		if err != nil && !os.IsNotExist(err) {
			cli.Warn(errOut, "could not inspect %s: %v", staging, err)
		}
		fmt.Fprintln(output, "Nothing to clean.")
		return nil
	}

	entries, err := os.ReadDir(staging)
	if err != nil {
		cli.Warn(errOut, "could not list %s: %v", staging, err)
	}

	fmt.Fprintln(output, "This will clean:")
	fmt.Fprintf(output, "  - %s (%d file(s))\n", staging, len(entries))

	if !iconsCleanSkipConfirm {
		if !confirm(input, output, "Continue?") {
			fmt.Fprintln(output, "Aborted.")
			return nil
		}
	}

	if err := os.RemoveAll(staging); err != nil {
		return fmt.Errorf("removing %s: %w", staging, err)
	}

	fmt.Fprintln(output)
	fmt.Fprintln(output, "Cleaned:")
	fmt.Fprintf(output, "  - %s removed\n", devicon.StagingDirName)
	return nil
}
