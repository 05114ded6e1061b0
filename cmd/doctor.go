package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vmark-dev/devkit/internal/cli"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check for the external tools devkit uses",
	Long: `Reports whether the optional external tools are on PATH:

  - iconutil packages icon.icns in dev-icons (macOS only)
  - codex runs the commands printed by scan-mcp

Neither is required. Missing tools only disable the step that needs them.`,
	GroupID: "setup",
	Args:    cobra.NoArgs,
	RunE:    runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	tolerantConfig(cmd.ErrOrStderr())
	return runDoctorWithIO(cmd.OutOrStdout(), cli.CheckAll)
}

// prereqCheckerFn is the type for the prerequisite check function.
type prereqCheckerFn func([]cli.Prerequisite) []cli.CheckResult

func runDoctorWithIO(output io.Writer, checker prereqCheckerFn) error {
	heading := color.New(color.Bold)
	fmt.Fprintln(output, heading.Sprint("Checking external tools..."))
	fmt.Fprintln(output)

	results := checker(cli.DefaultPrerequisites())

	var missing []cli.CheckResult
	for _, r := range results {
		var status string
		switch {
		case r.Found:
			status = color.GreenString("✓")
		case r.Prerequisite.Required:
			status = color.RedString("✗")
		default:
			status = color.YellowString("○")
		}

		line := fmt.Sprintf("  %s %s", status, r.Prerequisite.Name)
		if r.Found && r.Version != "" {
			line += fmt.Sprintf(" (%s)", r.Version)
		} else if !r.Found {
			line += " [not found]"
			missing = append(missing, r)
		}
		fmt.Fprintln(output, line)
	}
	fmt.Fprintln(output)

	if len(missing) == 0 {
		fmt.Fprintln(output, "All tools installed!")
		return nil
	}

	for _, r := range missing {
		fmt.Fprintf(output, "  %s: %s\n", r.Prerequisite.Name, r.Prerequisite.Description)
		fmt.Fprintf(output, "    Install: %s\n", r.Prerequisite.InstallURL)
	}
	return nil
}
