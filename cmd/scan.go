package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmark-dev/devkit/internal/cli"
	"github.com/vmark-dev/devkit/internal/codex"
	"github.com/vmark-dev/devkit/internal/config"
	"github.com/vmark-dev/devkit/internal/discovery"
	"github.com/vmark-dev/devkit/internal/report"
)

var (
	scanClaudeConfig     string
	scanProjectRoot      string
	scanMaxDepth         int
	scanJSON             bool
	scanFormat           string
	scanCodexConfig      string
	scanMarkerFile       string
	scanRespectGitignore bool
)

var scanCmd = &cobra.Command{
	Use:   "scan-mcp",
	Short: "List MCP servers from Claude configs and print codex mcp add commands",
	Long: `Reads MCP server definitions from the global Claude settings file
(top-level "mcpServers" and every project's "mcpServers") and from
.mcp.json files under the project directory, then prints each one with the
"codex mcp add" command that would register it with Codex.

Nothing is modified. Unreadable or malformed files are reported as
"warn:" lines on stderr and skipped; the command always succeeds.`,
	Example: `  devkit scan-mcp
  devkit scan-mcp --project ~/src/vmark --max-depth 2
  devkit scan-mcp --json | jq '.[].name'`,
	GroupID: "tools",
	Args:    cobra.NoArgs,
	RunE:    runScan,
}

func init() {
	f := scanCmd.Flags()
	f.StringVar(&scanClaudeConfig, "claude", "", "Global Claude settings file (default ~/.claude.json)")
	f.StringVar(&scanProjectRoot, "project", "", "Project directory to search for marker files (default current directory)")
	f.IntVar(&scanMaxDepth, "max-depth", discovery.DefaultMaxDepth, "Deepest directory level searched below the project")
	f.BoolVar(&scanJSON, "json", false, "Shorthand for --format json")
	f.StringVar(&scanFormat, "format", string(report.FormatText), "Output format: text, json or yaml")
	f.StringVar(&scanCodexConfig, "codex-config", "", "Codex config used to flag registered servers (default ~/.codex/config.toml)")
	f.StringVar(&scanMarkerFile, "marker", "", "Project-local MCP config file name (default .mcp.json)")
	f.BoolVar(&scanRespectGitignore, "respect-gitignore", false, "Also skip paths ignored by the project's .gitignore")
	scanCmd.MarkFlagsMutuallyExclusive("json", "format")
	rootCmd.AddCommand(scanCmd)
}

// scanOptions is everything a scan-mcp run needs once flags and config
// are merged.
type scanOptions struct {
	Discovery   discovery.Options
	CodexConfig string
	Format      report.Format
}

func runScan(cmd *cobra.Command, args []string) error {
	opts, err := buildScanOptions(cmd, scanConfig(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	return runScanWithIO(opts, cmd.OutOrStdout(), cmd.ErrOrStderr(), appLogger)
}

// scanConfig returns the config for a scan. Load problems and an invalid
// scan section are warnings; the scan then runs on defaults for whatever
// could not be used.
func scanConfig(warnings io.Writer) *config.Config {
	cfg := *tolerantConfig(warnings)
	if err := cfg.ValidateScan(); err != nil {
		cli.Warn(warnings, "validating config: %v (using default scan settings)", err)
		cfg.Scan = config.Default(homeDir()).Scan
	}
	return &cfg
}

// buildScanOptions applies explicitly set flags on top of cfg.
func buildScanOptions(cmd *cobra.Command, cfg *config.Config) (scanOptions, error) {
	flags := cmd.Flags()
	opts := scanOptions{
		Discovery: discovery.Options{
			GlobalConfig:     cfg.Scan.ClaudeConfig,
			ProjectRoot:      scanProjectRoot,
			MaxDepth:         cfg.Scan.MaxDepth,
			MarkerFile:       cfg.Scan.MarkerFile,
			SkipDirs:         cfg.Scan.SkipDirs,
			RespectGitignore: cfg.Scan.RespectGitignore,
		},
		CodexConfig: cfg.Scan.CodexConfig,
	}

	if flags.Changed("claude") {
		opts.Discovery.GlobalConfig = scanClaudeConfig
	}
	if flags.Changed("max-depth") {
		opts.Discovery.MaxDepth = scanMaxDepth
	}
	if flags.Changed("marker") {
		opts.Discovery.MarkerFile = scanMarkerFile
	}
	if flags.Changed("respect-gitignore") {
		opts.Discovery.RespectGitignore = scanRespectGitignore
	}
	if flags.Changed("codex-config") {
		opts.CodexConfig = scanCodexConfig
	}
	if opts.Discovery.ProjectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return opts, err
		}
		opts.Discovery.ProjectRoot = cwd
	}

	format := scanFormat
	if scanJSON {
		format = string(report.FormatJSON)
	}
	f, err := report.ParseFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	return opts, nil
}

func runScanWithIO(opts scanOptions, stdout, stderr io.Writer, log *slog.Logger) error {
	entries := discovery.New(opts.Discovery, stderr, log).Scan()
	log.Debug("scan finished", "entries", len(entries))

	switch opts.Format {
	case report.FormatJSON:
		return report.WriteJSON(stdout, entries)
	case report.FormatYAML:
		return report.WriteYAML(stdout, entries)
	}

	registered, err := codex.LoadRegistered(opts.CodexConfig)
	if err != nil {
		cli.Warn(stderr, "could not read codex config: %v", err)
	}
	return report.WriteText(stdout, entries, registered)
}
