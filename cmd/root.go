package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmark-dev/devkit/internal/cli"
	"github.com/vmark-dev/devkit/internal/config"
	"github.com/vmark-dev/devkit/internal/logger"
)

var (
	configPath            string
	verboseMode           bool
	version, commit, date string

	// Populated by loadConfig before any subcommand runs.
	appConfig *config.Config
	appHome   string
	appLogger = logger.Discard()

	// configProblems are load problems that did not stop the config from
	// being built: a malformed implicit file, bad DEVKIT_* values, invalid
	// logging settings. Commands decide whether they are fatal.
	configProblems []error
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "devkit",
	Short: "Developer tooling for VMark",
	Long: `devkit bundles the small tools VMark developers run by hand:

  scan-mcp   finds MCP server definitions in Claude configs and prints
             matching "codex mcp add" commands
  dev-icons  renders badged "DEV" variants of the app icon for dev builds

Settings are read from .devkit.yaml (or --config / DEVKIT_CONFIG) and
DEVKIT_* environment variables. Flags override both.`,
	Example: `  devkit scan-mcp                    # Scan ~/.claude.json and the current project
  devkit scan-mcp --format json      # Machine-readable listing
  devkit dev-icons                   # Write src-tauri/icons-dev from src-tauri/icons/icon.png
  devkit doctor                      # Check for iconutil and codex`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default ./"+config.DefaultFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tools", Title: "Tool Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)

	// Hide the auto-generated completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path, required := resolveConfigPath(configPath, os.Getenv("DEVKIT_CONFIG"))

	// Without a home directory the default paths simply won't exist.
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	cfg, problems, err := config.LoadLenient(path, home, required)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLogging(); err != nil {
		problems = append(problems, fmt.Errorf("validating config: %w", err))
		cfg.Logging = config.Default(home).Logging
	}
	log, err := logger.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format, verboseMode)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	appConfig, appHome, appLogger, configProblems = cfg, home, log, problems
	appLogger.Debug("config loaded", "path", path, "required", required, "problems", len(problems))
	return nil
}

// strictConfig returns the loaded config, or every load problem as one
// error.
func strictConfig() (*config.Config, error) {
	if len(configProblems) > 0 {
		return nil, errors.Join(configProblems...)
	}
	return currentConfig(), nil
}

// tolerantConfig reports load problems on w as warnings and returns the
// config built from whatever did load.
func tolerantConfig(w io.Writer) *config.Config {
	for _, p := range configProblems {
		cli.Warn(w, "%v", p)
	}
	return currentConfig()
}

// resolveConfigPath picks the config file: the flag, then DEVKIT_CONFIG,
// then the implicit default. Only the implicit default may be absent.
func resolveConfigPath(flag, env string) (path string, required bool) {
	switch {
	case flag != "":
		return flag, true
	case env != "":
		return env, true
	default:
		return config.DefaultFileName, false
	}
}

// currentConfig returns the loaded config, falling back to defaults when a
// command runs without PersistentPreRunE (as in tests).
func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.Default(homeDir())
}

func homeDir() string {
	if appConfig != nil {
		return appHome
	}
	home, _ := os.UserHomeDir()
	return home
}

// Execute runs the root command. ctx is cancelled on interrupt and is
// passed down to external tools.
func Execute(ctx context.Context) error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.ExecuteContext(ctx)
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("devkit %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("devkit %s\n", version)
}
