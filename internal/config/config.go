// Package config loads devkit settings.
//
// Settings come from, in increasing priority: built-in defaults, a YAML
// file, and DEVKIT_* environment variables. Command-line flags are applied
// on top by the cmd package.
//
// The YAML file may reference environment variables as ${VAR_NAME}:
//
//	scan:
//	  claude_config: "${HOME}/.claude.json"
//	  max_depth: 4
//	  skip_dirs: ["dist", "target"]
//	icons:
//	  source: "src-tauri/icons/icon.png"
//	  output_dir: "src-tauri/icons-dev"
//	  label: "DEV"
//	logging:
//	  level: "warn"
//	  format: "text"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no config
// path is given.
const DefaultFileName = ".devkit.yaml"

// Config is the complete devkit configuration.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Icons   IconsConfig   `yaml:"icons"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig holds scan-mcp settings.
type ScanConfig struct {
	ClaudeConfig     string   `yaml:"claude_config" env:"DEVKIT_CLAUDE_CONFIG"`
	CodexConfig      string   `yaml:"codex_config" env:"DEVKIT_CODEX_CONFIG"`
	MaxDepth         int      `yaml:"max_depth" env:"DEVKIT_MAX_DEPTH"`
	MarkerFile       string   `yaml:"marker_file" env:"DEVKIT_MARKER_FILE"`
	SkipDirs         []string `yaml:"skip_dirs" env:"DEVKIT_SKIP_DIRS" envSeparator:","`
	RespectGitignore bool     `yaml:"respect_gitignore" env:"DEVKIT_RESPECT_GITIGNORE"`
}

// IconsConfig holds dev-icons settings. Relative paths are resolved against
// the working directory.
type IconsConfig struct {
	Source    string `yaml:"source" env:"DEVKIT_ICON_SOURCE"`
	OutputDir string `yaml:"output_dir" env:"DEVKIT_ICON_OUTPUT"`
	Label     string `yaml:"label" env:"DEVKIT_ICON_LABEL"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"DEVKIT_LOG_LEVEL"`
	Format string `yaml:"format" env:"DEVKIT_LOG_FORMAT"`
}

// Default returns the built-in configuration. home is the user's home
// directory; the caller resolves it so nothing here reads ambient state.
func Default(home string) *Config {
	return &Config{
		Scan: ScanConfig{
			ClaudeConfig: filepath.Join(home, ".claude.json"),
			CodexConfig:  filepath.Join(home, ".codex", "config.toml"),
			MaxDepth:     4,
			MarkerFile:   ".mcp.json",
		},
		Icons: IconsConfig{
			Source:    filepath.Join("src-tauri", "icons", "icon.png"),
			OutputDir: filepath.Join("src-tauri", "icons-dev"),
			Label:     "DEV",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment, then validates every section. Any problem is an error; a
// missing file is tolerated unless required.
func Load(path, home string, required bool) (*Config, error) {
	cfg, problems, err := LoadLenient(path, home, required)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, problems[0]
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadLenient builds the configuration like Load but keeps going past an
// unparseable implicit file or bad environment values, returning them as
// problems alongside defaults plus whatever did parse. Only a required file
// that cannot be read or parsed is an error. Nothing is validated; callers
// check the sections they use.
func LoadLenient(path, home string, required bool) (*Config, []error, error) {
	cfg := Default(home)
	var problems []error

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			switch {
			case required:
				return nil, nil, err
			case !errors.Is(err, fs.ErrNotExist):
				problems = append(problems, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		problems = append(problems, fmt.Errorf("parsing environment: %w", err))
	}
	return cfg, problems, nil
}

// mergeFile overlays the YAML file at path onto c.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	expanded := expandEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} with the variable's value, or the empty
// string when it is unset.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

var (
	validLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks every section and reports all problems found.
func (c *Config) Validate() error {
	return errors.Join(c.ValidateScan(), c.ValidateIcons(), c.ValidateLogging())
}

// ValidateScan checks the scan section.
func (c *Config) ValidateScan() error {
	if c.Scan.MarkerFile == "" {
		return fmt.Errorf("scan.marker_file is required")
	}
	if strings.ContainsAny(c.Scan.MarkerFile, `/\`) {
		return fmt.Errorf("scan.marker_file must be a file name, got %q", c.Scan.MarkerFile)
	}
	return nil
}

// ValidateIcons checks the icons section.
func (c *Config) ValidateIcons() error {
	if n := utf8.RuneCountInString(c.Icons.Label); n < 1 || n > 3 {
		return fmt.Errorf("icons.label must be 1 to 3 characters, got %q", c.Icons.Label)
	}
	if c.Icons.Source == "" {
		return fmt.Errorf("icons.source is required")
	}
	if c.Icons.OutputDir == "" {
		return fmt.Errorf("icons.output_dir is required")
	}
	return nil
}

// ValidateLogging checks the logging section.
func (c *Config) ValidateLogging() error {
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
