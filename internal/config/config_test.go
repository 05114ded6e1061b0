package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default("/home/alice")

	assert.Equal(t, "/home/alice/.claude.json", cfg.Scan.ClaudeConfig)
	assert.Equal(t, "/home/alice/.codex/config.toml", cfg.Scan.CodexConfig)
	assert.Equal(t, 4, cfg.Scan.MaxDepth)
	assert.Equal(t, ".mcp.json", cfg.Scan.MarkerFile)
	assert.Equal(t, "DEV", cfg.Icons.Label)
	assert.Equal(t, filepath.Join("src-tauri", "icons", "icon.png"), cfg.Icons.Source)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("", "/home/alice", false)
	require.NoError(t, err)
	assert.Equal(t, Default("/home/alice"), cfg)
}

func TestLoad_MissingImplicitFileIsIgnored(t *testing.T) {
	missing := filepath.Join(t.TempDir(), DefaultFileName)
	cfg, err := Load(missing, "/home/alice", false)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Scan.MaxDepth)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := Load(missing, "/home/alice", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
scan:
  max_depth: 2
  skip_dirs: ["dist", "target"]
  respect_gitignore: true
icons:
  label: "QA"
logging:
  level: debug
  format: json
`)
	cfg, err := Load(path, "/home/alice", true)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Scan.MaxDepth)
	assert.Equal(t, []string{"dist", "target"}, cfg.Scan.SkipDirs)
	assert.True(t, cfg.Scan.RespectGitignore)
	assert.Equal(t, "QA", cfg.Icons.Label)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	// untouched fields keep their defaults
	assert.Equal(t, "/home/alice/.claude.json", cfg.Scan.ClaudeConfig)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("DEVKIT_TEST_HOME", "/srv/configs")
	path := writeConfig(t, `
scan:
  claude_config: "${DEVKIT_TEST_HOME}/claude.json"
  codex_config: "${DEVKIT_TEST_UNSET}/config.toml"
`)
	cfg, err := Load(path, "/home/alice", true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/configs/claude.json", cfg.Scan.ClaudeConfig)
	assert.Equal(t, "/config.toml", cfg.Scan.CodexConfig)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
scan:
  max_depth: 2
  marker_file: ".mcp.json"
`)
	t.Setenv("DEVKIT_MAX_DEPTH", "7")
	t.Setenv("DEVKIT_SKIP_DIRS", "build,out")
	t.Setenv("DEVKIT_ICON_LABEL", "BET")

	cfg, err := Load(path, "/home/alice", true)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scan.MaxDepth)
	assert.Equal(t, []string{"build", "out"}, cfg.Scan.SkipDirs)
	assert.Equal(t, "BET", cfg.Icons.Label)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "scan: [unclosed")
	_, err := Load(path, "/home/alice", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("DEVKIT_MAX_DEPTH", "deep")
	_, err := Load("", "/home/alice", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty marker", func(c *Config) { c.Scan.MarkerFile = "" }, "scan.marker_file is required"},
		{"marker with dir", func(c *Config) { c.Scan.MarkerFile = "sub/.mcp.json" }, "must be a file name"},
		{"empty label", func(c *Config) { c.Icons.Label = "" }, "icons.label"},
		{"long label", func(c *Config) { c.Icons.Label = "DEVX" }, "icons.label"},
		{"empty source", func(c *Config) { c.Icons.Source = "" }, "icons.source"},
		{"empty output", func(c *Config) { c.Icons.OutputDir = "" }, "icons.output_dir"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level case-insensitive", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/home/alice")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadLenient_ImplicitFileProblemsAreReported(t *testing.T) {
	path := writeConfig(t, "scan: [unclosed")
	t.Setenv("DEVKIT_MAX_DEPTH", "deep")
	t.Setenv("DEVKIT_ICON_LABEL", "QA")

	cfg, problems, err := LoadLenient(path, "/home/alice", false)
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0].Error(), "parsing config file")
	assert.Contains(t, problems[1].Error(), "parsing environment")

	// defaults survive, valid env values still apply
	assert.Equal(t, "/home/alice/.claude.json", cfg.Scan.ClaudeConfig)
	assert.Equal(t, "QA", cfg.Icons.Label)
}

func TestLoadLenient_RequiredFileFails(t *testing.T) {
	path := writeConfig(t, "scan: [unclosed")
	_, _, err := LoadLenient(path, "/home/alice", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")

	_, _, err = LoadLenient(filepath.Join(t.TempDir(), "nope.yaml"), "/home/alice", true)
	require.Error(t, err)
}

func TestLoadLenient_DoesNotValidate(t *testing.T) {
	t.Setenv("DEVKIT_ICON_LABEL", "BETA")
	cfg, problems, err := LoadLenient("", "/home/alice", false)
	require.NoError(t, err)
	assert.Empty(t, problems)

	assert.NoError(t, cfg.ValidateScan())
	assert.NoError(t, cfg.ValidateLogging())
	assert.ErrorContains(t, cfg.ValidateIcons(), "icons.label")
	assert.ErrorContains(t, cfg.Validate(), "icons.label")
}
