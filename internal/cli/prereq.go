package cli

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// Prerequisite is an external binary one of the pipelines invokes.
type Prerequisite struct {
	Name        string
	Description string
	InstallURL  string
	Required    bool
	// VersionArgs is passed to the binary to print its version. Nil means
	// the tool has no version flag and only presence is reported.
	VersionArgs []string
}

// CheckResult is the outcome of looking up one Prerequisite.
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Path         string
	Version      string
}

// LookPath finds binaries on PATH. Tests replace it.
var LookPath = exec.LookPath

const versionTimeout = 5 * time.Second

// DefaultPrerequisites lists the tools devkit can use. Neither is required:
// both pipelines degrade to a warning when a tool is missing.
func DefaultPrerequisites() []Prerequisite {
	return []Prerequisite{
		{
			Name:        "iconutil",
			Description: "Packages .iconset directories into .icns bundles (macOS only)",
			InstallURL:  "https://developer.apple.com/xcode/",
		},
		{
			Name:        "codex",
			Description: "Runs the `codex mcp add` commands printed by scan-mcp",
			InstallURL:  "https://github.com/openai/codex",
			VersionArgs: []string{"--version"},
		},
	}
}

// CheckAll resolves every prerequisite on PATH and collects versions.
func CheckAll(prereqs []Prerequisite) []CheckResult {
	results := make([]CheckResult, len(prereqs))
	for i, p := range prereqs {
		results[i] = Check(p)
	}
	return results
}

// Check resolves a single prerequisite.
func Check(p Prerequisite) CheckResult {
	res := CheckResult{Prerequisite: p}
	path, err := LookPath(p.Name)
	if err != nil {
		return res
	}
	res.Found = true
	res.Path = path
	if p.VersionArgs != nil {
		res.Version = readVersion(path, p.VersionArgs)
	}
	return res
}

func readVersion(path string, args []string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, args...).Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.TrimSpace(line)
}
