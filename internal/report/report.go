// Package report prints scan-mcp results for people (text) and for
// scripts (JSON, YAML).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/vmark-dev/devkit/internal/codex"
	"github.com/vmark-dev/devkit/internal/discovery"
	"github.com/vmark-dev/devkit/internal/model"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Record is the machine-readable shape of one entry. Absent optional
// fields are null.
type Record struct {
	Name              string            `json:"name" yaml:"name"`
	Source            string            `json:"source" yaml:"source"`
	Kind              model.Kind        `json:"kind" yaml:"kind"`
	URL               *string           `json:"url" yaml:"url"`
	Command           *string           `json:"command" yaml:"command"`
	Args              []string          `json:"args" yaml:"args"`
	Env               map[string]string `json:"env" yaml:"env"`
	BearerTokenEnvVar *string           `json:"bearer_token_env_var" yaml:"bearer_token_env_var"`
}

// NewRecord converts an entry for serialization.
func NewRecord(e model.MCPServer) Record {
	args := e.Args
	if args == nil {
		args = []string{}
	}
	env := e.Env
	if env == nil {
		env = map[string]string{}
	}
	return Record{
		Name:              e.Name,
		Source:            e.Source,
		Kind:              e.Kind,
		URL:               optional(e.URL),
		Command:           optional(e.Command),
		Args:              args,
		Env:               env,
		BearerTokenEnvVar: optional(e.BearerTokenEnvVar),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func records(entries []model.MCPServer) []Record {
	out := make([]Record, len(entries))
	for i, e := range entries {
		out[i] = NewRecord(e)
	}
	return out
}

// WriteJSON writes entries as an indented JSON array.
func WriteJSON(w io.Writer, entries []model.MCPServer) error {
	data, err := json.MarshalIndent(records(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// WriteYAML writes entries as a YAML sequence.
func WriteYAML(w io.Writer, entries []model.MCPServer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records(entries)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteText writes the human-readable listing. registered holds names
// Codex already knows about and may be nil.
func WriteText(w io.Writer, entries []model.MCPServer, registered map[string]bool) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "Found 0 MCP servers.")
		return err
	}

	bold := color.New(color.Bold)
	note := color.New(color.FgYellow)
	dups := discovery.Duplicates(entries)

	fmt.Fprintf(w, "Found %d MCP server(s):\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(w, "- %s (%s) from %s\n", bold.Sprint(e.Name), e.Kind, e.Source)
		if e.URL != "" {
			fmt.Fprintf(w, "  url: %s\n", e.URL)
		}
		if e.Command != "" {
			line := strings.TrimRight(e.Command+" "+strings.Join(e.Args, " "), " ")
			fmt.Fprintf(w, "  command: %s\n", line)
		}
		if len(e.Env) > 0 {
			fmt.Fprintf(w, "  env: %s\n", formatEnv(e.Env))
		}
		if dups[e.Name] {
			fmt.Fprintf(w, "  %s\n", note.Sprint("note: duplicate name detected; consider renaming"))
		}
		if registered[e.Name] {
			fmt.Fprintf(w, "  %s\n", note.Sprint("note: already registered with codex"))
		}
		if cmd, ok := codex.RenderAddCommand(e); ok {
			fmt.Fprintf(w, "  codex mcp add: %s\n", cmd)
		} else {
			fmt.Fprintln(w, "  codex mcp add: (insufficient config)")
		}
	}
	return nil
}

func formatEnv(env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + env[k]
	}
	return strings.Join(pairs, ", ")
}
