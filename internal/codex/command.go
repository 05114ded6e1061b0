// Package codex turns discovered MCP servers into `codex mcp add` commands
// and reads the servers Codex already has registered.
package codex

import (
	"sort"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/vmark-dev/devkit/internal/model"
)

// Binary is the CLI the rendered commands invoke.
const Binary = "codex"

// RenderAddCommand returns a shell-ready registration command for entry.
// The boolean is false when the entry lacks what its kind needs (an http
// entry without a url, a stdio entry without a command, or an unknown kind);
// that is an expected outcome rather than an error.
func RenderAddCommand(entry model.MCPServer) (string, bool) {
	tokens, ok := AddCommandArgs(entry)
	if !ok {
		return "", false
	}
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = shellescape.Quote(tok)
	}
	return strings.Join(quoted, " "), true
}

// AddCommandArgs returns the unquoted argv of the registration command.
func AddCommandArgs(entry model.MCPServer) ([]string, bool) {
	args := []string{Binary, "mcp", "add", entry.Name}

	switch {
	case entry.IsHTTP():
		args = append(args, "--url", entry.URL)
		if entry.BearerTokenEnvVar != "" {
			args = append(args, "--bearer-token-env-var", entry.BearerTokenEnvVar)
		}
		return args, true

	case entry.IsStdio():
		for _, k := range sortedKeys(entry.Env) {
			args = append(args, "--env", k+"="+entry.Env[k])
		}
		args = append(args, "--", entry.Command)
		args = append(args, entry.Args...)
		return args, true

	default:
		return nil, false
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
