// Package discovery finds MCP server definitions in local configuration.
//
// Two kinds of source are read:
//
//   - a global JSON settings file with a top-level "mcpServers" object and
//     an optional "projects" collection, each project carrying its own
//     "mcpServers" object;
//   - project-local marker files (".mcp.json" by default) found by a
//     depth-bounded walk of a project tree.
//
// Every definition is normalized into a model.MCPServer. Failures in one
// source are reported on the warnings writer and never stop the others.
package discovery

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/tidwall/gjson"
	"github.com/vmark-dev/devkit/internal/cli"
	devlog "github.com/vmark-dev/devkit/internal/logger"
	"github.com/vmark-dev/devkit/internal/model"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultMaxDepth   = 4
	DefaultMarkerFile = ".mcp.json"
)

// Options selects what a Scanner reads.
type Options struct {
	GlobalConfig     string   // Global settings file; empty skips it
	ProjectRoot      string   // Root of the marker-file walk; empty skips it
	MaxDepth         int      // Deepest directory level searched, root is 0
	MarkerFile       string   // Marker file name, DefaultMarkerFile if empty
	SkipDirs         []string // Extra directory patterns pruned from the walk
	RespectGitignore bool     // Also prune paths ignored by the root .gitignore
}

// Scanner collects MCP server definitions.
type Scanner struct {
	opts     Options
	warnings io.Writer
	logger   *slog.Logger
}

// New creates a Scanner. warnings receives "warn:" lines; logger gets debug
// tracing and may be nil.
func New(opts Options, warnings io.Writer, logger *slog.Logger) *Scanner {
	if opts.MarkerFile == "" {
		opts.MarkerFile = DefaultMarkerFile
	}
	if logger == nil {
		logger = devlog.Discard()
	}
	return &Scanner{opts: opts, warnings: warnings, logger: logger}
}

// Scan reads the global settings file and marker files with default options.
func Scan(globalConfig, projectRoot string, maxDepth int, warnings io.Writer) []model.MCPServer {
	return New(Options{
		GlobalConfig: globalConfig,
		ProjectRoot:  projectRoot,
		MaxDepth:     maxDepth,
	}, warnings, nil).Scan()
}

// Scan returns every definition found, global entries first, then marker
// files in walk order. Duplicate names are kept.
func (s *Scanner) Scan() []model.MCPServer {
	var out []model.MCPServer
	if s.opts.GlobalConfig != "" {
		out = append(out, s.scanGlobal(s.opts.GlobalConfig)...)
	}
	if s.opts.ProjectRoot != "" {
		for _, path := range s.findMarkerFiles() {
			out = append(out, s.scanMarker(path)...)
		}
	}
	if out == nil {
		out = []model.MCPServer{}
	}
	return out
}

func (s *Scanner) scanGlobal(path string) []model.MCPServer {
	doc, ok := s.loadJSON(path)
	if !ok {
		return nil
	}

	out := collectServers(doc.Get("mcpServers"), model.SourceGlobal)

	projects := doc.Get("projects")
	switch {
	case projects.IsObject():
		projects.ForEach(func(key, proj gjson.Result) bool {
			if proj.IsObject() && proj.Get("mcpServers").Exists() {
				out = append(out, collectServers(proj.Get("mcpServers"), model.GlobalProjectSource(key.String()))...)
			}
			return true
		})
	case projects.IsArray():
		projects.ForEach(func(_, proj gjson.Result) bool {
			if !proj.IsObject() || !proj.Get("mcpServers").Exists() {
				return true
			}
			out = append(out, collectServers(proj.Get("mcpServers"), model.GlobalProjectSource(projectPath(proj)))...)
			return true
		})
	}
	return out
}

func (s *Scanner) scanMarker(path string) []model.MCPServer {
	doc, ok := s.loadJSON(path)
	if !ok {
		return nil
	}
	return collectServers(doc.Get("mcpServers"), model.LocalSource(path))
}

// loadJSON reads and validates a JSON object document. A missing file is
// quiet; anything else that prevents use of the file is warned about.
func (s *Scanner) loadJSON(path string) (gjson.Result, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("config file not found", "path", path)
			return gjson.Result{}, false
		}
		cli.Warn(s.warnings, "failed to read %s: %v", path, err)
		return gjson.Result{}, false
	}
	if !gjson.ValidBytes(data) {
		cli.Warn(s.warnings, "failed to read %s: invalid JSON", path)
		return gjson.Result{}, false
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		if isEmptyValue(doc) {
			s.logger.Debug("config file has no settings", "path", path)
		} else {
			cli.Warn(s.warnings, "failed to read %s: expected a JSON object", path)
		}
		return gjson.Result{}, false
	}
	return doc, true
}

// collectServers normalizes every entry of an mcpServers object, in
// document order. Anything other than an object contributes nothing.
func collectServers(servers gjson.Result, source string) []model.MCPServer {
	if !servers.IsObject() {
		return nil
	}
	var out []model.MCPServer
	servers.ForEach(func(name, raw gjson.Result) bool {
		if entry, ok := Normalize(name.String(), raw, source); ok {
			out = append(out, entry)
		}
		return true
	})
	return out
}

// isEmptyValue reports whether a non-object document carries nothing at all
// (null, false, 0, "" or []), which is treated like an empty file.
func isEmptyValue(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return r.Num == 0
	case gjson.String:
		return r.Str == ""
	default:
		return r.IsArray() && len(r.Array()) == 0
	}
}

func projectPath(proj gjson.Result) string {
	if p := scalarString(proj.Get("path")); p != "" {
		return p
	}
	if p := scalarString(proj.Get("projectPath")); p != "" {
		return p
	}
	return "<unknown>"
}
