package discovery

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmark-dev/devkit/internal/model"
	"github.com/vmark-dev/devkit/internal/testutil"
)

const markerBody = `{"mcpServers": {"%s": {"command": "node", "args": ["server.js"]}}}`

func marker(name string) string {
	return strings.Replace(markerBody, "%s", name, 1)
}

func names(entries []model.MCPServer) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func newTestScanner(opts Options, warnings *bytes.Buffer) *Scanner {
	return New(opts, warnings, testutil.DiscardLogger())
}

func TestScan_GlobalSingleHTTPServer(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `{"mcpServers": {"alpha": {"url": "https://x"}}}`)
	project := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(project, 0o755))

	var warnings bytes.Buffer
	entries := Scan(global, project, DefaultMaxDepth, &warnings)

	require.Len(t, entries, 1)
	assert.Equal(t, "alpha", entries[0].Name)
	assert.Equal(t, model.KindHTTP, entries[0].Kind)
	assert.Equal(t, model.SourceGlobal, entries[0].Source)
	assert.Equal(t, "https://x", entries[0].URL)
	assert.Empty(t, warnings.String())
}

func TestScan_MissingGlobalIsQuiet(t *testing.T) {
	dir := t.TempDir()
	var warnings bytes.Buffer
	entries := Scan(filepath.Join(dir, "nope.json"), filepath.Join(dir, "missing-project"), DefaultMaxDepth, &warnings)

	assert.Empty(t, entries)
	assert.NotNil(t, entries)
	assert.Empty(t, warnings.String())
}

func TestScan_CorruptGlobalWarnsAndContinues(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `{"mcpServers": {`)
	project := filepath.Join(dir, "project")
	testutil.WriteFile(t, filepath.Join(project, ".mcp.json"), marker("beta"))

	var warnings bytes.Buffer
	entries := Scan(global, project, DefaultMaxDepth, &warnings)

	require.Len(t, entries, 1)
	assert.Equal(t, "beta", entries[0].Name)
	assert.Equal(t, model.LocalSource(filepath.Join(project, ".mcp.json")), entries[0].Source)

	lines := strings.Split(strings.TrimSpace(warnings.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "warn: "), lines[0])
	assert.Contains(t, lines[0], global)
}

func TestScan_NonObjectRootWarns(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `"hello"`)

	var warnings bytes.Buffer
	entries := Scan(global, "", DefaultMaxDepth, &warnings)
	assert.Empty(t, entries)
	assert.Contains(t, warnings.String(), "expected a JSON object")
}

func TestScan_EmptyRootIsQuiet(t *testing.T) {
	dir := t.TempDir()
	for _, body := range []string{`{}`, `[]`, `null`} {
		global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), body)
		var warnings bytes.Buffer
		assert.Empty(t, Scan(global, "", DefaultMaxDepth, &warnings), body)
		assert.Empty(t, warnings.String(), body)
	}
}

func TestScan_UnreadableGlobalWarns(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `{"mcpServers": {"a": {"url": "u"}}}`)
	require.NoError(t, os.Chmod(global, 0o000))
	t.Cleanup(func() { os.Chmod(global, 0o644) })

	var warnings bytes.Buffer
	assert.Empty(t, Scan(global, "", DefaultMaxDepth, &warnings))
	assert.True(t, strings.HasPrefix(warnings.String(), "warn: failed to read "))
}

func TestScan_GlobalProjectsObject(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `{
		"mcpServers": {"root": {"url": "https://root"}},
		"projects": {
			"/work/app": {"mcpServers": {"app-db": {"command": "pg-mcp"}}},
			"/work/empty": {"allowedTools": []},
			"/work/bad": "not an object",
			"/work/site.v2": {"mcpServers": {"site": {"type": "sse", "url": "https://site"}}}
		}
	}`)

	var warnings bytes.Buffer
	entries := Scan(global, "", DefaultMaxDepth, &warnings)

	require.Equal(t, []string{"root", "app-db", "site"}, names(entries))
	assert.Equal(t, model.SourceGlobal, entries[0].Source)
	assert.Equal(t, "global:project:/work/app", entries[1].Source)
	assert.Equal(t, "global:project:/work/site.v2", entries[2].Source)
	assert.Equal(t, model.KindHTTP, entries[2].Kind)
	assert.Empty(t, warnings.String())
}

func TestScan_GlobalProjectsArray(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `{
		"projects": [
			{"path": "/a", "mcpServers": {"one": {"command": "x"}}},
			{"projectPath": "/b", "mcpServers": {"two": {"command": "y"}}},
			{"mcpServers": {"three": {"command": "z"}}},
			{"path": "/d"},
			7
		]
	}`)

	entries := Scan(global, "", DefaultMaxDepth, &bytes.Buffer{})

	require.Equal(t, []string{"one", "two", "three"}, names(entries))
	assert.Equal(t, "global:project:/a", entries[0].Source)
	assert.Equal(t, "global:project:/b", entries[1].Source)
	assert.Equal(t, "global:project:<unknown>", entries[2].Source)
}

func TestScan_PreservesDocumentOrder(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"),
		`{"mcpServers": {"zeta": {"url": "z"}, "alpha": {"url": "a"}, "mid": {"url": "m"}}}`)

	entries := Scan(global, "", DefaultMaxDepth, &bytes.Buffer{})
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names(entries))
}

func TestScan_NonObjectServerEntriesDropped(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"),
		`{"mcpServers": {"ok": {"command": "x"}, "str": "npx", "num": 1, "list": []}}`)

	var warnings bytes.Buffer
	entries := Scan(global, "", DefaultMaxDepth, &warnings)
	assert.Equal(t, []string{"ok"}, names(entries))
	assert.Empty(t, warnings.String())
}

func TestScan_DepthBound(t *testing.T) {
	root := t.TempDir()
	// depth = number of directories below root
	testutil.WriteFile(t, filepath.Join(root, ".mcp.json"), marker("d0"))
	testutil.WriteFile(t, filepath.Join(root, "a", "b", ".mcp.json"), marker("d2"))
	testutil.WriteFile(t, filepath.Join(root, "a", "b", "c", ".mcp.json"), marker("d3"))

	entries := Scan("", root, 2, &bytes.Buffer{})
	assert.Equal(t, []string{"d0", "d2"}, names(entries))

	entries = Scan("", root, 3, &bytes.Buffer{})
	assert.Equal(t, []string{"d0", "d2", "d3"}, names(entries))

	entries = Scan("", root, 0, &bytes.Buffer{})
	assert.Equal(t, []string{"d0"}, names(entries))
}

func TestScan_SkipsHiddenAndDenylisted(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "svc", ".mcp.json"), marker("svc"))
	testutil.WriteFile(t, filepath.Join(root, ".hidden", ".mcp.json"), marker("hidden"))
	testutil.WriteFile(t, filepath.Join(root, "node_modules", "pkg", ".mcp.json"), marker("dep"))
	testutil.WriteFile(t, filepath.Join(root, "web", "node_modules", ".mcp.json"), marker("nested-dep"))
	testutil.WriteFile(t, filepath.Join(root, "svc", ".git", ".mcp.json"), marker("git"))

	var warnings bytes.Buffer
	entries := Scan("", root, DefaultMaxDepth, &warnings)
	assert.Equal(t, []string{"svc"}, names(entries))
	assert.Empty(t, warnings.String())
}

func TestScan_ExtraSkipDirs(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, "dist", ".mcp.json"), marker("dist"))
	testutil.WriteFile(t, filepath.Join(root, "src", ".mcp.json"), marker("src"))

	s := newTestScanner(Options{ProjectRoot: root, MaxDepth: 4, SkipDirs: []string{"dist"}}, &bytes.Buffer{})
	assert.Equal(t, []string{"src"}, names(s.Scan()))
}

func TestScan_RespectGitignore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, ".gitignore"), "build\n")
	testutil.WriteFile(t, filepath.Join(root, "build", ".mcp.json"), marker("build"))
	testutil.WriteFile(t, filepath.Join(root, "app", ".mcp.json"), marker("app"))

	plain := newTestScanner(Options{ProjectRoot: root, MaxDepth: 4}, &bytes.Buffer{})
	assert.Equal(t, []string{"app", "build"}, names(plain.Scan()))

	honoured := newTestScanner(Options{ProjectRoot: root, MaxDepth: 4, RespectGitignore: true}, &bytes.Buffer{})
	assert.Equal(t, []string{"app"}, names(honoured.Scan()))
}

func TestScan_CustomMarkerFile(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, ".mcp.json"), marker("default"))
	testutil.WriteFile(t, filepath.Join(root, "mcp.local.json"), marker("custom"))

	s := newTestScanner(Options{ProjectRoot: root, MaxDepth: 4, MarkerFile: "mcp.local.json"}, &bytes.Buffer{})
	assert.Equal(t, []string{"custom"}, names(s.Scan()))
}

func TestScan_CorruptMarkerDoesNotStopSiblings(t *testing.T) {
	root := t.TempDir()
	bad := testutil.WriteFile(t, filepath.Join(root, "a", ".mcp.json"), `{not json`)
	testutil.WriteFile(t, filepath.Join(root, "b", ".mcp.json"), marker("b"))

	var warnings bytes.Buffer
	entries := Scan("", root, DefaultMaxDepth, &warnings)
	assert.Equal(t, []string{"b"}, names(entries))
	assert.Contains(t, warnings.String(), "warn: failed to read "+bad)
}

func TestScan_DuplicatesRetained(t *testing.T) {
	dir := t.TempDir()
	global := testutil.WriteFile(t, filepath.Join(dir, ".claude.json"), `{"mcpServers": {"fs": {"command": "a"}}}`)
	project := filepath.Join(dir, "project")
	testutil.WriteFile(t, filepath.Join(project, ".mcp.json"), `{"mcpServers": {"fs": {"command": "b"}}}`)

	entries := Scan(global, project, DefaultMaxDepth, &bytes.Buffer{})
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Command)
	assert.Equal(t, "b", entries[1].Command)
	assert.Equal(t, map[string]bool{"fs": true}, Duplicates(entries))
}

func TestDuplicates(t *testing.T) {
	entries := []model.MCPServer{{Name: "a"}, {Name: "b"}, {Name: "a"}, {Name: "c"}, {Name: "c"}, {Name: "c"}}
	assert.Equal(t, map[string]bool{"a": true, "c": true}, Duplicates(entries))
	assert.Empty(t, Duplicates(nil))
}
