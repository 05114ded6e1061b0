package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/vmark-dev/devkit/internal/cli"
)

// defaultSkipDirs are tooling directories never searched for marker files.
var defaultSkipDirs = []string{
	".git",
	"node_modules",
	".venv",
	".idea",
	".vscode",
	".next",
	".cache",
}

// DefaultSkipDirs returns a copy of the built-in traversal denylist.
func DefaultSkipDirs() []string {
	return append([]string(nil), defaultSkipDirs...)
}

// findMarkerFiles walks ProjectRoot and returns the marker files found in
// directories at most MaxDepth levels below it.
func (s *Scanner) findMarkerFiles() []string {
	root := s.opts.ProjectRoot
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("project path not found", "path", root)
		} else {
			cli.Warn(s.warnings, "cannot access project path %s: %v", root, err)
		}
		return nil
	}
	if !info.IsDir() {
		s.logger.Debug("project path is not a directory", "path", root)
		return nil
	}

	matcher := s.skipMatcher(root)
	var found []string

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			cli.Warn(s.warnings, "skipping %s: %v", path, err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if depth(rel) > s.opts.MaxDepth {
				s.logger.Debug("depth limit reached, pruning", "dir", path)
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if matcher.MatchesPath(rel) || matcher.MatchesPath(rel+"/") {
				s.logger.Debug("skipping ignored directory", "dir", path)
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() == s.opts.MarkerFile {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		cli.Warn(s.warnings, "walking %s: %v", root, walkErr)
	}

	// The root itself sits at depth 0; a negative bound excludes it too.
	if s.opts.MaxDepth < 0 {
		return nil
	}
	return found
}

// skipMatcher compiles the denylist, configured extras and, optionally, the
// root .gitignore into one matcher.
func (s *Scanner) skipMatcher(root string) *ignore.GitIgnore {
	lines := append(DefaultSkipDirs(), s.opts.SkipDirs...)
	if s.opts.RespectGitignore {
		gitignore := filepath.Join(root, ".gitignore")
		m, err := ignore.CompileIgnoreFileAndLines(gitignore, lines...)
		if err == nil {
			return m
		}
		if !errors.Is(err, fs.ErrNotExist) {
			cli.Warn(s.warnings, "failed to read %s: %v", gitignore, err)
		}
	}
	return ignore.CompileIgnoreLines(lines...)
}

// depth counts the path segments of a slash-separated relative path.
func depth(rel string) int {
	return strings.Count(rel, "/") + 1
}
