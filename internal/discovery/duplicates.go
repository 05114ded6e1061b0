package discovery

import "github.com/vmark-dev/devkit/internal/model"

// Duplicates returns the names shared by more than one entry. Entries are
// not removed: which definition should win is left to the operator.
func Duplicates(entries []model.MCPServer) map[string]bool {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Name]++
	}
	dups := make(map[string]bool)
	for name, n := range counts {
		if n > 1 {
			dups[name] = true
		}
	}
	return dups
}
