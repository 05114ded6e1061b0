package codex

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// registryFile is the part of ~/.codex/config.toml devkit cares about.
type registryFile struct {
	MCPServers map[string]toml.Primitive `toml:"mcp_servers"`
}

// LoadRegistered returns the names of the MCP servers declared in the Codex
// config at path. A missing file yields an empty set and no error.
func LoadRegistered(path string) (map[string]bool, error) {
	registered := map[string]bool{}
	if path == "" {
		return registered, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return registered, nil
		}
		return registered, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc registryFile
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return registered, fmt.Errorf("parsing %s: %w", path, err)
	}
	for name := range doc.MCPServers {
		registered[name] = true
	}
	return registered, nil
}
