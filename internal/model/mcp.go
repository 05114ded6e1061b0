package model

// Kind is the transport an MCP server is reached over.
type Kind string

const (
	KindHTTP    Kind = "http"
	KindStdio   Kind = "stdio"
	KindUnknown Kind = "unknown"
)

// Provenance tags recorded in MCPServer.Source.
const (
	SourceGlobal        = "global"
	sourceGlobalProject = "global:project:"
	sourceLocal         = "local:"
)

// GlobalProjectSource returns the provenance tag for servers declared under a
// project entry of the global settings file.
func GlobalProjectSource(projectPath string) string {
	return sourceGlobalProject + projectPath
}

// LocalSource returns the provenance tag for servers declared in a
// project-local marker file.
func LocalSource(filePath string) string {
	return sourceLocal + filePath
}

// MCPServer is one normalized MCP server definition.
//
// Values are produced by discovery.Normalize and treated as read-only
// afterwards. Empty URL, Command and BearerTokenEnvVar mean the field was
// absent from the source document. Args and Env are never nil.
type MCPServer struct {
	Name              string            // Server name (the key in mcpServers)
	Source            string            // Provenance tag, see SourceGlobal
	Kind              Kind              // Inferred transport
	URL               string            // Remote endpoint (http kind)
	Command           string            // Executable (stdio kind)
	Args              []string          // Command arguments
	Env               map[string]string // Environment for the command
	BearerTokenEnvVar string            // Env var holding the bearer token (http kind)
}

// IsHTTP reports whether the server can be registered as a remote endpoint.
func (s MCPServer) IsHTTP() bool {
	return s.Kind == KindHTTP && s.URL != ""
}

// IsStdio reports whether the server can be registered as a local process.
func (s MCPServer) IsStdio() bool {
	return s.Kind == KindStdio && s.Command != ""
}
