package discovery

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/vmark-dev/devkit/internal/model"
)

// Type aliases accepted for remote servers.
var httpTypes = map[string]bool{
	"http":            true,
	"https":           true,
	"streamable-http": true,
	"sse":             true,
}

// Normalize converts one raw server definition into an MCPServer.
// It returns false when raw is not a JSON object; such values are dropped.
func Normalize(name string, raw gjson.Result, source string) (model.MCPServer, bool) {
	if !raw.IsObject() {
		return model.MCPServer{}, false
	}

	entry := model.MCPServer{
		Name:              name,
		Source:            source,
		Kind:              InferKind(raw),
		URL:               scalarString(raw.Get("url")),
		Command:           scalarString(raw.Get("command")),
		Args:              normalizeArgs(raw.Get("args")),
		Env:               normalizeEnv(raw.Get("env")),
		BearerTokenEnvVar: scalarString(raw.Get("bearerTokenEnvVar")),
	}
	if entry.BearerTokenEnvVar == "" {
		entry.BearerTokenEnvVar = scalarString(raw.Get("bearer_token_env_var"))
	}
	return entry, true
}

// InferKind decides the transport of a raw server definition. A recognised
// explicit "type" wins; otherwise a url means http and a command means stdio.
func InferKind(raw gjson.Result) model.Kind {
	if t := strings.ToLower(scalarString(raw.Get("type"))); t != "" {
		if httpTypes[t] {
			return model.KindHTTP
		}
		if t == "stdio" {
			return model.KindStdio
		}
	}
	if scalarString(raw.Get("url")) != "" {
		return model.KindHTTP
	}
	if scalarString(raw.Get("command")) != "" {
		return model.KindStdio
	}
	return model.KindUnknown
}

// scalarString returns the text of a string, number or true value.
// false, null, objects and arrays read as absent.
func scalarString(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True:
		return r.String()
	default:
		return ""
	}
}

// elementString stringifies an array element or env value. Nested JSON is
// kept verbatim so nothing is silently lost.
func elementString(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.Null:
		return "", false
	case gjson.JSON:
		return r.Raw, true
	default:
		return r.String(), true
	}
}

func normalizeArgs(r gjson.Result) []string {
	args := []string{}
	switch {
	case r.IsArray():
		r.ForEach(func(_, v gjson.Result) bool {
			if s, ok := elementString(v); ok {
				args = append(args, s)
			}
			return true
		})
	case r.IsObject():
		// not a usable argument list
	default:
		if s := scalarString(r); s != "" {
			args = append(args, s)
		}
	}
	return args
}

func normalizeEnv(r gjson.Result) map[string]string {
	env := map[string]string{}
	if !r.IsObject() {
		return env
	}
	r.ForEach(func(k, v gjson.Result) bool {
		if s, ok := elementString(v); ok {
			env[k.String()] = s
		}
		return true
	})
	return env
}
