// Package config loads the JSON-with-comments configuration file described
// in §10.2, and the tsconfig.json path-mapping table described in §10.4.
// Flags always win over file values; the file only supplies a baseline, the
// same policy-file-plus-flags layering the teacher's cmd/gorisk/scan uses
// for its --policy flag.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/1homsi/unusedjs/internal/model"
	"github.com/1homsi/unusedjs/internal/resolver"
)

// DefaultFileName is looked up in cwd when --config is not given.
const DefaultFileName = "unusedjs.config.jsonc"

// File mirrors §6's input configuration, as read from unusedjs.config.jsonc.
type File struct {
	Entry              []string       `json:"entry"`
	Project            []string       `json:"project"`
	Cwd                string         `json:"cwd"`
	Ignore             []string       `json:"ignore"`
	IncludeNodeModules bool           `json:"includeNodeModules"`
	Plugins            map[string]any `json:"plugins"`
}

// Load reads path (JSONC) and unmarshals it into a File. If path is empty,
// it looks for DefaultFileName in cwd; if that also doesn't exist, Load
// returns a zero File and no error — an absent config file is never an
// error, only flags/defaults apply (§10.2).
func Load(path, cwd string) (File, error) {
	var f File

	if path == "" {
		path = filepath.Join(cwd, DefaultFileName)
		if _, err := os.Stat(path); err != nil {
			return f, nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return f, model.NewConfigError("read config %q: %v", path, err)
	}

	stripped := jsonc.ToJSON(raw)
	if err := json.Unmarshal(stripped, &f); err != nil {
		return f, model.NewConfigError("parse config %q: %v", path, err)
	}
	return f, nil
}

// PluginMode interprets one of File.Plugins' values as a three-state mode:
// a bool true/false pins the plugin on/off; any other value (including
// absence) is Auto.
func (f File) PluginMode(name string) (forceOn, forceOff bool) {
	raw, ok := f.Plugins[name]
	if !ok {
		return false, false
	}
	b, ok := raw.(bool)
	if !ok {
		return false, false
	}
	return b, !b
}

// tsconfig mirrors the handful of tsconfig.json fields the Resolver's path
// mapping (§10.4) needs.
type tsconfig struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadPathMappings reads projectRoot/tsconfig.json, if present, and builds
// the Resolver's path-mapping table from compilerOptions.paths/baseUrl. A
// missing or unparsable tsconfig.json yields an empty table, never an
// error — path mapping is optional per §9.
func LoadPathMappings(projectRoot string) []resolver.PathMapping {
	data, err := os.ReadFile(filepath.Join(projectRoot, "tsconfig.json"))
	if err != nil {
		return nil
	}

	var tc tsconfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &tc); err != nil {
		return nil
	}
	if len(tc.CompilerOptions.Paths) == 0 {
		return nil
	}

	baseURL := tc.CompilerOptions.BaseURL
	if baseURL == "" {
		baseURL = "."
	}
	base := filepath.Join(projectRoot, filepath.FromSlash(baseURL))

	mappings := make([]resolver.PathMapping, 0, len(tc.CompilerOptions.Paths))
	for pattern, targets := range tc.CompilerOptions.Paths {
		resolved := make([]string, 0, len(targets))
		for _, t := range targets {
			resolved = append(resolved, filepath.Join(base, filepath.FromSlash(t)))
		}
		mappings = append(mappings, resolver.PathMapping{Pattern: pattern, Targets: resolved})
	}
	return mappings
}
