package pluginhost

import (
	"encoding/json"
	"os"
	"path"
	"path/filepath"
)

// projectManifest is the package.json surface the plugins need: dependency
// detection (Storybook, Jest/Vitest) and entry-file fields (main/module/
// exports/bin). Grounded on the teacher's minimal package.json struct in
// internal/adapters/node/adapter.go, widened with the fields §10.3 needs.
type projectManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Main            string            `json:"main"`
	Module          string            `json:"module"`
	Bin             json.RawMessage   `json:"bin"`
	Exports         json.RawMessage   `json:"exports"`
}

func readProjectManifest(projectRoot string) (projectManifest, bool) {
	var m projectManifest
	data, err := os.ReadFile(filepath.Join(projectRoot, "package.json"))
	if err != nil {
		return m, false
	}
	if json.Unmarshal(data, &m) != nil {
		return m, false
	}
	return m, true
}

func (m projectManifest) hasAnyDependency(names ...string) bool {
	for _, name := range names {
		if _, ok := m.Dependencies[name]; ok {
			return true
		}
		if _, ok := m.DevDependencies[name]; ok {
			return true
		}
	}
	return false
}

// entryFields returns every file path named by main/module/bin/exports,
// relative to the project root, slash-separated.
func (m projectManifest) entryFields() []string {
	var out []string
	if m.Main != "" {
		out = append(out, m.Main)
	}
	if m.Module != "" {
		out = append(out, m.Module)
	}
	out = append(out, extractStringLeaves(m.Bin)...)
	out = append(out, extractStringLeaves(m.Exports)...)
	for i, p := range out {
		out[i] = path.Clean(p)
	}
	return out
}

// extractStringLeaves walks a package.json field that may be a bare string,
// an array of strings, or an object mapping subpaths to strings (the shape
// "exports" and "bin" both use), and returns every leaf string value.
func extractStringLeaves(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asString string
	if json.Unmarshal(raw, &asString) == nil {
		return []string{asString}
	}

	var asList []string
	if json.Unmarshal(raw, &asList) == nil {
		return asList
	}

	var asObject map[string]json.RawMessage
	if json.Unmarshal(raw, &asObject) == nil {
		var out []string
		for _, v := range asObject {
			out = append(out, extractStringLeaves(v)...)
		}
		return out
	}

	return nil
}
