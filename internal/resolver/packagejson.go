package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// manifest mirrors the handful of package.json fields the Resolver needs. Grounded on the teacher's own minimal package.json
// struct in internal/adapters/node/adapter.go (readPackageJSONName).
type manifest struct {
	Name    string `json:"name"`
	Main    string `json:"main"`
	Module  string `json:"module"`
}

// readPackageMain returns the entry file declared by pkgDir/package.json's
// "module" field (ESM-first) falling back to "main", or "" if absent.
func readPackageMain(pkgDir string) string {
	m, ok := readManifest(pkgDir)
	if !ok {
		return ""
	}
	if m.Module != "" {
		return m.Module
	}
	return m.Main
}

func readManifest(dir string) (manifest, bool) {
	var m manifest
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return m, false
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, false
	}
	return m, true
}
