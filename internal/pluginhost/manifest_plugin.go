package pluginhost

// PackageManifest is the supplemental plugin from §10.3: it adds the files
// named by package.json's main/module/exports/bin fields as entries. Its
// Detect only checks that the project root has a readable package.json, so
// in Auto mode it is enabled for every Node project.
type PackageManifest struct{}

func (*PackageManifest) Name() string { return "package-manifest" }

func (*PackageManifest) Detect(projectRoot string) bool {
	_, ok := readProjectManifest(projectRoot)
	return ok
}

func (*PackageManifest) Discover(projectRoot string) ([]string, error) {
	m, ok := readProjectManifest(projectRoot)
	if !ok {
		return nil, nil
	}
	return m.entryFields(), nil
}
