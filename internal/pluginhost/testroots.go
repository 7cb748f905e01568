package pluginhost

// TestRoots is the supplemental plugin from §10.3: test files are valid
// program roots that nothing else imports, so they must be added to the
// entry set rather than left to be flagged as unused.
type TestRoots struct{}

func (*TestRoots) Name() string { return "test-roots" }

func (*TestRoots) Detect(projectRoot string) bool {
	m, ok := readProjectManifest(projectRoot)
	if !ok {
		return false
	}
	return m.hasAnyDependency("jest", "vitest", "@testing-library/react", "@testing-library/dom")
}

func (*TestRoots) Discover(string) ([]string, error) {
	return []string{
		"**/*.test.{ts,tsx,js,jsx}",
		"**/*.spec.{ts,tsx,js,jsx}",
	}, nil
}
