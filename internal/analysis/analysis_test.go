package analysis_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1homsi/unusedjs/internal/analysis"
	"github.com/1homsi/unusedjs/internal/pluginhost"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func TestScenario6StorybookPluginMarksStoryTargetReachable(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json":       `{"devDependencies":{"@storybook/react":"^7.0.0"}}`,
		"index.ts":           ``,
		"Button.tsx":         ``,
		"Button.stories.tsx": `import "./Button";`,
	})

	result, err := analysis.Run(context.Background(), analysis.Options{
		Cwd:   dir,
		Entry: []string{"index.ts"},
	})
	require.NoError(t, err)
	require.Empty(t, result.Engine.Unused)
}

func TestScenario6PluginDisabledLeavesBothUnused(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"package.json":       `{"devDependencies":{"@storybook/react":"^7.0.0"}}`,
		"index.ts":           ``,
		"Button.tsx":         ``,
		"Button.stories.tsx": `import "./Button";`,
	})

	result, err := analysis.Run(context.Background(), analysis.Options{
		Cwd:     dir,
		Entry:   []string{"index.ts"},
		Plugins: pluginhost.Config{"storybook": pluginhost.ForceOff},
	})
	require.NoError(t, err)
	require.Len(t, result.Engine.Unused, 2)
}

func TestScenario1EndToEnd(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": `import "./b";`,
		"b.ts": `import "./c";`,
		"c.ts": ``,
		"d.ts": ``,
	})

	result, err := analysis.Run(context.Background(), analysis.Options{
		Cwd:   dir,
		Entry: []string{"a.ts"},
	})
	require.NoError(t, err)
	require.Len(t, result.Engine.Unused, 1)
	require.Equal(t, filepath.Join(dir, "d.ts"), result.Engine.Unused[0])
}
