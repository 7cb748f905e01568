package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/1homsi/unusedjs/internal/engine"
	"github.com/1homsi/unusedjs/internal/model"
	"github.com/1homsi/unusedjs/internal/modcache"
	"github.com/1homsi/unusedjs/internal/resolver"
	"github.com/1homsi/unusedjs/internal/specparser"
)

// writeFiles creates a small project under t.TempDir() from a map of
// relative-path -> source text and returns the absolute dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return dir
}

func newHarness(dir string, entries ...string) (*modcache.Cache, *resolver.Resolver) {
	cache := modcache.New(specparser.Parse)
	res := resolver.New(dir, false, nil, nil)
	return cache, res
}

func projectSet(dir string, rels ...string) map[string]bool {
	set := make(map[string]bool, len(rels))
	for _, rel := range rels {
		set[filepath.Join(dir, filepath.FromSlash(rel))] = true
	}
	return set
}

func TestScenario1TransitiveChainWithUnreferencedFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.ts": `import "./b";`,
		"b.ts": `import "./c";`,
		"c.ts": ``,
		"d.ts": ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "a.ts")
	project := projectSet(dir, "a.ts", "b.ts", "c.ts", "d.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "d.ts")}, result.Unused)
}

func TestScenario2DynamicImportLiteralIsReachable(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.ts": `const m = import("./lazy");`,
		"lazy.ts":  ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "index.ts")
	project := projectSet(dir, "index.ts", "lazy.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Empty(t, result.Unused)
}

func TestScenario3ReExportChainIsTransitivelyReachable(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.ts":  `export * from "./barrel";`,
		"barrel.ts": `export { x } from "./x";`,
		"x.ts":      ``,
		"y.ts":      ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "index.ts")
	project := projectSet(dir, "index.ts", "barrel.ts", "x.ts", "y.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "y.ts")}, result.Unused)
}

func TestScenario4DirectoryIndexResolution(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.ts":          `import "./util";`,
		"util/index.ts":     ``,
		"util/helper.ts":    ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "index.ts")
	project := projectSet(dir, "index.ts", "util/index.ts", "util/helper.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "util/helper.ts")}, result.Unused)
}

func TestScenario5NonLiteralDynamicImportNotFollowed(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.ts": "const m = import(`./${name}`);",
		"other.ts": ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "index.ts")
	project := projectSet(dir, "index.ts", "other.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "other.ts")}, result.Unused)
}

func TestParsedAtMostOnceUnderSharedFanIn(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.ts":    `import "./shared";`,
		"b.ts":    `import "./shared";`,
		"shared.ts": ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "a.ts", "b.ts")
	project := projectSet(dir, "a.ts", "b.ts", "shared.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Empty(t, result.Unused)
	require.Equal(t, int64(3), cache.ParseCount())
}

func TestEntryFileReadFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	cache, res := newHarness(dir)
	missing := filepath.Join(dir, "missing.ts")
	entries := map[string]bool{missing: true}

	_, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: map[string]bool{missing: true},
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.Error(t, err)
	var ioErr *model.IoError
	require.ErrorAs(t, err, &ioErr)
}

func TestUnresolvedDownstreamImportIsNonFatalAndRecorded(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.ts": `import "./missing"; import "./ok";`,
		"ok.ts":    ``,
	})
	var issues []model.Issue
	cache := modcache.New(specparser.Parse)
	res := resolver.New(dir, false, nil, func(i model.Issue) { issues = append(issues, i) })
	entries := projectSet(dir, "index.ts")
	project := projectSet(dir, "index.ts", "ok.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Empty(t, result.Unused)
	require.Len(t, issues, 1)
	require.Equal(t, "unresolved", issues[0].Kind)
}

func TestEdgesOnlyMaterializedWhenRequested(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.ts": `import "./b";`,
		"b.ts": ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "a.ts")
	project := projectSet(dir, "a.ts", "b.ts")

	result, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.NoError(t, err)
	require.Empty(t, result.Edges)

	cache2, res2 := newHarness(dir)
	result2, err := engine.Run(context.Background(), engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache2,
		Resolver:   res2,
		WithEdges:  true,
	})
	require.NoError(t, err)
	require.Len(t, result2.Edges, 1)
	require.Equal(t, filepath.Join(dir, "a.ts"), result2.Edges[0].From)
	require.Equal(t, filepath.Join(dir, "b.ts"), result2.Edges[0].To)
}

func TestCancellationAtWaveBoundary(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.ts": `import "./b";`,
		"b.ts": ``,
	})
	cache, res := newHarness(dir)
	entries := projectSet(dir, "a.ts")
	project := projectSet(dir, "a.ts", "b.ts")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Run(ctx, engine.Options{
		ProjectSet: project,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
	})
	require.Error(t, err)
	var canceled *model.Canceled
	require.ErrorAs(t, err, &canceled)
}
