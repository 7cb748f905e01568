// Package collector performs the single filesystem traversal that produces
// the project set and the initial entry set, driven by compiled glob
// matchers.
package collector

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/1homsi/unusedjs/internal/model"
)

// DefaultProjectGlobs is used when the caller supplies no project globs.
var DefaultProjectGlobs = []string{"**/*.{ts,tsx,js,jsx,mjs,cjs}"}

// Options configures one Collector run. It mirrors the input configuration
// in the spec's external interfaces section.
type Options struct {
	Cwd                 string
	ProjectGlobs        []string
	EntryGlobs          []string
	IgnoreGlobs         []string
	IncludeNodeModules  bool
}

// Result holds the immutable sets produced by Collect. Once returned, the
// project set, entry set and ignore set never change for the remainder of an
// analysis (invariant I4).
type Result struct {
	Cwd        string
	ProjectSet map[string]bool // FileId -> true
	EntrySet   map[string]bool // FileId -> true

	// AllFiles is every non-ignored regular file the walk encountered,
	// regardless of whether it matched a project or entry glob. The Plugin
	// Host needs this to re-run its own discovered globs/paths — which may
	// name files matching neither original glob list — "through the
	// Collector's matcher logic" (§4.2) without a second filesystem walk.
	AllFiles map[string]bool

	matchers *matcherSet
}

// matcherSet holds the validated glob patterns. doublestar has no
// precompiled matcher form, so each pattern is interpreted again on every
// doublestar.Match call.
type matcherSet struct {
	project []string
	entry   []string
	ignore  []string
}

// Collect walks opts.Cwd once, classifying every regular file it finds
// against the compiled glob matchers. Symlinks are followed with a
// visited-set to prevent cycles (an explicit policy choice — see
// DESIGN.md's Open Question disposition).
func Collect(opts Options) (*Result, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, model.NewConfigError("determine working directory: %v", err)
		}
		cwd = wd
	}
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, model.NewConfigError("resolve working directory %q: %v", cwd, err)
	}
	info, err := os.Stat(absCwd)
	if err != nil || !info.IsDir() {
		return nil, model.NewConfigError("working directory %q does not exist", cwd)
	}

	projectGlobs := opts.ProjectGlobs
	if len(projectGlobs) == 0 {
		projectGlobs = DefaultProjectGlobs
	}
	if len(opts.EntryGlobs) == 0 {
		return nil, model.NewConfigError("entry globs must be non-empty")
	}
	for _, patterns := range [][]string{projectGlobs, opts.EntryGlobs, opts.IgnoreGlobs} {
		for _, p := range patterns {
			if !doublestar.ValidatePattern(p) {
				return nil, model.NewConfigError("invalid glob pattern %q", p)
			}
		}
	}

	ms := &matcherSet{
		project: compile(projectGlobs),
		entry:   compile(opts.EntryGlobs),
		ignore:  compile(opts.IgnoreGlobs),
	}

	res := &Result{
		Cwd:        absCwd,
		ProjectSet: make(map[string]bool),
		EntrySet:   make(map[string]bool),
		AllFiles:   make(map[string]bool),
		matchers:   ms,
	}

	visited := make(map[string]bool)
	if err := walk(absCwd, absCwd, opts.IncludeNodeModules, ms, visited, res); err != nil {
		return nil, err
	}

	if len(res.EntrySet) == 0 {
		return nil, model.NewConfigError("no files matched the entry globs %v", opts.EntryGlobs)
	}

	return res, nil
}

// compile copies patterns into the matcher set. Collect has already checked
// every pattern with doublestar.ValidatePattern, so a malformed pattern is a
// ConfigError at Collect time and later per-file matching never meets one.
func compile(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	out = append(out, patterns...)
	return out
}

func matchAny(patterns []string, relPath string) bool {
	for _, p := range patterns {
		ok, err := doublestar.Match(p, relPath)
		if err == nil && ok {
			return true
		}
	}
	return false
}

func walk(root, dir string, includeNodeModules bool, ms *matcherSet, visited map[string]bool, res *Result) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		real = dir
	}
	if visited[real] {
		return nil
	}
	visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		// A directory that disappears mid-walk or is unreadable is not a
		// fatal condition for collection as a whole.
		return nil
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		rel, err := filepath.Rel(root, full)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			if st, statErr := os.Stat(full); statErr == nil {
				isDir = st.IsDir()
			}
		}

		if isDir {
			if entry.Name() == "node_modules" && !includeNodeModules {
				continue
			}
			if matchAny(ms.ignore, rel) {
				continue
			}
			if err := walk(root, full, includeNodeModules, ms, visited, res); err != nil {
				return err
			}
			continue
		}

		if matchAny(ms.ignore, rel) {
			continue
		}

		fileID := filepath.Join(root, filepath.FromSlash(rel))
		res.AllFiles[fileID] = true
		if matchAny(ms.project, rel) {
			res.ProjectSet[fileID] = true
		}
		if matchAny(ms.entry, rel) {
			res.EntrySet[fileID] = true
		}
	}

	return nil
}

// MatchRel reports whether rel (slash-separated, relative to the result's
// cwd) matches any of the project/entry/ignore globs this Result was built
// with. Used by the Plugin Host to re-run its own discovered paths through
// the same matcher logic the Collector used.
func (r *Result) MatchRel(rel string) (project, entry, ignored bool) {
	rel = filepath.ToSlash(rel)
	ignored = matchAny(r.matchers.ignore, rel)
	if ignored {
		return false, false, true
	}
	return matchAny(r.matchers.project, rel), matchAny(r.matchers.entry, rel), false
}

// Rel returns fileID relative to the result's cwd, slash-separated, for
// report output.
func (r *Result) Rel(fileID string) string {
	rel, err := filepath.Rel(r.Cwd, fileID)
	if err != nil {
		return fileID
	}
	return filepath.ToSlash(rel)
}

// HasExtPrefix is a small helper used by plugins that want to test a path
// suffix cheaply without going through doublestar.
func HasExtPrefix(name string, suffixes ...string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
