// Package resolver implements the Resolver component: it turns a (referrer,
// specifier) pair into a ResolvedTarget by replicating enough of the
// Node.js/TypeScript module resolution algorithm to follow real imports.
package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/1homsi/unusedjs/internal/model"
)

// codeExtensions is the candidate extension list from the spec, in order.
var codeExtensions = []string{"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".d.ts"}

// foreignExtensions are asset extensions that resolve but are never parsed.
var foreignExtensions = []string{
	".css", ".scss", ".sass", ".less",
	".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico",
	".json", ".txt", ".md", ".wasm", ".woff", ".woff2",
}

// PathMapping is one entry of a tsconfig.json `compilerOptions.paths` table:
// a glob-like pattern with a trailing "*" mapped to one or more base paths
// (also with a trailing "*") to try in order.
type PathMapping struct {
	Pattern string
	Targets []string
}

// Resolver resolves specifiers against a fixed project root. It performs no
// I/O beyond filesystem metadata lookups (os.Stat) — never a file read.
type Resolver struct {
	root               string
	includeNodeModules bool
	pathMappings       []PathMapping

	// warned deduplicates foreign-asset warnings per extension, and
	// unresolved warnings per (referrer, specifier), satisfying the "emit a
	// single warning" / "dedup per (FileId, specifier)" rules in §4.4/§7.
	// Resolve is called concurrently from every per-file goroutine the
	// Graph Engine spawns within a wave, so warnedMu guards it.
	warnedMu sync.Mutex
	warned   map[string]bool
	onWarn   func(model.Issue)
}

// New builds a Resolver rooted at root. onWarn, if non-nil, is called once
// per deduplicated warning (foreign asset or unresolved specifier).
func New(root string, includeNodeModules bool, mappings []PathMapping, onWarn func(model.Issue)) *Resolver {
	return &Resolver{
		root:               root,
		includeNodeModules: includeNodeModules,
		pathMappings:       mappings,
		warned:             make(map[string]bool),
		onWarn:             onWarn,
	}
}

// Resolve implements the §4.4 algorithm in order: path mapping,
// classification, candidate extension probing, directory->index fallback,
// foreign asset detection, and finally Unresolved.
func (r *Resolver) Resolve(referrer, specifier string) model.ResolvedTarget {
	if base, ok := r.matchPathMapping(specifier); ok {
		return r.resolvePath(referrer, specifier, base)
	}

	switch classify(specifier) {
	case specBare:
		if r.includeNodeModules {
			if target, ok := r.resolveWithinNodeModules(specifier); ok {
				return target
			}
		}
		return model.ResolvedTarget{Kind: model.External, PackageName: bareModuleName(specifier)}

	case specAbsolute:
		return r.resolvePath(referrer, specifier, filepath.Join(r.root, filepath.FromSlash(strings.TrimPrefix(specifier, "/"))))

	default: // relative
		base := filepath.Join(filepath.Dir(referrer), filepath.FromSlash(specifier))
		return r.resolvePath(referrer, specifier, filepath.Clean(base))
	}
}

type specKind int

const (
	specRelative specKind = iota
	specAbsolute
	specBare
)

func classify(specifier string) specKind {
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		return specRelative
	case strings.HasPrefix(specifier, "/"):
		return specAbsolute
	default:
		return specBare
	}
}

// resolvePath probes the candidate extension list, then directory->index,
// then foreign assets, finally giving up with Unresolved. Path mapping has
// already been applied by Resolve before base reaches here.
func (r *Resolver) resolvePath(referrer, specifier, base string) model.ResolvedTarget {
	if target, ok := r.probeFile(base); ok {
		return target
	}
	if target, ok := r.probeDirectoryIndex(base); ok {
		return target
	}
	if target, ok := r.probeForeign(specifier, base); ok {
		return target
	}
	r.warnOnce(referrer, specifier, "unresolved", "no candidate file, index, or foreign asset found for "+base)
	return model.ResolvedTarget{Kind: model.Unresolved, UnresolvedReason: "no candidate"}
}

// probeFile tries the exact path, then each code extension appended in turn.
// An exact path carrying a non-code extension (e.g. "logo.svg") is left to
// probeForeign.
func (r *Resolver) probeFile(base string) (model.ResolvedTarget, bool) {
	for _, ext := range codeExtensions {
		if baseExt := filepath.Ext(base); ext == "" && baseExt != "" && !isCodeExt(baseExt) {
			continue
		}
		candidate := base + ext
		if fileExists(candidate) {
			return model.ResolvedTarget{Kind: model.Internal, FileID: candidate}, true
		}
	}
	return model.ResolvedTarget{}, false
}

func (r *Resolver) probeDirectoryIndex(base string) (model.ResolvedTarget, bool) {
	if !dirExists(base) {
		return model.ResolvedTarget{}, false
	}
	return r.probeFile(filepath.Join(base, "index"))
}

func (r *Resolver) probeForeign(specifier, base string) (model.ResolvedTarget, bool) {
	for _, ext := range foreignExtensions {
		candidate := base + ext
		if fileExists(candidate) {
			r.warnOnce("", ext, "foreign", "import target resolved to a non-code asset: "+candidate)
			return model.ResolvedTarget{Kind: model.Foreign, ForeignPath: candidate, ForeignExt: ext}, true
		}
	}
	// Exact specifier already carries a non-code extension (e.g. "./logo.svg").
	if ext := filepath.Ext(specifier); ext != "" && !isCodeExt(ext) && fileExists(base) {
		r.warnOnce("", ext, "foreign", "import target resolved to a non-code asset: "+base)
		return model.ResolvedTarget{Kind: model.Foreign, ForeignPath: base, ForeignExt: ext}, true
	}
	return model.ResolvedTarget{}, false
}

// resolveWithinNodeModules resolves a bare specifier into the project's own
// node_modules tree when the node_modules policy enables it. Only the
// package's own declared entry (package.json "main"/"module", defaulting to
// "index", each probed with the code extension list) is probed — full Node resolution semantics (browser field,
// conditional exports maps, etc.) are intentionally not replicated, per the
// spec's "enough of the algorithm to follow real imports" framing.
func (r *Resolver) resolveWithinNodeModules(specifier string) (model.ResolvedTarget, bool) {
	pkgName := bareModuleName(specifier)
	subpath := strings.TrimPrefix(specifier, pkgName)
	subpath = strings.TrimPrefix(subpath, "/")

	pkgDir := filepath.Join(r.root, "node_modules", filepath.FromSlash(pkgName))
	if !dirExists(pkgDir) {
		return model.ResolvedTarget{}, false
	}

	if subpath != "" {
		return r.probeFile(filepath.Join(pkgDir, filepath.FromSlash(subpath)))
	}

	main := readPackageMain(pkgDir)
	if main == "" {
		main = "index"
	}
	return r.probeFile(filepath.Join(pkgDir, filepath.FromSlash(strings.TrimSuffix(main, filepath.Ext(main)))))
}

// matchPathMapping consults the tsconfig.json `paths` table (§4.4 step 7):
// the first mapping whose pattern matches specifier, expanded against its
// first target that resolves, wins. Patterns and targets both carry exactly
// one trailing "*", TypeScript's own convention.
func (r *Resolver) matchPathMapping(specifier string) (string, bool) {
	for _, mapping := range r.pathMappings {
		prefix := strings.TrimSuffix(mapping.Pattern, "*")
		if mapping.Pattern == specifier {
			for _, target := range mapping.Targets {
				if target == strings.TrimSuffix(target, "*") {
					return target, true
				}
			}
			continue
		}
		if !strings.HasSuffix(mapping.Pattern, "*") || !strings.HasPrefix(specifier, prefix) {
			continue
		}
		suffix := strings.TrimPrefix(specifier, prefix)
		for _, target := range mapping.Targets {
			base := strings.TrimSuffix(target, "*") + suffix
			if r.hasAnyCandidate(base) {
				return base, true
			}
		}
		if len(mapping.Targets) > 0 {
			return strings.TrimSuffix(mapping.Targets[0], "*") + suffix, true
		}
	}
	return "", false
}

// hasAnyCandidate reports whether base (or base+index) resolves to
// something real, used to pick between multiple path-mapping targets.
func (r *Resolver) hasAnyCandidate(base string) bool {
	if _, ok := r.probeFile(base); ok {
		return true
	}
	_, ok := r.probeDirectoryIndex(base)
	return ok
}

func (r *Resolver) warnOnce(referrer, specifier, kind, detail string) {
	if r.onWarn == nil {
		return
	}
	key := kind + "|" + referrer + "|" + specifier

	r.warnedMu.Lock()
	if r.warned[key] {
		r.warnedMu.Unlock()
		return
	}
	r.warned[key] = true
	r.warnedMu.Unlock()

	r.onWarn(model.Issue{File: referrer, Kind: kind, Detail: detail})
}

func isCodeExt(ext string) bool {
	switch ext {
	case ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// bareModuleName strips subpath exports to get the root package name, e.g.
// "lodash/fp" -> "lodash", "@scope/pkg/utils" -> "@scope/pkg". Grounded on
// the same normalization the teacher's Node reachability analyzer uses to
// collapse subpath imports to installed package names.
func bareModuleName(spec string) string {
	if strings.HasPrefix(spec, "@") {
		parts := strings.SplitN(spec, "/", 3)
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return spec
	}
	if idx := strings.Index(spec, "/"); idx != -1 {
		return spec[:idx]
	}
	return spec
}
