// Package pluginhost implements the Plugin Host (§4.2): a small, fixed set
// of entry-discovery plugins, each polymorphic over detect()/discover(),
// modeled as a tagged variant set rather than a dynamic-loading registry
// (§9's "Plugin dispatch" design note).
package pluginhost

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/1homsi/unusedjs/internal/collector"
	"github.com/1homsi/unusedjs/internal/logging"
	"github.com/1homsi/unusedjs/internal/model"
)

// Plugin is the capability surface every plugin implements.
type Plugin interface {
	// Name identifies the plugin for config pinning (enable/disable/auto).
	Name() string
	// Detect reports whether this plugin should auto-enable for projectRoot.
	Detect(projectRoot string) bool
	// Discover returns glob patterns or plain paths, both relative to
	// projectRoot and slash-separated, to add to the entry set.
	Discover(projectRoot string) ([]string, error)
}

// Mode pins a plugin on, off, or leaves it to Detect.
type Mode int

const (
	Auto Mode = iota
	ForceOn
	ForceOff
)

// Config maps plugin name -> pinned Mode. A plugin absent from the map runs
// in Auto mode.
type Config map[string]Mode

// Registry is the fixed, build-time-enumerated set of available plugins.
func Registry() []Plugin {
	return []Plugin{
		&Storybook{},
		&TestRoots{},
		&PackageManifest{},
	}
}

// Run evaluates every plugin against projectRoot, honoring cfg's pins,
// re-runs each plugin's discovered globs through coll's matcher logic, and
// unions the result into an entry-path set. A plugin panic or error is
// non-fatal: it contributes nothing and onIssue is called once.
func Run(coll *collector.Result, projectRoot string, cfg Config, onIssue func(model.Issue)) map[string]bool {
	discovered := make(map[string]bool)

	for _, plugin := range Registry() {
		if !enabled(plugin, projectRoot, cfg) {
			continue
		}

		globs, err := safeDiscover(plugin, projectRoot)
		if err != nil {
			logging.Warnf("pluginhost: %s failed: %v", plugin.Name(), err)
			if onIssue != nil {
				onIssue(model.Issue{File: plugin.Name(), Kind: "plugin", Detail: err.Error()})
			}
			continue
		}

		for rel := range matchGlobsAgainstProject(coll, globs) {
			discovered[rel] = true
		}
	}

	return discovered
}

func enabled(plugin Plugin, projectRoot string, cfg Config) bool {
	switch cfg[plugin.Name()] {
	case ForceOn:
		return true
	case ForceOff:
		return false
	default:
		return plugin.Detect(projectRoot)
	}
}

// safeDiscover recovers from a plugin panic and turns it into an error (a
// *model.ConfigError naming the plugin), which Run reports as a non-fatal
// Issue, since a misbehaving plugin must never take the rest of the analysis down.
func safeDiscover(plugin Plugin, projectRoot string) (globs []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &model.ConfigError{Reason: "plugin panic: " + plugin.Name()}
		}
	}()
	return plugin.Discover(projectRoot)
}

// matchGlobsAgainstProject re-runs globs against every file the Collector's
// single walk already found (coll.AllFiles), honoring the ignore-glob
// filtering already baked into that set — no second filesystem walk, per
// §4.2: "re-run through the Collector's matcher logic, respecting ignores."
func matchGlobsAgainstProject(coll *collector.Result, globs []string) map[string]bool {
	matched := make(map[string]bool)
	for fileID := range coll.AllFiles {
		rel := coll.Rel(fileID)
		if matchesAny(globs, rel) {
			matched[fileID] = true
		}
	}
	return matched
}

func matchesAny(globs []string, rel string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
		if g == rel {
			return true
		}
	}
	return false
}
