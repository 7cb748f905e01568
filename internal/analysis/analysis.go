// Package analysis wires the Collector, Plugin Host, Module Cache, Resolver
// and Graph Engine into one end-to-end run — the orchestration the CLI (and
// any future embedder) drives. It is deliberately thin: every real decision
// lives in the component packages.
package analysis

import (
	"context"
	"runtime"
	"sync"

	"github.com/1homsi/unusedjs/internal/collector"
	"github.com/1homsi/unusedjs/internal/config"
	"github.com/1homsi/unusedjs/internal/engine"
	"github.com/1homsi/unusedjs/internal/logging"
	"github.com/1homsi/unusedjs/internal/modcache"
	"github.com/1homsi/unusedjs/internal/model"
	"github.com/1homsi/unusedjs/internal/pluginhost"
	"github.com/1homsi/unusedjs/internal/resolver"
	"github.com/1homsi/unusedjs/internal/specparser"
)

// Options gathers every input §6 names plus the §10 knobs layered on top.
type Options struct {
	Cwd                string
	Entry              []string
	Project            []string
	Ignore             []string
	IncludeNodeModules bool
	Jobs               int
	Plugins            pluginhost.Config
	WithEdges          bool
}

// Result is the report-ready outcome of one full analysis: collect ->
// plugin discovery -> graph engine.
type Result struct {
	Collector *collector.Result
	Engine    *engine.Result
	Issues    []model.Issue
}

// Run performs one complete analysis pass per §2's component pipeline.
func Run(ctx context.Context, opts Options) (*Result, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	var (
		issuesMu sync.Mutex
		issues   []model.Issue
	)
	// onIssue is handed to both pluginhost.Run (called sequentially) and
	// engine.Run (called from every per-file goroutine within a wave), so
	// the append itself must be synchronized.
	onIssue := func(i model.Issue) {
		issuesMu.Lock()
		issues = append(issues, i)
		issuesMu.Unlock()
	}

	coll, err := collector.Collect(collector.Options{
		Cwd:                opts.Cwd,
		ProjectGlobs:       opts.Project,
		EntryGlobs:         opts.Entry,
		IgnoreGlobs:        opts.Ignore,
		IncludeNodeModules: opts.IncludeNodeModules,
	})
	if err != nil {
		return nil, err
	}

	logging.Debugf("collected %d project files, %d entry files", len(coll.ProjectSet), len(coll.EntrySet))

	discovered := pluginhost.Run(coll, coll.Cwd, opts.Plugins, onIssue)
	entries := make(map[string]bool, len(coll.EntrySet)+len(discovered))
	for f := range coll.EntrySet {
		entries[f] = true
	}
	for f := range discovered {
		entries[f] = true
	}
	logging.Debugf("plugin host contributed %d additional entries", len(discovered))

	mappings := config.LoadPathMappings(coll.Cwd)
	res := resolver.New(coll.Cwd, opts.IncludeNodeModules, mappings, onIssue)
	cache := modcache.New(specparser.Parse)

	result, err := engine.Run(ctx, engine.Options{
		ProjectSet: coll.ProjectSet,
		EntrySet:   entries,
		Cache:      cache,
		Resolver:   res,
		OnIssue:    onIssue,
		WithEdges:  opts.WithEdges,
		Jobs:       jobs,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Collector: coll, Engine: result, Issues: issues}, nil
}
