// Package engine implements the Graph Engine: wave-based BFS reachability
// propagation over the module graph, driving the Parser through the Module
// Cache and the Resolver on every specifier it turns up.
package engine

import (
	"context"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/1homsi/unusedjs/internal/model"
	"github.com/1homsi/unusedjs/internal/modcache"
	"github.com/1homsi/unusedjs/internal/resolver"
	"github.com/1homsi/unusedjs/internal/specparser"
)

// Edge is one directed dependency edge, materialized only when WithEdges is
// set — the default fast path never allocates it (§10.6).
type Edge struct {
	From string
	To   string
}

// Options configures one Run.
type Options struct {
	ProjectSet map[string]bool
	EntrySet   map[string]bool
	Cache      *modcache.Cache
	Resolver   *resolver.Resolver

	// OnIssue is called for each non-fatal parse error and each read error
	// on a downstream file; every file is processed once, so once per file.
	// Unresolved-specifier and foreign-asset warnings are reported through
	// the Resolver's own callback, not through OnIssue.
	OnIssue func(model.Issue)

	// WithEdges materializes the diagnostic edge list (§10.6), consulted
	// only by the `explain` command.
	WithEdges bool

	// Jobs caps concurrent in-flight file reads per wave (the CLI's --jobs
	// flag, §10.1). Zero means unbounded — bounded only by the batch size
	// itself; analysis.Run passes runtime.NumCPU() when its caller gives
	// zero or less.
	Jobs int
}

// Result is the outcome of one analysis: the reachable set, the unused set
// (project set minus reachable set, sorted), and — if requested — the edge
// list.
type Result struct {
	Reachable map[string]bool
	Unused    []string
	Edges     []Edge
}

// Run executes the wave-based BFS described in §4.6/§5. It terminates when
// the frontier is empty, or returns model.Canceled if ctx is done at a wave
// boundary.
func Run(ctx context.Context, opts Options) (*Result, error) {
	reachable := newConcurrentSet(opts.EntrySet)
	frontier := setToSlice(opts.EntrySet)

	var (
		edgesMu sync.Mutex
		edges   []Edge
	)

	isEntryWave := true

	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			return nil, &model.Canceled{}
		default:
		}

		batch := frontier
		frontier = nil
		entryWave := isEntryWave
		isEntryWave = false

		g, gctx := errgroup.WithContext(ctx)
		if opts.Jobs > 0 {
			g.SetLimit(opts.Jobs)
		}
		var (
			nextMu sync.Mutex
			next   []string
		)

		for _, f := range batch {
			f := f
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return nil
				default:
				}

				specs, err := parseFile(opts.Cache, f)
				if err != nil {
					if _, isParseError := err.(*specparser.ParseError); !isParseError {
						if entryWave {
							return &model.IoError{File: f, Err: err}
						}
						opts.onIssue(model.Issue{File: f, Kind: "io", Detail: err.Error()})
						return nil
					}
					opts.onIssue(model.Issue{File: f, Kind: "parse", Detail: err.Error()})
					return nil
				}

				for _, spec := range specs {
					target := opts.Resolver.Resolve(f, spec.Raw)
					if target.Kind != model.Internal {
						continue
					}

					if opts.WithEdges {
						edgesMu.Lock()
						edges = append(edges, Edge{From: f, To: target.FileID})
						edgesMu.Unlock()
					}

					if reachable.insert(target.FileID) {
						nextMu.Lock()
						next = append(next, target.FileID)
						nextMu.Unlock()
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		frontier = next
	}

	unused := make([]string, 0)
	for f := range opts.ProjectSet {
		if !reachable.has(f) {
			unused = append(unused, f)
		}
	}
	sort.Strings(unused)

	return &Result{
		Reachable: reachable.snapshot(),
		Unused:    unused,
		Edges:     edges,
	}, nil
}

func (o Options) onIssue(issue model.Issue) {
	if o.OnIssue != nil {
		o.OnIssue(issue)
	}
}

// parseFile reads f if necessary and returns its specifiers via the Module
// Cache, which guarantees the underlying parse runs at most once per FileId
// (invariant I3/P3) even under this function's own concurrent callers.
func parseFile(cache *modcache.Cache, f string) ([]model.Specifier, error) {
	if _, err := os.Stat(f); err != nil {
		return nil, err
	}
	entry, err := cache.Get(f)
	if err != nil {
		return nil, err
	}
	if entry.State == model.Failed {
		return nil, entry.Err
	}
	return entry.Specifiers, nil
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// concurrentSet is the reachable set: insert-only with linearizable
// test-and-insert, per §5's shared mutable state rules.
type concurrentSet struct {
	mu   sync.Mutex
	data map[string]bool
}

func newConcurrentSet(seed map[string]bool) *concurrentSet {
	data := make(map[string]bool, len(seed))
	for k := range seed {
		data[k] = true
	}
	return &concurrentSet{data: data}
}

// insert reports whether key was newly added.
func (s *concurrentSet) insert(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[key] {
		return false
	}
	s.data[key] = true
	return true
}

func (s *concurrentSet) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

func (s *concurrentSet) snapshot() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.data))
	for k := range s.data {
		out[k] = true
	}
	return out
}
