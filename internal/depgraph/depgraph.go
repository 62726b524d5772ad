// Copyright 2026 The regtool Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package depgraph builds the module dependency graph of a registry.
//
// Nodes are modules labeled with their newest version.  Edges come from the
// newest-version manifest of each module only: the graph shows the current
// state of the registry, not its history.
package depgraph

import (
	"fmt"
	"slices"

	"github.com/modregistry/regtool/internal/registry"
	"github.com/modregistry/regtool/internal/resolver"
	"github.com/modregistry/regtool/internal/semver"
)

// Node is one module with its newest version.
type Node struct {
	Name   string
	Newest semver.Version
	// Dirty marks a module whose checkout does not match its released
	// state.  Only set when the caller supplied Options.Dirty.
	Dirty bool
}

// Edge is a dependency of the source module's newest version on the target
// module, pinned at Pinned.  Outdated is set when Pinned is older than the
// target's newest version.
type Edge struct {
	From     string
	To       string
	Pinned   semver.Version
	Outdated bool
}

// Graph is a pure data value; rendering is a separate concern (see
// [WriteDOT]).
type Graph struct {
	Nodes []Node // sorted by name
	Edges []Edge // sorted by (From, To)
}

// OutdatedOut reports whether the named module has at least one outdated
// outgoing edge.
func (g *Graph) OutdatedOut(name string) bool {
	for _, e := range g.Edges {
		if e.From == name && e.Outdated {
			return true
		}
	}
	return false
}

// Options configures [Build].
type Options struct {
	// NoReduce disables transitive reduction entirely.
	NoReduce bool
	// ReduceOutdated subjects outdated edges to transitive reduction as
	// well.  By default they are exempt: a redundant edge that pins a
	// stale version shows exactly which link needs updating, which a
	// purely transitive edge would not.
	ReduceOutdated bool
	// Dirty supplies per-module checkout state for rendering.
	Dirty map[string]bool
}

// Build constructs the dependency graph of the catalog.  A dependency on a
// module absent from the catalog is fatal.
func Build(c *registry.Catalog, opts Options) (*Graph, error) {
	g := &Graph{}
	for _, name := range c.Modules() {
		entries := c.Entries(name)
		if len(entries) == 0 {
			// Scan never yields an empty entry set; omit rather
			// than crash.
			continue
		}
		newest := entries[len(entries)-1]
		g.Nodes = append(g.Nodes, Node{
			Name:   name,
			Newest: newest.Version,
			Dirty:  opts.Dirty[name],
		})
		for _, dep := range newest.Manifest.Deps {
			outdated, err := resolver.IsOutdated(c, dep.Name, dep.Version)
			if err != nil {
				return nil, fmt.Errorf("depgraph: %s depends on %s@%s: %w",
					name, dep.Name, dep.Version, err)
			}
			g.Edges = append(g.Edges, Edge{
				From:     name,
				To:       dep.Name,
				Pinned:   dep.Version,
				Outdated: outdated,
			})
		}
	}
	slices.SortFunc(g.Edges, func(a, b Edge) int {
		if a.From != b.From {
			if a.From < b.From {
				return -1
			}
			return 1
		}
		if a.To < b.To {
			return -1
		}
		if a.To > b.To {
			return 1
		}
		return 0
	})
	if !opts.NoReduce {
		g.Edges = reduce(g.Edges, opts.ReduceOutdated)
	}
	return g, nil
}

// reduce drops edges that are implied by a path of up-to-date edges.
// Outdated edges are kept unless reduceOutdated is set.  Redundancy is
// judged against the full edge set minus the edge under test, matching a
// classic transitive reduction on the up-to-date subgraph.
func reduce(edges []Edge, reduceOutdated bool) []Edge {
	current := make(map[string][]string) // up-to-date adjacency
	for _, e := range edges {
		if !e.Outdated {
			current[e.From] = append(current[e.From], e.To)
		}
	}
	kept := edges[:0]
	for _, e := range edges {
		if e.Outdated && !reduceOutdated {
			kept = append(kept, e)
			continue
		}
		if !implied(current, e.From, e.To) {
			kept = append(kept, e)
		}
	}
	return kept
}

// implied reports whether target is reachable from source through up-to-date
// edges without using the direct edge source→target.
func implied(adj map[string][]string, source, target string) bool {
	visited := map[string]bool{source: true}
	var walk func(from string) bool
	walk = func(from string) bool {
		for _, to := range adj[from] {
			if from == source && to == target {
				continue // the edge under test
			}
			if to == target {
				return true
			}
			if visited[to] {
				continue
			}
			visited[to] = true
			if walk(to) {
				return true
			}
		}
		return false
	}
	return walk(source)
}
