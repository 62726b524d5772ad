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

package depgraph

import (
	"fmt"
	"io"
)

// WriteDOT renders the graph as a Graphviz digraph.  Conversion to an image
// is left to an external renderer (dot -Tsvg).
//
// Nodes are boxes labeled "name\nversion", tinted lightyellow when the
// module's checkout is dirty and outlined in red when the module has an
// outdated outgoing edge.  Outdated edges are red and labeled with the
// pinned and newest versions.
func WriteDOT(w io.Writer, g *Graph) error {
	newest := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		newest[n.Name] = n.Newest.String()
	}

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("digraph dependencies {\n")
	printf("    rankdir=TB;\n")
	printf("    node [shape=box, style=filled];\n")
	printf("    edge [fontsize=10];\n\n")

	printf("    // Modules\n")
	for _, n := range g.Nodes {
		fill := "lightblue"
		if n.Dirty {
			fill = "lightyellow"
		}
		attrs := fmt.Sprintf("label=\"%s\\n%s\", fillcolor=\"%s\"", n.Name, n.Newest, fill)
		if g.OutdatedOut(n.Name) {
			attrs += ", color=\"red\""
		}
		printf("    %q [%s];\n", n.Name, attrs)
	}

	printf("\n    // Dependencies\n")
	for _, e := range g.Edges {
		if e.Outdated {
			label := fmt.Sprintf("%s\\n(latest: %s)", e.Pinned, newest[e.To])
			printf("    %q -> %q [color=red, fontcolor=red, label=\"%s\"];\n", e.From, e.To, label)
		} else {
			printf("    %q -> %q;\n", e.From, e.To)
		}
	}
	printf("}\n")
	return err
}
