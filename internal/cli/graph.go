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

package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modregistry/regtool/internal/depgraph"
	"github.com/modregistry/regtool/internal/gitstate"
)

func newGraphCommand(a *app) *cobra.Command {
	var (
		output         string
		noReduce       bool
		reduceOutdated bool
		gitStatus      bool
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the registry dependency graph as Graphviz DOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = filepath.Join(a.registryDir, "doc", "dependencies.dot")
			}
			return a.graph(cmd, output, depgraph.Options{
				NoReduce:       noReduce,
				ReduceOutdated: reduceOutdated,
			}, gitStatus)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file ("-" for stdout; default <registry>/doc/dependencies.dot)`)
	cmd.Flags().BoolVar(&noReduce, "no-reduce", false, "keep transitively implied edges")
	cmd.Flags().BoolVar(&reduceOutdated, "reduce-outdated", false, "also drop implied edges with outdated pins")
	cmd.Flags().BoolVar(&gitStatus, "git-status", false, "color nodes by checkout git state")
	return cmd
}

func (a *app) graph(cmd *cobra.Command, output string, opts depgraph.Options, gitStatus bool) error {
	catalog, err := a.scan()
	if err != nil {
		return err
	}

	if gitStatus {
		opts.Dirty = make(map[string]bool)
		for _, name := range catalog.Modules() {
			entries := catalog.Entries(name)
			newest := entries[len(entries)-1]
			state, err := gitstate.Check(a.checkoutDir(name), newest.Version)
			if err != nil {
				return err
			}
			if !state.Clean {
				a.logger.Debug("checkout not clean", "module", name, "reason", state.Reason)
				opts.Dirty[name] = true
			}
		}
	}

	graph, err := depgraph.Build(catalog, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := depgraph.WriteDOT(&buf, graph); err != nil {
		return err
	}
	if output == "-" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o700); err != nil {
		return err
	}
	if err := writeFileAtomic(output, buf.Bytes()); err != nil {
		return err
	}
	a.logger.Info("wrote dependency graph", "file", output)
	return nil
}
