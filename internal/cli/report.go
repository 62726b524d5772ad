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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modregistry/regtool/internal/resolver"
)

func newReportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "List registry modules and flag outdated dependency pins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.report(cmd)
		},
	}
}

func (a *app) report(cmd *cobra.Command) error {
	catalog, err := a.scan()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	outdated := 0
	for _, name := range catalog.Modules() {
		entries := catalog.Entries(name)
		newest := entries[len(entries)-1]
		fmt.Fprintf(out, "%s %s\n", name, newest.Version)
		for _, dep := range newest.Manifest.Deps {
			stale, err := resolver.IsOutdated(catalog, dep.Name, dep.Version)
			if err != nil {
				return err
			}
			if !stale {
				fmt.Fprintf(out, "    %s\n", dep)
				continue
			}
			latest, err := resolver.Newest(catalog, dep.Name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "    %s  OUTDATED (latest: %s)\n", dep, latest)
			outdated++
		}
	}
	if outdated > 0 {
		fmt.Fprintf(out, "\n%d outdated dependency pin(s)\n", outdated)
	}
	return nil
}
