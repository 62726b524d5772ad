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
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/metadata"
	"github.com/modregistry/regtool/internal/semver"
)

func newUpdateCommand(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-pin dependencies across checkouts to the checked-out versions",
		Long: `Update collects the version declared by every module checkout in the
workspace and rewrites the bazel_dep pins of each checkout that depends on
another to that version.  Matching library.json dependency pins are updated
alongside.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.update(dryRun)
		},
	}
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "report pending changes without writing files")
	return cmd
}

func (a *app) update(dryRun bool) error {
	checkouts, err := a.discoverCheckouts()
	if err != nil {
		return err
	}

	versions := make(map[string]semver.Version, len(checkouts))
	for name, c := range checkouts {
		versions[name] = c.Manifest.Version
	}

	names := make([]string, 0, len(checkouts))
	for name := range checkouts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := a.updateCheckout(checkouts[name], versions, dryRun); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) updateCheckout(c checkout, versions map[string]semver.Version, dryRun bool) error {
	path := filepath.Join(c.Dir, manifest.Filename)
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, changed, err := manifest.SetDepVersions(src, versions)
	if err != nil {
		return err
	}
	if changed {
		if dryRun {
			a.logger.Info("would update dependency pins", "file", path)
		} else {
			if err := writeFileAtomic(path, out); err != nil {
				return err
			}
			a.logger.Info("updated dependency pins", "file", path)
		}
	}

	jsonPath := filepath.Join(c.Dir, metadata.JSONFilename)
	changed, err = metadata.UpdateDependencyPins(jsonPath, versions, a.cfg.Namespace, dryRun)
	if err != nil {
		return err
	}
	if changed {
		if dryRun {
			a.logger.Info("would update dependency pins", "file", jsonPath)
		} else {
			a.logger.Info("updated dependency pins", "file", jsonPath)
		}
	}
	return nil
}
