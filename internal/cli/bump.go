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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modregistry/regtool/internal/gitstate"
	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/metadata"
	"github.com/modregistry/regtool/internal/semver"
)

func newBumpCommand(a *app) *cobra.Command {
	var (
		major bool
		minor bool
		force bool
	)
	cmd := &cobra.Command{
		Use:   "bump <module>",
		Short: "Increment a module checkout's version and sync its metadata",
		Long: `Bump rewrites the version in the checkout's MODULE.bazel (patch by
default) and syncs library.json and library.properties to match.  The
checkout must have no uncommitted changes unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if major && minor {
				return fmt.Errorf("regtool: --major and --minor are mutually exclusive")
			}
			part := semver.Patch
			switch {
			case major:
				part = semver.Major
			case minor:
				part = semver.Minor
			}
			return a.bump(cmd, args[0], part, force)
		},
	}
	cmd.Flags().BoolVar(&major, "major", false, "increment the major version")
	cmd.Flags().BoolVar(&minor, "minor", false, "increment the minor version")
	cmd.Flags().BoolVar(&force, "force", false, "bump even with uncommitted changes")
	return cmd
}

func (a *app) bump(cmd *cobra.Command, name string, part semver.Part, force bool) error {
	dir := a.checkoutDir(name)
	if !force {
		changes, err := gitstate.Changes(dir)
		if err != nil {
			return err
		}
		if len(changes) > 0 {
			return fmt.Errorf("regtool: %s has %d uncommitted changes; commit them or pass --force", name, len(changes))
		}
	}

	path := filepath.Join(dir, manifest.Filename)
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("module %s has no checkout: %w", name, err)
	}
	m, err := manifest.Parse(src, a.cfg.Ignore...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	next, err := semver.Bump(m.Version, part)
	if err != nil {
		return err
	}
	out, err := manifest.SetVersion(src, next)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, out); err != nil {
		return err
	}
	a.logger.Info("bumped version", "module", name, "from", m.Version, "to", next)

	catalog, err := a.scan()
	if err != nil {
		return err
	}
	m.Version = next
	if _, err := metadata.Sync(dir, m, catalog, metadata.Options{
		Namespace: a.cfg.Namespace,
		Logger:    a.logger,
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, next)
	return nil
}
