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

// Package cli implements the regtool command line interface.
//
// regtool operates on a workspace layout where module checkouts sit next
// to the registry:
//
//	workspace/
//	    registry/
//	        modules/<name>/<version>/MODULE.bazel
//	        regtool.toml            (optional)
//	    <module-name>/              (checkout: MODULE.bazel, library.json, …)
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/modregistry/regtool/internal/config"
	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/registry"
)

// app carries the state shared by all subcommands.
type app struct {
	registryDir string
	workspace   string
	verbose     bool

	logger *log.Logger
	cfg    *config.Config
}

// New returns the regtool root command.
func New() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "regtool",
		Short:         "Maintain a Bazel module registry and its packaging metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.registryDir, "registry", ".", "registry directory")
	root.PersistentFlags().StringVar(&a.workspace, "workspace", "", "directory holding module checkouts (default: parent of the registry)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug output")

	root.AddCommand(
		newReportCommand(a),
		newGraphCommand(a),
		newSyncCommand(a),
		newUpdateCommand(a),
		newBumpCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{ReportTimestamp: false})
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	abs, err := filepath.Abs(a.registryDir)
	if err != nil {
		return err
	}
	a.registryDir = abs
	if a.workspace == "" {
		a.workspace = filepath.Dir(abs)
	}

	a.cfg, err = config.Load(filepath.Join(a.registryDir, config.Filename))
	if err != nil {
		return err
	}
	return nil
}

// scan builds the catalog from the registry directory.
func (a *app) scan() (*registry.Catalog, error) {
	return registry.Scan(os.DirFS(a.registryDir), registry.ScanOptions{
		Ignore: a.cfg.Ignore,
		Logger: a.logger,
	})
}

// checkoutDir returns the working-copy directory of the named module.
func (a *app) checkoutDir(name string) string {
	return filepath.Join(a.workspace, name)
}

// checkoutManifest parses the MODULE.bazel of the named module's checkout.
func (a *app) checkoutManifest(name string) (*manifest.Manifest, error) {
	path := filepath.Join(a.checkoutDir(name), manifest.Filename)
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("module %s has no checkout: %w", name, err)
	}
	m, err := manifest.Parse(src, a.cfg.Ignore...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// checkout pairs a module checkout directory with its parsed manifest.
type checkout struct {
	Dir      string
	Manifest *manifest.Manifest
}

// discoverCheckouts finds all module checkouts in the workspace: direct
// subdirectories containing a MODULE.bazel, keyed by declared module name.
func (a *app) discoverCheckouts() (map[string]checkout, error) {
	entries, err := os.ReadDir(a.workspace)
	if err != nil {
		return nil, err
	}
	checkouts := make(map[string]checkout)
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		dir := filepath.Join(a.workspace, entry.Name())
		src, err := os.ReadFile(filepath.Join(dir, manifest.Filename))
		if err != nil {
			continue
		}
		m, err := manifest.Parse(src, a.cfg.Ignore...)
		if err != nil {
			a.logger.Warn("skipping checkout with unparsable manifest", "dir", dir, "err", err)
			continue
		}
		checkouts[m.Name] = checkout{Dir: dir, Manifest: m}
	}
	return checkouts, nil
}

// writeFileAtomic writes data to path via a temporary file and rename.
func writeFileAtomic(path string, data []byte) error {
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(temp, path)
}
