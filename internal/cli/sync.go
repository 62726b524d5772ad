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
	"errors"
	"sort"

	"github.com/spf13/cobra"

	"github.com/modregistry/regtool/internal/metadata"
	"github.com/modregistry/regtool/internal/registry"
)

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync [module…]",
		Short: "Bring packaging metadata in line with the module manifest",
		Long: `Sync rewrites library.json and library.properties in each module
checkout so that the version and dependency pins match the checkout's
MODULE.bazel.  Dependency pins are raised to the newest registry version.
With no arguments, all checkouts in the workspace are synced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sync(args)
		},
	}
}

func (a *app) sync(names []string) error {
	catalog, err := a.scan()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		checkouts, err := a.discoverCheckouts()
		if err != nil {
			return err
		}
		for name := range checkouts {
			if catalog.Has(name) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
	}

	ok := true
	for _, name := range names {
		if err := a.syncModule(name, catalog); err != nil {
			a.logger.Error("sync failed", "module", name, "err", err)
			ok = false
		}
	}
	if !ok {
		return errors.New("regtool: not all modules could be synced")
	}
	return nil
}

func (a *app) syncModule(name string, catalog *registry.Catalog) error {
	m, err := a.checkoutManifest(name)
	if err != nil {
		return err
	}
	result, err := metadata.Sync(a.checkoutDir(name), m, catalog, metadata.Options{
		Namespace: a.cfg.Namespace,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}
	if result.JSONUpdated || result.PropertiesUpdated {
		a.logger.Info("synced metadata", "module", name,
			"json", result.JSONUpdated, "properties", result.PropertiesUpdated)
	} else {
		a.logger.Debug("metadata already in sync", "module", name)
	}
	return nil
}
