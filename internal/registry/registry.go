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

// Package registry scans the on-disk module registry into an in-memory
// catalog.
//
// The registry layout is a contract:
//
//	modules/<module-name>/<version>/MODULE.bazel
//
// A version directory without a manifest, or with a name that is not a
// canonical version, is skipped with a warning.  A manifest that disagrees
// with its directory path is registry corruption and always fatal.
package registry

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/semver"
)

// ModulesDir is the registry subdirectory holding module versions.
const ModulesDir = "modules"

// ErrPathManifestMismatch indicates a manifest whose self-declared name or
// version disagrees with the directory it was found in.
var ErrPathManifestMismatch = errors.New("manifest disagrees with its registry path")

// Entry is one (module, version, manifest) triple discovered on disk.
// Entries are immutable once scanned.
type Entry struct {
	Module   string
	Version  semver.Version
	Manifest *manifest.Manifest
	// Path is the version directory relative to the registry root.
	Path string
}

// Catalog maps module names to their known versions.  Use [Scan] to build
// one; an empty Catalog is valid and contains no modules.
type Catalog struct {
	entries map[string][]Entry
}

// Modules returns all module names in the catalog, sorted.
func (c *Catalog) Modules() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Entries returns the known versions of the named module in ascending
// version order, or nil if the module is unknown.
func (c *Catalog) Entries(name string) []Entry {
	return c.entries[name]
}

// Has reports whether the named module is in the catalog.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Len returns the number of modules in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ScanOptions configures [Scan].
type ScanOptions struct {
	// Ignore lists dependency names dropped when parsing manifests
	// (external dependencies that are not part of this registry).
	Ignore []string
	// Logger receives warnings about skipped directories.  A nil Logger
	// disables them.
	Logger *log.Logger
}

// Scan walks the registry rooted at fsys and returns the fully populated
// catalog.  fsys must contain the modules directory at its root.  Scan is
// read-only with respect to the filesystem.
func Scan(fsys fs.FS, opts ScanOptions) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	moduleDirs, err := fs.ReadDir(fsys, ModulesDir)
	if err != nil {
		return nil, fmt.Errorf("registry: reading modules directory: %w", err)
	}

	catalog := &Catalog{entries: make(map[string][]Entry)}
	for _, moduleDir := range moduleDirs {
		if !moduleDir.IsDir() {
			continue
		}
		name := moduleDir.Name()
		versionDirs, err := fs.ReadDir(fsys, path.Join(ModulesDir, name))
		if err != nil {
			return nil, fmt.Errorf("registry: reading module %s: %w", name, err)
		}
		for _, versionDir := range versionDirs {
			if !versionDir.IsDir() {
				continue
			}
			version, err := semver.Parse(versionDir.Name())
			if err != nil {
				logger.Warn("skipping version directory with non-canonical name",
					"module", name, "dir", versionDir.Name())
				continue
			}
			entry, err := scanVersion(fsys, name, version, opts.Ignore)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					logger.Warn("skipping version directory without manifest",
						"module", name, "version", version)
					continue
				}
				return nil, err
			}
			catalog.entries[name] = append(catalog.entries[name], entry)
		}
		slices.SortFunc(catalog.entries[name], func(a, b Entry) int {
			return semver.Compare(a.Version, b.Version)
		})
	}
	return catalog, nil
}

func scanVersion(fsys fs.FS, name string, version semver.Version, ignore []string) (Entry, error) {
	dir := path.Join(ModulesDir, name, version.String())
	src, err := fs.ReadFile(fsys, path.Join(dir, manifest.Filename))
	if err != nil {
		return Entry{}, err
	}
	m, err := manifest.Parse(src, ignore...)
	if err != nil {
		return Entry{}, fmt.Errorf("registry: %s: %w", dir, err)
	}
	if m.Name != name {
		return Entry{}, fmt.Errorf("registry: %s: %w: manifest declares name %q",
			dir, ErrPathManifestMismatch, m.Name)
	}
	// Exact string comparison: "1.0.0" and "1.0.0+b1" compare equal as
	// versions but are still a layout violation.
	if m.Version.String() != version.String() {
		return Entry{}, fmt.Errorf("registry: %s: %w: manifest declares version %q",
			dir, ErrPathManifestMismatch, m.Version)
	}
	return Entry{Module: name, Version: version, Manifest: m, Path: dir}, nil
}
