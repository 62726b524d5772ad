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

// Package metadata keeps a module's packaging metadata (library.json and
// library.properties) in sync with its build manifest.
//
// The version field follows the manifest.  Dependency pins follow the
// newest version available in the registry, written as ">=" constraints:
// the packaging ecosystem always tracks the latest release of each
// dependency, unlike the build manifest's literal pins.  Everything else in
// the files is preserved.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/registry"
	"github.com/modregistry/regtool/internal/resolver"
	"github.com/modregistry/regtool/internal/semver"
)

const (
	// JSONFilename is the packaging manifest consumed by the registry of
	// the secondary ecosystem.
	JSONFilename = "library.json"
	// PropertiesFilename is the key=value variant of the packaging
	// manifest.
	PropertiesFilename = "library.properties"
)

// ErrWrite indicates a metadata file that could not be written.  It aborts
// synchronization of the affected module only.
var ErrWrite = errors.New("cannot write metadata")

// Options configures [Sync].
type Options struct {
	// Namespace prefixes dependency keys in library.json, e.g. "acme/"
	// for keys like "acme/display".
	Namespace string
	// Logger receives notes about skipped files.  Nil disables them.
	Logger *log.Logger
}

// Result reports which files [Sync] rewrote.
type Result struct {
	JSONUpdated       bool
	PropertiesUpdated bool
}

// Sync rewrites the metadata files in dir to match m, pinning each
// dependency to its newest version in the catalog.  Files that do not exist
// are skipped.  Fields unrelated to version or dependency data are
// preserved.
func Sync(dir string, m *manifest.Manifest, c *registry.Catalog, opts Options) (Result, error) {
	pins := make(map[string]semver.Version, len(m.Deps))
	for _, dep := range m.Deps {
		newest, err := resolver.Newest(c, dep.Name)
		if err != nil {
			return Result{}, fmt.Errorf("metadata: module %s: %w", m.Name, err)
		}
		pins[dep.Name] = newest
	}

	var res Result
	var err error
	res.JSONUpdated, err = syncJSON(filepath.Join(dir, JSONFilename), m, pins, opts)
	if err != nil {
		return res, err
	}
	res.PropertiesUpdated, err = syncProperties(filepath.Join(dir, PropertiesFilename), m, pins, opts)
	return res, err
}

func syncJSON(path string, m *manifest.Manifest, pins map[string]semver.Version, opts Options) (bool, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if opts.Logger != nil {
			opts.Logger.Debug("no library.json, skipping", "module", m.Name)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("metadata: module %s: %w", m.Name, err)
	}

	// RawMessage values keep every unrelated field byte-for-byte.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(src, &doc); err != nil {
		return false, fmt.Errorf("metadata: module %s: invalid %s: %w", m.Name, JSONFilename, err)
	}

	doc["version"], err = json.Marshal(m.Version.String())
	if err != nil {
		return false, fmt.Errorf("metadata: module %s: %w", m.Name, err)
	}
	if len(m.Deps) == 0 {
		delete(doc, "dependencies")
	} else {
		deps := make(map[string]string, len(m.Deps))
		for _, dep := range m.Deps {
			deps[opts.Namespace+dep.Name] = ">=" + pins[dep.Name].String()
		}
		doc["dependencies"], err = json.Marshal(deps)
		if err != nil {
			return false, fmt.Errorf("metadata: module %s: %w", m.Name, err)
		}
	}

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return false, fmt.Errorf("metadata: module %s: %w", m.Name, err)
	}
	out = append(out, '\n')
	if err := writeFileAtomic(path, out); err != nil {
		return false, fmt.Errorf("metadata: module %s: %w: %s", m.Name, ErrWrite, err)
	}
	return true, nil
}

func writeFileAtomic(path string, data []byte) error {
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(temp, path)
}
