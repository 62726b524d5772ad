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

// Package manifest parses and rewrites MODULE.bazel files.
package manifest

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/bazelbuild/buildtools/build"

	"github.com/modregistry/regtool/internal/semver"
)

// Filename is the build manifest file name within a module directory.
const Filename = "MODULE.bazel"

var (
	// ErrMalformed indicates a manifest whose module or bazel_dep
	// declarations are missing or invalid.
	ErrMalformed = errors.New("malformed MODULE.bazel")

	// ErrDuplicateDependency indicates a module declared as a bazel_dep
	// more than once in the same manifest.
	ErrDuplicateDependency = errors.New("duplicate bazel_dep")
)

// Dependency is one bazel_dep declaration: a reference to another module
// pinned to an exact version.
type Dependency struct {
	Name    string
	Version semver.Version
}

func (d Dependency) String() string {
	return d.Name + "@" + d.Version.String()
}

// Manifest is the parsed content of one MODULE.bazel file.
type Manifest struct {
	Name    string
	Version semver.Version
	// Deps holds the bazel_dep declarations in file order, excluding
	// dev dependencies and any names the caller asked to ignore.
	Deps []Dependency
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

// Parse extracts the module declaration and bazel_dep list from the raw text
// of one MODULE.bazel file.  Dependencies named in ignore, and dependencies
// marked dev_dependency = True, are dropped.  Parse has no side effects.
func Parse(src []byte, ignore ...string) (*Manifest, error) {
	f, err := build.ParseModule(Filename, src)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w: %s", ErrMalformed, err)
	}

	modules := f.Rules("module")
	if len(modules) == 0 {
		return nil, fmt.Errorf("manifest: %w: no module declaration", ErrMalformed)
	}
	if len(modules) > 1 {
		return nil, fmt.Errorf("manifest: %w: %d module declarations", ErrMalformed, len(modules))
	}
	mod := modules[0]

	name := mod.Name()
	if name == "" {
		return nil, fmt.Errorf("manifest: %w: module declaration without a name", ErrMalformed)
	}
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("manifest: %w: invalid module name %q", ErrMalformed, name)
	}
	rawVersion := mod.AttrString("version")
	if rawVersion == "" {
		return nil, fmt.Errorf("manifest: %w: module %s has no version", ErrMalformed, name)
	}
	version, err := semver.Parse(rawVersion)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w: module %s: %s", ErrMalformed, name, err)
	}

	m := &Manifest{Name: name, Version: version}
	seen := make(map[string]bool)
	for _, dep := range f.Rules("bazel_dep") {
		depName := dep.Name()
		if depName == "" {
			return nil, fmt.Errorf("manifest: %w: module %s declares a bazel_dep without a name", ErrMalformed, name)
		}
		if boolAttr(dep, "dev_dependency") || slices.Contains(ignore, depName) {
			continue
		}
		if seen[depName] {
			return nil, fmt.Errorf("manifest: %w: module %s declares %s twice", ErrDuplicateDependency, name, depName)
		}
		seen[depName] = true
		rawDepVersion := dep.AttrString("version")
		if rawDepVersion == "" {
			return nil, fmt.Errorf("manifest: %w: module %s: bazel_dep %s has no version", ErrMalformed, name, depName)
		}
		depVersion, err := semver.Parse(rawDepVersion)
		if err != nil {
			return nil, fmt.Errorf("manifest: %w: module %s: bazel_dep %s: %s", ErrMalformed, name, depName, err)
		}
		m.Deps = append(m.Deps, Dependency{Name: depName, Version: depVersion})
	}
	return m, nil
}

func boolAttr(r *build.Rule, key string) bool {
	ident, ok := r.Attr(key).(*build.Ident)
	return ok && ident.Name == "True"
}
