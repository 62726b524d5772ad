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

package manifest

import (
	"fmt"

	"github.com/bazelbuild/buildtools/build"

	"github.com/modregistry/regtool/internal/semver"
)

// SetVersion returns src with the version attribute of the module
// declaration replaced by version.  Comments are preserved; the file is
// reprinted in buildifier formatting.
func SetVersion(src []byte, version semver.Version) ([]byte, error) {
	f, err := build.ParseModule(Filename, src)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w: %s", ErrMalformed, err)
	}
	modules := f.Rules("module")
	if len(modules) != 1 {
		return nil, fmt.Errorf("manifest: %w: expected one module declaration, found %d", ErrMalformed, len(modules))
	}
	modules[0].SetAttr("version", &build.StringExpr{Value: version.String()})
	return build.Format(f), nil
}

// SetDepVersions returns src with every bazel_dep whose name appears in
// versions re-pinned to the version recorded there.  The second result
// reports whether any pin actually changed.  Dev dependencies are rewritten
// like any other bazel_dep: a stale pin is stale either way.
func SetDepVersions(src []byte, versions map[string]semver.Version) ([]byte, bool, error) {
	f, err := build.ParseModule(Filename, src)
	if err != nil {
		return nil, false, fmt.Errorf("manifest: %w: %s", ErrMalformed, err)
	}
	changed := false
	for _, dep := range f.Rules("bazel_dep") {
		want, ok := versions[dep.Name()]
		if !ok {
			continue
		}
		if dep.AttrString("version") == want.String() {
			continue
		}
		dep.SetAttr("version", &build.StringExpr{Value: want.String()})
		changed = true
	}
	if !changed {
		return src, false, nil
	}
	return build.Format(f), true, nil
}
