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

// Package resolver answers version questions against a scanned catalog.
package resolver

import (
	"errors"
	"fmt"

	"github.com/modregistry/regtool/internal/registry"
	"github.com/modregistry/regtool/internal/semver"
)

// ErrUnknownModule indicates a module name absent from the catalog.  A
// dependency on such a module can never be judged current, so callers must
// treat this as fatal.
var ErrUnknownModule = errors.New("unknown module")

// Newest returns the newest known version of the named module.
func Newest(c *registry.Catalog, name string) (semver.Version, error) {
	entries := c.Entries(name)
	if entries == nil {
		return semver.Version{}, fmt.Errorf("resolver: %w: %s", ErrUnknownModule, name)
	}
	if len(entries) == 0 {
		// Scan never produces an empty entry set; guard anyway.
		return semver.Version{}, fmt.Errorf("resolver: %w: %s has no versions", ErrUnknownModule, name)
	}
	return entries[len(entries)-1].Version, nil
}

// IsOutdated reports whether pinned is older than the newest known version
// of the named module.
func IsOutdated(c *registry.Catalog, name string, pinned semver.Version) (bool, error) {
	newest, err := Newest(c, name)
	if err != nil {
		return false, err
	}
	return pinned.Less(newest), nil
}
