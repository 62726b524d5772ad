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

// Package semver defines the version type used throughout the registry.
package semver

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a registry version in canonical major.minor.patch[-suffix]
// form.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.  Parsing
// is strict: all three numeric components must be present and there is no
// leading "v".  The zero Version is not a valid version; use [Parse].
type Version struct {
	v *mm.Version
}

// Parse parses raw as a canonical version string.
func Parse(raw string) (Version, error) {
	v, err := mm.StrictNewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("semver: parse version %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// MustParse is like [Parse] but panics on error.  It is intended for
// constants and tests.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version as originally written.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// IsZero reports whether v is the invalid zero Version.
func (v Version) IsZero() bool {
	return v.v == nil
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// Versions are ordered by (major, minor, patch) first; at equal triples a
// release sorts after any pre-release of that triple, and pre-releases are
// ordered by their dot-separated identifiers.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return Compare(v, o) < 0
}

// Equal reports whether v and o are the same version.
func (v Version) Equal(o Version) bool {
	return Compare(v, o) == 0
}

// Part selects the version component incremented by [Bump].
type Part string

const (
	Major Part = "major"
	Minor Part = "minor"
	Patch Part = "patch"
)

// Bump returns the next release version after v.  The selected component is
// incremented, lower components reset to zero, and any pre-release suffix is
// dropped.
func Bump(v Version, part Part) (Version, error) {
	if v.v == nil {
		return Version{}, fmt.Errorf("semver: bump of zero Version")
	}
	var raw string
	switch part {
	case Major:
		raw = fmt.Sprintf("%d.0.0", v.v.Major()+1)
	case Minor:
		raw = fmt.Sprintf("%d.%d.0", v.v.Major(), v.v.Minor()+1)
	case Patch:
		raw = fmt.Sprintf("%d.%d.%d", v.v.Major(), v.v.Minor(), v.v.Patch()+1)
	default:
		return Version{}, fmt.Errorf("semver: unknown bump part %q", part)
	}
	return Parse(raw)
}
