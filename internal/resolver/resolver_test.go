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

package resolver_test

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/modregistry/regtool/internal/registry"
	"github.com/modregistry/regtool/internal/resolver"
	"github.com/modregistry/regtool/internal/semver"
)

func scan(t *testing.T, versions map[string][]string) *registry.Catalog {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, vs := range versions {
		for _, v := range vs {
			src := fmt.Sprintf("module(name = %q, version = %q)\n", name, v)
			fsys[fmt.Sprintf("modules/%s/%s/MODULE.bazel", name, v)] = &fstest.MapFile{Data: []byte(src)}
		}
	}
	catalog, err := registry.Scan(fsys, registry.ScanOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func TestNewest(t *testing.T) {
	catalog := scan(t, map[string][]string{
		"alpha": {"1.0.0", "1.1.0", "1.1.0-rc1", "0.9.0"},
		"beta":  {"2.0.0"},
	})
	for name, want := range map[string]string{"alpha": "1.1.0", "beta": "2.0.0"} {
		got, err := resolver.Newest(catalog, name)
		if err != nil {
			t.Fatal(err)
		}
		if got.String() != want {
			t.Errorf("Newest(%s) = %s, want %s", name, got, want)
		}
	}
}

func TestNewestUnknownModule(t *testing.T) {
	catalog := scan(t, map[string][]string{"alpha": {"1.0.0"}})
	if _, err := resolver.Newest(catalog, "missing"); !errors.Is(err, resolver.ErrUnknownModule) {
		t.Errorf("Newest: got error %v, want ErrUnknownModule", err)
	}
	if _, err := resolver.IsOutdated(catalog, "missing", semver.MustParse("1.0.0")); !errors.Is(err, resolver.ErrUnknownModule) {
		t.Errorf("IsOutdated: got error %v, want ErrUnknownModule", err)
	}
}

func TestIsOutdated(t *testing.T) {
	catalog := scan(t, map[string][]string{"alpha": {"1.0.0", "1.1.0"}})
	for pinned, want := range map[string]bool{
		"1.0.0":     true,
		"1.1.0-rc1": true,
		"1.1.0":     false,
		"2.0.0":     false,
	} {
		got, err := resolver.IsOutdated(catalog, "alpha", semver.MustParse(pinned))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("IsOutdated(alpha, %s) = %t, want %t", pinned, got, want)
		}
	}
}
