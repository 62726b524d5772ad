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

package manifest_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/semver"
)

const sample = `# Display driver module.
module(
    name = "display",
    version = "1.4.0",
)

bazel_dep(name = "io_core", version = "2.0.1")
bazel_dep(name = "fonts", version = "1.1.0")
bazel_dep(name = "googletest", version = "1.15.2", dev_dependency = True)
`

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	want := &manifest.Manifest{
		Name:    "display",
		Version: semver.MustParse("1.4.0"),
		Deps: []manifest.Dependency{
			{Name: "io_core", Version: semver.MustParse("2.0.1")},
			{Name: "fonts", Version: semver.MustParse("1.1.0")},
		},
	}
	if diff := cmp.Diff(want, m, versionComparer()); diff != "" {
		t.Errorf("Parse: -want +got:\n%s", diff)
	}
}

func TestParseIgnore(t *testing.T) {
	m, err := manifest.Parse([]byte(sample), "fonts")
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Deps) != 1 || m.Deps[0].Name != "io_core" {
		t.Errorf("Parse with ignore: got deps %v, want only io_core", m.Deps)
	}
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
		want error
	}{
		{
			name: "no module declaration",
			src:  `bazel_dep(name = "a", version = "1.0.0")`,
			want: manifest.ErrMalformed,
		},
		{
			name: "module without version",
			src:  `module(name = "a")`,
			want: manifest.ErrMalformed,
		},
		{
			name: "module with non-canonical version",
			src:  `module(name = "a", version = "1.0")`,
			want: manifest.ErrMalformed,
		},
		{
			name: "invalid module name",
			src:  `module(name = "Not A Name", version = "1.0.0")`,
			want: manifest.ErrMalformed,
		},
		{
			name: "two module declarations",
			src: `module(name = "a", version = "1.0.0")
module(name = "b", version = "1.0.0")`,
			want: manifest.ErrMalformed,
		},
		{
			name: "dependency without version",
			src: `module(name = "a", version = "1.0.0")
bazel_dep(name = "b")`,
			want: manifest.ErrMalformed,
		},
		{
			name: "duplicate dependency",
			src: `module(name = "a", version = "1.0.0")
bazel_dep(name = "b", version = "1.0.0")
bazel_dep(name = "b", version = "1.1.0")`,
			want: manifest.ErrDuplicateDependency,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse: got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSetVersion(t *testing.T) {
	out, err := manifest.SetVersion([]byte(sample), semver.MustParse("1.5.0"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := manifest.Parse(out)
	if err != nil {
		t.Fatalf("reparsing rewritten manifest: %s", err)
	}
	if got := m.Version.String(); got != "1.5.0" {
		t.Errorf("rewritten version = %s, want 1.5.0", got)
	}
	if !strings.Contains(string(out), "# Display driver module.") {
		t.Error("rewrite dropped the leading comment")
	}
}

func TestSetDepVersions(t *testing.T) {
	out, changed, err := manifest.SetDepVersions([]byte(sample), map[string]semver.Version{
		"io_core": semver.MustParse("2.1.0"),
		"absent":  semver.MustParse("9.9.9"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !changed {
		t.Fatal("SetDepVersions reported no change")
	}
	m, err := manifest.Parse(out)
	if err != nil {
		t.Fatalf("reparsing rewritten manifest: %s", err)
	}
	want := []manifest.Dependency{
		{Name: "io_core", Version: semver.MustParse("2.1.0")},
		{Name: "fonts", Version: semver.MustParse("1.1.0")},
	}
	if diff := cmp.Diff(want, m.Deps, versionComparer()); diff != "" {
		t.Errorf("deps after rewrite: -want +got:\n%s", diff)
	}
}

func TestSetDepVersionsNoChange(t *testing.T) {
	out, changed, err := manifest.SetDepVersions([]byte(sample), map[string]semver.Version{
		"io_core": semver.MustParse("2.0.1"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if changed {
		t.Error("SetDepVersions reported a change for an up-to-date pin")
	}
	if string(out) != sample {
		t.Error("SetDepVersions rewrote an unchanged file")
	}
}

func versionComparer() cmp.Option {
	return cmp.Comparer(func(a, b semver.Version) bool { return a.Equal(b) })
}
