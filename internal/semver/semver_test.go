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

package semver

import "testing"

func TestCompare(t *testing.T) {
	ordered := []string{
		"0.9.0",
		"1.2.3-alpha",
		"1.2.3-alpha.1",
		"1.2.3-rc1",
		"1.2.3",
		"1.3.0",
		"2.0.0",
	}
	for i, a := range ordered {
		for j, b := range ordered {
			got := Compare(MustParse(a), MustParse(b))
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got != want {
				t.Errorf("Compare(%s, %s) = %d, want %d", a, b, got, want)
			}
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, raw := range []string{"0.0.1", "1.2.3", "1.2.3-rc1", "10.20.30-beta.2"} {
		v, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): %s", raw, err)
		}
		if got := v.String(); got != raw {
			t.Errorf("Parse(%q).String() = %q", raw, got)
		}
	}
}

func TestParseRejectsNonCanonical(t *testing.T) {
	for _, raw := range []string{"", "1", "1.2", "v1.2.3", "1.2.3.4", "1.2.x", "latest"} {
		if _, err := Parse(raw); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", raw)
		}
	}
}

func TestZeroVersion(t *testing.T) {
	var zero Version
	if !zero.IsZero() {
		t.Error("zero Version not reported as zero")
	}
	if Compare(zero, MustParse("0.0.1")) != -1 {
		t.Error("zero Version should order before any parsed version")
	}
	if Compare(zero, zero) != 0 {
		t.Error("zero Version should compare equal to itself")
	}
}

func TestBump(t *testing.T) {
	for _, tt := range []struct {
		in   string
		part Part
		want string
	}{
		{"1.2.3", Major, "2.0.0"},
		{"1.2.3", Minor, "1.3.0"},
		{"1.2.3", Patch, "1.2.4"},
		{"1.2.3-rc1", Patch, "1.2.4"},
		{"0.9.9", Minor, "0.10.0"},
	} {
		got, err := Bump(MustParse(tt.in), tt.part)
		if err != nil {
			t.Fatalf("Bump(%s, %s): %s", tt.in, tt.part, err)
		}
		if got.String() != tt.want {
			t.Errorf("Bump(%s, %s) = %s, want %s", tt.in, tt.part, got, tt.want)
		}
	}
	if _, err := Bump(MustParse("1.0.0"), Part("epoch")); err == nil {
		t.Error("Bump with unknown part succeeded, want error")
	}
}
