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

package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/modregistry/regtool/internal/manifest"
	"github.com/modregistry/regtool/internal/semver"
)

// syncProperties rewrites the version= and depends= lines of a
// library.properties file, keeping every other line byte-for-byte.
func syncProperties(path string, m *manifest.Manifest, pins map[string]semver.Version, opts Options) (bool, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if opts.Logger != nil {
			opts.Logger.Debug("no library.properties, skipping", "module", m.Name)
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("metadata: module %s: %w", m.Name, err)
	}

	lines := strings.Split(string(src), "\n")
	var out []string
	versionWritten := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "version="):
			out = append(out, "version="+m.Version.String())
			versionWritten = true
		case strings.HasPrefix(line, "depends="):
			// Replaced below, after the remaining lines.
		default:
			out = append(out, line)
		}
	}
	if !versionWritten {
		// Insert after name= if present, else at the top.
		pos := 0
		for i, line := range out {
			if strings.HasPrefix(line, "name=") {
				pos = i + 1
				break
			}
		}
		out = append(out[:pos], append([]string{"version=" + m.Version.String()}, out[pos:]...)...)
	}
	if len(m.Deps) > 0 {
		var specs []string
		for _, dep := range m.Deps {
			specs = append(specs, fmt.Sprintf("%s (>=%s)", dep.Name, pins[dep.Name]))
		}
		for len(out) > 0 && out[len(out)-1] == "" {
			out = out[:len(out)-1]
		}
		out = append(out, "depends="+strings.Join(specs, ","))
	}

	text := strings.Join(out, "\n")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := writeFileAtomic(path, []byte(text)); err != nil {
		return false, fmt.Errorf("metadata: module %s: %w: %s", m.Name, ErrWrite, err)
	}
	return true, nil
}
