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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/modregistry/regtool/internal/semver"
)

// UpdateDependencyPins re-pins dependencies already listed in the
// library.json at path to the supplied current versions.  Keys that are not
// listed stay untouched; no keys are added or removed.  It reports whether
// the file changed (or would change, with dryRun set).  A missing file is
// not an error.
func UpdateDependencyPins(path string, versions map[string]semver.Version, namespace string, dryRun bool) (bool, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("metadata: %s: %w", path, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(src, &doc); err != nil {
		return false, fmt.Errorf("metadata: %s: %w", path, err)
	}
	raw, ok := doc["dependencies"]
	if !ok {
		return false, nil
	}
	var deps map[string]string
	if err := json.Unmarshal(raw, &deps); err != nil {
		return false, fmt.Errorf("metadata: %s: dependencies: %w", path, err)
	}

	changed := false
	for name, version := range versions {
		key := namespace + name
		want := ">=" + version.String()
		if current, ok := deps[key]; ok && current != want {
			deps[key] = want
			changed = true
		}
	}
	if !changed || dryRun {
		return changed, nil
	}

	doc["dependencies"], err = json.Marshal(deps)
	if err != nil {
		return false, fmt.Errorf("metadata: %s: %w", path, err)
	}
	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return false, fmt.Errorf("metadata: %s: %w", path, err)
	}
	out = append(out, '\n')
	if err := writeFileAtomic(path, out); err != nil {
		return false, fmt.Errorf("metadata: %s: %w: %s", path, ErrWrite, err)
	}
	return true, nil
}
