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

// Package config loads the optional regtool.toml at the registry root.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Filename is the configuration file looked up in the registry root.
const Filename = "regtool.toml"

// Config holds registry-wide settings.
type Config struct {
	// Ignore lists dependency names that are not part of this registry
	// (external third-party modules) and are dropped when parsing
	// manifests.
	Ignore []string `toml:"ignore"`
	// Namespace prefixes dependency keys in library.json, e.g. "acme/".
	Namespace string `toml:"namespace"`
}

// Load reads the configuration file at path.  A missing file yields the
// zero configuration without error.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := new(Config)
	if err := toml.Unmarshal(src, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
