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

// Package gitstate inspects the Git working copies of module checkouts.
//
// A checkout is dirty when it has uncommitted changes beyond build
// artifacts, or when HEAD does not match the release tag of the module's
// current version.  Directories that are not Git repositories are reported
// clean: the graph should not break because a module was unpacked from a
// tarball.
package gitstate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/modregistry/regtool/internal/semver"
)

// State describes the release cleanliness of one module checkout.
type State struct {
	Clean bool
	// Reason says why the checkout is dirty; empty when Clean.
	Reason string
}

// Changes returns the uncommitted paths in the checkout at dir, excluding
// MODULE.bazel.lock and bazel-* workspace artifacts.  A directory that is
// not a Git repository has no changes.
func Changes(dir string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gitstate: can’t open Git repository in %s: %w", dir, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("gitstate: %s: %w", dir, err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("gitstate: %s: %w", dir, err)
	}
	var changes []string
	for path, s := range status {
		if path == "MODULE.bazel.lock" || strings.HasPrefix(path, "bazel-") {
			continue
		}
		if s.Staging == git.Unmodified && s.Worktree == git.Unmodified {
			continue
		}
		changes = append(changes, path)
	}
	return changes, nil
}

// Check reports whether the checkout at dir cleanly represents the given
// released version: no uncommitted changes, and HEAD at the commit tagged
// "<version>" or "v<version>".
func Check(dir string, released semver.Version) (State, error) {
	changes, err := Changes(dir)
	if err != nil {
		return State{}, err
	}
	if len(changes) > 0 {
		return State{Reason: fmt.Sprintf("%d uncommitted changes", len(changes))}, nil
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return State{Clean: true}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("gitstate: can’t open Git repository in %s: %w", dir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return State{Reason: "no HEAD commit"}, nil
	}

	tagged, tag, err := tagCommit(repo, released)
	if err != nil {
		return State{Reason: fmt.Sprintf("no release tag for %s", released)}, nil
	}
	if head.Hash() != tagged {
		return State{Reason: fmt.Sprintf("HEAD is not at tag %s", tag)}, nil
	}
	return State{Clean: true}, nil
}

// tagCommit resolves the commit the release tag points at, trying the bare
// version first and then a "v" prefix.  Annotated tags are peeled.
func tagCommit(repo *git.Repository, released semver.Version) (plumbing.Hash, string, error) {
	var firstErr error
	for _, tag := range []string{released.String(), "v" + released.String()} {
		ref, err := repo.Tag(tag)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		hash := ref.Hash()
		if obj, err := repo.TagObject(hash); err == nil {
			hash = obj.Target
		}
		return hash, tag, nil
	}
	return plumbing.ZeroHash, "", firstErr
}
