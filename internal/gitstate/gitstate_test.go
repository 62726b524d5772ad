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

package gitstate_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/modregistry/regtool/internal/gitstate"
	"github.com/modregistry/regtool/internal/semver"
)

func initRepo(t *testing.T, dir string) (*git.Repository, *git.Worktree) {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	return repo, worktree
}

func write(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
}

func commit(t *testing.T, worktree *git.Worktree, name string) plumbing.Hash {
	t.Helper()
	if _, err := worktree.Add(name); err != nil {
		t.Fatal(err)
	}
	hash, err := worktree.Commit("commit message", &git.CommitOptions{Author: new(object.Signature)})
	if err != nil {
		t.Fatal(err)
	}
	return hash
}

func TestCheckCleanAtTag(t *testing.T) {
	dir := t.TempDir()
	repo, worktree := initRepo(t, dir)
	write(t, dir, "MODULE.bazel", "module(name = \"display\", version = \"1.0.0\")\n")
	hash := commit(t, worktree, "MODULE.bazel")
	if _, err := repo.CreateTag("1.0.0", hash, nil); err != nil {
		t.Fatal(err)
	}

	state, err := gitstate.Check(dir, semver.MustParse("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if !state.Clean {
		t.Errorf("checkout at tag reported dirty: %s", state.Reason)
	}
}

func TestCheckUncommittedChanges(t *testing.T) {
	dir := t.TempDir()
	repo, worktree := initRepo(t, dir)
	write(t, dir, "MODULE.bazel", "module(name = \"display\", version = \"1.0.0\")\n")
	hash := commit(t, worktree, "MODULE.bazel")
	if _, err := repo.CreateTag("1.0.0", hash, nil); err != nil {
		t.Fatal(err)
	}
	write(t, dir, "extra.txt", "scratch\n")

	state, err := gitstate.Check(dir, semver.MustParse("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if state.Clean {
		t.Error("checkout with uncommitted changes reported clean")
	}
}

func TestCheckIgnoresBuildArtifacts(t *testing.T) {
	dir := t.TempDir()
	repo, worktree := initRepo(t, dir)
	write(t, dir, "MODULE.bazel", "module(name = \"display\", version = \"1.0.0\")\n")
	hash := commit(t, worktree, "MODULE.bazel")
	if _, err := repo.CreateTag("v1.0.0", hash, nil); err != nil {
		t.Fatal(err)
	}
	write(t, dir, "MODULE.bazel.lock", "{}\n")
	write(t, dir, "bazel-out", "symlink stand-in\n")

	state, err := gitstate.Check(dir, semver.MustParse("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if !state.Clean {
		t.Errorf("build artifacts made the checkout dirty: %s", state.Reason)
	}
}

func TestCheckMissingTag(t *testing.T) {
	dir := t.TempDir()
	_, worktree := initRepo(t, dir)
	write(t, dir, "MODULE.bazel", "module(name = \"display\", version = \"1.0.0\")\n")
	commit(t, worktree, "MODULE.bazel")

	state, err := gitstate.Check(dir, semver.MustParse("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if state.Clean {
		t.Error("checkout without a release tag reported clean")
	}
}

func TestCheckHeadBehindTag(t *testing.T) {
	dir := t.TempDir()
	repo, worktree := initRepo(t, dir)
	write(t, dir, "MODULE.bazel", "module(name = \"display\", version = \"1.0.0\")\n")
	hash := commit(t, worktree, "MODULE.bazel")
	if _, err := repo.CreateTag("1.0.0", hash, nil); err != nil {
		t.Fatal(err)
	}
	write(t, dir, "MODULE.bazel", "module(name = \"display\", version = \"1.0.1\")\n")
	commit(t, worktree, "MODULE.bazel")

	state, err := gitstate.Check(dir, semver.MustParse("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if state.Clean {
		t.Error("checkout with commits after the tag reported clean")
	}
}

func TestCheckNotARepository(t *testing.T) {
	state, err := gitstate.Check(t.TempDir(), semver.MustParse("1.0.0"))
	if err != nil {
		t.Fatal(err)
	}
	if !state.Clean {
		t.Errorf("plain directory reported dirty: %s", state.Reason)
	}
}
