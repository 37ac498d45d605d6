package testutil

import (
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// NewBareRemote creates an empty bare repository whose HEAD names branch.
func NewBareRemote(t *testing.T, branch string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "remote.git")
	_, err := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
		Bare:        true,
	})
	if err != nil {
		t.Fatalf("Failed to init bare remote: %v", err)
	}
	return path
}

// Scratch is a throwaway clone used to advance a remote from "another machine".
type Scratch struct {
	Repo   *git.Repository
	Dir    string
	Branch string
	t      *testing.T
}

// NewScratch clones remote, or initializes an empty repository pointing at
// it when the remote has no commits yet.
func NewScratch(t *testing.T, remote, branch string) *Scratch {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "scratch")

	repo, err := git.PlainClone(dir, false, &git.CloneOptions{URL: remote, ReferenceName: plumbing.NewBranchReferenceName(branch)})
	if err != nil {
		repo, err = git.PlainInitWithOptions(dir, &git.PlainInitOptions{
			InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
		})
		if err != nil {
			t.Fatalf("Failed to init scratch repo: %v", err)
		}
		if _, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remote}}); err != nil {
			t.Fatalf("Failed to add scratch remote: %v", err)
		}
	}
	return &Scratch{Repo: repo, Dir: dir, Branch: branch, t: t}
}

// Commit writes files (relative path -> content) and commits them.
func (s *Scratch) Commit(message string, files map[string]string) plumbing.Hash {
	s.t.Helper()
	for rel, content := range files {
		WriteFile(s.t, filepath.Join(s.Dir, filepath.FromSlash(rel)), content)
	}
	wt, err := s.Repo.Worktree()
	if err != nil {
		s.t.Fatalf("Failed to open scratch worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		s.t.Fatalf("Failed to stage scratch changes: %v", err)
	}
	sig := &object.Signature{Name: "other", Email: "other@example.com", When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		s.t.Fatalf("Failed to commit in scratch: %v", err)
	}
	return hash
}

// Push pushes the scratch branch to origin.
func (s *Scratch) Push() {
	s.t.Helper()
	spec := config.RefSpec("refs/heads/" + s.Branch + ":refs/heads/" + s.Branch)
	err := s.Repo.Push(&git.PushOptions{RemoteName: "origin", RefSpecs: []config.RefSpec{spec}})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		s.t.Fatalf("Failed to push scratch: %v", err)
	}
}

// RemoteHead returns the hash of branch on the bare remote at path.
func RemoteHead(t *testing.T, remote, branch string) plumbing.Hash {
	t.Helper()
	repo, err := git.PlainOpen(remote)
	if err != nil {
		t.Fatalf("Failed to open remote: %v", err)
	}
	ref, err := repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		t.Fatalf("Remote has no branch %s: %v", branch, err)
	}
	return ref.Hash()
}
