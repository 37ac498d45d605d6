// Package vault ties a vault directory to its repository and manifest.
package vault

import (
	"os"
	"path/filepath"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
)

// GitignoreContent is written to every freshly initialized repository.
const GitignoreContent = "# Git-file-vault managed repository\n.vault-manifest-*.tmp\n"

// Vault is one loaded vault: its directory, repository path and manifest.
type Vault struct {
	Name     string
	Dir      string
	RepoPath string
	Manifest *manifest.Manifest

	store *manifest.Store
}

// IsInitialized reports whether dir holds a vault repository.
func IsInitialized(dir string) bool {
	info, err := os.Stat(filepath.Join(paths.RepoPath(dir), ".git"))
	return err == nil && info.IsDir()
}

// Load reads the vault at dir.
func Load(store *manifest.Store, name, dir string) (*Vault, error) {
	if !IsInitialized(dir) {
		return nil, errors.Newf(errors.ErrNotInitialized,
			"vault %q is not initialized at %s", name, dir).
			WithRemediation("run 'gfv init' first")
	}
	m, err := store.Load(dir)
	if err != nil {
		return nil, err
	}
	return &Vault{
		Name:     name,
		Dir:      dir,
		RepoPath: paths.RepoPath(dir),
		Manifest: m,
		store:    store,
	}, nil
}

// Reload re-reads the manifest from disk.
func (v *Vault) Reload() error {
	m, err := v.store.Load(v.Dir)
	if err != nil {
		return err
	}
	v.Manifest = m
	return nil
}

// SaveManifest persists the manifest.
func (v *Vault) SaveManifest() error {
	return v.store.Save(v.Dir, v.Manifest)
}

// StoredPath is where the stored copy of vaultPath lives.
func (v *Vault) StoredPath(vaultPath string) string {
	return filepath.Join(v.RepoPath, filepath.FromSlash(vaultPath))
}

// Open opens the vault repository.
func (v *Vault) Open(opts ...gitstore.Option) (*gitstore.Repository, error) {
	return gitstore.Open(v.RepoPath, opts...)
}

// Branch returns the configured remote branch, or the repository's current
// branch in local-only mode.
func (v *Vault) Branch(repo *gitstore.Repository) (string, error) {
	if v.Manifest.HasRemote() && v.Manifest.Remote.Branch != "" {
		return v.Manifest.Remote.Branch, nil
	}
	return repo.CurrentBranch()
}
