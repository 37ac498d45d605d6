// TEST TYPE: Integration Test
// DEPENDENCIES: go-git, temporary directories
// PURPOSE: Test vault detection, loading and path resolution

package vault_test

import (
	"path/filepath"
	"testing"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NotInitialized(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, vault.IsInitialized(dir))

	_, err := vault.Load(manifest.NewStore(nil), "default", dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotInitialized))
	assert.Contains(t, errors.Remediation(err), "gfv init")
}

func TestLoad_RepositoryWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := gitstore.Init(paths.RepoPath(dir), gitstore.WithAuthPolicy(gitstore.AuthPolicy{}))
	require.NoError(t, err)
	assert.True(t, vault.IsInitialized(dir))

	v, err := vault.Load(manifest.NewStore(nil), "default", dir)
	require.NoError(t, err, "a repository without manifest is still a usable vault")
	assert.Equal(t, 0, v.Manifest.Len())
	assert.Equal(t, filepath.Join(dir, "repo", "zsh", "zshrc"), v.StoredPath("zsh/zshrc"))

	v.Manifest.AddFile("zsh/zshrc", manifest.FileEntry{SourcePath: "/x", Type: manifest.TypeFile})
	require.NoError(t, v.SaveManifest())
	require.NoError(t, v.Reload())
	assert.True(t, v.Manifest.Has("zsh/zshrc"))
}

func TestBranch(t *testing.T) {
	dir := t.TempDir()
	repo, err := gitstore.Init(paths.RepoPath(dir), gitstore.WithAuthPolicy(gitstore.AuthPolicy{}))
	require.NoError(t, err)
	require.NoError(t, repo.SetBranch("local"))

	v, err := vault.Load(manifest.NewStore(nil), "default", dir)
	require.NoError(t, err)

	branch, err := v.Branch(repo)
	require.NoError(t, err)
	assert.Equal(t, "local", branch)

	v.Manifest.Remote = &manifest.RemoteConfig{URL: "https://example.com/x.git", Branch: "trunk"}
	branch, err = v.Branch(repo)
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}
