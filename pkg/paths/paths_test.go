// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test home/gfv-home resolution, vault layout and path validation

package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithHome_DefaultLayout(t *testing.T) {
	t.Setenv(paths.EnvGfvHome, "")
	p := paths.NewWithHome("/home/alice")

	assert.Equal(t, "/home/alice", p.Home())
	assert.Equal(t, "/home/alice/.gfv", p.GfvHome())
	assert.Equal(t, "/home/alice/.gfv/config.toml", p.ConfigFile())
	assert.Equal(t, "/home/alice/.gfv/work", p.DefaultVaultDir("work"))
}

func TestNewWithHome_GfvHomeOverride(t *testing.T) {
	t.Setenv(paths.EnvGfvHome, "~/vaults")
	p := paths.NewWithHome("/home/alice")

	assert.Equal(t, "/home/alice/vaults", p.GfvHome())
	assert.Equal(t, "/home/alice/vaults/config.toml", p.ConfigFile())
}

func TestVaultLayout(t *testing.T) {
	assert.Equal(t, filepath.Join("/v", "repo"), paths.RepoPath("/v"))
	assert.Equal(t, filepath.Join("/v", "repo", ".vault-manifest.json"), paths.ManifestPath("/v"))
}

func TestExpandHome(t *testing.T) {
	p := paths.NewWithHome("/home/alice")

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/alice"},
		{"~/.zshrc", "/home/alice/.zshrc"},
		{"~bob/.zshrc", "~bob/.zshrc"},
		{"/etc/hosts", "/etc/hosts"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.ExpandHome(tt.in), "ExpandHome(%q)", tt.in)
	}
}

func TestNormalizePath(t *testing.T) {
	p := paths.NewWithHome("/home/alice")

	got, err := p.NormalizePath("~/a/../b")
	require.NoError(t, err)
	assert.Equal(t, "/home/alice/b", got)

	_, err = p.NormalizePath("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestStateDir_FollowsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	p := paths.NewWithHome("/home/alice")

	assert.Equal(t, "/tmp/state/gfv", p.StateDir())
	assert.Equal(t, "/tmp/state/gfv/gfv.log", p.LogFilePath())
}

func TestValidateVaultName(t *testing.T) {
	for _, ok := range []string{"default", "work-laptop", "a_b", "V2"} {
		assert.NoError(t, paths.ValidateVaultName(ok), ok)
	}
	for _, bad := range []string{"", "a.b", "a/b", "..", "has space"} {
		err := paths.ValidateVaultName(bad)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "name %q should be rejected", bad)
	}
}

func TestValidateVaultPath(t *testing.T) {
	got, err := paths.ValidateVaultPath("zsh//zshrc")
	require.NoError(t, err)
	assert.Equal(t, "zsh/zshrc", got)

	got, err = paths.ValidateVaultPath(`nvim\init.vim`)
	require.NoError(t, err)
	assert.Equal(t, "nvim/init.vim", got)

	for _, bad := range []string{"", "/etc/hosts", "../escape", "a/../../b", ".git/config", ".vault-manifest.json", "."} {
		_, err := paths.ValidateVaultPath(bad)
		assert.Error(t, err, "vault path %q should be rejected", bad)
	}
}
