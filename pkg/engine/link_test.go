// TEST TYPE: Integration Test
// DEPENDENCIES: go-git, temporary home directory
// PURPOSE: Test linking and unlinking tracked paths

package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_InfersVaultPathAndPersists(t *testing.T) {
	f := newFixture(t)
	f.env.WriteHomeFile(".zshrc", "export EDITOR=vim\n")
	f.env.WriteHomeFile(".config/nvim/init.vim", "set number\n")

	res := f.link("~/.zshrc", "")
	assert.Equal(t, "zsh/zshrc", res.VaultPath)
	assert.Equal(t, manifest.TypeFile, res.Type)
	assert.True(t, res.SourceExists)
	assert.False(t, res.StoredExists)

	res = f.link(f.env.HomePath(".config/nvim"), "")
	assert.Equal(t, "nvim", res.VaultPath)
	assert.Equal(t, manifest.TypeDirectory, res.Type)

	reloaded, err := manifest.NewStore(nil).Load(f.vault.Dir)
	require.NoError(t, err)
	entry, ok := reloaded.GetFile("zsh/zshrc")
	require.True(t, ok)
	assert.Equal(t, f.env.HomePath(".zshrc"), entry.SourcePath)
	assert.Nil(t, entry.LastSync, "linking does not sync")
	assert.Empty(t, entry.Platform)
}

func TestLink_Rejections(t *testing.T) {
	f := newFixture(t)
	f.env.WriteHomeFile(".gitconfig", "[user]\n")
	f.link("~/.gitconfig", "")

	_, err := f.engine.Link(engine.LinkOptions{Source: "~/.gitconfig"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyManaged))
	assert.Contains(t, errors.Remediation(err), "gfv backup")

	_, err = f.engine.Link(engine.LinkOptions{Source: "~/.nope"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileNotFound), "neither copy exists")

	f.env.WriteHomeFile(".vimrc", "x")
	_, err = f.engine.Link(engine.LinkOptions{Source: "~/.vimrc", Platform: "beos"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = f.engine.Link(engine.LinkOptions{Source: "~/.vimrc", VaultPath: "../escape"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestLink_StoredCopyOnly(t *testing.T) {
	f := newFixture(t)
	testutil.WriteFile(t, filepath.Join(f.stored("tmux"), "tmux.conf"), "set -g mouse on\n")

	res, err := f.engine.Link(engine.LinkOptions{Source: "~/.config/tmux", Platform: "linux"})
	require.NoError(t, err)
	assert.Equal(t, "tmux", res.VaultPath)
	assert.False(t, res.SourceExists)
	assert.True(t, res.StoredExists)
	assert.Equal(t, manifest.TypeDirectory, res.Type, "type comes from the stored copy")
	assert.Equal(t, manifest.PlatformLinux, res.Platform)
}

func TestLink_SensitiveNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	f.env.WriteHomeFile(".aws/credentials", "[default]\n")

	res, err := f.engine.Link(engine.LinkOptions{Source: "~/.aws/credentials"})
	require.NoError(t, err)
	assert.True(t, res.Sensitive)
	assert.True(t, res.Cancelled)
	require.Len(t, f.asked, 1)
	assert.Equal(t, []string{f.env.HomePath(".aws/credentials")}, f.asked[0])
	assert.False(t, f.vault.Manifest.Has(res.VaultPath))

	res, err = f.engine.Link(engine.LinkOptions{Source: "~/.aws/credentials", Yes: true})
	require.NoError(t, err)
	assert.False(t, res.Cancelled)
	assert.Len(t, f.asked, 1, "--yes skips the question")
	assert.True(t, f.vault.Manifest.Has(res.VaultPath))
}

func TestLinkThenUnlink_ClearsEntry(t *testing.T) {
	f := newFixture(t)
	sources := map[string]string{
		".zshrc":                "zsh/zshrc",
		".config/git/ignore":    "git/ignore",
		"notes/todo.txt":        "notes/todo.txt",
		".config/alacritty.yml": "alacritty.yml",
	}
	for rel, vaultPath := range sources {
		f.env.WriteHomeFile(rel, "content of "+rel)
		res := f.link(f.env.HomePath(rel), "")
		require.Equal(t, vaultPath, res.VaultPath)
	}

	for _, vaultPath := range sources {
		_, err := f.engine.Unlink(vaultPath, false)
		require.NoError(t, err)
		_, ok := f.vault.Manifest.GetFile(vaultPath)
		assert.False(t, ok, "%s still tracked after unlink", vaultPath)
	}
	assert.Equal(t, 0, f.vault.Manifest.Len())
}

func TestUnlink_CommitsAndKeepsSource(t *testing.T) {
	f := newFixture(t)
	source := f.env.WriteHomeFile(".bashrc", "alias ll='ls -l'\n")
	f.link(source, "")
	f.backup()
	require.True(t, testutil.Exists(f.stored("bash/bashrc")))

	res, err := f.engine.Unlink("bash/bashrc", true)
	require.NoError(t, err)
	assert.True(t, res.DeletedStored)
	assert.NotEmpty(t, res.Commit)
	assert.Equal(t, source, res.Entry.SourcePath)

	assert.False(t, testutil.Exists(f.stored("bash/bashrc")))
	assert.Equal(t, "alias ll='ls -l'\n", testutil.ReadFile(t, source), "the source is never touched")

	head, err := f.repo.HeadCommit()
	require.NoError(t, err)
	assert.Equal(t, "Remove bash/bashrc", head.Message)

	_, err = f.engine.Unlink("bash/bashrc", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotInManifest))
}
