// TEST TYPE: Unit Test
// DEPENDENCIES: afero memory filesystem
// PURPOSE: Test file and directory copying, directory replacement and sizing

package filesystem_test

import (
	"testing"

	"github.com/billxc/git-file-vault/pkg/filesystem"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(parent(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0600))
}

func parent(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/home/u/.zshrc", "export A=1\n")

	require.NoError(t, filesystem.CopyFile(fs, "/home/u/.zshrc", "/vault/repo/zsh/zshrc"))
	assert.Equal(t, "export A=1\n", read(t, fs, "/vault/repo/zsh/zshrc"))

	info, err := fs.Stat("/vault/repo/zsh/zshrc")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String(), "permissions follow the source")
}

func TestReplaceDir_RemovesStaleFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/src/nvim/init.vim", "set nu")
	write(t, fs, "/src/nvim/lua/plugins.lua", "return {}")
	write(t, fs, "/src/nvim/.git/HEAD", "ref: refs/heads/main")
	write(t, fs, "/dst/nvim/old.vim", "stale")

	require.NoError(t, filesystem.ReplaceDir(fs, "/src/nvim", "/dst/nvim"))

	assert.Equal(t, "set nu", read(t, fs, "/dst/nvim/init.vim"))
	assert.Equal(t, "return {}", read(t, fs, "/dst/nvim/lua/plugins.lua"))
	assert.False(t, filesystem.Exists(fs, "/dst/nvim/old.vim"), "replace is destructive")
	assert.False(t, filesystem.Exists(fs, "/dst/nvim/.git"), "nested git metadata is not copied")
}

func TestReplaceDir_KeepsDestinationGitDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/vault/repo/nvim/init.vim", "set rnu")
	write(t, fs, "/home/u/.config/nvim/.git/HEAD", "ref: refs/heads/main")
	write(t, fs, "/home/u/.config/nvim/pack/x/.git/HEAD", "ref: refs/heads/dev")
	write(t, fs, "/home/u/.config/nvim/pack/x/plugin.vim", "stale")
	write(t, fs, "/home/u/.config/nvim/old/gone.vim", "stale")

	require.NoError(t, filesystem.ReplaceDir(fs, "/vault/repo/nvim", "/home/u/.config/nvim"))

	assert.Equal(t, "set rnu", read(t, fs, "/home/u/.config/nvim/init.vim"))
	assert.Equal(t, "ref: refs/heads/main", read(t, fs, "/home/u/.config/nvim/.git/HEAD"))
	assert.Equal(t, "ref: refs/heads/dev", read(t, fs, "/home/u/.config/nvim/pack/x/.git/HEAD"))
	assert.False(t, filesystem.Exists(fs, "/home/u/.config/nvim/pack/x/plugin.vim"))
	assert.False(t, filesystem.Exists(fs, "/home/u/.config/nvim/old"), "emptied directories are removed")
}

func TestCopy_FileOverDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/src/config", "file now")
	write(t, fs, "/dst/config/inner", "was a dir")

	require.NoError(t, filesystem.Copy(fs, "/src/config", "/dst/config"))
	assert.Equal(t, "file now", read(t, fs, "/dst/config"))
}

func TestSize(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "/d/a", "12345")
	write(t, fs, "/d/sub/b", "123")
	write(t, fs, "/d/.git/objects", "ignored")

	size, err := filesystem.Size(fs, "/d")
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)

	size, err = filesystem.Size(fs, "/d/a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = filesystem.Size(fs, "/missing")
	assert.Error(t, err)
}
