// TEST TYPE: Integration Test
// DEPENDENCIES: go-git, temporary home directory
// PURPOSE: Test status classification and listing

package engine_test

import (
	"os"
	"testing"

	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ClassifiesEachEntryOnce(t *testing.T) {
	f := newFixture(t)
	f.env.WriteHomeFile(".zshrc", "same")
	f.env.WriteHomeFile(".vimrc", "short")
	gone := f.env.WriteHomeFile(".inputrc", "x")
	f.link("~/.zshrc", "")
	f.link("~/.vimrc", "")
	f.link(gone, "")
	f.backup()

	f.env.WriteHomeFile(".config/nvim/init.vim", "never backed up")
	f.link("~/.config/nvim", "")
	f.env.WriteHomeFile(".vimrc", "a longer edit")
	require.NoError(t, os.Remove(gone))

	st, err := f.engine.Status()
	require.NoError(t, err)
	assert.True(t, st.Dirty, "the new link changed the manifest")

	states := map[string]engine.FileState{}
	for _, e := range st.Entries {
		states[e.VaultPath] = e.State
	}
	assert.Equal(t, map[string]engine.FileState{
		"zsh/zshrc":     engine.StateUpToDate,
		"vim/vimrc":     engine.StateModified,
		"input/inputrc": engine.StateMissingSource,
		"nvim":          engine.StateModified,
	}, states)
	assert.Equal(t, 2, st.Count(engine.StateModified))
}

func TestStatus_CleanAfterBackup(t *testing.T) {
	f := newFixture(t)
	f.env.WriteHomeFile(".config/nvim/init.vim", "set nu")
	f.link("~/.config/nvim", "")
	f.backup()

	st, err := f.engine.Status()
	require.NoError(t, err)
	assert.False(t, st.Dirty)
	assert.Equal(t, engine.StateUpToDate, st.Entries[0].State, "directory sizes are summed")
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.env.WriteHomeFile(".zshrc", "x")
	f.link("~/.zshrc", "")

	entries := f.engine.List()
	require.Len(t, entries, 1)
	assert.Equal(t, "zsh/zshrc", entries[0].VaultPath)
	assert.True(t, entries[0].SourceExists)
	assert.False(t, entries[0].StoredExists)
}
