// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test get/set/unset of configuration keys and alias management

package config_test

import (
	"testing"

	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigKeys_GetSetUnset(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, cfg.Set(config.KeyAIModel, "gpt-4o-mini"))
	got, err := cfg.Get(config.KeyAIModel)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", got)

	require.NoError(t, cfg.Set(config.KeyDefaultBranch, "trunk"))
	require.NoError(t, cfg.Unset(config.KeyDefaultBranch))
	assert.Equal(t, "main", cfg.Sync.DefaultBranch, "unset restores the default")

	require.NoError(t, cfg.Unset(config.KeyAIModel))
	assert.Empty(t, cfg.AI.Model)
}

func TestConfigKeys_Validation(t *testing.T) {
	cfg := config.Default()

	err := cfg.Set(config.KeyConflictStrategy, "merge")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	require.NoError(t, cfg.Set(config.KeyConflictStrategy, "local"))

	assert.Error(t, cfg.Set(config.KeyDefaultBranch, "has space"))

	_, err = cfg.Get("vault.unknown")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Error(t, cfg.Unset("nope"))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", config.Mask(""))
	assert.Equal(t, "****", config.Mask("abc"))
	assert.Equal(t, "********wxyz", config.Mask("sk-abcdefwxyz"))
	assert.True(t, config.IsSecret(config.KeyAIAPIKey))
	assert.False(t, config.IsSecret(config.KeyAIModel))
}

func TestAliases(t *testing.T) {
	cfg := config.Default()

	prev, err := cfg.AddAlias("bk", "backup -m wip")
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = cfg.AddAlias("bk", "backup")
	require.NoError(t, err)
	assert.Equal(t, "backup -m wip", prev, "overwrite returns the previous expansion")

	_, err = cfg.AddAlias("backup", "status")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "reserved names are rejected")
	_, err = cfg.AddAlias("x", "  ")
	assert.Error(t, err)

	expanded, ok := cfg.ExpandAlias([]string{"bk", "--vault", "work"})
	require.True(t, ok)
	assert.Equal(t, []string{"backup", "--vault", "work"}, expanded)

	args := []string{"status"}
	same, ok := cfg.ExpandAlias(args)
	assert.False(t, ok)
	assert.Equal(t, args, same)

	assert.Equal(t, []string{"bk"}, cfg.AliasNames())
	removed, err := cfg.RemoveAlias("bk")
	require.NoError(t, err)
	assert.Equal(t, "backup", removed)
	_, err = cfg.RemoveAlias("bk")
	assert.Error(t, err)
}
