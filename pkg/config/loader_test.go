// TEST TYPE: Unit Test
// DEPENDENCIES: afero memory filesystem
// PURPOSE: Test configuration layering, persistence and environment overrides

package config_test

import (
	"testing"

	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configPath = "/home/alice/.gfv/config.toml"

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(afero.NewMemMapFs(), configPath)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.Current.Active)
	assert.Equal(t, "main", cfg.Sync.DefaultBranch)
	assert.Equal(t, config.StrategyPrompt, cfg.Sync.ConflictStrategy)
	assert.NotNil(t, cfg.Vaults)
	assert.NotNil(t, cfg.Aliases)
	assert.False(t, cfg.AI.Enabled())
}

func TestLoad_UserFileOverridesDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
[vaults]
default = "/home/alice/.gfv/default"
work = "/srv/work-vault"

[current]
active = "work"

[ai]
endpoint = "https://api.example.com/v1/chat/completions"
api_key = "sk-test"
model = "gpt-4o-mini"

[sync]
default_branch = "trunk"

[aliases]
bk = "backup -m wip"
`
	require.NoError(t, afero.WriteFile(fs, configPath, []byte(content), 0644))

	cfg, err := config.Load(fs, configPath)
	require.NoError(t, err)

	assert.Equal(t, "/srv/work-vault", cfg.Vaults["work"])
	assert.Equal(t, "work", cfg.Current.Active)
	assert.True(t, cfg.HasActive())
	assert.Equal(t, "trunk", cfg.Sync.DefaultBranch)
	assert.Equal(t, config.StrategyPrompt, cfg.Sync.ConflictStrategy, "unset keys keep defaults")
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, "backup -m wip", cfg.Aliases["bk"])
}

func TestLoad_MalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, configPath, []byte("[vaults\nbroken"), 0644))

	_, err := config.Load(fs, configPath)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GFV_AI_API_KEY", "from-env")
	t.Setenv("GFV_SYNC_DEFAULT_BRANCH", "develop")
	t.Setenv("GFV_HOME", "/ignored")

	cfg, err := config.Load(afero.NewMemMapFs(), configPath, config.WithEnvOverrides())
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
	assert.Equal(t, "develop", cfg.Sync.DefaultBranch)

	plain, err := config.Load(afero.NewMemMapFs(), configPath)
	require.NoError(t, err)
	assert.Empty(t, plain.AI.APIKey, "environment is only applied on request")
}

func TestSave_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.Vaults["default"] = "/home/alice/.gfv/default"
	cfg.Current.Active = "default"
	cfg.AI.Model = "gpt-4o-mini"
	_, err := cfg.AddAlias("s", "status")
	require.NoError(t, err)

	require.NoError(t, config.Save(fs, configPath, cfg))

	loaded, err := config.Load(fs, configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Vaults, loaded.Vaults)
	assert.Equal(t, cfg.Current, loaded.Current)
	assert.Equal(t, cfg.AI, loaded.AI)
	assert.Equal(t, cfg.Sync, loaded.Sync)
	assert.Equal(t, cfg.Aliases, loaded.Aliases)

	raw, err := afero.ReadFile(fs, configPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[vaults]")
	assert.NotContains(t, string(raw), "api_key", "empty optional ai fields are omitted")
}

func TestFromMap(t *testing.T) {
	cfg, err := config.FromMap(map[string]interface{}{
		"vaults.default":      "/v",
		"sync.default_branch": "trunk",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v", cfg.Vaults["default"])
	assert.Equal(t, "trunk", cfg.Sync.DefaultBranch)
	assert.Equal(t, "default", cfg.Current.Active)
}
