// TEST TYPE: Integration Test
// DEPENDENCIES: cobra command tree, temp home via testutil, go-git bare remotes
// PURPOSE: Drive gfv end to end through its command line

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/billxc/git-file-vault/internal/cli"
	"github.com/billxc/git-file-vault/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	code   int
}

// gfv runs one command line with input as stdin.
func gfv(t *testing.T, input string, args ...string) result {
	t.Helper()
	root := cli.NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(input))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	code := cli.Run(context.Background(), root, args)
	return result{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

// mustGfv runs a command line that is expected to succeed.
func mustGfv(t *testing.T, args ...string) string {
	t.Helper()
	res := gfv(t, "", args...)
	require.Equal(t, 0, res.code, "gfv %s failed:\n%s", strings.Join(args, " "), res.stderr)
	return res.stdout
}

func decode(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output is not JSON:\n%s", out)
}

type jsonError struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	Remediation string `json:"remediation"`
}

type jsonSettings struct {
	Title    string `json:"title"`
	Settings []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"settings"`
}

func (s jsonSettings) get(key string) (string, bool) {
	for _, f := range s.Settings {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func TestRun_NoVaultYet(t *testing.T) {
	testutil.NewTestEnvironment(t)

	res := gfv(t, "", "status", "--format", "json")
	assert.Equal(t, 1, res.code)

	var e jsonError
	decode(t, res.stderr, &e)
	assert.Equal(t, "NOT_INITIALIZED", e.Code)
	assert.Contains(t, e.Remediation, "gfv init")
}

func TestRun_UsageErrorsPointAtHelp(t *testing.T) {
	testutil.NewTestEnvironment(t)

	res := gfv(t, "", "link")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Error: [INVALID_INPUT]")
	assert.Contains(t, res.stderr, "Hint: run 'gfv link --help' for usage")

	res = gfv(t, "", "status", "--bogus")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "unknown flag: --bogus")

	res = gfv(t, "", "list", "--format", "xml")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "invalid --format value: xml")
}

func TestLocalVault_LinkBackupStatusRestore(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out := mustGfv(t, "init", "--format", "text")
	assert.Contains(t, out, "Created vault default")

	zshrc := env.WriteHomeFile(".zshrc", "export A=1\n")

	out = mustGfv(t, "link", "~/.zshrc")
	assert.Contains(t, out, "Linked ~/.zshrc as zsh/zshrc")

	out = mustGfv(t, "backup", "-m", "first backup")
	assert.Contains(t, out, `"first backup"`)
	assert.Contains(t, out, "No remote configured; changes are local only")
	stored := filepath.Join(env.GfvHome, "default", "repo", "zsh", "zshrc")
	assert.Equal(t, "export A=1\n", testutil.ReadFile(t, stored))

	out = mustGfv(t, "status")
	assert.Contains(t, out, "default:")
	assert.Contains(t, out, "up-to-date")
	assert.Contains(t, out, "zsh/zshrc")

	testutil.WriteFile(t, zshrc, "export A=2 # edited locally\n")
	out = mustGfv(t, "status")
	assert.Contains(t, out, "modified")

	res := gfv(t, "n\n", "restore")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Restore cancelled")
	assert.Contains(t, res.stderr, "[y/N]", "the question goes to stderr")
	assert.Equal(t, "export A=2 # edited locally\n", testutil.ReadFile(t, zshrc))

	out = mustGfv(t, "restore", "--dry-run")
	assert.Contains(t, out, "Dry run; no files were changed")
	assert.Equal(t, "export A=2 # edited locally\n", testutil.ReadFile(t, zshrc))

	out = mustGfv(t, "restore", "--force")
	assert.Contains(t, out, "Restored 1 of 1 entries")
	assert.Equal(t, "export A=1\n", testutil.ReadFile(t, zshrc))
}

func TestRestore_ConflictStrategyFromConfig(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	mustGfv(t, "init")
	path := env.WriteHomeFile(".config/tool/settings.ini", "v1\n")
	mustGfv(t, "link", path)
	mustGfv(t, "backup")
	testutil.WriteFile(t, path, "v2 changed\n")

	mustGfv(t, "config", "sync.conflict_strategy", "local")
	out := mustGfv(t, "restore")
	assert.Contains(t, out, "Restore cancelled")
	assert.Equal(t, "v2 changed\n", testutil.ReadFile(t, path))

	mustGfv(t, "config", "sync.conflict_strategy", "remote")
	mustGfv(t, "restore")
	assert.Equal(t, "v1\n", testutil.ReadFile(t, path))
}

func TestList_ShortLongAndJSON(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	mustGfv(t, "init")

	out := mustGfv(t, "list")
	assert.Contains(t, out, "No files tracked in vault default")

	env.WriteHomeFile(".config/nvim/init.lua", "-- nvim")
	mustGfv(t, "link", "~/.config/nvim", "--platform", "linux")

	out = mustGfv(t, "list", "--long")
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "directory")
	assert.Contains(t, out, "linux")
	assert.Contains(t, out, "~/.config/nvim")

	var list struct {
		Vault string `json:"vault"`
		Files []struct {
			VaultPath    string `json:"vaultPath"`
			SourceExists bool   `json:"sourceExists"`
		} `json:"files"`
	}
	decode(t, mustGfv(t, "list", "--format", "json"), &list)
	assert.Equal(t, "default", list.Vault)
	require.Len(t, list.Files, 1)
	assert.Equal(t, "nvim", list.Files[0].VaultPath)
	assert.True(t, list.Files[0].SourceExists)
}

func TestLink_FailsWhenNothingExists(t *testing.T) {
	testutil.NewTestEnvironment(t)
	mustGfv(t, "init")

	res := gfv(t, "", "link", "~/nowhere.conf", "--format", "json")
	assert.Equal(t, 1, res.code)
	var e jsonError
	decode(t, res.stderr, &e)
	assert.Equal(t, "FILE_NOT_FOUND", e.Code)
}

func TestLink_AsksBeforeTrackingKeys(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	mustGfv(t, "init")
	env.WriteHomeFile(".config/app/token.pem", "-----BEGIN-----")

	res := gfv(t, "n\n", "link", "~/.config/app/token.pem")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "cancelled")
	assert.Contains(t, mustGfv(t, "list"), "No files tracked")

	out := mustGfv(t, "link", "~/.config/app/token.pem", "--yes")
	assert.Contains(t, out, "sensitive")
	assert.Contains(t, mustGfv(t, "list"), "app/token.pem")
}

func TestUnlink_KeepsSourceAndOptionallyStoredCopy(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	mustGfv(t, "init")
	src := env.WriteHomeFile(".vimrc", "set nu")
	mustGfv(t, "link", src)
	mustGfv(t, "backup")
	stored := filepath.Join(env.GfvHome, "default", "repo", "vim", "vimrc")
	require.True(t, testutil.Exists(stored))

	out := mustGfv(t, "unlink", "vim/vimrc", "--delete-files")
	assert.Contains(t, out, "Stopped tracking vim/vimrc")
	assert.False(t, testutil.Exists(stored))
	assert.True(t, testutil.Exists(src), "the source is never touched")

	res := gfv(t, "", "unlink", "vim/vimrc")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[NOT_IN_MANIFEST]")
}

func TestRemoteVault_BackupPushesAndSecondVaultAdopts(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	remote := testutil.NewBareRemote(t, "main")

	out := mustGfv(t, "init", "--remote", remote, "--branch", "main")
	assert.Contains(t, out, "Created vault default")
	assert.NotContains(t, out, "Initial push failed")

	src := env.WriteHomeFile(".tmux.conf", "set -g mouse on\n")
	mustGfv(t, "link", src)
	out = mustGfv(t, "backup", "-m", "tmux")
	assert.Contains(t, out, "Pushed to origin/main")
	assert.False(t, testutil.RemoteHead(t, remote, "main").IsZero())

	out = mustGfv(t, "init", "--name", "laptop", "--remote", remote)
	assert.Contains(t, out, "Cloned vault laptop")

	testutil.WriteFile(t, src, "lost edit\n")
	mustGfv(t, "--vault", "laptop", "restore", "--force")
	assert.Equal(t, "set -g mouse on\n", testutil.ReadFile(t, src))

	var info struct {
		Name   string `json:"name"`
		Branch string `json:"branch"`
		Files  int    `json:"files"`
		Remote *struct {
			URL string `json:"url"`
		} `json:"remote"`
	}
	decode(t, mustGfv(t, "vault", "info", "laptop", "--format", "json"), &info)
	assert.Equal(t, "laptop", info.Name)
	assert.Equal(t, "main", info.Branch)
	assert.Equal(t, 1, info.Files)
	require.NotNil(t, info.Remote)
	assert.Equal(t, remote, info.Remote.URL)
}

func TestVaultCommands(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	mustGfv(t, "init")
	workDir := filepath.Join(env.HomeDir, "vaults", "work")
	out := mustGfv(t, "vault", "create", "work", "--path", workDir)
	assert.Contains(t, out, "Created vault work")

	var vaults []struct {
		Name   string `json:"name"`
		Active bool   `json:"active"`
	}
	decode(t, mustGfv(t, "vault", "list", "--format", "json"), &vaults)
	require.Len(t, vaults, 2)
	assert.Equal(t, "default", vaults[0].Name)
	assert.True(t, vaults[0].Active)
	assert.False(t, vaults[1].Active)

	out = mustGfv(t, "vault", "switch", "work")
	assert.Contains(t, out, "Switched to vault work")

	res := gfv(t, "", "vault", "remove", "work")
	assert.Equal(t, 1, res.code, "the active vault cannot be removed")
	assert.Contains(t, res.stderr, "[ACTIVE_VAULT]")

	res = gfv(t, "n\n", "vault", "remove", "default")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cancelled.")

	res = gfv(t, "y\n", "vault", "remove", "default")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Removed vault default from the configuration")
	assert.True(t, testutil.Exists(filepath.Join(env.GfvHome, "default")), "directory is kept without --delete-files")

	remote := testutil.NewBareRemote(t, "main")
	out = mustGfv(t, "vault", "set-remote", remote, "--branch", "trunk")
	assert.Contains(t, out, "now syncs with")
	assert.Contains(t, mustGfv(t, "config", "remote.branch"), "trunk")

	out = mustGfv(t, "vault", "set-branch", "main")
	assert.Contains(t, out, "now uses branch main")
	assert.Contains(t, mustGfv(t, "config", "remote.branch"), "main")

	out = mustGfv(t, "vault", "remove-remote")
	assert.Contains(t, out, "is now local only")
	assert.Contains(t, mustGfv(t, "config", "remote.url"), "local only")
}

func TestConfig_GetSetUnsetList(t *testing.T) {
	testutil.NewTestEnvironment(t)
	mustGfv(t, "init")

	out := mustGfv(t, "config", "ai.api_key", "sk-test-abcd1234")
	assert.Contains(t, out, "Set ai.api_key = ********1234")
	assert.NotContains(t, out, "sk-test")

	assert.Equal(t, "********1234\n", mustGfv(t, "config", "ai.api_key"))
	assert.Equal(t, "main\n", mustGfv(t, "config", "sync.default_branch"))

	var settings jsonSettings
	decode(t, mustGfv(t, "config", "--list", "--format", "json"), &settings)
	assert.Equal(t, "Vault Configuration", settings.Title)
	value, ok := settings.get("ai.api_key")
	assert.True(t, ok)
	assert.Equal(t, "********1234", value)
	value, _ = settings.get("vault.name")
	assert.Equal(t, "default", value)
	value, _ = settings.get("remote.url")
	assert.Contains(t, value, "local only")

	mustGfv(t, "config", "--unset", "ai.api_key")
	decode(t, mustGfv(t, "config", "--list", "--format", "json"), &settings)
	value, _ = settings.get("ai.api_key")
	assert.Equal(t, "(not set)", value)

	res := gfv(t, "", "config", "sync.conflict_strategy", "sometimes")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "[INVALID_INPUT]")

	res = gfv(t, "", "config", "remote.url", "https://example.com/x.git")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "cannot be set")
	assert.Contains(t, res.stderr, "gfv vault set-remote")
}

func TestAlias_AddExpandRemove(t *testing.T) {
	testutil.NewTestEnvironment(t)
	mustGfv(t, "init")

	out := mustGfv(t, "alias", "add", "st", "status")
	assert.Contains(t, out, "Alias st -> status")

	out = mustGfv(t, "st")
	assert.Contains(t, out, "default:", "the alias runs status")

	mustGfv(t, "alias", "add", "wip", "--", "backup", "-m", "wip")
	res := gfv(t, "", "wip")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No files tracked")

	res = gfv(t, "n\n", "alias", "add", "st", "list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cancelled.")

	out = mustGfv(t, "alias", "add", "st", "list", "--yes")
	assert.Contains(t, out, "(was: status)")

	var settings jsonSettings
	decode(t, mustGfv(t, "alias", "list", "--format", "json"), &settings)
	value, ok := settings.get("st")
	assert.True(t, ok)
	assert.Equal(t, "list", value)
	value, _ = settings.get("wip")
	assert.Equal(t, "backup -m wip", value)

	res = gfv(t, "", "alias", "add", "status", "list")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "reserved command name")

	out = mustGfv(t, "alias", "remove", "st")
	assert.Contains(t, out, "Removed alias st (was: list)")
	res = gfv(t, "", "alias", "remove", "st")
	assert.Equal(t, 1, res.code)
}

func TestDebug_PathsAndClean(t *testing.T) {
	env := testutil.NewTestEnvironment(t)

	out := mustGfv(t, "debug", "clean")
	assert.Contains(t, out, "Nothing to clean")

	mustGfv(t, "init")

	var settings jsonSettings
	decode(t, mustGfv(t, "debug", "paths", "--format", "json"), &settings)
	value, ok := settings.get("config")
	require.True(t, ok)
	assert.Contains(t, value, filepath.Join(env.GfvHome, "config.toml"))
	assert.Contains(t, value, "(exists)")
	value, _ = settings.get("found")
	assert.Equal(t, "default", value)

	res := gfv(t, "no\n", "debug", "clean")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Cancelled.")
	assert.True(t, testutil.Exists(env.GfvHome))

	res = gfv(t, "yes\n", "debug", "clean")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Deleted")
	assert.False(t, testutil.Exists(env.GfvHome))
}

func TestHelpTopicsVersionAndCompletion(t *testing.T) {
	testutil.NewTestEnvironment(t)

	out := mustGfv(t, "help", "topics")
	assert.Contains(t, out, "sync")
	assert.Contains(t, out, "paths")

	out = mustGfv(t, "help", "sync")
	assert.NotEmpty(t, strings.TrimSpace(out))

	out = mustGfv(t, "help", "backup")
	assert.Contains(t, out, "gfv backup")

	out = mustGfv(t, "--version")
	assert.Contains(t, out, "gfv version dev")

	out = mustGfv(t, "completion", "bash")
	assert.Contains(t, out, "bash completion")
}
