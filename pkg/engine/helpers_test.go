package engine_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/billxc/git-file-vault/pkg/engine"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/testutil"
	"github.com/billxc/git-file-vault/pkg/vault"
	"github.com/stretchr/testify/require"
)

var noAuth = gitstore.WithAuthPolicy(gitstore.AuthPolicy{})

// fixture is an initialized vault in a temporary home with a scripted
// confirmation answer.
type fixture struct {
	t       *testing.T
	env     *testutil.TestEnvironment
	vault   *vault.Vault
	repo    *gitstore.Repository
	engine  *engine.Engine
	remote  string
	answer  bool
	asked   [][]string
	options []engine.Option
}

func newFixture(t *testing.T, opts ...engine.Option) *fixture {
	t.Helper()
	env := testutil.NewTestEnvironment(t)
	dir := filepath.Join(env.GfvHome, "default")

	repo, err := gitstore.Init(paths.RepoPath(dir), noAuth)
	require.NoError(t, err)
	require.NoError(t, repo.SetBranch("main"))

	store := manifest.NewStore(nil)
	require.NoError(t, store.Save(dir, manifest.New()))
	require.NoError(t, repo.AddAll())
	_, err = repo.Commit("Initialize vault")
	require.NoError(t, err)

	v, err := vault.Load(store, "default", dir)
	require.NoError(t, err)

	f := &fixture{t: t, env: env, vault: v, repo: repo, options: opts}
	f.rebuild()
	return f
}

func (f *fixture) rebuild(extra ...engine.Option) {
	opts := []engine.Option{
		engine.WithConfirmer(engine.ConfirmFunc(func(_ string, details []string) (bool, error) {
			f.asked = append(f.asked, details)
			return f.answer, nil
		})),
		engine.WithGOOS("linux"),
	}
	opts = append(opts, f.options...)
	opts = append(opts, extra...)
	f.engine = engine.New(f.vault, f.repo, f.env.Paths, opts...)
}

// withRemote attaches an empty bare remote on branch main.
func (f *fixture) withRemote() string {
	f.t.Helper()
	f.remote = testutil.NewBareRemote(f.t, "main")
	require.NoError(f.t, f.repo.SetRemote(gitstore.DefaultRemote, f.remote))
	f.vault.Manifest.Remote = &manifest.RemoteConfig{URL: f.remote, Branch: "main"}
	require.NoError(f.t, f.vault.SaveManifest())
	return f.remote
}

func (f *fixture) link(source, vaultPath string) *engine.LinkResult {
	f.t.Helper()
	res, err := f.engine.Link(engine.LinkOptions{Source: source, VaultPath: vaultPath})
	require.NoError(f.t, err)
	return res
}

func (f *fixture) backup() *engine.BackupResult {
	f.t.Helper()
	res, err := f.engine.Backup(context.Background(), engine.BackupOptions{})
	require.NoError(f.t, err)
	return res
}

func (f *fixture) stored(vaultPath string) string {
	return f.vault.StoredPath(vaultPath)
}

func (f *fixture) head() string {
	f.t.Helper()
	c, err := f.repo.HeadCommit()
	require.NoError(f.t, err)
	return c.Hash.String()
}

type stubProvider struct{ reply string }

func (s stubProvider) Generate(context.Context, string) (string, error) { return s.reply, nil }
