package registry

import (
	"context"
	"os"
	"path/filepath"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/vault"
	"github.com/spf13/afero"
)

// Commit messages used when a vault is created.
const (
	InitCommitMessage   = "Initialize vault"
	RemoteCommitMessage = "Configure vault remote"
)

// CreateOptions describes a new vault. Path, RemoteURL and Branch are optional.
type CreateOptions struct {
	Name      string
	Path      string
	RemoteURL string
	Branch    string
}

// CreateResult reports what Create did.
type CreateResult struct {
	Name   string `json:"name" yaml:"name"`
	Dir    string `json:"dir" yaml:"dir"`
	Branch string `json:"branch" yaml:"branch"`
	Remote string `json:"remote,omitempty" yaml:"remote,omitempty"`
	// Cloned is true when an existing remote history was adopted.
	Cloned bool `json:"cloned" yaml:"cloned"`
	Files  int  `json:"files" yaml:"files"`
	// Active is true when the new vault became the active one.
	Active bool `json:"active" yaml:"active"`
	// PushError holds the failure of the initial push of a fresh vault to
	// its remote. The vault is registered regardless.
	PushError error `json:"-" yaml:"-"`
	// Warning is the message of PushError, for structured output.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Create initializes a vault and registers it.
//
// With a remote the vault is first cloned from it. A remote that lacks an
// explicit branch is cloned at its default branch, renamed to the explicit
// one. When cloning fails (empty remote, unreachable) a fresh repository is
// created instead and pushed. The branch is the explicit one, else the
// remote's current branch when cloned, else the configured default.
func (r *Registry) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	logger := logging.GetLogger("registry")

	if err := paths.ValidateVaultName(opts.Name); err != nil {
		return nil, err
	}
	if _, exists := r.cfg.Vaults[opts.Name]; exists {
		return nil, errors.Newf(errors.ErrAlreadyExists, "vault %q already exists", opts.Name).
			WithDetail("name", opts.Name)
	}
	if opts.Branch != "" && !gitstore.ValidBranchName(opts.Branch) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid branch name %q", opts.Branch)
	}

	dir := opts.Path
	if dir == "" {
		dir = r.paths.DefaultVaultDir(opts.Name)
	}
	dir, err := r.paths.NormalizePath(dir)
	if err != nil {
		return nil, err
	}
	if vault.IsInitialized(dir) {
		return nil, errors.Newf(errors.ErrAlreadyExists, "%s already holds a vault", dir).
			WithDetail("path", dir)
	}

	_, statErr := os.Stat(dir)
	createdDir := os.IsNotExist(statErr)
	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to create %s", dir)
	}

	result := &CreateResult{Name: opts.Name, Dir: dir, Remote: opts.RemoteURL}
	if err := r.populate(ctx, dir, opts, result); err != nil {
		if createdDir {
			_ = r.fs.RemoveAll(dir)
		} else {
			_ = r.fs.RemoveAll(paths.RepoPath(dir))
		}
		return nil, err
	}

	r.cfg.Vaults[opts.Name] = dir
	if !r.cfg.HasActive() {
		r.cfg.Current.Active = opts.Name
		result.Active = true
	}
	if err := r.save(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("vault", opts.Name).
		Str("dir", dir).
		Str("branch", result.Branch).
		Bool("cloned", result.Cloned).
		Msg("Vault created")
	return result, nil
}

func (r *Registry) populate(ctx context.Context, dir string, opts CreateOptions, result *CreateResult) error {
	repoPath := paths.RepoPath(dir)

	if opts.RemoteURL != "" {
		repo, err := r.clone(ctx, repoPath, opts)
		if err == nil {
			return r.adopt(dir, repo, opts.RemoteURL, result)
		}
		logger := logging.GetLogger("registry")
		event := logger.Info()
		if !gitstore.IsEmptyRemote(err) {
			event = logger.Warn()
		}
		event.Err(err).Str("url", opts.RemoteURL).Msg("Clone failed, creating a fresh vault")
	}

	return r.initFresh(ctx, dir, opts, result)
}

// clone clones opts.Branch, falling back to the remote's default branch
// renamed to opts.Branch when the remote has history but not that branch.
func (r *Registry) clone(ctx context.Context, repoPath string, opts CreateOptions) (*gitstore.Repository, error) {
	repo, err := gitstore.Clone(ctx, opts.RemoteURL, repoPath, opts.Branch, r.gitOpts...)
	if err == nil || opts.Branch == "" || gitstore.IsEmptyRemote(err) || errors.IsErrorCode(err, errors.ErrAuthFailed) {
		return repo, err
	}

	repo, defaultErr := gitstore.Clone(ctx, opts.RemoteURL, repoPath, "", r.gitOpts...)
	if defaultErr != nil {
		return nil, err
	}
	if err := repo.SetBranch(opts.Branch); err != nil {
		_ = r.fs.RemoveAll(repoPath)
		return nil, err
	}
	logger := logging.GetLogger("registry")
	logger.Info().Str("url", opts.RemoteURL).Str("branch", opts.Branch).Msg("Branch not on remote, cloned the default branch")
	return repo, nil
}

// adopt records the remote in a cloned repository's manifest.
func (r *Registry) adopt(dir string, repo *gitstore.Repository, url string, result *CreateResult) error {
	branch, err := repo.CurrentBranch()
	if err != nil {
		return err
	}
	m, err := r.store.Load(dir)
	if err != nil {
		return err
	}
	m.Remote = &manifest.RemoteConfig{URL: url, Branch: branch}
	if err := r.store.Save(dir, m); err != nil {
		return err
	}

	changed, err := repo.HasChanges()
	if err != nil {
		return err
	}
	if changed {
		if err := repo.AddAll(); err != nil {
			return err
		}
		if _, err := repo.Commit(RemoteCommitMessage); err != nil {
			return err
		}
	}

	result.Cloned = true
	result.Branch = branch
	result.Files = m.Len()
	return nil
}

func (r *Registry) initFresh(ctx context.Context, dir string, opts CreateOptions, result *CreateResult) error {
	repoPath := paths.RepoPath(dir)
	repo, err := gitstore.Init(repoPath, r.gitOpts...)
	if err != nil {
		return err
	}

	branch := opts.Branch
	if branch == "" {
		branch = r.cfg.Sync.DefaultBranch
	}
	if err := repo.SetBranch(branch); err != nil {
		return err
	}

	gitignore := filepath.Join(repoPath, paths.GitignoreName)
	if err := afero.WriteFile(r.fs, gitignore, []byte(vault.GitignoreContent), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to write %s", gitignore)
	}

	m := manifest.New()
	if opts.RemoteURL != "" {
		m.Remote = &manifest.RemoteConfig{URL: opts.RemoteURL, Branch: branch}
	}
	if err := r.store.Save(dir, m); err != nil {
		return err
	}
	if err := repo.AddAll(); err != nil {
		return err
	}
	if _, err := repo.Commit(InitCommitMessage); err != nil {
		return err
	}
	result.Branch = branch

	if opts.RemoteURL == "" {
		return nil
	}
	if err := repo.SetRemote(gitstore.DefaultRemote, opts.RemoteURL); err != nil {
		return err
	}
	if err := repo.Push(ctx, gitstore.DefaultRemote, branch); err != nil {
		logger := logging.GetLogger("registry")
		logger.Warn().Err(err).Str("url", opts.RemoteURL).Msg("Initial push failed")
		result.PushError = err
		result.Warning = err.Error()
	}
	return nil
}
