// Package registry maps vault names to directories and tracks the active
// vault. All state lives in the *config.Config handed to New; every mutation
// is written back to the config file.
package registry

import (
	"sort"

	"github.com/billxc/git-file-vault/pkg/config"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/vault"
	"github.com/spf13/afero"
)

// Registry operates on the vaults registered in a configuration.
type Registry struct {
	cfg     *config.Config
	cfgPath string
	paths   paths.Paths
	fs      afero.Fs
	store   *manifest.Store
	gitOpts []gitstore.Option
}

// Option customizes a Registry.
type Option func(*Registry)

// WithFs sets the filesystem used for config and manifest files.
func WithFs(fs afero.Fs) Option {
	return func(r *Registry) { r.fs = fs }
}

// WithGitOptions passes options to every repository the registry opens.
func WithGitOptions(opts ...gitstore.Option) Option {
	return func(r *Registry) { r.gitOpts = append(r.gitOpts, opts...) }
}

// WithConfigPath overrides where the configuration is saved.
func WithConfigPath(path string) Option {
	return func(r *Registry) { r.cfgPath = path }
}

// New returns a Registry over cfg.
func New(cfg *config.Config, p paths.Paths, opts ...Option) *Registry {
	r := &Registry{
		cfg:     cfg,
		cfgPath: p.ConfigFile(),
		paths:   p,
		fs:      afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.store = manifest.NewStore(r.fs)
	return r
}

// Config returns the configuration the registry mutates.
func (r *Registry) Config() *config.Config { return r.cfg }

// GitOptions returns the options used when opening vault repositories.
func (r *Registry) GitOptions() []gitstore.Option { return r.gitOpts }

// Entry describes one registered vault.
type Entry struct {
	Name        string                 `json:"name" yaml:"name"`
	Dir         string                 `json:"dir" yaml:"dir"`
	Active      bool                   `json:"active" yaml:"active"`
	Initialized bool                   `json:"initialized" yaml:"initialized"`
	Branch      string                 `json:"branch,omitempty" yaml:"branch,omitempty"`
	Remote      *manifest.RemoteConfig `json:"remote,omitempty" yaml:"remote,omitempty"`
	Files       int                    `json:"files" yaml:"files"`
}

// List returns every registered vault, sorted by name.
func (r *Registry) List() []Entry {
	names := make([]string, 0, len(r.cfg.Vaults))
	for name := range r.cfg.Vaults {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		dir := r.cfg.Vaults[name]
		entries = append(entries, Entry{
			Name:        name,
			Dir:         dir,
			Active:      name == r.cfg.Current.Active,
			Initialized: vault.IsInitialized(dir),
		})
	}
	return entries
}

// Resolve returns the name and directory of the named vault, or of the
// active vault when name is empty.
func (r *Registry) Resolve(name string) (string, string, error) {
	if name == "" {
		name = r.cfg.Current.Active
	}
	dir, ok := r.cfg.VaultDir(name)
	if !ok {
		if len(r.cfg.Vaults) == 0 {
			return "", "", errors.New(errors.ErrNotInitialized, "no vault has been created yet").
				WithRemediation("run 'gfv init' to create one")
		}
		return "", "", errors.Newf(errors.ErrVaultNotFound, "vault %q does not exist", name).
			WithDetail("name", name).
			WithRemediation("run 'gfv vault list' to see registered vaults")
	}
	return name, dir, nil
}

// Load resolves name and loads the vault.
func (r *Registry) Load(name string) (*vault.Vault, error) {
	name, dir, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return vault.Load(r.store, name, dir)
}

// Info describes the named (or active) vault including its branch, remote
// and file count when it is initialized.
func (r *Registry) Info(name string) (*Entry, error) {
	name, dir, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		Name:        name,
		Dir:         dir,
		Active:      name == r.cfg.Current.Active,
		Initialized: vault.IsInitialized(dir),
	}
	if !entry.Initialized {
		return entry, nil
	}

	v, err := vault.Load(r.store, name, dir)
	if err != nil {
		return nil, err
	}
	repo, err := v.Open(r.gitOpts...)
	if err != nil {
		return nil, err
	}
	if entry.Branch, err = v.Branch(repo); err != nil {
		return nil, err
	}
	entry.Remote = v.Manifest.Remote
	entry.Files = v.Manifest.Len()
	return entry, nil
}

// Switch makes name the active vault.
func (r *Registry) Switch(name string) error {
	if _, _, err := r.Resolve(name); err != nil {
		return err
	}
	r.cfg.Current.Active = name
	return r.save()
}

// Remove unregisters name and optionally deletes its directory. The active
// vault cannot be removed.
func (r *Registry) Remove(name string, deleteDir bool) error {
	name, dir, err := r.Resolve(name)
	if err != nil {
		return err
	}
	if name == r.cfg.Current.Active {
		return errors.Newf(errors.ErrActiveVault, "cannot remove the active vault %q", name).
			WithRemediation("switch to another vault first with 'gfv vault switch <name>'")
	}

	if deleteDir {
		if err := r.fs.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, errors.ErrIO, "failed to delete %s", dir)
		}
	}
	delete(r.cfg.Vaults, name)
	logger := logging.GetLogger("registry")
	logger.Info().Str("vault", name).Bool("deleted", deleteDir).Msg("Vault removed")
	return r.save()
}

// GetRemote returns the remote configured for the vault.
func (r *Registry) GetRemote(name string) (*manifest.RemoteConfig, error) {
	v, err := r.Load(name)
	if err != nil {
		return nil, err
	}
	if !v.Manifest.HasRemote() {
		return nil, errors.Newf(errors.ErrNoRemote, "vault %q has no remote", v.Name)
	}
	return v.Manifest.Remote, nil
}

// SetRemote points the vault at url. An empty branch keeps the branch
// already configured, or the repository's current branch.
func (r *Registry) SetRemote(name, url, branch string) (*manifest.RemoteConfig, error) {
	if url == "" {
		return nil, errors.New(errors.ErrInvalidInput, "remote url cannot be empty")
	}
	v, err := r.Load(name)
	if err != nil {
		return nil, err
	}
	repo, err := v.Open(r.gitOpts...)
	if err != nil {
		return nil, err
	}
	if branch == "" {
		if branch, err = v.Branch(repo); err != nil {
			return nil, err
		}
	} else if !gitstore.ValidBranchName(branch) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid branch name %q", branch)
	}

	if err := repo.SetRemote(gitstore.DefaultRemote, url); err != nil {
		return nil, err
	}
	v.Manifest.Remote = &manifest.RemoteConfig{URL: url, Branch: branch}
	if err := v.SaveManifest(); err != nil {
		return nil, err
	}
	logger := logging.GetLogger("registry")
	logger.Info().Str("vault", v.Name).Str("url", url).Str("branch", branch).Msg("Remote set")
	return v.Manifest.Remote, nil
}

// ClearRemote switches the vault to local-only mode.
func (r *Registry) ClearRemote(name string) error {
	v, err := r.Load(name)
	if err != nil {
		return err
	}
	if !v.Manifest.HasRemote() {
		return errors.Newf(errors.ErrNoRemote, "vault %q has no remote", v.Name)
	}
	repo, err := v.Open(r.gitOpts...)
	if err != nil {
		return err
	}
	if err := repo.RemoveRemote(gitstore.DefaultRemote); err != nil {
		return err
	}
	v.Manifest.Remote = nil
	return v.SaveManifest()
}

// SetBranch renames the vault's branch and records it for the remote.
func (r *Registry) SetBranch(name, branch string) error {
	v, err := r.Load(name)
	if err != nil {
		return err
	}
	repo, err := v.Open(r.gitOpts...)
	if err != nil {
		return err
	}
	if err := repo.SetBranch(branch); err != nil {
		return err
	}
	if v.Manifest.HasRemote() {
		v.Manifest.Remote.Branch = branch
		return v.SaveManifest()
	}
	return nil
}

// Dir returns the directory a vault called name would use when no explicit
// path is given.
func (r *Registry) Dir(name string) string {
	return r.paths.DefaultVaultDir(name)
}

func (r *Registry) save() error {
	return config.Save(r.fs, r.cfgPath, r.cfg)
}
