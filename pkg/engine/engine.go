// Package engine implements the operations on a loaded vault: link and
// unlink of tracked paths, backup into the repository, restore back to the
// source locations and status reporting.
//
// An Engine borrows a Vault and its open Repository for the duration of
// one command. Nothing is cached between commands.
package engine

import (
	"runtime"
	"time"

	"github.com/billxc/git-file-vault/pkg/commitmsg"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/billxc/git-file-vault/pkg/vault"
	"github.com/spf13/afero"
)

// Confirmer asks the user to approve a risky step. details are shown
// before the question, one per line.
type Confirmer interface {
	Confirm(question string, details []string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string, details []string) (bool, error)

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(question string, details []string) (bool, error) {
	return f(question, details)
}

// Decline is the Confirmer used when none is configured.
var Decline = ConfirmFunc(func(string, []string) (bool, error) { return false, nil })

// Engine runs sync operations against one vault.
type Engine struct {
	vault    *vault.Vault
	repo     *gitstore.Repository
	paths    paths.Paths
	fs       afero.Fs
	confirm  Confirmer
	provider commitmsg.Provider
	goos     string
	now      func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithConfirmer sets how confirmations are asked.
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirm = c }
}

// WithCommitMessageProvider sets the generator used when backup is given
// no message.
func WithCommitMessageProvider(p commitmsg.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithGOOS overrides the operating system used for platform filtering.
func WithGOOS(goos string) Option {
	return func(e *Engine) { e.goos = goos }
}

// WithClock overrides the time source for addedAt and lastSync stamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New returns an Engine for v, whose repository repo must already be open.
func New(v *vault.Vault, repo *gitstore.Repository, p paths.Paths, opts ...Option) *Engine {
	e := &Engine{
		vault:   v,
		repo:    repo,
		paths:   p,
		fs:      afero.NewOsFs(),
		confirm: Decline,
		goos:    runtime.GOOS,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vault returns the vault the engine operates on.
func (e *Engine) Vault() *vault.Vault { return e.vault }

// Platform returns the running platform in manifest terms.
func (e *Engine) Platform() manifest.Platform {
	return PlatformFor(e.goos)
}

// PlatformFor maps a GOOS value to a manifest platform.
func PlatformFor(goos string) manifest.Platform {
	if goos == "darwin" {
		return manifest.PlatformMacOS
	}
	return manifest.Platform(goos)
}

func (e *Engine) platformAllows(entry manifest.FileEntry) bool {
	return entry.Platform == "" || entry.Platform == e.Platform()
}

// syncBranch is the branch used for remote operations: the checked out
// branch, falling back to the one recorded for the remote.
func (e *Engine) syncBranch() string {
	if branch, err := e.repo.CurrentBranch(); err == nil {
		return branch
	}
	return e.vault.Manifest.Remote.Branch
}

// Skip records an entry that an operation passed over.
type Skip struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

const (
	ReasonSourceMissing   = "source not found"
	ReasonStoredMissing   = "not in vault"
	ReasonPlatformExclude = "platform mismatch"
)
