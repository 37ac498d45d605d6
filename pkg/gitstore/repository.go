package gitstore

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/paths"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit identity used for every commit gfv makes.
const (
	AuthorName  = "gfv"
	AuthorEmail = "gfv@local"
)

// DefaultRemote is the only remote name gfv configures.
const DefaultRemote = "origin"

// Repository is an open vault repository.
type Repository struct {
	repo *git.Repository
	path string
	auth AuthPolicy
}

// Option customizes a Repository.
type Option func(*Repository)

// WithAuthPolicy sets the credential sources used for network operations.
func WithAuthPolicy(policy AuthPolicy) Option {
	return func(r *Repository) {
		r.auth = policy
	}
}

func newRepository(repo *git.Repository, path string, opts []Option) *Repository {
	r := &Repository{repo: repo, path: path}
	for _, opt := range opts {
		opt(r)
	}
	if r.auth == nil {
		home, err := paths.GetHomeDirectory()
		if err == nil {
			r.auth = DefaultAuthPolicy(home)
		}
	}
	return r
}

// Init creates a new repository at path. It fails if one already exists.
func Init(path string, opts ...Option) (*Repository, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to create %s", path)
	}
	repo, err := git.PlainInit(path, false)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryAlreadyExists) {
			return nil, errors.Newf(errors.ErrAlreadyExists, "repository already exists at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrBackend, "failed to initialize repository at %s", path)
	}
	logger := logging.GetLogger("gitstore")
	logger.Debug().Str("path", path).Msg("Repository initialized")
	return newRepository(repo, path, opts), nil
}

// Open opens the repository at path.
func Open(path string, opts ...Option) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.Newf(errors.ErrNotInitialized, "no repository at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrBackend, "failed to open repository at %s", path)
	}
	return newRepository(repo, path, opts), nil
}

// Exists reports whether path holds a repository.
func Exists(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Path returns the working tree root.
func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) worktree() (*git.Worktree, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrBackend, "failed to open worktree")
	}
	return wt, nil
}

// HasChanges reports any difference between the working tree, the index and
// the last commit, untracked files included.
func (r *Repository) HasChanges() (bool, error) {
	changed, err := r.ChangedPaths()
	if err != nil {
		return false, err
	}
	return len(changed) > 0, nil
}

// ChangedPaths lists every path with a staged, unstaged or untracked change,
// sorted, slash separated.
func (r *Repository) ChangedPaths() ([]string, error) {
	wt, err := r.worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrBackend, "failed to read repository status")
	}

	var out []string
	for path, s := range status {
		if s.Staging != git.Unmodified || s.Worktree != git.Unmodified {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out, nil
}

// AddAll stages the whole working tree, deletions included.
func (r *Repository) AddAll() error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return errors.Wrap(err, errors.ErrBackend, "failed to stage changes")
	}
	return nil
}

// Commit records the index with the gfv identity and returns the new hash.
func (r *Repository) Commit(message string) (plumbing.Hash, error) {
	wt, err := r.worktree()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	sig := &object.Signature{Name: AuthorName, Email: AuthorEmail, When: time.Now()}
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return plumbing.ZeroHash, errors.Wrap(err, errors.ErrBackend, "failed to commit")
	}
	logger := logging.GetLogger("gitstore")
	logger.Debug().Str("hash", hash.String()).Str("message", message).Msg("Committed")
	return hash, nil
}

// HeadCommit returns the commit HEAD points to.
func (r *Repository) HeadCommit() (*object.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrBackend, "failed to resolve HEAD")
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackend, "failed to load commit %s", head.Hash())
	}
	return commit, nil
}

// CurrentBranch returns the short name of the branch HEAD refers to, even
// when that branch has no commit yet.
func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrBackend, "failed to read HEAD")
	}
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", errors.New(errors.ErrBackend, "HEAD is not a named branch")
	}
	return head.Target().Short(), nil
}

// SetBranch renames the current branch to name, keeping its commit.
func (r *Repository) SetBranch(name string) error {
	if !ValidBranchName(name) {
		return errors.Newf(errors.ErrInvalidInput, "invalid branch name %q", name)
	}
	target := plumbing.NewBranchReferenceName(name)

	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return errors.Wrap(err, errors.ErrBackend, "failed to read HEAD")
	}

	switch head.Type() {
	case plumbing.SymbolicReference:
		current := head.Target()
		if current == target {
			return nil
		}
		ref, err := r.repo.Reference(current, false)
		switch {
		case err == nil:
			if err := r.repo.Storer.SetReference(plumbing.NewHashReference(target, ref.Hash())); err != nil {
				return errors.Wrapf(err, errors.ErrBackend, "failed to create branch %s", name)
			}
			if err := r.repo.Storer.RemoveReference(current); err != nil {
				return errors.Wrapf(err, errors.ErrBackend, "failed to remove branch %s", current.Short())
			}
		case !errors.Is(err, plumbing.ErrReferenceNotFound):
			return errors.Wrapf(err, errors.ErrBackend, "failed to read %s", current)
		}
	default:
		// detached: branch off the current commit
		if err := r.repo.Storer.SetReference(plumbing.NewHashReference(target, head.Hash())); err != nil {
			return errors.Wrapf(err, errors.ErrBackend, "failed to create branch %s", name)
		}
	}

	if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, target)); err != nil {
		return errors.Wrap(err, errors.ErrBackend, "failed to update HEAD")
	}
	logger := logging.GetLogger("gitstore")
	logger.Debug().Str("branch", name).Msg("Branch set")
	return nil
}

// ValidBranchName applies the subset of git's ref-name rules that matter
// for user supplied branch names.
func ValidBranchName(name string) bool {
	if name == "" || name == "HEAD" || strings.HasPrefix(name, "-") || strings.HasPrefix(name, "/") ||
		strings.HasSuffix(name, "/") || strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, ".") {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, "//") || strings.Contains(name, "@{") {
		return false
	}
	return !strings.ContainsAny(name, " ~^:?*[\\\x7f")
}

// SetRemote points the named remote at url, creating it if needed.
func (r *Repository) SetRemote(name, url string) error {
	if err := r.repo.DeleteRemote(name); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return errors.Wrapf(err, errors.ErrBackend, "failed to replace remote %s", name)
	}
	if _, err := r.repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}}); err != nil {
		return errors.Wrapf(err, errors.ErrBackend, "failed to add remote %s", name)
	}
	return nil
}

// RemoveRemote deletes the named remote. A missing remote is not an error.
func (r *Repository) RemoveRemote(name string) error {
	if err := r.repo.DeleteRemote(name); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return errors.Wrapf(err, errors.ErrBackend, "failed to remove remote %s", name)
	}
	return nil
}

// RemoteURL returns the first url of the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", errors.Newf(errors.ErrNoRemote, "remote %s is not configured", name)
		}
		return "", errors.Wrapf(err, errors.ErrBackend, "failed to read remote %s", name)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.Newf(errors.ErrNoRemote, "remote %s has no url", name)
	}
	return urls[0], nil
}
