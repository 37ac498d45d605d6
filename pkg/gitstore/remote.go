package gitstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// PullState is a state of the fast-forward-only pull.
type PullState int

const (
	PullStart PullState = iota
	PullFetched
	PullUpToDate
	PullFastForwarded
	PullConflictFailed
	PullNetworkFailed
)

func (s PullState) String() string {
	switch s {
	case PullStart:
		return "start"
	case PullFetched:
		return "fetched"
	case PullUpToDate:
		return "up-to-date"
	case PullFastForwarded:
		return "fast-forwarded"
	case PullConflictFailed:
		return "conflict"
	case PullNetworkFailed:
		return "network-failed"
	default:
		return "unknown"
	}
}

// Clone clones url into path and checks out branch, or the remote's default
// branch when branch is empty. On failure the partially created path is
// removed so callers can fall back to Init; IsEmptyRemote tells an empty
// remote apart from other failures.
func Clone(ctx context.Context, url, path, branch string, opts ...Option) (*Repository, error) {
	r := newRepository(nil, path, opts)
	logger := logging.GetLogger("gitstore")

	err := r.auth.run(url, func(auth transport.AuthMethod) error {
		cloneOpts := &git.CloneOptions{
			URL:        url,
			RemoteName: DefaultRemote,
			Auth:       auth,
		}
		if branch != "" {
			cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(branch)
			cloneOpts.SingleBranch = true
		}
		repo, err := git.PlainCloneContext(ctx, path, false, cloneOpts)
		if err != nil {
			_ = os.RemoveAll(path)
			return err
		}
		r.repo = repo
		return nil
	})
	if err != nil {
		logger.Debug().Err(err).Str("url", url).Msg("Clone failed")
		if errors.IsErrorCode(err, errors.ErrAuthFailed) {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.ErrBackend, "failed to clone %s", url)
	}

	logger.Info().Str("url", url).Str("path", path).Msg("Cloned repository")
	return r, nil
}

// IsEmptyRemote reports whether err came from cloning or listing a remote
// without any commits.
func IsEmptyRemote(err error) bool {
	return errors.Is(err, transport.ErrEmptyRemoteRepository)
}

// Fetch updates refs/remotes/<remote>/<branch> without touching the local branch.
func (r *Repository) Fetch(ctx context.Context, remote, branch string) error {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return err
	}
	refSpec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remote, branch))

	err = r.auth.run(url, func(auth transport.AuthMethod) error {
		err := r.repo.FetchContext(ctx, &git.FetchOptions{
			RemoteName: remote,
			RefSpecs:   []config.RefSpec{refSpec},
			Auth:       auth,
		})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return err
	})
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrAuthFailed) {
			return err
		}
		return errors.Wrapf(err, errors.ErrNetwork, "failed to fetch %s/%s", remote, branch)
	}
	return nil
}

// Pull fetches remote/branch and integrates it when that needs no merge.
//
//	Start -> Fetched            fetch succeeded
//	Start -> NetworkFailed      fetch failed
//	Fetched -> UpToDate         local already contains the fetched commit
//	Fetched -> FastForwarded    local is a strict ancestor (or unborn)
//	Fetched -> ConflictFailed   histories diverged; local head is unchanged
//
// A fast-forward moves the branch and force-checks it out, discarding any
// uncommitted working tree state.
func (r *Repository) Pull(ctx context.Context, remote, branch string) (PullState, error) {
	logger := logging.GetLogger("gitstore")

	if err := r.Fetch(ctx, remote, branch); err != nil {
		return PullNetworkFailed, err
	}

	fetched, err := r.repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if err != nil {
		return PullNetworkFailed, errors.Wrapf(err, errors.ErrNetwork, "remote branch %s/%s not found after fetch", remote, branch)
	}

	state, err := r.analyze(fetched.Hash())
	if err != nil {
		return state, err
	}

	switch state {
	case PullUpToDate:
		logger.Debug().Str("branch", branch).Msg("Already up to date")
	case PullFastForwarded:
		if err := r.fastForward(branch, fetched.Hash()); err != nil {
			return PullFetched, err
		}
		logger.Info().Str("branch", branch).Str("hash", fetched.Hash().String()).Msg("Fast-forwarded")
	case PullConflictFailed:
		return state, errors.Newf(errors.ErrConflict,
			"local and remote histories of %s have diverged", branch).
			WithDetail("repo", r.path).
			WithRemediation(fmt.Sprintf("resolve the divergence manually in %s", r.path))
	}
	return state, nil
}

// analyze is the merge analysis run after a successful fetch.
func (r *Repository) analyze(fetched plumbing.Hash) (PullState, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return PullFastForwarded, nil
		}
		return PullFetched, errors.Wrap(err, errors.ErrBackend, "failed to resolve HEAD")
	}
	if head.Hash() == fetched {
		return PullUpToDate, nil
	}

	local, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return PullFetched, errors.Wrap(err, errors.ErrBackend, "failed to load local head")
	}
	remote, err := r.repo.CommitObject(fetched)
	if err != nil {
		return PullFetched, errors.Wrap(err, errors.ErrBackend, "failed to load fetched commit")
	}

	if contained, err := remote.IsAncestor(local); err != nil {
		return PullFetched, errors.Wrap(err, errors.ErrBackend, "merge analysis failed")
	} else if contained {
		return PullUpToDate, nil
	}
	if behind, err := local.IsAncestor(remote); err != nil {
		return PullFetched, errors.Wrap(err, errors.ErrBackend, "merge analysis failed")
	} else if behind {
		return PullFastForwarded, nil
	}
	return PullConflictFailed, nil
}

func (r *Repository) fastForward(branch string, target plumbing.Hash) error {
	ref := plumbing.NewBranchReferenceName(branch)
	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(ref, target)); err != nil {
		return errors.Wrapf(err, errors.ErrBackend, "failed to move %s", branch)
	}
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: ref, Force: true}); err != nil {
		return errors.Wrapf(err, errors.ErrBackend, "failed to check out %s", branch)
	}
	return nil
}

// Push sends refs/heads/<branch> to the same name on remote. A rejected
// update is reported, never retried or forced.
func (r *Repository) Push(ctx context.Context, remote, branch string) error {
	url, err := r.RemoteURL(remote)
	if err != nil {
		return err
	}
	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))

	err = r.auth.run(url, func(auth transport.AuthMethod) error {
		err := r.repo.PushContext(ctx, &git.PushOptions{
			RemoteName: remote,
			RefSpecs:   []config.RefSpec{refSpec},
			Auth:       auth,
		})
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return nil
		}
		return err
	})
	switch {
	case err == nil:
		logger := logging.GetLogger("gitstore")
		logger.Info().Str("remote", remote).Str("branch", branch).Msg("Pushed")
		return nil
	case errors.IsErrorCode(err, errors.ErrAuthFailed):
		return err
	case isRejected(err):
		return errors.Newf(errors.ErrConflict, "push to %s/%s was rejected", remote, branch).
			WithCause(err).
			WithDetail("repo", r.path).
			WithRemediation(fmt.Sprintf("the remote has commits you do not have; integrate them manually in %s", r.path))
	default:
		return errors.Wrapf(err, errors.ErrNetwork, "failed to push %s/%s", remote, branch)
	}
}

func isRejected(err error) bool {
	return strings.Contains(err.Error(), "non-fast-forward") ||
		strings.Contains(err.Error(), "rejected")
}

// RemoteBranchExists asks the remote whether branch exists. An empty remote
// has no branches.
func (r *Repository) RemoteBranchExists(ctx context.Context, remote, branch string) (bool, error) {
	rem, err := r.repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return false, errors.Newf(errors.ErrNoRemote, "remote %s is not configured", remote)
		}
		return false, errors.Wrapf(err, errors.ErrBackend, "failed to read remote %s", remote)
	}
	url, err := r.RemoteURL(remote)
	if err != nil {
		return false, err
	}

	var refs []*plumbing.Reference
	err = r.auth.run(url, func(auth transport.AuthMethod) error {
		var err error
		refs, err = rem.ListContext(ctx, &git.ListOptions{Auth: auth})
		if IsEmptyRemote(err) {
			refs = nil
			return nil
		}
		return err
	})
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrAuthFailed) {
			return false, err
		}
		return false, errors.Wrapf(err, errors.ErrNetwork, "failed to list %s", remote)
	}

	want := plumbing.NewBranchReferenceName(branch)
	for _, ref := range refs {
		if ref.Name() == want {
			return true, nil
		}
	}
	return false, nil
}
