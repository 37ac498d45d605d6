package engine

import (
	"context"
	"strings"

	"github.com/billxc/git-file-vault/pkg/commitmsg"
	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/filesystem"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/logging"
)

// BackupOptions configures a backup.
type BackupOptions struct {
	// Message is the commit message; generated or defaulted when empty.
	Message string
}

// BackupResult reports a backup.
type BackupResult struct {
	Empty         bool             `json:"empty" yaml:"empty"`
	Copied        []string         `json:"copied" yaml:"copied"`
	Skipped       []Skip           `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Committed     bool             `json:"committed" yaml:"committed"`
	Message       string           `json:"message,omitempty" yaml:"message,omitempty"`
	MessageSource commitmsg.Source `json:"messageSource,omitempty" yaml:"messageSource,omitempty"`
	Commit        string           `json:"commit,omitempty" yaml:"commit,omitempty"`
	Remote        bool             `json:"remote" yaml:"remote"`
	Branch        string           `json:"branch,omitempty" yaml:"branch,omitempty"`
	FirstPush     bool             `json:"firstPush,omitempty" yaml:"firstPush,omitempty"`
	Pull          string           `json:"pull,omitempty" yaml:"pull,omitempty"`
	Pushed        bool             `json:"pushed" yaml:"pushed"`
}

// Backup copies every tracked source into the repository, commits the
// result and, when a remote is configured, integrates and pushes it.
//
// Missing sources are skipped. A copy failure aborts immediately, leaving
// whatever was copied uncommitted. A pull or push failure is returned after
// the local commit was made; that commit is kept.
func (e *Engine) Backup(ctx context.Context, opts BackupOptions) (*BackupResult, error) {
	logger := logging.GetLogger("engine")
	done := logging.LogOperationStart(logger, "backup")
	defer done()

	result := &BackupResult{Copied: []string{}}
	m := e.vault.Manifest
	if m.Len() == 0 {
		result.Empty = true
		return result, nil
	}

	for _, vaultPath := range m.Paths() {
		entry, _ := m.GetFile(vaultPath)
		if !filesystem.Exists(e.fs, entry.SourcePath) {
			logger.Warn().Str("vaultPath", vaultPath).Str("source", entry.SourcePath).Msg("Skipping, source not found")
			result.Skipped = append(result.Skipped, Skip{Path: vaultPath, Reason: ReasonSourceMissing})
			continue
		}
		stored := e.vault.StoredPath(vaultPath)
		if err := filesystem.Copy(e.fs, entry.SourcePath, stored); err != nil {
			return result, errors.Wrapf(err, errors.ErrIO, "failed to copy %s to %s", entry.SourcePath, stored)
		}
		result.Copied = append(result.Copied, vaultPath)
	}

	if err := e.stampChanged(); err != nil {
		return result, err
	}

	changed, err := e.repo.HasChanges()
	if err != nil {
		return result, err
	}
	if changed {
		result.Message, result.MessageSource = commitmsg.Resolve(ctx, opts.Message, e.provider, e.repo.Diff)
		if err := e.repo.AddAll(); err != nil {
			return result, err
		}
		hash, err := e.repo.Commit(result.Message)
		if err != nil {
			return result, err
		}
		result.Committed = true
		result.Commit = hash.String()
	}

	if m.HasRemote() {
		if err := e.syncRemote(ctx, result); err != nil {
			return result, err
		}
	}

	logger.Info().
		Str("vault", e.vault.Name).
		Int("copied", len(result.Copied)).
		Int("skipped", len(result.Skipped)).
		Bool("committed", result.Committed).
		Bool("pushed", result.Pushed).
		Msg("Backup finished")
	return result, nil
}

// stampChanged sets lastSync on every entry whose stored copy differs from
// the last commit, and saves the manifest when any was stamped.
func (e *Engine) stampChanged() error {
	changed, err := e.repo.ChangedPaths()
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return nil
	}

	now := e.now().UTC()
	stamped := 0
	for _, vaultPath := range e.vault.Manifest.Paths() {
		prefix := vaultPath + "/"
		for _, c := range changed {
			if c == vaultPath || strings.HasPrefix(c, prefix) {
				e.vault.Manifest.Touch(vaultPath, now)
				stamped++
				break
			}
		}
	}
	if stamped == 0 {
		return nil
	}
	return e.vault.SaveManifest()
}

func (e *Engine) syncRemote(ctx context.Context, result *BackupResult) error {
	logger := logging.GetLogger("engine")
	remote := gitstore.DefaultRemote
	branch := e.syncBranch()
	result.Remote = true
	result.Branch = branch

	if err := e.repo.Fetch(ctx, remote, branch); err != nil {
		logger.Debug().Err(err).Msg("Fetch before push failed, continuing")
	}

	exists, err := e.repo.RemoteBranchExists(ctx, remote, branch)
	if err != nil {
		return e.unsynced(err, "pull")
	}

	if exists {
		state, err := e.repo.Pull(ctx, remote, branch)
		result.Pull = state.String()
		if err != nil {
			return e.unsynced(err, "pull")
		}
		if state == gitstore.PullFastForwarded {
			if err := e.vault.Reload(); err != nil {
				return err
			}
		}
	} else {
		result.FirstPush = true
	}

	if err := e.repo.Push(ctx, remote, branch); err != nil {
		return e.unsynced(err, "push")
	}
	result.Pushed = true
	return nil
}

// unsynced adds the manual resolution hint to a pull or push failure.
func (e *Engine) unsynced(err error, op string) error {
	hint := "your changes are committed locally but not pushed; resolve manually in " + e.vault.RepoPath
	var gerr *errors.GfvError
	if errors.As(err, &gerr) {
		return gerr.WithDetail("operation", op).WithRemediation(hint)
	}
	return errors.Newf(errors.ErrBackend, "%s failed", op).WithCause(err).WithRemediation(hint)
}
