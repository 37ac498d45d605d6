package engine

import (
	"context"
	"fmt"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/filesystem"
	"github.com/billxc/git-file-vault/pkg/gitstore"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/manifest"
)

// RestoreOptions configures a restore.
type RestoreOptions struct {
	// DryRun only reports what would be restored.
	DryRun bool
	// Force overwrites locally modified sources without asking.
	Force bool
}

// RestoreAction is one entry that is (or would be) restored.
type RestoreAction struct {
	VaultPath string            `json:"vaultPath" yaml:"vaultPath"`
	Source    string            `json:"sourcePath" yaml:"sourcePath"`
	Type      manifest.FileType `json:"type" yaml:"type"`
	// Modified is set when the local copy differs in size from the stored one.
	Modified bool `json:"modified" yaml:"modified"`
}

// RestoreResult reports a restore.
type RestoreResult struct {
	Empty     bool            `json:"empty" yaml:"empty"`
	DryRun    bool            `json:"dryRun" yaml:"dryRun"`
	Cancelled bool            `json:"cancelled" yaml:"cancelled"`
	Pull      string          `json:"pull,omitempty" yaml:"pull,omitempty"`
	Branch    string          `json:"branch,omitempty" yaml:"branch,omitempty"`
	Restored  []RestoreAction `json:"restored" yaml:"restored"`
	Skipped   []Skip          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Restore copies stored copies back over their sources.
//
// With a remote the repository is pulled first (not in dry-run mode).
// Entries restricted to another platform, or without a stored copy, are
// skipped. Sources whose size differs from the stored copy count as locally
// modified and are only overwritten after confirmation unless Force is set.
// A dry run never writes anything.
func (e *Engine) Restore(ctx context.Context, opts RestoreOptions) (*RestoreResult, error) {
	logger := logging.GetLogger("engine")
	done := logging.LogOperationStart(logger, "restore")
	defer done()

	result := &RestoreResult{DryRun: opts.DryRun, Restored: []RestoreAction{}}

	if e.vault.Manifest.HasRemote() && !opts.DryRun {
		if err := e.pullForRestore(ctx, result); err != nil {
			return result, err
		}
	}

	m := e.vault.Manifest
	if m.Len() == 0 {
		result.Empty = true
		return result, nil
	}

	var plan []RestoreAction
	for _, vaultPath := range m.Paths() {
		entry, _ := m.GetFile(vaultPath)
		if !e.platformAllows(entry) {
			logger.Warn().Str("vaultPath", vaultPath).Str("platform", string(entry.Platform)).Msg("Skipping, platform mismatch")
			result.Skipped = append(result.Skipped, Skip{
				Path:   vaultPath,
				Reason: fmt.Sprintf("%s (%s only)", ReasonPlatformExclude, entry.Platform),
			})
			continue
		}
		stored := e.vault.StoredPath(vaultPath)
		if !filesystem.Exists(e.fs, stored) {
			logger.Warn().Str("vaultPath", vaultPath).Msg("Skipping, not in vault")
			result.Skipped = append(result.Skipped, Skip{Path: vaultPath, Reason: ReasonStoredMissing})
			continue
		}
		plan = append(plan, RestoreAction{
			VaultPath: vaultPath,
			Source:    entry.SourcePath,
			Type:      entry.Type,
			Modified:  e.sizeDiffers(entry.SourcePath, stored),
		})
	}

	if opts.DryRun {
		result.Restored = append(result.Restored, plan...)
		return result, nil
	}

	if !opts.Force {
		var modified []string
		for _, a := range plan {
			if a.Modified {
				modified = append(modified, a.Source)
			}
		}
		if len(modified) > 0 {
			ok, err := e.confirm.Confirm("You have local changes that will be overwritten. Continue?", modified)
			if err != nil {
				return result, errors.Wrap(err, errors.ErrIO, "failed to read confirmation")
			}
			if !ok {
				result.Cancelled = true
				return result, nil
			}
		}
	}

	for _, a := range plan {
		stored := e.vault.StoredPath(a.VaultPath)
		if err := filesystem.Copy(e.fs, stored, a.Source); err != nil {
			return result, errors.Wrapf(err, errors.ErrIO, "failed to restore %s to %s", a.VaultPath, a.Source)
		}
		result.Restored = append(result.Restored, a)
	}

	logger.Info().
		Str("vault", e.vault.Name).
		Int("restored", len(result.Restored)).
		Int("skipped", len(result.Skipped)).
		Msg("Restore finished")
	return result, nil
}

func (e *Engine) pullForRestore(ctx context.Context, result *RestoreResult) error {
	logger := logging.GetLogger("engine")
	remote := gitstore.DefaultRemote
	branch := e.syncBranch()
	result.Branch = branch

	exists, err := e.repo.RemoteBranchExists(ctx, remote, branch)
	if err != nil {
		return e.unpulled(err)
	}
	if !exists {
		logger.Info().Str("branch", branch).Msg("Remote branch does not exist yet, restoring local copies")
		return nil
	}

	state, err := e.repo.Pull(ctx, remote, branch)
	result.Pull = state.String()
	if err != nil {
		return e.unpulled(err)
	}
	return e.vault.Reload()
}

func (e *Engine) unpulled(err error) error {
	hint := "resolve manually in " + e.vault.RepoPath
	var gerr *errors.GfvError
	if errors.As(err, &gerr) {
		return gerr.WithDetail("operation", "pull").WithRemediation(hint)
	}
	return errors.New(errors.ErrBackend, "pull failed").WithCause(err).WithRemediation(hint)
}

// sizeDiffers is the local modification heuristic: both copies exist and
// their sizes differ. Content is not compared.
func (e *Engine) sizeDiffers(source, stored string) bool {
	if !filesystem.Exists(e.fs, source) {
		return false
	}
	a, err := filesystem.Size(e.fs, source)
	if err != nil {
		return false
	}
	b, err := filesystem.Size(e.fs, stored)
	if err != nil {
		return false
	}
	return a != b
}
