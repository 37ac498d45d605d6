package engine

import (
	"fmt"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/filesystem"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/manifest"
	"github.com/billxc/git-file-vault/pkg/paths"
)

// LinkOptions describes a path to start tracking.
type LinkOptions struct {
	// Source is the file or directory on this machine; ~ is expanded.
	Source string
	// VaultPath is the name inside the vault. Inferred when empty.
	VaultPath string
	// Platform restricts restore to one operating system.
	Platform string
	// Yes skips the confirmation for sensitive looking files.
	Yes bool
}

// LinkResult reports a link.
type LinkResult struct {
	VaultPath    string             `json:"vaultPath" yaml:"vaultPath"`
	Source       string             `json:"sourcePath" yaml:"sourcePath"`
	Type         manifest.FileType  `json:"type" yaml:"type"`
	Platform     manifest.Platform  `json:"platform,omitempty" yaml:"platform,omitempty"`
	SourceExists bool               `json:"sourceExists" yaml:"sourceExists"`
	StoredExists bool               `json:"storedExists" yaml:"storedExists"`
	Sensitive    bool               `json:"sensitive" yaml:"sensitive"`
	Cancelled    bool               `json:"cancelled" yaml:"cancelled"`
	Entry        manifest.FileEntry `json:"-" yaml:"-"`
}

// Link adds a mapping to the manifest. The source, the stored copy or both
// must exist; nothing is copied until the next backup or restore.
func (e *Engine) Link(opts LinkOptions) (*LinkResult, error) {
	logger := logging.GetLogger("engine")

	source, err := e.paths.NormalizePath(opts.Source)
	if err != nil {
		return nil, err
	}

	vaultPath := opts.VaultPath
	if vaultPath == "" {
		vaultPath = e.paths.InferVaultPath(source)
	}
	if vaultPath, err = paths.ValidateVaultPath(vaultPath); err != nil {
		return nil, err
	}

	var platform manifest.Platform
	if opts.Platform != "" {
		p, ok := manifest.ParsePlatform(opts.Platform)
		if !ok {
			return nil, errors.Newf(errors.ErrInvalidInput,
				"unknown platform %q: use macos, linux or windows", opts.Platform)
		}
		platform = p
	}

	if existing, ok := e.vault.Manifest.GetFile(vaultPath); ok {
		return nil, errors.Newf(errors.ErrAlreadyManaged,
			"%s is already in the vault as %s", existing.SourcePath, vaultPath).
			WithDetail("vaultPath", vaultPath).
			WithRemediation("run 'gfv backup' to update it")
	}

	stored := e.vault.StoredPath(vaultPath)
	result := &LinkResult{
		VaultPath:    vaultPath,
		Source:       source,
		Platform:     platform,
		SourceExists: filesystem.Exists(e.fs, source),
		StoredExists: filesystem.Exists(e.fs, stored),
	}
	if !result.SourceExists && !result.StoredExists {
		return nil, errors.Newf(errors.ErrFileNotFound,
			"file not found in either location: %s (local), %s (vault)", source, stored).
			WithDetail("source", source).
			WithDetail("stored", stored)
	}

	typePath := stored
	if result.SourceExists {
		typePath = source
	}
	result.Type = manifest.TypeFile
	if filesystem.IsDir(e.fs, typePath) {
		result.Type = manifest.TypeDirectory
	}

	if result.SourceExists && paths.IsSensitive(source) {
		result.Sensitive = true
		if !opts.Yes {
			ok, err := e.confirm.Confirm(
				"This file may contain secrets. Add it to version control?",
				[]string{source},
			)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrIO, "failed to read confirmation")
			}
			if !ok {
				result.Cancelled = true
				return result, nil
			}
		}
	}

	result.Entry = manifest.FileEntry{
		SourcePath: source,
		Type:       result.Type,
		Platform:   platform,
		AddedAt:    e.now().UTC(),
	}
	e.vault.Manifest.AddFile(vaultPath, result.Entry)
	if err := e.vault.SaveManifest(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("vaultPath", vaultPath).
		Str("source", source).
		Str("type", string(result.Type)).
		Msg("Linked")
	return result, nil
}

// UnlinkResult reports an unlink.
type UnlinkResult struct {
	VaultPath     string             `json:"vaultPath" yaml:"vaultPath"`
	Entry         manifest.FileEntry `json:"entry" yaml:"entry"`
	DeletedStored bool               `json:"deletedStored" yaml:"deletedStored"`
	Commit        string             `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// Unlink stops tracking vaultPath and commits the removal. The stored copy
// is deleted only when deleteStored is set; the source is never touched.
func (e *Engine) Unlink(vaultPath string, deleteStored bool) (*UnlinkResult, error) {
	clean, err := paths.ValidateVaultPath(vaultPath)
	if err != nil {
		return nil, err
	}
	entry, ok := e.vault.Manifest.RemoveFile(clean)
	if !ok {
		return nil, errors.Newf(errors.ErrNotInManifest, "%s is not managed by gfv", vaultPath).
			WithDetail("vaultPath", vaultPath).
			WithRemediation("list managed files with 'gfv list'")
	}
	if err := e.vault.SaveManifest(); err != nil {
		return nil, err
	}

	result := &UnlinkResult{VaultPath: clean, Entry: entry}
	if deleteStored {
		stored := e.vault.StoredPath(clean)
		if filesystem.Exists(e.fs, stored) {
			if err := e.fs.RemoveAll(stored); err != nil {
				return nil, errors.Wrapf(err, errors.ErrIO, "failed to delete %s", stored)
			}
			result.DeletedStored = true
		}
	}

	changed, err := e.repo.HasChanges()
	if err != nil {
		return nil, err
	}
	if changed {
		if err := e.repo.AddAll(); err != nil {
			return nil, err
		}
		hash, err := e.repo.Commit(fmt.Sprintf("Remove %s", clean))
		if err != nil {
			return nil, err
		}
		result.Commit = hash.String()
	}

	logger := logging.GetLogger("engine")
	logger.Info().Str("vaultPath", clean).Bool("deletedStored", result.DeletedStored).Msg("Unlinked")
	return result, nil
}
