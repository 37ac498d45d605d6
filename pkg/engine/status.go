package engine

import (
	"github.com/billxc/git-file-vault/pkg/filesystem"
	"github.com/billxc/git-file-vault/pkg/manifest"
)

// FileState classifies one tracked entry.
type FileState string

const (
	StateUpToDate      FileState = "up-to-date"
	StateModified      FileState = "modified"
	StateMissingSource FileState = "missing-source"
)

// EntryStatus is the state of one tracked entry.
type EntryStatus struct {
	VaultPath string             `json:"vaultPath" yaml:"vaultPath"`
	Entry     manifest.FileEntry `json:"entry" yaml:"entry"`
	State     FileState          `json:"state" yaml:"state"`
}

// StatusResult reports the repository state and every tracked entry.
type StatusResult struct {
	Vault   string                 `json:"vault" yaml:"vault"`
	Dir     string                 `json:"dir" yaml:"dir"`
	Remote  *manifest.RemoteConfig `json:"remote,omitempty" yaml:"remote,omitempty"`
	Dirty   bool                   `json:"dirty" yaml:"dirty"`
	Entries []EntryStatus          `json:"entries" yaml:"entries"`
}

// Count returns how many entries are in state s.
func (r *StatusResult) Count(s FileState) int {
	n := 0
	for _, e := range r.Entries {
		if e.State == s {
			n++
		}
	}
	return n
}

// Status reports whether the repository has uncommitted changes and
// classifies each entry. An entry is modified when its stored copy is
// missing or differs in size from the source.
func (e *Engine) Status() (*StatusResult, error) {
	dirty, err := e.repo.HasChanges()
	if err != nil {
		return nil, err
	}

	m := e.vault.Manifest
	result := &StatusResult{
		Vault:   e.vault.Name,
		Dir:     e.vault.Dir,
		Remote:  m.Remote,
		Dirty:   dirty,
		Entries: make([]EntryStatus, 0, m.Len()),
	}
	for _, vaultPath := range m.Paths() {
		entry, _ := m.GetFile(vaultPath)
		result.Entries = append(result.Entries, EntryStatus{
			VaultPath: vaultPath,
			Entry:     entry,
			State:     e.classify(vaultPath, entry),
		})
	}
	return result, nil
}

func (e *Engine) classify(vaultPath string, entry manifest.FileEntry) FileState {
	if !filesystem.Exists(e.fs, entry.SourcePath) {
		return StateMissingSource
	}
	stored := e.vault.StoredPath(vaultPath)
	if !filesystem.Exists(e.fs, stored) {
		return StateModified
	}
	a, errA := filesystem.Size(e.fs, entry.SourcePath)
	b, errB := filesystem.Size(e.fs, stored)
	if errA != nil || errB != nil || a != b {
		return StateModified
	}
	return StateUpToDate
}

// ListEntry is one tracked entry with the presence of both copies.
type ListEntry struct {
	VaultPath    string             `json:"vaultPath" yaml:"vaultPath"`
	Entry        manifest.FileEntry `json:"entry" yaml:"entry"`
	SourceExists bool               `json:"sourceExists" yaml:"sourceExists"`
	StoredExists bool               `json:"storedExists" yaml:"storedExists"`
}

// List returns the tracked entries sorted by vault path.
func (e *Engine) List() []ListEntry {
	m := e.vault.Manifest
	entries := make([]ListEntry, 0, m.Len())
	for _, vaultPath := range m.Paths() {
		entry, _ := m.GetFile(vaultPath)
		entries = append(entries, ListEntry{
			VaultPath:    vaultPath,
			Entry:        entry,
			SourceExists: filesystem.Exists(e.fs, entry.SourcePath),
			StoredExists: filesystem.Exists(e.fs, e.vault.StoredPath(vaultPath)),
		})
	}
	return entries
}
