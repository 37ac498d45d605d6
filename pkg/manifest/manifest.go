// Package manifest models and persists the set of tracked path mappings of
// one vault.
package manifest

import (
	"sort"
	"time"
)

// Version is the manifest format version written by this release.
const Version = "1.0"

// FileType distinguishes tracked files from tracked directories.
type FileType string

const (
	TypeFile      FileType = "file"
	TypeDirectory FileType = "directory"
)

// Platform restricts restore of an entry to one operating system.
type Platform string

const (
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
	PlatformWindows Platform = "windows"
)

// ParsePlatform validates a user supplied platform name.
func ParsePlatform(s string) (Platform, bool) {
	switch p := Platform(s); p {
	case PlatformMacOS, PlatformLinux, PlatformWindows:
		return p, true
	}
	return "", false
}

// FileEntry describes one tracked path.
type FileEntry struct {
	SourcePath string     `json:"sourcePath" yaml:"sourcePath"`
	Type       FileType   `json:"type" yaml:"type"`
	Platform   Platform   `json:"platform,omitempty" yaml:"platform,omitempty"`
	AddedAt    time.Time  `json:"addedAt" yaml:"addedAt"`
	LastSync   *time.Time `json:"lastSync,omitempty" yaml:"lastSync,omitempty"`
}

// IsDir reports whether the entry tracks a directory.
func (e FileEntry) IsDir() bool {
	return e.Type == TypeDirectory
}

// RemoteConfig is the single remote a vault may sync with.
type RemoteConfig struct {
	URL    string `json:"url" yaml:"url"`
	Branch string `json:"branch" yaml:"branch"`
}

// Manifest maps vault-relative paths to file entries.
type Manifest struct {
	Version string               `json:"version" yaml:"version"`
	Files   map[string]FileEntry `json:"files" yaml:"files"`
	Remote  *RemoteConfig        `json:"remote,omitempty" yaml:"remote,omitempty"`
}

// New returns an empty local-only manifest.
func New() *Manifest {
	return &Manifest{
		Version: Version,
		Files:   make(map[string]FileEntry),
	}
}

// AddFile records entry under path, replacing any previous entry.
func (m *Manifest) AddFile(path string, entry FileEntry) {
	if m.Files == nil {
		m.Files = make(map[string]FileEntry)
	}
	m.Files[path] = entry
}

// RemoveFile drops path and returns the entry it held.
func (m *Manifest) RemoveFile(path string) (FileEntry, bool) {
	entry, ok := m.Files[path]
	if ok {
		delete(m.Files, path)
	}
	return entry, ok
}

// GetFile looks up path.
func (m *Manifest) GetFile(path string) (FileEntry, bool) {
	entry, ok := m.Files[path]
	return entry, ok
}

// Has reports whether path is tracked.
func (m *Manifest) Has(path string) bool {
	_, ok := m.Files[path]
	return ok
}

// Len returns the number of tracked entries.
func (m *Manifest) Len() int {
	return len(m.Files)
}

// Paths returns the tracked vault paths in sorted order.
func (m *Manifest) Paths() []string {
	out := make([]string, 0, len(m.Files))
	for p := range m.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Touch sets LastSync for path. Unknown paths are ignored.
func (m *Manifest) Touch(path string, at time.Time) {
	entry, ok := m.Files[path]
	if !ok {
		return
	}
	at = at.UTC()
	entry.LastSync = &at
	m.Files[path] = entry
}

// HasRemote reports whether the vault syncs with a remote.
func (m *Manifest) HasRemote() bool {
	return m.Remote != nil && m.Remote.URL != ""
}
