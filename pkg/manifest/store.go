package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/billxc/git-file-vault/pkg/paths"
	"github.com/spf13/afero"
)

// Store reads and writes vault manifests on a filesystem.
type Store struct {
	fs afero.Fs
}

// NewStore returns a Store over fs. A nil fs means the OS filesystem.
func NewStore(fs afero.Fs) *Store {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{fs: fs}
}

// Load reads the manifest of vaultDir. A missing file yields an empty
// manifest; a malformed one is a parse error.
func (s *Store) Load(vaultDir string) (*Manifest, error) {
	path := paths.ManifestPath(vaultDir)
	logger := logging.GetLogger("manifest")

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No manifest found, starting empty")
			return New(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read manifest %s", path)
	}

	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Wrapf(err, errors.ErrParse, "failed to parse manifest %s", path)
	}
	if m.Files == nil {
		m.Files = make(map[string]FileEntry)
	}
	if m.Version == "" {
		m.Version = Version
	}

	logger.Debug().Str("path", path).Int("files", m.Len()).Msg("Manifest loaded")
	return m, nil
}

// Save writes m to a temporary file next to the manifest and renames it
// into place.
func (s *Store) Save(vaultDir string, m *Manifest) error {
	path := paths.ManifestPath(vaultDir)
	dir := filepath.Dir(path)

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode manifest")
	}
	data = append(data, '\n')

	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", dir)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".vault-manifest-*.tmp")
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to create temporary manifest")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return errors.Wrap(err, errors.ErrIO, "failed to write temporary manifest")
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.Wrap(err, errors.ErrIO, "failed to close temporary manifest")
	}
	if err := s.fs.Rename(tmpName, path); err != nil {
		_ = s.fs.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrIO, "failed to replace manifest %s", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().Str("path", path).Int("files", m.Len()).Msg("Manifest saved")
	return nil
}
