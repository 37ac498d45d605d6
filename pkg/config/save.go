package config

import (
	"path/filepath"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/billxc/git-file-vault/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Save writes cfg to path through a temporary file and a rename.
func Save(fs afero.Fs, path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode configuration")
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIO, "failed to create %s", dir)
	}

	tmp, err := afero.TempFile(fs, dir, ".config-*.toml.tmp")
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "failed to create temporary config")
	}
	name := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = fs.Remove(name)
		if werr == nil {
			werr = cerr
		}
		return errors.Wrap(werr, errors.ErrIO, "failed to write temporary config")
	}
	if err := fs.Rename(name, path); err != nil {
		_ = fs.Remove(name)
		return errors.Wrapf(err, errors.ErrIO, "failed to replace %s", path)
	}

	logger := logging.GetLogger("config")
	logger.Debug().Str("path", path).Msg("Config saved")
	return nil
}
