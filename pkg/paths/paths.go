package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/billxc/git-file-vault/pkg/errors"
)

// Environment variable names
const (
	// EnvGfvHome overrides the gfv home directory (default ~/.gfv)
	EnvGfvHome = "GFV_HOME"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed layout of the gfv home and of every vault directory.
const (
	GfvDirName       = ".gfv"
	ConfigFileName   = "config.toml"
	RepoDirName      = "repo"
	ManifestFileName = ".vault-manifest.json"
	GitignoreName    = ".gitignore"
	LogFileName      = "gfv.log"
)

// Paths resolves every location gfv reads or writes.
type Paths interface {
	Home() string
	GfvHome() string
	ConfigFile() string
	DefaultVaultDir(name string) string
	StateDir() string
	LogFilePath() string
	ExpandHome(path string) string
	NormalizePath(path string) (string, error)
	InferVaultPath(source string) string
}

type paths struct {
	home    string
	gfvHome string
}

// New builds Paths from the environment.
func New() (Paths, error) {
	home, err := GetHomeDirectory()
	if err != nil {
		return nil, err
	}
	return NewWithHome(home), nil
}

// NewWithHome builds Paths rooted at home. GFV_HOME is still honored.
func NewWithHome(home string) Paths {
	p := &paths{home: filepath.Clean(home)}
	if override := os.Getenv(EnvGfvHome); override != "" {
		p.gfvHome = filepath.Clean(expandHome(override, p.home))
	} else {
		p.gfvHome = filepath.Join(p.home, GfvDirName)
	}
	return p
}

func (p *paths) Home() string    { return p.home }
func (p *paths) GfvHome() string { return p.gfvHome }

func (p *paths) ConfigFile() string {
	return filepath.Join(p.gfvHome, ConfigFileName)
}

// DefaultVaultDir is where a vault lives when created without an explicit path.
func (p *paths) DefaultVaultDir(name string) string {
	return filepath.Join(p.gfvHome, name)
}

func (p *paths) StateDir() string {
	xdg.Reload()
	return filepath.Join(xdg.StateHome, "gfv")
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.StateDir(), LogFileName)
}

func (p *paths) ExpandHome(path string) string {
	return expandHome(path, p.home)
}

// NormalizePath expands ~, makes the path absolute and cleans it.
func (p *paths) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}
	abs, err := filepath.Abs(p.ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to get absolute path for %s", path)
	}
	return filepath.Clean(abs), nil
}

// RepoPath returns the repository directory of a vault.
func RepoPath(vaultDir string) string {
	return filepath.Join(vaultDir, RepoDirName)
}

// ManifestPath returns the manifest file of a vault. It lives inside the
// repository so that the mapping is versioned with the files.
func ManifestPath(vaultDir string) string {
	return filepath.Join(RepoPath(vaultDir), ManifestFileName)
}

func expandHome(path, home string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) == 1 {
		return home
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(home, path[2:])
	}
	// ~user is left alone
	return path
}

// GetHomeDirectory returns the user's home directory, falling back to $HOME.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if home := os.Getenv(EnvHome); home != "" {
			return home, nil
		}
		return "", errors.Wrap(err, errors.ErrIO, "failed to get home directory")
	}
	return homeDir, nil
}
