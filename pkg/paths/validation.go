package paths

import (
	"path"
	"regexp"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
)

var vaultNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateVaultName ensures a vault name is usable as a directory and a
// configuration key.
func ValidateVaultName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "vault name cannot be empty")
	}
	if !vaultNamePattern.MatchString(name) {
		return errors.Newf(errors.ErrInvalidInput,
			"invalid vault name %q: use letters, digits, '-' or '_'", name)
	}
	return nil
}

// ValidateVaultPath checks a vault-relative path and returns its clean form.
// Absolute paths, traversal outside the vault and the repository metadata
// directory are rejected.
func ValidateVaultPath(vaultPath string) (string, error) {
	if vaultPath == "" {
		return "", errors.New(errors.ErrInvalidInput, "vault path cannot be empty")
	}
	if strings.Contains(vaultPath, "\x00") {
		return "", errors.New(errors.ErrInvalidInput, "vault path contains null bytes")
	}

	slashed := strings.ReplaceAll(vaultPath, "\\", "/")
	if strings.HasPrefix(slashed, "/") {
		return "", errors.Newf(errors.ErrInvalidInput, "vault path must be relative: %s", vaultPath)
	}

	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.Newf(errors.ErrInvalidInput, "vault path escapes the vault: %s", vaultPath)
	}

	first := strings.SplitN(clean, "/", 2)[0]
	if first == ".git" || clean == ManifestFileName {
		return "", errors.Newf(errors.ErrInvalidInput, "vault path is reserved: %s", vaultPath)
	}
	return clean, nil
}
