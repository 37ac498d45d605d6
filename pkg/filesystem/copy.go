package filesystem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/billxc/git-file-vault/pkg/logging"
	"github.com/spf13/afero"
)

// SkipDirName is never copied in either direction; a linked directory may
// itself be a git checkout.
const SkipDirName = ".git"

// Exists reports whether path exists.
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir()
}

// CopyFile copies src to dst, creating dst's parent directories and keeping
// the permission bits of src.
func CopyFile(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return fs.Chmod(dst, info.Mode().Perm())
}

// CopyDir recursively copies the contents of src into dst.
func CopyDir(fs afero.Fs, src, dst string) error {
	logger := logging.GetLogger("filesystem")
	return afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			if info.Name() == SkipDirName && path != src {
				return filepath.SkipDir
			}
			return fs.MkdirAll(target, info.Mode().Perm()|0700)
		case info.Mode()&os.ModeSymlink != 0:
			resolved, err := fs.Stat(path)
			if err != nil || resolved.IsDir() {
				logger.Debug().Str("path", path).Msg("Skipping symlink")
				return nil
			}
			return CopyFile(fs, path, target)
		case info.Mode().IsRegular():
			return CopyFile(fs, path, target)
		default:
			logger.Debug().Str("path", path).Msg("Skipping special file")
			return nil
		}
	})
}

// ReplaceDir makes dst a copy of src. Everything under dst is removed first
// except SkipDirName directories, which belong to dst and are never copied.
// An interruption between the two steps leaves dst partial.
func ReplaceDir(fs afero.Fs, src, dst string) error {
	if IsDir(fs, dst) {
		if err := clearDir(fs, dst); err != nil {
			return err
		}
	} else if err := fs.RemoveAll(dst); err != nil {
		return err
	}
	return CopyDir(fs, src, dst)
}

// clearDir empties dir, keeping SkipDirName directories at any depth along
// with the directories that lead to them.
func clearDir(fs afero.Fs, dir string) error {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() {
			if err := fs.Remove(path); err != nil {
				return err
			}
			continue
		}
		if entry.Name() == SkipDirName {
			continue
		}
		if err := clearDir(fs, path); err != nil {
			return err
		}
		if left, err := afero.ReadDir(fs, path); err == nil && len(left) == 0 {
			if err := fs.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// Copy copies src to dst as a file or, for directories, with ReplaceDir.
func Copy(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ReplaceDir(fs, src, dst)
	}
	if IsDir(fs, dst) {
		if err := fs.RemoveAll(dst); err != nil {
			return err
		}
	}
	return CopyFile(fs, src, dst)
}

// Size returns the size of a file, or the total size of the regular files
// below a directory.
func Size(fs afero.Fs, path string) (int64, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	err = afero.Walk(fs, path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() && fi.Name() == SkipDirName && p != path {
			return filepath.SkipDir
		}
		if fi.Mode().IsRegular() {
			total += fi.Size()
		}
		return nil
	})
	return total, err
}
