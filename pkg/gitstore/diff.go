package gitstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/billxc/git-file-vault/pkg/errors"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders the working tree changes against HEAD as a unified-style
// text: one header per changed path followed by its removed and added lines.
// Unchanged lines are omitted.
func (r *Repository) Diff() (string, error) {
	changed, err := r.ChangedPaths()
	if err != nil {
		return "", err
	}

	var headTree *object.Tree
	if head, err := r.repo.Head(); err == nil {
		commit, err := r.repo.CommitObject(head.Hash())
		if err != nil {
			return "", errors.Wrap(err, errors.ErrBackend, "failed to load HEAD commit")
		}
		if headTree, err = commit.Tree(); err != nil {
			return "", errors.Wrap(err, errors.ErrBackend, "failed to load HEAD tree")
		}
	} else if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", errors.Wrap(err, errors.ErrBackend, "failed to resolve HEAD")
	}

	var buf strings.Builder
	for _, path := range changed {
		before, err := r.committedContent(headTree, path)
		if err != nil {
			return "", err
		}
		after, err := os.ReadFile(filepath.Join(r.path, filepath.FromSlash(path)))
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrIO, "failed to read %s", path)
		}
		writeFileDiff(&buf, path, before, after)
	}
	return buf.String(), nil
}

func (r *Repository) committedContent(tree *object.Tree, path string) ([]byte, error) {
	if tree == nil {
		return nil, nil
	}
	file, err := tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrBackend, "failed to read committed %s", path)
	}
	contents, err := file.Contents()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrBackend, "failed to read committed %s", path)
	}
	return []byte(contents), nil
}

func writeFileDiff(buf *strings.Builder, path string, before, after []byte) {
	fmt.Fprintf(buf, "diff --git a/%s b/%s\n", path, path)
	switch {
	case before == nil:
		buf.WriteString("new file\n")
	case after == nil:
		buf.WriteString("deleted file\n")
	}
	if bytes.IndexByte(before, 0) >= 0 || bytes.IndexByte(after, 0) >= 0 {
		buf.WriteString("Binary files differ\n")
		return
	}

	fmt.Fprintf(buf, "--- a/%s\n+++ b/%s\n", path, path)
	for _, d := range diff.Do(string(before), string(after)) {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteString("\n")
			}
		}
	}
}
