// Package vcs reads orchestration sources from a git tree so a ref can be
// analyzed without a checkout.
package vcs

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Tree provides read access to the files of one resolved revision.
type Tree interface {
	// File returns the content of the file at path.
	File(path string) ([]byte, error)
	// Files returns the paths of all files whose name has the given
	// extension.
	Files(ext string) ([]string, error)
}

// OpenTree opens the repository containing path and resolves rev (branch,
// tag, or SHA) to its tree.
func OpenTree(path, rev string) (Tree, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}
	return &gitTree{tree: tree}, nil
}

type gitTree struct {
	tree *object.Tree
}

func (t *gitTree) File(path string) ([]byte, error) {
	f, err := t.tree.File(path)
	if err != nil {
		return nil, err
	}
	r, err := f.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (t *gitTree) Files(ext string) ([]string, error) {
	var paths []string
	err := t.tree.Files().ForEach(func(f *object.File) error {
		if strings.HasSuffix(f.Name, ext) {
			paths = append(paths, f.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
