// Package source abstracts where orchestration content is read from, so the
// same analysis runs against a working tree or a committed git revision.
package source

import (
	"os"
	"sort"
	"sync"

	"github.com/atlasbridge/odx/internal/vcs"
	"github.com/atlasbridge/odx/pkg/scanner"
)

// ContentSource yields the raw text of one orchestration file. Paths come
// from the scanner or from a tree listing, never from user input directly.
type ContentSource interface {
	Read(path string) ([]byte, error)
}

// FilesystemSource reads orchestration files from the working tree.
type FilesystemSource struct{}

// NewFilesystem creates a source backed by the local filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// TreeSource reads orchestration files out of a git tree, so a repository
// can be analyzed at any revision without checking it out. go-git object
// access is not safe for concurrent readers; a mutex serializes the tree.
type TreeSource struct {
	tree vcs.Tree
	mu   sync.Mutex
}

// NewTree creates a source backed by a resolved git tree.
func NewTree(tree vcs.Tree) *TreeSource {
	return &TreeSource{tree: tree}
}

// Orchestrations lists the orchestration files present in the tree, sorted
// so analysis order is deterministic across runs.
func (t *TreeSource) Orchestrations() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	files, err := t.tree.Files(scanner.Extension)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Read implements ContentSource. Safe for concurrent use.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tree.File(path)
}
