// Package source reads designated model files either from the working tree
// or from a git revision.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panbanda/modeldeps/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path, relative to the source root.
	Read(path string) ([]byte, error)
	// List returns the names of the files directly inside dir, sorted.
	List(dir string) ([]string, error)
	// Describe names the source for reports.
	Describe() string
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct {
	root string
}

// NewFilesystem creates a source that reads from the filesystem, resolving
// relative paths against root. An empty root means the working directory.
func NewFilesystem(root string) *FilesystemSource {
	return &FilesystemSource{root: root}
}

func (f *FilesystemSource) resolve(path string) string {
	if f.root != "" && !filepath.IsAbs(path) {
		return filepath.Join(f.root, path)
	}
	return path
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(f.resolve(path))
}

// List implements ContentSource.
func (f *FilesystemSource) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(f.resolve(dir))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Describe implements ContentSource. Inside a git repository the current
// branch is named, or the short hash of a detached HEAD.
func (f *FilesystemSource) Describe() string {
	root := f.root
	if root == "" {
		root = "."
	}
	ref := vcs.CurrentRef(root)
	if ref == "" {
		return "working tree"
	}
	return fmt.Sprintf("working tree (%s)", shortHash(ref))
}

// TreeSource reads files from a git tree.
// It is safe for concurrent use by multiple goroutines.
type TreeSource struct {
	snap *vcs.Snapshot
	mu   sync.Mutex
}

// NewTree creates a source that reads from a git snapshot.
func NewTree(snap *vcs.Snapshot) *TreeSource {
	return &TreeSource{snap: snap}
}

// OpenRevision opens the repository containing root at rev.
func OpenRevision(root, rev string) (*TreeSource, error) {
	snap, err := vcs.OpenRevision(root, rev)
	if err != nil {
		return nil, err
	}
	return NewTree(snap), nil
}

// Read implements ContentSource.
// It is safe for concurrent use.
func (t *TreeSource) Read(path string) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap.Tree.File(t.snap.Rel(path))
}

// List implements ContentSource.
func (t *TreeSource) List(dir string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entries, err := t.snap.Tree.Entries(t.snap.Rel(dir))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// Describe implements ContentSource.
func (t *TreeSource) Describe() string {
	return fmt.Sprintf("git revision %s (%s)", t.snap.Revision, shortHash(t.snap.Hash))
}

// shortHash abbreviates a 40-character commit hash. Branch names pass
// through unchanged.
func shortHash(s string) string {
	if len(s) == 40 && strings.Trim(s, "0123456789abcdef") == "" {
		return s[:12]
	}
	return s
}

// Open returns a TreeSource when rev is set and a FilesystemSource otherwise.
func Open(root, rev string) (ContentSource, error) {
	if rev == "" {
		return NewFilesystem(root), nil
	}
	return OpenRevision(root, rev)
}
