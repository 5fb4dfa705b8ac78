// Package vcs provides the git access needed to read model files at a
// revision instead of from the working tree.
package vcs

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Repository provides access to git repository operations.
type Repository interface {
	// Head returns a reference to the HEAD commit.
	Head() (Reference, error)
	// ResolveRevision resolves a branch, tag, hash or expression such as HEAD~1.
	ResolveRevision(rev string) (plumbing.Hash, error)
	// CommitObject returns the commit with the given hash.
	CommitObject(hash plumbing.Hash) (Commit, error)
	// RepoPath returns the root path of the repository worktree.
	RepoPath() string
}

// Reference represents a git reference (branch, tag, HEAD).
type Reference interface {
	// Short returns the branch name, or the hash for a detached HEAD.
	Short() string
}

// Commit represents a git commit.
type Commit interface {
	// Tree returns the tree object for this commit.
	Tree() (Tree, error)
}

// TreeEntry is one direct child of a directory in a git tree.
type TreeEntry struct {
	Name  string
	IsDir bool
}

// Tree represents a git tree object.
type Tree interface {
	// File returns the contents of the file at path, relative to the repository root.
	File(path string) ([]byte, error)
	// Entries lists the direct children of dir, sorted by name. An empty dir
	// means the repository root.
	Entries(dir string) ([]TreeEntry, error)
}

// Opener opens git repositories.
type Opener interface {
	// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
	PlainOpenWithDetect(path string) (Repository, error)
}
