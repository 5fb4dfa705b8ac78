package vcs

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// ErrFileNotInTree is returned when a path does not exist at the revision.
	ErrFileNotInTree = errors.New("file not found in tree")
	// ErrUnknownRevision is returned when a revision cannot be resolved.
	ErrUnknownRevision = errors.New("unknown revision")
)

// GitOpener opens git repositories using go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// PlainOpenWithDetect opens a git repository, detecting .git in parent directories.
func (o *GitOpener) PlainOpenWithDetect(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}
	return &gitRepository{repo: repo, path: path}, nil
}

// gitRepository wraps go-git Repository.
type gitRepository struct {
	repo *git.Repository
	path string
}

func (r *gitRepository) Head() (Reference, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, err
	}
	return &gitReference{ref: ref}, nil
}

func (r *gitRepository) ResolveRevision(rev string) (plumbing.Hash, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w %q: %v", ErrUnknownRevision, rev, err)
	}
	return *hash, nil
}

func (r *gitRepository) CommitObject(hash plumbing.Hash) (Commit, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}
	return &gitCommit{commit: commit}, nil
}

// RepoPath returns the worktree root, falling back to the path the
// repository was opened with for bare repositories.
func (r *gitRepository) RepoPath() string {
	wt, err := r.repo.Worktree()
	if err != nil {
		return r.path
	}
	return wt.Filesystem.Root()
}

// gitReference wraps go-git Reference.
type gitReference struct {
	ref *plumbing.Reference
}

func (r *gitReference) Short() string {
	if r.ref.Name().IsBranch() {
		return r.ref.Name().Short()
	}
	return r.ref.Hash().String()
}

// gitCommit wraps go-git Commit.
type gitCommit struct {
	commit *object.Commit
}

func (c *gitCommit) Tree() (Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, err
	}
	return &gitTree{tree: tree}, nil
}

// gitTree wraps go-git Tree.
type gitTree struct {
	tree *object.Tree
}

func (t *gitTree) File(path string) ([]byte, error) {
	// Tree paths always use forward slashes.
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	f, err := t.tree.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotInTree, path)
		}
		return nil, err
	}
	contents, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return []byte(contents), nil
}

func (t *gitTree) Entries(dir string) ([]TreeEntry, error) {
	dir = strings.Trim(strings.TrimPrefix(filepath.ToSlash(filepath.Clean(dir)), "./"), "/")
	tree := t.tree
	if dir != "" && dir != "." {
		sub, err := t.tree.Tree(dir)
		if err != nil {
			if errors.Is(err, object.ErrDirectoryNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotInTree, dir)
			}
			return nil, err
		}
		tree = sub
	}

	entries := make([]TreeEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, TreeEntry{
			Name:  e.Name,
			IsDir: e.Mode == filemode.Dir,
		})
	}
	slices.SortFunc(entries, func(a, b TreeEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

var defaultOpener Opener = NewGitOpener()

// DefaultOpener returns the opener used by OpenRevision and CurrentRef.
func DefaultOpener() Opener {
	return defaultOpener
}
