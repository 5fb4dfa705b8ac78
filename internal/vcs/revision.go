package vcs

import (
	"fmt"
	"path/filepath"
)

// Snapshot is a git tree pinned at a resolved revision.
type Snapshot struct {
	Tree     Tree
	Revision string // as requested
	Hash     string
	// Prefix is the path of the opening directory relative to the
	// repository root, using forward slashes. Empty at the root.
	Prefix string
}

// OpenRevision opens the repository containing dir and resolves rev to a
// tree. Paths read through the snapshot are relative to the repository root;
// use Rel to translate paths relative to dir.
func OpenRevision(dir, rev string) (*Snapshot, error) {
	repo, err := DefaultOpener().PlainOpenWithDetect(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}

	hash, err := repo.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", hash, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to load tree for %s: %w", hash, err)
	}

	prefix, err := relativeToRepo(repo.RepoPath(), dir)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Tree:     tree,
		Revision: rev,
		Hash:     hash.String(),
		Prefix:   prefix,
	}, nil
}

// Rel converts a path relative to the opening directory into a tree path.
func (s *Snapshot) Rel(path string) string {
	if s.Prefix == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(filepath.Join(s.Prefix, path))
}

// CurrentRef returns the current branch name, or the commit SHA when HEAD
// is detached. It returns an empty string when dir is not inside a git
// repository or the repository has no commits.
func CurrentRef(dir string) string {
	repo, err := DefaultOpener().PlainOpenWithDetect(dir)
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Short()
}

func relativeToRepo(repoRoot, dir string) (string, error) {
	absRoot, err := filepath.Abs(repoRoot)
	if err != nil {
		return "", err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = r
	}
	if d, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = d
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to repository root %s: %w", dir, repoRoot, err)
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}
