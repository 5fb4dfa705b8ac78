// Package testutil holds file-tree, model corpus, and git fixtures shared by
// package tests.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ModelDir is the corpus directory used by the fixtures, relative to the
// project root.
const ModelDir = "infra/cloud-model"

// PrimarySource is the primary model file: Foo references five types in
// every shape, Orphan is referenced by nothing.
const PrimarySource = `package model

// Foo exercises every reference shape.
type Foo struct {
	Bar      Bar
	Items    []Item
	Ptr      *Baz
	PtrSlice *[]Qux
	SlicePtr []*Zap
}

type Orphan struct {
	Name string
}
`

// AuxSource is an auxiliary model file. Holder keeps Foo referenced.
const AuxSource = `package model

type Bar struct{}
type Item struct{}
type Baz struct{}
type Qux struct{}
type Zap struct{}

type Holder struct {
	Foo Foo
}

type Region string
`

// ExternalSource is a second auxiliary file whose only record is exempt.
const ExternalSource = `package model

type External struct {
	Unused string
}
`

// ModelFiles maps the default designated file names to the fixture sources.
func ModelFiles() map[string]string {
	return map[string]string{
		"copied-tb-model.go": PrimarySource,
		"model.go":           AuxSource,
		"vm-infra-info.go":   ExternalSource,
	}
}

// WriteModelProject writes a go.mod and the fixture model files under root.
// Names listed in skip are left out.
func WriteModelProject(t *testing.T, root string, skip ...string) {
	t.Helper()
	WriteFile(t, filepath.Join(root, "go.mod"), "module example.com/cloud\n\ngo 1.25\n")
	files := ModelFiles()
	for _, name := range skip {
		delete(files, name)
	}
	CreateFileTree(t, filepath.Join(root, ModelDir), files)
}

// WriteFile writes content to a file in the real filesystem.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("MkdirAll(%s) error: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error: %v", path, err)
	}
}

// ReadFile reads content from a file.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error: %v", path, err)
	}
	return string(data)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CreateFileTree creates multiple files from a map of path -> content.
func CreateFileTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		WriteFile(t, filepath.Join(root, name), content)
	}
}

// ListFiles returns all files under root, sorted.
func ListFiles(t *testing.T, root string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir(%s) error: %v", root, err)
	}
	slices.Sort(files)
	return files
}

// InitRepo initializes a git repository at root and commits everything in it.
func InitRepo(t *testing.T, root string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(root, false)
	if err != nil {
		t.Fatalf("PlainInit(%s) error: %v", root, err)
	}
	CommitAll(t, repo, "initial")
	return repo
}

// CommitAll stages every change in the worktree and commits it.
func CommitAll(t *testing.T, repo *git.Repository, message string) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree() error: %v", err)
	}
	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
}
