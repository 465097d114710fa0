// Package filesystem reads knowledge-base documents from a directory tree.
//
// The tree is accessed through afero, so tests can use an in-memory
// filesystem, and markdown files are matched with doublestar globs.
package filesystem

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// MarkdownPattern matches markdown files at any depth below a subtree.
const MarkdownPattern = "**/*.md"

// Source lists and reads markdown documents under a root directory.
type Source struct {
	fs   afero.Fs
	root string
	tree afero.Fs
}

// New creates a source rooted at root on fs.
// Use afero.NewOsFs() for real files or afero.NewMemMapFs() for testing.
func New(fs afero.Fs, root string) *Source {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Source{
		fs:   fs,
		root: root,
		tree: afero.NewBasePathFs(fs, root),
	}
}

// NewOs creates a source on the operating system filesystem.
func NewOs(root string) *Source {
	return New(afero.NewOsFs(), root)
}

// Root returns the knowledge-base root.
func (s *Source) Root() string {
	return s.root
}

// Exists reports whether the root directory exists.
func (s *Source) Exists() (bool, error) {
	return afero.DirExists(s.fs, s.root)
}

// List returns the sorted, slash-separated paths of every markdown file
// under subtree, relative to the root. A missing subtree yields nil.
func (s *Source) List(ctx context.Context, subtree string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subtree = filepath.ToSlash(filepath.Clean(subtree))
	exists, err := afero.DirExists(s.tree, subtree)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", subtree, err)
	}
	if !exists {
		return nil, nil
	}

	// Glob inside the subtree so its name is never read as a pattern.
	sub := afero.NewIOFS(afero.NewBasePathFs(s.tree, subtree))
	matches, err := doublestar.Glob(sub, MarkdownPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", subtree, err)
	}

	for i, m := range matches {
		matches[i] = path.Join(subtree, m)
	}
	slices.Sort(matches)
	return matches, nil
}

// Read loads the document at rel, a path returned by List.
// Source is the full path under the root; content must be valid UTF-8.
func (s *Source) Read(ctx context.Context, rel string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	data, err := afero.ReadFile(s.fs, full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("reading %s: %w: content is not valid UTF-8", full, domain.ErrInvalidInput)
	}

	return &domain.Document{
		Path:     filepath.ToSlash(rel),
		Source:   full,
		FileName: path.Base(filepath.ToSlash(rel)),
		Content:  string(data),
	}, nil
}
