// Package docstore implements canvas.DocumentStore on the local
// filesystem: a location is a directory of markdown files.
package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meikuraledutech/canvas"
)

const markdownExt = ".md"

// FSStore reads markdown documents relative to a base directory.
type FSStore struct {
	base string
}

// New creates an FSStore rooted at the given base directory.
func New(base string) *FSStore {
	return &FSStore{base: base}
}

// List returns the markdown files directly inside base/location, sorted
// by name so that reconciliation order is stable across runs. Document
// paths are location-prefixed, matching node documentRef paths.
// Failures wrap canvas.ErrListingUnavailable.
func (s *FSStore) List(ctx context.Context, location string) ([]canvas.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("canvas: list documents: %w: %w", canvas.ErrListingUnavailable, err)
	}

	entries, err := os.ReadDir(filepath.Join(s.base, location))
	if err != nil {
		return nil, fmt.Errorf("canvas: list documents: %w: %w", canvas.ErrListingUnavailable, err)
	}

	docs := []canvas.Document{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), markdownExt) {
			continue
		}
		docs = append(docs, canvas.Document{
			Name: e.Name(),
			Path: filepath.ToSlash(filepath.Join(location, e.Name())),
		})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })

	return docs, nil
}

// Read returns the content of the document at the given location-prefixed
// path. Returns canvas.ErrDocumentNotFound if it does not exist.
func (s *FSStore) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("canvas: read document: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(s.base, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, canvas.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("canvas: read document: %w", err)
	}
	return data, nil
}
