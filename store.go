package canvas

import (
	"context"
	"errors"
)

var (
	ErrNodeNotFound       = errors.New("canvas: node not found")
	ErrEdgeNotFound       = errors.New("canvas: edge not found")
	ErrGraphNotFound      = errors.New("canvas: graph not found")
	ErrDocumentNotFound   = errors.New("canvas: document not found")
	ErrListingUnavailable = errors.New("canvas: document listing unavailable")
)

// GraphStore is the contract for persisting workflow graphs as opaque
// blobs keyed by name. Saves are full overwrites, last write wins.
type GraphStore interface {
	// Load returns the graph stored under key.
	// Returns ErrGraphNotFound if no blob exists, which is the normal
	// first-run outcome.
	Load(ctx context.Context, key string) (*WorkflowGraph, error)

	// Save stamps SavedAt and overwrites the blob under key.
	Save(ctx context.Context, key string, g *WorkflowGraph) error

	// Delete removes the blob under key. No error if absent.
	Delete(ctx context.Context, key string) error
}

// DocumentStore is the contract for enumerating and reading the markdown
// documents a location holds. The reconciler only uses List.
type DocumentStore interface {
	// List returns the markdown documents in a location, sorted by name.
	// Failures wrap ErrListingUnavailable so callers can degrade to
	// cached availability instead of mass-orphaning.
	List(ctx context.Context, location string) ([]Document, error)

	// Read returns the raw content of the document at path.
	// Returns ErrDocumentNotFound if it does not exist.
	Read(ctx context.Context, path string) ([]byte, error)
}
