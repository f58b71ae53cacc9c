// Package file implements canvas.GraphStore as one JSON blob per key
// under a base directory. This is the default persistence backend.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/meikuraledutech/canvas"
)

// Store persists graphs as <base>/<key>.json files.
type Store struct {
	base string
}

// New creates a Store rooted at the given base directory.
// The directory is created on the first Save.
func New(base string) *Store {
	return &Store{base: base}
}

// Load reads and decodes the blob stored under key.
// Returns canvas.ErrGraphNotFound if no blob exists.
func (s *Store) Load(ctx context.Context, key string) (*canvas.WorkflowGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("canvas: load graph: %w", err)
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, canvas.ErrGraphNotFound
		}
		return nil, fmt.Errorf("canvas: load graph: %w", err)
	}

	var g canvas.WorkflowGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("canvas: decode graph: %w", err)
	}
	return &g, nil
}

// Save stamps SavedAt and overwrites the blob under key.
// The write goes through a temp file and rename so a crash mid-write
// never leaves a truncated blob behind.
func (s *Store) Save(ctx context.Context, key string, g *canvas.WorkflowGraph) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("canvas: save graph: %w", err)
	}

	if err := os.MkdirAll(s.base, 0o755); err != nil {
		return fmt.Errorf("canvas: save graph: %w", err)
	}

	g.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("canvas: encode graph: %w", err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("canvas: save graph: %w", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("canvas: save graph: %w", err)
	}
	return nil
}

// Delete removes the blob under key. No error if it doesn't exist.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("canvas: delete graph: %w", err)
	}

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("canvas: delete graph: %w", err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.base, key+".json")
}
